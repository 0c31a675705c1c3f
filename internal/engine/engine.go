// Package engine implements the address verification pipeline: token
// extraction, suburb/state/postcode validation, street matching with an
// escalating fuzz ladder, house-number resolution and result assembly.
// An Engine is safe for concurrent use; all per-call state lives in a
// private request context.
package engine

import (
	"strings"

	"github.com/gnaf-verify/internal/debug"
	"github.com/gnaf-verify/internal/normalize"
	"github.com/gnaf-verify/internal/refdata"
)

// Engine verifies free-text addresses against a reference dataset.
type Engine struct {
	ds   *refdata.Dataset
	opts *Options
}

// New builds an engine over a dataset. A nil opts gets DefaultOptions.
func New(ds *refdata.Dataset, opts *Options) *Engine {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Engine{ds: ds, opts: opts}
}

// Verify matches one address. It always returns a Result: failure to
// match is reported through Status, Accuracy and Messages.
func (e *Engine) Verify(addr Address) *Result {
	r := newRequest(e, addr.ID)
	debug.Header(r.trace)
	defer debug.Footer(r.trace)

	r.line = joinCleanLines(addr.AddressLines)
	if r.line == "" {
		r.result.Status = StatusInvalid
		r.result.FuzzLevel = -1
		r.addMessage("no address text supplied")
		return r.result
	}
	debug.Output(r.trace, "input %q", r.line)

	r.applyAPIFields(addr)
	r.scanTrailingTokens()
	r.extractTokens()

	residual := r.residual
	if r.postalText2 != "" {
		residual = joinNonEmpty(", ", residual, r.postalText2)
	}
	if r.opts.CommunityNames {
		residual = expandCommunityWords(residual)
	}
	if leftover := r.scanForSuburb(residual, false, true); leftover != "" {
		debug.Output(r.trace, "unmatched text %q", leftover)
	}

	if !r.rules12() {
		return r.finalize()
	}

	if r.streetName != "" {
		r.runLadder()
	} else {
		r.resolveBuildingProperty()
	}

	return r.finalize()
}

// runLadder seeds the street working set and escalates through the
// configured fuzz levels until a house resolves, or a street does when
// no house number was supplied. When the ladder ends with streets but no
// house, the best street stands as a street-level result.
func (r *request) runLadder() {
	r.createValidStreets()

	for _, level := range r.opts.FuzzLevels {
		if level < FuzzExact || level > FuzzCrossState {
			continue
		}
		// A standing street match stops the ladder before the type and
		// state relaxations can trade it for a fuzzier property.
		if level > FuzzPostcodeWide && r.street != nil {
			break
		}
		r.usedFuzz = true
		if !r.applyFuzzLevel(level) && level != FuzzExact {
			continue
		}
		if r.validateStreets() == 0 {
			continue
		}
		if hit := r.resolveHouse(); hit != nil {
			r.house = hit
			return
		}
		if !r.hasHouse {
			r.street = r.chooseStreet()
			r.streetLevel = level
			return
		}
		if r.street == nil {
			r.street = r.chooseStreet()
			r.streetLevel = level
		}
	}
}

// resolveBuildingProperty pins a property through a matched building when
// the input carried no street. The building's entries name the exact
// street PID and house number.
func (r *request) resolveBuildingProperty() {
	for _, bh := range r.foundBuildings {
		for _, be := range bh.Building.Entries {
			if r.hasHouse && be.HouseNo != r.houseNo {
				continue
			}
			if r.validState != nil &&
				r.ds.StateOfLocality(be.LocalityPID) != r.validState.PID {
				continue
			}
			entry := r.ds.PrimaryStreet[be.StreetPID]
			if entry == nil {
				continue
			}
			h, ok := r.ds.HouseAt(be.StreetPID, be.HouseNo)
			if !ok {
				continue
			}
			r.house = &houseHit{
				Street: subsetStreet{
					PID:       be.StreetPID,
					Place:     refdata.StreetPlace{LocalityPID: be.LocalityPID, Lat: h.Lat, Lon: h.Lon},
					Entry:     entry,
					StreetTag: refdata.Tag{Source: refdata.SourcePrimary},
					Suburb:    r.bestSuburb,
				},
				House:  h,
				Number: be.HouseNo,
				Exact:  true,
			}
			debug.Output(r.trace, "building %q pinned property %s", bh.Building.Name, h.AddressPID)
			return
		}
	}
}

func joinCleanLines(lines []string) string {
	var parts []string
	for _, l := range lines {
		if c := normalize.Clean(l, false); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, ", ")
}
