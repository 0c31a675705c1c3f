package engine

import (
	"github.com/gnaf-verify/internal/debug"
	"github.com/gnaf-verify/internal/editdist"
	"github.com/gnaf-verify/internal/phonetics"
	"github.com/gnaf-verify/internal/refdata"
)

// Fuzz levels, applied in order until a usable street (and house, when
// one was asked for) emerges. Lower levels are cheap and conservative;
// higher levels progressively relax geography.
const (
	FuzzExact          = 1  // baseline: exact street only
	FuzzStreetSound    = 2  // streets that sound alike
	FuzzStreetLooks    = 3  // streets within edit distance
	FuzzSuburbSound    = 4  // suburbs that sound alike
	FuzzSuburbLooks    = 5  // suburbs within edit distance
	FuzzNeighbours     = 6  // wake dormant neighbour-suburb sources
	FuzzPostcodeNearby = 7  // reinstate exact streets parked on postcode
	FuzzPostcodeWide   = 8  // reinstate all streets parked on postcode
	FuzzStreetType     = 9  // ignore street type mismatches
	FuzzCrossState     = 10 // reinstate streets parked on state
)

// applyFuzzLevel mutates the working sets for one ladder level and
// reports whether anything changed. Level 1 is the no-op baseline.
func (r *request) applyFuzzLevel(level int) bool {
	r.fuzzLevel = level
	switch level {
	case FuzzExact:
		return true
	case FuzzStreetSound:
		return r.fuzzStreetsBySound()
	case FuzzStreetLooks:
		return r.fuzzStreetsByDistance()
	case FuzzSuburbSound:
		return r.fuzzSuburbsBySound()
	case FuzzSuburbLooks:
		return r.fuzzSuburbsByDistance()
	case FuzzNeighbours:
		return r.reinstateNeighbourSuburbs()
	case FuzzPostcodeNearby:
		return r.reinstateParkedPostcode(3)
	case FuzzPostcodeWide:
		return r.reinstateParkedPostcode(maxFuzzLevel)
	case FuzzStreetType:
		return r.fuzzStreetTypes()
	case FuzzCrossState:
		return r.reinstateParkedState()
	}
	return false
}

const maxFuzzLevel = FuzzCrossState

// fuzzStreetsBySound admits streets whose name shares the phonetic code
// of the extracted name and sits within a generous edit bound. Entries
// with a different type or suffix are parked for level 9.
func (r *request) fuzzStreetsBySound() bool {
	if r.streetName == "" {
		return false
	}
	bound := (len(r.streetName) + 6) / 4
	changed := false
	for _, entry := range r.ds.StreetsBySound(phonetics.Code(r.streetName)) {
		if entry.Key.Name == r.streetName && entry.Key.Type == r.streetType &&
			entry.Key.Suffix == r.streetSuffix {
			continue
		}
		if entry.Key.Name != r.streetName &&
			editdist.Bounded(entry.Key.Name, r.streetName, bound) < 0 {
			continue
		}
		if !r.typeAndSuffixMatch(entry.Key) {
			r.parkTypeMismatch(entry, refdata.DerivedSound)
			continue
		}
		if r.addStreetEntry(entry, refdata.DerivedSound) > 0 {
			changed = true
		}
	}
	debug.Output(r.trace, "fuzz %d: sound-alike streets, changed=%v", r.fuzzLevel, changed)
	return changed
}

// fuzzStreetsByDistance scans the length-bucketed street index for names
// within a tight edit bound, relaxed to double when one name contains
// the other as a prefix or suffix.
func (r *request) fuzzStreetsByDistance() bool {
	if r.streetName == "" {
		return false
	}
	bound := (len(r.streetName) + 6) / 5
	changed := false
	for length := len(r.streetName) - bound; length <= len(r.streetName)+bound; length++ {
		for _, entry := range r.ds.StreetsByLen[length] {
			if entry.Key.Name == r.streetName {
				continue
			}
			d := editdist.Bounded(entry.Key.Name, r.streetName, 2*bound)
			if d < 0 || (d > bound && !prefixOrSuffix(entry.Key.Name, r.streetName)) {
				continue
			}
			if !r.typeAndSuffixMatch(entry.Key) {
				r.parkTypeMismatch(entry, refdata.DerivedLooks)
				continue
			}
			if r.addStreetEntry(entry, refdata.DerivedLooks) > 0 {
				changed = true
			}
		}
	}
	debug.Output(r.trace, "fuzz %d: look-alike streets, changed=%v", r.fuzzLevel, changed)
	return changed
}

// fuzzSuburbsBySound admits suburbs phonetically identical to any suburb
// text seen so far, then re-ranks.
func (r *request) fuzzSuburbsBySound() bool {
	before := len(r.validSuburbs)
	for _, text := range r.suburbTexts() {
		for _, entry := range r.ds.SuburbsBySound(phonetics.Code(text)) {
			if entry.Name == text {
				continue
			}
			r.addSuburbEntry(entry, r.stateFilter(), refdata.DerivedSound, text, false)
		}
	}
	changed := len(r.validSuburbs) != before
	if changed {
		r.computeBestSuburb()
	}
	debug.Output(r.trace, "fuzz %d: sound-alike suburbs, changed=%v", r.fuzzLevel, changed)
	return changed
}

// fuzzSuburbsByDistance admits suburbs within edit distance of any suburb
// text seen so far, scanning the length-bucketed index.
func (r *request) fuzzSuburbsByDistance() bool {
	before := len(r.validSuburbs)
	for _, text := range r.suburbTexts() {
		bound := (len(text) + 6) / 4
		for length := len(text) - bound; length <= len(text)+bound; length++ {
			for _, entry := range r.ds.SuburbsByLen[length] {
				if entry.Name == text {
					continue
				}
				if editdist.Bounded(entry.Name, text, bound) < 0 {
					continue
				}
				r.addSuburbEntry(entry, r.stateFilter(), refdata.DerivedLooks, text, false)
			}
		}
	}
	changed := len(r.validSuburbs) != before
	if changed {
		r.computeBestSuburb()
	}
	debug.Output(r.trace, "fuzz %d: look-alike suburbs, changed=%v", r.fuzzLevel, changed)
	return changed
}

// reinstateNeighbourSuburbs wakes the dormant neighbour-derived sources
// of every suburb already in the working set.
func (r *request) reinstateNeighbourSuburbs() bool {
	changed := false
	for _, c := range r.sortedSuburbs() {
		sources := c.Entry.ByState[c.StatePID]
		for _, tag := range sortedTags(sources) {
			if tag.Source != refdata.SourceNeighbour {
				continue
			}
			r.addValidSuburb(&suburbCand{
				Entry:    c.Entry,
				StatePID: c.StatePID,
				Tag:      tag,
				Places:   sources[tag],
				Text:     c.Text,
				FromAPI:  c.FromAPI,
			})
			changed = true
		}
	}
	if changed {
		r.computeBestSuburb()
	}
	debug.Output(r.trace, "fuzz %d: neighbour suburbs, changed=%v", r.fuzzLevel, changed)
	return changed
}

// reinstateParkedPostcode returns streets parked for a postcode mismatch
// at or below the given level to the valid set.
func (r *request) reinstateParkedPostcode(throughLevel int) bool {
	n := 0
	for level := 0; level <= throughLevel; level++ {
		rows := r.parkedWrongPostcode[level]
		if len(rows) == 0 {
			continue
		}
		n += r.reinstate(rows, refdata.DerivedNone)
		delete(r.parkedWrongPostcode, level)
	}
	if n > 0 {
		r.addMessage("street found under a different postcode")
		r.computeBestSuburb()
	}
	debug.Output(r.trace, "fuzz %d: reinstated %d postcode-parked rows", r.fuzzLevel, n)
	return n > 0
}

// fuzzStreetTypes admits same-name streets of a different type, entries
// whose sound matches the name plus type joined, and everything parked
// for a type mismatch at earlier levels.
func (r *request) fuzzStreetTypes() bool {
	changed := false
	if r.streetName != "" {
		for _, entry := range r.ds.StreetsByName[r.streetName] {
			if entry.Key.Type == r.streetType && entry.Key.Suffix == r.streetSuffix {
				continue
			}
			if r.addStreetEntry(entry, refdata.DerivedNone) > 0 {
				changed = true
			}
		}
		// The type word may really be part of the name: LONG REEF vs
		// LONGREEF STREET style inputs.
		if r.streetType != "" {
			joined := phonetics.Code(r.streetName + " " + r.streetType)
			for _, entry := range r.ds.StreetsBySound(joined) {
				if r.addStreetEntry(entry, refdata.DerivedSound) > 0 {
					changed = true
				}
			}
		}
	}
	if len(r.parkedWrongType) > 0 {
		r.reinstate(r.parkedWrongType, refdata.DerivedNone)
		r.parkedWrongType = nil
		changed = true
	}
	if changed {
		r.addMessage("street type did not match")
	}
	debug.Output(r.trace, "fuzz %d: street types, changed=%v", r.fuzzLevel, changed)
	return changed
}

// reinstateParkedState returns every street parked for a state mismatch
// and admits the suburbs of their localities so the intersection can
// succeed across the border.
func (r *request) reinstateParkedState() bool {
	n := 0
	for level := 0; level <= maxFuzzLevel; level++ {
		rows := r.parkedWrongState[level]
		if len(rows) == 0 {
			continue
		}
		for _, row := range rows {
			loc := row.Place.LocalityPID
			if name := r.ds.LocalityName[loc]; name != "" {
				if entry := r.ds.LookupSuburb(name); entry != nil {
					r.addSuburbEntry(entry, r.ds.StateOfLocality(loc), refdata.DerivedNone, name, false)
				}
			}
		}
		n += r.reinstate(rows, refdata.DerivedNone)
		delete(r.parkedWrongState, level)
	}
	if n > 0 {
		r.addMessage("street found in a different state")
		r.computeBestSuburb()
	}
	debug.Output(r.trace, "fuzz %d: reinstated %d state-parked rows", r.fuzzLevel, n)
	return n > 0
}

// parkTypeMismatch stores every source row of an entry in the type
// parking area for level 9 to pick up.
func (r *request) parkTypeMismatch(entry *refdata.StreetEntry, via refdata.Derivation) {
	for _, tag := range sortedStreetTags(entry.Sources) {
		rows := entry.Sources[tag]
		for _, pid := range sortedPlaceKeys(rows) {
			r.parkedWrongType = append(r.parkedWrongType, parkedStreet{
				Entry: entry,
				Tag:   tag.WithVia(via),
				PID:   pid,
				Place: rows[pid],
			})
		}
	}
}

// typeAndSuffixMatch treats an absent extracted type or suffix as a
// wildcard.
func (r *request) typeAndSuffixMatch(key refdata.StreetKey) bool {
	if r.streetType != "" && key.Type != r.streetType {
		return false
	}
	if r.streetSuffix != "" && key.Suffix != r.streetSuffix {
		return false
	}
	return true
}

// suburbTexts collects the distinct literal texts that may name a suburb:
// every candidate already matched plus every fragment recorded during
// scanning.
func (r *request) suburbTexts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range r.sortedSuburbs() {
		if t := c.Text; t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, st := range r.foundSuburbText {
		if st.Text != "" && !seen[st.Text] {
			seen[st.Text] = true
			out = append(out, st.Text)
		}
	}
	return out
}

func (r *request) stateFilter() string {
	if r.validState != nil {
		return r.validState.PID
	}
	return ""
}

func prefixOrSuffix(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	return len(a) > 0 && (b[:len(a)] == a || b[len(b)-len(a):] == a)
}
