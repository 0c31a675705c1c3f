package engine

import (
	"strconv"
	"strings"

	"github.com/gnaf-verify/internal/refdata"
)

// finalize turns the request's working state into the returned Result.
// By the time it runs the accuracy tier is settled: property when a
// house resolved, street when only a street did, otherwise whatever the
// validation ladder left behind.
func (r *request) finalize() *Result {
	r.applyStreetAndHouse()
	r.applyLocation()
	r.applyLines()
	r.applyConfidence()
	return r.result
}

// finalSuburb is the suburb candidate the result is anchored on: the one
// backing the matched house or street when there is one, else the best
// candidate from validation.
func (r *request) finalSuburb() *suburbCand {
	if r.house != nil {
		return r.house.Street.Suburb
	}
	if r.street != nil {
		return r.street.Suburb
	}
	return r.bestSuburb
}

func (r *request) applyStreetAndHouse() {
	res := r.result

	if len(r.foundBuildings) > 0 {
		res.BuildingName = r.foundBuildings[0].Building.Name
	}
	res.IsPostalService = r.isPostal
	if c := r.finalSuburb(); c != nil && c.Tag.Source == refdata.SourceCommunity {
		res.IsCommunity = true
	}

	switch {
	case r.house != nil:
		h := r.house.House
		res.HouseNo = r.formatHouseNo(r.house.Number)
		res.Street = r.streetDisplay(r.house.Street, false)
		res.MeshBlock = h.MeshBlock
		res.SA1 = r.ds.MeshSA1[h.MeshBlock]
		res.LGA = r.ds.MeshLGA[h.MeshBlock]
		res.GnafID = h.AddressPID
		res.Latitude = h.Lat
		res.Longitude = h.Lon
		res.Accuracy = AccuracyProperty
		res.Status = StatusFound

	case r.street != nil:
		if r.hasHouse {
			res.HouseNo = r.formatHouseNo(r.houseNo)
		}
		res.Street = r.streetDisplay(*r.street, false)
		res.Latitude = r.street.Place.Lat
		res.Longitude = r.street.Place.Lon
		res.Accuracy = AccuracyStreet
		res.Status = StatusStreet
	}
}

func (r *request) applyLocation() {
	res := r.result
	cand := r.finalSuburb()

	// The matched property or street pins the locality; the suburb name
	// and state follow it, which matters when a cross-state fuzz level
	// moved the match over a border.
	var localityPID string
	if r.house != nil {
		localityPID = r.house.Street.Place.LocalityPID
	} else if r.street != nil {
		localityPID = r.street.Place.LocalityPID
	}

	switch {
	case localityPID != "":
		res.Suburb = r.ds.LocalityName[localityPID]
		if st := r.ds.StatesByPID[r.ds.StateOfLocality(localityPID)]; st != nil {
			res.State = st.Abbrev
		}
		res.Postcode = r.validPostcode
		// A suburb-derived postcode must not survive a match that landed
		// in a different locality.
		if res.Postcode == "" || r.postcodeHow == PostcodeFromSuburb {
			if pc := r.singlePostcodeOfLocality(localityPID); pc != "" {
				res.Postcode = pc
				if r.postcodeHow == PostcodeNone {
					r.postcodeHow = PostcodeFromSuburb
				}
			}
		}
	case cand != nil:
		res.Suburb = cand.Entry.Name
		if r.validState != nil {
			res.State = r.validState.Abbrev
		}
		res.Postcode = r.validPostcode
		r.applySuburbGeo(cand)
	default:
		if r.validState != nil {
			res.State = r.validState.Abbrev
		}
		res.Postcode = r.validPostcode
		r.applyPostcodeGeo()
	}
}

// applySuburbGeo fills the geocode fields from the suburb's first place
// in deterministic order when no street or house pinned one.
func (r *request) applySuburbGeo(cand *suburbCand) {
	keys := sortedPlaceKeys(cand.Places)
	if len(keys) == 0 {
		return
	}
	geo := cand.Places[keys[0]]
	if geo.Lat == 0 && geo.Lon == 0 {
		r.addMessage("no geocode data for suburb " + cand.Entry.Name)
		return
	}
	r.result.SA1 = geo.SA1
	r.result.LGA = geo.LGA
	r.result.Latitude = geo.Lat
	r.result.Longitude = geo.Lon
}

// applyPostcodeGeo fills the geocode fields for a postcode-only result
// from the whole-postcode tuple when one exists.
func (r *request) applyPostcodeGeo() {
	if r.validPostcode == "" || r.validState == nil {
		return
	}
	pc := r.ds.Postcodes[r.validPostcode]
	if pc == nil {
		return
	}
	geo, ok := pc.ByState[r.validState.PID][""]
	if !ok {
		return
	}
	r.result.SA1 = geo.SA1
	r.result.LGA = geo.LGA
	r.result.Latitude = geo.Lat
	r.result.Longitude = geo.Lon
}

func (r *request) singlePostcodeOfLocality(localityPID string) string {
	pcs := r.ds.LocalityPostcodes[localityPID]
	if len(pcs) != 1 {
		return ""
	}
	for pc := range pcs {
		return pc
	}
	return ""
}

func (r *request) applyLines() {
	res := r.result

	full := r.buildLine1(false)
	abbrev := r.buildLine1(true)
	line2 := joinNonEmpty(" ", res.Suburb, res.State, res.Postcode)

	switch {
	case r.opts.ReturnBoth:
		res.AddressLine1 = full
		res.AddressLine2 = line2
		res.AddressLine1Abbrev = abbrev
		res.AddressLine2Abbrev = line2
	case r.opts.Abbreviate:
		res.AddressLine1 = abbrev
		res.AddressLine2 = line2
	default:
		res.AddressLine1 = full
		res.AddressLine2 = line2
	}
}

func (r *request) buildLine1(abbrev bool) string {
	if r.isPostal {
		return r.postalText1
	}

	street := ""
	switch {
	case r.house != nil:
		street = r.streetDisplay(r.house.Street, abbrev)
	case r.street != nil:
		street = r.streetDisplay(*r.street, abbrev)
	}

	return joinNonEmpty(" ", r.trim, r.result.BuildingName, r.result.HouseNo, street)
}

// streetDisplay renders a street row for output, preferring the primary
// name when the match came through an alias.
func (r *request) streetDisplay(s subsetStreet, abbrev bool) string {
	key := s.Entry.Key
	if primary := r.ds.PrimaryStreet[s.PID]; primary != nil {
		key = primary.Key
	}

	stype := key.Type
	if abbrev && stype != "" {
		if st := r.ds.StreetTypes[stype]; st != nil && len(st.Abbrevs) > 0 {
			stype = st.Abbrevs[0]
		}
	}
	return joinNonEmpty(" ", key.Name, stype, key.Suffix)
}

func (r *request) formatHouseNo(n int) string {
	s := strconv.Itoa(n)
	if r.isLot {
		return "LOT " + s
	}
	if r.isRange && n == r.houseNo && r.houseNo2 > r.houseNo && r.house == nil {
		return s + "-" + strconv.Itoa(r.houseNo2)
	}
	return s
}

func (r *request) applyConfidence() {
	cand := r.finalSuburb()
	c := MatchConfidence{
		State:    r.stateHow,
		Postcode: r.postcodeHow,
		Suburb:   suburbMatchFor(cand),
		Building: len(r.foundBuildings) > 0,
	}

	switch {
	case r.house != nil:
		c.StreetPresent = true
		c.StreetSource = streetSourceFor(r.house.Street.StreetTag)
		c.HousePresent = true
		if r.house.Exact {
			c.House = HouseExact
		} else {
			c.House = HouseNearby
		}
	case r.street != nil:
		c.StreetPresent = true
		c.StreetSource = streetSourceFor(r.street.StreetTag)
		c.HousePresent = r.hasHouse
	}

	r.result.Score = c.Encode()
	r.result.FuzzLevel = r.fuzzLevel
	// A street-level result reports the level that produced the street,
	// not the last level the ladder tried after it.
	if r.house == nil && r.street != nil && r.streetLevel > 0 {
		r.result.FuzzLevel = r.streetLevel
	}
	if !r.usedFuzz {
		r.result.FuzzLevel = -1
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
