package engine

import "github.com/gnaf-verify/internal/refdata"

// StateMatch ranks how the state was established.
type StateMatch int

const (
	StateNone     StateMatch = 0
	StateFallback StateMatch = 1 // taken from the best suburb's provenance
	StateDerived  StateMatch = 2 // inferred from postcode or suburb set
	StateExact    StateMatch = 3 // supplied or embedded and valid
)

// PostcodeMatch ranks how the postcode was established.
type PostcodeMatch int

const (
	PostcodeNone       PostcodeMatch = 0
	PostcodeFromSuburb PostcodeMatch = 4  // single postcode implied by the suburb
	PostcodeDerived    PostcodeMatch = 8  // corrected or inferred
	PostcodeExact      PostcodeMatch = 12 // supplied or embedded and valid
)

// SuburbMatch ranks the quality of the suburb match.
type SuburbMatch int

const (
	SuburbNone       SuburbMatch = 0
	SuburbNeighbour  SuburbMatch = 64
	SuburbLooksLike  SuburbMatch = 96
	SuburbSoundsLike SuburbMatch = 128
	SuburbAlias      SuburbMatch = 160
	SuburbTextExact  SuburbMatch = 192
	SuburbAPIExact   SuburbMatch = 240
)

// StreetSourceMatch ranks the provenance of the matched street.
type StreetSourceMatch int

const (
	StreetSourceNone       StreetSourceMatch = 0
	StreetSourceLooksLike  StreetSourceMatch = 768
	StreetSourceSoundsLike StreetSourceMatch = 1024
	StreetSourceAlias      StreetSourceMatch = 1280
	StreetSourcePrimary    StreetSourceMatch = 1792
)

// HouseMatch ranks house-number resolution.
type HouseMatch int

const (
	HouseNone   HouseMatch = 0
	HouseNearby HouseMatch = 4096
	HouseExact  HouseMatch = 8192
)

const (
	scoreStreetPresent = 256
	scoreHousePresent  = 2048
	scoreBuilding      = 16384
)

// MatchConfidence is the structured confidence record. The integer
// bitmask exists only at the serialization boundary, via Encode.
type MatchConfidence struct {
	State         StateMatch
	Postcode      PostcodeMatch
	Suburb        SuburbMatch
	StreetPresent bool
	StreetSource  StreetSourceMatch
	HousePresent  bool
	House         HouseMatch
	Building      bool
}

// Encode collapses the confidence record to the legacy integer score.
func (c MatchConfidence) Encode() int {
	score := int(c.State) + int(c.Postcode) + int(c.Suburb)
	if c.StreetPresent {
		score += scoreStreetPresent
	}
	score += int(c.StreetSource)
	if c.HousePresent {
		score += scoreHousePresent
	}
	score += int(c.House)
	if c.Building {
		score += scoreBuilding
	}
	return score
}

// suburbMatchFor maps a suburb candidate's provenance onto the score tier.
func suburbMatchFor(cand *suburbCand) SuburbMatch {
	if cand == nil {
		return SuburbNone
	}
	switch cand.Tag.Via {
	case refdata.DerivedSound:
		return SuburbSoundsLike
	case refdata.DerivedLooks:
		return SuburbLooksLike
	}
	switch cand.Tag.Source {
	case refdata.SourceNeighbour:
		return SuburbNeighbour
	case refdata.SourceAlias:
		return SuburbAlias
	}
	if cand.FromAPI {
		return SuburbAPIExact
	}
	return SuburbTextExact
}

// streetSourceFor maps a street candidate's provenance onto the score tier.
func streetSourceFor(tag refdata.Tag) StreetSourceMatch {
	switch tag.Via {
	case refdata.DerivedSound:
		return StreetSourceSoundsLike
	case refdata.DerivedLooks:
		return StreetSourceLooksLike
	}
	if tag.Source == refdata.SourceAlias {
		return StreetSourceAlias
	}
	return StreetSourcePrimary
}
