package refdata

import (
	"fmt"
	"regexp"
	"strings"
)

// GeoPoint is the geocode tuple attached to suburb and postcode records.
type GeoPoint struct {
	SA1 string
	LGA string
	Lat float64
	Lon float64
}

// House is one numbered property on a street.
type House struct {
	MeshBlock  string
	Lat        float64
	Lon        float64
	IsLot      bool
	AddressPID string
}

// State is one Australian state or territory.
type State struct {
	PID        string
	Abbrev     string
	Name       string
	AltAbbrevs []string
}

// Matches reports whether tok is this state's full name, abbreviation or
// one of its extra abbreviations.
func (s *State) Matches(tok string) bool {
	tok = strings.ToUpper(strings.TrimSpace(tok))
	if tok == "" {
		return false
	}
	if tok == s.Abbrev || tok == s.Name {
		return true
	}
	for _, a := range s.AltAbbrevs {
		if tok == a {
			return true
		}
	}
	return false
}

// Postcode maps a 4-digit code to the states it occurs in and, per state,
// to suburb-level geocode data. The empty suburb name holds the geocode
// for the postcode as a whole.
type Postcode struct {
	Code    string
	ByState map[string]map[string]GeoPoint
}

// States returns the sorted state PIDs this postcode occurs in.
func (p *Postcode) States() []string {
	return sortedKeys(p.ByState)
}

// SuburbEntry is one suburb name with all the states, sources and
// localities it is known under. A single name can exist in several states
// and under several provenance tags at once.
type SuburbEntry struct {
	Name    string
	Sound   string
	ByState map[string]StateSources
}

// StateSources maps provenance tag to the keyed geocode data for one
// state. The inner key is a locality PID for G-NAF-derived sources and a
// postcode for Australia-Post-only sources.
type StateSources map[Tag]map[string]GeoPoint

// States returns the sorted state PIDs the suburb is known in.
func (e *SuburbEntry) States() []string {
	return sortedKeys(e.ByState)
}

// StreetKey is the composite identity of a street: name, type and suffix,
// any of which may be empty.
type StreetKey struct {
	Name   string
	Type   string
	Suffix string
}

// String renders the canonical tilde-separated key form.
func (k StreetKey) String() string {
	return fmt.Sprintf("%s~%s~%s", k.Name, k.Type, k.Suffix)
}

// StreetPlace locates one occurrence of a street: a street PID within a
// locality, with a representative geocode.
type StreetPlace struct {
	LocalityPID string
	Lat         float64
	Lon         float64
}

// StreetEntry is one street key with all its known occurrences, grouped
// by provenance tag then street PID. Border-crossing streets appear in
// multiple localities and states.
type StreetEntry struct {
	Key     StreetKey
	Sound   string
	Sources map[Tag]map[string]StreetPlace
}

// ShortStreet is a street with no type, matched against free text by a
// precompiled whole-name pattern.
type ShortStreet struct {
	Entry   *StreetEntry
	Pattern *regexp.Regexp
}

// BuildingEntry ties a named building to a specific property.
type BuildingEntry struct {
	HouseNo     int
	StreetPID   string
	LocalityPID string
}

// Building is a named complex or community building whose name can stand
// in for the street or suburb in input text.
type Building struct {
	Name    string
	Pattern *regexp.Regexp
	Entries []BuildingEntry
}

// StreetType is one recognised street type with its abbreviations. Count
// is how many reference streets carry the type, used to bias extraction
// toward common types. StepOne marks cul-de-sac-like types whose house
// numbers run consecutively rather than even/odd.
type StreetType struct {
	Name    string
	Abbrevs []string
	Count   int
	StepOne bool
}

// Cardinality says how many delivery numbers a postal service pattern
// expects.
type Cardinality int

const (
	NoNumber Cardinality = iota
	OneNumber
	OptionalNumber
)

// PostalPattern recognises one postal delivery service form (PO BOX, RMB
// and so on).
type PostalPattern struct {
	Name string
	Re   *regexp.Regexp
	Card Cardinality
}
