// Package refdata holds the in-memory reference snapshot the verification
// engine matches against: states, postcodes, suburbs, streets, street
// numbers, buildings, the locality neighbour graph and the mesh-block
// statistical lookups. A Dataset is built once by a loader and is
// read-only afterwards, so it can be shared by concurrent requests.
package refdata

import (
	"regexp"
	"sort"

	"github.com/gnaf-verify/internal/phonetics"
)

// Dataset is the immutable-after-build reference snapshot. All fields are
// populated by Builder.Build; nothing may mutate them afterwards.
type Dataset struct {
	States      []State
	StatesByPID map[string]*State

	Postcodes map[string]*Postcode

	// Suburbs indexes by phonetic code then literal name. SuburbsByLen
	// buckets entries by name length for edit-distance scans.
	Suburbs      map[string]map[string]*SuburbEntry
	SuburbsByLen map[int][]*SuburbEntry

	// Streets indexes by phonetic code of the name then composite key.
	Streets       map[string]map[StreetKey]*StreetEntry
	StreetsByName map[string][]*StreetEntry
	StreetsByLen  map[int][]*StreetEntry
	ShortStreets  []*ShortStreet

	// PrimaryStreet maps a street PID to the entry holding its primary
	// (non-alias) name.
	PrimaryStreet map[string]*StreetEntry

	// Houses maps street PID to house number to property record.
	Houses map[string]map[int]House

	StreetsByLocality  map[string]map[string]bool
	LocalityState      map[string]string
	LocalityName       map[string]string
	LocalityGeo        map[string]GeoPoint
	LocalityPostcodes  map[string]map[string]bool
	PostcodeLocalities map[string][]string
	LocalityProperties map[string]int
	Neighbours         map[string][]string

	Buildings []*Building

	MeshSA1 map[string]string
	MeshLGA map[string]string

	StreetTypes       map[string]*StreetType
	StreetTypeAliases map[string]string
	StreetTypeSuburbs map[string][]string
	StreetSuffixes    map[string]string

	PostalPatterns []PostalPattern
	FlatPatterns   []*regexp.Regexp
	LevelPatterns  []*regexp.Regexp
	ExtraTrims     []*regexp.Regexp
}

// MatchState resolves a token against state names and abbreviations.
// Returns nil when no state matches.
func (ds *Dataset) MatchState(tok string) *State {
	for i := range ds.States {
		if ds.States[i].Matches(tok) {
			return &ds.States[i]
		}
	}
	return nil
}

// LookupSuburb finds the suburb entry whose literal name matches exactly.
func (ds *Dataset) LookupSuburb(name string) *SuburbEntry {
	byName := ds.Suburbs[phonetics.Code(name)]
	if byName == nil {
		return nil
	}
	return byName[name]
}

// SuburbsBySound returns every suburb entry sharing a phonetic code,
// sorted by name for deterministic iteration.
func (ds *Dataset) SuburbsBySound(sound string) []*SuburbEntry {
	byName := ds.Suburbs[sound]
	if len(byName) == 0 {
		return nil
	}
	names := sortedKeys(byName)
	out := make([]*SuburbEntry, 0, len(names))
	for _, n := range names {
		out = append(out, byName[n])
	}
	return out
}

// LookupStreet finds the street entry for an exact composite key.
func (ds *Dataset) LookupStreet(key StreetKey) *StreetEntry {
	return ds.lookupStreetBySound(phonetics.Code(key.Name), key)
}

func (ds *Dataset) lookupStreetBySound(sound string, key StreetKey) *StreetEntry {
	byKey := ds.Streets[sound]
	if byKey == nil {
		return nil
	}
	return byKey[key]
}

// StreetsBySound returns every street entry sharing a phonetic code,
// sorted by composite key for deterministic iteration.
func (ds *Dataset) StreetsBySound(sound string) []*StreetEntry {
	byKey := ds.Streets[sound]
	if len(byKey) == 0 {
		return nil
	}
	keys := make([]StreetKey, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	out := make([]*StreetEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

// HouseAt returns the property record for a house number on a street.
func (ds *Dataset) HouseAt(streetPID string, number int) (House, bool) {
	h, ok := ds.Houses[streetPID][number]
	return h, ok
}

// CanonicalStreetType resolves a type token (full name or abbreviation)
// to the canonical type name.
func (ds *Dataset) CanonicalStreetType(tok string) (string, bool) {
	t, ok := ds.StreetTypeAliases[tok]
	return t, ok
}

// StateOfLocality returns the state PID a locality belongs to.
func (ds *Dataset) StateOfLocality(localityPID string) string {
	return ds.LocalityState[localityPID]
}

// PostcodeValidForState reports whether the postcode occurs in the state.
func (ds *Dataset) PostcodeValidForState(code, statePID string) bool {
	pc := ds.Postcodes[code]
	if pc == nil {
		return false
	}
	_, ok := pc.ByState[statePID]
	return ok
}

// LocalityHasPostcode reports whether a locality is known under the
// postcode.
func (ds *Dataset) LocalityHasPostcode(localityPID, code string) bool {
	return ds.LocalityPostcodes[localityPID][code]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
