package refdata

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gnaf-verify/internal/phonetics"
)

// Builder accumulates reference data from a loader and produces an
// immutable Dataset. Builders are not safe for concurrent use; load fully,
// call Build once, then share the Dataset freely.
type Builder struct {
	ds *Dataset

	// NeighbourDepth bounds how far geocode data propagates through the
	// locality neighbour graph when deriving GN suburb sources.
	NeighbourDepth int

	streetKeyByPID map[string]StreetKey
	buildingAccum  map[string][]BuildingEntry
}

// NewBuilder creates an empty builder with the default street type,
// suffix, postal service and trim pattern tables registered.
func NewBuilder() *Builder {
	b := &Builder{
		ds: &Dataset{
			StatesByPID:        make(map[string]*State),
			Postcodes:          make(map[string]*Postcode),
			Suburbs:            make(map[string]map[string]*SuburbEntry),
			SuburbsByLen:       make(map[int][]*SuburbEntry),
			Streets:            make(map[string]map[StreetKey]*StreetEntry),
			StreetsByName:      make(map[string][]*StreetEntry),
			StreetsByLen:       make(map[int][]*StreetEntry),
			PrimaryStreet:      make(map[string]*StreetEntry),
			Houses:             make(map[string]map[int]House),
			StreetsByLocality:  make(map[string]map[string]bool),
			LocalityState:      make(map[string]string),
			LocalityName:       make(map[string]string),
			LocalityGeo:        make(map[string]GeoPoint),
			LocalityPostcodes:  make(map[string]map[string]bool),
			LocalityProperties: make(map[string]int),
			Neighbours:         make(map[string][]string),
			MeshSA1:            make(map[string]string),
			MeshLGA:            make(map[string]string),
			StreetTypes:        make(map[string]*StreetType),
			StreetTypeAliases:  make(map[string]string),
			StreetTypeSuburbs:  make(map[string][]string),
			StreetSuffixes:     make(map[string]string),
		},
		NeighbourDepth: 2,
		streetKeyByPID: make(map[string]StreetKey),
		buildingAccum:  make(map[string][]BuildingEntry),
	}

	for _, st := range DefaultStreetTypes() {
		b.AddStreetType(st.Name, st.StepOne, st.Abbrevs...)
	}
	for abbrev, full := range DefaultStreetSuffixes() {
		b.AddStreetSuffix(abbrev, full)
	}
	b.ds.PostalPatterns = DefaultPostalPatterns()
	b.ds.FlatPatterns = DefaultFlatPatterns()
	b.ds.LevelPatterns = DefaultLevelPatterns()

	return b
}

// AddState registers one state with its abbreviations.
func (b *Builder) AddState(pid, abbrev, name string, altAbbrevs ...string) {
	b.ds.States = append(b.ds.States, State{
		PID:        pid,
		Abbrev:     strings.ToUpper(abbrev),
		Name:       strings.ToUpper(name),
		AltAbbrevs: upperAll(altAbbrevs),
	})
}

// AddPostcode registers geocode data for a suburb within a postcode and
// state. An empty suburb name carries the geocode for the postcode as a
// whole.
func (b *Builder) AddPostcode(code, statePID, suburbName string, geo GeoPoint) {
	pc := b.ds.Postcodes[code]
	if pc == nil {
		pc = &Postcode{Code: code, ByState: make(map[string]map[string]GeoPoint)}
		b.ds.Postcodes[code] = pc
	}
	if pc.ByState[statePID] == nil {
		pc.ByState[statePID] = make(map[string]GeoPoint)
	}
	pc.ByState[statePID][strings.ToUpper(suburbName)] = geo
}

// AddLocality registers one locality row: a suburb name in a state under
// a provenance tag. The first primary row fixes the locality's canonical
// name and geocode.
func (b *Builder) AddLocality(localityPID, statePID, name string, tag Tag, geo GeoPoint) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return
	}

	b.addSuburbSource(name, statePID, tag, localityPID, geo)

	if tag.Source == SourcePrimary || b.ds.LocalityName[localityPID] == "" {
		b.ds.LocalityName[localityPID] = name
		b.ds.LocalityGeo[localityPID] = geo
	}
	b.ds.LocalityState[localityPID] = statePID
}

// AddAusPostSuburb registers an Australia-Post-only suburb, keyed by its
// postcode rather than a locality.
func (b *Builder) AddAusPostSuburb(name, statePID, postcode string, geo GeoPoint) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return
	}
	b.addSuburbSource(name, statePID, TagAusPost, postcode, geo)
}

// AddLocalityPostcode records that a locality is addressable under a
// postcode; street postcode-consistency checks run against this mapping.
func (b *Builder) AddLocalityPostcode(localityPID, postcode string) {
	set := b.ds.LocalityPostcodes[localityPID]
	if set == nil {
		set = make(map[string]bool)
		b.ds.LocalityPostcodes[localityPID] = set
	}
	set[postcode] = true
}

// AddNeighbour records an undirected adjacency between two localities.
func (b *Builder) AddNeighbour(a, c string) {
	if a == c {
		return
	}
	b.ds.Neighbours[a] = appendUnique(b.ds.Neighbours[a], c)
	b.ds.Neighbours[c] = appendUnique(b.ds.Neighbours[c], a)
}

// AddStreet registers one street row. Alias rows share the street PID of
// their primary row. Hyphenated names and "MT " prefixes additionally
// register their split and expanded forms as aliases.
func (b *Builder) AddStreet(streetPID, localityPID, name, stype, suffix string, alias bool, lat, lon float64) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return
	}
	stype = strings.ToUpper(strings.TrimSpace(stype))
	suffix = strings.ToUpper(strings.TrimSpace(suffix))

	tag := TagPrimary
	if alias {
		tag = TagAlias
	}

	key := StreetKey{Name: name, Type: stype, Suffix: suffix}
	entry := b.addStreetSource(key, tag, streetPID, StreetPlace{LocalityPID: localityPID, Lat: lat, Lon: lon})

	if !alias {
		b.ds.PrimaryStreet[streetPID] = entry
		b.streetKeyByPID[streetPID] = key
		if st := b.ds.StreetTypes[stype]; st != nil {
			st.Count++
		}
	}

	if b.ds.StreetsByLocality[localityPID] == nil {
		b.ds.StreetsByLocality[localityPID] = make(map[string]bool)
	}
	b.ds.StreetsByLocality[localityPID][streetPID] = true

	// Spelled-out variants register as aliases of the same street.
	if strings.Contains(name, "-") {
		split := strings.ReplaceAll(name, "-", " ")
		b.addStreetSource(StreetKey{Name: split, Type: stype, Suffix: suffix},
			TagAlias, streetPID, StreetPlace{LocalityPID: localityPID, Lat: lat, Lon: lon})
	}
	if strings.HasPrefix(name, "MT ") {
		full := "MOUNT " + strings.TrimPrefix(name, "MT ")
		b.addStreetSource(StreetKey{Name: full, Type: stype, Suffix: suffix},
			TagAlias, streetPID, StreetPlace{LocalityPID: localityPID, Lat: lat, Lon: lon})
	}
}

// AddHouse registers one numbered property on a street.
func (b *Builder) AddHouse(streetPID string, number int, h House) {
	if b.ds.Houses[streetPID] == nil {
		b.ds.Houses[streetPID] = make(map[int]House)
	}
	b.ds.Houses[streetPID][number] = h
}

// AddHouseRange expands a number range into individual properties. The
// step is 1 for cul-de-sac-like street types and 2 (even/odd) otherwise.
func (b *Builder) AddHouseRange(streetPID string, from, to int, h House) {
	if to < from {
		from, to = to, from
	}
	step := 2
	if key, ok := b.streetKeyByPID[streetPID]; ok {
		if st := b.ds.StreetTypes[key.Type]; st != nil && st.StepOne {
			step = 1
		}
	}
	for n := from; n <= to; n += step {
		b.AddHouse(streetPID, n, h)
	}
}

// AddBuilding registers one property of a named building or complex.
func (b *Builder) AddBuilding(name string, houseNo int, streetPID, localityPID string) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return
	}
	b.buildingAccum[name] = append(b.buildingAccum[name], BuildingEntry{
		HouseNo:     houseNo,
		StreetPID:   streetPID,
		LocalityPID: localityPID,
	})
}

// AddMeshBlock registers the SA1 and LGA codes for a mesh block.
func (b *Builder) AddMeshBlock(code, sa1, lga string) {
	b.ds.MeshSA1[code] = sa1
	b.ds.MeshLGA[code] = lga
}

// AddStreetType registers a street type and its abbreviations. stepOne
// marks cul-de-sac-like types with consecutive house numbering.
func (b *Builder) AddStreetType(name string, stepOne bool, abbrevs ...string) {
	name = strings.ToUpper(name)
	st := b.ds.StreetTypes[name]
	if st == nil {
		st = &StreetType{Name: name, StepOne: stepOne}
		b.ds.StreetTypes[name] = st
	}
	b.ds.StreetTypeAliases[name] = name
	for _, a := range abbrevs {
		a = strings.ToUpper(a)
		st.Abbrevs = append(st.Abbrevs, a)
		b.ds.StreetTypeAliases[a] = name
	}
}

// AddStreetSuffix registers a street suffix abbreviation (N, STH, EX...).
func (b *Builder) AddStreetSuffix(abbrev, full string) {
	b.ds.StreetSuffixes[strings.ToUpper(abbrev)] = strings.ToUpper(full)
}

// AddExtraTrim registers a supplementary trim pattern (addExtras mode).
func (b *Builder) AddExtraTrim(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("extra trim pattern %q: %w", pattern, err)
	}
	b.ds.ExtraTrims = append(b.ds.ExtraTrims, re)
	return nil
}

// Build finalises the dataset: phonetic and length indexes, short-street
// and building patterns, neighbour-derived suburb sources, property
// counts and the street-type-in-suburb-name table. The builder must not
// be reused afterwards.
func (b *Builder) Build() (*Dataset, error) {
	if len(b.ds.States) == 0 {
		return nil, fmt.Errorf("refdata: no states loaded")
	}
	for i := range b.ds.States {
		b.ds.StatesByPID[b.ds.States[i].PID] = &b.ds.States[i]
	}

	b.buildSuburbIndexes()
	b.buildStreetIndexes()
	b.buildBuildings()
	b.propagateNeighbours()
	b.countLocalityProperties()
	b.buildStreetTypeSuburbs()
	b.invertLocalityPostcodes()

	return b.ds, nil
}

func (b *Builder) addSuburbSource(name, statePID string, tag Tag, key string, geo GeoPoint) {
	sound := phonetics.Code(name)
	byName := b.ds.Suburbs[sound]
	if byName == nil {
		byName = make(map[string]*SuburbEntry)
		b.ds.Suburbs[sound] = byName
	}
	entry := byName[name]
	if entry == nil {
		entry = &SuburbEntry{Name: name, Sound: sound, ByState: make(map[string]StateSources)}
		byName[name] = entry
	}
	sources := entry.ByState[statePID]
	if sources == nil {
		sources = make(StateSources)
		entry.ByState[statePID] = sources
	}
	if sources[tag] == nil {
		sources[tag] = make(map[string]GeoPoint)
	}
	sources[tag][key] = geo
}

func (b *Builder) addStreetSource(key StreetKey, tag Tag, streetPID string, place StreetPlace) *StreetEntry {
	sound := phonetics.Code(key.Name)
	byKey := b.ds.Streets[sound]
	if byKey == nil {
		byKey = make(map[StreetKey]*StreetEntry)
		b.ds.Streets[sound] = byKey
	}
	entry := byKey[key]
	if entry == nil {
		entry = &StreetEntry{Key: key, Sound: sound, Sources: make(map[Tag]map[string]StreetPlace)}
		byKey[key] = entry
		b.ds.StreetsByName[key.Name] = append(b.ds.StreetsByName[key.Name], entry)
	}
	if entry.Sources[tag] == nil {
		entry.Sources[tag] = make(map[string]StreetPlace)
	}
	entry.Sources[tag][streetPID] = place
	return entry
}

func (b *Builder) buildSuburbIndexes() {
	for _, byName := range b.ds.Suburbs {
		for name, entry := range byName {
			b.ds.SuburbsByLen[len(name)] = append(b.ds.SuburbsByLen[len(name)], entry)
		}
	}
	for _, bucket := range b.ds.SuburbsByLen {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Name < bucket[j].Name })
	}
}

func (b *Builder) buildStreetIndexes() {
	for _, byKey := range b.ds.Streets {
		for key, entry := range byKey {
			b.ds.StreetsByLen[len(key.Name)] = append(b.ds.StreetsByLen[len(key.Name)], entry)
			if key.Type == "" {
				b.ds.ShortStreets = append(b.ds.ShortStreets, &ShortStreet{
					Entry:   entry,
					Pattern: wordPattern(key.Name),
				})
			}
		}
	}
	for _, bucket := range b.ds.StreetsByLen {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Key.String() < bucket[j].Key.String() })
	}
	sort.Slice(b.ds.ShortStreets, func(i, j int) bool {
		a, c := b.ds.ShortStreets[i].Entry.Key.Name, b.ds.ShortStreets[j].Entry.Key.Name
		if len(a) != len(c) {
			return len(a) > len(c)
		}
		return a < c
	})
	for _, entries := range b.ds.StreetsByName {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Key.String() < entries[j].Key.String() })
	}
}

func (b *Builder) buildBuildings() {
	names := make([]string, 0, len(b.buildingAccum))
	for name := range b.buildingAccum {
		names = append(names, name)
	}
	// Longest names first so nested names match their most specific form
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		entries := b.buildingAccum[name]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].StreetPID != entries[j].StreetPID {
				return entries[i].StreetPID < entries[j].StreetPID
			}
			return entries[i].HouseNo < entries[j].HouseNo
		})
		b.ds.Buildings = append(b.ds.Buildings, &Building{
			Name:    name,
			Pattern: wordPattern(name),
			Entries: entries,
		})
	}
}

// propagateNeighbours derives GN suburb sources: each locality's primary
// suburb name gains geocode entries for localities reachable within the
// depth bound, so neighbour streets can be reinstated at the higher fuzz
// levels. Breadth-first with an explicit worklist.
func (b *Builder) propagateNeighbours() {
	locs := sortedKeys(b.ds.LocalityName)
	for _, loc := range locs {
		name := b.ds.LocalityName[loc]
		statePID := b.ds.LocalityState[loc]

		type queued struct {
			pid   string
			depth int
		}
		visited := map[string]bool{loc: true}
		work := []queued{{loc, 0}}

		for len(work) > 0 {
			cur := work[0]
			work = work[1:]
			if cur.depth >= b.NeighbourDepth {
				continue
			}
			for _, next := range b.ds.Neighbours[cur.pid] {
				if visited[next] {
					continue
				}
				visited[next] = true
				work = append(work, queued{next, cur.depth + 1})
				b.addSuburbSource(name, statePID, TagNeighbour, next, b.ds.LocalityGeo[next])
			}
		}
	}
}

func (b *Builder) countLocalityProperties() {
	for loc, pids := range b.ds.StreetsByLocality {
		total := 0
		for pid := range pids {
			total += len(b.ds.Houses[pid])
		}
		b.ds.LocalityProperties[loc] = total
	}
}

// buildStreetTypeSuburbs records multi-word suburb names that embed a
// street type word ("SURFERS PARADISE"), so the extractor can prefer the
// suburb reading over the street-type reading.
func (b *Builder) buildStreetTypeSuburbs() {
	for _, byName := range b.ds.Suburbs {
		for name := range byName {
			words := strings.Fields(name)
			if len(words) < 2 {
				continue
			}
			for _, w := range words {
				if t, ok := b.ds.StreetTypeAliases[w]; ok {
					b.ds.StreetTypeSuburbs[t] = appendUnique(b.ds.StreetTypeSuburbs[t], name)
				}
			}
		}
	}
	for t := range b.ds.StreetTypeSuburbs {
		sort.Strings(b.ds.StreetTypeSuburbs[t])
	}
}

func (b *Builder) invertLocalityPostcodes() {
	b.ds.PostcodeLocalities = make(map[string][]string)
	for _, loc := range sortedKeys(b.ds.LocalityPostcodes) {
		for _, pc := range sortedKeys(b.ds.LocalityPostcodes[loc]) {
			b.ds.PostcodeLocalities[pc] = append(b.ds.PostcodeLocalities[pc], loc)
		}
	}
}

func wordPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func upperAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}
