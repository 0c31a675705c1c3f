package engine

import (
	"sort"

	"github.com/gnaf-verify/internal/editdist"
	"github.com/gnaf-verify/internal/refdata"
)

// suburbText is one literal fragment considered as a suburb candidate,
// tagged with whether it arrived through the structured API fields or was
// found embedded in the address text.
type suburbText struct {
	Text    string
	FromAPI bool
}

// suburbKey identifies a working suburb candidate. The same name in two
// states is two candidates, and so is the same name under two provenance
// tags: a primary source reaching one locality coexists with a neighbour
// source reaching another.
type suburbKey struct {
	Name     string
	StatePID string
	Tag      refdata.Tag
}

// suburbCand is one entry of the validSuburbs working set.
type suburbCand struct {
	Entry    *refdata.SuburbEntry
	StatePID string
	Tag      refdata.Tag
	Places   map[string]refdata.GeoPoint // locality PID (or postcode for AusPost) -> geo
	Text     string                      // literal text that matched
	FromAPI  bool
}

// streetCand is one entry of the validStreets working set, accumulating
// the surviving source rows of a street entry per provenance tag.
type streetCand struct {
	Entry   *refdata.StreetEntry
	Sources map[refdata.Tag]map[string]refdata.StreetPlace
}

// parkedStreet holds a source row excluded for a geographic mismatch,
// keyed by the fuzz level active when it was discovered so it can be
// selectively reinstated later.
type parkedStreet struct {
	Entry *refdata.StreetEntry
	Tag   refdata.Tag
	PID   string
	Place refdata.StreetPlace
}

// subsetStreet is a street source row that is both valid and located in a
// valid suburb; the house resolver works over these.
type subsetStreet struct {
	PID       string
	Place     refdata.StreetPlace
	Entry     *refdata.StreetEntry
	StreetTag refdata.Tag
	Suburb    *suburbCand
	Weight    int
}

// buildingHit records one building name found in the input line.
type buildingHit struct {
	Building *refdata.Building
	Entry    refdata.BuildingEntry
	Offset   int
}

// request is the per-call working state. Created fresh for every Verify
// call and never shared; the engine and dataset it references are
// read-only.
type request struct {
	e     *Engine
	ds    *refdata.Dataset
	opts  *Options
	trace bool

	line string

	// extraction state
	trim         string
	houseNo      int
	houseNo2     int // upper bound when a range was supplied
	hasHouse     bool
	isLot        bool
	isRange      bool
	isPostal     bool
	postalText1  string
	postalText2  string
	streetName   string
	streetType   string
	streetSuffix string
	residual     string

	foundSuburbText []suburbText
	foundBuildings  []buildingHit

	validState      *refdata.State
	stateFromAPI    bool
	validPostcode   string
	postcodeFromAPI bool

	validSuburbs map[suburbKey]*suburbCand
	validStreets map[refdata.StreetKey]*streetCand

	subsetValidStreets []subsetStreet
	allStreetSources   map[string]string
	neighbourhood      map[string][]string

	parkedWrongState    map[int][]parkedStreet
	parkedWrongPostcode map[int][]parkedStreet
	parkedWrongType     []parkedStreet

	bestSuburb *suburbCand
	fuzzLevel  int
	usedFuzz   bool

	// how the state and postcode were settled, for scoring
	stateHow    StateMatch
	postcodeHow PostcodeMatch

	house  *houseHit
	street *subsetStreet
	// ladder level at which street was settled; the ladder may advance
	// further looking for a house without improving on it
	streetLevel int

	result *Result
}

func newRequest(e *Engine, id string) *request {
	return &request{
		e:                   e,
		ds:                  e.ds,
		opts:                e.opts,
		trace:               e.opts.Trace,
		validSuburbs:        make(map[suburbKey]*suburbCand),
		validStreets:        make(map[refdata.StreetKey]*streetCand),
		allStreetSources:    make(map[string]string),
		neighbourhood:       make(map[string][]string),
		parkedWrongState:    make(map[int][]parkedStreet),
		parkedWrongPostcode: make(map[int][]parkedStreet),
		fuzzLevel:           -1,
		result: &Result{
			ID:       id,
			Accuracy: AccuracyNone,
			Messages: []string{},
		},
	}
}

// addValidSuburb merges a candidate into validSuburbs. The first arrival
// for a (name, state, tag) key wins; re-adding the same source is a no-op.
func (r *request) addValidSuburb(cand *suburbCand) {
	key := suburbKey{Name: cand.Entry.Name, StatePID: cand.StatePID, Tag: cand.Tag}
	if _, ok := r.validSuburbs[key]; ok {
		return
	}
	if len(r.validSuburbs) >= r.opts.MaxCandidates {
		return
	}
	r.validSuburbs[key] = cand
}

// addSuburbEntry registers every source of a suburb entry, optionally
// restricted to one state, marking added entries with the derivation.
func (r *request) addSuburbEntry(entry *refdata.SuburbEntry, onlyState string, via refdata.Derivation, text string, fromAPI bool) {
	for _, statePID := range entry.States() {
		if onlyState != "" && statePID != onlyState {
			continue
		}
		sources := entry.ByState[statePID]
		tags := sortedTags(sources)
		for _, tag := range tags {
			if tag.Source == refdata.SourceNeighbour && via == refdata.DerivedNone {
				// GN sources stay dormant until fuzz level 6 reinstates them
				continue
			}
			r.addValidSuburb(&suburbCand{
				Entry:    entry,
				StatePID: statePID,
				Tag:      tag.WithVia(via),
				Places:   sources[tag],
				Text:     text,
				FromAPI:  fromAPI,
			})
		}
	}
}

// sortedSuburbs returns the working suburb set in deterministic order.
func (r *request) sortedSuburbs() []*suburbCand {
	keys := make([]suburbKey, 0, len(r.validSuburbs))
	for k := range r.validSuburbs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		if keys[i].StatePID != keys[j].StatePID {
			return keys[i].StatePID < keys[j].StatePID
		}
		if keys[i].Tag.Source != keys[j].Tag.Source {
			return keys[i].Tag.Source < keys[j].Tag.Source
		}
		return keys[i].Tag.Via < keys[j].Tag.Via
	})
	out := make([]*suburbCand, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.validSuburbs[k])
	}
	return out
}

// computeBestSuburb re-ranks the working suburb set: highest provenance
// weight wins; ties prefer the smallest property count when the input is
// a numbered community address with no street, otherwise the smallest
// edit distance to the literal found text; final ties break on name then
// state for determinism.
func (r *request) computeBestSuburb() {
	cands := r.sortedSuburbs()
	if len(cands) == 0 {
		r.bestSuburb = nil
		return
	}

	communityMode := r.streetName == "" && r.hasHouse

	best := cands[0]
	bestW := r.opts.suburbWeight(best.Tag)
	for _, c := range cands[1:] {
		w := r.opts.suburbWeight(c.Tag)
		switch {
		case w > bestW:
			best, bestW = c, w
		case w == bestW:
			if r.preferSuburb(c, best, communityMode) {
				best = c
			}
		}
	}
	r.bestSuburb = best
}

func (r *request) preferSuburb(a, b *suburbCand, communityMode bool) bool {
	if communityMode {
		pa, pb := r.propertyCount(a), r.propertyCount(b)
		if pa != pb {
			return pa < pb
		}
	}
	da, db := r.textDistance(a), r.textDistance(b)
	if da != db {
		return da < db
	}
	return false // earlier (sorted) candidate stands
}

func (r *request) propertyCount(c *suburbCand) int {
	total := 0
	for _, loc := range sortedPlaceKeys(c.Places) {
		total += r.ds.LocalityProperties[loc]
	}
	return total
}

func (r *request) textDistance(c *suburbCand) int {
	if c.Text == "" || c.Text == c.Entry.Name {
		return 0
	}
	return editdist.Distance(c.Text, c.Entry.Name)
}

// localitySet resolves a suburb candidate to the locality PIDs it can
// reach: directly for G-NAF-derived sources, via the postcode-to-locality
// mapping for Australia-Post-only sources.
func (r *request) localitySet(c *suburbCand) map[string]bool {
	out := make(map[string]bool)
	if c.Tag.Source == refdata.SourceAusPost {
		for _, pc := range sortedPlaceKeys(c.Places) {
			for _, loc := range r.ds.PostcodeLocalities[pc] {
				out[loc] = true
			}
		}
		return out
	}
	for _, loc := range sortedPlaceKeys(c.Places) {
		out[loc] = true
	}
	return out
}

func (r *request) addMessage(msg string) {
	r.result.Messages = append(r.result.Messages, msg)
}

func sortedTags(sources refdata.StateSources) []refdata.Tag {
	tags := make([]refdata.Tag, 0, len(sources))
	for t := range sources {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Source != tags[j].Source {
			return tags[i].Source < tags[j].Source
		}
		return tags[i].Via < tags[j].Via
	})
	return tags
}

func sortedPlaceKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
