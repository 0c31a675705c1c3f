package engine

import (
	"sort"

	"github.com/gnaf-verify/internal/debug"
	"github.com/gnaf-verify/internal/refdata"
)

// currentLevel is the fuzz level used to key parked street rows; the
// baseline pass before the ladder starts parks under level 0.
func (r *request) currentLevel() int {
	if r.fuzzLevel < 0 {
		return 0
	}
	return r.fuzzLevel
}

// createValidStreets seeds the working street set from the exact
// extracted name, type and suffix. Source rows in the wrong state or
// under the wrong postcode are parked, keyed by the active fuzz level,
// rather than discarded.
func (r *request) createValidStreets() {
	if r.streetName == "" {
		return
	}
	key := refdata.StreetKey{Name: r.streetName, Type: r.streetType, Suffix: r.streetSuffix}
	entry := r.ds.LookupStreet(key)
	if entry == nil {
		debug.Output(r.trace, "no exact street for %q", key.String())
		return
	}
	added := r.addStreetEntry(entry, refdata.DerivedNone)
	debug.Output(r.trace, "exact street %q: %d valid rows", key.String(), added)
}

// addStreetEntry partitions every source row of a street entry into the
// valid set or one of the parking areas. Returns the number of rows that
// landed in the valid set.
func (r *request) addStreetEntry(entry *refdata.StreetEntry, via refdata.Derivation) int {
	added := 0
	level := r.currentLevel()

	for _, tag := range sortedStreetTags(entry.Sources) {
		rows := entry.Sources[tag]
		for _, pid := range sortedPlaceKeys(rows) {
			place := rows[pid]
			row := parkedStreet{Entry: entry, Tag: tag.WithVia(via), PID: pid, Place: place}

			if r.validState != nil &&
				r.ds.StateOfLocality(place.LocalityPID) != r.validState.PID {
				r.parkedWrongState[level] = append(r.parkedWrongState[level], row)
				continue
			}
			if r.validPostcode != "" &&
				!r.ds.LocalityHasPostcode(place.LocalityPID, r.validPostcode) {
				r.parkedWrongPostcode[level] = append(r.parkedWrongPostcode[level], row)
				continue
			}
			r.addValidStreetRow(row)
			added++
		}
	}
	return added
}

// addValidStreetRow inserts one source row into validStreets, keeping the
// better provenance tag when the same row arrives twice.
func (r *request) addValidStreetRow(row parkedStreet) {
	cand := r.validStreets[row.Entry.Key]
	if cand == nil {
		if len(r.validStreets) >= r.opts.MaxCandidates {
			return
		}
		cand = &streetCand{
			Entry:   row.Entry,
			Sources: make(map[refdata.Tag]map[string]refdata.StreetPlace),
		}
		r.validStreets[row.Entry.Key] = cand
	}
	rows := cand.Sources[row.Tag]
	if rows == nil {
		rows = make(map[string]refdata.StreetPlace)
		cand.Sources[row.Tag] = rows
	}
	rows[row.PID] = row.Place
}

// reinstate moves a parked row straight into the valid set, bypassing the
// geographic checks that parked it.
func (r *request) reinstate(rows []parkedStreet, via refdata.Derivation) int {
	for i := range rows {
		row := rows[i]
		row.Tag = row.Tag.WithVia(via)
		r.addValidStreetRow(row)
	}
	return len(rows)
}

// validateStreets intersects the working street set with the localities
// reachable from the working suburb set, producing the subset the house
// resolver operates on. It also records per-property provenance and the
// neighbour suburbs that contributed.
func (r *request) validateStreets() int {
	r.subsetValidStreets = r.subsetValidStreets[:0]

	// Best suburb candidate per reachable locality.
	byLocality := make(map[string]*suburbCand)
	for _, c := range r.sortedSuburbs() {
		for loc := range r.localitySet(c) {
			prev := byLocality[loc]
			if prev == nil || r.opts.suburbWeight(c.Tag) > r.opts.suburbWeight(prev.Tag) {
				byLocality[loc] = c
			}
		}
		if c.Tag.Source == refdata.SourceNeighbour {
			for _, loc := range sortedPlaceKeys(c.Places) {
				name := r.ds.LocalityName[loc]
				r.neighbourhood[c.Entry.Name] = appendUniqueString(r.neighbourhood[c.Entry.Name], name)
			}
		}
	}

	for _, key := range r.sortedStreetKeys() {
		cand := r.validStreets[key]
		for _, tag := range sortedStreetTags(cand.Sources) {
			rows := cand.Sources[tag]
			for _, pid := range sortedPlaceKeys(rows) {
				place := rows[pid]
				sub := byLocality[place.LocalityPID]
				if sub == nil {
					continue
				}
				weight := 5*r.opts.suburbWeight(sub.Tag) + 10*r.opts.streetWeight(tag)
				r.subsetValidStreets = append(r.subsetValidStreets, subsetStreet{
					PID:       pid,
					Place:     place,
					Entry:     cand.Entry,
					StreetTag: tag,
					Suburb:    sub,
					Weight:    weight,
				})
				prov := tag.String() + "+" + sub.Tag.String()
				if prev, ok := r.allStreetSources[pid]; !ok || prov < prev {
					r.allStreetSources[pid] = prov
				}
			}
		}
	}

	sort.SliceStable(r.subsetValidStreets, func(i, j int) bool {
		a, b := r.subsetValidStreets[i], r.subsetValidStreets[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return a.PID < b.PID
	})

	debug.Output(r.trace, "validateStreets: %d rows in subset (level %d)",
		len(r.subsetValidStreets), r.currentLevel())
	return len(r.subsetValidStreets)
}

// sortedStreetKeys returns the working street keys in deterministic order.
func (r *request) sortedStreetKeys() []refdata.StreetKey {
	keys := make([]refdata.StreetKey, 0, len(r.validStreets))
	for k := range r.validStreets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func sortedStreetTags(sources map[refdata.Tag]map[string]refdata.StreetPlace) []refdata.Tag {
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

func appendUniqueString(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
