package engine

import (
	"fmt"
	"strings"

	"github.com/gnaf-verify/internal/debug"
	"github.com/gnaf-verify/internal/normalize"
	"github.com/gnaf-verify/internal/refdata"
)

// scanTrailingTokens walks the concatenated line backwards consuming
// embedded postcode and state tokens before any street extraction runs.
func (r *request) scanTrailingTokens() {
	for {
		line := strings.TrimRight(r.line, " ,")
		idx := lastTokenStart(line)
		if idx < 0 {
			break
		}
		tok := strings.Trim(line[idx:], " ,.")

		if pc := r.fixNTPostcode(tok); pc != "" && r.ds.Postcodes[pc] != nil {
			if r.validPostcode == "" {
				r.validPostcode = pc
				r.postcodeHow = PostcodeExact
			}
			r.line = line[:idx]
			continue
		}
		if st := r.ds.MatchState(tok); st != nil {
			if r.validState == nil {
				r.validState = st
				r.stateHow = StateExact
			}
			r.line = line[:idx]
			continue
		}
		break
	}
	r.line = strings.TrimRight(r.line, " ,")
	debug.Output(r.trace, "trailing scan: state=%v postcode=%q line=%q",
		r.validState != nil, r.validPostcode, r.line)
}

// fixNTPostcode returns the candidate postcode form of a token, applying
// the NT 8xx -> 08xx correction when enabled. Empty when the token is not
// postcode-shaped.
func (r *request) fixNTPostcode(tok string) string {
	if len(tok) == 3 && tok[0] == '8' && isAllDigits(tok) && r.opts.NTPostcodes {
		return "0" + tok
	}
	if len(tok) == 4 && isAllDigits(tok) {
		return tok
	}
	return ""
}

// applyAPIFields validates the structured suburb/state/postcode hints
// against the reference data and seeds the working sets from them.
func (r *request) applyAPIFields(addr Address) {
	if addr.State != "" {
		if st := r.ds.MatchState(normalize.Clean(addr.State, true)); st != nil {
			r.validState = st
			r.stateFromAPI = true
			r.stateHow = StateExact
		} else {
			r.addMessage(fmt.Sprintf("state %q not recognised", addr.State))
		}
	}

	if addr.Postcode != "" {
		pc := r.fixNTPostcode(normalize.Clean(addr.Postcode, true))
		if pc != "" && r.ds.Postcodes[pc] != nil {
			r.validPostcode = pc
			r.postcodeFromAPI = true
			r.postcodeHow = PostcodeExact
		} else {
			r.addMessage(fmt.Sprintf("postcode %q not recognised", addr.Postcode))
		}
	}

	if addr.Suburb != "" {
		text := normalize.Clean(addr.Suburb, true)
		for _, v := range normalize.DirectionalVariants(text) {
			r.foundSuburbText = append(r.foundSuburbText, suburbText{Text: v, FromAPI: true})
			if entry := r.ds.LookupSuburb(v); entry != nil {
				r.addSuburbEntry(entry, "", refdata.DerivedNone, v, true)
			}
		}
	}
}

// scanForSuburb splits text on commas, generates directional variants for
// each segment, and slides a window over the words of each variant to
// find the longest exact phonetic-and-literal suburb matches. Matched
// spans are consumed greedily; every considered fragment is recorded in
// foundSuburbText. Returns the text never matched to any suburb.
func (r *request) scanForSuburb(text string, fromAPI, backwards bool) string {
	var unmatched []string

	for _, seg := range strings.Split(text, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		variants := normalize.DirectionalVariants(seg)
		for _, v := range variants {
			r.foundSuburbText = append(r.foundSuburbText, suburbText{Text: v, FromAPI: fromAPI})
		}

		// The primary (expanded) variant drives consumption; extra
		// variants only contribute candidates when they match whole.
		leftovers := r.scanSegmentWords(strings.Fields(variants[0]), fromAPI, backwards)
		for _, v := range variants[1:] {
			if entry := r.ds.LookupSuburb(v); entry != nil {
				r.addSuburbEntry(entry, "", refdata.DerivedNone, v, fromAPI)
			}
		}
		if len(leftovers) > 0 {
			unmatched = append(unmatched, strings.Join(leftovers, " "))
		}
	}

	return strings.Join(unmatched, " ")
}

// scanSegmentWords finds the longest window match anchored at the scan
// end, consumes it and recurses on the remainder. Returns the words never
// matched.
func (r *request) scanSegmentWords(words []string, fromAPI, backwards bool) []string {
	n := len(words)
	if n == 0 {
		return nil
	}

	if backwards {
		for size := n; size >= 1; size-- {
			name := strings.Join(words[n-size:], " ")
			if entry := r.ds.LookupSuburb(name); entry != nil {
				r.addSuburbEntry(entry, "", refdata.DerivedNone, name, fromAPI)
				return r.scanSegmentWords(words[:n-size], fromAPI, backwards)
			}
		}
		rest := r.scanSegmentWords(words[:n-1], fromAPI, backwards)
		return append(rest, words[n-1])
	}

	for size := n; size >= 1; size-- {
		name := strings.Join(words[:size], " ")
		if entry := r.ds.LookupSuburb(name); entry != nil {
			r.addSuburbEntry(entry, "", refdata.DerivedNone, name, fromAPI)
			return r.scanSegmentWords(words[size:], fromAPI, backwards)
		}
	}
	return append([]string{words[0]}, r.scanSegmentWords(words[1:], fromAPI, backwards)...)
}

// rules12 runs the deterministic state/postcode/suburb validation ladder.
// On success the request carries a valid state (possibly inferred), the
// best suburb and a base accuracy of suburb or postcode level; the return
// value says whether street matching should proceed.
func (r *request) rules12() bool {
	r.computeBestSuburb()

	if r.opts.Region && r.validState == nil {
		r.inferState()
	}

	pcValid := r.validPostcode != "" && r.ds.Postcodes[r.validPostcode] != nil

	// V1: state and postcode both known and consistent, with a suburb.
	if r.validState != nil && pcValid &&
		r.ds.PostcodeValidForState(r.validPostcode, r.validState.PID) {
		if r.narrowSuburbsToState() {
			r.setSuburbAccuracy()
			return true
		}
		return r.resolveWithoutSuburb()
	}

	// V2: postcode known but inconsistent with (or missing) the state.
	if pcValid {
		pc := r.ds.Postcodes[r.validPostcode]
		states := pc.States()
		switch {
		case len(states) == 1:
			r.validState = r.ds.StatesByPID[states[0]]
			r.stateHow = StateDerived
		default:
			if st := r.singleStateFromSuburbs(states); st != nil {
				r.validState = st
				r.stateHow = StateDerived
			} else {
				r.fail("postcode in multiple states")
				return false
			}
		}
		if r.narrowSuburbsToState() {
			r.setSuburbAccuracy()
			return true
		}
		return r.resolveWithoutSuburb()
	}

	// V3: state known but postcode missing or bad.
	if r.validState != nil {
		if r.narrowSuburbsToState() {
			if r.validPostcode == "" {
				r.validPostcode = r.singlePostcodeOf(r.bestSuburb)
				if r.validPostcode != "" {
					r.postcodeHow = PostcodeFromSuburb
				}
			}
			r.setSuburbAccuracy()
			return true
		}
		r.fail("bad suburb and no valid state or no valid postcode")
		return false
	}

	r.fail("no valid state or postcode")
	return false
}

// resolveWithoutSuburb handles V4/V5: a valid state+postcode pair but no
// usable suburb candidate.
func (r *request) resolveWithoutSuburb() bool {
	pc := r.ds.Postcodes[r.validPostcode]
	suburbs := pc.ByState[r.validState.PID]

	names := make([]string, 0, len(suburbs))
	for name := range suburbs {
		if name != "" {
			names = append(names, name)
		}
	}

	// V4: the postcode maps to exactly one suburb in the state.
	if len(names) == 1 {
		if entry := r.ds.LookupSuburb(names[0]); entry != nil {
			r.addSuburbEntry(entry, r.validState.PID, refdata.DerivedNone, names[0], false)
			r.computeBestSuburb()
			r.setSuburbAccuracy()
			return true
		}
	}

	// V5: several suburbs share the postcode; degrade to postcode-only.
	r.result.Accuracy = AccuracyPostcode
	r.result.Status = StatusPostcode
	return false
}

// narrowSuburbsToState prunes the working suburb set to the valid state
// and recomputes the best suburb. Reports whether any candidate survived.
func (r *request) narrowSuburbsToState() bool {
	if r.validState == nil {
		return false
	}
	for key := range r.validSuburbs {
		if key.StatePID != r.validState.PID {
			delete(r.validSuburbs, key)
		}
	}
	r.computeBestSuburb()
	return r.bestSuburb != nil
}

// inferState attempts to fix a missing state in region mode: a suburb
// unique to one state wins; otherwise the intersection of suburb states
// and postcode states; otherwise the provenance-ranked best suburb's
// state.
func (r *request) inferState() {
	cands := r.sortedSuburbs()
	if len(cands) == 0 {
		return
	}

	// A candidate whose suburb exists in exactly one state.
	bestUnique := (*suburbCand)(nil)
	for _, c := range cands {
		if len(c.Entry.States()) != 1 {
			continue
		}
		if bestUnique == nil || r.opts.suburbWeight(c.Tag) > r.opts.suburbWeight(bestUnique.Tag) {
			bestUnique = c
		}
	}
	if bestUnique != nil {
		r.validState = r.ds.StatesByPID[bestUnique.StatePID]
		r.stateHow = StateDerived
		return
	}

	// Intersect suburb states with postcode states.
	if r.validPostcode != "" {
		if pc := r.ds.Postcodes[r.validPostcode]; pc != nil {
			if st := r.singleStateFromSuburbs(pc.States()); st != nil {
				r.validState = st
				return
			}
		}
	}

	if r.bestSuburb != nil {
		r.validState = r.ds.StatesByPID[r.bestSuburb.StatePID]
		r.stateHow = StateFallback
	}
}

// singleStateFromSuburbs intersects the given state PIDs with the states
// of the candidate suburbs; a single survivor determines the state.
func (r *request) singleStateFromSuburbs(states []string) *refdata.State {
	inSuburbs := make(map[string]bool)
	for _, c := range r.sortedSuburbs() {
		inSuburbs[c.StatePID] = true
	}
	var matched []string
	for _, s := range states {
		if inSuburbs[s] {
			matched = append(matched, s)
		}
	}
	if len(matched) == 1 {
		return r.ds.StatesByPID[matched[0]]
	}
	return nil
}

// singlePostcodeOf returns the postcode when the suburb's localities are
// addressable under exactly one, else empty.
func (r *request) singlePostcodeOf(cand *suburbCand) string {
	if cand == nil {
		return ""
	}
	seen := make(map[string]bool)
	for _, loc := range sortedPlaceKeys(cand.Places) {
		for pc := range r.ds.LocalityPostcodes[loc] {
			seen[pc] = true
		}
	}
	if cand.Tag.Source == refdata.SourceAusPost {
		for _, pc := range sortedPlaceKeys(cand.Places) {
			seen[pc] = true
		}
	}
	if len(seen) == 1 {
		for pc := range seen {
			return pc
		}
	}
	return ""
}

func (r *request) setSuburbAccuracy() {
	r.result.Accuracy = AccuracySuburb
	r.result.Status = StatusSuburb
}

func (r *request) fail(msg string) {
	r.result.Accuracy = AccuracyNone
	r.result.Status = StatusNotFound
	r.addMessage(msg)
}

// communityWords maps the common indigenous-community abbreviations to
// the full keyword carried in community suburb names.
var communityWords = map[string]string{
	"CMTY":   "COMMUNITY",
	"CMNTY":  "COMMUNITY",
	"COMM":   "COMMUNITY",
	"OUTSTN": "OUTSTATION",
	"OSTN":   "OUTSTATION",
	"HMLND":  "HOMELAND",
}

// expandCommunityWords rewrites community keyword abbreviations word by
// word so the suburb scan can match the full community name.
func expandCommunityWords(text string) string {
	words := strings.Fields(text)
	changed := false
	for i, w := range words {
		trimmed := strings.Trim(w, ",")
		if full, ok := communityWords[trimmed]; ok {
			words[i] = strings.Replace(w, trimmed, full, 1)
			changed = true
		}
	}
	if !changed {
		return text
	}
	return strings.Join(words, " ")
}

// lastTokenStart finds the start offset of the final space- or
// comma-delimited token, or -1 for an empty line.
func lastTokenStart(line string) int {
	end := len(line)
	for end > 0 && (line[end-1] == ' ' || line[end-1] == ',') {
		end--
	}
	if end == 0 {
		return -1
	}
	start := end
	for start > 0 && line[start-1] != ' ' && line[start-1] != ',' {
		start--
	}
	return start
}
