package engine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gnaf-verify/internal/debug"
	"github.com/gnaf-verify/internal/editdist"
	"github.com/gnaf-verify/internal/phonetics"
	"github.com/gnaf-verify/internal/refdata"
)

// reDelivery matches a house number or number token: optional letter
// prefix, up to six digits, optional letter suffix.
var reDelivery = regexp.MustCompile(`\b([A-Z]{1,2})?(\d{1,6})([A-Z]{1,2})?\b`)

// ordinal suffixes disqualify a token as a house number (1ST, 2ND, ...).
var ordinalSuffixes = map[string]bool{"ST": true, "ND": true, "RD": true, "TH": true}

// extractTokens runs the §extraction state machine over the concatenated
// address line: buildings, house number or range, postal service
// patterns, flat/level trim, street type and street suffix. What remains
// goes to the suburb scanner as r.residual.
func (r *request) extractTokens() {
	debug.Output(r.trace, "extract: line=%q", r.line)

	r.findBuildings(r.line)

	pre, post := r.findHouseNumber(r.line)
	debug.Output(r.trace, "extract: houseNo=%d hasHouse=%v isLot=%v isRange=%v pre=%q post=%q",
		r.houseNo, r.hasHouse, r.isLot, r.isRange, pre, post)

	if r.hasHouse && !r.isLot && !r.isRange {
		r.detectPostalService(pre)
	}

	if r.isPostal {
		// Postal service short-circuits trim stripping; the remainder is
		// scanned for a suburb only.
		r.residual = strings.TrimSpace(post)
		return
	}

	rest := r.stripTrim(pre)
	if !r.hasHouse {
		// Without a house number the trim patterns strip the line's
		// prefix and street scanning runs on what remains.
		post = rest
	}

	rest = r.detectStreetType(strings.TrimSpace(post))
	rest = r.detectStreetSuffix(rest)
	r.residual = strings.TrimSpace(rest)

	// A purely numeric street name identical to the trim means the number
	// was consumed twice; drop the trim.
	if r.streetName != "" && r.streetName == strings.TrimSpace(r.trim) && isAllDigits(r.streetName) {
		r.trim = ""
	}

	debug.Output(r.trace, "extract: trim=%q street=%q type=%q suffix=%q residual=%q",
		r.trim, r.streetName, r.streetType, r.streetSuffix, r.residual)
}

// findBuildings records every known building name present in the line.
// Hits are used by the building resolver later; they are not consumed.
func (r *request) findBuildings(line string) {
	for _, b := range r.ds.Buildings {
		loc := b.Pattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		for _, entry := range b.Entries {
			r.foundBuildings = append(r.foundBuildings, buildingHit{
				Building: b,
				Entry:    entry,
				Offset:   loc[0],
			})
		}
	}
}

// findHouseNumber locates the last qualifying house number or range in
// the line that does not end at the very end of the string (a trailing
// number is more likely a postcode). Returns the text before and after
// the consumed token.
func (r *request) findHouseNumber(line string) (pre, post string) {
	matches := reDelivery.FindAllStringSubmatchIndex(line, -1)
	best := -1
	for i, m := range matches {
		if m[1] >= len(line) {
			continue // ends at end of string
		}
		if m[0] > 0 && line[m[0]-1] == '-' {
			continue // tail of a range; the head number drives it
		}
		if suffix := submatch(line, m, 3); ordinalSuffixes[suffix] {
			continue
		}
		best = i
	}
	if best < 0 {
		return line, ""
	}

	m := matches[best]
	start, end := m[0], m[1]
	digits := submatch(line, m, 2)
	n, _ := strconv.Atoi(digits)

	r.hasHouse = true
	r.houseNo = n
	r.houseNo2 = n

	// A range follows immediately: "10-12".
	if end < len(line) && line[end] == '-' {
		if m2 := reDelivery.FindStringSubmatchIndex(line[end+1:]); m2 != nil && m2[0] == 0 {
			rangeEnd := end + 1 + m2[1]
			if rangeEnd < len(line) {
				if n2, err := strconv.Atoi(submatch(line[end+1:], m2, 2)); err == nil && n2 >= n {
					r.isRange = true
					r.houseNo2 = n2
					end = rangeEnd
				}
			}
		}
	}

	// A LOT keyword immediately before the number marks a lot number.
	before := strings.TrimSpace(line[:start])
	if strings.HasSuffix(before, "LOT") {
		r.isLot = true
		before = strings.TrimSpace(strings.TrimSuffix(before, "LOT"))
		return before, line[end:]
	}

	return line[:start], line[end:]
}

// detectPostalService tests the registered postal service patterns
// against the trim region, first requiring the pattern to end exactly at
// the number boundary, then retrying anywhere in the region.
func (r *request) detectPostalService(pre string) {
	region := strings.TrimRight(pre, " ")

	for _, p := range r.ds.PostalPatterns {
		loc := p.Re.FindStringIndex(region)
		if loc == nil || loc[1] != len(region) {
			continue
		}
		if p.Card == refdata.NoNumber {
			continue // this pattern does not take the delivery number
		}
		r.markPostal(p, region[:loc[0]])
		return
	}

	// No number-anchored match: first pattern match anywhere in the trim.
	for _, p := range r.ds.PostalPatterns {
		if loc := p.Re.FindStringIndex(region); loc != nil {
			r.markPostal(p, region[:loc[0]])
			return
		}
	}
}

func (r *request) markPostal(p refdata.PostalPattern, remainder string) {
	r.isPostal = true
	r.postalText1 = p.Name
	if p.Card != refdata.NoNumber && r.hasHouse {
		r.postalText1 += " " + strconv.Itoa(r.houseNo)
	}
	r.postalText2 = strings.TrimSpace(remainder)
	debug.Output(r.trace, "extract: postal service %q remainder %q", r.postalText1, r.postalText2)
}

// stripTrim applies the flat, level and extra trim patterns independently
// to the region before the house number, keeping whichever group consumed
// the longest prefix. When a house number exists the whole pre-number
// region is trim; without one, only the consumed prefix is trim and the
// remainder continues to street scanning.
func (r *request) stripTrim(pre string) string {
	region := strings.TrimSpace(pre)
	if region == "" {
		r.trim = ""
		return ""
	}

	longest := 0
	groups := [][]*regexp.Regexp{r.ds.FlatPatterns, r.ds.LevelPatterns}
	if r.opts.AddExtras {
		groups = append(groups, r.ds.ExtraTrims)
	}
	for _, group := range groups {
		consumed := 0
		rest := region
		for {
			matched := false
			for _, re := range group {
				if loc := re.FindStringIndex(rest); loc != nil && loc[0] == 0 && loc[1] > 0 {
					consumed += loc[1]
					rest = rest[loc[1]:]
					matched = true
					break
				}
			}
			if !matched {
				break
			}
		}
		if consumed > longest {
			longest = consumed
		}
	}

	if r.hasHouse {
		r.trim = region
		return region
	}
	r.trim = strings.TrimSpace(region[:longest])
	return strings.TrimSpace(region[longest:])
}

// typeMatch is one street type occurrence in the residual text.
type typeMatch struct {
	typ   string
	start int
	end   int
}

// detectStreetType finds the street type in the text after the house
// number, preferring the rightmost and longest match with ties broken by
// how common the type is. A type embedded in a known multi-word suburb
// name yields to the suburb reading unless it is the only candidate.
// Returns the text after the consumed span.
func (r *request) detectStreetType(text string) string {
	if text == "" {
		return ""
	}

	var candidates, skipped []typeMatch
	words := splitWords(text)
	for _, w := range words {
		canon, ok := r.ds.CanonicalStreetType(w.text)
		if !ok {
			continue
		}
		tm := typeMatch{typ: canon, start: w.start, end: w.end}
		if r.insideTypeSuburb(text, tm) {
			skipped = append(skipped, tm)
			continue
		}
		candidates = append(candidates, tm)
	}
	if len(candidates) == 0 {
		// Restore suburb-shadowed candidates when nothing else matched.
		candidates = skipped
	}
	if len(candidates) == 0 {
		return r.detectStreetFallback(text)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.end > best.end ||
			(c.end == best.end && c.end-c.start > best.end-best.start) ||
			(c.end == best.end && c.end-c.start == best.end-best.start &&
				r.typeCount(c.typ) > r.typeCount(best.typ)) {
			best = c
		}
	}

	r.streetType = best.typ
	r.streetName = strings.Trim(text[:best.start], " ,")
	return text[best.end:]
}

func (r *request) typeCount(name string) int {
	if st := r.ds.StreetTypes[name]; st != nil {
		return st.Count
	}
	return 0
}

// insideTypeSuburb reports whether the matched type token sits inside a
// multi-word suburb name registered for that type and present around it.
func (r *request) insideTypeSuburb(text string, tm typeMatch) bool {
	for _, suburb := range r.ds.StreetTypeSuburbs[tm.typ] {
		idx := strings.Index(text, suburb)
		for idx >= 0 {
			if idx <= tm.start && idx+len(suburb) >= tm.end && idx+len(suburb) > tm.end-tm.start {
				return true
			}
			next := strings.Index(text[idx+1:], suburb)
			if next < 0 {
				break
			}
			idx += 1 + next
		}
	}
	return false
}

// detectStreetFallback handles text with no recognisable street type:
// short streets (streets with no type) by compiled pattern, then
// word-by-word phonetic near-matches against typed street names.
func (r *request) detectStreetFallback(text string) string {
	// Short streets: prefer the longest pattern match.
	for _, ss := range r.ds.ShortStreets {
		if loc := ss.Pattern.FindStringIndex(text); loc != nil {
			r.streetName = ss.Entry.Key.Name
			r.streetType = ""
			return text[:loc[0]] + " " + text[loc[1]:]
		}
	}

	// Word-by-word: a word phonetically close to a street type, or a word
	// that is itself a known street name missing its type.
	words := splitWords(text)
	for i, w := range words {
		if w.text == "COMMUNITY" && !r.isolatedCommunity(words, i) {
			continue
		}
		for _, tname := range sortedTypeNames(r.ds.StreetTypes) {
			bound := len(tname) / 2
			if bound < 1 {
				bound = 1
			}
			if phonetics.Soundex(w.text) == phonetics.Soundex(tname) &&
				editdist.Within(w.text, tname, bound) && i > 0 {
				r.streetType = tname
				r.streetName = strings.TrimSpace(text[:w.start])
				return text[w.end:]
			}
		}
		if entries := r.ds.StreetsByName[w.text]; len(entries) > 0 {
			r.streetName = w.text
			r.streetType = ""
			return text[:w.start] + " " + text[w.end:]
		}
	}
	return text
}

// isolatedCommunity reports whether a COMMUNITY token stands clear of a
// locality context (it is the last word or followed by nothing that
// matches a suburb).
func (r *request) isolatedCommunity(words []word, i int) bool {
	if i == len(words)-1 {
		return true
	}
	rest := make([]string, 0, len(words)-i-1)
	for _, w := range words[i+1:] {
		rest = append(rest, w.text)
	}
	return r.ds.LookupSuburb(strings.Join(rest, " ")) == nil
}

// detectStreetSuffix consumes a street suffix anchored at the start of
// the text following the street type.
func (r *request) detectStreetSuffix(text string) string {
	if r.streetType == "" && r.streetName == "" {
		return text
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	first, rest := splitFirstWord(trimmed)
	if full, ok := r.ds.StreetSuffixes[first]; ok {
		r.streetSuffix = full
		return rest
	}
	for _, full := range r.ds.StreetSuffixes {
		if first == full {
			r.streetSuffix = full
			return rest
		}
	}
	return text
}

// word is one whitespace-delimited token with its offsets.
type word struct {
	text  string
	start int
	end   int
}

// splitWords tokenises on spaces and commas, keeping byte offsets so the
// caller can slice the original text around a match.
func splitWords(text string) []word {
	var out []word
	i := 0
	for i < len(text) {
		for i < len(text) && (text[i] == ' ' || text[i] == ',') {
			i++
		}
		start := i
		for i < len(text) && text[i] != ' ' && text[i] != ',' {
			i++
		}
		if i > start {
			out = append(out, word{text: text[start:i], start: start, end: i})
		}
	}
	return out
}

func splitFirstWord(text string) (string, string) {
	if idx := strings.IndexByte(text, ' '); idx >= 0 {
		return text[:idx], text[idx+1:]
	}
	return text, ""
}

func submatch(s string, m []int, group int) string {
	if m[2*group] < 0 {
		return ""
	}
	return s[m[2*group]:m[2*group+1]]
}

func sortedTypeNames(types map[string]*refdata.StreetType) []string {
	names := make([]string, 0, len(types))
	for n := range types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
