// Package normalize cleans raw address text before tokenisation and
// generates directional spelling variants for suburb candidate scanning.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reSpaces     = regexp.MustCompile(`\s+`)
	reHyphenGaps = regexp.MustCompile(`\s*-\s*`)
)

// Clean canonicalises one piece of address text. Upper-cases, strips
// colons, optionally strips commas, converts backslashes to forward
// slashes, collapses whitespace runs, removes whitespace around hyphens
// and strips a trailing hyphen. Idempotent.
func Clean(text string, removeCommas bool) string {
	s := strings.ToUpper(text)
	s = strings.ReplaceAll(s, ":", "")
	if removeCommas {
		s = strings.ReplaceAll(s, ",", " ")
	}
	s = strings.ReplaceAll(s, `\`, "/")
	s = reSpaces.ReplaceAllString(s, " ")
	s = reHyphenGaps.ReplaceAllString(s, "-")
	s = strings.TrimSuffix(strings.TrimSpace(s), "-")
	return strings.TrimSpace(s)
}

// directionWords maps abbreviated directionals to their full form.
var directionWords = map[string]string{
	"N": "NORTH", "N.": "NORTH", "NTH": "NORTH",
	"S": "SOUTH", "S.": "SOUTH", "STH": "SOUTH",
	"E": "EAST", "E.": "EAST",
	"W": "WEST", "W.": "WEST",
}

var fullDirections = map[string]bool{
	"NORTH": true, "SOUTH": true, "EAST": true, "WEST": true,
}

// DirectionalVariants expands directional abbreviations at either end of a
// comma-delimited segment and, when a full directional word starts or ends
// the segment, synthesises an extra candidate with the word moved to the
// other end ("PARK NORTH" also yields "NORTH PARK"). The first element of
// the returned slice is always the expanded segment itself.
func DirectionalVariants(segment string) []string {
	words := strings.Fields(segment)
	if len(words) == 0 {
		return nil
	}

	if full, ok := directionWords[words[0]]; ok {
		words[0] = full
	}
	if full, ok := directionWords[words[len(words)-1]]; ok {
		words[len(words)-1] = full
	}

	base := strings.Join(words, " ")
	variants := []string{base}

	if len(words) > 1 {
		if fullDirections[words[0]] {
			moved := append(append([]string{}, words[1:]...), words[0])
			variants = append(variants, strings.Join(moved, " "))
		}
		if fullDirections[words[len(words)-1]] {
			moved := append([]string{words[len(words)-1]}, words[:len(words)-1]...)
			variants = append(variants, strings.Join(moved, " "))
		}
	}

	return dedupe(variants)
}

// ParseOptionalInt parses s as a base-10 integer, reporting success via
// the second return value instead of an error.
func ParseOptionalInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
