package phonetics

import "strings"

// Soundex computes the soundex code for a single word: the first letter
// followed by three digits. Non-letters are ignored; an empty input
// returns an empty code.
func Soundex(word string) string {
	word = strings.ToUpper(strings.TrimSpace(word))

	var first byte
	var rest []byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c < 'A' || c > 'Z' {
			continue
		}
		if first == 0 {
			first = c
			rest = append(rest, c)
			continue
		}
		rest = append(rest, c)
	}
	if first == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteByte(first)

	prev := digit(first)
	for i := 1; i < len(rest) && b.Len() < 4; i++ {
		d := digit(rest[i])
		switch {
		case d == 0:
			// H and W are transparent: they do not reset the previous code
			if rest[i] != 'H' && rest[i] != 'W' {
				prev = 0
			}
		case d != prev:
			b.WriteByte('0' + d)
			prev = d
		}
	}
	for b.Len() < 4 {
		b.WriteByte('0')
	}
	return b.String()
}

// Code computes a phonetic key for a name that may contain several words,
// by concatenating the soundex of each word. Used as the primary index key
// for suburb and street names.
func Code(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(Soundex(f))
	}
	return b.String()
}

// Match reports whether two names share the same phonetic key.
func Match(a, b string) bool {
	ca, cb := Code(a), Code(b)
	return ca != "" && ca == cb
}

func digit(c byte) byte {
	switch c {
	case 'B', 'F', 'P', 'V':
		return 1
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return 2
	case 'D', 'T':
		return 3
	case 'L':
		return 4
	case 'M', 'N':
		return 5
	case 'R':
		return 6
	}
	return 0
}
