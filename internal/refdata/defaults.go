package refdata

import "regexp"

// DefaultStates returns the standard Australian state and territory table.
// Loaders call this unless the source provides its own state rows.
func DefaultStates() []State {
	return []State{
		{PID: "1", Abbrev: "NSW", Name: "NEW SOUTH WALES", AltAbbrevs: []string{"N.S.W."}},
		{PID: "2", Abbrev: "VIC", Name: "VICTORIA", AltAbbrevs: []string{"V.I.C.", "VICT"}},
		{PID: "3", Abbrev: "QLD", Name: "QUEENSLAND", AltAbbrevs: []string{"Q.L.D.", "QLND"}},
		{PID: "4", Abbrev: "SA", Name: "SOUTH AUSTRALIA", AltAbbrevs: []string{"S.A.", "SOUTH AUST"}},
		{PID: "5", Abbrev: "WA", Name: "WESTERN AUSTRALIA", AltAbbrevs: []string{"W.A.", "WEST AUST"}},
		{PID: "6", Abbrev: "TAS", Name: "TASMANIA", AltAbbrevs: []string{"T.A.S.", "TASSIE"}},
		{PID: "7", Abbrev: "NT", Name: "NORTHERN TERRITORY", AltAbbrevs: []string{"N.T."}},
		{PID: "8", Abbrev: "ACT", Name: "AUSTRALIAN CAPITAL TERRITORY", AltAbbrevs: []string{"A.C.T."}},
		{PID: "9", Abbrev: "OT", Name: "OTHER TERRITORIES", AltAbbrevs: []string{"O.T."}},
	}
}

// DefaultStreetTypes returns the recognised street types with their
// common abbreviations. StepOne marks cul-de-sac-like types whose house
// numbers run consecutively.
func DefaultStreetTypes() []StreetType {
	return []StreetType{
		{Name: "STREET", Abbrevs: []string{"ST"}},
		{Name: "ROAD", Abbrevs: []string{"RD"}},
		{Name: "AVENUE", Abbrevs: []string{"AV", "AVE"}},
		{Name: "DRIVE", Abbrevs: []string{"DR", "DRV"}},
		{Name: "COURT", Abbrevs: []string{"CT", "CRT"}, StepOne: true},
		{Name: "CLOSE", Abbrevs: []string{"CL"}, StepOne: true},
		{Name: "PLACE", Abbrevs: []string{"PL"}, StepOne: true},
		{Name: "CUL-DE-SAC", Abbrevs: []string{"CSAC"}, StepOne: true},
		{Name: "CRESCENT", Abbrevs: []string{"CRES", "CR"}},
		{Name: "PARADE", Abbrevs: []string{"PDE"}},
		{Name: "HIGHWAY", Abbrevs: []string{"HWY"}},
		{Name: "LANE", Abbrevs: []string{"LN"}},
		{Name: "TERRACE", Abbrevs: []string{"TCE"}},
		{Name: "BOULEVARD", Abbrevs: []string{"BVD", "BLVD"}},
		{Name: "CIRCUIT", Abbrevs: []string{"CCT"}},
		{Name: "ESPLANADE", Abbrevs: []string{"ESP"}},
		{Name: "GROVE", Abbrevs: []string{"GR"}},
		{Name: "WAY", Abbrevs: []string{"WY"}},
		{Name: "TRACK", Abbrevs: []string{"TRK"}},
		{Name: "LOOP", Abbrevs: nil},
		{Name: "RISE", Abbrevs: nil},
		{Name: "GARDENS", Abbrevs: []string{"GDNS"}},
		{Name: "SQUARE", Abbrevs: []string{"SQ"}},
		{Name: "MEWS", Abbrevs: nil, StepOne: true},
		{Name: "VISTA", Abbrevs: []string{"VSTA"}},
		{Name: "RETREAT", Abbrevs: []string{"RTT"}},
		{Name: "POINT", Abbrevs: []string{"PT"}},
		{Name: "PROMENADE", Abbrevs: []string{"PROM"}},
		{Name: "CIRCLE", Abbrevs: []string{"CIR"}},
		{Name: "GLEN", Abbrevs: nil},
		{Name: "FREEWAY", Abbrevs: []string{"FWY"}},
		{Name: "ALLEY", Abbrevs: []string{"ALY"}},
	}
}

// DefaultStreetSuffixes returns the recognised street suffix
// abbreviations (GEORGE STREET NORTH, PACIFIC HIGHWAY EX).
func DefaultStreetSuffixes() map[string]string {
	return map[string]string{
		"N":   "NORTH",
		"NTH": "NORTH",
		"S":   "SOUTH",
		"STH": "SOUTH",
		"E":   "EAST",
		"W":   "WEST",
		"NE":  "NORTH EAST",
		"NW":  "NORTH WEST",
		"SE":  "SOUTH EAST",
		"SW":  "SOUTH WEST",
		"EX":  "EXTENSION",
		"CN":  "CENTRAL",
		"UP":  "UPPER",
		"LR":  "LOWER",
	}
}

// DefaultPostalPatterns returns the postal delivery service patterns with
// their delivery-number cardinality.
func DefaultPostalPatterns() []PostalPattern {
	return []PostalPattern{
		{Name: "GPO BOX", Re: regexp.MustCompile(`\bG\.?P\.?O\.?\s*BOX\b`), Card: OneNumber},
		{Name: "PO BOX", Re: regexp.MustCompile(`\bP\.?O\.?\s*BOX\b`), Card: OneNumber},
		{Name: "LOCKED BAG", Re: regexp.MustCompile(`\bLOCKED\s+BAG\b`), Card: OneNumber},
		{Name: "PRIVATE BAG", Re: regexp.MustCompile(`\bPRIVATE\s+BAG\b`), Card: OneNumber},
		{Name: "RMB", Re: regexp.MustCompile(`\bR\.?M\.?B\.?\b`), Card: OptionalNumber},
		{Name: "RSD", Re: regexp.MustCompile(`\bR\.?S\.?D\.?\b`), Card: OptionalNumber},
		{Name: "CMB", Re: regexp.MustCompile(`\bC\.?M\.?B\.?\b`), Card: OneNumber},
		{Name: "MAIL SERVICE", Re: regexp.MustCompile(`\bM\.?S\.?\b`), Card: OneNumber},
		{Name: "CARE PO", Re: regexp.MustCompile(`\b(?:CARE|C/-)\s*P\.?O\.?\b`), Card: NoNumber},
	}
}

// DefaultFlatPatterns returns the unit/flat trim patterns applied to the
// region before the house number. Patterns must anchor at the start; the
// extractor keeps the longest consumed prefix.
func DefaultFlatPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`^(?:FLAT|UNIT|APARTMENT|APT|VILLA|SHOP|SUITE|SE)\s+[0-9]{1,4}[A-Z]?\b[,/ ]?`),
		regexp.MustCompile(`^(?:FLAT|UNIT|APARTMENT|APT|VILLA|SHOP|SUITE)\s+[A-Z]\b[,/ ]?`),
		regexp.MustCompile(`^[0-9]{1,4}[A-Z]?\s*/\s*`),
		regexp.MustCompile(`^U\s?[0-9]{1,4}[A-Z]?\b[,/ ]?`),
	}
}

// DefaultLevelPatterns returns the level/floor trim patterns.
func DefaultLevelPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`^(?:LEVEL|LVL|FLOOR|FLR)\s+[0-9]{1,3}\b[,/ ]?`),
		regexp.MustCompile(`^(?:GROUND|FIRST|SECOND|THIRD)\s+FLOOR\b[,/ ]?`),
		regexp.MustCompile(`^BASEMENT\b[,/ ]?`),
	}
}
