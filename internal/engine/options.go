package engine

import "github.com/gnaf-verify/internal/refdata"

// Options is the process-wide engine configuration. It is fixed at
// construction; per-call state lives in the request context.
type Options struct {
	// NTPostcodes treats 3-digit 8xx postcodes as 08xx (Northern
	// Territory inputs that lost their leading zero).
	NTPostcodes bool

	// Region infers the state from a uniquely-determined suburb when no
	// state was supplied.
	Region bool

	// Abbreviate renders street types abbreviated in the output address
	// lines. ReturnBoth emits both full and abbreviated forms.
	Abbreviate bool
	ReturnBoth bool

	// AddExtras enables the supplementary trim patterns registered by the
	// loader on top of the standard flat and level patterns.
	AddExtras bool

	// CommunityNames expands indigenous-community keyword abbreviations
	// (CMTY, OUTSTN) in the leftover text before the suburb scan.
	CommunityNames bool

	// SuburbSourceWeight and StreetSourceWeight rank provenance tags when
	// competing candidates carry the same house number.
	SuburbSourceWeight map[refdata.Tag]int
	StreetSourceWeight map[refdata.Tag]int

	// FuzzLevels is the escalation ladder to run, in order. Levels omitted
	// here are skipped entirely.
	FuzzLevels []int

	// MaxCandidates bounds the size of the working suburb and street sets
	// so a pathological input cannot expand without limit.
	MaxCandidates int

	// Trace enables per-request trace logging.
	Trace bool
}

// DefaultOptions returns the standard configuration: all ten fuzz levels,
// default source weights, no abbreviation.
func DefaultOptions() *Options {
	return &Options{
		SuburbSourceWeight: refdata.DefaultSuburbWeights(),
		StreetSourceWeight: refdata.DefaultStreetWeights(),
		FuzzLevels:         []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		MaxCandidates:      2000,
	}
}

func (o *Options) suburbWeight(t refdata.Tag) int {
	return refdata.WeightOf(o.SuburbSourceWeight, t)
}

func (o *Options) streetWeight(t refdata.Tag) int {
	return refdata.WeightOf(o.StreetSourceWeight, t)
}
