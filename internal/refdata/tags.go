package refdata

// SourceTag identifies the provenance of a suburb or street record.
// Provenance determines trust ranking when several records compete for
// the same name.
type SourceTag uint8

const (
	SourcePrimary   SourceTag = iota // G-NAF primary record
	SourceAlias                      // G-NAF alias name
	SourceCommunity                  // indigenous community
	SourceAusPost                    // Australia-Post-only suburb
	SourceNeighbour                  // derived through the locality neighbour graph
)

// Derivation records how a candidate entered the working set during the
// fuzzy ladder. Direct entries matched literally; the other two arrived
// through phonetic or edit-distance expansion.
type Derivation uint8

const (
	DerivedNone  Derivation = iota
	DerivedSound            // sounds-like (same phonetic code)
	DerivedLooks            // looks-like (within edit-distance bound)
)

// Tag is the full provenance of one candidate: where the record came from
// and how it was reached.
type Tag struct {
	Source SourceTag
	Via    Derivation
}

var (
	TagPrimary   = Tag{Source: SourcePrimary}
	TagAlias     = Tag{Source: SourceAlias}
	TagCommunity = Tag{Source: SourceCommunity}
	TagAusPost   = Tag{Source: SourceAusPost}
	TagNeighbour = Tag{Source: SourceNeighbour}
)

// WithVia returns a copy of the tag marked with the given derivation.
// An already-derived tag keeps its original derivation.
func (t Tag) WithVia(v Derivation) Tag {
	if t.Via != DerivedNone {
		return t
	}
	t.Via = v
	return t
}

// Base returns the tag stripped of any derivation.
func (t Tag) Base() Tag {
	t.Via = DerivedNone
	return t
}

// String renders the legacy tag notation: G, GA, C, A, GN, with an S or L
// suffix for sounds-like and looks-like derivations.
func (t Tag) String() string {
	var s string
	switch t.Source {
	case SourcePrimary:
		s = "G"
	case SourceAlias:
		s = "GA"
	case SourceCommunity:
		s = "C"
	case SourceAusPost:
		s = "A"
	case SourceNeighbour:
		s = "GN"
	default:
		s = "?"
	}
	switch t.Via {
	case DerivedSound:
		s += "S"
	case DerivedLooks:
		s += "L"
	}
	return s
}

// DefaultSuburbWeights is the default trust ranking for suburb sources.
// Primary G-NAF names far outrank anything reached phonetically or by
// edit distance.
func DefaultSuburbWeights() map[Tag]int {
	return map[Tag]int{
		TagPrimary:                          10,
		TagAlias:                            8,
		TagCommunity:                        7,
		TagAusPost:                          6,
		TagNeighbour:                        5,
		TagPrimary.WithVia(DerivedSound):    4,
		TagAlias.WithVia(DerivedSound):      3,
		TagCommunity.WithVia(DerivedSound):  3,
		TagPrimary.WithVia(DerivedLooks):    2,
		TagAlias.WithVia(DerivedLooks):      1,
		TagCommunity.WithVia(DerivedLooks):  1,
		TagAusPost.WithVia(DerivedSound):    2,
		TagAusPost.WithVia(DerivedLooks):    1,
		TagNeighbour.WithVia(DerivedSound):  1,
		TagNeighbour.WithVia(DerivedLooks):  1,
	}
}

// DefaultStreetWeights is the default trust ranking for street sources.
func DefaultStreetWeights() map[Tag]int {
	return map[Tag]int{
		TagPrimary:                       10,
		TagAlias:                         8,
		TagPrimary.WithVia(DerivedSound): 4,
		TagAlias.WithVia(DerivedSound):   3,
		TagPrimary.WithVia(DerivedLooks): 2,
		TagAlias.WithVia(DerivedLooks):   1,
	}
}

// WeightOf looks up the weight for a tag, falling back to 1 for tags the
// table does not list.
func WeightOf(weights map[Tag]int, t Tag) int {
	if w, ok := weights[t]; ok {
		return w
	}
	return 1
}

// BetterTag reports whether a outranks b under the given weight table.
func BetterTag(weights map[Tag]int, a, b Tag) bool {
	return WeightOf(weights, a) > WeightOf(weights, b)
}
