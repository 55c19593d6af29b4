package chromatin

import "sort"

// PositionIndex answers position queries over a chain sorted by position.
// It is built once per chain and never modified.
type PositionIndex struct {
	chain []Nucleosome
	wrap  int
}

// NewPositionIndex wraps chain, which must already be sorted by position.
// wrap is the wrapped length used by Covering.
func NewPositionIndex(chain []Nucleosome, wrap int) *PositionIndex {
	return &PositionIndex{chain: chain, wrap: wrap}
}

// Len returns the number of indexed nucleosomes.
func (p *PositionIndex) Len() int {
	return len(p.chain)
}

// FirstAtOrAfter returns the first nucleosome whose position is >= x.
// ok is false when x exceeds the last position.
func (p *PositionIndex) FirstAtOrAfter(x int) (n Nucleosome, ok bool) {
	i := sort.Search(len(p.chain), func(i int) bool {
		return p.chain[i].Position >= x
	})
	if i == len(p.chain) {
		return Nucleosome{}, false
	}
	return p.chain[i], true
}

// Covering returns the attached nucleosome whose wrapped region contains x.
// Wrapped regions never overlap because every linker is at least 1 bp.
func (p *PositionIndex) Covering(x int) (Nucleosome, bool) {
	n, ok := p.FirstAtOrAfter(x)
	if !ok || !n.Protects(x, p.wrap) {
		return Nucleosome{}, false
	}
	return n, true
}
