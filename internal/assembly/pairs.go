package assembly

import (
	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/dynamo"
)

// Pair is one binding candidate.
type Pair struct {
	A, B *bond.ActiveBond
}

// PairSource proposes binding candidates among bonds.
type PairSource interface {
	Pairs(bonds []*bond.ActiveBond) []Pair
}

// ExhaustivePairs proposes every unordered pair whose monomer centers lie
// within Radius. A non-positive Radius proposes all pairs.
type ExhaustivePairs struct {
	Radius float64
}

func (p ExhaustivePairs) Pairs(bonds []*bond.ActiveBond) []Pair {
	var out []Pair
	r2 := p.Radius * p.Radius
	centers := make([]dynamo.Vec3, len(bonds))
	for i, b := range bonds {
		centers[i] = b.Monomer().Center()
	}
	for i := 0; i < len(bonds); i++ {
		for j := i + 1; j < len(bonds); j++ {
			if p.Radius > 0 && dynamo.DistSq(centers[i], centers[j]) > r2 {
				continue
			}
			out = append(out, Pair{A: bonds[i], B: bonds[j]})
		}
	}
	return out
}
