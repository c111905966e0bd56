package bond

import (
	"math/rand"
	"testing"

	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
	"github.com/stretchr/testify/require"
)

type connFactory func(m *particle.Monomer) Connection

func ligandConn(m *particle.Monomer) Connection { return NewLigand(m, DefaultParams()) }

func triangleConn(m *particle.Monomer) Connection {
	return NewTriangle(m, DefaultParams(), true)
}

func heptamerConn(m *particle.Monomer) Connection { return NewHeptamer(m, DefaultParams()) }

// fixture lays n monomers of geometry g along +x, one unit apart, wraps
// them in bonds and registers them in a fresh arena.
func fixture(t *testing.T, n int, g particle.Geometry, mk connFactory, species *Species) (*Arena, []*ActiveBond) {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	arena := NewArena()
	builder := particle.NewBuilder()
	bonds := make([]*ActiveBond, n)
	for i := 0; i < n; i++ {
		m := builder.Build(g, dynamo.Vec3{X: float64(i)}, dynamo.Vec3{X: 1})
		b := New(m, species, mk(m), NewProximityOn(2, 2), NewRateOff(rng, 0, 0))
		require.True(t, arena.Add(b))
		bonds[i] = b
	}
	return arena, bonds
}

// assemble links bonds[i] -> bonds[i+1] so bonds[0] is the chain tail.
func assemble(t *testing.T, bonds []*ActiveBond) {
	t.Helper()
	for i := 0; i+1 < len(bonds); i++ {
		require.True(t, bonds[i].AddHeadAdjacentBond(bonds[i+1]), "link %d", i)
	}
}

func requireSymmetric(t *testing.T, arena *Arena) {
	t.Helper()
	for _, b := range arena.Bonds() {
		if h := b.HeadAdjacent(); h != nil {
			require.Same(t, b, h.TailAdjacent(), "bond %d head link not mirrored", b.ID())
		}
		if tl := b.TailAdjacent(); tl != nil {
			require.Same(t, b, tl.HeadAdjacent(), "bond %d tail link not mirrored", b.ID())
		}
	}
}

// fixedRand returns the same draw every time.
type fixedRand float64

func (f fixedRand) Float64() float64     { return float64(f) }
func (f fixedRand) NormFloat64() float64 { return 0 }
