package bond

import (
	"math"
	"testing"

	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitParams() Params {
	p := DefaultParams()
	p.LinkLength = 1
	return p
}

func TestLigand_WiresHeadBeads(t *testing.T) {
	_, b := fixture(t, 2, particle.Rod, ligandConn, nil)
	require.True(t, b[0].AddHeadAdjacentBond(b[1]))

	c := b[0].Connection().(*Ligand)
	b1, b2 := c.Spring().Beads()
	assert.Same(t, b[0].Monomer().Head(), b1)
	assert.Same(t, b[1].Monomer().Head(), b2)
	assert.Equal(t, KindLigand, c.Kind())
	_, ok := c.Lattice()
	assert.False(t, ok)

	require.True(t, b[0].RemoveHeadAdjacentBond())
	assert.False(t, c.Spring().Wired())
}

func TestInline_StraightJunctionAtRest(t *testing.T) {
	mk := func(m *particle.Monomer) Connection { return NewInline(m, DefaultParams()) }
	_, b := fixture(t, 2, particle.Rod, mk, nil)
	require.True(t, b[0].AddHeadAdjacentBond(b[1]))

	// Rods of length 0.5 one unit apart leave a 0.5 gap: the rest length.
	assert.InDelta(t, 0, b[0].PotentialEnergy(), 1e-12)

	b[1].Monomer().Tail().Pos = b[1].Monomer().Tail().Pos.Add(dynamo.Vec3{Y: 0.3})
	assert.Positive(t, b[0].PotentialEnergy())
	b[0].AddForce()
	assert.NotEqual(t, dynamo.Vec3{}, b[1].Monomer().Tail().Force)
}

func TestTriangle_ThreeBodyEnabledByTwoHopNeighbor(t *testing.T) {
	orders := map[string][][2]int{
		"tail first": {{0, 1}, {1, 2}},
		"head first": {{1, 2}, {0, 1}},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			_, b := fixture(t, 3, particle.Triangle, triangleConn, nil)
			for _, link := range order {
				require.True(t, b[link[0]].AddHeadAdjacentBond(b[link[1]]))
			}

			assert.False(t, b[0].Connection().ThreeBody(), "chain tail has no two-hop neighbor")
			assert.True(t, b[1].Connection().ThreeBody())
			assert.False(t, b[2].Connection().ThreeBody(), "chain head has no connection in use")
		})
	}
}

func TestTriangle_RemoveClearsThreeBodyOnBothBonds(t *testing.T) {
	_, b := fixture(t, 4, particle.Triangle, triangleConn, nil)
	assemble(t, b)
	require.True(t, b[1].Connection().ThreeBody())
	require.True(t, b[2].Connection().ThreeBody())

	require.True(t, b[1].SeparateHeadAdjacentBond())

	assert.False(t, b[1].Connection().ThreeBody(), "lost its head")
	assert.False(t, b[2].Connection().ThreeBody(), "lost its tail")
	assert.False(t, b[1].Connection().HasHead())
}

func TestTriangle_IncompatibleNeighborOmitsBend(t *testing.T) {
	arena := NewArena()
	builder := particle.NewBuilder()
	var b []*ActiveBond
	for i := 0; i < 3; i++ {
		m := builder.Build(particle.Triangle, dynamo.Vec3{X: float64(i)}, dynamo.Vec3{X: 1})
		var conn Connection = NewTriangle(m, unitParams(), true)
		if i == 0 {
			conn = NewLigand(m, unitParams())
		}
		bd := New(m, nil, conn, NewProximityOn(2, 2), nil)
		require.True(t, arena.Add(bd))
		b = append(b, bd)
	}
	assemble(t, b)

	assert.True(t, b[1].Connection().HasHead())
	assert.False(t, b[1].Connection().ThreeBody())
	assert.False(t, b[1].Connection().EnableThreeBody(b[0]))
}

func TestTriangle_HeptamerNeighborIsIncompatible(t *testing.T) {
	tri, _ := NewTriangle(particle.NewBuilder().Build(particle.Triangle, dynamo.Vec3{}, dynamo.Vec3{X: 1}), unitParams(), true).Lattice()
	hep, _ := NewHeptamer(particle.NewBuilder().Build(particle.Heptamer, dynamo.Vec3{}, dynamo.Vec3{X: 1}), unitParams()).Lattice()
	assert.False(t, tri.compatible(hep))
	assert.True(t, tri.compatible(triangleLattice))
}

func TestLatticeShapes(t *testing.T) {
	m3 := particle.NewBuilder().Build(particle.Triangle, dynamo.Vec3{}, dynamo.Vec3{X: 1})
	m7 := particle.NewBuilder().Build(particle.Heptamer, dynamo.Vec3{}, dynamo.Vec3{X: 1})

	tests := []struct {
		name                         string
		conn                         Connection
		internal, rails, cross, bend int
	}{
		{"triangle", NewTriangle(m3, unitParams(), true), 3, 3, 2, 3},
		{"triangle without cross", NewTriangle(m3, unitParams(), false), 3, 3, 0, 3},
		{"heptamer", NewHeptamer(m7, unitParams()), 11, 7, 6, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := tt.conn.Lattice()
			require.True(t, ok)
			assert.Len(t, l.Internal, tt.internal)
			assert.Len(t, l.Rails, tt.rails)
			assert.Len(t, l.Cross, tt.cross)
			assert.Len(t, l.Bends, tt.bend)
		})
	}
}

func TestLatticeChainAtRestHasNoEnergy(t *testing.T) {
	factories := map[string]struct {
		g  particle.Geometry
		mk connFactory
	}{
		"triangle": {particle.Triangle, func(m *particle.Monomer) Connection { return NewTriangle(m, unitParams(), true) }},
		"heptamer": {particle.Heptamer, func(m *particle.Monomer) Connection { return NewHeptamer(m, unitParams()) }},
	}

	for name, f := range factories {
		t.Run(name, func(t *testing.T) {
			_, b := fixture(t, 4, f.g, f.mk, nil)
			assemble(t, b)
			total := 0.0
			for _, bd := range b {
				total += bd.PotentialEnergy()
			}
			assert.InDelta(t, 0, total, 1e-9)
		})
	}
}

func TestLatticeForcesSumToZero(t *testing.T) {
	_, b := fixture(t, 4, particle.Heptamer, heptamerConn, nil)
	assemble(t, b)

	// Perturb every bead so all springs and bends are loaded.
	for i, bd := range b {
		for j, bead := range bd.Monomer().Beads {
			bead.Pos = bead.Pos.Add(dynamo.Vec3{
				X: 0.05 * math.Sin(float64(i*7+j)),
				Y: 0.05 * math.Cos(float64(i*3+j)),
				Z: 0.03 * math.Sin(float64(i+j*5)),
			})
		}
	}
	for _, bd := range b {
		bd.AddForce()
		bd.AddThreeBodyForce()
	}

	var net dynamo.Vec3
	for _, bd := range b {
		for _, bead := range bd.Monomer().Beads {
			net = net.Add(bead.Force)
		}
	}
	assert.InDelta(t, 0, net.Norm(), 1e-9)
}

func TestConnectionKindString(t *testing.T) {
	assert.Equal(t, "ligand", KindLigand.String())
	assert.Equal(t, "inline", KindInline.String())
	assert.Equal(t, "triangle", KindTriangle.String())
	assert.Equal(t, "heptamer", KindHeptamer.String())
	assert.Equal(t, "unknown", ConnectionKind(42).String())
}
