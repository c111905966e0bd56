package bond

import (
	"math"

	"github.com/san-kum/dynpoly/internal/particle"
	"github.com/san-kum/dynpoly/internal/physics"
)

// Lattice is the bead pattern of a chain-aware connection. Pairs index
// beads of the owner monomer (first) and its head monomer (second).
type Lattice struct {
	Kind     ConnectionKind
	Beads    int
	Internal [][2]int
	Rails    [][2]int
	Cross    [][2]int
	Bends    []int
}

var triangleLattice = Lattice{
	Kind:     KindTriangle,
	Beads:    3,
	Internal: [][2]int{{0, 1}, {1, 2}, {2, 0}},
	Rails:    [][2]int{{0, 0}, {1, 1}, {2, 2}},
	Cross:    [][2]int{{0, 1}, {1, 2}},
	Bends:    []int{0, 1, 2},
}

var heptamerLattice = func() Lattice {
	l := Lattice{Kind: KindHeptamer, Beads: 7}
	for i := 0; i < 7; i++ {
		l.Rails = append(l.Rails, [2]int{i, i})
		l.Bends = append(l.Bends, i)
		if i+1 < 7 {
			l.Internal = append(l.Internal, [2]int{i, i + 1})
			l.Cross = append(l.Cross, [2]int{i, i + 1})
		}
		if i+2 < 7 {
			l.Internal = append(l.Internal, [2]int{i, i + 2})
		}
	}
	return l
}()

// compatible reports whether o can share bend terms with l.
func (l Lattice) compatible(o Lattice) bool {
	return l.Kind == o.Kind && l.Beads == o.Beads
}

// latticeConnection implements Triangle and Heptamer. Internal springs hold
// the owner's shape, rails and cross springs tie it to its head, and bends
// across three consecutive monomers switch on only when the tail neighbor
// uses a compatible lattice.
type latticeConnection struct {
	lattice  Lattice
	params   Params
	self     *particle.Monomer
	head     *particle.Monomer
	internal []*physics.Spring
	rails    []*physics.Spring
	cross    []*physics.Spring
	bends    []*physics.BendAngle
	three    bool
}

func newLatticeConnection(l Lattice, self *particle.Monomer, p Params, crossSprings bool) *latticeConnection {
	c := &latticeConnection{lattice: l, params: p, self: self}
	if !crossSprings {
		c.lattice.Cross = nil
	}
	for _, pair := range c.lattice.Internal {
		b1, b2 := self.Bead(pair[0]), self.Bead(pair[1])
		s := physics.NewSpring(p.SpringConstant, 0)
		if b1 != nil && b2 != nil {
			s.SetParams(-1, b2.Pos.Sub(b1.Pos).Norm())
			s.SetBeads(b1, b2)
		}
		c.internal = append(c.internal, s)
	}
	for range c.lattice.Rails {
		c.rails = append(c.rails, physics.NewSpring(p.SpringConstant, p.LinkLength))
	}
	for _, pair := range c.lattice.Cross {
		c.cross = append(c.cross, physics.NewSpring(p.SpringConstant, c.crossLength(pair)))
	}
	for range c.lattice.Bends {
		c.bends = append(c.bends, physics.NewBendAngle(p.BendModulus, p.PreferredAngle))
	}
	return c
}

// crossLength is the rest length of a cross spring for monomers stacked
// LinkLength apart along the owner's tail-to-head axis.
func (c *latticeConnection) crossLength(pair [2]int) float64 {
	b1, b2 := c.self.Bead(pair[0]), c.self.Bead(pair[1])
	if b1 == nil || b2 == nil {
		return c.params.LinkLength
	}
	in := b2.Pos.Sub(b1.Pos)
	axis := c.self.Head().Pos.Sub(c.self.Tail().Pos).Unit()
	if axis.NormSq() == 0 {
		return math.Hypot(c.params.LinkLength, in.Norm())
	}
	return in.Add(axis.Scale(c.params.LinkLength)).Norm()
}

func (c *latticeConnection) Kind() ConnectionKind     { return c.lattice.Kind }
func (c *latticeConnection) HasHead() bool            { return c.head != nil }
func (c *latticeConnection) ThreeBody() bool          { return c.three }
func (c *latticeConnection) Lattice() (Lattice, bool) { return c.lattice, true }

func (c *latticeConnection) AddHeadMonomer(head *particle.Monomer) {
	c.head = head
	for i, pair := range c.lattice.Rails {
		c.rails[i].SetBeads(c.self.Bead(pair[0]), head.Bead(pair[1]))
	}
	for i, pair := range c.lattice.Cross {
		c.cross[i].SetBeads(c.self.Bead(pair[0]), head.Bead(pair[1]))
	}
}

func (c *latticeConnection) AddHeadBond(self, head *ActiveBond) {
	c.AddHeadMonomer(head.Monomer())
	if t := self.TailAdjacent(); t != nil {
		c.EnableThreeBody(t)
	}
	if head.HeadAdjacent() != nil {
		if hc := head.Connection(); hc != nil {
			if hl, ok := hc.Lattice(); ok && hl.compatible(c.lattice) {
				hc.EnableThreeBody(self)
			}
		}
	}
}

func (c *latticeConnection) RemoveHeadMonomer(_, head *ActiveBond) {
	c.head = nil
	for _, s := range c.rails {
		s.SetBeads(nil, nil)
	}
	for _, s := range c.cross {
		s.SetBeads(nil, nil)
	}
	c.DisableThreeBody()
	if hc := head.Connection(); hc != nil {
		hc.DisableThreeBody()
	}
}

func (c *latticeConnection) EnableThreeBody(tail *ActiveBond) bool {
	if c.head == nil || tail == nil {
		return false
	}
	tc := tail.Connection()
	if tc == nil {
		return false
	}
	tl, ok := tc.Lattice()
	if !ok || !tl.compatible(c.lattice) {
		return false
	}
	tm := tail.Monomer()
	for i, v := range c.lattice.Bends {
		b1, b2, b3 := tm.Bead(v), c.self.Bead(v), c.head.Bead(v)
		if b1 == nil || b2 == nil || b3 == nil {
			c.DisableThreeBody()
			return false
		}
		c.bends[i].SetBeads(b1, b2, b3)
	}
	c.three = true
	return true
}

func (c *latticeConnection) DisableThreeBody() {
	c.three = false
	for _, a := range c.bends {
		a.SetBeads(nil, nil, nil)
	}
}

func (c *latticeConnection) AddForce() {
	for _, s := range c.internal {
		s.AddForce()
	}
	for _, s := range c.rails {
		s.AddForce()
	}
	for _, s := range c.cross {
		s.AddForce()
	}
}

func (c *latticeConnection) AddThreeBodyForce() {
	if !c.three {
		return
	}
	for _, a := range c.bends {
		a.AddForce()
	}
}

func (c *latticeConnection) PotentialEnergy() float64 {
	e := 0.0
	for _, s := range c.internal {
		e += s.PotentialEnergy()
	}
	for _, s := range c.rails {
		e += s.PotentialEnergy()
	}
	for _, s := range c.cross {
		e += s.PotentialEnergy()
	}
	if c.three {
		for _, a := range c.bends {
			e += a.PotentialEnergy()
		}
	}
	return e
}

// Triangle connects three-bead monomers into a prism-like filament.
type Triangle struct {
	*latticeConnection
}

// NewTriangle builds a triangle connection; crossSprings adds the two
// diagonal springs between consecutive monomers.
func NewTriangle(self *particle.Monomer, p Params, crossSprings bool) *Triangle {
	return &Triangle{newLatticeConnection(triangleLattice, self, p, crossSprings)}
}

// Heptamer connects seven-bead monomers with a denser spring lattice.
type Heptamer struct {
	*latticeConnection
}

func NewHeptamer(self *particle.Monomer, p Params) *Heptamer {
	return &Heptamer{newLatticeConnection(heptamerLattice, self, p, true)}
}
