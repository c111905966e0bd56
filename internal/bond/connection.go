package bond

import (
	"github.com/san-kum/dynpoly/internal/particle"
	"github.com/san-kum/dynpoly/internal/physics"
)

// ConnectionKind names a connection variant.
type ConnectionKind int

const (
	KindLigand ConnectionKind = iota
	KindInline
	KindTriangle
	KindHeptamer
)

func (k ConnectionKind) String() string {
	switch k {
	case KindLigand:
		return "ligand"
	case KindInline:
		return "inline"
	case KindTriangle:
		return "triangle"
	case KindHeptamer:
		return "heptamer"
	default:
		return "unknown"
	}
}

// Connection owns the force primitives linking a bond's monomer to the
// monomer of its head neighbor.
type Connection interface {
	Kind() ConnectionKind

	// AddHeadMonomer wires the two-body primitives to head.
	AddHeadMonomer(head *particle.Monomer)
	// AddHeadBond is used during chain assembly; chain-aware variants
	// also enable bend terms spanning neighboring bonds.
	AddHeadBond(self, head *ActiveBond)
	// RemoveHeadMonomer unwires the head and clears three-body terms on
	// self and head.
	RemoveHeadMonomer(self, head *ActiveBond)
	HasHead() bool

	AddForce()
	AddThreeBodyForce()
	PotentialEnergy() float64

	// Lattice reports the bead pattern of chain-aware variants.
	Lattice() (Lattice, bool)
	// EnableThreeBody turns on bends spanning tail, the owner and its
	// head. It reports false when tail's connection is not compatible.
	EnableThreeBody(tail *ActiveBond) bool
	DisableThreeBody()
	ThreeBody() bool
}

// Params are the force constants shared by all connection variants.
type Params struct {
	SpringConstant float64
	LinkLength     float64
	BendModulus    float64
	PreferredAngle float64
}

func DefaultParams() Params {
	return Params{
		SpringConstant: physics.DefaultSpringConstant,
		LinkLength:     physics.DefaultUnstretched,
		BendModulus:    physics.DefaultBendModulus,
	}
}

// flat is embedded by variants without three-body terms.
type flat struct{}

func (flat) AddThreeBodyForce()               {}
func (flat) Lattice() (Lattice, bool)         { return Lattice{}, false }
func (flat) EnableThreeBody(*ActiveBond) bool { return false }
func (flat) DisableThreeBody()                {}
func (flat) ThreeBody() bool                  { return false }

// Ligand joins the head beads of two monomers with one spring. It suits
// strict one-to-one pairings such as receptor and ligand.
type Ligand struct {
	flat
	self   *particle.Monomer
	head   *particle.Monomer
	spring *physics.Spring
}

func NewLigand(self *particle.Monomer, p Params) *Ligand {
	return &Ligand{self: self, spring: physics.NewSpring(p.SpringConstant, p.LinkLength)}
}

func (c *Ligand) Kind() ConnectionKind { return KindLigand }
func (c *Ligand) HasHead() bool        { return c.head != nil }

func (c *Ligand) AddHeadMonomer(head *particle.Monomer) {
	c.head = head
	c.spring.SetBeads(c.self.Head(), head.Head())
}

func (c *Ligand) AddHeadBond(_, head *ActiveBond) {
	c.AddHeadMonomer(head.Monomer())
}

func (c *Ligand) RemoveHeadMonomer(_, _ *ActiveBond) {
	c.head = nil
	c.spring.SetBeads(nil, nil)
}

func (c *Ligand) AddForce()                { c.spring.AddForce() }
func (c *Ligand) PotentialEnergy() float64 { return c.spring.PotentialEnergy() }
func (c *Ligand) Spring() *physics.Spring  { return c.spring }

// Inline links consecutive two-bead monomers head-to-tail with one spring
// and keeps the junction straight with one bend term.
type Inline struct {
	flat
	self   *particle.Monomer
	head   *particle.Monomer
	spring *physics.Spring
	bend   *physics.BendAngle
}

func NewInline(self *particle.Monomer, p Params) *Inline {
	return &Inline{
		self:   self,
		spring: physics.NewSpring(p.SpringConstant, p.LinkLength),
		bend:   physics.NewBendAngle(p.BendModulus, p.PreferredAngle),
	}
}

func (c *Inline) Kind() ConnectionKind { return KindInline }
func (c *Inline) HasHead() bool        { return c.head != nil }

func (c *Inline) AddHeadMonomer(head *particle.Monomer) {
	c.head = head
	c.spring.SetBeads(c.self.Head(), head.Tail())
	c.bend.SetBeads(c.self.Tail(), c.self.Head(), head.Tail())
}

func (c *Inline) AddHeadBond(_, head *ActiveBond) {
	c.AddHeadMonomer(head.Monomer())
}

func (c *Inline) RemoveHeadMonomer(_, _ *ActiveBond) {
	c.head = nil
	c.spring.SetBeads(nil, nil)
	c.bend.SetBeads(nil, nil, nil)
}

func (c *Inline) AddForce() {
	c.spring.AddForce()
	c.bend.AddForce()
}

func (c *Inline) PotentialEnergy() float64 {
	return c.spring.PotentialEnergy() + c.bend.PotentialEnergy()
}
