package bond

import (
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
)

// ActiveBond wraps a monomer and binds it into a chain.
type ActiveBond struct {
	id      ID
	monomer *particle.Monomer
	species *Species
	arena   *Arena

	head, tail  ID
	polymerized bool
	phantom     bool

	connection slot[Connection]
	on         slot[OnCondition]
	off        slot[OffCondition]

	nucleotide Nucleotide
}

// New wraps m. A nil species behaves as an unlimited, non-severing species
// without nucleotide kinetics.
func New(m *particle.Monomer, species *Species, conn Connection, on OnCondition, off OffCondition) *ActiveBond {
	if species == nil {
		species = &Species{Name: "generic"}
	}
	b := &ActiveBond{
		id:      ID(m.ID),
		monomer: m,
		species: species,
		head:    NoID,
		tail:    NoID,
	}
	b.connection.current = conn
	b.on.current = on
	b.off.current = off
	return b
}

func (b *ActiveBond) ID() ID                     { return b.id }
func (b *ActiveBond) Monomer() *particle.Monomer { return b.monomer }
func (b *ActiveBond) Species() *Species          { return b.species }
func (b *ActiveBond) Polymerized() bool          { return b.polymerized }
func (b *ActiveBond) Connection() Connection     { return b.connection.current }
func (b *ActiveBond) OnCondition() OnCondition   { return b.on.current }
func (b *ActiveBond) OffCondition() OffCondition { return b.off.current }

func (b *ActiveBond) HeadAdjacent() *ActiveBond {
	if b.arena == nil {
		return nil
	}
	return b.arena.Get(b.head)
}

func (b *ActiveBond) TailAdjacent() *ActiveBond {
	if b.arena == nil {
		return nil
	}
	return b.arena.Get(b.tail)
}

// IsPhantom reports whether the bond is excluded from binding, either by
// its own flag or by its on-condition's.
func (b *ActiveBond) IsPhantom() bool {
	if b.phantom {
		return true
	}
	on := b.OnCondition()
	return on != nil && on.IsPhantom()
}

func (b *ActiveBond) SetPhantom(phantom bool) { b.phantom = phantom }

func (b *ActiveBond) SetVisible()     { b.monomer.SetVisible(true) }
func (b *ActiveBond) SetInvisible()   { b.monomer.SetVisible(false) }
func (b *ActiveBond) IsVisible() bool { return b.monomer.IsVisible() }

// AddHeadAdjacentBond links target in front of b and wires b's connection
// to it. It fails if b already has a head, target already has a tail, b has
// no connection, or the link would close a cycle.
func (b *ActiveBond) AddHeadAdjacentBond(target *ActiveBond) bool {
	if target == nil || target == b || b.arena == nil || target.arena != b.arena {
		return false
	}
	if b.head != NoID || target.tail != NoID {
		return false
	}
	conn := b.Connection()
	if conn == nil {
		return false
	}
	if b.ChainTail() == target {
		return false
	}
	b.arena.link(b, target)
	conn.AddHeadBond(b, target)
	return true
}

// AddTailAdjacentBond links target behind b using target's connection.
func (b *ActiveBond) AddTailAdjacentBond(target *ActiveBond) bool {
	if target == nil {
		return false
	}
	return target.AddHeadAdjacentBond(b)
}

// RemoveHeadAdjacentBond detaches the head neighbor and marks it
// unpolymerized unless it is still linked further toward the head. b keeps
// its own flag; a two-bond chain is taken apart with DissolveFromHead.
func (b *ActiveBond) RemoveHeadAdjacentBond() bool {
	h := b.HeadAdjacent()
	if h == nil {
		return false
	}
	b.detachHead(h)
	h.polymerized = h.head != NoID
	return true
}

// RemoveTailAdjacentBond detaches the tail neighbor and marks it
// unpolymerized unless it is still linked further toward the tail.
func (b *ActiveBond) RemoveTailAdjacentBond() bool {
	t := b.TailAdjacent()
	if t == nil {
		return false
	}
	t.detachHead(b)
	t.polymerized = t.tail != NoID
	return true
}

// SeparateHeadAdjacentBond is RemoveHeadAdjacentBond without touching any
// polymerized flag. The caller owns fixing the flags of the two sub-chains;
// SplitAtHead does that.
func (b *ActiveBond) SeparateHeadAdjacentBond() bool {
	h := b.HeadAdjacent()
	if h == nil {
		return false
	}
	b.detachHead(h)
	return true
}

// SeparateTailAdjacentBond mirrors SeparateHeadAdjacentBond at the tail.
func (b *ActiveBond) SeparateTailAdjacentBond() bool {
	t := b.TailAdjacent()
	if t == nil {
		return false
	}
	t.detachHead(b)
	return true
}

// SplitAtHead separates b from its head neighbor and marks either side
// unpolymerized when it is left as a single bond.
func (b *ActiveBond) SplitAtHead() bool {
	h := b.HeadAdjacent()
	if h == nil || !b.SeparateHeadAdjacentBond() {
		return false
	}
	if b.tail == NoID {
		b.polymerized = false
	}
	if h.head == NoID {
		h.polymerized = false
	}
	return true
}

// DissolveFromHead takes a two-bond chain apart and returns both bonds to
// the free pool. It fails for any other chain length.
func (b *ActiveBond) DissolveFromHead() bool {
	if b.ChainLength() != 2 {
		return false
	}
	tail, head := b, b.HeadAdjacent()
	if head == nil {
		tail, head = b.TailAdjacent(), b
	}
	tail.detachHead(head)
	tail.polymerized = false
	head.polymerized = false
	return true
}

func (b *ActiveBond) detachHead(h *ActiveBond) {
	if conn := b.Connection(); conn != nil {
		conn.RemoveHeadMonomer(b, h)
	}
	b.arena.unlink(b, h)
}

// AddForce applies the two-body connection forces; it does nothing until a
// head monomer is attached.
func (b *ActiveBond) AddForce() {
	conn := b.Connection()
	if conn == nil || !conn.HasHead() {
		return
	}
	conn.AddForce()
}

func (b *ActiveBond) AddThreeBodyForce() {
	if conn := b.Connection(); conn != nil {
		conn.AddThreeBodyForce()
	}
}

// PotentialEnergy of the bond's connection; zero when unattached.
func (b *ActiveBond) PotentialEnergy() float64 {
	conn := b.Connection()
	if conn == nil || !conn.HasHead() {
		return 0
	}
	return conn.PotentialEnergy()
}

// ReplaceConnection swaps in conn, retaining the current connection for
// RestorePreviousConnection. An attached head is rewired to conn.
func (b *ActiveBond) ReplaceConnection(conn Connection) bool {
	if conn == nil {
		return false
	}
	h := b.HeadAdjacent()
	if old := b.Connection(); old != nil && h != nil {
		old.RemoveHeadMonomer(b, h)
	}
	b.connection.replace(conn)
	if h != nil {
		conn.AddHeadBond(b, h)
	}
	return true
}

func (b *ActiveBond) RestorePreviousConnection() bool {
	if !b.connection.retained || b.connection.previous == nil {
		return false
	}
	h := b.HeadAdjacent()
	if cur := b.Connection(); cur != nil && h != nil {
		cur.RemoveHeadMonomer(b, h)
	}
	b.connection.restore()
	if h != nil {
		b.Connection().AddHeadBond(b, h)
	}
	return true
}

func (b *ActiveBond) ReplaceOnCondition(on OnCondition) bool {
	if on == nil {
		return false
	}
	b.on.replace(on)
	return true
}

func (b *ActiveBond) RestorePreviousOnCondition() bool {
	if !b.on.retained || b.on.previous == nil {
		return false
	}
	return b.on.restore()
}

func (b *ActiveBond) ReplaceOffCondition(off OffCondition) bool {
	if off == nil {
		return false
	}
	b.off.replace(off)
	return true
}

func (b *ActiveBond) RestorePreviousOffCondition() bool {
	if !b.off.retained || b.off.previous == nil {
		return false
	}
	return b.off.restore()
}

// Activate reports whether target may bind to b. See ActivateEnd.
func (b *ActiveBond) Activate(target *ActiveBond) bool {
	_, ok := b.ActivateEnd(target)
	return ok
}

// ActivateEnd evaluates b's on-condition against a free candidate at b's
// free end, the tail end first. It refuses self-binding, a polymerized
// target, phantoms and growth past either species' bond limit. The end is
// where target would attach; the caller performs the link.
func (b *ActiveBond) ActivateEnd(target *ActiveBond) (End, bool) {
	if target == nil || target.id == b.id || target.polymerized {
		return EndNone, false
	}
	if b.IsPhantom() || target.IsPhantom() {
		return EndNone, false
	}
	on := b.OnCondition()
	if on == nil {
		return EndNone, false
	}
	links := b.ChainLength() - 1
	if !b.species.allowsLinks(links+1) || !target.species.allowsLinks(links+1) {
		return EndNone, false
	}
	switch {
	case b.tail == NoID:
		return EndTail, on.TailOn(b, target)
	case b.head == NoID:
		return EndHead, on.HeadOn(b, target)
	default:
		return EndNone, false
	}
}

// Deactivate reports whether b may separate at its occupied end. See
// DeactivateEnd.
func (b *ActiveBond) Deactivate() bool {
	_, ok := b.DeactivateEnd()
	return ok
}

// DeactivateEnd evaluates b's off-condition at its occupied end, the head
// end first. Severing species never release.
func (b *ActiveBond) DeactivateEnd() (End, bool) {
	if b.species.Severing {
		return EndNone, false
	}
	off := b.OffCondition()
	if off == nil {
		return EndNone, false
	}
	switch {
	case b.head != NoID:
		return EndHead, off.HeadOff(b)
	case b.tail != NoID:
		return EndTail, off.TailOff(b)
	default:
		return EndNone, false
	}
}

// Nucleotide is the bond's chemical state; meaningful for species with
// kinetics only.
func (b *ActiveBond) Nucleotide() Nucleotide { return b.nucleotide }

// Hydrolyse draws once against the species' hydrolysis probability and, on
// success, moves an ATP bond to ADP-Pi.
func (b *ActiveBond) Hydrolyse(rng dynamo.Rand) bool {
	k := b.species.Kinetics
	if k == nil {
		return false
	}
	return b.advance(rng, ATP, ADPPi, k.ATPHydrolysisProb())
}

// ReleasePi moves an ADP-Pi bond to ADP.
func (b *ActiveBond) ReleasePi(rng dynamo.Rand) bool {
	k := b.species.Kinetics
	if k == nil {
		return false
	}
	return b.advance(rng, ADPPi, ADP, k.ADPReleasePiProb())
}

// Phosphorylate moves an ADP bond back to ATP.
func (b *ActiveBond) Phosphorylate(rng dynamo.Rand) bool {
	k := b.species.Kinetics
	if k == nil {
		return false
	}
	return b.advance(rng, ADP, ATP, k.ADPPhosphorylationProb())
}

func (b *ActiveBond) advance(rng dynamo.Rand, from, to Nucleotide, p float64) bool {
	if b.nucleotide != from || !dynamo.Bernoulli(rng, p) {
		return false
	}
	b.nucleotide = to
	b.applyRates()
	return true
}

// applyRates pushes the state-scaled off-rates into a rate-driven
// off-condition; other conditions are left alone.
func (b *ActiveBond) applyRates() {
	k := b.species.Kinetics
	rc, ok := b.OffCondition().(RateController)
	if k == nil || !ok {
		return
	}
	rc.SetHeadRate(k.Rate(b.nucleotide, EndHead))
	rc.SetTailRate(k.Rate(b.nucleotide, EndTail))
}
