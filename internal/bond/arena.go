package bond

// ID identifies a bond; it equals the wrapped monomer's id.
type ID int64

// NoID marks an empty link.
const NoID ID = -1

// End names one end of a bond.
type End int

const (
	EndNone End = iota
	EndHead
	EndTail
)

func (e End) String() string {
	switch e {
	case EndHead:
		return "head"
	case EndTail:
		return "tail"
	default:
		return "none"
	}
}

// Arena owns the bonds of one simulation and is the only place links are
// written.
type Arena struct {
	bonds map[ID]*ActiveBond
	order []ID
}

func NewArena() *Arena {
	return &Arena{bonds: make(map[ID]*ActiveBond)}
}

// Add registers b. It fails for a nil bond, a duplicate id or a bond that
// already belongs to an arena.
func (a *Arena) Add(b *ActiveBond) bool {
	if b == nil || b.arena != nil {
		return false
	}
	if _, ok := a.bonds[b.id]; ok {
		return false
	}
	a.bonds[b.id] = b
	a.order = append(a.order, b.id)
	b.arena = a
	return true
}

// Remove drops an unlinked bond from the arena.
func (a *Arena) Remove(id ID) bool {
	b, ok := a.bonds[id]
	if !ok || b.head != NoID || b.tail != NoID {
		return false
	}
	delete(a.bonds, id)
	for i, v := range a.order {
		if v == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	b.arena = nil
	return true
}

func (a *Arena) Get(id ID) *ActiveBond {
	if id == NoID {
		return nil
	}
	return a.bonds[id]
}

func (a *Arena) Len() int { return len(a.order) }

// Bonds returns the bonds in insertion order.
func (a *Arena) Bonds() []*ActiveBond {
	out := make([]*ActiveBond, len(a.order))
	for i, id := range a.order {
		out[i] = a.bonds[id]
	}
	return out
}

// Chains returns every chain of two or more bonds, each ordered tail to
// head, in the insertion order of their tail bonds.
func (a *Arena) Chains() [][]*ActiveBond {
	var chains [][]*ActiveBond
	for _, id := range a.order {
		b := a.bonds[id]
		if b.IsChainTail() && !b.IsChainHead() {
			chains = append(chains, b.Chain())
		}
	}
	return chains
}

// link joins tail -> head and marks both polymerized in one call.
func (a *Arena) link(tail, head *ActiveBond) {
	tail.head = head.id
	head.tail = tail.id
	tail.polymerized = true
	head.polymerized = true
}

// unlink clears the pair without touching polymerized flags.
func (a *Arena) unlink(tail, head *ActiveBond) {
	tail.head = NoID
	head.tail = NoID
}
