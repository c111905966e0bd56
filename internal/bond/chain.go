package bond

// walkLimit bounds chain walks by the arena size so a corrupted link can
// never loop forever.
func (b *ActiveBond) walkLimit() int {
	if b.arena == nil {
		return 0
	}
	return b.arena.Len()
}

// CountHeadAdjacentBonds returns how many bonds lie ahead of b in its chain.
func (b *ActiveBond) CountHeadAdjacentBonds() int {
	n, limit := 0, b.walkLimit()
	for cur := b.HeadAdjacent(); cur != nil && n < limit; cur = cur.HeadAdjacent() {
		n++
	}
	return n
}

// CountTailAdjacentBonds returns how many bonds lie behind b in its chain.
func (b *ActiveBond) CountTailAdjacentBonds() int {
	n, limit := 0, b.walkLimit()
	for cur := b.TailAdjacent(); cur != nil && n < limit; cur = cur.TailAdjacent() {
		n++
	}
	return n
}

// ChainLength counts the bonds in b's chain, b included.
func (b *ActiveBond) ChainLength() int {
	return 1 + b.CountHeadAdjacentBonds() + b.CountTailAdjacentBonds()
}

func (b *ActiveBond) ChainHead() *ActiveBond {
	cur, limit := b, b.walkLimit()
	for i := 0; i < limit; i++ {
		next := cur.HeadAdjacent()
		if next == nil {
			break
		}
		cur = next
	}
	return cur
}

func (b *ActiveBond) ChainTail() *ActiveBond {
	cur, limit := b, b.walkLimit()
	for i := 0; i < limit; i++ {
		next := cur.TailAdjacent()
		if next == nil {
			break
		}
		cur = next
	}
	return cur
}

// Chain returns b's chain ordered from tail to head.
func (b *ActiveBond) Chain() []*ActiveBond {
	chain := []*ActiveBond{b.ChainTail()}
	limit := b.walkLimit()
	for len(chain) < limit {
		next := chain[len(chain)-1].HeadAdjacent()
		if next == nil {
			break
		}
		chain = append(chain, next)
	}
	return chain
}

// IsChainHead reports a bond with no head link. A singleton is both head
// and tail of its own chain.
func (b *ActiveBond) IsChainHead() bool { return b.head == NoID }

// IsChainTail reports a bond with no tail link.
func (b *ActiveBond) IsChainTail() bool { return b.tail == NoID }
