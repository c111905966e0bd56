// Package bond implements active bonds: stateful wrappers that let
// monomers reversibly bind head-to-tail into linear chains.
//
// The main pieces are:
//
//   - [ActiveBond]: wraps one monomer, holds its chain links and owns a
//     [Connection], an [OnCondition] and an [OffCondition]
//   - [Arena]: owns the bonds of one simulation, keyed by stable [ID]
//   - connection variants [Ligand], [Inline], [Triangle], [Heptamer]
//   - conditions [ProximityOn], [RateOff], [ProximityOff]
//   - [Species] and [Kinetics]: per-species limits and the ATP / ADP-Pi /
//     ADP nucleotide model of filament monomers
//
// A chain is never materialized. It is the run of bonds reachable through
// head and tail links, walked with [ActiveBond.ChainHead],
// [ActiveBond.ChainTail] and [ActiveBond.Chain].
//
// # Links
//
// Links are stored as IDs and always changed in pairs by the arena, so
// a.HeadAdjacent() == b holds exactly when b.TailAdjacent() == a. Every
// mutating operation reports success as a bool and leaves both bonds
// untouched on failure.
//
// # Binding
//
// Activate and Deactivate only decide. The caller performs the edit:
//
//	if end, ok := b.ActivateEnd(free); ok {
//	    if end == bond.EndTail {
//	        b.AddTailAdjacentBond(free)
//	    } else {
//	        b.AddHeadAdjacentBond(free)
//	    }
//	}
//
// # Thread Safety
//
// Nothing here is safe for concurrent use. One arena is mutated by one
// stepping loop.
package bond
