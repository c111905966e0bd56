// Package assembly drives the active-bond core through one simulation
// step.
//
// # Passes
//
// An [Engine] runs four passes over the bonds of an arena:
//
//   - UnbindingPass asks every chain end whether it releases and detaches
//     the ones that do. A two-bond chain dissolves entirely.
//   - BindingPass offers each candidate pair from a [PairSource] to the
//     receiving bond and links the pair at the end that accepted.
//   - KineticsPass advances the nucleotide state of filament bonds.
//   - ForcePass clears bead forces and applies every connection's two-body
//     then three-body terms. It is the force callback handed to the
//     integrator.
//
// Passes run on one goroutine; an Engine is not safe for concurrent use.
package assembly
