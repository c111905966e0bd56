// Package physics provides the bonded force primitives that connection
// strategies wire between monomer beads.
//
//   - [Spring]: Hookean two-body bond, U = k/2 (r - l0)^2
//   - [BendAngle]: three-body stiffness, U = k (1 - cos(theta - theta0))
//   - [Skeleton]: all-pairs springs that hold one monomer in its built shape
//
// Both primitives are created unwired; SetBeads attaches them to beads and
// every AddForce call adds to each bead's force accumulator exactly once.
// An unwired primitive is inert.
//
// # Parameters
//
// Setters reject negative constants and keep the previous value, so a bad
// command never leaves a primitive half-configured:
//
//	s := physics.NewSpring(128, 0.5)
//	s.SetParams(-1, 0.5) // ignored
package physics
