// Package dynamo provides the core primitives shared by the polymer
// assembly engine and its host simulation.
//
//   - [Vec3]: 3D vector used for bead positions, velocities and forces
//   - [Rand]: the random source every stochastic decision draws from
//   - sentinel errors returned by host layers (config, sim, storage)
//
// # Example
//
//	rng := rand.New(rand.NewSource(42))
//	d := dynamo.Vec3{X: 1}.Sub(dynamo.Vec3{Y: 1})
//	if rng.Float64() < 0.5 && d.NormSq() < 4 {
//	    ...
//	}
//
// # Thread Safety
//
// Nothing in this package holds shared state. A [Rand] is owned by exactly
// one simulation; ensembles give each run its own source.
package dynamo
