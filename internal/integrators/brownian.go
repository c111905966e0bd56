package integrators

import (
	"math"

	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
)

// Brownian is overdamped Langevin dynamics integrated with Euler-Maruyama:
//
//	x += F dt/γ + sqrt(2 kT dt/γ) ξ
type Brownian struct {
	Friction float64
	KT       float64
	Box      Box
	rng      dynamo.Rand
}

func NewBrownian(friction, kT float64, rng dynamo.Rand) *Brownian {
	if friction <= 0 {
		friction = 1
	}
	if kT < 0 {
		kT = 0
	}
	return &Brownian{Friction: friction, KT: kT, rng: rng}
}

func (b *Brownian) Name() string { return "brownian" }

func (b *Brownian) Step(beads []*particle.Bead, forces ForceFunc, dt float64) {
	forces()
	drift := dt / b.Friction
	noise := math.Sqrt(2 * b.KT * dt / b.Friction)
	for _, bead := range beads {
		step := bead.Force.Scale(drift)
		if noise > 0 {
			step = step.Add(dynamo.Vec3{
				X: b.rng.NormFloat64(),
				Y: b.rng.NormFloat64(),
				Z: b.rng.NormFloat64(),
			}.Scale(noise))
		}
		bead.Vel = step.Scale(1 / dt)
		bead.Pos = bead.Pos.Add(step)
		b.Box.Reflect(bead)
	}
}
