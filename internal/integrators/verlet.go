package integrators

import "github.com/san-kum/dynpoly/internal/particle"

// VelocityVerlet is plain molecular dynamics without a thermostat. It
// reuses the forces of the previous step's second half-kick.
type VelocityVerlet struct {
	Box    Box
	primed bool
}

func NewVelocityVerlet() *VelocityVerlet {
	return &VelocityVerlet{}
}

func (v *VelocityVerlet) Name() string { return "verlet" }

// Reset forces a fresh force evaluation on the next step, e.g. after the
// bond topology changed.
func (v *VelocityVerlet) Reset() { v.primed = false }

func (v *VelocityVerlet) Step(beads []*particle.Bead, forces ForceFunc, dt float64) {
	if !v.primed {
		forces()
		v.primed = true
	}
	halfDt := 0.5 * dt
	for _, b := range beads {
		b.Vel = b.Vel.Add(b.Force.Scale(halfDt * inverseMass(b)))
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		v.Box.Reflect(b)
	}
	forces()
	for _, b := range beads {
		b.Vel = b.Vel.Add(b.Force.Scale(halfDt * inverseMass(b)))
	}
}
