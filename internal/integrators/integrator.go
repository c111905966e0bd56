// Package integrators advances bead positions under the forces the
// assembly engine accumulates.
package integrators

import (
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
)

// ForceFunc recomputes the force on every bead at its current position.
type ForceFunc func()

type Integrator interface {
	Name() string
	Step(beads []*particle.Bead, forces ForceFunc, dt float64)
}

// Box is an axis-aligned reflecting container. The zero Box is unbounded.
type Box struct {
	Min, Max dynamo.Vec3
}

func NewBox(side float64) Box {
	h := side / 2
	return Box{Min: dynamo.Vec3{X: -h, Y: -h, Z: -h}, Max: dynamo.Vec3{X: h, Y: h, Z: h}}
}

func (b Box) Bounded() bool {
	return b.Max.X > b.Min.X && b.Max.Y > b.Min.Y && b.Max.Z > b.Min.Z
}

// Contains reports whether p lies inside the box; always true when unbounded.
func (b Box) Contains(p dynamo.Vec3) bool {
	if !b.Bounded() {
		return true
	}
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Reflect mirrors a bead that left the box back inside and flips the
// offending velocity component.
func (b Box) Reflect(bead *particle.Bead) {
	if !b.Bounded() {
		return
	}
	bead.Pos.X, bead.Vel.X = reflect1(bead.Pos.X, bead.Vel.X, b.Min.X, b.Max.X)
	bead.Pos.Y, bead.Vel.Y = reflect1(bead.Pos.Y, bead.Vel.Y, b.Min.Y, b.Max.Y)
	bead.Pos.Z, bead.Vel.Z = reflect1(bead.Pos.Z, bead.Vel.Z, b.Min.Z, b.Max.Z)
}

func reflect1(x, v, lo, hi float64) (float64, float64) {
	for i := 0; i < 4 && (x < lo || x > hi); i++ {
		if x < lo {
			x = 2*lo - x
		} else {
			x = 2*hi - x
		}
		v = -v
	}
	if x < lo {
		x = lo
	} else if x > hi {
		x = hi
	}
	return x, v
}

func inverseMass(b *particle.Bead) float64 {
	if b.Mass <= 0 {
		return 1
	}
	return 1 / b.Mass
}
