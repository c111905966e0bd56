package physics

import (
	"math"

	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
)

// sinEps guards the theta0 != 0 branch near the straight configuration.
const sinEps = 1e-8

// BendAngle is a three-body stiffness term on the angle between the bond
// vectors b1 = r2 - r1 and b2 = r3 - r2. theta0 = 0 prefers a straight line.
type BendAngle struct {
	k          float64
	theta0     float64
	b1, b2, b3 *particle.Bead
}

func NewBendAngle(k, theta0 float64) *BendAngle {
	a := &BendAngle{k: DefaultBendModulus}
	a.SetParams(k, theta0)
	return a
}

func (a *BendAngle) SetBeads(b1, b2, b3 *particle.Bead) {
	a.b1, a.b2, a.b3 = b1, b2, b3
}

// SetParams updates the bending modulus and preferred angle. A negative
// modulus or an angle outside [0, pi] is ignored.
func (a *BendAngle) SetParams(k, theta0 float64) {
	if k >= 0 {
		a.k = k
	}
	if theta0 >= 0 && theta0 <= math.Pi {
		a.theta0 = theta0
	}
}

func (a *BendAngle) Modulus() float64        { return a.k }
func (a *BendAngle) PreferredAngle() float64 { return a.theta0 }
func (a *BendAngle) Wired() bool             { return a.b1 != nil && a.b2 != nil && a.b3 != nil }

func (a *BendAngle) vectors() (dynamo.Vec3, dynamo.Vec3) {
	return a.b2.Pos.Sub(a.b1.Pos), a.b3.Pos.Sub(a.b2.Pos)
}

// Angle returns the current bend angle; 0 for collinear beads.
func (a *BendAngle) Angle() float64 {
	if !a.Wired() {
		return 0
	}
	u, v := a.vectors()
	nu, nv := u.Norm(), v.Norm()
	if nu == 0 || nv == 0 {
		return 0
	}
	c := clamp(u.Dot(v)/(nu*nv), -1, 1)
	return math.Acos(c)
}

func (a *BendAngle) AddForce() {
	if !a.Wired() {
		return
	}
	u, v := a.vectors()
	nu, nv := u.Norm(), v.Norm()
	if nu == 0 || nv == 0 {
		return
	}
	c := clamp(u.Dot(v)/(nu*nv), -1, 1)

	// F = factor * dcos/dr, factor = k sin(theta - theta0) / sin(theta).
	factor := a.k
	if a.theta0 != 0 {
		theta := math.Acos(c)
		s := math.Sin(theta)
		if s < sinEps {
			return
		}
		factor = a.k * math.Sin(theta-a.theta0) / s
	}

	inv := 1 / (nu * nv)
	dcdu := v.Scale(inv).Sub(u.Scale(c / (nu * nu)))
	dcdv := u.Scale(inv).Sub(v.Scale(c / (nv * nv)))

	f1 := dcdu.Scale(-factor)
	f3 := dcdv.Scale(factor)
	a.b1.AddForce(f1)
	a.b3.AddForce(f3)
	a.b2.AddForce(f1.Add(f3).Scale(-1))
}

func (a *BendAngle) PotentialEnergy() float64 {
	if !a.Wired() {
		return 0
	}
	return a.k * (1 - math.Cos(a.Angle()-a.theta0))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
