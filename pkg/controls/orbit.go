// Package controls implements camera interaction: an orbit controller that
// rotates the camera around a target and dollies toward or away from it.
package controls

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/render"
)

const polarEpsilon = 1e-6

// Orbit rotates a camera around Target on a sphere. Rotation input is
// eased out with a damping factor; dolly input carries momentum that a
// critically damped spring bleeds off.
type Orbit struct {
	Target math3d.Vec3

	EnableDamping bool
	DampingFactor float64

	MinDistance   float64
	MaxDistance   float64
	MinPolarAngle float64
	MaxPolarAngle float64

	// Pending rotation, consumed over several updates when damping is on
	thetaDelta float64
	phiDelta   float64

	// Dolly momentum in log-distance units per update
	dollyVel    float64
	dollyAccel  float64
	dollySpring harmonica.Spring
}

// NewOrbit creates an orbit controller updated fps times per second.
func NewOrbit(fps int) *Orbit {
	return &Orbit{
		EnableDamping: true,
		DampingFactor: 0.05,
		MinDistance:   0,
		MaxDistance:   math.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		dollySpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// SetTarget moves the point the camera orbits around.
func (o *Orbit) SetTarget(t math3d.Vec3) {
	o.Target = t
}

// Rotate queues a rotation: azimuth turns around the up axis, polar tilts
// toward or away from it. Angles are in radians.
func (o *Orbit) Rotate(azimuth, polar float64) {
	o.thetaDelta -= azimuth
	o.phiDelta -= polar
}

// Dolly pushes the camera toward the target (negative) or away from it
// (positive). amount is a log-scale impulse; 0.1 is a gentle wheel step.
func (o *Orbit) Dolly(amount float64) {
	o.dollyVel += amount
}

// Stop discards any pending rotation and dolly momentum.
func (o *Orbit) Stop() {
	o.thetaDelta, o.phiDelta = 0, 0
	o.dollyVel, o.dollyAccel = 0, 0
}

// Update moves cam according to pending input and the limits, then points
// it at Target. It reports whether the camera moved.
func (o *Orbit) Update(cam *render.Camera) bool {
	offset := cam.Position.Sub(o.Target)
	radius, theta, phi := toSpherical(offset)

	if o.EnableDamping {
		theta += o.thetaDelta * o.DampingFactor
		phi += o.phiDelta * o.DampingFactor
		o.thetaDelta *= 1 - o.DampingFactor
		o.phiDelta *= 1 - o.DampingFactor
	} else {
		theta += o.thetaDelta
		phi += o.phiDelta
		o.thetaDelta, o.phiDelta = 0, 0
	}

	phi = clamp(phi, o.MinPolarAngle, o.MaxPolarAngle)
	phi = clamp(phi, polarEpsilon, math.Pi-polarEpsilon)

	radius *= math.Exp(o.dollyVel)
	// Use spring to animate momentum toward 0 (smooth deceleration)
	o.dollyVel, o.dollyAccel = o.dollySpring.Update(o.dollyVel, o.dollyAccel, 0)
	if !o.EnableDamping {
		o.dollyVel, o.dollyAccel = 0, 0
	}
	radius = clamp(radius, o.MinDistance, o.MaxDistance)

	pos := o.Target.Add(fromSpherical(radius, theta, phi))
	moved := !pos.ApproxEqual(cam.Position, 1e-9) || cam.Target != o.Target
	cam.SetPosition(pos)
	cam.LookAt(o.Target)
	return moved
}

// toSpherical converts a Y-up offset to radius, azimuth (theta, around +Y
// from +Z) and polar angle (phi, from +Y).
func toSpherical(v math3d.Vec3) (radius, theta, phi float64) {
	radius = v.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	theta = math.Atan2(v.X, v.Z)
	phi = math.Acos(clamp(v.Y/radius, -1, 1))
	return radius, theta, phi
}

func fromSpherical(radius, theta, phi float64) math3d.Vec3 {
	s := math.Sin(phi) * radius
	return math3d.V3(s*math.Sin(theta), math.Cos(phi)*radius, s*math.Cos(theta))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
