package render

import (
	"math"

	"github.com/taigrr/vitrine/pkg/math3d"
)

// Camera is a perspective camera looking from Position toward Target.
// The aspect ratio is derived from the viewport size and cannot be set on
// its own.
type Camera struct {
	// Position in world space
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	// Projection parameters
	FOV  float64 // Vertical field of view in degrees
	Near float64 // Near clipping plane
	Far  float64 // Far clipping plane

	aspect float64

	// Cached matrices (computed on demand)
	viewMatrix math3d.Mat4
	projMatrix math3d.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewCamera creates a camera with the given vertical field of view in
// degrees and clip planes, at (0, 0, 5) looking at the origin.
func NewCamera(fov, near, far float64) *Camera {
	return &Camera{
		Position:  math3d.V3(0, 0, 5),
		Up:        math3d.Up(),
		FOV:       fov,
		Near:      near,
		Far:       far,
		aspect:    1,
		viewDirty: true,
		projDirty: true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
}

// SetViewport sets the output size and recomputes the aspect ratio.
// Non-positive sizes keep the previous aspect ratio.
func (c *Camera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.aspect = float64(width) / float64(height)
	}
	c.projDirty = true
}

// AspectRatio returns width / height of the viewport.
func (c *Camera) AspectRatio() float64 {
	return c.aspect
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV*math.Pi/180, c.aspect, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}
