package viewer

import (
	"math"

	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/models"
)

// Framing is the outcome of fitting a model into view.
type Framing struct {
	// Bounding box of the model before it was moved
	Center math3d.Vec3
	Size   math3d.Vec3
	MaxDim float64

	CameraPosition math3d.Vec3
	CameraTarget   math3d.Vec3

	// Degenerate is set when the model has no extent. The camera then
	// sits at the origin.
	Degenerate bool
}

// CameraDistance returns how far from the origin a camera with the given
// vertical field of view (degrees) must be to fit an object of size maxDim,
// with a 2x margin.
func CameraDistance(maxDim, fov float64) float64 {
	rad := fov * math.Pi / 180
	z := maxDim / (2 * math.Tan(rad/2))
	return z * 2
}

// Frame measures root, moves it so its box is centred on the origin and
// returns where the camera should be placed.
//
// The move reflects the root's position about the box center:
// position += position - center. It equals a plain recentering only when
// the root's origin already is the box center, so framing a model twice
// can move it again.
func Frame(root *models.Node, fov float64) Framing {
	box := root.Bounds()
	center, size := box.Center(), box.Size()

	root.Position = root.Position.Add(root.Position.Sub(center))

	maxDim := size.MaxComponent()
	z := CameraDistance(maxDim, fov)

	return Framing{
		Center:         center,
		Size:           size,
		MaxDim:         maxDim,
		CameraPosition: math3d.V3(0, 0, z),
		CameraTarget:   math3d.Zero3(),
		Degenerate:     maxDim == 0,
	}
}
