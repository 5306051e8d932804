package viewer

import "github.com/taigrr/vitrine/pkg/render"

// ResizeMode is fixed at construction.
type ResizeMode int

const (
	// Fluid follows the container on every host resize.
	Fluid ResizeMode = iota
	// Fixed ignores host resizes; only SetSize changes the size.
	Fixed
)

func (m ResizeMode) String() string {
	if m == Fixed {
		return "fixed"
	}
	return "fluid"
}

// resizeCoordinator keeps the camera aspect and renderer output in step
// with the container or an explicit size.
type resizeCoordinator struct {
	mode      ResizeMode
	container Container
	camera    *render.Camera
	renderer  Renderer
	sub       Subscription

	width, height int
}

func newResizeCoordinator(mode ResizeMode, c Container, cam *render.Camera, r Renderer) *resizeCoordinator {
	return &resizeCoordinator{mode: mode, container: c, camera: cam, renderer: r}
}

// Start applies the initial size and, in Fluid mode, subscribes to host
// resizes.
func (rc *resizeCoordinator) Start(width, height int) {
	rc.apply(width, height)
	if rc.mode == Fluid {
		rc.sub = rc.container.OnResize(rc.hostResized)
	}
}

func (rc *resizeCoordinator) hostResized() {
	if rc.mode == Fixed {
		return
	}
	rc.apply(rc.container.Size())
}

// SetSize applies an explicit size in either mode and resizes the
// container to match.
func (rc *resizeCoordinator) SetSize(width, height int) {
	rc.apply(width, height)
	rc.container.SetSize(width, height)
}

func (rc *resizeCoordinator) apply(width, height int) {
	rc.width, rc.height = width, height
	rc.camera.SetViewport(width, height)
	rc.renderer.SetSize(width, height)
}

// Size returns the size last applied.
func (rc *resizeCoordinator) Size() (width, height int) {
	return rc.width, rc.height
}

// Close drops the host resize subscription.
func (rc *resizeCoordinator) Close() {
	if rc.sub != nil {
		rc.sub.Close()
		rc.sub = nil
	}
}
