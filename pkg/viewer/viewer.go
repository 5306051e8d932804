// Package viewer loads glTF models into a container, frames them and drives
// the per-frame loop: pending loads are installed, animation advances, the
// orbit controller moves the camera, and the scene is rendered.
//
// A Viewer is not safe for concurrent use. Call its methods and deliver
// host resize notifications from the goroutine that calls Frame.
package viewer

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/taigrr/vitrine/pkg/controls"
	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/models"
	"github.com/taigrr/vitrine/pkg/render"
	"github.com/taigrr/vitrine/pkg/scene"
	"go.uber.org/zap"
)

// Camera projection, fixed for the viewer's lifetime
const (
	CameraFOV  = 45
	CameraNear = 0.1
	CameraFar  = 1000
)

// ControlsFPS is the update rate the orbit springs are tuned for.
const ControlsFPS = 60

// Renderer draws the scene. *render.SceneRenderer implements it.
type Renderer interface {
	SetSize(width, height int)
	Render(s *scene.Scene, cam *render.Camera)
}

// ModelInstance is the installed model.
type ModelInstance struct {
	Filename string
	Path     string
	Root     *models.Node
	Clips    []*models.Clip
	// Bounds after framing
	Bounds  math3d.Box3
	Framing Framing
}

var errRemoteWatch = errors.New("remote models directory cannot be watched")

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(v *Viewer) { v.logger = l }
}

// WithRenderer replaces the default CPU scene renderer.
func WithRenderer(r Renderer) Option {
	return func(v *Viewer) { v.renderer = r }
}

// WithLoader replaces the default glTF loader.
func WithLoader(l AssetLoader) Option {
	return func(v *Viewer) { v.loader = l }
}

// WithClock sets the time source Frame measures elapsed time with.
func WithClock(now func() time.Time) Option {
	return func(v *Viewer) { v.now = now }
}

// Viewer shows one model at a time inside a container.
type Viewer struct {
	cfg       Config
	logger    *zap.Logger
	container Container

	scene    *scene.Scene
	camera   *render.Camera
	renderer Renderer
	controls *controls.Orbit
	lights   LightRig
	panel    *Panel

	loader  AssetLoader
	loads   *assetLoader
	resize  *resizeCoordinator
	anim    AnimationDriver
	watcher *ModelWatcher

	current   *ModelInstance
	wireframe bool

	now    func() time.Time
	last   time.Time
	closed bool
}

// New creates a viewer mounted in the container named by cfg.ContainerID
// and starts loading the first configured model. It fails with a
// *ConstructionError when the container does not exist.
func New(doc Document, cfg Config, opts ...Option) (*Viewer, error) {
	if cfg.ContainerID == "" {
		cfg.ContainerID = DefaultContainerID
	}
	container, ok := doc.Container(cfg.ContainerID)
	if !ok {
		return nil, &ConstructionError{ContainerID: cfg.ContainerID, Err: ErrContainerNotFound}
	}

	v := &Viewer{
		cfg:       cfg,
		container: container,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	if v.loader == nil {
		v.loader = models.NewGLTFLoader()
	}

	// Explicit dimensions win individually; the mode needs both.
	cw, ch := container.Size()
	width, height := cw, ch
	if cfg.Width != 0 {
		width = cfg.Width
	}
	if cfg.Height != 0 {
		height = cfg.Height
	}

	v.scene = scene.New(scene.Hex(cfg.BackgroundColor))
	v.camera = render.NewCamera(CameraFOV, CameraNear, CameraFar)
	if v.renderer == nil {
		v.renderer = render.NewSceneRenderer(width, height)
	}

	v.lights = ComposeLights(v.scene, cfg.ambientIntensity())

	if cfg.EnableControls {
		o := controls.NewOrbit(ControlsFPS)
		o.EnableDamping = true
		o.DampingFactor = 0.05
		o.MinDistance = 1
		o.MaxDistance = 1000
		o.MaxPolarAngle = math.Pi
		v.controls = o
	}

	if cfg.ShowGUI {
		v.panel = newPanel(cfg.Models, func(name string) { v.LoadModel(name) }, v.setWireframe)
	}

	mode := Fluid
	if cfg.fixed() {
		mode = Fixed
	}
	v.resize = newResizeCoordinator(mode, container, v.camera, v.renderer)
	v.resize.Start(width, height)

	v.loads = newAssetLoader(v.loader, cfg.ModelsDirectory)

	v.logger.Info("viewer created",
		zap.String("container", cfg.ContainerID),
		zap.Stringer("mode", mode),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("models", len(cfg.Models)),
	)

	if len(cfg.Models) > 0 {
		v.LoadModel(cfg.Models[0])
	}
	return v, nil
}

// LoadModel starts loading filename from the models directory. The result
// is installed by a later Frame. If another LoadModel call follows before
// it is installed, this result is discarded.
func (v *Viewer) LoadModel(filename string) LoadRequest {
	req := v.loads.Load(filename)
	v.logger.Debug("load requested",
		zap.String("request_id", req.ID),
		zap.String("path", req.Path),
		zap.Uint64("generation", req.Generation),
	)
	return req
}

// SetSize sets the output size and the container box. Later host resizes
// still apply in Fluid mode.
func (v *Viewer) SetSize(width, height int) {
	v.resize.SetSize(width, height)
}

// ToggleWireframe sets the wireframe flag on the current model and on every
// model installed after it.
func (v *Viewer) ToggleWireframe(value bool) {
	if v.panel != nil {
		v.panel.SetWireframe(value)
		return
	}
	v.setWireframe(value)
}

func (v *Viewer) setWireframe(value bool) {
	v.wireframe = value
	if v.current != nil {
		SetWireframe(v.current.Root, value)
	}
}

// Frame runs one tick using the time elapsed since the previous Frame.
func (v *Viewer) Frame() {
	now := v.now()
	var dt float64
	if !v.last.IsZero() {
		dt = now.Sub(v.last).Seconds()
	}
	v.last = now
	v.Advance(dt)
}

// Advance runs one tick with an explicit elapsed time in seconds.
func (v *Viewer) Advance(dt float64) {
	for {
		res, ok := v.loads.Poll()
		if !ok {
			break
		}
		v.install(res)
	}
	v.pollWatcher()

	v.anim.Advance(dt)
	if v.controls != nil {
		v.controls.Update(v.camera)
	}
	v.lights.Point.Position = v.camera.Position
	v.renderer.Render(v.scene, v.camera)
}

// WaitIdle blocks until every requested load has finished and been
// installed or discarded, or ctx is done.
func (v *Viewer) WaitIdle(ctx context.Context) error {
	for v.loads.Pending() > 0 {
		res, err := v.loads.Wait(ctx)
		if err != nil {
			return err
		}
		v.install(res)
	}
	return nil
}

func (v *Viewer) install(res LoadResult) {
	req := res.Request
	if res.Err != nil {
		v.logger.Error("load model",
			zap.String("request_id", req.ID),
			zap.String("path", req.Path),
			zap.Uint64("generation", req.Generation),
			zap.Error(res.Err),
		)
		return
	}
	if v.loads.Stale(req) {
		v.logger.Debug("discard stale model",
			zap.String("request_id", req.ID),
			zap.String("path", req.Path),
			zap.Uint64("generation", req.Generation),
		)
		return
	}

	m := res.Model
	if m == nil || m.Root == nil {
		v.logger.Error("load model: empty result", zap.String("path", req.Path))
		return
	}
	if v.current != nil {
		v.scene.Remove(v.current.Root)
		v.current = nil
	}
	v.scene.Add(m.Root)

	f := Frame(m.Root, v.camera.FOV)
	if f.Degenerate {
		v.logger.Warn("model has no extent; camera placed at the origin",
			zap.String("path", req.Path),
		)
	}
	v.camera.SetPosition(f.CameraPosition)
	v.camera.LookAt(f.CameraTarget)
	if v.controls != nil {
		v.controls.SetTarget(f.CameraTarget)
		v.controls.Update(v.camera)
	}

	v.anim.Bind(m.Root, m.Clips)

	v.current = &ModelInstance{
		Filename: req.Filename,
		Path:     req.Path,
		Root:     m.Root,
		Clips:    m.Clips,
		Bounds:   m.Root.Bounds(),
		Framing:  f,
	}
	SetWireframe(m.Root, v.wireframe)

	meshes, vertices, triangles := m.Root.Stats()
	v.logger.Info("model installed",
		zap.String("request_id", req.ID),
		zap.String("path", req.Path),
		zap.Int("meshes", meshes),
		zap.Int("vertices", vertices),
		zap.Int("triangles", triangles),
		zap.Int("clips", len(m.Clips)),
	)

	if v.cfg.OnModelLoad != nil {
		v.cfg.OnModelLoad(m)
	}
}

// WatchModels reloads the most recently requested model whenever its file
// in the models directory is written. Remote model directories cannot be watched.
func (v *Viewer) WatchModels() error {
	if v.watcher != nil {
		return nil
	}
	dir := v.cfg.ModelsDirectory
	if strings.HasPrefix(dir, "http://") || strings.HasPrefix(dir, "https://") {
		return &LoadError{Path: dir, Err: errRemoteWatch}
	}
	w, err := NewModelWatcher(dir, v.logger)
	if err != nil {
		return err
	}
	v.watcher = w
	return nil
}

func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	// Match the newest request so a fix on disk recovers a failed load.
	want := v.loads.Last()
	reload := false
drain:
	for {
		select {
		case name := <-v.watcher.Changes():
			if want != "" && name == want {
				reload = true
			}
		default:
			break drain
		}
	}
	if reload {
		v.logger.Info("model changed on disk", zap.String("filename", want))
		v.LoadModel(want)
	}
}

// Close releases the resize subscription, cancels in-flight loads and
// stops the watcher. The viewer must not be used afterward.
func (v *Viewer) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.resize.Close()
	v.loads.Close()
	if v.watcher != nil {
		return v.watcher.Close()
	}
	return nil
}

// Scene returns the scene the viewer renders.
func (v *Viewer) Scene() *scene.Scene { return v.scene }

// Camera returns the viewer's camera.
func (v *Viewer) Camera() *render.Camera { return v.camera }

// Controls returns the orbit controller, or nil when controls are disabled.
func (v *Viewer) Controls() *controls.Orbit { return v.controls }

// Panel returns the settings panel, or nil when it is hidden.
func (v *Viewer) Panel() *Panel { return v.panel }

// Lights returns the light rig.
func (v *Viewer) Lights() LightRig { return v.lights }

// Current returns the installed model, or nil.
func (v *Viewer) Current() *ModelInstance { return v.current }

// Animation returns the animation driver.
func (v *Viewer) Animation() *AnimationDriver { return &v.anim }

// Wireframe returns the wireframe flag applied to installed models.
func (v *Viewer) Wireframe() bool { return v.wireframe }

// Mode returns the resize mode chosen at construction.
func (v *Viewer) Mode() ResizeMode { return v.resize.mode }

// Size returns the current output size.
func (v *Viewer) Size() (width, height int) { return v.resize.Size() }

// Renderer returns the renderer.
func (v *Viewer) Renderer() Renderer { return v.renderer }

// PendingLoads returns the number of loads not yet installed or discarded.
func (v *Viewer) PendingLoads() int { return v.loads.Pending() }
