package viewer

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/models"
	"github.com/taigrr/vitrine/pkg/render"
	"github.com/taigrr/vitrine/pkg/scene"
)

// fakeLoader serves models built on demand. Paths with a gate block until
// the gate is closed or the context is cancelled.
type fakeLoader struct {
	mu     sync.Mutex
	models map[string]func() *models.Model
	gates  map[string]chan struct{}
	calls  []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		models: make(map[string]func() *models.Model),
		gates:  make(map[string]chan struct{}),
	}
}

func (f *fakeLoader) add(path string, build func() *models.Model) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models[path] = build
}

func (f *fakeLoader) gate(path string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[path] = ch
	return ch
}

func (f *fakeLoader) Load(ctx context.Context, path string) (*models.Model, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	build, gate := f.models[path], f.gates[path]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if build == nil {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return build(), nil
}

func (f *fakeLoader) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeRenderer records what the viewer asks of the rendering engine.
type fakeRenderer struct {
	width, height int
	renders       int
	lastCamera    math3d.Vec3
}

func (r *fakeRenderer) SetSize(width, height int) {
	r.width, r.height = width, height
}

func (r *fakeRenderer) Render(_ *scene.Scene, cam *render.Camera) {
	r.renders++
	r.lastCamera = cam.Position
}

// boxModel returns a model whose only mesh spans min..max in the mesh
// node's local space. The mesh node is a child of the root.
func boxModel(name string, min, max math3d.Vec3) *models.Model {
	mesh := models.NewMesh(name)
	for _, p := range []math3d.Vec3{
		min, math3d.V3(max.X, min.Y, min.Z), math3d.V3(max.X, max.Y, min.Z), math3d.V3(min.X, max.Y, min.Z),
		math3d.V3(min.X, min.Y, max.Z), math3d.V3(max.X, min.Y, max.Z), max, math3d.V3(min.X, max.Y, max.Z),
	} {
		mesh.Vertices = append(mesh.Vertices, models.MeshVertex{Position: p})
	}
	mesh.Faces = []models.Face{{V: [3]int{0, 2, 1}}, {V: [3]int{4, 5, 6}}}
	mesh.CalculateNormals()
	mesh.CalculateBounds()

	root := models.NewNode(name)
	root.Add(models.NewMeshNode(name+"-mesh", mesh, models.Single{Material: models.NewMaterial(name)}))
	return &models.Model{Name: name, Path: name, Root: root}
}

// animatedModel is a unit box whose mesh node slides from x=0 to x=2 over
// two seconds.
func animatedModel() *models.Model {
	m := boxModel("animated", math3d.V3(-0.5, -0.5, -0.5), math3d.V3(0.5, 0.5, 0.5))
	child := m.Root.Children()[0]
	clip := &models.Clip{
		Name: "slide",
		Tracks: []models.Track{{
			Node:   child,
			Path:   models.PathTranslation,
			Times:  []float64{0, 2},
			Values: []float64{0, 0, 0, 2, 0, 0},
		}},
	}
	clip.ResetDuration()
	m.Clips = []*models.Clip{clip}
	return m
}

type testViewer struct {
	*Viewer
	container *StaticContainer
	loader    *fakeLoader
	renderer  *fakeRenderer
}

// newTestViewer builds a viewer over an 800x600 container with a fake
// loader that knows a.glb, b.glb and anim.glb under "models".
func newTestViewer(t *testing.T, mutate func(*Config)) *testViewer {
	t.Helper()

	container := NewStaticContainer(DefaultContainerID, 800, 600)
	loader := newFakeLoader()
	loader.add("models/a.glb", func() *models.Model {
		return boxModel("a", math3d.V3(0, 0, 0), math3d.V3(2, 2, 2))
	})
	loader.add("models/b.glb", func() *models.Model {
		return boxModel("b", math3d.V3(-1, -3, -1), math3d.V3(1, 3, 1))
	})
	loader.add("models/anim.glb", animatedModel)
	renderer := &fakeRenderer{}

	cfg := DefaultConfig()
	cfg.ModelsDirectory = "models"
	if mutate != nil {
		mutate(&cfg)
	}

	v, err := New(NewStaticDocument(container), cfg, WithLoader(loader), WithRenderer(renderer))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return &testViewer{Viewer: v, container: container, loader: loader, renderer: renderer}
}

func (tv *testViewer) waitIdle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tv.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle failed: %v", err)
	}
}
