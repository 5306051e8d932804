package render

import (
	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/models"
	"github.com/taigrr/vitrine/pkg/scene"
)

// defaultMaterial draws mesh nodes that carry no material slot.
var defaultMaterial = models.NewMaterial("default")

// RenderStats describes the last rendered frame.
type RenderStats struct {
	Meshes    int // Mesh nodes visited
	Culled    int // Mesh nodes rejected by the frustum
	Triangles int // Triangles submitted to the rasterizer
}

// SceneRenderer draws a scene into a framebuffer with the rasterizer.
type SceneRenderer struct {
	fb    *Framebuffer
	rast  *Rasterizer
	Stats RenderStats
}

// NewSceneRenderer creates a renderer with a width x height framebuffer.
func NewSceneRenderer(width, height int) *SceneRenderer {
	fb := NewFramebuffer(max(width, 0), max(height, 0))
	return &SceneRenderer{
		fb:   fb,
		rast: NewRasterizer(nil, fb),
	}
}

// SetSize resizes the output. The previous contents are discarded.
func (r *SceneRenderer) SetSize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == r.fb.Width && height == r.fb.Height {
		return
	}
	r.fb = NewFramebuffer(width, height)
	r.rast.fb = r.fb
	r.rast.Resize()
}

// Size returns the output size in pixels.
func (r *SceneRenderer) Size() (width, height int) {
	return r.fb.Width, r.fb.Height
}

// Framebuffer returns the output of the last Render call.
func (r *SceneRenderer) Framebuffer() *Framebuffer {
	return r.fb
}

// Render clears to the scene background and draws every mesh node
// reachable from the scene root as seen from cam.
func (r *SceneRenderer) Render(s *scene.Scene, cam *Camera) {
	r.Stats = RenderStats{}
	r.fb.Clear(s.Background.RGBA())
	if r.fb.Width == 0 || r.fb.Height == 0 {
		return
	}

	r.rast.camera = cam
	r.rast.InvalidateFrustum()
	r.rast.ResetCullingStats()
	r.rast.ClearDepth()

	shade := lightShader(s.Lights())

	s.Root.WalkWorld(func(node *models.Node, world math3d.Mat4) {
		if node.Mesh == nil {
			return
		}
		r.Stats.Meshes++

		mesh, slot := node.Mesh, node.Material
		style := func(face int) FaceStyle {
			mat := defaultMaterial
			if slot != nil {
				if m := slot.At(mesh.GetFaceMaterial(face)); m != nil {
					mat = m
				}
			}
			return FaceStyle{
				Color:       baseColor(mat),
				Wireframe:   mat.Wireframe,
				DoubleSided: mat.DoubleSided,
			}
		}

		if !r.rast.DrawMesh(mesh, world, style, shade) {
			r.Stats.Culled++
			return
		}
		r.Stats.Triangles += mesh.TriangleCount()
	})
}

func baseColor(m *models.Material) Color {
	return scene.Color{R: m.BaseColor[0], G: m.BaseColor[1], B: m.BaseColor[2]}.RGBA()
}

// lightShader sums the irradiance of every light and maps it into display
// range with a Reinhard curve so a bright rig does not clip to white.
func lightShader(lights []scene.Light) Shader {
	return func(pos, n math3d.Vec3, base Color) Color {
		var e scene.Color
		for _, l := range lights {
			e = e.Add(l.Irradiance(pos, n))
		}
		tone := scene.Color{R: e.R / (1 + e.R), G: e.G / (1 + e.G), B: e.B / (1 + e.B)}
		lit := scene.Color{
			R: float64(base.R) / 255,
			G: float64(base.G) / 255,
			B: float64(base.B) / 255,
		}.Mul(tone)
		return lit.RGBA()
	}
}
