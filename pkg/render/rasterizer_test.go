package render

import (
	"math"
	"testing"

	"github.com/taigrr/vitrine/pkg/math3d"
)

// mockMesh implements MeshRenderer for testing.
type mockMesh struct {
	vertices []struct {
		pos    math3d.Vec3
		normal math3d.Vec3
		uv     math3d.Vec2
	}
	faces [][3]int
}

func (m *mockMesh) VertexCount() int     { return len(m.vertices) }
func (m *mockMesh) TriangleCount() int   { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.vertices[i]
	return v.pos, v.normal, v.uv
}

// createTestRasterizer creates a rasterizer for testing.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	camera := NewCamera(60, 0.1, 1000)
	camera.SetPosition(math3d.V3(0, 0, 10))
	camera.LookAt(math3d.Zero3())
	camera.SetViewport(width, height)
	rasterizer := NewRasterizer(camera, fb)
	return rasterizer, fb
}

func TestBarycentric(t *testing.T) {
	// Test barycentric coordinates at triangle vertices
	tests := []struct {
		name     string
		px, py   float64
		expected math3d.Vec3
	}{
		{"vertex 0", 0, 0, math3d.V3(1, 0, 0)},
		{"vertex 1", 1, 0, math3d.V3(0, 1, 0)},
		{"vertex 2", 0, 1, math3d.V3(0, 0, 1)},
		{"centroid", 1.0 / 3, 1.0 / 3, math3d.V3(1.0/3, 1.0/3, 1.0/3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Triangle: (0,0), (1,0), (0,1)
			bc := barycentric(0, 0, 1, 0, 0, 1, tc.px, tc.py)

			if math.Abs(bc.X-tc.expected.X) > 0.001 ||
				math.Abs(bc.Y-tc.expected.Y) > 0.001 ||
				math.Abs(bc.Z-tc.expected.Z) > 0.001 {
				t.Errorf("barycentric(%v, %v) = %v, want %v", tc.px, tc.py, bc, tc.expected)
			}
		})
	}

	// Test point outside triangle
	t.Run("outside triangle", func(t *testing.T) {
		bc := barycentric(0, 0, 1, 0, 0, 1, -1, -1)
		if bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0 {
			t.Error("point outside triangle should have negative barycentric coordinate")
		}
	})
}

func TestInterpolateColor3(t *testing.T) {
	c0 := RGB(255, 0, 0) // Red
	c1 := RGB(0, 255, 0) // Green
	c2 := RGB(0, 0, 255) // Blue

	tests := []struct {
		name     string
		bc       math3d.Vec3
		expected Color
	}{
		{"full red", math3d.V3(1, 0, 0), RGB(255, 0, 0)},
		{"full green", math3d.V3(0, 1, 0), RGB(0, 255, 0)},
		{"full blue", math3d.V3(0, 0, 1), RGB(0, 0, 255)},
		{"equal mix", math3d.V3(1.0/3, 1.0/3, 1.0/3), RGB(85, 85, 85)},
		{"half red half green", math3d.V3(0.5, 0.5, 0), RGB(127, 127, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := interpolateColor3(c0, c1, c2, tc.bc)
			// Allow 1 unit tolerance due to rounding
			if absInt(int(result.R)-int(tc.expected.R)) > 1 ||
				absInt(int(result.G)-int(tc.expected.G)) > 1 ||
				absInt(int(result.B)-int(tc.expected.B)) > 1 {
				t.Errorf("interpolateColor3 with bc=%v = %v, want %v", tc.bc, result, tc.expected)
			}
		})
	}
}

// directional returns a shader with one light shining along dir plus a
// constant ambient term, as the old fixed-function path did.
func directional(dir math3d.Vec3) Shader {
	dir = dir.Normalize()
	return func(_, n math3d.Vec3, base Color) Color {
		intensity := 0.3 + 0.7*math.Max(0, n.Dot(dir))
		return RGB(
			uint8(float64(base.R)*intensity),
			uint8(float64(base.G)*intensity),
			uint8(float64(base.B)*intensity),
		)
	}
}

// countLit counts pixels that are not black.
func countLit(fb *Framebuffer) int {
	n := 0
	for _, c := range fb.Pixels {
		if c.R > 0 || c.G > 0 || c.B > 0 {
			n++
		}
	}
	return n
}

// quadMesh is a 10x10 quad at z=0 facing +Z, CW wound for front-facing.
func quadMesh() *mockMesh {
	return &mockMesh{
		vertices: []struct {
			pos    math3d.Vec3
			normal math3d.Vec3
			uv     math3d.Vec2
		}{
			{math3d.V3(-5, -5, 0), math3d.V3(0, 0, 1), math3d.V2(0, 0)},
			{math3d.V3(5, -5, 0), math3d.V3(0, 0, 1), math3d.V2(1, 0)},
			{math3d.V3(5, 5, 0), math3d.V3(0, 0, 1), math3d.V2(1, 1)},
			{math3d.V3(-5, 5, 0), math3d.V3(0, 0, 1), math3d.V2(0, 1)},
		},
		faces: [][3]int{
			{0, 3, 2}, // CW: bottom-left, top-left, top-right
			{0, 2, 1}, // CW: bottom-left, top-right, bottom-right
		},
	}
}

// boundedMock adds bounds to a mockMesh so it takes part in frustum culling.
type boundedMock struct {
	*mockMesh
	min, max math3d.Vec3
}

func (m boundedMock) GetBounds() (min, max math3d.Vec3) { return m.min, m.max }

func solid(c Color) func(int) FaceStyle {
	return func(int) FaceStyle { return FaceStyle{Color: c} }
}

func TestDrawTriangleGouraud_VertexLighting(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	r.ClearDepth()
	fb.Clear(RGB(0, 0, 0))

	// Triangle at z=0, large enough to be visible from z=10
	// CW winding for front-facing (engine convention due to Y-flip)
	tri := Triangle{
		V: [3]Vertex{
			{Position: math3d.V3(-5, -5, 0), Normal: math3d.V3(0, 0, 1), Color: RGB(200, 200, 200)},
			{Position: math3d.V3(0, 5, 0), Normal: math3d.V3(0, 0, 1), Color: RGB(200, 200, 200)},
			{Position: math3d.V3(5, -5, 0), Normal: math3d.V3(0.5, 0, 0.866), Color: RGB(200, 200, 200)},
		},
	}

	r.DrawTriangleGouraud(tri, directional(math3d.V3(0, 0, 1)), false)

	if countLit(fb) == 0 {
		t.Error("DrawTriangleGouraud should draw visible pixels")
	}

	// The centre pixel is fully lit by the frontal light.
	c := fb.GetPixel(50, 55)
	if c.R < 150 {
		t.Errorf("centre pixel = %v, want a brightly lit color", c)
	}
}

func TestDrawTriangleGouraud_NilShaderUsesBaseColor(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	r.ClearDepth()
	fb.Clear(RGB(0, 0, 0))

	base := RGB(10, 200, 30)
	tri := Triangle{
		V: [3]Vertex{
			{Position: math3d.V3(-5, -5, 0), Color: base},
			{Position: math3d.V3(0, 5, 0), Color: base},
			{Position: math3d.V3(5, -5, 0), Color: base},
		},
	}
	r.DrawTriangleGouraud(tri, nil, false)

	if got := fb.GetPixel(50, 55); absInt(int(got.G)-200) > 1 || absInt(int(got.R)-10) > 1 {
		t.Errorf("centre pixel = %v, want %v", got, base)
	}
}

func TestDrawTriangleGouraud_BackfaceCulling(t *testing.T) {
	// Back-facing triangle: CCW winding (opposite of front-facing CW)
	tri := Triangle{
		V: [3]Vertex{
			{Position: math3d.V3(-5, -5, 0), Normal: math3d.V3(0, 0, -1), Color: RGB(255, 255, 255)},
			{Position: math3d.V3(5, -5, 0), Normal: math3d.V3(0, 0, -1), Color: RGB(255, 255, 255)},
			{Position: math3d.V3(0, 5, 0), Normal: math3d.V3(0, 0, -1), Color: RGB(255, 255, 255)},
		},
	}

	tests := []struct {
		name        string
		doubleSided bool
		wantDrawn   bool
	}{
		{"single sided is culled", false, false},
		{"double sided is drawn", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			r.ClearDepth()
			fb.Clear(RGB(0, 0, 0))

			r.DrawTriangleGouraud(tri, directional(math3d.V3(0, 0, 1)), tc.doubleSided)

			if drawn := countLit(fb) > 0; drawn != tc.wantDrawn {
				t.Errorf("drawn = %v, want %v", drawn, tc.wantDrawn)
			}
		})
	}
}

func TestDrawTriangleGouraud_DepthTest(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	r.ClearDepth()
	fb.Clear(RGB(0, 0, 0))

	tri := func(z float64, c Color) Triangle {
		return Triangle{V: [3]Vertex{
			{Position: math3d.V3(-5, -5, z), Color: c},
			{Position: math3d.V3(0, 5, z), Color: c},
			{Position: math3d.V3(5, -5, z), Color: c},
		}}
	}

	// Near red first, then far blue: blue must stay hidden.
	r.DrawTriangleGouraud(tri(1, RGB(255, 0, 0)), nil, false)
	r.DrawTriangleGouraud(tri(-1, RGB(0, 0, 255)), nil, false)

	if c := fb.GetPixel(50, 55); c.R == 0 || c.B != 0 {
		t.Errorf("centre pixel = %v, want the nearer red triangle", c)
	}
}

func TestDrawMesh(t *testing.T) {
	tests := []struct {
		name      string
		wireframe bool
	}{
		{"filled", false},
		{"wireframe", true},
	}

	counts := make(map[bool]int)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(100, 100)
			r.ClearDepth()
			fb.Clear(RGB(0, 0, 0))

			style := func(int) FaceStyle {
				return FaceStyle{Color: RGB(255, 100, 50), Wireframe: tc.wireframe}
			}
			if !r.DrawMesh(quadMesh(), math3d.Identity(), style, directional(math3d.V3(0, 0, 1))) {
				t.Fatal("DrawMesh should not cull a mesh without bounds")
			}
			counts[tc.wireframe] = countLit(fb)
			if counts[tc.wireframe] == 0 {
				t.Error("DrawMesh should render visible pixels")
			}
		})
	}

	if counts[true] >= counts[false] {
		t.Errorf("wireframe drew %d pixels, filled drew %d; edges should cover less", counts[true], counts[false])
	}
}

func TestDrawMesh_PerFaceStyle(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	r.ClearDepth()
	fb.Clear(RGB(0, 0, 0))

	style := func(face int) FaceStyle {
		if face == 0 {
			return FaceStyle{Color: RGB(255, 0, 0)}
		}
		return FaceStyle{Color: RGB(0, 0, 255)}
	}
	r.DrawMesh(quadMesh(), math3d.Identity(), style, nil)

	// Face 0 covers the top-left half of the quad, face 1 the bottom-right.
	if c := fb.GetPixel(35, 35); c.R == 0 || c.B != 0 {
		t.Errorf("top-left pixel = %v, want red", c)
	}
	if c := fb.GetPixel(65, 65); c.B == 0 || c.R != 0 {
		t.Errorf("bottom-right pixel = %v, want blue", c)
	}
}

func TestDrawMesh_FrustumCulling(t *testing.T) {
	r, fb := createTestRasterizer(100, 100)
	r.ClearDepth()
	fb.Clear(RGB(0, 0, 0))

	mesh := boundedMock{mockMesh: quadMesh(), min: math3d.V3(-5, -5, 0), max: math3d.V3(5, 5, 0)}

	// Behind the camera at z=10
	if r.DrawMesh(mesh, math3d.Translate(math3d.V3(0, 0, 50)), solid(RGB(255, 255, 255)), nil) {
		t.Error("mesh behind the camera should be culled")
	}
	if !r.DrawMesh(mesh, math3d.Identity(), solid(RGB(255, 255, 255)), nil) {
		t.Error("mesh in front of the camera should be drawn")
	}

	stats := r.CullingStats
	if stats.MeshesTested != 2 || stats.MeshesCulled != 1 || stats.MeshesDrawn != 1 {
		t.Errorf("CullingStats = %+v, want 2 tested, 1 culled, 1 drawn", stats)
	}
}

func TestMin3Max3(t *testing.T) {
	if min3(1, 2, 3) != 1 || min3(3, 1, 2) != 1 || min3(2, 3, 1) != 1 {
		t.Error("min3 failed")
	}
	if max3(1, 2, 3) != 3 || max3(3, 1, 2) != 3 || max3(2, 3, 1) != 3 {
		t.Error("max3 failed")
	}
}

func TestRasterizerClearDepth(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)

	// Set some depth values
	r.setDepth(5, 5, 1.0)
	if r.getDepth(5, 5) != 1.0 {
		t.Error("setDepth/getDepth failed")
	}

	// Clear and verify
	r.ClearDepth()
	if r.getDepth(5, 5) != math.MaxFloat64 {
		t.Error("ClearDepth should reset to MaxFloat64")
	}
}

func TestRasterizerDepthBoundsCheck(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)

	// Out of bounds should return MaxFloat64 and not panic
	if r.getDepth(-1, 0) != math.MaxFloat64 {
		t.Error("Out of bounds getDepth should return MaxFloat64")
	}
	if r.getDepth(100, 0) != math.MaxFloat64 {
		t.Error("Out of bounds getDepth should return MaxFloat64")
	}

	// setDepth out of bounds should not panic
	r.setDepth(-1, 0, 1.0) // Should not panic
	r.setDepth(100, 0, 1.0)
}

// Helper function for color comparison tolerance
func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Benchmark tests
func BenchmarkDrawTriangleGouraud(b *testing.B) {
	r, _ := createTestRasterizer(160, 120)
	shade := directional(math3d.V3(0, 0, 1))
	tri := Triangle{
		V: [3]Vertex{
			{Position: math3d.V3(-5, -5, 0), Normal: math3d.V3(0, 0, 1), Color: RGB(200, 200, 200)},
			{Position: math3d.V3(0, 5, 0), Normal: math3d.V3(0, 0, 1), Color: RGB(200, 200, 200)},
			{Position: math3d.V3(5, -5, 0), Normal: math3d.V3(0, 0, 1), Color: RGB(200, 200, 200)},
		},
	}

	for b.Loop() {
		r.ClearDepth()
		r.DrawTriangleGouraud(tri, shade, false)
	}
}

func BenchmarkDrawMesh(b *testing.B) {
	r, _ := createTestRasterizer(160, 120)
	mesh := quadMesh()
	shade := directional(math3d.V3(0, 0, 1))
	style := solid(RGB(255, 100, 50))

	for b.Loop() {
		r.ClearDepth()
		r.DrawMesh(mesh, math3d.Identity(), style, shade)
	}
}
