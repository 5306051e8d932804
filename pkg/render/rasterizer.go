package render

import (
	"math"

	"github.com/taigrr/vitrine/pkg/math3d"
)

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // World normal (for lighting)
	Color    Color       // Base color before lighting
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Shader returns the lit color of a vertex at world position pos with unit
// world normal n and unlit color base.
type Shader func(pos, n math3d.Vec3, base Color) Color

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera       *Camera
	fb           *Framebuffer
	zbuffer      []float64    // Depth buffer (1D array, row-major)
	frustum      Frustum      // Cached frustum planes
	frustumDirty bool         // Whether frustum needs recalculation
	CullingStats CullingStats // Statistics for debugging/benchmarking
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int // Total meshes tested for culling
	MeshesCulled int // Meshes culled (not rendered)
	MeshesDrawn  int // Meshes that passed culling
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
	}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// InvalidateFrustum marks the frustum as needing recalculation.
// Call this when the camera moves or rotates.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// GetFrustum returns the current frustum (updating if needed).
func (r *Rasterizer) GetFrustum() Frustum {
	if r.frustumDirty {
		r.frustum = NewFrustumFromMatrix(r.camera.ViewProjectionMatrix())
		r.frustumDirty = false
	}
	return r.frustum
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible tests if a world-space box is at least partly inside the frustum.
func (r *Rasterizer) IsVisible(worldBounds math3d.Box3) bool {
	return r.GetFrustum().IntersectAABB(worldBounds)
}

// getDepth returns the depth at (x, y).
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// setDepth sets the depth at (x, y).
func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // Depth (for Z-buffer)
	W     float64 // W coordinate
	Color Color
}

// project transforms a world position into screen space.
func (r *Rasterizer) project(viewProj math3d.Mat4, p math3d.Vec3) screenVertex {
	var sv screenVertex
	clipPos := viewProj.MulVec4(math3d.V4FromV3(p, 1))

	if clipPos.W != 0 {
		ndc := clipPos.PerspectiveDivide()
		sv.X, sv.Y, sv.Z = ndc.X, ndc.Y, ndc.Z
	}
	sv.W = clipPos.W

	// NDC to screen coordinates
	sv.X = (sv.X + 1) * 0.5 * float64(r.Width())
	sv.Y = (1 - sv.Y) * 0.5 * float64(r.Height()) // Y flipped
	return sv
}

// DrawTriangleGouraud rasterizes a triangle with Gouraud shading: shade is
// evaluated at each vertex and the results are interpolated. Back faces
// are skipped unless doubleSided is set, in which case they are lit with
// flipped normals.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle, shade Shader, doubleSided bool) {
	// Transform vertices to screen space
	var sv [3]screenVertex
	allBehind := true

	viewProj := r.camera.ViewProjectionMatrix()
	for i := range 3 {
		sv[i] = r.project(viewProj, tri.V[i].Position)
		if sv[i].W > 0 {
			allBehind = false
		}
	}

	// Skip if entirely behind camera
	if allBehind {
		return
	}

	// Backface culling (using screen-space winding)
	edge1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	edge2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	backFacing := edge1.Cross(edge2) < 0
	if backFacing && !doubleSided {
		return
	}

	// Per-vertex lighting
	for i := range 3 {
		n := tri.V[i].Normal
		if backFacing {
			n = n.Negate()
		}
		sv[i].Color = tri.V[i].Color
		if shade != nil {
			sv[i].Color = shade(tri.V[i].Position, n, tri.V[i].Color)
		}
	}

	// Find bounding box
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	// Rasterize using barycentric coordinates
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)

			// Check if inside triangle
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			// Interpolate depth
			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z

			// Z-buffer test
			if z >= r.getDepth(x, y) {
				continue
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc))
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		uint8(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		uint8(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		uint8(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshRenderer is the geometry the rasterizer draws. It is satisfied by
// *models.Mesh without this package importing models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// tryFrustumCull attempts to cull a mesh using its bounds if available.
// Returns true if the mesh should be culled (not visible).
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok || mesh.VertexCount() == 0 {
		return false
	}

	r.CullingStats.MeshesTested++

	minBounds, maxBounds := bounded.GetBounds()
	world := math3d.Box3{Min: minBounds, Max: maxBounds}.Transform(transform)
	if !r.IsVisible(world) {
		r.CullingStats.MeshesCulled++
		return true
	}

	r.CullingStats.MeshesDrawn++
	return false
}

// FaceStyle is how one face of a mesh is drawn.
type FaceStyle struct {
	Color       Color
	Wireframe   bool
	DoubleSided bool
}

// DrawMesh renders every face of mesh transformed by transform. style is
// called once per face; wireframe faces are drawn as edges, the rest with
// Gouraud shading. Returns false if the mesh was frustum culled.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, style func(face int) FaceStyle, shade Shader) bool {
	if r.tryFrustumCull(mesh, transform) {
		return false
	}

	// Normals go through the inverse transpose so non-uniform scale keeps
	// them perpendicular to the surface.
	normalMat := transform.Inverse().Transpose()

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		fs := style(i)

		var tri Triangle
		for k := range 3 {
			p, n, _ := mesh.GetVertex(face[k])
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   normalMat.MulVec3Dir(n).Normalize(),
				Color:    fs.Color,
			}
		}

		if fs.Wireframe {
			r.drawLine3D(tri.V[0].Position, tri.V[1].Position, fs.Color)
			r.drawLine3D(tri.V[1].Position, tri.V[2].Position, fs.Color)
			r.drawLine3D(tri.V[2].Position, tri.V[0].Position, fs.Color)
			continue
		}
		r.DrawTriangleGouraud(tri, shade, fs.DoubleSided)
	}
	return true
}

// drawLine3D draws a 3D line (projected to screen).
func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()

	// Transform to clip space
	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))

	// Skip unless both ends are in front of the camera
	if clipA.W <= 0 || clipB.W <= 0 {
		return
	}

	clipA.X /= clipA.W
	clipA.Y /= clipA.W
	clipB.X /= clipB.W
	clipB.Y /= clipB.W

	// Both ends off the same side of the screen
	if (clipA.X < -1 && clipB.X < -1) || (clipA.X > 1 && clipB.X > 1) ||
		(clipA.Y < -1 && clipB.Y < -1) || (clipA.Y > 1 && clipB.Y > 1) {
		return
	}
	// Bresenham walks every pixel; refuse lines that explode near the camera
	const maxNDC = 64
	if math.Abs(clipA.X) > maxNDC || math.Abs(clipA.Y) > maxNDC ||
		math.Abs(clipB.X) > maxNDC || math.Abs(clipB.Y) > maxNDC {
		return
	}

	x0 := int((clipA.X + 1) * 0.5 * float64(r.Width()))
	y0 := int((1 - clipA.Y) * 0.5 * float64(r.Height()))
	x1 := int((clipB.X + 1) * 0.5 * float64(r.Width()))
	y1 := int((1 - clipB.Y) * 0.5 * float64(r.Height()))

	r.fb.DrawLine(x0, y0, x1, y1, color)
}
