package models

// Material is the subset of a glTF PBR material the viewer needs.
type Material struct {
	Name        string
	BaseColor   [4]float64 // RGBA in 0-1 range
	Metallic    float64    // 0 = dielectric, 1 = metal
	Roughness   float64    // 0 = smooth, 1 = rough
	DoubleSided bool

	// Wireframe renders only polygon edges.
	Wireframe bool

	// Version increases every time a render-affecting flag changes, so a
	// renderer caching per-material state knows to rebuild it.
	Version uint64
}

// NewMaterial creates a material with the glTF defaults: opaque white,
// fully metallic and fully rough.
func NewMaterial(name string) *Material {
	return &Material{
		Name:      name,
		BaseColor: [4]float64{1, 1, 1, 1},
		Metallic:  1,
		Roughness: 1,
	}
}

// SetWireframe sets the wireframe flag and marks the material as updated.
func (m *Material) SetWireframe(v bool) {
	m.Wireframe = v
	m.NeedsUpdate()
}

// NeedsUpdate marks the material as changed.
func (m *Material) NeedsUpdate() {
	m.Version++
}

// MaterialSlot is the material binding of a mesh node: either one
// material for every face (Single) or a list indexed by Face.Material
// (Multiple). The set of implementations is closed.
type MaterialSlot interface {
	// Materials returns every material in the slot.
	Materials() []*Material
	// At returns the material for a face's material index, or nil.
	At(i int) *Material

	isMaterialSlot()
}

// Single binds one material to all faces of a mesh.
type Single struct {
	Material *Material
}

// Materials implements MaterialSlot.
func (s Single) Materials() []*Material {
	if s.Material == nil {
		return nil
	}
	return []*Material{s.Material}
}

// At implements MaterialSlot. The face index is ignored.
func (s Single) At(int) *Material {
	return s.Material
}

func (Single) isMaterialSlot() {}

// Multiple binds a list of materials, selected per face.
type Multiple []*Material

// Materials implements MaterialSlot.
func (m Multiple) Materials() []*Material {
	return m
}

// At implements MaterialSlot.
func (m Multiple) At(i int) *Material {
	if i < 0 || i >= len(m) {
		return nil
	}
	return m[i]
}

func (Multiple) isMaterialSlot() {}
