package models

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/vitrine/pkg/math3d"
)

// Model is the result of decoding one scene asset: the root of its node
// graph and the animation clips that target it.
type Model struct {
	Name  string
	Path  string
	Root  *Node
	Clips []*Clip
}

// GLTFLoader loads GLTF/GLB files into a model graph.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool

	// Client fetches http(s) paths. Nil means http.DefaultClient.
	Client *http.Client
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a GLTF or GLB file from disk with the default options.
func LoadGLB(path string) (*Model, error) {
	return NewGLTFLoader().Load(context.Background(), path)
}

// Load reads a GLTF or GLB asset and decodes it. Paths starting with
// http:// or https:// are fetched over HTTP; anything else is opened from
// the filesystem.
func (l *GLTFLoader) Load(ctx context.Context, p string) (*Model, error) {
	var (
		doc *gltf.Document
		err error
	)
	if isRemote(p) {
		doc, err = l.fetch(ctx, p)
	} else {
		doc, err = gltf.Open(p)
		if err != nil {
			err = fmt.Errorf("open gltf: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := l.Decode(doc)
	if err != nil {
		return nil, err
	}
	m.Path = p
	m.Name = baseName(p)
	return m, nil
}

func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

func baseName(p string) string {
	if isRemote(p) {
		return path.Base(p)
	}
	return filepath.Base(p)
}

// fetch downloads and decodes a remote asset.
func (l *GLTFLoader) fetch(ctx context.Context, url string) (*gltf.Document, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch gltf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch gltf: unexpected status %s", resp.Status)
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(resp.Body).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	return doc, nil
}

// Decode builds a model graph from an already parsed document. Only the
// default scene (or the first one) is instantiated.
func (l *GLTFLoader) Decode(doc *gltf.Document) (*Model, error) {
	materials := decodeMaterials(doc)

	meshes := make([]*decodedMesh, len(doc.Meshes))
	for i, m := range doc.Meshes {
		dm, err := l.processMesh(doc, m, materials)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		meshes[i] = dm
	}

	root := NewNode("Scene")
	nodes := make([]*Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = buildNode(n, meshes)
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			nodes[i].Add(nodes[c])
		}
	}

	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene index %d out of range", sceneIdx)
		}
		sc := doc.Scenes[sceneIdx]
		if sc.Name != "" {
			root.Name = sc.Name
		}
		for _, idx := range sc.Nodes {
			if idx < 0 || idx >= len(nodes) {
				return nil, fmt.Errorf("scene node index %d out of range", idx)
			}
			root.Add(nodes[idx])
		}
	} else {
		// No scene list: attach every parentless node.
		for _, n := range nodes {
			if n.Parent() == nil {
				root.Add(n)
			}
		}
	}

	clips := make([]*Clip, 0, len(doc.Animations))
	for i, a := range doc.Animations {
		clip, err := decodeAnimation(doc, a, nodes)
		if err != nil {
			return nil, fmt.Errorf("process animation %d: %w", i, err)
		}
		clips = append(clips, clip)
	}

	return &Model{Name: root.Name, Root: root, Clips: clips}, nil
}

// decodedMesh is one glTF mesh: the merged geometry of its triangle
// primitives and the material slot they index into.
type decodedMesh struct {
	mesh *Mesh
	slot MaterialSlot
}

func buildNode(n *gltf.Node, meshes []*decodedMesh) *Node {
	node := NewNode(n.Name)

	if m := n.Matrix; m != [16]float64{} && m != [16]float64(math3d.Identity()) {
		node.SetMatrix(math3d.Mat4FromArray(m))
	} else {
		node.Position = math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2])
		if r := n.Rotation; r != [4]float64{} {
			node.Rotation = math3d.QuatFromArray(r).Normalize()
		}
		if s := n.Scale; s != [3]float64{} {
			node.Scale = math3d.V3(s[0], s[1], s[2])
		}
	}

	if n.Mesh != nil && *n.Mesh >= 0 && *n.Mesh < len(meshes) {
		dm := meshes[*n.Mesh]
		node.Mesh = dm.mesh
		node.Material = dm.slot
	}
	return node
}

func decodeMaterials(doc *gltf.Document) []*Material {
	out := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		m := NewMaterial(gm.Name)
		m.DoubleSided = gm.DoubleSided
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				m.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.MetallicFactor != nil {
				m.Metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				m.Roughness = *pbr.RoughnessFactor
			}
		}
		out[i] = m
	}
	return out
}

// processMesh merges the triangle primitives of a glTF mesh into one Mesh.
// A mesh whose primitives use more than one material gets a Multiple slot;
// otherwise a Single slot.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, materials []*Material) (*decodedMesh, error) {
	mesh := NewMesh(m.Name)

	var (
		slot      Multiple
		fallback  *Material
		slotIndex = make(map[*Material]int)
	)
	materialFor := func(prim *gltf.Primitive) int {
		var mat *Material
		if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(materials) {
			mat = materials[*prim.Material]
		}
		if mat == nil {
			// Primitives without a material share one default material.
			if fallback == nil {
				fallback = NewMaterial("default")
			}
			mat = fallback
		}
		if idx, ok := slotIndex[mat]; ok {
			return idx
		}
		slotIndex[mat] = len(slot)
		slot = append(slot, mat)
		return len(slot) - 1
	}

	for pi, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		acc, err := accessor(doc, pi, posIdx)
		if err != nil {
			return nil, err
		}
		positions, err := modeler.ReadPosition(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if acc, err = accessor(doc, pi, normIdx); err != nil {
				return nil, err
			}
			normals, err = modeler.ReadNormal(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if acc, err = accessor(doc, pi, uvIdx); err != nil {
				return nil, err
			}
			uvs, err = modeler.ReadTextureCoord(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("read uvs: %w", err)
			}
		}

		matIdx := materialFor(prim)
		baseVertex := len(mesh.Vertices)

		for i, p := range positions {
			v := MeshVertex{
				Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])),
			}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
			if i < len(uvs) {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				v.UV = math3d.V2(float64(uvs[i][0]), 1.0-float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			if acc, err = accessor(doc, pi, *prim.Indices); err != nil {
				return nil, err
			}
			indices, err = modeler.ReadIndices(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
			for _, idx := range indices {
				if int(idx) >= len(positions) {
					return nil, fmt.Errorf("primitive %d: index %d out of range", pi, idx)
				}
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// GLTF uses CCW winding for front faces; the rasterizer culls in
		// Y-down screen space, so the winding is reversed here.
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{
				V: [3]int{
					baseVertex + int(indices[i]),
					baseVertex + int(indices[i+2]),
					baseVertex + int(indices[i+1]),
				},
				Material: matIdx,
			})
		}
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}
	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}
	mesh.CalculateBounds()

	dm := &decodedMesh{mesh: mesh}
	switch len(slot) {
	case 0:
		dm.slot = Single{Material: NewMaterial("default")}
	case 1:
		dm.slot = Single{Material: slot[0]}
	default:
		dm.slot = slot
	}
	return dm, nil
}

func accessor(doc *gltf.Document, prim, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("primitive %d: accessor %d out of range", prim, idx)
	}
	return doc.Accessors[idx], nil
}

func decodeAnimation(doc *gltf.Document, a *gltf.Animation, nodes []*Node) (*Clip, error) {
	clip := &Clip{Name: a.Name}

	for ci, ch := range a.Channels {
		if ch.Target.Node == nil {
			continue
		}
		nodeIdx := *ch.Target.Node
		if nodeIdx < 0 || nodeIdx >= len(nodes) {
			return nil, fmt.Errorf("channel %d: node index %d out of range", ci, nodeIdx)
		}

		var path TargetPath
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			path = PathTranslation
		case gltf.TRSRotation:
			path = PathRotation
		case gltf.TRSScale:
			path = PathScale
		default:
			// Morph target weights are not animated.
			continue
		}

		if ch.Sampler < 0 || ch.Sampler >= len(a.Samplers) {
			return nil, fmt.Errorf("channel %d: sampler index %d out of range", ci, ch.Sampler)
		}
		s := a.Samplers[ch.Sampler]

		times, err := readScalars(doc, s.Input)
		if err != nil {
			return nil, fmt.Errorf("channel %d input: %w", ci, err)
		}
		values, err := readKeyValues(doc, s.Output)
		if err != nil {
			return nil, fmt.Errorf("channel %d output: %w", ci, err)
		}

		interp := InterpolationLinear
		switch s.Interpolation {
		case gltf.InterpolationStep:
			interp = InterpolationStep
		case gltf.InterpolationCubicSpline:
			interp = InterpolationCubicSpline
		}

		want := len(times) * path.components()
		if interp == InterpolationCubicSpline {
			want *= 3
		}
		if len(values) < want {
			return nil, fmt.Errorf("channel %d: %d output values for %d keyframes", ci, len(values), len(times))
		}

		clip.Tracks = append(clip.Tracks, Track{
			Node:          nodes[nodeIdx],
			Path:          path,
			Interpolation: interp,
			Times:         times,
			Values:        values[:want],
		})
	}

	clip.ResetDuration()
	return clip, nil
}

func readScalars(doc *gltf.Document, accessorIdx int) ([]float64, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIdx)
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessorIdx], nil)
	if err != nil {
		return nil, err
	}
	v, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected keyframe time type %T", data)
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out, nil
}

// readKeyValues reads VEC3/VEC4 keyframe output, normalizing integer
// rotation encodings, and flattens it.
func readKeyValues(doc *gltf.Document, accessorIdx int) ([]float64, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIdx)
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[accessorIdx], nil)
	if err != nil {
		return nil, err
	}

	var out []float64
	switch v := data.(type) {
	case [][3]float32:
		for _, e := range v {
			out = append(out, float64(e[0]), float64(e[1]), float64(e[2]))
		}
	case [][4]float32:
		for _, e := range v {
			out = append(out, float64(e[0]), float64(e[1]), float64(e[2]), float64(e[3]))
		}
	case [][4]int8:
		for _, e := range v {
			for _, c := range e {
				out = append(out, max(float64(c)/127, -1))
			}
		}
	case [][4]uint8:
		for _, e := range v {
			for _, c := range e {
				out = append(out, float64(c)/255)
			}
		}
	case [][4]int16:
		for _, e := range v {
			for _, c := range e {
				out = append(out, max(float64(c)/32767, -1))
			}
		}
	case [][4]uint16:
		for _, e := range v {
			for _, c := range e {
				out = append(out, float64(c)/65535)
			}
		}
	default:
		return nil, fmt.Errorf("unexpected keyframe value type %T", data)
	}
	return out, nil
}
