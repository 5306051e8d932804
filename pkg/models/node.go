package models

import (
	"github.com/taigrr/vitrine/pkg/math3d"
)

// Node is one element of a model graph. A node with a non-nil Mesh is a
// mesh node; any node can carry children.
type Node struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Quat
	Scale    math3d.Vec3

	Mesh     *Mesh
	Material MaterialSlot

	parent   *Node
	children []*Node
}

// NewNode creates an empty group node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math3d.IdentityQuat(),
		Scale:    math3d.V3(1, 1, 1),
	}
}

// NewMeshNode creates a mesh node. A nil slot means the mesh is drawn with
// the renderer's default material.
func NewMeshNode(name string, mesh *Mesh, slot MaterialSlot) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	n.Material = slot
	return n
}

// IsMesh reports whether the node carries geometry.
func (n *Node) IsMesh() bool {
	return n.Mesh != nil
}

// Parent returns the node this node is attached to, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child to n, detaching it from any previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	child.RemoveFromParent()
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was attached.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Traverse calls fn for n and every descendant, depth first, parents
// before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Find returns the first node named name in the subtree, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() math3d.Mat4 {
	return math3d.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the transform from the node's space to the space of
// the topmost ancestor.
func (n *Node) WorldMatrix() math3d.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul(n.LocalMatrix())
}

// SetMatrix replaces position, rotation and scale with the decomposition of m.
func (n *Node) SetMatrix(m math3d.Mat4) {
	n.Position, n.Rotation, n.Scale = m.Decompose()
}

// Bounds returns the world-space axis-aligned box enclosing the geometry of
// the subtree: each mesh's local box is transformed by its world matrix and
// the results are merged. The box is empty when the subtree has no geometry.
func (n *Node) Bounds() math3d.Box3 {
	box := math3d.EmptyBox3()
	n.walkWorld(n.WorldMatrix(), func(node *Node, world math3d.Mat4) {
		if node.Mesh != nil {
			box = box.Union(node.Mesh.Box().Transform(world))
		}
	})
	return box
}

// WalkWorld calls fn for every node in the subtree with its world matrix,
// computing each matrix once.
func (n *Node) WalkWorld(fn func(node *Node, world math3d.Mat4)) {
	n.walkWorld(n.WorldMatrix(), fn)
}

func (n *Node) walkWorld(world math3d.Mat4, fn func(*Node, math3d.Mat4)) {
	fn(n, world)
	for _, c := range n.children {
		c.walkWorld(world.Mul(c.LocalMatrix()), fn)
	}
}

// Stats counts the mesh nodes, vertices and triangles in the subtree.
func (n *Node) Stats() (meshes, vertices, triangles int) {
	n.Traverse(func(node *Node) {
		if node.Mesh == nil {
			return
		}
		meshes++
		vertices += node.Mesh.VertexCount()
		triangles += node.Mesh.TriangleCount()
	})
	return meshes, vertices, triangles
}
