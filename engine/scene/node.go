// Package scene is the editable node hierarchy of an imported model.
package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/collisionpost/engine/physics"
	"github.com/memmaker/collisionpost/engine/util"
)

// Mesh is a handle to a mesh of the source document.
type Mesh struct {
	index int
	name  string
}

func NewMesh(index int, name string) *Mesh {
	return &Mesh{index: index, name: name}
}

func (m *Mesh) GetName() string {
	return m.name
}

// Index is the position of the mesh in the document, -1 if it has none.
func (m *Mesh) Index() int {
	return m.index
}

type Node struct {
	name string
	// Hierarchy
	children []*Node
	parent   *Node

	mesh             *Mesh
	transform        util.Transform
	transformChanged bool
	colliders        []physics.Collider

	sourceIndex int
	destroyed   bool
}

func NewNode(name string) *Node {
	return &Node{
		name:        name,
		transform:   util.NewDefaultTransform(),
		sourceIndex: -1,
	}
}

func (n *Node) GetName() string {
	return n.name
}

func (n *Node) SetName(name string) {
	n.name = name
}

func (n *Node) GetMesh() *Mesh {
	return n.mesh
}

func (n *Node) SetMesh(mesh *Mesh) {
	n.mesh = mesh
}

func (n *Node) HasMesh() bool {
	return n.mesh != nil
}

func (n *Node) LocalPosition() mgl32.Vec3 {
	return n.transform.GetPosition()
}

func (n *Node) LocalRotation() mgl32.Quat {
	return n.transform.GetRotation()
}

func (n *Node) LocalScale() mgl32.Vec3 {
	return n.transform.GetScale()
}

func (n *Node) SetLocalPosition(position mgl32.Vec3) {
	n.transform.SetPosition(position)
	n.transformChanged = true
}

func (n *Node) SetLocalRotation(rotation mgl32.Quat) {
	n.transform.SetRotation(rotation)
	n.transformChanged = true
}

func (n *Node) SetLocalScale(scale mgl32.Vec3) {
	n.transform.SetScale(scale)
	n.transformChanged = true
}

func (n *Node) GetLocalMatrix() mgl32.Mat4 {
	return n.transform.GetLocalMatrix()
}

// GetTransformMatrix is the node's world transform.
func (n *Node) GetTransformMatrix() mgl32.Mat4 {
	if n.parent == nil {
		return n.GetLocalMatrix()
	}
	return n.parent.GetTransformMatrix().Mul4(n.GetLocalMatrix())
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy, so callers may destroy nodes while ranging over it.
func (n *Node) Children() []*Node {
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	return children
}

// AddChild appends child, detaching it from its previous parent first.
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) AddCollider(collider physics.Collider) {
	n.colliders = append(n.colliders, collider)
}

func (n *Node) GetColliders() []physics.Collider {
	return n.colliders
}

// Destroy removes the node and its whole subtree from the hierarchy. Destroying
// an already destroyed node does nothing.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	n.markDestroyed()
}

func (n *Node) markDestroyed() {
	n.destroyed = true
	for _, child := range n.children {
		child.markDestroyed()
	}
}

func (n *Node) IsDestroyed() bool {
	return n.destroyed
}

func (n *Node) GetNodeByName(name string) (*Node, bool) {
	if n.name == name {
		return n, true
	}
	for _, child := range n.children {
		if node, ok := child.GetNodeByName(name); ok {
			return node, true
		}
	}
	return nil, false
}

// ForEach visits the subtree below n in pre-order, n excluded.
func (n *Node) ForEach(f func(node *Node)) {
	for _, child := range n.children {
		f(child)
		child.ForEach(f)
	}
}

// Path is the slash separated list of names from the root down to n.
func (n *Node) Path() string {
	var names []string
	for node := n; node != nil; node = node.parent {
		names = append(names, node.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/")
}
