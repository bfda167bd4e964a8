// Package physics holds the collider descriptors produced from placeholder
// meshes and the fitting rules that derive them from a local transform.
package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

type ColliderType int

const (
	BoxShape ColliderType = iota
	SphereShape
	CapsuleShape
	MeshShape
)

func (c ColliderType) String() string {
	switch c {
	case BoxShape:
		return "box"
	case SphereShape:
		return "sphere"
	case CapsuleShape:
		return "capsule"
	case MeshShape:
		return "mesh"
	}
	return fmt.Sprintf("ColliderType(%d)", int(c))
}

// Collider is one of BoxCollider, SphereCollider, CapsuleCollider or
// MeshCollider. All values are in the local space of the node that owns it.
type Collider interface {
	Type() ColliderType
	ToString() string
}

// Bounded is implemented by the primitive shapes.
type Bounded interface {
	GetAABB() AABB
}

// SharedMesh is the host's handle to mesh data. Colliders never read the
// geometry, they only keep the reference.
type SharedMesh interface {
	GetName() string
}

type BoxCollider struct {
	Center mgl32.Vec3
	Size   mgl32.Vec3
}

// NewBoxCollider takes the placeholder's local position and scale verbatim.
func NewBoxCollider(position, scale mgl32.Vec3) *BoxCollider {
	return &BoxCollider{Center: position, Size: scale}
}

func (b *BoxCollider) Type() ColliderType { return BoxShape }

func (b *BoxCollider) GetAABB() AABB {
	return NewAABB(b.Center, absVec(b.Size))
}

func (b *BoxCollider) ToString() string {
	return fmt.Sprintf("BoxCollider{Center = %v, Size = %v}", b.Center, b.Size)
}

type SphereCollider struct {
	Center mgl32.Vec3
	Radius float32
}

// NewSphereCollider uses the z component of the scale as the diameter.
func NewSphereCollider(position, scale mgl32.Vec3) *SphereCollider {
	return &SphereCollider{Center: position, Radius: scale.Z() * .5}
}

func (s *SphereCollider) Type() ColliderType { return SphereShape }

func (s *SphereCollider) GetAABB() AABB {
	d := abs(s.Radius) * 2
	return NewAABB(s.Center, mgl32.Vec3{d, d, d})
}

func (s *SphereCollider) ToString() string {
	return fmt.Sprintf("SphereCollider{Center = %v, Radius = %v}", s.Center, s.Radius)
}

// CapsuleCollider is centered on its owner's origin. Height is the full
// length along Direction including both caps.
type CapsuleCollider struct {
	Height    float32
	Radius    float32
	Direction Axis
}

func (c *CapsuleCollider) Type() ColliderType { return CapsuleShape }

func (c *CapsuleCollider) GetAABB() AABB {
	d := abs(c.Radius) * 2
	extents := mgl32.Vec3{d, d, d}
	if h := abs(c.Height); h > d {
		extents[c.Direction] = h
	}
	return NewAABB(mgl32.Vec3{}, extents)
}

func (c *CapsuleCollider) ToString() string {
	return fmt.Sprintf("CapsuleCollider{Height = %v, Radius = %v, Direction = %v}", c.Height, c.Radius, c.Direction)
}

type MeshCollider struct {
	Convex     bool
	SharedMesh SharedMesh
}

func NewConvexMeshCollider(mesh SharedMesh) *MeshCollider {
	return &MeshCollider{Convex: true, SharedMesh: mesh}
}

func (m *MeshCollider) Type() ColliderType { return MeshShape }

func (m *MeshCollider) ToString() string {
	name := "<nil>"
	if m.SharedMesh != nil {
		name = m.SharedMesh.GetName()
	}
	return fmt.Sprintf("MeshCollider{Convex = %v, Mesh = %s}", m.Convex, name)
}
