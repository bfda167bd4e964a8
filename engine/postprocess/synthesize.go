package postprocess

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/collisionpost/engine/physics"
)

const (
	BoxPrefix     = "UBX_"
	SpherePrefix  = "USP_"
	CapsulePrefix = "UCP_"
	ConvexPrefix  = "UCX_"

	SocketPrefix = "SOCKET_"
)

// Synthesize builds the collider a placeholder mesh named meshName stands for.
// It reports false when the name carries no known prefix; matching is exact
// and case-sensitive.
func Synthesize(meshName string, position, scale mgl32.Vec3, mesh physics.SharedMesh) (physics.Collider, bool) {
	switch {
	case strings.HasPrefix(meshName, BoxPrefix):
		return physics.NewBoxCollider(position, scale), true
	case strings.HasPrefix(meshName, SpherePrefix):
		return physics.NewSphereCollider(position, scale), true
	case strings.HasPrefix(meshName, CapsulePrefix):
		return physics.FitCapsule(scale), true
	case strings.HasPrefix(meshName, ConvexPrefix):
		return physics.NewConvexMeshCollider(mesh), true
	}
	return nil, false
}

// StripSocketSuffix removes a trailing ".NNN" from a SOCKET_ name.
func StripSocketSuffix(name string) (string, bool) {
	if !strings.HasPrefix(name, SocketPrefix) || len(name) < len(SocketPrefix)+4 {
		return name, false
	}
	cut := len(name) - 4
	if name[cut] != '.' {
		return name, false
	}
	for _, r := range name[cut+1:] {
		if r < '0' || r > '9' {
			return name, false
		}
	}
	return name[:cut], true
}
