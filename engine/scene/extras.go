package scene

import (
	"github.com/memmaker/collisionpost/engine/physics"
)

// ExtrasCollidersKey is the extras key colliders are stored under.
const ExtrasCollidersKey = "colliders"

// ColliderRecord is the serialised form of a collider, shared by the glTF
// extras and the import report.
type ColliderRecord struct {
	Type      string      `json:"type" yaml:"type"`
	Center    *[3]float32 `json:"center,omitempty" yaml:"center,omitempty,flow"`
	Size      *[3]float32 `json:"size,omitempty" yaml:"size,omitempty,flow"`
	Radius    *float32    `json:"radius,omitempty" yaml:"radius,omitempty"`
	Height    *float32    `json:"height,omitempty" yaml:"height,omitempty"`
	Direction *int        `json:"direction,omitempty" yaml:"direction,omitempty"`
	Convex    bool        `json:"convex,omitempty" yaml:"convex,omitempty"`
	Mesh      *int        `json:"mesh,omitempty" yaml:"mesh,omitempty"`
	MeshName  string      `json:"name,omitempty" yaml:"mesh_name,omitempty"`
}

func NewColliderRecord(collider physics.Collider) ColliderRecord {
	record := ColliderRecord{Type: collider.Type().String()}
	switch c := collider.(type) {
	case *physics.BoxCollider:
		center, size := [3]float32(c.Center), [3]float32(c.Size)
		record.Center = &center
		record.Size = &size
	case *physics.SphereCollider:
		center, radius := [3]float32(c.Center), c.Radius
		record.Center = &center
		record.Radius = &radius
	case *physics.CapsuleCollider:
		height, radius, direction := c.Height, c.Radius, int(c.Direction)
		record.Height = &height
		record.Radius = &radius
		record.Direction = &direction
	case *physics.MeshCollider:
		record.Convex = c.Convex
		if c.SharedMesh != nil {
			record.MeshName = c.SharedMesh.GetName()
			if mesh, ok := c.SharedMesh.(*Mesh); ok && mesh.Index() >= 0 {
				index := mesh.Index()
				record.Mesh = &index
			}
		}
	}
	return record
}

func colliderRecords(colliders []physics.Collider) []ColliderRecord {
	records := make([]ColliderRecord, 0, len(colliders))
	for _, c := range colliders {
		records = append(records, NewColliderRecord(c))
	}
	return records
}

// withColliderExtras stores the colliders in extras, keeping any other keys.
// Extras that are not an object are kept under "value".
func withColliderExtras(extras interface{}, colliders []physics.Collider) interface{} {
	if len(colliders) == 0 {
		return extras
	}
	records := colliderRecords(colliders)
	switch e := extras.(type) {
	case nil:
		return map[string]interface{}{ExtrasCollidersKey: records}
	case map[string]interface{}:
		e[ExtrasCollidersKey] = records
		return e
	default:
		return map[string]interface{}{ExtrasCollidersKey: records, "value": e}
	}
}
