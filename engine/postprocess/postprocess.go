// Package postprocess turns placeholder meshes of an imported model into
// colliders on their parents.
//
// Placeholders are recognised by the name of their mesh:
//
//	UBX_<name>  box collider (center = local position, size = local scale)
//	USP_<name>  sphere collider (radius = local scale z / 2)
//	UCP_<name>  capsule collider fitted to the local scale
//	UCX_<name>  convex mesh collider reusing the placeholder's mesh
//
// Nodes named SOCKET_<name>.NNN lose their numeric suffix.
package postprocess

import (
	"fmt"

	"github.com/memmaker/collisionpost/engine/physics"
	"github.com/memmaker/collisionpost/engine/scene"
	"github.com/memmaker/collisionpost/engine/util"
)

// Attachment records one collider added to Parent for a placeholder.
type Attachment struct {
	Parent      *scene.Node
	Collider    physics.Collider
	Placeholder string
}

type Rename struct {
	From string
	To   string
}

// Result describes what a run changed.
type Result struct {
	Attachments []Attachment
	Removed     []string
	Renamed     []Rename
}

type CollisionPostprocessor struct {
	logger util.Logger
}

func New(logger util.Logger) *CollisionPostprocessor {
	if logger == nil {
		logger = util.NopLogger{}
	}
	return &CollisionPostprocessor{logger: logger}
}

// OnPostprocessModel resolves every placeholder below root. Placeholders are
// destroyed only after the whole hierarchy has been walked.
func (p *CollisionPostprocessor) OnPostprocessModel(root *scene.Node) *Result {
	util.LogImportInfo(p.logger, fmt.Sprintf("collision postprocess started: %s", root.GetName()))

	result := &Result{}
	var toDestroy []*scene.Node
	for _, child := range root.Children() {
		toDestroy = p.addCollider(child, toDestroy, result)
	}

	for _, node := range toDestroy {
		result.Removed = append(result.Removed, node.Path())
		node.Destroy()
	}

	util.LogImportInfo(p.logger, fmt.Sprintf("collision postprocess finished: %s", root.GetName()))
	return result
}

func (p *CollisionPostprocessor) addCollider(node *scene.Node, toDestroy []*scene.Node, result *Result) []*scene.Node {
	for _, child := range node.Children() {
		toDestroy = p.addCollider(child, toDestroy, result)
	}

	if stripped, ok := StripSocketSuffix(node.GetName()); ok {
		result.Renamed = append(result.Renamed, Rename{From: node.GetName(), To: stripped})
		node.SetName(stripped)
	}

	mesh := node.GetMesh()
	if mesh == nil {
		return toDestroy
	}
	collider, ok := Synthesize(mesh.GetName(), node.LocalPosition(), node.LocalScale(), mesh)
	if !ok {
		return toDestroy
	}
	parent := node.Parent()
	parent.AddCollider(collider)
	result.Attachments = append(result.Attachments, Attachment{
		Parent:      parent,
		Collider:    collider,
		Placeholder: node.GetName(),
	})
	return append(toDestroy, node)
}
