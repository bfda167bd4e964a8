package scene

import (
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/collisionpost/engine/util"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// Model is an imported glTF document together with the editable hierarchy of
// its default scene. RootNode stands for the file itself; its children are the
// scene's root nodes.
type Model struct {
	Name     string
	RootNode *Node

	doc        *gltf.Document
	sceneIndex int
	meshes     []*Mesh
	nodes      []*Node // by document index, nil for nodes outside the default scene
}

func LoadGLTF(filename string) (*Model, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	model, err := NewModelFromDocument(name, doc)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filename)
	}
	return model, nil
}

func NewModelFromDocument(name string, doc *gltf.Document) (*Model, error) {
	if len(doc.Scenes) == 0 {
		return nil, errors.New("document has no scenes")
	}
	defaultSceneIndex := 0
	if doc.Scene != nil {
		defaultSceneIndex = int(*doc.Scene)
	}
	if defaultSceneIndex >= len(doc.Scenes) {
		return nil, errors.Errorf("default scene %d out of range (%d scenes)", defaultSceneIndex, len(doc.Scenes))
	}

	m := &Model{
		Name:       name,
		RootNode:   NewNode(name),
		doc:        doc,
		sceneIndex: defaultSceneIndex,
		meshes:     make([]*Mesh, len(doc.Meshes)),
		nodes:      make([]*Node, len(doc.Nodes)),
	}
	for meshIndex, mesh := range doc.Meshes {
		m.meshes[meshIndex] = NewMesh(meshIndex, mesh.Name)
	}
	for _, nodeIndex := range doc.Scenes[defaultSceneIndex].Nodes {
		node, err := m.buildNodeHierarchy(nodeIndex)
		if err != nil {
			return nil, err
		}
		m.RootNode.AddChild(node)
	}
	return m, nil
}

func (m *Model) Document() *gltf.Document {
	return m.doc
}

func (m *Model) buildNodeHierarchy(nodeIndex uint32) (*Node, error) {
	if int(nodeIndex) >= len(m.doc.Nodes) {
		return nil, errors.Errorf("node index %d out of range (%d nodes)", nodeIndex, len(m.doc.Nodes))
	}
	if m.nodes[nodeIndex] != nil {
		return nil, errors.Errorf("node %d is referenced more than once", nodeIndex)
	}
	docNode := m.doc.Nodes[nodeIndex]
	node := NewNode(docNode.Name)
	node.sourceIndex = int(nodeIndex)
	node.transform = nodeTransform(docNode)
	m.nodes[nodeIndex] = node

	if docNode.Mesh != nil {
		meshIndex := int(*docNode.Mesh)
		if meshIndex >= len(m.meshes) {
			return nil, errors.Errorf("node %q: mesh index %d out of range", docNode.Name, meshIndex)
		}
		node.mesh = m.meshes[meshIndex]
	}
	for _, childNodeIndex := range docNode.Children {
		child, err := m.buildNodeHierarchy(childNodeIndex)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
	}
	return node, nil
}

func nodeTransform(docNode *gltf.Node) util.Transform {
	matrix := mgl32.Mat4(docNode.Matrix)
	if matrix != (mgl32.Mat4{}) && matrix != mgl32.Ident4() {
		return util.NewTransformFromMatrix(matrix)
	}
	return util.NewTransform(
		util.Vec3FromArray(docNode.TranslationOrDefault()),
		util.QuatFromArray(docNode.RotationOrDefault()),
		util.Vec3FromArray(docNode.ScaleOrDefault()),
	)
}

// SaveGLTF syncs the hierarchy into the document and writes it. A .glb
// extension selects the binary container.
func (m *Model) SaveGLTF(filename string) error {
	m.Sync()
	var err error
	if strings.EqualFold(filepath.Ext(filename), ".glb") {
		err = gltf.SaveBinary(m.doc, filename)
	} else {
		err = gltf.Save(m.doc, filename)
	}
	return errors.Wrapf(err, "save %s", filename)
}

// Sync writes the edited hierarchy back into the document: destroyed nodes are
// dropped and every node reference is renumbered, names, changed transforms
// and colliders are written to the surviving nodes.
func (m *Model) Sync() {
	doc := m.doc
	m.appendNewNodes()

	remap := make([]int, len(doc.Nodes))
	keptCount := 0
	for i := range doc.Nodes {
		if node := m.nodes[i]; node != nil && node.destroyed {
			remap[i] = -1
			continue
		}
		remap[i] = keptCount
		keptCount++
	}

	for i, docNode := range doc.Nodes {
		node := m.nodes[i]
		if node == nil {
			docNode.Children = remapIndices(docNode.Children, remap)
			continue
		}
		if node.destroyed {
			continue
		}
		docNode.Name = node.name
		docNode.Children = childIndices(node, remap)
		docNode.Extras = withColliderExtras(docNode.Extras, node.colliders)
		if node.transformChanged {
			writeTransform(docNode, node.transform)
			node.transformChanged = false
		}
		if node.mesh != nil && node.mesh.Index() >= 0 {
			docNode.Mesh = gltf.Index(uint32(node.mesh.Index()))
		} else {
			docNode.Mesh = nil
		}
	}

	for sceneIndex, s := range doc.Scenes {
		if sceneIndex == m.sceneIndex {
			s.Nodes = childIndices(m.RootNode, remap)
			s.Extras = withColliderExtras(s.Extras, m.RootNode.colliders)
			continue
		}
		s.Nodes = remapIndices(s.Nodes, remap)
	}
	for _, skin := range doc.Skins {
		skin.Joints = remapIndices(skin.Joints, remap)
		skin.Skeleton = remapIndex(skin.Skeleton, remap)
	}
	for _, anim := range doc.Animations {
		channels := anim.Channels[:0]
		for _, channel := range anim.Channels {
			if channel.Target.Node != nil {
				channel.Target.Node = remapIndex(channel.Target.Node, remap)
				if channel.Target.Node == nil {
					continue
				}
			}
			channels = append(channels, channel)
		}
		anim.Channels = channels
	}

	keptDocNodes := make([]*gltf.Node, keptCount)
	keptNodes := make([]*Node, keptCount)
	for i, docNode := range doc.Nodes {
		if remap[i] < 0 {
			continue
		}
		keptDocNodes[remap[i]] = docNode
		keptNodes[remap[i]] = m.nodes[i]
		if node := m.nodes[i]; node != nil {
			node.sourceIndex = remap[i]
		}
	}
	doc.Nodes = keptDocNodes
	m.nodes = keptNodes
}

// appendNewNodes gives nodes created after loading a slot in the document.
func (m *Model) appendNewNodes() {
	m.RootNode.ForEach(func(node *Node) {
		if node.sourceIndex >= 0 {
			return
		}
		m.doc.Nodes = append(m.doc.Nodes, &gltf.Node{Name: node.name})
		node.sourceIndex = len(m.doc.Nodes) - 1
		node.transformChanged = true
		m.nodes = append(m.nodes, node)
	})
}

func writeTransform(docNode *gltf.Node, t util.Transform) {
	rotation := t.GetRotation()
	docNode.Matrix = [16]float32(mgl32.Ident4())
	docNode.Translation = [3]float32(t.GetPosition())
	docNode.Rotation = [4]float32{rotation.X(), rotation.Y(), rotation.Z(), rotation.W}
	docNode.Scale = [3]float32(t.GetScale())
}

func childIndices(node *Node, remap []int) []uint32 {
	var indices []uint32
	for _, child := range node.children {
		if child.sourceIndex < 0 || remap[child.sourceIndex] < 0 {
			continue
		}
		indices = append(indices, uint32(remap[child.sourceIndex]))
	}
	return indices
}

func remapIndices(indices []uint32, remap []int) []uint32 {
	if indices == nil {
		return nil
	}
	out := indices[:0]
	for _, index := range indices {
		if int(index) < len(remap) && remap[index] >= 0 {
			out = append(out, uint32(remap[index]))
		}
	}
	return out
}

func remapIndex(index *uint32, remap []int) *uint32 {
	if index == nil || int(*index) >= len(remap) || remap[*index] < 0 {
		return nil
	}
	return gltf.Index(uint32(remap[*index]))
}
