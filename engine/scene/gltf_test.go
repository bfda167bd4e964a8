package scene

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/collisionpost/engine/physics"
	"github.com/qmuntal/gltf"
)

var identityRotation = [4]float32{0, 0, 0, 1}

// crateDocument is a crate with a box and a convex placeholder, a socket and
// an animation that targets the box placeholder.
func crateDocument() *gltf.Document {
	return &gltf.Document{
		Asset:  gltf.Asset{Version: "2.0", Generator: "collisionpost tests"},
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Name: "Scene", Nodes: []uint32{0}}},
		Meshes: []*gltf.Mesh{{Name: "Crate"}, {Name: "UBX_Crate"}, {Name: "UCX_Crate"}},
		Nodes: []*gltf.Node{
			{Name: "Crate", Mesh: gltf.Index(0), Children: []uint32{1, 2, 3}, Rotation: identityRotation, Scale: [3]float32{1, 1, 1}},
			{Name: "UBX_Crate", Mesh: gltf.Index(1), Translation: [3]float32{0, 1, 0}, Rotation: identityRotation, Scale: [3]float32{2, 1, 3}},
			{Name: "UCX_Crate", Mesh: gltf.Index(2), Rotation: identityRotation, Scale: [3]float32{1, 1, 1}},
			{Name: "SOCKET_Lid.001", Translation: [3]float32{0, 2, 0}, Rotation: identityRotation, Scale: [3]float32{1, 1, 1}},
		},
		Skins: []*gltf.Skin{{Joints: []uint32{0, 3}, Skeleton: gltf.Index(1)}},
		Animations: []*gltf.Animation{{
			Name: "Open",
			Channels: []*gltf.Channel{
				{Sampler: gltf.Index(0), Target: gltf.ChannelTarget{Node: gltf.Index(1), Path: gltf.TRSTranslation}},
				{Sampler: gltf.Index(0), Target: gltf.ChannelTarget{Node: gltf.Index(3), Path: gltf.TRSTranslation}},
			},
		}},
	}
}

func TestNewModelFromDocumentBuildsHierarchy(t *testing.T) {
	model, err := NewModelFromDocument("crate", crateDocument())
	if err != nil {
		t.Fatal(err)
	}
	if model.RootNode.GetName() != "crate" {
		t.Errorf("root name = %q", model.RootNode.GetName())
	}
	roots := model.RootNode.Children()
	if len(roots) != 1 || roots[0].GetName() != "Crate" {
		t.Fatalf("scene roots = %v", roots)
	}
	if got := len(roots[0].Children()); got != 3 {
		t.Fatalf("Crate has %d children, want 3", got)
	}

	box, ok := model.RootNode.GetNodeByName("UBX_Crate")
	if !ok {
		t.Fatal("UBX_Crate not found")
	}
	if box.GetMesh() == nil || box.GetMesh().GetName() != "UBX_Crate" || box.GetMesh().Index() != 1 {
		t.Errorf("mesh = %+v", box.GetMesh())
	}
	if box.LocalPosition() != (mgl32.Vec3{0, 1, 0}) || box.LocalScale() != (mgl32.Vec3{2, 1, 3}) {
		t.Errorf("transform = %v %v", box.LocalPosition(), box.LocalScale())
	}
	if box.Path() != "crate/Crate/UBX_Crate" {
		t.Errorf("Path() = %q", box.Path())
	}
}

func TestNewModelFromDocumentDecomposesMatrix(t *testing.T) {
	doc := crateDocument()
	doc.Nodes[1].Matrix = [16]float32(mgl32.Translate3D(4, 5, 6).Mul4(mgl32.Scale3D(2, 1, 3)))

	model, err := NewModelFromDocument("crate", doc)
	if err != nil {
		t.Fatal(err)
	}
	box, _ := model.RootNode.GetNodeByName("UBX_Crate")
	if !box.LocalPosition().ApproxEqual(mgl32.Vec3{4, 5, 6}) {
		t.Errorf("position = %v", box.LocalPosition())
	}
	if !box.LocalScale().ApproxEqual(mgl32.Vec3{2, 1, 3}) {
		t.Errorf("scale = %v", box.LocalScale())
	}
}

func TestNewModelFromDocumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *gltf.Document)
	}{
		{"no scenes", func(doc *gltf.Document) { doc.Scenes = nil }},
		{"default scene out of range", func(doc *gltf.Document) { doc.Scene = gltf.Index(3) }},
		{"child out of range", func(doc *gltf.Document) { doc.Nodes[0].Children = append(doc.Nodes[0].Children, 9) }},
		{"mesh out of range", func(doc *gltf.Document) { doc.Nodes[2].Mesh = gltf.Index(7) }},
		{"cycle", func(doc *gltf.Document) { doc.Nodes[3].Children = []uint32{0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := crateDocument()
			tt.mutate(doc)
			if _, err := NewModelFromDocument("crate", doc); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSyncRemovesDestroyedNodesAndRemaps(t *testing.T) {
	model, err := NewModelFromDocument("crate", crateDocument())
	if err != nil {
		t.Fatal(err)
	}
	crate, _ := model.RootNode.GetNodeByName("Crate")
	box, _ := model.RootNode.GetNodeByName("UBX_Crate")
	convex, _ := model.RootNode.GetNodeByName("UCX_Crate")
	socket, _ := model.RootNode.GetNodeByName("SOCKET_Lid.001")

	crate.AddCollider(physics.NewBoxCollider(box.LocalPosition(), box.LocalScale()))
	crate.AddCollider(physics.NewConvexMeshCollider(convex.GetMesh()))
	box.Destroy()
	convex.Destroy()
	socket.SetName("SOCKET_Lid")

	model.Sync()
	doc := model.Document()

	if len(doc.Nodes) != 2 {
		t.Fatalf("document has %d nodes, want 2", len(doc.Nodes))
	}
	if doc.Nodes[0].Name != "Crate" || doc.Nodes[1].Name != "SOCKET_Lid" {
		t.Errorf("names = %q, %q", doc.Nodes[0].Name, doc.Nodes[1].Name)
	}
	if got := doc.Nodes[0].Children; len(got) != 1 || got[0] != 1 {
		t.Errorf("Crate children = %v, want [1]", got)
	}
	if got := doc.Scenes[0].Nodes; len(got) != 1 || got[0] != 0 {
		t.Errorf("scene nodes = %v, want [0]", got)
	}
	if got := doc.Skins[0].Joints; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("skin joints = %v, want [0 1]", got)
	}
	if doc.Skins[0].Skeleton != nil {
		t.Errorf("skeleton pointed at a removed node, got %d", *doc.Skins[0].Skeleton)
	}
	channels := doc.Animations[0].Channels
	if len(channels) != 1 || *channels[0].Target.Node != 1 {
		t.Errorf("animation channels = %+v", channels)
	}
	if len(doc.Meshes) != 3 {
		t.Errorf("meshes must be kept for mesh colliders, got %d", len(doc.Meshes))
	}

	extras, ok := doc.Nodes[0].Extras.(map[string]interface{})
	if !ok {
		t.Fatalf("extras = %#v", doc.Nodes[0].Extras)
	}
	records, ok := extras[ExtrasCollidersKey].([]ColliderRecord)
	if !ok || len(records) != 2 {
		t.Fatalf("colliders = %#v", extras[ExtrasCollidersKey])
	}
	if records[0].Type != "box" || *records[0].Size != [3]float32{2, 1, 3} || *records[0].Center != [3]float32{0, 1, 0} {
		t.Errorf("box record = %+v", records[0])
	}
	if records[1].Type != "mesh" || !records[1].Convex || *records[1].Mesh != 2 || records[1].MeshName != "UCX_Crate" {
		t.Errorf("mesh record = %+v", records[1])
	}
}

func TestSyncKeepsExistingExtras(t *testing.T) {
	doc := crateDocument()
	doc.Nodes[0].Extras = map[string]interface{}{"lod": 2.0}
	doc.Nodes[3].Extras = "socket"
	model, err := NewModelFromDocument("crate", doc)
	if err != nil {
		t.Fatal(err)
	}
	crate, _ := model.RootNode.GetNodeByName("Crate")
	socket, _ := model.RootNode.GetNodeByName("SOCKET_Lid.001")
	crate.AddCollider(physics.FitCapsule(mgl32.Vec3{1, 1, 3}))
	socket.AddCollider(&physics.SphereCollider{Radius: 1})

	model.Sync()

	crateExtras := doc.Nodes[0].Extras.(map[string]interface{})
	if crateExtras["lod"] != 2.0 {
		t.Errorf("lost extras key: %#v", crateExtras)
	}
	socketExtras := doc.Nodes[3].Extras.(map[string]interface{})
	if socketExtras["value"] != "socket" {
		t.Errorf("lost scalar extras: %#v", socketExtras)
	}
	if doc.Nodes[1].Extras != nil {
		t.Errorf("node without colliders got extras %#v", doc.Nodes[1].Extras)
	}
}

func TestSyncStoresRootCollidersOnScene(t *testing.T) {
	model, err := NewModelFromDocument("crate", crateDocument())
	if err != nil {
		t.Fatal(err)
	}
	model.RootNode.AddCollider(&physics.SphereCollider{Radius: 0.5})
	model.Sync()

	extras, ok := model.Document().Scenes[0].Extras.(map[string]interface{})
	if !ok {
		t.Fatalf("scene extras = %#v", model.Document().Scenes[0].Extras)
	}
	if records := extras[ExtrasCollidersKey].([]ColliderRecord); len(records) != 1 || records[0].Type != "sphere" {
		t.Errorf("scene colliders = %+v", records)
	}
}

func TestSyncAppendsNewNodes(t *testing.T) {
	model, err := NewModelFromDocument("crate", crateDocument())
	if err != nil {
		t.Fatal(err)
	}
	crate, _ := model.RootNode.GetNodeByName("Crate")
	handle := NewNode("Handle")
	handle.SetLocalPosition(mgl32.Vec3{0, 0, 1})
	crate.AddChild(handle)

	model.Sync()
	doc := model.Document()

	if len(doc.Nodes) != 5 || doc.Nodes[4].Name != "Handle" {
		t.Fatalf("nodes = %d, last = %q", len(doc.Nodes), doc.Nodes[len(doc.Nodes)-1].Name)
	}
	if doc.Nodes[4].Translation != [3]float32{0, 0, 1} {
		t.Errorf("translation = %v", doc.Nodes[4].Translation)
	}
	children := doc.Nodes[0].Children
	if children[len(children)-1] != 4 {
		t.Errorf("Crate children = %v", children)
	}
}

func TestSaveAndLoadGLTF(t *testing.T) {
	model, err := NewModelFromDocument("crate", crateDocument())
	if err != nil {
		t.Fatal(err)
	}
	crate, _ := model.RootNode.GetNodeByName("Crate")
	box, _ := model.RootNode.GetNodeByName("UBX_Crate")
	crate.AddCollider(physics.NewBoxCollider(box.LocalPosition(), box.LocalScale()))
	box.Destroy()

	filename := filepath.Join(t.TempDir(), "crate.gltf")
	if err := model.SaveGLTF(filename); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadGLTF(filename)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "crate" {
		t.Errorf("Name = %q", loaded.Name)
	}
	if _, ok := loaded.RootNode.GetNodeByName("UBX_Crate"); ok {
		t.Error("placeholder survived the round trip")
	}
	extras, ok := loaded.Document().Nodes[0].Extras.(map[string]interface{})
	if !ok {
		t.Fatalf("extras = %#v", loaded.Document().Nodes[0].Extras)
	}
	colliders, ok := extras[ExtrasCollidersKey].([]interface{})
	if !ok || len(colliders) != 1 {
		t.Fatalf("colliders = %#v", extras[ExtrasCollidersKey])
	}
	if record := colliders[0].(map[string]interface{}); record["type"] != "box" {
		t.Errorf("record = %#v", record)
	}
}

func TestLoadGLTFMissingFile(t *testing.T) {
	if _, err := LoadGLTF(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
