package workflow

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flowboardhq/flowboard/pkg/canvas"
	"github.com/flowboardhq/flowboard/pkg/geometry"
)

// buildCanvas creates a small three-node canvas with a group and a
// connection, the common fixture for conversion tests.
func buildCanvas(t *testing.T) *canvas.Canvas {
	t.Helper()
	c := canvas.New()
	for _, n := range []canvas.Node{
		{ID: "a", Kind: "text", Label: "Prompt", Position: geometry.Point{X: 10, Y: 20}, Width: 150, Height: 90},
		{ID: "b", Kind: "image", Position: geometry.Point{X: 300, Y: 20}},
		{ID: "c", Position: geometry.Point{X: 10, Y: 300}, Meta: map[string]any{"seed": "42"}},
	} {
		if _, err := c.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	c.AddGroup(canvas.Group{ID: "g1", Label: "Inputs", Position: geometry.Point{X: 0, Y: 0}, Size: geometry.Size{Width: 500, Height: 200}, NodeIDs: []string{"a", "b"}})
	if _, err := c.Connect("a", "b"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return c
}

func TestCanvasRoundTrip(t *testing.T) {
	src := buildCanvas(t)
	wf := FromCanvas(src, "wf-1", "demo")

	restored, err := Apply(wf)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if restored.NodeCount() != src.NodeCount() {
		t.Fatalf("node count = %d, want %d", restored.NodeCount(), src.NodeCount())
	}
	for _, want := range src.Nodes() {
		got, ok := restored.Node(want.ID)
		if !ok {
			t.Fatalf("node %s missing after round trip", want.ID)
		}
		if got.Position != want.Position || got.Width != want.Width || got.Height != want.Height {
			t.Errorf("node %s geometry changed: got %+v, want %+v", want.ID, got, want)
		}
		if got.Kind != want.Kind || got.Label != want.Label || got.GroupID != want.GroupID {
			t.Errorf("node %s attributes changed: got %+v, want %+v", want.ID, got, want)
		}
	}

	g, ok := restored.Group("g1")
	if !ok {
		t.Fatal("group missing after round trip")
	}
	if !g.Contains("a") || !g.Contains("b") {
		t.Errorf("group membership changed: %v", g.NodeIDs)
	}
	if len(restored.Connections()) != 1 {
		t.Errorf("connections = %d, want 1", len(restored.Connections()))
	}
}

func TestApplyKeepsConnectionIDs(t *testing.T) {
	wf := Workflow{
		ID:          "wf-1",
		Nodes:       []Node{{ID: "a"}, {ID: "b"}},
		Connections: []Connection{{ID: "edge-1", From: "a", To: "b"}},
	}

	cv, err := Apply(wf)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Load, snapshot, load again: the connection keeps its stored identity
	// through every rebuild, so undo/redo and save never rewrite it.
	for range 3 {
		snap := FromCanvas(cv, wf.ID, wf.Name)
		if len(snap.Connections) != 1 || snap.Connections[0].ID != "edge-1" {
			t.Fatalf("connections = %+v, want one with ID edge-1", snap.Connections)
		}
		if cv, err = Apply(snap); err != nil {
			t.Fatalf("Apply snapshot: %v", err)
		}
	}
}

func TestFromCanvasDoesNotAliasMeta(t *testing.T) {
	c := buildCanvas(t)
	wf := FromCanvas(c, "wf-1", "")

	var snap *Node
	for i := range wf.Nodes {
		if wf.Nodes[i].ID == "c" {
			snap = &wf.Nodes[i]
		}
	}
	if snap == nil {
		t.Fatal("node c missing from snapshot")
	}

	live, _ := c.Node("c")
	live.Meta["seed"] = "changed"
	if snap.Meta["seed"] != "42" {
		t.Error("snapshot metadata aliases live canvas state")
	}
}

func TestValidate(t *testing.T) {
	valid := Workflow{
		ID:          "wf-1",
		Nodes:       []Node{{ID: "a"}, {ID: "b"}},
		Groups:      []Group{{ID: "g1", NodeIDs: []string{"a"}}},
		Connections: []Connection{{ID: "e1", From: "a", To: "b"}},
	}

	tests := []struct {
		name    string
		mutate  func(wf *Workflow)
		wantErr error
	}{
		{"valid", func(wf *Workflow) {}, nil},
		{"node without id", func(wf *Workflow) { wf.Nodes[0].ID = "" }, ErrMissingID},
		{"duplicate node", func(wf *Workflow) { wf.Nodes[1].ID = "a" }, ErrDuplicateID},
		{"duplicate group", func(wf *Workflow) { wf.Groups = append(wf.Groups, Group{ID: "g1"}) }, ErrDuplicateID},
		{"ghost member", func(wf *Workflow) { wf.Groups[0].NodeIDs = []string{"ghost"} }, ErrUnknownMember},
		{"dangling from", func(wf *Workflow) { wf.Connections[0].From = "ghost" }, ErrDanglingConnection},
		{"dangling to", func(wf *Workflow) { wf.Connections[0].To = "ghost" }, ErrDanglingConnection},
		{"duplicate connection", func(wf *Workflow) {
			wf.Connections = append(wf.Connections, Connection{ID: "e1", From: "b", To: "a"})
		}, ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := valid
			wf.Nodes = append([]Node(nil), valid.Nodes...)
			wf.Groups = append([]Group(nil), valid.Groups...)
			wf.Connections = append([]Connection(nil), valid.Connections...)
			tt.mutate(&wf)

			err := wf.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyRejectsInvalidDocument(t *testing.T) {
	wf := Workflow{
		ID:          "wf-1",
		Nodes:       []Node{{ID: "a"}},
		Connections: []Connection{{ID: "e1", From: "a", To: "ghost"}},
	}
	if _, err := Apply(wf); !errors.Is(err, ErrDanglingConnection) {
		t.Errorf("Apply error = %v, want ErrDanglingConnection", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	wf := FromCanvas(buildCanvas(t), "wf-1", "demo")
	path := filepath.Join(t.TempDir(), "flow.json")

	if err := WriteFile(wf, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got.ID != wf.ID || got.Name != wf.Name {
		t.Errorf("identity changed: got (%s, %s)", got.ID, got.Name)
	}
	if len(got.Nodes) != len(wf.Nodes) || len(got.Connections) != len(wf.Connections) {
		t.Errorf("element counts changed: %d nodes, %d connections", len(got.Nodes), len(got.Connections))
	}
	if got.Nodes[0].Position != wf.Nodes[0].Position {
		t.Errorf("position changed: %+v", got.Nodes[0].Position)
	}
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	if _, err := Read(strings.NewReader("{nope")); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestReadValidates(t *testing.T) {
	doc := `{"id": "wf-1", "nodes": [{"id": "a"}, {"id": "a"}], "connections": []}`
	if _, err := Read(strings.NewReader(doc)); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Read error = %v, want ErrDuplicateID", err)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	wf := FromCanvas(buildCanvas(t), "wf-1", "demo")

	first, err := Marshal(wf)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(wf)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Error("repeated marshal produced different bytes")
	}
}
