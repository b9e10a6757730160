package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/layout"
	"github.com/matzehuels/treeprint/pkg/tree"
)

func sampleLayout(t *testing.T) Layout {
	t.Helper()
	tr, err := tree.Build(family.Sample())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cfg := layout.DefaultConfig()
	layout.Run(tr, cfg)
	return FromTree(tr, cfg)
}

func findNode(t *testing.T, l Layout, name string) Node {
	t.Helper()
	for _, n := range l.Nodes {
		if n.Name == name {
			return n
		}
	}
	t.Fatalf("node %q not found", name)
	return Node{}
}

func TestFromTree(t *testing.T) {
	l := sampleLayout(t)

	if !l.IsTree() || l.IsNodelink() {
		t.Errorf("VizType = %q, want tree", l.VizType)
	}
	if l.Width != 450 || l.Height != 280 {
		t.Errorf("frame = %dx%d, want 450x280", l.Width, l.Height)
	}
	if len(l.Nodes) != 14 {
		t.Fatalf("nodes = %d, want 14", len(l.Nodes))
	}

	tests := []struct {
		name    string
		kind    string
		x, y    int
		current bool
	}{
		{"A", KindPerson, 192, 60, false},
		{"SA_1", KindSpouse, 167, 60, false},
		{"SA_2", KindSpouse, 242, 60, true},
		{"B", KindPerson, 105, 120, false},
		{"SB_1", KindSpouse, 155, 120, true},
		{"Ca", KindPerson, 180, 180, false},
		{"G", KindPerson, 330, 180, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := findNode(t, l, tt.name)
			if n.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", n.Kind, tt.kind)
			}
			if n.X != tt.x || n.Y != tt.y {
				t.Errorf("pos = (%d,%d), want (%d,%d)", n.X, n.Y, tt.x, tt.y)
			}
			if n.Current != tt.current {
				t.Errorf("Current = %v, want %v", n.Current, tt.current)
			}
		})
	}
}

func TestFromTreeReferences(t *testing.T) {
	l := sampleLayout(t)

	a := findNode(t, l, "A")
	if a.Parent != nil {
		t.Errorf("root has parent %d", *a.Parent)
	}
	b := findNode(t, l, "B")
	if b.Parent == nil || *b.Parent != a.Index {
		t.Errorf("B.Parent = %v, want %d", b.Parent, a.Index)
	}
	sa := findNode(t, l, "SA_1")
	if sa.Partner == nil || *sa.Partner != a.Index {
		t.Errorf("SA_1.Partner = %v, want %d", sa.Partner, a.Index)
	}
	if sa.Since != "2010-09-20" || sa.Till != "2015-05-18" {
		t.Errorf("SA_1 period = %s..%s", sa.Since, sa.Till)
	}
	if sa.Label() != "SA_1" || sa.ColorKey() != "f" {
		t.Errorf("capabilities = %q, %q", sa.Label(), sa.ColorKey())
	}
}

func TestFromTreeConnectors(t *testing.T) {
	l := sampleLayout(t)

	want := map[string]string{
		"A": "M 125 120 A 10 10 0 0 1 135 110 L 290 110 A 10 10 0 0 1 300 120 M 250 120 L 250 110 M 212 100 L 212 110",
		"B": "M 100 180 A 10 10 0 0 1 110 170 L 140 170 A 10 10 0 0 1 150 180 M 125 160 L 125 170",
		"C": "M 200 180 L 200 160",
		"D": "M 250 180 A 10 10 0 0 1 260 170 L 340 170 A 10 10 0 0 1 350 180 M 300 180 L 300 170 M 300 160 L 300 170",
	}
	if len(l.Connectors) != len(want) {
		t.Fatalf("connectors = %d, want %d", len(l.Connectors), len(want))
	}
	for _, c := range l.Connectors {
		name := l.Nodes[c.From].Name
		if c.Path != want[name] {
			t.Errorf("connector %s:\n got %s\nwant %s", name, c.Path, want[name])
		}
		if c.Geometry().String() != c.Path {
			t.Errorf("connector %s: segments disagree with path", name)
		}
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := sampleLayout(t)

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if got.Width != l.Width || len(got.Nodes) != len(l.Nodes) || len(got.Connectors) != len(l.Connectors) {
		t.Errorf("round trip lost data")
	}
	if got.Config != l.Config {
		t.Errorf("Config = %+v, want %+v", got.Config, l.Config)
	}

	r, err := ReadLayout(bytes.NewReader(data))
	if err != nil || len(r.Nodes) != len(l.Nodes) {
		t.Errorf("ReadLayout = %d nodes, %v", len(r.Nodes), err)
	}
}

func TestLayoutFile(t *testing.T) {
	l := sampleLayout(t)
	p := filepath.Join(t.TempDir(), "layout.json")

	if err := WriteLayoutFile(l, p); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(p)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if got.Height != l.Height {
		t.Errorf("Height = %d, want %d", got.Height, l.Height)
	}

	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := os.WriteFile(p, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLayoutFile(p); err == nil {
		t.Error("expected error for broken JSON")
	}
}

func TestUnmarshalLayoutValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"default viz type", `{"nodes":[{"index":0,"name":"A"}]}`, ""},
		{"tree without nodes", `{"viz_type":"tree"}`, "must contain nodes"},
		{"nodelink without dot", `{"viz_type":"nodelink"}`, "DOT"},
		{"nodelink", `{"viz_type":"nodelink","dot":"digraph{}"}`, ""},
		{"unknown viz type", `{"viz_type":"tower","nodes":[{"index":0}]}`, "unknown viz_type"},
		{"index mismatch", `{"nodes":[{"index":1}]}`, "has index"},
		{"dangling parent", `{"nodes":[{"index":0,"parent":4}]}`, "missing node 4"},
		{"dangling connector", `{"nodes":[{"index":0}],"connectors":[{"from":2}]}`, "missing node 2"},
		{"huge frame", `{"width":2000000,"nodes":[{"index":0}]}`, "frame"},
		{"negative frame", `{"height":-1,"nodes":[{"index":0}]}`, "frame"},
		{"far bounds", `{"bounds":{"min":{"x":0,"y":0},"max":{"x":20000000,"y":0}},"nodes":[{"index":0}]}`, "bounds"},
		{"far node", `{"nodes":[{"index":0,"x":-9000000}]}`, "position"},
		{"far connector", `{"nodes":[{"index":0}],"connectors":[{"from":0,"segments":[{"op":"L","to":{"x":1000000000,"y":0}}]}]}`, "segment"},
		{"huge box", `{"config":{"box_width":50000},"nodes":[{"index":0}]}`, "box_width"},
		{"nodelink ignores config", `{"viz_type":"nodelink","dot":"digraph{}","config":{"box_width":50000}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := UnmarshalLayout([]byte(tt.data))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if l.VizType == "" {
					t.Error("VizType not defaulted")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
