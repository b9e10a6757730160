package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/render/styles"
	"github.com/matzehuels/treeprint/pkg/tree"
)

func sampleTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := tree.Build(family.Sample())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tr
}

func TestToDOTEdges(t *testing.T) {
	dot := ToDOT(sampleTree(t), Options{})

	// Arena: persons A..Ca are n0..n9, then SA_2 n10, SA_1 n11, SD_1 n12, SB_1 n13.
	tests := []struct {
		fragment string
		want     bool
	}{
		{"digraph G {", true},
		{"n0 -> n11 [style=dashed, dir=none];", true},
		{"n0 -> n10 [style=dashed, dir=none];", true},
		{"{ rank=same; n0; n11; }", true},
		{"n11 -> n1;", true},
		{"n11 -> n2;", true},
		{"n10 -> n3;", true},
		{"n2 -> n9;", true},
		{"n0 -> n1;", false},
		{"n3 -> n4;", false},
	}
	for _, tt := range tests {
		if got := strings.Contains(dot, tt.fragment); got != tt.want {
			t.Errorf("contains %q = %v, want %v\n%s", tt.fragment, got, tt.want, dot)
		}
	}
}

func TestToDOTStyle(t *testing.T) {
	tr := sampleTree(t)

	classic := ToDOT(tr, Options{})
	if !strings.Contains(classic, `n1 [label="B", fillcolor="#F5B8DB", color="#D6A1BF"];`) {
		t.Errorf("classic palette not applied:\n%s", classic)
	}
	simple := ToDOT(tr, Options{Style: styles.Simple()})
	if !strings.Contains(simple, `bgcolor="#FFFFFF"`) {
		t.Error("simple background missing")
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     tree.Node
		detailed bool
		want     string
	}{
		{"plain", tree.Node{Name: "A", Record: 1}, false, "A"},
		{"person", tree.Node{Name: "A", Record: 1}, true, "A\nid: 1"},
		{"ongoing", tree.Node{Kind: tree.KindSpouse, Name: "S", Record: 2, Since: "2015-10-01"}, true, "S\nid: 2\n2015-10-01 -"},
		{"ended", tree.Node{Kind: tree.KindSpouse, Name: "S", Record: 2, Since: "2010-09-20", Till: "2015-05-18"}, true, "S\nid: 2\n2010-09-20 - 2015-05-18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(&tt.node, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	l := Export(sampleTree(t), Options{})
	if !l.IsNodelink() || l.Engine != Engine || l.Style != styles.NameClassic {
		t.Errorf("Export = %s/%s/%s", l.VizType, l.Engine, l.Style)
	}
	if len(l.Nodes) != 14 || l.DOT == "" {
		t.Fatalf("nodes = %d, dot empty = %v", len(l.Nodes), l.DOT == "")
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	data, err := graph.MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	back, err := graph.UnmarshalLayout(data)
	if err != nil || back.DOT != l.DOT {
		t.Errorf("round trip lost DOT: %v", err)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleTree(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(svg); err != nil {
		t.Fatalf("invalid SVG: %v", err)
	}
	root := doc.SelectElement("svg")
	if root == nil || !strings.HasPrefix(root.SelectAttrValue("viewBox", ""), "0 0 ") {
		t.Fatal("viewBox not normalized")
	}
	if n := len(doc.FindElements("//g[@class='node']")); n != 14 {
		t.Errorf("rendered %d nodes, want 14", n)
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", got, want)
	}
}
