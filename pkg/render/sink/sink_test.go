package sink

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/geom"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/layout"
	"github.com/matzehuels/treeprint/pkg/path"
	"github.com/matzehuels/treeprint/pkg/render/styles"
	"github.com/matzehuels/treeprint/pkg/tree"
)

func sampleLayout(t *testing.T) graph.Layout {
	t.Helper()
	tr, err := tree.Build(family.Sample())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cfg := layout.DefaultConfig()
	layout.Run(tr, cfg)
	return graph.FromTree(tr, cfg)
}

func parseSVG(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("invalid SVG: %v\n%s", err, data)
	}
	return doc
}

// =============================================================================
// SVG
// =============================================================================

func TestRenderSVGStructure(t *testing.T) {
	data, err := RenderSVG(sampleLayout(t))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	doc := parseSVG(t, data)

	root := doc.SelectElement("svg")
	if root == nil {
		t.Fatal("missing <svg> root")
	}
	if got := root.SelectAttrValue("viewBox", ""); got != "0 0 450 280" {
		t.Errorf("viewBox = %q", got)
	}

	bg := doc.FindElement("//rect[@class='background']")
	if bg == nil || bg.SelectAttrValue("fill", "") != "#F2EEE4" {
		t.Errorf("background rect missing or wrong colour")
	}

	tests := []struct {
		query string
		want  int
	}{
		{"//g[@class='person']", 10},
		{"//g[@class='spouse']", 1},
		{"//g[@class='spouse current']", 3},
		{"//path[@class='connector']", 4},
		{"//text", 14},
		{"//script", 0},
	}
	for _, tt := range tests {
		if got := len(doc.FindElements(tt.query)); got != tt.want {
			t.Errorf("%s: %d elements, want %d", tt.query, got, tt.want)
		}
	}
}

func TestRenderSVGBoxes(t *testing.T) {
	doc := parseSVG(t, mustSVG(t, sampleLayout(t)))

	g := doc.FindElement("//g[@id='node-0']")
	if g == nil {
		t.Fatal("node-0 missing")
	}
	if got := g.SelectAttrValue("transform", ""); got != "translate(192,60)" {
		t.Errorf("A transform = %q", got)
	}
	rect := g.SelectElement("rect")
	for attr, want := range map[string]string{
		"width": "40", "height": "40", "rx": "10", "fill": "#9FD5EB", "stroke-width": "1.5",
	} {
		if got := rect.SelectAttrValue(attr, ""); got != want {
			t.Errorf("rect %s = %q, want %q", attr, got, want)
		}
	}
	text := g.SelectElement("text")
	if text.Text() != "A" || text.SelectAttrValue("x", "") != "20" || text.SelectAttrValue("y", "") != "22" {
		t.Errorf("label = %q at (%s,%s)", text.Text(), text.SelectAttrValue("x", ""), text.SelectAttrValue("y", ""))
	}
}

func TestRenderSVGConnectors(t *testing.T) {
	doc := parseSVG(t, mustSVG(t, sampleLayout(t)))

	want := map[string]bool{
		"M 125 120 A 10 10 0 0 1 135 110 L 290 110 A 10 10 0 0 1 300 120 M 250 120 L 250 110 M 212 100 L 212 110": true,
		"M 100 180 A 10 10 0 0 1 110 170 L 140 170 A 10 10 0 0 1 150 180 M 125 160 L 125 170":                       true,
		"M 200 180 L 200 160": true,
		"M 250 180 A 10 10 0 0 1 260 170 L 340 170 A 10 10 0 0 1 350 180 M 300 180 L 300 170 M 300 160 L 300 170": true,
	}
	for _, p := range doc.FindElements("//path[@class='connector']") {
		d := p.SelectAttrValue("d", "")
		if !want[d] {
			t.Errorf("unexpected connector %q", d)
		}
		if p.SelectAttrValue("stroke-opacity", "") != "0.3" || p.SelectAttrValue("fill", "") != "none" {
			t.Errorf("connector attributes wrong: %v", p.Attr)
		}
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := sampleLayout(t)

	data, err := RenderSVG(l, WithStyle(styles.Simple()), WithPanZoom())
	if err != nil {
		t.Fatal(err)
	}
	doc := parseSVG(t, data)
	if len(doc.FindElements("//script")) != 1 {
		t.Error("pan/zoom script missing")
	}
	if !strings.Contains(string(data), "Math.min(10, Math.max(1,") {
		t.Error("zoom limits not embedded")
	}
	if bg := doc.FindElement("//rect[@class='background']"); bg.SelectAttrValue("fill", "") != "#FFFFFF" {
		t.Error("WithStyle ignored")
	}
}

func TestRenderSVGEscapesLabels(t *testing.T) {
	recs := family.Records{Persons: []family.Person{{ID: 1, Name: `Tom & "Jerry"`, Sex: family.Male}}}
	tr, err := tree.Build(recs)
	if err != nil {
		t.Fatal(err)
	}
	cfg := layout.DefaultConfig()
	layout.Run(tr, cfg)

	doc := parseSVG(t, mustSVG(t, graph.FromTree(tr, cfg)))
	if got := doc.FindElement("//text").Text(); got != `Tom & "Jerry"` {
		t.Errorf("label = %q", got)
	}
}

func TestDrawRejectsNodelink(t *testing.T) {
	l := graph.Layout{VizType: graph.VizTypeNodelink, DOT: "digraph {}"}
	if _, err := RenderSVG(l); !errors.Is(err, errors.ErrCodeInvalidVizType) {
		t.Errorf("RenderSVG(nodelink) = %v, want INVALID_VIZ_TYPE", err)
	}
	if _, err := RenderText(l); !errors.Is(err, errors.ErrCodeInvalidVizType) {
		t.Errorf("RenderText(nodelink) = %v, want INVALID_VIZ_TYPE", err)
	}
}

func mustSVG(t *testing.T, l graph.Layout) []byte {
	t.Helper()
	data, err := RenderSVG(l)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	return data
}

// =============================================================================
// Text
// =============================================================================

func TestRenderTextGrid(t *testing.T) {
	out, err := RenderText(sampleLayout(t))
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	// Bounds (80,60)-(370,220) at 5x10 pixels per cell.
	if len(lines) != 16 {
		t.Fatalf("rows = %d, want 16\n%s", len(lines), out)
	}

	tests := []struct {
		row  int
		want string
	}{
		{4, strings.Repeat(" ", 26) + "│"},
		{5, strings.Repeat(" ", 9) + "╭" + strings.Repeat("─", 16) + "┴" + strings.Repeat("─", 7) + "┬" + strings.Repeat("─", 9) + "╮"},
	}
	for _, tt := range tests {
		if lines[tt.row] != tt.want {
			t.Errorf("row %d:\n got %q\nwant %q", tt.row, lines[tt.row], tt.want)
		}
	}

	junctions := []struct {
		row, col int
		want     rune
	}{
		{3, 26, '┬'}, // below A
		{6, 9, '┴'},  // above B
		{6, 34, '┴'}, // above C
		{6, 44, '┴'}, // above D
	}
	for _, j := range junctions {
		row := []rune(lines[j.row])
		if j.col >= len(row) || row[j.col] != j.want {
			t.Errorf("cell (%d,%d) = %q, want %q", j.row, j.col, safeRune(row, j.col), j.want)
		}
	}
}

func TestRenderTextLabels(t *testing.T) {
	out, err := RenderText(sampleLayout(t), WithTextStyle(styles.Simple()), WithColor())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"B", "C", "SB_1", "SD_1", "H", "G"} {
		if !strings.Contains(out, name) {
			t.Errorf("label %q missing:\n%s", name, out)
		}
	}
}

func TestRenderTextTruncatesLabels(t *testing.T) {
	recs := family.Records{Persons: []family.Person{{ID: 1, Name: "Bartholomew", Sex: family.Male}}}
	tr, err := tree.Build(recs)
	if err != nil {
		t.Fatal(err)
	}
	cfg := layout.DefaultConfig()
	layout.Run(tr, cfg)

	out, err := RenderText(graph.FromTree(tr, cfg))
	if err != nil {
		t.Fatal(err)
	}
	want := "╭──────╮\n│Bartho│\n│      │\n╰──────╯\n"
	if out != want {
		t.Errorf("RenderText =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderTextCellSize(t *testing.T) {
	out, err := RenderText(sampleLayout(t), WithCellSize(2*CellWidth, 2*CellHeight))
	if err != nil {
		t.Fatal(err)
	}
	// 160px of height at 20px per row.
	if rows := strings.Count(out, "\n"); rows != 8 {
		t.Errorf("rows = %d, want 8\n%s", rows, out)
	}
}

func TestRenderTextClipsConnectors(t *testing.T) {
	far := 1 << 40
	tests := []struct {
		name string
		segs []path.Segment
	}{
		{"right", []path.Segment{{Op: path.OpMove, To: geom.Pt(20, 45)}, {Op: path.OpLine, To: geom.Pt(far, 45)}}},
		{"left", []path.Segment{{Op: path.OpMove, To: geom.Pt(20, 45)}, {Op: path.OpLine, To: geom.Pt(-far, 45)}}},
		{"down", []path.Segment{{Op: path.OpMove, To: geom.Pt(20, 45)}, {Op: path.OpLine, To: geom.Pt(20, far)}}},
		{"outside rows", []path.Segment{{Op: path.OpMove, To: geom.Pt(-far, -far)}, {Op: path.OpLine, To: geom.Pt(far, -far)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := graph.Layout{
				VizType:    graph.VizTypeTree,
				Nodes:      []graph.Node{{Index: 0, Kind: graph.KindPerson, Name: "A"}},
				Bounds:     geom.Rect{Max: geom.Pt(40, 60)},
				Connectors: []graph.Connector{{From: 0, Segments: tt.segs}},
			}
			out, err := RenderText(l)
			if err != nil {
				t.Fatal(err)
			}
			if rows := strings.Count(out, "\n"); rows != 6 {
				t.Errorf("rows = %d, want 6\n%s", rows, out)
			}
		})
	}
}

func TestRenderTextRejectsHugeGrid(t *testing.T) {
	l := graph.Layout{
		VizType: graph.VizTypeTree,
		Nodes: []graph.Node{
			{Index: 0, Kind: graph.KindPerson, Name: "A"},
			{Index: 1, Kind: graph.KindPerson, Name: "B", X: 20000, Y: 20000},
		},
	}
	if _, err := RenderText(l); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("RenderText = %v, want INVALID_INPUT", err)
	}
	if _, err := RenderText(l, WithCellSize(100, 100)); err != nil {
		t.Errorf("RenderText with large cells = %v", err)
	}
}

func TestArcCorner(t *testing.T) {
	tests := []struct {
		a, b, want [2]int
	}{
		{[2]int{125, 120}, [2]int{135, 110}, [2]int{125, 110}},
		{[2]int{290, 110}, [2]int{300, 120}, [2]int{300, 110}},
	}
	for _, tt := range tests {
		got := arcCorner(pt(tt.a), pt(tt.b))
		if got != pt(tt.want) {
			t.Errorf("arcCorner(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func pt(p [2]int) geom.Point { return geom.Pt(p[0], p[1]) }

func safeRune(r []rune, i int) rune {
	if i < len(r) {
		return r[i]
	}
	return 0
}
