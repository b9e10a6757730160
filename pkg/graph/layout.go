package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/treeprint/pkg/geom"
	"github.com/matzehuels/treeprint/pkg/layout"
	"github.com/matzehuels/treeprint/pkg/path"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeTree     = "tree"
	VizTypeNodelink = "nodelink"
)

// Visual styles for rendering.
const (
	StyleClassic = "classic"
	StyleSimple  = "simple"
)

// Node kinds.
const (
	KindPerson = "person"
	KindSpouse = "spouse"
)

// MaxCoordinate bounds every coordinate and dimension a layout may carry.
const MaxCoordinate = 1 << 20

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the unified serialization format for all visualizations.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Tree ("tree"):
//	  - Nodes: positioned person and spouse boxes
//	  - Connectors: parent-to-children line geometry
//	  - Config: the layout constants the positions were computed with
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Shared fields (both types):
//   - Width, Height: frame dimensions
//   - Style: visual style ("classic", "simple")
//   - Nodes: structured node metadata (coordinates are zero for nodelink)
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Common dimensions and style
	Width  int    `json:"width" bson:"width"`
	Height int    `json:"height" bson:"height"`
	Style  string `json:"style,omitempty" bson:"style,omitempty"`

	// Structure (shared)
	Nodes []Node `json:"nodes,omitempty" bson:"nodes,omitempty"`

	// Tree-specific
	Config     layout.Config `json:"config" bson:"config"`
	Bounds     geom.Rect     `json:"bounds" bson:"bounds"`
	Connectors []Connector   `json:"connectors,omitempty" bson:"connectors,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsTree returns true if this is a tree layout.
func (l *Layout) IsTree() bool { return l.VizType == VizTypeTree }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Node returns the node at index i, or nil.
func (l *Layout) Node(i int) *Node {
	if i < 0 || i >= len(l.Nodes) {
		return nil
	}
	return &l.Nodes[i]
}

// Validate checks that the fields required for the viz type are present and
// that every cross reference resolves.
func (l *Layout) Validate() error {
	switch l.VizType {
	case VizTypeTree:
		if len(l.Nodes) == 0 {
			return fmt.Errorf("tree layout must contain nodes")
		}
	case VizTypeNodelink:
		if l.DOT == "" {
			return fmt.Errorf("nodelink layout must contain DOT string")
		}
	default:
		return fmt.Errorf("unknown viz_type %q", l.VizType)
	}

	if l.IsTree() {
		if err := l.Config.Validate(); err != nil {
			return err
		}
	}
	if !inRange(l.Width) || !inRange(l.Height) || l.Width < 0 || l.Height < 0 {
		return fmt.Errorf("frame %dx%d out of range", l.Width, l.Height)
	}
	if !pointInRange(l.Bounds.Min) || !pointInRange(l.Bounds.Max) {
		return fmt.Errorf("bounds %v out of range", l.Bounds)
	}

	for i, n := range l.Nodes {
		if n.Index != i {
			return fmt.Errorf("node %d has index %d", i, n.Index)
		}
		if !pointInRange(n.Position()) {
			return fmt.Errorf("node %d position (%d,%d) out of range", i, n.X, n.Y)
		}
		for _, ref := range []*int{n.Parent, n.Partner} {
			if ref != nil && l.Node(*ref) == nil {
				return fmt.Errorf("node %d references missing node %d", i, *ref)
			}
		}
	}
	for _, c := range l.Connectors {
		if l.Node(c.From) == nil {
			return fmt.Errorf("connector references missing node %d", c.From)
		}
		for _, seg := range c.Segments {
			if !pointInRange(seg.To) || !inRange(seg.RX) || !inRange(seg.RY) {
				return fmt.Errorf("connector from node %d has segment %v out of range", c.From, seg.To)
			}
		}
	}
	return nil
}

func inRange(v int) bool { return v >= -MaxCoordinate && v <= MaxCoordinate }

func pointInRange(p geom.Point) bool { return inRange(p.X) && inRange(p.Y) }

// =============================================================================
// Node - Positioned Box
// =============================================================================

// Node is one box of the layout.
type Node struct {
	Index int    `json:"index" bson:"index"`
	ID    int    `json:"id" bson:"id"` // Person.ID or Partnership.ID
	Kind  string `json:"kind" bson:"kind"`
	Name  string `json:"name" bson:"name"`
	Sex   string `json:"sex" bson:"sex"`
	X     int    `json:"x" bson:"x"`
	Y     int    `json:"y" bson:"y"`

	// Person only: index of the biological parent.
	Parent *int `json:"parent,omitempty" bson:"parent,omitempty"`

	// Spouse only.
	Partner *int   `json:"partner,omitempty" bson:"partner,omitempty"`
	Current bool   `json:"current,omitempty" bson:"current,omitempty"`
	Since   string `json:"since,omitempty" bson:"since,omitempty"`
	Till    string `json:"till,omitempty" bson:"till,omitempty"`
}

// IsSpouse returns true if this is a partner box.
func (n *Node) IsSpouse() bool { return n.Kind == KindSpouse }

// Position returns the top-left corner of the box.
func (n *Node) Position() geom.Point { return geom.Pt(n.X, n.Y) }

// Label returns the display name.
func (n *Node) Label() string { return n.Name }

// ColorKey returns the palette key.
func (n *Node) ColorKey() string { return n.Sex }

// =============================================================================
// Connector - Line Geometry
// =============================================================================

// Connector is the geometry of the lines from one person to its children.
type Connector struct {
	From     int            `json:"from" bson:"from"`
	Path     string         `json:"path" bson:"path"` // SVG path data
	Segments []path.Segment `json:"segments,omitempty" bson:"segments,omitempty"`
}

// Geometry returns the connector's segments as a path.Geometry.
func (c Connector) Geometry() path.Geometry {
	return path.Geometry{Segments: c.Segments}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeTree
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// ReadLayout decodes a Layout from r.
func ReadLayout(r io.Reader) (Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
