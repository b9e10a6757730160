// Package styles defines the colour palettes renderers use to draw a layout.
//
// A palette maps a node's colour key (its sex, "f" or "m") to fill and
// stroke colours, and fixes the background, label and connector appearance.
// Two palettes ship:
//
//   - [Classic]: pink and blue boxes on a warm paper background
//   - [Simple]: white boxes with grey outlines, for printing
//
// Colours are hex strings so every renderer (SVG, terminal, Graphviz) can
// use them directly.
package styles

import (
	"bytes"
	"encoding/xml"
	"slices"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/tree"
)

// Style names.
const (
	NameClassic = "classic"
	NameSimple  = "simple"
)

// BoxColors is the appearance of one node box.
type BoxColors struct {
	Fill   string
	Stroke string
}

// Line is the appearance of connector paths.
type Line struct {
	Stroke  string
	Width   float64
	Opacity float64
}

// Style is a complete palette.
type Style struct {
	Name       string
	Background string
	Text       string
	FontFamily string
	FontSize   int
	BoxStroke  float64
	Boxes      map[string]BoxColors
	Fallback   BoxColors
	Line       Line
}

// Box returns the colours for a node.
func (s Style) Box(n tree.Colorable) BoxColors {
	if c, ok := s.Boxes[n.ColorKey()]; ok {
		return c
	}
	return s.Fallback
}

// Classic returns the default palette.
func Classic() Style {
	return Style{
		Name:       NameClassic,
		Background: "#F2EEE4",
		Text:       "#4D94B1",
		FontFamily: "sans-serif",
		FontSize:   24,
		BoxStroke:  1.5,
		Boxes: map[string]BoxColors{
			"f": {Fill: "#F5B8DB", Stroke: "#D6A1BF"},
			"m": {Fill: "#9FD5EB", Stroke: "#8EBFD3"},
		},
		Fallback: BoxColors{Fill: "#E0E0E0", Stroke: "#BDBDBD"},
		Line:     Line{Stroke: "#000000", Width: 1, Opacity: 0.3},
	}
}

// Simple returns a monochrome palette.
func Simple() Style {
	return Style{
		Name:       NameSimple,
		Background: "#FFFFFF",
		Text:       "#333333",
		FontFamily: "sans-serif",
		FontSize:   20,
		BoxStroke:  1,
		Boxes:      map[string]BoxColors{},
		Fallback:   BoxColors{Fill: "#FFFFFF", Stroke: "#333333"},
		Line:       Line{Stroke: "#333333", Width: 1, Opacity: 1},
	}
}

var registry = map[string]func() Style{
	NameClassic: Classic,
	NameSimple:  Simple,
}

// Names returns the registered style names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the named palette. An empty name selects Classic.
func Lookup(name string) (Style, error) {
	if name == "" {
		return Classic(), nil
	}
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return Style{}, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want one of %v)", name, Names())
}

// EscapeXML escapes text for use in SVG content and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
