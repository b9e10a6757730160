package cli

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/pkg/layout"
	"github.com/matzehuels/treeprint/pkg/pipeline"
)

// Flags only override the configuration file when they are set explicitly,
// so every apply method checks Changed before copying a value.

// =============================================================================
// Source Flags
// =============================================================================

// sourceFlags select where family records are loaded from.
type sourceFlags struct {
	sqlite          string
	sqlitePrefix    string
	mongoURI        string
	mongoDatabase   string
	mongoCollection string
	family          string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.sqlite, "sqlite", "", "read records from a SQLite database")
	fs.StringVar(&f.sqlitePrefix, "sqlite-prefix", "", "table name prefix in the SQLite database")
	fs.StringVar(&f.mongoURI, "mongo-uri", "", "read records from MongoDB (e.g. mongodb://localhost:27017)")
	fs.StringVar(&f.mongoDatabase, "mongo-db", "", "MongoDB database (default: treeprint)")
	fs.StringVar(&f.mongoCollection, "mongo-collection", "", "MongoDB collection (default: families)")
	fs.StringVar(&f.family, "family", "", "family document name (MongoDB)")
}

// apply sets the record source. A positional file argument wins over
// database sources from the configuration file.
func (f *sourceFlags) apply(cmd *cobra.Command, args []string, opts *pipeline.Options) {
	fs := cmd.Flags()
	if len(args) > 0 {
		opts.Source = args[0]
		opts.SQLite = ""
		opts.MongoURI = ""
	}
	if fs.Changed("sqlite") {
		opts.SQLite = f.sqlite
	}
	if fs.Changed("sqlite-prefix") {
		opts.SQLitePrefix = f.sqlitePrefix
	}
	if fs.Changed("mongo-uri") {
		opts.MongoURI = f.mongoURI
	}
	if fs.Changed("mongo-db") {
		opts.MongoDatabase = f.mongoDatabase
	}
	if fs.Changed("mongo-collection") {
		opts.MongoCollection = f.mongoCollection
	}
	if fs.Changed("family") {
		opts.Family = f.family
	}
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags hold the layout constants and visualization type.
type layoutFlags struct {
	vizType  string
	detailed bool
	refresh  bool
	cfg      layout.Config
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: tree (default), nodelink")
	fs.BoolVar(&f.detailed, "detailed", false, "show record ids and dates (nodelink)")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even if cached")
	fs.IntVar(&f.cfg.BoxWidth, "box-width", layout.DefaultBoxWidth, "box width")
	fs.IntVar(&f.cfg.BoxHeight, "box-height", layout.DefaultBoxHeight, "box height")
	fs.IntVar(&f.cfg.SiblingSpacing, "sibling-spacing", layout.DefaultSiblingSpacing, "horizontal gap between siblings")
	fs.IntVar(&f.cfg.GenerationSpacing, "generation-spacing", layout.DefaultGenerationSpacing, "vertical gap between generations")
	fs.IntVar(&f.cfg.SpouseSpacing, "spouse-spacing", 0, "horizontal gap between partners (default: sibling spacing)")
	fs.IntVar(&f.cfg.CornerRadius, "corner-radius", layout.DefaultCornerRadius, "box and connector corner radius")
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("type") {
		opts.VizType = f.vizType
	}
	opts.Detailed = f.detailed
	opts.Refresh = f.refresh

	ints := []struct {
		name string
		dst  *int
		v    int
	}{
		{"box-width", &opts.Layout.BoxWidth, f.cfg.BoxWidth},
		{"box-height", &opts.Layout.BoxHeight, f.cfg.BoxHeight},
		{"sibling-spacing", &opts.Layout.SiblingSpacing, f.cfg.SiblingSpacing},
		{"generation-spacing", &opts.Layout.GenerationSpacing, f.cfg.GenerationSpacing},
		{"spouse-spacing", &opts.Layout.SpouseSpacing, f.cfg.SpouseSpacing},
		{"corner-radius", &opts.Layout.CornerRadius, f.cfg.CornerRadius},
	}
	for _, i := range ints {
		if fs.Changed(i.name) {
			*i.dst = i.v
		}
	}
}

// =============================================================================
// Render Flags
// =============================================================================

// renderFlags hold output format and appearance settings.
type renderFlags struct {
	formats string
	style   string
	panZoom bool
	scale   int
	color   bool

	styleSet bool // --style given explicitly
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, txt, dot (comma-separated)")
	fs.StringVar(&f.style, "style", pipeline.DefaultStyle, "visual style: classic (default), simple")
	fs.BoolVar(&f.panZoom, "pan-zoom", false, "embed mouse pan and zoom in SVG output")
	fs.IntVar(&f.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier (1-8)")
	fs.BoolVar(&f.color, "color", false, "colour text output with ANSI escapes")
}

func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	f.styleSet = fs.Changed("style")
	if f.styleSet {
		opts.Style = f.style
	}
	if fs.Changed("pan-zoom") {
		opts.PanZoom = f.panZoom
	}
	opts.Scale = f.scale
	opts.Color = f.color

	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if opts.Style != "" {
		return pipeline.ValidateStyle(opts.Style)
	}
	return nil
}

// =============================================================================
// Output Paths
// =============================================================================

// outputBase derives an extension-less output path from the record source.
// File sources keep their directory; database sources use the family name.
func outputBase(opts pipeline.Options) string {
	var dir, name string
	switch {
	case opts.Records != nil:
	case opts.SQLite != "":
		dir, name = splitName(opts.SQLite)
	case opts.MongoURI != "":
		name = opts.Family
	default:
		dir, name = splitName(opts.Source)
	}
	base := slug.Make(name)
	if base == "" {
		base = "family"
	}
	return filepath.Join(dir, base)
}

func splitName(path string) (dir, name string) {
	base := filepath.Base(path)
	return filepath.Dir(path), strings.TrimSuffix(base, filepath.Ext(base))
}

// basePath derives the base output path for multi-format output. An explicit
// output keeps its name but loses a known format extension.
func basePath(output string, opts pipeline.Options) string {
	if output == "" {
		return outputBase(opts)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
