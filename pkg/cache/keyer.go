package cache

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey identifies a layout computed from records with the given hash.
	LayoutKey(recordsHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	VizType           string `json:"viz_type"`
	BoxWidth          int    `json:"box_width"`
	BoxHeight         int    `json:"box_height"`
	SiblingSpacing    int    `json:"sibling_spacing"`
	GenerationSpacing int    `json:"generation_spacing"`
	SpouseSpacing     int    `json:"spouse_spacing"`
	OriginX           int    `json:"origin_x"`
	OriginDepth       int    `json:"origin_depth"`

	// Nodelink layouts embed colours and labels in their DOT source.
	Style    string `json:"style,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format       string `json:"format"`
	Style        string `json:"style"`
	CornerRadius int    `json:"corner_radius"`
	PanZoom      bool   `json:"pan_zoom"`
	Scale        int    `json:"scale"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(recordsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", recordsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
