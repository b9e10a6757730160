package layout

import (
	apperrors "github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/geom"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultBoxWidth          = 40
	DefaultBoxHeight         = 40
	DefaultCornerRadius      = 10
	DefaultSiblingSpacing    = 10
	DefaultGenerationSpacing = 20
	DefaultOriginX           = 80
	DefaultOriginDepth       = 1
)

// Upper bounds for the constants. They keep the drawing of a bounded number
// of records within what the renderers can allocate.
const (
	MaxConstant    = 1000
	MaxOriginX     = 10000
	MaxOriginDepth = 100
)

// Config holds the layout constants. Zero fields take their default;
// SpouseSpacing defaults to SiblingSpacing.
type Config struct {
	BoxWidth          int `json:"box_width,omitempty" toml:"box_width" yaml:"box_width,omitempty"`
	BoxHeight         int `json:"box_height,omitempty" toml:"box_height" yaml:"box_height,omitempty"`
	CornerRadius      int `json:"corner_radius,omitempty" toml:"corner_radius" yaml:"corner_radius,omitempty"` // rendering only
	SiblingSpacing    int `json:"sibling_spacing,omitempty" toml:"sibling_spacing" yaml:"sibling_spacing,omitempty"`
	GenerationSpacing int `json:"generation_spacing,omitempty" toml:"generation_spacing" yaml:"generation_spacing,omitempty"`
	SpouseSpacing     int `json:"spouse_spacing,omitempty" toml:"spouse_spacing" yaml:"spouse_spacing,omitempty"`

	// OriginX is the cursor the leftmost leaf starts at; OriginDepth the
	// generation number of the root. Zero selects the default for both, so a
	// drawing cannot start at x = 0; use a negative OriginX to shift left.
	OriginX     int `json:"origin_x,omitempty" toml:"origin_x" yaml:"origin_x,omitempty"`
	OriginDepth int `json:"origin_depth,omitempty" toml:"origin_depth" yaml:"origin_depth,omitempty"`
}

// DefaultConfig returns the stock constants.
func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns c with zero fields replaced by their defaults.
func (c Config) WithDefaults() Config {
	if c.BoxWidth == 0 {
		c.BoxWidth = DefaultBoxWidth
	}
	if c.BoxHeight == 0 {
		c.BoxHeight = DefaultBoxHeight
	}
	if c.CornerRadius == 0 {
		c.CornerRadius = DefaultCornerRadius
	}
	if c.SiblingSpacing == 0 {
		c.SiblingSpacing = DefaultSiblingSpacing
	}
	if c.GenerationSpacing == 0 {
		c.GenerationSpacing = DefaultGenerationSpacing
	}
	if c.SpouseSpacing == 0 {
		c.SpouseSpacing = c.SiblingSpacing
	}
	if c.OriginX == 0 {
		c.OriginX = DefaultOriginX
	}
	if c.OriginDepth == 0 {
		c.OriginDepth = DefaultOriginDepth
	}
	return c
}

// Validate rejects negative constants and constants above their bound.
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    int
		max  int
	}{
		{"box_width", c.BoxWidth, MaxConstant},
		{"box_height", c.BoxHeight, MaxConstant},
		{"corner_radius", c.CornerRadius, MaxConstant},
		{"sibling_spacing", c.SiblingSpacing, MaxConstant},
		{"generation_spacing", c.GenerationSpacing, MaxConstant},
		{"spouse_spacing", c.SpouseSpacing, MaxConstant},
		{"origin_depth", c.OriginDepth, MaxOriginDepth},
	}
	for _, f := range fields {
		if f.v < 0 {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s must not be negative (got %d)", f.name, f.v)
		}
		if f.v > f.max {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s must not exceed %d (got %d)", f.name, f.max, f.v)
		}
	}
	if c.OriginX < -MaxOriginX || c.OriginX > MaxOriginX {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "origin_x must be within ±%d (got %d)", MaxOriginX, c.OriginX)
	}
	return nil
}

// Size returns the node box size.
func (c Config) Size() geom.Size {
	return geom.Size{W: c.BoxWidth, H: c.BoxHeight}
}

// RowHeight is the vertical distance between two generations.
func (c Config) RowHeight() int {
	return c.BoxHeight + c.GenerationSpacing
}
