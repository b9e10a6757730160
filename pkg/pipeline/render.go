package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/render"
	"github.com/matzehuels/treeprint/pkg/render/nodelink"
	"github.com/matzehuels/treeprint/pkg/render/sink"
	"github.com/matzehuels/treeprint/pkg/render/styles"
)

// RenderFromLayout renders output from a graph.Layout in every requested
// format. This is the preferred entry point when you have a graph.Layout.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	opts = applyLayoutMetadata(opts, l)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	l.Style = opts.Style

	if l.IsNodelink() {
		return renderNodelink(ctx, l, opts)
	}
	return renderTree(l, opts)
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse layout")
	}
	return RenderFromLayout(ctx, parsed, opts)
}

// renderTree generates outputs for a tree layout.
func renderTree(l graph.Layout, opts Options) (map[string][]byte, error) {
	st, err := styles.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			svgOpts := []sink.SVGOption{sink.WithStyle(st)}
			if opts.PanZoom {
				svgOpts = append(svgOpts, sink.WithPanZoom())
			}
			data, err = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			if err = render.CheckPixels(l.Width, l.Height, float64(opts.Scale)); err != nil {
				break
			}
			data, err = convertSVG(l, st, func(svg []byte) ([]byte, error) {
				return render.ToPNG(svg, float64(opts.Scale))
			})
		case FormatPDF:
			data, err = convertSVG(l, st, render.ToPDF)
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatText:
			textOpts := []sink.TextOption{sink.WithTextStyle(st)}
			if opts.Color {
				textOpts = append(textOpts, sink.WithColor())
			}
			var s string
			s, err = sink.RenderText(l, textOpts...)
			data = []byte(s)
		case FormatDOT:
			err = errors.New(errors.ErrCodeUnsupported, "dot output requires viz_type %q", graph.VizTypeNodelink)
		default:
			err = errors.New(errors.ErrCodeInvalidFormat, "unsupported tree format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// convertSVG renders a static SVG and hands it to a converter.
func convertSVG(l graph.Layout, st styles.Style, convert func([]byte) ([]byte, error)) ([]byte, error) {
	svg, err := sink.RenderSVG(l, sink.WithStyle(st))
	if err != nil {
		return nil, err
	}
	return convert(svg)
}

// renderNodelink generates outputs for a nodelink layout.
// The layout must carry a DOT string.
func renderNodelink(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if l.DOT == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nodelink layout missing DOT string")
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, l.DOT)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, l.DOT, float64(opts.Scale))
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, l.DOT)
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(l.DOT)
		case FormatText:
			err = errors.New(errors.ErrCodeUnsupported, "text output requires viz_type %q", graph.VizTypeTree)
		default:
			err = errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// applyLayoutMetadata applies layout metadata to options if not already set.
// This ensures that serialized layouts preserve their original rendering settings.
func applyLayoutMetadata(opts Options, l graph.Layout) Options {
	if opts.Style == "" && l.Style != "" {
		opts.Style = l.Style
	}
	if l.VizType != "" {
		opts.VizType = l.VizType
	}
	if l.IsTree() {
		opts.Layout = l.Config
	}
	return opts
}
