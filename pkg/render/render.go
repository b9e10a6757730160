package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os/exec"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/treeprint/pkg/errors"
)

// MaxPixels caps the size of rasterized images.
const MaxPixels = 1 << 25

// CheckPixels rejects a w by h drawing whose raster at scale would exceed
// MaxPixels.
func CheckPixels(w, h int, scale float64) error {
	if px := float64(w) * float64(h) * scale * scale; px > MaxPixels {
		return errors.New(errors.ErrCodeInvalidInput,
			"%dx%d at scale %g needs %.0f pixels, more than %d", w, h, scale, px, MaxPixels)
	}
	return nil
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// HasRSVG reports whether rsvg-convert is installed.
func HasRSVG() bool {
	_, err := lookPath("rsvg-convert")
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if HasRSVG() {
		return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
	}
	return Rasterize(svg, scale)
}

// Rasterize renders SVG to PNG in-process. Text elements are not drawn.
func Rasterize(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse svg")
	}

	if err := CheckPixels(int(icon.ViewBox.W), int(icon.ViewBox.H), scale); err != nil {
		return nil, err
	}
	w := int(icon.ViewBox.W * scale)
	h := int(icon.ViewBox.H * scale)
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "svg has an empty viewBox")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !HasRSVG() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
