package ocr

import (
	"image"
	"strings"

	"golang.org/x/text/unicode/norm"

	"recipecard/pkg/models"
)

// NormalizeBox converts a pixel rectangle in image space (origin top-left,
// Y down) into a normalized box with the origin at the bottom-left. The
// result is clipped to the unit square.
func NormalizeBox(r image.Rectangle, width, height int) models.BoundingBox {
	if width <= 0 || height <= 0 {
		return models.BoundingBox{}
	}
	r = r.Canon()
	w, h := float64(width), float64(height)

	x0 := clamp01(float64(r.Min.X) / w)
	x1 := clamp01(float64(r.Max.X) / w)
	top := clamp01(float64(r.Min.Y) / h)
	bottom := clamp01(float64(r.Max.Y) / h)

	return models.BoundingBox{
		X:      x0,
		Y:      1 - bottom,
		Width:  x1 - x0,
		Height: bottom - top,
	}
}

// NewFragment builds a fragment from engine output. Text is trimmed and
// NFC-normalized so that composed fraction glyphs compare equal across
// engines. It reports false when nothing is left of the text.
func NewFragment(text string, box models.BoundingBox, confidence float64) (models.TextFragment, bool) {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return models.TextFragment{}, false
	}
	return models.TextFragment{
		Text:        text,
		BoundingBox: box,
		Confidence:  clamp01(confidence),
	}, true
}

// Bounds returns the smallest rectangle containing every point.
func Bounds(points []image.Point) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
