// Package geometry finds ruled lines on a recipe card image. Long, thin dark
// runs become horizontal or vertical line segments that the layout package
// uses as section and column dividers.
package geometry

import (
	"context"
	"image"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"

	"recipecard/internal/logger"
	"recipecard/internal/ocr"
	"recipecard/pkg/models"
)

// Config holds the detector thresholds.
type Config struct {
	// MaxDimension is the longest side, in pixels, the image is reduced to
	// before scanning (default: 1000).
	MaxDimension int

	// DarkThreshold is the luminance below which a pixel counts as ink
	// (default: 128).
	DarkThreshold uint8

	// MinHorizontalRun and MinVerticalRun are the shortest runs, as a
	// fraction of the image width and height, reported as segments
	// (default: 0.25 and 0.2).
	MinHorizontalRun float64
	MinVerticalRun   float64

	// MaxGap is the number of light pixels bridged inside a run, so that
	// scanned rules with speckles stay in one piece (default: 2).
	MaxGap int
}

// DefaultConfig returns thresholds suited to phone photos of printed cards.
func DefaultConfig() Config {
	return Config{
		MaxDimension:     1000,
		DarkThreshold:    128,
		MinHorizontalRun: 0.25,
		MinVerticalRun:   0.2,
		MaxGap:           2,
	}
}

// Detector reports ruled lines in images.
type Detector struct {
	cfg Config
	log zerolog.Logger
}

// New creates a detector. Zero fields of cfg take their defaults.
func New(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = def.MaxDimension
	}
	if cfg.DarkThreshold == 0 {
		cfg.DarkThreshold = def.DarkThreshold
	}
	if cfg.MinHorizontalRun <= 0 {
		cfg.MinHorizontalRun = def.MinHorizontalRun
	}
	if cfg.MinVerticalRun <= 0 {
		cfg.MinVerticalRun = def.MinVerticalRun
	}
	if cfg.MaxGap < 0 {
		cfg.MaxGap = 0
	}
	return &Detector{cfg: cfg, log: logger.WithComponent("geometry")}
}

// Detect returns the horizontal and vertical segments found in img, in
// normalized coordinates with the origin at the bottom-left.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]models.LineSegment, error) {
	gray := d.grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, nil
	}
	ink := binarize(gray, d.cfg.DarkThreshold)

	minH := int(d.cfg.MinHorizontalRun * float64(w))
	minV := int(d.cfg.MinVerticalRun * float64(h))

	var out []models.LineSegment
	rows, err := scanBands(ctx, h, w, minH, d.cfg.MaxGap, func(line, i int) bool { return ink[line*w+i] })
	if err != nil {
		return nil, err
	}
	for _, b := range rows {
		r := image.Rect(b.start, b.first, b.end, b.last+1)
		out = append(out, segment(models.Horizontal, r, w, h, b.fill()))
	}

	cols, err := scanBands(ctx, w, h, minV, d.cfg.MaxGap, func(line, i int) bool { return ink[i*w+line] })
	if err != nil {
		return nil, err
	}
	for _, b := range cols {
		r := image.Rect(b.first, b.start, b.last+1, b.end)
		out = append(out, segment(models.Vertical, r, w, h, b.fill()))
	}

	d.log.Debug().
		Int("width", w).
		Int("height", h).
		Int("horizontal", len(rows)).
		Int("vertical", len(cols)).
		Msg("Ruled lines detected")
	return out, nil
}

// DetectImage runs Detect on a decoded OCR input.
func (d *Detector) DetectImage(ctx context.Context, img *ocr.Image) ([]models.LineSegment, error) {
	if img == nil || img.Pixels == nil {
		return nil, nil
	}
	return d.Detect(ctx, img.Pixels)
}

// grayscale converts img to 8-bit gray, reducing it so that the longest
// side is at most MaxDimension.
func (d *Detector) grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if long := max(w, h); long > d.cfg.MaxDimension {
		w = max(1, w*d.cfg.MaxDimension/long)
		h = max(1, h*d.cfg.MaxDimension/long)
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	}
	return dst
}

func binarize(g *image.Gray, threshold uint8) []bool {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	ink := make([]bool, w*h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for x, v := range row {
			ink[y*w+x] = v < threshold
		}
	}
	return ink
}

func segment(o models.Orientation, r image.Rectangle, w, h int, confidence float64) models.LineSegment {
	return models.LineSegment{
		Orientation: o,
		BoundingBox: ocr.NormalizeBox(r, w, h),
		Confidence:  confidence,
	}
}
