// Package tesseract recognizes recipe card text offline with Tesseract via
// gosseract. It requires Tesseract to be installed on the system. On macOS,
// install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"recipecard/internal/logger"
	"recipecard/internal/ocr"
	"recipecard/pkg/models"
)

// Name is the engine name used in configuration.
const Name = "tesseract"

// Engine implements ocr.Engine using a local Tesseract installation.
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
	log           zerolog.Logger
}

// New constructs a Tesseract engine. languages defaults to English.
func New(languages ...string) *Engine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Engine{
		languages:     languages,
		clientFactory: gosseract.NewClient,
		log:           logger.WithComponent("tesseract"),
	}
}

// Name implements ocr.Engine.
func (e *Engine) Name() string { return Name }

// Recognize implements ocr.Engine. Tesseract cannot be interrupted, so a
// canceled context returns early and the recognition finishes in the
// background.
func (e *Engine) Recognize(ctx context.Context, img *ocr.Image) ([]models.TextFragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		boxes []gosseract.BoundingBox
		err   error
	}
	done := make(chan result, 1)
	go func() {
		boxes, err := e.textLines(img.Data)
		done <- result{boxes, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, ocr.WrapOCRError("TesseractRecognize", ocr.ErrOCRFailed, r.err.Error())
		}
		fragments := Fragments(r.boxes, img.Width, img.Height)
		e.log.Debug().
			Int("lines", len(r.boxes)).
			Int("fragments", len(fragments)).
			Strs("languages", e.languages).
			Msg("Tesseract recognition completed")
		return fragments, nil
	}
}

func (e *Engine) textLines(data []byte) ([]gosseract.BoundingBox, error) {
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("text line boxes: %w", err)
	}
	return boxes, nil
}

// Close implements ocr.Engine. Clients are created per call, so there is
// nothing to release.
func (e *Engine) Close() error { return nil }

// Fragments converts Tesseract text-line boxes (pixel space, top-left
// origin, confidence in percent) into fragments.
func Fragments(boxes []gosseract.BoundingBox, width, height int) []models.TextFragment {
	out := make([]models.TextFragment, 0, len(boxes))
	for _, b := range boxes {
		box := ocr.NormalizeBox(b.Box, width, height)
		if f, ok := ocr.NewFragment(b.Word, box, b.Confidence/100); ok {
			out = append(out, f)
		}
	}
	return out
}
