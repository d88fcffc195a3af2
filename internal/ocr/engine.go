// Package ocr defines the OCR collaborator of the recipe card pipeline: the
// Engine interface, image decoding and validation, and the conversion of
// engine coordinates into normalized text fragments.
//
// Engines live in subpackages:
//   - vision: Google Cloud Vision DOCUMENT_TEXT_DETECTION
//   - documentai: Google Document AI OCR processor
//   - tesseract: local Tesseract via gosseract, no network required
//
// Cloud engines read credentials from the environment:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Every engine reports fragments at text-line granularity with bounding boxes
// in the unit square, origin at the bottom-left corner, Y growing upward.
package ocr

import (
	"context"
	"fmt"
	"time"

	"recipecard/pkg/models"
)

// Engine recognizes text lines in a decoded image.
type Engine interface {
	// Name identifies the engine in logs and CLI output.
	Name() string

	// Recognize returns the text fragments found in img. Fragment order is
	// not significant.
	Recognize(ctx context.Context, img *Image) ([]models.TextFragment, error)

	// Close releases the engine's client resources.
	Close() error
}

// Result contains the fragments of one recognition run with metadata.
type Result struct {
	// Engine is the name of the engine that produced the fragments.
	Engine string `json:"engine"`

	// Width and Height are the pixel dimensions of the source image.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Fragments are the recognized text lines.
	Fragments []models.TextFragment `json:"fragments"`

	// ProcessedAt is the timestamp when the OCR processing completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the OCR processing took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}

// Run recognizes img with engine and records timing. An empty fragment list
// is reported as ErrNoTextFound.
func Run(ctx context.Context, engine Engine, img *Image) (*Result, error) {
	const op = "Recognize"
	startTime := time.Now()

	fragments, err := engine.Recognize(ctx, img)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewOCRError(op, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err()), engine.Name())
		}
		return nil, WrapOCRError(op, err, engine.Name())
	}
	if len(fragments) == 0 {
		return nil, NewOCRError(op, ErrNoTextFound, engine.Name())
	}

	result := &Result{
		Engine:    engine.Name(),
		Width:     img.Width,
		Height:    img.Height,
		Fragments: fragments,
	}
	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)
	return result, nil
}
