package recipe

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"
	"time"

	"recipecard/internal/geometry"
	"recipecard/internal/ocr"
	"recipecard/pkg/models"
)

type stubEngine struct {
	fragments []models.TextFragment
	closed    bool
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Recognize(ctx context.Context, _ *ocr.Image) ([]models.TextFragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fragments, nil
}

func (s *stubEngine) Close() error {
	s.closed = true
	return nil
}

// cardPNG draws a white card with a vertical rule at x=0.5 between y=0.2
// and y=0.8.
func cardPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(99, 40, 101, 160), image.NewUniform(color.Black), image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func newScanner(t *testing.T, engine ocr.Engine) *Scanner {
	t.Helper()
	return NewScanner(engine, geometry.New(geometry.DefaultConfig()), newParser(t), time.Second)
}

func TestScanner_Scan(t *testing.T) {
	engine := &stubEngine{fragments: []models.TextFragment{
		frag("Pickled Onions", 0.1, 0.9, 0.5),
		frag("1 cup vinegar", 0.1, 0.8, 0.3),
		frag("250 mL", 0.6, 0.8, 0.15),
		frag("Heat the vinegar.", 0.1, 0.7, 0.5),
	}}
	s := newScanner(t, engine)

	scan, err := s.Scan(context.Background(), bytes.NewReader(cardPNG(t)))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(scan.Segments) != 1 || scan.Segments[0].Orientation != models.Vertical {
		t.Fatalf("Segments = %+v, want one vertical rule", scan.Segments)
	}
	if !scan.Analysis.Split.Detected() {
		t.Errorf("column split not taken from the detected rule: %v", scan.Analysis.Split)
	}

	r := scan.Analysis.Recipe
	if r.Title != "Pickled Onions" || len(r.Ingredients) != 1 {
		t.Fatalf("Recipe = %s", describe(r))
	}
	ing := r.Ingredients[0]
	if ing.ImperialAmount != "1 cup" || ing.Name != "vinegar" || ing.MetricAmount == nil || *ing.MetricAmount != "250 mL" {
		t.Errorf("ingredient = %s", describe(r))
	}
	if r.Instructions == nil || *r.Instructions != "Heat the vinegar." {
		t.Errorf("Instructions = %v", r.Instructions)
	}

	if err := s.Close(); err != nil || !engine.closed {
		t.Errorf("Close() = %v, closed = %v", err, engine.closed)
	}
}

func TestScanner_ScanImage_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		engine *stubEngine
		want   error
	}{
		{"undecodable", []byte("not an image"), &stubEngine{}, ocr.ErrInvalidImage},
		{"no text", nil, &stubEngine{}, ocr.ErrNoTextFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if input == nil {
				input = cardPNG(t)
			}
			_, err := newScanner(t, tt.engine).ScanImage(context.Background(), bytes.NewReader(input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ScanImage() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestScanner_ScanFragments(t *testing.T) {
	s := newScanner(t, &stubEngine{})
	r, err := s.ScanFragments(context.Background(), lines("Apple Pie", "salt, to taste"), nil)
	if err != nil {
		t.Fatalf("ScanFragments() error = %v", err)
	}
	if len(r.Ingredients) != 1 || r.Ingredients[0].ImperialAmount != "to taste" || r.Ingredients[0].Name != "salt" {
		t.Errorf("ScanFragments() = %s", describe(r))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.ScanFragments(ctx, lines("Apple Pie"), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("ScanFragments() with canceled context error = %v", err)
	}
}

func TestNewScanner_DefaultTimeout(t *testing.T) {
	s := NewScanner(&stubEngine{}, nil, newParser(t), 0)
	if s.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", s.timeout, DefaultTimeout)
	}
	if _, err := s.Scan(context.Background(), strings.NewReader("")); !errors.Is(err, ocr.ErrInvalidImage) {
		t.Errorf("Scan(empty) error = %v, want ErrInvalidImage", err)
	}
}
