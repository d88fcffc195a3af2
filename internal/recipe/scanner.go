package recipe

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"recipecard/internal/geometry"
	"recipecard/internal/logger"
	"recipecard/internal/ocr"
	"recipecard/pkg/models"
	"recipecard/pkg/services"
)

// DefaultTimeout bounds image acquisition when no timeout is configured.
const DefaultTimeout = 30 * time.Second

var _ services.RecipeScanner = (*Scanner)(nil)

// Scanner implements services.RecipeScanner on top of an OCR engine, the
// geometry detector and a Parser.
type Scanner struct {
	engine   ocr.Engine
	detector *geometry.Detector
	parser   *Parser
	timeout  time.Duration
	log      zerolog.Logger
}

// NewScanner wires the collaborators together. detector may be nil, in which
// case layout falls back to statistical and keyword heuristics.
func NewScanner(engine ocr.Engine, detector *geometry.Detector, parser *Parser, timeout time.Duration) *Scanner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Scanner{
		engine:   engine,
		detector: detector,
		parser:   parser,
		timeout:  timeout,
		log:      logger.WithComponent("scanner"),
	}
}

// Scan is the result of scanning one image.
type Scan struct {
	OCR      *ocr.Result
	Segments []models.LineSegment
	Analysis *Analysis
}

// ScanImage implements services.RecipeScanner.
func (s *Scanner) ScanImage(ctx context.Context, image io.Reader) (*models.ParsedRecipe, error) {
	scan, err := s.Scan(ctx, image)
	if err != nil {
		return nil, err
	}
	return scan.Analysis.Recipe, nil
}

// ScanFragments implements services.RecipeScanner.
func (s *Scanner) ScanFragments(ctx context.Context, fragments []models.TextFragment, segments []models.LineSegment) (*models.ParsedRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.Parse(fragments, segments)
}

// Scan decodes the image, detects ruled lines, recognizes text within the
// scanner's timeout and runs the parser.
func (s *Scanner) Scan(ctx context.Context, image io.Reader) (*Scan, error) {
	img, err := ocr.ReadImage(image)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	scan := &Scan{}
	if s.detector != nil {
		scan.Segments, err = s.detector.DetectImage(ctx, img)
		if err != nil {
			s.log.Warn().Err(err).Msg("Ruled line detection failed, continuing without dividers")
			scan.Segments = nil
		}
	}

	start := time.Now()
	scan.OCR, err = ocr.Run(ctx, s.engine, img)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("engine", scan.OCR.Engine).
		Int("fragments", len(scan.OCR.Fragments)).
		Int("segments", len(scan.Segments)).
		Dur("duration", time.Since(start)).
		Msg("Image recognized")

	scan.Analysis, err = s.parser.Analyze(scan.OCR.Fragments, scan.Segments)
	if err != nil {
		return nil, err
	}
	return scan, nil
}

// Close releases the OCR engine.
func (s *Scanner) Close() error {
	return s.engine.Close()
}
