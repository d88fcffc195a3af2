// Package documentai recognizes recipe card text with a Google Document AI
// OCR processor.
package documentai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"recipecard/internal/logger"
	"recipecard/internal/ocr"
	"recipecard/pkg/models"
)

// Name is the engine name used in configuration.
const Name = "documentai"

// ErrInvalidConfiguration is returned when the processor cannot be addressed.
var ErrInvalidConfiguration = errors.New("invalid Document AI configuration")

// Config addresses a Document AI OCR processor.
type Config struct {
	ProjectID   string
	Location    string // "us" or "eu"
	ProcessorID string
}

// processorName constructs the full processor name for Document AI API.
func (c Config) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Engine implements ocr.Engine using Google Document AI.
type Engine struct {
	client *documentai.DocumentProcessorClient
	config Config
	log    zerolog.Logger
}

// New creates an engine with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
func New(ctx context.Context, config Config) (*Engine, error) {
	const op = "NewDocumentAIEngine"

	if config.ProjectID == "" {
		return nil, ocr.WrapOCRError(op, ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, ocr.WrapOCRError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	var clientOptions []option.ClientOption

	// Set regional endpoint if not us
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, ocr.WrapOCRError(op, ocr.ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, ocr.WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return NewWithClient(config, client), nil
}

// NewWithClient creates an engine with explicit config and client (for testing).
func NewWithClient(config Config, client *documentai.DocumentProcessorClient) *Engine {
	return &Engine{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// Name implements ocr.Engine.
func (e *Engine) Name() string { return Name }

// Recognize implements ocr.Engine.
func (e *Engine) Recognize(ctx context.Context, img *ocr.Image) ([]models.TextFragment, error) {
	const op = "DocumentAIRecognize"

	req := &documentaipb.ProcessRequest{
		Name: e.config.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  img.Data,
				MimeType: img.MimeType(),
			},
		},
	}

	resp, err := e.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, e.handleProcessingError(op, err)
	}
	if resp.GetDocument() == nil {
		return nil, ocr.WrapOCRError(op, ocr.ErrOCRFailed, "no document in response")
	}

	fragments := Lines(resp.GetDocument())
	e.log.Debug().
		Int("fragments", len(fragments)).
		Str("processor", e.config.ProcessorID).
		Msg("Document AI OCR completed")
	return fragments, nil
}

// handleProcessingError converts Document AI errors to OCR errors.
func (e *Engine) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"), strings.Contains(errStr, "UNAUTHENTICATED"):
		return ocr.WrapOCRError(op, ocr.ErrMissingCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "NOT_FOUND"):
		return ocr.WrapOCRError(op, ErrInvalidConfiguration, fmt.Sprintf("processor not found: %s", e.config.ProcessorID))
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return ocr.WrapOCRError(op, ocr.ErrInvalidImage, "document format not supported or corrupted")
	case strings.Contains(errStr, "context deadline exceeded"), strings.Contains(errStr, "context canceled"):
		return ocr.WrapOCRError(op, ocr.ErrContextCanceled, errStr)
	default:
		return ocr.WrapOCRError(op, ocr.ErrOCRFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// Close closes the underlying Document AI client.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Lines converts the page lines of a processed document into fragments.
// Document AI reports normalized vertices with a top-left origin.
func Lines(doc *documentaipb.Document) []models.TextFragment {
	var out []models.TextFragment
	text := []rune(doc.GetText())
	for _, page := range doc.GetPages() {
		for _, line := range page.GetLines() {
			layout := line.GetLayout()
			text := anchorText(text, layout.GetTextAnchor())
			box := normalizedBox(layout.GetBoundingPoly().GetNormalizedVertices())
			if f, ok := ocr.NewFragment(text, box, float64(layout.GetConfidence())); ok {
				out = append(out, f)
			}
		}
	}
	return out
}

// anchorText returns the document text referenced by anchor. Segment indices
// count characters, not bytes.
func anchorText(text []rune, anchor *documentaipb.Document_TextAnchor) string {
	var b strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start, end := seg.GetStartIndex(), seg.GetEndIndex()
		if start < 0 || end > int64(len(text)) || start >= end {
			continue
		}
		b.WriteString(string(text[start:end]))
	}
	return b.String()
}

func normalizedBox(vertices []*documentaipb.NormalizedVertex) models.BoundingBox {
	if len(vertices) == 0 {
		return models.BoundingBox{}
	}
	minX, minY := float64(vertices[0].GetX()), float64(vertices[0].GetY())
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		minX = min(minX, float64(v.GetX()))
		minY = min(minY, float64(v.GetY()))
		maxX = max(maxX, float64(v.GetX()))
		maxY = max(maxY, float64(v.GetY()))
	}
	return models.BoundingBox{
		X:      minX,
		Y:      1 - maxY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}
