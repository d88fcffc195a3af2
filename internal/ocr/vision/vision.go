// Package vision recognizes recipe card text with the Google Cloud Vision API.
//
// Cloud Vision API Limitations:
//   - Maximum file size: 20MB for inline image content
//   - Supported formats: JPEG, PNG, GIF, BMP, WebP, TIFF
//
// Implementation Details:
//   - Uses DOCUMENT_TEXT_DETECTION, which is tuned for dense printed text
//   - Sends the image as inline content (no Cloud Storage upload required)
//   - Rebuilds text lines from words using the detected break after each symbol
package vision

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"recipecard/internal/logger"
	"recipecard/internal/ocr"
	"recipecard/pkg/models"
)

// Name is the engine name used in configuration.
const Name = "vision"

// Engine implements ocr.Engine using Google Cloud Vision API.
type Engine struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// New creates a Vision engine with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func New(ctx context.Context) (*Engine, error) {
	const op = "NewVisionEngine"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, ocr.WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, ocr.WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, ocr.WrapOCRError(op, ocr.ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return NewWithClient(client), nil
}

// NewWithClient creates a Vision engine with an explicit client (for testing).
func NewWithClient(client *vision.ImageAnnotatorClient) *Engine {
	return &Engine{
		client: client,
		log:    logger.WithComponent("vision"),
	}
}

// Name implements ocr.Engine.
func (e *Engine) Name() string { return Name }

// Recognize implements ocr.Engine.
func (e *Engine) Recognize(ctx context.Context, img *ocr.Image) ([]models.TextFragment, error) {
	const op = "VisionRecognize"

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: img.Data},
				Features: []*visionpb.Feature{
					{
						Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
					},
				},
			},
		},
	}

	resp, err := e.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, ocr.WrapOCRError(op, ocr.ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, ocr.WrapOCRError(op, ocr.ErrOCRFailed, "no response from Vision API")
	}

	imgResp := resp.Responses[0]
	if imgResp.Error != nil {
		return nil, ocr.WrapOCRError(op, ocr.ErrOCRFailed, fmt.Sprintf("Vision API error: %s", imgResp.Error.Message))
	}

	fragments := Lines(imgResp.GetFullTextAnnotation(), img.Width, img.Height)
	e.log.Debug().
		Int("fragments", len(fragments)).
		Int("width", img.Width).
		Int("height", img.Height).
		Msg("Vision text detection completed")
	return fragments, nil
}

// Close closes the underlying Vision client.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Lines rebuilds text lines from a full text annotation. Words are joined
// until a symbol carries an end-of-line break. Page dimensions from the
// annotation take precedence over width and height.
func Lines(annotation *visionpb.TextAnnotation, width, height int) []models.TextFragment {
	var out []models.TextFragment
	for _, page := range annotation.GetPages() {
		w, h := width, height
		if page.GetWidth() > 0 && page.GetHeight() > 0 {
			w, h = int(page.GetWidth()), int(page.GetHeight())
		}
		for _, block := range page.GetBlocks() {
			for _, para := range block.GetParagraphs() {
				var line lineBuilder
				for _, word := range para.GetWords() {
					if line.add(word) {
						if f, ok := line.fragment(w, h); ok {
							out = append(out, f)
						}
						line = lineBuilder{}
					}
				}
				if f, ok := line.fragment(w, h); ok {
					out = append(out, f)
				}
			}
		}
	}
	return out
}

// lineBuilder accumulates the words of one text line.
type lineBuilder struct {
	text       strings.Builder
	points     []image.Point
	confidence float64
	words      int
}

// add appends word and reports whether the word ends the line.
func (l *lineBuilder) add(word *visionpb.Word) bool {
	for _, v := range word.GetBoundingBox().GetVertices() {
		l.points = append(l.points, image.Pt(int(v.GetX()), int(v.GetY())))
	}
	l.confidence += float64(word.GetConfidence())
	l.words++

	end := false
	for _, sym := range word.GetSymbols() {
		l.text.WriteString(sym.GetText())
		switch sym.GetProperty().GetDetectedBreak().GetType() {
		case visionpb.TextAnnotation_DetectedBreak_SPACE,
			visionpb.TextAnnotation_DetectedBreak_SURE_SPACE:
			l.text.WriteByte(' ')
		case visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE,
			visionpb.TextAnnotation_DetectedBreak_LINE_BREAK:
			end = true
		case visionpb.TextAnnotation_DetectedBreak_HYPHEN:
			l.text.WriteByte('-')
			end = true
		}
	}
	return end
}

func (l *lineBuilder) fragment(width, height int) (models.TextFragment, bool) {
	if l.words == 0 {
		return models.TextFragment{}, false
	}
	box := ocr.NormalizeBox(ocr.Bounds(l.points), width, height)
	return ocr.NewFragment(l.text.String(), box, l.confidence/float64(l.words))
}
