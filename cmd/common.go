package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"recipecard/internal/config"
	"recipecard/internal/geometry"
	"recipecard/internal/ocr"
	"recipecard/internal/ocr/documentai"
	"recipecard/internal/ocr/tesseract"
	"recipecard/internal/ocr/vision"
	"recipecard/internal/recipe"
	"recipecard/pkg/models"
)

// FragmentFile is the JSON document written by "ocr --json" and read by
// "parse --fragments" and "layout --fragments".
type FragmentFile struct {
	FileName           string                `json:"file_name,omitempty"`
	FileSize           int64                 `json:"file_size,omitempty"`
	Engine             string                `json:"engine,omitempty"`
	Width              int                   `json:"width,omitempty"`
	Height             int                   `json:"height,omitempty"`
	Fragments          []models.TextFragment `json:"fragments"`
	Segments           []models.LineSegment  `json:"segments,omitempty"`
	ProcessedAt        time.Time             `json:"processed_at,omitempty"`
	ProcessingDuration string                `json:"processing_duration,omitempty"`
}

// validateImageFile checks if the file exists, is readable and is not larger
// than the OCR input limit
func validateImageFile(path string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", path).
				Msg("Image file not found")
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", path).
				Msg("Permission denied accessing image file")
			return nil, fmt.Errorf("permission denied accessing image file: %s", path)
		}
		return nil, fmt.Errorf("error accessing image file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", path).
			Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}

	if fileInfo.Size() == 0 {
		log.Error().
			Str("file", path).
			Msg("Image file is empty")
		return nil, fmt.Errorf("image file is empty: %s", path)
	}

	if fileInfo.Size() > ocr.MaxImageBytes {
		log.Error().
			Str("file", path).
			Int64("size", fileInfo.Size()).
			Int64("max_size", ocr.MaxImageBytes).
			Msg("Image file exceeds maximum size limit")
		return nil, fmt.Errorf("image file too large (%d bytes). Maximum size is %d bytes (20MB)",
			fileInfo.Size(), ocr.MaxImageBytes)
	}

	return fileInfo, nil
}

// createContext creates a context that is canceled on interrupt signals.
// The OCR timeout is applied by the scanner.
func createContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// newEngine creates the OCR engine named by cfg.OCREngine.
func newEngine(ctx context.Context, cfg *config.Config) (ocr.Engine, error) {
	switch cfg.OCREngine {
	case config.EngineTesseract:
		return tesseract.New(cfg.TesseractLanguages...), nil
	case config.EngineVision:
		engine, err := vision.New(ctx)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case config.EngineDocumentAI:
		engine, err := documentai.New(ctx, documentai.Config{
			ProjectID:   cfg.GoogleCloudProject,
			Location:    cfg.GoogleCloudLocation,
			ProcessorID: cfg.DocumentAIProcessorID,
		})
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, ocr.NewOCRError("NewEngine", ocr.ErrUnknownEngine, fmt.Sprintf("engine %q", cfg.OCREngine))
	}
}

// createScanner builds the OCR engine, geometry detector and parser
// described by cfg.
func createScanner(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*recipe.Scanner, error) {
	parser, err := recipe.NewParser(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("invalid layout configuration: %w", err)
	}

	engine, err := newEngine(ctx, cfg)
	if err != nil {
		if errors.Is(err, ocr.ErrMissingCredentials) {
			log.Error().
				Err(err).
				Str("engine", cfg.OCREngine).
				Msg("Google Cloud credentials validation failed")
			return nil, fmt.Errorf("Google Cloud credentials not configured. Please set one of:\n\n" +
				"1. Export GOOGLE_APPLICATION_CREDENTIALS with path to service account JSON:\n" +
				"   export GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n\n" +
				"2. Export GOOGLE_CREDENTIALS with inline JSON\n\n" +
				"3. Use the offline engine instead: --engine tesseract\n\n" +
				"Original error: %w", err)
		}
		log.Error().
			Err(err).
			Str("engine", cfg.OCREngine).
			Msg("Failed to create OCR engine")
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	log.Debug().
		Str("engine", engine.Name()).
		Dur("timeout", cfg.OCRTimeout).
		Msg("OCR engine created successfully")
	return recipe.NewScanner(engine, geometry.New(geometry.DefaultConfig()), parser, cfg.OCRTimeout), nil
}

// scanFile runs the full scanner on an image file.
func scanFile(cmd *cobra.Command, path string, log zerolog.Logger) (*recipe.Scan, os.FileInfo, error) {
	fileInfo, err := validateImageFile(path, log)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := createContext(log)
	defer cancel()

	scanner, err := createScanner(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if closeErr := scanner.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	scan, err := scanner.Scan(ctx, f)
	if err != nil {
		return nil, nil, handleOCRError(err, log)
	}
	return scan, fileInfo, nil
}

// readFragmentFile loads fragments and segments written by "ocr --json".
// A bare JSON array of fragments is accepted too.
func readFragmentFile(path string) (*FragmentFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fragment file: %w", err)
	}

	var file FragmentFile
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &file.Fragments)
	} else {
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid fragment file %s: %w", path, err)
	}
	return &file, nil
}

// handleOCRError provides user-friendly error messages for OCR failures
func handleOCRError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Recipe card processing failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("OCR processing timed out. Try increasing --timeout or using a smaller image")
	case errors.Is(err, context.Canceled), errors.Is(err, ocr.ErrContextCanceled):
		return fmt.Errorf("OCR processing was canceled")
	case errors.Is(err, ocr.ErrImageTooLarge):
		return fmt.Errorf("image is too large (maximum 20MB). Try resizing or compressing the photo")
	case errors.Is(err, ocr.ErrInvalidImage):
		return fmt.Errorf("invalid or unsupported image. Supported formats are JPEG, PNG, GIF, BMP, TIFF and WebP")
	case errors.Is(err, ocr.ErrNoTextFound):
		return fmt.Errorf("no readable text found on the card. Check focus and lighting of the photo")
	case errors.Is(err, ocr.ErrUnknownEngine):
		return fmt.Errorf("unknown OCR engine. Use one of tesseract, vision or documentai")
	case errors.Is(err, ocr.ErrMissingCredentials),
		strings.Contains(errStr, "Unauthenticated"),
		strings.Contains(errStr, "invalid_grant"),
		strings.Contains(errStr, "transport: per-RPC creds failed"):
		return fmt.Errorf("Google Cloud authentication failed. Check GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS.\n\n"+
			"Original error: %v", err)
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return fmt.Errorf("permission denied. Please ensure your Google Cloud service account may use the configured OCR API")
	case strings.Contains(errStr, "QUOTA_EXCEEDED") ||
		strings.Contains(errStr, "quota"):
		return fmt.Errorf("Google Cloud API quota exceeded. Check your project quotas in the Google Cloud Console")
	case errors.Is(err, ocr.ErrOCRFailed):
		return fmt.Errorf("OCR processing failed. This may be due to network issues, API quota limits, or service unavailability: %w", err)
	default:
		return fmt.Errorf("recipe card processing failed: %w", err)
	}
}

// writeOutput writes data to outputPath, or to stdout when it is empty
func writeOutput(data []byte, outputPath string, log zerolog.Logger) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(data)).
			Msg("Results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
