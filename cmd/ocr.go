package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recipecard/internal/logger"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr [image-file]",
	Short: "Recognize the text lines of a recipe card photo",
	Long: `Run the configured OCR engine on a recipe card photo and print the
recognized text lines with their normalized positions.

Positions are fractions of the image size with the origin at the bottom-left
corner. With --json the output can be fed back to "parse --fragments" and
"layout --fragments" without running OCR again.

Engines:
  tesseract  - local Tesseract installation (default, offline)
  vision     - Google Cloud Vision document text detection
  documentai - Google Document AI OCR processor

Cloud engines require:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Print recognized lines
  recipecard ocr card.jpg

  # Save fragments and ruled lines for later parsing
  recipecard ocr card.jpg --json -o card.json

  # Use Google Cloud Vision with a longer timeout
  recipecard ocr card.jpg --engine vision --timeout 60`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

func init() {
	rootCmd.AddCommand(ocrCmd)

	ocrCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	ocrCmd.Flags().Bool("json", false, "Output as JSON")
}

func runOCR(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Str("output", outputPath).
		Bool("json", jsonOutput).
		Msg("Starting OCR processing")

	scan, fileInfo, err := scanFile(cmd, imagePath, log)
	if err != nil {
		return err
	}

	if jsonOutput {
		out := FragmentFile{
			FileName:           filepath.Base(fileInfo.Name()),
			FileSize:           fileInfo.Size(),
			Engine:             scan.OCR.Engine,
			Width:              scan.OCR.Width,
			Height:             scan.OCR.Height,
			Fragments:          scan.OCR.Fragments,
			Segments:           scan.Segments,
			ProcessedAt:        scan.OCR.ProcessedAt,
			ProcessingDuration: scan.OCR.ProcessingDuration.String(),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		return writeOutput(append(data, '\n'), outputPath, log)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== OCR Results for %s ===\n", filepath.Base(fileInfo.Name()))
	fmt.Fprintf(&output, "Engine: %s\n", scan.OCR.Engine)
	fmt.Fprintf(&output, "Image: %dx%d px, %d bytes\n", scan.OCR.Width, scan.OCR.Height, fileInfo.Size())
	fmt.Fprintf(&output, "Processing time: %v\n", scan.OCR.ProcessingDuration.Round(time.Millisecond))
	fmt.Fprintf(&output, "Processed at: %s\n\n", scan.OCR.ProcessedAt.Format(time.RFC3339))

	rows := make([][]string, 0, len(scan.OCR.Fragments))
	for _, f := range scan.OCR.Fragments {
		b := f.BoundingBox
		rows = append(rows, []string{
			f.Text,
			fmt.Sprintf("%.3f", b.X),
			fmt.Sprintf("%.3f", b.Y),
			fmt.Sprintf("%.3f", b.Width),
			fmt.Sprintf("%.3f", b.Height),
			fmt.Sprintf("%.0f%%", f.Confidence*100),
		})
	}
	output.WriteString(renderTable(
		[]string{"Text", "X", "Y", "Width", "Height", "Confidence"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	output.WriteString("\n")

	if len(scan.Segments) > 0 {
		segRows := make([][]string, 0, len(scan.Segments))
		for _, s := range scan.Segments {
			b := s.BoundingBox
			segRows = append(segRows, []string{
				string(s.Orientation),
				fmt.Sprintf("%.3f", b.X),
				fmt.Sprintf("%.3f", b.Y),
				fmt.Sprintf("%.3f", b.Width),
				fmt.Sprintf("%.3f", b.Height),
				fmt.Sprintf("%.2f", s.Confidence),
			})
		}
		output.WriteString("\n")
		output.WriteString(renderTable(
			[]string{"Ruled line", "X", "Y", "Width", "Height", "Fill"},
			segRows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
		))
		output.WriteString("\n")
	}

	log.Info().
		Str("engine", scan.OCR.Engine).
		Int("fragments", len(scan.OCR.Fragments)).
		Int("segments", len(scan.Segments)).
		Msg("OCR processing completed successfully")

	return writeOutput([]byte(output.String()), outputPath, log)
}
