package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"recipecard/internal/config"
	"recipecard/internal/layout"
	"recipecard/internal/logger"
	"recipecard/internal/quantity"
	"recipecard/internal/recipe"
	"recipecard/pkg/models"
)

var parseCmd = &cobra.Command{
	Use:   "parse [image-file]",
	Short: "Extract title, servings, ingredients and instructions from a recipe card",
	Long: `Recognize a recipe card photo and rebuild the recipe it describes.

The card is split into rows of text, the ingredient table is split into its
imperial and metric columns, and every ingredient line is parsed into an
imperial amount, a name and an optional metric amount.

Instead of an image, fragments saved with "ocr --json" can be parsed with
--fragments, which skips OCR entirely.`,
	Example: `  # Parse a card photo
  recipecard parse card.jpg

  # Output the recipe as JSON
  recipecard parse card.jpg --json -o recipe.json

  # Parse previously recognized fragments with custom heuristics
  recipecard parse --fragments card.json --config heuristics.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().Bool("json", false, "Output as JSON")
	parseCmd.Flags().StringP("fragments", "f", "", "Parse fragments from a JSON file instead of an image")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	fragmentsPath, _ := cmd.Flags().GetString("fragments")

	analysis, err := analyze(cmd, args, fragmentsPath, log)
	if err != nil {
		return err
	}
	r := analysis.Recipe

	log.Info().
		Str("run_id", analysis.RunID).
		Str("title", r.Title).
		Int("ingredients", len(r.Ingredients)).
		Msg("Recipe parsed successfully")

	if jsonOutput {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		return writeOutput(append(data, '\n'), outputPath, log)
	}

	var w io.Writer = os.Stdout
	if outputPath != "" {
		w = io.Discard
	}
	return writeOutput([]byte(formatRecipe(r, w)), outputPath, log)
}

// analyze runs the pipeline on an image file or on a fragment file.
func analyze(cmd *cobra.Command, args []string, fragmentsPath string, log zerolog.Logger) (*recipe.Analysis, error) {
	switch {
	case fragmentsPath != "" && len(args) > 0:
		return nil, fmt.Errorf("give either an image file or --fragments, not both")
	case fragmentsPath != "":
		return analyzeFragmentFile(cmd, fragmentsPath, log)
	case len(args) == 1:
		scan, _, err := scanFile(cmd, args[0], log)
		if err != nil {
			return nil, err
		}
		return scan.Analysis, nil
	default:
		return nil, fmt.Errorf("an image file or --fragments is required")
	}
}

func analyzeFragmentFile(cmd *cobra.Command, path string, log zerolog.Logger) (*recipe.Analysis, error) {
	cfg, err := loadLayoutConfig(cmd)
	if err != nil {
		return nil, err
	}
	file, err := readFragmentFile(path)
	if err != nil {
		return nil, err
	}
	parser, err := recipe.NewParser(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("invalid layout configuration: %w", err)
	}

	log.Debug().
		Str("file", path).
		Int("fragments", len(file.Fragments)).
		Int("segments", len(file.Segments)).
		Msg("Parsing fragment file")

	a, err := parser.Analyze(file.Fragments, file.Segments)
	if err != nil {
		return nil, handleOCRError(err, log)
	}
	return a, nil
}

// loadLayoutConfig is loadConfig without the OCR engine requirements, for
// commands that never run OCR.
func loadLayoutConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err == nil {
		return cfg, nil
	}
	// Engine settings do not matter offline.
	cfg = &config.Config{Layout: layout.DefaultConfig()}
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("RECIPE_HEURISTICS_FILE")
	}
	if path != "" {
		if err := cfg.LoadHeuristics(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// formatRecipe renders a recipe for the terminal.
func formatRecipe(r *models.ParsedRecipe, w io.Writer) string {
	var b strings.Builder

	b.WriteString(heading(w, r.Title))
	b.WriteString("\n")
	if r.Servings != nil {
		b.WriteString(*r.Servings)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		qty, unit := "", ""
		if v, u, ok := quantity.SplitAmount(ing.ImperialAmount); ok {
			qty = strconv.FormatFloat(v, 'f', -1, 64)
			unit = u
		}
		metric := ""
		if ing.MetricAmount != nil {
			metric = *ing.MetricAmount
		}
		rows = append(rows, []string{ing.ImperialAmount, qty, unit, ing.Name, metric})
	}
	if len(rows) > 0 {
		b.WriteString(renderTable(
			[]string{"Amount", "Qty", "Unit", "Ingredient", "Metric"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight},
		))
		b.WriteString("\n")
	} else {
		b.WriteString("(no ingredients found)\n")
	}

	if r.Instructions != nil {
		b.WriteString("\n")
		b.WriteString(heading(w, "Instructions"))
		b.WriteString("\n")
		b.WriteString(*r.Instructions)
		b.WriteString("\n")
	}
	return b.String()
}
