package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipecard/internal/layout"
	"recipecard/internal/logger"
	"recipecard/internal/recipe"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [image-file]",
	Short: "Show how the card layout was reconstructed",
	Long: `Debug view of the layout pipeline: the rows built from the recognized
text, the detected column split, the sections every row was assigned to and
the recombined ingredient lines before they are parsed.

Use it to tune the thresholds of a heuristics file (--config).`,
	Example: `  # Inspect the layout of a card photo
  recipecard layout card.jpg

  # Inspect saved fragments with a different column strategy
  recipecard layout --fragments card.json --config statistical.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLayout,
}

func init() {
	rootCmd.AddCommand(layoutCmd)

	layoutCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	layoutCmd.Flags().Bool("json", false, "Output as JSON")
	layoutCmd.Flags().StringP("fragments", "f", "", "Analyze fragments from a JSON file instead of an image")
}

type layoutRow struct {
	Anchor float64 `json:"anchor"`
	Text   string  `json:"text"`
}

type layoutSection struct {
	Kind string      `json:"kind"`
	Rows []layoutRow `json:"rows"`
}

type layoutLine struct {
	Left  string `json:"left"`
	Right string `json:"right,omitempty"`
}

// LayoutReport is the JSON form of a recipe.Analysis.
type LayoutReport struct {
	RunID        string          `json:"run_id"`
	State        string          `json:"state"`
	States       []string        `json:"states"`
	RowThreshold float64         `json:"row_threshold"`
	Split        string          `json:"split"`
	SplitX       float64         `json:"split_x"`
	Rows         []layoutRow     `json:"rows"`
	Sections     []layoutSection `json:"sections"`
	Lines        []layoutLine    `json:"lines"`
}

func newLayoutReport(a *recipe.Analysis) LayoutReport {
	report := LayoutReport{
		RunID:        a.RunID,
		State:        a.State().String(),
		RowThreshold: a.RowThreshold,
		Split:        a.Split.String(),
		SplitX:       a.SplitX,
		Rows:         reportRows(a.Rows),
		Sections:     make([]layoutSection, 0, len(a.Sections)),
		Lines:        make([]layoutLine, 0, len(a.Lines)),
	}
	for _, s := range a.States {
		report.States = append(report.States, s.String())
	}
	for _, s := range a.Sections {
		report.Sections = append(report.Sections, layoutSection{Kind: s.Kind.String(), Rows: reportRows(s.Rows)})
	}
	for _, l := range a.Lines {
		report.Lines = append(report.Lines, layoutLine{Left: l.Left, Right: l.Right})
	}
	return report
}

func reportRows(rows []layout.Row) []layoutRow {
	out := make([]layoutRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, layoutRow{Anchor: r.Anchor, Text: r.Text()})
	}
	return out
}

func runLayout(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("layout")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	fragmentsPath, _ := cmd.Flags().GetString("fragments")

	analysis, err := analyze(cmd, args, fragmentsPath, log)
	if err != nil {
		return err
	}
	report := newLayoutReport(analysis)

	log.Debug().
		Str("run_id", report.RunID).
		Int("rows", len(report.Rows)).
		Str("split", report.Split).
		Msg("Layout analyzed")

	if jsonOutput {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		return writeOutput(append(data, '\n'), outputPath, log)
	}

	var w io.Writer = os.Stdout
	if outputPath != "" {
		w = io.Discard
	}
	return writeOutput([]byte(formatLayout(report, w)), outputPath, log)
}

func formatLayout(r LayoutReport, w io.Writer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run:           %s\n", r.RunID)
	fmt.Fprintf(&b, "States:        %s\n", strings.Join(r.States, " > "))
	fmt.Fprintf(&b, "Row threshold: %.4f\n", r.RowThreshold)
	fmt.Fprintf(&b, "Column split:  %s\n\n", r.Split)

	b.WriteString(heading(w, "Sections"))
	b.WriteString("\n")
	var rows [][]string
	for _, s := range r.Sections {
		for _, row := range s.Rows {
			rows = append(rows, []string{s.Kind, strconv.FormatFloat(row.Anchor, 'f', 4, 64), row.Text})
		}
	}
	b.WriteString(renderTable(
		[]string{"Section", "Anchor", "Text"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	b.WriteString("\n\n")

	b.WriteString(heading(w, "Ingredient lines"))
	b.WriteString("\n")
	if len(r.Lines) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}
	lines := make([][]string, 0, len(r.Lines))
	for i, l := range r.Lines {
		lines = append(lines, []string{strconv.Itoa(i + 1), l.Left, l.Right})
	}
	b.WriteString(renderTable(
		[]string{"#", "Left", "Right"},
		lines,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
	b.WriteString("\n")
	return b.String()
}
