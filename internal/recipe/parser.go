// Package recipe assembles a structured recipe from the text fragments of a
// recipe card photo. Parser runs the layout and ingredient stages as a fixed
// sequence of states; Scanner acquires the fragments from an OCR engine.
package recipe

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"recipecard/internal/ingredient"
	"recipecard/internal/layout"
	"recipecard/internal/logger"
	"recipecard/internal/ocr"
	"recipecard/pkg/models"
)

// Parser turns fragments into a ParsedRecipe. It holds no per-run state and
// is safe for concurrent use.
type Parser struct {
	cfg      layout.Config
	columns  layout.ColumnSplitStrategy
	sections layout.SectionSegmentStrategy
	log      zerolog.Logger
}

// NewParser builds a parser using the strategies named in cfg.
func NewParser(cfg layout.Config) (*Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	columns, err := layout.NewColumnStrategy(cfg)
	if err != nil {
		return nil, err
	}
	sections, err := layout.NewSectionStrategy(cfg)
	if err != nil {
		return nil, err
	}
	return &Parser{
		cfg:      cfg,
		columns:  columns,
		sections: sections,
		log:      logger.WithComponent("recipe"),
	}, nil
}

// Analysis is the full trace of one run: every intermediate product of the
// pipeline plus the resulting recipe.
type Analysis struct {
	RunID        string
	States       []State
	Rows         []layout.Row
	RowThreshold float64
	Sections     layout.Sections
	Split        layout.ColumnSplit
	SplitX       float64
	Lines        []ingredient.Line
	Recipe       *models.ParsedRecipe
}

// State returns the last state the run reached.
func (a *Analysis) State() State {
	if len(a.States) == 0 {
		return StateIdle
	}
	return a.States[len(a.States)-1]
}

// Parse runs the pipeline and returns only the recipe.
func (p *Parser) Parse(fragments []models.TextFragment, segments []models.LineSegment) (*models.ParsedRecipe, error) {
	a, err := p.Analyze(fragments, segments)
	if err != nil {
		return nil, err
	}
	return a.Recipe, nil
}

// Analyze runs the pipeline over fragments. segments are the ruled lines
// reported by the geometry detector and may be empty. The only failure is an
// input without text, reported as ocr.ErrNoTextFound; every other anomaly
// yields a partial recipe.
func (p *Parser) Analyze(fragments []models.TextFragment, segments []models.LineSegment) (*Analysis, error) {
	a := &Analysis{RunID: uuid.NewString()}
	log := logger.WithRunID(p.log, a.RunID)
	enter := func(s State) {
		a.States = append(a.States, s)
		log.Debug().Str("state", s.String()).Msg("Pipeline state")
	}
	enter(StateIdle)

	texts := nonEmpty(fragments)
	if len(texts) == 0 {
		enter(StateFailed)
		return a, ocr.NewOCRError("Parse", ocr.ErrNoTextFound, "no fragments with text")
	}
	enter(StateFragmentsReceived)

	a.Rows, a.RowThreshold = p.cfg.GroupPage(texts)
	log.Debug().
		Int("fragments", len(texts)).
		Int("rows", len(a.Rows)).
		Float64("threshold", a.RowThreshold).
		Msg("Rows grouped")
	enter(StateRowsGrouped)

	a.Sections = p.sections.Segment(a.Rows, segments)
	enter(StateSectionsSegmented)

	ingredientRows := a.Sections.Rows(layout.Ingredients)
	a.Split = p.columns.DetectSplit(layout.RowFragments(ingredientRows), segments)
	a.SplitX = a.Split.X(p.cfg.DefaultSplitX)
	if !a.Split.Detected() {
		log.Debug().Float64("split_x", a.SplitX).Msg("No column divider found, using default split")
	} else {
		log.Debug().Str("split", a.Split.String()).Msg("Column divider detected")
		// The ingredient table is regrouped on its own, since large title
		// text inflates the page threshold.
		ingredientRows = p.cfg.GroupRegion(layout.RowFragments(ingredientRows))
		a.Sections = withRows(a.Sections, layout.Ingredients, ingredientRows)
	}

	lines := make([]ingredient.Line, 0, len(ingredientRows))
	for _, r := range ingredientRows {
		left, right := r.Columns(a.SplitX)
		lines = append(lines, ingredient.Line{Left: left, Right: right})
	}
	a.Lines = ingredient.Recombine(lines)
	enter(StateLinesRecombined)

	ingredients := ingredient.ParseLines(a.Lines)
	if ingredients == nil {
		ingredients = []models.ParsedIngredient{}
	}
	enter(StateIngredientsParsed)

	a.Recipe = &models.ParsedRecipe{
		Title:        joinRows(a.Sections.Rows(layout.Title), " "),
		Servings:     optional(joinRows(a.Sections.Rows(layout.Metadata), " ")),
		Ingredients:  ingredients,
		Instructions: optional(instructionsText(a.Sections)),
	}
	enter(StateDone)

	log.Debug().
		Str("title", a.Recipe.Title).
		Int("ingredients", len(ingredients)).
		Int("sections", len(a.Sections)).
		Msg("Recipe parsed")
	return a, nil
}

// withRows returns a copy of s with the rows of the first section of kind
// replaced.
func withRows(s layout.Sections, kind layout.SectionKind, rows []layout.Row) layout.Sections {
	out := make(layout.Sections, len(s))
	copy(out, s)
	for i := range out {
		if out[i].Kind == kind {
			out[i].Rows = rows
			break
		}
	}
	return out
}

func nonEmpty(fragments []models.TextFragment) []models.TextFragment {
	out := make([]models.TextFragment, 0, len(fragments))
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) != "" {
			out = append(out, f)
		}
	}
	return out
}

// instructionsText joins instruction rows and any variations, one row per
// line.
func instructionsText(s layout.Sections) string {
	var rows []layout.Row
	rows = append(rows, s.Rows(layout.Instructions)...)
	rows = append(rows, s.Rows(layout.Variations)...)
	return joinRows(rows, "\n")
}

func joinRows(rows []layout.Row, sep string) string {
	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		if t := r.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
