package layout

import (
	"fmt"
	"sort"

	"recipecard/pkg/models"
)

// SectionKind names a region of the card.
type SectionKind int

const (
	Title SectionKind = iota
	Metadata
	Ingredients
	Instructions
	Variations
)

func (k SectionKind) String() string {
	switch k {
	case Title:
		return "title"
	case Metadata:
		return "metadata"
	case Ingredients:
		return "ingredients"
	case Instructions:
		return "instructions"
	case Variations:
		return "variations"
	default:
		return "unknown"
	}
}

// Section is a run of rows that belong to the same region.
type Section struct {
	Kind SectionKind
	Rows []Row
}

// Sections is the ordered segmentation of a page.
type Sections []Section

// Rows returns the rows of the first section of the given kind.
func (s Sections) Rows(kind SectionKind) []Row {
	for _, sec := range s {
		if sec.Kind == kind {
			return sec.Rows
		}
	}
	return nil
}

// SectionSegmentStrategy partitions rows into sections.
type SectionSegmentStrategy interface {
	Segment(rows []Row, segments []models.LineSegment) Sections
}

// NewSectionStrategy returns the strategy named by cfg.SectionStrategy.
func NewSectionStrategy(cfg Config) (SectionSegmentStrategy, error) {
	switch cfg.SectionStrategy {
	case StrategyAuto, "":
		return AutoSections{Config: cfg}, nil
	case StrategyGeometric:
		return GeometricSections{Config: cfg}, nil
	case StrategyKeyword:
		return KeywordSections{Config: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown section strategy %q", cfg.SectionStrategy)
	}
}

// GeometricSections splits rows at wide, thin horizontal rules: rows above
// the first rule are the title, rows between the first and second rule are
// ingredients and rows below the second rule are instructions. With a single
// rule everything below it is ingredients. It returns nil when no rule
// qualifies.
type GeometricSections struct {
	Config Config
}

func (g GeometricSections) Segment(rows []Row, segments []models.LineSegment) Sections {
	dividers := g.dividers(segments)
	if len(dividers) == 0 {
		return nil
	}

	var title, ingredients, instructions []Row
	first := dividers[0].BoundingBox.MidY()
	second := -1.0
	if len(dividers) > 1 {
		second = dividers[1].BoundingBox.MidY()
	}
	for _, r := range rows {
		switch {
		case r.Anchor > first:
			title = append(title, r)
		case len(dividers) > 1 && r.Anchor < second:
			instructions = append(instructions, r)
		default:
			ingredients = append(ingredients, r)
		}
	}
	return compact(Sections{
		{Kind: Title, Rows: title},
		{Kind: Ingredients, Rows: ingredients},
		{Kind: Instructions, Rows: instructions},
	})
}

// dividers returns the qualifying horizontal rules, top to bottom.
func (g GeometricSections) dividers(segments []models.LineSegment) []models.LineSegment {
	var out []models.LineSegment
	for _, s := range segments {
		if s.Orientation != models.Horizontal || s.BoundingBox.Height <= 0 {
			continue
		}
		if s.AspectRatio() > g.Config.HorizontalDividerMinAspect &&
			s.BoundingBox.Width > g.Config.HorizontalDividerMinWidth {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BoundingBox.MidY() > out[j].BoundingBox.MidY()
	})
	return out
}

// KeywordSections segments from line text alone.
type KeywordSections struct {
	Config Config
}

func (k KeywordSections) Segment(rows []Row, _ []models.LineSegment) Sections {
	return refine(nil, rows, nil, k.Config)
}

// AutoSections uses the geometric split when a rule qualifies and always
// applies the keyword refinement on top.
type AutoSections struct {
	Config Config
}

func (a AutoSections) Segment(rows []Row, segments []models.LineSegment) Sections {
	geo := GeometricSections(a).Segment(rows, segments)
	if geo == nil {
		return refine(nil, rows, nil, a.Config)
	}
	return refine(geo.Rows(Title), geo.Rows(Ingredients), geo.Rows(Instructions), a.Config)
}

// refine applies the keyword rules. head holds rows already known to be the
// title block, body the ingredient candidates and tail rows already known to
// be instructions.
//
// The first line is the title. The second line is metadata when it mentions
// a yield. Within the candidates a variations marker ends the ingredients,
// the first instruction starter opens the instructions, and any remaining
// line that reads as an instruction is moved there too.
func refine(head, body, tail []Row, cfg Config) Sections {
	lines := make([]Row, 0, len(head)+len(body))
	lines = append(lines, head...)
	lines = append(lines, body...)
	if len(lines) == 0 {
		return compact(Sections{{Kind: Instructions, Rows: tail}})
	}

	title := []Row{lines[0]}
	var metadata []Row
	next := 1
	if len(lines) > 1 && IsMetadataLine(lines[1].Text(), cfg.SpatialLayout) {
		metadata = append(metadata, lines[1])
		next = 2
	}
	for next < len(head) {
		title = append(title, lines[next])
		next++
	}
	candidates := lines[next:]

	var variations []Row
	for i, r := range candidates {
		if IsVariationsLine(r.Text()) {
			variations = candidates[i:]
			candidates = candidates[:i]
			break
		}
	}

	var started []Row
	for i, r := range candidates {
		if IsInstructionStart(r.Text()) {
			started = candidates[i:]
			candidates = candidates[:i]
			break
		}
	}

	var ingredients, instructions []Row
	for _, r := range candidates {
		if IsInstructionLine(r.Text()) {
			instructions = append(instructions, r)
		} else {
			ingredients = append(ingredients, r)
		}
	}
	instructions = append(instructions, started...)
	instructions = append(instructions, tail...)

	return compact(Sections{
		{Kind: Title, Rows: title},
		{Kind: Metadata, Rows: metadata},
		{Kind: Ingredients, Rows: ingredients},
		{Kind: Instructions, Rows: instructions},
		{Kind: Variations, Rows: variations},
	})
}

func compact(s Sections) Sections {
	out := s[:0]
	for _, sec := range s {
		if len(sec.Rows) > 0 {
			out = append(out, sec)
		}
	}
	return out
}
