package layout

import (
	"fmt"
	"sort"

	"recipecard/pkg/models"
)

// ColumnSplit separates the left (imperial) column from the right (metric)
// column. DividerX is nil when no divider was detected.
type ColumnSplit struct {
	DividerX *float64
	Source   string // strategy that produced the divider, empty when none did
}

// X returns the divider position, or fallback when none was detected.
func (s ColumnSplit) X(fallback float64) float64 {
	if s.DividerX != nil {
		return *s.DividerX
	}
	return fallback
}

// Detected reports whether a divider was found.
func (s ColumnSplit) Detected() bool { return s.DividerX != nil }

func (s ColumnSplit) String() string {
	if s.DividerX == nil {
		return "none"
	}
	return fmt.Sprintf("%.3f (%s)", *s.DividerX, s.Source)
}

// ColumnSplitStrategy finds the column divider of a region.
type ColumnSplitStrategy interface {
	DetectSplit(fragments []models.TextFragment, segments []models.LineSegment) ColumnSplit
}

// NewColumnStrategy returns the strategy named by cfg.ColumnStrategy.
func NewColumnStrategy(cfg Config) (ColumnSplitStrategy, error) {
	switch cfg.ColumnStrategy {
	case StrategyAuto, "":
		return ChainColumns{GeometricColumns{Config: cfg}, StatisticalColumns{Config: cfg}}, nil
	case StrategyGeometric:
		return GeometricColumns{Config: cfg}, nil
	case StrategyStatistical:
		return StatisticalColumns{Config: cfg}, nil
	case StrategyFixed:
		return FixedColumns{}, nil
	default:
		return nil, fmt.Errorf("unknown column strategy %q", cfg.ColumnStrategy)
	}
}

// GeometricColumns uses a tall, thin vertical rule reported by the geometry
// detector.
type GeometricColumns struct {
	Config Config
}

// DetectSplit picks the most confident qualifying vertical rule. Ties go to
// the taller rule.
func (g GeometricColumns) DetectSplit(_ []models.TextFragment, segments []models.LineSegment) ColumnSplit {
	var best *models.LineSegment
	for i := range segments {
		s := &segments[i]
		if !g.qualifies(*s) {
			continue
		}
		if best == nil || s.Confidence > best.Confidence ||
			(s.Confidence == best.Confidence && s.BoundingBox.Height > best.BoundingBox.Height) {
			best = s
		}
	}
	if best == nil {
		return ColumnSplit{}
	}
	x := best.BoundingBox.MidX()
	return ColumnSplit{DividerX: &x, Source: StrategyGeometric}
}

func (g GeometricColumns) qualifies(s models.LineSegment) bool {
	if s.Orientation != models.Vertical || s.BoundingBox.Height <= 0 {
		return false
	}
	x := s.BoundingBox.MidX()
	return s.AspectRatio() < g.Config.VerticalDividerMaxAspect &&
		s.BoundingBox.Height > g.Config.VerticalDividerMinHeight &&
		x >= g.Config.DividerMinX && x <= g.Config.DividerMaxX
}

// StatisticalColumns looks for the widest gap between fragment centers.
type StatisticalColumns struct {
	Config Config
}

// DetectSplit sorts the distinct horizontal centers, scans adjacent pairs
// whose midpoint falls in the divider range and returns the midpoint of the
// largest gap wider than MinColumnGap.
func (s StatisticalColumns) DetectSplit(fragments []models.TextFragment, _ []models.LineSegment) ColumnSplit {
	centers := distinctCenters(fragments)
	if len(centers) < 2 {
		return ColumnSplit{}
	}

	bestGap := s.Config.MinColumnGap
	var divider *float64
	for i := 1; i < len(centers); i++ {
		gap := centers[i] - centers[i-1]
		mid := (centers[i] + centers[i-1]) / 2
		if mid < s.Config.DividerMinX || mid > s.Config.DividerMaxX {
			continue
		}
		if gap > bestGap {
			bestGap = gap
			m := mid
			divider = &m
		}
	}
	if divider == nil {
		return ColumnSplit{}
	}
	return ColumnSplit{DividerX: divider, Source: StrategyStatistical}
}

func distinctCenters(fragments []models.TextFragment) []float64 {
	seen := make(map[float64]bool, len(fragments))
	centers := make([]float64, 0, len(fragments))
	for _, f := range fragments {
		c := f.BoundingBox.MidX()
		if !seen[c] {
			seen[c] = true
			centers = append(centers, c)
		}
	}
	sort.Float64s(centers)
	return centers
}

// FixedColumns never reports a divider, leaving the default split in place.
type FixedColumns struct{}

func (FixedColumns) DetectSplit([]models.TextFragment, []models.LineSegment) ColumnSplit {
	return ColumnSplit{}
}

// ChainColumns consults strategies in order and returns the first divider.
type ChainColumns []ColumnSplitStrategy

func (c ChainColumns) DetectSplit(fragments []models.TextFragment, segments []models.LineSegment) ColumnSplit {
	for _, s := range c {
		if split := s.DetectSplit(fragments, segments); split.Detected() {
			return split
		}
	}
	return ColumnSplit{}
}
