// Package layout reconstructs the two-dimensional structure of a recipe card
// from unordered OCR fragments: rows of text, the split between the imperial
// and metric columns, and the title/ingredients/instructions sections.
//
// All coordinates are normalized to the unit square with the origin at the
// bottom-left corner of the image.
package layout

import (
	"fmt"
)

// Strategy names accepted by Config.ColumnStrategy and Config.SectionStrategy.
const (
	StrategyAuto        = "auto"
	StrategyGeometric   = "geometric"
	StrategyStatistical = "statistical"
	StrategyFixed       = "fixed"
	StrategyKeyword     = "keyword"
)

// Config holds every tunable threshold used by the layout heuristics.
type Config struct {
	// RowThresholdFactor scales the mean fragment height into the vertical
	// distance within which fragments share a row (default: 0.75).
	RowThresholdFactor float64 `toml:"row_threshold_factor"`

	// RegionRowThreshold is the fixed row distance used when grouping a
	// sub-region rather than a whole page (default: 0.015).
	RegionRowThreshold float64 `toml:"region_row_threshold"`

	// DividerMinX and DividerMaxX bound the horizontal position of a column
	// divider (default: 0.3 and 0.7).
	DividerMinX float64 `toml:"divider_min_x"`
	DividerMaxX float64 `toml:"divider_max_x"`

	// MinColumnGap is the smallest gap between fragment centers that the
	// statistical detector accepts as a column gutter (default: 0.05).
	MinColumnGap float64 `toml:"min_column_gap"`

	// DefaultSplitX is used when no divider is detected (default: 0.6).
	// Many cards print the metric column narrowly on the right.
	DefaultSplitX float64 `toml:"default_split_x"`

	// VerticalDividerMaxAspect and VerticalDividerMinHeight qualify a
	// vertical rule as a column divider (default: 0.1 and 0.3).
	VerticalDividerMaxAspect float64 `toml:"vertical_divider_max_aspect"`
	VerticalDividerMinHeight float64 `toml:"vertical_divider_min_height"`

	// HorizontalDividerMinAspect and HorizontalDividerMinWidth qualify a
	// horizontal rule as a section divider (default: 10 and 0.5).
	HorizontalDividerMinAspect float64 `toml:"horizontal_divider_min_aspect"`
	HorizontalDividerMinWidth  float64 `toml:"horizontal_divider_min_width"`

	// ColumnStrategy is one of auto, geometric, statistical, fixed.
	ColumnStrategy string `toml:"column_strategy"`

	// SectionStrategy is one of auto, geometric, keyword.
	SectionStrategy string `toml:"section_strategy"`

	// SpatialLayout enables the "cup plus fraction" servings rule used for
	// cards whose second line is a yield such as "Makes ½ cup".
	SpatialLayout bool `toml:"spatial_layout"`
}

// DefaultConfig returns the thresholds tuned for two-column table cards.
func DefaultConfig() Config {
	return Config{
		RowThresholdFactor:         0.75,
		RegionRowThreshold:         0.015,
		DividerMinX:                0.3,
		DividerMaxX:                0.7,
		MinColumnGap:               0.05,
		DefaultSplitX:              0.6,
		VerticalDividerMaxAspect:   0.1,
		VerticalDividerMinHeight:   0.3,
		HorizontalDividerMinAspect: 10,
		HorizontalDividerMinWidth:  0.5,
		ColumnStrategy:             StrategyAuto,
		SectionStrategy:            StrategyAuto,
	}
}

// Validate checks that thresholds are inside the unit square and that the
// strategy names are known.
func (c Config) Validate() error {
	unit := map[string]float64{
		"row_threshold_factor":         c.RowThresholdFactor,
		"region_row_threshold":         c.RegionRowThreshold,
		"divider_min_x":                c.DividerMinX,
		"divider_max_x":                c.DividerMaxX,
		"min_column_gap":               c.MinColumnGap,
		"default_split_x":              c.DefaultSplitX,
		"vertical_divider_max_aspect":  c.VerticalDividerMaxAspect,
		"vertical_divider_min_height":  c.VerticalDividerMinHeight,
		"horizontal_divider_min_width": c.HorizontalDividerMinWidth,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, v)
		}
	}
	if c.DividerMinX > c.DividerMaxX {
		return fmt.Errorf("divider_min_x (%v) exceeds divider_max_x (%v)", c.DividerMinX, c.DividerMaxX)
	}
	if c.HorizontalDividerMinAspect < 0 {
		return fmt.Errorf("horizontal_divider_min_aspect must not be negative")
	}
	switch c.ColumnStrategy {
	case StrategyAuto, StrategyGeometric, StrategyStatistical, StrategyFixed:
	default:
		return fmt.Errorf("unknown column_strategy %q", c.ColumnStrategy)
	}
	switch c.SectionStrategy {
	case StrategyAuto, StrategyGeometric, StrategyKeyword:
	default:
		return fmt.Errorf("unknown section_strategy %q", c.SectionStrategy)
	}
	return nil
}
