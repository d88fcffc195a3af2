package layout

import (
	"sort"
	"strings"

	"recipecard/pkg/models"
)

// Row is a set of fragments that share a horizontal band, ordered left to
// right.
type Row struct {
	// Fragments are sorted by X.
	Fragments []models.TextFragment

	// Anchor is the vertical midpoint of the first fragment assigned to the
	// row. Since fragments are visited top to bottom it is also the row's
	// highest midpoint.
	Anchor float64
}

// Text joins the row's fragments with single spaces.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Fragments))
	for _, f := range r.Fragments {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Columns splits the row's text at splitX. Fragments whose horizontal center
// lies left of splitX go to left, the rest to right.
func (r Row) Columns(splitX float64) (left, right string) {
	var l, rt []string
	for _, f := range r.Fragments {
		t := strings.TrimSpace(f.Text)
		if t == "" {
			continue
		}
		if f.BoundingBox.MidX() < splitX {
			l = append(l, t)
		} else {
			rt = append(rt, t)
		}
	}
	return strings.Join(l, " "), strings.Join(rt, " ")
}

// Spread returns the largest vertical midpoint difference between any two
// fragments of the row.
func (r Row) Spread() float64 {
	if len(r.Fragments) == 0 {
		return 0
	}
	lo, hi := r.Fragments[0].BoundingBox.MidY(), r.Fragments[0].BoundingBox.MidY()
	for _, f := range r.Fragments[1:] {
		m := f.BoundingBox.MidY()
		if m < lo {
			lo = m
		}
		if m > hi {
			hi = m
		}
	}
	return hi - lo
}

// PageThreshold returns the adaptive row distance for a whole page: a
// fraction of the mean fragment height. It falls back to the region
// threshold when the fragments carry no height.
func (c Config) PageThreshold(fragments []models.TextFragment) float64 {
	if len(fragments) == 0 {
		return c.RegionRowThreshold
	}
	var sum float64
	for _, f := range fragments {
		sum += f.BoundingBox.Height
	}
	mean := sum / float64(len(fragments))
	if mean <= 0 {
		return c.RegionRowThreshold
	}
	return mean * c.RowThresholdFactor
}

// GroupPage groups the fragments of a whole page into rows using the
// adaptive threshold. The threshold is returned alongside the rows.
func (c Config) GroupPage(fragments []models.TextFragment) ([]Row, float64) {
	threshold := c.PageThreshold(fragments)
	return GroupRows(fragments, threshold), threshold
}

// GroupRegion groups fragments of a sub-region with the fixed threshold.
func (c Config) GroupRegion(fragments []models.TextFragment) []Row {
	return GroupRows(fragments, c.RegionRowThreshold)
}

// GroupRows clusters fragments into rows, top of the image first. A fragment
// joins the first open row whose anchor lies within threshold of its vertical
// midpoint; otherwise it opens a new row. Rows whose anchor is more than
// threshold above the cursor can never match again and are closed.
func GroupRows(fragments []models.TextFragment, threshold float64) []Row {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]models.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		mi, mj := sorted[i].BoundingBox.MidY(), sorted[j].BoundingBox.MidY()
		if mi != mj {
			return mi > mj
		}
		return sorted[i].BoundingBox.X < sorted[j].BoundingBox.X
	})

	var rows []Row
	var open []int // indexes into rows, topmost first

	for _, f := range sorted {
		mid := f.BoundingBox.MidY()

		kept := open[:0]
		for _, idx := range open {
			if rows[idx].Anchor-mid <= threshold {
				kept = append(kept, idx)
			}
		}
		open = kept

		joined := false
		for _, idx := range open {
			if abs(rows[idx].Anchor-mid) <= threshold {
				rows[idx].Fragments = append(rows[idx].Fragments, f)
				joined = true
				break
			}
		}
		if !joined {
			rows = append(rows, Row{Fragments: []models.TextFragment{f}, Anchor: mid})
			open = append(open, len(rows)-1)
		}
	}

	for i := range rows {
		frags := rows[i].Fragments
		sort.SliceStable(frags, func(a, b int) bool {
			return frags[a].BoundingBox.X < frags[b].BoundingBox.X
		})
	}
	return rows
}

// RowFragments flattens rows back into a fragment list.
func RowFragments(rows []Row) []models.TextFragment {
	var out []models.TextFragment
	for _, r := range rows {
		out = append(out, r.Fragments...)
	}
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
