package layout

import "recipecard/pkg/models"

// frag builds a fragment whose box starts at (x, y) with the given size.
func frag(text string, x, y, w, h float64) models.TextFragment {
	return models.TextFragment{
		Text:        text,
		BoundingBox: models.BoundingBox{X: x, Y: y, Width: w, Height: h},
		Confidence:  0.9,
	}
}

// lineRows builds one single-fragment row per text, top to bottom.
func lineRows(texts ...string) []Row {
	rows := make([]Row, len(texts))
	for i, t := range texts {
		y := 0.9 - float64(i)*0.05
		rows[i] = Row{Fragments: []models.TextFragment{frag(t, 0.1, y, 0.5, 0.02)}, Anchor: y + 0.01}
	}
	return rows
}

func rowTexts(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text()
	}
	return out
}

func hline(y, width float64) models.LineSegment {
	return models.LineSegment{
		Orientation: models.Horizontal,
		BoundingBox: models.BoundingBox{X: 0.05, Y: y, Width: width, Height: 0.004},
		Confidence:  0.9,
	}
}

func vline(x, height float64, conf float64) models.LineSegment {
	return models.LineSegment{
		Orientation: models.Vertical,
		BoundingBox: models.BoundingBox{X: x - 0.002, Y: 0.1, Width: 0.004, Height: height},
		Confidence:  conf,
	}
}
