package ingredient

import "strings"

// Recombine joins ingredient lines that the OCR engine broke in two. A line
// that is only a measurement is merged with the following line, unless that
// line is a measurement as well. A row that only has a metric measurement in
// the right column is attached to the line above it first.
func Recombine(lines []Line) []Line {
	lines = attachOrphanMetrics(lines)

	out := make([]Line, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		cur := lines[i]
		if i+1 < len(lines) && isMeasurementLine(cur) && !isMeasurementLine(lines[i+1]) {
			next := lines[i+1]
			cur = Line{
				Left:  joinText(cur.Left, next.Left),
				Right: joinText(cur.Right, next.Right),
			}
			i++
		}
		out = append(out, cur)
	}
	return out
}

func attachOrphanMetrics(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.empty() {
			continue
		}
		orphan := strings.TrimSpace(l.Left) == "" && IsMeasurement(l.Right)
		if orphan && len(out) > 0 && strings.TrimSpace(out[len(out)-1].Right) == "" {
			out[len(out)-1].Right = strings.TrimSpace(l.Right)
			continue
		}
		out = append(out, l)
	}
	return out
}
