package geometry

import "context"

// run is a stretch of ink along one scan line. end is exclusive.
type run struct {
	start, end int
	ink        int
}

func (r run) length() int { return r.end - r.start }

// longestRun returns the longest run along a scan line of n pixels,
// bridging at most maxGap consecutive light pixels.
func longestRun(n, maxGap int, ink func(i int) bool) run {
	var best run
	cur := run{start: -1}
	gap := 0
	for i := 0; i < n; i++ {
		if ink(i) {
			if cur.start < 0 {
				cur = run{start: i}
			}
			cur.end = i + 1
			cur.ink++
			gap = 0
			continue
		}
		if cur.start < 0 {
			continue
		}
		if gap++; gap > maxGap {
			if cur.length() > best.length() {
				best = cur
			}
			cur = run{start: -1}
			gap = 0
		}
	}
	if cur.start >= 0 && cur.length() > best.length() {
		best = cur
	}
	return best
}

// band is a group of adjacent scan lines whose long runs overlap.
type band struct {
	first, last int // scan lines, inclusive
	start, end  int // union of the runs
	ink, span   int
}

func (b band) fill() float64 {
	if b.span == 0 {
		return 0
	}
	return float64(b.ink) / float64(b.span)
}

func (b *band) overlaps(r run) bool {
	return r.start < b.end && b.start < r.end
}

// scanBands scans lines scan lines of n pixels each and merges adjacent
// lines whose longest run is at least minRun into bands.
func scanBands(ctx context.Context, lines, n, minRun, maxGap int, ink func(line, i int) bool) ([]band, error) {
	var out []band
	var open *band
	for line := 0; line < lines; line++ {
		if line%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		r := longestRun(n, maxGap, func(i int) bool { return ink(line, i) })
		if r.length() < minRun || r.length() == 0 {
			if open != nil {
				out = append(out, *open)
				open = nil
			}
			continue
		}
		if open != nil && open.last == line-1 && open.overlaps(r) {
			open.last = line
			open.start = min(open.start, r.start)
			open.end = max(open.end, r.end)
			open.ink += r.ink
			open.span += r.length()
			continue
		}
		if open != nil {
			out = append(out, *open)
		}
		open = &band{first: line, last: line, start: r.start, end: r.end, ink: r.ink, span: r.length()}
	}
	if open != nil {
		out = append(out, *open)
	}
	return out, nil
}
