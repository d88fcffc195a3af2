package layout

import (
	"math/rand"
	"reflect"
	"testing"

	"recipecard/pkg/models"
)

func TestGroupRows_Empty(t *testing.T) {
	if rows := GroupRows(nil, 0.01); rows != nil {
		t.Errorf("expected nil rows, got %v", rows)
	}
}

func TestGroupRows_OrdersTopToBottomLeftToRight(t *testing.T) {
	fragments := []models.TextFragment{
		frag("flour", 0.2, 0.70, 0.2, 0.03),
		frag("Apple Pie", 0.3, 0.90, 0.4, 0.04),
		frag("2 cups", 0.05, 0.705, 0.1, 0.03),
		frag("500 g", 0.7, 0.698, 0.1, 0.03),
		frag("1 cup sugar", 0.05, 0.60, 0.3, 0.03),
	}

	cfg := DefaultConfig()
	rows, threshold := cfg.GroupPage(fragments)

	want := []string{"Apple Pie", "2 cups flour 500 g", "1 cup sugar"}
	if got := rowTexts(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %q, want %q", got, want)
	}
	if threshold <= 0 {
		t.Errorf("threshold = %v, want > 0", threshold)
	}
}

func TestGroupRows_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	fragments := make([]models.TextFragment, 60)
	for i := range fragments {
		fragments[i] = frag("w", rng.Float64()*0.9, rng.Float64()*0.9, 0.05, 0.01+rng.Float64()*0.02)
	}

	first := GroupRows(fragments, 0.012)
	shuffled := make([]models.TextFragment, len(fragments))
	copy(shuffled, fragments)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	if again := GroupRows(fragments, 0.012); !reflect.DeepEqual(first, again) {
		t.Error("grouping the same input twice gave different rows")
	}
	if reordered := GroupRows(shuffled, 0.012); len(reordered) != len(first) {
		t.Errorf("input order changed row count: %d vs %d", len(reordered), len(first))
	}
}

func TestGroupRows_Cohesion(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	fragments := make([]models.TextFragment, 200)
	for i := range fragments {
		fragments[i] = frag("w", rng.Float64(), rng.Float64(), 0.04, 0.005+rng.Float64()*0.03)
	}

	cfg := DefaultConfig()
	rows, threshold := cfg.GroupPage(fragments)

	total := 0
	for i, r := range rows {
		total += len(r.Fragments)
		if spread := r.Spread(); spread > threshold+1e-12 {
			t.Errorf("row %d spread %v exceeds threshold %v", i, spread, threshold)
		}
		for j := 1; j < len(r.Fragments); j++ {
			if r.Fragments[j-1].BoundingBox.X > r.Fragments[j].BoundingBox.X {
				t.Errorf("row %d not sorted left to right", i)
			}
		}
		if i > 0 && rows[i-1].Anchor < r.Anchor {
			t.Errorf("row %d above row %d", i, i-1)
		}
	}
	if total != len(fragments) {
		t.Errorf("rows hold %d fragments, want %d", total, len(fragments))
	}
}

func TestGroupRows_BoundaryIsInclusive(t *testing.T) {
	// Midpoints 0.75, 0.5 and 0.375 with a threshold of 0.25: the second
	// fragment sits exactly on the boundary and joins the first row.
	fragments := []models.TextFragment{
		frag("b", 0.5, 0.25, 0.1, 0.5),
		frag("a", 0.1, 0.5, 0.1, 0.5),
		frag("c", 0.3, 0.125, 0.1, 0.5),
	}
	rows := GroupRows(fragments, 0.25)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rows[0].Text(); got != "a b" {
		t.Errorf("top row = %q, want %q", got, "a b")
	}
	if got := rows[1].Text(); got != "c" {
		t.Errorf("second row = %q, want %q", got, "c")
	}
}

func TestPageThreshold(t *testing.T) {
	cfg := DefaultConfig()
	fragments := []models.TextFragment{
		frag("a", 0, 0, 0.1, 0.02),
		frag("b", 0, 0, 0.1, 0.04),
	}
	if got, want := cfg.PageThreshold(fragments), 0.0225; abs(got-want) > 1e-12 {
		t.Errorf("PageThreshold = %v, want %v", got, want)
	}
	if got := cfg.PageThreshold([]models.TextFragment{frag("a", 0, 0, 0.1, 0)}); got != cfg.RegionRowThreshold {
		t.Errorf("zero-height fallback = %v, want %v", got, cfg.RegionRowThreshold)
	}
}

func TestRow_Columns(t *testing.T) {
	row := Row{Fragments: []models.TextFragment{
		frag("1", 0.05, 0.5, 0.03, 0.02),
		frag("tsp.", 0.09, 0.5, 0.05, 0.02),
		frag("chilli powder", 0.15, 0.5, 0.25, 0.02),
		frag("5 mL", 0.75, 0.5, 0.08, 0.02),
	}}
	left, right := row.Columns(0.6)
	if left != "1 tsp. chilli powder" || right != "5 mL" {
		t.Errorf("Columns = %q | %q", left, right)
	}
}

func TestGroupRegion_FixedThreshold(t *testing.T) {
	cfg := DefaultConfig()
	fragments := []models.TextFragment{
		frag("1 cup sugar", 0.1, 0.40, 0.3, 0.02),
		frag("250 mL", 0.75, 0.405, 0.1, 0.02),
		frag("2 cups flour", 0.1, 0.37, 0.3, 0.02),
	}
	rows := cfg.GroupRegion(fragments)
	got := rowTexts(rows)
	want := []string{"1 cup sugar 250 mL", "2 cups flour"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("GroupRegion = %q, want %q", got, want)
	}

	cfg.RegionRowThreshold = 0.04
	if rows := cfg.GroupRegion(fragments); len(rows) != 1 {
		t.Errorf("GroupRegion with a 0.04 threshold = %q, want one row", rowTexts(rows))
	}
}
