package quantity

import "testing"

func TestIsAmount(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"1", true},
		{"1/2", true},
		{"½", true},
		{"1½", true},
		{"(250", true},
		{"2,", true},
		{"1-2", true},
		{"2–3", true},
		{"1.5", true},
		{"500g", true},
		{"flour", false},
		{"and/or", false},
		{"/", false},
		{"", false},
		{"()", false},
		{"Nan", false},
		{"Inf", false},
		{"infinity", false},
	}

	for _, tt := range tests {
		if got := IsAmount(tt.token); got != tt.want {
			t.Errorf("IsAmount(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestIsUnit(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"tsp.", true},
		{"Tbsp", true},
		{"cups", true},
		{"c.", true},
		{"lbs.", true},
		{"mL", true},
		{"L", true},
		{"g)", true},
		{"kg", true},
		{"pinch", true},
		{"cloves", true},
		{"flour", false},
		{"lemons", false},
		{"sugar", false},
		{"ground", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsUnit(tt.token); got != tt.want {
			t.Errorf("IsUnit(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestIsMetricUnit(t *testing.T) {
	for _, tok := range []string{"mL", "ml", "L", "g", "kg", "(g)"} {
		if !IsMetricUnit(tok) {
			t.Errorf("IsMetricUnit(%q) = false, want true", tok)
		}
	}
	for _, tok := range []string{"cup", "tsp.", "lbs", "oz"} {
		if IsMetricUnit(tok) {
			t.Errorf("IsMetricUnit(%q) = true, want false", tok)
		}
		if !IsImperialUnit(tok) {
			t.Errorf("IsImperialUnit(%q) = false, want true", tok)
		}
	}
}

func TestExpandUnit(t *testing.T) {
	tests := map[string]string{
		"tsp":   "teaspoon",
		"tsp.":  "teaspoon",
		"tbsp.": "tablespoon",
		"T":     "tablespoon",
		"t":     "teaspoon",
		"oz":    "ounce",
		"lb":    "pound",
		"mL":    "milliliter",
		"L":     "liter",
		"g":     "gram",
		"kg":    "kilogram",
		"cups":  "cups",
		"pinch": "pinch",
	}
	for in, want := range tests {
		if got := ExpandUnit(in); got != want {
			t.Errorf("ExpandUnit(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		amount string
		value  float64
		unit   string
		ok     bool
	}{
		{"1 1/2 tbsp.", 1.5, "tablespoon", true},
		{"2 cups", 2, "cups", true},
		{"½ tsp", 0.5, "teaspoon", true},
		{"3", 3, "", true},
		{"500g", 500, "gram", true},
		{"5 mL", 5, "milliliter", true},
		{"to taste", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			value, unit, ok := SplitAmount(tt.amount)
			if ok != tt.ok || value != tt.value || unit != tt.unit {
				t.Errorf("SplitAmount(%q) = (%v, %q, %v), want (%v, %q, %v)",
					tt.amount, value, unit, ok, tt.value, tt.unit, tt.ok)
			}
		})
	}
}
