package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"recipecard/internal/layout"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"RECIPE_OCR_ENGINE", "RECIPE_OCR_TIMEOUT", "RECIPE_HEURISTICS_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OCREngine != EngineTesseract {
		t.Errorf("OCREngine = %q, want %q", cfg.OCREngine, EngineTesseract)
	}
	if cfg.OCRTimeout != 30*time.Second {
		t.Errorf("OCRTimeout = %v, want 30s", cfg.OCRTimeout)
	}
	if cfg.Layout.DefaultSplitX != 0.6 {
		t.Errorf("DefaultSplitX = %v, want 0.6", cfg.Layout.DefaultSplitX)
	}
}

func TestLoad_DocumentAIRequiresProcessor(t *testing.T) {
	t.Setenv("RECIPE_OCR_ENGINE", "documentai")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj")
	t.Setenv("DOCUMENT_AI_PROCESSOR_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_UnknownEngine(t *testing.T) {
	t.Setenv("RECIPE_OCR_ENGINE", "abbyy")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadHeuristics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heuristics.toml")
	content := `
default_split_x = 0.55
min_column_gap = 0.08
column_strategy = "statistical"
spatial_layout = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	cfg.Layout = layout.DefaultConfig()
	if err := cfg.LoadHeuristics(path); err != nil {
		t.Fatalf("LoadHeuristics: %v", err)
	}
	if cfg.Layout.DefaultSplitX != 0.55 || cfg.Layout.MinColumnGap != 0.08 {
		t.Errorf("thresholds not applied: %+v", cfg.Layout)
	}
	if cfg.Layout.ColumnStrategy != "statistical" || !cfg.Layout.SpatialLayout {
		t.Errorf("strategy fields not applied: %+v", cfg.Layout)
	}
	if cfg.Layout.RowThresholdFactor != 0.75 {
		t.Errorf("untouched field changed: %v", cfg.Layout.RowThresholdFactor)
	}
}

func TestLoadHeuristics_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("default_split_x = 1.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	cfg.Layout = layout.DefaultConfig()
	if err := cfg.LoadHeuristics(path); err == nil {
		t.Fatal("expected error for out-of-range split")
	}
}
