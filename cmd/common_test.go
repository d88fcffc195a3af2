package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"recipecard/internal/config"
	"recipecard/internal/layout"
	"recipecard/internal/ocr"
	"recipecard/internal/recipe"
	"recipecard/pkg/models"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestReadFragmentFile(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		fragments int
		segments  int
		engine    string
		wantErr   bool
	}{
		{
			name: "ocr output",
			content: `{"engine":"tesseract","fragments":[
				{"text":"Apple Pie","bounding_box":{"x":0.1,"y":0.9,"width":0.5,"height":0.03},"confidence":0.9}],
				"segments":[{"orientation":"vertical","bounding_box":{"x":0.6,"y":0.1,"width":0.004,"height":0.5},"confidence":1}]}`,
			fragments: 1,
			segments:  1,
			engine:    "tesseract",
		},
		{
			name: "bare array",
			content: `[{"text":"2 cups flour","bounding_box":{"x":0.1,"y":0.8,"width":0.4,"height":0.03}},
				{"text":"1 cup sugar","bounding_box":{"x":0.1,"y":0.75,"width":0.4,"height":0.03}}]`,
			fragments: 2,
		},
		{name: "malformed", content: `{"fragments":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := readFragmentFile(writeTemp(t, "fragments.json", tt.content))
			if (err != nil) != tt.wantErr {
				t.Fatalf("readFragmentFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(file.Fragments) != tt.fragments || len(file.Segments) != tt.segments {
				t.Errorf("got %d fragments and %d segments, want %d and %d",
					len(file.Fragments), len(file.Segments), tt.fragments, tt.segments)
			}
			if file.Engine != tt.engine {
				t.Errorf("Engine = %q, want %q", file.Engine, tt.engine)
			}
		})
	}
}

func TestReadFragmentFile_Missing(t *testing.T) {
	if _, err := readFragmentFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestHandleOCRError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", ocr.NewOCRError("Recognize", context.DeadlineExceeded, "tesseract"), "timed out"},
		{"canceled", ocr.ErrContextCanceled, "canceled"},
		{"too large", ocr.ErrImageTooLarge, "too large"},
		{"invalid image", ocr.WrapOCRError("ReadImage", ocr.ErrInvalidImage, "image: unknown format"), "unsupported image"},
		{"no text", ocr.ErrNoTextFound, "no readable text"},
		{"credentials", ocr.ErrMissingCredentials, "authentication failed"},
		{"quota", errors.New("rpc error: QUOTA_EXCEEDED"), "quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleOCRError(tt.err, zerolog.Nop())
			if !strings.Contains(got.Error(), tt.want) {
				t.Errorf("handleOCRError() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestNewEngine(t *testing.T) {
	engine, err := newEngine(context.Background(), &config.Config{OCREngine: config.EngineTesseract, TesseractLanguages: []string{"eng"}})
	if err != nil {
		t.Fatalf("newEngine(tesseract) error = %v", err)
	}
	if engine.Name() != config.EngineTesseract {
		t.Errorf("Name() = %q, want %q", engine.Name(), config.EngineTesseract)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if _, err := newEngine(context.Background(), &config.Config{OCREngine: "paper"}); !errors.Is(err, ocr.ErrUnknownEngine) {
		t.Errorf("newEngine(paper) error = %v, want ErrUnknownEngine", err)
	}
}

func TestValidateImageFile(t *testing.T) {
	dir := t.TempDir()
	empty := writeTemp(t, "empty.png", "")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(dir, "missing.png"), "not found"},
		{"directory", dir, "not a regular file"},
		{"empty", empty, "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateImageFile(tt.path, zerolog.Nop())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("validateImageFile() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestFormatRecipe(t *testing.T) {
	metric := "250 mL"
	servings := "Serves 4"
	steps := "Mix and bake."
	r := &models.ParsedRecipe{
		Title:    "Apple Pie",
		Servings: &servings,
		Ingredients: []models.ParsedIngredient{
			{ImperialAmount: "1 cup", Name: "sugar", MetricAmount: &metric},
			{ImperialAmount: "to taste", Name: "salt"},
		},
		Instructions: &steps,
	}

	out := formatRecipe(r, io.Discard)
	for _, want := range []string{"Apple Pie", "Serves 4", "sugar", "250 mL", "cup", "to taste", "Instructions", "Mix and bake."} {
		if !strings.Contains(out, want) {
			t.Errorf("formatRecipe() output is missing %q:\n%s", want, out)
		}
	}
}

func TestFormatRecipe_NoIngredients(t *testing.T) {
	out := formatRecipe(&models.ParsedRecipe{Title: "Notes", Ingredients: []models.ParsedIngredient{}}, io.Discard)
	if !strings.Contains(out, "no ingredients found") {
		t.Errorf("formatRecipe() = %q", out)
	}
}

func TestNewLayoutReport(t *testing.T) {
	fragments := []models.TextFragment{
		{Text: "Apple Pie", BoundingBox: models.BoundingBox{X: 0.1, Y: 0.9, Width: 0.5, Height: 0.03}},
		{Text: "2 cups flour", BoundingBox: models.BoundingBox{X: 0.1, Y: 0.8, Width: 0.4, Height: 0.03}},
		{Text: "1 cup sugar", BoundingBox: models.BoundingBox{X: 0.1, Y: 0.75, Width: 0.4, Height: 0.03}},
	}
	parser, err := recipe.NewParser(layout.DefaultConfig())
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	a, err := parser.Analyze(fragments, nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	report := newLayoutReport(a)
	if report.RunID == "" {
		t.Error("RunID is empty")
	}
	if report.State != recipe.StateDone.String() {
		t.Errorf("State = %q, want %q", report.State, recipe.StateDone)
	}
	if len(report.Rows) != 3 {
		t.Errorf("len(Rows) = %d, want 3", len(report.Rows))
	}
	if len(report.Lines) != 2 || report.Lines[0].Left != "2 cups flour" {
		t.Errorf("Lines = %+v", report.Lines)
	}
	if len(report.Sections) == 0 || report.Sections[0].Kind != "title" {
		t.Errorf("Sections = %+v", report.Sections)
	}

	out := formatLayout(report, io.Discard)
	for _, want := range []string{"Column split", "ingredients", "2 cups flour"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatLayout() output is missing %q", want)
		}
	}
}
