package services

import (
	"context"
	"io"

	"recipecard/pkg/models"
)

// RecipeScanner turns a photographed recipe card into a structured recipe.
type RecipeScanner interface {
	// ScanImage recognizes the text on the card and structures it.
	ScanImage(ctx context.Context, image io.Reader) (*models.ParsedRecipe, error)

	// ScanFragments structures fragments that were recognized elsewhere.
	// Segments may be nil when no ruled lines are known.
	ScanFragments(ctx context.Context, fragments []models.TextFragment, segments []models.LineSegment) (*models.ParsedRecipe, error)
}
