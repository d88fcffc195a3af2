package models

// BoundingBox is a normalized rectangle in the unit square. The origin is the
// bottom-left corner of the image and Y grows upward.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MidX returns the horizontal center of the box.
func (b BoundingBox) MidX() float64 { return b.X + b.Width/2 }

// MidY returns the vertical center of the box.
func (b BoundingBox) MidY() float64 { return b.Y + b.Height/2 }

// TextFragment is one piece of recognized text as reported by an OCR engine.
type TextFragment struct {
	Text        string      `json:"text"`        // Non-empty, already trimmed
	BoundingBox BoundingBox `json:"bounding_box"` // Normalized, bottom-left origin
	Confidence  float64     `json:"confidence"`  // 0.0 to 1.0, display only
}

// Orientation tags a detected line segment.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// LineSegment is a ruled line found in the image by the geometry detector.
type LineSegment struct {
	Orientation Orientation `json:"orientation"`
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
}

// AspectRatio returns width divided by height of the segment's box.
func (s LineSegment) AspectRatio() float64 {
	if s.BoundingBox.Height <= 0 {
		return 0
	}
	return s.BoundingBox.Width / s.BoundingBox.Height
}

// ParsedIngredient is one ingredient line of a recipe card.
type ParsedIngredient struct {
	ImperialAmount string  `json:"imperial_amount"` // "1 tsp.", or "to taste"
	Name           string  `json:"name"`
	MetricAmount   *string `json:"metric_amount,omitempty"` // "5 mL", nil when the card has none
}

// ParsedRecipe is the structured result of reading a recipe card.
type ParsedRecipe struct {
	Title        string             `json:"title"`
	Servings     *string            `json:"servings,omitempty"`
	Ingredients  []ParsedIngredient `json:"ingredients"`
	Instructions *string            `json:"instructions,omitempty"`
}
