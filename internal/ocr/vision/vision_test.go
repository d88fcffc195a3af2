package vision

import (
	"math"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

func word(text string, x0, y0, x1, y1 int32, brk visionpb.TextAnnotation_DetectedBreak_BreakType) *visionpb.Word {
	w := &visionpb.Word{
		BoundingBox: &visionpb.BoundingPoly{Vertices: []*visionpb.Vertex{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		}},
		Confidence: 0.9,
	}
	runes := []rune(text)
	for i, r := range runes {
		sym := &visionpb.Symbol{Text: string(r)}
		if i == len(runes)-1 && brk != visionpb.TextAnnotation_DetectedBreak_UNKNOWN {
			sym.Property = &visionpb.TextAnnotation_TextProperty{
				DetectedBreak: &visionpb.TextAnnotation_DetectedBreak{Type: brk},
			}
		}
		w.Symbols = append(w.Symbols, sym)
	}
	return w
}

func TestLines(t *testing.T) {
	const (
		space = visionpb.TextAnnotation_DetectedBreak_SPACE
		eol   = visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE
		lb    = visionpb.TextAnnotation_DetectedBreak_LINE_BREAK
	)
	annotation := &visionpb.TextAnnotation{
		Pages: []*visionpb.Page{{
			Width:  200,
			Height: 100,
			Blocks: []*visionpb.Block{{
				Paragraphs: []*visionpb.Paragraph{{
					Words: []*visionpb.Word{
						word("Apple", 20, 10, 70, 20, space),
						word("Pie", 80, 10, 110, 20, eol),
						word("2", 20, 40, 30, 50, space),
						word("cups", 40, 40, 80, 50, space),
						word("flour", 90, 40, 140, 50, lb),
					},
				}},
			}},
		}},
	}

	got := Lines(annotation, 0, 0)
	if len(got) != 2 {
		t.Fatalf("Lines() returned %d fragments, want 2: %+v", len(got), got)
	}
	if got[0].Text != "Apple Pie" || got[1].Text != "2 cups flour" {
		t.Errorf("texts = %q, %q", got[0].Text, got[1].Text)
	}

	box := got[0].BoundingBox
	want := [4]float64{0.1, 0.8, 0.45, 0.1}
	for i, v := range [4]float64{box.X, box.Y, box.Width, box.Height} {
		if math.Abs(v-want[i]) > 1e-9 {
			t.Errorf("first box = %+v, want x,y,w,h %v", box, want)
			break
		}
	}
	if got[0].BoundingBox.MidY() <= got[1].BoundingBox.MidY() {
		t.Error("first line should be above the second in bottom-left coordinates")
	}
	if math.Abs(got[0].Confidence-0.9) > 1e-6 {
		t.Errorf("confidence = %v, want 0.9", got[0].Confidence)
	}
}

func TestLines_UnterminatedParagraph(t *testing.T) {
	annotation := &visionpb.TextAnnotation{
		Pages: []*visionpb.Page{{
			Blocks: []*visionpb.Block{{
				Paragraphs: []*visionpb.Paragraph{{
					Words: []*visionpb.Word{
						word("Serves", 0, 0, 60, 10, visionpb.TextAnnotation_DetectedBreak_SPACE),
						word("4", 70, 0, 80, 10, visionpb.TextAnnotation_DetectedBreak_UNKNOWN),
					},
				}},
			}},
		}},
	}
	got := Lines(annotation, 100, 100)
	if len(got) != 1 || got[0].Text != "Serves 4" {
		t.Errorf("Lines() = %+v, want one fragment %q", got, "Serves 4")
	}
}

func TestLines_NilAnnotation(t *testing.T) {
	if got := Lines(nil, 100, 100); len(got) != 0 {
		t.Errorf("Lines(nil) = %+v, want none", got)
	}
}
