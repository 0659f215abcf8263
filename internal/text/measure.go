package text

import (
	"image"
	"strings"

	"github.com/youruser/newscard/internal/fonts"
	"golang.org/x/image/font"
)

// multilineGap is the extra space between lines of a multi-line run, on top of
// the face's own line height.
const multilineGap = 4

// Metrics is the ink box of a run of text.
//
// Origin is the baseline position of the first line relative to the top-left of
// the box, and Advance the baseline-to-baseline distance for later lines. Drawing
// each line at box.Min + Origin + (0, i*Advance) puts the ink exactly in the box.
type Metrics struct {
	Text    string
	Role    fonts.Role
	Width   int
	Height  int
	Origin  image.Point
	Advance int
}

// Lines returns the text split on manual line breaks.
func (m Metrics) Lines() []string {
	if m.Text == "" {
		return nil
	}
	return strings.Split(m.Text, "\n")
}

// Sizer measures text for a role.
type Sizer interface {
	Measure(text string, role fonts.Role) Metrics
}

// Measurer measures text against the faces of one render.
type Measurer struct {
	faces *fonts.Faces
}

func NewMeasurer(faces *fonts.Faces) *Measurer {
	return &Measurer{faces: faces}
}

// Face exposes the face used for role so text can be drawn with it.
func (m *Measurer) Face(role fonts.Role) font.Face {
	return m.faces.Face(role)
}

// Measure returns the pixel-snapped ink box of text. Text containing '\n' is
// measured as a block of lines.
func (m *Measurer) Measure(text string, role fonts.Role) Metrics {
	out := Metrics{Text: text, Role: role}
	face := m.faces.Face(role)
	if face == nil || text == "" {
		return out
	}
	out.Advance = face.Metrics().Height.Ceil() + multilineGap

	var box image.Rectangle
	have := false
	for i, line := range strings.Split(text, "\n") {
		b, _ := font.BoundString(face, line)
		if b.Empty() {
			continue
		}
		r := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil()).
			Add(image.Pt(0, i*out.Advance))
		if !have {
			box, have = r, true
			continue
		}
		box = box.Union(r)
	}
	if !have {
		return out
	}
	out.Width = box.Dx()
	out.Height = box.Dy()
	out.Origin = image.Pt(-box.Min.X, -box.Min.Y)
	return out
}
