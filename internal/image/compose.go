package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/youruser/newscard/internal/layout"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// Panel styling.
const (
	ReadMoreAlpha = 150
	TitleBlur     = 10.0
)

// Run is a measured piece of text ready to be drawn at a box.
type Run struct {
	Lines   []string
	Face    font.Face
	Origin  image.Point
	Advance int
	Box     layout.Box
	Color   color.Color
}

// Scene is everything the compositor paints.
type Scene struct {
	Background   image.Image
	Logo         image.Image
	Layout       layout.Layout
	TagColor     color.NRGBA
	TitleOpacity uint8

	Caption Run
	Tag     Run
	Title   []Run
}

// Compose paints the scene back to front onto a fresh canvas:
// background, read-more panel, caption, logo, tag pill, tag text, blurred title
// panel and title lines.
func Compose(s Scene) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, layout.CanvasSize, layout.CanvasSize))
	draw.Draw(canvas, canvas.Bounds(), s.Background, s.Background.Bounds().Min, draw.Src)
	dc := gg.NewContextForRGBA(canvas)
	l := s.Layout

	fillRect(dc, l.ReadMore, color.NRGBA{A: ReadMoreAlpha})
	drawRun(dc, s.Caption)

	if s.Logo != nil {
		draw.Draw(canvas, l.Logo.Rect(), s.Logo, s.Logo.Bounds().Min, draw.Over)
	}

	tag := s.TagColor
	tag.A = 0xff
	dc.SetColor(tag)
	dc.DrawRoundedRectangle(float64(l.Tag.X), float64(l.Tag.Y), float64(l.Tag.W), float64(l.Tag.H), float64(l.TagRadius))
	dc.Fill()
	drawRun(dc, s.Tag)

	if p := l.TitlePanel; p.W > 0 && p.H > 0 {
		panel := imaging.New(p.W, p.H, color.NRGBA{A: s.TitleOpacity})
		panel = imaging.Blur(panel, TitleBlur)
		draw.Draw(canvas, p.Rect(), panel, image.Point{}, draw.Over)
	}
	for _, r := range s.Title {
		drawRun(dc, r)
	}
	return canvas
}

func fillRect(dc *gg.Context, b layout.Box, c color.Color) {
	if b.W <= 0 || b.H <= 0 {
		return
	}
	dc.SetColor(c)
	dc.DrawRectangle(float64(b.X), float64(b.Y), float64(b.W), float64(b.H))
	dc.Fill()
}

func drawRun(dc *gg.Context, r Run) {
	if r.Face == nil || len(r.Lines) == 0 {
		return
	}
	dc.SetFontFace(r.Face)
	dc.SetColor(r.Color)
	for i, line := range r.Lines {
		x := r.Box.X + r.Origin.X
		y := r.Box.Y + r.Origin.Y + i*r.Advance
		dc.DrawString(line, float64(x), float64(y))
	}
}
