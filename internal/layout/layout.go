package layout

import "image"

// Canvas and spacing constants, in pixels.
const (
	CanvasSize = 1080

	MarginTop    = 50
	MarginRight  = 50
	MarginBottom = 50
	MarginLeft   = 50
	Spacing      = 20

	TagPadding      = 20
	TitlePadding    = 30
	LineSpacing     = 10
	ReadMorePadding = 20

	LogoSize = 100
)

// TitleWrapWidth is the pixel budget for a line of title text.
const TitleWrapWidth = CanvasSize - MarginLeft - MarginRight - 2*TitlePadding

// Box is an axis-aligned rectangle on the canvas.
type Box struct {
	X, Y, W, H int
}

func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

func (b Box) Bottom() int { return b.Y + b.H }
func (b Box) Right() int  { return b.X + b.W }

// Size is a measured width and height.
type Size struct {
	W, H int
}

// Input carries the measured sizes the solver works from.
type Input struct {
	Caption Size
	Tag     Size
	Lines   []Size
	Logo    Size
}

// Layout is every box placed on the canvas.
type Layout struct {
	ReadMore   Box
	Caption    Box
	Logo       Box
	Tag        Box
	TagRadius  int
	TagText    Box
	TitlePanel Box
	TitleLines []Box
}

// Solve places the caption block top-right and stacks the tag and title panel
// from the bottom margin up. It is a single pass over the sizes; a stack taller
// than the canvas simply starts above it.
func Solve(in Input) Layout {
	var l Layout

	logo := in.Logo
	if logo == (Size{}) {
		logo = Size{LogoSize, LogoSize}
	}

	// read more + logo
	rmW := in.Caption.W + 2*ReadMorePadding
	rmH := in.Caption.H + 2*ReadMorePadding
	total := rmW + Spacing + logo.W
	l.ReadMore = Box{X: CanvasSize - MarginRight - total, Y: MarginTop, W: rmW, H: rmH}
	l.Caption = Box{
		X: l.ReadMore.X + ReadMorePadding,
		Y: l.ReadMore.Y + ReadMorePadding,
		W: in.Caption.W,
		H: in.Caption.H,
	}
	l.Logo = Box{
		X: l.ReadMore.Right() + Spacing,
		Y: l.ReadMore.Y + floorDiv(rmH-logo.H, 2),
		W: logo.W,
		H: logo.H,
	}

	// tag pill
	tagW := in.Tag.W + 2*TagPadding
	tagH := in.Tag.H + 2*TagPadding
	l.TagRadius = tagH / 2

	// title panel
	maxLine, textH := 0, 0
	for _, s := range in.Lines {
		textH += s.H
		if s.W > maxLine {
			maxLine = s.W
		}
	}
	// spacing only between lines; an empty title keeps the bare padding
	if n := len(in.Lines); n > 1 {
		textH += LineSpacing * (n - 1)
	}
	panelW := maxLine + 2*TitlePadding
	panelH := textH + 2*TitlePadding

	// bottom-anchored stack
	top := CanvasSize - MarginBottom - (tagH + Spacing + panelH)
	l.Tag = Box{X: MarginLeft, Y: top, W: tagW, H: tagH}
	l.TagText = Box{
		X: l.Tag.X + floorDiv(tagW-in.Tag.W, 2),
		Y: l.Tag.Y + floorDiv(tagH-in.Tag.H, 2),
		W: in.Tag.W,
		H: in.Tag.H,
	}
	l.TitlePanel = Box{X: MarginLeft, Y: l.Tag.Bottom() + Spacing, W: panelW, H: panelH}

	y := l.TitlePanel.Y + TitlePadding
	l.TitleLines = make([]Box, 0, len(in.Lines))
	for _, s := range in.Lines {
		l.TitleLines = append(l.TitleLines, Box{
			X: l.TitlePanel.X + TitlePadding + floorDiv(maxLine-s.W, 2),
			Y: y,
			W: s.W,
			H: s.H,
		})
		y += s.H + LineSpacing
	}
	return l
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
