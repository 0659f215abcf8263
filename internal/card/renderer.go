package card

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/youruser/newscard/internal/fonts"
	imagepkg "github.com/youruser/newscard/internal/image"
	"github.com/youruser/newscard/internal/layout"
	"github.com/youruser/newscard/internal/text"
)

// Defaults used by the shell when a field is left empty.
const (
	DefaultTag          = "GLOBAL MARKETS"
	DefaultTitle        = "India Cuts Rates For First Time In Nearly Five Years; Indians To Enjoy 25 bps Cut"
	DefaultSite         = "dailyequity.in"
	DefaultTagColor     = "#FFA500"
	DefaultTitleOpacity = 180

	// Filename and MIME type offered for download.
	Filename    = "news_image.png"
	ContentType = "image/png"
)

// Request is one card to render.
type Request struct {
	Background   []byte
	Logo         []byte
	TagText      string
	TitleText    string
	SiteName     string
	TagColor     string
	TitleOpacity int
}

// CaptionText is the two-line read-more caption for site.
func CaptionText(site string) string {
	return "Read the in-depth story on\n" + site
}

// Card is a finished render.
type Card struct {
	Image  *image.RGBA
	Layout layout.Layout
	Lines  []string
}

// EncodePNG writes the card as an opaque PNG.
func (c *Card) EncodePNG(w io.Writer) error {
	return imaging.Encode(w, c.Image, imaging.PNG)
}

// Renderer turns requests into cards. It keeps no state between calls; every
// Render builds its own faces and canvas.
type Renderer struct {
	fonts  func() *fonts.Set
	logger *zap.Logger
}

// NewRenderer renders with a fixed font set.
func NewRenderer(set *fonts.Set, logger *zap.Logger) *Renderer {
	return newRenderer(func() *fonts.Set { return set }, logger)
}

// NewLibraryRenderer renders with whatever set lib holds at the start of each call.
func NewLibraryRenderer(lib *fonts.Library, logger *zap.Logger) *Renderer {
	return newRenderer(lib.Current, logger)
}

func newRenderer(src func() *fonts.Set, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{fonts: src, logger: logger}
}

// RenderPNG renders req and returns the PNG bytes.
func (r *Renderer) RenderPNG(req Request) ([]byte, error) {
	c, err := r.Render(req)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, renderErr(errors.Wrap(err, "encode png"))
	}
	return buf.Bytes(), nil
}

// Render validates the style knobs, decodes both images and composes the card.
// Errors are *Error values; no partial card is returned.
func (r *Renderer) Render(req Request) (c *Card, err error) {
	defer func() {
		if p := recover(); p != nil {
			c, err = nil, renderErr(fmt.Errorf("panic: %v", p))
		}
	}()

	tagColor, err := ParseHexColor(req.TagColor)
	if err != nil {
		return nil, renderErr(err)
	}
	opacity, err := checkOpacity(req.TitleOpacity)
	if err != nil {
		return nil, renderErr(err)
	}

	bgSrc, err := imagepkg.Decode(req.Background)
	if err != nil {
		return nil, decodeErr(errors.Wrap(err, "decode background"))
	}
	logoSrc, err := imagepkg.Decode(req.Logo)
	if err != nil {
		return nil, decodeErr(errors.Wrap(err, "decode logo"))
	}
	background, logo := imagepkg.Normalize(bgSrc, logoSrc)

	faces, err := r.fonts().NewFaces()
	if err != nil {
		return nil, renderErr(err)
	}
	defer faces.Close()
	m := text.NewMeasurer(faces)

	caption := m.Measure(CaptionText(req.SiteName), fonts.RoleCaption)
	tag := m.Measure(req.TagText, fonts.RoleTag)
	lines := text.Wrap(m, req.TitleText, fonts.RoleTitle, layout.TitleWrapWidth)
	lineMetrics := make([]text.Metrics, len(lines))
	in := layout.Input{
		Caption: layout.Size{W: caption.Width, H: caption.Height},
		Tag:     layout.Size{W: tag.Width, H: tag.Height},
		Logo:    layout.Size{W: logo.Bounds().Dx(), H: logo.Bounds().Dy()},
		Lines:   make([]layout.Size, len(lines)),
	}
	for i, line := range lines {
		lineMetrics[i] = m.Measure(line, fonts.RoleTitle)
		in.Lines[i] = layout.Size{W: lineMetrics[i].Width, H: lineMetrics[i].Height}
	}
	l := layout.Solve(in)

	scene := imagepkg.Scene{
		Background:   background,
		Logo:         logo,
		Layout:       l,
		TagColor:     tagColor,
		TitleOpacity: opacity,
		Caption:      run(m, caption, l.Caption, color.White),
		Tag:          run(m, tag, l.TagText, color.Black),
		Title:        make([]imagepkg.Run, len(lines)),
	}
	for i := range lines {
		scene.Title[i] = run(m, lineMetrics[i], l.TitleLines[i], color.White)
	}

	r.logger.Debug("card rendered",
		zap.Int("titleLines", len(lines)),
		zap.Int("stackTop", l.Tag.Y),
		zap.Int("titlePanelHeight", l.TitlePanel.H),
	)
	if overlapsCaption(l) {
		r.logger.Warn("title stack overlaps caption block",
			zap.Int("stackTop", l.Tag.Y),
			zap.Int("captionBottom", l.ReadMore.Bottom()),
		)
	}

	return &Card{Image: imagepkg.Compose(scene), Layout: l, Lines: lines}, nil
}

// overlapsCaption reports the accepted degradation where a tall stack reaches
// the top-right block. It is logged, not corrected.
func overlapsCaption(l layout.Layout) bool {
	top := l.ReadMore.Rect().Union(l.Logo.Rect())
	return l.Tag.Rect().Overlaps(top) || l.TitlePanel.Rect().Overlaps(top)
}

func run(m *text.Measurer, mt text.Metrics, box layout.Box, c color.Color) imagepkg.Run {
	return imagepkg.Run{
		Lines:   mt.Lines(),
		Face:    m.Face(mt.Role),
		Origin:  mt.Origin,
		Advance: mt.Advance,
		Box:     box,
		Color:   c,
	}
}
