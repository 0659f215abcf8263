package card

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/newscard/internal/fonts"
	"github.com/youruser/newscard/internal/layout"
)

var photo = color.NRGBA{R: 40, G: 120, B: 200, A: 255}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func defaultRequest(t *testing.T) Request {
	return Request{
		Background:   encodePNG(t, imaging.New(1600, 900, photo)),
		Logo:         encodePNG(t, imaging.New(64, 32, color.NRGBA{R: 255, G: 255, B: 255, A: 255})),
		TagText:      DefaultTag,
		TitleText:    DefaultTitle,
		SiteName:     DefaultSite,
		TagColor:     DefaultTagColor,
		TitleOpacity: DefaultTitleOpacity,
	}
}

func newTestRenderer() *Renderer {
	return NewRenderer(fonts.Builtin(), nil)
}

func rgbAt(img *image.RGBA, x, y int) [3]uint8 {
	c := img.RGBAAt(x, y)
	return [3]uint8{c.R, c.G, c.B}
}

func TestRenderDefaultCard(t *testing.T) {
	c, err := newTestRenderer().Render(defaultRequest(t))
	require.NoError(t, err)
	l := c.Layout

	assert.Equal(t, image.Rect(0, 0, 1080, 1080), c.Image.Bounds())
	assert.Greater(t, len(c.Lines), 1, "default headline wraps")
	assert.Equal(t, 1080-50, l.TitlePanel.Bottom())
	assert.LessOrEqual(t, l.Tag.Bottom(), l.TitlePanel.Y)
	assert.Equal(t, layout.Box{X: l.Logo.X, Y: l.Logo.Y, W: 100, H: 100}, l.Logo)
	assert.Equal(t, 1080-50, l.Logo.Right())

	// orange pill above the title panel, clear of the tag text
	assert.Equal(t, [3]uint8{255, 165, 0}, rgbAt(c.Image, l.Tag.X+l.Tag.W/2, l.Tag.Y+5))
	// white logo top right
	assert.Equal(t, [3]uint8{255, 255, 255}, rgbAt(c.Image, l.Logo.X+50, l.Logo.Y+50))
	// corners of the canvas show the photo
	assert.Equal(t, [3]uint8{40, 120, 200}, rgbAt(c.Image, 2, 1077))
	// some white title ink inside the panel
	assert.True(t, hasWhite(c.Image, l.TitleLines[0].Rect()))
	// and white caption ink inside the read-more panel
	assert.True(t, hasWhite(c.Image, l.Caption.Rect()))

	for _, b := range l.TitleLines {
		assert.True(t, b.Rect().In(l.TitlePanel.Rect()))
	}
}

func hasWhite(img *image.RGBA, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if rgbAt(img, x, y) == [3]uint8{255, 255, 255} {
				return true
			}
		}
	}
	return false
}

func TestRenderSingleWordTitle(t *testing.T) {
	req := defaultRequest(t)
	req.TitleText = "Breaking"
	c, err := newTestRenderer().Render(req)
	require.NoError(t, err)

	require.Equal(t, []string{"Breaking"}, c.Lines)
	l := c.Layout
	assert.Equal(t, l.TitleLines[0].H+2*layout.TitlePadding, l.TitlePanel.H)
	assert.Equal(t, 1080-50, l.TitlePanel.Bottom())
	assert.Equal(t, l.Tag.Bottom()+layout.Spacing, l.TitlePanel.Y)
}

func TestRenderBlackTagZeroOpacity(t *testing.T) {
	req := defaultRequest(t)
	req.TagColor = "#000000"
	req.TitleOpacity = 0
	c, err := newTestRenderer().Render(req)
	require.NoError(t, err)
	l := c.Layout

	assert.Equal(t, [3]uint8{0, 0, 0}, rgbAt(c.Image, l.Tag.X+l.Tag.W/2, l.Tag.Y+5))
	// fully transparent panel leaves the photo visible
	assert.Equal(t, [3]uint8{40, 120, 200}, rgbAt(c.Image, l.TitlePanel.X+3, l.TitlePanel.Y+3))

	ref, err := newTestRenderer().Render(defaultRequest(t))
	require.NoError(t, err)
	assert.Equal(t, ref.Layout, l, "geometry does not depend on style")
}

func TestRenderIdempotent(t *testing.T) {
	req := defaultRequest(t)
	r := newTestRenderer()
	a, err := r.RenderPNG(req)
	require.NoError(t, err)
	b, err := r.RenderPNG(req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderPNGIsOpaque1080(t *testing.T) {
	out, err := newTestRenderer().RenderPNG(defaultRequest(t))
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1080, cfg.Width)
	assert.Equal(t, 1080, cfg.Height)
	assert.Equal(t, color.RGBAModel, cfg.ColorModel, "8-bit RGB without alpha decodes as RGBA")

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	_, isRGBA := img.(*image.RGBA)
	assert.True(t, isRGBA)
	_, _, _, a := img.At(540, 540).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestRenderAnyAspect(t *testing.T) {
	for _, size := range [][2]int{{300, 1200}, {1200, 300}, {50, 50}} {
		req := defaultRequest(t)
		req.Background = encodeJPEG(t, imaging.New(size[0], size[1], photo))
		req.Logo = encodePNG(t, imaging.New(size[1], size[0], color.NRGBA{R: 255, A: 255}))
		c, err := newTestRenderer().Render(req)
		require.NoError(t, err, "%v", size)
		assert.Equal(t, 1080, c.Image.Bounds().Dx())
		assert.Equal(t, 100, c.Layout.Logo.W)
		assert.Equal(t, 100, c.Layout.Logo.H)
	}
}

func TestRenderEmptyStrings(t *testing.T) {
	req := defaultRequest(t)
	req.TagText, req.TitleText, req.SiteName = "", "", ""
	c, err := newTestRenderer().Render(req)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
	assert.Equal(t, 2*layout.TagPadding, c.Layout.Tag.H)
	assert.Equal(t, 2*layout.TitlePadding, c.Layout.TitlePanel.H)
	assert.Equal(t, 1080-50, c.Layout.TitlePanel.Bottom())
}

func TestRenderDecodeFailure(t *testing.T) {
	req := defaultRequest(t)
	req.Background = []byte("garbage")
	_, err := newTestRenderer().Render(req)
	require.Error(t, err)
	assert.True(t, IsDecode(err))
	assert.False(t, IsRender(err))

	req = defaultRequest(t)
	req.Logo = nil
	_, err = newTestRenderer().RenderPNG(req)
	assert.True(t, IsDecode(err))
}

func TestRenderInvalidStyle(t *testing.T) {
	for _, mutate := range []func(*Request){
		func(r *Request) { r.TagColor = "orange" },
		func(r *Request) { r.TagColor = "#FFA5" },
		func(r *Request) { r.TagColor = "#GGGGGG" },
		func(r *Request) { r.TitleOpacity = 256 },
		func(r *Request) { r.TitleOpacity = -1 },
	} {
		req := defaultRequest(t)
		mutate(&req)
		c, err := newTestRenderer().Render(req)
		require.Error(t, err)
		assert.Nil(t, c)
		assert.True(t, IsRender(err))
		assert.True(t, errors.Is(err, ErrInvalidStyle))
	}
}

func TestRenderLongTitleOverflowsUpwards(t *testing.T) {
	req := defaultRequest(t)
	req.TitleText = strings.Repeat(DefaultTitle+" ", 8)
	c, err := newTestRenderer().Render(req)
	require.NoError(t, err)
	assert.Less(t, c.Layout.TitlePanel.Y, c.Layout.ReadMore.Y)
	assert.True(t, overlapsCaption(c.Layout))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#FFA500")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 165, A: 255}, c)

	c, err = ParseHexColor("00ff7f")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, B: 127, A: 255}, c)
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	err := decodeErr(errors.New("boom"))
	assert.Equal(t, KindDecode, KindOf(err))
	assert.Contains(t, err.Error(), "decode failure")
}
