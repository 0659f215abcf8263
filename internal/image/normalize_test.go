package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBackgroundAnyAspect(t *testing.T) {
	for _, size := range [][2]int{{1920, 1080}, {600, 1400}, {300, 300}, {5, 3}, {2000, 2000}} {
		bg := imaging.New(size[0], size[1], color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		out := NormalizeBackground(bg)
		assert.Equal(t, image.Rect(0, 0, 1080, 1080), out.Bounds(), "%v", size)
	}
}

func TestNormalizeBackgroundCropsCenter(t *testing.T) {
	// red | green | blue thirds; the centered square is all green
	bg := imaging.New(300, 100, color.NRGBA{R: 255, A: 255})
	bg = imaging.Paste(bg, imaging.New(100, 100, color.NRGBA{G: 255, A: 255}), image.Pt(100, 0))
	bg = imaging.Paste(bg, imaging.New(100, 100, color.NRGBA{B: 255, A: 255}), image.Pt(200, 0))

	out := NormalizeBackground(bg)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, out.NRGBAAt(540, 540))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, out.NRGBAAt(2, 2))
}

func TestNormalizeBackgroundDropsAlpha(t *testing.T) {
	bg := imaging.New(40, 40, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
	out := NormalizeBackground(bg)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, out.NRGBAAt(500, 500))
}

func TestNormalizeLogoIgnoresAspect(t *testing.T) {
	for _, size := range [][2]int{{400, 100}, {100, 400}, {37, 37}, {1, 1}} {
		logo := imaging.New(size[0], size[1], color.NRGBA{R: 255, A: 128})
		out := NormalizeLogo(logo)
		assert.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds(), "%v", size)
		assert.Equal(t, uint8(128), out.NRGBAAt(50, 50).A, "logo keeps alpha")
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(8, 6, color.White)))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	_, err = Decode([]byte("not an image"))
	assert.Error(t, err)
	_, err = Decode(nil)
	assert.Error(t, err)
}
