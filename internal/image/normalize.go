package imagepkg

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/youruser/newscard/internal/layout"

	_ "golang.org/x/image/webp"
)

// Decode decodes a JPEG, PNG, GIF, BMP, TIFF or WebP image, applying any EXIF
// orientation.
func Decode(b []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
}

// Normalize crops the background to a centered square and scales it to the
// canvas, and scales the logo to the fixed logo size regardless of its aspect.
func Normalize(background, logo image.Image) (*image.NRGBA, *image.NRGBA) {
	return NormalizeBackground(background), NormalizeLogo(logo)
}

// NormalizeBackground drops alpha, crops the centered square of side
// min(width, height) and resizes it to CanvasSize with Lanczos.
func NormalizeBackground(img image.Image) *image.NRGBA {
	opaque := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.A = 0xff
		return c
	})
	w, h := opaque.Bounds().Dx(), opaque.Bounds().Dy()
	side := min(w, h)
	left, top := (w-side)/2, (h-side)/2
	square := imaging.Crop(opaque, image.Rect(left, top, left+side, top+side))
	return imaging.Resize(square, layout.CanvasSize, layout.CanvasSize, imaging.Lanczos)
}

func NormalizeLogo(img image.Image) *image.NRGBA {
	return imaging.Resize(img, layout.LogoSize, layout.LogoSize, imaging.CatmullRom)
}
