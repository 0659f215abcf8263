package card

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseHexColor parses "#RRGGBB" or "RRGGBB" into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.NRGBA{}, errors.Wrapf(ErrInvalidStyle, "tag color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(ErrInvalidStyle, "tag color %q: %v", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func checkOpacity(v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, errors.Wrapf(ErrInvalidStyle, "title opacity %d out of range 0-255", v)
	}
	return uint8(v), nil
}
