package renderer

import (
	"image/color"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
)

var (
	colorWhite = color.RGBA{255, 255, 255, 255}
	colorBlack = color.RGBA{0, 0, 0, 255}
)

// parseColor parses a hex color string. Diagrams are validated before they
// are drawn, so malformed input falls back to black.
func parseColor(hexColor string) color.RGBA {
	c, err := diagram.ParseColor(hexColor)
	if err != nil {
		return colorBlack
	}
	return c
}

// hexColor formats c as #RRGGBB
func hexColor(c color.RGBA) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{
		'#',
		digits[c.R>>4], digits[c.R&0x0F],
		digits[c.G>>4], digits[c.G&0x0F],
		digits[c.B>>4], digits[c.B&0x0F],
	})
}
