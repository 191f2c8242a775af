package renderer

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
)

type faceKey struct {
	weight diagram.FontWeight
	style  diagram.FontStyle
	size   float64
}

// fontCache hands out Go font faces at a fixed resolution
type fontCache struct {
	dpi   float64
	fonts map[faceKey]*opentype.Font
	faces map[faceKey]font.Face
}

func newFontCache(dpi float64) *fontCache {
	return &fontCache{
		dpi:   dpi,
		fonts: make(map[faceKey]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// face returns the face for a label's size, weight and style.
func (c *fontCache) face(size float64, weight diagram.FontWeight, style diagram.FontStyle) (font.Face, error) {
	key := faceKey{weight: weight, style: style, size: size}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}

	fontKey := faceKey{weight: weight, style: style}
	fnt, ok := c.fonts[fontKey]
	if !ok {
		var err error
		fnt, err = opentype.Parse(fontData(weight, style))
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		c.fonts[fontKey] = fnt
	}

	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     c.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %gpt font face: %w", size, err)
	}
	c.faces[key] = f
	return f, nil
}

// labelFace is face for the styling carried by l.
func (c *fontCache) labelFace(l diagram.Label) (font.Face, error) {
	return c.face(l.Size, l.Weight, l.Style)
}

// textWidth measures l in canvas units.
func (c *fontCache) textWidth(l diagram.Label) (float64, error) {
	f, err := c.labelFace(l)
	if err != nil {
		return 0, err
	}
	advance := font.MeasureString(f, l.Text)
	return float64(advance) / 64 / c.dpi, nil
}

func fontData(weight diagram.FontWeight, style diagram.FontStyle) []byte {
	bold := weight == diagram.WeightBold
	italic := style == diagram.StyleItalic
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}
