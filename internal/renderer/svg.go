package renderer

import (
	"bytes"
	"fmt"
	"html"
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
)

// SVGRenderer handles SVG generation. One canvas unit is 72 user units
// (points).
type SVGRenderer struct {
	buf     *bytes.Buffer
	options RenderOptions
	fonts   *fontCache
	height  float64
}

// NewSVGRenderer creates a new SVG renderer
func NewSVGRenderer(opts RenderOptions) *SVGRenderer {
	return &SVGRenderer{
		buf:     &bytes.Buffer{},
		options: opts,
	}
}

// Render generates SVG for the diagram
func (r *SVGRenderer) Render(d *diagram.Diagram) ([]byte, error) {
	r.buf.Reset()
	r.fonts = newFontCache(pointsPerUnit)
	r.height = d.Canvas.Height

	// Start SVG
	r.writeHeader(d.Canvas.Width*pointsPerUnit, d.Canvas.Height*pointsPerUnit)

	if err := drawDiagram(r, d); err != nil {
		return nil, err
	}

	// Close SVG
	r.buf.WriteString("</svg>\n")

	return r.buf.Bytes(), nil
}

// writeHeader writes the SVG header
func (r *SVGRenderer) writeHeader(width, height float64) {
	r.buf.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg"
     width="%.0fpt" height="%.0fpt" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="white"/>
`, width, height, width, height))
}

// coords converts canvas units to SVG user units
func (r *SVGRenderer) coords(p point) (float64, float64) {
	return p.X * pointsPerUnit, (r.height - p.Y) * pointsPerUnit
}

func (r *SVGRenderer) roundedBox(lo, hi point, radius float64, fill, stroke color.RGBA, strokeWidth float64) error {
	x, y := r.coords(point{X: lo.X, Y: hi.Y})
	w := (hi.X - lo.X) * pointsPerUnit
	h := (hi.Y - lo.Y) * pointsPerUnit

	r.buf.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f"
    fill="%s" stroke="%s" stroke-width="%.2f"/>
`, x, y, w, h, radius*pointsPerUnit, hexColor(fill), hexColor(stroke), strokeWidth))
	return nil
}

func (r *SVGRenderer) strokePath(p *canvas.Path, width float64, stroke color.RGBA) error {
	// canvas units with y up to user units with y down
	p = p.Transform(canvas.Identity.Scale(pointsPerUnit, pointsPerUnit))
	p = p.Transform(canvas.Identity.ReflectYAbout(r.height * pointsPerUnit / 2))

	r.buf.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linejoin="miter"/>
`, p.ToSVG(), hexColor(stroke), width))
	return nil
}

func (r *SVGRenderer) text(l diagram.Label) error {
	x, y := r.coords(l.At)

	anchor := "start"
	switch l.Align {
	case diagram.AlignCenter:
		anchor = "middle"
	case diagram.AlignRight:
		anchor = "end"
	}

	r.buf.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" font-family="Go, Arial, sans-serif"
    font-size="%.1f" font-weight="%s" font-style="%s" fill="%s" text-anchor="%s">%s</text>
`, x, y, l.Size, l.Weight, l.Style, hexColor(parseColor(l.Color)), anchor, html.EscapeString(l.Text)))
	return nil
}

func (r *SVGRenderer) textWidth(l diagram.Label) (float64, error) {
	return r.fonts.textWidth(l)
}
