package renderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
)

// mmPerUnit converts canvas units (inches) to the millimetres canvas paths
// are rasterised in.
const mmPerUnit = 25.4

// PNGRenderer handles PNG generation
type PNGRenderer struct {
	options    RenderOptions
	img        *image.RGBA
	raster     *vector.Rasterizer
	resolution canvas.Resolution
	fonts      *fontCache
	height     float64 // canvas height in units, for flipping y
}

// NewPNGRenderer creates a new PNG renderer
func NewPNGRenderer(opts RenderOptions) *PNGRenderer {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	return &PNGRenderer{
		options: opts,
	}
}

// Render rasterises d and encodes it as PNG
func (r *PNGRenderer) Render(d *diagram.Diagram) ([]byte, error) {
	img, err := r.RenderImage(d)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	out, err := withPhysicalDPI(buf.Bytes(), r.options.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return out, nil
}

// RenderImage rasterises d, cropping to content when TightCrop is set.
func (r *PNGRenderer) RenderImage(d *diagram.Diagram) (*image.RGBA, error) {
	dpi := r.options.DPI
	width := int(math.Round(d.Canvas.Width * dpi))
	height := int(math.Round(d.Canvas.Height * dpi))

	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.raster = vector.NewRasterizer(0, 0)
	r.resolution = canvas.DPI(dpi)
	r.fonts = newFontCache(dpi)
	r.height = d.Canvas.Height

	// Fill white background
	draw.Draw(r.img, r.img.Bounds(), &image.Uniform{colorWhite}, image.Point{}, draw.Src)

	if err := drawDiagram(r, d); err != nil {
		return nil, err
	}

	if !r.options.TightCrop {
		return r.img, nil
	}
	pad := int(math.Round(tightPadding * dpi))
	return cropToContent(r.img, colorWhite, pad), nil
}

// toPixel converts canvas units to image coordinates
func (r *PNGRenderer) toPixel(p point) point {
	return point{X: p.X * r.options.DPI, Y: (r.height - p.Y) * r.options.DPI}
}

// lineWidth converts a line width in points to canvas units, keeping
// hairlines at least one pixel wide.
func (r *PNGRenderer) lineWidth(pt float64) float64 {
	return math.Max(pt/pointsPerUnit, 1/r.options.DPI)
}

func (r *PNGRenderer) roundedBox(lo, hi point, radius float64, fill, stroke color.RGBA, strokeWidth float64) error {
	box := canvas.RoundedRectangle(hi.X-lo.X, hi.Y-lo.Y, radius).Translate(lo.X, lo.Y)
	var outline *canvas.Path
	if strokeWidth > 0 {
		outline = box.Stroke(r.lineWidth(strokeWidth), canvas.ButtCap, canvas.MiterJoin)
	}

	r.fillPath(box, fill)
	if outline != nil {
		r.fillPath(outline, stroke)
	}
	return nil
}

func (r *PNGRenderer) strokePath(p *canvas.Path, width float64, stroke color.RGBA) error {
	r.fillPath(p.Stroke(r.lineWidth(width), canvas.ButtCap, canvas.MiterJoin), stroke)
	return nil
}

func (r *PNGRenderer) text(l diagram.Label) error {
	face, err := r.fonts.labelFace(l)
	if err != nil {
		return err
	}

	pos := r.toPixel(l.At)
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(parseColor(l.Color)),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(pos.X), Y: toFixed(pos.Y)},
	}

	// Align text
	textWidth := d.MeasureString(l.Text)
	switch l.Align {
	case diagram.AlignCenter:
		d.Dot.X -= textWidth / 2
	case diagram.AlignRight:
		d.Dot.X -= textWidth
	}

	d.DrawString(l.Text)
	return nil
}

func (r *PNGRenderer) textWidth(l diagram.Label) (float64, error) {
	return r.fonts.textWidth(l)
}

// fillPath rasterises p, given in canvas units, onto the image. The
// rasteriser only covers the path's bounding box.
func (r *PNGRenderer) fillPath(p *canvas.Path, c color.RGBA) {
	p = p.Transform(canvas.Identity.Scale(mmPerUnit, mmPerUnit))

	size := r.img.Bounds().Size()
	dpmm := r.resolution.DPMM()
	bounds := p.Bounds()
	x0 := max(int(math.Floor(bounds.X*dpmm)), 0)
	y0 := max(int(math.Floor(bounds.Y*dpmm)), 0)
	x1 := min(int(math.Ceil((bounds.X+bounds.W)*dpmm)), size.X)
	y1 := min(int(math.Ceil((bounds.Y+bounds.H)*dpmm)), size.Y)
	if x1 <= x0 || y1 <= y0 {
		return
	}

	// Rasteriser rows count down from y1 while path y counts up.
	p = p.Translate(-float64(x0)/dpmm, -float64(y0)/dpmm)
	r.raster.Reset(x1-x0, y1-y0)
	p.ToRasterizer(r.raster, r.resolution)
	r.raster.Draw(r.img, image.Rect(x0, size.Y-y1, x1, size.Y-y0), image.NewUniform(c), image.Point{})
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
