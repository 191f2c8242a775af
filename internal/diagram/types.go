// Package diagram holds the declarative description of the CloudTrail
// architecture diagram: rounded boxes, connectors, legend entries and text,
// all positioned by hand on a fixed canvas.
package diagram

import (
	"fmt"
	"image/color"
	"strings"
)

// Point is a position in canvas units. The origin is the bottom left corner.
type Point struct {
	X float64
	Y float64
}

// FontWeight selects a regular or bold face
type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

// FontStyle selects an upright or italic face
type FontStyle string

const (
	StyleNormal FontStyle = "normal"
	StyleItalic FontStyle = "italic"
)

// Align is the horizontal anchoring of a label relative to its point
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ArrowStyle describes which ends of an edge carry an arrowhead
type ArrowStyle string

const (
	ArrowNone    ArrowStyle = "-"
	ArrowForward ArrowStyle = "->"
	ArrowBoth    ArrowStyle = "<->"
)

// HasHeadAtEnd reports whether the style draws a head at the target point.
func (s ArrowStyle) HasHeadAtEnd() bool {
	return s == ArrowForward || s == ArrowBoth
}

// HasHeadAtStart reports whether the style draws a head at the source point.
func (s ArrowStyle) HasHeadAtStart() bool {
	return s == ArrowBoth
}

// LegendKind is the kind of handle drawn next to a legend entry
type LegendKind string

const (
	LegendLine  LegendKind = "line"
	LegendPatch LegendKind = "patch"
)

// Label is a single line of text anchored at its baseline.
type Label struct {
	Text   string
	At     Point
	Size   float64 // points
	Weight FontWeight
	Style  FontStyle
	Align  Align
	Color  string
}

// Box is a rounded rectangle. The drawn outline is the rectangle grown by
// Pad on every side, with a corner radius equal to Pad.
type Box struct {
	X           float64
	Y           float64
	Width       float64
	Height      float64
	Pad         float64
	Fill        string
	Border      string
	BorderWidth float64 // points
}

// Outer returns the corners of the drawn outline.
func (b Box) Outer() (Point, Point) {
	return Point{X: b.X - b.Pad, Y: b.Y - b.Pad},
		Point{X: b.X + b.Width + b.Pad, Y: b.Y + b.Height + b.Pad}
}

// Node is one architecture component.
type Node struct {
	Name   string
	Box    Box
	Labels []Label
}

// Edge connects two points with a straight or arc3 curved arrow.
type Edge struct {
	Name      string
	From      Point
	To        Point
	Rad       float64 // arc3 curvature, 0 for a straight line
	Arrow     ArrowStyle
	HeadScale float64 // points
	Color     string
	Width     float64 // points
	Dashed    bool
	Label     *Label
}

// LegendEntry maps a visual style to its meaning.
type LegendEntry struct {
	Kind   LegendKind
	Label  string
	Color  string
	Width  float64
	Dashed bool
	Fill   string
	Border string
}

// Legend is a single row of entries centered at the bottom of the canvas.
type Legend struct {
	Columns  int
	FontSize float64
	Entries  []LegendEntry
}

// Canvas is the logical drawing area in units (inches).
type Canvas struct {
	Width  float64
	Height float64
}

// Contains reports whether p lies within the canvas bounds.
func (c Canvas) Contains(p Point) bool {
	return p.X >= 0 && p.X <= c.Width && p.Y >= 0 && p.Y <= c.Height
}

// Diagram is the complete architecture description in draw order.
type Diagram struct {
	Canvas    Canvas
	Title     Label
	Container Node
	Nodes     []Node
	Edges     []Edge
	Legend    Legend
	Caption   Label
}

// Validate checks that every element lies inside the canvas and carries
// styling the renderers understand.
func (d *Diagram) Validate() error {
	if d.Canvas.Width <= 0 || d.Canvas.Height <= 0 {
		return fmt.Errorf("canvas must have positive size, got %gx%g", d.Canvas.Width, d.Canvas.Height)
	}

	if err := d.validateLabel("title", d.Title); err != nil {
		return err
	}
	if err := d.validateNode("container", d.Container); err != nil {
		return err
	}
	for _, n := range d.Nodes {
		if err := d.validateNode("node", n); err != nil {
			return err
		}
	}
	for _, e := range d.Edges {
		if err := d.validateEdge(e); err != nil {
			return err
		}
	}
	if err := d.validateLegend(); err != nil {
		return err
	}
	return d.validateLabel("caption", d.Caption)
}

func (d *Diagram) validateNode(kind string, n Node) error {
	lo, hi := n.Box.Outer()
	if !d.Canvas.Contains(lo) || !d.Canvas.Contains(hi) {
		return fmt.Errorf("%s %q lies outside the canvas", kind, n.Name)
	}
	if n.Box.Width <= 0 || n.Box.Height <= 0 {
		return fmt.Errorf("%s %q must have positive size", kind, n.Name)
	}
	if n.Box.BorderWidth < 0 {
		return fmt.Errorf("%s %q has negative border width", kind, n.Name)
	}
	if _, err := ParseColor(n.Box.Fill); err != nil {
		return fmt.Errorf("%s %q fill: %w", kind, n.Name, err)
	}
	if _, err := ParseColor(n.Box.Border); err != nil {
		return fmt.Errorf("%s %q border: %w", kind, n.Name, err)
	}
	for _, l := range n.Labels {
		if err := d.validateLabel(fmt.Sprintf("%s %q label", kind, n.Name), l); err != nil {
			return err
		}
	}
	return nil
}

func (d *Diagram) validateEdge(e Edge) error {
	if !d.Canvas.Contains(e.From) || !d.Canvas.Contains(e.To) {
		return fmt.Errorf("edge %q lies outside the canvas", e.Name)
	}
	switch e.Arrow {
	case ArrowNone, ArrowForward, ArrowBoth:
	default:
		return fmt.Errorf("edge %q has unknown arrow style %q", e.Name, e.Arrow)
	}
	if e.Width <= 0 {
		return fmt.Errorf("edge %q must have positive width", e.Name)
	}
	if _, err := ParseColor(e.Color); err != nil {
		return fmt.Errorf("edge %q color: %w", e.Name, err)
	}
	if e.Label != nil {
		return d.validateLabel(fmt.Sprintf("edge %q label", e.Name), *e.Label)
	}
	return nil
}

// maxLegendEntries keeps the legend to the bottom strip below the container.
const maxLegendEntries = 5

func (d *Diagram) validateLegend() error {
	if d.Legend.Columns <= 0 {
		return fmt.Errorf("legend must have at least one column")
	}
	if len(d.Legend.Entries) == 0 {
		return fmt.Errorf("legend has no entries")
	}
	if len(d.Legend.Entries) > maxLegendEntries {
		return fmt.Errorf("legend has %d entries, at most %d fit", len(d.Legend.Entries), maxLegendEntries)
	}
	for _, entry := range d.Legend.Entries {
		switch entry.Kind {
		case LegendLine:
			if entry.Width <= 0 {
				return fmt.Errorf("legend entry %q must have positive width", entry.Label)
			}
			if _, err := ParseColor(entry.Color); err != nil {
				return fmt.Errorf("legend entry %q color: %w", entry.Label, err)
			}
		case LegendPatch:
			if _, err := ParseColor(entry.Fill); err != nil {
				return fmt.Errorf("legend entry %q fill: %w", entry.Label, err)
			}
			if _, err := ParseColor(entry.Border); err != nil {
				return fmt.Errorf("legend entry %q border: %w", entry.Label, err)
			}
		default:
			return fmt.Errorf("legend entry %q has unknown kind %q", entry.Label, entry.Kind)
		}
	}
	return nil
}

func (d *Diagram) validateLabel(what string, l Label) error {
	if strings.TrimSpace(l.Text) == "" {
		return fmt.Errorf("%s has empty text", what)
	}
	if !d.Canvas.Contains(l.At) {
		return fmt.Errorf("%s %q lies outside the canvas", what, l.Text)
	}
	if l.Size <= 0 {
		return fmt.Errorf("%s %q must have a positive font size", what, l.Text)
	}
	switch l.Align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		return fmt.Errorf("%s %q has unknown alignment %q", what, l.Text, l.Align)
	}
	if _, err := ParseColor(l.Color); err != nil {
		return fmt.Errorf("%s %q color: %w", what, l.Text, err)
	}
	return nil
}

// ParseColor parses a #RRGGBB hex color string
func ParseColor(hexColor string) (color.RGBA, error) {
	hex := strings.TrimPrefix(hexColor, "#")
	if len(hex) != 6 || len(hex) == len(hexColor) {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB", hexColor)
	}

	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := fromHexDigit(hex[2*i])
		lo, ok2 := fromHexDigit(hex[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB", hexColor)
		}
		rgb[i] = hi<<4 | lo
	}

	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

func fromHexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
