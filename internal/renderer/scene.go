package renderer

import (
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
)

// surface is a drawing target addressed in canvas units with the origin at
// the bottom left. Line widths are given in points.
type surface interface {
	// roundedBox fills the rectangle lo-hi and strokes its outline.
	roundedBox(lo, hi point, radius float64, fill, stroke color.RGBA, strokeWidth float64) error
	// strokePath strokes p with butt caps and mitered joins.
	strokePath(p *canvas.Path, width float64, stroke color.RGBA) error
	text(l diagram.Label) error
	textWidth(l diagram.Label) (float64, error)
}

// Legend metrics in multiples of the legend font size.
const (
	legendHandleLength = 2.0
	legendHandleHeight = 0.7
	legendHandlePad    = 0.8
	legendColumnGap    = 2.0
	legendBorderPad    = 0.9
	legendRowSpacing   = 1.5
	legendPatchBorder  = 1.0 // points
)

// drawDiagram draws d onto s in z-order: container, nodes, edges, legend,
// caption and title.
func drawDiagram(s surface, d *diagram.Diagram) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid diagram: %w", err)
	}

	if err := drawNode(s, d.Container); err != nil {
		return fmt.Errorf("container %q: %w", d.Container.Name, err)
	}
	for _, n := range d.Nodes {
		if err := drawNode(s, n); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	for _, e := range d.Edges {
		if err := drawEdge(s, e); err != nil {
			return fmt.Errorf("edge %q: %w", e.Name, err)
		}
	}
	if err := drawLegend(s, d.Canvas, d.Legend); err != nil {
		return fmt.Errorf("legend: %w", err)
	}
	if err := s.text(d.Caption); err != nil {
		return fmt.Errorf("caption: %w", err)
	}
	if err := s.text(d.Title); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	return nil
}

func drawNode(s surface, n diagram.Node) error {
	lo, hi := n.Box.Outer()
	err := s.roundedBox(lo, hi, n.Box.Pad,
		parseColor(n.Box.Fill), parseColor(n.Box.Border), n.Box.BorderWidth)
	if err != nil {
		return err
	}
	for _, l := range n.Labels {
		if err := s.text(l); err != nil {
			return err
		}
	}
	return nil
}

func drawEdge(s surface, e diagram.Edge) error {
	stroke := parseColor(e.Color)

	body := edgePath(e)
	if e.Dashed {
		body = dashed(body, e.Width)
	}
	if err := s.strokePath(body, e.Width, stroke); err != nil {
		return err
	}

	from, ctrl, to := edgeEnds(e)
	if e.Arrow.HasHeadAtEnd() {
		head := arrowHead(to, sub(to, ctrl), e.HeadScale)
		if err := s.strokePath(openPath(head[:]...), e.Width, stroke); err != nil {
			return err
		}
	}
	if e.Arrow.HasHeadAtStart() {
		head := arrowHead(from, sub(from, ctrl), e.HeadScale)
		if err := s.strokePath(openPath(head[:]...), e.Width, stroke); err != nil {
			return err
		}
	}

	if e.Label != nil {
		return s.text(*e.Label)
	}
	return nil
}

// drawLegend lays the entries out in rows of lg.Columns, each row centered
// horizontally, with the last row resting on the bottom of the canvas.
func drawLegend(s surface, c diagram.Canvas, lg diagram.Legend) error {
	em := lg.FontSize / pointsPerUnit

	var rows [][]diagram.LegendEntry
	for i := 0; i < len(lg.Entries); i += lg.Columns {
		end := i + lg.Columns
		if end > len(lg.Entries) {
			end = len(lg.Entries)
		}
		rows = append(rows, lg.Entries[i:end])
	}

	for r, row := range rows {
		labels := make([]diagram.Label, len(row))
		widths := make([]float64, len(row))
		total := 0.0
		for i, entry := range row {
			labels[i] = diagram.Label{
				Text:   entry.Label,
				Size:   lg.FontSize,
				Weight: diagram.WeightNormal,
				Style:  diagram.StyleNormal,
				Align:  diagram.AlignLeft,
				Color:  hexColor(colorBlack),
			}
			w, err := s.textWidth(labels[i])
			if err != nil {
				return err
			}
			widths[i] = (legendHandleLength+legendHandlePad)*em + w
			total += widths[i]
		}
		total += legendColumnGap * em * float64(len(row)-1)

		rowsBelow := float64(len(rows) - 1 - r)
		centerY := legendBorderPad*em + 0.5*em + rowsBelow*legendRowSpacing*em
		x := c.Width/2 - total/2

		for i, entry := range row {
			if err := drawLegendHandle(s, entry, x, centerY, em); err != nil {
				return err
			}
			labels[i].At = point{X: x + (legendHandleLength+legendHandlePad)*em, Y: centerY - 0.35*em}
			if err := s.text(labels[i]); err != nil {
				return err
			}
			x += widths[i] + legendColumnGap*em
		}
	}
	return nil
}

func drawLegendHandle(s surface, entry diagram.LegendEntry, x, centerY, em float64) error {
	switch entry.Kind {
	case diagram.LegendLine:
		line := openPath(point{X: x, Y: centerY}, point{X: x + legendHandleLength*em, Y: centerY})
		if entry.Dashed {
			line = dashed(line, entry.Width)
		}
		return s.strokePath(line, entry.Width, parseColor(entry.Color))
	case diagram.LegendPatch:
		half := legendHandleHeight * em / 2
		return s.roundedBox(
			point{X: x, Y: centerY - half},
			point{X: x + legendHandleLength*em, Y: centerY + half},
			0, parseColor(entry.Fill), parseColor(entry.Border), legendPatchBorder)
	default:
		return fmt.Errorf("unknown legend entry kind %q", entry.Kind)
	}
}
