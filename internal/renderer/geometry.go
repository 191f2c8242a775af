package renderer

import (
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
)

type point = diagram.Point

const (
	// edgeShrink is how far an edge stops short of its endpoints, in points.
	edgeShrink = 2.0

	// Arrowhead proportions relative to an edge's head scale.
	headLengthRatio = 0.4
	headWidthRatio  = 0.2

	// Dash on/off lengths relative to the line width.
	dashOnRatio  = 3.7
	dashOffRatio = 1.6
)

func add(a, b point) point { return point{X: a.X + b.X, Y: a.Y + b.Y} }

func sub(a, b point) point { return point{X: a.X - b.X, Y: a.Y - b.Y} }

func scale(a point, k float64) point { return point{X: a.X * k, Y: a.Y * k} }

func normalize(a point) point {
	l := math.Hypot(a.X, a.Y)
	if l == 0 {
		return point{}
	}
	return scale(a, 1/l)
}

// arcControl returns the control point of the quadratic curve joining from
// and to. rad is the offset of the control point from the chord midpoint as
// a fraction of the chord length; positive values bend the curve to the
// right of the direction of travel.
func arcControl(from, to point, rad float64) point {
	dx, dy := to.X-from.X, to.Y-from.Y
	return point{
		X: (from.X+to.X)/2 + rad*dy,
		Y: (from.Y+to.Y)/2 - rad*dx,
	}
}

// edgeEnds returns the endpoints of e pulled in by edgeShrink along the
// curve's end tangents, and the control point of its body. Edges too short
// to shrink keep their endpoints.
func edgeEnds(e diagram.Edge) (from, ctrl, to point) {
	ctrl = arcControl(e.From, e.To, e.Rad)
	shrink := edgeShrink / pointsPerUnit
	if math.Hypot(e.To.X-e.From.X, e.To.Y-e.From.Y) <= 2*shrink {
		return e.From, ctrl, e.To
	}
	from = add(e.From, scale(normalize(sub(ctrl, e.From)), shrink))
	to = sub(e.To, scale(normalize(sub(e.To, ctrl)), shrink))
	return from, ctrl, to
}

// edgePath returns the body of an edge in canvas units. Curved edges are a
// single quadratic segment.
func edgePath(e diagram.Edge) *canvas.Path {
	from, ctrl, to := edgeEnds(e)
	p := &canvas.Path{}
	p.MoveTo(from.X, from.Y)
	if e.Rad == 0 {
		p.LineTo(to.X, to.Y)
	} else {
		p.QuadTo(ctrl.X, ctrl.Y, to.X, to.Y)
	}
	return p
}

// arrowHead returns the open head at tip for a curve arriving along dir,
// as the three points wing, tip, wing.
func arrowHead(tip, dir point, headScale float64) [3]point {
	dir = normalize(dir)
	perp := point{X: -dir.Y, Y: dir.X}
	back := sub(tip, scale(dir, headLengthRatio*headScale/pointsPerUnit))
	half := headWidthRatio * headScale / pointsPerUnit
	return [3]point{
		add(back, scale(perp, half)),
		tip,
		sub(back, scale(perp, half)),
	}
}

// openPath joins pts with straight segments.
func openPath(pts ...point) *canvas.Path {
	p := &canvas.Path{}
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y)
			continue
		}
		p.LineTo(pt.X, pt.Y)
	}
	return p
}

// dashPattern returns the dash on/off lengths in units for a line width
// given in points.
func dashPattern(width float64) (float64, float64) {
	return dashOnRatio * width / pointsPerUnit, dashOffRatio * width / pointsPerUnit
}

// dashed splits p into dashes for a line of the given width in points. The
// pattern starts with a dash.
func dashed(p *canvas.Path, width float64) *canvas.Path {
	on, off := dashPattern(width)
	if on <= 0 || off <= 0 {
		return p
	}
	return p.Dash(0, on, off)
}
