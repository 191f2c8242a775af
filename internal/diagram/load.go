package diagram

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

//go:embed cloudtrail.hcl
var cloudTrailSource []byte

const defaultTextColor = "#000000"

// CloudTrail returns the CloudTrail architecture diagram.
func CloudTrail() (*Diagram, error) {
	return Parse(cloudTrailSource, "cloudtrail.hcl")
}

// fileSpec splits the palette off from the rest of the document so its
// colours can be offered to the remaining blocks as variables.
type fileSpec struct {
	Palette paletteSpec `hcl:"palette,block"`
	Remain  hcl.Body    `hcl:",remain"`
}

type paletteSpec struct {
	Colors hcl.Body `hcl:",remain"`
}

type documentSpec struct {
	Canvas    canvasSpec `hcl:"canvas,block"`
	Title     labelSpec  `hcl:"title,block"`
	Container nodeSpec   `hcl:"container,block"`
	Nodes     []nodeSpec `hcl:"node,block"`
	Edges     []edgeSpec `hcl:"edge,block"`
	Legend    legendSpec `hcl:"legend,block"`
	Caption   labelSpec  `hcl:"caption,block"`
}

type canvasSpec struct {
	Width  float64 `hcl:"width"`
	Height float64 `hcl:"height"`
}

type labelSpec struct {
	Text   string    `hcl:"text"`
	At     []float64 `hcl:"at"`
	Size   float64   `hcl:"size"`
	Weight string    `hcl:"weight,optional"`
	Style  string    `hcl:"style,optional"`
	Align  string    `hcl:"align,optional"`
	Color  string    `hcl:"color,optional"`
}

type nodeSpec struct {
	Name        string      `hcl:"name,label"`
	X           float64     `hcl:"x"`
	Y           float64     `hcl:"y"`
	Width       float64     `hcl:"width"`
	Height      float64     `hcl:"height"`
	Pad         float64     `hcl:"pad,optional"`
	Fill        string      `hcl:"fill"`
	Border      string      `hcl:"border"`
	BorderWidth float64     `hcl:"border_width"`
	Labels      []labelSpec `hcl:"label,block"`
}

type edgeSpec struct {
	Name      string     `hcl:"name,label"`
	From      []float64  `hcl:"from"`
	To        []float64  `hcl:"to"`
	Rad       float64    `hcl:"rad,optional"`
	Arrow     string     `hcl:"arrow"`
	HeadScale float64    `hcl:"head_scale"`
	Width     float64    `hcl:"width"`
	Color     string     `hcl:"color"`
	Dashed    bool       `hcl:"dashed,optional"`
	Label     *labelSpec `hcl:"label,block"`
}

type legendSpec struct {
	Columns  int               `hcl:"columns"`
	FontSize float64           `hcl:"font_size"`
	Entries  []legendEntrySpec `hcl:"entry,block"`
}

type legendEntrySpec struct {
	Kind   string  `hcl:"kind,label"`
	Label  string  `hcl:"label"`
	Color  string  `hcl:"color,optional"`
	Width  float64 `hcl:"width,optional"`
	Dashed bool    `hcl:"dashed,optional"`
	Fill   string  `hcl:"fill,optional"`
	Border string  `hcl:"border,optional"`
}

// Parse decodes and validates a diagram description written in HCL.
func Parse(src []byte, filename string) (*Diagram, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL parse errors: %s", diags.Error())
	}

	var fs fileSpec
	if diags := gohcl.DecodeBody(file.Body, nil, &fs); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %s", filename, diags.Error())
	}

	evalCtx, err := paletteContext(fs.Palette)
	if err != nil {
		return nil, err
	}

	var doc documentSpec
	if diags := gohcl.DecodeBody(fs.Remain, evalCtx, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %s", filename, diags.Error())
	}

	d, err := doc.build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return d, nil
}

// paletteContext exposes every palette colour as palette.<name>.
func paletteContext(p paletteSpec) (*hcl.EvalContext, error) {
	attrs, diags := p.Colors.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse palette: %s", diags.Error())
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	colors := make(map[string]cty.Value, len(attrs))
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("palette color %s: %s", name, diags.Error())
		}
		if val.IsNull() || !val.Type().Equals(cty.String) {
			return nil, fmt.Errorf("palette color %s must be a string", name)
		}
		if _, err := ParseColor(val.AsString()); err != nil {
			return nil, fmt.Errorf("palette color %s: %w", name, err)
		}
		colors[name] = val
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"palette": cty.ObjectVal(colors),
		},
	}, nil
}

func (doc documentSpec) build() (*Diagram, error) {
	d := &Diagram{
		Canvas: Canvas{Width: doc.Canvas.Width, Height: doc.Canvas.Height},
	}

	var err error
	if d.Title, err = doc.Title.build(AlignCenter); err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	if d.Container, err = doc.Container.build(); err != nil {
		return nil, err
	}
	for _, ns := range doc.Nodes {
		n, err := ns.build()
		if err != nil {
			return nil, err
		}
		d.Nodes = append(d.Nodes, n)
	}
	for _, es := range doc.Edges {
		e, err := es.build()
		if err != nil {
			return nil, err
		}
		d.Edges = append(d.Edges, e)
	}

	d.Legend = Legend{Columns: doc.Legend.Columns, FontSize: doc.Legend.FontSize}
	for _, es := range doc.Legend.Entries {
		d.Legend.Entries = append(d.Legend.Entries, LegendEntry{
			Kind:   LegendKind(es.Kind),
			Label:  es.Label,
			Color:  es.Color,
			Width:  es.Width,
			Dashed: es.Dashed,
			Fill:   es.Fill,
			Border: es.Border,
		})
	}

	if d.Caption, err = doc.Caption.build(AlignCenter); err != nil {
		return nil, fmt.Errorf("caption: %w", err)
	}
	return d, nil
}

func (ls labelSpec) build(defaultAlign Align) (Label, error) {
	at, err := point(ls.At)
	if err != nil {
		return Label{}, fmt.Errorf("label %q: %w", ls.Text, err)
	}

	l := Label{
		Text:   ls.Text,
		At:     at,
		Size:   ls.Size,
		Weight: FontWeight(ls.Weight),
		Style:  FontStyle(ls.Style),
		Align:  Align(ls.Align),
		Color:  ls.Color,
	}
	if l.Weight == "" {
		l.Weight = WeightNormal
	}
	if l.Style == "" {
		l.Style = StyleNormal
	}
	if l.Align == "" {
		l.Align = defaultAlign
	}
	if l.Color == "" {
		l.Color = defaultTextColor
	}

	switch l.Weight {
	case WeightNormal, WeightBold:
	default:
		return Label{}, fmt.Errorf("label %q: unknown weight %q", ls.Text, ls.Weight)
	}
	switch l.Style {
	case StyleNormal, StyleItalic:
	default:
		return Label{}, fmt.Errorf("label %q: unknown style %q", ls.Text, ls.Style)
	}
	return l, nil
}

func (ns nodeSpec) build() (Node, error) {
	n := Node{
		Name: ns.Name,
		Box: Box{
			X:           ns.X,
			Y:           ns.Y,
			Width:       ns.Width,
			Height:      ns.Height,
			Pad:         ns.Pad,
			Fill:        ns.Fill,
			Border:      ns.Border,
			BorderWidth: ns.BorderWidth,
		},
	}
	for _, ls := range ns.Labels {
		l, err := ls.build(AlignLeft)
		if err != nil {
			return Node{}, fmt.Errorf("node %q: %w", ns.Name, err)
		}
		n.Labels = append(n.Labels, l)
	}
	return n, nil
}

func (es edgeSpec) build() (Edge, error) {
	from, err := point(es.From)
	if err != nil {
		return Edge{}, fmt.Errorf("edge %q from: %w", es.Name, err)
	}
	to, err := point(es.To)
	if err != nil {
		return Edge{}, fmt.Errorf("edge %q to: %w", es.Name, err)
	}

	e := Edge{
		Name:      es.Name,
		From:      from,
		To:        to,
		Rad:       es.Rad,
		Arrow:     ArrowStyle(es.Arrow),
		HeadScale: es.HeadScale,
		Color:     es.Color,
		Width:     es.Width,
		Dashed:    es.Dashed,
	}
	if es.Label != nil {
		l, err := es.Label.build(AlignLeft)
		if err != nil {
			return Edge{}, fmt.Errorf("edge %q: %w", es.Name, err)
		}
		e.Label = &l
	}
	return e, nil
}

func point(xy []float64) (Point, error) {
	if len(xy) != 2 {
		return Point{}, fmt.Errorf("want [x, y], got %d values", len(xy))
	}
	return Point{X: xy[0], Y: xy[1]}, nil
}
