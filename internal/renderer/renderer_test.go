package renderer

import (
	"bytes"
	"encoding/xml"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/vector"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
)

func loadCloudTrail(t *testing.T) *diagram.Diagram {
	t.Helper()
	d, err := diagram.CloudTrail()
	if err != nil {
		t.Fatalf("Failed to load CloudTrail diagram: %v", err)
	}
	return d
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name    string
		opts    RenderOptions
		want    string
		wantErr string
	}{
		{
			name: "png",
			opts: DefaultRenderOptions(),
			want: "*renderer.PNGRenderer",
		},
		{
			name: "svg upper case",
			opts: RenderOptions{Format: "SVG"},
			want: "*renderer.SVGRenderer",
		},
		{
			name:    "png without DPI",
			opts:    RenderOptions{Format: "png"},
			wantErr: "invalid DPI",
		},
		{
			name:    "unsupported format",
			opts:    RenderOptions{Format: "pdf", DPI: 300},
			wantErr: "unsupported format: pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(tt.opts)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("NewRenderer() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRenderer() unexpected error: %v", err)
			}
			switch tt.want {
			case "*renderer.PNGRenderer":
				if _, ok := r.(*PNGRenderer); !ok {
					t.Errorf("NewRenderer() = %T, want %s", r, tt.want)
				}
			case "*renderer.SVGRenderer":
				if _, ok := r.(*SVGRenderer); !ok {
					t.Errorf("NewRenderer() = %T, want %s", r, tt.want)
				}
			}
		})
	}
}

func TestDefaultRenderOptions(t *testing.T) {
	opts := DefaultRenderOptions()
	if opts.Format != "png" || opts.DPI != 300 || !opts.TightCrop {
		t.Errorf("DefaultRenderOptions() = %+v", opts)
	}
}

func TestPNGRenderer_FullCanvasSize(t *testing.T) {
	d := loadCloudTrail(t)

	img, err := NewPNGRenderer(RenderOptions{Format: "png", DPI: DefaultDPI}).RenderImage(d)
	if err != nil {
		t.Fatalf("RenderImage() error: %v", err)
	}

	if got := img.Bounds(); got.Dx() != 4200 || got.Dy() != 3000 {
		t.Errorf("canvas = %dx%d, want 4200x3000", got.Dx(), got.Dy())
	}
}

func TestPNGRenderer_TightCrop(t *testing.T) {
	d := loadCloudTrail(t)

	img, err := NewPNGRenderer(DefaultRenderOptions()).RenderImage(d)
	if err != nil {
		t.Fatalf("RenderImage() error: %v", err)
	}

	b := img.Bounds()
	if b.Min != (image.Point{}) {
		t.Errorf("cropped image should start at the origin, got %v", b.Min)
	}
	// The container spans 13 of 14 units; the title sits near the top edge.
	if b.Dx() < 3900 || b.Dx() >= 4200 {
		t.Errorf("cropped width = %d, want within [3900, 4200)", b.Dx())
	}
	if b.Dy() < 2850 || b.Dy() > 3000 {
		t.Errorf("cropped height = %d, want within [2850, 3000]", b.Dy())
	}

	// A 30px margin survives around the content.
	for _, p := range []image.Point{{0, 0}, {b.Max.X - 1, 0}, {0, b.Max.Y - 1}, {b.Max.X - 1, b.Max.Y - 1}} {
		if got := img.RGBAAt(p.X, p.Y); got != colorWhite {
			t.Errorf("corner %v = %v, want white", p, got)
		}
	}
}

func TestPNGRenderer_Pixels(t *testing.T) {
	d := loadCloudTrail(t)

	// 100 DPI: one canvas unit is 100px and y=10 is row 0.
	img, err := NewPNGRenderer(RenderOptions{Format: "png", DPI: 100}).RenderImage(d)
	if err != nil {
		t.Fatalf("RenderImage() error: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{name: "page background", x: 5, y: 5, want: "#FFFFFF"},
		{name: "container fill", x: 1320, y: 850, want: "#F0F0F0"},
		{name: "lifecycle fill", x: 110, y: 640, want: "#FFE5B4"},
		{name: "cloudtrail border", x: 700, y: 177, want: "#FF9900"},
		{name: "cloudwatch edge", x: 699, y: 350, want: "#232F3E"},
		{name: "cloudwatch edge right half", x: 700, y: 350, want: "#232F3E"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hexColor(img.RGBAAt(tt.x, tt.y)); got != tt.want {
				t.Errorf("pixel (%d, %d) = %s, want %s", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// blankPNGRenderer returns a renderer drawing onto a white 2x2 unit image
// at 100 DPI.
func blankPNGRenderer() *PNGRenderer {
	r := NewPNGRenderer(RenderOptions{Format: "png", DPI: 100})
	r.img = image.NewRGBA(image.Rect(0, 0, 200, 200))
	for i := range r.img.Pix {
		r.img.Pix[i] = 0xff
	}
	r.raster = vector.NewRasterizer(0, 0)
	r.resolution = canvas.DPI(100)
	r.height = 2
	return r
}

func TestPNGRenderer_StrokePathSharpJoin(t *testing.T) {
	r := blankPNGRenderer()

	// a 10 degree V: an unlimited miter would reach past x = 2
	v := openPath(point{X: 0.5, Y: 1.0875}, point{X: 1.5, Y: 1}, point{X: 0.5, Y: 0.9125})
	if err := r.strokePath(v, 7.2, colorBlack); err != nil {
		t.Fatalf("strokePath() error: %v", err)
	}

	if got := r.img.RGBAAt(140, 100); got != colorBlack {
		t.Errorf("pixel at the tip = %v, want black", got)
	}
	for _, x := range []int{170, 199} {
		if got := r.img.RGBAAt(x, 100); got != colorWhite {
			t.Errorf("pixel (%d, 100) beyond the tip = %v, want white", x, got)
		}
	}
}

func TestPNGRenderer_RoundedBox(t *testing.T) {
	r := blankPNGRenderer()

	fill := color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	err := r.roundedBox(point{X: 0.5, Y: 0.5}, point{X: 1.5, Y: 1.5}, 0.2, fill, colorBlack, 7.2)
	if err != nil {
		t.Fatalf("roundedBox() error: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{name: "inside", x: 100, y: 100, want: fill},
		{name: "left border", x: 50, y: 100, want: colorBlack},
		{name: "outside the rounded corner", x: 51, y: 51, want: colorWhite},
		{name: "outside", x: 20, y: 100, want: colorWhite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPNGRenderer_Deterministic(t *testing.T) {
	d := loadCloudTrail(t)
	opts := RenderOptions{Format: "png", DPI: 72, TightCrop: true}

	first, err := NewPNGRenderer(opts).Render(d)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	second, err := NewPNGRenderer(opts).Render(d)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("rendering the same diagram twice produced different bytes")
	}
}

func TestPNGRenderer_Encoding(t *testing.T) {
	d := loadCloudTrail(t)

	data, err := NewPNGRenderer(RenderOptions{Format: "png", DPI: 150, TightCrop: true}).Render(d)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got != colorWhite {
		t.Errorf("top-left pixel = %v, want white", got)
	}

	dpi, ok := physicalDPI(data)
	if !ok {
		t.Fatal("output has no pHYs chunk")
	}
	if dpi < 149.99 || dpi > 150.01 {
		t.Errorf("pHYs DPI = %g, want 150", dpi)
	}
}

func TestPNGRenderer_InvalidDiagram(t *testing.T) {
	d := loadCloudTrail(t)
	d.Nodes[0].Box.Fill = "orange"

	_, err := NewPNGRenderer(DefaultRenderOptions()).Render(d)
	if err == nil || !strings.Contains(err.Error(), "invalid diagram") {
		t.Errorf("Render() error = %v, want invalid diagram", err)
	}
}

func TestSVGRenderer(t *testing.T) {
	d := loadCloudTrail(t)

	data, err := NewSVGRenderer(RenderOptions{Format: "svg"}).Render(d)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	counts := map[string]int{}
	var texts []string
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("SVG is not well-formed XML: %v", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			counts[el.Name.Local]++
		case xml.CharData:
			if s := strings.TrimSpace(string(el)); s != "" {
				texts = append(texts, s)
			}
		}
	}

	if counts["svg"] != 1 {
		t.Errorf("Expected one <svg> root, got %d", counts["svg"])
	}
	// background, container, nine nodes and three legend patches
	if counts["rect"] != 14 {
		t.Errorf("Expected 14 <rect> elements, got %d", counts["rect"])
	}
	if counts["path"] == 0 {
		t.Error("Expected edges drawn as <path> elements")
	}

	joined := strings.Join(texts, "\n")
	for _, want := range []string{
		"CloudTrail Security & Compliance Architecture",
		"AWS Account - CloudTrail Architecture",
		"CloudTrail Lake",
		"Alarms & Metrics",
		"encrypts",
		"logs access",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("SVG text does not contain %q", want)
		}
	}

	if !bytes.Contains(data, []byte(`width="1008pt" height="720pt"`)) {
		t.Error("SVG should be sized 14x10 inches in points")
	}
}
