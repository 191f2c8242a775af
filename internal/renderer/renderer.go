// Package renderer draws an architecture diagram onto a canvas and exports
// it. PNG output is rasterised in-process at a fixed resolution; SVG output
// carries the same scene as vector markup.
package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
)

const (
	// DefaultDPI is the raster resolution in dots per canvas unit (inch).
	DefaultDPI = 300

	pointsPerUnit = 72.0

	// tightPadding is the margin kept around content when cropping, in units.
	tightPadding = 0.1
)

// RenderOptions contains configuration for rendering
type RenderOptions struct {
	Format    string  // "png" or "svg"
	DPI       float64 // dots per canvas unit, PNG only
	TightCrop bool    // crop PNG output to its content plus a small margin
}

// DefaultRenderOptions returns the options used for the published diagram.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Format:    "png",
		DPI:       DefaultDPI,
		TightCrop: true,
	}
}

// Renderer turns a diagram into an encoded image.
type Renderer interface {
	Render(d *diagram.Diagram) ([]byte, error)
}

// NewRenderer returns the renderer for opts.Format.
func NewRenderer(opts RenderOptions) (Renderer, error) {
	switch strings.ToLower(opts.Format) {
	case "png":
		if opts.DPI <= 0 {
			return nil, fmt.Errorf("invalid DPI %g", opts.DPI)
		}
		return NewPNGRenderer(opts), nil
	case "svg":
		return NewSVGRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: png, svg)", opts.Format)
	}
}

// RenderDiagram renders d and saves it to outputPath.
// It respects the provided context for cancellation.
func RenderDiagram(ctx context.Context, d *diagram.Diagram, outputPath string, opts RenderOptions) error {
	return ExportDiagram(ctx, d, outputPath, opts)
}
