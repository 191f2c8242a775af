package renderer

import (
	"context"
	"fmt"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
)

// ExportDiagram renders d in opts.Format and writes it to outputPath with
// context support. The file is replaced atomically; on failure no partial
// output is left behind.
func ExportDiagram(ctx context.Context, d *diagram.Diagram, outputPath string, opts RenderOptions) error {
	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r, err := NewRenderer(opts)
	if err != nil {
		return err
	}

	data, err := r.Render(d)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", opts.Format, err)
	}

	// Check context again before writing
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := writeFileAtomic(outputPath, data); err != nil {
		return fmt.Errorf("failed to save diagram: %w", err)
	}
	return nil
}
