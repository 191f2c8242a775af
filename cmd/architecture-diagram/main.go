// Command architecture-diagram renders the CloudTrail security and compliance
// architecture diagram to architecture-diagram.png in the working directory.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
	"github.com/ankek/cartography-cloudtrail/internal/renderer"
	"github.com/ankek/cartography-cloudtrail/internal/validation"
)

const outputName = "architecture-diagram.png"

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "architecture-diagram",
		Output: os.Stderr,
		Level:  hclog.Info,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, ".", os.Stdout, logger); err != nil {
		logger.Error("failed to generate diagram", "error", err)
		stop()
		os.Exit(1)
	}
}

// run renders the diagram into dir and reports the file name on stdout.
func run(ctx context.Context, dir string, stdout io.Writer, logger hclog.Logger) error {
	outputPath := filepath.Join(dir, outputName)
	if err := validation.ValidateOutputPath(outputPath); err != nil {
		return err
	}

	d, err := diagram.CloudTrail()
	if err != nil {
		return fmt.Errorf("failed to load architecture description: %w", err)
	}

	opts := renderer.DefaultRenderOptions()
	logger.Debug("rendering diagram",
		"output_path", outputPath,
		"dpi", opts.DPI,
		"nodes", len(d.Nodes),
		"edges", len(d.Edges))

	if err := renderer.ExportDiagram(ctx, d, outputPath, opts); err != nil {
		return err
	}

	logger.Debug("diagram written", "output_path", outputPath)
	_, err = fmt.Fprintf(stdout, "Architecture diagram saved as '%s'\n", outputName)
	return err
}
