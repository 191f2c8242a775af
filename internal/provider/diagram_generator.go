// Package provider implements the Terraform provider for cartography diagram generation.
// It exposes the CloudTrail architecture diagram as both a managed resource and a
// data source.
package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
	"github.com/ankek/cartography-cloudtrail/internal/interfaces"
	"github.com/ankek/cartography-cloudtrail/internal/renderer"
	"github.com/ankek/cartography-cloudtrail/internal/validation"
)

const (
	defaultFormat = "png"
	defaultDPI    = renderer.DefaultDPI
)

// DiagramConfig contains all configuration needed to generate a diagram
type DiagramConfig = interfaces.DiagramConfig

// GenerateResult contains the results of diagram generation
type GenerateResult = interfaces.GenerateResult

var _ interfaces.DiagramGenerator = &DiagramGenerator{}

// DiagramGenerator handles the core logic of generating diagrams.
// It is shared between the resource and data source implementations.
// Zero-valued collaborators fall back to the embedded CloudTrail description,
// the file exporter and the filesystem path checks.
type DiagramGenerator struct {
	Source    interfaces.DiagramSource
	Renderer  interfaces.DiagramRenderer
	Validator interfaces.PathValidator
}

// Generate renders the CloudTrail diagram to cfg.OutputPath.
//
// It performs the following steps:
//  1. Validates the output path and format
//  2. Loads the embedded architecture description
//  3. Renders and atomically writes the diagram
//  4. Checksums the written file
func (g *DiagramGenerator) Generate(ctx context.Context, cfg DiagramConfig) (*GenerateResult, error) {
	// Check context before proceeding
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if cfg.Format == "" {
		cfg.Format = defaultFormat
	}
	if cfg.DPI == 0 {
		cfg.DPI = defaultDPI
	}

	validator := g.pathChecks()
	if err := validator.ValidateOutputPath(cfg.OutputPath); err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}
	if err := validator.ValidateOutputFormat(cfg.OutputPath, cfg.Format); err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}

	d, err := g.descriptionSource().Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load architecture description: %w", err)
	}

	ctx = tflog.SetField(ctx, "output_path", cfg.OutputPath)
	ctx = tflog.SetField(ctx, "format", cfg.Format)
	tflog.Debug(ctx, "Rendering diagram", map[string]interface{}{
		"dpi":   cfg.DPI,
		"nodes": len(d.Nodes),
		"edges": len(d.Edges),
	})

	opts := renderer.RenderOptions{
		Format:    cfg.Format,
		DPI:       float64(cfg.DPI),
		TightCrop: true,
	}
	if err := g.diagramRenderer().RenderDiagram(ctx, d, cfg.OutputPath, opts); err != nil {
		return nil, fmt.Errorf("failed to render diagram: %w", err)
	}

	checksum, err := fileChecksum(cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	tflog.Info(ctx, "Diagram written", map[string]interface{}{
		"checksum": checksum,
	})

	return &GenerateResult{
		OutputPath: cfg.OutputPath,
		Checksum:   checksum,
		NodeCount:  int64(len(d.Nodes)),
		EdgeCount:  int64(len(d.Edges)),
	}, nil
}

func (g *DiagramGenerator) descriptionSource() interfaces.DiagramSource {
	if g.Source != nil {
		return g.Source
	}
	return cloudTrailSource{}
}

func (g *DiagramGenerator) diagramRenderer() interfaces.DiagramRenderer {
	if g.Renderer != nil {
		return g.Renderer
	}
	return fileRenderer{}
}

func (g *DiagramGenerator) pathChecks() interfaces.PathValidator {
	if g.Validator != nil {
		return g.Validator
	}
	return pathValidator{}
}

// fileChecksum returns the hex SHA-256 of the file at path.
func fileChecksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read diagram for checksum: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

type cloudTrailSource struct{}

func (cloudTrailSource) Load() (*diagram.Diagram, error) {
	return diagram.CloudTrail()
}

type fileRenderer struct{}

func (fileRenderer) RenderDiagram(ctx context.Context, d *diagram.Diagram, outputPath string, opts renderer.RenderOptions) error {
	return renderer.RenderDiagram(ctx, d, outputPath, opts)
}

type pathValidator struct{}

func (pathValidator) ValidateOutputPath(path string) error {
	return validation.ValidateOutputPath(path)
}

func (pathValidator) ValidateOutputFormat(path, format string) error {
	return validation.ValidateOutputFormat(path, format)
}
