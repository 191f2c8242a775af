// Package interfaces defines interfaces for dependency injection and testing
package interfaces

import (
	"context"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
	"github.com/ankek/cartography-cloudtrail/internal/renderer"
)

// DiagramSource supplies the architecture description to draw
type DiagramSource interface {
	// Load decodes and validates the description
	Load() (*diagram.Diagram, error)
}

// DiagramRenderer defines the interface for rendering diagrams
type DiagramRenderer interface {
	// RenderDiagram draws d and saves it to the output path
	RenderDiagram(ctx context.Context, d *diagram.Diagram, outputPath string, opts renderer.RenderOptions) error
}

// PathValidator defines the interface for validating file paths
type PathValidator interface {
	// ValidateOutputPath validates an output path for security and accessibility
	ValidateOutputPath(path string) error

	// ValidateOutputFormat checks the output extension against the format
	ValidateOutputFormat(path, format string) error
}

// DiagramGenerator defines the interface for generating diagrams
type DiagramGenerator interface {
	// Generate renders the architecture diagram to cfg.OutputPath
	Generate(ctx context.Context, cfg DiagramConfig) (*GenerateResult, error)
}

// DiagramConfig contains all configuration needed to generate a diagram
type DiagramConfig struct {
	OutputPath string
	Format     string
	DPI        int64
}

// GenerateResult contains the results of diagram generation
type GenerateResult struct {
	OutputPath string
	Checksum   string // hex SHA-256 of the written file
	NodeCount  int64
	EdgeCount  int64
}
