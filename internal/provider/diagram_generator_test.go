package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ankek/cartography-cloudtrail/internal/diagram"
	"github.com/ankek/cartography-cloudtrail/internal/renderer"
)

func TestDiagramGenerator_Generate(t *testing.T) {
	// Create temporary directory for test outputs
	tmpDir := t.TempDir()

	generator := &DiagramGenerator{}
	ctx := context.Background()

	tests := []struct {
		name    string
		config  DiagramConfig
		prefix  string
		wantErr string
	}{
		{
			name: "png",
			config: DiagramConfig{
				OutputPath: filepath.Join(tmpDir, "architecture-diagram.png"),
				Format:     "png",
				DPI:        72,
			},
			prefix: "\x89PNG",
		},
		{
			name: "svg",
			config: DiagramConfig{
				OutputPath: filepath.Join(tmpDir, "architecture-diagram.svg"),
				Format:     "svg",
			},
			prefix: "<?xml",
		},
		{
			name: "invalid output path",
			config: DiagramConfig{
				OutputPath: "/nonexistent/directory/architecture-diagram.png",
				Format:     "png",
			},
			wantErr: "invalid output path",
		},
		{
			name: "extension does not match format",
			config: DiagramConfig{
				OutputPath: filepath.Join(tmpDir, "architecture-diagram.png"),
				Format:     "svg",
			},
			wantErr: "does not match format",
		},
		{
			name: "unsupported format",
			config: DiagramConfig{
				OutputPath: filepath.Join(tmpDir, "architecture-diagram"),
				Format:     "pdf",
			},
			wantErr: "unsupported format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := generator.Generate(ctx, tt.config)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Generate() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}

			if result.OutputPath != tt.config.OutputPath {
				t.Errorf("Generate() OutputPath = %v, want %v", result.OutputPath, tt.config.OutputPath)
			}
			if result.NodeCount != 9 || result.EdgeCount != 8 {
				t.Errorf("Generate() counts = %d nodes, %d edges, want 9 and 8", result.NodeCount, result.EdgeCount)
			}

			content, err := os.ReadFile(result.OutputPath)
			if err != nil {
				t.Fatalf("Generate() did not create output file: %v", err)
			}
			if !strings.HasPrefix(string(content), tt.prefix) {
				t.Errorf("output does not start with %q", tt.prefix)
			}

			sum := sha256.Sum256(content)
			if result.Checksum != hex.EncodeToString(sum[:]) {
				t.Errorf("Generate() Checksum = %s, does not match file", result.Checksum)
			}
		})
	}
}

func TestDiagramGenerator_Generate_ContextCancellation(t *testing.T) {
	tmpDir := t.TempDir()

	generator := &DiagramGenerator{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := generator.Generate(ctx, DiagramConfig{
		OutputPath: filepath.Join(tmpDir, "architecture-diagram.png"),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

type recordingRenderer struct {
	opts renderer.RenderOptions
	d    *diagram.Diagram
}

func (r *recordingRenderer) RenderDiagram(ctx context.Context, d *diagram.Diagram, outputPath string, opts renderer.RenderOptions) error {
	r.d = d
	r.opts = opts
	return os.WriteFile(outputPath, []byte("diagram"), 0644)
}

type staticSource struct {
	d   *diagram.Diagram
	err error
}

func (s staticSource) Load() (*diagram.Diagram, error) {
	return s.d, s.err
}

type allowAll struct{}

func (allowAll) ValidateOutputPath(string) error { return nil }
func (allowAll) ValidateOutputFormat(string, string) error { return nil }

func TestDiagramGenerator_Defaults(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "architecture-diagram.png")
	rec := &recordingRenderer{}
	generator := &DiagramGenerator{Renderer: rec}

	result, err := generator.Generate(context.Background(), DiagramConfig{OutputPath: outputPath})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	want := renderer.RenderOptions{Format: "png", DPI: 300, TightCrop: true}
	if rec.opts != want {
		t.Errorf("render options = %+v, want %+v", rec.opts, want)
	}
	if rec.d == nil || len(rec.d.Nodes) != 9 {
		t.Error("renderer should receive the CloudTrail diagram")
	}

	sum := sha256.Sum256([]byte("diagram"))
	if result.Checksum != hex.EncodeToString(sum[:]) {
		t.Errorf("Checksum = %s", result.Checksum)
	}
}

func TestDiagramGenerator_SourceError(t *testing.T) {
	generator := &DiagramGenerator{
		Source:    staticSource{err: errors.New("broken description")},
		Renderer:  &recordingRenderer{},
		Validator: allowAll{},
	}

	_, err := generator.Generate(context.Background(), DiagramConfig{OutputPath: "unused.png"})
	if err == nil || !strings.Contains(err.Error(), "broken description") {
		t.Errorf("Generate() error = %v, want source error", err)
	}
}

func TestDiagramGenerator_CustomSource(t *testing.T) {
	d, err := diagram.CloudTrail()
	if err != nil {
		t.Fatalf("Failed to load diagram: %v", err)
	}
	d.Nodes = d.Nodes[:2]
	d.Edges = d.Edges[:1]

	outputPath := filepath.Join(t.TempDir(), "partial.svg")
	generator := &DiagramGenerator{Source: staticSource{d: d}}

	result, err := generator.Generate(context.Background(), DiagramConfig{OutputPath: outputPath, Format: "svg"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if result.NodeCount != 2 || result.EdgeCount != 1 {
		t.Errorf("counts = %d nodes, %d edges, want 2 and 1", result.NodeCount, result.EdgeCount)
	}
}
