// Package validation checks where a rendered diagram may be written.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeProbe is created and removed in the output directory to prove it is
// writable before any rendering starts.
const writeProbe = ".architecture-diagram_write_test"

// ValidateOutputPath validates an output path for security and accessibility.
// Returns error if path is empty, contains path traversal, names a directory,
// or its parent directory is missing or not writable.
func ValidateOutputPath(outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	// Check for path traversal attempts
	for _, part := range strings.Split(filepath.ToSlash(outputPath), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal detected in output path: %s", outputPath)
		}
	}

	absPath, err := filepath.Abs(filepath.Clean(outputPath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %s", absPath)
	}

	dir := filepath.Dir(absPath)
	dirInfo, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return fmt.Errorf("failed to access output directory: %w", err)
	}
	if !dirInfo.IsDir() {
		return fmt.Errorf("output path parent is not a directory: %s", dir)
	}

	probe := filepath.Join(dir, writeProbe)
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("output directory is not writable: %s: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)

	return nil
}

// ValidateOutputFormat checks that the output file extension, when present,
// agrees with format.
func ValidateOutputFormat(outputPath, format string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	if ext == "" {
		return nil
	}
	if ext != strings.ToLower(format) {
		return fmt.Errorf("output path %s does not match format %q", outputPath, format)
	}
	return nil
}
