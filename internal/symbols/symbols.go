// Package symbols wraps the external symbol-table extraction tool that
// turns a native library into an uploadable symbol archive.
package symbols

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Generator produces a symbol archive for one native binary. It returns
// the path of the produced archive, or an error when extraction fails.
type Generator interface {
	Generate(binaryPath, outputDir string) (string, error)
}

// Commander interface for testing
type Commander interface {
	Run() error
}

// Tool is the production Generator: it shells out to the configured
// extraction tool once per binary.
type Tool struct {
	toolPath    string
	logger      *slog.Logger
	execCommand func(name string, args ...string) Commander
}

// NewTool creates a generator backed by the tool at toolPath.
func NewTool(toolPath string, logger *slog.Logger) *Tool {
	if logger == nil {
		logger = slog.Default()
	}

	return &Tool{
		toolPath: toolPath,
		logger:   logger,
		execCommand: func(name string, args ...string) Commander {
			return exec.Command(name, args...)
		},
	}
}

// Generate runs the extraction tool against binaryPath, writing the
// archive into outputDir (the binary's own directory when empty).
func (t *Tool) Generate(binaryPath, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = filepath.Dir(binaryPath)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	symbolPath := filepath.Join(outputDir, ArchiveName(binaryPath))

	c := t.execCommand(t.toolPath, "-i", binaryPath, "-o", symbolPath)
	if cmd, ok := c.(*exec.Cmd); ok {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := c.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			if IsSuccess(code) {
				// tool success with warnings
				return symbolPath, nil
			}

			return "", fmt.Errorf("symbol extraction failed (exit code %d): %s", code, ErrorMessage(code))
		}

		return "", fmt.Errorf("failed to run symbol tool: %w", err)
	}

	if _, err := os.Stat(symbolPath); err != nil {
		return "", fmt.Errorf("symbol tool produced no output for %s: %w", binaryPath, err)
	}

	return symbolPath, nil
}

// ArchiveName returns the symbol archive file name for a binary,
// e.g. libnative.so -> libnative.sym.zip.
func ArchiveName(binaryPath string) string {
	base := filepath.Base(binaryPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".sym.zip"
}
