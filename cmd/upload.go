package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bugly-tools/symup/internal/config"
	"github.com/bugly-tools/symup/internal/planner"
	"github.com/bugly-tools/symup/internal/recordlog"
	"github.com/bugly-tools/symup/internal/symbols"
	"github.com/bugly-tools/symup/internal/uploader"
	"github.com/bugly-tools/symup/internal/variant"
)

// Record log file names, shared with the original backend tooling.
const (
	symbolLogName = "BuglySymbolLog.txt"
	uploadLogName = "BuglyUploadLog.txt"
)

var uploadCmd = &cobra.Command{
	Use:          "upload [projectDir]",
	Short:        "Upload debug symbols for a project",
	Long:         `Discovers the build variants of an Android project, extracts symbol tables from native libraries that changed, and uploads mapping files and symbol archives not yet known to the backend.`,
	RunE:         runUpload,
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
}

func runUpload(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	absProject, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	cfg, err := config.NewLoader().LoadForUpload(cmd, absProject)
	if err != nil {
		return err
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(absProject, "build", "symup")
	}

	logger := newLogger(cfg.Verbose)

	kind := variant.KindApplication
	if library, _ := cmd.Flags().GetBool("library"); library {
		kind = variant.KindLibrary
	}

	variants, err := variant.New(absProject, kind).Variants()
	if err != nil {
		return err
	}

	if len(variants) == 0 {
		logger.Info("no build variants found", "project", absProject, "kind", kind.String())
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	genLog := recordlog.New(filepath.Join(cfg.OutputDir, symbolLogName), logger)
	uploadLog := recordlog.New(filepath.Join(cfg.OutputDir, uploadLogName), logger)
	gen := symbols.NewTool(cfg.SymtoolPath, logger)
	up := uploader.NewHTTP(logger)

	p := planner.New(cfg, genLog, uploadLog, gen, up, logger)

	// A failing variant never stops the others.
	failed := 0
	for _, v := range variants {
		logger.Info("processing variant", "name", v.Name, "kind", v.Kind.String())

		if err := p.Run(v.MappingFiles, v.NativeLibs); err != nil {
			logger.Error("variant failed", "name", v.Name, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d variants failed", failed, len(variants))
	}

	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
