// Package planner orchestrates the decide-generate-upload sequence for
// one build variant: consult the generation log to avoid re-extracting
// symbols from unchanged binaries, upload what the upload log has not
// seen, and record the finished work.
package planner

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bugly-tools/symup/internal/config"
	"github.com/bugly-tools/symup/internal/hash"
	"github.com/bugly-tools/symup/internal/recordlog"
	"github.com/bugly-tools/symup/internal/symbols"
	"github.com/bugly-tools/symup/internal/uploader"
)

// Candidate is one file queued for the upload decision step. Mapping
// files and symbol archives go to different endpoints with different
// content types.
type Candidate struct {
	Path          string
	IsMappingFile bool
}

// Planner runs the pipeline for one variant. Both record logs and the
// two collaborators are injected; the planner owns only the decisions.
type Planner struct {
	cfg       *config.Config
	genLog    *recordlog.Log
	uploadLog *recordlog.Log
	generator symbols.Generator
	uploader  uploader.Uploader
	logger    *slog.Logger
}

// New creates a planner for the given configuration and collaborators.
func New(cfg *config.Config, genLog, uploadLog *recordlog.Log, gen symbols.Generator, up uploader.Uploader, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Planner{
		cfg:       cfg,
		genLog:    genLog,
		uploadLog: uploadLog,
		generator: gen,
		uploader:  up,
		logger:    logger,
	}
}

// Run processes the resolved mapping files and native libraries of one
// variant. Per-file failures are logged and skipped; the returned error
// is fatal for this variant only (missing version name or credentials).
func (p *Planner) Run(mappingFiles, nativeLibs []string) error {
	if !p.cfg.Execute {
		return nil
	}

	if p.cfg.VersionName == "" {
		return fmt.Errorf("version name could not be resolved; cannot upload symbols")
	}

	var candidates []Candidate

	// Mapping files are never deduped by the generation log: only the
	// upload log decides whether they go out again.
	for _, mapping := range mappingFiles {
		if _, err := os.Stat(mapping); err != nil {
			p.logger.Info("mapping file not found, skipping", "path", mapping)
			continue
		}

		candidates = append(candidates, Candidate{Path: mapping, IsMappingFile: true})
	}

	for _, lib := range nativeLibs {
		symbolPath, ok := p.symbolFor(lib)
		if !ok {
			continue
		}

		candidates = append(candidates, Candidate{Path: symbolPath, IsMappingFile: false})
	}

	if !p.cfg.Upload || len(candidates) == 0 {
		return nil
	}

	if p.cfg.AppID == "" || p.cfg.AppKey == "" {
		return fmt.Errorf("app id and app key are required for upload")
	}

	target := p.cfg.Target()
	for _, c := range candidates {
		if p.uploadLog.Exists(c.Path) {
			p.logger.Info("already uploaded, skipping", "path", c.Path)
			continue
		}

		endpoint, contentType := p.cfg.UploadURL, uploader.ContentTypeMapping
		if !c.IsMappingFile {
			endpoint, contentType = p.cfg.SymbolUploadURL, uploader.ContentTypeSymbol
		}

		if !p.uploader.Upload(endpoint, target, c.Path, contentType) {
			p.logger.Error("upload failed", "path", c.Path)
			continue
		}

		p.logger.Info("uploaded", "path", c.Path)

		if h, err := hash.File(c.Path); err == nil {
			p.uploadLog.Append(c.Path, h)
		} else {
			p.logger.Warn("failed to hash uploaded file", "path", c.Path, "error", err)
		}
	}

	return nil
}

// symbolFor returns the symbol archive for a native library, reusing a
// previously generated one when the generation log still matches the
// binary's content and the recorded archive still exists.
func (p *Planner) symbolFor(lib string) (string, bool) {
	if recorded, found := p.genLog.Lookup(lib); found && recorded != "" {
		if _, err := os.Stat(recorded); err == nil {
			p.logger.Info("reusing symbol archive", "binary", lib, "symbol", recorded)
			return recorded, true
		}
	}

	symbolPath, err := p.generator.Generate(lib, p.cfg.OutputDir)
	if err != nil {
		p.logger.Error("symbol generation failed", "binary", lib, "error", err)
		return "", false
	}

	if h, err := hash.File(lib); err == nil {
		p.genLog.Append(lib, h, symbolPath)
	} else {
		p.logger.Warn("failed to hash binary", "path", lib, "error", err)
	}

	return symbolPath, true
}
