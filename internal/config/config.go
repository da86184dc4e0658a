package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bugly-tools/symup/internal/uploader"
)

// Default configuration values
const (
	DefaultUploadURL       = "https://astat.bugly.qq.com/upload/map"
	DefaultSymbolUploadURL = "https://astat.bugly.qq.com/upload/symbol"
	DefaultSymtoolPath     = "bugly-symtool"
	DefaultExecute         = true
	DefaultUpload          = true
)

// Holds the configuration options for symup
type Config struct {
	// Bugly application credentials
	AppID  string
	AppKey string

	// Android application identity
	PackageName string
	VersionName string

	// Endpoint for mapping-file uploads
	UploadURL string

	// Endpoint for symbol-archive uploads
	SymbolUploadURL string

	// Path to the symbol extraction tool
	SymtoolPath string

	// Directory for generated symbol archives and the record logs
	OutputDir string

	// Run the pipeline at all (false disables generation and upload)
	Execute bool

	// Perform the network upload step
	Upload bool

	// Enable verbose output
	Verbose bool
}

func Load() (*Config, error) {
	cfg := &Config{
		AppID:           viper.GetString("app_id"),
		AppKey:          viper.GetString("app_key"),
		PackageName:     viper.GetString("package_name"),
		VersionName:     viper.GetString("version_name"),
		UploadURL:       viper.GetString("upload_url"),
		SymbolUploadURL: viper.GetString("symbol_upload_url"),
		SymtoolPath:     viper.GetString("symtool_path"),
		OutputDir:       viper.GetString("output_dir"),
		Execute:         viper.GetBool("execute"),
		Upload:          viper.GetBool("upload"),
		Verbose:         viper.GetBool("verbose"),
	}

	// Apply defaults if not set
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}

	if cfg.SymbolUploadURL == "" {
		cfg.SymbolUploadURL = DefaultSymbolUploadURL
	}

	if cfg.SymtoolPath == "" {
		cfg.SymtoolPath = DefaultSymtoolPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	// Resolve the output directory
	if c.OutputDir != "" {
		abs, err := filepath.Abs(c.OutputDir)
		if err != nil {
			return fmt.Errorf("invalid output directory: %v", err)
		}

		c.OutputDir = abs
	}

	// A bare tool name is resolved through PATH; only explicit paths
	// are made absolute.
	if strings.ContainsRune(c.SymtoolPath, '/') || strings.ContainsRune(c.SymtoolPath, '\\') {
		abs, err := filepath.Abs(c.SymtoolPath)
		if err != nil {
			return fmt.Errorf("invalid symtool path: %v", err)
		}

		c.SymtoolPath = abs
	}

	// Missing credentials and version name are checked per variant by
	// the planner, not here: generation may still proceed without them.
	return nil
}

// Target returns the per-variant upload metadata.
func (c *Config) Target() uploader.Target {
	return uploader.Target{
		AppID:       c.AppID,
		AppKey:      c.AppKey,
		PackageName: c.PackageName,
		VersionName: c.VersionName,
	}
}
