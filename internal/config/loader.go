package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Loader handles configuration loading from various sources
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadForUpload loads configuration for the upload command, layering
// defaults, the global config file, a project-local config file found
// from the project directory, and finally the bound command flags.
func (l *Loader) LoadForUpload(cmd *cobra.Command, projectDir string) (*Config, error) {
	l.setupViperDefaults()
	l.loadGlobalConfig()
	l.loadLocalConfig(projectDir)
	l.bindCommandFlags(cmd)

	return Load()
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("upload_url", DefaultUploadURL)
	viper.SetDefault("symbol_upload_url", DefaultSymbolUploadURL)
	viper.SetDefault("symtool_path", DefaultSymtoolPath)
	viper.SetDefault("execute", DefaultExecute)
	viper.SetDefault("upload", DefaultUpload)
}

// loadGlobalConfig loads global configuration from the user config dir
func (l *Loader) loadGlobalConfig() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return
	}

	globalDir := filepath.Join(configDir, "symup")

	for _, ext := range []string{"yml", "yaml", "json", "toml"} {
		globalPath := filepath.Join(globalDir, "config."+ext)

		if _, err := os.Stat(globalPath); err == nil {
			viper.SetConfigFile(globalPath)

			if err := viper.ReadInConfig(); err == nil {
				break
			}
		}
	}
}

// loadLocalConfig loads local configuration from the project directory
func (l *Loader) loadLocalConfig(projectDir string) {
	if projectDir == "" {
		return
	}

	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return // silently ignore, Load() will handle validation
	}

	localPath := FindLocalConfig(absDir)
	if localPath != "" {
		viper.SetConfigFile(localPath)
		_ = viper.ReadInConfig()
	}
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("app_id", cmd.Flags().Lookup("app-id"))
	_ = viper.BindPFlag("app_key", cmd.Flags().Lookup("app-key"))
	_ = viper.BindPFlag("package_name", cmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("version_name", cmd.Flags().Lookup("version-name"))
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("symtool_path", cmd.Flags().Lookup("symtool"))
	_ = viper.BindPFlag("execute", cmd.Flags().Lookup("execute"))
	_ = viper.BindPFlag("upload", cmd.Flags().Lookup("upload"))
	_ = viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
}
