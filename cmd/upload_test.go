package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	quiet := newLogger(false)
	assert.False(t, quiet.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, quiet.Enabled(context.Background(), slog.LevelInfo))

	verbose := newLogger(true)
	assert.True(t, verbose.Enabled(context.Background(), slog.LevelDebug))
}

func TestRunUpload_NoVariants(t *testing.T) {
	viper.Reset()

	project := t.TempDir()
	rootCmd.SetArgs([]string{"upload", project})

	err := rootCmd.Execute()
	require.NoError(t, err)

	// Nothing was discovered, so no output directory was created.
	assert.NoDirExists(t, filepath.Join(project, "build", "symup"))
}

func TestRunUpload_MappingOnlyWithUploadDisabled(t *testing.T) {
	viper.Reset()

	project := t.TempDir()
	mapping := filepath.Join(project, "build", "outputs", "mapping", "release", "mapping.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(mapping), 0o755))
	require.NoError(t, os.WriteFile(mapping, []byte("a.b.c -> x"), 0o644))

	rootCmd.SetArgs([]string{
		"upload", project,
		"--app-id", "900012345",
		"--app-key", "secret",
		"--package", "com.example.app",
		"--version-name", "1.0.0",
		"--upload=false",
	})

	err := rootCmd.Execute()
	require.NoError(t, err)

	// The mapping file was enqueued but never uploaded, so neither
	// record log exists.
	outputDir := filepath.Join(project, "build", "symup")
	assert.DirExists(t, outputDir)
	assert.NoFileExists(t, filepath.Join(outputDir, symbolLogName))
	assert.NoFileExists(t, filepath.Join(outputDir, uploadLogName))
}

func TestRunUpload_MissingVersionNameFailsVariant(t *testing.T) {
	viper.Reset()

	project := t.TempDir()
	mapping := filepath.Join(project, "build", "outputs", "mapping", "release", "mapping.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(mapping), 0o755))
	require.NoError(t, os.WriteFile(mapping, []byte("a.b.c -> x"), 0o644))

	rootCmd.SetArgs([]string{
		"upload", project,
		"--app-id", "900012345",
		"--app-key", "secret",
		"--version-name", "",
	})

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 variants failed")
}
