package cmd

import (
	"fmt"
	"os"

	"github.com/bugly-tools/symup/internal/config"
	"github.com/bugly-tools/symup/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:          "symup",
	Short:        "Bugly debug-symbol uploader",
	Long:         `Uploads Proguard mapping files and native symbol tables to a Bugly-compatible crash-reporting backend, skipping files already uploaded.`,
	RunE:         runUpload,
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().String("app-id", "", "Bugly application id")
	rootCmd.PersistentFlags().String("app-key", "", "Bugly application key")
	rootCmd.PersistentFlags().String("package", "", "Android package name")
	rootCmd.PersistentFlags().String("version-name", "", "Application version name")
	rootCmd.PersistentFlags().StringP("output-dir", "o", "", "Directory for symbol archives and record logs")
	rootCmd.PersistentFlags().String("symtool", "", "Path to the symbol extraction tool")
	rootCmd.PersistentFlags().Bool("execute", true, "Run the pipeline (false disables generation and upload)")
	rootCmd.PersistentFlags().Bool("upload", true, "Upload artifacts after generation")
	rootCmd.PersistentFlags().Bool("library", false, "Treat the project as a library module")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(uploadCmd)

	viper.SetDefault("upload_url", config.DefaultUploadURL)
	viper.SetDefault("symbol_upload_url", config.DefaultSymbolUploadURL)
	viper.SetDefault("symtool_path", config.DefaultSymtoolPath)
	viper.SetDefault("execute", config.DefaultExecute)
	viper.SetDefault("upload", config.DefaultUpload)
}
