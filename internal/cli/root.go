package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yildizm/QRStudio/internal/config"
	"github.com/yildizm/QRStudio/internal/emoji"
	"github.com/yildizm/QRStudio/internal/i18n"
	"github.com/yildizm/QRStudio/internal/logger"
	"github.com/yildizm/QRStudio/internal/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	noEmoji bool
	lang    string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qrstudio [text]",
		Short: "QR code studio with AI content review",
		Long: `QRStudio renders QR codes from text or links, lets you tune colors,
size and error correction, and exports them as PNG images or PDF documents.

While you type, the content is reviewed by a generative AI model that
returns a one-sentence suggestion and a safety verdict. Without an API key
the studio keeps working and shows a fallback message instead.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: preRun,
		RunE:              runStudio,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "interface and suggestion language (bn, en)")

	// Add subcommands
	rootCmd.AddCommand(newStudioCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// preRun loads the configuration and applies global flags on top of it.
// The config subcommands load their own file and skip this step.
func preRun(cmd *cobra.Command, args []string) error {
	// Auto-disable emojis on Windows if not explicitly set
	if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
		noEmoji = true
	}
	emoji.SetEmojiDisabled(noEmoji)

	if isConfigCommand(cmd) {
		return nil
	}

	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	if verbose {
		cfg.Output.Verbose = true
	}
	if lang != "" {
		if !i18n.Supported(lang) {
			return fmt.Errorf("unsupported language: %s (must be one of: bn, en)", lang)
		}
		cfg.Analysis.Language = lang
	}
	if noColor {
		cfg.Output.ColorMode = "never"
	}
	if cfg.Output.ColorMode == "never" {
		if err := os.Setenv("NO_COLOR", "1"); err != nil {
			return err
		}
	}
	ui.SetThemeByName(cfg.UI.Theme)

	globalConfig = cfg
	return nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "QRStudio %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers

// GetGlobalConfig returns the configuration loaded for this invocation
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		globalConfig = config.DefaultConfig()
	}
	return globalConfig
}

// GetLogger returns a stderr logger for component
func GetLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

func isVerbose() bool {
	return verbose || (globalConfig != nil && globalConfig.Output.Verbose)
}

func useColor() bool {
	switch GetGlobalConfig().Output.ColorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return !noColor && os.Getenv("NO_COLOR") == ""
	}
}

func translator() *i18n.Translator {
	return i18n.New(GetGlobalConfig().Analysis.Language)
}
