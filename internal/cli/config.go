package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/QRStudio/internal/config"
	"github.com/yildizm/QRStudio/internal/emoji"
)

const projectConfigFile = ".qrstudio.yaml"

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage QRStudio configuration",
		Long: `Manage QRStudio configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
		user       bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new QRStudio configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only essential settings.`,
		Example: `  # Create full config in current directory
  qrstudio config init

  # Create minimal config
  qrstudio config init --minimal

  # Create the per-user config
  qrstudio config init --user

  # Overwrite existing config
  qrstudio config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := outputPath
			switch {
			case path != "":
			case user:
				path = config.UserConfigPath()
			default:
				path = projectConfigFile
			}
			return writeSampleConfig(cmd, path, minimal, force)
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path for config file (default: .qrstudio.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")
	initCmd.Flags().BoolVar(&user, "user", false, "write the per-user config file")

	return initCmd
}

func writeSampleConfig(cmd *cobra.Command, path string, minimal, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	content := config.SampleConfig()
	if minimal {
		content = config.MinimalSampleConfig()
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Configuration file created at: %s\n", emoji.GetEmoji("success"), path)
	if minimal {
		fmt.Fprintf(out, "%s Created minimal configuration with essential settings\n", emoji.GetEmoji("document"))
	} else {
		fmt.Fprintf(out, "%s Created full configuration with all options and documentation\n", emoji.GetEmoji("document"))
	}
	return nil
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var (
		format     string
		configPath string
	)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from defaults, config files and environment
variable overrides. The API key is never printed in JSON output.`,
		Example: `  # Show config in YAML format
  qrstudio config show

  # Show config in JSON format
  qrstudio config show --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return showConfig(cmd, cfg, format)
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	showCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	return showCmd
}

func showConfig(cmd *cobra.Command, cfg *config.Config, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		masked := *cfg
		if masked.AI.APIKey != "" {
			masked.AI.APIKey = "********"
		}
		data, err := yaml.Marshal(&masked)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		fmt.Fprint(out, string(data))
	default:
		return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
	}
	return nil
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	var (
		configPath    string
		checkProvider bool
	)

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a QRStudio configuration file for syntax and semantic errors.

Checks the configuration file for:
- Valid YAML syntax
- Valid values for enums and ranges
- Colors the renderer can parse

With --check-provider the configured AI provider is contacted as well.`,
		Example: `  # Validate current config
  qrstudio config validate

  # Validate and reach the provider
  qrstudio config validate --check-provider`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd, configPath, checkProvider)
		},
	}

	validateCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	validateCmd.Flags().BoolVar(&checkProvider, "check-provider", false, "verify the AI provider is reachable")

	return validateCmd
}

func validateConfig(cmd *cobra.Command, path string, checkEndpoint bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.NewLoader().LoadConfig(path)
	if err != nil {
		fmt.Fprintf(out, "%s Configuration validation failed:\n", emoji.GetEmoji("error"))
		fmt.Fprintf(out, "   %v\n", err)
		return err
	}

	fmt.Fprintf(out, "%s Configuration is valid\n", emoji.GetEmoji("success"))
	for _, w := range cfg.Warnings() {
		fmt.Fprintf(out, "%s %s\n", emoji.GetEmoji("warning"), w)
	}

	exportDir := cfg.Export.Directory
	if exportDir == "" {
		exportDir = config.DefaultExportDir()
	}

	fmt.Fprintf(out, "%s Configuration summary:\n", emoji.GetEmoji("info"))
	fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
	fmt.Fprintf(out, "   AI Provider: %s\n", cfg.AI.Provider)
	fmt.Fprintf(out, "   Language: %s\n", cfg.Analysis.Language)
	fmt.Fprintf(out, "   Debounce: %s\n", cfg.Analysis.Debounce)
	fmt.Fprintf(out, "   Export Directory: %s\n", exportDir)

	if !checkEndpoint {
		return nil
	}
	if err := checkProvider(cmd.Context(), &cfg.AI); err != nil {
		fmt.Fprintf(out, "%s Provider %s is not usable: %v\n", emoji.GetEmoji("error"), cfg.AI.Provider, err)
		return err
	}
	fmt.Fprintf(out, "%s Provider %s is reachable\n", emoji.GetEmoji("success"), cfg.AI.Provider)
	return nil
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths QRStudio searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  qrstudio config path`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file search paths (in priority order):\n\n", emoji.GetEmoji("folder"))

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				status := " (not found)"
				if fileExists(path) {
					status = " (exists)"
				}

				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, status)
				if i < len(priority) {
					fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
				fmt.Fprintln(out)
			}

			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "%s Current config file: %s\n", emoji.GetEmoji("target"), currentConfig)
			} else {
				fmt.Fprintln(out, "No config file found, using defaults")
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s Environment variables with %s prefix will override file settings\n", emoji.GetEmoji("tip"), config.EnvPrefix)
		},
	}
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
