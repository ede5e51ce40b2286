package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/QRStudio/internal/analyzer"
	"github.com/yildizm/QRStudio/internal/formatter"
	"github.com/yildizm/QRStudio/internal/logger"
)

var (
	analyzeFormat     string
	analyzeOutputFile string
	analyzeStrict     bool
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <text|->",
		Short: "Review QR content with the configured AI provider",
		Long: `Ask the AI provider whether the content is a safe link or text and
print its one-sentence suggestion. Use "-" to read the content from stdin.

Provider failures print the fallback result, exactly as the studio would.
Use --strict to fail instead.`,
		Example: `  qrstudio analyze "https://example.com/path"
  qrstudio analyze "https://example.com" -o json
  echo "WIFI:S:home;T:WPA;P:secret;;" | qrstudio analyze - --lang en`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFormat, "output", "o", "", "output format (text, json, markdown)")
	cmd.Flags().StringVarP(&analyzeOutputFile, "file", "f", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&analyzeStrict, "strict", false, "exit with an error when the provider call fails")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := GetLogger("analyze")

	content, err := readContent(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	format := analyzeFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	f, err := formatter.New(format, useColor())
	if err != nil {
		return err
	}

	contentAnalyzer, closeAnalyzer := newAnalyzer(cmd.Context(), cfg, log)
	defer closeAnalyzer()

	report, err := contentAnalyzer.AnalyzeDetailed(cmd.Context(), content)
	if err != nil {
		if analyzeStrict {
			return fmt.Errorf("analysis failed: %w", err)
		}
		log.WarnWithFields("content analysis failed", []logger.Field{logger.Error(err)})
		report = &analyzer.Report{
			Content:    content,
			Result:     contentAnalyzer.Fallback(),
			AnalyzedAt: time.Now(),
		}
	}

	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return writeOutput(cmd.OutOrStdout(), output, analyzeOutputFile)
}

// readContent returns arg, or stdin without its trailing newline for "-"
func readContent(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// writeOutput writes output to path, or to w when path is empty
func writeOutput(w io.Writer, output []byte, path string) error {
	if path == "" {
		_, err := w.Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, path); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - user-selected output path
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Sync to ensure data is written
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
