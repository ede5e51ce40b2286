package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/QRStudio/internal/common"
	"github.com/yildizm/QRStudio/internal/config"
	"github.com/yildizm/QRStudio/internal/emoji"
	"github.com/yildizm/QRStudio/internal/export"
	"github.com/yildizm/QRStudio/internal/logger"
	"github.com/yildizm/QRStudio/internal/render"
	"github.com/yildizm/QRStudio/internal/trigger"
)

var (
	watchExport bool
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Watch a text file and review its content as it changes",
		Long: `Monitor a file and treat every write as an edit of the QR content.

Edits go through the same debounce window as the studio, so a burst of
saves produces a single analysis of the final content. With --export a
PNG is written on every change. Press Ctrl+C to stop watching.`,
		Example: `  qrstudio watch link.txt
  qrstudio watch --export --lang en link.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchExport, "export", false, "export a PNG on every change")

	return cmd
}

// watchSession feeds file contents into a debouncer
type watchSession struct {
	path      string
	qr        common.QRConfig
	exporter  *export.Exporter
	debouncer *trigger.Debouncer
	log       *logger.Logger

	mu   sync.Mutex
	out  io.Writer
	last string
	seen bool
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := GetLogger("watch")

	path := filepath.Clean(args[0])
	if err := validateWatchFilePath(path); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	contentAnalyzer, closeAnalyzer := newAnalyzer(ctx, cfg, log)
	defer closeAnalyzer()

	session := newWatchSession(cfg, path, cmd.OutOrStdout(), log)
	session.debouncer = trigger.NewDebouncer(ctx, trigger.New(trigger.Options{
		Delay:        cfg.Analysis.Debounce,
		MinLength:    cfg.Analysis.MinLength,
		DiscardStale: cfg.Analysis.DiscardStale,
	}), contentAnalyzer.Analyze, session.printResult)
	defer session.debouncer.Close()

	watcher, err := createWatcher(filepath.Dir(path))
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching file: %s\n", path)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	// The current content counts as the first edit
	session.reload()

	return runWatchLoop(ctx, watcher, session)
}

func newWatchSession(cfg *config.Config, path string, out io.Writer, log *logger.Logger) *watchSession {
	s := &watchSession{
		path: path,
		qr:   cfg.QR.ToQRConfig(),
		out:  out,
		log:  log,
	}
	if watchExport {
		s.exporter = newExporter(cfg)
	}
	return s
}

// reload reads the file and records an edit when its content changed
func (s *watchSession) reload() {
	// #nosec G304 - path is validated by validateWatchFilePath
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Warn("failed to read %s: %v", s.path, err)
		return
	}
	content := strings.TrimRight(string(data), "\r\n")

	s.mu.Lock()
	if s.seen && content == s.last {
		s.mu.Unlock()
		return
	}
	s.seen = true
	s.last = content
	s.mu.Unlock()

	s.log.Debug("content changed (%d characters)", len([]rune(content)))
	if s.debouncer != nil {
		s.debouncer.Edit(content)
	}
	if s.exporter != nil {
		s.exportPNG(content)
	}
}

// exportPNG renders content with the configured settings and saves a PNG
func (s *watchSession) exportPNG(content string) {
	qr := s.qr
	qr.Value = content

	surface, err := render.Render(qr)
	if err != nil {
		s.log.Warn("cannot render content: %v", err)
		return
	}

	artifact, err := s.exporter.ExportPNG(surface)
	if err != nil {
		s.log.Error("PNG export failed: %v", err)
		return
	}

	s.println(fmt.Sprintf("%s %s (%s)", emoji.GetEmoji("image"), artifact.Path, humanize.Bytes(uint64(artifact.Size))))
}

// printResult is called from the debouncer for every published result
func (s *watchSession) printResult(content string, result common.AIResult) {
	s.println(fmt.Sprintf("%s %s: %s", emoji.ForSafety(result.IsSafe), truncateContent(content, 40), result.Suggestion))
}

func (s *watchSession) println(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, line)
}

func truncateContent(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher watches dir. Watching the directory rather than the file
// survives editors that save by renaming a temporary file over it.
func createWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return watcher, nil
}

// runWatchLoop runs the main watch loop until ctx is cancelled
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, session *watchSession) error {
	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			handleWatchEvent(event, session)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// handleWatchEvent reloads the session for writes to the watched file
func handleWatchEvent(event fsnotify.Event, session *watchSession) {
	if filepath.Clean(event.Name) != session.path {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
		session.reload()
	}
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	// Check for empty path
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	// Clean the path to resolve . and .. elements
	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if config.HasParentRef(cleanPath) {
		return fmt.Errorf("path traversal not allowed")
	}

	// For watch operations, ensure the file exists and is a regular file
	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
