// Package clipboard writes text to the system clipboard through OSC 52
// terminal escapes and tracks the transient "copied" indicator.
package clipboard

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnavailable is returned when there is no terminal to write the escape to
var ErrUnavailable = errors.New("clipboard unavailable")

// CopiedDuration is how long the copied indicator stays on
const CopiedDuration = 2 * time.Second

// Copier places text on the clipboard
type Copier interface {
	Copy(text string) error
}

// OSC52 copies by emitting an OSC 52 sequence. Terminals that do not
// support it ignore the sequence.
type OSC52 struct {
	Out  io.Writer
	Term string // $TERM, selects the screen wrapper
	Tmux bool   // wrap for tmux passthrough
}

// NewOSC52 writes to stderr, wrapping the sequence for tmux or screen
// according to the environment
func NewOSC52() *OSC52 {
	return &OSC52{
		Out:  os.Stderr,
		Term: os.Getenv("TERM"),
		Tmux: os.Getenv("TMUX") != "",
	}
}

// Copy writes the sequence
func (c *OSC52) Copy(text string) error {
	if c == nil || c.Out == nil {
		return ErrUnavailable
	}

	seq := osc52.New(text)
	switch {
	case c.Tmux:
		seq = seq.Tmux()
	case strings.HasPrefix(c.Term, "screen"):
		seq = seq.Screen()
	}

	_, err := seq.WriteTo(c.Out)
	return err
}

// Helper copies text and raises the copied flag for CopiedDuration.
// Each copy starts a new generation; only the reset belonging to the
// latest generation lowers the flag, so a second copy restarts the
// window instead of being cut short by the first.
type Helper struct {
	mu       sync.Mutex
	copier   Copier
	duration time.Duration
	gen      uint64
	copied   bool
	timer    *time.Timer
	onChange func(copied bool)
}

// NewHelper creates a helper. A zero duration selects CopiedDuration.
func NewHelper(copier Copier, duration time.Duration) *Helper {
	if duration <= 0 {
		duration = CopiedDuration
	}
	return &Helper{copier: copier, duration: duration}
}

// OnChange registers a callback fired whenever the flag flips
func (h *Helper) OnChange(fn func(copied bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = fn
}

// Duration returns the indicator window
func (h *Helper) Duration() time.Duration {
	return h.duration
}

// Mark raises the flag and returns the new generation without touching
// the clipboard or arming a timer. Callers that schedule their own reset
// (a Bubble Tea tick) pass the generation back to Reset.
func (h *Helper) Mark() uint64 {
	h.mu.Lock()
	h.gen++
	gen := h.gen
	changed := !h.copied
	h.copied = true
	fn := h.onChange
	h.mu.Unlock()

	if changed && fn != nil {
		fn(true)
	}
	return gen
}

// Reset lowers the flag if gen is still the latest generation. It reports
// whether the flag was lowered.
func (h *Helper) Reset(gen uint64) bool {
	h.mu.Lock()
	if gen != h.gen || !h.copied {
		h.mu.Unlock()
		return false
	}
	h.copied = false
	fn := h.onChange
	h.mu.Unlock()

	if fn != nil {
		fn(false)
	}
	return true
}

// Copy writes text to the clipboard, raises the flag and arms a timer that
// lowers it after the duration. On failure the flag is left unchanged.
func (h *Helper) Copy(text string) error {
	if h.copier == nil {
		return ErrUnavailable
	}
	if err := h.copier.Copy(text); err != nil {
		return err
	}

	gen := h.Mark()

	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.duration, func() { h.Reset(gen) })
	h.mu.Unlock()

	return nil
}

// CopyOnly writes text without touching the flag
func (h *Helper) CopyOnly(text string) error {
	if h.copier == nil {
		return ErrUnavailable
	}
	return h.copier.Copy(text)
}

// Copied reports whether the indicator is on
func (h *Helper) Copied() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.copied
}

// Generation returns the latest copy generation
func (h *Helper) Generation() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gen
}

// Stop cancels any pending reset
func (h *Helper) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}
