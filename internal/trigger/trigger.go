package trigger

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/yildizm/QRStudio/internal/common"
)

// State is the lifecycle position of the analysis trigger
type State int

const (
	// StateIdle means no edit is waiting and no call is in flight
	StateIdle State = iota
	// StateScheduled means an edit is waiting for its debounce window to elapse
	StateScheduled
	// StateRunning means at least one analysis call is in flight
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

const (
	DefaultDelay     = 1500 * time.Millisecond
	DefaultMinLength = 5
)

// Options configures the trigger
type Options struct {
	// Delay is how long content must stay unchanged before analysis
	Delay time.Duration

	// MinLength is the rune count content must exceed to be analyzed
	MinLength int

	// DiscardStale drops results whose generation is older than the last
	// published one. When false the last call to complete wins.
	DiscardStale bool
}

// DefaultOptions returns a 1.5s window and a five-rune threshold
func DefaultOptions() Options {
	return Options{
		Delay:     DefaultDelay,
		MinLength: DefaultMinLength,
	}
}

// Trigger decides when content edits turn into analysis calls. It does not
// own a clock: callers arm a timer per edit and report back through Fire,
// which makes it usable both from a Bubble Tea loop and a real timer.
type Trigger struct {
	mu sync.Mutex

	opts      Options
	gen       uint64
	pending   bool
	content   string
	inFlight  int
	published uint64
	result    *common.AIResult
}

// New creates a trigger. A non-positive Delay and a negative MinLength fall
// back to defaults; MinLength 0 lets any non-blank content through.
func New(opts Options) *Trigger {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.MinLength < 0 {
		opts.MinLength = DefaultMinLength
	}
	return &Trigger{opts: opts}
}

// Delay returns the debounce window
func (t *Trigger) Delay() time.Duration {
	return t.opts.Delay
}

// Edit records a content change and returns its generation. Any timer armed
// for an earlier generation becomes stale.
func (t *Trigger) Edit(content string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.pending = true
	t.content = content
	return t.gen
}

// Fire is called when the timer for gen elapses. It returns the content
// snapshot to analyze and true only when gen is still current and the
// content qualifies; the caller must then call Complete exactly once.
func (t *Trigger) Fire(gen uint64) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || !t.pending {
		return "", false
	}
	t.pending = false

	if !t.qualifies(t.content) {
		return "", false
	}

	t.inFlight++
	return t.content, true
}

// Now skips the debounce window and starts a run for content immediately,
// superseding any pending timer. The threshold still applies.
func (t *Trigger) Now(content string) (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.pending = false
	t.content = content

	if !t.qualifies(content) {
		return t.gen, false
	}

	t.inFlight++
	return t.gen, true
}

// Complete publishes the result of the run started for gen. It reports
// whether the result replaced the current one.
func (t *Trigger) Complete(gen uint64, result common.AIResult) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inFlight > 0 {
		t.inFlight--
	}

	if t.opts.DiscardStale && gen < t.published {
		return false
	}

	if gen > t.published {
		t.published = gen
	}
	r := result
	t.result = &r
	return true
}

// State reports the current lifecycle state
func (t *Trigger) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.pending:
		return StateScheduled
	case t.inFlight > 0:
		return StateRunning
	default:
		return StateIdle
	}
}

// Running reports whether any analysis call is in flight
func (t *Trigger) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight > 0
}

// Result returns the last published result, or nil before the first one
func (t *Trigger) Result() *common.AIResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.result == nil {
		return nil
	}
	r := *t.result
	return &r
}

// Qualifies reports whether content is long enough to be analyzed
func (t *Trigger) Qualifies(content string) bool {
	return t.qualifies(content)
}

func (t *Trigger) qualifies(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	return utf8.RuneCountInString(content) > t.opts.MinLength
}
