package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/yildizm/QRStudio/internal/common"
)

// AnalyzeFunc performs one analysis call. It must not fail; faults are
// expected to come back as a fallback result.
type AnalyzeFunc func(ctx context.Context, content string) common.AIResult

// ResultFunc receives every published result
type ResultFunc func(content string, result common.AIResult)

// Debouncer drives a Trigger with real timers for headless use
type Debouncer struct {
	trigger  *Trigger
	analyze  AnalyzeFunc
	onResult ResultFunc
	ctx      context.Context

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	wg     sync.WaitGroup
}

// NewDebouncer wires analyze and onResult to trigger. ctx is passed to
// every analysis call.
func NewDebouncer(ctx context.Context, trigger *Trigger, analyze AnalyzeFunc, onResult ResultFunc) *Debouncer {
	return &Debouncer{
		trigger:  trigger,
		analyze:  analyze,
		onResult: onResult,
		ctx:      ctx,
	}
}

// Edit records a content change and re-arms the timer
func (d *Debouncer) Edit(content string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	gen := d.trigger.Edit(content)

	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	d.timer = time.AfterFunc(d.trigger.Delay(), func() {
		defer d.wg.Done()
		d.fire(gen)
	})
}

func (d *Debouncer) fire(gen uint64) {
	content, ok := d.trigger.Fire(gen)
	if !ok {
		return
	}

	result := d.analyze(d.ctx, content)
	if d.trigger.Complete(gen, result) && d.onResult != nil {
		d.onResult(content, result)
	}
}

// State reports the underlying trigger state
func (d *Debouncer) State() State {
	return d.trigger.State()
}

// Close cancels any pending timer and waits for in-flight calls
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.mu.Unlock()

	d.wg.Wait()
}
