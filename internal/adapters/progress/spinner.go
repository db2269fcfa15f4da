package progress

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// SpinnerSink renders setup progress with a spinner. Chains are polled
// concurrently, so every method is safe for concurrent use.
type SpinnerSink struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
	animate bool
	// waiting holds the latest message of every stage still in progress
	waiting map[string]string
	order   []string
}

// NewSpinnerSink creates a spinner-based progress sink writing to stderr
func NewSpinnerSink() *SpinnerSink {
	return newSpinnerSink(os.Stderr, !color.NoColor)
}

func newSpinnerSink(out io.Writer, animate bool) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{
		out:     out,
		spinner: s,
		animate: animate,
		waiting: make(map[string]string),
	}
}

// OnProgress handles progress events
func (p *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := event.Stage
	if name, ok := event.Metadata.(string); ok && name != "" {
		key = name
	}

	if event.Spinner {
		if _, seen := p.waiting[key]; !seen {
			p.order = append(p.order, key)
		}
		p.waiting[key] = event.Message
		p.spinner.Suffix = " " + p.summary()
		if p.animate && !p.spinner.Active() {
			p.spinner.Start()
		}
		return
	}

	p.finish(key)
	p.printLocked(color.New(color.FgGreen), "✓ "+event.Message)
}

// Info prints an info message
func (p *SpinnerSink) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printLocked(color.New(color.FgCyan), message)
}

// Error prints an error message
func (p *SpinnerSink) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printLocked(color.New(color.FgRed), message)
}

// Stop halts the spinner, leaving the terminal clean
func (p *SpinnerSink) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waiting = make(map[string]string)
	p.order = nil
	p.spinner.Stop()
}

// printLocked writes a line above the spinner
func (p *SpinnerSink) printLocked(c *color.Color, message string) {
	wasActive := p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}

	_, _ = c.Fprintln(p.out, message)

	if wasActive && len(p.waiting) > 0 {
		p.spinner.Start()
	}
}

func (p *SpinnerSink) finish(key string) {
	if _, ok := p.waiting[key]; !ok {
		return
	}
	delete(p.waiting, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.spinner.Suffix = " " + p.summary()
}

// summary joins the in-progress messages in the order they started
func (p *SpinnerSink) summary() string {
	var out string
	for i, key := range p.order {
		if i > 0 {
			out += " | "
		}
		out += p.waiting[key]
	}
	return out
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
