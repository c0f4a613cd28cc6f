// Package debounce settles a rapidly changing value inside a bubbletea
// program. Only one timer slot exists: every Set supersedes the previous one,
// and a value is released once it has stayed unchanged for the quiet period.
package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FiredMsg is delivered when a debounce timer expires. Pass it to Resolve.
type FiredMsg struct {
	ID  string
	Gen uint64
}

// Scheduler starts a timer that produces a message after d.
type Scheduler func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Debouncer holds the latest value and the generation of its timer.
type Debouncer[T any] struct {
	id       string
	quiet    time.Duration
	gen      uint64
	pending  T
	armed    bool
	schedule Scheduler
}

// Option configures a Debouncer.
type Option[T any] func(*Debouncer[T])

// WithScheduler replaces tea.Tick, mostly for tests driving a fake clock.
func WithScheduler[T any](s Scheduler) Option[T] {
	return func(d *Debouncer[T]) {
		if s != nil {
			d.schedule = s
		}
	}
}

// New returns a Debouncer whose FiredMsgs carry id.
func New[T any](id string, quiet time.Duration, opts ...Option[T]) *Debouncer[T] {
	d := &Debouncer[T]{id: id, quiet: quiet, schedule: tea.Tick}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Quiet reports the settle period.
func (d *Debouncer[T]) Quiet() time.Duration {
	return d.quiet
}

// Set records v as the latest value and returns the timer command for it.
// Any timer already running becomes stale.
func (d *Debouncer[T]) Set(v T) tea.Cmd {
	d.gen++
	d.pending = v
	d.armed = true
	gen := d.gen
	id := d.id
	return d.schedule(d.quiet, func(time.Time) tea.Msg {
		return FiredMsg{ID: id, Gen: gen}
	})
}

// Resolve returns the settled value when msg belongs to the most recent Set
// and has not been resolved before.
func (d *Debouncer[T]) Resolve(msg FiredMsg) (T, bool) {
	var zero T
	if msg.ID != d.id || msg.Gen != d.gen || !d.armed {
		return zero, false
	}
	d.armed = false
	v := d.pending
	d.pending = zero
	return v, true
}

// Pending reports whether a value is waiting to settle.
func (d *Debouncer[T]) Pending() bool {
	return d.armed
}
