package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

const (
	jobKindGenerate jobKind = "generate"
	jobKindRewrite  jobKind = "rewrite"
	jobKindSuggest  jobKind = "suggest"
	jobKindAttach   jobKind = "attach"
	jobKindCopy     jobKind = "copy"
)

type jobStatus string

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
}

func (s jobSnapshot) Duration() time.Duration {
	if s.CompletedAt.IsZero() {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}

func (s jobSnapshot) String() string {
	if s.Err != "" {
		return fmt.Sprintf("%s %s (duration=%s, err=%s)", s.ID, s.Status, s.Duration().Round(time.Millisecond), s.Err)
	}
	return fmt.Sprintf("%s %s (duration=%s)", s.ID, s.Status, s.Duration().Round(time.Millisecond))
}

// jobSignalMsg announces that a job has started.
type jobSignalMsg struct {
	Snapshot jobSnapshot
}

// jobResultEnvelope carries a runner's payload back into Update, where it is
// unwrapped and dispatched like any other message.
type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

// jobRunner does the blocking work. A non-nil error only marks the job as
// failed in the log; the payload still reaches Update.
type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	ctx  context.Context
	seq  atomic.Int64
	now  func() time.Time
	logf func(string, ...any)
}

func newJobBus(ctx context.Context) *jobBus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &jobBus{ctx: ctx, now: time.Now, logf: log.Printf}
}

// Start announces the job, runs it off the UI loop and delivers the result.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	snapshot := jobSnapshot{
		ID:        fmt.Sprintf("%s-%d", kind, b.seq.Add(1)),
		Kind:      kind,
		Status:    jobStatusRunning,
		StartedAt: b.now(),
	}
	announce := func() tea.Msg {
		return jobSignalMsg{Snapshot: snapshot}
	}
	run := func() tea.Msg {
		payload, err := runner(b.ctx)
		return jobResultEnvelope{Snapshot: b.finish(snapshot, err), Payload: payload}
	}
	return tea.Sequence(announce, run)
}

func (b *jobBus) finish(snapshot jobSnapshot, err error) jobSnapshot {
	snapshot.CompletedAt = b.now()
	snapshot.Status = jobStatusSucceeded
	if err != nil {
		snapshot.Status = jobStatusFailed
		snapshot.Err = err.Error()
	}
	b.logf("[jobs] %s", snapshot)
	return snapshot
}
