package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestJobBusFinishRecordsOutcome(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var logged []string
	bus := newJobBus(context.Background())
	bus.now = func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}
	bus.logf = func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}

	started := jobSnapshot{ID: "rewrite-1", Kind: jobKindRewrite, Status: jobStatusRunning, StartedAt: bus.now()}
	done := bus.finish(started, errors.New("timeout"))
	if done.Status != jobStatusFailed || done.Err != "timeout" {
		t.Fatalf("unexpected snapshot %#v", done)
	}
	if done.Duration() != 250*time.Millisecond {
		t.Fatalf("unexpected duration %s", done.Duration())
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "rewrite-1 failed") {
		t.Fatalf("unexpected log %q", logged)
	}

	ok := bus.finish(started, nil)
	if ok.Status != jobStatusSucceeded || ok.Err != "" {
		t.Fatalf("unexpected snapshot %#v", ok)
	}
}

func TestJobBusNumbersJobsPerBus(t *testing.T) {
	bus := newJobBus(nil)
	bus.logf = func(string, ...any) {}
	runner := func(context.Context) (tea.Msg, error) { return nil, nil }
	if bus.Start(jobKindCopy, runner) == nil || bus.Start(jobKindCopy, runner) == nil {
		t.Fatal("Start should return a command")
	}
	if got := bus.seq.Load(); got != 2 {
		t.Fatalf("expected two jobs, got %d", got)
	}
	if (jobSnapshot{}).Duration() != 0 {
		t.Fatal("running jobs have no duration yet")
	}
}
