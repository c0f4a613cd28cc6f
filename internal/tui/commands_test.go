package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/inkwell/internal/attach"
	"github.com/csheth/inkwell/internal/debounce"
	"github.com/csheth/inkwell/internal/suggest"
)

type fakeAssistant struct {
	generated  string
	rewritten  string
	candidates []suggest.Candidate

	lastPrompt      string
	lastFiles       []attach.File
	lastInstruction string
	lastDocument    string
}

func (f *fakeAssistant) Name() string { return "fake" }

func (f *fakeAssistant) Generate(ctx context.Context, prompt string, files []attach.File) string {
	f.lastPrompt = prompt
	f.lastFiles = files
	return f.generated
}

func (f *fakeAssistant) Rewrite(ctx context.Context, text, instruction string) string {
	f.lastInstruction = instruction
	return f.rewritten
}

func (f *fakeAssistant) Suggest(ctx context.Context, document string) []suggest.Candidate {
	f.lastDocument = document
	return f.candidates
}

type fakeLoader struct {
	file attach.File
	err  error
	ref  string
}

func (f *fakeLoader) Load(ctx context.Context, ref string) (attach.File, error) {
	f.ref = ref
	return f.file, f.err
}

// firedLog records the debounce messages the model schedules, in order.
type firedLog struct {
	msgs []debounce.FiredMsg
}

func (l *firedLog) schedule(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	msg := fn(time.Time{}).(debounce.FiredMsg)
	l.msgs = append(l.msgs, msg)
	return func() tea.Msg { return msg }
}

func (l *firedLog) last(t *testing.T) debounce.FiredMsg {
	t.Helper()
	if len(l.msgs) == 0 {
		t.Fatal("no debounce timer was scheduled")
	}
	return l.msgs[len(l.msgs)-1]
}

func newTestModel(t *testing.T, a Assistant) (*model, *firedLog) {
	t.Helper()
	fired := &firedLog{}
	ids := 0
	teaModel, ok := New(Config{
		Assistant: a,
		Loader:    &fakeLoader{},
		Clipboard: func(string) error { return nil },
		scheduler: fired.schedule,
		ids: func() string {
			ids++
			return fmt.Sprintf("sug-%d", ids)
		},
	}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel, fired
}

func TestGenerateJobPassesPromptAndFiles(t *testing.T) {
	fake := &fakeAssistant{generated: "A draft."}
	files := []attach.File{{Name: "brief.txt", MimeType: "text/plain"}}

	msg, err := generateJob(fake, "write a poem", files)(context.Background())
	if err != nil {
		t.Fatalf("generate job: %v", err)
	}
	result, ok := msg.(generateResultMsg)
	if !ok || result.text != "A draft." {
		t.Fatalf("unexpected payload %#v", msg)
	}
	if fake.lastPrompt != "write a poem" || len(fake.lastFiles) != 1 {
		t.Fatalf("assistant saw prompt %q files %d", fake.lastPrompt, len(fake.lastFiles))
	}
}

func TestRewriteJobCarriesRequest(t *testing.T) {
	fake := &fakeAssistant{rewritten: "short"}
	req := rewriteRequest{Text: "a long sentence", Instruction: "Please shorten this text.", Label: "Shorten"}

	msg, _ := rewriteJob(fake, req)(context.Background())
	result := msg.(rewriteResultMsg)
	if result.request != req || result.text != "short" {
		t.Fatalf("unexpected payload %#v", result)
	}
	if fake.lastInstruction != req.Instruction {
		t.Fatalf("instruction not forwarded: %q", fake.lastInstruction)
	}
}

func TestSuggestJobReturnsCandidates(t *testing.T) {
	fake := &fakeAssistant{candidates: []suggest.Candidate{{Find: "a", ReplaceWith: "b"}}}
	msg, _ := suggestJob(fake, "a document")(context.Background())
	if got := msg.(suggestResultMsg).candidates; len(got) != 1 {
		t.Fatalf("unexpected candidates %#v", got)
	}
	if fake.lastDocument != "a document" {
		t.Fatalf("document not forwarded: %q", fake.lastDocument)
	}
}

func TestAttachJobReportsErrors(t *testing.T) {
	loader := &fakeLoader{err: errors.New("no such file")}
	msg, err := attachJob(loader, "missing.pdf")(context.Background())
	if err == nil {
		t.Fatal("expected error to reach the job bus")
	}
	result := msg.(attachResultMsg)
	if result.err == nil || result.ref != "missing.pdf" {
		t.Fatalf("unexpected payload %#v", result)
	}
}

func TestCopyJobWritesDocument(t *testing.T) {
	var copied string
	msg, err := copyJob(func(s string) error { copied = s; return nil }, "héllo")(context.Background())
	if err != nil {
		t.Fatalf("copy job: %v", err)
	}
	if copied != "héllo" || msg.(copyResultMsg).chars != 5 {
		t.Fatalf("copied %q, payload %#v", copied, msg)
	}
}

func TestPreviewText(t *testing.T) {
	if got := previewText("  a\n b  ", 10); got != "a b" {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := previewText("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
