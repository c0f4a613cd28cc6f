package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/inkwell/internal/attach"
	"github.com/csheth/inkwell/internal/suggest"
)

type generateResultMsg struct {
	text string
}

type rewriteResultMsg struct {
	request rewriteRequest
	text    string
}

type suggestResultMsg struct {
	candidates []suggest.Candidate
}

type attachResultMsg struct {
	ref  string
	file attach.File
	err  error
}

type copyResultMsg struct {
	chars int
	err   error
}

// The assistant never fails outward, so generate, rewrite and suggest jobs
// always report success to the bus.

func generateJob(a Assistant, prompt string, files []attach.File) jobRunner {
	toSend := append([]attach.File(nil), files...)
	return func(ctx context.Context) (tea.Msg, error) {
		return generateResultMsg{text: a.Generate(ctx, prompt, toSend)}, nil
	}
}

func rewriteJob(a Assistant, req rewriteRequest) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		return rewriteResultMsg{request: req, text: a.Rewrite(ctx, req.Text, req.Instruction)}, nil
	}
}

func suggestJob(a Assistant, document string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		return suggestResultMsg{candidates: a.Suggest(ctx, document)}, nil
	}
}

func attachJob(loader Loader, ref string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		file, err := loader.Load(ctx, ref)
		return attachResultMsg{ref: ref, file: file, err: err}, err
	}
}

func copyJob(write func(string) error, text string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		err := write(text)
		return copyResultMsg{chars: len([]rune(text)), err: err}, err
	}
}

func previewText(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	if limit <= 0 || len([]rune(value)) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit-1]) + "…"
}
