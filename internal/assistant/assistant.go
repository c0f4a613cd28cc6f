// Package assistant wraps an llm.Client with the fallbacks the editor relies
// on. None of its operations return errors: backend failures are logged and
// replaced by a value the UI can apply directly.
package assistant

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/csheth/inkwell/internal/attach"
	"github.com/csheth/inkwell/internal/llm"
	"github.com/csheth/inkwell/internal/suggest"
)

// GenerateFailure replaces the document when generation fails.
const GenerateFailure = "There was an error generating the content. Please try again."

// DefaultMinSuggestWords is the smallest document worth a suggestion pass.
const DefaultMinSuggestWords = 20

// Options tunes an Assistant.
type Options struct {
	// Timeout bounds each backend call. Zero leaves the caller's context alone.
	Timeout time.Duration
	// MinSuggestWords of zero selects DefaultMinSuggestWords.
	MinSuggestWords int
}

// Assistant is safe for concurrent use if its client is.
type Assistant struct {
	client llm.Client
	opts   Options
}

// New returns an Assistant backed by client.
func New(client llm.Client, opts Options) *Assistant {
	if opts.MinSuggestWords <= 0 {
		opts.MinSuggestWords = DefaultMinSuggestWords
	}
	return &Assistant{client: client, opts: opts}
}

// Name reports the backend in use.
func (a *Assistant) Name() string {
	if a.client == nil {
		return "offline"
	}
	return a.client.Name()
}

func (a *Assistant) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.opts.Timeout > 0 {
		return context.WithTimeout(ctx, a.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// Generate drafts a document from prompt and files. Failures and empty
// responses yield GenerateFailure.
func (a *Assistant) Generate(ctx context.Context, prompt string, files []attach.File) string {
	if a.client == nil {
		return GenerateFailure
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	text, err := a.client.Generate(ctx, prompt, attach.Parts(files))
	if err != nil {
		log.Printf("[assistant] generate failed: %v", err)
		return GenerateFailure
	}
	if strings.TrimSpace(text) == "" {
		log.Printf("[assistant] generate returned no text")
		return GenerateFailure
	}
	return text
}

// Rewrite applies instruction to text. On failure the original text comes
// back unchanged, so applying the result is always safe.
func (a *Assistant) Rewrite(ctx context.Context, text, instruction string) string {
	if a.client == nil {
		return text
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	out, err := a.client.Rewrite(ctx, text, instruction)
	if err != nil {
		log.Printf("[assistant] rewrite failed: %v", err)
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		log.Printf("[assistant] rewrite returned no text")
		return text
	}
	return out
}

// Suggest asks for edits to document. Short documents are skipped without a
// backend call; failures yield no candidates.
func (a *Assistant) Suggest(ctx context.Context, document string) []suggest.Candidate {
	if a.client == nil || WordCount(document) < a.opts.MinSuggestWords {
		return nil
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	edits, err := a.client.Suggest(ctx, document)
	if err != nil {
		log.Printf("[assistant] suggest failed: %v", err)
		return nil
	}
	candidates := make([]suggest.Candidate, 0, len(edits))
	for _, e := range edits {
		candidates = append(candidates, suggest.Candidate{
			Find:        e.Find,
			ReplaceWith: e.ReplaceWith,
			Reason:      e.Reason,
		})
	}
	return candidates
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
