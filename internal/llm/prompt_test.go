package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestParseEditsAcceptsBareArray(t *testing.T) {
	edits, err := ParseEdits(`[{"find":"very big","replaceWith":"huge","reason":"Concise."}]`)
	if err != nil {
		t.Fatalf("ParseEdits: %v", err)
	}
	if len(edits) != 1 || edits[0].Find != "very big" || edits[0].ReplaceWith != "huge" {
		t.Fatalf("unexpected edits: %#v", edits)
	}
}

func TestParseEditsAcceptsWrapperAndProse(t *testing.T) {
	raw := "Sure! Here you go:\n{\"suggestions\":[{\"find\":\"a\",\"replaceWith\":\"b\",\"reason\":\"c\"}]}\nThanks."
	edits, err := ParseEdits(raw)
	if err != nil {
		t.Fatalf("ParseEdits: %v", err)
	}
	if len(edits) != 1 || edits[0].Reason != "c" {
		t.Fatalf("unexpected edits: %#v", edits)
	}
}

func TestParseEditsKeepsFindVerbatimAndDropsBlank(t *testing.T) {
	edits, err := ParseEdits(`[{"find":" leading space","replaceWith":"x","reason":"r"},{"find":"  ","replaceWith":"y","reason":"r"}]`)
	if err != nil {
		t.Fatalf("ParseEdits: %v", err)
	}
	if len(edits) != 1 || edits[0].Find != " leading space" {
		t.Fatalf("unexpected edits: %#v", edits)
	}
}

func TestParseEditsEmptyArrayIsNotAnError(t *testing.T) {
	edits, err := ParseEdits(`[]`)
	if err != nil {
		t.Fatalf("ParseEdits: %v", err)
	}
	if len(edits) != 0 {
		t.Fatalf("expected no edits, got %#v", edits)
	}
}

func TestParseEditsRejectsGarbage(t *testing.T) {
	if _, err := ParseEdits("definitely not json"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ParseEdits("   "); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestBuildRewritePromptQuotesInstruction(t *testing.T) {
	got := buildRewritePrompt("The cat sat.", "Please shorten this text.")
	want := "Based on the instruction \"Please shorten this text.\", rewrite the following text:\n\n---\nThe cat sat.\n---"
	if got != want {
		t.Fatalf("prompt mismatch\nwant %q\ngot  %q", want, got)
	}
}

func TestBuildTextOnlyPromptInlinesExtractedText(t *testing.T) {
	parts := []Part{
		{Name: "notes.pdf", MimeType: "application/pdf", Text: "quarterly numbers"},
		{Name: "photo.png", MimeType: "image/png", Base64: "AAAA", Text: "ignored"},
	}
	got := buildTextOnlyPrompt("Write a memo", parts)
	if !strings.HasPrefix(got, "Write a memo") {
		t.Fatalf("prompt should lead with the user text: %q", got)
	}
	if !strings.Contains(got, "--- Attached file: notes.pdf ---\nquarterly numbers") {
		t.Fatalf("pdf text not inlined: %q", got)
	}
	if strings.Contains(got, "photo.png") {
		t.Fatalf("images should not be inlined as text: %q", got)
	}
}

func TestClipTextRespectsRunes(t *testing.T) {
	if got := clipText("héllo", 2); got != "hé" {
		t.Fatalf("clipText = %q", got)
	}
	if got := clipText("short", 0); got != "short" {
		t.Fatalf("zero limit should disable clipping, got %q", got)
	}
}
