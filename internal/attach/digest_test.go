package attach

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCondenseDropsRepeatedParagraphs(t *testing.T) {
	text := "Journal of Things  page\r\n\r\nFirst finding.\n\njournal of things page\n\nSecond finding.\n"
	got := condense(text, 0, true)
	want := "Journal of Things  page\n\nFirst finding.\n\nSecond finding."
	if got != want {
		t.Fatalf("unexpected text\nwant %q\ngot  %q", want, got)
	}
}

func TestCondenseKeepsRepeatsWithoutDedupe(t *testing.T) {
	text := "---\n\nbody\n\n---"
	if got := condense(text, 0, false); got != text {
		t.Fatalf("text files should keep repeated paragraphs, got %q", got)
	}
}

func TestCondenseClipsToBudget(t *testing.T) {
	got := condense(strings.Repeat("é", 50), 10, false)
	if n := utf8.RuneCountInString(got); n != 10 {
		t.Fatalf("expected 10 runes, got %d (%q)", n, got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("clipped text should end with an ellipsis, got %q", got)
	}
}
