package suggest

import (
	"sort"
	"strings"
)

// Span marks one occurrence of a held suggestion in the document as a byte
// range [Start, End).
type Span struct {
	Start int
	End   int
	Suggestion
}

// Annotate returns a span for every occurrence of every held suggestion's Find
// text, ordered by offset. Spans never overlap: where two suggestions compete
// for the same bytes, the one held first keeps them.
func Annotate(document string, held []Suggestion) []Span {
	var spans []Span
	for _, sug := range held {
		if sug.Find == "" {
			continue
		}
		for offset := 0; offset <= len(document); {
			idx := strings.Index(document[offset:], sug.Find)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(sug.Find)
			if !overlapsAny(spans, start, end) {
				spans = append(spans, Span{Start: start, End: end, Suggestion: sug})
			}
			offset = end
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

func overlapsAny(spans []Span, start, end int) bool {
	for _, sp := range spans {
		if start < sp.End && sp.Start < end {
			return true
		}
	}
	return false
}

// At returns the span covering byte offset pos.
func At(spans []Span, pos int) (Span, bool) {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > pos })
	if i < len(spans) && spans[i].Start <= pos {
		return spans[i], true
	}
	return Span{}, false
}

// First returns the earliest span belonging to id.
func First(spans []Span, id string) (Span, bool) {
	for _, sp := range spans {
		if sp.ID == id {
			return sp, true
		}
	}
	return Span{}, false
}
