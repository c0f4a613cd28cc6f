package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/csheth/inkwell/internal/suggest"
)

const tabWidth = 4

// visualLine is one wrapped row of the document, as byte offsets. end never
// includes the newline that terminates a logical line.
type visualLine struct {
	start int
	end   int
	// hard is set when the row is followed by a newline in the document.
	hard bool
}

func cellWidth(r rune) int {
	if r == '\t' {
		return tabWidth
	}
	return runewidth.RuneWidth(r)
}

// layoutLines wraps document into rows at most width cells wide, breaking
// after the last space when one is available.
func layoutLines(document string, width int) []visualLine {
	if width < 1 {
		width = 1
	}
	var lines []visualLine
	lineStart := 0
	for {
		nl := strings.IndexByte(document[lineStart:], '\n')
		lineEnd := len(document)
		if nl >= 0 {
			lineEnd = lineStart + nl
		}
		lines = append(lines, wrapLogical(document, lineStart, lineEnd, width)...)
		if nl < 0 {
			break
		}
		lines[len(lines)-1].hard = true
		lineStart = lineEnd + 1
	}
	return lines
}

func wrapLogical(document string, start, end, width int) []visualLine {
	var rows []visualLine
	rowStart := start
	cells := 0
	lastBreak := -1
	for i := start; i < end; {
		r, size := utf8.DecodeRuneInString(document[i:])
		w := cellWidth(r)
		if cells+w > width && i > rowStart {
			cut := i
			if lastBreak > rowStart {
				cut = lastBreak
			}
			rows = append(rows, visualLine{start: rowStart, end: cut})
			rowStart = cut
			lastBreak = -1
			cells = runeCells(document[rowStart:i])
			continue
		}
		cells += w
		i += size
		if r == ' ' {
			lastBreak = i
		}
	}
	return append(rows, visualLine{start: rowStart, end: end})
}

func runeCells(s string) int {
	n := 0
	for _, r := range s {
		n += cellWidth(r)
	}
	return n
}

// lineIndexAt returns the row holding byte offset pos. A position on a soft
// wrap boundary belongs to the following row.
func lineIndexAt(lines []visualLine, pos int) int {
	for i, ln := range lines {
		if pos < ln.end || (pos == ln.end && (ln.hard || i == len(lines)-1)) {
			if pos >= ln.start {
				return i
			}
		}
	}
	return len(lines) - 1
}

// offsetAtColumn finds the byte offset in ln closest to cell column col
// without passing it.
func offsetAtColumn(document string, ln visualLine, col int) int {
	cells := 0
	for i := ln.start; i < ln.end; {
		r, size := utf8.DecodeRuneInString(document[i:])
		w := cellWidth(r)
		if cells+w > col {
			return i
		}
		cells += w
		i += size
	}
	// The end of a soft-wrapped row belongs to the next row.
	if !ln.hard && ln.end < len(document) && ln.end > ln.start {
		return prevRune(document, ln.end)
	}
	return ln.end
}

func prevRune(document string, pos int) int {
	if pos <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(document[:pos])
	return pos - size
}

func nextRune(document string, pos int) int {
	if pos >= len(document) {
		return len(document)
	}
	_, size := utf8.DecodeRuneInString(document[pos:])
	return pos + size
}

// nextWord moves past the current word and any whitespace after it.
func nextWord(document string, pos int) int {
	for pos < len(document) {
		r, size := utf8.DecodeRuneInString(document[pos:])
		if unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	for pos < len(document) {
		r, size := utf8.DecodeRuneInString(document[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

// prevWord moves to the start of the previous word.
func prevWord(document string, pos int) int {
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(document[:pos])
		if !unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(document[:pos])
		if unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	return pos
}

// surfaceState is what renderSurface needs to paint a frame.
type surfaceState struct {
	document  string
	lines     []visualLine
	cursor    int
	showCaret bool
	selStart  int
	selEnd    int
	spans     []suggest.Span
	focusedID string
}

type cellStyle int

const (
	cellPlain cellStyle = iota
	cellAnnotated
	cellFocused
	cellSelected
	cellCaret
)

func (s surfaceState) styleAt(pos int) cellStyle {
	if s.showCaret && pos == s.cursor {
		return cellCaret
	}
	if s.selEnd > s.selStart && pos >= s.selStart && pos < s.selEnd {
		return cellSelected
	}
	if sp, ok := suggest.At(s.spans, pos); ok {
		if sp.ID == s.focusedID {
			return cellFocused
		}
		return cellAnnotated
	}
	return cellPlain
}

func styleFor(kind cellStyle) lipgloss.Style {
	switch kind {
	case cellAnnotated:
		return annotationStyle
	case cellFocused:
		return focusedAnnotationStyle
	case cellSelected:
		return selectionStyle
	case cellCaret:
		return caretStyle
	default:
		return lipgloss.NewStyle()
	}
}

// renderSurface paints every row, grouping runs of equal style.
func renderSurface(s surfaceState) []string {
	rows := make([]string, 0, len(s.lines))
	caretLine := -1
	if s.showCaret {
		caretLine = lineIndexAt(s.lines, s.cursor)
	}
	for idx, ln := range s.lines {
		var b strings.Builder
		var run strings.Builder
		current := cellPlain
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == cellPlain {
				b.WriteString(run.String())
			} else {
				b.WriteString(styleFor(current).Render(run.String()))
			}
			run.Reset()
		}
		for i := ln.start; i < ln.end; {
			r, size := utf8.DecodeRuneInString(s.document[i:])
			kind := s.styleAt(i)
			if kind != current {
				flush()
				current = kind
			}
			switch {
			case r == '\t':
				run.WriteString(strings.Repeat(" ", tabWidth))
			case unicode.IsControl(r):
			default:
				run.WriteRune(r)
			}
			i += size
		}
		flush()
		if idx == caretLine && s.cursor == ln.end {
			b.WriteString(caretStyle.Render(" "))
		}
		rows = append(rows, b.String())
	}
	return rows
}
