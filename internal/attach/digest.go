package attach

import (
	"crypto/sha1"
	"regexp"
	"strings"
)

// MaxTextRunes bounds the extracted text inlined into a prompt for
// backends that cannot read the raw attachment.
const MaxTextRunes = 60000

var (
	blankLines = regexp.MustCompile(`\n[ \t]*\n\s*`)
	anySpace   = regexp.MustCompile(`\s+`)
)

// condense normalises line endings and clips text to budget runes. With
// dedupe set, paragraphs repeated verbatim (running headers and footers
// on every PDF page) are kept only once.
func condense(text string, budget int, dedupe bool) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if dedupe {
		text = dropRepeatedParagraphs(text)
	}
	text = strings.TrimSpace(text)
	if budget <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return strings.TrimSpace(string(runes[:budget-1])) + "…"
}

func dropRepeatedParagraphs(text string) string {
	seen := map[[sha1.Size]byte]bool{}
	var kept []string
	for _, para := range blankLines.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		key := sha1.Sum([]byte(strings.ToLower(anySpace.ReplaceAllString(para, " "))))
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, para)
	}
	return strings.Join(kept, "\n\n")
}
