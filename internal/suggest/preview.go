package suggest

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChunkKind classifies a piece of a preview.
type ChunkKind int

const (
	ChunkEqual ChunkKind = iota
	ChunkDelete
	ChunkInsert
)

// Chunk is one run of a before/after preview.
type Chunk struct {
	Kind ChunkKind
	Text string
}

// Preview diffs find against replaceWith for display next to a suggestion.
func Preview(find, replaceWith string) []Chunk {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(find, replaceWith, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]Chunk, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var kind ChunkKind
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			kind = ChunkDelete
		case diffmatchpatch.DiffInsert:
			kind = ChunkInsert
		default:
			kind = ChunkEqual
		}
		chunks = append(chunks, Chunk{Kind: kind, Text: d.Text})
	}
	return chunks
}
