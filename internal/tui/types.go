package tui

type stage int

const (
	stageEmpty stage = iota
	stageGenerating
	stageEditing
)

func (s stage) String() string {
	switch s {
	case stageEmpty:
		return "empty"
	case stageGenerating:
		return "generating"
	case stageEditing:
		return "editing"
	default:
		return "unknown"
	}
}

type interactionMode int

const (
	modeNormal interactionMode = iota
	modeEdit
)

// overlay is the panel currently capturing keys on top of the stage.
type overlay int

const (
	overlayNone overlay = iota
	overlayAttach
	overlayToolbar
	overlayCustom
)

const heroTagline = "Draft with AI, then refine it line by line."

const (
	minSurfaceWidth          = 30
	surfaceHorizontalPadding = 4
	documentDebounceID       = "document"
)

const (
	promptPlaceholder = "Describe what you want to write…"
	attachPlaceholder = "Path or URL of a file to attach…"
	customPlaceholder = "Tell the AI how to rewrite the selection…"
	thinkingLabel     = "AI is thinking…"
)

// selection is the most recent non-empty range picked on the surface. line
// anchors the toolbar under the row where the selection starts.
type selection struct {
	Text  string
	Start int
	End   int
	Line  int
}

// rewriteRequest is one toolbar action waiting for, or holding, the rewrite
// slot.
type rewriteRequest struct {
	Text        string
	Instruction string
	Label       string
}
