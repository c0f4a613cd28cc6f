package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// editorKeys are the normal-mode bindings of the Editing stage.
type editorKeys struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	WordNext  key.Binding
	WordPrev  key.Binding
	LineStart key.Binding
	LineEnd   key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Select    key.Binding
	Clear     key.Binding
	Toolbar   key.Binding
	NextSug   key.Binding
	PrevSug   key.Binding
	Accept    key.Binding
	Reject    key.Binding
	Edit      key.Binding
	Preview   key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newEditorKeys() editorKeys {
	return editorKeys{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		WordNext:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next word")),
		WordPrev:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "prev word")),
		LineStart: key.NewBinding(key.WithKeys("0", "home"), key.WithHelp("0", "line start")),
		LineEnd:   key.NewBinding(key.WithKeys("$", "end"), key.WithHelp("$", "line end")),
		Top:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
		Select:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Toolbar:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "rewrite selection")),
		NextSug:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next suggestion")),
		PrevSug:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev suggestion")),
		Accept:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept")),
		Reject:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject")),
		Edit:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit")),
		Preview:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Toolbar, k.NextSug, k.Accept, k.Reject, k.Edit, k.Help}
}

// FullHelp implements help.KeyMap.
func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.WordNext, k.WordPrev},
		{k.LineStart, k.LineEnd, k.Top, k.Bottom, k.Select, k.Clear},
		{k.Toolbar, k.NextSug, k.PrevSug, k.Accept, k.Reject},
		{k.Edit, k.Preview, k.Copy, k.Help, k.Quit},
	}
}
