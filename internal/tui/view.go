package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/inkwell/internal/assistant"
	"github.com/csheth/inkwell/internal/suggest"
)

func (m *model) View() string {
	switch m.stage {
	case stageEmpty:
		return m.viewEmpty()
	case stageGenerating:
		return m.viewGenerating()
	case stageEditing:
		return m.viewEditing()
	default:
		return ""
	}
}

func (m *model) viewEmpty() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("What should we write?"))
	b.WriteRune('\n')
	b.WriteString(m.prompt.View())
	if files := m.attachmentsView(); files != "" {
		b.WriteString("\n\n")
		b.WriteString(files)
	}
	if m.overlay == overlayAttach {
		b.WriteString("\n\n")
		b.WriteString(sectionHeaderStyle.Render("Attach a file"))
		b.WriteRune('\n')
		b.WriteString(m.attachInput.View())
	}

	hints := []keyHint{{"ctrl+o", "attach"}, {"ctrl+x", "remove last"}, {"ctrl+c", "quit"}}
	if m.canGenerate() {
		hints = append([]keyHint{{"ctrl+g", "generate"}}, hints...)
	}
	parts := []string{m.heroView(), b.String(), renderHints(hints)}
	if !m.canGenerate() {
		parts = append(parts, helperStyle.Render("Generate unlocks once the prompt has some text."))
	}
	parts = append(parts, m.messagesView()...)
	return joinNonEmpty(parts)
}

func (m *model) attachmentsView() string {
	if len(m.attachments) == 0 && !m.attachLoading {
		return ""
	}
	lines := []string{sectionHeaderStyle.Render("Attachments")}
	for _, file := range m.attachments {
		lines = append(lines, fmt.Sprintf(" • %s %s", file.Name, helperStyle.Render(fmt.Sprintf("(%s, %s)", file.MimeType, humanSize(file.Size)))))
	}
	if m.attachLoading {
		lines = append(lines, helperStyle.Render(fmt.Sprintf(" %s loading…", m.spinner.View())))
	}
	return strings.Join(lines, "\n")
}

func (m *model) viewGenerating() string {
	body := fmt.Sprintf("%s Drafting your document…", m.spinner.View())
	prompt := helperStyle.Render(wordwrap.String("Prompt: "+previewText(m.prompt.Value(), 240), m.layout.surfaceWidth))
	return joinNonEmpty([]string{m.heroView(), body, prompt})
}

func (m *model) viewEditing() string {
	parts := []string{m.sessionMeterView()}
	if m.mode == modeEdit {
		parts = append(parts, m.editor.View())
	} else {
		m.refreshSurfaceIfDirty()
		parts = append(parts, m.viewport.View())
	}
	switch m.overlay {
	case overlayToolbar, overlayCustom:
		parts = append(parts, m.toolbarView())
	default:
		if panel := m.suggestionPanelView(); panel != "" {
			parts = append(parts, panel)
		}
	}
	if status := m.statusLine(); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, m.messagesView()...)
	if m.mode == modeNormal {
		view := m.help.View(m.keys)
		if m.helpVisible {
			view = helpBoxStyle.Render(view)
		}
		parts = append(parts, view)
	} else {
		parts = append(parts, renderHints([]keyHint{{"esc", "back to normal mode"}, {"ctrl+c", "quit"}}))
	}
	return joinNonEmpty(parts)
}

func (m *model) messagesView() []string {
	var parts []string
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return parts
}

func (m *model) modeLabel() string {
	switch {
	case m.previewVisible:
		return "PREVIEW"
	case m.mode == modeEdit:
		return "EDIT"
	case m.selecting:
		return "SELECT"
	default:
		return "NORMAL"
	}
}

func (m *model) sessionMeterView() string {
	stats := []string{
		fmt.Sprintf("Mode %s", m.modeLabel()),
		fmt.Sprintf("Words %d", assistant.WordCount(m.document)),
		fmt.Sprintf("Suggestions %d", m.suggestions.Len()),
	}
	if n := len(m.rewriteQueue); n > 0 {
		stats = append(stats, fmt.Sprintf("Queued %d", n))
	}
	if m.config.Assistant != nil {
		stats = append(stats, m.config.Assistant.Name())
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) statusLine() string {
	if !m.rewriteInFlight && !m.suggestInFlight {
		return ""
	}
	return helperStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), thinkingLabel))
}

func (m *model) toolbarView() string {
	if m.selection == nil {
		return ""
	}
	header := sectionHeaderStyle.Render(fmt.Sprintf("Rewrite “%s” (line %d)", previewText(m.selection.Text, 40), m.selection.Line+1))
	var hints []keyHint
	for i, action := range assistant.Actions {
		hints = append(hints, keyHint{Key: fmt.Sprint(i + 1), Description: action.Label()})
	}
	hints = append(hints, keyHint{Key: "esc", Description: "close"})
	body := []string{header, renderHints(hints)}
	if m.overlay == overlayCustom {
		body = append(body, m.customInput.View(), helperStyle.Render("Enter to rewrite, Esc to go back."))
	}
	return toolbarStyle.Width(m.layout.surfaceWidth).Render(strings.Join(body, "\n"))
}

func (m *model) suggestionPanelView() string {
	if m.focusedID == "" {
		return ""
	}
	sug, ok := m.suggestions.Get(m.focusedID)
	if !ok {
		return ""
	}
	position := 0
	for i, held := range m.suggestions.All() {
		if held.ID == sug.ID {
			position = i + 1
			break
		}
	}
	width := m.layout.surfaceWidth - 4
	if width < 10 {
		width = 10
	}

	lines := []string{
		sectionHeaderStyle.Render(fmt.Sprintf("Suggestion %d of %d", position, m.suggestions.Len())),
		wordwrap.String(sug.Reason, width),
		wordwrap.String(renderChunks(suggest.Preview(sug.Find, sug.ReplaceWith)), width),
	}
	if _, found := suggest.First(m.spans, sug.ID); !found {
		lines = append(lines, helperStyle.Render("No longer found in the document; accepting leaves it unchanged."))
	}
	lines = append(lines, renderHints([]keyHint{{"a", "accept"}, {"x", "reject"}, {"tab", "next"}}))
	return panelBoxStyle.Width(m.layout.surfaceWidth).Render(strings.Join(lines, "\n"))
}

func renderChunks(chunks []suggest.Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		switch c.Kind {
		case suggest.ChunkDelete:
			b.WriteString(diffDeleteStyle.Render(c.Text))
		case suggest.ChunkInsert:
			b.WriteString(diffInsertStyle.Render(c.Text))
		default:
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// renderPreview renders the document as markdown, caching the last result.
func (m *model) renderPreview() string {
	width := m.layout.surfaceWidth
	if m.previewContent != "" && m.previewDoc == m.document && m.previewWidth == width {
		return m.previewContent
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	out := m.document
	if err == nil {
		if rendered, renderErr := renderer.Render(m.document); renderErr == nil {
			out = rendered
		} else {
			err = renderErr
		}
	}
	if err != nil {
		m.errorMessage = fmt.Sprintf("preview: %v", err)
		out = wordwrap.String(m.document, width)
	}
	m.previewDoc = m.document
	m.previewWidth = width
	m.previewContent = out
	return out
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline))
}

type keyHint struct {
	Key         string
	Description string
}

func renderHints(hints []keyHint) string {
	cells := make([]string, 0, len(hints))
	for _, hint := range hints {
		cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(hint.Key), keyDescStyle.Render(" "+hint.Description+"  ")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
