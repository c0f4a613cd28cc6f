package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/inkwell/internal/assistant"
	"github.com/csheth/inkwell/internal/attach"
	"github.com/csheth/inkwell/internal/debounce"
	"github.com/csheth/inkwell/internal/suggest"
)

const defaultDebounce = 2 * time.Second

// Assistant is the completion backend as the editor sees it. Implementations
// recover from backend failures themselves and always return a usable value.
type Assistant interface {
	Name() string
	Generate(ctx context.Context, prompt string, files []attach.File) string
	Rewrite(ctx context.Context, text, instruction string) string
	Suggest(ctx context.Context, document string) []suggest.Candidate
}

// Loader resolves attachment references typed into the prompt screen.
type Loader interface {
	Load(ctx context.Context, ref string) (attach.File, error)
}

// Config wires runtime options into the TUI program.
type Config struct {
	Assistant Assistant
	Loader    Loader
	// Debounce is the quiet period before a suggestion pass. Zero means 2s.
	Debounce time.Duration
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	// Context is handed to every background job.
	Context context.Context

	scheduler debounce.Scheduler
	ids       func() string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Debounce <= 0 {
		config.Debounce = defaultDebounce
	}
	if config.Clipboard == nil {
		config.Clipboard = clipboard.WriteAll
	}
	if config.Loader == nil {
		config.Loader = attach.NewLoader(nil)
	}

	prompt := textarea.New()
	prompt.Placeholder = promptPlaceholder
	prompt.ShowLineNumbers = false
	prompt.CharLimit = 0
	prompt.MaxHeight = 0
	prompt.SetWidth(76)
	prompt.SetHeight(6)
	prompt.Focus()

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Prompt = ""
	editor.SetWidth(76)
	editor.SetHeight(12)

	attachInput := textinput.New()
	attachInput.Placeholder = attachPlaceholder
	attachInput.CharLimit = 1024
	attachInput.Width = 70

	customInput := textinput.New()
	customInput.Placeholder = customPlaceholder
	customInput.CharLimit = 280
	customInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(76, 12)
	vp.MouseWheelEnabled = true

	var setOpts []suggest.Option
	if config.ids != nil {
		setOpts = append(setOpts, suggest.WithIDGenerator(config.ids))
	}
	var debounceOpts []debounce.Option[string]
	if config.scheduler != nil {
		debounceOpts = append(debounceOpts, debounce.WithScheduler[string](config.scheduler))
	}

	return &model{
		config:       config,
		stage:        stageEmpty,
		mode:         modeNormal,
		layout:       newPageLayout(),
		prompt:       prompt,
		editor:       editor,
		attachInput:  attachInput,
		customInput:  customInput,
		spinner:      spin,
		viewport:     vp,
		help:         help.New(),
		keys:         newEditorKeys(),
		jobs:         newJobBus(config.Context),
		activeJobs:   map[string]jobSnapshot{},
		suggestions:  suggest.NewSet(setOpts...),
		debouncer:    debounce.New(documentDebounceID, config.Debounce, debounceOpts...),
		surfaceDirty: true,
		infoMessage:  "Describe what you want to write, then press ctrl+g.",
	}
}

type model struct {
	config Config
	stage  stage
	mode   interactionMode
	layout pageLayout

	prompt      textarea.Model
	editor      textarea.Model
	attachInput textinput.Model
	customInput textinput.Model
	// editorValue is the textarea content last synced with the document.
	editorValue string
	spinner     spinner.Model
	viewport    viewport.Model
	help        help.Model
	keys        editorKeys

	jobs       *jobBus
	activeJobs map[string]jobSnapshot

	attachments   []attach.File
	attachLoading bool
	overlay       overlay

	document   string
	cursor     int
	lines      []visualLine
	linesDoc   string
	linesWidth int
	selecting  bool
	anchor     int
	selection  *selection

	suggestions *suggest.Set
	spans       []suggest.Span
	focusedID   string
	debouncer   *debounce.Debouncer[string]

	suggestInFlight bool
	rewriteInFlight bool
	rewriteQueue    []rewriteRequest

	previewVisible bool
	previewDoc     string
	previewWidth   int
	previewContent string

	surfaceDirty bool
	helpVisible  bool
	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageEditing && m.mode == modeNormal {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.activeJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.activeJobs, msg.Snapshot.ID)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case generateResultMsg:
		return m.applyGeneration(msg)
	case rewriteResultMsg:
		return m.applyRewrite(msg)
	case debounce.FiredMsg:
		return m.startSuggestPass(msg)
	case suggestResultMsg:
		m.suggestInFlight = false
		added := m.suggestions.Reconcile(msg.candidates, m.document)
		m.refreshSpans()
		if len(added) > 0 {
			m.infoMessage = fmt.Sprintf("%d new suggestion(s). Press tab to review.", len(added))
		}
		return m, nil
	case attachResultMsg:
		m.attachLoading = false
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("attach %s: %v", msg.ref, msg.err)
			return m, nil
		}
		if m.stage != stageEmpty {
			log.Printf("[jobs] attachment %s arrived after generation started; ignoring", msg.file.Name)
			return m, nil
		}
		m.attachments = append(m.attachments, msg.file)
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Attached %s (%s, %s).", msg.file.Name, msg.file.MimeType, humanSize(msg.file.Size))
		return m, nil
	case copyResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("clipboard: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Copied %d characters to the clipboard.", msg.chars)
		return m, nil
	}
	return m, nil
}

func (m *model) busy() bool {
	return m.stage == stageGenerating || m.rewriteInFlight || m.suggestInFlight || m.attachLoading
}

func (m *model) applyLayout() {
	m.viewport.Width = m.layout.surfaceWidth
	m.viewport.Height = m.layout.surfaceHeight
	m.editor.SetWidth(m.layout.surfaceWidth)
	m.editor.SetHeight(m.layout.surfaceHeight)
	m.prompt.SetWidth(m.layout.surfaceWidth)
	m.prompt.SetHeight(m.layout.promptHeight)
	m.help.Width = m.layout.windowWidth
	m.markSurfaceDirty()
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageEmpty:
		return m.handleEmptyKey(key)
	case stageGenerating:
		return m, nil
	case stageEditing:
		switch {
		case m.overlay == overlayToolbar:
			return m.handleToolbarKey(key)
		case m.overlay == overlayCustom:
			return m.handleCustomKey(key)
		case m.mode == modeEdit:
			return m.handleEditKey(key)
		}
		return m.handleNormalKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleEmptyKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay == overlayAttach {
		switch key.Type {
		case tea.KeyEsc:
			m.overlay = overlayNone
			m.attachInput.SetValue("")
			m.attachInput.Blur()
			return m, m.prompt.Focus()
		case tea.KeyEnter:
			ref := strings.TrimSpace(m.attachInput.Value())
			if ref == "" {
				m.errorMessage = "Enter a file path or URL, or press Esc."
				return m, nil
			}
			m.attachInput.SetValue("")
			m.attachInput.Blur()
			m.overlay = overlayNone
			m.attachLoading = true
			m.errorMessage = ""
			m.infoMessage = fmt.Sprintf("Attaching %s…", ref)
			return m, tea.Batch(m.prompt.Focus(), m.spinner.Tick, m.jobs.Start(jobKindAttach, attachJob(m.config.Loader, ref)))
		}
		var cmd tea.Cmd
		m.attachInput, cmd = m.attachInput.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+o":
		m.overlay = overlayAttach
		m.prompt.Blur()
		m.infoMessage = "Attach a file: Enter to add, Esc to cancel."
		return m, m.attachInput.Focus()
	case "ctrl+x":
		if len(m.attachments) == 0 {
			m.infoMessage = "No attachments to remove."
			return m, nil
		}
		last := m.attachments[len(m.attachments)-1]
		m.attachments = m.attachments[:len(m.attachments)-1]
		m.infoMessage = fmt.Sprintf("Removed %s.", last.Name)
		return m, nil
	case "ctrl+g":
		return m.startGeneration()
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(key)
	return m, cmd
}

func (m *model) canGenerate() bool {
	return strings.TrimSpace(m.prompt.Value()) != "" && !m.attachLoading
}

func (m *model) startGeneration() (tea.Model, tea.Cmd) {
	if strings.TrimSpace(m.prompt.Value()) == "" {
		m.errorMessage = "Describe what you want to write before generating."
		return m, nil
	}
	if m.attachLoading {
		m.infoMessage = "Wait for the attachment to finish loading."
		return m, nil
	}
	m.stage = stageGenerating
	m.document = ""
	m.errorMessage = ""
	m.infoMessage = "Drafting your document…"
	m.prompt.Blur()
	return m, tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindGenerate, generateJob(m.config.Assistant, m.prompt.Value(), m.attachments)))
}

func (m *model) applyGeneration(msg generateResultMsg) (tea.Model, tea.Cmd) {
	m.stage = stageEditing
	m.mode = modeNormal
	m.overlay = overlayNone
	m.cursor = 0
	m.infoMessage = "Draft ready. Select text with v, then press t to rewrite it."
	return m, m.setDocument(msg.text)
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// setDocument replaces the document and schedules a suggestion pass. Line
// endings are normalised to \n on the way in.
func (m *model) setDocument(text string) tea.Cmd {
	text = lineEndings.Replace(text)
	if text == m.document {
		return nil
	}
	m.document = text
	if m.cursor > len(m.document) {
		m.cursor = len(m.document)
	}
	m.cursor = runeStart(m.document, m.cursor)
	if sel := m.selection; sel != nil {
		if sel.End > len(m.document) || m.document[sel.Start:sel.End] != sel.Text {
			m.selection = nil
			m.selecting = false
		}
	}
	m.refreshSpans()
	return m.debouncer.Set(text)
}

func (m *model) refreshSpans() {
	m.spans = suggest.Annotate(m.document, m.suggestions.All())
	if m.focusedID != "" {
		if _, ok := m.suggestions.Get(m.focusedID); !ok {
			m.focusedID = ""
		}
	}
	m.markSurfaceDirty()
}

func (m *model) startSuggestPass(msg debounce.FiredMsg) (tea.Model, tea.Cmd) {
	document, ok := m.debouncer.Resolve(msg)
	if !ok {
		return m, nil
	}
	if m.suggestInFlight {
		log.Printf("[jobs] suggest skipped: a pass is already running")
		return m, nil
	}
	m.suggestInFlight = true
	return m, tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindSuggest, suggestJob(m.config.Assistant, document)))
}

func (m *model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.previewVisible {
		switch {
		case key.Matches(msg, m.keys.Preview), msg.Type == tea.KeyEsc:
			m.previewVisible = false
			m.markSurfaceDirty()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.toggleHelp()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	m.ensureLines()
	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveTo(prevRune(m.document, m.cursor))
	case key.Matches(msg, m.keys.Right):
		m.moveTo(nextRune(m.document, m.cursor))
	case key.Matches(msg, m.keys.Up):
		m.moveVertical(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveVertical(1)
	case key.Matches(msg, m.keys.WordNext):
		m.moveTo(nextWord(m.document, m.cursor))
	case key.Matches(msg, m.keys.WordPrev):
		m.moveTo(prevWord(m.document, m.cursor))
	case key.Matches(msg, m.keys.LineStart):
		m.moveTo(m.lines[lineIndexAt(m.lines, m.cursor)].start)
	case key.Matches(msg, m.keys.LineEnd):
		m.moveTo(m.lines[lineIndexAt(m.lines, m.cursor)].end)
	case key.Matches(msg, m.keys.Top):
		m.moveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveTo(len(m.document))
	case key.Matches(msg, m.keys.Select):
		m.toggleSelecting()
	case key.Matches(msg, m.keys.Clear):
		m.selecting = false
		m.selection = nil
		m.markSurfaceDirty()
	case key.Matches(msg, m.keys.Toolbar):
		m.openToolbar()
	case key.Matches(msg, m.keys.NextSug):
		m.cycleFocus(1)
	case key.Matches(msg, m.keys.PrevSug):
		m.cycleFocus(-1)
	case key.Matches(msg, m.keys.Accept):
		return m, m.acceptFocused()
	case key.Matches(msg, m.keys.Reject):
		m.rejectFocused()
	case key.Matches(msg, m.keys.Edit):
		return m, m.enterEditMode()
	case key.Matches(msg, m.keys.Preview):
		m.previewVisible = true
		m.markSurfaceDirty()
	case key.Matches(msg, m.keys.Copy):
		if m.document == "" {
			m.infoMessage = "Nothing to copy yet."
			return m, nil
		}
		return m, m.jobs.Start(jobKindCopy, copyJob(m.config.Clipboard, m.document))
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) toggleHelp() {
	m.helpVisible = !m.helpVisible
	m.help.ShowAll = m.helpVisible
}

func (m *model) moveTo(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(m.document) {
		pos = len(m.document)
	}
	m.cursor = pos
	if m.selecting {
		m.updateSelection()
	}
	if sp, ok := suggest.At(m.spans, m.cursor); ok {
		m.focusedID = sp.ID
	}
	m.markSurfaceDirty()
}

func (m *model) moveVertical(delta int) {
	idx := lineIndexAt(m.lines, m.cursor)
	target := idx + delta
	if target < 0 || target >= len(m.lines) {
		return
	}
	col := runeCells(m.document[m.lines[idx].start:m.cursor])
	m.moveTo(offsetAtColumn(m.document, m.lines[target], col))
}

func (m *model) toggleSelecting() {
	if m.selecting {
		m.selecting = false
		if m.selection != nil {
			m.infoMessage = "Selection kept. Press t to rewrite it."
		}
		m.markSurfaceDirty()
		return
	}
	m.selecting = true
	m.anchor = m.cursor
	m.updateSelection()
	m.infoMessage = "Selecting: move to extend, v to finish, t to rewrite."
}

// updateSelection spans from the anchor to the cursor, including the
// character under whichever end is further right.
func (m *model) updateSelection() {
	start, end := m.anchor, m.cursor
	if start > end {
		start, end = end, start
	}
	end = nextRune(m.document, end)
	if start >= end {
		m.selection = nil
		return
	}
	m.ensureLines()
	m.selection = &selection{
		Text:  m.document[start:end],
		Start: start,
		End:   end,
		Line:  lineIndexAt(m.lines, start),
	}
	m.markSurfaceDirty()
}

func (m *model) openToolbar() {
	m.selecting = false
	if m.selection == nil || strings.TrimSpace(m.selection.Text) == "" {
		m.infoMessage = "Select some text with v first."
		return
	}
	m.overlay = overlayToolbar
	m.infoMessage = "Pick a rewrite. Esc closes the toolbar."
}

func (m *model) handleToolbarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = overlayNone
		m.infoMessage = ""
		return m, nil
	case "1":
		return m, m.requestRewrite(assistant.ActionImprove, "")
	case "2":
		return m, m.requestRewrite(assistant.ActionShorten, "")
	case "3":
		return m, m.requestRewrite(assistant.ActionExpand, "")
	case "4":
		return m, m.requestRewrite(assistant.ActionFix, "")
	case "5", "c":
		m.overlay = overlayCustom
		m.customInput.SetValue("")
		return m, m.customInput.Focus()
	}
	return m, nil
}

func (m *model) handleCustomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.customInput.Blur()
		m.overlay = overlayToolbar
		return m, nil
	case tea.KeyEnter:
		value := m.customInput.Value()
		if assistant.ActionCustom.Instruction(value) == "" {
			m.infoMessage = "Type an instruction first, or press Esc."
			return m, nil
		}
		m.customInput.Blur()
		return m, m.requestRewrite(assistant.ActionCustom, value)
	}
	var cmd tea.Cmd
	m.customInput, cmd = m.customInput.Update(msg)
	return m, cmd
}

// requestRewrite turns the current selection into a rewrite request. The
// selection is consumed; the request runs now or waits its turn.
func (m *model) requestRewrite(action assistant.Action, custom string) tea.Cmd {
	sel := m.selection
	instruction := action.Instruction(custom)
	if sel == nil || instruction == "" {
		m.overlay = overlayNone
		return nil
	}
	req := rewriteRequest{Text: sel.Text, Instruction: instruction, Label: action.Label()}
	m.selection = nil
	m.selecting = false
	m.overlay = overlayNone
	m.customInput.SetValue("")
	m.markSurfaceDirty()

	if m.rewriteInFlight {
		m.rewriteQueue = append(m.rewriteQueue, req)
		m.infoMessage = fmt.Sprintf("%s queued (%d waiting).", req.Label, len(m.rewriteQueue))
		return nil
	}
	return m.startRewrite(req)
}

func (m *model) startRewrite(req rewriteRequest) tea.Cmd {
	m.rewriteInFlight = true
	m.infoMessage = fmt.Sprintf("%s: “%s”", req.Label, previewText(req.Text, 48))
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindRewrite, rewriteJob(m.config.Assistant, req)))
}

// applyRewrite lands a rewrite whenever it arrives, even if the document has
// moved on since the request was made.
func (m *model) applyRewrite(msg rewriteResultMsg) (tea.Model, tea.Cmd) {
	m.rewriteInFlight = false
	updated := suggest.ReplaceFirst(m.document, msg.request.Text, msg.text)
	switch {
	case !strings.Contains(m.document, msg.request.Text):
		m.infoMessage = fmt.Sprintf("%s: the original text is gone; nothing replaced.", msg.request.Label)
	case updated == m.document:
		m.infoMessage = fmt.Sprintf("%s left the text unchanged.", msg.request.Label)
	default:
		m.infoMessage = fmt.Sprintf("%s applied.", msg.request.Label)
	}

	cmds := []tea.Cmd{m.setDocument(updated)}
	if m.mode == modeEdit {
		m.loadEditor()
	}
	if len(m.rewriteQueue) > 0 {
		next := m.rewriteQueue[0]
		m.rewriteQueue = m.rewriteQueue[1:]
		cmds = append(cmds, m.startRewrite(next))
	}
	return m, tea.Batch(cmds...)
}

func (m *model) cycleFocus(delta int) {
	held := m.suggestions.All()
	if len(held) == 0 {
		m.infoMessage = "No suggestions yet."
		return
	}
	idx := -1
	for i, sug := range held {
		if sug.ID == m.focusedID {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta < 0:
		idx = len(held) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + delta + len(held)) % len(held)
	}
	m.focusedID = held[idx].ID
	if sp, ok := suggest.First(m.spans, m.focusedID); ok {
		m.cursor = sp.Start
	}
	m.markSurfaceDirty()
}

// targetSuggestion is the focused suggestion, or the one under the cursor.
func (m *model) targetSuggestion() string {
	if m.focusedID != "" {
		return m.focusedID
	}
	if sp, ok := suggest.At(m.spans, m.cursor); ok {
		return sp.ID
	}
	return ""
}

func (m *model) acceptFocused() tea.Cmd {
	id := m.targetSuggestion()
	if id == "" {
		m.infoMessage = "Move onto a suggestion (tab) to accept it."
		return nil
	}
	sug, _ := m.suggestions.Get(id)
	updated, ok := m.suggestions.Accept(id, m.document)
	if !ok {
		return nil
	}
	m.focusedID = ""
	m.infoMessage = fmt.Sprintf("Accepted: %s", previewText(sug.Reason, 60))
	cmd := m.setDocument(updated)
	m.refreshSpans()
	return cmd
}

func (m *model) rejectFocused() {
	id := m.targetSuggestion()
	if id == "" {
		m.infoMessage = "Move onto a suggestion (tab) to reject it."
		return
	}
	if m.suggestions.Reject(id) {
		m.focusedID = ""
		m.infoMessage = "Suggestion dismissed."
		m.refreshSpans()
	}
}

func (m *model) enterEditMode() tea.Cmd {
	m.mode = modeEdit
	m.selecting = false
	m.loadEditor()
	row, col := rowColumn(m.document, m.cursor)
	for guard := len(m.document); m.editor.Line() > row && guard > 0; guard-- {
		m.editor.CursorUp()
	}
	m.editor.SetCursor(col)
	m.infoMessage = "Editing. Esc returns to normal mode."
	return m.editor.Focus()
}

func (m *model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.leaveEditMode()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	// The textarea expands tabs, so its value only replaces the document
	// once a key has actually changed it.
	if value := m.editor.Value(); value != m.editorValue {
		m.editorValue = value
		return m, tea.Batch(cmd, m.setDocument(value))
	}
	return m, cmd
}

func (m *model) loadEditor() {
	m.editor.SetValue(m.document)
	m.editorValue = m.editor.Value()
}

func (m *model) leaveEditMode() {
	m.mode = modeNormal
	info := m.editor.LineInfo()
	m.cursor = offsetForRowColumn(m.document, m.editor.Line(), info.StartColumn+info.ColumnOffset)
	m.editor.Blur()
	m.infoMessage = ""
	m.markSurfaceDirty()
}

func (m *model) markSurfaceDirty() {
	m.surfaceDirty = true
}

// ensureLines re-wraps the document when it or the surface width changed.
func (m *model) ensureLines() {
	if m.lines != nil && m.linesDoc == m.document && m.linesWidth == m.layout.surfaceWidth {
		return
	}
	m.lines = layoutLines(m.document, m.layout.surfaceWidth)
	m.linesDoc = m.document
	m.linesWidth = m.layout.surfaceWidth
}

func (m *model) refreshSurfaceIfDirty() {
	if m.surfaceDirty {
		m.refreshSurface()
	}
}

func (m *model) refreshSurface() {
	m.surfaceDirty = false
	if m.previewVisible {
		m.viewport.SetContent(m.renderPreview())
		return
	}
	m.ensureLines()
	state := surfaceState{
		document:  m.document,
		lines:     m.lines,
		cursor:    m.cursor,
		showCaret: true,
		spans:     m.spans,
		focusedID: m.focusedID,
	}
	if m.selection != nil {
		state.selStart = m.selection.Start
		state.selEnd = m.selection.End
	}
	m.viewport.SetContent(strings.Join(renderSurface(state), "\n"))
	m.ensureCursorVisible()
}

func (m *model) ensureCursorVisible() {
	if len(m.lines) == 0 {
		return
	}
	line := lineIndexAt(m.lines, m.cursor)
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
		return
	}
	lowerBound := m.viewport.YOffset + m.viewport.Height - 1
	if line > lowerBound {
		target := line - m.viewport.Height + 1
		if target < 0 {
			target = 0
		}
		m.viewport.SetYOffset(target)
	}
}

// rowColumn converts a byte offset into a logical row and rune column.
func rowColumn(document string, pos int) (int, int) {
	if pos > len(document) {
		pos = len(document)
	}
	before := document[:pos]
	row := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return row, len([]rune(before[lineStart:]))
}

func offsetForRowColumn(document string, row, col int) int {
	offset := 0
	for i := 0; i < row; i++ {
		nl := strings.IndexByte(document[offset:], '\n')
		if nl < 0 {
			return len(document)
		}
		offset += nl + 1
	}
	for col > 0 && offset < len(document) && document[offset] != '\n' {
		offset = nextRune(document, offset)
		col--
	}
	return offset
}

func runeStart(document string, pos int) int {
	for pos > 0 && pos < len(document) && !utf8.RuneStart(document[pos]) {
		pos--
	}
	return pos
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
