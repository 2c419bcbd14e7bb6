// internal/tui/app.go
//
// The questionnaire TUI. It follows The Elm Architecture via bubbletea:
//
// 1. Model: the App struct below, wrapping a planner.Session
// 2. Update: key presses become session edits, navigation, and commands
// 3. View: the progress header, the active section, and the log tail
//
// Every edit is routed through planner.Session.Set, which saves the draft.

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/kingrea/bizplan/internal/config"
	"github.com/kingrea/bizplan/internal/draft"
	"github.com/kingrea/bizplan/internal/form"
	"github.com/kingrea/bizplan/internal/logbook"
	"github.com/kingrea/bizplan/internal/planner"
	"github.com/kingrea/bizplan/internal/report"
	"github.com/kingrea/bizplan/internal/summary"
)

// appState represents which "screen" we're on
type appState int

const (
	stateForm         appState = iota // Editing the current section
	stateTranscript                   // Pasting the optional meeting transcript
	stateSubmitting                   // Waiting on the summary service
	stateSummary                      // Reading the returned analysis
	stateConfirmClear                 // Asking before the draft is thrown away
	stateJump                         // Picking a section from the list
)

const (
	submittedNoAnalysis = "The form was submitted successfully, but we couldn't generate an AI analysis. You can still print your form."
	notConfiguredNotice = "AI analysis is not configured. Set OPENAI_API_KEY (or the variable named in .bizplan/config.yaml) and restart."
	logPanelLines       = 6
)

// MarkdownRenderer turns the returned analysis into terminal output.
type MarkdownRenderer func(markdown string, width int) (string, error)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithSummarizer replaces the configured summary client.
func WithSummarizer(s planner.Summarizer) AppOption {
	return func(a *App) {
		if s != nil {
			a.summarizer = s
		}
	}
}

// WithMarkdownRenderer overrides glamour rendering of the analysis.
func WithMarkdownRenderer(r MarkdownRenderer) AppOption {
	return func(a *App) {
		if r != nil {
			a.renderMarkdown = r
		}
	}
}

type summaryFinishedMsg struct {
	narrative string
	err       error
}

type sectionItem struct {
	section form.Section
	marker  string
}

func (i sectionItem) Title() string {
	return fmt.Sprintf("%s %d. %s", i.marker, i.section.Number, i.section.Title)
}
func (i sectionItem) Description() string { return fmt.Sprintf("%d fields", len(i.section.Fields)) }
func (i sectionItem) FilterValue() string { return i.section.Title }

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	session *planner.Session
	logbook *logbook.Logbook
	closer  io.Closer

	summarizer     planner.Summarizer
	renderMarkdown MarkdownRenderer

	// Editing
	editors   []fieldEditor
	focus     int
	scrollTop int
	fieldErrs form.ValidationErrors

	// Widgets
	progressBar progress.Model
	spinner     spinner.Model
	transcript  textarea.Model
	summaryView viewport.Model
	jumpMenu    list.Model

	summaryText string
	errPanel    string
	statusMsg   string

	// Log panel cache, refreshed when the journal grows.
	logTail  []string
	logTotal int
	logSize  int64

	width  int
	height int
}

// NewApp opens the project, restores any saved draft, and builds the UI.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.JournalPath())
	if err != nil {
		return nil, err
	}
	backend, closer, err := draft.OpenBackend(cfg)
	if err != nil {
		return nil, err
	}

	transcript := textarea.New()
	transcript.Placeholder = "Paste the meeting transcript here (optional)"
	transcript.ShowLineNumbers = false
	transcript.CharLimit = 0
	transcript.SetHeight(12)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	jumpMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	jumpMenu.Title = "Jump to section"
	jumpMenu.SetShowStatusBar(false)
	jumpMenu.SetFilteringEnabled(false)

	app := &App{
		state:          stateForm,
		config:         cfg,
		logbook:        lb,
		closer:         closer,
		summarizer:     summary.FromConfig(cfg, summary.NewLedger(cfg.UsageLedgerPath(), lb)),
		renderMarkdown: glamourRenderer,
		progressBar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:        spin,
		transcript:     transcript,
		summaryView:    viewport.New(80, 20),
		jumpMenu:       jumpMenu,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	store := draft.NewStore(backend, lb)
	app.session = planner.Open(store, planner.WithSummarizer(app.summarizer), planner.WithLogbook(lb))
	if app.session.Restored() {
		app.statusMsg = "Restored your saved draft."
	}
	app.logInfo("Session opened · backend: %s", cfg.StorageBackend())
	app.rebuildEditors()
	app.refreshLogTail()
	return app, nil
}

// Close releases the draft backend.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func glamourRenderer(markdown string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(20, width)))
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
	a.refreshLogTail()
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
	a.refreshLogTail()
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
	a.refreshLogTail()
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.focusCmd()
}

// refreshLogTail rereads the journal tail when the file has changed size.
// The session writes to the same journal, so this also runs after every
// update.
func (a *App) refreshLogTail() {
	if a.logbook == nil {
		return
	}
	size := a.logbook.Size()
	if size == a.logSize && a.logTail != nil {
		return
	}
	a.logSize = size
	a.logTail, a.logTotal = a.logbook.Tail(logPanelLines)
	if a.logTail == nil {
		a.logTail = []string{}
	}
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	a.refreshLogTail()
	return model, cmd
}

func (a *App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.progressBar.Width = max(20, msg.Width-30)
		a.transcript.SetWidth(max(20, msg.Width-8))
		a.summaryView.Width = max(20, msg.Width-4)
		a.summaryView.Height = max(5, msg.Height-8)
		a.jumpMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-6))
		for i := range a.editors {
			a.editors[i].setWidth(a.fieldWidth())
		}
		return a, nil

	case spinner.TickMsg:
		if a.state != stateSubmitting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case summaryFinishedMsg:
		return a.handleSummaryFinished(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.state {
		case stateForm:
			return a.updateForm(msg)
		case stateTranscript:
			return a.updateTranscript(msg)
		case stateSubmitting:
			return a, nil
		case stateSummary:
			return a.updateSummary(msg)
		case stateConfirmClear:
			return a.updateConfirmClear(msg)
		case stateJump:
			return a.updateJump(msg)
		}
	}
	return a, nil
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "tab", "down":
		if key == "down" && a.focusedKind() == form.KindLongText {
			break
		}
		return a, a.moveFocus(1)
	case "shift+tab", "up":
		if key == "up" && a.focusedKind() == form.KindLongText {
			break
		}
		return a, a.moveFocus(-1)
	case "ctrl+n", "pgdown":
		if a.session.Next() {
			return a, a.enterSection()
		}
		a.statusMsg = "This is the last section. Press ctrl+s to submit."
		return a, nil
	case "ctrl+p", "pgup":
		if a.session.Previous() {
			return a, a.enterSection()
		}
		return a, nil
	case "ctrl+g":
		return a.openJumpMenu()
	case "ctrl+t":
		a.state = stateTranscript
		a.blurAll()
		return a, a.transcript.Focus()
	case "ctrl+s":
		return a.startSubmit()
	case "ctrl+e":
		a.exportReport()
		return a, nil
	case "ctrl+x":
		a.state = stateConfirmClear
		return a, nil
	case "esc":
		a.errPanel = ""
		return a, nil
	}
	if n, ok := altDigit(msg); ok {
		if a.session.JumpTo(n) {
			return a, a.enterSection()
		}
		return a, nil
	}
	return a, a.editFocused(msg)
}

func (a *App) updateTranscript(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+t":
		a.transcript.Blur()
		a.state = stateForm
		if strings.TrimSpace(a.transcript.Value()) != "" {
			a.statusMsg = "Transcript attached to the next submission."
		}
		return a, a.focusCmd()
	case "ctrl+s":
		a.transcript.Blur()
		a.state = stateForm
		return a.startSubmit()
	}
	var cmd tea.Cmd
	a.transcript, cmd = a.transcript.Update(msg)
	return a, cmd
}

func (a *App) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		a.state = stateForm
		return a, a.focusCmd()
	case "ctrl+e":
		a.exportReport()
		return a, nil
	}
	var cmd tea.Cmd
	a.summaryView, cmd = a.summaryView.Update(msg)
	return a, cmd
}

func (a *App) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		a.session.Clear()
		a.transcript.Reset()
		a.fieldErrs = nil
		a.errPanel = ""
		a.summaryText = ""
		a.state = stateForm
		a.statusMsg = "Form cleared."
		return a, a.enterSection()
	case "n", "esc":
		a.state = stateForm
		a.statusMsg = "Clear cancelled."
		return a, a.focusCmd()
	}
	return a, nil
}

func (a *App) openJumpMenu() (tea.Model, tea.Cmd) {
	prog := a.session.Progress()
	sections := form.Sections()
	items := make([]list.Item, len(sections))
	for i, s := range sections {
		items[i] = sectionItem{section: s, marker: markerGlyph(prog.Markers[i])}
	}
	a.jumpMenu.SetItems(items)
	a.jumpMenu.Select(prog.Current - 1)
	a.blurAll()
	a.state = stateJump
	return a, nil
}

func (a *App) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.state = stateForm
		return a, a.focusCmd()
	case "enter":
		a.state = stateForm
		a.session.JumpTo(a.jumpMenu.Index() + 1)
		return a, a.enterSection()
	}
	var cmd tea.Cmd
	a.jumpMenu, cmd = a.jumpMenu.Update(msg)
	return a, cmd
}

func (a *App) startSubmit() (tea.Model, tea.Cmd) {
	if a.session.InFlight() {
		return a, nil
	}
	var verrs form.ValidationErrors
	if err := a.session.Validate(); errors.As(err, &verrs) {
		a.fieldErrs = verrs
		a.statusMsg = "Please fill in the required fields."
		a.focus = 0
		if _, ok := verrs["name"]; !ok {
			a.focus = 1
		}
		return a, a.focusCmd()
	}
	if !a.session.SummaryAvailable() {
		a.errPanel = notConfiguredNotice
		a.logWarn("submit refused: summary service not configured")
		return a, nil
	}
	a.fieldErrs = nil
	a.errPanel = ""
	a.blurAll()
	a.state = stateSubmitting
	a.statusMsg = "Requesting analysis..."
	transcript := a.transcript.Value()
	session := a.session
	request := func() tea.Msg {
		narrative, err := session.Submit(context.Background(), transcript)
		return summaryFinishedMsg{narrative: narrative, err: err}
	}
	return a, tea.Batch(a.spinner.Tick, request)
}

func (a *App) handleSummaryFinished(msg summaryFinishedMsg) (tea.Model, tea.Cmd) {
	a.state = stateForm
	if msg.err != nil {
		var verrs form.ValidationErrors
		if errors.As(msg.err, &verrs) {
			a.fieldErrs = verrs
			a.statusMsg = "Please fill in the required fields."
			return a, a.focusCmd()
		}
		a.errPanel = fmt.Sprintf("%s\n\n%s", submittedNoAnalysis, msg.err.Error())
		a.statusMsg = "Analysis failed. Press esc to dismiss."
		return a, a.focusCmd()
	}
	a.summaryText = msg.narrative
	rendered, err := a.renderMarkdown(msg.narrative, a.summaryView.Width)
	if err != nil {
		a.logWarn("markdown render failed: %v", err)
		rendered = msg.narrative
	}
	a.summaryView.SetContent(rendered)
	a.summaryView.GotoTop()
	a.state = stateSummary
	a.statusMsg = "Analysis ready. ctrl+e saves the report, esc returns to the form."
	a.logInfo("analysis received (%d chars)", len(msg.narrative))
	return a, nil
}

func (a *App) exportReport() {
	path, err := report.WriteFile(a.config.ExportsDir(), a.session.Document())
	if err != nil {
		a.logError("export failed: %v", err)
		a.statusMsg = fmt.Sprintf("Export failed: %v", err)
		return
	}
	rel, relErr := filepath.Rel(a.config.ProjectDir, path)
	if relErr != nil {
		rel = path
	}
	a.logInfo("report exported to %s", rel)
	a.statusMsg = fmt.Sprintf("Report saved to %s", rel)
}

func altDigit(msg tea.KeyMsg) (int, bool) {
	if !msg.Alt || msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
