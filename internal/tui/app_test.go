package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/bizplan/internal/config"
	"github.com/kingrea/bizplan/internal/draft"
	"github.com/kingrea/bizplan/internal/form"
	"github.com/kingrea/bizplan/internal/summary"
)

type stubSummarizer struct {
	mu         sync.Mutex
	configured bool
	reply      string
	err        error
	calls      int
	transcript string
}

func (s *stubSummarizer) Configured() bool { return s.configured }

func (s *stubSummarizer) Summarize(_ context.Context, _ form.Document, transcript string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.transcript = transcript
	return s.reply, s.err
}

func (s *stubSummarizer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestTypingNameSavesDraft(t *testing.T) {
	projectDir := initProject(t)
	app := newTestApp(t, projectDir, &stubSummarizer{configured: true})

	app = press(t, app, tea.KeyMsg{Type: tea.KeyShiftTab})
	app = press(t, app, tea.KeyMsg{Type: tea.KeyShiftTab})
	if app.editors[app.focus].field.Key != "name" {
		t.Fatalf("focus = %s, want name", app.editors[app.focus].field.Key)
	}
	app = press(t, app, runes("Dana"))

	doc, ok := loadDraft(t, projectDir)
	if !ok {
		t.Fatalf("expected draft to be saved")
	}
	if doc.Name != "Dana" {
		t.Fatalf("saved name = %q, want Dana", doc.Name)
	}

	reopened := newTestApp(t, projectDir, &stubSummarizer{configured: true})
	if got := reopened.session.Document().Name; got != "Dana" {
		t.Fatalf("restored name = %q", got)
	}
	if !strings.Contains(reopened.statusMsg, "Restored") {
		t.Fatalf("expected restored notice, got %q", reopened.statusMsg)
	}
}

func TestSectionNavigation(t *testing.T) {
	app := newTestApp(t, initProject(t), &stubSummarizer{configured: true})
	if !strings.Contains(app.View(), "Section 1 of 13 · 8% Complete") {
		t.Fatalf("unexpected header:\n%s", app.View())
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlN})
	if app.session.Current() != 2 {
		t.Fatalf("current = %d, want 2", app.session.Current())
	}
	if !strings.Contains(app.View(), "2. Lead Generation") {
		t.Fatalf("section 2 title missing")
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'7'}, Alt: true})
	if app.session.Current() != 7 {
		t.Fatalf("current = %d, want 7", app.session.Current())
	}
	if !strings.Contains(app.View(), "54% Complete") {
		t.Fatalf("expected 54%% progress in header")
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlP})
	if app.session.Current() != 6 {
		t.Fatalf("current = %d, want 6", app.session.Current())
	}

	app.session.JumpTo(13)
	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlN})
	if app.session.Current() != 13 {
		t.Fatalf("next on the last section must stay put")
	}
	if !strings.Contains(app.statusMsg, "last section") {
		t.Fatalf("expected last-section notice, got %q", app.statusMsg)
	}
}

func TestCheckboxToggle(t *testing.T) {
	app := newTestApp(t, initProject(t), &stubSummarizer{configured: true})
	app = press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	focusField(t, app, "leadMethods.referrals")

	app = press(t, app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !app.session.Document().LeadMethods.Referrals {
		t.Fatalf("space should check the box")
	}
	if !strings.Contains(app.View(), "[x]") {
		t.Fatalf("checked box not rendered")
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if app.session.Document().LeadMethods.Referrals {
		t.Fatalf("second space should uncheck the box")
	}
}

func TestChoiceCycles(t *testing.T) {
	app := newTestApp(t, initProject(t), &stubSummarizer{configured: true})
	app = press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'6'}, Alt: true})
	focusField(t, app, "workHoursRange")

	app = press(t, app, tea.KeyMsg{Type: tea.KeyRight})
	if got := app.session.Document().WorkHoursRange; got != form.WorkHourRanges[0] {
		t.Fatalf("first choice = %q, want %q", got, form.WorkHourRanges[0])
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyLeft})
	last := form.WorkHourRanges[len(form.WorkHourRanges)-1]
	if got := app.session.Document().WorkHoursRange; got != last {
		t.Fatalf("wrapped choice = %q, want %q", got, last)
	}
}

func TestSubmitRequiresNameAndDate(t *testing.T) {
	stub := &stubSummarizer{configured: true, reply: "ok"}
	app := newTestApp(t, initProject(t), stub)

	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	if stub.callCount() != 0 {
		t.Fatalf("summary must not be requested when the form is invalid")
	}
	if app.state != stateForm {
		t.Fatalf("state = %v, want form", app.state)
	}
	if app.fieldErrs["name"] == "" || app.fieldErrs["date"] == "" {
		t.Fatalf("expected name and date errors, got %v", app.fieldErrs)
	}
	if app.editors[app.focus].field.Key != "name" {
		t.Fatalf("focus should move to the first missing field")
	}
	if !strings.Contains(app.View(), "Name is required") {
		t.Fatalf("inline error missing from view")
	}
}

func TestSubmitNotConfigured(t *testing.T) {
	stub := &stubSummarizer{configured: false}
	app := newTestApp(t, initProject(t), stub)
	fillRequired(t, app)

	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	if stub.callCount() != 0 {
		t.Fatalf("unconfigured summary must not be called")
	}
	if !strings.Contains(app.errPanel, "not configured") {
		t.Fatalf("expected not-configured panel, got %q", app.errPanel)
	}
}

func TestSubmitValidatesBeforeConfigurationCheck(t *testing.T) {
	stub := &stubSummarizer{configured: false}
	app := newTestApp(t, initProject(t), stub)

	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	if app.fieldErrs["name"] != "Name is required" {
		t.Fatalf("expected inline name error, got %v", app.fieldErrs)
	}
	if app.errPanel != "" {
		t.Fatalf("not-configured panel should wait for a valid form, got %q", app.errPanel)
	}
	if stub.callCount() != 0 {
		t.Fatalf("summary must not be called")
	}
}

func TestSubmitSuccessShowsAnalysis(t *testing.T) {
	stub := &stubSummarizer{configured: true, reply: "# Strengths\nGreat referral base."}
	app := newTestApp(t, initProject(t), stub)
	fillRequired(t, app)

	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlT})
	if app.state != stateTranscript {
		t.Fatalf("ctrl+t should open the transcript editor")
	}
	app = press(t, app, runes("we discussed referrals"))

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	app = runCommands(t, model, cmd)
	if stub.callCount() != 1 {
		t.Fatalf("calls = %d, want 1", stub.callCount())
	}
	if stub.transcript != "we discussed referrals" {
		t.Fatalf("transcript = %q", stub.transcript)
	}
	if app.state != stateSummary {
		t.Fatalf("state = %v, want summary", app.state)
	}
	if !strings.Contains(app.View(), "Great referral base.") {
		t.Fatalf("analysis not rendered:\n%s", app.View())
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.state != stateForm {
		t.Fatalf("esc should return to the form")
	}
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	stub := &stubSummarizer{configured: true, err: &summary.APIError{Status: 429, Message: "rate limited"}}
	projectDir := initProject(t)
	app := newTestApp(t, projectDir, stub)
	fillRequired(t, app)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	app = runCommands(t, model, cmd)
	if stub.callCount() != 1 {
		t.Fatalf("calls = %d, want exactly 1", stub.callCount())
	}
	if app.state != stateForm {
		t.Fatalf("state = %v, want form", app.state)
	}
	if !strings.Contains(app.errPanel, "rate limited") || !strings.Contains(app.errPanel, "You can still print your form") {
		t.Fatalf("unexpected error panel %q", app.errPanel)
	}
	if doc, ok := loadDraft(t, projectDir); !ok || doc.Name != "Dana" {
		t.Fatalf("draft must survive a failed request")
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.errPanel != "" {
		t.Fatalf("esc should dismiss the error panel")
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	projectDir := initProject(t)
	app := newTestApp(t, projectDir, &stubSummarizer{configured: true})
	fillRequired(t, app)
	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlN})

	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlX})
	app = press(t, app, runes("n"))
	if app.session.Document().Name != "Dana" {
		t.Fatalf("declining must keep the form")
	}

	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlX})
	if app.state != stateConfirmClear {
		t.Fatalf("state = %v, want confirm", app.state)
	}
	app = press(t, app, runes("y"))
	if !app.session.Document().IsEmpty() {
		t.Fatalf("form should be empty after clear")
	}
	if app.session.Current() != 1 {
		t.Fatalf("clear should return to section 1")
	}
	if _, ok := loadDraft(t, projectDir); ok {
		t.Fatalf("draft should be removed")
	}
}

func TestExportWritesReport(t *testing.T) {
	projectDir := initProject(t)
	app := newTestApp(t, projectDir, &stubSummarizer{configured: true})
	fillRequired(t, app)

	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlE})
	if !strings.Contains(app.statusMsg, "business-plan-Dana.html") {
		t.Fatalf("unexpected status %q", app.statusMsg)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(cfg.ExportsDir(), "business-plan-Dana.html"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "Dana") {
		t.Fatalf("report missing name")
	}
}

func TestJumpMenu(t *testing.T) {
	app := newTestApp(t, initProject(t), &stubSummarizer{configured: true})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app = model.(*App)
	app = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlG})
	if app.state != stateJump {
		t.Fatalf("ctrl+g should open the jump menu")
	}
	app = press(t, app, tea.KeyMsg{Type: tea.KeyDown})
	app = press(t, app, tea.KeyMsg{Type: tea.KeyDown})
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.state != stateForm || app.session.Current() != 3 {
		t.Fatalf("state=%v current=%d, want form on section 3", app.state, app.session.Current())
	}
}

func TestLogPanelUsesCachedTail(t *testing.T) {
	app := newTestApp(t, initProject(t), &stubSummarizer{configured: true})
	if !strings.Contains(app.View(), "Session opened") {
		t.Fatalf("log panel missing opening entry:\n%s", app.View())
	}

	app.logbook.Info("written-behind-the-view")
	if strings.Contains(app.View(), "written-behind-the-view") {
		t.Fatalf("view should render the cached tail, not reread the journal")
	}

	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(*App)
	if !strings.Contains(app.View(), "written-behind-the-view") {
		t.Fatalf("update should refresh the tail once the journal grows")
	}

	app.logWarn("from-the-app")
	if !strings.Contains(app.View(), "from-the-app") {
		t.Fatalf("app log calls should refresh the tail")
	}
}

func initProject(t *testing.T) string {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitDir(projectDir); err != nil {
		t.Fatalf("init dir: %v", err)
	}
	return projectDir
}

func newTestApp(t *testing.T, projectDir string, stub *stubSummarizer, opts ...AppOption) *App {
	t.Helper()
	plain := func(markdown string, _ int) (string, error) { return markdown, nil }
	baseOpts := []AppOption{WithSummarizer(stub), WithMarkdownRenderer(plain)}
	baseOpts = append(baseOpts, opts...)
	app, err := NewApp(projectDir, baseOpts...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// press delivers one key and drops the follow-up command, which for editing
// keys only drives cursor blinking.
func press(t *testing.T, app *App, msg tea.KeyMsg) *App {
	t.Helper()
	model, _ := app.Update(msg)
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	return next
}

// runCommands executes cmd, expanding batches, and feeds request results back
// into the model. Spinner ticks and cursor blinks are skipped.
func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case summaryFinishedMsg:
			nextModel, _ := app.Update(msg)
			app, ok = nextModel.(*App)
			if !ok {
				t.Fatalf("unexpected model type: %T", nextModel)
			}
		}
	}
	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func focusField(t *testing.T, app *App, key string) {
	t.Helper()
	for i, ed := range app.editors {
		if ed.field.Key == key {
			app.focus = i
			app.focusCmd()
			return
		}
	}
	t.Fatalf("field %s not on the current section", key)
}

func fillRequired(t *testing.T, app *App) {
	t.Helper()
	if err := app.session.Set("name", "Dana"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := app.session.Set("date", "2026-01-15"); err != nil {
		t.Fatalf("set date: %v", err)
	}
}

func loadDraft(t *testing.T, projectDir string) (form.Document, bool) {
	t.Helper()
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return draft.NewStore(draft.NewFileBackend(cfg.StateDir()), nil).Load()
}
