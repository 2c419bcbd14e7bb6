package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/bizplan/internal/form"
	"github.com/kingrea/bizplan/internal/navigator"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7549EA"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	fieldErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	activeDot     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7549EA")).Render("●")
	completedDot  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Render("●")
	pendingDot    = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")).Render("○")
	errorPanelBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#FF6B6B")).Padding(0, 1)
	warningBox    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#F7B801")).Padding(0, 1)
)

// fieldEditor binds one form field to the widget that edits it.
type fieldEditor struct {
	field form.Field
	input textinput.Model
	area  textarea.Model
}

func newFieldEditor(f form.Field, value string, width int) fieldEditor {
	ed := fieldEditor{field: f}
	switch f.Kind {
	case form.KindLongText:
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.Placeholder = f.Placeholder
		ta.CharLimit = 0
		ta.SetHeight(3)
		ta.SetWidth(width)
		ta.SetValue(value)
		ta.Blur()
		ed.area = ta
	case form.KindText, form.KindNumber:
		ti := textinput.New()
		ti.Prompt = "› "
		ti.Placeholder = f.Placeholder
		ti.Width = width
		if f.Kind == form.KindNumber {
			ti.CharLimit = 16
		}
		ti.SetValue(value)
		ti.Blur()
		ed.input = ti
	}
	return ed
}

func (e *fieldEditor) usesInput() bool {
	return e.field.Kind == form.KindText || e.field.Kind == form.KindNumber
}

func (e *fieldEditor) value() string {
	switch {
	case e.field.Kind == form.KindLongText:
		return e.area.Value()
	case e.usesInput():
		return e.input.Value()
	}
	return ""
}

func (e *fieldEditor) setValue(v string) {
	switch {
	case e.field.Kind == form.KindLongText:
		if e.area.Value() != v {
			e.area.SetValue(v)
		}
	case e.usesInput():
		if e.input.Value() != v {
			e.input.SetValue(v)
		}
	}
}

func (e *fieldEditor) setWidth(width int) {
	switch {
	case e.field.Kind == form.KindLongText:
		e.area.SetWidth(width)
	case e.usesInput():
		e.input.Width = width
	}
}

func (e *fieldEditor) focus() tea.Cmd {
	switch {
	case e.field.Kind == form.KindLongText:
		return e.area.Focus()
	case e.usesInput():
		return e.input.Focus()
	}
	return nil
}

func (e *fieldEditor) blur() {
	switch {
	case e.field.Kind == form.KindLongText:
		e.area.Blur()
	case e.usesInput():
		e.input.Blur()
	}
}

func (e *fieldEditor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case e.field.Kind == form.KindLongText:
		e.area, cmd = e.area.Update(msg)
	case e.usesInput():
		e.input, cmd = e.input.Update(msg)
	}
	return cmd
}

// rebuildEditors recreates the header and current-section editors from the
// session document.
func (a *App) rebuildEditors() {
	doc := a.session.Document()
	section, _ := form.SectionAt(a.session.Current())
	fields := append(form.Header(), section.Fields...)
	width := a.fieldWidth()
	a.editors = make([]fieldEditor, len(fields))
	for i, f := range fields {
		a.editors[i] = newFieldEditor(f, f.Value(&doc), width)
	}
	a.focus = 0
	if len(a.editors) > 2 {
		a.focus = 2
	}
	a.scrollTop = 0
}

func (a *App) syncEditors() {
	doc := a.session.Document()
	for i := range a.editors {
		if i == a.focus {
			continue
		}
		a.editors[i].setValue(a.editors[i].field.Value(&doc))
	}
}

func (a *App) enterSection() tea.Cmd {
	a.rebuildEditors()
	prog := a.session.Progress()
	a.logInfo("section %d of %d", prog.Current, prog.Total)
	return a.focusCmd()
}

func (a *App) blurAll() {
	for i := range a.editors {
		a.editors[i].blur()
	}
}

func (a *App) focusCmd() tea.Cmd {
	a.blurAll()
	if a.focus < 0 || a.focus >= len(a.editors) {
		return nil
	}
	a.ensureVisible()
	return a.editors[a.focus].focus()
}

func (a *App) moveFocus(delta int) tea.Cmd {
	if len(a.editors) == 0 {
		return nil
	}
	a.focus = (a.focus + delta + len(a.editors)) % len(a.editors)
	return a.focusCmd()
}

func (a *App) focusedKind() form.Kind {
	if a.focus < 0 || a.focus >= len(a.editors) {
		return form.KindText
	}
	return a.editors[a.focus].field.Kind
}

func (a *App) fieldWidth() int {
	if a.width <= 0 {
		return 60
	}
	return max(20, a.width-10)
}

func (a *App) editFocused(msg tea.KeyMsg) tea.Cmd {
	if a.focus < 0 || a.focus >= len(a.editors) {
		return nil
	}
	ed := &a.editors[a.focus]
	doc := a.session.Document()
	switch ed.field.Kind {
	case form.KindCheckbox:
		if msg.String() != " " && msg.String() != "enter" {
			return nil
		}
		a.set(ed.field.Key, strconv.FormatBool(!ed.field.Checked(&doc)))
		return nil
	case form.KindChoice:
		var step int
		switch msg.String() {
		case "right", "l", " ":
			step = 1
		case "left", "h":
			step = -1
		case "backspace", "delete":
			a.set(ed.field.Key, "")
			return nil
		default:
			return nil
		}
		a.set(ed.field.Key, cycleOption(ed.field.Options, ed.field.Value(&doc), step))
		return nil
	}
	before := ed.value()
	cmd := ed.update(msg)
	if after := ed.value(); after != before {
		a.set(ed.field.Key, after)
	}
	return cmd
}

func (a *App) set(key, value string) {
	if err := a.session.Set(key, value); err != nil {
		a.logWarn("edit %s rejected: %v", key, err)
		a.statusMsg = err.Error()
		return
	}
	if a.fieldErrs != nil && strings.TrimSpace(value) != "" {
		delete(a.fieldErrs, key)
	}
	if err := a.session.LastSaveError(); err != nil {
		a.statusMsg = "Draft could not be saved; see the log."
	}
	a.syncEditors()
}

func cycleOption(options []string, current string, step int) string {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, opt := range options {
		if opt == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if step > 0 {
			return options[0]
		}
		return options[len(options)-1]
	}
	return options[(idx+step+len(options))%len(options)]
}

func markerGlyph(m navigator.Marker) string {
	switch m {
	case navigator.Active:
		return activeDot
	case navigator.Completed:
		return completedDot
	default:
		return pendingDot
	}
}

func (a *App) visibleFields() int {
	if a.height <= 0 {
		return 8
	}
	return max(3, (a.height-18)/3)
}

func (a *App) ensureVisible() {
	// Header fields (0, 1) are always shown; scrolling applies to the rest.
	if a.focus < 2 {
		return
	}
	idx := a.focus - 2
	window := a.visibleFields()
	if idx < a.scrollTop {
		a.scrollTop = idx
	}
	if idx >= a.scrollTop+window {
		a.scrollTop = idx - window + 1
	}
}

// View renders the current screen.
func (a *App) View() string {
	var body string
	switch a.state {
	case stateTranscript:
		body = a.renderTranscript()
	case stateSubmitting:
		body = fmt.Sprintf("%s Requesting analysis from the summary service...\n\n%s",
			a.spinner.View(), hintStyle.Render("The request runs to completion; editing resumes when it returns."))
	case stateSummary:
		body = lipgloss.JoinVertical(lipgloss.Left, sectionStyle.Render("AI Analysis"), a.summaryView.View())
	case stateConfirmClear:
		body = warningBox.Render("Clear the entire form? This deletes the saved draft.\n\n[y] clear   [n] keep")
	case stateJump:
		body = a.jumpMenu.View()
	default:
		body = a.renderForm()
	}
	sections := []string{titleStyle.Render("◆ BUSINESS PLANNING FORM"), a.renderProgress(), body}
	if a.errPanel != "" {
		sections = append(sections, errorPanelBox.Render(a.errPanel+"\n\n"+hintStyle.Render("esc to dismiss")))
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, hintStyle.Render(a.keyHints()))
	if a.statusMsg != "" {
		sections = append(sections, hintStyle.Render(a.statusMsg))
	}
	return strings.Join(sections, "\n")
}

func (a *App) renderProgress() string {
	prog := a.session.Progress()
	dots := make([]string, len(prog.Markers))
	for i, m := range prog.Markers {
		dots[i] = markerGlyph(m)
	}
	line := fmt.Sprintf("Section %d of %d · %d%% Complete", prog.Current, prog.Total, prog.Percent)
	return lipgloss.JoinVertical(lipgloss.Left,
		line,
		a.progressBar.ViewAs(float64(prog.Percent)/100),
		strings.Join(dots, " "),
	)
}

func (a *App) renderForm() string {
	section, _ := form.SectionAt(a.session.Current())
	var lines []string
	for i := 0; i < 2 && i < len(a.editors); i++ {
		lines = append(lines, a.renderEditor(i))
	}
	lines = append(lines, "", sectionStyle.Render(fmt.Sprintf("%d. %s", section.Number, section.Title)))

	fields := a.editors[min(2, len(a.editors)):]
	start := min(a.scrollTop, len(fields))
	end := min(len(fields), start+a.visibleFields())
	if start > 0 {
		lines = append(lines, hintStyle.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, a.renderEditor(i+2))
	}
	if end < len(fields) {
		lines = append(lines, hintStyle.Render(fmt.Sprintf("  ↓ %d more", len(fields)-end)))
	}
	if !a.session.SummaryAvailable() && a.session.IsLast() {
		lines = append(lines, "", warningBox.Render(notConfiguredNotice))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderEditor(idx int) string {
	ed := &a.editors[idx]
	focused := idx == a.focus && a.state == stateForm
	label := labelStyle.Render(ed.field.Label)
	if focused {
		label = focusedStyle.Render(ed.field.Label)
	}
	doc := a.session.Document()
	var widget string
	switch ed.field.Kind {
	case form.KindCheckbox:
		box := "[ ]"
		if ed.field.Checked(&doc) {
			box = "[x]"
		}
		return fmt.Sprintf("%s %s", box, label)
	case form.KindChoice:
		value := ed.field.Value(&doc)
		if value == "" {
			value = hintStyle.Render("(choose with ←/→)")
		}
		widget = fmt.Sprintf("‹ %s ›", value)
	case form.KindLongText:
		widget = ed.area.View()
	default:
		widget = ed.input.View()
	}
	out := label + "\n" + widget
	if msg, ok := a.fieldErrs[ed.field.Key]; ok {
		out += "\n" + fieldErrStyle.Render(msg)
	}
	return out
}

func (a *App) renderTranscript() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Meeting Transcript"),
		hintStyle.Render("Included with the next submission. esc returns to the form, ctrl+s submits."),
		a.transcript.View(),
	)
}

func (a *App) keyHints() string {
	switch a.state {
	case stateTranscript:
		return "esc back · ctrl+s submit · ctrl+c quit"
	case stateSummary:
		return "↑/↓ scroll · ctrl+e export · esc back · ctrl+c quit"
	case stateJump:
		return "enter jump · esc back"
	case stateSubmitting, stateConfirmClear:
		return "ctrl+c quit"
	}
	hints := []string{"tab next field"}
	if !a.session.IsFirst() {
		hints = append(hints, "ctrl+p previous")
	}
	if a.session.IsLast() {
		hints = append(hints, "ctrl+s submit")
	} else {
		hints = append(hints, "ctrl+n next")
	}
	hints = append(hints, "ctrl+g jump", "ctrl+t transcript", "ctrl+e export", "ctrl+x clear", "ctrl+c quit")
	return strings.Join(hints, " · ")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logTail, a.logTotal
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s (%d entries)", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}
