// Package tui is the interactive front end over the sync engine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/engine"
	"taskdeck/internal/output"
	"taskdeck/internal/task"
)

// eventMsg carries one applied engine completion.
type eventMsg engine.Event

const (
	focusTitle = iota
	focusSummary
)

// Model is the bubbletea model for taskdeck.
type Model struct {
	ctx context.Context
	eng *engine.Engine

	state  engine.State
	cursor int

	titleInput   textinput.Model
	summaryInput textinput.Model
	focus        int

	status string
	width  int
}

// New creates a model over eng. Intents are issued with ctx.
func New(ctx context.Context, eng *engine.Engine) Model {
	title := textinput.New()
	title.Placeholder = "Task Title"
	title.CharLimit = 200

	summary := textinput.New()
	summary.Placeholder = "Task Summary"
	summary.CharLimit = 1000

	return Model{
		ctx:          ctx,
		eng:          eng,
		state:        eng.Snapshot(),
		titleInput:   title,
		summaryInput: summary,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, eng *engine.Engine) error {
	_, err := tea.NewProgram(New(ctx, eng), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	m.eng.Refresh(m.ctx)
	return waitForEvent(m.eng.Events())
}

func waitForEvent(ch <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-ch)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case eventMsg:
		m.applyEvent(engine.Event(msg))
		return m, waitForEvent(m.eng.Events())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.state.Session.Open():
			return m.updateForm(msg)
		case m.state.Details.Loaded:
			return m.updateDetails(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) applyEvent(ev engine.Event) {
	m.sync()
	switch {
	case ev.Stale:
		m.status = fmt.Sprintf("%s %s: task changed, result ignored", ev.Op, ev.Target)
	case ev.Err != nil:
		m.status = errorText(ev.Err)
	default:
		m.status = ""
	}
}

// sync pulls a fresh snapshot and keeps the cursor inside the list.
func (m *Model) sync() {
	m.state = m.eng.Snapshot()
	if m.cursor >= len(m.state.Tasks) {
		m.cursor = len(m.state.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if !m.state.Session.Open() {
		m.titleInput.Blur()
		m.summaryInput.Blur()
	}
}

func (m Model) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Tasks) {
		return task.Task{}, false
	}
	return m.state.Tasks[m.cursor], true
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.state.Tasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.eng.Refresh(m.ctx)
	case "n":
		if err := m.eng.BeginCreate(); err != nil {
			m.status = errorText(err)
			return m, nil
		}
		m.sync()
		cmd := m.openForm()
		return m, cmd
	case "e":
		if err := m.eng.BeginEdit(m.cursor); err != nil {
			m.status = errorText(err)
			return m, nil
		}
		m.sync()
		cmd := m.openForm()
		return m, cmd
	case " ", "space":
		if t, ok := m.selected(); ok {
			m.eng.ToggleComplete(m.ctx, t.ID, t.Status)
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.eng.Delete(m.ctx, m.cursor)
		}
	case "enter":
		if t, ok := m.selected(); ok {
			m.eng.ViewDetails(m.ctx, t.ID)
		}
	}
	return m, nil
}

func (m Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "enter":
		if err := m.eng.CloseDetails(); err != nil {
			m.status = errorText(err)
		}
		m.sync()
	}
	return m, nil
}

// openForm fills the inputs from the session drafts and focuses the title.
func (m *Model) openForm() tea.Cmd {
	d := m.state.Session.Draft
	m.titleInput.SetValue(d.Title)
	m.summaryInput.SetValue(d.Summary)
	m.titleInput.CursorEnd()
	m.summaryInput.CursorEnd()
	m.summaryInput.Blur()
	m.focus = focusTitle
	m.status = ""
	return m.titleInput.Focus()
}

func (m Model) draft() task.Draft {
	return task.Draft{
		Title:   strings.TrimSpace(m.titleInput.Value()),
		Summary: m.summaryInput.Value(),
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if err := m.eng.CancelEdit(); err != nil {
			m.status = errorText(err)
		}
		m.sync()
		return m, nil
	case "tab", "shift+tab":
		if m.focus == focusTitle {
			m.focus = focusSummary
			m.titleInput.Blur()
			cmd := m.summaryInput.Focus()
			return m, cmd
		}
		m.focus = focusTitle
		m.summaryInput.Blur()
		cmd := m.titleInput.Focus()
		return m, cmd
	case "enter":
		d := m.draft()
		if d.Title == "" {
			m.status = "title required"
			return m, nil
		}
		m.eng.SubmitEdit(m.ctx, d)
		m.status = "saving..."
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.summaryInput, cmd = m.summaryInput.Update(msg)
	}
	if err := m.eng.UpdateDraft(m.draft()); err != nil && !errors.Is(err, engine.ErrNoSession) {
		m.status = errorText(err)
	}
	return m, cmd
}

func errorText(err error) string {
	var opErr *engine.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("%s failed: %v", opErr.Op, opErr.Err)
	}
	return err.Error()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" taskdeck "))
	b.WriteString("\n\n")

	switch {
	case m.state.Session.Open():
		b.WriteString(m.viewForm())
	case m.state.Details.Loaded:
		b.WriteString(m.viewDetails())
	default:
		b.WriteString(m.viewList())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewList() string {
	if len(m.state.Tasks) == 0 {
		return mutedStyle.Render(output.NoTasks) + "\n"
	}
	var b strings.Builder
	for i, t := range m.state.Tasks {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		title := output.NormalizeTitle(t.Title)
		if t.Completed() {
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, output.Checkbox(t.Status), title)
		fmt.Fprintf(&b, "      %s\n", mutedStyle.Render(output.SummaryText(t.Summary)))
	}
	return b.String()
}

func (m Model) viewDetails() string {
	var b strings.Builder
	output.FormatDetails(&b, m.state.Details.Task)
	return panelStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m Model) viewForm() string {
	heading := "New task"
	if m.state.Session.Mode == engine.ModeEditing {
		heading = "Edit task"
	}
	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n\n")
	b.WriteString("Title\n")
	b.WriteString(m.titleInput.View())
	b.WriteString("\n\nSummary\n")
	b.WriteString(m.summaryInput.View())
	b.WriteString("\n")
	return panelStyle.Render(b.String()) + "\n"
}

func (m Model) helpLine() string {
	switch {
	case m.state.Session.Open():
		return "enter save • tab switch field • esc cancel"
	case m.state.Details.Loaded:
		return "esc close • q quit"
	default:
		return "j/k move • n new • e edit • space toggle • d delete • enter details • r refresh • q quit"
	}
}
