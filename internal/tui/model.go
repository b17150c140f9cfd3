// Package tui is the interactive Bubble Tea front-end for a sync session.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"go-sync-todo/internal/models"
	"go-sync-todo/internal/todosync"
	"go-sync-todo/internal/ui"
)

// Session is what the TUI needs from a todosync.Session.
type Session interface {
	todosync.Actions
	Activate(ctx context.Context) error
	Items() []models.TodoItem
	HasHadTodos() bool
}

type loadedMsg struct{ err error }

type actionDoneMsg struct {
	op  string
	err error
}

// Model renders the session's items and turns key presses into session actions.
// Every action runs as a tea.Cmd; the list is re-read from the session when it finishes.
type Model struct {
	ctx     context.Context
	session Session

	items       []models.TodoItem
	hasHadTodos bool
	loaded      bool
	cursor      int

	adding bool
	input  textinput.Model

	status string
	err    error

	keys keyMap
	help help.Model
}

func New(ctx context.Context, session Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task..."
	ti.CharLimit = 200
	return Model{
		ctx:     ctx,
		session: session,
		input:   ti,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Run starts the program in the alternate screen and blocks until the user quits.
func Run(ctx context.Context, session Session) error {
	_, err := tea.NewProgram(New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.session.Activate(m.ctx)}
	}
}

func (m Model) run(op string, fn func(ctx context.Context) error) (Model, tea.Cmd) {
	m.status = op + "…"
	ctx := m.ctx
	return m, func() tea.Msg {
		return actionDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m *Model) refresh() {
	m.items = m.session.Items()
	m.hasHadTodos = m.session.HasHadTodos()
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (models.TodoItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return models.TodoItem{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.loaded = true
			m.status = ""
		}
		m.refresh()
		return m, nil

	case actionDoneMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.op + " ✔"
		} else {
			m.status = ""
		}
		m.refresh()
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		task := strings.TrimSpace(m.input.Value())
		if task == "" {
			m.status = "task cannot be empty"
			return m, nil
		}
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		return m.run("add", func(ctx context.Context) error { return m.session.AddTodo(ctx, task) })
	case "esc":
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		m.status = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil
	}

	if !m.loaded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.status = ""
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.selected(); ok {
			return m.run("toggle", func(ctx context.Context) error { return m.session.ToggleTodoStatus(ctx, it.ID) })
		}
	case key.Matches(msg, m.keys.Remove):
		if it, ok := m.selected(); ok {
			return m.run("remove", func(ctx context.Context) error { return m.session.RemoveTodo(ctx, it.ID) })
		}
	case key.Matches(msg, m.keys.CompleteAll):
		return m.run("complete all", m.session.CompleteAllTodos)
	case key.Matches(msg, m.keys.ClearCompleted):
		return m.run("clear done", m.session.ClearCompletedTodos)
	case key.Matches(msg, m.keys.ClearAll):
		return m.run("clear all", m.session.ClearTodos)
	}
	return m, nil
}

func (m Model) View() string {
	var lines []string
	lines = append(lines, ui.Header(m.items))
	d, _ := ui.Stats(m.items)
	lines = append(lines, ui.MutedStyle.Render(ui.ProgressBar(d, len(m.items), 28)), "")

	switch {
	case !m.loaded && m.err == nil:
		lines = append(lines, ui.MutedStyle.Render("Loading…"))
	case len(m.items) == 0 && m.loaded:
		lines = append(lines, ui.EmptyMessage(m.hasHadTodos))
	default:
		for i, it := range m.items {
			prefix := "  "
			if i == m.cursor {
				prefix = ui.SelectedStyle.Render("> ")
			}
			lines = append(lines, prefix+ui.ItemLine(it))
		}
	}

	if m.adding {
		lines = append(lines, "", "Add new item", m.input.View())
	}

	lines = append(lines, "")
	if m.err != nil {
		lines = append(lines, ui.ErrorStyle.Render("✖ "+m.err.Error()))
	} else if m.status != "" {
		lines = append(lines, ui.MutedStyle.Render(m.status))
	}
	lines = append(lines, ui.HelpStyle.Render(m.help.View(m.keys)))
	return ui.Panel(lines)
}
