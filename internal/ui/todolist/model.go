package todolist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoapp/internal/keys"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/theme"
	"github.com/nhle/todoapp/internal/ui/todoform"
)

// TodosLoadedMsg carries a fresh snapshot of the todo list.
type TodosLoadedMsg struct {
	Todos []model.Todo
	Today string
	Err   error
}

// TodoChangedMsg is sent after a create, toggle or delete finishes.
type TodoChangedMsg struct {
	Err error
}

// row is one selectable line: a todo and the bucket it is listed under.
type row struct {
	bucket string
	todo   model.Todo
}

// Model is the interactive todo list. Todos are shown under the same
// Overdue / Due Today / Due Later headings as the CLI report.
type Model struct {
	store  store.TodoStore
	keys   *keys.KeyMap
	help   help.Model
	form   todoform.Model
	adding bool
	rows   []row
	today  string
	cursor int
	err    error
	width  int
	height int
}

// New creates a todo list model backed by s.
func New(s store.TodoStore) Model {
	return Model{
		store: s,
		keys:  keys.DefaultKeyMap(),
		help:  help.New(),
		form:  todoform.New(80),
		width: 80,
	}
}

// Init loads the todos.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages for the todo list.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.form.SetWidth(msg.Width)
		return m, nil

	case TodosLoadedMsg:
		// A failed action stays on screen across the reload it triggers.
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.today = msg.Today
			m.rows = buildRows(msg.Todos, msg.Today)
			if m.cursor >= len(m.rows) {
				m.cursor = max(len(m.rows)-1, 0)
			}
		}
		return m, nil

	case TodoChangedMsg:
		m.err = msg.Err
		return m, m.load()

	case todoform.SubmittedMsg:
		m.adding = false
		m.err = nil
		return m, m.add(msg)

	case todoform.CancelMsg:
		m.adding = false
		return m, nil
	}

	if m.adding {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.Selected(); ok {
			return m, m.setCompleted(t.ID, !t.Completed)
		}

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.Selected(); ok {
			return m, m.delete(t.ID)
		}

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		return m, m.form.Start(m.today)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// Selected returns the todo under the cursor.
func (m Model) Selected() (model.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.Todo{}, false
	}
	return m.rows[m.cursor].todo, true
}

// View renders the todo list.
func (m Model) View() string {
	if m.adding {
		return m.form.View()
	}

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("My Todo list"))
	b.WriteString("\n")

	i := 0
	for _, bucket := range []string{theme.BucketOverdue, theme.BucketDueToday, theme.BucketDueLater} {
		b.WriteString("\n")
		b.WriteString(theme.BucketStyle(nil, bucket).Render(bucket))
		b.WriteString("\n")
		empty := true
		for ; i < len(m.rows) && m.rows[i].bucket == bucket; i++ {
			empty = false
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
		if empty {
			b.WriteString(theme.HelpStyle.Render("  nothing here"))
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return theme.PanelStyle.Render(b.String())
}

func (m Model) renderRow(i int) string {
	t := m.rows[i].todo
	line := t.DisplayString(m.today)
	if t.Completed {
		line = theme.CompletedStyle.Render(line)
	}
	if i == m.cursor {
		return theme.SelectedItemStyle.Render("> " + line)
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(line)
}

// buildRows flattens the buckets in display order.
func buildRows(todos []model.Todo, today string) []row {
	g := model.Group(todos, today)
	rows := make([]row, 0, len(todos))
	for _, t := range g.Overdue {
		rows = append(rows, row{bucket: theme.BucketOverdue, todo: t})
	}
	for _, t := range g.DueToday {
		rows = append(rows, row{bucket: theme.BucketDueToday, todo: t})
	}
	for _, t := range g.DueLater {
		rows = append(rows, row{bucket: theme.BucketDueLater, todo: t})
	}
	return rows
}

// load returns a tea.Cmd that reads every todo from the store.
func (m Model) load() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		todos, err := s.Todos(context.Background())
		return TodosLoadedMsg{Todos: todos, Today: s.Today(), Err: err}
	}
}

func (m Model) add(sub todoform.SubmittedMsg) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, err := s.AddTodo(context.Background(), sub.Title, sub.DueDate, sub.Completed)
		return TodoChangedMsg{Err: err}
	}
}

func (m Model) setCompleted(id int64, completed bool) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_, err := s.SetCompletionStatus(context.Background(), id, completed)
		return TodoChangedMsg{Err: err}
	}
}

func (m Model) delete(id int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		deleted, err := s.DeleteTodo(context.Background(), id)
		if err == nil && !deleted {
			err = fmt.Errorf("todo %d: %w", id, store.ErrNotFound)
		}
		return TodoChangedMsg{Err: err}
	}
}
