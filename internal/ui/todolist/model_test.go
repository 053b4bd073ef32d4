package todolist

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/testutil"
	"github.com/nhle/todoapp/internal/ui/todoform"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to m and then drains the returned command chain, feeding
// each produced message back in until no command remains.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for cmd != nil {
		out := cmd()
		if out == nil {
			break
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m
}

func TestLoadGroupsRowsInBucketOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	for _, tc := range []struct{ title, due string }{
		{"later", "2024-03-20"},
		{"today", "2024-03-15"},
		{"overdue", "2024-03-01"},
	} {
		_, err := s.AddTodo(ctx, tc.title, tc.due, false)
		require.NoError(t, err)
	}

	m := New(s)
	m = step(t, m, m.Init()())

	require.Len(t, m.rows, 3)
	assert.Equal(t, []string{"overdue", "today", "later"},
		[]string{m.rows[0].todo.Title, m.rows[1].todo.Title, m.rows[2].todo.Title})
	assert.Equal(t, "2024-03-15", m.today)

	view := m.View()
	assert.Contains(t, view, "Overdue")
	assert.Contains(t, view, "Due Today")
	assert.Contains(t, view, "Due Later")
}

func TestToggleTwiceRestoresState(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	todo, err := s.AddTodo(ctx, "Pay rent", "2024-03-15", false)
	require.NoError(t, err)

	m := New(s)
	m = step(t, m, m.Init()())

	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.True(t, sel.Completed)

	m = step(t, m, runes("x"))
	got, err := s.GetTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.NoError(t, m.err)
}

func TestCursorAndDelete(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	_, err := s.AddTodo(ctx, "first", "2024-03-15", false)
	require.NoError(t, err)
	_, err = s.AddTodo(ctx, "second", "2024-03-15", false)
	require.NoError(t, err)

	m := New(s)
	m = step(t, m, m.Init()())

	m = step(t, m, runes("j"))
	m = step(t, m, runes("j"))
	sel, _ := m.Selected()
	assert.Equal(t, "second", sel.Title, "cursor stops at the last row")

	m = step(t, m, runes("d"))
	require.Len(t, m.rows, 1)
	sel, _ = m.Selected()
	assert.Equal(t, "first", sel.Title)

	m = step(t, m, runes("k"))
	assert.Equal(t, 0, m.cursor)
}

func TestFailedToggleKeepsError(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	todo, err := s.AddTodo(ctx, "Gone soon", "2024-03-15", false)
	require.NoError(t, err)

	m := New(s)
	m = step(t, m, m.Init()())

	// Removed elsewhere after the list was loaded.
	deleted, err := s.DeleteTodo(ctx, todo.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	m = step(t, m, runes("x"))
	require.ErrorIs(t, m.err, store.ErrNotFound)
	assert.Contains(t, m.View(), "error:")
	assert.Empty(t, m.rows, "the reload still refreshes the list")

	m = step(t, m, runes("r"))
	assert.NoError(t, m.err, "the next key press clears the error")
}

func TestDeletingMissingTodoReportsError(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	todo, err := s.AddTodo(ctx, "Gone soon", "2024-03-15", false)
	require.NoError(t, err)

	m := New(s)
	m = step(t, m, m.Init()())

	_, err = s.DeleteTodo(ctx, todo.ID)
	require.NoError(t, err)

	m = step(t, m, runes("d"))
	assert.ErrorIs(t, m.err, store.ErrNotFound)
}

func TestSubmittedFormAddsTodo(t *testing.T) {
	s := testutil.NewTestStore(t)

	m := New(s)
	m = step(t, m, m.Init()())
	m.adding = true

	m = step(t, m, todoform.SubmittedMsg{Title: "From form", DueDate: "2024-03-18"})
	assert.False(t, m.adding)
	require.Len(t, m.rows, 1)
	assert.Equal(t, "Due Later", m.rows[0].bucket)
}

func TestQuit(t *testing.T) {
	m := New(testutil.NewTestStore(t))

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
