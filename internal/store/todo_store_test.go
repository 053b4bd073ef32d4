package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/testutil"
)

func titles(todos []model.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Title
	}
	return out
}

func TestAddTodo(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo, err := s.AddTodo(ctx, "  Buy milk ", "2024-03-15", false)
	require.NoError(t, err)
	assert.NotZero(t, todo.ID)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.Equal(t, "2024-03-15", todo.DueDate)
	assert.False(t, todo.Completed)

	got, err := s.GetTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.Title, got.Title)
	assert.Equal(t, todo.DueDate, got.DueDate)
}

func TestAddTodoTruncatesTimestamp(t *testing.T) {
	s := testutil.NewTestStore(t)

	todo, err := s.AddTodo(context.Background(), "Call mom", "2024-03-15T22:45:10.123Z", true)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", todo.DueDate)
	assert.True(t, todo.Completed)
}

func TestAddTodoValidation(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.AddTodo(ctx, "   ", "2024-03-15", false)
	assert.ErrorIs(t, err, store.ErrInvalidTodo)

	_, err = s.AddTodo(ctx, "No date", "", false)
	assert.ErrorIs(t, err, store.ErrInvalidTodo)

	_, err = s.AddTodo(ctx, "Bad date", "15/03/2024", false)
	assert.ErrorIs(t, err, store.ErrInvalidTodo)
}

func TestDateBuckets(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for _, tc := range []struct{ title, due string }{
		{"Submit assignment", "2024-03-14"},
		{"Pay rent", "2024-03-15"},
		{"Service vehicle", "2024-03-16"},
		{"File taxes", "2024-01-02"},
		{"Pay electric bill", "2024-04-01"},
	} {
		_, err := s.AddTodo(ctx, tc.title, tc.due, false)
		require.NoError(t, err)
	}

	overdue, err := s.Overdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Submit assignment", "File taxes"}, titles(overdue))

	today, err := s.DueToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pay rent"}, titles(today))

	later, err := s.DueLater(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Service vehicle", "Pay electric bill"}, titles(later))
}

func TestBucketsEmpty(t *testing.T) {
	s := testutil.NewTestStore(t)

	overdue, err := s.Overdue(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, overdue)
	assert.Empty(t, overdue)
}

func TestTodayFollowsLocation(t *testing.T) {
	// 10:30 UTC is already 00:30 the next day at UTC+14.
	loc := time.FixedZone("LINT", 14*60*60)
	s := testutil.NewTestStore(t, store.WithLocation(loc))
	ctx := context.Background()

	assert.Equal(t, "2024-03-16", s.Today())

	_, err := s.AddTodo(ctx, "Breakfast", "2024-03-15", false)
	require.NoError(t, err)

	overdue, err := s.Overdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Breakfast"}, titles(overdue))
}

func TestMarkAsComplete(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo, err := s.AddTodo(ctx, "Pay rent", "2024-03-15", false)
	require.NoError(t, err)

	require.NoError(t, s.MarkAsComplete(ctx, todo.ID))
	got, err := s.GetTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	// Completing twice keeps it complete.
	require.NoError(t, s.MarkAsComplete(ctx, todo.ID))
	got, err = s.GetTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestMarkAsCompleteMissingIDIsNoop(t *testing.T) {
	s := testutil.NewTestStore(t)

	assert.NoError(t, s.MarkAsComplete(context.Background(), 4242))
}

func TestSetCompletionStatusToggleTwice(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo, err := s.AddTodo(ctx, "Buy chocolate", "2024-03-15", false)
	require.NoError(t, err)

	updated, err := s.SetCompletionStatus(ctx, todo.ID, !todo.Completed)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	updated, err = s.SetCompletionStatus(ctx, todo.ID, !updated.Completed)
	require.NoError(t, err)
	assert.Equal(t, todo.Completed, updated.Completed)
	assert.Equal(t, todo.DueDate, updated.DueDate)
}

func TestSetCompletionStatusMissing(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.SetCompletionStatus(context.Background(), 99, true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteTodo(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo, err := s.AddTodo(ctx, "Buy icecream", "2024-03-15", false)
	require.NoError(t, err)

	deleted, err := s.DeleteTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.GetTodo(ctx, todo.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	today, err := s.DueToday(ctx)
	require.NoError(t, err)
	assert.Empty(t, today)

	deleted, err = s.DeleteTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTodosStorageOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"c", "a", "b"} {
		_, err := s.AddTodo(ctx, title, "2024-03-20", false)
		require.NoError(t, err)
	}

	all, err := s.Todos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, titles(all))
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/todos.db"
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = s.AddTodo(ctx, "Persist me", "2030-01-01", false)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	all, err := s.Todos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Persist me"}, titles(all))
}
