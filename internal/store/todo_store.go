package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/todoapp/internal/model"
)

const todoColumns = "id, title, due_date, completed, created_at, updated_at"

// AddTodo inserts a new todo. dueDate may be YYYY-MM-DD or an RFC 3339
// timestamp; it is stored as a calendar day.
func (s *SQLiteStore) AddTodo(
	ctx context.Context,
	title, dueDate string,
	completed bool,
) (*model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("todo title must not be empty: %w", ErrInvalidTodo)
	}
	day, err := model.ParseDate(dueDate, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTodo, err)
	}

	now := s.now().UTC()
	todo := model.Todo{
		Title:     title,
		DueDate:   day,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (title, due_date, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		todo.Title, todo.DueDate, boolToInt(todo.Completed), todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	todo.ID = id
	return &todo, nil
}

// GetTodo retrieves a single todo by ID.
func (s *SQLiteStore) GetTodo(ctx context.Context, id int64) (*model.Todo, error) {
	var todo model.Todo
	err := s.db.GetContext(ctx, &todo,
		"SELECT "+todoColumns+" FROM todos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting todo %d: %w", id, err)
	}
	return &todo, nil
}

// Todos returns every todo in storage order.
func (s *SQLiteStore) Todos(ctx context.Context) ([]model.Todo, error) {
	return s.selectTodos(ctx, "")
}

// Overdue returns todos whose due date is before today.
func (s *SQLiteStore) Overdue(ctx context.Context) ([]model.Todo, error) {
	return s.selectTodos(ctx, "due_date < ?", s.Today())
}

// DueToday returns todos due today.
func (s *SQLiteStore) DueToday(ctx context.Context) ([]model.Todo, error) {
	return s.selectTodos(ctx, "due_date = ?", s.Today())
}

// DueLater returns todos whose due date is after today.
func (s *SQLiteStore) DueLater(ctx context.Context) ([]model.Todo, error) {
	return s.selectTodos(ctx, "due_date > ?", s.Today())
}

// MarkAsComplete sets completed on the todo. A missing id is not an error.
func (s *SQLiteStore) MarkAsComplete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE todos SET completed = 1, updated_at = ? WHERE id = ?",
		s.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("completing todo %d: %w", id, err)
	}
	return nil
}

// SetCompletionStatus sets the completed flag and returns the updated todo.
func (s *SQLiteStore) SetCompletionStatus(
	ctx context.Context,
	id int64,
	completed bool,
) (*model.Todo, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE todos SET completed = ?, updated_at = ? WHERE id = ?",
		boolToInt(completed), s.now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating todo %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	return s.GetTodo(ctx, id)
}

// DeleteTodo removes a todo by ID and reports whether a row was removed.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting todo %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting todo %d: %w", id, err)
	}
	return rows > 0, nil
}

// selectTodos runs a todo query with an optional WHERE clause.
func (s *SQLiteStore) selectTodos(
	ctx context.Context,
	where string,
	args ...interface{},
) ([]model.Todo, error) {
	query := "SELECT " + todoColumns + " FROM todos"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id"

	todos := []model.Todo{}
	if err := s.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	return todos, nil
}
