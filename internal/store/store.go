package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/todoapp/internal/model"
)

// ErrNotFound is returned by lookups that target a missing row.
var ErrNotFound = errors.New("not found")

// ErrInvalidTodo is returned when a todo has no title or a bad due date.
var ErrInvalidTodo = errors.New("invalid todo")

// TodoStore is the todo query surface. "Today" is the calendar day of the
// store's clock; time of day is ignored.
type TodoStore interface {
	AddTodo(ctx context.Context, title, dueDate string, completed bool) (*model.Todo, error)
	GetTodo(ctx context.Context, id int64) (*model.Todo, error)
	Todos(ctx context.Context) ([]model.Todo, error)
	Overdue(ctx context.Context) ([]model.Todo, error)
	DueToday(ctx context.Context) ([]model.Todo, error)
	DueLater(ctx context.Context) ([]model.Todo, error)
	MarkAsComplete(ctx context.Context, id int64) error
	SetCompletionStatus(ctx context.Context, id int64, completed bool) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id int64) (bool, error)
	Today() string
}

// SportStore is the sports listing surface.
type SportStore interface {
	AddSport(ctx context.Context, title string) (*model.Sport, error)
	Sports(ctx context.Context) ([]model.Sport, error)
}

// UserStore persists web accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// SessionStore persists browser sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*model.Session, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Store is everything the applications need from persistence.
type Store interface {
	TodoStore
	SportStore
	UserStore
	SessionStore
	Close() error
}
