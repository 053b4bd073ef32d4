package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/todoapp/internal/model"
)

// AddSport inserts a new sport.
func (s *SQLiteStore) AddSport(ctx context.Context, title string) (*model.Sport, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("sport title must not be empty")
	}

	now := s.now().UTC()
	sport := model.Sport{Title: title, CreatedAt: now, UpdatedAt: now}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO sports (title, created_at, updated_at) VALUES (?, ?, ?)",
		sport.Title, sport.CreatedAt, sport.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sport: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}
	sport.ID = id
	return &sport, nil
}

// Sports returns every sport.
func (s *SQLiteStore) Sports(ctx context.Context) ([]model.Sport, error) {
	sports := []model.Sport{}
	err := s.db.SelectContext(ctx, &sports,
		"SELECT id, title, created_at, updated_at FROM sports")
	if err != nil {
		return nil, fmt.Errorf("querying sports: %w", err)
	}
	return sports, nil
}
