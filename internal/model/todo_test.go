package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayString(t *testing.T) {
	const today = "2024-03-15"

	tests := []struct {
		name string
		todo Todo
		want string
	}{
		{
			name: "due today hides date",
			todo: Todo{ID: 2, Title: "Pay rent", DueDate: today},
			want: "2. [ ] Pay rent",
		},
		{
			name: "completed overdue",
			todo: Todo{ID: 1, Title: "Submit assignment", DueDate: "2024-03-14", Completed: true},
			want: "1. [x] Submit assignment 2024-03-14",
		},
		{
			name: "due later",
			todo: Todo{ID: 5, Title: "Service vehicle", DueDate: "2024-03-16"},
			want: "5. [ ] Service vehicle 2024-03-16",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.todo.DisplayString(today))
		})
	}
}

func TestGroup(t *testing.T) {
	todos := []Todo{
		{ID: 1, DueDate: "2024-03-14"},
		{ID: 2, DueDate: "2024-03-15"},
		{ID: 3, DueDate: "2024-03-16"},
		{ID: 4, DueDate: "2023-12-31"},
	}

	g := Group(todos, "2024-03-15")
	assert.Equal(t, []Todo{todos[0], todos[3]}, g.Overdue)
	assert.Equal(t, []Todo{todos[1]}, g.DueToday)
	assert.Equal(t, []Todo{todos[2]}, g.DueLater)

	empty := Group(nil, "2024-03-15")
	assert.NotNil(t, empty.Overdue)
	assert.NotNil(t, empty.DueToday)
	assert.NotNil(t, empty.DueLater)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", got)

	got, err = ParseDate("2024-03-15T23:30:00Z", time.FixedZone("PLUS2", 2*60*60))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", got)

	_, err = ParseDate("tomorrow", time.UTC)
	assert.Error(t, err)

	_, err = ParseDate("", time.UTC)
	assert.Error(t, err)
}

func TestToday(t *testing.T) {
	now := time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15", Today(now, nil))
	assert.Equal(t, "2024-03-16", Today(now, time.FixedZone("PLUS1", 60*60)))
}
