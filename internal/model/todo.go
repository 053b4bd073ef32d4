package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for due dates.
const DateLayout = "2006-01-02"

// Todo is a single item on the todo list.
type Todo struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	DueDate   string    `json:"dueDate" db:"due_date"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// DisplayString renders the todo as a single report line, e.g.
// "3. [x] Pay rent 2024-05-01". The due date is left out when it is today.
func (t Todo) DisplayString(today string) string {
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}
	due := t.DueDate
	if due == today {
		due = ""
	}
	return strings.TrimSpace(fmt.Sprintf("%d. %s %s %s", t.ID, checkbox, t.Title, due))
}

// Today returns the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// ParseDate validates a due date and normalizes it to DateLayout. Full
// RFC 3339 timestamps are accepted and truncated to their calendar day in loc.
func ParseDate(s string, loc *time.Location) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("due date is required")
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d.Format(DateLayout), nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return "", fmt.Errorf("invalid due date %q, use YYYY-MM-DD", s)
	}
	return Today(ts, loc), nil
}

// Groups holds todos bucketed relative to a given day.
type Groups struct {
	Overdue  []Todo `json:"overdue"`
	DueToday []Todo `json:"dueToday"`
	DueLater []Todo `json:"dueLater"`
}

// Group buckets todos by comparing their due date with today. Order within
// each bucket follows the input order.
func Group(todos []Todo, today string) Groups {
	g := Groups{
		Overdue:  []Todo{},
		DueToday: []Todo{},
		DueLater: []Todo{},
	}
	for _, t := range todos {
		switch {
		case t.DueDate < today:
			g.Overdue = append(g.Overdue, t)
		case t.DueDate == today:
			g.DueToday = append(g.DueToday, t)
		default:
			g.DueLater = append(g.DueLater, t)
		}
	}
	return g
}
