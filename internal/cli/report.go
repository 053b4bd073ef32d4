package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/theme"
)

// ShowList prints the todo report: a title line, then the Overdue,
// Due Today and Due Later sections in that order.
func ShowList(ctx context.Context, w io.Writer, s store.TodoStore) error {
	overdue, err := s.Overdue(ctx)
	if err != nil {
		return err
	}
	dueToday, err := s.DueToday(ctx)
	if err != nil {
		return err
	}
	dueLater, err := s.DueLater(ctx)
	if err != nil {
		return err
	}

	r := lipgloss.NewRenderer(w)
	today := s.Today()

	var b strings.Builder
	b.WriteString("My Todo list\n\n")
	writeSection(&b, r, theme.BucketOverdue, overdue, today)
	b.WriteString("\n\n")
	writeSection(&b, r, theme.BucketDueToday, dueToday, today)
	b.WriteString("\n\n")
	writeSection(&b, r, theme.BucketDueLater, dueLater, today)

	_, err = io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, r *lipgloss.Renderer, title string, todos []model.Todo, today string) {
	b.WriteString(theme.BucketStyle(r, title).Render(title))
	b.WriteString("\n")
	lines := make([]string, len(todos))
	for i, t := range todos {
		lines[i] = t.DisplayString(today)
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
}

// printSports lists sports one per line as "<id>. <title>".
func printSports(w io.Writer, sports []model.Sport) {
	if len(sports) == 0 {
		fmt.Fprintln(w, "No sports yet.")
		return
	}
	for _, s := range sports {
		fmt.Fprintf(w, "%d. %s\n", s.ID, s.Title)
	}
}
