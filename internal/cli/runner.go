package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/99designs/keyring"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/nhle/todoapp/internal/credential"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/ui/todolist"
)

// UsageError marks bad command-line input; main exits with status 2.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// App runs CLI subcommands against a store.
type App struct {
	Store      store.Store
	Config     *model.AppConfig
	ConfigPath string
	Out        io.Writer
	Err        io.Writer
	// OpenKeyring opens the keyring holding the web session secret;
	// nil means credential.Open.
	OpenKeyring func() (keyring.Keyring, error)
}

// Run dispatches a subcommand. With no arguments it prints the report.
func (a *App) Run(ctx context.Context, args []string) error {
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}

	if len(args) == 0 {
		return ShowList(ctx, a.Out, a.Store)
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		a.PrintHelp()
		return nil
	case "list", "ls":
		return ShowList(ctx, a.Out, a.Store)
	case "add":
		return a.add(ctx, rest)
	case "done":
		return a.done(ctx, rest)
	case "rm", "delete":
		return a.remove(ctx, rest)
	case "sports":
		return a.sports(ctx, rest)
	case "tui":
		return a.tui(ctx)
	case "config":
		return a.config(rest)
	}

	return usageErrorf("unknown command %q (see 'todo help')", cmd)
}

// PrintHelp writes command usage.
func (a *App) PrintHelp() {
	fmt.Fprint(a.Out, `todo - manage todos from the terminal

Usage:
  todo [global flags] <command> [args]

Commands:
  list                         Print overdue, due today and due later todos (default)
  add <title...> [flags]       Add a todo
      --due YYYY-MM-DD         Due date (default today)
      --in N                   Due N days from today
      --completed              Create it already completed
  done <id>                    Mark a todo complete
  rm <id>                      Delete a todo
  sports add <title...>        Add a sport
  sports list                  List sports
  tui                          Browse todos interactively
  config init [--force]        Write the current settings to the config file
  config rotate-secret         Replace the web session secret (signs everyone out)

Global flags:
  --config PATH                Config file (default ~/.config/todoapp/config.yaml)
  --db PATH                    SQLite database path
  --timezone NAME              Timezone that decides "today" (default UTC)
  --log-format json|text       Log output format
  --log-level LEVEL            debug, info, warn or error
`)
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	fs.SetOutput(a.Err)
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	in := fs.Int("in", 0, "due in N days")
	completed := fs.Bool("completed", false, "create as completed")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("add: %v", err)
	}

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return usageErrorf("usage: todo add <title...> [--due YYYY-MM-DD | --in N] [--completed]")
	}
	if *due != "" && fs.Changed("in") {
		return usageErrorf("add: --due and --in are mutually exclusive")
	}

	dueDate := *due
	if dueDate == "" {
		dueDate = a.Store.Today()
		if *in != 0 {
			d, _ := time.Parse(model.DateLayout, dueDate)
			dueDate = d.AddDate(0, 0, *in).Format(model.DateLayout)
		}
	}

	todo, err := a.Store.AddTodo(ctx, title, dueDate, *completed)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "todo added", "id", todo.ID, "due_date", todo.DueDate)
	fmt.Fprintf(a.Out, "Added %s\n", todo.DisplayString(a.Store.Today()))
	return nil
}

func (a *App) done(ctx context.Context, args []string) error {
	id, err := parseID("done", args)
	if err != nil {
		return err
	}
	if err := a.Store.MarkAsComplete(ctx, id); err != nil {
		return err
	}
	slog.DebugContext(ctx, "todo completed", "id", id)
	return ShowList(ctx, a.Out, a.Store)
}

func (a *App) remove(ctx context.Context, args []string) error {
	id, err := parseID("rm", args)
	if err != nil {
		return err
	}
	deleted, err := a.Store.DeleteTodo(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintf(a.Out, "No todo with id %d\n", id)
		return nil
	}
	fmt.Fprintf(a.Out, "Deleted todo %d\n", id)
	return nil
}

func (a *App) sports(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" || args[0] == "ls" {
		sports, err := a.Store.Sports(ctx)
		if err != nil {
			return err
		}
		printSports(a.Out, sports)
		return nil
	}
	if args[0] != "add" {
		return usageErrorf("unknown sports command %q", args[0])
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		return usageErrorf("usage: todo sports add <title...>")
	}
	sport, err := a.Store.AddSport(ctx, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Added %d. %s\n", sport.ID, sport.Title)
	return nil
}

func (a *App) tui(ctx context.Context) error {
	p := tea.NewProgram(
		todolist.New(a.Store),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

func (a *App) config(args []string) error {
	if len(args) > 0 && args[0] == "rotate-secret" {
		return a.rotateSecret()
	}
	if len(args) == 0 || args[0] != "init" {
		return usageErrorf("usage: todo config init [--force] | todo config rotate-secret")
	}
	fs := pflag.NewFlagSet("config init", pflag.ContinueOnError)
	fs.SetOutput(a.Err)
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args[1:]); err != nil {
		return usageErrorf("config init: %v", err)
	}

	if _, err := os.Stat(a.ConfigPath); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", a.ConfigPath)
	}
	if err := model.SaveConfig(a.ConfigPath, a.Config); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Wrote %s\n", a.ConfigPath)
	return nil
}

func (a *App) rotateSecret() error {
	open := a.OpenKeyring
	if open == nil {
		open = credential.Open
	}
	ring, err := open()
	if err != nil {
		return err
	}
	if _, err := credential.RotateSessionSecret(ring); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "Session secret rotated")
	return nil
}

func parseID(cmd string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, usageErrorf("usage: todo %s <id>", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("%s: not a valid id: %s", cmd, args[0])
	}
	return id, nil
}
