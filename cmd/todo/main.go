package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nhle/todoapp/internal/cli"
	"github.com/nhle/todoapp/internal/logging"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Usage = func() {}
	configPath := fs.String("config", model.DefaultConfigPath(), "config file")
	fs.String("db", "", "SQLite database path")
	fs.String("timezone", "", "timezone that decides today")
	fs.String("log-format", "", "log format (json or text)")
	fs.String("log-level", "", "log level")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			(&cli.App{}).PrintHelp()
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := model.LoadConfig(*configPath, fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path, store.WithLocation(loc))
	if err != nil {
		slog.Error("opening database failed", "path", cfg.Database.Path, "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer s.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &cli.App{
		Store:      s,
		Config:     cfg,
		ConfigPath: *configPath,
		Out:        os.Stdout,
		Err:        os.Stderr,
	}
	if err := app.Run(ctx, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var usage *cli.UsageError
		if errors.As(err, &usage) {
			return 2
		}
		slog.Debug("command failed", "error", err)
		return 1
	}
	return 0
}
