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

	"github.com/nhle/todoapp/internal/credential"
	"github.com/nhle/todoapp/internal/logging"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
	"github.com/nhle/todoapp/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("todo-web", pflag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "config file")
	fs.String("db", "", "SQLite database path")
	fs.String("addr", "", "listen address")
	fs.String("timezone", "", "timezone that decides today")
	fs.String("log-format", "", "log format (json or text)")
	fs.String("log-level", "", "log level")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := model.LoadConfig(*configPath, fs)
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path, store.WithLocation(loc))
	if err != nil {
		return err
	}
	defer s.Close()

	secret, err := sessionSecret(cfg)
	if err != nil {
		return err
	}

	srv, err := web.New(s, web.Options{
		SessionTTL:    cfg.Web.SessionTTL,
		SessionSecret: secret,
		SecureCookies: cfg.Web.SecureCookies,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("todo web starting",
		"addr", cfg.Web.Addr,
		"db", cfg.Database.Path,
		"timezone", loc.String(),
	)
	return srv.Run(ctx, cfg.Web.Addr)
}

// sessionSecret prefers an explicitly configured secret and otherwise
// loads (or creates) one in the system keyring.
func sessionSecret(cfg *model.AppConfig) ([]byte, error) {
	if cfg.Web.SessionSecret != "" {
		return []byte(cfg.Web.SessionSecret), nil
	}
	ring, err := credential.Open()
	if err != nil {
		return nil, err
	}
	return credential.SessionSecret(ring)
}
