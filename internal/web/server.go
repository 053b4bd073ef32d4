package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhle/todoapp/internal/store"
)

// Names the CSRF token travels under.
const (
	csrfField  = "_csrf"
	csrfHeader = "X-CSRF-Token"
	csrfCookie = "todo_csrf"
)

// Timeouts for store calls made while serving a request.
const (
	queryTimeout = 5 * time.Second
	writeTimeout = 3 * time.Second
)

// Options configures a Server.
type Options struct {
	// SessionTTL is how long a session lives after it is created.
	SessionTTL time.Duration
	// SessionSecret signs the session and CSRF cookies. Must not be empty.
	SessionSecret []byte
	// SecureCookies marks the session cookie Secure (HTTPS only).
	SecureCookies bool
	// BcryptCost is the password hashing cost; zero means bcrypt.DefaultCost.
	BcryptCost int
	// Logger receives request and error logs; nil means slog.Default().
	Logger *slog.Logger
}

// Server serves the todo web app.
type Server struct {
	store     store.Store
	opts      Options
	log       *slog.Logger
	templates map[string]*template.Template
	cookies   *securecookie.SecureCookie
	csrf      middleware
}

// New builds a Server over s.
func New(s store.Store, opts Options) (*Server, error) {
	if len(opts.SessionSecret) == 0 {
		return nil, errors.New("session secret must not be empty")
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	cookies, err := newSessionCodec(opts.SessionSecret, int(opts.SessionTTL.Seconds()))
	if err != nil {
		return nil, err
	}
	csrfKey, err := deriveKey(opts.SessionSecret, "todoapp csrf cookie")
	if err != nil {
		return nil, err
	}

	srv := &Server{
		store:     s,
		opts:      opts,
		log:       opts.Logger,
		templates: tmpl,
		cookies:   cookies,
	}
	srv.csrf = csrf.Protect(csrfKey,
		csrf.CookieName(csrfCookie),
		csrf.FieldName(csrfField),
		csrf.RequestHeader(csrfHeader),
		csrf.Path("/"),
		csrf.Secure(opts.SecureCookies),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(srv.csrfFailed)),
	)
	return srv, nil
}

// Handler returns the root HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	app := http.NewServeMux()

	app.HandleFunc("GET /{$}", s.index)
	app.HandleFunc("GET /signup", s.signupPage)
	app.HandleFunc("POST /signup", s.createUser)
	app.HandleFunc("POST /users", s.createUser)
	app.HandleFunc("GET /login", s.loginPage)
	app.HandleFunc("POST /session", s.login)
	app.HandleFunc("GET /signout", s.signout)

	app.Handle("GET /todos", s.requireLogin(s.listTodos))
	app.Handle("POST /todos", s.requireLogin(s.createTodo))
	app.Handle("PUT /todos/{id}", s.requireLogin(s.updateTodo))
	app.Handle("DELETE /todos/{id}", s.requireLogin(s.deleteTodo))

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", s.health)
	root.Handle("/", chain(app, s.withSession, s.withBody, s.prepareCSRF, s.csrf))

	return chain(root, s.logRequests, s.recoverPanics)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// Expired sessions are purged periodically while the server runs.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.purgeSessions(ctx, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) purgeSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.PurgeExpiredSessions(ctx)
			if err != nil {
				s.log.Warn("purging sessions failed", "error", err)
				continue
			}
			if n > 0 {
				s.log.Debug("purged expired sessions", "count", n)
			}
		}
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", nil)
}
