package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
)

const minPasswordLen = 8

// authForm is echoed back into the signup and login pages.
type authForm struct {
	FirstName string
	LastName  string
	Email     string
	Error     string
}

func (s *Server) signupPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "signup.html", authForm{})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	form := authForm{
		FirstName: strings.TrimSpace(formValue(r, "firstName")),
		LastName:  strings.TrimSpace(formValue(r, "lastName")),
		Email:     strings.TrimSpace(formValue(r, "email")),
	}
	password := formValue(r, "password")

	switch {
	case form.FirstName == "":
		form.Error = "First name is required"
	case form.Email == "":
		form.Error = "Email is required"
	case len(password) < minPasswordLen:
		form.Error = "Password must be at least 8 characters"
	}
	if form.Error != "" {
		s.authFailed(w, r, http.StatusBadRequest, "signup.html", form)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	user, err := s.store.CreateUser(ctx, model.User{
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrEmailTaken) {
		form.Error = "An account with that email already exists"
		s.authFailed(w, r, http.StatusConflict, "signup.html", form)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if err := s.signIn(ctx, w, sessionFrom(r.Context()), user.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	loggerFrom(r.Context(), s.log).Info("user signed up", "user_id", user.ID)
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()).Authenticated() {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}
	var form authForm
	if r.URL.Query().Get("error") != "" {
		form.Error = "Invalid email or password"
	}
	s.render(w, r, http.StatusOK, "login.html", form)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")
	password := formValue(r, "password")

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		loggerFrom(r.Context(), s.log).Info("login failed", "email", email)
		http.Redirect(w, r, "/login?error=invalid", http.StatusFound)
		return
	}

	if err := s.signIn(ctx, w, sessionFrom(r.Context()), user.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (s *Server) signout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	if err := s.signOut(ctx, w, sessionFrom(r.Context())); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) authFailed(w http.ResponseWriter, r *http.Request, status int, page string, form authForm) {
	if wantsJSON(r) {
		respondError(w, r, status, form.Error)
		return
	}
	s.render(w, r, status, page, form)
}
