package web

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/hkdf"

	"github.com/nhle/todoapp/internal/model"
)

const sessionCookie = "todo_session"

// deriveKey expands the configured secret into a 32-byte key for one use,
// so the session cookie and the CSRF cookie never share a key.
func deriveKey(secret []byte, purpose string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("deriving %s key: %w", purpose, err)
	}
	return key, nil
}

// newSessionCodec returns the codec that signs session cookie values.
func newSessionCodec(secret []byte, maxAge int) (*securecookie.SecureCookie, error) {
	hashKey, err := deriveKey(secret, "todoapp session cookie")
	if err != nil {
		return nil, err
	}
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(maxAge)
	return codec, nil
}

// sessionID decodes the session cookie. Missing, forged or stale cookies
// report false.
func (s *Server) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	var id string
	if err := s.cookies.Decode(sessionCookie, c.Value, &id); err != nil {
		return "", false
	}
	return id, id != ""
}

// signIn replaces any current session with a fresh one for userID.
func (s *Server) signIn(ctx context.Context, w http.ResponseWriter, old *model.Session, userID int64) error {
	if old != nil {
		if err := s.store.DeleteSession(ctx, old.ID); err != nil {
			return fmt.Errorf("ending session: %w", err)
		}
	}
	sess, err := s.store.CreateSession(ctx, userID, s.opts.SessionTTL)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	value, err := s.cookies.Encode(sessionCookie, sess.ID)
	if err != nil {
		return fmt.Errorf("encoding session cookie: %w", err)
	}
	s.writeSessionCookie(w, value, int(s.opts.SessionTTL.Seconds()))
	return nil
}

// signOut deletes the session and clears its cookie.
func (s *Server) signOut(ctx context.Context, w http.ResponseWriter, sess *model.Session) error {
	if sess != nil {
		if err := s.store.DeleteSession(ctx, sess.ID); err != nil {
			return fmt.Errorf("ending session: %w", err)
		}
	}
	s.writeSessionCookie(w, "", -1)
	return nil
}

func (s *Server) writeSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
