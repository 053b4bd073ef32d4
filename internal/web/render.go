package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/csrf"
)

const maxBodyBytes = 1 << 20

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"index.html", "signup.html", "login.html", "todos.html"}

var templateFuncs = template.FuncMap{
	// dict builds a map from alternating keys and values so partials can
	// take more than one argument.
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, fmt.Errorf("dict needs an even number of arguments")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict key %v is not a string", kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	},
}

func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		out[page] = t
	}
	return out, nil
}

// pageData is what every page template receives.
type pageData struct {
	CSRFToken string
	Data      any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	t, ok := s.templates[page]
	if !ok {
		s.serverError(w, r, fmt.Errorf("unknown template %s", page))
		return
	}

	pd := pageData{CSRFToken: csrf.Token(r), Data: data}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", pd); err != nil {
		s.serverError(w, r, fmt.Errorf("rendering %s: %w", page, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError answers with a JSON error for API clients and plain text
// for everyone else.
func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if wantsJSON(r) {
		respondJSON(w, status, map[string]string{"error": msg})
		return
	}
	http.Error(w, msg, status)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	loggerFrom(r.Context(), s.log).Error("request failed", "path", r.URL.Path, "error", err)
	respondError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// wantsJSON reports whether the client sent or asked for JSON.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || isJSONBody(r)
}

func isJSONBody(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

// parseBody reads a JSON object or urlencoded form into url.Values.
// JSON scalars are converted to their string form.
func parseBody(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return url.Values{}, nil
	}

	if !isJSONBody(r) {
		return url.ParseQuery(string(raw))
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	vals := make(url.Values, len(obj))
	for k, v := range obj {
		switch v := v.(type) {
		case nil:
		case string:
			vals.Set(k, v)
		case bool:
			vals.Set(k, strconv.FormatBool(v))
		case float64:
			vals.Set(k, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			vals.Set(k, string(b))
		}
	}
	return vals, nil
}
