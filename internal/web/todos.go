package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
)

// todosPage is the data behind the todo list page.
type todosPage struct {
	User   *model.User
	Today  string
	Groups model.Groups
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	groups, err := s.groupedTodos(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if wantsJSON(r) {
		respondJSON(w, http.StatusOK, groups)
		return
	}

	user, err := s.store.GetUserByID(ctx, sessionFrom(r.Context()).UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "todos.html", todosPage{
		User:   user,
		Today:  s.store.Today(),
		Groups: groups,
	})
}

func (s *Server) groupedTodos(ctx context.Context) (model.Groups, error) {
	overdue, err := s.store.Overdue(ctx)
	if err != nil {
		return model.Groups{}, err
	}
	dueToday, err := s.store.DueToday(ctx)
	if err != nil {
		return model.Groups{}, err
	}
	dueLater, err := s.store.DueLater(ctx)
	if err != nil {
		return model.Groups{}, err
	}
	return model.Groups{Overdue: overdue, DueToday: dueToday, DueLater: dueLater}, nil
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	completed := false
	if v := formValue(r, "completed"); v != "" {
		b, err := parseCheckbox(v)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "completed must be a boolean")
			return
		}
		completed = b
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	todo, err := s.store.AddTodo(ctx, formValue(r, "title"), formValue(r, "dueDate"), completed)
	if errors.Is(err, store.ErrInvalidTodo) {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	loggerFrom(r.Context(), s.log).Debug("todo created", "todo_id", todo.ID)
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// updateTodo sets the completion status from the body, or flips it when
// the body does not say.
func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	var completed bool
	if hasFormValue(r, "completed") {
		b, err := parseCheckbox(formValue(r, "completed"))
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "completed must be a boolean")
			return
		}
		completed = b
	} else {
		current, err := s.store.GetTodo(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "todo not found")
			return
		}
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		completed = !current.Completed
	}

	todo, err := s.store.SetCompletionStatus(ctx, id, completed)
	if errors.Is(err, store.ErrNotFound) {
		respondJSONError(w, http.StatusNotFound, "todo not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, todo)
}

// deleteTodo answers true when a todo was removed and false otherwise.
func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	deleted, err := s.store.DeleteTodo(ctx, id)
	if err != nil {
		loggerFrom(r.Context(), s.log).Error("deleting todo failed", "todo_id", id, "error", err)
		respondJSON(w, http.StatusUnprocessableEntity, false)
		return
	}
	respondJSON(w, http.StatusOK, deleted)
}

func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondJSONError(w, http.StatusBadRequest, "invalid todo id")
		return 0, false
	}
	return id, true
}

func respondJSONError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// parseCheckbox accepts the values browsers and JSON clients send for a
// boolean field.
func parseCheckbox(v string) (bool, error) {
	if v == "on" {
		return true, nil
	}
	return strconv.ParseBool(v)
}
