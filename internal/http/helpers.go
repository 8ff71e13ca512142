package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"tally/internal/core"
)

// render executes a page template, threading the flash message (if any) and
// the signed-in username into the data map.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Username"]; !ok {
		data["Username"] = currentUser(r)
	}
	data["Flash"] = popFlash(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render template", "template", name, "error", err)
	}
}

// redirectFlash sets a one-shot message and redirects.
func redirectFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	setFlash(w, kind, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sortByDateDesc orders transactions newest first. Dates are YYYY-MM-DD
// strings, so lexicographic comparison is chronological.
func sortByDateDesc(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date > txs[j].Date
	})
}

// formValue trims the named form field.
func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// today is the default date for new transactions.
func today() string {
	return time.Now().Format("2006-01-02")
}

// flashForError maps service errors to the message shown to the user. Storage
// faults keep a generic message; the log line carries the detail.
func flashForError(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid amount"
	case errors.Is(err, core.ErrNotFound):
		return "Not found"
	case errors.Is(err, core.ErrDuplicateUser):
		return "Username already exists"
	case errors.Is(err, core.ErrEmptyField):
		return "Provide username and password"
	case errors.Is(err, core.ErrInvalidType):
		return "Invalid transaction type"
	case errors.Is(err, core.ErrInvalidCategory):
		return "Invalid category"
	default:
		return "Something went wrong"
	}
}
