package http

import (
	"errors"
	"log/slog"
	"net/http"

	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/ledger"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)

	summary, err := s.reports.Summary(username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build summary", "username", username, "error", err)
		redirectFlash(w, r, "/", "error", "Something went wrong")
		return
	}

	txs, err := s.ledger.ListFor(username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "username", username, "error", err)
		redirectFlash(w, r, "/", "error", "Something went wrong")
		return
	}
	sortByDateDesc(txs)
	if len(txs) > 6 {
		txs = txs[:6]
	}

	s.render(w, r, "dashboard.html", map[string]any{
		"Summary": summary,
		"Recent":  txs,
	})
}

func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "add_transaction.html", map[string]any{
		"Categories": core.Categories,
		"Today":      today(),
	})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/add", "error", "Invalid form")
		return
	}

	typ := core.TxType(formValue(r, "type"))
	date := formValue(r, "date")
	if date == "" {
		date = today()
	}
	category := formValue(r, "category")
	if category == "" {
		category = "Other"
	}
	amount := formValue(r, "amount")
	if amount == "" {
		amount = "0"
	}
	description := formValue(r, "description")

	id, err := s.ledger.Create(r.Context(), currentUser(r), typ, date, category, amount, description)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidType) || errors.Is(err, core.ErrInvalidCategory) {
			redirectFlash(w, r, "/add", "error", flashForError(err))
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create transaction", "username", currentUser(r), "error", err)
		redirectFlash(w, r, "/add", "error", "Something went wrong")
		return
	}

	slog.InfoContext(r.Context(), "Transaction created", "id", id, "username", currentUser(r))
	redirectFlash(w, r, "/dashboard", "success", "Transaction added")
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)
	txs, err := s.ledger.ListFor(username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "username", username, "error", err)
		redirectFlash(w, r, "/", "error", "Something went wrong")
		return
	}
	sortByDateDesc(txs)

	s.render(w, r, "view_transactions.html", map[string]any{
		"Rows": txs,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ledger.Delete(r.Context(), id, currentUser(r)); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "id", id, "error", err)
		redirectFlash(w, r, "/transactions", "error", "Something went wrong")
		return
	}
	redirectFlash(w, r, "/transactions", "success", "Deleted")
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tx, err := s.ledger.Get(id, currentUser(r))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			redirectFlash(w, r, "/transactions", "error", "Not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load transaction", "id", id, "error", err)
		redirectFlash(w, r, "/transactions", "error", "Something went wrong")
		return
	}

	s.render(w, r, "add_transaction.html", map[string]any{
		"Categories": core.Categories,
		"Edit":       tx,
		"Today":      today(),
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/transactions", "error", "Invalid form")
		return
	}
	id := chi.URLParam(r, "id")

	// Empty date or category keeps the stored value; amount and description
	// are always taken from the form.
	patch := ledger.Patch{}
	if v := formValue(r, "date"); v != "" {
		patch.Date = &v
	}
	if v := formValue(r, "category"); v != "" {
		patch.Category = &v
	}
	amount := formValue(r, "amount")
	patch.Amount = &amount
	description := formValue(r, "description")
	patch.Description = &description

	if err := s.ledger.Update(r.Context(), id, currentUser(r), patch); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			redirectFlash(w, r, "/transactions", "error", "Not found")
		case errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrInvalidCategory):
			redirectFlash(w, r, "/edit/"+id, "error", flashForError(err))
		default:
			slog.ErrorContext(r.Context(), "Failed to update transaction", "id", id, "error", err)
			redirectFlash(w, r, "/transactions", "error", "Something went wrong")
		}
		return
	}

	slog.InfoContext(r.Context(), "Transaction updated", "id", id, "username", currentUser(r))
	redirectFlash(w, r, "/transactions", "success", "Updated")
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(username)+`"`)
	if err := s.exporter.WriteCSV(w, username); err != nil {
		// Headers are gone already; log and cut the stream short.
		slog.ErrorContext(r.Context(), "Failed to export transactions", "username", username, "error", err)
	}
}
