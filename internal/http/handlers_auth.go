package http

import (
	"errors"
	"log/slog"
	"net/http"

	"tally/internal/core"
)

// handleHome shows the login page, or the dashboard when a session is active.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessions.user(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login.html", nil)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/register", "error", "Invalid form")
		return
	}
	username := formValue(r, "username")
	password := formValue(r, "password")

	if err := s.auth.Register(username, password); err != nil {
		if errors.Is(err, core.ErrEmptyField) || errors.Is(err, core.ErrDuplicateUser) {
			redirectFlash(w, r, "/register", "error", flashForError(err))
			return
		}
		slog.ErrorContext(r.Context(), "Failed to register user", "username", username, "error", err)
		redirectFlash(w, r, "/register", "error", flashForError(err))
		return
	}

	slog.InfoContext(r.Context(), "User registered", "username", username)
	redirectFlash(w, r, "/", "success", "Account created. Please login.")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/", "error", "Invalid form")
		return
	}
	username := formValue(r, "username")
	password := formValue(r, "password")

	if err := s.auth.Authenticate(username, password); err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			redirectFlash(w, r, "/", "error", "Invalid credentials")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to authenticate user", "username", username, "error", err)
		redirectFlash(w, r, "/", "error", "Something went wrong")
		return
	}
	if err := s.sessions.start(w, username); err != nil {
		slog.ErrorContext(r.Context(), "Failed to start session", "username", username, "error", err)
		redirectFlash(w, r, "/", "error", "Something went wrong")
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "profile.html", nil)
}
