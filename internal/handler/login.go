package handler

import (
	"net/http"

	"attendance/internal/logger"
	"attendance/internal/service/session"
)

// LoginHandler handles POST /auth/login with the form fields username and password.
func LoginHandler(store *session.Store, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		password := r.FormValue("password")
		if username == "" || password == "" {
			writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
			return
		}

		if err := store.Login(r.Context(), username, password); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, store.Describe())
	}
}

// LogoutHandler handles POST /auth/logout. It always succeeds.
func LogoutHandler(store *session.Store, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Logout(); err != nil {
			logger.Error("Logout could not clear the stored session: %v", err)
		}
		writeJSON(w, logger, http.StatusOK, store.Describe())
	}
}

// SessionHandler handles GET /api/session.
func SessionHandler(store *session.Store, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, store.Describe())
	}
}
