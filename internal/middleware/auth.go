package middleware

import (
	"net/http"
)

// Authenticator reports whether the console holds a credential.
type Authenticator interface {
	Authenticated() bool
}

// AuthMiddleware rejects every request except login and the session probe
// with 401 until the console is logged in to the backend.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/login" || r.URL.Path == "/api/session" {
				next.ServeHTTP(w, r)
				return
			}

			if !auth.Authenticated() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
