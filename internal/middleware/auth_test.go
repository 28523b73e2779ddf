package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAuth bool

func (f fakeAuth) Authenticated() bool { return bool(f) }

func TestAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name   string
		auth   bool
		path   string
		status int
	}{
		{"login allowed", false, "/auth/login", http.StatusTeapot},
		{"session probe allowed", false, "/api/session", http.StatusTeapot},
		{"api rejected", false, "/api/presencas", http.StatusUnauthorized},
		{"logs rejected", false, "/logs/info", http.StatusUnauthorized},
		{"api allowed when logged in", true, "/api/presencas", http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			AuthMiddleware(fakeAuth(tt.auth))(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
