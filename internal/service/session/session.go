// Package session owns the bearer credential of the console: it logs in
// against the backend token endpoint, persists the token in the local
// session storage and notifies listeners on logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"attendance/internal/dto"
	"attendance/internal/logger"
	"attendance/internal/model"
	"attendance/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKey is the fixed key of the credential in the session storage.
const TokenKey = "token"

// Info is a readable view of the current credential.
type Info struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// Store is the single source of truth for the credential.
type Store struct {
	baseURL *url.URL
	client  *http.Client
	repo    repository.CredentialRepository
	logger  *logger.Logger

	mu        sync.RWMutex
	token     string
	listeners []func()
}

// NewStore creates an unauthenticated store. Call Restore to load a persisted credential.
func NewStore(baseURL string, client *http.Client, repo repository.CredentialRepository, logger *logger.Logger) (*Store, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{baseURL: u, client: client, repo: repo, logger: logger}, nil
}

// Restore loads the persisted credential. An absent credential leaves the
// store unauthenticated and the key is deleted.
func (s *Store) Restore() error {
	token, ok, err := s.repo.Get(TokenKey)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok || token == "" {
		if err := s.repo.Delete(TokenKey); err != nil {
			return fmt.Errorf("restore session: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info("🔑 Session restored")
	return nil
}

// Login exchanges username and password for a bearer token. On any failure
// the state is unchanged.
func (s *Store) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	endpoint := s.baseURL.JoinPath("token").String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warning("Login request failed: %v", err)
		return fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		s.logger.Warning("Login rejected for %q: status %d", username, resp.StatusCode)
		return model.ErrInvalidCredentials
	}

	var body dto.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: decode token response: %v", model.ErrNetwork, err)
	}
	if body.AccessToken == "" {
		return model.ErrInvalidCredentials
	}

	if err := s.repo.Put(TokenKey, body.AccessToken); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.token = body.AccessToken
	s.mu.Unlock()

	s.logger.Info("✅ Logged in as %s", username)
	return nil
}

// Logout clears the credential from storage and memory and notifies the
// logout listeners. Calling it while unauthenticated is a no-op apart from
// the listeners.
func (s *Store) Logout() error {
	err := s.repo.Delete(TokenKey)

	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}

	if wasAuthenticated {
		s.logger.Info("👋 Logged out")
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// OnLogout registers fn to run after every Logout.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Current returns the credential, if any. The session storage is shared by
// every console process on the host, so a login or logout made by another
// process is picked up here. When the storage cannot be read the last known
// credential is used.
func (s *Store) Current() (string, bool) {
	stored, ok, err := s.repo.Get(TokenKey)
	if err != nil {
		s.logger.Warning("Cannot read session storage: %v", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.token, s.token != ""
	}
	if !ok {
		stored = ""
	}

	s.mu.Lock()
	ended := s.token != "" && stored == ""
	s.token = stored
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	if ended {
		s.logger.Info("👋 Session ended by another process")
		for _, fn := range listeners {
			fn()
		}
	}
	return stored, stored != ""
}

func (s *Store) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Describe decodes the token claims without verifying them. A token that is
// not a JWT is still a valid credential; only the subject is left empty.
func (s *Store) Describe() Info {
	token, ok := s.Current()
	if !ok {
		return Info{}
	}

	info := Info{Authenticated: true}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		if !errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warning("Cannot decode session token: %v", err)
		}
		return info
	}

	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info
}
