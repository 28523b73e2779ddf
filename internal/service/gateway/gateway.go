// Package gateway performs authenticated JSON requests against the backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"attendance/internal/logger"
	"attendance/internal/model"

	"github.com/google/uuid"
)

const maxErrorBody = 512

// CredentialSource yields the current bearer token.
type CredentialSource interface {
	Current() (string, bool)
}

// Request describes one backend call. Path is relative to the backend URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Client attaches the credential to every request and maps the outcome to
// the model error kinds. It never changes the session.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	credentials CredentialSource
	logger      *logger.Logger
}

func NewClient(baseURL string, httpClient *http.Client, credentials CredentialSource, logger *logger.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: u, http: httpClient, credentials: credentials, logger: logger}, nil
}

// Do sends req and decodes a 2xx JSON response into out (nil discards it).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	token, ok := c.credentials.Current()
	if !ok {
		return model.ErrUnauthorized
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warning("%s %s failed: %v", req.Method, req.Path, err)
		return fmt.Errorf("%w: %s %s: %v", model.ErrNetwork, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s: status %d", model.ErrUnauthorized, req.Method, req.Path, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		reqErr := &model.RequestError{
			Method: req.Method,
			Path:   req.Path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
		c.logger.Warning("Backend error [%s]: %v", httpReq.Header.Get("X-Request-ID"), reqErr)
		return reqErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", model.ErrNetwork, req.Method, req.Path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(strings.TrimLeft(req.Path, "/"))
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}
