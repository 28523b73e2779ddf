package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"attendance/internal/logger"
	"attendance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCredentials string

func (s staticCredentials) Current() (string, bool) { return string(s), s != "" }

func newClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()

	c, err := NewClient(srv.URL, srv.Client(), staticCredentials(token), logger.NewDiscard())
	require.NoError(t, err)
	return c
}

func TestDo_AttachesBearerAndDecodes(t *testing.T) {
	var gotAuth, gotQuery, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]int{"total": 25})
	}))
	defer srv.Close()

	var out struct {
		Total int `json:"total"`
	}
	q := url.Values{}
	q.Set("page", "2")
	err := newClient(t, srv, "tok").Do(context.Background(), Request{Method: http.MethodGet, Path: "/presencas", Query: q}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "page=2", gotQuery)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, 25, out.Total)
}

func TestDo_SendsJSONBody(t *testing.T) {
	var gotBody map[string]string
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
	}))
	defer srv.Close()

	err := newClient(t, srv, "tok").Do(context.Background(), Request{
		Method: http.MethodDelete,
		Path:   "pessoas/p-1/tags",
		Body:   map[string]string{"tag": "vip"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/pessoas/p-1/tags", gotPath)
	assert.Equal(t, "vip", gotBody["tag"])
}

func TestDo_NoCredentialSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	err := newClient(t, srv, "").Do(context.Background(), Request{Path: "/pessoas"}, nil)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestDo_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, model.ErrUnauthorized},
		{http.StatusForbidden, model.ErrUnauthorized},
		{http.StatusNotFound, model.ErrRequestFailed},
		{http.StatusInternalServerError, model.ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			err := newClient(t, srv, "tok").Do(context.Background(), Request{Path: "/pessoas"}, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDo_RequestErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newClient(t, srv, "tok").Do(context.Background(), Request{Method: http.MethodDelete, Path: "/presencas/7"}, nil)

	var reqErr *model.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
	assert.Equal(t, "boom", reqErr.Body)
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newClient(t, srv, "tok")
	srv.Close()

	err := c.Do(context.Background(), Request{Path: "/pessoas"}, nil)
	assert.ErrorIs(t, err, model.ErrNetwork)
}
