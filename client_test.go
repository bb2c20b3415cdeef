package gogun

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey = "key-3ax6xnjp29jd6fds4gc373sgvjxteol0"
	testDomain = "example.com"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds, err := CredentialsWithBase(server.URL+"/v3", testAPIKey, testDomain)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(creds, WithLogger(logger), WithHTTPClient(server.Client()))
}

func TestNewCredentials(t *testing.T) {
	creds, err := NewCredentials(testAPIKey, testDomain)
	require.NoError(t, err)
	assert.Equal(t, testDomain, creds.Domain())
	assert.Equal(t, DefaultAPIBase, creds.apiBase)
}

func TestCredentialsWithBase_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		apiBase string
		apiKey  string
		domain  string
	}{
		{"bad scheme", "ftp://api.mailgun.net/v3", testAPIKey, testDomain},
		{"no dots in base", "http://localhost", testAPIKey, testDomain},
		{"short key", DefaultAPIBase, "key-short", testDomain},
		{"empty key", DefaultAPIBase, "", testDomain},
		{"domain without dot", DefaultAPIBase, testAPIKey, "localhost"},
		{"empty domain", DefaultAPIBase, testAPIKey, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CredentialsWithBase(tc.apiBase, tc.apiKey, tc.domain)
			assert.Error(t, err)
		})
	}
}

func TestCredentialsWithBase_SchemeError(t *testing.T) {
	_, err := CredentialsWithBase("api.mailgun.net/v3", testAPIKey, testDomain)
	assert.ErrorIs(t, err, ErrAPIBaseScheme)
}

func TestClient_BasicAuth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "api", user)
		assert.Equal(t, testAPIKey, pass)
		assert.Contains(t, r.Header.Get("User-Agent"), "gogun/")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"total_count": 0, "items": []}`)
	}))

	_, err := client.ListDomains(context.Background(), nil)
	require.NoError(t, err)
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message": "Invalid private key"}`)
	}))

	_, err := client.ListDomains(context.Background(), nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid private key", apiErr.Message)
	assert.Contains(t, err.Error(), "Invalid private key")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClient_APIError_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message": "Domain not found"}`)
	}))

	_, err := client.GetDomain(context.Background(), "missing.example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_APIError_NonJSONBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "upstream exploded")
	}))

	_, err := client.ListDomains(context.Background(), nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestClient_DecodeError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json at all")
	}))

	_, err := client.ListDomains(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDecodeResponse)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	creds, err := CredentialsWithBase(server.URL+"/v3", testAPIKey, testDomain)
	require.NoError(t, err)
	client := New(creds, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	_, err = client.ListDomains(context.Background(), nil)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListDomains(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
