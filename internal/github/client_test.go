package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/relnotes/internal/cache"
)

func TestSearchPRBySHA_FirstPullRequestWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		assert.Equal(t, "repo:octo/repo sha:abc123", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"items":[
			{"number":10},
			{"number":11,"pull_request":{"url":"https://api.github.com/repos/octo/repo/pulls/11"}},
			{"number":12,"pull_request":{"url":"https://api.github.com/repos/octo/repo/pulls/12"}}
		]}`)
	}))
	defer server.Close()

	client := NewClient("", nil, nil, WithBaseURL(server.URL))
	number, found, err := client.SearchPRBySHA(context.Background(), "octo", "repo", "abc123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 11, number, "plain issue 10 must be skipped")
}

func TestSearchPRBySHA_OnlyIssuesIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"number":10}]}`)
	}))
	defer server.Close()

	client := NewClient("", nil, nil, WithBaseURL(server.URL))
	_, found, err := client.SearchPRBySHA(context.Background(), "octo", "repo", "abc123")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPullRequestBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/repo/pulls/42", r.URL.Path)
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"body":"Updates `+"`lib`"+` from 1.0.0 to 1.1.0"}`)
	}))
	defer server.Close()

	client := NewClient("secret", nil, nil, WithBaseURL(server.URL))
	body, found, err := client.PullRequestBody(context.Background(), "octo", "repo", 42)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, body, "Updates `lib` from 1.0.0 to 1.1.0")
}

func TestPullRequestBody_EmptyBodyIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"body":""}`)
	}))
	defer server.Close()

	client := NewClient("", nil, nil, WithBaseURL(server.URL))
	_, found, err := client.PullRequestBody(context.Background(), "octo", "repo", 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheHitSkipsHTTP(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"items":[{"number":11,"pull_request":{}}]}`)
	}))
	defer server.Close()

	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	client := NewClient("", store, nil, WithBaseURL(server.URL))

	for i := 0; i < 3; i++ {
		number, found, err := client.SearchPRBySHA(context.Background(), "octo", "repo", "abc123")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 11, number)
	}

	assert.Equal(t, int64(1), calls.Load(), "second and third lookups must come from the cache")
}

func TestRateLimitBackoff(t *testing.T) {
	var calls atomic.Int64
	reset := time.Now().Add(time.Hour).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient("", nil, nil, WithBaseURL(server.URL))

	_, _, err := client.SearchPRBySHA(context.Background(), "octo", "repo", "abc123")
	require.Error(t, err)

	// Still rate limited: the client must fail fast without another call.
	_, _, err = client.SearchPRBySHA(context.Background(), "octo", "repo", "def456")
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestServerErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("", nil, nil, WithBaseURL(server.URL))
	_, _, err := client.PullRequestBody(context.Background(), "octo", "repo", 42)
	assert.Error(t, err)
}
