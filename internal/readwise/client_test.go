package readwise

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken_Valid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/", r.URL.Path)
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.ValidateToken(context.Background(), "secret")
	require.NoError(t, err)
}

func TestValidateToken_Invalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.ValidateToken(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExport_SinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/export/", r.URL.Path)
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(ExportResponse{
			Count: 1,
			Results: []BookResult{
				{
					UserBookID: 42,
					Title:      "Test Book",
					Highlights: []HighlightResult{{ID: 1, Text: "quote"}},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Export(context.Background(), "secret", ExportOptions{})
	require.NoError(t, err)

	assert.Nil(t, resp.NextPageCursor)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 42, resp.Results[0].UserBookID)
	require.Len(t, resp.Results[0].Highlights, 1)
	assert.Equal(t, "quote", resp.Results[0].Highlights[0].Text)
}

func TestExport_QueryParameters(t *testing.T) {
	after := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "abc123", q.Get("pageCursor"))
		assert.Equal(t, "2025-01-15T00:00:00Z", q.Get("updatedAfter"))
		assert.Equal(t, "true", q.Get("includeDeleted"))
		json.NewEncoder(w).Encode(ExportResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Export(context.Background(), "secret", ExportOptions{
		PageCursor:     "abc123",
		UpdatedAfter:   &after,
		IncludeDeleted: true,
	})
	require.NoError(t, err)
}

func TestExport_OmitsEmptyParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(ExportResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Export(context.Background(), "secret", ExportOptions{})
	require.NoError(t, err)
}

func TestExport_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "42")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Export(context.Background(), "secret", ExportOptions{})

	var rateLimit *RateLimitError
	require.ErrorAs(t, err, &rateLimit)
	assert.Equal(t, 42, rateLimit.RetryAfter)
}

func TestExport_RateLimited_MissingRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Export(context.Background(), "secret", ExportOptions{})

	var rateLimit *RateLimitError
	require.ErrorAs(t, err, &rateLimit)
	assert.Equal(t, defaultRateLimitDelay, rateLimit.RetryAfter)
}

func TestExport_InvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Export(context.Background(), "secret", ExportOptions{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExport_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "export temporarily unavailable"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Export(context.Background(), "secret", ExportOptions{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "export temporarily unavailable", apiErr.Message)
}

func TestExport_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL)
	_, err := client.Export(ctx, "secret", ExportOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 30, parseRetryAfter("30"))
	assert.Equal(t, defaultRateLimitDelay, parseRetryAfter(""))
	assert.Equal(t, defaultRateLimitDelay, parseRetryAfter("soon"))
	assert.Equal(t, defaultRateLimitDelay, parseRetryAfter("-5"))
}
