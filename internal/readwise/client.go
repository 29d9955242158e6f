package readwise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://readwise.io/api/v2"

	defaultTimeout        = 30 * time.Second
	defaultRateLimitDelay = 60 // seconds, when the Retry-After header is absent or unreadable
)

// Client interfaces with the Readwise Export API.
//
// The client performs no retries of its own: failures (including rate
// limits) surface to the import orchestrator, which decides how to
// report them. Pagination pacing also lives in the orchestrator.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Readwise API client. baseURL overrides the
// production endpoint; pass "" for the default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// ExportResponse represents one page of the Readwise Export API
type ExportResponse struct {
	Count          int          `json:"count"`
	NextPageCursor *string      `json:"nextPageCursor"`
	Results        []BookResult `json:"results"`
}

// BookResult represents a book with nested highlights from the Export API
type BookResult struct {
	UserBookID    int               `json:"user_book_id"`
	Title         string            `json:"title"`
	Author        string            `json:"author"`
	Category      string            `json:"category"`
	Source        string            `json:"source"`
	NumHighlights int               `json:"num_highlights"`
	LastHighlight *time.Time        `json:"last_highlight_at"`
	Updated       time.Time         `json:"updated"`
	CoverImageURL string            `json:"cover_image_url"`
	HighlightsURL string            `json:"highlights_url"`
	SourceURL     string            `json:"source_url"`
	ASIN          string            `json:"asin"`
	Tags          []Tag             `json:"tags"`
	DocumentNote  string            `json:"document_note"`
	Summary       string            `json:"summary"`
	Highlights    []HighlightResult `json:"highlights"`
	ReadwiseURL   string            `json:"readwise_url"`
}

// HighlightResult represents a highlight nested in a book result
type HighlightResult struct {
	ID            int        `json:"id"`
	Text          string     `json:"text"`
	Note          string     `json:"note"`
	Location      int        `json:"location"`
	LocationType  string     `json:"location_type"`
	HighlightedAt *time.Time `json:"highlighted_at"`
	URL           string     `json:"url"`
	Color         string     `json:"color"`
	Updated       time.Time  `json:"updated"`
	BookID        int        `json:"book_id"`
	Tags          []Tag      `json:"tags"`
	IsFavorite    bool       `json:"is_favorite"`
	IsDiscard     bool       `json:"is_discard"`
	ReadwiseURL   string     `json:"readwise_url"`
}

// Tag represents a tag object from the Export API
type Tag struct {
	Name string `json:"name"`
}

// ExportOptions are the query filters supported by the export endpoint
type ExportOptions struct {
	PageCursor     string
	UpdatedAfter   *time.Time
	IDs            string // comma-separated user_book_ids
	IncludeDeleted bool
}

// ValidateToken checks a token against the auth endpoint
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrInvalidToken
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	return nil
}

// Export fetches a single page of the export feed
func (c *Client) Export(ctx context.Context, token string, opts ExportOptions) (*ExportResponse, error) {
	u, err := url.Parse(c.baseURL + "/export/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	if opts.PageCursor != "" {
		q.Set("pageCursor", opts.PageCursor)
	}
	if opts.UpdatedAfter != nil {
		q.Set("updatedAfter", opts.UpdatedAfter.Format(time.RFC3339))
	}
	if opts.IDs != "" {
		q.Set("ids", opts.IDs)
	}
	if opts.IncludeDeleted {
		q.Set("includeDeleted", "true")
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode != http.StatusOK:
		return nil, &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var exportResp ExportResponse
	if err := json.NewDecoder(resp.Body).Decode(&exportResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &exportResp, nil
}

func parseRetryAfter(header string) int {
	if header == "" {
		return defaultRateLimitDelay
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return defaultRateLimitDelay
	}
	return seconds
}

// readErrorMessage extracts a usable message from an error body, which
// may be JSON ({"detail": ...} or {"error": ...}) or plain text.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var parsed struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Detail != "" {
			return parsed.Detail
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return strings.TrimSpace(string(data))
}
