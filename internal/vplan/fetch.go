package vplan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain"
)

// ErrNotPublished signals that the plan for the requested day is not
// online yet. The horizon scan treats this as an expected state, not a
// failure.
var ErrNotPublished = errors.New("plan not published yet")

// HTTPError indicates a non-404 error response from the plan server.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("plan server returned %d for %s", e.StatusCode, e.URL)
}

const fetchTimeout = 10 * time.Second

// Client fetches daily plan documents over HTTP with basic auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch returns the raw XML document for the given day, ErrNotPublished
// when the server has no plan for it yet.
func (c *Client) Fetch(ctx context.Context, day time.Time) ([]byte, error) {
	url := fmt.Sprintf("%s/PlanKl%s.xml", c.baseURL, day.Format(domain.PlanDateFormat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plan: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotPublished
	case resp.StatusCode != http.StatusOK:
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan response: %w", err)
	}

	return raw, nil
}
