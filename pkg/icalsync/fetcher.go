package icalsync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher downloads an iCal document. A stub replaces it in tests.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// feeds are small; anything bigger is a broken or hostile endpoint.
const maxFeedBytes = 10 << 20

type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with an explicit timeout. An indefinite
// hang upstream must surface as a failed sync, never wedge a cycle.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	return body, nil
}
