package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/ladder/internal/domain/types"
)

// HTTP status code constants.
const (
	statusOK = 200
)

// HTTPClient wraps http.Client with a timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with an empty body.
func (c *HTTPClient) Post(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// getJSON performs a GET and decodes the response body into v.
func (c *HTTPClient) getJSON(ctx context.Context, rawURL string, v any) error {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != statusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) getLeaderboard(ctx context.Context, baseURL string, page, pageSize int) (types.ListResult, error) {
	var res types.ListResult
	u := baseURL + "/leaderboard?page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(pageSize)
	err := c.getJSON(ctx, u, &res)
	return res, err
}

func (c *HTTPClient) getSearch(ctx context.Context, baseURL, query string, page, pageSize int) (types.SearchResult, error) {
	var res types.SearchResult
	u := baseURL + "/search?q=" + url.QueryEscape(query) +
		"&page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(pageSize)
	err := c.getJSON(ctx, u, &res)
	return res, err
}

func (c *HTTPClient) getRank(ctx context.Context, baseURL, username string) (types.RankLookup, error) {
	var res types.RankLookup
	u := baseURL + "/rank/" + url.PathEscape(username)
	err := c.getJSON(ctx, u, &res)
	return res, err
}

func (c *HTTPClient) getStats(ctx context.Context, baseURL string) (types.StatsSnapshot, error) {
	var res types.StatsSnapshot
	err := c.getJSON(ctx, baseURL+"/stats", &res)
	return res, err
}

func (c *HTTPClient) postMutate(ctx context.Context, baseURL string, count int) (types.MutateResult, error) {
	var res types.MutateResult
	u := baseURL + "/mutate"
	if count > 0 {
		u += "?count=" + strconv.Itoa(count)
	}
	resp, err := c.Post(ctx, u)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != statusOK {
		return res, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, u)
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return res, fmt.Errorf("failed to decode response: %w", err)
	}
	return res, nil
}
