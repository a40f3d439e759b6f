package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"userstore-etl/internal/config"
	"userstore-etl/internal/domains/person"
)

// Client fetches person documents from the remote API. One Fetch is one
// HTTP request; batching across the source's cap is the extractor's job.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.SourceConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type resultsEnvelope struct {
	Results []person.RawPerson `json:"results"`
}

// Fetch requests n records in a single call. Non-200 responses and
// malformed bodies are extraction errors; there is no retry here.
func (c *Client) Fetch(ctx context.Context, n int) ([]person.RawPerson, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}

	q := u.Query()
	q.Set("results", strconv.Itoa(n))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from source", resp.StatusCode)
	}

	var envelope resultsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("malformed response body: %w", err)
	}

	return envelope.Results, nil
}
