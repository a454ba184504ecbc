package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"time"
)

// Client calls the hosted rerank endpoint.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient returns a Client for baseURL using the provided HTTP client.
func NewClient(client *http.Client, baseURL string) *Client {
	return &Client{client: client, baseURL: baseURL}
}

type rerankRequest struct {
	Query     string     `json:"query"`
	Documents []Document `json:"documents"`
}

type rerankResult struct {
	ID   string `json:"id"`
	Rank *int   `json:"rank"`
}

// rank orders results; a result missing the rank field sorts last rather
// than claiming the top position.
func (r rerankResult) rank() int {
	if r.Rank == nil {
		return math.MaxInt
	}
	return *r.Rank
}

type rerankResponse struct {
	Results []rerankResult `json:"results"`
}

// Rerank asks POST /v1/rerank to order documents for query and returns the
// ranked ids (best first) plus the request latency in seconds. A non-200
// response is an error: a partial quality comparison is worse than none.
func (c *Client) Rerank(ctx context.Context, query string, documents []Document) ([]string, float64, error) {
	raw, err := json.Marshal(rerankRequest{Query: query, Documents: documents})
	if err != nil {
		return nil, 0, fmt.Errorf("rerank: marshal request: %w", err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/rerank", bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("rerank: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, time.Since(start).Seconds(), fmt.Errorf("rerank: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	latency := time.Since(start).Seconds()

	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return nil, latency, fmt.Errorf("rerank: /v1/rerank status=%d body=%s", resp.StatusCode, preview)
	}

	var parsed rerankResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, latency, fmt.Errorf("rerank: decode response: %w", err)
	}

	results := parsed.Results
	sort.SliceStable(results, func(i, j int) bool { return results[i].rank() < results[j].rank() })

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids, latency, nil
}
