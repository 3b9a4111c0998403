// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/report-engine/internal/httputil"
)

// braveAPIBase is the Brave web-search endpoint. Declared as a var so
// tests can substitute an httptest server.
var braveAPIBase = "https://api.search.brave.com/res/v1/web/search"

// maxQueryWords caps query length; Brave rejects very long queries.
const maxQueryWords = 50

// BraveClient queries the Brave web-search API.
type BraveClient struct {
	APIKey    string
	UserAgent string
	Client    *http.Client
}

// Name returns the provider identifier.
func (c *BraveClient) Name() string { return "brave" }

// braveResponse is the response body from the Brave search API. Some
// deployments nest results under "web", others return them at the top
// level; both are accepted.
type braveResponse struct {
	Web struct {
		Results []braveResult `json:"results"`
	} `json:"web"`
	Results []braveResult `json:"results"`
}

// braveResult is a single hit in a Brave response.
type braveResult struct {
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Snippet       string   `json:"snippet"`
	ExtraSnippets []string `json:"extra_snippets"`
}

// Search queries Brave for up to maxResults hits.
func (c *BraveClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("brave API key is not configured")
	}
	query = trimToWordLimit(query, maxQueryWords)
	if query == "" {
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = 3
	}

	endpoint, err := url.Parse(braveAPIBase)
	if err != nil {
		return nil, fmt.Errorf("parsing brave endpoint: %w", err)
	}
	params := endpoint.Query()
	params.Set("q", query)
	params.Set("count", fmt.Sprintf("%d", maxResults))
	params.Set("spellcheck", "0")
	params.Set("text_decorations", "0")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.APIKey)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("brave API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{
			Provider:   "brave",
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var parsed braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding brave response: %w", err)
	}

	raw := parsed.Web.Results
	if len(raw) == 0 {
		raw = parsed.Results
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		rawURL := strings.TrimSpace(r.URL)
		if rawURL == "" {
			continue
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = rawURL
		}
		content := strings.TrimSpace(r.Description)
		if content == "" {
			content = strings.TrimSpace(r.Snippet)
		}
		if content == "" && len(r.ExtraSnippets) > 0 {
			content = strings.TrimSpace(r.ExtraSnippets[0])
		}
		results = append(results, Result{
			URL:     rawURL,
			Title:   title,
			Content: content,
		})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

// trimToWordLimit collapses whitespace and keeps at most maxWords words.
func trimToWordLimit(input string, maxWords int) string {
	words := strings.Fields(strings.TrimSpace(input))
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
