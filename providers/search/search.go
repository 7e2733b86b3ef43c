// Package search provides the web search capability used by the research
// loop. It wraps the Tavily search API and normalizes results into plain
// markdown text: pages returned as raw HTML are converted before they reach
// a prompt.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/newsroom-tools/keywordagent/internal/utils"
	"github.com/newsroom-tools/keywordagent/providers/observability"
)

const (
	defaultBaseURL    = "https://api.tavily.com"
	envAPIKey         = "TAVILY_API_KEY"
	defaultMaxResults = 5
	resultsCeiling    = 20
)

// Client performs web searches against a Tavily-compatible API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxResults int
}

// NewClient creates a search client. The API key is read from TAVILY_API_KEY
// and the base URL from TAVILY_BASE_URL when set.
func NewClient() *Client {
	baseURL := os.Getenv("TAVILY_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:     os.Getenv(envAPIKey),
		baseURL:    baseURL,
		httpClient: &http.Client{},
		maxResults: defaultMaxResults,
	}
}

// WithAPIKey sets the API key.
func (client *Client) WithAPIKey(apiKey string) *Client {
	client.apiKey = apiKey
	return client
}

// WithBaseURL overrides the API base URL.
func (client *Client) WithBaseURL(baseURL string) *Client {
	client.baseURL = baseURL
	return client
}

// WithHttpClient sets a custom HTTP client.
func (client *Client) WithHttpClient(httpClient *http.Client) *Client {
	client.httpClient = httpClient
	return client
}

// WithMaxResults caps the number of results per query.
func (client *Client) WithMaxResults(maxResults int) *Client {
	if maxResults > 0 && maxResults <= resultsCeiling {
		client.maxResults = maxResults
	}
	return client
}

// Search performs a single web search and returns normalized results. Result
// content that arrives as raw HTML is converted to markdown; results that
// cannot be normalized keep their plain content snippet.
func (client *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if client.apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is not set", envAPIKey)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}

	obs := observability.FromContext(ctx)
	spanCtx, span := obs.StartSpan(ctx, "search.query", observability.String("search.query", query))
	defer span.End()

	apiResponse, err := client.fetch(spanCtx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := make([]Result, 0, len(apiResponse.Results))
	for _, rawResult := range apiResponse.Results {
		highlights := rawResult.Content
		if rawResult.RawContent != "" {
			highlights = normalizeContent(rawResult.RawContent, rawResult.Content)
		}
		results = append(results, Result{
			URL:           rawResult.URL,
			Title:         rawResult.Title,
			PublishedDate: rawResult.PublishedDate,
			Score:         rawResult.Score,
			Highlights:    highlights,
		})
	}

	span.SetAttributes(observability.Int("search.result_count", len(results)))
	return results, nil
}

// fetch performs the HTTP call to the search API.
func (client *Client) fetch(ctx context.Context, query string) (*searchAPIResponse, error) {
	requestBody := map[string]any{
		"api_key":             client.apiKey,
		"query":               query,
		"search_depth":        "advanced",
		"topic":               "news",
		"max_results":         client.maxResults,
		"include_raw_content": true,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", client.baseURL+"/search", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := client.httpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr searchAPIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail.Error != "" {
			return nil, fmt.Errorf("search API error (status %d): %s", resp.StatusCode, apiErr.Detail.Error)
		}
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, utils.TruncateString(string(body), 500))
	}

	var apiResponse searchAPIResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	return &apiResponse, nil
}

// normalizeContent converts raw page content to markdown when it looks like
// HTML, falling back to the plain snippet on conversion failure.
func normalizeContent(rawContent, fallback string) string {
	if !looksLikeHTML(rawContent) {
		return rawContent
	}

	markdown, err := htmltomarkdown.ConvertString(rawContent)
	if err != nil || strings.TrimSpace(markdown) == "" {
		return fallback
	}
	return strings.TrimSpace(markdown)
}

// looksLikeHTML is a cheap heuristic: markup tags early in the content.
func looksLikeHTML(content string) bool {
	head := strings.ToLower(content)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<html") ||
		strings.Contains(head, "<!doctype") ||
		strings.Contains(head, "<body") ||
		strings.Contains(head, "<div") ||
		strings.Contains(head, "<p>")
}

// RenderResults renders search results into the deterministic text block
// appended to the research notes for one query. Result order is preserved.
func RenderResults(query string, results []Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'.", query)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d results:\n", len(results))
	for index, result := range results {
		fmt.Fprintf(&builder, "\n%d. %s\n   URL: %s\n", index+1, result.Title, result.URL)
		if result.PublishedDate != "" {
			fmt.Fprintf(&builder, "   Published: %s\n", result.PublishedDate)
		}
		fmt.Fprintf(&builder, "   %s\n", utils.TruncateString(result.Highlights, 2000))
	}
	return builder.String()
}
