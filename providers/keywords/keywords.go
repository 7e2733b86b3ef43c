// Package keywords provides the client for the keyword metrics microservice,
// which fronts Google Keyword Planner. Given seed keywords and a site URL it
// returns keyword ideas with volume and competition metrics.
package keywords

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/newsroom-tools/keywordagent/internal/utils"
	"github.com/newsroom-tools/keywordagent/providers/observability"
)

const (
	generateEndpoint = "/keywords/generate"
	defaultTimeout   = 45 * time.Second

	// Targeting defaults: United States, English.
	defaultLocationID = "2840"
	defaultLanguageID = "1000"

	// maxIdeas caps the ideas kept per request, highest volume first.
	maxIdeas = 25
)

// KeywordIdea is a single keyword suggestion with its planner metrics.
type KeywordIdea struct {
	Text                   string          `json:"text"`
	Competition            string          `json:"competition"`
	CompetitionIndex       int             `json:"competition_index"`
	AverageMonthlySearches int             `json:"average_monthly_searches"`
	MonthlySearchVolumes   []MonthlyVolume `json:"monthly_search_volumes,omitempty"`
}

// MonthlyVolume is the search volume for one calendar month.
type MonthlyVolume struct {
	Month           string `json:"month"`
	Year            int    `json:"year"`
	MonthlySearches int    `json:"monthly_searches"`
}

// generateRequest is the wire request for the generate endpoint.
type generateRequest struct {
	Keywords   []string `json:"keywords,omitempty"`
	URL        string   `json:"url,omitempty"`
	LocationID string   `json:"location_id"`
	LanguageID string   `json:"language_id"`
}

// Client talks to the keyword metrics microservice.
type Client struct {
	baseURL    string
	httpClient *http.Client
	locationID string
	languageID string
}

// NewClient creates a keyword metrics client. The base URL is read from
// KEYWORD_PLANNER_URL. Requests carry a 45 second timeout: planner calls
// are slow when the seed set is large.
func NewClient() *Client {
	return &Client{
		baseURL:    strings.TrimRight(os.Getenv("KEYWORD_PLANNER_URL"), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		locationID: defaultLocationID,
		languageID: defaultLanguageID,
	}
}

// WithBaseURL overrides the service base URL.
func (client *Client) WithBaseURL(baseURL string) *Client {
	client.baseURL = strings.TrimRight(baseURL, "/")
	return client
}

// WithHttpClient sets a custom HTTP client.
func (client *Client) WithHttpClient(httpClient *http.Client) *Client {
	client.httpClient = httpClient
	return client
}

// WithTargeting overrides the location and language criteria.
func (client *Client) WithTargeting(locationID, languageID string) *Client {
	if locationID != "" {
		client.locationID = locationID
	}
	if languageID != "" {
		client.languageID = languageID
	}
	return client
}

// GenerateIdeas requests keyword ideas seeded by keywords and/or a site URL.
// Either seed may be empty, but not both. Results are sorted by average
// monthly searches descending (ties broken by text, ascending) and capped
// at 25 ideas.
func (client *Client) GenerateIdeas(ctx context.Context, seedKeywords []string, siteURL string) ([]KeywordIdea, error) {
	if client.baseURL == "" {
		return nil, fmt.Errorf("keyword planner base URL is not set")
	}
	if len(seedKeywords) == 0 && siteURL == "" {
		return nil, fmt.Errorf("keyword idea generation requires seed keywords or a site URL")
	}

	obs := observability.FromContext(ctx)
	spanCtx, span := obs.StartSpan(ctx, "keywords.generate",
		observability.Int("keywords.seed_count", len(seedKeywords)),
		observability.String("keywords.site_url", siteURL),
	)
	defer span.End()

	request := generateRequest{
		Keywords:   seedKeywords,
		URL:        siteURL,
		LocationID: client.locationID,
		LanguageID: client.languageID,
	}

	_, ideas, err := utils.DoPostSync[[]KeywordIdea](spanCtx, client.httpClient, client.baseURL+generateEndpoint, nil, request)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("keyword idea generation failed: %w", err)
	}
	if ideas == nil {
		return nil, fmt.Errorf("keyword idea generation returned no payload")
	}

	ranked := rankIdeas(*ideas)
	span.SetAttributes(observability.Int("keywords.idea_count", len(ranked)))
	return ranked, nil
}

// Healthy checks the service status endpoint.
func (client *Client) Healthy(ctx context.Context) error {
	if client.baseURL == "" {
		return fmt.Errorf("keyword planner base URL is not set")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", client.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("keyword planner unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("keyword planner unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// rankIdeas sorts ideas by average monthly searches descending, breaking ties
// by text ascending so equal-volume ideas rank deterministically, and caps
// the list at maxIdeas.
func rankIdeas(ideas []KeywordIdea) []KeywordIdea {
	ranked := make([]KeywordIdea, len(ideas))
	copy(ranked, ideas)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].AverageMonthlySearches != ranked[j].AverageMonthlySearches {
			return ranked[i].AverageMonthlySearches > ranked[j].AverageMonthlySearches
		}
		return ranked[i].Text < ranked[j].Text
	})

	if len(ranked) > maxIdeas {
		ranked = ranked[:maxIdeas]
	}
	return ranked
}
