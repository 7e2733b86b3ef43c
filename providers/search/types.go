package search

// Result is a single web search result, normalized for prompt assembly.
type Result struct {
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	PublishedDate string  `json:"published_date,omitempty"`
	Score         float64 `json:"score,omitempty"`
	Highlights    string  `json:"highlights"`
}

// === Internal API Response Types ===

// searchAPIResponse represents the raw API response from the search backend.
type searchAPIResponse struct {
	Query        string            `json:"query"`
	Results      []searchAPIResult `json:"results"`
	ResponseTime float64           `json:"response_time"`
	RequestID    string            `json:"request_id,omitempty"`
}

// searchAPIResult represents a single raw result item.
type searchAPIResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	RawContent    string  `json:"raw_content,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
	Score         float64 `json:"score"`
}

// searchAPIError represents an error payload from the search backend.
type searchAPIError struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}
