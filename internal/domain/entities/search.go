package entities

// SearchResult is one symbol match for a free-text search.
type SearchResult struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Exchange string  `json:"exchange"`
	Type     string  `json:"type"`
	Score    float64 `json:"score"`
}

// SearchResponse wraps search results with the degradation markers.
type SearchResponse struct {
	Query   string          `json:"query"`
	Results []*SearchResult `json:"results"`

	FromCache bool   `json:"from_cache"`
	IsMock    bool   `json:"is_mock,omitempty"`
	Warning   string `json:"warning,omitempty"`
}
