package web

import (
	"context"
	"fmt"
	"time"

	. "personaos/core/types"
)

// SearchResult is one hit returned by a search backend
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher is a web search backend
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// SearchTool answers web_search intents. Without a configured backend it
// returns a single canned result that echoes the query.
type SearchTool struct {
	backend    Searcher
	maxResults int
	now        func() time.Time
}

// SearchOption configures a SearchTool
type SearchOption func(*SearchTool)

// WithBackend replaces the placeholder backend
func WithBackend(s Searcher) SearchOption {
	return func(t *SearchTool) {
		if s != nil {
			t.backend = s
		}
	}
}

// WithMaxResults caps the number of results kept from the backend
func WithMaxResults(n int) SearchOption {
	return func(t *SearchTool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// NewSearchTool creates the web_search tool
func NewSearchTool(opts ...SearchOption) *SearchTool {
	t := &SearchTool{
		backend:    placeholderSearcher{},
		maxResults: 10,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *SearchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "web_search",
		Description: "Search the web for information",
		Category:    CategoryWeb,
		RiskLevel:   RiskSafe,
		Parameters: []Parameter{
			{
				Name:        "query",
				Type:        "string",
				Required:    true,
				Description: "The search query",
				Example:     "latest news",
			},
		},
		Examples: []string{
			`{"tool": "web_search", "arguments": {"query": "latest news"}}`,
		},
	}
}

func (t *SearchTool) Execute(ctx context.Context, args map[string]interface{}) ToolResult {
	query := StringArg(args, "query", "")
	if query == "" {
		return Failed("Search query is required")
	}

	results, err := t.backend.Search(ctx, query, t.maxResults)
	if err != nil {
		return Failed("Search failed: %v", err)
	}

	hits := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		hits = append(hits, map[string]interface{}{
			"title":   r.Title,
			"url":     r.URL,
			"snippet": r.Snippet,
		})
	}

	result := Succeeded(map[string]interface{}{
		"query":   query,
		"results": hits,
	})
	result.Metadata = map[string]interface{}{
		"source":    t.backend.Name(),
		"timestamp": t.now().Format(time.RFC3339),
	}
	return result
}

type placeholderSearcher struct{}

func (placeholderSearcher) Name() string { return "placeholder" }

func (placeholderSearcher) Search(_ context.Context, query string, _ int) ([]SearchResult, error) {
	return []SearchResult{
		{
			Title:   "Search result for: " + query,
			URL:     "https://example.com",
			Snippet: fmt.Sprintf("This is a placeholder result for the query '%s'", query),
		},
	}, nil
}
