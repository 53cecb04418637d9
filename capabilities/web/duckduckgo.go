package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultDuckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the DuckDuckGo HTML endpoint
type DuckDuckGo struct {
	Endpoint string
	Client   *http.Client
	Timeout  time.Duration
}

// NewDuckDuckGo creates a backend for endpoint, or the public endpoint when empty
func NewDuckDuckGo(endpoint string) *DuckDuckGo {
	if endpoint == "" {
		endpoint = defaultDuckDuckGoEndpoint
	}
	return &DuckDuckGo{
		Endpoint: endpoint,
		Client:   &http.Client{},
		Timeout:  15 * time.Second,
	}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("b", "")
	params.Add("kl", "us-en")

	reqCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, d.Endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PersonaOS/1.0)")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	results := make([]SearchResult, 0, maxResults)
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(results) >= maxResults {
			return false
		}

		link := s.Find(".result__a")
		title := strings.TrimSpace(link.Text())
		href, exists := link.Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())

		if exists && title != "" && href != "" {
			results = append(results, SearchResult{
				Title:   title,
				URL:     extractActualURL(href),
				Snippet: snippet,
			})
		}
		return true
	})

	if len(results) == 0 {
		return []SearchResult{
			{
				Title:   "No results found",
				URL:     "https://duckduckgo.com/?q=" + url.QueryEscape(query),
				Snippet: "No search results found for this query. Try rephrasing your search.",
			},
		}, nil
	}

	return results, nil
}

// extractActualURL unwraps DuckDuckGo redirect links like /l/?uddg=<escaped url>
func extractActualURL(ddgURL string) string {
	if strings.HasPrefix(ddgURL, "/l/?uddg=") || strings.HasPrefix(ddgURL, "//duckduckgo.com/l/?uddg=") {
		if u, err := url.Parse(ddgURL); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				return target
			}
		}
	}

	if strings.HasPrefix(ddgURL, "//") {
		return "https:" + ddgURL
	}
	if strings.HasPrefix(ddgURL, "/") {
		return "https://duckduckgo.com" + ddgURL
	}

	return ddgURL
}
