package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	ai "github.com/robertcrowe/arrg"
)

// defaultSearchURL is the DuckDuckGo HTML endpoint, which serves plain
// markup without requiring an API key.
const defaultSearchURL = "https://html.duckduckgo.com/html/"

// SearchToolOption configures the web search tool.
type SearchToolOption func(*searchToolConfig)

type searchToolConfig struct {
	client     *http.Client
	baseURL    string
	maxResults int
	timeout    time.Duration
}

// WithSearchClient sets a custom HTTP client for search requests.
func WithSearchClient(c *http.Client) SearchToolOption {
	return func(cfg *searchToolConfig) {
		cfg.client = c
	}
}

// WithSearchBaseURL overrides the search endpoint.
func WithSearchBaseURL(u string) SearchToolOption {
	return func(cfg *searchToolConfig) {
		cfg.baseURL = u
	}
}

// WithSearchMaxResults limits the number of results returned.
// Default is 5.
func WithSearchMaxResults(n int) SearchToolOption {
	return func(cfg *searchToolConfig) {
		cfg.maxResults = n
	}
}

// WithSearchTimeout sets the request timeout.
// Default is 30 seconds.
func WithSearchTimeout(d time.Duration) SearchToolOption {
	return func(cfg *searchToolConfig) {
		cfg.timeout = d
	}
}

func applySearchOpts(opts []SearchToolOption) *searchToolConfig {
	cfg := &searchToolConfig{
		baseURL:    defaultSearchURL,
		maxResults: 5,
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	return cfg
}

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// searchArgs defines arguments for the web search tool.
type searchArgs struct {
	Query      string `json:"query" desc:"Search query" required:"true"`
	MaxResults int    `json:"max_results" desc:"Maximum number of results to return"`
}

// NewSearchTool creates a tool that searches the web and returns titles,
// URLs, and snippets as JSON.
func NewSearchTool(opts ...SearchToolOption) (ai.Tool, Handler) {
	cfg := applySearchOpts(opts)

	schema := MustSchemaFor[searchArgs]()

	t := ai.Tool{
		Name:        "web_search",
		Description: "Search the web for pages matching a query",
		Parameters:  schema,
	}

	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args searchArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}
		if strings.TrimSpace(args.Query) == "" {
			return "", fmt.Errorf("query must not be empty")
		}

		limit := cfg.maxResults
		if args.MaxResults > 0 && args.MaxResults < limit {
			limit = args.MaxResults
		}

		results, err := cfg.search(ctx, args.Query, limit)
		if err != nil {
			return "", err
		}

		out, err := json.Marshal(struct {
			Query   string         `json:"query"`
			Count   int            `json:"count"`
			Results []SearchResult `json:"results"`
		}{
			Query:   args.Query,
			Count:   len(results),
			Results: results,
		})
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	return t, handler
}

func (c *searchToolConfig) search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	reqURL := c.baseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "arrg-research-bot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, limit)
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}

		results = append(results, SearchResult{
			Title:   strings.TrimSpace(link.Text()),
			URL:     resolveRedirect(href),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})
		return len(results) < limit
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's redirect links (…/l/?uddg=<target>)
// to the target URL. Plain links pass through unchanged.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// SearchTools returns the web search tool.
func SearchTools(opts ...SearchToolOption) []ToolPair {
	t, h := NewSearchTool(opts...)
	return []ToolPair{{Tool: t, Handler: h}}
}
