// internal/news/tavily.go
package news

import (
	"context"
	"strings"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	commonhttp "github.com/neeleshsethi/brand-intelligence-platform/internal/common/http"
)

// SearchRequest is one news search.
type SearchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	MaxResults     int      `json:"max_results"`
	Days           int      `json:"days,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

// SearchResult is one raw hit.
type SearchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Searcher is the news search collaborator.
type Searcher interface {
	Available() bool
	Search(ctx context.Context, req SearchRequest) ([]SearchResult, error)
}

// TavilyClient searches the Tavily REST API.
type TavilyClient struct {
	http    *commonhttp.Client
	baseURL string
	apiKey  string
}

func NewTavilyClient(cfg config.NewsConfig) *TavilyClient {
	return &TavilyClient{
		http:    commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

func (c *TavilyClient) Available() bool {
	return c.apiKey != ""
}

func (c *TavilyClient) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var resp searchResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/search", headers, req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
