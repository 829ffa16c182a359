// internal/news/service_test.go
package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type tavilyStub struct {
	mu       sync.Mutex
	requests []SearchRequest
	failOn   map[string]bool
	results  map[string][]SearchResult
}

func (s *tavilyStub) tierOf(query string) string {
	switch {
	case strings.HasPrefix(query, `"Eliquis"`):
		return "brand"
	case strings.HasPrefix(query, "("):
		return "competitor"
	case strings.Contains(query, "market pharmaceutical industry news"):
		return "area"
	default:
		return "market"
	}
}

func (s *tavilyStub) server(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		tier := s.tierOf(req.Query)
		if s.failOn[tier] {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"results": s.results[tier]})
	}))
}

func createTestService(t *testing.T, stub *tavilyStub) *Service {
	server := stub.server(t)
	t.Cleanup(server.Close)

	client := NewTavilyClient(config.NewsConfig{APIKey: "tvly-test", BaseURL: server.URL + "/", Timeout: 2000})
	svc := NewService(client, nil, false, logger.NewTestLogger(t))
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

// ==========================
// FetchComprehensive Tests
// ==========================

func TestService_FetchComprehensive_TiersAndDedupe(t *testing.T) {
	stub := &tavilyStub{results: map[string][]SearchResult{
		"brand": {
			{Title: "Eliquis label update", URL: "https://www.fiercepharma.com/a", Score: 0.9, PublishedDate: "2025-02-01"},
		},
		"competitor": {
			{Title: "Xarelto pricing", URL: "https://www.reuters.com/b", Score: 0.7},
			{Title: "Duplicate of brand", URL: "https://www.fiercepharma.com/a", Score: 0.6},
		},
		"area": {
			{Title: "Anticoagulant market grows", URL: "https://example.org/c"},
		},
		"market": {
			{Title: "FDA policy", URL: "https://www.politico.com/d", Score: 0.3},
			{Title: "Area again", URL: "https://example.org/c", Score: 0.2},
		},
	}}
	svc := createTestService(t, stub)

	articles, err := svc.FetchComprehensive(context.Background(), "Eliquis", "Anticoagulant", []string{"Xarelto", "Pradaxa", "Savaysa", "Bevyxxa"}, 30)

	require.NoError(t, err)
	require.Len(t, articles, 4)

	byURL := map[string]models.NewsArticle{}
	for _, a := range articles {
		byURL[a.URL] = a
	}
	assert.Equal(t, models.ArticleBrandSpecific, byURL["https://www.fiercepharma.com/a"].ArticleType)
	assert.Equal(t, 1.0, byURL["https://www.fiercepharma.com/a"].BaseRelevance)
	assert.Equal(t, "FiercePharma", byURL["https://www.fiercepharma.com/a"].Source)
	assert.Equal(t, models.ArticleCompetitor, byURL["https://www.reuters.com/b"].ArticleType)
	assert.Equal(t, models.ArticleTherapeuticArea, byURL["https://example.org/c"].ArticleType)
	assert.Equal(t, 0.5, byURL["https://example.org/c"].SearchScore)
	assert.Equal(t, "2025-03-01T12:00:00Z", byURL["https://example.org/c"].PublishedAt)
	assert.Equal(t, models.ArticleMarketWide, byURL["https://www.politico.com/d"].ArticleType)
	assert.Equal(t, 0.4, byURL["https://www.politico.com/d"].BaseRelevance)

	require.Len(t, stub.requests, 4)
	brandReq := stub.requests[0]
	assert.Equal(t, `"Eliquis" pharmaceutical news`, brandReq.Query)
	assert.Equal(t, "advanced", brandReq.SearchDepth)
	assert.Equal(t, pharmaDomains, brandReq.IncludeDomains)
	assert.Equal(t, 30, brandReq.Days)

	competitorReq := stub.requests[1]
	assert.Equal(t, `("Xarelto" OR "Pradaxa" OR "Savaysa") Anticoagulant pharmaceutical`, competitorReq.Query)
	assert.Equal(t, 5, stub.requests[3].MaxResults)
}

func TestService_FetchComprehensive_SkipsCompetitorTierWithoutCompetitors(t *testing.T) {
	stub := &tavilyStub{results: map[string][]SearchResult{}}
	svc := createTestService(t, stub)

	_, err := svc.FetchComprehensive(context.Background(), "Eliquis", "Anticoagulant", nil, 30)

	require.NoError(t, err)
	assert.Len(t, stub.requests, 3)
}

func TestService_FetchComprehensive_TierFailureIsSkipped(t *testing.T) {
	stub := &tavilyStub{
		failOn: map[string]bool{"brand": true},
		results: map[string][]SearchResult{
			"area": {{Title: "t", URL: "https://example.org/x"}},
		},
	}
	svc := createTestService(t, stub)

	articles, err := svc.FetchComprehensive(context.Background(), "Eliquis", "Anticoagulant", nil, 30)

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, models.ArticleTherapeuticArea, articles[0].ArticleType)
}

func TestService_FetchComprehensive_AllTiersFail(t *testing.T) {
	stub := &tavilyStub{failOn: map[string]bool{"brand": true, "competitor": true, "area": true, "market": true}}
	svc := createTestService(t, stub)

	articles, err := svc.FetchComprehensive(context.Background(), "Eliquis", "Anticoagulant", []string{"Xarelto"}, 30)

	assert.Nil(t, articles)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNewsFetchFailed))
}

func TestService_Unavailable(t *testing.T) {
	log := logger.NewTestLogger(t)

	noKey := NewService(NewTavilyClient(config.NewsConfig{}), nil, false, log)
	assert.False(t, noKey.Available())

	offline := NewService(NewTavilyClient(config.NewsConfig{APIKey: "k"}), nil, true, log)
	assert.False(t, offline.Available())

	articles, err := offline.FetchComprehensive(context.Background(), "Eliquis", "Anticoagulant", nil, 30)
	assert.NoError(t, err)
	assert.Empty(t, articles)
}

func TestService_Enrich(t *testing.T) {
	provider := &sentimentProvider{available: true, reply: "Positive\n"}
	svc := NewService(nil, provider, false, logger.NewTestLogger(t))

	article := &models.NewsArticle{
		Title:   "Eliquis gains after FDA approval",
		Content: "Bristol Myers Squibb and Pfizer said the anticoagulant market share rose. " + strings.Repeat("x", 600),
	}
	svc.Enrich(context.Background(), article, "Anticoagulant", 300)

	assert.Equal(t, models.SentimentPositive, article.Sentiment)
	assert.Equal(t, []string{"Eliquis"}, article.MentionedBrands)
	assert.Equal(t, []string{"Bristol Myers Squibb", "Pfizer"}, article.MentionedCompanies)
	assert.Equal(t, []string{"fda", "approval", "market share"}, article.Topics)
	assert.Equal(t, []string{"Anticoagulant"}, article.TherapeuticAreas)

	require.Len(t, provider.prompts, 1)
	assert.LessOrEqual(t, len([]rune(provider.prompts[0])), len("Title and content: ")+sentimentTextLimit)
}

func TestService_Enrich_OfflineIsNeutral(t *testing.T) {
	provider := &sentimentProvider{available: true, reply: "negative"}
	svc := NewService(nil, provider, true, logger.NewTestLogger(t))

	article := &models.NewsArticle{Title: "Recall", Content: "generic entry"}
	svc.Enrich(context.Background(), article, "Oncology", 500)

	assert.Equal(t, models.SentimentNeutral, article.Sentiment)
	assert.Empty(t, provider.prompts)
	assert.Equal(t, []string{"generic"}, article.Topics)
	assert.Empty(t, article.TherapeuticAreas)
}
