// internal/news/service.go
package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/agents"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/metrics"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

const (
	marketWideQuery    = "pharmaceutical industry FDA regulation pricing policy drug approval"
	maxCompetitorTerms = 3
	defaultSearchScore = 0.5
)

var pharmaDomains = []string{"fiercepharma.com", "biopharma-reporter.com", "endpts.com", "biopharmadive.com"}

// tier is one search pass of the comprehensive fetch.
type tier struct {
	articleType   models.ArticleType
	baseRelevance float64
	request       SearchRequest
}

// Service fetches tiered news for a brand and enriches it.
type Service struct {
	searcher Searcher
	provider agents.Provider
	offline  bool
	logger   logger.Logger
	now      func() time.Time
}

// NewService wires the searcher and the provider used for sentiment. Offline mode never
// contacts either.
func NewService(searcher Searcher, provider agents.Provider, offline bool, log logger.Logger) *Service {
	return &Service{
		searcher: searcher,
		provider: provider,
		offline:  offline,
		logger:   log.With(map[string]interface{}{"component": "news"}),
		now:      time.Now,
	}
}

// Available reports whether FetchComprehensive can return anything.
func (s *Service) Available() bool {
	return !s.offline && s.searcher != nil && s.searcher.Available()
}

func tiers(brandName, area string, competitors []string, days int) []tier {
	out := []tier{{
		articleType:   models.ArticleBrandSpecific,
		baseRelevance: 1.0,
		request: SearchRequest{
			Query:          fmt.Sprintf("%q pharmaceutical news", brandName),
			SearchDepth:    "advanced",
			MaxResults:     10,
			Days:           days,
			IncludeDomains: pharmaDomains,
		},
	}}

	if len(competitors) > 0 {
		if len(competitors) > maxCompetitorTerms {
			competitors = competitors[:maxCompetitorTerms]
		}
		quoted := make([]string, len(competitors))
		for i, c := range competitors {
			quoted[i] = fmt.Sprintf("%q", c)
		}
		out = append(out, tier{
			articleType:   models.ArticleCompetitor,
			baseRelevance: 0.8,
			request: SearchRequest{
				Query:       fmt.Sprintf("(%s) %s pharmaceutical", strings.Join(quoted, " OR "), area),
				SearchDepth: "advanced",
				MaxResults:  10,
				Days:        days,
			},
		})
	}

	return append(out,
		tier{
			articleType:   models.ArticleTherapeuticArea,
			baseRelevance: 0.6,
			request: SearchRequest{
				Query:       fmt.Sprintf("%s market pharmaceutical industry news", area),
				SearchDepth: "basic",
				MaxResults:  10,
				Days:        days,
			},
		},
		tier{
			articleType:   models.ArticleMarketWide,
			baseRelevance: 0.4,
			request: SearchRequest{
				Query:       marketWideQuery,
				SearchDepth: "basic",
				MaxResults:  5,
				Days:        days,
			},
		},
	)
}

// FetchComprehensive runs the brand, competitor, therapeutic-area and market-wide searches
// in that order and deduplicates by URL, keeping the first tier an article was seen in.
// A failing tier is logged and skipped; an error is returned only when every tier failed.
func (s *Service) FetchComprehensive(ctx context.Context, brandName, area string, competitors []string, days int) ([]models.NewsArticle, error) {
	if !s.Available() {
		return nil, nil
	}

	var (
		articles []models.NewsArticle
		seen     = make(map[string]bool)
		failures int
		lastErr  error
	)

	plan := tiers(brandName, area, competitors, days)
	for _, t := range plan {
		results, err := s.searcher.Search(ctx, t.request)
		if err != nil {
			failures++
			lastErr = apperrors.NewNewsFetchFailedError(string(t.articleType), err)
			s.logger.Warn("News tier failed", map[string]interface{}{
				"tier":  t.articleType,
				"brand": brandName,
				"error": err,
			})
			continue
		}
		metrics.NewsArticlesFetched.WithLabelValues(string(t.articleType)).Add(float64(len(results)))

		for _, r := range results {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			articles = append(articles, s.toArticle(r, t))
		}
	}

	if failures == len(plan) {
		return nil, lastErr
	}

	s.logger.Info("News fetched", map[string]interface{}{
		"brand":    brandName,
		"articles": len(articles),
		"failures": failures,
	})
	return articles, nil
}

func (s *Service) toArticle(r SearchResult, t tier) models.NewsArticle {
	published := r.PublishedDate
	if published == "" {
		published = s.now().UTC().Format(time.RFC3339)
	}
	score := r.Score
	if score == 0 {
		score = defaultSearchScore
	}
	return models.NewsArticle{
		Title:         r.Title,
		Content:       r.Content,
		URL:           r.URL,
		Source:        ExtractSource(r.URL),
		PublishedAt:   published,
		ArticleType:   t.articleType,
		BaseRelevance: t.baseRelevance,
		SearchScore:   score,
	}
}

// Enrich fills sentiment, entities and therapeutic areas. sentimentChars bounds how much
// content beyond the title goes to the classifier.
func (s *Service) Enrich(ctx context.Context, article *models.NewsArticle, area string, sentimentChars int) {
	if s.offline {
		article.Sentiment = models.SentimentNeutral
	} else {
		text := article.Title + " " + agents.Truncate(article.Content, sentimentChars)
		article.Sentiment = ClassifySentiment(ctx, s.provider, text)
	}

	entities := ExtractEntities(article.Title + " " + article.Content)
	article.MentionedBrands = entities.MentionedBrands
	article.MentionedCompanies = entities.MentionedCompanies
	article.Topics = entities.Topics
	article.TherapeuticAreas = TherapeuticAreas(article.Content, area)
}
