// internal/service/analyze.go
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/agents"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/cache"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/news"
)

const generatedInsightConfidence = 0.85

type AnalyzeRequest struct {
	IncludeCompetitors *bool `json:"includeCompetitors,omitempty"`
}

type AnalyzeResponse struct {
	Brand           models.Brand           `json:"brand"`
	Analysis        *agents.AnalyzerOutput `json:"analysis"`
	Strategy        *agents.StrategyOutput `json:"strategy"`
	Timestamp       string                 `json:"timestamp"`
	SavedInsightIDs []string               `json:"savedInsightIds"`
	// PersistFailed counts key insights that could not be stored.
	PersistFailed int `json:"persistFailed"`
}

// Analyze runs market analysis then strategy synthesis for a brand and stores each key
// insight. In demo mode the whole response is memoized per brand.
func (s *Service) Analyze(ctx context.Context, brandID string, req AnalyzeRequest) (*AnalyzeResponse, error) {
	return cache.Memoize(ctx, s.cache, s.logger, cache.AnalyzeKey(brandID), func(ctx context.Context) (*AnalyzeResponse, error) {
		return s.analyze(ctx, brandID, req)
	})
}

func (s *Service) analyze(ctx context.Context, brandID string, req AnalyzeRequest) (*AnalyzeResponse, error) {
	brand, err := s.store.GetBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	var competitors []models.Brand
	if req.IncludeCompetitors == nil || *req.IncludeCompetitors {
		competitors, err = s.competitorsOf(ctx, brand)
		if err != nil {
			return nil, err
		}
	}

	competitorData := make([]agents.CompetitorData, 0, len(competitors))
	for _, c := range competitors {
		competitorData = append(competitorData, agents.CompetitorData{Name: c.Name, Company: c.Company, MarketShare: c.MarketShare})
	}

	brandData := toBrandData(brand)
	analysis, err := s.invoker.Analyze(ctx, agents.AnalyzerInput{
		Brand:       brandData,
		Competitors: competitorData,
		News:        s.analysisNews(ctx, brand, competitors),
	})
	if err != nil {
		return nil, err
	}

	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	strategy, err := s.invoker.Strategize(ctx, agents.StrategyInput{
		Brand:          brandData,
		AnalyzerOutput: string(analysisJSON),
	})
	if err != nil {
		return nil, err
	}

	saved, failed := s.saveInsights(ctx, brand.ID, analysis.KeyInsights)
	return &AnalyzeResponse{
		Brand:           *brand,
		Analysis:        analysis,
		Strategy:        strategy,
		Timestamp:       s.timestamp(),
		SavedInsightIDs: saved,
		PersistFailed:   failed,
	}, nil
}

// saveInsights stores each key insight as an unvalidated insight and returns the stored ids
// with the number of failed writes. Failures are logged and skipped.
func (s *Service) saveInsights(ctx context.Context, brandID string, insights []agents.MarketInsight) ([]string, int) {
	ids := []string{}
	failed := 0
	for _, in := range insights {
		saved, err := s.store.CreateInsight(ctx, models.Insight{
			BrandID:         brandID,
			Type:            in.Category,
			Content:         in.Description,
			ConfidenceScore: generatedInsightConfidence,
			AIReasoning:     fmt.Sprintf("Generated from competitive analysis. Impact level: %s", in.Impact),
		})
		if err != nil {
			s.logger.Warn("Failed to save generated insight", map[string]interface{}{
				"brandId":  brandID,
				"category": in.Category,
				"error":    err.Error(),
			})
			failed++
			continue
		}
		ids = append(ids, saved.ID)
	}
	return ids, failed
}

// analysisNews fetches recent tiered news for the analyzer prompt. Any failure yields no news.
func (s *Service) analysisNews(ctx context.Context, brand *models.Brand, competitors []models.Brand) []agents.NewsItem {
	if s.news == nil || !s.news.Available() {
		return nil
	}

	articles, err := s.news.FetchComprehensive(ctx, brand.Name, brand.TherapeuticArea, competitorNames(competitors), s.newsDays)
	if err != nil {
		s.logger.Warn("News fetch failed, analyzing without news", map[string]interface{}{
			"brandId": brand.ID,
			"error":   err.Error(),
		})
		return nil
	}
	if len(articles) > s.newsStoreLimit {
		articles = articles[:s.newsStoreLimit]
	}

	stored, err := s.store.StoredNewsURLs(ctx, brand.ID)
	if err != nil {
		s.logger.Warn("Failed to load stored news urls", map[string]interface{}{"brandId": brand.ID, "error": err.Error()})
		stored = map[string]bool{}
	}

	var fresh []models.NewsArticle
	for i := range articles {
		if stored[articles[i].URL] {
			continue
		}
		s.news.Enrich(ctx, &articles[i], brand.TherapeuticArea, analysisSentimentChars)
		saved, ok := s.storeArticle(ctx, brand.ID, articles[i])
		if !ok {
			continue
		}
		articles[i] = *saved
		fresh = append(fresh, *saved)
	}
	s.afterStore(ctx, brand, fresh)

	return news.ToNewsItems(articles)
}

// storeArticle upserts the article and links it to the brand under its tier priority.
func (s *Service) storeArticle(ctx context.Context, brandID string, article models.NewsArticle) (*models.NewsArticle, bool) {
	saved, err := s.store.UpsertNewsArticle(ctx, article)
	if err != nil {
		s.logger.Warn("Failed to store news article", map[string]interface{}{"url": article.URL, "error": err.Error()})
		return nil, false
	}

	err = s.store.LinkBrandNews(ctx, models.BrandNewsLink{
		BrandID:         brandID,
		NewsArticleID:   saved.ID,
		RelevanceScore:  article.BaseRelevance,
		RelevanceReason: string(article.ArticleType),
		Priority:        news.Priority(article.ArticleType),
	})
	if err != nil {
		s.logger.Warn("Failed to link news article", map[string]interface{}{"url": article.URL, "error": err.Error()})
	}
	return saved, true
}

// afterStore indexes newly stored articles and sends the high-priority digest. Both are optional.
func (s *Service) afterStore(ctx context.Context, brand *models.Brand, articles []models.NewsArticle) {
	if len(articles) == 0 {
		return
	}
	if s.indexer != nil {
		for _, a := range articles {
			if err := s.indexer.Index(ctx, a); err != nil {
				s.logger.Warn("Failed to index news article", map[string]interface{}{"id": a.ID, "error": err.Error()})
			}
		}
	}
	if s.alerter != nil {
		if err := s.alerter.NotifyHighPriority(ctx, *brand, articles); err != nil {
			s.logger.Warn("High-priority news alert failed", map[string]interface{}{"brandId": brand.ID, "error": err.Error()})
		}
	}
}
