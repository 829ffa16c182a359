// internal/service/news.go
package service

import (
	"context"
	"strings"

	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

const (
	mentionRelevance = 0.7
	mentionReason    = "mentioned_in_article"
	searchScanLimit  = 200
)

type BrandNewsResponse struct {
	BrandID           string                 `json:"brandId"`
	Articles          []models.BrandNewsItem `json:"articles"`
	TotalCount        int                    `json:"totalCount"`
	HighPriorityCount int                    `json:"highPriorityCount"`
	LastUpdated       string                 `json:"lastUpdated"`
}

// BrandNews returns the brand's stored news, fetching fresh articles first when refresh is
// set or nothing has been stored yet. Fetch failures fall back to what is stored.
func (s *Service) BrandNews(ctx context.Context, brandID string, refresh bool, limit int) (*BrandNewsResponse, error) {
	if limit <= 0 {
		limit = s.newsLimit
	}

	brand, err := s.store.GetBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if s.news != nil && s.news.Available() {
		fetch := refresh
		if !fetch {
			stored, err := s.store.StoredNewsURLs(ctx, brand.ID)
			if err != nil {
				s.logger.Warn("Failed to check stored news, fetching fresh articles", map[string]interface{}{"brandId": brand.ID, "error": err.Error()})
			}
			fetch = len(stored) == 0
		}
		if fetch {
			s.refreshNews(ctx, brand)
		}
	}

	items, err := s.store.ListBrandNews(ctx, brand.ID, limit)
	if err != nil {
		return nil, err
	}

	high := 0
	for _, it := range items {
		if it.Priority == models.PriorityHigh {
			high++
		}
	}

	return &BrandNewsResponse{
		BrandID:           brand.ID,
		Articles:          items,
		TotalCount:        len(items),
		HighPriorityCount: high,
		LastUpdated:       s.timestamp(),
	}, nil
}

func (s *Service) refreshNews(ctx context.Context, brand *models.Brand) {
	competitors, err := s.competitorsOf(ctx, brand)
	if err != nil {
		s.logger.Warn("Failed to load competitors for news", map[string]interface{}{"brandId": brand.ID, "error": err.Error()})
	}

	articles, err := s.news.FetchComprehensive(ctx, brand.Name, brand.TherapeuticArea, competitorNames(competitors), s.newsDays)
	if err != nil {
		s.logger.Warn("News refresh failed, serving stored news", map[string]interface{}{"brandId": brand.ID, "error": err.Error()})
		return
	}

	all, err := s.store.ListBrands(ctx)
	if err != nil {
		s.logger.Warn("Failed to load brands for mention links", map[string]interface{}{"error": err.Error()})
	}

	var fresh []models.NewsArticle
	for i := range articles {
		s.news.Enrich(ctx, &articles[i], brand.TherapeuticArea, newsSentimentChars)
		saved, ok := s.storeArticle(ctx, brand.ID, articles[i])
		if !ok {
			continue
		}
		fresh = append(fresh, *saved)
		s.linkMentions(ctx, brand.ID, saved, all)
	}

	s.logger.Info("News refreshed", map[string]interface{}{
		"brandId": brand.ID,
		"fetched": len(articles),
		"stored":  len(fresh),
	})
	s.afterStore(ctx, brand, fresh)
}

// linkMentions links the article to every other known brand it names.
func (s *Service) linkMentions(ctx context.Context, brandID string, article *models.NewsArticle, brands []models.Brand) {
	for _, mentioned := range article.MentionedBrands {
		for _, other := range brands {
			if other.ID == brandID || !strings.EqualFold(other.Name, mentioned) {
				continue
			}
			err := s.store.LinkBrandNews(ctx, models.BrandNewsLink{
				BrandID:         other.ID,
				NewsArticleID:   article.ID,
				RelevanceScore:  mentionRelevance,
				RelevanceReason: mentionReason,
				Priority:        models.PriorityMedium,
			})
			if err != nil {
				s.logger.Warn("Failed to link mentioned brand", map[string]interface{}{"brandId": other.ID, "error": err.Error()})
			}
		}
	}
}

// SearchNews runs a full-text search over indexed articles for the brand. Without an index it
// filters the stored articles by substring.
func (s *Service) SearchNews(ctx context.Context, brandID, query string, size int) ([]models.NewsArticle, error) {
	if size <= 0 {
		size = s.newsLimit
	}

	brand, err := s.store.GetBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if s.indexer != nil {
		articles, err := s.indexer.Search(ctx, *brand, query, size)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return articles, nil
	}

	items, err := s.store.ListBrandNews(ctx, brand.ID, searchScanLimit)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := []models.NewsArticle{}
	for _, it := range items {
		if needle == "" || strings.Contains(strings.ToLower(it.Title+" "+it.Content), needle) {
			out = append(out, it.NewsArticle)
		}
		if len(out) == size {
			break
		}
	}
	return out, nil
}
