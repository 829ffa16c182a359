// internal/repository/memory.go
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

// MemoryStore is a process-local Store used in mock mode and when Postgres is not configured.
type MemoryStore struct {
	mu       sync.RWMutex
	brands   map[string]models.Brand
	insights map[string]models.Insight
	plans    map[string][]models.BrandPlan
	articles map[string]models.NewsArticle // by id
	byURL    map[string]string
	links    map[string]map[string]models.BrandNewsLink // brand id -> article id
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		brands:   map[string]models.Brand{},
		insights: map[string]models.Insight{},
		plans:    map[string][]models.BrandPlan{},
		articles: map[string]models.NewsArticle{},
		byURL:    map[string]string{},
		links:    map[string]map[string]models.BrandNewsLink{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewSeededMemoryStore returns a store preloaded with the embedded demo dataset.
func NewSeededMemoryStore() (*MemoryStore, error) {
	data, err := LoadSeed()
	if err != nil {
		return nil, err
	}
	s := NewMemoryStore()
	if err := s.Load(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Load adds a dataset. Seeded insights get strictly increasing timestamps so that the
// newest-first order is stable and matches file order reversed.
func (s *MemoryStore) Load(data *SeedData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range data.Brands {
		s.brands[b.ID] = b
	}

	ids := data.brandIDs()
	base := s.now().Add(-time.Duration(len(data.Insights)) * time.Second)
	for i, in := range data.Insights {
		ts := base.Add(time.Duration(i) * time.Second)
		id := uuid.New().String()
		s.insights[id] = models.Insight{
			ID:              id,
			BrandID:         ids[in.Brand],
			Type:            in.Type,
			Content:         in.Content,
			ConfidenceScore: in.ConfidenceScore,
			AIReasoning:     in.AIReasoning,
			HumanValidated:  in.HumanValidated,
			CreatedAt:       ts,
			UpdatedAt:       ts,
		}
	}

	for _, p := range data.Plans {
		raw, err := json.Marshal(p.Plan)
		if err != nil {
			return fmt.Errorf("failed to encode seed plan for %s: %w", p.Brand, err)
		}
		brandID := ids[p.Brand]
		s.plans[brandID] = append(s.plans[brandID], models.BrandPlan{
			ID:        uuid.New().String(),
			BrandID:   brandID,
			Version:   p.Version,
			PlanJSON:  raw,
			CreatedAt: s.now(),
		})
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	brands := make([]models.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		brands = append(brands, b)
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })
	return brands, nil
}

func (s *MemoryStore) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.brands[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("brand", id)
	}
	return &b, nil
}

func (s *MemoryStore) ListInsights(ctx context.Context, brandID string, validated *bool) ([]models.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Insight{}
	for _, in := range s.insights {
		if in.BrandID != brandID {
			continue
		}
		if validated != nil && in.HumanValidated != *validated {
			continue
		}
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreateInsight(ctx context.Context, insight models.Insight) (*models.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.brands[insight.BrandID]; !ok {
		return nil, apperrors.NewNotFoundError("brand", insight.BrandID)
	}

	now := s.now()
	insight.ID = uuid.New().String()
	insight.CreatedAt = now
	insight.UpdatedAt = now
	s.insights[insight.ID] = insight
	return &insight, nil
}

func (s *MemoryStore) ValidateInsight(ctx context.Context, id string) (*models.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.insights[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("insight", id)
	}
	in.HumanValidated = true
	in.UpdatedAt = s.now()
	s.insights[id] = in
	return &in, nil
}

func (s *MemoryStore) CreatePlan(ctx context.Context, brandID string, planJSON []byte) (*models.BrandPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.brands[brandID]; !ok {
		return nil, apperrors.NewNotFoundError("brand", brandID)
	}

	version := 0
	for _, p := range s.plans[brandID] {
		if p.Version > version {
			version = p.Version
		}
	}

	plan := models.BrandPlan{
		ID:        uuid.New().String(),
		BrandID:   brandID,
		Version:   version + 1,
		PlanJSON:  append(json.RawMessage(nil), planJSON...),
		CreatedAt: s.now(),
	}
	s.plans[brandID] = append(s.plans[brandID], plan)
	return &plan, nil
}

func (s *MemoryStore) ListPlans(ctx context.Context, brandID string) ([]models.BrandPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]models.BrandPlan{}, s.plans[brandID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (s *MemoryStore) UpsertNewsArticle(ctx context.Context, article models.NewsArticle) (*models.NewsArticle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if article.Sentiment == "" {
		article.Sentiment = models.SentimentNeutral
	}

	if id, ok := s.byURL[article.URL]; ok {
		existing := s.articles[id]
		article.ID = existing.ID
		article.CreatedAt = existing.CreatedAt
		article.PublishedAt = existing.PublishedAt
		article.ArticleType = existing.ArticleType
		article.BaseRelevance = existing.BaseRelevance
		article.Source = existing.Source
	} else {
		if article.ID == "" {
			article.ID = uuid.New().String()
		}
		article.CreatedAt = s.now()
		s.byURL[article.URL] = article.ID
	}

	s.articles[article.ID] = article
	return &article, nil
}

func (s *MemoryStore) LinkBrandNews(ctx context.Context, link models.BrandNewsLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[link.NewsArticleID]; !ok {
		return apperrors.NewNotFoundError("news article", link.NewsArticleID)
	}
	if s.links[link.BrandID] == nil {
		s.links[link.BrandID] = map[string]models.BrandNewsLink{}
	}
	s.links[link.BrandID][link.NewsArticleID] = link
	return nil
}

func (s *MemoryStore) ListBrandNews(ctx context.Context, brandID string, limit int) ([]models.BrandNewsItem, error) {
	if limit <= 0 {
		limit = 15
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []models.BrandNewsItem{}
	for articleID, link := range s.links[brandID] {
		items = append(items, models.BrandNewsItem{
			NewsArticle:     s.articles[articleID],
			RelevanceScore:  link.RelevanceScore,
			RelevanceReason: link.RelevanceReason,
			Priority:        link.Priority,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].RelevanceScore != items[j].RelevanceScore {
			return items[i].RelevanceScore > items[j].RelevanceScore
		}
		return items[i].PublishedAt > items[j].PublishedAt
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *MemoryStore) StoredNewsURLs(ctx context.Context, brandID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls := make(map[string]bool, len(s.links[brandID]))
	for articleID := range s.links[brandID] {
		urls[s.articles[articleID].URL] = true
	}
	return urls, nil
}

var _ Store = (*MemoryStore)(nil)
