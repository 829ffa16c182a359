// internal/repository/memory_test.go
package repository

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

const (
	paxlovidID = "b1a2c3d4-e5f6-7890-abcd-ef1234567890"
	eliquisID  = "d3c4e5f6-a7b8-9012-cdef-123456789012"
)

func createSeededStore(t *testing.T) *MemoryStore {
	store, err := NewSeededMemoryStore()
	require.NoError(t, err)
	return store
}

func TestLoadSeed(t *testing.T) {
	data, err := LoadSeed()

	require.NoError(t, err)
	assert.Len(t, data.Brands, 4)
	assert.Len(t, data.Insights, 10)
	assert.Len(t, data.Plans, 2)
	assert.Equal(t, "2024-01-15T10:00:00Z", data.Brands[0].CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
}

func TestParseSeed_UnknownBrand(t *testing.T) {
	_, err := ParseSeed([]byte(`
brands:
  - id: b-1
    name: Paxlovid
insights:
  - brand: Nope
    type: market_research
`))
	assert.ErrorContains(t, err, "unknown brand")
}

func TestMemoryStore_Brands(t *testing.T) {
	store := createSeededStore(t)
	ctx := context.Background()

	brands, err := store.ListBrands(ctx)
	require.NoError(t, err)

	names := make([]string, len(brands))
	for i, b := range brands {
		names[i] = b.Name
	}
	assert.Equal(t, []string{"Eliquis", "Lagevrio", "Paxlovid", "Xarelto"}, names)

	b, err := store.GetBrand(ctx, eliquisID)
	require.NoError(t, err)
	assert.Equal(t, "Anticoagulant (Blood Thinner)", b.TherapeuticArea)
	assert.Equal(t, 42.3, *b.MarketShare)

	_, err = store.GetBrand(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}

func TestMemoryStore_Insights(t *testing.T) {
	store := createSeededStore(t)
	ctx := context.Background()

	all, err := store.ListInsights(ctx, paxlovidID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "target_audience", all[0].Type, "newest first")

	validated := true
	onlyValidated, err := store.ListInsights(ctx, paxlovidID, &validated)
	require.NoError(t, err)
	assert.Len(t, onlyValidated, 2)

	created, err := store.CreateInsight(ctx, models.Insight{BrandID: paxlovidID, Type: "pricing", Content: "new", ConfidenceScore: 0.85})
	require.NoError(t, err)

	all, err = store.ListInsights(ctx, paxlovidID, nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, all[0].ID)

	updated, err := store.ValidateInsight(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, updated.HumanValidated)

	_, err = store.ValidateInsight(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

	_, err = store.CreateInsight(ctx, models.Insight{BrandID: "missing"})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}

func TestMemoryStore_PlanVersions(t *testing.T) {
	store := createSeededStore(t)
	ctx := context.Background()

	plans, err := store.ListPlans(ctx, paxlovidID)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	var seeded map[string]interface{}
	require.NoError(t, json.Unmarshal(plans[0].PlanJSON, &seeded))
	assert.Equal(t, "2025 Q1-Q4", seeded["time_period"])

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CreatePlan(ctx, paxlovidID, []byte(`{}`))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	plans, err = store.ListPlans(ctx, paxlovidID)
	require.NoError(t, err)
	require.Len(t, plans, 11)
	for i, p := range plans {
		assert.Equal(t, 11-i, p.Version)
	}
}

func TestMemoryStore_News(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.UpsertNewsArticle(ctx, models.NewsArticle{URL: "https://a", Title: "old", ArticleType: models.ArticleCompetitor, PublishedAt: "2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, first.Sentiment)

	again, err := store.UpsertNewsArticle(ctx, models.NewsArticle{URL: "https://a", Title: "new", ArticleType: models.ArticleMarketWide})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "new", again.Title)
	assert.Equal(t, models.ArticleCompetitor, again.ArticleType)

	second, err := store.UpsertNewsArticle(ctx, models.NewsArticle{URL: "https://b", Title: "b", PublishedAt: "2025-02-01"})
	require.NoError(t, err)
	third, err := store.UpsertNewsArticle(ctx, models.NewsArticle{URL: "https://c", Title: "c", PublishedAt: "2025-03-01"})
	require.NoError(t, err)

	require.NoError(t, store.LinkBrandNews(ctx, models.BrandNewsLink{BrandID: "b-1", NewsArticleID: first.ID, RelevanceScore: 0.4, Priority: "low"}))
	require.NoError(t, store.LinkBrandNews(ctx, models.BrandNewsLink{BrandID: "b-1", NewsArticleID: second.ID, RelevanceScore: 0.7, Priority: "medium"}))
	require.NoError(t, store.LinkBrandNews(ctx, models.BrandNewsLink{BrandID: "b-1", NewsArticleID: third.ID, RelevanceScore: 0.7, Priority: "medium"}))

	err = store.LinkBrandNews(ctx, models.BrandNewsLink{BrandID: "b-1", NewsArticleID: "missing"})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

	items, err := store.ListBrandNews(ctx, "b-1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://c", items[0].URL, "equal relevance falls back to newest")
	assert.Equal(t, "https://b", items[1].URL)

	urls, err := store.StoredNewsURLs(ctx, "b-1")
	require.NoError(t, err)
	assert.Len(t, urls, 3)
	assert.True(t, urls["https://a"])

	none, err := store.ListBrandNews(ctx, "other", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
