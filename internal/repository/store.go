// internal/repository/store.go
package repository

import (
	"context"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

// Store is the persistence boundary for brands, insights, plans and news.
// Lookups of unknown ids return an errors.ErrCodeNotFound error; every other
// failure is an errors.ErrCodeDatabase error.
type Store interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	GetBrand(ctx context.Context, id string) (*models.Brand, error)

	// ListInsights returns the brand's insights newest first. A nil validated
	// matches both states.
	ListInsights(ctx context.Context, brandID string, validated *bool) ([]models.Insight, error)
	CreateInsight(ctx context.Context, insight models.Insight) (*models.Insight, error)
	ValidateInsight(ctx context.Context, id string) (*models.Insight, error)

	// CreatePlan stores planJSON as the next version for the brand.
	CreatePlan(ctx context.Context, brandID string, planJSON []byte) (*models.BrandPlan, error)
	ListPlans(ctx context.Context, brandID string) ([]models.BrandPlan, error)

	// UpsertNewsArticle inserts the article or refreshes the row with the same URL.
	// The returned article carries the stored id.
	UpsertNewsArticle(ctx context.Context, article models.NewsArticle) (*models.NewsArticle, error)
	LinkBrandNews(ctx context.Context, link models.BrandNewsLink) error
	ListBrandNews(ctx context.Context, brandID string, limit int) ([]models.BrandNewsItem, error)
	StoredNewsURLs(ctx context.Context, brandID string) (map[string]bool, error)

	Ping(ctx context.Context) error
}
