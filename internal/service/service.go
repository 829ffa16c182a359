// internal/service/service.go
package service

import (
	"context"
	"time"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/agents"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/cache"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/news"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/repository"
)

const (
	defaultNewsDays       = 30
	defaultNewsStoreLimit = 15
	defaultNewsLimit      = 15
	maxNewsCompetitors    = 3

	analysisSentimentChars = 500
	newsSentimentChars     = 300
)

// Dependencies are the collaborators of Service. Indexer and Alerter are optional.
type Dependencies struct {
	Store   repository.Store
	Invoker *agents.Invoker
	Cache   cache.Cache
	News    *news.Service
	Indexer *news.Indexer
	Alerter *news.Alerter
	Logger  logger.Logger
	Config  config.NewsConfig
}

// Service orchestrates the brand planning operations behind the HTTP API.
type Service struct {
	store   repository.Store
	invoker *agents.Invoker
	cache   cache.Cache
	news    *news.Service
	indexer *news.Indexer
	alerter *news.Alerter
	logger  logger.Logger
	now     func() time.Time

	newsDays       int
	newsStoreLimit int
	newsLimit      int
}

func New(deps Dependencies) *Service {
	s := &Service{
		store:          deps.Store,
		invoker:        deps.Invoker,
		cache:          deps.Cache,
		news:           deps.News,
		indexer:        deps.Indexer,
		alerter:        deps.Alerter,
		logger:         deps.Logger.Named("service"),
		now:            func() time.Time { return time.Now().UTC() },
		newsDays:       deps.Config.Days,
		newsStoreLimit: deps.Config.StoreLimit,
		newsLimit:      deps.Config.DefaultSize,
	}
	if s.cache == nil {
		s.cache = cache.Disabled{}
	}
	if s.newsDays <= 0 {
		s.newsDays = defaultNewsDays
	}
	if s.newsStoreLimit <= 0 {
		s.newsStoreLimit = defaultNewsStoreLimit
	}
	if s.newsLimit <= 0 {
		s.newsLimit = defaultNewsLimit
	}
	return s
}

// Invoker exposes the agent invoker for the direct agent routes.
func (s *Service) Invoker() *agents.Invoker {
	return s.invoker
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) timestamp() string {
	return s.now().Format(time.RFC3339)
}

// ==========================
// Brands and insights
// ==========================

func (s *Service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.store.ListBrands(ctx)
}

// ListInsights returns the brand's insights newest first, optionally filtered by validation state.
func (s *Service) ListInsights(ctx context.Context, brandID string, validated *bool) ([]models.Insight, error) {
	if brandID == "" {
		return nil, apperrors.NewInvalidRequestError("brandId parameter required")
	}
	return s.store.ListInsights(ctx, brandID, validated)
}

func (s *Service) ValidateInsight(ctx context.Context, insightID string) (*models.Insight, error) {
	return s.store.ValidateInsight(ctx, insightID)
}

// ==========================
// Helpers
// ==========================

func toBrandData(b *models.Brand) agents.BrandData {
	return agents.BrandData{
		BrandID:         b.ID,
		Name:            b.Name,
		Company:         b.Company,
		TherapeuticArea: b.TherapeuticArea,
		MarketShare:     b.MarketShare,
	}
}

// competitorsOf returns the other brands in the same therapeutic area, in store order.
func (s *Service) competitorsOf(ctx context.Context, brand *models.Brand) ([]models.Brand, error) {
	all, err := s.store.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Brand
	for _, b := range all {
		if b.ID != brand.ID && b.TherapeuticArea == brand.TherapeuticArea {
			out = append(out, b)
		}
	}
	return out, nil
}

func competitorNames(competitors []models.Brand) []string {
	names := make([]string, 0, maxNewsCompetitors)
	for i, c := range competitors {
		if i == maxNewsCompetitors {
			break
		}
		names = append(names, c.Name)
	}
	return names
}
