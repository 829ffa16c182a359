// internal/repository/postgres.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

const (
	pgInvalidTextRepresentation = "22P02"
	pgUniqueViolation           = "23505"

	maxPlanVersionAttempts = 3
)

// PostgresStore implements Store on the brand planning schema.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.Named("postgres-store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.NewDatabaseError("ping", err)
	}
	return nil
}

// ==========================
// Brands
// ==========================

func (s *PostgresStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, company, therapeutic_area, market_share, created_at, updated_at
		FROM brands
		ORDER BY name
	`)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list brands", err)
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("list brands", err)
		}
		brands = append(brands, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("list brands", err)
	}
	return brands, nil
}

func (s *PostgresStore) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, company, therapeutic_area, market_share, created_at, updated_at
		FROM brands
		WHERE id = $1
	`, id)

	b, err := scanBrand(row)
	if err != nil {
		if isMissing(err) {
			return nil, apperrors.NewNotFoundError("brand", id)
		}
		return nil, apperrors.NewDatabaseError("get brand", err)
	}
	return b, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBrand(row scanner) (*models.Brand, error) {
	var b models.Brand
	var share sql.NullFloat64
	if err := row.Scan(&b.ID, &b.Name, &b.Company, &b.TherapeuticArea, &share, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if share.Valid {
		b.MarketShare = &share.Float64
	}
	return &b, nil
}

// ==========================
// Insights
// ==========================

const insightColumns = `id, brand_id, type, content, confidence_score, ai_reasoning, human_validated, created_at, updated_at`

func (s *PostgresStore) ListInsights(ctx context.Context, brandID string, validated *bool) ([]models.Insight, error) {
	var filter sql.NullBool
	if validated != nil {
		filter = sql.NullBool{Bool: *validated, Valid: true}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+insightColumns+`
		FROM insights
		WHERE brand_id = $1
		  AND ($2::boolean IS NULL OR human_validated = $2)
		ORDER BY created_at DESC
	`, brandID, filter)
	if err != nil {
		if isInvalidID(err) {
			return []models.Insight{}, nil
		}
		return nil, apperrors.NewDatabaseError("list insights", err)
	}
	defer rows.Close()

	insights := []models.Insight{}
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("list insights", err)
		}
		insights = append(insights, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("list insights", err)
	}
	return insights, nil
}

func (s *PostgresStore) CreateInsight(ctx context.Context, insight models.Insight) (*models.Insight, error) {
	now := s.now()
	insight.ID = uuid.New().String()
	insight.CreatedAt = now
	insight.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO insights (`+insightColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, insight.ID, insight.BrandID, insight.Type, insight.Content, insight.ConfidenceScore,
		insight.AIReasoning, insight.HumanValidated, insight.CreatedAt, insight.UpdatedAt)
	if err != nil {
		return nil, apperrors.NewDatabaseError("create insight", err)
	}
	return &insight, nil
}

func (s *PostgresStore) ValidateInsight(ctx context.Context, id string) (*models.Insight, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE insights
		SET human_validated = TRUE, updated_at = $2
		WHERE id = $1
		RETURNING `+insightColumns,
		id, s.now())

	in, err := scanInsight(row)
	if err != nil {
		if isMissing(err) {
			return nil, apperrors.NewNotFoundError("insight", id)
		}
		return nil, apperrors.NewDatabaseError("validate insight", err)
	}
	return in, nil
}

func scanInsight(row scanner) (*models.Insight, error) {
	var in models.Insight
	err := row.Scan(&in.ID, &in.BrandID, &in.Type, &in.Content, &in.ConfidenceScore,
		&in.AIReasoning, &in.HumanValidated, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// ==========================
// Brand plans
// ==========================

// CreatePlan computes the next version inside the INSERT. Two concurrent writers can
// still pick the same number; the unique (brand_id, version) constraint rejects the
// loser, which retries.
func (s *PostgresStore) CreatePlan(ctx context.Context, brandID string, planJSON []byte) (*models.BrandPlan, error) {
	var lastErr error
	for attempt := 1; attempt <= maxPlanVersionAttempts; attempt++ {
		plan := &models.BrandPlan{
			ID:       uuid.New().String(),
			BrandID:  brandID,
			PlanJSON: append([]byte(nil), planJSON...),
		}

		err := s.db.QueryRowContext(ctx, `
			INSERT INTO brand_plans (id, brand_id, version, plan_json, created_at)
			SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3, $4
			FROM brand_plans
			WHERE brand_id = $2
			RETURNING version, created_at
		`, plan.ID, brandID, string(planJSON), s.now()).Scan(&plan.Version, &plan.CreatedAt)
		if err == nil {
			return plan, nil
		}

		lastErr = err
		if pgCode(err) != pgUniqueViolation {
			break
		}
		s.logger.Warn("Plan version conflict, retrying", map[string]interface{}{
			"brandId": brandID,
			"attempt": attempt,
		})
	}
	return nil, apperrors.NewDatabaseError("create plan", lastErr)
}

func (s *PostgresStore) ListPlans(ctx context.Context, brandID string) ([]models.BrandPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, brand_id, version, plan_json, created_at
		FROM brand_plans
		WHERE brand_id = $1
		ORDER BY version DESC
	`, brandID)
	if err != nil {
		if isInvalidID(err) {
			return []models.BrandPlan{}, nil
		}
		return nil, apperrors.NewDatabaseError("list plans", err)
	}
	defer rows.Close()

	plans := []models.BrandPlan{}
	for rows.Next() {
		var p models.BrandPlan
		var raw []byte
		if err := rows.Scan(&p.ID, &p.BrandID, &p.Version, &raw, &p.CreatedAt); err != nil {
			return nil, apperrors.NewDatabaseError("list plans", err)
		}
		p.PlanJSON = raw
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("list plans", err)
	}
	return plans, nil
}

// ==========================
// News
// ==========================

func (s *PostgresStore) UpsertNewsArticle(ctx context.Context, article models.NewsArticle) (*models.NewsArticle, error) {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.Sentiment == "" {
		article.Sentiment = models.SentimentNeutral
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO news_articles (
			id, title, content, url, source, published_at, article_type, base_relevance, search_score,
			sentiment, mentioned_brands, mentioned_companies, therapeutic_areas, topics, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			search_score = EXCLUDED.search_score,
			sentiment = EXCLUDED.sentiment,
			mentioned_brands = EXCLUDED.mentioned_brands,
			mentioned_companies = EXCLUDED.mentioned_companies,
			therapeutic_areas = EXCLUDED.therapeutic_areas,
			topics = EXCLUDED.topics
		RETURNING id, created_at
	`, article.ID, article.Title, article.Content, article.URL, article.Source, article.PublishedAt,
		string(article.ArticleType), article.BaseRelevance, article.SearchScore, article.Sentiment,
		pq.Array(nonNil(article.MentionedBrands)), pq.Array(nonNil(article.MentionedCompanies)),
		pq.Array(nonNil(article.TherapeuticAreas)), pq.Array(nonNil(article.Topics)), s.now(),
	).Scan(&article.ID, &article.CreatedAt)
	if err != nil {
		return nil, apperrors.NewDatabaseError("upsert news article", err)
	}
	return &article, nil
}

func (s *PostgresStore) LinkBrandNews(ctx context.Context, link models.BrandNewsLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO brand_news (brand_id, news_article_id, relevance_score, relevance_reason, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (brand_id, news_article_id) DO UPDATE SET
			relevance_score = EXCLUDED.relevance_score,
			relevance_reason = EXCLUDED.relevance_reason,
			priority = EXCLUDED.priority
	`, link.BrandID, link.NewsArticleID, link.RelevanceScore, link.RelevanceReason, link.Priority, s.now())
	if err != nil {
		return apperrors.NewDatabaseError("link brand news", err)
	}
	return nil
}

func (s *PostgresStore) ListBrandNews(ctx context.Context, brandID string, limit int) ([]models.BrandNewsItem, error) {
	if limit <= 0 {
		limit = 15
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.title, a.content, a.url, a.source, a.published_at, a.article_type,
		       a.base_relevance, a.search_score, a.sentiment, a.mentioned_brands,
		       a.mentioned_companies, a.therapeutic_areas, a.topics, a.created_at,
		       bn.relevance_score, bn.relevance_reason, bn.priority
		FROM brand_news bn
		JOIN news_articles a ON a.id = bn.news_article_id
		WHERE bn.brand_id = $1
		ORDER BY bn.relevance_score DESC, a.published_at DESC
		LIMIT $2
	`, brandID, limit)
	if err != nil {
		if isInvalidID(err) {
			return []models.BrandNewsItem{}, nil
		}
		return nil, apperrors.NewDatabaseError("list brand news", err)
	}
	defer rows.Close()

	items := []models.BrandNewsItem{}
	for rows.Next() {
		var it models.BrandNewsItem
		var articleType string
		err := rows.Scan(&it.ID, &it.Title, &it.Content, &it.URL, &it.Source, &it.PublishedAt, &articleType,
			&it.BaseRelevance, &it.SearchScore, &it.Sentiment,
			(*pq.StringArray)(&it.MentionedBrands), (*pq.StringArray)(&it.MentionedCompanies),
			(*pq.StringArray)(&it.TherapeuticAreas), (*pq.StringArray)(&it.Topics), &it.CreatedAt,
			&it.RelevanceScore, &it.RelevanceReason, &it.Priority)
		if err != nil {
			return nil, apperrors.NewDatabaseError("list brand news", err)
		}
		it.ArticleType = models.ArticleType(articleType)
		it.MentionedBrands = nonNil(it.MentionedBrands)
		it.MentionedCompanies = nonNil(it.MentionedCompanies)
		it.TherapeuticAreas = nonNil(it.TherapeuticAreas)
		it.Topics = nonNil(it.Topics)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("list brand news", err)
	}
	return items, nil
}

func (s *PostgresStore) StoredNewsURLs(ctx context.Context, brandID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.url
		FROM brand_news bn
		JOIN news_articles a ON a.id = bn.news_article_id
		WHERE bn.brand_id = $1
	`, brandID)
	if err != nil {
		if isInvalidID(err) {
			return map[string]bool{}, nil
		}
		return nil, apperrors.NewDatabaseError("stored news urls", err)
	}
	defer rows.Close()

	urls := map[string]bool{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, apperrors.NewDatabaseError("stored news urls", err)
		}
		urls[u] = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("stored news urls", err)
	}
	return urls, nil
}

// ==========================
// Helpers
// ==========================

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// isInvalidID reports a malformed uuid, which can never match a row.
func isInvalidID(err error) bool {
	return pgCode(err) == pgInvalidTextRepresentation
}

func isMissing(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || isInvalidID(err)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

var _ Store = (*PostgresStore)(nil)
