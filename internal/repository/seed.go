// internal/repository/seed.go
package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed seed/seed.yaml
var seedYAML []byte

// SeedData is the demo dataset. Insights and plans name their brand by name.
type SeedData struct {
	Brands   []models.Brand `yaml:"brands"`
	Insights []SeedInsight  `yaml:"insights"`
	Plans    []SeedPlan     `yaml:"plans"`
}

type SeedInsight struct {
	Brand           string  `yaml:"brand"`
	Type            string  `yaml:"type"`
	Content         string  `yaml:"content"`
	ConfidenceScore float64 `yaml:"confidence_score"`
	AIReasoning     string  `yaml:"ai_reasoning"`
	HumanValidated  bool    `yaml:"human_validated"`
}

type SeedPlan struct {
	Brand   string                 `yaml:"brand"`
	Version int                    `yaml:"version"`
	Plan    map[string]interface{} `yaml:"plan"`
}

// LoadSeed parses the embedded dataset.
func LoadSeed() (*SeedData, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed decodes a dataset and checks that every insight and plan names a known brand.
func ParseSeed(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	ids := data.brandIDs()
	for _, in := range data.Insights {
		if _, ok := ids[in.Brand]; !ok {
			return nil, fmt.Errorf("seed insight %q references unknown brand %q", in.Type, in.Brand)
		}
	}
	for _, p := range data.Plans {
		if _, ok := ids[p.Brand]; !ok {
			return nil, fmt.Errorf("seed plan v%d references unknown brand %q", p.Version, p.Brand)
		}
	}
	return &data, nil
}

func (d *SeedData) brandIDs() map[string]string {
	ids := make(map[string]string, len(d.Brands))
	for _, b := range d.Brands {
		ids[b.Name] = b.ID
	}
	return ids
}

// Migrate creates the schema and its tables. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB, schema string) error {
	if schema == "" {
		schema = "public"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	ident := pq.QuoteIdentifier(schema)
	if _, err := tx.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+ident); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schema, err)
	}
	if _, err := tx.ExecContext(ctx, "SET LOCAL search_path TO "+ident+", public"); err != nil {
		return fmt.Errorf("failed to set search_path: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return tx.Commit()
}

// Seed loads data into Postgres. Rows that already exist are left untouched.
func Seed(ctx context.Context, db *sql.DB, data *SeedData) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, b := range data.Brands {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO brands (id, name, company, therapeutic_area, market_share, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`, b.ID, b.Name, b.Company, b.TherapeuticArea, b.MarketShare, b.CreatedAt, b.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to seed brand %s: %w", b.Name, err)
		}
	}

	ids := data.brandIDs()
	now := time.Now().UTC()

	for _, in := range data.Insights {
		// Deterministic ids keep reseeding idempotent.
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(in.Brand+"/"+in.Type+"/"+in.Content)).String()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO insights (id, brand_id, type, content, confidence_score, ai_reasoning, human_validated, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			ON CONFLICT (id) DO NOTHING
		`, id, ids[in.Brand], in.Type, in.Content, in.ConfidenceScore, in.AIReasoning, in.HumanValidated, now)
		if err != nil {
			return fmt.Errorf("failed to seed insight for %s: %w", in.Brand, err)
		}
	}

	for _, p := range data.Plans {
		planJSON, err := json.Marshal(p.Plan)
		if err != nil {
			return fmt.Errorf("failed to encode seed plan for %s: %w", p.Brand, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO brand_plans (id, brand_id, version, plan_json, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (brand_id, version) DO NOTHING
		`, uuid.New().String(), ids[p.Brand], p.Version, string(planJSON), now)
		if err != nil {
			return fmt.Errorf("failed to seed plan for %s: %w", p.Brand, err)
		}
	}

	return tx.Commit()
}
