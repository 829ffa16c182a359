// internal/models/brand.go
package models

import (
	"encoding/json"
	"time"
)

type Brand struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	Company         string    `json:"company" yaml:"company"`
	TherapeuticArea string    `json:"therapeuticArea" yaml:"therapeutic_area"`
	MarketShare     *float64  `json:"marketShare,omitempty" yaml:"market_share"`
	CreatedAt       time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" yaml:"updated_at"`
}

// Insight is an AI-generated or analyst-entered finding attached to a brand.
type Insight struct {
	ID              string    `json:"id"`
	BrandID         string    `json:"brandId" yaml:"brand_id"`
	Type            string    `json:"type" yaml:"type"`
	Content         string    `json:"content" yaml:"content"`
	ConfidenceScore float64   `json:"confidenceScore" yaml:"confidence_score"`
	AIReasoning     string    `json:"aiReasoning" yaml:"ai_reasoning"`
	HumanValidated  bool      `json:"humanValidated" yaml:"human_validated"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BrandPlan is one stored version of a generated plan. Versions are per brand and start at 1.
type BrandPlan struct {
	ID        string          `json:"id"`
	BrandID   string          `json:"brandId"`
	Version   int             `json:"version"`
	PlanJSON  json.RawMessage `json:"planJson"`
	CreatedAt time.Time       `json:"createdAt"`
}
