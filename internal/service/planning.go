// internal/service/planning.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/agents"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/cache"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
)

const (
	defaultTimeframe = "12 months"
	unknownField     = "Unknown"
)

// ==========================
// Brand plans
// ==========================

type PlanRequest struct {
	Budget         *float64 `json:"budget,omitempty"`
	Timeframe      string   `json:"timeframe,omitempty"`
	StrategicGoals string   `json:"strategicGoals,omitempty"`
}

type PlanMetadata struct {
	Budget    *float64 `json:"budget"`
	Timeframe string   `json:"timeframe"`
	Timestamp string   `json:"timestamp"`
}

type PlanResponse struct {
	Brand       models.Brand            `json:"brand"`
	Plan        *agents.BrandPlanOutput `json:"plan"`
	Metadata    PlanMetadata            `json:"metadata"`
	SavedPlanID string                  `json:"savedPlanId"`
	Version     int                     `json:"version"`
}

// GeneratePlan produces a brand plan and stores it as the brand's next version.
func (s *Service) GeneratePlan(ctx context.Context, brandID string, req PlanRequest) (*PlanResponse, error) {
	if req.Timeframe == "" {
		req.Timeframe = defaultTimeframe
	}
	if req.Budget != nil && *req.Budget < 0 {
		return nil, apperrors.NewInvalidRequestError("budget must not be negative")
	}

	key := cache.PlanKey(brandID, req.Budget, req.Timeframe)
	return cache.Memoize(ctx, s.cache, s.logger, key, func(ctx context.Context) (*PlanResponse, error) {
		return s.generatePlan(ctx, brandID, req)
	})
}

func (s *Service) generatePlan(ctx context.Context, brandID string, req PlanRequest) (*PlanResponse, error) {
	brand, err := s.store.GetBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	plan, err := s.invoker.CreatePlan(ctx, agents.BrandPlanInput{
		Brand:          toBrandData(brand),
		Budget:         req.Budget,
		Timeframe:      req.Timeframe,
		StrategicGoals: req.StrategicGoals,
	})
	if err != nil {
		return nil, err
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	saved, err := s.store.CreatePlan(ctx, brand.ID, planJSON)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Brand plan stored", map[string]interface{}{
		"brandId": brand.ID,
		"planId":  saved.ID,
		"version": saved.Version,
	})

	return &PlanResponse{
		Brand: *brand,
		Plan:  plan,
		Metadata: PlanMetadata{
			Budget:    req.Budget,
			Timeframe: req.Timeframe,
			Timestamp: s.timestamp(),
		},
		SavedPlanID: saved.ID,
		Version:     saved.Version,
	}, nil
}

// ListPlans returns the stored plan versions of a brand, newest first.
func (s *Service) ListPlans(ctx context.Context, brandID string) ([]models.BrandPlan, error) {
	if _, err := s.store.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}
	return s.store.ListPlans(ctx, brandID)
}

// ==========================
// Scenario
// ==========================

type ScenarioRequest struct {
	BrandID          string `json:"brandId,omitempty"`
	BrandName        string `json:"brandName,omitempty"`
	ScenarioQuestion string `json:"scenarioQuestion"`
	CurrentContext   string `json:"currentContext,omitempty"`
}

// Validate enforces that exactly one of BrandID and BrandName is set.
func (r ScenarioRequest) Validate() error {
	hasID := strings.TrimSpace(r.BrandID) != ""
	hasName := strings.TrimSpace(r.BrandName) != ""
	switch {
	case !hasID && !hasName:
		return apperrors.NewInvalidRequestError("Either brandId or brandName required")
	case hasID && hasName:
		return apperrors.NewInvalidRequestError("Only one of brandId or brandName may be supplied")
	case strings.TrimSpace(r.ScenarioQuestion) == "":
		return apperrors.NewInvalidRequestError("scenarioQuestion is required")
	}
	return nil
}

type ScenarioResponse struct {
	Scenario  *agents.ScenarioOutput `json:"scenario"`
	Timestamp string                 `json:"timestamp"`
}

// Scenario runs the competitive-scenario agent for a stored brand or an ad-hoc brand name.
func (s *Service) Scenario(ctx context.Context, req ScenarioRequest) (*ScenarioResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return cache.Memoize(ctx, s.cache, s.logger, cache.ScenarioKey(req.ScenarioQuestion), func(ctx context.Context) (*ScenarioResponse, error) {
		brandData, err := s.scenarioBrand(ctx, req)
		if err != nil {
			return nil, err
		}

		out, err := s.invoker.AnalyzeScenario(ctx, agents.ScenarioInput{
			Brand:            brandData,
			ScenarioQuestion: req.ScenarioQuestion,
			CurrentContext:   req.CurrentContext,
		})
		if err != nil {
			return nil, err
		}
		return &ScenarioResponse{Scenario: out, Timestamp: s.timestamp()}, nil
	})
}

func (s *Service) scenarioBrand(ctx context.Context, req ScenarioRequest) (agents.BrandData, error) {
	if req.BrandID != "" {
		brand, err := s.store.GetBrand(ctx, req.BrandID)
		if err != nil {
			return agents.BrandData{}, err
		}
		return toBrandData(brand), nil
	}
	return agents.BrandData{
		Name:            req.BrandName,
		Company:         unknownField,
		TherapeuticArea: unknownField,
	}, nil
}

// ==========================
// Content validation
// ==========================

type ValidateRequest struct {
	ContentType        string   `json:"contentType"`
	Content            string   `json:"content"`
	ValidationCriteria []string `json:"validationCriteria,omitempty"`
}

type ValidateResponse struct {
	Validation *agents.ValidatorOutput `json:"validation"`
	Timestamp  string                  `json:"timestamp"`
}

// Validate reviews marketing content with the validator agent.
func (s *Service) Validate(ctx context.Context, req ValidateRequest) (*ValidateResponse, error) {
	if strings.TrimSpace(req.ContentType) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.NewInvalidRequestError("contentType and content are required")
	}

	key := cache.ValidateKey(req.ContentType, req.Content)
	return cache.Memoize(ctx, s.cache, s.logger, key, func(ctx context.Context) (*ValidateResponse, error) {
		out, err := s.invoker.Validate(ctx, agents.ValidatorInput{
			ContentType:        req.ContentType,
			Content:            req.Content,
			ValidationCriteria: req.ValidationCriteria,
		})
		if err != nil {
			return nil, err
		}
		return &ValidateResponse{Validation: out, Timestamp: s.timestamp()}, nil
	})
}
