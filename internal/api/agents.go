// internal/api/agents.go
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/agents"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
)

// registerAgentRoutes exposes each agent directly. Bodies are the agent inputs as-is; nothing is
// persisted or cached.
func (s *Server) registerAgentRoutes() {
	inv := s.svc.Invoker()

	s.handle("POST /api/agents/analyzer", agentHandler(s, inv.Analyze, func(in agents.AnalyzerInput) error {
		return requireBrand(in.Brand)
	}))
	s.handle("POST /api/agents/strategy", agentHandler(s, inv.Strategize, func(in agents.StrategyInput) error {
		return requireBrand(in.Brand)
	}))
	s.handle("POST /api/agents/brand-plan", agentHandler(s, inv.CreatePlan, func(in agents.BrandPlanInput) error {
		if in.Budget != nil && *in.Budget < 0 {
			return apperrors.NewInvalidRequestError("budget must not be negative")
		}
		return requireBrand(in.Brand)
	}))
	s.handle("POST /api/agents/scenario", agentHandler(s, inv.AnalyzeScenario, func(in agents.ScenarioInput) error {
		if strings.TrimSpace(in.ScenarioQuestion) == "" {
			return apperrors.NewInvalidRequestError("scenarioQuestion is required")
		}
		return requireBrand(in.Brand)
	}))
	s.handle("POST /api/agents/validator", agentHandler(s, inv.Validate, func(in agents.ValidatorInput) error {
		if strings.TrimSpace(in.ContentType) == "" || strings.TrimSpace(in.Content) == "" {
			return apperrors.NewInvalidRequestError("contentType and content are required")
		}
		return nil
	}))
	s.handle("POST /api/agents/insight-discovery", agentHandler(s, inv.Discover, func(in agents.InsightDiscoveryInput) error {
		return requireBrand(in.Brand)
	}))
}

func agentHandler[In, Out any](s *Server, run func(context.Context, In) (*Out, error), check func(In) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := decodeJSON(r, &in, false); err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := check(in); err != nil {
			s.writeError(w, r, err)
			return
		}

		out, err := run(r.Context(), in)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func requireBrand(b agents.BrandData) error {
	if strings.TrimSpace(b.Name) == "" {
		return apperrors.NewInvalidRequestError("brand.name is required")
	}
	return nil
}

func (s *Server) handleAgentsHealth(w http.ResponseWriter, r *http.Request) {
	inv := s.svc.Invoker()
	provider := "none"
	if p := inv.Provider(); p != nil {
		provider = p.Name()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"mockMode": s.cfg.App.MockMode,
		"offline":  inv.Offline(),
		"provider": provider,
		"agents": []string{
			agents.AgentAnalyzer,
			agents.AgentStrategy,
			agents.AgentBrandPlan,
			agents.AgentScenario,
			agents.AgentValidator,
			agents.AgentInsightDiscovery,
		},
	})
}
