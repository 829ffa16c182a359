// internal/api/handlers.go
package api

import (
	"net/http"
	"strconv"

	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/service"
)

// ==========================
// Brands
// ==========================

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.svc.ListBrands(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.svc.ListPlans(r.Context(), r.PathValue("brandId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// ==========================
// Analysis and planning
// ==========================

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req service.AnalyzeRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	brandID := r.PathValue("brandId")
	resp, err := s.svc.Analyze(r.Context(), brandID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.progress.Broadcast(ProgressFrame{Action: ActionAnalyze, Step: stepComplete, Progress: 100, BrandID: brandID})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req service.PlanRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	brandID := r.PathValue("brandId")
	resp, err := s.svc.GeneratePlan(r.Context(), brandID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.progress.Broadcast(ProgressFrame{Action: ActionGeneratePlan, Step: stepComplete, Progress: 100, BrandID: brandID})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	var req service.ScenarioRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.svc.Scenario(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req service.ValidateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.svc.Validate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ==========================
// Insights
// ==========================

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var validated *bool
	if raw := q.Get("validated"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, apperrors.NewInvalidRequestError("validated must be true or false"))
			return
		}
		validated = &v
	}

	insights, err := s.svc.ListInsights(r.Context(), q.Get("brandId"), validated)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleValidateInsight(w http.ResponseWriter, r *http.Request) {
	insight, err := s.svc.ValidateInsight(r.Context(), r.PathValue("insightId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"insight": insight,
		"message": "Insight validated successfully",
	})
}

// ==========================
// News
// ==========================

func (s *Server) handleBrandNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	refresh := false
	if raw := q.Get("refresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, apperrors.NewInvalidRequestError("refresh must be true or false"))
			return
		}
		refresh = v
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.svc.BrandNews(r.Context(), r.PathValue("brandId"), refresh, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearchNews(w http.ResponseWriter, r *http.Request) {
	size, err := intParam(r, "size")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	brandID := r.PathValue("brandId")
	query := r.URL.Query().Get("q")
	articles, err := s.svc.SearchNews(r.Context(), brandID, query, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"brandId":  brandID,
		"query":    query,
		"articles": articles,
		"total":    len(articles),
	})
}

// intParam parses an optional positive integer query parameter. Zero means unset.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.NewInvalidRequestError(name + " must be a positive integer")
	}
	return n, nil
}
