// internal/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/observability"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/service"
)

const maxBodyBytes = 1 << 20

// Server is the HTTP surface of the platform.
type Server struct {
	svc      *service.Service
	cfg      *config.Config
	logger   logger.Logger
	obs      *observability.Observability
	progress *ProgressHub
	mux      *http.ServeMux
}

func NewServer(svc *service.Service, cfg *config.Config, log logger.Logger, obs *observability.Observability) *Server {
	if obs == nil {
		obs = observability.NewNoop()
	}
	s := &Server{
		svc:      svc,
		cfg:      cfg,
		logger:   log.Named("api"),
		obs:      obs,
		progress: NewProgressHub(cfg.App.DemoMode, cfg.Progress, log),
		mux:      http.NewServeMux(),
	}
	s.progress.AllowOrigins(cfg.Server.CORSOrigins)
	s.routes()
	return s
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return withCORS(s.cfg.Server.CORSOrigins, s.mux)
}

// Progress exposes the websocket hub so long-running handlers can broadcast.
func (s *Server) Progress() *ProgressHub {
	return s.progress
}

func (s *Server) routes() {
	s.handle("GET /{$}", s.handleRoot)
	s.handle("GET /health", s.handleHealth)
	s.handle("GET /ready", s.handleReady)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.handle("GET /api/brands", s.handleListBrands)
	s.handle("GET /api/brands/{brandId}/plans", s.handleListPlans)
	s.handle("POST /api/analyze/{brandId}", s.handleAnalyze)
	s.handle("POST /api/generate-plan/{brandId}", s.handleGeneratePlan)
	s.handle("POST /api/scenario", s.handleScenario)
	s.handle("POST /api/validate", s.handleValidate)
	s.handle("GET /api/insights", s.handleListInsights)
	s.handle("PATCH /api/insights/{insightId}/validate", s.handleValidateInsight)
	s.handle("GET /api/news/{brandId}", s.handleBrandNews)
	s.handle("GET /api/news/{brandId}/search", s.handleSearchNews)

	s.handle("GET /api/agents/health", s.handleAgentsHealth)
	s.registerAgentRoutes()

	// Not instrumented: the recorder does not support hijacking and the connection is long-lived.
	s.mux.HandleFunc("GET /api/ws/progress", s.progress.ServeHTTP)
}

func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(pattern, h))
}

// ==========================
// Root endpoints
// ==========================

type modeInfo struct {
	Mock bool `json:"mock"`
	Demo bool `json:"demo"`
}

func (s *Server) mode() modeInfo {
	return modeInfo{Mock: s.cfg.App.MockMode, Demo: s.cfg.App.DemoMode}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Brand Planning API",
		"version": s.cfg.App.Version,
		"mode":    s.mode(),
		"endpoints": map[string][]string{
			"main": {
				"GET /api/brands - List all brands",
				"POST /api/analyze/{brandId} - Analyze brand (Analyzer + Strategy agents)",
				"POST /api/generate-plan/{brandId} - Generate brand plan",
				"POST /api/scenario - Run what-if scenario analysis",
				"POST /api/validate - Validate AI content",
				"GET /api/news/{brandId} - Brand news with priority tiers",
			},
			"realtime": {
				"WS /api/ws/progress - Real-time progress updates",
			},
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"mode":   s.mode(),
		"agents": "operational",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		s.logger.Warn("Readiness check failed", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ==========================
// Encoding helpers
// ==========================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.WriteError(w, err, s.cfg.App.IsDevelopment())
	fields := map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
		"code":   string(apperrors.CodeOf(err)),
		"error":  err.Error(),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", fields)
		return
	}
	s.logger.Warn("Request rejected", fields)
}

// decodeJSON decodes the body into dst, rejecting unknown fields. An empty body is allowed
// when optional is set and leaves dst untouched.
func decodeJSON(r *http.Request, dst interface{}, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if optional {
				return nil
			}
			return apperrors.NewInvalidRequestError("request body is required")
		}
		return apperrors.NewInvalidRequestError("invalid request body: " + err.Error())
	}
	if dec.More() {
		return apperrors.NewInvalidRequestError("request body must contain a single JSON object")
	}
	return nil
}
