// internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/agents"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/logger"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/observability"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/models"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/repository"
	"github.com/neeleshsethi/brand-intelligence-platform/internal/service"
)

// ==========================
// Test Helper Functions
// ==========================

const (
	paxlovidID = "b1a2c3d4-e5f6-7890-abcd-ef1234567890"
	eliquisID  = "d3c4e5f6-a7b8-9012-cdef-123456789012"
	unknownID  = "00000000-0000-0000-0000-000000000000"
)

type testServer struct {
	srv   *Server
	store *repository.MemoryStore
	h     http.Handler
}

func createTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "brand-intelligence-platform",
			Version:     "0.1.0",
			Environment: "test",
			MockMode:    true,
		},
		Server: config.ServerConfig{
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
	}
}

func createTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	cfg := createTestConfig()
	for _, m := range mutate {
		m(cfg)
	}

	store, err := repository.NewSeededMemoryStore()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	obs := observability.NewNoop()
	svc := service.New(service.Dependencies{
		Store:   store,
		Invoker: agents.NewInvoker(nil, agents.InvokerOptions{MockMode: true}, log, obs),
		Logger:  log,
	})

	srv := NewServer(svc, cfg, log, obs)
	srv.progress.sleep = func(time.Duration) {}
	return &testServer{srv: srv, store: store, h: srv.Handler()}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// ==========================
// Root Endpoint Tests
// ==========================

func TestServer_RootAndHealth(t *testing.T) {
	ts := createTestServer(t, func(c *config.Config) { c.App.DemoMode = true })

	rec := ts.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	root := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, "0.1.0", root["version"])
	assert.Equal(t, map[string]interface{}{"mock": true, "demo": true}, root["mode"])

	rec = ts.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, health["time"])

	rec = ts.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_UnknownRoute(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/brands", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ==========================
// CORS Tests
// ==========================

func TestServer_CORS(t *testing.T) {
	ts := createTestServer(t)

	tests := []struct {
		name        string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantAllowed bool
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantAllowed: true},
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:5173", preflight: true, wantStatus: http.StatusNoContent, wantAllowed: true},
		{name: "foreign origin", method: http.MethodGet, origin: "http://evil.example", wantStatus: http.StatusOK, wantAllowed: false},
		{name: "no origin", method: http.MethodGet, wantStatus: http.StatusOK, wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/brands", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			ts.h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

// ==========================
// Brand and Analysis Tests
// ==========================

func TestServer_ListBrands(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/brands", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	brands := decodeBody[[]models.Brand](t, rec)
	assert.Len(t, brands, 4)
}

func TestServer_Analyze(t *testing.T) {
	ts := createTestServer(t)

	tests := []struct {
		name       string
		path       string
		body       interface{}
		wantStatus int
		validate   func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:       "empty body",
			path:       "/api/analyze/" + eliquisID,
			wantStatus: http.StatusOK,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				resp := decodeBody[service.AnalyzeResponse](t, rec)
				assert.Equal(t, "Eliquis", resp.Brand.Name)
				require.NotNil(t, resp.Analysis)
				require.NotNil(t, resp.Strategy)
				assert.Len(t, resp.SavedInsightIDs, len(resp.Analysis.KeyInsights))
			},
		},
		{
			name:       "without competitors",
			path:       "/api/analyze/" + paxlovidID,
			body:       map[string]interface{}{"includeCompetitors": false},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown brand",
			path:       "/api/analyze/" + unknownID,
			wantStatus: http.StatusNotFound,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				env := decodeBody[apperrors.Envelope](t, rec)
				assert.Equal(t, "Not Found", env.Error)
				assert.Contains(t, env.Message, "not found")
			},
		},
		{
			name:       "unknown field",
			path:       "/api/analyze/" + eliquisID,
			body:       `{"includeCompetitors": true, "extra": 1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			path:       "/api/analyze/" + eliquisID,
			body:       `{"includeCompetitors":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.validate != nil {
				tt.validate(t, rec)
			}
		})
	}
}

func TestServer_GeneratePlan(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/generate-plan/"+eliquisID, map[string]interface{}{
		"budget":    5000000,
		"timeframe": "6 months",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[service.PlanResponse](t, rec)
	assert.Equal(t, 2, resp.Version)
	assert.Equal(t, "6 months", resp.Metadata.Timeframe)
	require.NotNil(t, resp.Metadata.Budget)
	assert.Equal(t, 5000000.0, *resp.Metadata.Budget)

	rec = ts.do(t, http.MethodPost, "/api/generate-plan/"+eliquisID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[service.PlanResponse](t, rec)
	assert.Equal(t, 3, resp.Version)
	assert.Equal(t, "12 months", resp.Metadata.Timeframe)

	rec = ts.do(t, http.MethodGet, "/api/brands/"+eliquisID+"/plans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plans := decodeBody[[]models.BrandPlan](t, rec)
	require.Len(t, plans, 3)
	assert.Equal(t, 3, plans[0].Version)

	rec = ts.do(t, http.MethodPost, "/api/generate-plan/"+eliquisID, map[string]interface{}{"budget": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==========================
// Scenario and Validation Tests
// ==========================

func TestServer_Scenario_OfflineEndToEnd(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenario", map[string]string{
		"brandName":        "Acme",
		"scenarioQuestion": "What if a rival cuts price 50%?",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[service.ScenarioResponse](t, rec)
	require.NotNil(t, resp.Scenario)
	assert.Len(t, resp.Scenario.DefensiveTactics, 3)
	assert.Contains(t, []string{"critical", "high", "medium", "low"}, resp.Scenario.RiskLevel)
	assert.GreaterOrEqual(t, resp.Scenario.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, resp.Scenario.ConfidenceScore, 1.0)
}

func TestServer_Scenario_RequestErrors(t *testing.T) {
	ts := createTestServer(t)

	tests := []struct {
		name        string
		body        interface{}
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "neither brand field",
			body:        map[string]string{"scenarioQuestion": "What if?"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Either brandId or brandName required",
		},
		{
			name:        "both brand fields",
			body:        map[string]string{"brandId": eliquisID, "brandName": "Eliquis", "scenarioQuestion": "What if?"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Only one of brandId or brandName may be supplied",
		},
		{
			name:       "empty body",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown brand id",
			body:       map[string]string{"brandId": unknownID, "scenarioQuestion": "What if?"},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/scenario", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				env := decodeBody[apperrors.Envelope](t, rec)
				assert.Equal(t, tt.wantMessage, env.Message)
			}
		})
	}
}

func TestServer_Validate(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/validate", map[string]interface{}{
		"contentType": "brand_plan",
		"content":     "Eliquis will grow share through cardiology outreach.",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[service.ValidateResponse](t, rec)
	require.NotNil(t, resp.Validation)
	assert.Contains(t, []string{"approved", "needs_revision", "rejected"}, resp.Validation.ValidationStatus)

	rec = ts.do(t, http.MethodPost, "/api/validate", map[string]string{"contentType": "brand_plan"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==========================
// Insight Tests
// ==========================

func TestServer_Insights(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/insights", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "brandId parameter required", decodeBody[apperrors.Envelope](t, rec).Message)

	rec = ts.do(t, http.MethodGet, "/api/insights?brandId="+eliquisID+"&validated=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/insights?brandId="+eliquisID+"&validated=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decodeBody[[]models.Insight](t, rec)
	require.NotEmpty(t, pending)
	for _, in := range pending {
		assert.False(t, in.HumanValidated)
	}

	target := pending[0].ID
	rec = ts.do(t, http.MethodPatch, "/api/insights/"+target+"/validate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Insight models.Insight `json:"insight"`
		Message string         `json:"message"`
	}](t, rec)
	assert.Equal(t, "Insight validated successfully", body.Message)
	assert.True(t, body.Insight.HumanValidated)

	rec = ts.do(t, http.MethodGet, "/api/insights?brandId="+eliquisID+"&validated=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Insight](t, rec), len(pending)-1)

	rec = ts.do(t, http.MethodPatch, "/api/insights/"+unknownID+"/validate", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==========================
// News Tests
// ==========================

func TestServer_BrandNews(t *testing.T) {
	ts := createTestServer(t)
	ctx := context.Background()

	saved, err := ts.store.UpsertNewsArticle(ctx, models.NewsArticle{
		Title:         "Eliquis label expansion",
		Content:       "Regulators approved a new indication for Eliquis.",
		URL:           "https://www.fiercepharma.com/eliquis-label",
		Source:        "FiercePharma",
		PublishedAt:   "2025-02-20",
		ArticleType:   models.ArticleBrandSpecific,
		BaseRelevance: 1.0,
	})
	require.NoError(t, err)
	require.NoError(t, ts.store.LinkBrandNews(ctx, models.BrandNewsLink{
		BrandID:         eliquisID,
		NewsArticleID:   saved.ID,
		RelevanceScore:  1.0,
		RelevanceReason: string(models.ArticleBrandSpecific),
		Priority:        models.PriorityHigh,
	}))

	rec := ts.do(t, http.MethodGet, "/api/news/"+eliquisID+"?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[service.BrandNewsResponse](t, rec)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, 1, resp.HighPriorityCount)

	rec = ts.do(t, http.MethodGet, "/api/news/"+eliquisID+"/search?q=label", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	search := decodeBody[map[string]interface{}](t, rec)
	assert.EqualValues(t, 1, search["total"])

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "bad limit", path: "/api/news/" + eliquisID + "?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "zero limit", path: "/api/news/" + eliquisID + "?limit=0", wantStatus: http.StatusBadRequest},
		{name: "bad refresh", path: "/api/news/" + eliquisID + "?refresh=soon", wantStatus: http.StatusBadRequest},
		{name: "bad size", path: "/api/news/" + eliquisID + "/search?q=x&size=-2", wantStatus: http.StatusBadRequest},
		{name: "unknown brand", path: "/api/news/" + unknownID, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

// ==========================
// Direct Agent Route Tests
// ==========================

func TestServer_AgentRoutes(t *testing.T) {
	ts := createTestServer(t)

	brand := map[string]interface{}{
		"name":            "Eliquis",
		"company":         "BMS/Pfizer",
		"therapeuticArea": "Cardiovascular - Anticoagulant",
	}

	tests := []struct {
		name       string
		agent      string
		body       interface{}
		wantStatus int
	}{
		{name: "analyzer", agent: "analyzer", body: map[string]interface{}{"brand": brand, "competitors": []interface{}{}}, wantStatus: http.StatusOK},
		{name: "strategy", agent: "strategy", body: map[string]interface{}{"brand": brand}, wantStatus: http.StatusOK},
		{name: "brand plan", agent: "brand-plan", body: map[string]interface{}{"brand": brand, "budget": 1000000}, wantStatus: http.StatusOK},
		{name: "scenario", agent: "scenario", body: map[string]interface{}{"brand": brand, "scenarioQuestion": "What if a generic launches?"}, wantStatus: http.StatusOK},
		{name: "validator", agent: "validator", body: map[string]interface{}{"contentType": "tactic", "content": "Expand DTC."}, wantStatus: http.StatusOK},
		{name: "insight discovery", agent: "insight-discovery", body: map[string]interface{}{"brand": brand}, wantStatus: http.StatusOK},
		{name: "missing brand name", agent: "analyzer", body: map[string]interface{}{"brand": map[string]string{"company": "X"}}, wantStatus: http.StatusBadRequest},
		{name: "scenario without question", agent: "scenario", body: map[string]interface{}{"brand": brand}, wantStatus: http.StatusBadRequest},
		{name: "unknown agent", agent: "poet", body: map[string]interface{}{}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/agents/"+tt.agent, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestServer_AgentsHealth(t *testing.T) {
	ts := createTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/agents/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, true, body["mockMode"])
	assert.Equal(t, true, body["offline"])
	assert.Equal(t, "none", body["provider"])
	assert.Len(t, body["agents"], 6)
}
