package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rocketbird/rocketbird-api/internal/config"
	"github.com/rocketbird/rocketbird-api/internal/domain/admin"
	"github.com/rocketbird/rocketbird-api/internal/domain/dashboard"
	"github.com/rocketbird/rocketbird-api/internal/domain/level"
	"github.com/rocketbird/rocketbird-api/internal/pkg/database"
	"github.com/rocketbird/rocketbird-api/internal/pkg/jwt"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                      "0",
		Env:                       "test",
		RequestTimeout:            5 * time.Second,
		StoreDriver:               config.StoreDriverMemory,
		JWTSecret:                 "test-secret",
		JWTAccessTTL:              time.Hour,
		AllowedOrigins:            []string{"http://localhost:3000"},
		DashboardTimezone:         "UTC",
		DashboardActiveDays:       7,
		DashboardDefaultDays:      7,
		DashboardDefaultRankLimit: 10,
		DashboardMaxConcurrency:   4,
	}
}

func testRouter(t *testing.T) (http.Handler, *jwt.Service) {
	t.Helper()
	return testRouterWith(t, testConfig())
}

func testRouterWith(t *testing.T, cfg *config.Config) (http.Handler, *jwt.Service) {
	t.Helper()

	store, closeStore, err := database.OpenStore(context.Background(), cfg.Store())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(closeStore)

	svc := dashboard.NewService(store, level.NewRepository(store), nil, dashboard.Config{Location: time.UTC})
	tokens := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	return newRouter(cfg, dashboard.NewHandler(svc, dashboard.Defaults{}), tokens), tokens
}

func TestHealth(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestDashboardRequiresAdmin(t *testing.T) {
	router, tokens := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, err := tokens.GenerateAccessToken(uuid.New(), "support@example.com", string(admin.RoleSupport))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for support role, got %d", rec.Code)
	}
}

func TestDashboardServesAuthorizedAdmin(t *testing.T) {
	router, tokens := testRouter(t)

	token, err := tokens.GenerateAccessToken(uuid.New(), "ops@example.com", string(admin.RoleAdmin))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, path := range []string{
		"/api/admin/dashboard/stats",
		"/api/admin/dashboard/member-growth?days=3",
		"/api/admin/dashboard/points-flow",
		"/api/admin/dashboard/level-distribution",
		"/api/admin/dashboard/checkin-ranking?limit=5",
	} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
			}
			var body struct {
				Success bool `json:"success"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || !body.Success {
				t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
			}
		})
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProfilerOnlyInDevelopment(t *testing.T) {
	tests := []struct {
		env        string
		wantStatus int
	}{
		{env: "development", wantStatus: http.StatusOK},
		{env: "production", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := testConfig()
			cfg.Env = tt.env
			router, _ := testRouterWith(t, cfg)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
