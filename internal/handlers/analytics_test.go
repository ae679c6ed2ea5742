package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/promptatrium/atrium-api/internal/middleware"
	"github.com/promptatrium/atrium-api/internal/services"
	"github.com/promptatrium/atrium-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAnalyticsTest(t *testing.T) (*testutil.MockAnalyticsService, *testutil.MockMigrationService, *AnalyticsHandler, *services.JWTService) {
	t.Helper()
	mockAnalyticsService := new(testutil.MockAnalyticsService)
	mockMigrationService := new(testutil.MockMigrationService)
	handler := NewAnalyticsHandler(mockAnalyticsService, mockMigrationService)
	return mockAnalyticsService, mockMigrationService, handler, newTestJWTService()
}

func TestAnalyticsHandler_Overview_Success(t *testing.T) {
	mockAnalyticsService, _, handler, jwtSvc := setupAnalyticsTest(t)

	adminID := uuid.New()

	mockAnalyticsService.On("Overview", mock.Anything).Return(&services.OverviewStats{
		Users:   120,
		Prompts: 540,
		PromptsByStatus: map[string]int{
			"draft":     200,
			"published": 300,
			"archived":  40,
		},
		Collections:       34,
		Communities:       8,
		Sellers:           12,
		Listings:          40,
		TotalRevenueCents: 250000,
	}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Get("/admin/analytics/overview", handler.Overview)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodGet, "/admin/analytics/overview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var stats services.OverviewStats
	err := json.Unmarshal(rec.Body.Bytes(), &stats)
	require.NoError(t, err)
	assert.Equal(t, 120, stats.Users)
	assert.Equal(t, 300, stats.PromptsByStatus["published"])

	mockAnalyticsService.AssertExpectations(t)
}

func TestAnalyticsHandler_Overview_RequiresAdmin(t *testing.T) {
	mockAnalyticsService, _, handler, jwtSvc := setupAnalyticsTest(t)

	userID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Get("/admin/analytics/overview", handler.Overview)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/admin/analytics/overview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	mockAnalyticsService.AssertNotCalled(t, "Overview")
}

func TestAnalyticsHandler_PromptActivity_DaysParam(t *testing.T) {
	mockAnalyticsService, _, handler, jwtSvc := setupAnalyticsTest(t)

	adminID := uuid.New()

	mockAnalyticsService.On("PromptActivity", mock.Anything, 7).Return([]services.DailyCount{
		{Date: "2026-08-29", Count: 4},
		{Date: "2026-08-30", Count: 9},
	}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Get("/admin/analytics/activity", handler.PromptActivity)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodGet, "/admin/analytics/activity?days=7", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var activity []services.DailyCount
	err := json.Unmarshal(rec.Body.Bytes(), &activity)
	require.NoError(t, err)
	assert.Len(t, activity, 2)

	mockAnalyticsService.AssertExpectations(t)
}

func TestAnalyticsHandler_PromptActivity_InvalidDaysFallsBack(t *testing.T) {
	mockAnalyticsService, _, handler, jwtSvc := setupAnalyticsTest(t)

	adminID := uuid.New()

	mockAnalyticsService.On("PromptActivity", mock.Anything, 30).Return([]services.DailyCount{}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Get("/admin/analytics/activity", handler.PromptActivity)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodGet, "/admin/analytics/activity?days=9000", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	mockAnalyticsService.AssertExpectations(t)
}

func TestAnalyticsHandler_MigrationPreview_NothingToMigrate(t *testing.T) {
	_, mockMigrationService, handler, jwtSvc := setupAnalyticsTest(t)

	adminID := uuid.New()

	mockMigrationService.On("Preview", mock.Anything).Return(0, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Get("/admin/migration/communities", handler.MigrationPreview)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodGet, "/admin/migration/communities", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]int
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, 0, response["communities_needing_migration"])

	mockMigrationService.AssertExpectations(t)
}

func TestAnalyticsHandler_MigrationRun_ReportsOutcome(t *testing.T) {
	_, mockMigrationService, handler, jwtSvc := setupAnalyticsTest(t)

	adminID := uuid.New()

	mockMigrationService.On("Run", mock.Anything).Return(&services.MigrationReport{
		NeededBefore:   3,
		Migrated:       2,
		Failed:         1,
		Remaining:      1,
		FieldsComplete: false,
		IntegrityOK:    true,
	}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Post("/admin/migration/communities", handler.MigrationRun)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodPost, "/admin/migration/communities", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var report services.MigrationReport
	err := json.Unmarshal(rec.Body.Bytes(), &report)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Migrated)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.FieldsComplete)
	assert.True(t, report.IntegrityOK)

	mockMigrationService.AssertExpectations(t)
}
