package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/promptatrium/atrium-api/internal/middleware"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/promptatrium/atrium-api/internal/services"
	"github.com/promptatrium/atrium-api/pkg/dto"
	"github.com/promptatrium/atrium-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupMarketplaceTest(t *testing.T) (*testutil.MockMarketplaceService, *testutil.MockPromptService, *MarketplaceHandler, *services.JWTService) {
	t.Helper()
	mockMarketplaceService := new(testutil.MockMarketplaceService)
	mockPromptService := new(testutil.MockPromptService)
	handler := NewMarketplaceHandler(mockMarketplaceService, mockPromptService)
	return mockMarketplaceService, mockPromptService, handler, newTestJWTService()
}

func TestMarketplaceHandler_BecomeSeller_Success(t *testing.T) {
	mockMarketplaceService, _, handler, jwtSvc := setupMarketplaceTest(t)

	userID := uuid.New()
	sellerID := uuid.New()
	stripeAccount := "acct_123"

	mockMarketplaceService.On("BecomeSeller", mock.Anything, userID, &stripeAccount, (*string)(nil)).
		Return(&models.Seller{
			ID:              sellerID,
			UserID:          userID,
			Status:          models.SellerStatusActive,
			StripeAccountID: &stripeAccount,
		}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/sellers", handler.BecomeSeller)

	body := dto.BecomeSellerRequest{StripeAccountID: &stripeAccount}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/sellers", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.SellerResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, sellerID, response.ID)
	assert.True(t, response.StripeConnected)
	assert.False(t, response.PaypalConnected)

	mockMarketplaceService.AssertExpectations(t)
}

func TestMarketplaceHandler_CreateListing_Success(t *testing.T) {
	mockMarketplaceService, mockPromptService, handler, jwtSvc := setupMarketplaceTest(t)

	userID := uuid.New()
	sellerID := uuid.New()
	promptID := uuid.New()
	listingID := uuid.New()

	mockMarketplaceService.On("GetSellerByUser", mock.Anything, userID).Return(&models.Seller{
		ID:     sellerID,
		UserID: userID,
		Status: models.SellerStatusActive,
	}, nil)
	mockPromptService.On("GetByID", mock.Anything, promptID).Return(&models.Prompt{
		ID:      promptID,
		OwnerID: userID,
		Title:   "For sale",
	}, nil)
	mockMarketplaceService.On("CreateListing", mock.Anything, sellerID, promptID, int64(1999)).
		Return(&models.Listing{
			ID:         listingID,
			SellerID:   sellerID,
			PromptID:   promptID,
			PriceCents: 1999,
			Status:     models.ListingStatusActive,
		}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/listings", handler.CreateListing)

	body := dto.CreateListingRequest{PromptID: promptID, PriceCents: 1999}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.ListingResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, listingID, response.ID)
	assert.Equal(t, int64(1999), response.PriceCents)

	mockMarketplaceService.AssertExpectations(t)
	mockPromptService.AssertExpectations(t)
}

func TestMarketplaceHandler_CreateListing_NotPromptOwner(t *testing.T) {
	mockMarketplaceService, mockPromptService, handler, jwtSvc := setupMarketplaceTest(t)

	userID := uuid.New()
	otherUserID := uuid.New()
	sellerID := uuid.New()
	promptID := uuid.New()

	mockMarketplaceService.On("GetSellerByUser", mock.Anything, userID).Return(&models.Seller{
		ID:     sellerID,
		UserID: userID,
		Status: models.SellerStatusActive,
	}, nil)
	mockPromptService.On("GetByID", mock.Anything, promptID).Return(&models.Prompt{
		ID:      promptID,
		OwnerID: otherUserID,
	}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/listings", handler.CreateListing)

	body := dto.CreateListingRequest{PromptID: promptID, PriceCents: 1999}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "prompt not found")

	mockMarketplaceService.AssertExpectations(t)
	mockPromptService.AssertExpectations(t)
}

func TestMarketplaceHandler_CreateListing_SuspendedSeller(t *testing.T) {
	mockMarketplaceService, mockPromptService, handler, jwtSvc := setupMarketplaceTest(t)

	userID := uuid.New()
	sellerID := uuid.New()
	promptID := uuid.New()

	mockMarketplaceService.On("GetSellerByUser", mock.Anything, userID).Return(&models.Seller{
		ID:     sellerID,
		UserID: userID,
		Status: models.SellerStatusSuspended,
	}, nil)
	mockPromptService.On("GetByID", mock.Anything, promptID).Return(&models.Prompt{
		ID:      promptID,
		OwnerID: userID,
	}, nil)
	mockMarketplaceService.On("CreateListing", mock.Anything, sellerID, promptID, int64(500)).
		Return(nil, services.ErrSellerSuspended)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/listings", handler.CreateListing)

	body := dto.CreateListingRequest{PromptID: promptID, PriceCents: 500}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "seller is suspended")

	mockMarketplaceService.AssertExpectations(t)
}

func TestMarketplaceHandler_GetSettings_RequiresAdmin(t *testing.T) {
	mockMarketplaceService, _, handler, jwtSvc := setupMarketplaceTest(t)

	userID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Get("/admin/marketplace/settings", handler.GetSettings)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/admin/marketplace/settings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin access required")

	mockMarketplaceService.AssertNotCalled(t, "GetSettings")
}

func TestMarketplaceHandler_GetSettings_AdminAllowed(t *testing.T) {
	mockMarketplaceService, _, handler, jwtSvc := setupMarketplaceTest(t)

	adminID := uuid.New()

	mockMarketplaceService.On("GetSettings", mock.Anything).Return(&models.MarketplaceSettings{
		CommissionRateBps: 1500,
		PayoutFrequency:   models.PayoutFrequencyWeekly,
		MinPayoutCents:    1000,
		StripeEnabled:     true,
	}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Get("/admin/marketplace/settings", handler.GetSettings)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodGet, "/admin/marketplace/settings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.MarketplaceSettings
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, 1500, response.CommissionRateBps)

	mockMarketplaceService.AssertExpectations(t)
}

func TestMarketplaceHandler_UpdateSettings_InvalidFrequency(t *testing.T) {
	mockMarketplaceService, _, handler, jwtSvc := setupMarketplaceTest(t)

	adminID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Patch("/admin/marketplace/settings", handler.UpdateSettings)

	body := dto.MarketplaceSettingsRequest{
		CommissionRateBps: 1500,
		PayoutFrequency:   "hourly",
	}
	jsonBody, _ := json.Marshal(body)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodPatch, "/admin/marketplace/settings", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid payout frequency")

	mockMarketplaceService.AssertNotCalled(t, "UpdateSettings")
}

func TestMarketplaceHandler_SetSellerStatus_Invalid(t *testing.T) {
	mockMarketplaceService, _, handler, jwtSvc := setupMarketplaceTest(t)

	adminID := uuid.New()
	sellerID := uuid.New()

	mockMarketplaceService.On("SetSellerStatus", mock.Anything, sellerID, "banned").
		Return(nil, services.ErrInvalidStatus)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Patch("/admin/marketplace/sellers/:sellerId/status", handler.SetSellerStatus)

	body := dto.SetSellerStatusRequest{Status: "banned"}
	jsonBody, _ := json.Marshal(body)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodPatch, "/admin/marketplace/sellers/"+sellerID.String()+"/status", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid status")

	mockMarketplaceService.AssertExpectations(t)
}

func TestMarketplaceHandler_UpdateListing_FeatureToggle(t *testing.T) {
	mockMarketplaceService, _, handler, jwtSvc := setupMarketplaceTest(t)

	adminID := uuid.New()
	listingID := uuid.New()
	featured := true

	mockMarketplaceService.On("GetListingByID", mock.Anything, listingID).Return(&models.Listing{
		ID:     listingID,
		Status: models.ListingStatusActive,
	}, nil)
	mockMarketplaceService.On("SetListingFeatured", mock.Anything, listingID, true).
		Return(&models.Listing{
			ID:       listingID,
			Status:   models.ListingStatusActive,
			Featured: true,
		}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Patch("/admin/marketplace/listings/:listingId", handler.UpdateListing)

	body := dto.UpdateListingRequest{Featured: &featured}
	jsonBody, _ := json.Marshal(body)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodPatch, "/admin/marketplace/listings/"+listingID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ListingResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.True(t, response.Featured)

	mockMarketplaceService.AssertExpectations(t)
}

func TestMarketplaceHandler_UpdateListing_NoFields(t *testing.T) {
	mockMarketplaceService, _, handler, jwtSvc := setupMarketplaceTest(t)

	adminID := uuid.New()
	listingID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Patch("/admin/marketplace/listings/:listingId", handler.UpdateListing)

	body := dto.UpdateListingRequest{}
	jsonBody, _ := json.Marshal(body)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodPatch, "/admin/marketplace/listings/"+listingID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no fields to update")

	mockMarketplaceService.AssertNotCalled(t, "GetListingByID")
}

func TestMarketplaceHandler_ProcessPayouts_Success(t *testing.T) {
	mockMarketplaceService, _, handler, jwtSvc := setupMarketplaceTest(t)

	adminID := uuid.New()

	mockMarketplaceService.On("ProcessPayouts", mock.Anything, "stripe").Return(&services.PayoutSummary{
		Provider:         "stripe",
		SellersPaid:      2,
		TotalAmountCents: 13650,
		TotalFeeCents:    350,
	}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Post("/admin/marketplace/payouts", handler.ProcessPayouts)

	body := dto.ProcessPayoutsRequest{Provider: "stripe"}
	jsonBody, _ := json.Marshal(body)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodPost, "/admin/marketplace/payouts", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var summary services.PayoutSummary
	err := json.Unmarshal(rec.Body.Bytes(), &summary)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SellersPaid)
	assert.Equal(t, int64(13650), summary.TotalAmountCents)

	mockMarketplaceService.AssertExpectations(t)
}

func TestMarketplaceHandler_ProcessPayouts_ProviderDisabled(t *testing.T) {
	mockMarketplaceService, _, handler, jwtSvc := setupMarketplaceTest(t)

	adminID := uuid.New()

	mockMarketplaceService.On("ProcessPayouts", mock.Anything, "paypal").
		Return(nil, services.ErrProviderDisabled)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Use(middleware.RequireAdmin())
	app.Post("/admin/marketplace/payouts", handler.ProcessPayouts)

	body := dto.ProcessPayoutsRequest{Provider: "paypal"}
	jsonBody, _ := json.Marshal(body)

	token := generateAdminToken(t, jwtSvc, adminID, "admin@example.com")
	req := httptest.NewRequest(http.MethodPost, "/admin/marketplace/payouts", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "payout provider is disabled")

	mockMarketplaceService.AssertExpectations(t)
}
