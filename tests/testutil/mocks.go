package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/promptatrium/atrium-api/internal/oauth"
	"github.com/promptatrium/atrium-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, email, globalRole string) (*services.TokenPair, error) {
	args := m.Called(userID, email, globalRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTokenService) CleanupExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPromptService mocks the PromptService
type MockPromptService struct {
	mock.Mock
}

func (m *MockPromptService) Create(ctx context.Context, ownerID uuid.UUID, p *models.Prompt) (*models.Prompt, error) {
	args := m.Called(ctx, ownerID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prompt), args.Error(1)
}

func (m *MockPromptService) GetByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prompt), args.Error(1)
}

func (m *MockPromptService) GetByOwner(ctx context.Context, ownerID uuid.UUID, filter services.PromptFilter) ([]models.Prompt, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]models.Prompt), args.Error(1)
}

func (m *MockPromptService) GetPublic(ctx context.Context, limit int) ([]models.Prompt, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Prompt), args.Error(1)
}

func (m *MockPromptService) Update(ctx context.Context, id, ownerID uuid.UUID, upd services.PromptUpdate) (*models.Prompt, error) {
	args := m.Called(ctx, id, ownerID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prompt), args.Error(1)
}

func (m *MockPromptService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockPromptService) Bulk(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, operation string, upd *services.PromptUpdate) (*services.BulkResult, error) {
	args := m.Called(ctx, ownerID, ids, operation, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.BulkResult), args.Error(1)
}

func (m *MockPromptService) Export(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, format string) ([]byte, error) {
	args := m.Called(ctx, ownerID, ids, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockCollectionService mocks the CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) Create(ctx context.Context, ownerID uuid.UUID, name, description, visibility string) (*models.Collection, error) {
	args := m.Called(ctx, ownerID, name, description, visibility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCollectionService) Update(ctx context.Context, id, ownerID uuid.UUID, name, description *string) (*models.Collection, error) {
	args := m.Called(ctx, id, ownerID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) SetVisibility(ctx context.Context, id, ownerID uuid.UUID, visibility string, cascade bool) (*models.Collection, error) {
	args := m.Called(ctx, id, ownerID, visibility, cascade)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) Delete(ctx context.Context, id, ownerID uuid.UUID, mode string) error {
	args := m.Called(ctx, id, ownerID, mode)
	return args.Error(0)
}

// MockCommunityService mocks the CommunityService
type MockCommunityService struct {
	mock.Mock
}

func (m *MockCommunityService) Create(ctx context.Context, name, description string, ownerID uuid.UUID) (*models.Community, error) {
	args := m.Called(ctx, name, description, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunityService) CreateSub(ctx context.Context, parentID uuid.UUID, name, description string, ownerID uuid.UUID) (*models.Community, error) {
	args := m.Called(ctx, parentID, name, description, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunityService) ListRoots(ctx context.Context) ([]models.Community, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Community), args.Error(1)
}

func (m *MockCommunityService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Community, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]models.Community), args.Error(1)
}

func (m *MockCommunityService) Update(ctx context.Context, id uuid.UUID, name, description *string) (*models.Community, error) {
	args := m.Called(ctx, id, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunityService) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommunityService) Join(ctx context.Context, communityID, userID uuid.UUID) error {
	args := m.Called(ctx, communityID, userID)
	return args.Error(0)
}

func (m *MockCommunityService) Leave(ctx context.Context, communityID, userID uuid.UUID) error {
	args := m.Called(ctx, communityID, userID)
	return args.Error(0)
}

func (m *MockCommunityService) GetMembers(ctx context.Context, communityID uuid.UUID) ([]models.CommunityMember, error) {
	args := m.Called(ctx, communityID)
	return args.Get(0).([]models.CommunityMember), args.Error(1)
}

func (m *MockCommunityService) IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, communityID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommunityService) CanModify(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, communityID, userID)
	return args.Bool(0), args.Error(1)
}

// MockMigrationService mocks the CommunityMigrationService
type MockMigrationService struct {
	mock.Mock
}

func (m *MockMigrationService) Preview(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockMigrationService) Run(ctx context.Context) (*services.MigrationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MigrationReport), args.Error(1)
}

// MockMarketplaceService mocks the MarketplaceService
type MockMarketplaceService struct {
	mock.Mock
}

func (m *MockMarketplaceService) BecomeSeller(ctx context.Context, userID uuid.UUID, stripeAccountID, paypalEmail *string) (*models.Seller, error) {
	args := m.Called(ctx, userID, stripeAccountID, paypalEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Seller), args.Error(1)
}

func (m *MockMarketplaceService) GetSellerByUser(ctx context.Context, userID uuid.UUID) (*models.Seller, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Seller), args.Error(1)
}

func (m *MockMarketplaceService) ListSellers(ctx context.Context) ([]models.Seller, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Seller), args.Error(1)
}

func (m *MockMarketplaceService) SetSellerStatus(ctx context.Context, id uuid.UUID, status string) (*models.Seller, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Seller), args.Error(1)
}

func (m *MockMarketplaceService) CreateListing(ctx context.Context, sellerID, promptID uuid.UUID, priceCents int64) (*models.Listing, error) {
	args := m.Called(ctx, sellerID, promptID, priceCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockMarketplaceService) GetListingByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockMarketplaceService) ListListings(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockMarketplaceService) SetListingFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Listing, error) {
	args := m.Called(ctx, id, featured)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockMarketplaceService) SetListingStatus(ctx context.Context, id uuid.UUID, status string) (*models.Listing, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockMarketplaceService) GetSettings(ctx context.Context) (*models.MarketplaceSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketplaceSettings), args.Error(1)
}

func (m *MockMarketplaceService) UpdateSettings(ctx context.Context, settings *models.MarketplaceSettings) (*models.MarketplaceSettings, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketplaceSettings), args.Error(1)
}

func (m *MockMarketplaceService) ProcessPayouts(ctx context.Context, provider string) (*services.PayoutSummary, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PayoutSummary), args.Error(1)
}

// MockAnalyticsService mocks the AnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Overview(ctx context.Context) (*services.OverviewStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OverviewStats), args.Error(1)
}

func (m *MockAnalyticsService) PromptActivity(ctx context.Context, days int) ([]services.DailyCount, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]services.DailyCount), args.Error(1)
}

// MockKeywordService mocks the KeywordService
type MockKeywordService struct {
	mock.Mock
}

func (m *MockKeywordService) Search(ctx context.Context, query string, limit int) ([]models.Keyword, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]models.Keyword), args.Error(1)
}

func (m *MockKeywordService) GetByID(ctx context.Context, id uuid.UUID) (*models.Keyword, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Keyword), args.Error(1)
}

func (m *MockKeywordService) Create(ctx context.Context, term, category, description string, weight int) (*models.Keyword, error) {
	args := m.Called(ctx, term, category, description, weight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Keyword), args.Error(1)
}

func (m *MockKeywordService) Update(ctx context.Context, id uuid.UUID, term, category, description *string, weight *int) (*models.Keyword, error) {
	args := m.Called(ctx, id, term, category, description, weight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Keyword), args.Error(1)
}

func (m *MockKeywordService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockKeywordService) Generate(ctx context.Context, subject, style string, keywordIDs, negativeIDs []uuid.UUID) (string, string, error) {
	args := m.Called(ctx, subject, style, keywordIDs, negativeIDs)
	return args.String(0), args.String(1), args.Error(2)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
