package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/promptatrium/atrium-api/internal/oauth"
	"github.com/promptatrium/atrium-api/internal/services"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, globalRole string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// PromptServiceInterface defines the methods used by handlers from PromptService
type PromptServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, p *models.Prompt) (*models.Prompt, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID, filter services.PromptFilter) ([]models.Prompt, error)
	GetPublic(ctx context.Context, limit int) ([]models.Prompt, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, upd services.PromptUpdate) (*models.Prompt, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	Bulk(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, operation string, upd *services.PromptUpdate) (*services.BulkResult, error)
	Export(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, format string) ([]byte, error)
}

// CollectionServiceInterface defines the methods used by handlers from CollectionService
type CollectionServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, name, description, visibility string) (*models.Collection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, name, description *string) (*models.Collection, error)
	SetVisibility(ctx context.Context, id, ownerID uuid.UUID, visibility string, cascade bool) (*models.Collection, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID, mode string) error
}

// CommunityServiceInterface defines the methods used by handlers from CommunityService
type CommunityServiceInterface interface {
	Create(ctx context.Context, name, description string, ownerID uuid.UUID) (*models.Community, error)
	CreateSub(ctx context.Context, parentID uuid.UUID, name, description string, ownerID uuid.UUID) (*models.Community, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error)
	ListRoots(ctx context.Context) ([]models.Community, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Community, error)
	Update(ctx context.Context, id uuid.UUID, name, description *string) (*models.Community, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Join(ctx context.Context, communityID, userID uuid.UUID) error
	Leave(ctx context.Context, communityID, userID uuid.UUID) error
	GetMembers(ctx context.Context, communityID uuid.UUID) ([]models.CommunityMember, error)
	IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	CanModify(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
}

// MigrationServiceInterface defines the methods used by handlers from CommunityMigrationService
type MigrationServiceInterface interface {
	Preview(ctx context.Context) (int, error)
	Run(ctx context.Context) (*services.MigrationReport, error)
}

// MarketplaceServiceInterface defines the methods used by handlers from MarketplaceService
type MarketplaceServiceInterface interface {
	BecomeSeller(ctx context.Context, userID uuid.UUID, stripeAccountID, paypalEmail *string) (*models.Seller, error)
	GetSellerByUser(ctx context.Context, userID uuid.UUID) (*models.Seller, error)
	ListSellers(ctx context.Context) ([]models.Seller, error)
	SetSellerStatus(ctx context.Context, id uuid.UUID, status string) (*models.Seller, error)
	CreateListing(ctx context.Context, sellerID, promptID uuid.UUID, priceCents int64) (*models.Listing, error)
	GetListingByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	ListListings(ctx context.Context) ([]models.Listing, error)
	SetListingFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Listing, error)
	SetListingStatus(ctx context.Context, id uuid.UUID, status string) (*models.Listing, error)
	GetSettings(ctx context.Context) (*models.MarketplaceSettings, error)
	UpdateSettings(ctx context.Context, settings *models.MarketplaceSettings) (*models.MarketplaceSettings, error)
	ProcessPayouts(ctx context.Context, provider string) (*services.PayoutSummary, error)
}

// AnalyticsServiceInterface defines the methods used by handlers from AnalyticsService
type AnalyticsServiceInterface interface {
	Overview(ctx context.Context) (*services.OverviewStats, error)
	PromptActivity(ctx context.Context, days int) ([]services.DailyCount, error)
}

// KeywordServiceInterface defines the methods used by handlers from KeywordService
type KeywordServiceInterface interface {
	Search(ctx context.Context, query string, limit int) ([]models.Keyword, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Keyword, error)
	Create(ctx context.Context, term, category, description string, weight int) (*models.Keyword, error)
	Update(ctx context.Context, id uuid.UUID, term, category, description *string, weight *int) (*models.Keyword, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Generate(ctx context.Context, subject, style string, keywordIDs, negativeIDs []uuid.UUID) (string, string, error)
}
