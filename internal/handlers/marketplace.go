package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/promptatrium/atrium-api/internal/middleware"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/promptatrium/atrium-api/internal/services"
	"github.com/promptatrium/atrium-api/pkg/dto"
)

type MarketplaceHandler struct {
	marketplaceService MarketplaceServiceInterface
	promptService      PromptServiceInterface
}

func NewMarketplaceHandler(marketplaceService MarketplaceServiceInterface, promptService PromptServiceInterface) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceService: marketplaceService,
		promptService:      promptService,
	}
}

// --- seller self-service ---

func (h *MarketplaceHandler) BecomeSeller(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.BecomeSellerRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	seller, err := h.marketplaceService.BecomeSeller(context.Background(), userID, req.StripeAccountID, req.PaypalEmail)
	if err != nil {
		c.InternalServerError("failed to register seller")
		return
	}

	_ = c.JSON(201, toSellerResponse(seller))
}

func (h *MarketplaceHandler) GetMySeller(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	seller, err := h.marketplaceService.GetSellerByUser(context.Background(), userID)
	if err != nil {
		c.NotFound("seller not found")
		return
	}

	_ = c.JSON(200, toSellerResponse(seller))
}

func (h *MarketplaceHandler) CreateListing(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateListingRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := context.Background()

	seller, err := h.marketplaceService.GetSellerByUser(ctx, userID)
	if err != nil {
		c.BadRequest("not a seller")
		return
	}

	prompt, err := h.promptService.GetByID(ctx, req.PromptID)
	if err != nil || prompt.OwnerID != userID {
		c.NotFound("prompt not found")
		return
	}

	listing, err := h.marketplaceService.CreateListing(ctx, seller.ID, req.PromptID, req.PriceCents)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPrice) {
			c.BadRequest("price must be positive")
			return
		}
		if errors.Is(err, services.ErrSellerSuspended) {
			c.Forbidden("seller is suspended")
			return
		}
		if errors.Is(err, services.ErrAlreadyListed) {
			c.BadRequest("prompt is already listed")
			return
		}
		c.InternalServerError("failed to create listing")
		return
	}

	_ = c.JSON(201, toListingResponse(listing))
}

// --- admin surface ---

func (h *MarketplaceHandler) GetSettings(c *drift.Context) {
	settings, err := h.marketplaceService.GetSettings(context.Background())
	if err != nil {
		c.InternalServerError("failed to load settings")
		return
	}

	_ = c.JSON(200, settings)
}

func (h *MarketplaceHandler) UpdateSettings(c *drift.Context) {
	var req dto.MarketplaceSettingsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if !models.ValidPayoutFrequency(req.PayoutFrequency) {
		c.BadRequest("invalid payout frequency")
		return
	}

	settings, err := h.marketplaceService.UpdateSettings(context.Background(), &models.MarketplaceSettings{
		CommissionRateBps:   req.CommissionRateBps,
		PayoutFrequency:     req.PayoutFrequency,
		ProcessingFeeBps:    req.ProcessingFeeBps,
		MinPayoutCents:      req.MinPayoutCents,
		StripeEnabled:       req.StripeEnabled,
		PaypalEnabled:       req.PaypalEnabled,
		AutoApproveListings: req.AutoApproveListings,
	})
	if err != nil {
		c.BadRequest(err.Error())
		return
	}

	_ = c.JSON(200, settings)
}

func (h *MarketplaceHandler) ListSellers(c *drift.Context) {
	sellers, err := h.marketplaceService.ListSellers(context.Background())
	if err != nil {
		c.InternalServerError("failed to get sellers")
		return
	}

	responses := make([]dto.SellerResponse, len(sellers))
	for i := range sellers {
		responses[i] = toSellerResponse(&sellers[i])
	}
	_ = c.JSON(200, responses)
}

func (h *MarketplaceHandler) SetSellerStatus(c *drift.Context) {
	sellerID, err := uuid.Parse(c.Param("sellerId"))
	if err != nil {
		c.BadRequest("invalid seller id")
		return
	}

	var req dto.SetSellerStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	seller, err := h.marketplaceService.SetSellerStatus(context.Background(), sellerID, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			c.BadRequest("invalid status")
			return
		}
		c.NotFound("seller not found")
		return
	}

	_ = c.JSON(200, toSellerResponse(seller))
}

func (h *MarketplaceHandler) ListListings(c *drift.Context) {
	listings, err := h.marketplaceService.ListListings(context.Background())
	if err != nil {
		c.InternalServerError("failed to get listings")
		return
	}

	responses := make([]dto.ListingResponse, len(listings))
	for i := range listings {
		responses[i] = toListingResponse(&listings[i])
	}
	_ = c.JSON(200, responses)
}

// UpdateListing toggles the featured flag and/or moderation status. Both are
// idempotent point mutations.
func (h *MarketplaceHandler) UpdateListing(c *drift.Context) {
	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		c.BadRequest("invalid listing id")
		return
	}

	var req dto.UpdateListingRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Featured == nil && req.Status == nil {
		c.BadRequest("no fields to update")
		return
	}

	ctx := context.Background()

	listing, err := h.marketplaceService.GetListingByID(ctx, listingID)
	if err != nil {
		c.NotFound("listing not found")
		return
	}

	if req.Featured != nil {
		listing, err = h.marketplaceService.SetListingFeatured(ctx, listingID, *req.Featured)
		if err != nil {
			c.NotFound("listing not found")
			return
		}
	}

	if req.Status != nil {
		listing, err = h.marketplaceService.SetListingStatus(ctx, listingID, *req.Status)
		if err != nil {
			if errors.Is(err, services.ErrInvalidStatus) {
				c.BadRequest("invalid status")
				return
			}
			c.NotFound("listing not found")
			return
		}
	}

	_ = c.JSON(200, toListingResponse(listing))
}

func (h *MarketplaceHandler) ProcessPayouts(c *drift.Context) {
	var req dto.ProcessPayoutsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	summary, err := h.marketplaceService.ProcessPayouts(context.Background(), req.Provider)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProvider) {
			c.BadRequest("unsupported payout provider")
			return
		}
		if errors.Is(err, services.ErrProviderDisabled) {
			c.BadRequest("payout provider is disabled")
			return
		}
		c.InternalServerError("failed to process payouts")
		return
	}

	_ = c.JSON(200, summary)
}

func toSellerResponse(s *models.Seller) dto.SellerResponse {
	return dto.SellerResponse{
		ID:                  s.ID,
		UserID:              s.UserID,
		Status:              s.Status,
		StripeConnected:     s.StripeAccountID != nil,
		PaypalConnected:     s.PaypalEmail != nil,
		PendingBalanceCents: s.PendingBalanceCents,
		TotalRevenueCents:   s.TotalRevenueCents,
		TotalPaidCents:      s.TotalPaidCents,
		CreatedAt:           s.CreatedAt,
	}
}

func toListingResponse(l *models.Listing) dto.ListingResponse {
	return dto.ListingResponse{
		ID:         l.ID,
		SellerID:   l.SellerID,
		PromptID:   l.PromptID,
		PriceCents: l.PriceCents,
		Status:     l.Status,
		Featured:   l.Featured,
		SalesCount: l.SalesCount,
		CreatedAt:  l.CreatedAt,
	}
}
