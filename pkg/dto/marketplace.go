package dto

import (
	"time"

	"github.com/google/uuid"
)

type BecomeSellerRequest struct {
	StripeAccountID *string `json:"stripe_account_id,omitempty"`
	PaypalEmail     *string `json:"paypal_email,omitempty"`
}

type SellerResponse struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	Status              string    `json:"status"`
	StripeConnected     bool      `json:"stripe_connected"`
	PaypalConnected     bool      `json:"paypal_connected"`
	PendingBalanceCents int64     `json:"pending_balance_cents"`
	TotalRevenueCents   int64     `json:"total_revenue_cents"`
	TotalPaidCents      int64     `json:"total_paid_cents"`
	CreatedAt           time.Time `json:"created_at"`
}

type SetSellerStatusRequest struct {
	Status string `json:"status"`
}

type CreateListingRequest struct {
	PromptID   uuid.UUID `json:"prompt_id"`
	PriceCents int64     `json:"price_cents"`
}

type UpdateListingRequest struct {
	Featured *bool   `json:"featured,omitempty"`
	Status   *string `json:"status,omitempty"`
}

type ListingResponse struct {
	ID         uuid.UUID `json:"id"`
	SellerID   uuid.UUID `json:"seller_id"`
	PromptID   uuid.UUID `json:"prompt_id"`
	PriceCents int64     `json:"price_cents"`
	Status     string    `json:"status"`
	Featured   bool      `json:"featured"`
	SalesCount int       `json:"sales_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type MarketplaceSettingsRequest struct {
	CommissionRateBps   int    `json:"commission_rate_bps"`
	PayoutFrequency     string `json:"payout_frequency"`
	ProcessingFeeBps    int    `json:"processing_fee_bps"`
	MinPayoutCents      int64  `json:"min_payout_cents"`
	StripeEnabled       bool   `json:"stripe_enabled"`
	PaypalEnabled       bool   `json:"paypal_enabled"`
	AutoApproveListings bool   `json:"auto_approve_listings"`
}

type ProcessPayoutsRequest struct {
	Provider string `json:"provider"`
}
