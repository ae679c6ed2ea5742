package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SellerStatusActive    = "active"
	SellerStatusSuspended = "suspended"
)

const (
	ListingStatusActive    = "active"
	ListingStatusPending   = "pending"
	ListingStatusSuspended = "suspended"
)

const (
	PayoutProviderStripe = "stripe"
	PayoutProviderPaypal = "paypal"
)

// Payout cadences for marketplace settings
const (
	PayoutFrequencyDaily   = "daily"
	PayoutFrequencyWeekly  = "weekly"
	PayoutFrequencyMonthly = "monthly"
)

func ValidPayoutFrequency(f string) bool {
	return f == PayoutFrequencyDaily || f == PayoutFrequencyWeekly || f == PayoutFrequencyMonthly
}

func ValidPayoutProvider(p string) bool {
	return p == PayoutProviderStripe || p == PayoutProviderPaypal
}

type Seller struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	Status              string    `json:"status"`
	StripeAccountID     *string   `json:"stripe_account_id,omitempty"`
	PaypalEmail         *string   `json:"paypal_email,omitempty"`
	PendingBalanceCents int64     `json:"pending_balance_cents"`
	TotalRevenueCents   int64     `json:"total_revenue_cents"`
	TotalPaidCents      int64     `json:"total_paid_cents"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Listing struct {
	ID         uuid.UUID `json:"id"`
	SellerID   uuid.UUID `json:"seller_id"`
	PromptID   uuid.UUID `json:"prompt_id"`
	PriceCents int64     `json:"price_cents"`
	Status     string    `json:"status"`
	Featured   bool      `json:"featured"`
	SalesCount int       `json:"sales_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MarketplaceSettings is a single-row configuration record (id is always 1).
type MarketplaceSettings struct {
	CommissionRateBps   int       `json:"commission_rate_bps"`
	PayoutFrequency     string    `json:"payout_frequency"`
	ProcessingFeeBps    int       `json:"processing_fee_bps"`
	MinPayoutCents      int64     `json:"min_payout_cents"`
	StripeEnabled       bool      `json:"stripe_enabled"`
	PaypalEnabled       bool      `json:"paypal_enabled"`
	AutoApproveListings bool      `json:"auto_approve_listings"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Payout struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Provider    string    `json:"provider"`
	AmountCents int64     `json:"amount_cents"`
	FeeCents    int64     `json:"fee_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
