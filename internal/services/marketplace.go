package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/promptatrium/atrium-api/internal/database"
	"github.com/promptatrium/atrium-api/internal/models"
)

var (
	ErrSellerNotFound   = errors.New("seller not found")
	ErrListingNotFound  = errors.New("listing not found")
	ErrSellerSuspended  = errors.New("seller is suspended")
	ErrAlreadyListed    = errors.New("prompt is already listed")
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrProviderDisabled = errors.New("payout provider is disabled")
	ErrInvalidProvider  = errors.New("unsupported payout provider")
	ErrInvalidStatus    = errors.New("invalid status")
)

const sellerColumns = `id, user_id, status, stripe_account_id, paypal_email, pending_balance_cents, total_revenue_cents, total_paid_cents, created_at, updated_at`
const listingColumns = `id, seller_id, prompt_id, price_cents, status, featured, sales_count, created_at, updated_at`

type MarketplaceService struct {
	db *database.DB
}

func NewMarketplaceService(db *database.DB) *MarketplaceService {
	return &MarketplaceService{db: db}
}

// PayoutSummary reports one payout processing pass for a provider.
type PayoutSummary struct {
	Provider         string `json:"provider"`
	SellersPaid      int    `json:"sellers_paid"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	TotalFeeCents    int64  `json:"total_fee_cents"`
	Skipped          int    `json:"skipped"`
}

// --- sellers ---

// BecomeSeller registers the user as a seller, or returns the existing
// record. Provider identifiers may be filled in later.
func (s *MarketplaceService) BecomeSeller(ctx context.Context, userID uuid.UUID, stripeAccountID, paypalEmail *string) (*models.Seller, error) {
	existing, err := s.GetSellerByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}

	var seller models.Seller
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO sellers (user_id, stripe_account_id, paypal_email)
		VALUES ($1, $2, $3)
		RETURNING `+sellerColumns+`
	`, userID, stripeAccountID, paypalEmail).Scan(scanSeller(&seller)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create seller: %w", err)
	}
	return &seller, nil
}

func (s *MarketplaceService) GetSellerByUser(ctx context.Context, userID uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+sellerColumns+` FROM sellers WHERE user_id = $1
	`, userID).Scan(scanSeller(&seller)...)
	if err != nil {
		return nil, ErrSellerNotFound
	}
	return &seller, nil
}

func (s *MarketplaceService) GetSellerByID(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+sellerColumns+` FROM sellers WHERE id = $1
	`, id).Scan(scanSeller(&seller)...)
	if err != nil {
		return nil, ErrSellerNotFound
	}
	return &seller, nil
}

func (s *MarketplaceService) ListSellers(ctx context.Context) ([]models.Seller, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+sellerColumns+` FROM sellers ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sellers []models.Seller
	for rows.Next() {
		var seller models.Seller
		if err := rows.Scan(scanSeller(&seller)...); err != nil {
			return nil, err
		}
		sellers = append(sellers, seller)
	}
	return sellers, rows.Err()
}

// SetSellerStatus is an idempotent point mutation between active and
// suspended.
func (s *MarketplaceService) SetSellerStatus(ctx context.Context, id uuid.UUID, status string) (*models.Seller, error) {
	if status != models.SellerStatusActive && status != models.SellerStatusSuspended {
		return nil, ErrInvalidStatus
	}

	var seller models.Seller
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE sellers SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+sellerColumns+`
	`, status, id).Scan(scanSeller(&seller)...)
	if err != nil {
		return nil, ErrSellerNotFound
	}
	return &seller, nil
}

// --- listings ---

// CreateListing lists a seller's prompt for sale. New listings start active
// when auto-approval is on, otherwise pending moderator review.
func (s *MarketplaceService) CreateListing(ctx context.Context, sellerID, promptID uuid.UUID, priceCents int64) (*models.Listing, error) {
	if priceCents <= 0 {
		return nil, ErrInvalidPrice
	}

	seller, err := s.GetSellerByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Status == models.SellerStatusSuspended {
		return nil, ErrSellerSuspended
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	status := models.ListingStatusPending
	if settings.AutoApproveListings {
		status = models.ListingStatusActive
	}

	var listing models.Listing
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO listings (seller_id, prompt_id, price_cents, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+listingColumns+`
	`, sellerID, promptID, priceCents, status).Scan(scanListing(&listing)...)
	if err != nil {
		return nil, ErrAlreadyListed
	}
	return &listing, nil
}

func (s *MarketplaceService) GetListingByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+listingColumns+` FROM listings WHERE id = $1
	`, id).Scan(scanListing(&listing)...)
	if err != nil {
		return nil, ErrListingNotFound
	}
	return &listing, nil
}

func (s *MarketplaceService) ListListings(ctx context.Context) ([]models.Listing, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var listing models.Listing
		if err := rows.Scan(scanListing(&listing)...); err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

func (s *MarketplaceService) SetListingFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE listings SET featured = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+listingColumns+`
	`, featured, id).Scan(scanListing(&listing)...)
	if err != nil {
		return nil, ErrListingNotFound
	}
	return &listing, nil
}

func (s *MarketplaceService) SetListingStatus(ctx context.Context, id uuid.UUID, status string) (*models.Listing, error) {
	if status != models.ListingStatusActive && status != models.ListingStatusSuspended && status != models.ListingStatusPending {
		return nil, ErrInvalidStatus
	}

	var listing models.Listing
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE listings SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+listingColumns+`
	`, status, id).Scan(scanListing(&listing)...)
	if err != nil {
		return nil, ErrListingNotFound
	}
	return &listing, nil
}

// --- settings ---

func (s *MarketplaceService) GetSettings(ctx context.Context) (*models.MarketplaceSettings, error) {
	var settings models.MarketplaceSettings
	err := s.db.Pool.QueryRow(ctx, `
		SELECT commission_rate_bps, payout_frequency, processing_fee_bps, min_payout_cents,
		       stripe_enabled, paypal_enabled, auto_approve_listings, updated_at
		FROM marketplace_settings WHERE id = 1
	`).Scan(
		&settings.CommissionRateBps, &settings.PayoutFrequency, &settings.ProcessingFeeBps,
		&settings.MinPayoutCents, &settings.StripeEnabled, &settings.PaypalEnabled,
		&settings.AutoApproveListings, &settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load marketplace settings: %w", err)
	}
	return &settings, nil
}

func (s *MarketplaceService) UpdateSettings(ctx context.Context, settings *models.MarketplaceSettings) (*models.MarketplaceSettings, error) {
	if !models.ValidPayoutFrequency(settings.PayoutFrequency) {
		return nil, fmt.Errorf("invalid payout frequency: %q", settings.PayoutFrequency)
	}
	if settings.CommissionRateBps < 0 || settings.CommissionRateBps > 10000 {
		return nil, fmt.Errorf("commission rate out of range: %d", settings.CommissionRateBps)
	}

	var updated models.MarketplaceSettings
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE marketplace_settings
		SET commission_rate_bps = $1, payout_frequency = $2, processing_fee_bps = $3,
		    min_payout_cents = $4, stripe_enabled = $5, paypal_enabled = $6,
		    auto_approve_listings = $7, updated_at = NOW()
		WHERE id = 1
		RETURNING commission_rate_bps, payout_frequency, processing_fee_bps, min_payout_cents,
		          stripe_enabled, paypal_enabled, auto_approve_listings, updated_at
	`, settings.CommissionRateBps, settings.PayoutFrequency, settings.ProcessingFeeBps,
		settings.MinPayoutCents, settings.StripeEnabled, settings.PaypalEnabled,
		settings.AutoApproveListings).Scan(
		&updated.CommissionRateBps, &updated.PayoutFrequency, &updated.ProcessingFeeBps,
		&updated.MinPayoutCents, &updated.StripeEnabled, &updated.PaypalEnabled,
		&updated.AutoApproveListings, &updated.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update marketplace settings: %w", err)
	}
	return &updated, nil
}

// --- payouts ---

// ProcessPayouts pays every active seller connected to the provider whose
// pending balance clears the configured minimum. Each seller moves
// independently in its own transaction; the processing fee is deducted from
// the paid amount.
func (s *MarketplaceService) ProcessPayouts(ctx context.Context, provider string) (*PayoutSummary, error) {
	if !models.ValidPayoutProvider(provider) {
		return nil, ErrInvalidProvider
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if (provider == models.PayoutProviderStripe && !settings.StripeEnabled) ||
		(provider == models.PayoutProviderPaypal && !settings.PaypalEnabled) {
		return nil, ErrProviderDisabled
	}

	connected := `stripe_account_id IS NOT NULL`
	if provider == models.PayoutProviderPaypal {
		connected = `paypal_email IS NOT NULL`
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, pending_balance_cents FROM sellers
		WHERE status = $1 AND pending_balance_cents >= $2 AND `+connected+`
		ORDER BY created_at ASC
	`, models.SellerStatusActive, settings.MinPayoutCents)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible sellers: %w", err)
	}

	type eligible struct {
		id      uuid.UUID
		pending int64
	}
	var sellers []eligible
	for rows.Next() {
		var e eligible
		if err := rows.Scan(&e.id, &e.pending); err != nil {
			rows.Close()
			return nil, err
		}
		sellers = append(sellers, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary := &PayoutSummary{Provider: provider}
	for _, e := range sellers {
		fee := e.pending * int64(settings.ProcessingFeeBps) / 10000
		net := e.pending - fee

		if err := s.payOut(ctx, e.id, provider, net, fee, e.pending); err != nil {
			summary.Skipped++
			continue
		}
		summary.SellersPaid++
		summary.TotalAmountCents += net
		summary.TotalFeeCents += fee
	}

	return summary, nil
}

func (s *MarketplaceService) payOut(ctx context.Context, sellerID uuid.UUID, provider string, net, fee, gross int64) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO payouts (seller_id, provider, amount_cents, fee_cents)
		VALUES ($1, $2, $3, $4)
	`, sellerID, provider, net, fee)
	if err != nil {
		return fmt.Errorf("failed to record payout: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE sellers
		SET pending_balance_cents = pending_balance_cents - $1,
		    total_paid_cents = total_paid_cents + $2,
		    updated_at = NOW()
		WHERE id = $3
	`, gross, net, sellerID)
	if err != nil {
		return fmt.Errorf("failed to settle seller balance: %w", err)
	}

	return tx.Commit(ctx)
}

func scanSeller(s *models.Seller) []any {
	return []any{
		&s.ID, &s.UserID, &s.Status, &s.StripeAccountID, &s.PaypalEmail,
		&s.PendingBalanceCents, &s.TotalRevenueCents, &s.TotalPaidCents,
		&s.CreatedAt, &s.UpdatedAt,
	}
}

func scanListing(l *models.Listing) []any {
	return []any{
		&l.ID, &l.SellerID, &l.PromptID, &l.PriceCents, &l.Status,
		&l.Featured, &l.SalesCount, &l.CreatedAt, &l.UpdatedAt,
	}
}
