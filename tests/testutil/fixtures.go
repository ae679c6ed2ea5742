package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/promptatrium/atrium-api/internal/database"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/promptatrium/atrium-api/internal/oauth"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:      fmt.Sprintf("user%d@example.com", f.counter),
		Name:       fmt.Sprintf("Test User %d", f.counter),
		Provider:   "github",
		ProviderID: fmt.Sprintf("provider-%d", f.counter),
		GlobalRole: models.GlobalRoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url, provider, provider_id, global_role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, email, name, avatar_url, provider, provider_id, global_role, created_at, updated_at
	`, user.Email, user.Name, user.AvatarURL, user.Provider, user.ProviderID, user.GlobalRole).Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.Provider, &user.ProviderID, &user.GlobalRole, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// WithProvider sets the user's OAuth provider
func WithProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = provider
		u.ProviderID = providerID
	}
}

// AsAdmin marks the user as a platform admin
func AsAdmin() UserOption {
	return func(u *models.User) {
		u.GlobalRole = models.GlobalRoleAdmin
	}
}

// CreateCollection creates a test collection owned by the given user
func (f *Fixtures) CreateCollection(t *testing.T, owner *models.User, opts ...CollectionOption) *models.Collection {
	t.Helper()
	f.counter++

	col := &models.Collection{
		OwnerID:    owner.ID,
		Name:       fmt.Sprintf("Test Collection %d", f.counter),
		Visibility: models.VisibilityPrivate,
	}

	for _, opt := range opts {
		opt(col)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (owner_id, name, description, visibility)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, name, description, visibility, created_at, updated_at
	`, col.OwnerID, col.Name, col.Description, col.Visibility).Scan(
		&col.ID, &col.OwnerID, &col.Name, &col.Description,
		&col.Visibility, &col.CreatedAt, &col.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}

	return col
}

// CollectionOption configures a test collection
type CollectionOption func(*models.Collection)

// WithCollectionName sets the collection name
func WithCollectionName(name string) CollectionOption {
	return func(c *models.Collection) {
		c.Name = name
	}
}

// WithCollectionVisibility sets the collection visibility
func WithCollectionVisibility(visibility string) CollectionOption {
	return func(c *models.Collection) {
		c.Visibility = visibility
	}
}

// CreatePrompt creates a test prompt owned by the given user
func (f *Fixtures) CreatePrompt(t *testing.T, owner *models.User, opts ...PromptOption) *models.Prompt {
	t.Helper()
	f.counter++

	p := &models.Prompt{
		OwnerID:    owner.ID,
		Title:      fmt.Sprintf("Test Prompt %d", f.counter),
		Content:    "a scenic mountain landscape at dawn",
		PromptType: "text-to-image",
		Visibility: models.VisibilityPrivate,
		Status:     models.PromptStatusDraft,
		Tags:       []string{},
	}

	for _, opt := range opts {
		opt(p)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO prompts (owner_id, collection_id, title, content, negative_prompt, category, prompt_type, style, tags, visibility, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, p.OwnerID, p.CollectionID, p.Title, p.Content, p.NegativePrompt,
		p.Category, p.PromptType, p.Style, p.Tags, p.Visibility, p.Status).Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create prompt: %v", err)
	}

	return p
}

// PromptOption configures a test prompt
type PromptOption func(*models.Prompt)

// WithPromptTitle sets the prompt title
func WithPromptTitle(title string) PromptOption {
	return func(p *models.Prompt) {
		p.Title = title
	}
}

// InCollection places the prompt in a collection
func InCollection(col *models.Collection) PromptOption {
	return func(p *models.Prompt) {
		p.CollectionID = &col.ID
	}
}

// WithPromptVisibility sets the prompt visibility
func WithPromptVisibility(visibility string) PromptOption {
	return func(p *models.Prompt) {
		p.Visibility = visibility
	}
}

// WithPromptStatus sets the prompt status
func WithPromptStatus(status string) PromptOption {
	return func(p *models.Prompt) {
		p.Status = status
	}
}

// CreateCommunity creates a root community owned by the given user
func (f *Fixtures) CreateCommunity(t *testing.T, owner *models.User, opts ...CommunityOption) *models.Community {
	t.Helper()
	f.counter++

	id := uuid.New()
	level := 0
	path := "/" + id.String()
	c := &models.Community{
		ID:       id,
		Name:     fmt.Sprintf("Test Community %d", f.counter),
		Level:    &level,
		Path:     &path,
		IsActive: true,
	}

	for _, opt := range opts {
		opt(c)
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO communities (id, name, description, parent_id, level, path, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.Description, c.ParentID, c.Level, c.Path, c.IsActive).Scan(
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create community: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO community_members (community_id, user_id, role)
		VALUES ($1, $2, $3)
	`, c.ID, owner.ID, models.RoleOwner)
	if err != nil {
		t.Fatalf("failed to add owner as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return c
}

// CommunityOption configures a test community
type CommunityOption func(*models.Community)

// WithCommunityName sets the community name
func WithCommunityName(name string) CommunityOption {
	return func(c *models.Community) {
		c.Name = name
	}
}

// AsLegacyFlat clears the hierarchy fields, imitating a pre-migration row
func AsLegacyFlat() CommunityOption {
	return func(c *models.Community) {
		c.Level = nil
		c.Path = nil
	}
}

// AddCommunityMember adds a member to a community
func (f *Fixtures) AddCommunityMember(t *testing.T, community *models.Community, user *models.User) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO community_members (community_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (community_id, user_id) DO NOTHING
	`, community.ID, user.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("failed to add community member: %v", err)
	}
}

// CreateSeller registers the user as an active marketplace seller
func (f *Fixtures) CreateSeller(t *testing.T, user *models.User) *models.Seller {
	t.Helper()

	s := &models.Seller{
		UserID: user.ID,
		Status: models.SellerStatusActive,
	}

	stripeID := "acct_" + user.ID.String()[:8]
	s.StripeAccountID = &stripeID

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO sellers (user_id, status, stripe_account_id)
		VALUES ($1, $2, $3)
		RETURNING id, pending_balance_cents, total_revenue_cents, total_paid_cents, created_at, updated_at
	`, s.UserID, s.Status, s.StripeAccountID).Scan(
		&s.ID, &s.PendingBalanceCents, &s.TotalRevenueCents, &s.TotalPaidCents,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create seller: %v", err)
	}

	return s
}

// CreateKeyword adds a keyword dictionary entry
func (f *Fixtures) CreateKeyword(t *testing.T, term, category string, weight int) *models.Keyword {
	t.Helper()

	k := &models.Keyword{Term: term, Category: category, Weight: weight}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO keywords (term, category, description, weight)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, k.Term, k.Category, k.Description, k.Weight).Scan(&k.ID, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create keyword: %v", err)
	}

	return k
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
