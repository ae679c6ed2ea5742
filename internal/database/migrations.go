package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		provider VARCHAR(50) NOT NULL,
		provider_id VARCHAR(255) NOT NULL,
		global_role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS collections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		visibility VARCHAR(20) NOT NULL DEFAULT 'private',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS prompts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		collection_id UUID REFERENCES collections(id) ON DELETE SET NULL,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		negative_prompt TEXT NOT NULL DEFAULT '',
		category VARCHAR(100) NOT NULL DEFAULT '',
		prompt_type VARCHAR(100) NOT NULL DEFAULT '',
		style VARCHAR(100) NOT NULL DEFAULT '',
		tags TEXT[] NOT NULL DEFAULT '{}',
		example_images TEXT[] NOT NULL DEFAULT '{}',
		visibility VARCHAR(20) NOT NULL DEFAULT 'private',
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS communities (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		parent_id UUID REFERENCES communities(id) ON DELETE RESTRICT,
		level INTEGER,
		path TEXT UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS community_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		community_id UUID NOT NULL REFERENCES communities(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role VARCHAR(50) NOT NULL DEFAULT 'member',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(community_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sellers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		stripe_account_id VARCHAR(255),
		paypal_email VARCHAR(255),
		pending_balance_cents BIGINT NOT NULL DEFAULT 0,
		total_revenue_cents BIGINT NOT NULL DEFAULT 0,
		total_paid_cents BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS listings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		seller_id UUID NOT NULL REFERENCES sellers(id) ON DELETE CASCADE,
		prompt_id UUID NOT NULL REFERENCES prompts(id) ON DELETE CASCADE,
		price_cents BIGINT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		sales_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(seller_id, prompt_id)
	)`,

	`CREATE TABLE IF NOT EXISTS marketplace_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		commission_rate_bps INTEGER NOT NULL DEFAULT 1500,
		payout_frequency VARCHAR(20) NOT NULL DEFAULT 'weekly',
		processing_fee_bps INTEGER NOT NULL DEFAULT 290,
		min_payout_cents BIGINT NOT NULL DEFAULT 1000,
		stripe_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		paypal_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		auto_approve_listings BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`INSERT INTO marketplace_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,

	`CREATE TABLE IF NOT EXISTS payouts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		seller_id UUID NOT NULL REFERENCES sellers(id) ON DELETE CASCADE,
		provider VARCHAR(20) NOT NULL,
		amount_cents BIGINT NOT NULL,
		fee_cents BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'completed',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,

	`CREATE TABLE IF NOT EXISTS keywords (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		term VARCHAR(255) NOT NULL UNIQUE,
		category VARCHAR(100) NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		weight INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_prompts_owner_id ON prompts(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_prompts_collection_id ON prompts(collection_id)`,
	`CREATE INDEX IF NOT EXISTS idx_prompts_status ON prompts(status)`,
	`CREATE INDEX IF NOT EXISTS idx_collections_owner_id ON collections(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_communities_parent_id ON communities(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_community_members_community_id ON community_members(community_id)`,
	`CREATE INDEX IF NOT EXISTS idx_community_members_user_id ON community_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_seller_id ON listings(seller_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payouts_seller_id ON payouts(seller_id)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_keywords_term_search ON keywords USING gin (term gin_trgm_ops)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
