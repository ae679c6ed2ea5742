package services

import (
	"context"
	"fmt"

	"github.com/promptatrium/atrium-api/internal/database"
)

type AnalyticsService struct {
	db *database.DB
}

func NewAnalyticsService(db *database.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type OverviewStats struct {
	Users               int            `json:"users"`
	Prompts             int            `json:"prompts"`
	PromptsByStatus     map[string]int `json:"prompts_by_status"`
	Collections         int            `json:"collections"`
	Communities         int            `json:"communities"`
	Sellers             int            `json:"sellers"`
	Listings            int            `json:"listings"`
	TotalRevenueCents   int64          `json:"total_revenue_cents"`
	TotalPaidCents      int64          `json:"total_paid_cents"`
	PendingBalanceCents int64          `json:"pending_balance_cents"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func (s *AnalyticsService) Overview(ctx context.Context) (*OverviewStats, error) {
	stats := &OverviewStats{PromptsByStatus: make(map[string]int)}

	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM prompts),
			(SELECT COUNT(*) FROM collections),
			(SELECT COUNT(*) FROM communities WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM sellers),
			(SELECT COUNT(*) FROM listings)
	`).Scan(&stats.Users, &stats.Prompts, &stats.Collections, &stats.Communities, &stats.Sellers, &stats.Listings)
	if err != nil {
		return nil, fmt.Errorf("failed to load counts: %w", err)
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT status, COUNT(*) FROM prompts GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.PromptsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_revenue_cents), 0),
			COALESCE(SUM(total_paid_cents), 0),
			COALESCE(SUM(pending_balance_cents), 0)
		FROM sellers
	`).Scan(&stats.TotalRevenueCents, &stats.TotalPaidCents, &stats.PendingBalanceCents)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue totals: %w", err)
	}

	return stats, nil
}

// PromptActivity returns daily prompt creation counts over the trailing
// window. Days without activity are omitted.
func (s *AnalyticsService) PromptActivity(ctx context.Context, days int) ([]DailyCount, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM prompts
		WHERE created_at >= NOW() - ($1 || ' days')::interval
		GROUP BY day
		ORDER BY day ASC
	`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt activity: %w", err)
	}
	defer rows.Close()

	var counts []DailyCount
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}
