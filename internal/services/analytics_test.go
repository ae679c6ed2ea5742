package services

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/promptatrium/atrium-api/internal/database"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAnalyticsService(t *testing.T) (*AnalyticsService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewAnalyticsService(db), mock
}

func TestAnalyticsService_Overview(t *testing.T) {
	svc, mock := setupAnalyticsService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM users\)`).
		WillReturnRows(pgxmock.NewRows([]string{"users", "prompts", "collections", "communities", "sellers", "listings"}).
			AddRow(120, 540, 34, 8, 12, 40))

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM prompts GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(models.PromptStatusDraft, 300).
			AddRow(models.PromptStatusPublished, 200).
			AddRow(models.PromptStatusArchived, 40))

	mock.ExpectQuery(`COALESCE\(SUM\(total_revenue_cents\), 0\)`).
		WillReturnRows(pgxmock.NewRows([]string{"revenue", "paid", "pending"}).
			AddRow(int64(250000), int64(180000), int64(70000)))

	stats, err := svc.Overview(ctx)

	require.NoError(t, err)
	assert.Equal(t, 120, stats.Users)
	assert.Equal(t, 540, stats.Prompts)
	assert.Equal(t, 300, stats.PromptsByStatus[models.PromptStatusDraft])
	assert.Equal(t, int64(70000), stats.PendingBalanceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsService_PromptActivity_DefaultWindow(t *testing.T) {
	svc, mock := setupAnalyticsService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT TO_CHAR\(created_at::date`).
		WithArgs(30).
		WillReturnRows(pgxmock.NewRows([]string{"day", "count"}).
			AddRow("2026-08-28", 4).
			AddRow("2026-08-29", 7))

	counts, err := svc.PromptActivity(ctx, 0)

	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "2026-08-28", counts[0].Date)
	assert.Equal(t, 7, counts[1].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
