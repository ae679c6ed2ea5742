package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/promptatrium/atrium-api/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keywordTestColumns = []string{
	"id", "term", "category", "description", "weight", "created_at", "updated_at",
}

func setupKeywordService(t *testing.T) (*KeywordService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewKeywordService(db), mock
}

func TestKeywordService_Search(t *testing.T) {
	svc, mock := setupKeywordService(t)
	ctx := context.Background()
	now := time.Now()

	rows := pgxmock.NewRows(keywordTestColumns).
		AddRow(uuid.New(), "golden hour", "lighting", "", 10, now, now).
		AddRow(uuid.New(), "golden ratio", "composition", "", 5, now, now)

	mock.ExpectQuery(`SELECT .+ FROM keywords`).
		WithArgs("golden", 20).
		WillReturnRows(rows)

	keywords, err := svc.Search(ctx, "golden", 0)

	require.NoError(t, err)
	require.Len(t, keywords, 2)
	assert.Equal(t, "golden hour", keywords[0].Term)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordService_Delete_NotFound(t *testing.T) {
	svc, mock := setupKeywordService(t)
	ctx := context.Background()
	keywordID := uuid.New()

	mock.ExpectExec(`DELETE FROM keywords`).
		WithArgs(keywordID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(ctx, keywordID)

	assert.ErrorIs(t, err, ErrKeywordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeywordService_Generate_EmptySubject(t *testing.T) {
	svc, _ := setupKeywordService(t)

	_, _, err := svc.Generate(context.Background(), "   ", "", nil, nil)

	assert.ErrorIs(t, err, ErrEmptySubject)
}

func TestKeywordService_Generate_SubjectOnly(t *testing.T) {
	svc, _ := setupKeywordService(t)

	prompt, negative, err := svc.Generate(context.Background(), "a red fox", "", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "a red fox", prompt)
	assert.Empty(t, negative)
}

func TestKeywordService_Generate_WithStyleAndKeywords(t *testing.T) {
	svc, mock := setupKeywordService(t)
	ctx := context.Background()
	keywordIDs := []uuid.UUID{uuid.New(), uuid.New()}
	negativeIDs := []uuid.UUID{uuid.New()}

	mock.ExpectQuery(`SELECT term FROM keywords`).
		WithArgs(keywordIDs).
		WillReturnRows(pgxmock.NewRows([]string{"term"}).
			AddRow("golden hour").
			AddRow("soft focus"))

	mock.ExpectQuery(`SELECT term FROM keywords`).
		WithArgs(negativeIDs).
		WillReturnRows(pgxmock.NewRows([]string{"term"}).
			AddRow("blurry"))

	prompt, negative, err := svc.Generate(ctx, "a red fox", "oil painting", keywordIDs, negativeIDs)

	require.NoError(t, err)
	assert.Equal(t, "a red fox, oil painting, golden hour, soft focus", prompt)
	assert.Equal(t, "blurry", negative)
	assert.NoError(t, mock.ExpectationsWereMet())
}
