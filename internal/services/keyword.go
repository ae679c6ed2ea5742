package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/promptatrium/atrium-api/internal/database"
	"github.com/promptatrium/atrium-api/internal/models"
)

var (
	ErrKeywordNotFound = errors.New("keyword not found")
	ErrEmptySubject    = errors.New("subject is required")
)

const keywordColumns = `id, term, category, description, weight, created_at, updated_at`

type KeywordService struct {
	db *database.DB
}

func NewKeywordService(db *database.DB) *KeywordService {
	return &KeywordService{db: db}
}

func (s *KeywordService) Search(ctx context.Context, query string, limit int) ([]models.Keyword, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+keywordColumns+`
		FROM keywords
		WHERE term ILIKE '%' || $1 || '%'
		ORDER BY weight DESC, term ASC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []models.Keyword
	for rows.Next() {
		var k models.Keyword
		if err := rows.Scan(scanKeyword(&k)...); err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

func (s *KeywordService) GetByID(ctx context.Context, id uuid.UUID) (*models.Keyword, error) {
	var k models.Keyword
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+keywordColumns+` FROM keywords WHERE id = $1
	`, id).Scan(scanKeyword(&k)...)
	if err != nil {
		return nil, ErrKeywordNotFound
	}
	return &k, nil
}

func (s *KeywordService) Create(ctx context.Context, term, category, description string, weight int) (*models.Keyword, error) {
	var k models.Keyword
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO keywords (term, category, description, weight)
		VALUES ($1, $2, $3, $4)
		RETURNING `+keywordColumns+`
	`, term, category, description, weight).Scan(scanKeyword(&k)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword: %w", err)
	}
	return &k, nil
}

func (s *KeywordService) Update(ctx context.Context, id uuid.UUID, term, category, description *string, weight *int) (*models.Keyword, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if term != nil {
		existing.Term = *term
	}
	if category != nil {
		existing.Category = *category
	}
	if description != nil {
		existing.Description = *description
	}
	if weight != nil {
		existing.Weight = *weight
	}

	var k models.Keyword
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE keywords SET term = $1, category = $2, description = $3, weight = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+keywordColumns+`
	`, existing.Term, existing.Category, existing.Description, existing.Weight, id).Scan(scanKeyword(&k)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update keyword: %w", err)
	}
	return &k, nil
}

func (s *KeywordService) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM keywords WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrKeywordNotFound
	}
	return nil
}

// Generate assembles prompt and negative-prompt strings from dictionary
// terms. Terms are ordered by weight (heaviest first) then alphabetically,
// and appended after the subject and optional style.
func (s *KeywordService) Generate(ctx context.Context, subject, style string, keywordIDs, negativeIDs []uuid.UUID) (string, string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", "", ErrEmptySubject
	}

	parts := []string{strings.TrimSpace(subject)}
	if strings.TrimSpace(style) != "" {
		parts = append(parts, strings.TrimSpace(style))
	}

	terms, err := s.termsByIDs(ctx, keywordIDs)
	if err != nil {
		return "", "", err
	}
	parts = append(parts, terms...)

	negativeTerms, err := s.termsByIDs(ctx, negativeIDs)
	if err != nil {
		return "", "", err
	}

	return strings.Join(parts, ", "), strings.Join(negativeTerms, ", "), nil
}

func (s *KeywordService) termsByIDs(ctx context.Context, ids []uuid.UUID) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT term FROM keywords
		WHERE id = ANY($1)
		ORDER BY weight DESC, term ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

func scanKeyword(k *models.Keyword) []any {
	return []any{&k.ID, &k.Term, &k.Category, &k.Description, &k.Weight, &k.CreatedAt, &k.UpdatedAt}
}
