package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/promptatrium/atrium-api/internal/database"
)

// MigrationReport summarizes a hierarchy migration run. FieldsComplete is
// true when no community is left without path and level; IntegrityOK is true
// when every parent link agrees with the child's path and level.
type MigrationReport struct {
	NeededBefore   int  `json:"needed_before"`
	Migrated       int  `json:"migrated"`
	Failed         int  `json:"failed"`
	Remaining      int  `json:"remaining"`
	FieldsComplete bool `json:"fields_complete"`
	IntegrityOK    bool `json:"integrity_ok"`
}

// CommunityMigrationService upgrades legacy flat community rows (NULL path
// and level) to the hierarchical shape. Running it against an already
// migrated database is a no-op; membership rows are never touched.
type CommunityMigrationService struct {
	db *database.DB
}

func NewCommunityMigrationService(db *database.DB) *CommunityMigrationService {
	return &CommunityMigrationService{db: db}
}

// Preview reports how many communities still need migration without mutating
// anything.
func (s *CommunityMigrationService) Preview(ctx context.Context) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM communities WHERE path IS NULL OR level IS NULL
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count flat communities: %w", err)
	}
	return count, nil
}

// Run migrates every flat community: level becomes 0, the path becomes the
// id-derived root path, and any dangling parent pointer is cleared. Each row
// is migrated independently so one failure does not abort the rest.
func (s *CommunityMigrationService) Run(ctx context.Context) (*MigrationReport, error) {
	report := &MigrationReport{}

	needed, err := s.Preview(ctx)
	if err != nil {
		return nil, err
	}
	report.NeededBefore = needed

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id FROM communities WHERE path IS NULL OR level IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list flat communities: %w", err)
	}

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		_, err := s.db.Pool.Exec(ctx, `
			UPDATE communities
			SET level = 0, path = '/' || id::text, parent_id = NULL, updated_at = NOW()
			WHERE id = $1 AND (path IS NULL OR level IS NULL)
		`, id)
		if err != nil {
			report.Failed++
			continue
		}
		report.Migrated++
	}

	remaining, err := s.Preview(ctx)
	if err != nil {
		return nil, err
	}
	report.Remaining = remaining
	report.FieldsComplete = remaining == 0

	integrityOK, err := s.validateIntegrity(ctx)
	if err != nil {
		return nil, err
	}
	report.IntegrityOK = integrityOK

	return report, nil
}

// validateIntegrity checks that every child's path extends its parent's path
// and that its level is exactly one deeper.
func (s *CommunityMigrationService) validateIntegrity(ctx context.Context) (bool, error) {
	var violations int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM communities c
		JOIN communities p ON c.parent_id = p.id
		WHERE c.path IS NULL OR p.path IS NULL
		   OR c.level IS DISTINCT FROM p.level + 1
		   OR c.path NOT LIKE p.path || '/%'
	`).Scan(&violations)
	if err != nil {
		return false, fmt.Errorf("failed to validate hierarchy integrity: %w", err)
	}
	return violations == 0, nil
}
