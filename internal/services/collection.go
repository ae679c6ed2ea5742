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
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrCollectionNameShort = errors.New("collection name must be at least 3 characters")
	ErrInvalidDeleteMode   = errors.New("unsupported delete mode")
)

// Collection delete modes
const (
	DeleteModeCollectionOnly = "collection-only"
	DeleteModeWithPrompts    = "collection-and-prompts"
)

const collectionColumns = `c.id, c.owner_id, c.name, c.description, c.visibility,
	(SELECT COUNT(*) FROM prompts p WHERE p.collection_id = c.id) AS prompt_count,
	c.created_at, c.updated_at`

type CollectionService struct {
	db *database.DB
}

func NewCollectionService(db *database.DB) *CollectionService {
	return &CollectionService{db: db}
}

func (s *CollectionService) Create(ctx context.Context, ownerID uuid.UUID, name, description, visibility string) (*models.Collection, error) {
	if len(name) < 3 {
		return nil, ErrCollectionNameShort
	}
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	var c models.Collection
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (owner_id, name, description, visibility)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, name, description, visibility, 0 AS prompt_count, created_at, updated_at
	`, ownerID, name, description, visibility).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Visibility,
		&c.PromptCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return &c, nil
}

func (s *CollectionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	var c models.Collection
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+collectionColumns+` FROM collections c WHERE c.id = $1
	`, id).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Visibility,
		&c.PromptCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, ErrCollectionNotFound
	}
	return &c, nil
}

func (s *CollectionService) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+collectionColumns+` FROM collections c
		WHERE c.owner_id = $1
		ORDER BY c.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Visibility,
			&c.PromptCount, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (s *CollectionService) Update(ctx context.Context, id, ownerID uuid.UUID, name, description *string) (*models.Collection, error) {
	existing, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if len(*name) < 3 {
			return nil, ErrCollectionNameShort
		}
		existing.Name = *name
	}
	if description != nil {
		existing.Description = *description
	}

	var c models.Collection
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE collections c SET name = $1, description = $2, updated_at = NOW()
		WHERE c.id = $3 AND c.owner_id = $4
		RETURNING `+collectionColumns+`
	`, existing.Name, existing.Description, id, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Visibility,
		&c.PromptCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}
	return &c, nil
}

// SetVisibility changes a collection's visibility. With cascade set, every
// member prompt takes the new visibility in the same transaction.
func (s *CollectionService) SetVisibility(ctx context.Context, id, ownerID uuid.UUID, visibility string, cascade bool) (*models.Collection, error) {
	if !models.ValidVisibility(visibility) {
		return nil, fmt.Errorf("invalid visibility: %q", visibility)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var c models.Collection
	err = tx.QueryRow(ctx, `
		UPDATE collections c SET visibility = $1, updated_at = NOW()
		WHERE c.id = $2 AND c.owner_id = $3
		RETURNING `+collectionColumns+`
	`, visibility, id, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Visibility,
		&c.PromptCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, ErrCollectionNotFound
	}

	if cascade {
		_, err = tx.Exec(ctx, `
			UPDATE prompts SET visibility = $1, updated_at = NOW()
			WHERE collection_id = $2
		`, visibility, id)
		if err != nil {
			return nil, fmt.Errorf("failed to cascade visibility: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &c, nil
}

// Delete removes a collection. Mode collection-only detaches member prompts
// (they survive unassigned); collection-and-prompts deletes them too. Both run
// in one transaction.
func (s *CollectionService) Delete(ctx context.Context, id, ownerID uuid.UUID, mode string) error {
	if mode != DeleteModeCollectionOnly && mode != DeleteModeWithPrompts {
		return ErrInvalidDeleteMode
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if mode == DeleteModeWithPrompts {
		_, err = tx.Exec(ctx, `DELETE FROM prompts WHERE collection_id = $1`, id)
	} else {
		_, err = tx.Exec(ctx, `UPDATE prompts SET collection_id = NULL, updated_at = NOW() WHERE collection_id = $1`, id)
	}
	if err != nil {
		return fmt.Errorf("failed to apply delete mode: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM collections WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCollectionNotFound
	}

	return tx.Commit(ctx)
}

func (s *CollectionService) getOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Collection, error) {
	var c models.Collection
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+collectionColumns+` FROM collections c
		WHERE c.id = $1 AND c.owner_id = $2
	`, id, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Visibility,
		&c.PromptCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, ErrCollectionNotFound
	}
	return &c, nil
}
