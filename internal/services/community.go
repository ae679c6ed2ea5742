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
	ErrCommunityNotFound   = errors.New("community not found")
	ErrCommunityInactive   = errors.New("community is not active")
	ErrAlreadyMember       = errors.New("user is already a community member")
	ErrMemberNotFound      = errors.New("member not found")
	ErrCannotRemoveOwner   = errors.New("cannot remove community owner")
	ErrParentNotMigrated   = errors.New("parent community has no hierarchy path")
)

const communityColumns = `id, name, description, parent_id, level, path, is_active, created_at, updated_at`

type CommunityService struct {
	db *database.DB
}

func NewCommunityService(db *database.DB) *CommunityService {
	return &CommunityService{db: db}
}

// Create inserts a root community (level 0) and enrolls the creator as owner.
// The id is generated here because the materialized path embeds it.
func (s *CommunityService) Create(ctx context.Context, name, description string, ownerID uuid.UUID) (*models.Community, error) {
	id := uuid.New()
	path := "/" + id.String()
	return s.insert(ctx, id, name, description, nil, 0, path, ownerID)
}

// CreateSub inserts a child community under parent. Level and path are
// derived from the parent so the ancestry chain stays consistent.
func (s *CommunityService) CreateSub(ctx context.Context, parentID uuid.UUID, name, description string, ownerID uuid.UUID) (*models.Community, error) {
	parent, err := s.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsActive {
		return nil, ErrCommunityInactive
	}
	if parent.Path == nil || parent.Level == nil {
		return nil, ErrParentNotMigrated
	}

	id := uuid.New()
	path := *parent.Path + "/" + id.String()
	return s.insert(ctx, id, name, description, &parentID, *parent.Level+1, path, ownerID)
}

func (s *CommunityService) insert(ctx context.Context, id uuid.UUID, name, description string, parentID *uuid.UUID, level int, path string, ownerID uuid.UUID) (*models.Community, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var c models.Community
	err = tx.QueryRow(ctx, `
		INSERT INTO communities (id, name, description, parent_id, level, path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+communityColumns+`
	`, id, name, description, parentID, level, path).Scan(scanCommunity(&c)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO community_members (community_id, user_id, role)
		VALUES ($1, $2, $3)
	`, c.ID, ownerID, models.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to add owner as member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &c, nil
}

func (s *CommunityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	var c models.Community
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+communityColumns+` FROM communities WHERE id = $1
	`, id).Scan(scanCommunity(&c)...)
	if err != nil {
		return nil, ErrCommunityNotFound
	}
	return &c, nil
}

// ListRoots returns active top-level communities.
func (s *CommunityService) ListRoots(ctx context.Context) ([]models.Community, error) {
	return s.queryCommunities(ctx, `
		SELECT `+communityColumns+` FROM communities
		WHERE parent_id IS NULL AND is_active = TRUE
		ORDER BY name ASC
	`)
}

func (s *CommunityService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Community, error) {
	return s.queryCommunities(ctx, `
		SELECT `+communityColumns+` FROM communities
		WHERE parent_id = $1 AND is_active = TRUE
		ORDER BY name ASC
	`, parentID)
}

func (s *CommunityService) Update(ctx context.Context, id uuid.UUID, name, description *string) (*models.Community, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		existing.Name = *name
	}
	if description != nil {
		existing.Description = *description
	}

	var c models.Community
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE communities SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+communityColumns+`
	`, existing.Name, existing.Description, id).Scan(scanCommunity(&c)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update community: %w", err)
	}
	return &c, nil
}

// Deactivate soft-deletes a community. Children and membership rows are
// retained.
func (s *CommunityService) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE communities SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCommunityNotFound
	}
	return nil
}

func (s *CommunityService) Join(ctx context.Context, communityID, userID uuid.UUID) error {
	community, err := s.GetByID(ctx, communityID)
	if err != nil {
		return err
	}
	if !community.IsActive {
		return ErrCommunityInactive
	}

	isMember, err := s.IsMember(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return ErrAlreadyMember
	}

	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO community_members (community_id, user_id, role)
		VALUES ($1, $2, $3)
	`, communityID, userID, models.RoleMember)
	return err
}

func (s *CommunityService) Leave(ctx context.Context, communityID, userID uuid.UUID) error {
	var role string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT role FROM community_members
		WHERE community_id = $1 AND user_id = $2
	`, communityID, userID).Scan(&role)
	if err != nil {
		return ErrMemberNotFound
	}
	if role == models.RoleOwner {
		return ErrCannotRemoveOwner
	}

	_, err = s.db.Pool.Exec(ctx, `
		DELETE FROM community_members WHERE community_id = $1 AND user_id = $2
	`, communityID, userID)
	return err
}

func (s *CommunityService) GetMembers(ctx context.Context, communityID uuid.UUID) ([]models.CommunityMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT cm.id, cm.community_id, cm.user_id, cm.role, u.name, u.email, u.avatar_url, cm.created_at
		FROM community_members cm
		JOIN users u ON cm.user_id = u.id
		WHERE cm.community_id = $1
		ORDER BY cm.created_at ASC
	`, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.CommunityMember
	for rows.Next() {
		var m models.CommunityMember
		if err := rows.Scan(&m.ID, &m.CommunityID, &m.UserID, &m.Role, &m.Name, &m.Email, &m.AvatarURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *CommunityService) IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM community_members
		WHERE community_id = $1 AND user_id = $2
	`, communityID, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanModify reports whether the user holds an owner or admin role in the
// community.
func (s *CommunityService) CanModify(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM community_members
		WHERE community_id = $1 AND user_id = $2 AND role IN ($3, $4)
	`, communityID, userID, models.RoleOwner, models.RoleAdmin).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *CommunityService) queryCommunities(ctx context.Context, query string, args ...any) ([]models.Community, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var communities []models.Community
	for rows.Next() {
		var c models.Community
		if err := rows.Scan(scanCommunity(&c)...); err != nil {
			return nil, err
		}
		communities = append(communities, c)
	}
	return communities, rows.Err()
}

func scanCommunity(c *models.Community) []any {
	return []any{
		&c.ID, &c.Name, &c.Description, &c.ParentID, &c.Level, &c.Path,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	}
}
