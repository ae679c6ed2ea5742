package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/promptatrium/atrium-api/internal/database"
	"github.com/promptatrium/atrium-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var communityTestColumns = []string{
	"id", "name", "description", "parent_id", "level", "path", "is_active", "created_at", "updated_at",
}

func setupCommunityService(t *testing.T) (*CommunityService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewCommunityService(db), mock
}

func communityRow(id uuid.UUID, name string, parentID *uuid.UUID, level int, path string, active bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(communityTestColumns).
		AddRow(id, name, "", parentID, &level, &path, active, now, now)
}

func TestCommunityService_Create_RootPathFromID(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO communities`).
		WithArgs(pgxmock.AnyArg(), "Photography", "", (*uuid.UUID)(nil), 0, pgxmock.AnyArg()).
		WillReturnRows(func() *pgxmock.Rows {
			id := uuid.New()
			return communityRow(id, "Photography", nil, 0, "/"+id.String(), true)
		}())
	mock.ExpectExec(`INSERT INTO community_members`).
		WithArgs(pgxmock.AnyArg(), ownerID, models.RoleOwner).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	community, err := svc.Create(ctx, "Photography", "", ownerID)

	require.NoError(t, err)
	require.NotNil(t, community.Level)
	require.NotNil(t, community.Path)
	assert.Equal(t, 0, *community.Level)
	assert.Equal(t, "/"+community.ID.String(), *community.Path)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityService_CreateSub_DerivesLevelAndPath(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	parentID := uuid.New()
	parentPath := "/" + parentID.String()

	mock.ExpectQuery(`SELECT .+ FROM communities WHERE id`).
		WithArgs(parentID).
		WillReturnRows(communityRow(parentID, "Photography", nil, 0, parentPath, true))

	childID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO communities`).
		WithArgs(pgxmock.AnyArg(), "Portraits", "", &parentID, 1, pgxmock.AnyArg()).
		WillReturnRows(communityRow(childID, "Portraits", &parentID, 1, parentPath+"/"+childID.String(), true))
	mock.ExpectExec(`INSERT INTO community_members`).
		WithArgs(childID, ownerID, models.RoleOwner).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	child, err := svc.CreateSub(ctx, parentID, "Portraits", "", ownerID)

	require.NoError(t, err)
	require.NotNil(t, child.Level)
	require.NotNil(t, child.Path)
	assert.Equal(t, 1, *child.Level)
	assert.Equal(t, parentPath+"/"+child.ID.String(), *child.Path)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityService_CreateSub_ParentNotMigrated(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	parentID := uuid.New()
	now := time.Now()

	// Legacy flat parent: NULL level and path.
	mock.ExpectQuery(`SELECT .+ FROM communities WHERE id`).
		WithArgs(parentID).
		WillReturnRows(pgxmock.NewRows(communityTestColumns).
			AddRow(parentID, "Legacy", "", (*uuid.UUID)(nil), (*int)(nil), (*string)(nil), true, now, now))

	_, err := svc.CreateSub(ctx, parentID, "Portraits", "", uuid.New())

	assert.ErrorIs(t, err, ErrParentNotMigrated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityService_CreateSub_InactiveParent(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	parentID := uuid.New()
	parentPath := "/" + parentID.String()

	mock.ExpectQuery(`SELECT .+ FROM communities WHERE id`).
		WithArgs(parentID).
		WillReturnRows(communityRow(parentID, "Photography", nil, 0, parentPath, false))

	_, err := svc.CreateSub(ctx, parentID, "Portraits", "", uuid.New())

	assert.ErrorIs(t, err, ErrCommunityInactive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityService_Join_AlreadyMember(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	communityID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM communities WHERE id`).
		WithArgs(communityID).
		WillReturnRows(communityRow(communityID, "Photography", nil, 0, "/"+communityID.String(), true))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM community_members`).
		WithArgs(communityID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	err := svc.Join(ctx, communityID, userID)

	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityService_Join_Inactive(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	communityID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM communities WHERE id`).
		WithArgs(communityID).
		WillReturnRows(communityRow(communityID, "Photography", nil, 0, "/"+communityID.String(), false))

	err := svc.Join(ctx, communityID, uuid.New())

	assert.ErrorIs(t, err, ErrCommunityInactive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityService_Leave_OwnerCannotLeave(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	communityID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT role FROM community_members`).
		WithArgs(communityID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(models.RoleOwner))

	err := svc.Leave(ctx, communityID, userID)

	assert.ErrorIs(t, err, ErrCannotRemoveOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityService_Leave_NotMember(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	communityID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT role FROM community_members`).
		WithArgs(communityID, userID).
		WillReturnError(assert.AnError)

	err := svc.Leave(ctx, communityID, userID)

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityService_Deactivate_NotFound(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	communityID := uuid.New()

	mock.ExpectExec(`UPDATE communities SET is_active = FALSE`).
		WithArgs(communityID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := svc.Deactivate(ctx, communityID)

	assert.ErrorIs(t, err, ErrCommunityNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityService_CanModify(t *testing.T) {
	svc, mock := setupCommunityService(t)
	ctx := context.Background()
	communityID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM community_members`).
		WithArgs(communityID, userID, models.RoleOwner, models.RoleAdmin).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	canModify, err := svc.CanModify(ctx, communityID, userID)

	require.NoError(t, err)
	assert.True(t, canModify)
	assert.NoError(t, mock.ExpectationsWereMet())
}
