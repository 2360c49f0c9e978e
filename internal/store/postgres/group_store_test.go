package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/types"
)

func TestCreateGroup_InsertsOwnerMembership(t *testing.T) {
	mock := newMockPool(t)
	s := NewGroupStore(mock)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := &types.Group{
		Name:        "Ski trip",
		Description: "Chalet weekend",
		CreatedBy:   "user-a",
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO groups").
		WithArgs(group.Name, group.Description, pgxmock.AnyArg(), group.CreatedBy).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("group-1", now, now))
	mock.ExpectExec("INSERT INTO group_members").
		WithArgs("group-1", "user-a", types.MemberRoleOwner, "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	id, err := s.CreateGroup(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, "group-1", id)
	assert.NotEmpty(t, group.InviteCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGroup_NotFound(t *testing.T) {
	mock := newMockPool(t)
	s := NewGroupStore(mock)

	mock.ExpectQuery("SELECT (.+) FROM groups").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetGroup(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMember_DuplicateIsConflict(t *testing.T) {
	mock := newMockPool(t)
	s := NewGroupStore(mock)

	member := &types.GroupMember{
		GroupID:     "group-1",
		UserID:      "user-b",
		Role:        types.MemberRoleMember,
		DisplayName: "Bob",
	}

	// ON CONFLICT DO NOTHING reports zero rows for an existing membership.
	mock.ExpectExec("INSERT INTO group_members").
		WithArgs(member.GroupID, member.UserID, member.Role, member.DisplayName).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := s.AddMember(context.Background(), member)
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMember(t *testing.T) {
	mock := newMockPool(t)
	s := NewGroupStore(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("group-1", "user-a").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.IsMember(context.Background(), "group-1", "user-a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
