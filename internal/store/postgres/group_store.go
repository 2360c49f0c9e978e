package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/types"
)

// GroupStore implements store.GroupStore using PostgreSQL.
type GroupStore struct {
	db DB
}

var _ store.GroupStore = (*GroupStore)(nil)

// NewGroupStore creates a new GroupStore instance.
func NewGroupStore(db DB) *GroupStore {
	return &GroupStore{db: db}
}

// newInviteCode generates a short shareable code members use to join.
func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateGroup inserts the group and its owner membership in one transaction.
func (s *GroupStore) CreateGroup(ctx context.Context, group *types.Group) (string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if group.InviteCode == "" {
		group.InviteCode = newInviteCode()
	}

	query := `
		INSERT INTO groups (name, description, invite_code, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		group.Name,
		group.Description,
		group.InviteCode,
		group.CreatedBy,
	).Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id, role, display_name)
		VALUES ($1, $2, $3, $4)`,
		group.ID, group.CreatedBy, types.MemberRoleOwner, "",
	)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return group.ID, nil
}

// GetGroup retrieves a group by its ID.
func (s *GroupStore) GetGroup(ctx context.Context, id string) (*types.Group, error) {
	query := `
		SELECT id, name, description, invite_code, created_by, created_at, updated_at
		FROM groups
		WHERE id = $1`

	return s.scanGroup(s.db.QueryRow(ctx, query, id))
}

// GetGroupByInviteCode retrieves a group by its shareable invite code.
func (s *GroupStore) GetGroupByInviteCode(ctx context.Context, inviteCode string) (*types.Group, error) {
	query := `
		SELECT id, name, description, invite_code, created_by, created_at, updated_at
		FROM groups
		WHERE invite_code = $1`

	return s.scanGroup(s.db.QueryRow(ctx, query, inviteCode))
}

func (s *GroupStore) scanGroup(row pgx.Row) (*types.Group, error) {
	group := &types.Group{}
	err := row.Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.InviteCode,
		&group.CreatedBy,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return group, nil
}

// UpdateGroup applies the non-nil fields of the update.
func (s *GroupStore) UpdateGroup(ctx context.Context, id string, update *types.UpdateGroupRequest) error {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = now()
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, update.Name, update.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteGroup removes a group. Members, expenses, shares and consumptions
// cascade via foreign keys.
func (s *GroupStore) DeleteGroup(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListUserGroups returns all groups the user is a member of.
func (s *GroupStore) ListUserGroups(ctx context.Context, userID string) ([]types.Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.invite_code, g.created_by, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []types.Group
	for rows.Next() {
		var g types.Group
		err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.InviteCode,
			&g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AddMember inserts a membership row. Adding an existing member is a
// conflict, not an error the caller should treat as fatal.
func (s *GroupStore) AddMember(ctx context.Context, member *types.GroupMember) error {
	query := `
		INSERT INTO group_members (group_id, user_id, role, display_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, user_id) DO NOTHING`

	tag, err := s.db.Exec(ctx, query,
		member.GroupID, member.UserID, member.Role, member.DisplayName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrConflict
	}
	return nil
}

// RemoveMember deletes a membership row.
func (s *GroupStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListMembers returns the group's members ordered by join time.
func (s *GroupStore) ListMembers(ctx context.Context, groupID string) ([]types.GroupMember, error) {
	query := `
		SELECT group_id, user_id, role, display_name, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at`

	rows, err := s.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []types.GroupMember
	for rows.Next() {
		var m types.GroupMember
		err := rows.Scan(&m.GroupID, &m.UserID, &m.Role, &m.DisplayName, &m.JoinedAt)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// IsMember reports whether the user belongs to the group.
func (s *GroupStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
