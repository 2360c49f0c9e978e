package services

import (
	"context"
	"errors"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/internal/events"
	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/logger"
	"github.com/smartsplit/smartsplit-backend/types"

	"go.uber.org/zap"
)

const eventSourceGroupService = "group_service"

// GroupService implements group lifecycle and membership operations.
type GroupService struct {
	groups    store.GroupStore
	publisher types.EventPublisher
	log       *zap.SugaredLogger
}

func NewGroupService(groups store.GroupStore, publisher types.EventPublisher) *GroupService {
	return &GroupService{
		groups:    groups,
		publisher: publisher,
		log:       logger.GetLogger(),
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, userID string, req *types.CreateGroupRequest) (*types.Group, error) {
	group := &types.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}

	id, err := s.groups.CreateGroup(ctx, group)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	created, err := s.groups.GetGroup(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeGroupCreated, id, userID, map[string]interface{}{
		"name": created.Name,
	})
	return created, nil
}

func (s *GroupService) GetGroup(ctx context.Context, groupID, userID string) (*types.Group, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.GroupNotFound(groupID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return group, nil
}

func (s *GroupService) UpdateGroup(ctx context.Context, groupID, userID string, req *types.UpdateGroupRequest) (*types.Group, error) {
	group, err := s.GetGroup(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != userID {
		return nil, apperrors.Forbidden("Only the group creator can update the group", "")
	}

	if err := s.groups.UpdateGroup(ctx, groupID, req); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	updated, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeGroupUpdated, groupID, userID, map[string]interface{}{
		"name": updated.Name,
	})
	return updated, nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, groupID, userID string) error {
	group, err := s.GetGroup(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if group.CreatedBy != userID {
		return apperrors.Forbidden("Only the group creator can delete the group", "")
	}

	if err := s.groups.DeleteGroup(ctx, groupID); err != nil {
		return apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeGroupDeleted, groupID, userID, nil)
	return nil
}

func (s *GroupService) ListUserGroups(ctx context.Context, userID string) ([]types.Group, error) {
	groups, err := s.groups.ListUserGroups(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return groups, nil
}

// JoinGroup adds the user to the group matching the invite code.
func (s *GroupService) JoinGroup(ctx context.Context, userID string, req *types.JoinGroupRequest) (*types.Group, error) {
	group, err := s.groups.GetGroupByInviteCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Group with invite code", req.InviteCode)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	member := &types.GroupMember{
		GroupID:     group.ID,
		UserID:      userID,
		Role:        types.MemberRoleMember,
		DisplayName: req.DisplayName,
	}
	if err := s.groups.AddMember(ctx, member); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.NewConflictError("Already a member of this group", "")
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeMemberJoined, group.ID, userID, map[string]interface{}{
		"displayName": req.DisplayName,
	})
	return group, nil
}

// RemoveMember removes a member. Members may remove themselves; only the
// group creator may remove others.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID, targetUserID string) error {
	group, err := s.GetGroup(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if targetUserID != userID && group.CreatedBy != userID {
		return apperrors.Forbidden("Only the group creator can remove other members", "")
	}
	if targetUserID == group.CreatedBy {
		return apperrors.ValidationFailed("Cannot remove the group creator", "delete the group instead")
	}

	if err := s.groups.RemoveMember(ctx, groupID, targetUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Group member", targetUserID)
		}
		return apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeMemberRemoved, groupID, userID, map[string]interface{}{
		"removedUserId": targetUserID,
	})
	return nil
}

func (s *GroupService) ListMembers(ctx context.Context, groupID, userID string) ([]types.GroupMember, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return members, nil
}

func (s *GroupService) requireMember(ctx context.Context, groupID, userID string) error {
	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if !ok {
		return apperrors.GroupAccessDenied(userID, groupID)
	}
	return nil
}

func (s *GroupService) publishEvent(ctx context.Context, eventType types.EventType, groupID, userID string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := events.PublishWithContext(ctx, s.publisher, eventType, groupID, userID, data, eventSourceGroupService); err != nil {
		s.log.Warnw("Failed to publish event",
			"type", eventType,
			"group_id", groupID,
			"error", err)
	}
}
