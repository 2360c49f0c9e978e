package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/services"
	"github.com/smartsplit/smartsplit-backend/types"
)

// GroupServiceInterface defines the methods used by GroupHandler,
// allowing the handler to be tested with a mock.
type GroupServiceInterface interface {
	CreateGroup(ctx context.Context, userID string, req *types.CreateGroupRequest) (*types.Group, error)
	GetGroup(ctx context.Context, groupID, userID string) (*types.Group, error)
	UpdateGroup(ctx context.Context, groupID, userID string, req *types.UpdateGroupRequest) (*types.Group, error)
	DeleteGroup(ctx context.Context, groupID, userID string) error
	ListUserGroups(ctx context.Context, userID string) ([]types.Group, error)
	JoinGroup(ctx context.Context, userID string, req *types.JoinGroupRequest) (*types.Group, error)
	RemoveMember(ctx context.Context, groupID, userID, targetUserID string) error
	ListMembers(ctx context.Context, groupID, userID string) ([]types.GroupMember, error)
}

var _ GroupServiceInterface = (*services.GroupService)(nil)

type GroupHandler struct {
	groupService GroupServiceInterface
}

func NewGroupHandler(service GroupServiceInterface) *GroupHandler {
	return &GroupHandler{groupService: service}
}

// CreateGroupHandler creates a new group owned by the caller.
func (h *GroupHandler) CreateGroupHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.CreateGroupRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// ListGroupsHandler lists the caller's groups.
func (h *GroupHandler) ListGroupsHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListUserGroups(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": groups})
}

// GetGroupHandler retrieves a single group the caller belongs to.
func (h *GroupHandler) GetGroupHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	group, err := h.groupService.GetGroup(c.Request.Context(), groupID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// UpdateGroupHandler updates group name or description.
func (h *GroupHandler) UpdateGroupHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.UpdateGroupRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	group, err := h.groupService.UpdateGroup(c.Request.Context(), groupID, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// DeleteGroupHandler deletes a group and its entire ledger.
func (h *GroupHandler) DeleteGroupHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.groupService.DeleteGroup(c.Request.Context(), groupID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}

// JoinGroupHandler adds the caller to the group matching the invite code.
func (h *GroupHandler) JoinGroupHandler(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.JoinGroupRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	group, err := h.groupService.JoinGroup(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// ListMembersHandler lists a group's members.
func (h *GroupHandler) ListMembersHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	members, err := h.groupService.ListMembers(c.Request.Context(), groupID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members})
}

// RemoveMemberHandler removes a member from the group.
func (h *GroupHandler) RemoveMemberHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	targetUserID := c.Param("userID")
	if targetUserID == "" {
		_ = c.Error(apperrors.ValidationFailed("Invalid member ID", "a member user ID is required"))
		return
	}

	if err := h.groupService.RemoveMember(c.Request.Context(), groupID, userID, targetUserID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
