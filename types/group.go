package types

import "time"

// MemberRole defines a member's role within a group.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// Group represents a set of members sharing a common expense ledger.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	InviteCode  string    `json:"inviteCode"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GroupMember is a participant in a group. Identity is immutable for
// balance purposes; the display name is presentation only.
type GroupMember struct {
	GroupID     string     `json:"groupId"`
	UserID      string     `json:"userId"`
	Role        MemberRole `json:"role"`
	DisplayName string     `json:"displayName,omitempty"`
	JoinedAt    time.Time  `json:"joinedAt"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type JoinGroupRequest struct {
	InviteCode  string `json:"inviteCode" binding:"required"`
	DisplayName string `json:"displayName"`
}
