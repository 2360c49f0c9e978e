// Package store defines the data-access interfaces the service and handler
// layers depend on. Implementations live in subpackages (postgres); the
// engine itself never touches these — it consumes snapshots the stores
// produce.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/smartsplit/smartsplit-backend/types"
)

// GroupStore handles group and membership data operations.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *types.Group) (string, error)
	GetGroup(ctx context.Context, id string) (*types.Group, error)
	GetGroupByInviteCode(ctx context.Context, inviteCode string) (*types.Group, error)
	UpdateGroup(ctx context.Context, id string, update *types.UpdateGroupRequest) error
	DeleteGroup(ctx context.Context, id string) error
	ListUserGroups(ctx context.Context, userID string) ([]types.Group, error)

	AddMember(ctx context.Context, member *types.GroupMember) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ListMembers(ctx context.Context, groupID string) ([]types.GroupMember, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// ExpenseStore handles expense and share data operations. Reads return
// expenses with their shares attached, fetched as one consistent snapshot.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, params types.CreateExpenseStoreParams) (string, error)
	GetExpense(ctx context.Context, id string) (*types.Expense, error)
	ListGroupExpenses(ctx context.Context, groupID string) ([]types.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// SettleConsumptionsParams carries everything the transactional settle
// operation needs: the expense to create, the precomputed per-member shares,
// and the exact set of consumption IDs the caller read as unsettled. The
// store must mark settled conditionally (is_settled = false) and fail with
// ErrConflict when the affected-row count does not match, so a racing
// settlement can never double-settle a row.
type SettleConsumptionsParams struct {
	GroupID        string
	PaidBy         string
	Title          string
	Description    string
	TotalAmount    decimal.Decimal
	Shares         []types.ExpenseShare
	ConsumptionIDs []string
}

// ConsumptionStore handles individual consumption records and their
// conversion into a settlement expense.
type ConsumptionStore interface {
	AddConsumption(ctx context.Context, consumption *types.Consumption) (string, error)
	GetConsumption(ctx context.Context, id string) (*types.Consumption, error)
	ListGroupConsumptions(ctx context.Context, groupID string, includeSettled bool) ([]types.Consumption, error)
	// UpdateConsumption and DeleteConsumption only touch unsettled rows
	// owned by userID; they return ErrNotFound otherwise.
	UpdateConsumption(ctx context.Context, id, userID string, update *types.UpdateConsumptionRequest) (*types.Consumption, error)
	DeleteConsumption(ctx context.Context, id, userID string) error

	// SettleConsumptions creates the settlement expense plus its shares and
	// marks the source consumptions settled, all in one transaction.
	// Returns the new expense ID.
	SettleConsumptions(ctx context.Context, params SettleConsumptionsParams) (string, error)
}
