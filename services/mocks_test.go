package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/types"
)

type MockGroupStore struct {
	mock.Mock
}

func (m *MockGroupStore) CreateGroup(ctx context.Context, group *types.Group) (string, error) {
	args := m.Called(ctx, group)
	return args.String(0), args.Error(1)
}

func (m *MockGroupStore) GetGroup(ctx context.Context, id string) (*types.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Group), args.Error(1)
}

func (m *MockGroupStore) GetGroupByInviteCode(ctx context.Context, inviteCode string) (*types.Group, error) {
	args := m.Called(ctx, inviteCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Group), args.Error(1)
}

func (m *MockGroupStore) UpdateGroup(ctx context.Context, id string, update *types.UpdateGroupRequest) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockGroupStore) DeleteGroup(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGroupStore) ListUserGroups(ctx context.Context, userID string) ([]types.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Group), args.Error(1)
}

func (m *MockGroupStore) AddMember(ctx context.Context, member *types.GroupMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockGroupStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupStore) ListMembers(ctx context.Context, groupID string) ([]types.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.GroupMember), args.Error(1)
}

func (m *MockGroupStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

type MockExpenseStore struct {
	mock.Mock
}

func (m *MockExpenseStore) CreateExpense(ctx context.Context, params types.CreateExpenseStoreParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *MockExpenseStore) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Expense), args.Error(1)
}

func (m *MockExpenseStore) ListGroupExpenses(ctx context.Context, groupID string) ([]types.Expense, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Expense), args.Error(1)
}

func (m *MockExpenseStore) DeleteExpense(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockConsumptionStore struct {
	mock.Mock
}

func (m *MockConsumptionStore) AddConsumption(ctx context.Context, consumption *types.Consumption) (string, error) {
	args := m.Called(ctx, consumption)
	return args.String(0), args.Error(1)
}

func (m *MockConsumptionStore) GetConsumption(ctx context.Context, id string) (*types.Consumption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Consumption), args.Error(1)
}

func (m *MockConsumptionStore) ListGroupConsumptions(ctx context.Context, groupID string, includeSettled bool) ([]types.Consumption, error) {
	args := m.Called(ctx, groupID, includeSettled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Consumption), args.Error(1)
}

func (m *MockConsumptionStore) UpdateConsumption(ctx context.Context, id, userID string, update *types.UpdateConsumptionRequest) (*types.Consumption, error) {
	args := m.Called(ctx, id, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Consumption), args.Error(1)
}

func (m *MockConsumptionStore) DeleteConsumption(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockConsumptionStore) SettleConsumptions(ctx context.Context, params store.SettleConsumptionsParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}
