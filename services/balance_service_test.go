package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/types"
)

func TestGetGroupBalances_TwoMembers(t *testing.T) {
	groups := new(MockGroupStore)
	expenses := new(MockExpenseStore)
	svc := NewBalanceService(groups, expenses)

	groups.On("IsMember", mock.Anything, "group-1", "user-a").Return(true, nil)
	groups.On("ListMembers", mock.Anything, "group-1").Return([]types.GroupMember{
		{GroupID: "group-1", UserID: "user-a", DisplayName: "Alice"},
		{GroupID: "group-1", UserID: "user-b", DisplayName: "Bob"},
	}, nil)
	expenses.On("ListGroupExpenses", mock.Anything, "group-1").Return([]types.Expense{
		{
			ID:          "e1",
			GroupID:     "group-1",
			CreatedBy:   "user-a",
			TotalAmount: decimal.RequireFromString("100.00"),
			Shares: []types.ExpenseShare{
				{ExpenseID: "e1", UserID: "user-a", AmountConsumed: decimal.RequireFromString("50.00")},
				{ExpenseID: "e1", UserID: "user-b", AmountConsumed: decimal.RequireFromString("50.00")},
			},
		},
	}, nil)

	resp, err := svc.GetGroupBalances(context.Background(), "group-1", "user-a")
	require.NoError(t, err)

	require.Len(t, resp.Balances, 2)
	byUser := make(map[string]types.Balance)
	for _, b := range resp.Balances {
		byUser[b.UserID] = b
	}
	assert.True(t, byUser["user-a"].Balance.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, byUser["user-b"].Balance.Equal(decimal.RequireFromString("-50.00")))

	require.Len(t, resp.Settlements, 1)
	assert.Equal(t, "user-b", resp.Settlements[0].FromUserID)
	assert.Equal(t, "user-a", resp.Settlements[0].ToUserID)
	assert.True(t, resp.Settlements[0].Amount.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, "Bob", resp.Settlements[0].FromName)
	assert.Equal(t, "Alice", resp.Settlements[0].ToName)
	assert.True(t, resp.Residual.IsZero())
}

func TestGetGroupBalances_NonMemberDenied(t *testing.T) {
	groups := new(MockGroupStore)
	expenses := new(MockExpenseStore)
	svc := NewBalanceService(groups, expenses)

	groups.On("IsMember", mock.Anything, "group-1", "stranger").Return(false, nil)

	_, err := svc.GetGroupBalances(context.Background(), "group-1", "stranger")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.GroupAccessError, appErr.Type)
	expenses.AssertNotCalled(t, "ListGroupExpenses", mock.Anything, mock.Anything)
}

func TestGetGroupBalances_EmptyLedger(t *testing.T) {
	groups := new(MockGroupStore)
	expenses := new(MockExpenseStore)
	svc := NewBalanceService(groups, expenses)

	groups.On("IsMember", mock.Anything, "group-1", "user-a").Return(true, nil)
	groups.On("ListMembers", mock.Anything, "group-1").Return([]types.GroupMember{
		{GroupID: "group-1", UserID: "user-a", DisplayName: "Alice"},
	}, nil)
	expenses.On("ListGroupExpenses", mock.Anything, "group-1").Return([]types.Expense{}, nil)

	resp, err := svc.GetGroupBalances(context.Background(), "group-1", "user-a")
	require.NoError(t, err)

	require.Len(t, resp.Balances, 1)
	assert.True(t, resp.Balances[0].Balance.IsZero())
	assert.Empty(t, resp.Settlements)
}
