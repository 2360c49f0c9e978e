package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/internal/events"
	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/types"
)

func consumption(id, userID, amount string) types.Consumption {
	return types.Consumption{
		ID:      id,
		GroupID: "group-1",
		UserID:  userID,
		Amount:  decimal.RequireFromString(amount),
	}
}

func TestSettleConsumptions_ConvertsBatchToExpense(t *testing.T) {
	consumptions := new(MockConsumptionStore)
	groups := new(MockGroupStore)
	publisher := events.NewMockPublisher()
	svc := NewSettlementService(consumptions, groups, publisher)

	groups.On("IsMember", mock.Anything, "group-1", "user-a").Return(true, nil)
	consumptions.On("ListGroupConsumptions", mock.Anything, "group-1", false).Return([]types.Consumption{
		consumption("c1", "user-a", "7.00"),
		consumption("c2", "user-a", "5.00"),
		consumption("c3", "user-b", "8.00"),
	}, nil)

	var captured store.SettleConsumptionsParams
	consumptions.On("SettleConsumptions", mock.Anything, mock.MatchedBy(func(p store.SettleConsumptionsParams) bool {
		captured = p
		return true
	})).Return("expense-9", nil)

	resp, err := svc.SettleConsumptions(context.Background(), "group-1", "user-a", &types.SettleConsumptionsRequest{
		TotalAmount: decimal.RequireFromString("22.50"),
		Description: "Dinner with tip",
	})
	require.NoError(t, err)
	assert.Equal(t, "expense-9", resp.ExpenseID)

	// The expense total is what the payer paid, not the share sum.
	assert.True(t, captured.TotalAmount.Equal(decimal.RequireFromString("22.50")))
	assert.Equal(t, "user-a", captured.PaidBy)
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, captured.ConsumptionIDs)

	require.Len(t, captured.Shares, 2)
	shareByUser := make(map[string]decimal.Decimal)
	for _, s := range captured.Shares {
		shareByUser[s.UserID] = s.AmountConsumed
	}
	assert.True(t, shareByUser["user-a"].Equal(decimal.RequireFromString("12.00")))
	assert.True(t, shareByUser["user-b"].Equal(decimal.RequireFromString("8.00")))

	published := publisher.PublishedEvents("group-1")
	require.Len(t, published, 1)
	assert.Equal(t, types.EventTypeConsumptionSettled, published[0].Type)
}

func TestSettleConsumptions_EmptyBatch(t *testing.T) {
	consumptions := new(MockConsumptionStore)
	groups := new(MockGroupStore)
	svc := NewSettlementService(consumptions, groups, nil)

	groups.On("IsMember", mock.Anything, "group-1", "user-a").Return(true, nil)
	consumptions.On("ListGroupConsumptions", mock.Anything, "group-1", false).Return([]types.Consumption{}, nil)

	_, err := svc.SettleConsumptions(context.Background(), "group-1", "user-a", &types.SettleConsumptionsRequest{
		TotalAmount: decimal.RequireFromString("10.00"),
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
	consumptions.AssertNotCalled(t, "SettleConsumptions", mock.Anything, mock.Anything)
}

func TestSettleConsumptions_RaceReturnsRetryableConflict(t *testing.T) {
	consumptions := new(MockConsumptionStore)
	groups := new(MockGroupStore)
	svc := NewSettlementService(consumptions, groups, nil)

	groups.On("IsMember", mock.Anything, "group-1", "user-a").Return(true, nil)
	consumptions.On("ListGroupConsumptions", mock.Anything, "group-1", false).Return([]types.Consumption{
		consumption("c1", "user-a", "7.00"),
	}, nil)
	consumptions.On("SettleConsumptions", mock.Anything, mock.Anything).Return("", store.ErrConflict)

	_, err := svc.SettleConsumptions(context.Background(), "group-1", "user-a", &types.SettleConsumptionsRequest{
		TotalAmount: decimal.RequireFromString("7.00"),
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ConflictError, appErr.Type)
	assert.True(t, appErr.IsRetryable())
}

func TestSettleConsumptions_RejectsNonPositiveTotal(t *testing.T) {
	consumptions := new(MockConsumptionStore)
	groups := new(MockGroupStore)
	svc := NewSettlementService(consumptions, groups, nil)

	groups.On("IsMember", mock.Anything, "group-1", "user-a").Return(true, nil)

	_, err := svc.SettleConsumptions(context.Background(), "group-1", "user-a", &types.SettleConsumptionsRequest{
		TotalAmount: decimal.Zero,
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
}

func TestSettleConsumptions_NonMemberDenied(t *testing.T) {
	consumptions := new(MockConsumptionStore)
	groups := new(MockGroupStore)
	svc := NewSettlementService(consumptions, groups, nil)

	groups.On("IsMember", mock.Anything, "group-1", "stranger").Return(false, nil)

	_, err := svc.SettleConsumptions(context.Background(), "group-1", "stranger", &types.SettleConsumptionsRequest{
		TotalAmount: decimal.RequireFromString("10.00"),
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.GroupAccessError, appErr.Type)
}
