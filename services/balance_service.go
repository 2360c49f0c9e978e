package services

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/ledger"
	"github.com/smartsplit/smartsplit-backend/logger"
	"github.com/smartsplit/smartsplit-backend/types"
)

// BalanceService computes a group's net balances and settlement plan from a
// consistent ledger snapshot. It is read-only and derives everything on
// demand from the stores.
type BalanceService struct {
	groups   store.GroupStore
	expenses store.ExpenseStore
	log      *zap.SugaredLogger
}

func NewBalanceService(groups store.GroupStore, expenses store.ExpenseStore) *BalanceService {
	return &BalanceService{
		groups:   groups,
		expenses: expenses,
		log:      logger.GetLogger(),
	}
}

// GetGroupBalances fetches the member list and expense snapshot, reduces
// them to per-member balances and runs settlement optimization.
func (s *BalanceService) GetGroupBalances(ctx context.Context, groupID, userID string) (*types.GroupBalancesResponse, error) {
	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if !ok {
		return nil, apperrors.GroupAccessDenied(userID, groupID)
	}

	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	expenses, err := s.expenses.ListGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	balances := ledger.ComputeBalances(members, expenses)
	result := ledger.ComputeSettlements(balances)

	if !result.Residual.IsZero() {
		s.log.Warnw("Group ledger has unallocated remainder",
			"group_id", groupID,
			"residual", result.Residual.String())
	}

	return &types.GroupBalancesResponse{
		GroupID:     groupID,
		Balances:    balances,
		Settlements: result.Settlements,
		Residual:    result.Residual,
	}, nil
}
