package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/internal/events"
	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/ledger"
	"github.com/smartsplit/smartsplit-backend/logger"
	"github.com/smartsplit/smartsplit-backend/types"
)

const (
	eventSourceSettlementService = "settlement_service"

	// settlementExpenseTitle names the generated expense when the caller
	// provides no description.
	settlementExpenseTitle = "Consumption settlement"
)

// SettlementService converts a group's batch of unsettled consumptions into
// a single settlement expense. The payer covers the whole batch; each
// member's share is the sum of their consumptions, and the expense total is
// what the payer actually paid, which may differ from the share sum.
type SettlementService struct {
	consumptions store.ConsumptionStore
	groups       store.GroupStore
	publisher    types.EventPublisher
	log          *zap.SugaredLogger
}

func NewSettlementService(consumptions store.ConsumptionStore, groups store.GroupStore, publisher types.EventPublisher) *SettlementService {
	return &SettlementService{
		consumptions: consumptions,
		groups:       groups,
		publisher:    publisher,
		log:          logger.GetLogger(),
	}
}

// SettleConsumptions reads the current unsettled batch, aggregates it into
// per-member shares and hands the whole conversion to the store as one
// transaction. A concurrent settlement of any row in the batch fails the
// operation with a retryable conflict; no partial settlement is possible.
func (s *SettlementService) SettleConsumptions(ctx context.Context, groupID, payerID string, req *types.SettleConsumptionsRequest) (*types.SettleConsumptionsResponse, error) {
	ok, err := s.groups.IsMember(ctx, groupID, payerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if !ok {
		return nil, apperrors.GroupAccessDenied(payerID, groupID)
	}

	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ValidationFailed("Invalid settlement total", "total amount must be positive")
	}

	batch, err := s.consumptions.ListGroupConsumptions(ctx, groupID, false)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if len(batch) == 0 {
		return nil, apperrors.ValidationFailed("Nothing to settle", "the group has no unsettled consumptions")
	}

	totals := ledger.ConsumptionTotals(batch)
	shares := make([]types.ExpenseShare, 0, len(totals))
	for _, t := range totals {
		shares = append(shares, types.ExpenseShare{
			UserID:         t.UserID,
			AmountConsumed: t.TotalAmount,
		})
	}

	ids := make([]string, 0, len(batch))
	for _, c := range batch {
		ids = append(ids, c.ID)
	}

	title := settlementExpenseTitle
	if req.Description != "" {
		title = req.Description
	}

	expenseID, err := s.consumptions.SettleConsumptions(ctx, store.SettleConsumptionsParams{
		GroupID:        groupID,
		PaidBy:         payerID,
		Title:          title,
		Description:    req.Description,
		TotalAmount:    req.TotalAmount,
		Shares:         shares,
		ConsumptionIDs: ids,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, apperrors.NewConflictError("Consumptions changed during settlement",
				"another settlement raced this one; re-fetch the unsettled batch and retry")
		case errors.Is(err, store.ErrNothingToSettle):
			return nil, apperrors.ValidationFailed("Nothing to settle", "the group has no unsettled consumptions")
		default:
			return nil, apperrors.NewDatabaseError(err)
		}
	}

	// The transaction is committed at this point; a publish failure leaves
	// the ledger correct but the change feed stale, so log and carry on.
	if s.publisher != nil {
		if err := events.PublishWithContext(ctx, s.publisher, types.EventTypeConsumptionSettled, groupID, payerID, map[string]interface{}{
			"expenseId":    expenseID,
			"totalAmount":  req.TotalAmount.String(),
			"settledCount": len(ids),
			"memberShares": len(shares),
		}, eventSourceSettlementService); err != nil {
			s.log.Warnw("Settlement committed but event publish failed",
				"group_id", groupID,
				"expense_id", expenseID,
				"error", err)
		}
	}

	return &types.SettleConsumptionsResponse{ExpenseID: expenseID}, nil
}
