package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/internal/events"
	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/logger"
	"github.com/smartsplit/smartsplit-backend/types"
)

const eventSourceExpenseService = "expense_service"

// ExpenseService implements manual expense entry and retrieval.
type ExpenseService struct {
	expenses  store.ExpenseStore
	groups    store.GroupStore
	publisher types.EventPublisher
	log       *zap.SugaredLogger
}

func NewExpenseService(expenses store.ExpenseStore, groups store.GroupStore, publisher types.EventPublisher) *ExpenseService {
	return &ExpenseService{
		expenses:  expenses,
		groups:    groups,
		publisher: publisher,
		log:       logger.GetLogger(),
	}
}

// CreateExpense records a manual expense. The shares must be non-negative
// and sum exactly to the total; the payer is the authenticated creator.
func (s *ExpenseService) CreateExpense(ctx context.Context, groupID, userID string, req *types.CreateExpenseRequest) (*types.Expense, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ValidationFailed("Invalid expense total", "total amount must be positive")
	}
	if len(req.Shares) == 0 {
		return nil, apperrors.ValidationFailed("Invalid expense shares", "at least one share is required")
	}

	shares := make([]types.ExpenseShare, 0, len(req.Shares))
	shareSum := decimal.Zero
	for shareUserID, amount := range req.Shares {
		if amount.IsNegative() {
			return nil, apperrors.ValidationFailed("Invalid expense shares", "share amounts must not be negative")
		}
		shareSum = shareSum.Add(amount)
		shares = append(shares, types.ExpenseShare{
			UserID:         shareUserID,
			AmountConsumed: amount,
		})
	}
	if !shareSum.Equal(req.TotalAmount) {
		return nil, apperrors.ValidationFailed("Invalid expense shares",
			"share amounts must sum to the expense total")
	}

	id, err := s.expenses.CreateExpense(ctx, types.CreateExpenseStoreParams{
		GroupID:     groupID,
		CreatedBy:   userID,
		Title:       req.Title,
		Description: req.Description,
		TotalAmount: req.TotalAmount,
		ExpenseType: types.ExpenseTypeManual,
		Shares:      shares,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	expense, err := s.expenses.GetExpense(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeExpenseCreated, groupID, userID, map[string]interface{}{
		"expenseId":   id,
		"totalAmount": req.TotalAmount.String(),
	})
	return expense, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, groupID, expenseID, userID string) (*types.Expense, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	expense, err := s.expenses.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Expense", expenseID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if expense.GroupID != groupID {
		return nil, apperrors.NotFound("Expense", expenseID)
	}
	return expense, nil
}

func (s *ExpenseService) ListGroupExpenses(ctx context.Context, groupID, userID string) ([]types.Expense, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	expenses, err := s.expenses.ListGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return expenses, nil
}

// DeleteExpense removes a manual expense. Only its creator may delete it,
// and settlement expenses are immutable because deleting one would orphan
// the consumptions it settled.
func (s *ExpenseService) DeleteExpense(ctx context.Context, groupID, expenseID, userID string) error {
	expense, err := s.GetExpense(ctx, groupID, expenseID, userID)
	if err != nil {
		return err
	}
	if expense.CreatedBy != userID {
		return apperrors.Forbidden("Only the expense creator can delete it", "")
	}
	if expense.ExpenseType == types.ExpenseTypeSettlement {
		return apperrors.ValidationFailed("Settlement expenses cannot be deleted",
			"they are generated from settled consumptions")
	}

	if err := s.expenses.DeleteExpense(ctx, expenseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Expense", expenseID)
		}
		return apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeExpenseDeleted, groupID, userID, map[string]interface{}{
		"expenseId": expenseID,
	})
	return nil
}

func (s *ExpenseService) requireMember(ctx context.Context, groupID, userID string) error {
	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if !ok {
		return apperrors.GroupAccessDenied(userID, groupID)
	}
	return nil
}

func (s *ExpenseService) publishEvent(ctx context.Context, eventType types.EventType, groupID, userID string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := events.PublishWithContext(ctx, s.publisher, eventType, groupID, userID, data, eventSourceExpenseService); err != nil {
		s.log.Warnw("Failed to publish event",
			"type", eventType,
			"group_id", groupID,
			"error", err)
	}
}
