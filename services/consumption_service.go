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

const eventSourceConsumptionService = "consumption_service"

// ConsumptionService implements individual consumption tracking. Records
// are owned by the member who entered them and become immutable once a
// settlement converts them into an expense.
type ConsumptionService struct {
	consumptions store.ConsumptionStore
	groups       store.GroupStore
	publisher    types.EventPublisher
	log          *zap.SugaredLogger
}

func NewConsumptionService(consumptions store.ConsumptionStore, groups store.GroupStore, publisher types.EventPublisher) *ConsumptionService {
	return &ConsumptionService{
		consumptions: consumptions,
		groups:       groups,
		publisher:    publisher,
		log:          logger.GetLogger(),
	}
}

func (s *ConsumptionService) AddConsumption(ctx context.Context, groupID, userID string, req *types.AddConsumptionRequest) (*types.Consumption, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ValidationFailed("Invalid consumption amount", "amount must be positive")
	}

	consumption := &types.Consumption{
		GroupID:     groupID,
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
	}
	id, err := s.consumptions.AddConsumption(ctx, consumption)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	created, err := s.consumptions.GetConsumption(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeConsumptionAdded, groupID, userID, map[string]interface{}{
		"consumptionId": id,
		"amount":        req.Amount.String(),
	})
	return created, nil
}

func (s *ConsumptionService) ListGroupConsumptions(ctx context.Context, groupID, userID string, includeSettled bool) ([]types.Consumption, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	consumptions, err := s.consumptions.ListGroupConsumptions(ctx, groupID, includeSettled)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return consumptions, nil
}

// UpdateConsumption edits an unsettled consumption owned by userID. Settled
// or foreign records surface as not found.
func (s *ConsumptionService) UpdateConsumption(ctx context.Context, groupID, consumptionID, userID string, req *types.UpdateConsumptionRequest) (*types.Consumption, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if req.Amount != nil && req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ValidationFailed("Invalid consumption amount", "amount must be positive")
	}

	updated, err := s.consumptions.UpdateConsumption(ctx, consumptionID, userID, req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Unsettled consumption", consumptionID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeConsumptionUpdated, groupID, userID, map[string]interface{}{
		"consumptionId": consumptionID,
	})
	return updated, nil
}

func (s *ConsumptionService) DeleteConsumption(ctx context.Context, groupID, consumptionID, userID string) error {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return err
	}

	if err := s.consumptions.DeleteConsumption(ctx, consumptionID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Unsettled consumption", consumptionID)
		}
		return apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, types.EventTypeConsumptionDeleted, groupID, userID, map[string]interface{}{
		"consumptionId": consumptionID,
	})
	return nil
}

// GetSummary aggregates the group's unsettled consumptions per member, with
// display names attached where the member is still in the group.
func (s *ConsumptionService) GetSummary(ctx context.Context, groupID, userID string) ([]types.ConsumptionSummary, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	consumptions, err := s.consumptions.ListGroupConsumptions(ctx, groupID, false)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	summaries := ledger.ConsumptionTotals(consumptions)

	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.DisplayName
	}
	for i := range summaries {
		summaries[i].DisplayName = names[summaries[i].UserID]
	}
	return summaries, nil
}

func (s *ConsumptionService) requireMember(ctx context.Context, groupID, userID string) error {
	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if !ok {
		return apperrors.GroupAccessDenied(userID, groupID)
	}
	return nil
}

func (s *ConsumptionService) publishEvent(ctx context.Context, eventType types.EventType, groupID, userID string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := events.PublishWithContext(ctx, s.publisher, eventType, groupID, userID, data, eventSourceConsumptionService); err != nil {
		s.log.Warnw("Failed to publish event",
			"type", eventType,
			"group_id", groupID,
			"error", err)
	}
}
