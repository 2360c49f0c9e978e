package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/services"
	"github.com/smartsplit/smartsplit-backend/types"
)

// ConsumptionServiceInterface defines the methods used by ConsumptionHandler.
type ConsumptionServiceInterface interface {
	AddConsumption(ctx context.Context, groupID, userID string, req *types.AddConsumptionRequest) (*types.Consumption, error)
	ListGroupConsumptions(ctx context.Context, groupID, userID string, includeSettled bool) ([]types.Consumption, error)
	UpdateConsumption(ctx context.Context, groupID, consumptionID, userID string, req *types.UpdateConsumptionRequest) (*types.Consumption, error)
	DeleteConsumption(ctx context.Context, groupID, consumptionID, userID string) error
	GetSummary(ctx context.Context, groupID, userID string) ([]types.ConsumptionSummary, error)
}

// SettlementServiceInterface defines the settle operation used by
// ConsumptionHandler.
type SettlementServiceInterface interface {
	SettleConsumptions(ctx context.Context, groupID, payerID string, req *types.SettleConsumptionsRequest) (*types.SettleConsumptionsResponse, error)
}

var (
	_ ConsumptionServiceInterface = (*services.ConsumptionService)(nil)
	_ SettlementServiceInterface  = (*services.SettlementService)(nil)
)

type ConsumptionHandler struct {
	consumptionService ConsumptionServiceInterface
	settlementService  SettlementServiceInterface
}

func NewConsumptionHandler(consumptionService ConsumptionServiceInterface, settlementService SettlementServiceInterface) *ConsumptionHandler {
	return &ConsumptionHandler{
		consumptionService: consumptionService,
		settlementService:  settlementService,
	}
}

func requireConsumptionID(c *gin.Context) (string, bool) {
	id := c.Param("consumptionID")
	if id == "" || !isValidUUID(id) {
		_ = c.Error(apperrors.ValidationFailed("Invalid consumption ID", "a valid consumption ID is required"))
		return "", false
	}
	return id, true
}

// AddConsumptionHandler records an individual spending entry for the caller.
func (h *ConsumptionHandler) AddConsumptionHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.AddConsumptionRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	consumption, err := h.consumptionService.AddConsumption(c.Request.Context(), groupID, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, consumption)
}

// ListConsumptionsHandler lists the group's consumptions. By default only
// unsettled records are returned; pass ?includeSettled=true for the full
// history.
func (h *ConsumptionHandler) ListConsumptionsHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	includeSettled, _ := strconv.ParseBool(c.DefaultQuery("includeSettled", "false"))

	consumptions, err := h.consumptionService.ListGroupConsumptions(c.Request.Context(), groupID, userID, includeSettled)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": consumptions})
}

// UpdateConsumptionHandler edits one of the caller's unsettled consumptions.
func (h *ConsumptionHandler) UpdateConsumptionHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	consumptionID, ok := requireConsumptionID(c)
	if !ok {
		return
	}

	var req types.UpdateConsumptionRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	consumption, err := h.consumptionService.UpdateConsumption(c.Request.Context(), groupID, consumptionID, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, consumption)
}

// DeleteConsumptionHandler deletes one of the caller's unsettled consumptions.
func (h *ConsumptionHandler) DeleteConsumptionHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	consumptionID, ok := requireConsumptionID(c)
	if !ok {
		return
	}

	if err := h.consumptionService.DeleteConsumption(c.Request.Context(), groupID, consumptionID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consumption deleted successfully"})
}

// GetSummaryHandler returns the per-member aggregation of the group's
// unsettled consumptions, the preview of what a settlement would convert.
func (h *ConsumptionHandler) GetSummaryHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.consumptionService.GetSummary(c.Request.Context(), groupID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// SettleConsumptionsHandler converts the group's unsettled consumption
// batch into a settlement expense paid by the caller.
func (h *ConsumptionHandler) SettleConsumptionsHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.SettleConsumptionsRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	resp, err := h.settlementService.SettleConsumptions(c.Request.Context(), groupID, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
