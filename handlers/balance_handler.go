package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartsplit/smartsplit-backend/services"
	"github.com/smartsplit/smartsplit-backend/types"
)

// BalanceServiceInterface defines the methods used by BalanceHandler.
type BalanceServiceInterface interface {
	GetGroupBalances(ctx context.Context, groupID, userID string) (*types.GroupBalancesResponse, error)
}

var _ BalanceServiceInterface = (*services.BalanceService)(nil)

type BalanceHandler struct {
	balanceService BalanceServiceInterface
}

func NewBalanceHandler(service BalanceServiceInterface) *BalanceHandler {
	return &BalanceHandler{balanceService: service}
}

// GetBalancesHandler computes the group's net balances and the settlement
// plan from the current ledger snapshot.
func (h *BalanceHandler) GetBalancesHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.balanceService.GetGroupBalances(c.Request.Context(), groupID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
