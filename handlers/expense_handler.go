package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/services"
	"github.com/smartsplit/smartsplit-backend/types"
)

// ExpenseServiceInterface defines the methods used by ExpenseHandler.
type ExpenseServiceInterface interface {
	CreateExpense(ctx context.Context, groupID, userID string, req *types.CreateExpenseRequest) (*types.Expense, error)
	GetExpense(ctx context.Context, groupID, expenseID, userID string) (*types.Expense, error)
	ListGroupExpenses(ctx context.Context, groupID, userID string) ([]types.Expense, error)
	DeleteExpense(ctx context.Context, groupID, expenseID, userID string) error
}

var _ ExpenseServiceInterface = (*services.ExpenseService)(nil)

type ExpenseHandler struct {
	expenseService ExpenseServiceInterface
}

func NewExpenseHandler(service ExpenseServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{expenseService: service}
}

// CreateExpenseHandler records a manual expense with explicit shares.
func (h *ExpenseHandler) CreateExpenseHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.CreateExpenseRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), groupID, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// ListExpensesHandler lists a group's expenses with their shares.
func (h *ExpenseHandler) ListExpensesHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	expenses, err := h.expenseService.ListGroupExpenses(c.Request.Context(), groupID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": expenses})
}

// GetExpenseHandler retrieves a single expense.
func (h *ExpenseHandler) GetExpenseHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	expenseID := c.Param("expenseID")
	if expenseID == "" || !isValidUUID(expenseID) {
		_ = c.Error(apperrors.ValidationFailed("Invalid expense ID", "a valid expense ID is required"))
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), groupID, expenseID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpenseHandler deletes a manual expense created by the caller.
func (h *ExpenseHandler) DeleteExpenseHandler(c *gin.Context) {
	groupID, ok := requireGroupID(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	expenseID := c.Param("expenseID")
	if expenseID == "" || !isValidUUID(expenseID) {
		_ = c.Error(apperrors.ValidationFailed("Invalid expense ID", "a valid expense ID is required"))
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), groupID, expenseID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
