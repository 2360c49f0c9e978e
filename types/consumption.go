package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Consumption is a single member's individual spending record, pending
// aggregation into an expense. Once settled it is immutable and carries a
// back-reference to the expense that settled it.
type Consumption struct {
	ID               string          `json:"id"`
	GroupID          string          `json:"groupId"`
	UserID           string          `json:"userId"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Category         string          `json:"category,omitempty"`
	IsSettled        bool            `json:"isSettled"`
	SettledInExpense *string         `json:"settledInExpense,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type AddConsumptionRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Category    string          `json:"category"`
}

type UpdateConsumptionRequest struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

// ConsumptionSummary is the per-member aggregation of a group's unsettled
// consumptions.
type ConsumptionSummary struct {
	UserID      string          `json:"userId"`
	DisplayName string          `json:"displayName,omitempty"`
	ItemsCount  int             `json:"itemsCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type SettleConsumptionsRequest struct {
	// TotalAmount is what the payer actually paid. It need not equal the sum
	// of the unsettled consumptions (tip, service charge, rounding).
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
	Description string          `json:"description"`
}

type SettleConsumptionsResponse struct {
	ExpenseID string `json:"expenseId"`
}
