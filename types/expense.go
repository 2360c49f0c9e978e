package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType distinguishes manually entered expenses from expenses
// generated by settling a batch of consumptions.
type ExpenseType string

const (
	// ExpenseTypeManual is a user-entered expense. Its shares must sum to
	// the expense total at creation time.
	ExpenseTypeManual ExpenseType = "manual"
	// ExpenseTypeSettlement is generated by the consumption settlement
	// converter. Its total is the amount actually paid (tip, service charge,
	// rounding included) and may differ from the sum of its shares.
	ExpenseTypeSettlement ExpenseType = "settlement"
)

// Expense represents a single payment event within a group, allocated
// across consuming members via shares.
type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId"`
	CreatedBy   string          `json:"createdBy"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ExpenseType ExpenseType     `json:"expenseType"`
	ExpenseDate time.Time       `json:"expenseDate"`
	Shares      []ExpenseShare  `json:"shares,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ExpenseShare states that a member consumed the given amount of an expense.
// At most one share per member per expense.
type ExpenseShare struct {
	ExpenseID      string          `json:"expenseId"`
	UserID         string          `json:"userId"`
	AmountConsumed decimal.Decimal `json:"amountConsumed"`
}

type CreateExpenseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	// TotalAmount uses a string to keep exact decimal semantics on the wire.
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
	// Shares maps user ID to the amount that user consumed. For manual
	// expenses the values must sum to TotalAmount.
	Shares map[string]decimal.Decimal `json:"shares" binding:"required"`
}

type CreateExpenseStoreParams struct {
	GroupID     string
	CreatedBy   string
	Title       string
	Description string
	TotalAmount decimal.Decimal
	ExpenseType ExpenseType
	Shares      []ExpenseShare
}
