package types

import "github.com/shopspring/decimal"

// Balance is a member's net position within a group: total paid minus total
// consumed. Derived on demand, never persisted.
type Balance struct {
	UserID        string          `json:"userId"`
	DisplayName   string          `json:"displayName,omitempty"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalConsumed decimal.Decimal `json:"totalConsumed"`
	// Balance is TotalPaid - TotalConsumed. Positive means the member is
	// owed money, negative means the member owes money.
	Balance decimal.Decimal `json:"balance"`
}

// Settlement is a suggested directed transfer that reduces one debtor's and
// one creditor's balance toward zero.
type Settlement struct {
	FromUserID string          `json:"fromUserId"`
	FromName   string          `json:"fromName,omitempty"`
	ToUserID   string          `json:"toUserId"`
	ToName     string          `json:"toName,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// GroupBalancesResponse is the combined balances-and-settlements result for
// a group, plus any residual imbalance the optimizer could not resolve.
type GroupBalancesResponse struct {
	GroupID     string          `json:"groupId"`
	Balances    []Balance       `json:"balances"`
	Settlements []Settlement    `json:"settlements"`
	Residual    decimal.Decimal `json:"residual"`
}
