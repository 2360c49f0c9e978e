// Package ledger implements the balance-settlement engine: pure functions
// that reduce a group's ledger of payments and consumption shares into
// per-member net balances and a debt-minimizing set of settling transfers.
//
// The engine is synchronous and stateless. It performs no I/O and holds no
// cross-call state; callers supply a consistent ledger snapshot and are
// responsible for persistence and retries. All currency arithmetic uses
// decimal values, never binary floating point.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/smartsplit/smartsplit-backend/types"
)

// Epsilon is the zero-tolerance threshold for balance comparisons: one cent.
// A balance within ±Epsilon of zero is considered settled.
var Epsilon = decimal.New(1, -2)

// ComputeBalances reduces a group's expenses and their shares into one
// Balance per member. Every member in the provided list gets an entry, even
// with zero activity.
//
// Unknown-member policy: a payer or share referencing a user absent from the
// member list (removed member, data drift) is folded in under a placeholder
// entry rather than rejected, so a stale snapshot can never make balance
// computation fail. Placeholder entries have no display name.
func ComputeBalances(members []types.GroupMember, expenses []types.Expense) []types.Balance {
	acc := make(map[string]*types.Balance, len(members))
	order := make([]string, 0, len(members))

	ensure := func(userID string) *types.Balance {
		if b, ok := acc[userID]; ok {
			return b
		}
		b := &types.Balance{
			UserID:        userID,
			TotalPaid:     decimal.Zero,
			TotalConsumed: decimal.Zero,
			Balance:       decimal.Zero,
		}
		acc[userID] = b
		order = append(order, userID)
		return b
	}

	for _, m := range members {
		b := ensure(m.UserID)
		b.DisplayName = m.DisplayName
	}

	for _, e := range expenses {
		payer := ensure(e.CreatedBy)
		payer.TotalPaid = payer.TotalPaid.Add(e.TotalAmount)

		for _, s := range e.Shares {
			consumer := ensure(s.UserID)
			consumer.TotalConsumed = consumer.TotalConsumed.Add(s.AmountConsumed)
		}
	}

	balances := make([]types.Balance, 0, len(order))
	for _, userID := range order {
		b := acc[userID]
		b.Balance = b.TotalPaid.Sub(b.TotalConsumed)
		balances = append(balances, *b)
	}
	return balances
}

// ConsumptionTotals groups a batch of consumptions by member and sums their
// amounts. This is the per-member total used both for the consumption
// summary view and as the share amounts when the batch is settled into an
// expense. Members with no consumptions are omitted.
func ConsumptionTotals(consumptions []types.Consumption) []types.ConsumptionSummary {
	totals := make(map[string]*types.ConsumptionSummary)
	order := make([]string, 0)

	for _, c := range consumptions {
		s, ok := totals[c.UserID]
		if !ok {
			s = &types.ConsumptionSummary{
				UserID:      c.UserID,
				TotalAmount: decimal.Zero,
			}
			totals[c.UserID] = s
			order = append(order, c.UserID)
		}
		s.ItemsCount++
		s.TotalAmount = s.TotalAmount.Add(c.Amount)
	}

	out := make([]types.ConsumptionSummary, 0, len(order))
	for _, userID := range order {
		out = append(out, *totals[userID])
	}
	return out
}
