package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/smartsplit/smartsplit-backend/types"
)

// SettlementResult is the outcome of settlement optimization. Residual is
// the total creditor-side imbalance the optimizer could not match against a
// debtor (or vice versa); it is zero whenever every expense in the snapshot
// was fully allocated.
type SettlementResult struct {
	Settlements []types.Settlement
	Residual    decimal.Decimal
}

// ComputeSettlements produces a minimal list of directed transfers that
// drive every balance to within ±Epsilon of zero, using greedy
// largest-balance matching. The result is bounded by len(balances)-1
// transfers and every emitted transfer has amount > Epsilon.
//
// If the balances do not sum to zero (unallocated remainder from
// partially-shared expenses), the optimizer settles what it can and reports
// the leftover as Residual rather than failing.
func ComputeSettlements(balances []types.Balance) SettlementResult {
	type party struct {
		userID    string
		name      string
		remaining decimal.Decimal
	}

	var creditors, debtors []party
	for _, b := range balances {
		switch {
		case b.Balance.GreaterThan(Epsilon):
			creditors = append(creditors, party{b.UserID, b.DisplayName, b.Balance})
		case b.Balance.LessThan(Epsilon.Neg()):
			debtors = append(debtors, party{b.UserID, b.DisplayName, b.Balance.Abs()})
		}
	}

	// Largest first; stable so equal balances keep their input order.
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].remaining.GreaterThan(creditors[j].remaining)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].remaining.GreaterThan(debtors[j].remaining)
	})

	var settlements []types.Settlement
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.remaining, debtor.remaining)

		if amount.GreaterThan(Epsilon) {
			settlements = append(settlements, types.Settlement{
				FromUserID: debtor.userID,
				FromName:   debtor.name,
				ToUserID:   creditor.userID,
				ToName:     creditor.name,
				Amount:     amount,
			})
			creditor.remaining = creditor.remaining.Sub(amount)
			debtor.remaining = debtor.remaining.Sub(amount)
		}

		if creditor.remaining.LessThanOrEqual(Epsilon) {
			i++
		}
		if debtor.remaining.LessThanOrEqual(Epsilon) {
			j++
		}
	}

	// Whatever is left on either side could not be matched.
	residual := decimal.Zero
	for ; i < len(creditors); i++ {
		residual = residual.Add(creditors[i].remaining)
	}
	for ; j < len(debtors); j++ {
		residual = residual.Add(debtors[j].remaining)
	}
	if residual.LessThanOrEqual(Epsilon) {
		residual = decimal.Zero
	}

	return SettlementResult{Settlements: settlements, Residual: residual}
}
