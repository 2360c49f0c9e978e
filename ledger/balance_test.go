package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsplit/smartsplit-backend/types"
)

func member(userID, name string) types.GroupMember {
	return types.GroupMember{
		GroupID:     "group-1",
		UserID:      userID,
		Role:        types.MemberRoleMember,
		DisplayName: name,
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func expense(payer string, total string, shares map[string]string) types.Expense {
	e := types.Expense{
		GroupID:     "group-1",
		CreatedBy:   payer,
		TotalAmount: dec(total),
		ExpenseType: types.ExpenseTypeManual,
	}
	for userID, amount := range shares {
		e.Shares = append(e.Shares, types.ExpenseShare{
			UserID:         userID,
			AmountConsumed: dec(amount),
		})
	}
	return e
}

func balanceByUser(t *testing.T, balances []types.Balance, userID string) types.Balance {
	t.Helper()
	for _, b := range balances {
		if b.UserID == userID {
			return b
		}
	}
	t.Fatalf("no balance for user %s", userID)
	return types.Balance{}
}

func TestComputeBalances_TwoMembers(t *testing.T) {
	// A pays 30.00, consuming 10.00 with B consuming 20.00.
	members := []types.GroupMember{member("alice", "Alice"), member("bob", "Bob")}
	expenses := []types.Expense{
		expense("alice", "30.00", map[string]string{"alice": "10.00", "bob": "20.00"}),
	}

	balances := ComputeBalances(members, expenses)
	require.Len(t, balances, 2)

	alice := balanceByUser(t, balances, "alice")
	bob := balanceByUser(t, balances, "bob")

	assert.True(t, alice.TotalPaid.Equal(dec("30.00")))
	assert.True(t, alice.TotalConsumed.Equal(dec("10.00")))
	assert.True(t, alice.Balance.Equal(dec("20.00")))

	assert.True(t, bob.TotalPaid.Equal(decimal.Zero))
	assert.True(t, bob.TotalConsumed.Equal(dec("20.00")))
	assert.True(t, bob.Balance.Equal(dec("-20.00")))
}

func TestComputeBalances_EvenThreeWaySplit(t *testing.T) {
	members := []types.GroupMember{
		member("alice", "Alice"), member("bob", "Bob"), member("carol", "Carol"),
	}
	expenses := []types.Expense{
		expense("alice", "90.00", map[string]string{
			"alice": "30.00", "bob": "30.00", "carol": "30.00",
		}),
	}

	balances := ComputeBalances(members, expenses)
	require.Len(t, balances, 3)
	assert.True(t, balanceByUser(t, balances, "alice").Balance.Equal(dec("60.00")))
	assert.True(t, balanceByUser(t, balances, "bob").Balance.Equal(dec("-30.00")))
	assert.True(t, balanceByUser(t, balances, "carol").Balance.Equal(dec("-30.00")))
}

func TestComputeBalances_SingleMemberGroup(t *testing.T) {
	members := []types.GroupMember{member("alice", "Alice")}

	balances := ComputeBalances(members, nil)
	require.Len(t, balances, 1)
	assert.True(t, balances[0].Balance.IsZero())
	assert.True(t, balances[0].TotalPaid.IsZero())
	assert.True(t, balances[0].TotalConsumed.IsZero())
}

func TestComputeBalances_MembersWithoutActivityGetZeroEntries(t *testing.T) {
	members := []types.GroupMember{
		member("alice", "Alice"), member("bob", "Bob"), member("idle", "Idle"),
	}
	expenses := []types.Expense{
		expense("alice", "10.00", map[string]string{"bob": "10.00"}),
	}

	balances := ComputeBalances(members, expenses)
	require.Len(t, balances, 3)

	idle := balanceByUser(t, balances, "idle")
	assert.True(t, idle.Balance.IsZero())
}

func TestComputeBalances_UnknownMemberFoldsIntoPlaceholder(t *testing.T) {
	// A share referencing a user missing from the member list (removed
	// member, data drift) must not fail the computation; it gets a
	// placeholder entry with no display name.
	members := []types.GroupMember{member("alice", "Alice")}
	expenses := []types.Expense{
		expense("alice", "25.00", map[string]string{"alice": "10.00", "ghost": "15.00"}),
	}

	balances := ComputeBalances(members, expenses)
	require.Len(t, balances, 2)

	ghost := balanceByUser(t, balances, "ghost")
	assert.Empty(t, ghost.DisplayName)
	assert.True(t, ghost.Balance.Equal(dec("-15.00")))
	assert.True(t, balanceByUser(t, balances, "alice").Balance.Equal(dec("15.00")))
}

func TestComputeBalances_UnknownPayerFoldsIntoPlaceholder(t *testing.T) {
	members := []types.GroupMember{member("alice", "Alice")}
	expenses := []types.Expense{
		expense("ghost", "12.00", map[string]string{"alice": "12.00"}),
	}

	balances := ComputeBalances(members, expenses)
	require.Len(t, balances, 2)
	assert.True(t, balanceByUser(t, balances, "ghost").Balance.Equal(dec("12.00")))
}

func TestComputeBalances_ZeroSumInvariant(t *testing.T) {
	// When every expense is fully allocated, total paid equals total
	// consumed across the group and balances sum to zero.
	members := []types.GroupMember{
		member("alice", "Alice"), member("bob", "Bob"), member("carol", "Carol"),
	}
	expenses := []types.Expense{
		expense("alice", "90.00", map[string]string{"alice": "30.00", "bob": "30.00", "carol": "30.00"}),
		expense("bob", "14.50", map[string]string{"alice": "7.25", "carol": "7.25"}),
		expense("carol", "100.00", map[string]string{"alice": "33.33", "bob": "33.33", "carol": "33.34"}),
	}

	balances := ComputeBalances(members, expenses)

	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Balance)
	}
	assert.True(t, sum.Abs().LessThanOrEqual(Epsilon), "sum of balances was %s", sum)
}

func TestComputeBalances_Idempotent(t *testing.T) {
	members := []types.GroupMember{member("alice", "Alice"), member("bob", "Bob")}
	expenses := []types.Expense{
		expense("alice", "30.00", map[string]string{"alice": "10.00", "bob": "20.00"}),
	}

	first := ComputeBalances(members, expenses)
	second := ComputeBalances(members, expenses)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].UserID, second[i].UserID)
		assert.True(t, first[i].Balance.Equal(second[i].Balance))
		assert.True(t, first[i].TotalPaid.Equal(second[i].TotalPaid))
		assert.True(t, first[i].TotalConsumed.Equal(second[i].TotalConsumed))
	}
}

func TestConsumptionTotals(t *testing.T) {
	consumptions := []types.Consumption{
		{UserID: "alice", Amount: dec("4.50")},
		{UserID: "bob", Amount: dec("8.00")},
		{UserID: "alice", Amount: dec("7.50")},
	}

	totals := ConsumptionTotals(consumptions)
	require.Len(t, totals, 2)

	assert.Equal(t, "alice", totals[0].UserID)
	assert.Equal(t, 2, totals[0].ItemsCount)
	assert.True(t, totals[0].TotalAmount.Equal(dec("12.00")))

	assert.Equal(t, "bob", totals[1].UserID)
	assert.Equal(t, 1, totals[1].ItemsCount)
	assert.True(t, totals[1].TotalAmount.Equal(dec("8.00")))
}

func TestConsumptionTotals_Empty(t *testing.T) {
	assert.Empty(t, ConsumptionTotals(nil))
}
