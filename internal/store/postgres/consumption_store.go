package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/types"
)

// ConsumptionStore implements store.ConsumptionStore using PostgreSQL.
type ConsumptionStore struct {
	db DB
}

var _ store.ConsumptionStore = (*ConsumptionStore)(nil)

// NewConsumptionStore creates a new ConsumptionStore instance.
func NewConsumptionStore(db DB) *ConsumptionStore {
	return &ConsumptionStore{db: db}
}

// AddConsumption inserts a new unsettled consumption record.
func (s *ConsumptionStore) AddConsumption(ctx context.Context, consumption *types.Consumption) (string, error) {
	query := `
		INSERT INTO consumptions (group_id, user_id, description, amount, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		consumption.GroupID,
		consumption.UserID,
		consumption.Description,
		consumption.Amount,
		consumption.Category,
	).Scan(&consumption.ID, &consumption.CreatedAt, &consumption.UpdatedAt)
	if err != nil {
		return "", err
	}
	return consumption.ID, nil
}

// GetConsumption retrieves a consumption by ID.
func (s *ConsumptionStore) GetConsumption(ctx context.Context, id string) (*types.Consumption, error) {
	query := `
		SELECT id, group_id, user_id, description, amount, category,
		       is_settled, settled_in_expense, created_at, updated_at
		FROM consumptions
		WHERE id = $1`

	c := &types.Consumption{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.GroupID, &c.UserID, &c.Description, &c.Amount, &c.Category,
		&c.IsSettled, &c.SettledInExpense, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListGroupConsumptions returns a group's consumptions, newest first. By
// default only unsettled records are returned.
func (s *ConsumptionStore) ListGroupConsumptions(ctx context.Context, groupID string, includeSettled bool) ([]types.Consumption, error) {
	query := `
		SELECT id, group_id, user_id, description, amount, category,
		       is_settled, settled_in_expense, created_at, updated_at
		FROM consumptions
		WHERE group_id = $1 AND (is_settled = false OR $2)
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, groupID, includeSettled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var consumptions []types.Consumption
	for rows.Next() {
		var c types.Consumption
		err := rows.Scan(&c.ID, &c.GroupID, &c.UserID, &c.Description, &c.Amount,
			&c.Category, &c.IsSettled, &c.SettledInExpense, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		consumptions = append(consumptions, c)
	}
	return consumptions, rows.Err()
}

// UpdateConsumption applies the non-nil fields of the update. Settled rows
// are immutable and only the owner may edit, both enforced in the WHERE
// clause, so a stale edit simply finds no row.
func (s *ConsumptionStore) UpdateConsumption(ctx context.Context, id, userID string, update *types.UpdateConsumptionRequest) (*types.Consumption, error) {
	query := `
		UPDATE consumptions
		SET description = COALESCE($3, description),
		    amount = COALESCE($4, amount),
		    category = COALESCE($5, category),
		    updated_at = now()
		WHERE id = $1 AND user_id = $2 AND is_settled = false
		RETURNING id, group_id, user_id, description, amount, category,
		          is_settled, settled_in_expense, created_at, updated_at`

	c := &types.Consumption{}
	err := s.db.QueryRow(ctx, query, id, userID,
		update.Description, update.Amount, update.Category,
	).Scan(
		&c.ID, &c.GroupID, &c.UserID, &c.Description, &c.Amount, &c.Category,
		&c.IsSettled, &c.SettledInExpense, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// DeleteConsumption removes an unsettled consumption owned by userID.
func (s *ConsumptionStore) DeleteConsumption(ctx context.Context, id, userID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM consumptions WHERE id = $1 AND user_id = $2 AND is_settled = false`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SettleConsumptions converts the supplied consumption batch into a
// settlement expense with one share per consuming member, then marks the
// source rows settled with a back-reference to the new expense.
//
// Everything runs in a single transaction, and the settle-mark is a
// compare-and-swap: it only touches rows still unsettled and only the rows
// the caller read. If a concurrent settlement won the race, the affected-row
// count comes up short and the whole transaction rolls back with
// ErrConflict, so no consumption can ever be settled twice and no expense
// is left behind without shares.
func (s *ConsumptionStore) SettleConsumptions(ctx context.Context, params store.SettleConsumptionsParams) (string, error) {
	if len(params.ConsumptionIDs) == 0 {
		return "", store.ErrNothingToSettle
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var expenseID string
	err = tx.QueryRow(ctx, `
		INSERT INTO expenses (group_id, created_by, title, description, total_amount, expense_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		params.GroupID,
		params.PaidBy,
		params.Title,
		params.Description,
		params.TotalAmount,
		types.ExpenseTypeSettlement,
	).Scan(&expenseID)
	if err != nil {
		return "", err
	}

	for _, share := range params.Shares {
		_, err = tx.Exec(ctx, `
			INSERT INTO expense_shares (expense_id, user_id, amount_consumed)
			VALUES ($1, $2, $3)`,
			expenseID, share.UserID, share.AmountConsumed,
		)
		if err != nil {
			return "", err
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE consumptions
		SET is_settled = true, settled_in_expense = $1, updated_at = now()
		WHERE group_id = $2 AND is_settled = false AND id = ANY($3)`,
		expenseID, params.GroupID, params.ConsumptionIDs,
	)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() != int64(len(params.ConsumptionIDs)) {
		// A concurrent settlement already claimed some of these rows.
		return "", store.ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return expenseID, nil
}
