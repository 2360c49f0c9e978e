package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/smartsplit/smartsplit-backend/internal/store"
	"github.com/smartsplit/smartsplit-backend/types"
)

// ExpenseStore implements store.ExpenseStore using PostgreSQL.
type ExpenseStore struct {
	db DB
}

var _ store.ExpenseStore = (*ExpenseStore)(nil)

// NewExpenseStore creates a new ExpenseStore instance.
func NewExpenseStore(db DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

// CreateExpense inserts the expense and its shares in one transaction, so
// the ledger never exposes an expense without its shares.
func (s *ExpenseStore) CreateExpense(ctx context.Context, params types.CreateExpenseStoreParams) (string, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO expenses (group_id, created_by, title, description, total_amount, expense_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id string
	err = tx.QueryRow(ctx, query,
		params.GroupID,
		params.CreatedBy,
		params.Title,
		params.Description,
		params.TotalAmount,
		params.ExpenseType,
	).Scan(&id)
	if err != nil {
		return "", err
	}

	for _, share := range params.Shares {
		_, err = tx.Exec(ctx, `
			INSERT INTO expense_shares (expense_id, user_id, amount_consumed)
			VALUES ($1, $2, $3)`,
			id, share.UserID, share.AmountConsumed,
		)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// GetExpense retrieves an expense with its shares.
func (s *ExpenseStore) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	query := `
		SELECT id, group_id, created_by, title, description, total_amount,
		       expense_type, expense_date, created_at, updated_at
		FROM expenses
		WHERE id = $1`

	expense := &types.Expense{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.CreatedBy,
		&expense.Title,
		&expense.Description,
		&expense.TotalAmount,
		&expense.ExpenseType,
		&expense.ExpenseDate,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	shares, err := s.listShares(ctx, s.db, []string{expense.ID})
	if err != nil {
		return nil, err
	}
	expense.Shares = shares[expense.ID]
	return expense, nil
}

// ListGroupExpenses returns all of a group's expenses with their shares.
// Both queries run inside one repeatable-read transaction so the balance
// calculator receives a consistent snapshot: an expense is never visible
// without the shares committed with it.
func (s *ExpenseStore) ListGroupExpenses(ctx context.Context, groupID string) ([]types.Expense, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SET TRANSACTION ISOLATION LEVEL REPEATABLE READ`); err != nil {
		return nil, err
	}

	query := `
		SELECT id, group_id, created_by, title, description, total_amount,
		       expense_type, expense_date, created_at, updated_at
		FROM expenses
		WHERE group_id = $1
		ORDER BY created_at DESC`

	rows, err := tx.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}

	var expenses []types.Expense
	var ids []string
	for rows.Next() {
		var e types.Expense
		err := rows.Scan(&e.ID, &e.GroupID, &e.CreatedBy, &e.Title, &e.Description,
			&e.TotalAmount, &e.ExpenseType, &e.ExpenseDate, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			rows.Close()
			return nil, err
		}
		expenses = append(expenses, e)
		ids = append(ids, e.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		shares, err := s.listShares(ctx, tx, ids)
		if err != nil {
			return nil, err
		}
		for i := range expenses {
			expenses[i].Shares = shares[expenses[i].ID]
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return expenses, nil
}

// querier is satisfied by both DB and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *ExpenseStore) listShares(ctx context.Context, q querier, expenseIDs []string) (map[string][]types.ExpenseShare, error) {
	query := `
		SELECT expense_id, user_id, amount_consumed
		FROM expense_shares
		WHERE expense_id = ANY($1)
		ORDER BY expense_id, user_id`

	rows, err := q.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shares := make(map[string][]types.ExpenseShare)
	for rows.Next() {
		var sh types.ExpenseShare
		if err := rows.Scan(&sh.ExpenseID, &sh.UserID, &sh.AmountConsumed); err != nil {
			return nil, err
		}
		shares[sh.ExpenseID] = append(shares[sh.ExpenseID], sh)
	}
	return shares, rows.Err()
}

// DeleteExpense removes an expense; its shares cascade.
func (s *ExpenseStore) DeleteExpense(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
