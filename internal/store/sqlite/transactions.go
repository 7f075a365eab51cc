package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"moneywise/internal/core"
	"moneywise/internal/store"
)

const transactionColumns = `id, user_id, title, amount_cents, category,
	transaction_type, date, description, is_recurring, recurring_period, expense_type`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t       core.Transaction
		date    string
		period  sql.NullString
		expense sql.NullString
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Amount.Cents, &t.Category,
		&t.Type, &date, &t.Description, &t.IsRecurring, &period, &expense)
	if err != nil {
		return core.Transaction{}, err
	}

	t.Date, err = core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	if period.Valid {
		t.RecurringPeriod = core.RecurringPeriod(period.String)
	}
	if expense.Valid {
		t.ExpenseType = core.ExpenseType(expense.String)
	}
	// Legacy rows may lack an expense type; Normalize maps them to
	// personal so readers never see a blank one on an expense.
	return t.Normalize(), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *Repository) CreateTransaction(ctx context.Context, s core.Session, t core.Transaction) (core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t = t.Normalize()
	t.ID = uuid.NewString()
	t.OwnerID = s.UserID

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, title, amount_cents, category,
			transaction_type, date, description, is_recurring, recurring_period, expense_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Title, t.Amount.Cents, t.Category,
		t.Type, t.Date.ISO(), t.Description, t.IsRecurring,
		nullable(string(t.RecurringPeriod)), nullable(string(t.ExpenseType)))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", t.ID, "type", t.Type, "category", t.Category, "recurring", t.IsRecurring)
	return t, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, s core.Session, id string, t core.Transaction) (core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t = t.Normalize()
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET title = ?, amount_cents = ?, category = ?, transaction_type = ?,
			date = ?, description = ?, is_recurring = ?, recurring_period = ?,
			expense_type = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		t.Title, t.Amount.Cents, t.Category, t.Type,
		t.Date.ISO(), t.Description, t.IsRecurring,
		nullable(string(t.RecurringPeriod)), nullable(string(t.ExpenseType)),
		id, s.UserID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	t.ID = id
	t.OwnerID = s.UserID
	return t, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, s core.Session, id string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?", id, s.UserID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func (r *Repository) GetTransaction(ctx context.Context, s core.Session, id string) (core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return core.Transaction{}, err
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?",
		id, s.UserID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *Repository) ListRecentTransactions(ctx context.Context, s core.Session, limit int) ([]core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+` FROM transactions
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ?`, s.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *Repository) ListTransactionsForPeriod(ctx context.Context, s core.Session, start, end core.Date, f store.TransactionFilter) ([]core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	query := "SELECT " + transactionColumns + ` FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?`
	args := []any{s.UserID, start.ISO(), end.ISO()}
	if f.Type != nil {
		query += " AND transaction_type = ?"
		args = append(args, *f.Type)
	}
	if f.IsRecurring != nil {
		query += " AND is_recurring = ?"
		args = append(args, *f.IsRecurring)
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	query += " ORDER BY date ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions for period: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
