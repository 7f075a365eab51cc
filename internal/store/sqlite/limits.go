package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"moneywise/internal/core"
)

func (r *Repository) ListLimits(ctx context.Context, s core.Session) ([]core.SpendingLimit, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, monthly_limit_cents
		FROM spending_limits
		WHERE user_id = ?
		ORDER BY category`, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("list limits: %w", err)
	}
	defer rows.Close()

	var out []core.SpendingLimit
	for rows.Next() {
		var l core.SpendingLimit
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Category, &l.MonthlyLimit.Cents); err != nil {
			return nil, fmt.Errorf("scan limit: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) SetLimit(ctx context.Context, s core.Session, category string, monthly core.Money) (core.SpendingLimit, error) {
	if err := s.Validate(); err != nil {
		return core.SpendingLimit{}, err
	}
	l := core.SpendingLimit{
		OwnerID:      s.UserID,
		Category:     strings.TrimSpace(category),
		MonthlyLimit: monthly,
	}
	if err := l.Validate(); err != nil {
		return core.SpendingLimit{}, err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO spending_limits (id, user_id, category, monthly_limit_cents)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, category) DO UPDATE
		SET monthly_limit_cents = excluded.monthly_limit_cents,
			updated_at = CURRENT_TIMESTAMP`,
		uuid.NewString(), l.OwnerID, l.Category, l.MonthlyLimit.Cents)
	if err != nil {
		return core.SpendingLimit{}, fmt.Errorf("upsert limit: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, monthly_limit_cents
		FROM spending_limits WHERE user_id = ? AND category = ?`,
		l.OwnerID, l.Category).
		Scan(&l.ID, &l.OwnerID, &l.Category, &l.MonthlyLimit.Cents)
	if err != nil {
		return core.SpendingLimit{}, fmt.Errorf("reload limit: %w", err)
	}

	slog.InfoContext(ctx, "Spending limit set",
		"category", l.Category, "limit_cents", l.MonthlyLimit.Cents)
	return l, nil
}

func (r *Repository) DeleteLimit(ctx context.Context, s core.Session, id string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		"DELETE FROM spending_limits WHERE id = ? AND user_id = ?", id, s.UserID)
	if err != nil {
		return fmt.Errorf("delete limit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
