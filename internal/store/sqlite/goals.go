package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"moneywise/internal/core"
)

const goalColumns = `id, user_id, title, description, target_cents,
	current_cents, target_date, category, is_completed`

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var (
		g    core.Goal
		date string
	)
	err := row.Scan(&g.ID, &g.OwnerID, &g.Title, &g.Description,
		&g.TargetAmount.Cents, &g.CurrentAmount.Cents, &date, &g.Category, &g.IsCompleted)
	if err != nil {
		return core.Goal{}, err
	}
	g.TargetDate, err = core.ParseDate(date)
	if err != nil {
		return core.Goal{}, fmt.Errorf("stored target date %q: %w", date, err)
	}
	return g, nil
}

func (r *Repository) CreateGoal(ctx context.Context, s core.Session, g core.Goal) (core.Goal, error) {
	if err := s.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	g = g.Recomputed()
	g.ID = uuid.NewString()
	g.OwnerID = s.UserID

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO financial_goals (id, user_id, title, description,
			target_cents, current_cents, target_date, category, is_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.OwnerID, g.Title, g.Description,
		g.TargetAmount.Cents, g.CurrentAmount.Cents, g.TargetDate.ISO(), g.Category, g.IsCompleted)
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal created", "id", g.ID, "title", g.Title)
	return g, nil
}

func (r *Repository) UpdateGoal(ctx context.Context, s core.Session, id string, g core.Goal) (core.Goal, error) {
	if err := s.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	g = g.Recomputed()
	res, err := r.db.ExecContext(ctx, `
		UPDATE financial_goals
		SET title = ?, description = ?, target_cents = ?, current_cents = ?,
			target_date = ?, category = ?, is_completed = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		g.Title, g.Description, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.TargetDate.ISO(), g.Category, g.IsCompleted,
		id, s.UserID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Goal{}, core.ErrNotFound
	}

	g.ID = id
	g.OwnerID = s.UserID
	return g, nil
}

func (r *Repository) DeleteGoal(ctx context.Context, s core.Session, id string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		"DELETE FROM financial_goals WHERE id = ? AND user_id = ?", id, s.UserID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *Repository) ListGoals(ctx context.Context, s core.Session) ([]core.Goal, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+goalColumns+` FROM financial_goals
		WHERE user_id = ?
		ORDER BY target_date ASC, created_at ASC`, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) ContributeToGoal(ctx context.Context, s core.Session, id string, delta core.Money) (core.Goal, error) {
	if err := s.Validate(); err != nil {
		return core.Goal{}, err
	}
	if delta.Cents <= 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}

	// Single statement so concurrent contributions never lose an
	// update; the clamp and completion flag are computed in SQL.
	res, err := r.db.ExecContext(ctx, `
		UPDATE financial_goals
		SET current_cents = MIN(current_cents + ?, target_cents),
			is_completed = CASE WHEN current_cents + ? >= target_cents THEN 1 ELSE 0 END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		delta.Cents, delta.Cents, id, s.UserID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("contribute to goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Goal{}, core.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM financial_goals WHERE id = ? AND user_id = ?",
		id, s.UserID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("reload goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal contribution applied",
		"id", id, "delta_cents", delta.Cents, "completed", g.IsCompleted)
	return g, nil
}
