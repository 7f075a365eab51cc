package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"moneywise/internal/core"
	"moneywise/internal/store"
)

func (r *Repository) ListCategories(ctx context.Context, s core.Session) ([]core.Category, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, color, icon, is_default
		FROM user_categories
		WHERE user_id = ?
		ORDER BY name`, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Color, &c.Icon, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) AddCategory(ctx context.Context, s core.Session, c core.Category) (core.Category, error) {
	if err := s.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	c.ID = uuid.NewString()
	c.OwnerID = s.UserID
	c.Name = strings.TrimSpace(c.Name)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_categories (id, user_id, name, color, icon, is_default)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, c.Color, c.Icon, c.IsDefault)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	slog.InfoContext(ctx, "Category added", "id", c.ID, "name", c.Name)
	return c, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, s core.Session, id string, p store.CategoryPatch) (core.Category, error) {
	if err := s.Validate(); err != nil {
		return core.Category{}, err
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return core.Category{}, core.ErrEmptyName
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if p.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *p.Color)
	}
	if p.Icon != nil {
		sets = append(sets, "icon = ?")
		args = append(args, *p.Icon)
	}
	if len(sets) > 0 {
		args = append(args, id, s.UserID)
		res, err := r.db.ExecContext(ctx,
			"UPDATE user_categories SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
			args...)
		if err != nil {
			return core.Category{}, fmt.Errorf("update category: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.Category{}, core.ErrNotFound
		}
	}

	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, color, icon, is_default
		FROM user_categories WHERE id = ? AND user_id = ?`, id, s.UserID).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Color, &c.Icon, &c.IsDefault)
	if err != nil {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, s core.Session, id string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		"DELETE FROM user_categories WHERE id = ? AND user_id = ?", id, s.UserID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *Repository) InitializeDefaultCategories(ctx context.Context, s core.Session) ([]core.Category, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	existing, err := r.ListCategories(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin defaults transaction: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range core.DefaultCatalog {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_categories (id, user_id, name, color, icon, is_default)
			VALUES (?, ?, ?, ?, ?, 1)`,
			uuid.NewString(), s.UserID, entry.Name, entry.Color, entry.Icon); err != nil {
			return nil, fmt.Errorf("insert default category %q: %w", entry.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit defaults: %w", err)
	}

	slog.InfoContext(ctx, "Default categories initialized",
		"owner", s.UserID, "count", len(core.DefaultCatalog))
	return r.ListCategories(ctx, s)
}
