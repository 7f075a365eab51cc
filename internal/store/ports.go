// Package store defines the repository ports every backend implements.
// Each call takes the owning session explicitly; there is no ambient
// auth state. Mutations scoped to a missing or foreign record return
// core.ErrNotFound rather than touching other owners' rows.
package store

import (
	"context"

	"moneywise/internal/core"
)

// CategoryPatch carries partial category updates; nil fields are left
// unchanged.
type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
}

// TransactionFilter narrows period listings with equality filters.
type TransactionFilter struct {
	Type        *core.TransactionType
	IsRecurring *bool
	Category    string
}

type (
	CategoryRepository interface {
		// ListCategories returns the owner's categories ordered by name.
		ListCategories(ctx context.Context, s core.Session) ([]core.Category, error)
		AddCategory(ctx context.Context, s core.Session, c core.Category) (core.Category, error)
		UpdateCategory(ctx context.Context, s core.Session, id string, p CategoryPatch) (core.Category, error)
		DeleteCategory(ctx context.Context, s core.Session, id string) error
		// InitializeDefaultCategories bulk-inserts the fixed catalog
		// when the owner has zero categories; otherwise it is a no-op
		// returning the existing list.
		InitializeDefaultCategories(ctx context.Context, s core.Session) ([]core.Category, error)
	}

	TransactionRepository interface {
		CreateTransaction(ctx context.Context, s core.Session, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, s core.Session, id string, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, s core.Session, id string) error
		GetTransaction(ctx context.Context, s core.Session, id string) (core.Transaction, error)
		// ListRecentTransactions returns up to limit transactions
		// ordered by date descending.
		ListRecentTransactions(ctx context.Context, s core.Session, limit int) ([]core.Transaction, error)
		// ListTransactionsForPeriod returns transactions with
		// start <= date < end.
		ListTransactionsForPeriod(ctx context.Context, s core.Session, start, end core.Date, f TransactionFilter) ([]core.Transaction, error)
	}

	GoalRepository interface {
		CreateGoal(ctx context.Context, s core.Session, g core.Goal) (core.Goal, error)
		UpdateGoal(ctx context.Context, s core.Session, id string, g core.Goal) (core.Goal, error)
		DeleteGoal(ctx context.Context, s core.Session, id string) error
		// ListGoals returns the owner's goals ordered by target date.
		ListGoals(ctx context.Context, s core.Session) ([]core.Goal, error)
		// ContributeToGoal atomically adds delta to the current amount,
		// clamped to the target, and recomputes completion.
		ContributeToGoal(ctx context.Context, s core.Session, id string, delta core.Money) (core.Goal, error)
	}

	LimitRepository interface {
		ListLimits(ctx context.Context, s core.Session) ([]core.SpendingLimit, error)
		// SetLimit upserts on (owner, category): a second call for the
		// same category replaces the limit instead of erroring.
		SetLimit(ctx context.Context, s core.Session, category string, monthly core.Money) (core.SpendingLimit, error)
		DeleteLimit(ctx context.Context, s core.Session, id string) error
	}

	UserRepository interface {
		CreateUser(ctx context.Context, u core.User, passwordHash string) (core.User, error)
		// UserByEmail returns the user and stored password hash.
		UserByEmail(ctx context.Context, email string) (core.User, string, error)
	}

	// Backend is the full set of repositories a data backend provides.
	Backend interface {
		CategoryRepository
		TransactionRepository
		GoalRepository
		LimitRepository
		UserRepository
		Close() error
	}
)
