package services

import (
	"context"
	"testing"
	"time"

	"moneywise/internal/core"
	"moneywise/internal/stats"
	"moneywise/internal/store/memory"
)

func TestWithCurrentSpend(t *testing.T) {
	repo := memory.New()
	svc := NewLimitService(repo, repo)
	ctx := context.Background()
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)

	if _, err := repo.SetLimit(ctx, testSession, "Alimentari", core.Money{Cents: 10000}); err != nil {
		t.Fatalf("SetLimit: %v", err)
	}

	add := func(title string, cents int64, date core.Date, recurring bool) {
		tx := core.Transaction{
			Title:    title,
			Amount:   core.Money{Cents: cents},
			Category: "Alimentari",
			Type:     core.TypeExpense,
			Date:     date,
		}
		if recurring {
			tx.IsRecurring = true
			tx.RecurringPeriod = core.PeriodMonthly
		}
		if _, err := repo.CreateTransaction(ctx, testSession, tx); err != nil {
			t.Fatalf("CreateTransaction %s: %v", title, err)
		}
	}

	add("spesa 1", 7000, core.NewDate(2025, 6, 5), false)
	add("spesa 2", 5000, core.NewDate(2025, 6, 18), false)
	// Outside the month window.
	add("maggio", 9000, core.NewDate(2025, 5, 30), false)
	// Recurring template never counts as spend.
	add("template", 4000, core.NewDate(2025, 6, 10), true)

	statuses, err := svc.WithCurrentSpend(ctx, testSession, now)
	if err != nil {
		t.Fatalf("WithCurrentSpend: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses, want 1", len(statuses))
	}

	st := statuses[0]
	if st.Spent.Cents != 12000 {
		t.Fatalf("Spent = %d, want 12000", st.Spent.Cents)
	}
	if st.Percentage != 120 {
		t.Fatalf("Percentage = %v, want 120", st.Percentage)
	}
	if st.Warning != stats.WarnExceeded {
		t.Fatalf("Warning = %q, want exceeded", st.Warning)
	}
}

func TestWithCurrentSpendZeroSpend(t *testing.T) {
	repo := memory.New()
	svc := NewLimitService(repo, repo)
	ctx := context.Background()

	if _, err := repo.SetLimit(ctx, testSession, "Viaggi", core.Money{Cents: 50000}); err != nil {
		t.Fatalf("SetLimit: %v", err)
	}

	statuses, err := svc.WithCurrentSpend(ctx, testSession, time.Now())
	if err != nil {
		t.Fatalf("WithCurrentSpend: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses, want 1", len(statuses))
	}
	if statuses[0].Spent.Cents != 0 || statuses[0].Percentage != 0 || statuses[0].Warning != stats.WarnNone {
		t.Fatalf("zero spend status = %+v", statuses[0])
	}
}
