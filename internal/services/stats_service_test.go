package services

import (
	"context"
	"testing"
	"time"

	"moneywise/internal/core"
	"moneywise/internal/stats"
	"moneywise/internal/store/memory"
)

func TestDashboard(t *testing.T) {
	repo := memory.New()
	svc := NewStatsService(repo, repo, repo)
	ctx := context.Background()
	// June 10th: 300 euro spent over 10 days projects to 900 over 30.
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	if _, err := repo.CreateTransaction(ctx, testSession, core.Transaction{
		Title:    "Spesa",
		Amount:   core.Money{Cents: 30000},
		Category: "Alimentari",
		Type:     core.TypeExpense,
		Date:     core.NewDate(2025, 6, 5),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if _, err := repo.CreateTransaction(ctx, testSession, core.Transaction{
		Title:    "Stipendio",
		Amount:   core.Money{Cents: 200000},
		Category: "Stipendio",
		Type:     core.TypeIncome,
		Date:     core.NewDate(2025, 6, 1),
	}); err != nil {
		t.Fatalf("CreateTransaction income: %v", err)
	}

	if _, err := repo.CreateGoal(ctx, testSession, core.Goal{
		Title:        "Fondo emergenze",
		TargetAmount: core.Money{Cents: 100000},
		TargetDate:   core.NewDate(2025, 12, 31),
		Category:     "Risparmio",
	}); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	d, err := svc.Dashboard(ctx, testSession, now)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if d.MonthlySpent.Cents != 30000 {
		t.Fatalf("MonthlySpent = %d, want 30000 (income must not count)", d.MonthlySpent.Cents)
	}
	if d.Budget.Cents != 100000 {
		t.Fatalf("Budget = %d, want 100000", d.Budget.Cents)
	}
	if d.Remaining.Cents != 70000 {
		t.Fatalf("Remaining = %d, want 70000", d.Remaining.Cents)
	}
	if d.Projection.Projected != 900 {
		t.Fatalf("Projected = %v, want 900", d.Projection.Projected)
	}
	if d.Projection.OverBudget {
		t.Fatal("900 projected against 1000 budget must not be over budget")
	}
	if len(d.Recent) != 2 {
		t.Fatalf("Recent = %d entries, want 2", len(d.Recent))
	}
}

func TestStatsViewYearPeriod(t *testing.T) {
	repo := memory.New()
	svc := NewStatsService(repo, repo, repo)
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	for _, d := range []core.Date{
		core.NewDate(2025, 2, 1),
		core.NewDate(2025, 6, 1),
	} {
		if _, err := repo.CreateTransaction(ctx, testSession, core.Transaction{
			Title:    "Spesa",
			Amount:   core.Money{Cents: 1000},
			Category: "Alimentari",
			Type:     core.TypeExpense,
			Date:     d,
		}); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	month, err := svc.View(ctx, testSession, stats.PeriodMonth, now)
	if err != nil {
		t.Fatalf("View month: %v", err)
	}
	if month.Total.Cents != 1000 {
		t.Fatalf("month total = %d, want 1000", month.Total.Cents)
	}

	year, err := svc.View(ctx, testSession, stats.PeriodYear, now)
	if err != nil {
		t.Fatalf("View year: %v", err)
	}
	if year.Total.Cents != 2000 {
		t.Fatalf("year total = %d, want 2000", year.Total.Cents)
	}
}
