package services

import (
	"context"
	"fmt"
	"time"

	"moneywise/internal/core"
	"moneywise/internal/stats"
	"moneywise/internal/store"
)

type StatsService struct {
	transactions store.TransactionRepository
	goals        store.GoalRepository
	limits       store.LimitRepository
}

func NewStatsService(transactions store.TransactionRepository, goals store.GoalRepository, limits store.LimitRepository) *StatsService {
	return &StatsService{transactions: transactions, goals: goals, limits: limits}
}

// View aggregates the statistics for the month or year containing now.
func (s *StatsService) View(ctx context.Context, sess core.Session, period stats.Period, now time.Time) (stats.View, error) {
	start, end := periodBounds(now, period)
	txs, err := s.transactions.ListTransactionsForPeriod(ctx, sess, start, end, store.TransactionFilter{})
	if err != nil {
		return stats.View{}, fmt.Errorf("list period transactions: %w", err)
	}

	limits, err := s.limits.ListLimits(ctx, sess)
	if err != nil {
		return stats.View{}, fmt.Errorf("list limits: %w", err)
	}

	return stats.Aggregate(txs, limits, now, period), nil
}

// Dashboard bundles the landing-page summary: recent movements, the
// month's spend against the goal-derived budget, and the naive
// end-of-month projection.
type Dashboard struct {
	Recent       []core.Transaction
	MonthlySpent core.Money
	Budget       core.Money
	Remaining    core.Money
	Projection   stats.Projection
}

func (s *StatsService) Dashboard(ctx context.Context, sess core.Session, now time.Time) (Dashboard, error) {
	recent, err := s.transactions.ListRecentTransactions(ctx, sess, 10)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list recent: %w", err)
	}

	start, end := periodBounds(now, stats.PeriodMonth)
	txs, err := s.transactions.ListTransactionsForPeriod(ctx, sess, start, end, store.TransactionFilter{})
	if err != nil {
		return Dashboard{}, fmt.Errorf("list month transactions: %w", err)
	}

	var spent int64
	for _, t := range stats.RealizedExpenses(txs) {
		spent += t.Amount.Cents
	}
	monthlySpent := core.Money{Cents: spent}

	goals, err := s.goals.ListGoals(ctx, sess)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list goals: %w", err)
	}
	budget := stats.MonthlyBudget(goals)

	return Dashboard{
		Recent:       recent,
		MonthlySpent: monthlySpent,
		Budget:       budget,
		Remaining:    budget.Sub(monthlySpent),
		Projection:   stats.ProjectMonth(monthlySpent, budget, now),
	}, nil
}

func periodBounds(now time.Time, p stats.Period) (core.Date, core.Date) {
	if p == stats.PeriodYear {
		return core.NewDate(now.Year(), 1, 1), core.NewDate(now.Year()+1, 1, 1)
	}
	return core.NewDate(now.Year(), int(now.Month()), 1),
		core.NewDate(now.Year(), int(now.Month())+1, 1)
}
