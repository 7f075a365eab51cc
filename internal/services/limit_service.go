package services

import (
	"context"
	"fmt"
	"time"

	"moneywise/internal/core"
	"moneywise/internal/stats"
	"moneywise/internal/store"
)

type LimitService struct {
	limits       store.LimitRepository
	transactions store.TransactionRepository
}

func NewLimitService(limits store.LimitRepository, transactions store.TransactionRepository) *LimitService {
	return &LimitService{limits: limits, transactions: transactions}
}

func (s *LimitService) Set(ctx context.Context, sess core.Session, category string, monthly core.Money) (core.SpendingLimit, error) {
	return s.limits.SetLimit(ctx, sess, category, monthly)
}

func (s *LimitService) Delete(ctx context.Context, sess core.Session, id string) error {
	return s.limits.DeleteLimit(ctx, sess, id)
}

// LimitStatus is a limit joined with its current-month spend.
type LimitStatus struct {
	Limit      core.SpendingLimit
	Spent      core.Money
	Percentage float64
	Warning    stats.LimitWarning
}

// WithCurrentSpend lists the owner's limits with the current month's
// realized expense total per category. The month window is the
// half-open interval from the first of this month to the first of the
// next.
func (s *LimitService) WithCurrentSpend(ctx context.Context, sess core.Session, now time.Time) ([]LimitStatus, error) {
	limits, err := s.limits.ListLimits(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("list limits: %w", err)
	}

	start := core.NewDate(now.Year(), int(now.Month()), 1)
	end := core.NewDate(now.Year(), int(now.Month())+1, 1)

	expense := core.TypeExpense
	recurring := false
	txs, err := s.transactions.ListTransactionsForPeriod(ctx, sess, start, end, store.TransactionFilter{
		Type:        &expense,
		IsRecurring: &recurring,
	})
	if err != nil {
		return nil, fmt.Errorf("list month transactions: %w", err)
	}

	spentByCategory := make(map[string]int64)
	for _, t := range txs {
		spentByCategory[t.Category] += t.Amount.Cents
	}

	out := make([]LimitStatus, 0, len(limits))
	for _, l := range limits {
		spent := core.Money{Cents: spentByCategory[l.Category]}
		pct := stats.LimitPercentage(spent, l.MonthlyLimit)
		out = append(out, LimitStatus{
			Limit:      l,
			Spent:      spent,
			Percentage: pct,
			Warning:    stats.ClassifyLimit(pct),
		})
	}
	return out, nil
}
