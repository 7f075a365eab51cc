// Package stats derives display aggregates from a slice of
// transactions and the configured spending limits. Everything here is
// a pure function of its inputs: no storage, no clock other than the
// reference time passed in, recomputed in full on every call.
package stats

import (
	"sort"
	"time"

	"moneywise/internal/core"
)

type Period string

const (
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) Valid() bool {
	return p == PeriodMonth || p == PeriodYear
}

// LimitWarning classifies spend against a monthly limit. The 80/100
// breakpoints are policy and must match everywhere limits surface.
type LimitWarning string

const (
	WarnNone     LimitWarning = ""
	WarnNear     LimitWarning = "near"
	WarnExceeded LimitWarning = "exceeded"
)

// ClassifyLimit maps a spend percentage to its warning level.
func ClassifyLimit(percentage float64) LimitWarning {
	switch {
	case percentage >= 100:
		return WarnExceeded
	case percentage >= 80:
		return WarnNear
	default:
		return WarnNone
	}
}

// LimitPercentage returns spent/limit*100, or 0 for a zero limit.
func LimitPercentage(spent, limit core.Money) float64 {
	if limit.Cents <= 0 {
		return 0
	}
	return spent.Euros() / limit.Euros() * 100
}

type CategorySpending struct {
	Category   string
	Total      core.Money
	Percentage float64 // share of period spend
	// Limit fields are set only when a limit exists for the category.
	Limit           *core.Money
	LimitPercentage float64
	Warning         LimitWarning
}

type DailyPoint struct {
	Date   core.Date
	Amount core.Money
}

type SplitPart struct {
	Amount     core.Money
	Percentage float64
}

type Split struct {
	Personal  SplitPart
	Household SplitPart
	Total     core.Money
}

type Projection struct {
	MonthlySpent core.Money
	DailyRate    float64 // euros per day
	Projected    float64 // euros at end of month, linear
	Budget       core.Money
	OverBudget   bool
}

// View bundles every derived statistic for one period.
type View struct {
	Period     Period
	Total      core.Money
	Categories []CategorySpending
	Daily      []DailyPoint
	Split      Split
}

// RealizedExpenses keeps only non-recurring expense transactions, the
// slice every aggregate below is defined over. Income and recurring
// templates never count as realized spend.
func RealizedExpenses(txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == core.TypeExpense && t.Realized() {
			out = append(out, t)
		}
	}
	return out
}

// FilterPeriod keeps transactions dated in the current month or the
// current year relative to now.
func FilterPeriod(txs []core.Transaction, now time.Time, p Period) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Date.Year() != now.Year() {
			continue
		}
		if p == PeriodMonth && t.Date.Month() != now.Month() {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CategoryBreakdown groups spend by category, attaches limits where
// configured, and sorts descending by total.
func CategoryBreakdown(txs []core.Transaction, limits []core.SpendingLimit) []CategorySpending {
	totals := make(map[string]int64)
	var overall int64
	for _, t := range txs {
		totals[t.Category] += t.Amount.Cents
		overall += t.Amount.Cents
	}

	limitByCategory := make(map[string]core.SpendingLimit, len(limits))
	for _, l := range limits {
		limitByCategory[l.Category] = l
	}

	out := make([]CategorySpending, 0, len(totals))
	for category, cents := range totals {
		cs := CategorySpending{
			Category: category,
			Total:    core.Money{Cents: cents},
		}
		if overall > 0 {
			cs.Percentage = float64(cents) / float64(overall) * 100
		}
		if l, ok := limitByCategory[category]; ok {
			limit := l.MonthlyLimit
			cs.Limit = &limit
			cs.LimitPercentage = LimitPercentage(cs.Total, limit)
			cs.Warning = ClassifyLimit(cs.LimitPercentage)
		}
		out = append(out, cs)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// DailySeries buckets spend by calendar day and zero-fills every day
// between the earliest and latest transaction date inclusive, so the
// series has no gaps.
func DailySeries(txs []core.Transaction) []DailyPoint {
	if len(txs) == 0 {
		return nil
	}

	byDay := make(map[string]int64)
	min, max := txs[0].Date, txs[0].Date
	for _, t := range txs {
		byDay[t.Date.ISO()] += t.Amount.Cents
		if t.Date.Before(min.Time) {
			min = t.Date
		}
		if t.Date.After(max.Time) {
			max = t.Date
		}
	}

	var out []DailyPoint
	for d := min; !d.After(max.Time); d = d.AddDays(1) {
		out = append(out, DailyPoint{
			Date:   d,
			Amount: core.Money{Cents: byDay[d.ISO()]},
		})
	}
	return out
}

// PersonalVsHousehold partitions spend by expense type. The mapping
// layer already defaults missing types to personal, so anything not
// explicitly household lands in the personal bucket.
func PersonalVsHousehold(txs []core.Transaction) Split {
	var personal, household int64
	for _, t := range txs {
		if t.ExpenseType == core.ExpenseHousehold {
			household += t.Amount.Cents
		} else {
			personal += t.Amount.Cents
		}
	}
	total := personal + household

	split := Split{
		Personal:  SplitPart{Amount: core.Money{Cents: personal}},
		Household: SplitPart{Amount: core.Money{Cents: household}},
		Total:     core.Money{Cents: total},
	}
	if total > 0 {
		split.Personal.Percentage = float64(personal) / float64(total) * 100
		split.Household.Percentage = float64(household) / float64(total) * 100
	}
	return split
}

// MonthlyBudget sums goal targets over non-completed goals. The app
// deliberately conflates goal targets with a budget ceiling.
func MonthlyBudget(goals []core.Goal) core.Money {
	var cents int64
	for _, g := range goals {
		if !g.IsCompleted {
			cents += g.TargetAmount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// ProjectMonth extrapolates end-of-month spend linearly from the spend
// so far. Naive by design: no smoothing, no seasonality, no outlier
// handling.
func ProjectMonth(spent core.Money, budget core.Money, now time.Time) Projection {
	day := now.Day()
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()

	p := Projection{MonthlySpent: spent, Budget: budget}
	if day > 0 {
		p.DailyRate = spent.Euros() / float64(day)
	}
	p.Projected = p.DailyRate * float64(daysInMonth)
	p.OverBudget = p.Projected > budget.Euros()
	return p
}

// Aggregate computes the full statistics view for one period from an
// unfiltered transaction slice.
func Aggregate(txs []core.Transaction, limits []core.SpendingLimit, now time.Time, period Period) View {
	scoped := FilterPeriod(RealizedExpenses(txs), now, period)

	var total int64
	for _, t := range scoped {
		total += t.Amount.Cents
	}

	return View{
		Period:     period,
		Total:      core.Money{Cents: total},
		Categories: CategoryBreakdown(scoped, limits),
		Daily:      DailySeries(scoped),
		Split:      PersonalVsHousehold(scoped),
	}
}
