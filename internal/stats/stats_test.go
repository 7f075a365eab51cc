package stats

import (
	"math"
	"testing"
	"time"

	"moneywise/internal/core"
)

func expense(title string, cents int64, category string, date core.Date) core.Transaction {
	return core.Transaction{
		Title:    title,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Type:     core.TypeExpense,
		Date:     date,
	}.Normalize()
}

func TestClassifyLimitBoundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want LimitWarning
	}{
		{0, WarnNone},
		{79.99, WarnNone},
		{80.0, WarnNear},
		{99.99, WarnNear},
		{100.0, WarnExceeded},
		{120.0, WarnExceeded},
	}
	for _, tc := range cases {
		if got := ClassifyLimit(tc.pct); got != tc.want {
			t.Fatalf("ClassifyLimit(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestCategoryBreakdownPercentagesSumTo100(t *testing.T) {
	txs := []core.Transaction{
		expense("spesa", 12050, "Alimentari", core.NewDate(2025, 6, 2)),
		expense("benzina", 4000, "Trasporti", core.NewDate(2025, 6, 3)),
		expense("cinema", 1550, "Intrattenimento", core.NewDate(2025, 6, 5)),
		expense("spesa bis", 3300, "Alimentari", core.NewDate(2025, 6, 9)),
	}

	breakdown := CategoryBreakdown(txs, nil)
	if len(breakdown) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(breakdown))
	}

	var sum float64
	for _, c := range breakdown {
		sum += c.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages must sum to 100, got %v", sum)
	}

	// Sorted descending by total.
	for i := 1; i < len(breakdown); i++ {
		if breakdown[i].Total.Cents > breakdown[i-1].Total.Cents {
			t.Fatalf("breakdown not sorted by total: %v before %v",
				breakdown[i-1].Total.Cents, breakdown[i].Total.Cents)
		}
	}
	if breakdown[0].Category != "Alimentari" || breakdown[0].Total.Cents != 15350 {
		t.Fatalf("unexpected top category: %+v", breakdown[0])
	}
}

func TestCategoryBreakdownEmptySpend(t *testing.T) {
	if got := CategoryBreakdown(nil, nil); len(got) != 0 {
		t.Fatalf("no spend should yield no rows, got %d", len(got))
	}
}

func TestCategoryBreakdownLimitScenario(t *testing.T) {
	// €120 spend in Alimentari against a €100 monthly limit with no
	// prior spend: 100% of period spend, 120% of the limit, exceeded.
	txs := []core.Transaction{
		expense("spesa grande", 12000, "Alimentari", core.NewDate(2025, 6, 10)),
	}
	limits := []core.SpendingLimit{
		{Category: "Alimentari", MonthlyLimit: core.Money{Cents: 10000}},
	}

	breakdown := CategoryBreakdown(txs, limits)
	if len(breakdown) != 1 {
		t.Fatalf("expected 1 row, got %d", len(breakdown))
	}
	row := breakdown[0]
	if row.Percentage != 100 {
		t.Fatalf("share should be 100%%, got %v", row.Percentage)
	}
	if row.Limit == nil || row.Limit.Cents != 10000 {
		t.Fatalf("limit not attached: %+v", row)
	}
	if math.Abs(row.LimitPercentage-120) > 1e-9 {
		t.Fatalf("limit percentage should be 120, got %v", row.LimitPercentage)
	}
	if row.Warning != WarnExceeded {
		t.Fatalf("expected exceeded warning, got %q", row.Warning)
	}
}

func TestDailySeriesZeroFills(t *testing.T) {
	txs := []core.Transaction{
		expense("a", 1000, "Casa", core.NewDate(2025, 6, 1)),
		expense("b", 2000, "Casa", core.NewDate(2025, 6, 1)),
		expense("c", 500, "Casa", core.NewDate(2025, 6, 5)),
	}

	series := DailySeries(txs)
	if len(series) != 5 {
		t.Fatalf("expected one point per day from Jun 1 to Jun 5, got %d", len(series))
	}
	if series[0].Amount.Cents != 3000 {
		t.Fatalf("Jun 1 should sum to 3000, got %d", series[0].Amount.Cents)
	}
	for i, want := range []string{"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05"} {
		if series[i].Date.ISO() != want {
			t.Fatalf("point %d should be %s, got %s", i, want, series[i].Date.ISO())
		}
	}
	for _, i := range []int{1, 2, 3} {
		if series[i].Amount.Cents != 0 {
			t.Fatalf("gap day %s should be zero, got %d", series[i].Date.ISO(), series[i].Amount.Cents)
		}
	}
	if series[4].Amount.Cents != 500 {
		t.Fatalf("Jun 5 should be 500, got %d", series[4].Amount.Cents)
	}
}

func TestDailySeriesSpansMonthBoundary(t *testing.T) {
	txs := []core.Transaction{
		expense("a", 100, "Casa", core.NewDate(2025, 1, 30)),
		expense("b", 100, "Casa", core.NewDate(2025, 2, 2)),
	}
	series := DailySeries(txs)
	if len(series) != 4 {
		t.Fatalf("Jan 30 to Feb 2 is 4 days, got %d", len(series))
	}
}

func TestDailySeriesEmpty(t *testing.T) {
	if got := DailySeries(nil); got != nil {
		t.Fatalf("empty input should yield nil, got %v", got)
	}
}

func TestPersonalVsHousehold(t *testing.T) {
	personal := expense("mio", 3000, "Shopping", core.NewDate(2025, 6, 1))
	household := expense("casa", 1000, "Casa", core.NewDate(2025, 6, 2))
	household.ExpenseType = core.ExpenseHousehold
	// Legacy row without an expense type counts as personal.
	legacy := expense("vecchio", 1000, "Altro", core.NewDate(2025, 6, 3))
	legacy.ExpenseType = ""

	split := PersonalVsHousehold([]core.Transaction{personal, household, legacy})
	if split.Total.Cents != 5000 {
		t.Fatalf("total should be 5000, got %d", split.Total.Cents)
	}
	if split.Personal.Amount.Cents != 4000 {
		t.Fatalf("personal should be 4000, got %d", split.Personal.Amount.Cents)
	}
	if split.Household.Amount.Cents != 1000 {
		t.Fatalf("household should be 1000, got %d", split.Household.Amount.Cents)
	}
	if math.Abs(split.Personal.Percentage-80) > 1e-9 || math.Abs(split.Household.Percentage-20) > 1e-9 {
		t.Fatalf("unexpected percentages: %v / %v", split.Personal.Percentage, split.Household.Percentage)
	}
}

func TestPersonalVsHouseholdEmpty(t *testing.T) {
	split := PersonalVsHousehold(nil)
	if split.Personal.Percentage != 0 || split.Household.Percentage != 0 {
		t.Fatalf("empty split must report zero percentages: %+v", split)
	}
}

func TestRealizedExpensesExcludesIncomeAndTemplates(t *testing.T) {
	income := core.Transaction{
		Title: "stipendio", Amount: core.Money{Cents: 200000},
		Category: "Altro", Type: core.TypeIncome,
		Date: core.NewDate(2025, 6, 1),
		// Even a mislabeled expense type on income must not leak
		// into expense aggregates.
		ExpenseType: core.ExpenseHousehold,
	}
	template := expense("abbonamento", 5000, "Intrattenimento", core.NewDate(2025, 6, 1))
	template.IsRecurring = true
	template.RecurringPeriod = core.PeriodMonthly
	realized := expense("spesa", 2000, "Alimentari", core.NewDate(2025, 6, 2))

	kept := RealizedExpenses([]core.Transaction{income, template, realized})
	if len(kept) != 1 || kept[0].Title != "spesa" {
		t.Fatalf("only the realized expense should survive, got %+v", kept)
	}
}

func TestRecurringTemplateNotCountedUntilCloned(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	template := expense("netflix", 5000, "Intrattenimento", core.NewDate(2025, 6, 1))
	template.IsRecurring = true
	template.RecurringPeriod = core.PeriodMonthly

	view := Aggregate([]core.Transaction{template}, nil, now, PeriodMonth)
	if view.Total.Cents != 0 || len(view.Categories) != 0 {
		t.Fatalf("template alone must not count: %+v", view)
	}

	// The user clones the template into a one-off dated this month.
	clone := template
	clone.IsRecurring = false
	clone.RecurringPeriod = ""
	clone.Date = core.NewDate(2025, 6, 15)

	view = Aggregate([]core.Transaction{template, clone}, nil, now, PeriodMonth)
	if view.Total.Cents != 5000 {
		t.Fatalf("clone must count once, got %d", view.Total.Cents)
	}
	if len(view.Categories) != 1 || view.Categories[0].Category != "Intrattenimento" {
		t.Fatalf("unexpected breakdown: %+v", view.Categories)
	}
}

func TestFilterPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		expense("this month", 100, "Casa", core.NewDate(2025, 6, 1)),
		expense("last month", 100, "Casa", core.NewDate(2025, 5, 31)),
		expense("last year", 100, "Casa", core.NewDate(2024, 6, 15)),
	}

	if got := FilterPeriod(txs, now, PeriodMonth); len(got) != 1 {
		t.Fatalf("month filter should keep 1, got %d", len(got))
	}
	if got := FilterPeriod(txs, now, PeriodYear); len(got) != 2 {
		t.Fatalf("year filter should keep 2, got %d", len(got))
	}
}

func TestMonthlyBudget(t *testing.T) {
	goals := []core.Goal{
		{TargetAmount: core.Money{Cents: 100000}, IsCompleted: false},
		{TargetAmount: core.Money{Cents: 50000}, IsCompleted: true},
		{TargetAmount: core.Money{Cents: 20000}, IsCompleted: false},
	}
	if got := MonthlyBudget(goals); got.Cents != 120000 {
		t.Fatalf("budget should sum open goals, got %d", got.Cents)
	}
}

func TestProjectMonth(t *testing.T) {
	// June 10th, €300 spent: €30/day, 30 days, projected €900.
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	p := ProjectMonth(core.Money{Cents: 30000}, core.Money{Cents: 80000}, now)

	if math.Abs(p.DailyRate-30) > 1e-9 {
		t.Fatalf("daily rate should be 30, got %v", p.DailyRate)
	}
	if math.Abs(p.Projected-900) > 1e-9 {
		t.Fatalf("projected should be 900, got %v", p.Projected)
	}
	if !p.OverBudget {
		t.Fatal("900 projected against 800 budget must flag over budget")
	}

	under := ProjectMonth(core.Money{Cents: 10000}, core.Money{Cents: 80000}, now)
	if under.OverBudget {
		t.Fatal("300 projected against 800 budget must not flag over budget")
	}
}

func TestProjectMonthNoSpend(t *testing.T) {
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	p := ProjectMonth(core.Money{}, core.Money{Cents: 10000}, now)
	if p.DailyRate != 0 || p.Projected != 0 || p.OverBudget {
		t.Fatalf("zero spend must project zero: %+v", p)
	}
}

func TestAggregateView(t *testing.T) {
	now := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	household := expense("bolletta", 8000, "Bollette", core.NewDate(2025, 6, 3))
	household.ExpenseType = core.ExpenseHousehold
	txs := []core.Transaction{
		expense("spesa", 12000, "Alimentari", core.NewDate(2025, 6, 10)),
		household,
		expense("gennaio", 999, "Altro", core.NewDate(2025, 1, 2)),
	}
	limits := []core.SpendingLimit{
		{Category: "Alimentari", MonthlyLimit: core.Money{Cents: 10000}},
	}

	view := Aggregate(txs, limits, now, PeriodMonth)
	if view.Total.Cents != 20000 {
		t.Fatalf("month total should be 20000, got %d", view.Total.Cents)
	}
	if len(view.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(view.Categories))
	}
	if view.Categories[0].Warning != WarnExceeded {
		t.Fatalf("Alimentari should be exceeded, got %q", view.Categories[0].Warning)
	}
	if len(view.Daily) != 8 {
		t.Fatalf("Jun 3 to Jun 10 is 8 days, got %d", len(view.Daily))
	}
	if view.Split.Household.Amount.Cents != 8000 {
		t.Fatalf("household split should be 8000, got %d", view.Split.Household.Amount.Cents)
	}

	year := Aggregate(txs, limits, now, PeriodYear)
	if year.Total.Cents != 20999 {
		t.Fatalf("year total should include January, got %d", year.Total.Cents)
	}
}
