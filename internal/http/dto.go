package http

import (
	"encoding/json"

	"moneywise/internal/core"
	"moneywise/internal/services"
	"moneywise/internal/stats"
)

// JSON records carry euro floats; cents stay internal.

type userJSON struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func toUserJSON(u core.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

type categoryJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	IsDefault bool   `json:"is_default"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, Color: c.Color, Icon: c.Icon, IsDefault: c.IsDefault}
}

func toCategoriesJSON(cs []core.Category) []categoryJSON {
	out := make([]categoryJSON, len(cs))
	for i, c := range cs {
		out[i] = toCategoryJSON(c)
	}
	return out
}

type transactionJSON struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	Type            string  `json:"type"`
	Date            string  `json:"date"`
	Description     string  `json:"description,omitempty"`
	IsRecurring     bool    `json:"is_recurring"`
	RecurringPeriod string  `json:"recurring_period,omitempty"`
	ExpenseType     string  `json:"expense_type,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:              t.ID,
		Title:           t.Title,
		Amount:          t.Amount.Euros(),
		Category:        t.Category,
		Type:            string(t.Type),
		Date:            t.Date.ISO(),
		Description:     t.Description,
		IsRecurring:     t.IsRecurring,
		RecurringPeriod: string(t.RecurringPeriod),
		ExpenseType:     string(t.ExpenseType),
	}
}

func toTransactionsJSON(ts []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(ts))
	for i, t := range ts {
		out[i] = toTransactionJSON(t)
	}
	return out
}

// euroAmount accepts money as a JSON number or as a form-style string,
// with either dot or comma decimal separator.
type euroAmount struct {
	core.Money
}

func (a *euroAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		cents, err := core.ParseDecimalToCents(s)
		if err != nil {
			return err
		}
		a.Money = core.Money{Cents: cents}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	a.Money = core.FromEuros(f)
	return nil
}

type transactionRequest struct {
	Title           string     `json:"title"`
	Amount          euroAmount `json:"amount"`
	Category        string     `json:"category"`
	Type            string     `json:"type"`
	Date            string     `json:"date"`
	Description     string     `json:"description"`
	IsRecurring     bool       `json:"is_recurring"`
	RecurringPeriod string     `json:"recurring_period"`
	ExpenseType     string     `json:"expense_type"`
}

func (req transactionRequest) toDomain() (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Title:           req.Title,
		Amount:          req.Amount.Money,
		Category:        req.Category,
		Type:            core.TransactionType(req.Type),
		Date:            date,
		Description:     req.Description,
		IsRecurring:     req.IsRecurring,
		RecurringPeriod: core.RecurringPeriod(req.RecurringPeriod),
		ExpenseType:     core.ExpenseType(req.ExpenseType),
	}, nil
}

type goalJSON struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	TargetDate    string  `json:"target_date"`
	Category      string  `json:"category"`
	IsCompleted   bool    `json:"is_completed"`
}

func toGoalJSON(g core.Goal) goalJSON {
	return goalJSON{
		ID:            g.ID,
		Title:         g.Title,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount.Euros(),
		CurrentAmount: g.CurrentAmount.Euros(),
		TargetDate:    g.TargetDate.ISO(),
		Category:      g.Category,
		IsCompleted:   g.IsCompleted,
	}
}

func toGoalsJSON(gs []core.Goal) []goalJSON {
	out := make([]goalJSON, len(gs))
	for i, g := range gs {
		out[i] = toGoalJSON(g)
	}
	return out
}

type goalRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	TargetDate    string  `json:"target_date"`
	Category      string  `json:"category"`
}

func (req goalRequest) toDomain() (core.Goal, error) {
	date, err := core.ParseDate(req.TargetDate)
	if err != nil {
		return core.Goal{}, core.ErrInvalidTargetDate
	}
	return core.Goal{
		Title:         req.Title,
		Description:   req.Description,
		TargetAmount:  core.FromEuros(req.TargetAmount),
		CurrentAmount: core.FromEuros(req.CurrentAmount),
		TargetDate:    date,
		Category:      req.Category,
	}, nil
}

type limitJSON struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
	CurrentSpent float64 `json:"current_spent"`
	Percentage   float64 `json:"percentage"`
	Warning      string  `json:"warning,omitempty"`
}

func toLimitJSON(st services.LimitStatus) limitJSON {
	return limitJSON{
		ID:           st.Limit.ID,
		Category:     st.Limit.Category,
		MonthlyLimit: st.Limit.MonthlyLimit.Euros(),
		CurrentSpent: st.Spent.Euros(),
		Percentage:   st.Percentage,
		Warning:      string(st.Warning),
	}
}

type categorySpendingJSON struct {
	Category        string   `json:"category"`
	Total           float64  `json:"total"`
	Percentage      float64  `json:"percentage"`
	Limit           *float64 `json:"limit,omitempty"`
	LimitPercentage float64  `json:"limit_percentage,omitempty"`
	Warning         string   `json:"warning,omitempty"`
}

type dailyPointJSON struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type splitPartJSON struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type statsJSON struct {
	Period     string                 `json:"period"`
	Total      float64                `json:"total"`
	Categories []categorySpendingJSON `json:"categories"`
	Daily      []dailyPointJSON       `json:"daily"`
	Personal   splitPartJSON          `json:"personal"`
	Household  splitPartJSON          `json:"household"`
}

func toStatsJSON(v stats.View) statsJSON {
	out := statsJSON{
		Period:     string(v.Period),
		Total:      v.Total.Euros(),
		Categories: make([]categorySpendingJSON, len(v.Categories)),
		Daily:      make([]dailyPointJSON, len(v.Daily)),
		Personal: splitPartJSON{
			Amount:     v.Split.Personal.Amount.Euros(),
			Percentage: v.Split.Personal.Percentage,
		},
		Household: splitPartJSON{
			Amount:     v.Split.Household.Amount.Euros(),
			Percentage: v.Split.Household.Percentage,
		},
	}
	for i, c := range v.Categories {
		cs := categorySpendingJSON{
			Category:        c.Category,
			Total:           c.Total.Euros(),
			Percentage:      c.Percentage,
			LimitPercentage: c.LimitPercentage,
			Warning:         string(c.Warning),
		}
		if c.Limit != nil {
			euros := c.Limit.Euros()
			cs.Limit = &euros
		}
		out.Categories[i] = cs
	}
	for i, d := range v.Daily {
		out.Daily[i] = dailyPointJSON{Date: d.Date.ISO(), Amount: d.Amount.Euros()}
	}
	return out
}

type dashboardJSON struct {
	Recent       []transactionJSON `json:"recent"`
	MonthlySpent float64           `json:"monthly_spent"`
	Budget       float64           `json:"budget"`
	Remaining    float64           `json:"remaining"`
	DailyRate    float64           `json:"daily_rate"`
	Projected    float64           `json:"projected"`
	OverBudget   bool              `json:"over_budget"`
}

func toDashboardJSON(d services.Dashboard) dashboardJSON {
	return dashboardJSON{
		Recent:       toTransactionsJSON(d.Recent),
		MonthlySpent: d.MonthlySpent.Euros(),
		Budget:       d.Budget.Euros(),
		Remaining:    d.Remaining.Euros(),
		DailyRate:    d.Projection.DailyRate,
		Projected:    d.Projection.Projected,
		OverBudget:   d.Projection.OverBudget,
	}
}
