package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

const (
	ExpensePersonal  ExpenseType = "personal"
	ExpenseHousehold ExpenseType = "household"
)

const (
	PeriodWeekly    RecurringPeriod = "weekly"
	PeriodMonthly   RecurringPeriod = "monthly"
	PeriodQuarterly RecurringPeriod = "quarterly"
	PeriodYearly    RecurringPeriod = "yearly"
)

type (
	TransactionType string
	ExpenseType     string
	RecurringPeriod string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Session identifies the data owner for every repository call.
	// No user means no owner: repositories reject empty sessions.
	Session struct {
		UserID string
		Email  string
	}

	User struct {
		ID        string
		Email     string
		FirstName string
		LastName  string
	}

	Category struct {
		ID        string
		OwnerID   string
		Name      string
		Color     string
		Icon      string
		IsDefault bool
	}

	Transaction struct {
		ID          string
		OwnerID     string
		Title       string
		Amount      Money
		Category    string
		Type        TransactionType
		Date        Date
		Description string
		// IsRecurring marks a template. Templates are never counted
		// as realized spend; the user clones them into one-offs.
		IsRecurring     bool
		RecurringPeriod RecurringPeriod
		// ExpenseType is meaningful only when Type is expense.
		// Rows persisted without it are mapped to personal.
		ExpenseType ExpenseType
	}

	Goal struct {
		ID            string
		OwnerID       string
		Title         string
		Description   string
		TargetAmount  Money
		CurrentAmount Money
		TargetDate    Date
		Category      string
		IsCompleted   bool
	}

	SpendingLimit struct {
		ID           string
		OwnerID      string
		Category     string
		MonthlyLimit Money
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyTitle        = errors.New("empty title")
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyCategory     = errors.New("empty category")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidPeriod     = errors.New("invalid recurring period")
	ErrMissingPeriod     = errors.New("recurring period required for recurring transactions")
	ErrInvalidExpense    = errors.New("invalid expense type")
	ErrInvalidDate       = errors.New("invalid date")
	ErrNotFound          = errors.New("record not found")
	ErrNoSession         = errors.New("no active session")
	ErrEmptyEmail        = errors.New("empty email")
	ErrEmailTaken        = errors.New("email already registered")
	ErrDefaultImmutable  = errors.New("default categories cannot be deleted")
	ErrNotRecurring      = errors.New("transaction is not a recurring template")
	ErrInvalidTargetDate = errors.New("invalid target date")
)

func (s Session) Validate() error {
	if strings.TrimSpace(s.UserID) == "" {
		return ErrNoSession
	}
	return nil
}

// NewDate builds a Date at midnight UTC, the canonical storage form.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ISO renders the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

func (p RecurringPeriod) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return true
	}
	return false
}

func (e ExpenseType) Valid() bool {
	return e == ExpensePersonal || e == ExpenseHousehold
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.IsRecurring {
		if !t.RecurringPeriod.Valid() {
			return ErrMissingPeriod
		}
	} else if t.RecurringPeriod != "" {
		return ErrInvalidPeriod
	}
	if t.Type == TypeExpense && t.ExpenseType != "" && !t.ExpenseType.Valid() {
		return ErrInvalidExpense
	}
	return nil
}

// Normalize applies the data-mapping defaults: expenses without an
// explicit expense type become personal, non-expenses carry none.
func (t Transaction) Normalize() Transaction {
	if t.Type == TypeExpense {
		if t.ExpenseType == "" {
			t.ExpenseType = ExpensePersonal
		}
	} else {
		t.ExpenseType = ""
	}
	return t
}

// Realized reports whether the transaction counts as actual spend or
// income, i.e. it is not a recurring template.
func (t Transaction) Realized() bool {
	return !t.IsRecurring
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(g.Category) == "" {
		return ErrEmptyCategory
	}
	if g.TargetDate.IsZero() {
		return ErrInvalidTargetDate
	}
	return nil
}

// Recomputed returns the goal with CurrentAmount clamped to the target
// and IsCompleted derived from the amount comparison. Every mutation
// path goes through this so the completion flag never drifts.
func (g Goal) Recomputed() Goal {
	if g.CurrentAmount.Cents > g.TargetAmount.Cents {
		g.CurrentAmount = g.TargetAmount
	}
	g.IsCompleted = g.CurrentAmount.Cents >= g.TargetAmount.Cents
	return g
}

func (l SpendingLimit) Validate() error {
	if strings.TrimSpace(l.Category) == "" {
		return ErrEmptyCategory
	}
	if l.MonthlyLimit.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
