package memory

import (
	"context"
	"errors"
	"testing"

	"moneywise/internal/core"
	"moneywise/internal/store"
)

var (
	alice = core.Session{UserID: "user-alice", Email: "alice@example.com"}
	bob   = core.Session{UserID: "user-bob", Email: "bob@example.com"}
)

func expense(title, category string, cents int64, day int) core.Transaction {
	return core.Transaction{
		Title:    title,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Type:     core.TypeExpense,
		Date:     core.NewDate(2025, 6, day),
	}
}

func TestEmptySessionRejected(t *testing.T) {
	r := New()
	ctx := context.Background()

	if _, err := r.ListCategories(ctx, core.Session{}); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("ListCategories error = %v, want ErrNoSession", err)
	}
	if _, err := r.CreateTransaction(ctx, core.Session{}, expense("Spesa", "Alimentari", 100, 1)); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("CreateTransaction error = %v, want ErrNoSession", err)
	}
}

func TestOwnerScoping(t *testing.T) {
	r := New()
	ctx := context.Background()

	created, err := r.CreateTransaction(ctx, alice, expense("Spesa", "Alimentari", 4250, 3))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if _, err := r.GetTransaction(ctx, bob, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign GetTransaction error = %v, want ErrNotFound", err)
	}
	if err := r.DeleteTransaction(ctx, bob, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign DeleteTransaction error = %v, want ErrNotFound", err)
	}

	// Alice still sees her record untouched.
	got, err := r.GetTransaction(ctx, alice, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Title != "Spesa" {
		t.Fatalf("Title = %q, want Spesa", got.Title)
	}
}

func TestExpenseTypeNormalizedOnWrite(t *testing.T) {
	r := New()
	ctx := context.Background()

	created, err := r.CreateTransaction(ctx, alice, expense("Cena", "Ristoranti", 3000, 5))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.ExpenseType != core.ExpensePersonal {
		t.Fatalf("ExpenseType = %q, want personal", created.ExpenseType)
	}

	income := core.Transaction{
		Title:       "Stipendio",
		Amount:      core.Money{Cents: 200000},
		Category:    "Stipendio",
		Type:        core.TypeIncome,
		Date:        core.NewDate(2025, 6, 1),
		ExpenseType: core.ExpenseHousehold,
	}
	got, err := r.CreateTransaction(ctx, alice, income)
	if err != nil {
		t.Fatalf("CreateTransaction income: %v", err)
	}
	if got.ExpenseType != "" {
		t.Fatalf("income ExpenseType = %q, want empty", got.ExpenseType)
	}
}

func TestListTransactionsForPeriodBounds(t *testing.T) {
	r := New()
	ctx := context.Background()

	for day, title := range map[int]string{1: "first", 15: "mid", 30: "last"} {
		if _, err := r.CreateTransaction(ctx, alice, expense(title, "Altro", 1000, day)); err != nil {
			t.Fatalf("CreateTransaction %s: %v", title, err)
		}
	}
	// July 1st must be excluded by the half-open interval.
	july := expense("july", "Altro", 1000, 1)
	july.Date = core.NewDate(2025, 7, 1)
	if _, err := r.CreateTransaction(ctx, alice, july); err != nil {
		t.Fatalf("CreateTransaction july: %v", err)
	}

	got, err := r.ListTransactionsForPeriod(ctx, alice,
		core.NewDate(2025, 6, 1), core.NewDate(2025, 7, 1), store.TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactionsForPeriod: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3", len(got))
	}
	for _, tx := range got {
		if tx.Title == "july" {
			t.Fatal("transaction on the end bound must be excluded")
		}
	}
}

func TestContributeClampsAndCompletes(t *testing.T) {
	r := New()
	ctx := context.Background()

	g, err := r.CreateGoal(ctx, alice, core.Goal{
		Title:        "Vacanza",
		TargetAmount: core.Money{Cents: 50000},
		TargetDate:   core.NewDate(2025, 12, 31),
		Category:     "Viaggi",
	})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	g, err = r.ContributeToGoal(ctx, alice, g.ID, core.Money{Cents: 30000})
	if err != nil {
		t.Fatalf("ContributeToGoal: %v", err)
	}
	if g.IsCompleted {
		t.Fatal("goal completed at 300 of 500")
	}

	// Overshoot clamps to the target and flips completion.
	g, err = r.ContributeToGoal(ctx, alice, g.ID, core.Money{Cents: 40000})
	if err != nil {
		t.Fatalf("ContributeToGoal overshoot: %v", err)
	}
	if g.CurrentAmount.Cents != 50000 {
		t.Fatalf("CurrentAmount = %d, want 50000", g.CurrentAmount.Cents)
	}
	if !g.IsCompleted {
		t.Fatal("goal not completed after reaching target")
	}

	if _, err := r.ContributeToGoal(ctx, alice, g.ID, core.Money{Cents: -100}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("negative contribution error = %v, want ErrInvalidAmount", err)
	}
}

func TestSetLimitUpserts(t *testing.T) {
	r := New()
	ctx := context.Background()

	first, err := r.SetLimit(ctx, alice, "Alimentari", core.Money{Cents: 10000})
	if err != nil {
		t.Fatalf("SetLimit: %v", err)
	}
	second, err := r.SetLimit(ctx, alice, "Alimentari", core.Money{Cents: 20000})
	if err != nil {
		t.Fatalf("SetLimit replace: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a new row: %s != %s", second.ID, first.ID)
	}
	if second.MonthlyLimit.Cents != 20000 {
		t.Fatalf("MonthlyLimit = %d, want 20000", second.MonthlyLimit.Cents)
	}

	limits, err := r.ListLimits(ctx, alice)
	if err != nil {
		t.Fatalf("ListLimits: %v", err)
	}
	if len(limits) != 1 {
		t.Fatalf("got %d limits, want 1", len(limits))
	}

	// Bob's limit for the same category is a separate row.
	if _, err := r.SetLimit(ctx, bob, "Alimentari", core.Money{Cents: 5000}); err != nil {
		t.Fatalf("SetLimit for second owner: %v", err)
	}
	limits, _ = r.ListLimits(ctx, alice)
	if len(limits) != 1 {
		t.Fatalf("owner scoping broken, got %d limits", len(limits))
	}
}

func TestInitializeDefaultCategoriesIdempotent(t *testing.T) {
	r := New()
	ctx := context.Background()

	first, err := r.InitializeDefaultCategories(ctx, alice)
	if err != nil {
		t.Fatalf("InitializeDefaultCategories: %v", err)
	}
	if len(first) != len(core.DefaultCatalog) {
		t.Fatalf("got %d categories, want %d", len(first), len(core.DefaultCatalog))
	}

	second, err := r.InitializeDefaultCategories(ctx, alice)
	if err != nil {
		t.Fatalf("second InitializeDefaultCategories: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("second call changed count: %d != %d", len(second), len(first))
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	r := New()
	ctx := context.Background()

	u := core.User{Email: "Mario@Example.com", FirstName: "Mario"}
	created, err := r.CreateUser(ctx, u, "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.Email != "mario@example.com" {
		t.Fatalf("email not lowercased: %q", created.Email)
	}

	if _, err := r.CreateUser(ctx, core.User{Email: "mario@example.com"}, "hash"); !errors.Is(err, core.ErrEmailTaken) {
		t.Fatalf("duplicate email error = %v, want ErrEmailTaken", err)
	}

	got, hash, err := r.UserByEmail(ctx, "MARIO@example.com")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if got.ID != created.ID || hash != "hash" {
		t.Fatalf("UserByEmail = %+v hash %q", got, hash)
	}
}
