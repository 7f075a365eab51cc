// Package memory is an in-memory store backend. It backs tests and the
// DATA_BACKEND=memory mode for running without a database file.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"moneywise/internal/core"
	"moneywise/internal/store"
)

type Repository struct {
	mu           sync.RWMutex
	users        map[string]userRecord // keyed by email
	categories   map[string]core.Category
	transactions map[string]core.Transaction
	goals        map[string]core.Goal
	limits       map[string]core.SpendingLimit
}

type userRecord struct {
	user core.User
	hash string
}

var _ store.Backend = (*Repository)(nil)

func New() *Repository {
	return &Repository{
		users:        make(map[string]userRecord),
		categories:   make(map[string]core.Category),
		transactions: make(map[string]core.Transaction),
		goals:        make(map[string]core.Goal),
		limits:       make(map[string]core.SpendingLimit),
	}
}

func (r *Repository) Close() error { return nil }

func (r *Repository) CreateUser(_ context.Context, u core.User, passwordHash string) (core.User, error) {
	if strings.TrimSpace(u.Email) == "" {
		return core.User{}, core.ErrEmptyEmail
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, exists := r.users[u.Email]; exists {
		return core.User{}, core.ErrEmailTaken
	}
	u.ID = uuid.NewString()
	r.users[u.Email] = userRecord{user: u, hash: passwordHash}
	return u, nil
}

func (r *Repository) UserByEmail(_ context.Context, email string) (core.User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return core.User{}, "", core.ErrNotFound
	}
	return rec.user, rec.hash, nil
}

func (r *Repository) ListCategories(_ context.Context, s core.Session) ([]core.Category, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Category
	for _, c := range r.categories {
		if c.OwnerID == s.UserID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Repository) AddCategory(_ context.Context, s core.Session, c core.Category) (core.Category, error) {
	if err := s.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.NewString()
	c.OwnerID = s.UserID
	c.Name = strings.TrimSpace(c.Name)
	r.categories[c.ID] = c
	return c, nil
}

func (r *Repository) UpdateCategory(_ context.Context, s core.Session, id string, p store.CategoryPatch) (core.Category, error) {
	if err := s.Validate(); err != nil {
		return core.Category{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok || c.OwnerID != s.UserID {
		return core.Category{}, core.ErrNotFound
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return core.Category{}, core.ErrEmptyName
		}
		c.Name = name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	r.categories[id] = c
	return c, nil
}

func (r *Repository) DeleteCategory(_ context.Context, s core.Session, id string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok || c.OwnerID != s.UserID {
		return core.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *Repository) InitializeDefaultCategories(ctx context.Context, s core.Session) ([]core.Category, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	existing, err := r.ListCategories(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	r.mu.Lock()
	for _, entry := range core.DefaultCatalog {
		c := core.Category{
			ID:        uuid.NewString(),
			OwnerID:   s.UserID,
			Name:      entry.Name,
			Color:     entry.Color,
			Icon:      entry.Icon,
			IsDefault: true,
		}
		r.categories[c.ID] = c
	}
	r.mu.Unlock()

	return r.ListCategories(ctx, s)
}

func (r *Repository) CreateTransaction(_ context.Context, s core.Session, t core.Transaction) (core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t = t.Normalize()
	t.ID = uuid.NewString()
	t.OwnerID = s.UserID
	r.transactions[t.ID] = t
	return t, nil
}

func (r *Repository) UpdateTransaction(_ context.Context, s core.Session, id string, t core.Transaction) (core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.transactions[id]
	if !ok || existing.OwnerID != s.UserID {
		return core.Transaction{}, core.ErrNotFound
	}
	t = t.Normalize()
	t.ID = id
	t.OwnerID = s.UserID
	r.transactions[id] = t
	return t, nil
}

func (r *Repository) DeleteTransaction(_ context.Context, s core.Session, id string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.transactions[id]
	if !ok || t.OwnerID != s.UserID {
		return core.ErrNotFound
	}
	delete(r.transactions, id)
	return nil
}

func (r *Repository) GetTransaction(_ context.Context, s core.Session, id string) (core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return core.Transaction{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transactions[id]
	if !ok || t.OwnerID != s.UserID {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (r *Repository) ListRecentTransactions(_ context.Context, s core.Session, limit int) ([]core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Transaction
	for _, t := range r.transactions {
		if t.OwnerID == s.UserID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repository) ListTransactionsForPeriod(_ context.Context, s core.Session, start, end core.Date, f store.TransactionFilter) ([]core.Transaction, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Transaction
	for _, t := range r.transactions {
		if t.OwnerID != s.UserID {
			continue
		}
		if t.Date.Before(start.Time) || !t.Date.Before(end.Time) {
			continue
		}
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		if f.IsRecurring != nil && t.IsRecurring != *f.IsRecurring {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (r *Repository) CreateGoal(_ context.Context, s core.Session, g core.Goal) (core.Goal, error) {
	if err := s.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	g = g.Recomputed()
	g.ID = uuid.NewString()
	g.OwnerID = s.UserID
	r.goals[g.ID] = g
	return g, nil
}

func (r *Repository) UpdateGoal(_ context.Context, s core.Session, id string, g core.Goal) (core.Goal, error) {
	if err := s.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.goals[id]
	if !ok || existing.OwnerID != s.UserID {
		return core.Goal{}, core.ErrNotFound
	}
	g = g.Recomputed()
	g.ID = id
	g.OwnerID = s.UserID
	r.goals[id] = g
	return g, nil
}

func (r *Repository) DeleteGoal(_ context.Context, s core.Session, id string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.goals[id]
	if !ok || g.OwnerID != s.UserID {
		return core.ErrNotFound
	}
	delete(r.goals, id)
	return nil
}

func (r *Repository) ListGoals(_ context.Context, s core.Session) ([]core.Goal, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Goal
	for _, g := range r.goals {
		if g.OwnerID == s.UserID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetDate.Before(out[j].TargetDate.Time) })
	return out, nil
}

func (r *Repository) ContributeToGoal(_ context.Context, s core.Session, id string, delta core.Money) (core.Goal, error) {
	if err := s.Validate(); err != nil {
		return core.Goal{}, err
	}
	if delta.Cents <= 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.goals[id]
	if !ok || g.OwnerID != s.UserID {
		return core.Goal{}, core.ErrNotFound
	}
	g.CurrentAmount = g.CurrentAmount.Add(delta)
	g = g.Recomputed()
	r.goals[id] = g
	return g, nil
}

func (r *Repository) ListLimits(_ context.Context, s core.Session) ([]core.SpendingLimit, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.SpendingLimit
	for _, l := range r.limits {
		if l.OwnerID == s.UserID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *Repository) SetLimit(_ context.Context, s core.Session, category string, monthly core.Money) (core.SpendingLimit, error) {
	if err := s.Validate(); err != nil {
		return core.SpendingLimit{}, err
	}
	l := core.SpendingLimit{
		OwnerID:      s.UserID,
		Category:     strings.TrimSpace(category),
		MonthlyLimit: monthly,
	}
	if err := l.Validate(); err != nil {
		return core.SpendingLimit{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.limits {
		if existing.OwnerID == s.UserID && existing.Category == l.Category {
			existing.MonthlyLimit = monthly
			r.limits[id] = existing
			return existing, nil
		}
	}
	l.ID = uuid.NewString()
	r.limits[l.ID] = l
	return l, nil
}

func (r *Repository) DeleteLimit(_ context.Context, s core.Session, id string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limits[id]
	if !ok || l.OwnerID != s.UserID {
		return core.ErrNotFound
	}
	delete(r.limits, id)
	return nil
}
