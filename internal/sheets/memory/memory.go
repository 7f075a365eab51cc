// Package memory is an in-memory sheets adapter for tests and local
// runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"moneywise/internal/core"
	ports "moneywise/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var _ ports.TransactionAppender = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Items returns a copy of everything appended so far.
func (s *Store) Items() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...)
}
