// Package memory is the in-process ledger backend, used in development and
// tests where no spreadsheet is wired up.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bizbooks/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Invoice
}

func New() *Store {
	return &Store{}
}

// Append stores the invoice and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, inv core.Invoice) (string, error) {
	if err := inv.Data.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, inv)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Entries returns a copy of everything appended so far.
func (s *Store) Entries() []core.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Invoice(nil), s.items...)
}
