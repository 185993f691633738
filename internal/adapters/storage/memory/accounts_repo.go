package memory

import (
	"context"
	"errors"
	"sync"

	"clinic-data-exchange/internal/domain/accounts"
)

var ErrNotFound = errors.New("not found")

type accountsRepo struct {
	mu   sync.RWMutex
	byID map[string]accounts.Account

	// Historial most-recent-first por cuenta.
	txByAccount map[string][]accounts.Transaction
}

func NewAccountsRepo() accounts.Repository {
	return &accountsRepo{
		byID:        make(map[string]accounts.Account),
		txByAccount: make(map[string][]accounts.Transaction),
	}
}

func (r *accountsRepo) Create(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("account id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return accounts.ErrAlreadyExists
	}
	r.byID[a.ID] = cloneAccount(a)
	return nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return accounts.Account{}, ErrNotFound
	}
	return cloneAccount(a), nil
}

// Save escribe cuenta + transacciones nuevas bajo el mismo lock: el balance
// y el log no pueden divergir.
func (r *accountsRepo) Save(ctx context.Context, a accounts.Account, appended ...accounts.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("account id required")
	}
	if _, exists := r.byID[a.ID]; !exists {
		return ErrNotFound
	}

	r.byID[a.ID] = cloneAccount(a)

	// Prepend: historial most-recent-first.
	for _, tx := range appended {
		r.txByAccount[a.ID] = append([]accounts.Transaction{tx}, r.txByAccount[a.ID]...)
	}
	return nil
}

func (r *accountsRepo) ListTransactions(ctx context.Context, accountID string) ([]accounts.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.txByAccount[accountID]
	out := make([]accounts.Transaction, len(src))
	copy(out, src)
	return out, nil
}

// cloneAccount copia los slices para que el caller no comparta memoria con
// el estado interno del repo.
func cloneAccount(a accounts.Account) accounts.Account {
	c := a
	c.UnlockedRecordIDs = append([]string(nil), a.UnlockedRecordIDs...)
	c.Badges = append([]accounts.Badge(nil), a.Badges...)
	return c
}
