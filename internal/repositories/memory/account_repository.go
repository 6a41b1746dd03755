// Package memory provides mutex-guarded in-memory implementations of the
// repository ports. They back the service test suites and embedded usage
// where no database is configured; semantics mirror the pgsql adapters.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
)

// AccountRepository is an in-memory chart-of-accounts store.
type AccountRepository struct {
	mu     sync.RWMutex
	byID   map[string]domain.Account
	byCode map[string]string // code -> accountID

	ledger *LedgerRepository // for HasPostings; optional
}

// NewAccountRepository creates an empty in-memory account repository. The
// ledger repository, when provided, answers HasPostings.
func NewAccountRepository(ledger *LedgerRepository) *AccountRepository {
	return &AccountRepository{
		byID:   make(map[string]domain.Account),
		byCode: make(map[string]string),
		ledger: ledger,
	}
}

var _ portsrepo.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, ok := r.byCode[account.Code]; ok {
		return fmt.Errorf("%w: code %q", apperrors.ErrDuplicateCode, account.Code)
	}
	r.byID[account.AccountID] = account
	r.byCode[account.Code] = account.AccountID
	return nil
}

func (r *AccountRepository) UpdateAccount(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[account.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	if existing.Code != account.Code {
		return fmt.Errorf("%w: account code is immutable", apperrors.ErrValidation)
	}
	r.byID[account.AccountID] = account
	return nil
}

func (r *AccountRepository) DeactivateAccount(_ context.Context, accountID string, actor string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrConflict, accountID)
	}
	account.IsActive = false
	account.LastUpdatedBy = actor
	account.LastUpdatedAt = now
	r.byID[accountID] = account
	return nil
}

func (r *AccountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

func (r *AccountRepository) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: account code %q", apperrors.ErrNotFound, code)
	}
	account := r.byID[id]
	return &account, nil
}

func (r *AccountRepository) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := r.byID[id]; ok {
			out[id] = account
		}
	}
	return out, nil
}

func (r *AccountRepository) ListAccounts(_ context.Context, includeInactive bool) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Account, 0, len(r.byID))
	for _, account := range r.byID {
		if !includeInactive && !account.IsActive {
			continue
		}
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *AccountRepository) HasPostings(ctx context.Context, accountID string) (bool, error) {
	if r.ledger == nil {
		return false, nil
	}
	return r.ledger.hasPostings(accountID), nil
}
