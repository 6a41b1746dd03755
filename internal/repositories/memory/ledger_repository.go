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

// LedgerRepository is an in-memory transaction/posting store. Alongside the
// raw postings it maintains per-account daily running totals so balance
// queries answer from the index instead of replaying the whole ledger; the
// index is definitionally equivalent to a full replay.
type LedgerRepository struct {
	mu           sync.RWMutex
	transactions map[string]domain.Transaction
	postings     map[string][]domain.Posting // by transaction ID
	byAccount    map[string][]domain.Posting // ordered by date, then posting ID

	// daily debit/credit totals per account, date-ascending
	index map[string][]dailyActivity
}

type dailyActivity struct {
	date        time.Time
	debitMinor  int64
	creditMinor int64
}

// NewLedgerRepository creates an empty in-memory ledger repository.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		transactions: make(map[string]domain.Transaction),
		postings:     make(map[string][]domain.Posting),
		byAccount:    make(map[string][]domain.Posting),
		index:        make(map[string][]dailyActivity),
	}
}

var _ portsrepo.LedgerRepository = (*LedgerRepository)(nil)

func (r *LedgerRepository) SaveTransaction(_ context.Context, txn domain.Transaction, postings []domain.Posting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[txn.TransactionID]; ok {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}

	txn.Postings = nil
	r.transactions[txn.TransactionID] = txn
	stored := make([]domain.Posting, len(postings))
	copy(stored, postings)
	r.postings[txn.TransactionID] = stored

	for _, p := range stored {
		r.insertAccountPosting(p)
		r.bumpIndex(p)
	}
	return nil
}

func (r *LedgerRepository) insertAccountPosting(p domain.Posting) {
	list := r.byAccount[p.AccountID]
	at := sort.Search(len(list), func(i int) bool {
		if !list[i].Date.Equal(p.Date) {
			return list[i].Date.After(p.Date)
		}
		return list[i].PostingID > p.PostingID
	})
	list = append(list, domain.Posting{})
	copy(list[at+1:], list[at:])
	list[at] = p
	r.byAccount[p.AccountID] = list
}

func (r *LedgerRepository) bumpIndex(p domain.Posting) {
	days := r.index[p.AccountID]
	at := sort.Search(len(days), func(i int) bool { return !days[i].date.Before(p.Date) })
	if at == len(days) || !days[at].date.Equal(p.Date) {
		days = append(days, dailyActivity{})
		copy(days[at+1:], days[at:])
		days[at] = dailyActivity{date: p.Date}
	}
	if p.Direction == domain.Debit {
		days[at].debitMinor += p.BookedAmount.MinorUnits()
	} else {
		days[at].creditMinor += p.BookedAmount.MinorUnits()
	}
	r.index[p.AccountID] = days
}

// SaveReversal stores the reversing transaction and marks the original
// REVERSED under a single lock hold. Validation happens before anything is
// written, so a failed reversal leaves no partial state.
func (r *LedgerRepository) SaveReversal(_ context.Context, reversing domain.Transaction, postings []domain.Posting, originalTransactionID string, actor string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	original, ok := r.transactions[originalTransactionID]
	if !ok {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, originalTransactionID)
	}
	if _, ok := r.transactions[reversing.TransactionID]; ok {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, reversing.TransactionID)
	}

	reversing.Postings = nil
	r.transactions[reversing.TransactionID] = reversing
	stored := make([]domain.Posting, len(postings))
	copy(stored, postings)
	r.postings[reversing.TransactionID] = stored
	for _, p := range stored {
		r.insertAccountPosting(p)
		r.bumpIndex(p)
	}

	original.Status = domain.Reversed
	original.ReversingTransactionID = &reversing.TransactionID
	original.LastUpdatedBy = actor
	original.LastUpdatedAt = now
	r.transactions[originalTransactionID] = original
	return nil
}

func (r *LedgerRepository) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	txn, ok := r.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &txn, nil
}

func (r *LedgerRepository) FindPostingsByTransactionID(_ context.Context, transactionID string) ([]domain.Posting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.postings[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	out := make([]domain.Posting, len(stored))
	copy(out, stored)
	return out, nil
}

// inRange treats a zero from/to as an open bound.
func inRange(date, from, to time.Time) bool {
	if !from.IsZero() && date.Before(from) {
		return false
	}
	if !to.IsZero() && date.After(to) {
		return false
	}
	return true
}

func (r *LedgerRepository) ListPostingsByAccount(_ context.Context, accountID string, from, to time.Time) ([]domain.Posting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Posting
	for _, p := range r.byAccount[accountID] {
		if inRange(p.Date, from, to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *LedgerRepository) ListPostingsInRange(_ context.Context, from, to time.Time) ([]domain.Posting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Posting
	for _, list := range r.byAccount {
		for _, p := range list {
			if inRange(p.Date, from, to) {
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].PostingID < out[j].PostingID
	})
	return out, nil
}

func (r *LedgerRepository) GetAccountActivityAsOf(_ context.Context, accountID string, asOf time.Time) (domain.AccountActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sumIndex(accountID, time.Time{}, asOf), nil
}

func (r *LedgerRepository) GetActivityAsOf(_ context.Context, asOf time.Time) (map[string]domain.AccountActivity, error) {
	return r.activity(time.Time{}, asOf)
}

func (r *LedgerRepository) GetActivityInRange(_ context.Context, from, to time.Time) (map[string]domain.AccountActivity, error) {
	return r.activity(from, to)
}

func (r *LedgerRepository) activity(from, to time.Time) (map[string]domain.AccountActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]domain.AccountActivity, len(r.index))
	for accountID := range r.index {
		if act := r.sumIndex(accountID, from, to); act.DebitMinor != 0 || act.CreditMinor != 0 {
			out[accountID] = act
		}
	}
	return out, nil
}

func (r *LedgerRepository) sumIndex(accountID string, from, to time.Time) domain.AccountActivity {
	act := domain.AccountActivity{AccountID: accountID}
	for _, day := range r.index[accountID] {
		if !inRange(day.date, from, to) {
			continue
		}
		act.DebitMinor += day.debitMinor
		act.CreditMinor += day.creditMinor
	}
	return act
}

func (r *LedgerRepository) hasPostings(accountID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byAccount[accountID]) > 0
}
