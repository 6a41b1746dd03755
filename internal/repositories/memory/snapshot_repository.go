package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
)

type snapshotKey struct {
	accountID  string
	date       time.Time
	periodType domain.PeriodType
}

// SnapshotRepository is an in-memory snapshot store. Upserts replace prior
// rows for the same (account, date, period type) key.
type SnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[snapshotKey]domain.AccountSnapshot
}

// NewSnapshotRepository creates an empty in-memory snapshot repository.
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{snapshots: make(map[snapshotKey]domain.AccountSnapshot)}
}

var _ portsrepo.SnapshotRepository = (*SnapshotRepository)(nil)

func (r *SnapshotRepository) UpsertSnapshots(_ context.Context, snapshots []domain.AccountSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range snapshots {
		key := snapshotKey{accountID: s.AccountID, date: domain.DateOnly(s.Date), periodType: s.PeriodType}
		r.snapshots[key] = s
	}
	return nil
}

func (r *SnapshotRepository) FindSnapshots(_ context.Context, periodType domain.PeriodType, from, to time.Time) ([]domain.AccountSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.AccountSnapshot
	for key, s := range r.snapshots {
		if key.periodType == periodType && inRange(key.date, from, to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}

