package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
)

const snapshotColumns = `snapshot_id, account_id, balance_minor, currency_code, date, period_type, created_at, created_by, last_updated_at, last_updated_by`

type PgxSnapshotRepository struct {
	BaseRepository
}

// newPgxSnapshotRepository creates a new repository for materialized balances.
func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepository {
	return &PgxSnapshotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SnapshotRepository = (*PgxSnapshotRepository)(nil)

// UpsertSnapshots stores or replaces the given snapshots. The
// (account, date, period type) key is unique; regeneration overwrites in
// place.
func (r *PgxSnapshotRepository) UpsertSnapshots(ctx context.Context, snapshots []domain.AccountSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	query := `
		INSERT INTO account_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (account_id, date, period_type)
		DO UPDATE SET balance_minor = EXCLUDED.balance_minor, currency_code = EXCLUDED.currency_code, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	batch := &pgx.Batch{}
	for _, s := range snapshots {
		batch.Queue(query,
			s.SnapshotID,
			s.AccountID,
			s.Balance.MinorUnits(),
			s.Balance.CurrencyCode(),
			s.Date,
			s.PeriodType,
			s.CreatedAt,
			s.CreatedBy,
			s.LastUpdatedAt,
			s.LastUpdatedBy,
		)
	}
	br := r.Pool.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to upsert snapshot for account %s: %w", snapshots[i].AccountID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close snapshot upsert batch: %w", err)
	}
	return batchErr
}

// FindSnapshots retrieves snapshots of the given period type with dates in
// [from, to], ordered by date then account ID.
func (r *PgxSnapshotRepository) FindSnapshots(ctx context.Context, periodType domain.PeriodType, from, to time.Time) ([]domain.AccountSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM account_snapshots
		WHERE period_type = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date, account_id;
	`
	rows, err := r.Pool.Query(ctx, query, periodType, nullableTime(from), nullableTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []domain.AccountSnapshot
	for rows.Next() {
		var s domain.AccountSnapshot
		var balanceMinor int64
		var currencyCode string
		err := rows.Scan(
			&s.SnapshotID,
			&s.AccountID,
			&balanceMinor,
			&currencyCode,
			&s.Date,
			&s.PeriodType,
			&s.CreatedAt,
			&s.CreatedBy,
			&s.LastUpdatedAt,
			&s.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		s.Balance = domain.FromMinorUnits(balanceMinor, currencyCode)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return out, nil
}
