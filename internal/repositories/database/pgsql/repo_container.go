package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the full PostgreSQL repository set.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		LedgerRepo:       newPgxLedgerRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		SnapshotRepo:     newPgxSnapshotRepository(dbPool),
		ClosingRepo:      newPgxClosingRepository(dbPool),
	}
}
