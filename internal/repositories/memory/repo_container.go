package memory

import (
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the full in-memory repository set. Useful for
// tests and for running the engine without a database.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	ledgerRepo := NewLedgerRepository()
	accountRepo := NewAccountRepository(ledgerRepo)
	exchangeRateRepo := NewExchangeRateRepository()
	snapshotRepo := NewSnapshotRepository()
	closingRepo := NewClosingRepository()

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		LedgerRepo:       ledgerRepo,
		ExchangeRateRepo: exchangeRateRepo,
		SnapshotRepo:     snapshotRepo,
		ClosingRepo:      closingRepo,
	}
}
