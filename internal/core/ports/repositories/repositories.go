package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	AccountRepo      AccountRepository
	LedgerRepo       LedgerRepository
	ExchangeRateRepo ExchangeRateRepository
	SnapshotRepo     SnapshotRepository
	ClosingRepo      ClosingRepository
}
