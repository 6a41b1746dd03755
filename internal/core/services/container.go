package services

import (
	"fmt"

	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
	portssvc "github.com/plata-app/plata-core/internal/core/ports/services"
)

// Options carries the ledger-level settings a container needs.
type Options struct {
	BaseCurrencyCode          string
	FxGainLossAccountCode     string
	RevaluationThresholdMinor int64
	Actor                     string
}

// Container holds the fully wired service graph.
type Container struct {
	Currency  portssvc.CurrencySvc
	Accounts  portssvc.AccountSvc
	Ledger    portssvc.LedgerSvc
	Fx        portssvc.FxSvc
	Reporting portssvc.ReportingSvc
	Closing   portssvc.ClosingSvc
}

// NewContainer wires all services over the given repositories and registry.
func NewContainer(repos portsrepo.RepositoryProvider, registry *domain.CurrencyRegistry, opts Options) (*Container, error) {
	currencySvc := NewCurrencyService(registry)
	accountSvc := NewAccountService(repos.AccountRepo, registry, opts.Actor)

	ledgerSvc, err := NewLedgerService(repos.LedgerRepo, repos.AccountRepo, repos.ClosingRepo, registry, opts.BaseCurrencyCode, opts.Actor)
	if err != nil {
		return nil, fmt.Errorf("ledger service: %w", err)
	}

	reportingSvc, err := NewReportingService(repos.AccountRepo, repos.LedgerRepo, registry, opts.BaseCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("reporting service: %w", err)
	}

	fxSvc, err := NewFxService(repos.ExchangeRateRepo, repos.LedgerRepo, ledgerSvc, accountSvc, registry,
		opts.FxGainLossAccountCode, opts.RevaluationThresholdMinor, opts.Actor)
	if err != nil {
		return nil, fmt.Errorf("fx service: %w", err)
	}

	closingSvc := NewClosingService(repos.AccountRepo, repos.LedgerRepo, ledgerSvc, reportingSvc,
		repos.SnapshotRepo, repos.ClosingRepo, opts.Actor)

	return &Container{
		Currency:  currencySvc,
		Accounts:  accountSvc,
		Ledger:    ledgerSvc,
		Fx:        fxSvc,
		Reporting: reportingSvc,
		Closing:   closingSvc,
	}, nil
}
