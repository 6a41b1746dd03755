package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
	"github.com/plata-app/plata-core/internal/core/services"
	"github.com/plata-app/plata-core/internal/dto"
	"github.com/plata-app/plata-core/internal/repositories/memory"
)

// testEnv wires the full service graph over in-memory repositories with MXN
// as the base currency, mirroring production wiring minus the database.
type testEnv struct {
	ctx    context.Context
	ledger portsrepo.LedgerRepository
	rates  portsrepo.ExchangeRateRepository
	svc    *services.Container
}

const (
	testBaseCurrency   = "MXN"
	testFxGainLossCode = "FX-GL"
	testThresholdMinor = int64(100)
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := memory.NewRepositoryProvider()

	container, err := services.NewContainer(repos, domain.DefaultRegistry(), services.Options{
		BaseCurrencyCode:          testBaseCurrency,
		FxGainLossAccountCode:     testFxGainLossCode,
		RevaluationThresholdMinor: testThresholdMinor,
		Actor:                     "test",
	})
	require.NoError(t, err)

	return &testEnv{
		ctx:    context.Background(),
		ledger: repos.LedgerRepo,
		rates:  repos.ExchangeRateRepo,
		svc:    container,
	}
}

func (e *testEnv) createAccount(t *testing.T, name, code string, nature domain.AccountNature, currencyCode string) *domain.Account {
	t.Helper()
	acc, err := e.svc.Accounts.CreateAccount(e.ctx, dto.CreateAccountRequest{
		Name:         name,
		Code:         code,
		Nature:       nature,
		CurrencyCode: currencyCode,
	})
	require.NoError(t, err)
	return acc
}

func (e *testEnv) upsertRate(t *testing.T, from, to, rate string, date time.Time, rateType domain.RateType) {
	t.Helper()
	_, err := e.svc.Fx.UpsertRate(e.ctx, dto.UpsertExchangeRateRequest{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             decimal.RequireFromString(rate),
		Date:             date,
		RateType:         rateType,
	})
	require.NoError(t, err)
}

func (e *testEnv) submit(t *testing.T, date time.Time, description string, postings ...dto.PostingInput) *domain.Transaction {
	t.Helper()
	txn, err := e.svc.Ledger.SubmitTransaction(e.ctx, dto.SubmitTransactionRequest{
		Date:        date,
		Description: description,
		Postings:    postings,
	})
	require.NoError(t, err)
	return txn
}

func (e *testEnv) balance(t *testing.T, accountID string, asOf time.Time) int64 {
	t.Helper()
	bal, err := e.svc.Ledger.GetAccountBalance(e.ctx, accountID, asOf)
	require.NoError(t, err)
	return bal.MinorUnits()
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func rateOf(s string) *decimal.Decimal {
	r := decimal.RequireFromString(s)
	return &r
}

func decimalOne() decimal.Decimal { return decimal.NewFromInt(1) }
