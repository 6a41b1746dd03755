package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	"github.com/plata-app/plata-core/internal/dto"
)

type FxServiceTestSuite struct {
	suite.Suite
	env    *testEnv
	cash   *domain.Account
	salary *domain.Account
	usd    *domain.Account
	fxGL   *domain.Account
}

func (s *FxServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.cash = s.env.createAccount(s.T(), "Cash", "CASH", domain.Asset, "MXN")
	s.salary = s.env.createAccount(s.T(), "Salary", "SALARY", domain.Income, "MXN")
	s.usd = s.env.createAccount(s.T(), "USD Bank", "USD-BANK", domain.Asset, "USD")
	s.fxGL = s.env.createAccount(s.T(), "FX Gain/Loss", testFxGainLossCode, domain.Income, "MXN")
}

func (s *FxServiceTestSuite) TestConvert_SpotRate() {
	date := day(2026, time.January, 10)
	s.env.upsertRate(s.T(), "MXN", "USD", "0.0571428571", date, domain.RateSpot)

	// 1,750.00 MXN at 1/17.5 converts to 100.00 USD.
	got, err := s.env.svc.Fx.Convert(s.env.ctx, domain.NewMoney(175000, "MXN"), "USD", date)
	s.Require().NoError(err)
	s.Equal(int64(10000), got.MinorUnits())
	s.Equal("USD", got.CurrencyCode())
}

func (s *FxServiceTestSuite) TestConvert_FallsBackToEOD() {
	date := day(2026, time.January, 10)
	s.env.upsertRate(s.T(), "USD", "MXN", "17.5", date, domain.RateEOD)

	got, err := s.env.svc.Fx.Convert(s.env.ctx, domain.NewMoney(10000, "USD"), "MXN", date)
	s.Require().NoError(err)
	s.Equal(int64(175000), got.MinorUnits())
}

func (s *FxServiceTestSuite) TestConvert_SameCurrencyPassthrough() {
	amount := domain.NewMoney(500, "MXN")
	got, err := s.env.svc.Fx.Convert(s.env.ctx, amount, "MXN", day(2026, time.January, 10))
	s.Require().NoError(err)
	s.True(got.Equal(amount))
}

func (s *FxServiceTestSuite) TestConvert_RateNotFound() {
	_, err := s.env.svc.Fx.Convert(s.env.ctx, domain.NewMoney(10000, "USD"), "MXN", day(2026, time.January, 10))
	s.ErrorIs(err, apperrors.ErrRateNotFound)
}

func (s *FxServiceTestSuite) TestUpsertRate_LastWriteWins() {
	date := day(2026, time.January, 31)
	s.env.upsertRate(s.T(), "USD", "MXN", "17.0", date, domain.RateMonthEnd)
	s.env.upsertRate(s.T(), "USD", "MXN", "18.0", date, domain.RateMonthEnd)

	rate, err := s.env.svc.Fx.GetRate(s.env.ctx, "USD", "MXN", date, domain.RateMonthEnd)
	s.Require().NoError(err)
	s.Equal("18", rate.Rate.String())
}

func (s *FxServiceTestSuite) TestUpsertRate_Validation() {
	_, err := s.env.svc.Fx.UpsertRate(s.env.ctx, dto.UpsertExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "USD",
		Rate:             *rateOf("1"),
		Date:             day(2026, time.January, 1),
		RateType:         domain.RateSpot,
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.env.svc.Fx.UpsertRate(s.env.ctx, dto.UpsertExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "MXN",
		Rate:             *rateOf("-1"),
		Date:             day(2026, time.January, 1),
		RateType:         domain.RateSpot,
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

// bookUSD posts a USD deposit booked at the given rate.
func (s *FxServiceTestSuite) bookUSD(date time.Time, usdMinor, bookedMinor int64, rate string) {
	booked := bookedMinor
	s.env.submit(s.T(), date, "USD deposit",
		dto.PostingInput{AccountID: s.usd.AccountID, Direction: domain.Debit, AmountMinor: usdMinor, FxRate: rateOf(rate), BookedMinor: &booked},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: bookedMinor},
	)
}

func (s *FxServiceTestSuite) TestCalculateFxPositions() {
	// 100 USD booked at 17.5 (1,750.00 MXN), month-end rate moves to 18.0.
	s.bookUSD(day(2026, time.January, 10), 10000, 175000, "17.5")

	monthEnd := day(2026, time.January, 31)
	s.env.upsertRate(s.T(), "USD", "MXN", "18.0", monthEnd, domain.RateMonthEnd)
	rates, err := s.env.rates.FindRatesForDate(s.env.ctx, "MXN", monthEnd, domain.RateMonthEnd)
	s.Require().NoError(err)

	postings, err := s.env.ledger.ListPostingsInRange(s.env.ctx, time.Time{}, monthEnd)
	s.Require().NoError(err)

	revals := s.env.svc.Fx.CalculateFxPositions(postings, rates, testBaseCurrency)
	s.Require().Len(revals, 1)

	r := revals[0]
	s.Equal(s.usd.AccountID, r.Position.AccountID)
	s.Equal("USD", r.Position.CurrencyCode)
	s.Equal(int64(10000), r.Position.NativeSumMinor)
	s.Equal(int64(175000), r.Position.BookedSumMinor)
	s.Equal(int64(180000), r.CurrentValueMinor)
	s.Equal(int64(5000), r.UnrealizedGainLossMinor) // 50.00 MXN gain
}

func (s *FxServiceTestSuite) TestCalculateFxPositions_SkipsMissingRateAndBase() {
	s.bookUSD(day(2026, time.January, 10), 10000, 175000, "17.5")
	s.env.submit(s.T(), day(2026, time.January, 12), "base currency salary",
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 50000},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 50000},
	)

	postings, err := s.env.ledger.ListPostingsInRange(s.env.ctx, time.Time{}, day(2026, time.January, 31))
	s.Require().NoError(err)

	// No month-end USD rate: the open USD position is skipped, base-currency
	// postings never form positions.
	revals := s.env.svc.Fx.CalculateFxPositions(postings, map[string]domain.ExchangeRate{}, testBaseCurrency)
	s.Empty(revals)
}

func (s *FxServiceTestSuite) TestIsRevaluationNeeded_Threshold() {
	revals := []domain.FxRevaluation{
		{UnrealizedGainLossMinor: 60},
		{UnrealizedGainLossMinor: -50},
	}
	s.True(s.env.svc.Fx.IsRevaluationNeeded(revals, 100))  // |60|+|−50| = 110
	s.False(s.env.svc.Fx.IsRevaluationNeeded(revals, 111))
	s.False(s.env.svc.Fx.IsRevaluationNeeded(nil, 1))
}

func (s *FxServiceTestSuite) TestRevalueMonthEnd_PostsGain() {
	s.bookUSD(day(2026, time.January, 10), 10000, 175000, "17.5")
	s.env.upsertRate(s.T(), "USD", "MXN", "18.0", day(2026, time.January, 31), domain.RateMonthEnd)

	txns, err := s.env.svc.Fx.RevalueMonthEnd(s.env.ctx, 2026, time.January)
	s.Require().NoError(err)
	s.Require().Len(txns, 1)

	txn := txns[0]
	s.Equal("FXREVAL-2026-01-USD", txn.Reference)
	s.Require().Len(txn.Postings, 2)

	// The position leg carries booked value only; the native holding is
	// unchanged by revaluation.
	posLeg, glLeg := txn.Postings[0], txn.Postings[1]
	s.Equal(s.usd.AccountID, posLeg.AccountID)
	s.Equal(domain.Debit, posLeg.Direction)
	s.Zero(posLeg.NativeAmount.MinorUnits())
	s.Equal(int64(5000), posLeg.BookedAmount.MinorUnits())

	s.Equal(s.fxGL.AccountID, glLeg.AccountID)
	s.Equal(domain.Credit, glLeg.Direction)
	s.Equal(int64(5000), glLeg.BookedAmount.MinorUnits())

	// Booked balance of the USD account now reflects the month-end rate.
	s.Equal(int64(180000), s.env.balance(s.T(), s.usd.AccountID, day(2026, time.January, 31)))
}

func (s *FxServiceTestSuite) TestRevalueMonthEnd_PostsLoss() {
	s.bookUSD(day(2026, time.January, 10), 10000, 175000, "17.5")
	s.env.upsertRate(s.T(), "USD", "MXN", "17.0", day(2026, time.January, 31), domain.RateMonthEnd)

	txns, err := s.env.svc.Fx.RevalueMonthEnd(s.env.ctx, 2026, time.January)
	s.Require().NoError(err)
	s.Require().Len(txns, 1)

	posLeg := txns[0].Postings[0]
	s.Equal(domain.Credit, posLeg.Direction)
	s.Equal(int64(5000), posLeg.BookedAmount.MinorUnits())
	s.Equal(int64(170000), s.env.balance(s.T(), s.usd.AccountID, day(2026, time.January, 31)))
}

func (s *FxServiceTestSuite) TestRevalueMonthEnd_BelowThresholdSkips() {
	s.bookUSD(day(2026, time.January, 10), 10000, 175000, "17.5")
	// 17.5001 moves the position by 1 minor unit, below the 100 threshold.
	s.env.upsertRate(s.T(), "USD", "MXN", "17.5001", day(2026, time.January, 31), domain.RateMonthEnd)

	txns, err := s.env.svc.Fx.RevalueMonthEnd(s.env.ctx, 2026, time.January)
	s.Require().NoError(err)
	s.Empty(txns)
	s.Equal(int64(175000), s.env.balance(s.T(), s.usd.AccountID, day(2026, time.January, 31)))
}

func (s *FxServiceTestSuite) TestRevalueMonthEnd_Idempotent() {
	s.bookUSD(day(2026, time.January, 10), 10000, 175000, "17.5")
	s.env.upsertRate(s.T(), "USD", "MXN", "18.0", day(2026, time.January, 31), domain.RateMonthEnd)

	_, err := s.env.svc.Fx.RevalueMonthEnd(s.env.ctx, 2026, time.January)
	s.Require().NoError(err)

	// A second run sees the already-revalued position and finds nothing
	// material to adjust.
	txns, err := s.env.svc.Fx.RevalueMonthEnd(s.env.ctx, 2026, time.January)
	s.Require().NoError(err)
	s.Empty(txns)
}

func TestFxServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FxServiceTestSuite))
}
