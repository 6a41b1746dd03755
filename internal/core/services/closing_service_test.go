package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	"github.com/plata-app/plata-core/internal/dto"
)

type ClosingServiceTestSuite struct {
	suite.Suite
	env    *testEnv
	cash   *domain.Account
	salary *domain.Account
	rent   *domain.Account
	re     *domain.Account
}

func (s *ClosingServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.cash = s.env.createAccount(s.T(), "Cash", "CASH", domain.Asset, "MXN")
	s.salary = s.env.createAccount(s.T(), "Salary", "SALARY", domain.Income, "MXN")
	s.rent = s.env.createAccount(s.T(), "Rent", "RENT", domain.Expense, "MXN")
	s.re = s.env.createAccount(s.T(), "Retained Earnings", "RE", domain.Equity, "MXN")
}

func (s *ClosingServiceTestSuite) seedJanuary() {
	s.env.submit(s.T(), day(2026, time.January, 5), "January salary",
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 100000},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 100000},
	)
	s.env.submit(s.T(), day(2026, time.January, 10), "January rent",
		dto.PostingInput{AccountID: s.rent.AccountID, Direction: domain.Debit, AmountMinor: 40000},
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Credit, AmountMinor: 40000},
	)
}

func (s *ClosingServiceTestSuite) TestGenerateSnapshots_Idempotent() {
	s.seedJanuary()

	first, err := s.env.svc.Closing.GenerateMonthlySnapshots(s.env.ctx, 2026, time.January)
	s.Require().NoError(err)
	s.Len(first, 4) // every account, including zero balances

	byAccount := make(map[string]domain.AccountSnapshot)
	for _, snap := range first {
		byAccount[snap.AccountID] = snap
	}
	s.Equal(int64(60000), byAccount[s.cash.AccountID].Balance.MinorUnits())
	s.Equal(int64(100000), byAccount[s.salary.AccountID].Balance.MinorUnits())
	s.Equal(domain.PeriodMonthly, byAccount[s.cash.AccountID].PeriodType)
	s.Equal(domain.MonthEnd(2026, time.January), byAccount[s.cash.AccountID].Date)

	// Regenerating overwrites in place: still one snapshot per account.
	second, err := s.env.svc.Closing.GenerateMonthlySnapshots(s.env.ctx, 2026, time.January)
	s.Require().NoError(err)
	s.Len(second, 4)

	stored, err := s.env.svc.Closing.GetSnapshots(s.env.ctx, domain.PeriodMonthly, day(2026, time.January, 1), day(2026, time.December, 31))
	s.Require().NoError(err)
	s.Len(stored, 4)
}

func (s *ClosingServiceTestSuite) TestCloseMonth_RollsNetIncomeIntoRetainedEarnings() {
	s.seedJanuary()

	entry, err := s.env.svc.Closing.CloseMonth(s.env.ctx, 2026, time.January, s.re.AccountID)
	s.Require().NoError(err)

	s.Equal(int64(60000), entry.NetIncome.MinorUnits())
	s.Equal(domain.PeriodMonthly, entry.PeriodType)
	s.Require().Len(entry.TransactionIDs, 1)

	// Income and expense accounts are zeroed; retained earnings absorbs the net.
	asOf := day(2026, time.January, 31)
	s.Zero(s.env.balance(s.T(), s.salary.AccountID, asOf))
	s.Zero(s.env.balance(s.T(), s.rent.AccountID, asOf))
	s.Equal(int64(60000), s.env.balance(s.T(), s.re.AccountID, asOf))
	// Real accounts are untouched by the close.
	s.Equal(int64(60000), s.env.balance(s.T(), s.cash.AccountID, asOf))

	// The closing transaction itself is balanced and queryable.
	txn, err := s.env.svc.Ledger.GetTransactionByID(s.env.ctx, entry.TransactionIDs[0])
	s.Require().NoError(err)
	s.Equal("CLOSE-MONTHLY-2026-01-31", txn.Reference)
	var debits, credits int64
	for _, p := range txn.Postings {
		if p.Direction == domain.Debit {
			debits += p.BookedAmount.MinorUnits()
		} else {
			credits += p.BookedAmount.MinorUnits()
		}
	}
	s.Equal(debits, credits)

	stored, err := s.env.svc.Closing.GetClosingEntry(s.env.ctx, domain.PeriodMonthly, day(2026, time.January, 31))
	s.Require().NoError(err)
	s.Equal(entry.ClosingID, stored.ClosingID)
	s.Equal(entry.TransactionIDs, stored.TransactionIDs)
}

func (s *ClosingServiceTestSuite) TestCloseMonth_Twice() {
	s.seedJanuary()

	_, err := s.env.svc.Closing.CloseMonth(s.env.ctx, 2026, time.January, s.re.AccountID)
	s.Require().NoError(err)

	_, err = s.env.svc.Closing.CloseMonth(s.env.ctx, 2026, time.January, s.re.AccountID)
	s.ErrorIs(err, apperrors.ErrPeriodAlreadyClosed)
}

func (s *ClosingServiceTestSuite) TestCloseMonth_RejectsNonEquityRetainedEarnings() {
	s.seedJanuary()

	_, err := s.env.svc.Closing.CloseMonth(s.env.ctx, 2026, time.January, s.cash.AccountID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ClosingServiceTestSuite) TestCloseMonth_EmptyPeriodStillCloses() {
	entry, err := s.env.svc.Closing.CloseMonth(s.env.ctx, 2026, time.February, s.re.AccountID)
	s.Require().NoError(err)
	s.True(entry.NetIncome.IsZero())
	// Empty but never nil: storage layers persist an empty list, not NULL.
	s.NotNil(entry.TransactionIDs)
	s.Empty(entry.TransactionIDs)

	closed, err := s.env.svc.Closing.IsPeriodClosed(s.env.ctx, day(2026, time.February, 14))
	s.Require().NoError(err)
	s.True(closed)
}

func (s *ClosingServiceTestSuite) TestCloseMonth_NetLoss() {
	s.env.submit(s.T(), day(2026, time.April, 3), "April rent",
		dto.PostingInput{AccountID: s.rent.AccountID, Direction: domain.Debit, AmountMinor: 40000},
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Credit, AmountMinor: 40000},
	)

	entry, err := s.env.svc.Closing.CloseMonth(s.env.ctx, 2026, time.April, s.re.AccountID)
	s.Require().NoError(err)
	s.Equal(int64(-40000), entry.NetIncome.MinorUnits())

	asOf := day(2026, time.April, 30)
	s.Zero(s.env.balance(s.T(), s.rent.AccountID, asOf))
	s.Equal(int64(-40000), s.env.balance(s.T(), s.re.AccountID, asOf))
}

func (s *ClosingServiceTestSuite) TestCloseYear_CoversWholeYear() {
	s.seedJanuary()

	_, err := s.env.svc.Closing.CloseYear(s.env.ctx, 2026, s.re.AccountID)
	s.Require().NoError(err)

	// Every day of the year is now closed to postings.
	for _, d := range []time.Time{day(2026, time.January, 1), day(2026, time.July, 4), day(2026, time.December, 31)} {
		closed, err := s.env.svc.Closing.IsPeriodClosed(s.env.ctx, d)
		s.Require().NoError(err)
		s.True(closed, d.Format(time.DateOnly))
	}

	// Closing a month inside a closed year is rejected.
	_, err = s.env.svc.Closing.CloseMonth(s.env.ctx, 2026, time.March, s.re.AccountID)
	s.ErrorIs(err, apperrors.ErrPeriodAlreadyClosed)
}

func TestClosingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClosingServiceTestSuite))
}
