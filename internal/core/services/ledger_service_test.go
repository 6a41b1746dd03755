package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	"github.com/plata-app/plata-core/internal/dto"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	env    *testEnv
	cash   *domain.Account
	salary *domain.Account
	rent   *domain.Account
	usd    *domain.Account
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.cash = s.env.createAccount(s.T(), "Cash", "CASH", domain.Asset, "MXN")
	s.salary = s.env.createAccount(s.T(), "Salary", "SALARY", domain.Income, "MXN")
	s.rent = s.env.createAccount(s.T(), "Rent", "RENT", domain.Expense, "MXN")
	s.usd = s.env.createAccount(s.T(), "USD Bank", "USD-BANK", domain.Asset, "USD")
}

func (s *LedgerServiceTestSuite) TestSubmitTransaction_BaseCurrency() {
	txn := s.env.submit(s.T(), day(2026, time.January, 15), "January salary",
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 100000},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 100000},
	)

	s.Equal(domain.Posted, txn.Status)
	s.Len(txn.Postings, 2)
	for _, p := range txn.Postings {
		s.Equal("MXN", p.BookedAmount.CurrencyCode())
		s.Equal(p.NativeAmount.MinorUnits(), p.BookedAmount.MinorUnits())
		s.True(p.FxRate.Equal(decimalOne()))
	}

	s.Equal(int64(100000), s.env.balance(s.T(), s.cash.AccountID, day(2026, time.January, 31)))
	s.Equal(int64(100000), s.env.balance(s.T(), s.salary.AccountID, day(2026, time.January, 31)))
}

func (s *LedgerServiceTestSuite) TestSubmitTransaction_UnbalancedRejectedAtomically() {
	_, err := s.env.svc.Ledger.SubmitTransaction(s.env.ctx, dto.SubmitTransactionRequest{
		Date:        day(2026, time.January, 15),
		Description: "typo in amount",
		Postings: []dto.PostingInput{
			{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 99900},
			{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 100000},
		},
	})
	s.ErrorIs(err, apperrors.ErrUnbalancedTransaction)

	// Nothing persisted: both accounts still read zero.
	s.Zero(s.env.balance(s.T(), s.cash.AccountID, day(2026, time.December, 31)))
	s.Zero(s.env.balance(s.T(), s.salary.AccountID, day(2026, time.December, 31)))
}

func (s *LedgerServiceTestSuite) TestSubmitTransaction_ForeignCurrencyWithRate() {
	// 100.00 USD at 17.5 books as 1,750.00 MXN.
	txn := s.env.submit(s.T(), day(2026, time.January, 20), "USD deposit",
		dto.PostingInput{AccountID: s.usd.AccountID, Direction: domain.Debit, AmountMinor: 10000, FxRate: rateOf("17.5")},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 175000},
	)

	usdLeg := txn.Postings[0]
	s.Equal(int64(10000), usdLeg.NativeAmount.MinorUnits())
	s.Equal("USD", usdLeg.NativeAmount.CurrencyCode())
	s.Equal(int64(175000), usdLeg.BookedAmount.MinorUnits())
	s.Equal("MXN", usdLeg.BookedAmount.CurrencyCode())

	// Balances are booked MXN regardless of the account's native currency.
	s.Equal(int64(175000), s.env.balance(s.T(), s.usd.AccountID, day(2026, time.January, 31)))
}

func (s *LedgerServiceTestSuite) TestSubmitTransaction_ForeignCurrencyNeedsRateOrOverride() {
	_, err := s.env.svc.Ledger.SubmitTransaction(s.env.ctx, dto.SubmitTransactionRequest{
		Date:        day(2026, time.January, 20),
		Description: "missing rate",
		Postings: []dto.PostingInput{
			{AccountID: s.usd.AccountID, Direction: domain.Debit, AmountMinor: 10000},
			{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 175000},
		},
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestSubmitTransaction_SingleAccountRejected() {
	_, err := s.env.svc.Ledger.SubmitTransaction(s.env.ctx, dto.SubmitTransactionRequest{
		Date:        day(2026, time.January, 15),
		Description: "self transfer",
		Postings: []dto.PostingInput{
			{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 1000},
			{AccountID: s.cash.AccountID, Direction: domain.Credit, AmountMinor: 1000},
		},
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestSubmitTransaction_UnknownAccount() {
	_, err := s.env.svc.Ledger.SubmitTransaction(s.env.ctx, dto.SubmitTransactionRequest{
		Date:        day(2026, time.January, 15),
		Description: "ghost account",
		Postings: []dto.PostingInput{
			{AccountID: "nope", Direction: domain.Debit, AmountMinor: 1000},
			{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 1000},
		},
	})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestSubmitTransaction_InactiveAccountRejected() {
	spare := s.env.createAccount(s.T(), "Old Wallet", "OLD", domain.Asset, "MXN")
	s.Require().NoError(s.env.svc.Accounts.DeactivateAccount(s.env.ctx, spare.AccountID))

	_, err := s.env.svc.Ledger.SubmitTransaction(s.env.ctx, dto.SubmitTransactionRequest{
		Date:        day(2026, time.January, 15),
		Description: "into closed wallet",
		Postings: []dto.PostingInput{
			{AccountID: spare.AccountID, Direction: domain.Debit, AmountMinor: 1000},
			{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 1000},
		},
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestReverseTransaction_RestoresBalances() {
	txn := s.env.submit(s.T(), day(2026, time.February, 1), "February rent",
		dto.PostingInput{AccountID: s.rent.AccountID, Direction: domain.Debit, AmountMinor: 40000},
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Credit, AmountMinor: 40000},
	)
	s.Equal(int64(-40000), s.env.balance(s.T(), s.cash.AccountID, day(2026, time.February, 28)))

	rev, err := s.env.svc.Ledger.ReverseTransaction(s.env.ctx, txn.TransactionID, day(2026, time.February, 2))
	s.Require().NoError(err)

	s.Equal(&txn.TransactionID, rev.OriginalTransactionID)
	s.Zero(s.env.balance(s.T(), s.cash.AccountID, day(2026, time.February, 28)))
	s.Zero(s.env.balance(s.T(), s.rent.AccountID, day(2026, time.February, 28)))

	original, err := s.env.svc.Ledger.GetTransactionByID(s.env.ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.Equal(domain.Reversed, original.Status)
	s.Require().NotNil(original.ReversingTransactionID)
	s.Equal(rev.TransactionID, *original.ReversingTransactionID)
}

func (s *LedgerServiceTestSuite) TestReverseTransaction_OnlyPostedOnce() {
	txn := s.env.submit(s.T(), day(2026, time.February, 1), "February rent",
		dto.PostingInput{AccountID: s.rent.AccountID, Direction: domain.Debit, AmountMinor: 40000},
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Credit, AmountMinor: 40000},
	)
	rev, err := s.env.svc.Ledger.ReverseTransaction(s.env.ctx, txn.TransactionID, day(2026, time.February, 2))
	s.Require().NoError(err)

	// Double reversal and reversing a reversal are both conflicts.
	_, err = s.env.svc.Ledger.ReverseTransaction(s.env.ctx, txn.TransactionID, day(2026, time.February, 3))
	s.ErrorIs(err, apperrors.ErrConflict)
	_, err = s.env.svc.Ledger.ReverseTransaction(s.env.ctx, rev.TransactionID, day(2026, time.February, 3))
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *LedgerServiceTestSuite) TestSubmitTransaction_ClosedPeriodRejected() {
	re := s.env.createAccount(s.T(), "Retained Earnings", "RE", domain.Equity, "MXN")
	s.env.submit(s.T(), day(2026, time.January, 10), "January salary",
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 100000},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 100000},
	)

	_, err := s.env.svc.Closing.CloseMonth(s.env.ctx, 2026, time.January, re.AccountID)
	s.Require().NoError(err)

	_, err = s.env.svc.Ledger.SubmitTransaction(s.env.ctx, dto.SubmitTransactionRequest{
		Date:        day(2026, time.January, 20),
		Description: "late entry",
		Postings: []dto.PostingInput{
			{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 500},
			{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 500},
		},
	})
	s.ErrorIs(err, apperrors.ErrPeriodClosed)

	// Posting after the closed range still works.
	s.env.submit(s.T(), day(2026, time.February, 1), "new month",
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 500},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 500},
	)
}

func (s *LedgerServiceTestSuite) TestGetAccountBalance_AsOfDateCutsOff() {
	s.env.submit(s.T(), day(2026, time.March, 10), "first",
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 1000},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 1000},
	)
	s.env.submit(s.T(), day(2026, time.March, 20), "second",
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 2000},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 2000},
	)

	s.Equal(int64(1000), s.env.balance(s.T(), s.cash.AccountID, day(2026, time.March, 15)))
	s.Equal(int64(3000), s.env.balance(s.T(), s.cash.AccountID, day(2026, time.March, 31)))
	s.Zero(s.env.balance(s.T(), s.cash.AccountID, day(2026, time.March, 1)))
}

func (s *LedgerServiceTestSuite) TestListTransactionsByAccount() {
	first := s.env.submit(s.T(), day(2026, time.March, 10), "first",
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 1000},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 1000},
	)
	second := s.env.submit(s.T(), day(2026, time.March, 20), "second",
		dto.PostingInput{AccountID: s.cash.AccountID, Direction: domain.Debit, AmountMinor: 2000},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 2000},
	)
	// Rent never touches cash in April, so it stays out of the listing.
	s.env.submit(s.T(), day(2026, time.April, 2), "rent",
		dto.PostingInput{AccountID: s.rent.AccountID, Direction: domain.Debit, AmountMinor: 500},
		dto.PostingInput{AccountID: s.salary.AccountID, Direction: domain.Credit, AmountMinor: 500},
	)

	txns, err := s.env.svc.Ledger.ListTransactionsByAccount(s.env.ctx, s.cash.AccountID, day(2026, time.March, 1), day(2026, time.April, 30))
	s.Require().NoError(err)
	s.Require().Len(txns, 2)
	s.Equal(first.TransactionID, txns[0].TransactionID)
	s.Equal(second.TransactionID, txns[1].TransactionID)
	s.Len(txns[0].Postings, 2)

	// Narrowing the window to late March drops the first transaction.
	txns, err = s.env.svc.Ledger.ListTransactionsByAccount(s.env.ctx, s.cash.AccountID, day(2026, time.March, 15), day(2026, time.March, 31))
	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	s.Equal(second.TransactionID, txns[0].TransactionID)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
