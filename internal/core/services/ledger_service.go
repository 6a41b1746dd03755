package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
	portssvc "github.com/plata-app/plata-core/internal/core/ports/services"
	"github.com/plata-app/plata-core/internal/dto"
)

// ledgerService is the only writer of postings. Submission is serialized by a
// single write mutex so the ledger behaves as a single-writer, multi-reader
// store: validation and the atomic commit happen under the lock, reads go
// straight to committed state. Anything that mutates balances (submission,
// reversal, revaluation, closing entries) funnels through SubmitTransaction.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepository
	accountRepo portsrepo.AccountReader
	closingRepo portsrepo.ClosingReader
	registry    *domain.CurrencyRegistry
	base        domain.Currency
	actor       string

	writeMu sync.Mutex
}

// NewLedgerService creates a new LedgerSvc writing in the given base currency.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepository,
	accountRepo portsrepo.AccountReader,
	closingRepo portsrepo.ClosingReader,
	registry *domain.CurrencyRegistry,
	baseCurrencyCode string,
	actor string,
) (portssvc.LedgerSvc, error) {
	base, err := registry.Get(baseCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("base currency: %w", err)
	}
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		closingRepo: closingRepo,
		registry:    registry,
		base:        base,
		actor:       actor,
	}, nil
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

func (s *ledgerService) BaseCurrency() string { return s.base.Code }

// bookedMinor derives a posting's base-currency amount from its native amount
// and rate: native minor -> native major -> multiply by rate -> base minor,
// rounding half away from zero at the base scale.
func (s *ledgerService) bookedMinor(nativeMinor int64, native domain.Currency, rate decimal.Decimal) int64 {
	major := decimal.New(nativeMinor, -int32(native.MinorUnitScale))
	return major.Mul(rate).Shift(int32(s.base.MinorUnitScale)).Round(0).IntPart()
}

// buildPostings validates each input against its account and resolves booked
// amounts. It performs no persistence.
func (s *ledgerService) buildPostings(txnID string, date time.Time, inputs []dto.PostingInput, accounts map[string]domain.Account, now time.Time) ([]domain.Posting, error) {
	postings := make([]domain.Posting, 0, len(inputs))
	for _, in := range inputs {
		acc, ok := accounts[in.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, in.AccountID)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, in.AccountID)
		}
		if in.AmountMinor < 0 {
			return nil, fmt.Errorf("%w: negative native amount for account %s", apperrors.ErrValidation, in.AccountID)
		}

		native, err := s.registry.Get(acc.CurrencyCode)
		if err != nil {
			return nil, err
		}
		nativeAmount := domain.NewMoney(in.AmountMinor, acc.CurrencyCode)

		var booked int64
		var rate decimal.Decimal
		switch {
		case acc.CurrencyCode == s.base.Code:
			booked = in.AmountMinor
			rate = decimal.NewFromInt(1)
			if in.BookedMinor != nil && *in.BookedMinor != in.AmountMinor {
				return nil, fmt.Errorf("%w: booked override differs from native amount on base-currency account %s", apperrors.ErrValidation, in.AccountID)
			}
		case in.BookedMinor != nil:
			booked = *in.BookedMinor
			if in.FxRate != nil {
				rate = *in.FxRate
			} else if in.AmountMinor != 0 {
				// Effective rate implied by the override, recorded for audit.
				rate = decimal.New(booked, -int32(s.base.MinorUnitScale)).
					Div(decimal.New(in.AmountMinor, -int32(native.MinorUnitScale)))
			}
		case in.FxRate != nil:
			if in.FxRate.LessThanOrEqual(decimal.Zero) {
				return nil, fmt.Errorf("%w: fx rate must be positive for account %s", apperrors.ErrValidation, in.AccountID)
			}
			rate = *in.FxRate
			booked = s.bookedMinor(in.AmountMinor, native, rate)
		default:
			return nil, fmt.Errorf("%w: posting on foreign-currency account %s needs an fx rate or booked amount", apperrors.ErrValidation, in.AccountID)
		}

		if booked <= 0 {
			return nil, fmt.Errorf("%w: booked amount must be positive for account %s", apperrors.ErrValidation, in.AccountID)
		}

		postings = append(postings, domain.Posting{
			PostingID:     uuid.NewString(),
			TransactionID: txnID,
			AccountID:     in.AccountID,
			Direction:     in.Direction,
			NativeAmount:  nativeAmount,
			BookedAmount:  domain.NewMoney(booked, s.base.Code),
			FxRate:        rate,
			Date:          date,
			AuditFields:   domain.NewAuditFields(s.actor, now),
		})
	}
	return postings, nil
}

// validateBalance enforces the zero-sum invariant: exact integer equality of
// booked debit and credit sums in base-currency minor units, no tolerance.
func validateBalance(postings []domain.Posting) error {
	var debits, credits int64
	for _, p := range postings {
		if p.Direction == domain.Debit {
			debits += p.BookedAmount.MinorUnits()
		} else {
			credits += p.BookedAmount.MinorUnits()
		}
	}
	if debits != credits {
		return fmt.Errorf("%w: debits %d, credits %d (base minor units)", apperrors.ErrUnbalancedTransaction, debits, credits)
	}
	return nil
}

func (s *ledgerService) SubmitTransaction(ctx context.Context, req dto.SubmitTransactionRequest) (*domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if len(req.Postings) < 2 {
		return nil, fmt.Errorf("%w: a transaction needs at least two postings", apperrors.ErrValidation)
	}

	accountIDs := make([]string, 0, len(req.Postings))
	seen := make(map[string]struct{}, len(req.Postings))
	for _, p := range req.Postings {
		if _, ok := seen[p.AccountID]; !ok {
			seen[p.AccountID] = struct{}{}
			accountIDs = append(accountIDs, p.AccountID)
		}
	}
	if len(accountIDs) < 2 {
		return nil, fmt.Errorf("%w: a transaction must touch at least two accounts", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	date := domain.DateOnly(req.Date)
	now := time.Now().UTC()
	txnID := uuid.NewString()

	postings, err := s.buildPostings(txnID, date, req.Postings, accounts, now)
	if err != nil {
		return nil, err
	}
	if err := validateBalance(postings); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID: txnID,
		Date:          date,
		Description:   req.Description,
		Reference:     req.Reference,
		Status:        domain.Posted,
		AuditFields:   domain.NewAuditFields(s.actor, now),
	}

	// Validate-then-commit under the write lock. The closed-period check sits
	// inside the lock so a concurrent period close cannot slip a posting into
	// a period it is about to seal.
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	closed, err := s.closingRepo.IsDateClosed(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check closed periods: %w", err)
	}
	if closed {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodClosed, date.Format(time.DateOnly))
	}

	if err := s.ledgerRepo.SaveTransaction(ctx, txn, postings); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txnID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction submitted",
		slog.String("transaction_id", txnID),
		slog.String("date", date.Format(time.DateOnly)),
		slog.Int("postings", len(postings)))

	txn.Postings = postings
	return &txn, nil
}

func (s *ledgerService) ReverseTransaction(ctx context.Context, transactionID string, date time.Time) (*domain.Transaction, error) {
	original, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to fetch transaction for reversal", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: transaction %s is %s, expected POSTED", apperrors.ErrConflict, transactionID, original.Status)
	}
	if original.OriginalTransactionID != nil {
		return nil, fmt.Errorf("%w: cannot reverse a reversal", apperrors.ErrConflict)
	}

	originalPostings, err := s.ledgerRepo.FindPostingsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch postings for reversal: %w", err)
	}

	revDate := domain.DateOnly(date)
	now := time.Now().UTC()
	revID := uuid.NewString()

	reversing := domain.Transaction{
		TransactionID:         revID,
		Date:                  revDate,
		Description:           fmt.Sprintf("Reversal of: %s", original.Description),
		Reference:             original.TransactionID,
		Status:                domain.Posted,
		OriginalTransactionID: &original.TransactionID,
		AuditFields:           domain.NewAuditFields(s.actor, now),
	}

	revPostings := make([]domain.Posting, len(originalPostings))
	for i, p := range originalPostings {
		revPostings[i] = domain.Posting{
			PostingID:     uuid.NewString(),
			TransactionID: revID,
			AccountID:     p.AccountID,
			Direction:     p.Direction.Opposite(),
			NativeAmount:  p.NativeAmount,
			BookedAmount:  p.BookedAmount,
			FxRate:        p.FxRate,
			Date:          revDate,
			AuditFields:   domain.NewAuditFields(s.actor, now),
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	closed, err := s.closingRepo.IsDateClosed(ctx, revDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check closed periods: %w", err)
	}
	if closed {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodClosed, revDate.Format(time.DateOnly))
	}

	// One repository operation: the reversing transaction and the original's
	// status flip commit together, so a failure can never leave the reversal
	// applied with the original still POSTED.
	if err := s.ledgerRepo.SaveReversal(ctx, reversing, revPostings, original.TransactionID, s.actor, now); err != nil {
		s.LogError(ctx, err, "Failed to save reversal", slog.String("transaction_id", revID))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	s.LogInfo(ctx, "Transaction reversed",
		slog.String("original_transaction_id", original.TransactionID),
		slog.String("reversing_transaction_id", revID))

	reversing.Postings = revPostings
	return &reversing, nil
}

func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	postings, err := s.ledgerRepo.FindPostingsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch postings for transaction %s: %w", transactionID, err)
	}
	txn.Postings = postings
	return txn, nil
}

func (s *ledgerService) ListPostingsByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Posting, error) {
	return s.ledgerRepo.ListPostingsByAccount(ctx, accountID, domain.DateOnly(from), domain.DateOnly(to))
}

func (s *ledgerService) ListTransactionsByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	postings, err := s.ledgerRepo.ListPostingsByAccount(ctx, accountID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, err
	}

	// Postings arrive date-ordered; keep the first-seen order of their
	// transactions.
	seen := make(map[string]struct{}, len(postings))
	txns := make([]domain.Transaction, 0, len(postings))
	for _, p := range postings {
		if _, ok := seen[p.TransactionID]; ok {
			continue
		}
		seen[p.TransactionID] = struct{}{}
		txn, err := s.GetTransactionByID(ctx, p.TransactionID)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	return txns, nil
}

func (s *ledgerService) GetAccountBalance(ctx context.Context, accountID string, asOf time.Time) (domain.Money, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return domain.Money{}, err
	}
	activity, err := s.ledgerRepo.GetAccountActivityAsOf(ctx, accountID, domain.DateOnly(asOf))
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to aggregate postings for account %s: %w", accountID, err)
	}
	return domain.NewMoney(activity.NormalBalance(account.Nature), s.base.Code), nil
}

func (s *ledgerService) GetAccountBalances(ctx context.Context, accountIDs []string, asOf time.Time) (map[string]domain.Money, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	activity, err := s.ledgerRepo.GetActivityAsOf(ctx, domain.DateOnly(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate postings: %w", err)
	}
	balances := make(map[string]domain.Money, len(accountIDs))
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		balances[id] = domain.NewMoney(activity[id].NormalBalance(acc.Nature), s.base.Code)
	}
	return balances, nil
}

func (s *ledgerService) GetAllAccountBalances(ctx context.Context, asOf time.Time) (map[string]domain.Money, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, true)
	if err != nil {
		return nil, err
	}
	activity, err := s.ledgerRepo.GetActivityAsOf(ctx, domain.DateOnly(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate postings: %w", err)
	}
	balances := make(map[string]domain.Money, len(accounts))
	for _, acc := range accounts {
		balances[acc.AccountID] = domain.NewMoney(activity[acc.AccountID].NormalBalance(acc.Nature), s.base.Code)
	}
	return balances, nil
}
