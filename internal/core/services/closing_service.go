package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
	portssvc "github.com/plata-app/plata-core/internal/core/ports/services"
	"github.com/plata-app/plata-core/internal/dto"
)

// closingService materializes balance snapshots and performs period close.
// Closing entries are submitted through the ledger service, so they serialize
// with interactive writes on the same write path and obey the same balance
// invariant as every other transaction.
type closingService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	ledgerRepo   portsrepo.TransactionReader
	ledgerSvc    portssvc.LedgerSvc
	reportingSvc portssvc.ReportingSvc
	snapshotRepo portsrepo.SnapshotRepository
	closingRepo  portsrepo.ClosingRepository
	actor        string
}

// NewClosingService creates a new ClosingSvc.
func NewClosingService(
	accountRepo portsrepo.AccountReader,
	ledgerRepo portsrepo.TransactionReader,
	ledgerSvc portssvc.LedgerSvc,
	reportingSvc portssvc.ReportingSvc,
	snapshotRepo portsrepo.SnapshotRepository,
	closingRepo portsrepo.ClosingRepository,
	actor string,
) portssvc.ClosingSvc {
	return &closingService{
		accountRepo:  accountRepo,
		ledgerRepo:   ledgerRepo,
		ledgerSvc:    ledgerSvc,
		reportingSvc: reportingSvc,
		snapshotRepo: snapshotRepo,
		closingRepo:  closingRepo,
		actor:        actor,
	}
}

var _ portssvc.ClosingSvc = (*closingService)(nil)

// generateSnapshots recomputes snapshots for every account at the given date.
// Snapshots are derived from the same balance query the rest of the system
// uses, so regenerating them is always safe and idempotent.
func (s *closingService) generateSnapshots(ctx context.Context, periodType domain.PeriodType, date time.Time) ([]domain.AccountSnapshot, error) {
	day := domain.DateOnly(date)
	balances, err := s.ledgerSvc.GetAllAccountBalances(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balances for snapshots: %w", err)
	}

	accountIDs := make([]string, 0, len(balances))
	for id := range balances {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	now := time.Now().UTC()
	snapshots := make([]domain.AccountSnapshot, 0, len(accountIDs))
	for _, id := range accountIDs {
		snapshots = append(snapshots, domain.AccountSnapshot{
			SnapshotID:  uuid.NewString(),
			AccountID:   id,
			Balance:     balances[id],
			Date:        day,
			PeriodType:  periodType,
			AuditFields: domain.NewAuditFields(s.actor, now),
		})
	}

	if err := s.snapshotRepo.UpsertSnapshots(ctx, snapshots); err != nil {
		s.LogError(ctx, err, "Failed to store snapshots",
			slog.String("period_type", string(periodType)),
			slog.String("date", day.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to store snapshots: %w", err)
	}

	s.LogInfo(ctx, "Snapshots generated",
		slog.String("period_type", string(periodType)),
		slog.String("date", day.Format(time.DateOnly)),
		slog.Int("accounts", len(snapshots)))
	return snapshots, nil
}

func (s *closingService) GenerateDailySnapshots(ctx context.Context, date time.Time) ([]domain.AccountSnapshot, error) {
	return s.generateSnapshots(ctx, domain.PeriodDaily, date)
}

func (s *closingService) GenerateMonthlySnapshots(ctx context.Context, year int, month time.Month) ([]domain.AccountSnapshot, error) {
	return s.generateSnapshots(ctx, domain.PeriodMonthly, domain.MonthEnd(year, month))
}

func (s *closingService) GenerateYearlySnapshots(ctx context.Context, year int) ([]domain.AccountSnapshot, error) {
	return s.generateSnapshots(ctx, domain.PeriodYearly, domain.YearEnd(year))
}

func (s *closingService) IsPeriodClosed(ctx context.Context, date time.Time) (bool, error) {
	return s.closingRepo.IsDateClosed(ctx, domain.DateOnly(date))
}

func (s *closingService) GetSnapshots(ctx context.Context, periodType domain.PeriodType, from, to time.Time) ([]domain.AccountSnapshot, error) {
	return s.snapshotRepo.FindSnapshots(ctx, periodType, domain.DateOnly(from), domain.DateOnly(to))
}

func (s *closingService) GetClosingEntry(ctx context.Context, periodType domain.PeriodType, date time.Time) (*domain.ClosingEntry, error) {
	return s.closingRepo.FindClosingEntry(ctx, periodType, domain.DateOnly(date))
}

func (s *closingService) CloseMonth(ctx context.Context, year int, month time.Month, retainedEarningsAccountID string) (*domain.ClosingEntry, error) {
	return s.closePeriod(ctx, domain.PeriodMonthly, domain.MonthStart(year, month), domain.MonthEnd(year, month), retainedEarningsAccountID)
}

func (s *closingService) CloseYear(ctx context.Context, year int, retainedEarningsAccountID string) (*domain.ClosingEntry, error) {
	return s.closePeriod(ctx, domain.PeriodYearly, domain.YearStart(year), domain.YearEnd(year), retainedEarningsAccountID)
}

// accountNet is the signed period activity of one income/expense account, in
// the account's normal-balance convention.
type accountNet struct {
	accountID   string
	nature      domain.AccountNature
	bookedMinor int64
	nativeMinor int64
}

func (s *closingService) closePeriod(ctx context.Context, periodType domain.PeriodType, start, end time.Time, retainedEarningsAccountID string) (*domain.ClosingEntry, error) {
	if _, err := s.closingRepo.FindClosedPeriod(ctx, periodType, start, end); err == nil {
		return nil, fmt.Errorf("%w: %s period ending %s", apperrors.ErrPeriodAlreadyClosed, periodType, end.Format(time.DateOnly))
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check closed periods: %w", err)
	}
	if closed, err := s.closingRepo.IsDateClosed(ctx, end); err != nil {
		return nil, fmt.Errorf("failed to check closed periods: %w", err)
	} else if closed {
		return nil, fmt.Errorf("%w: a wider closed period already covers %s", apperrors.ErrPeriodAlreadyClosed, end.Format(time.DateOnly))
	}

	reAccount, err := s.accountRepo.FindAccountByID(ctx, retainedEarningsAccountID)
	if err != nil {
		return nil, fmt.Errorf("retained earnings account: %w", err)
	}
	if reAccount.Nature != domain.Equity {
		return nil, fmt.Errorf("%w: retained earnings account %s must be an equity account", apperrors.ErrValidation, retainedEarningsAccountID)
	}
	if reAccount.CurrencyCode != s.ledgerSvc.BaseCurrency() {
		return nil, fmt.Errorf("%w: retained earnings account %s must be denominated in the base currency", apperrors.ErrValidation, retainedEarningsAccountID)
	}

	stmt, err := s.reportingSvc.IncomeStatement(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute net income for close: %w", err)
	}

	nets, err := s.periodNets(ctx, start, end)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := domain.ClosingEntry{
		ClosingID:                 uuid.NewString(),
		Date:                      end,
		PeriodType:                periodType,
		RetainedEarningsAccountID: retainedEarningsAccountID,
		NetIncome:                 domain.NewMoney(stmt.NetIncomeMinor, s.ledgerSvc.BaseCurrency()),
		// Non-nil even when the period had no activity, so storage layers see
		// an empty list rather than NULL.
		TransactionIDs: []string{},
		AuditFields:    domain.NewAuditFields(s.actor, now),
	}

	if inputs := s.closingPostings(nets, retainedEarningsAccountID, stmt.NetIncomeMinor); len(inputs) >= 2 {
		req := dto.SubmitTransactionRequest{
			Date:        end,
			Description: fmt.Sprintf("Period close %s", end.Format("2006-01")),
			Reference:   fmt.Sprintf("CLOSE-%s-%s", periodType, end.Format(time.DateOnly)),
			Postings:    inputs,
		}
		txn, err := s.ledgerSvc.SubmitTransaction(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to submit closing transaction: %w", err)
		}
		entry.TransactionIDs = []string{txn.TransactionID}
	}

	period := domain.ClosedPeriod{
		PeriodID:    uuid.NewString(),
		PeriodType:  periodType,
		StartDate:   start,
		EndDate:     end,
		AuditFields: domain.NewAuditFields(s.actor, now),
	}
	if err := s.closingRepo.SaveClosing(ctx, period, entry); err != nil {
		s.LogError(ctx, err, "Failed to persist period close", slog.String("period_end", end.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to persist period close: %w", err)
	}

	s.LogInfo(ctx, "Period closed",
		slog.String("period_type", string(periodType)),
		slog.String("period_end", end.Format(time.DateOnly)),
		slog.Int64("net_income_minor", stmt.NetIncomeMinor))
	return &entry, nil
}

// periodNets aggregates the income/expense activity of the period per
// account, both in booked base-currency minor units and in the accounts'
// native minor units, signed by the normal-balance convention.
func (s *closingService) periodNets(ctx context.Context, start, end time.Time) ([]accountNet, error) {
	postings, err := s.ledgerRepo.ListPostingsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load period postings: %w", err)
	}
	if len(postings) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(postings))
	seen := make(map[string]struct{})
	for _, p := range postings {
		if _, ok := seen[p.AccountID]; !ok {
			seen[p.AccountID] = struct{}{}
			ids = append(ids, p.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts for close: %w", err)
	}

	sums := make(map[string]*accountNet)
	order := make([]string, 0)
	for _, p := range postings {
		acc := accounts[p.AccountID]
		if acc.Nature != domain.Income && acc.Nature != domain.Expense {
			continue
		}
		net, ok := sums[p.AccountID]
		if !ok {
			net = &accountNet{accountID: p.AccountID, nature: acc.Nature}
			sums[p.AccountID] = net
			order = append(order, p.AccountID)
		}
		net.bookedMinor += p.SignedBookedMinor(acc.Nature)
		sign := int64(1)
		if (p.Direction == domain.Debit) != acc.Nature.IsDebitNormal() {
			sign = -1
		}
		net.nativeMinor += sign * p.NativeAmount.MinorUnits()
	}

	sort.Strings(order)
	nets := make([]accountNet, 0, len(order))
	for _, id := range order {
		if sums[id].bookedMinor != 0 {
			nets = append(nets, *sums[id])
		}
	}
	return nets, nil
}

// closingPostings builds the single closing transaction's lines: each
// income/expense account is posted against its normal side to zero its booked
// period balance, and retained earnings absorbs the net. Foreign-currency
// accounts get an explicit booked override so the zeroing is exact regardless
// of the rates the period was booked at.
func (s *closingService) closingPostings(nets []accountNet, retainedEarningsAccountID string, netIncomeMinor int64) []dto.PostingInput {
	if len(nets) == 0 {
		return nil
	}

	inputs := make([]dto.PostingInput, 0, len(nets)+1)
	for _, net := range nets {
		booked := net.bookedMinor
		native := net.nativeMinor
		// Zeroing posts against the account's normal side: a positive normal
		// balance on a credit-normal income account is cleared with a debit,
		// on a debit-normal expense account with a credit.
		direction := domain.Debit
		if net.nature.IsDebitNormal() {
			direction = domain.Credit
		}
		if booked < 0 {
			booked = -booked
			direction = direction.Opposite()
		}
		if native < 0 {
			native = -native
		}
		inputs = append(inputs, dto.PostingInput{
			AccountID:   net.accountID,
			Direction:   direction,
			AmountMinor: native,
			BookedMinor: &booked,
		})
	}

	if netIncomeMinor != 0 {
		amount := netIncomeMinor
		direction := domain.Credit // positive net income increases equity
		if amount < 0 {
			amount = -amount
			direction = domain.Debit
		}
		inputs = append(inputs, dto.PostingInput{
			AccountID:   retainedEarningsAccountID,
			Direction:   direction,
			AmountMinor: amount,
		})
	}

	if len(inputs) < 2 {
		return nil
	}
	return inputs
}
