package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
	portssvc "github.com/plata-app/plata-core/internal/core/ports/services"
	"github.com/plata-app/plata-core/internal/dto"
)

// fxService resolves exchange rates, converts amounts at transaction time and
// performs month-end revaluation of open foreign-currency positions. Rate
// lookups happen before the ledger's write path is entered: revaluation loads
// rates, computes positions, and only then submits transactions.
type fxService struct {
	BaseService
	rateRepo   portsrepo.ExchangeRateRepository
	ledgerRepo portsrepo.TransactionReader
	ledgerSvc  portssvc.LedgerSvc
	accountSvc portssvc.AccountSvc
	registry   *domain.CurrencyRegistry
	base       domain.Currency

	fxGainLossAccountCode string
	thresholdMinor        int64
	actor                 string
}

// NewFxService creates a new FxSvc.
func NewFxService(
	rateRepo portsrepo.ExchangeRateRepository,
	ledgerRepo portsrepo.TransactionReader,
	ledgerSvc portssvc.LedgerSvc,
	accountSvc portssvc.AccountSvc,
	registry *domain.CurrencyRegistry,
	fxGainLossAccountCode string,
	thresholdMinor int64,
	actor string,
) (portssvc.FxSvc, error) {
	base, err := registry.Get(ledgerSvc.BaseCurrency())
	if err != nil {
		return nil, fmt.Errorf("base currency: %w", err)
	}
	return &fxService{
		rateRepo:              rateRepo,
		ledgerRepo:            ledgerRepo,
		ledgerSvc:             ledgerSvc,
		accountSvc:            accountSvc,
		registry:              registry,
		base:                  base,
		fxGainLossAccountCode: fxGainLossAccountCode,
		thresholdMinor:        thresholdMinor,
		actor:                 actor,
	}, nil
}

var _ portssvc.FxSvc = (*fxService)(nil)

func (s *fxService) UpsertRate(ctx context.Context, req dto.UpsertExchangeRateRequest) (*domain.ExchangeRate, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currencies cannot be the same", apperrors.ErrValidation)
	}
	if !s.registry.Has(req.FromCurrencyCode) {
		return nil, fmt.Errorf("%w: currency %q is not registered", apperrors.ErrValidation, req.FromCurrencyCode)
	}
	if !s.registry.Has(req.ToCurrencyCode) {
		return nil, fmt.Errorf("%w: currency %q is not registered", apperrors.ErrValidation, req.ToCurrencyCode)
	}
	if !domain.ValidRateType(req.RateType) {
		return nil, fmt.Errorf("%w: unrecognized rate type %q", apperrors.ErrValidation, req.RateType)
	}

	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		Date:             domain.DateOnly(req.Date),
		RateType:         req.RateType,
		AuditFields:      domain.NewAuditFields(s.actor, time.Now().UTC()),
	}
	if err := s.rateRepo.UpsertRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to upsert exchange rate",
			slog.String("pair", req.FromCurrencyCode+"/"+req.ToCurrencyCode))
		return nil, fmt.Errorf("failed to upsert exchange rate: %w", err)
	}
	return &rate, nil
}

func (s *fxService) GetRate(ctx context.Context, fromCode, toCode string, date time.Time, rateType domain.RateType) (*domain.ExchangeRate, error) {
	return s.rateRepo.FindRate(ctx, fromCode, toCode, domain.DateOnly(date), rateType)
}

func (s *fxService) Convert(ctx context.Context, amount domain.Money, toCode string, date time.Time) (domain.Money, error) {
	if amount.CurrencyCode() == toCode {
		return amount, nil
	}
	from, err := s.registry.Get(amount.CurrencyCode())
	if err != nil {
		return domain.Money{}, err
	}
	to, err := s.registry.Get(toCode)
	if err != nil {
		return domain.Money{}, err
	}

	day := domain.DateOnly(date)
	rate, err := s.rateRepo.FindRate(ctx, amount.CurrencyCode(), toCode, day, domain.RateSpot)
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrRateNotFound) {
		rate, err = s.rateRepo.FindRate(ctx, amount.CurrencyCode(), toCode, day, domain.RateEOD)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrRateNotFound) {
			return domain.Money{}, fmt.Errorf("%w: %s/%s on %s", apperrors.ErrRateNotFound,
				amount.CurrencyCode(), toCode, day.Format(time.DateOnly))
		}
		return domain.Money{}, fmt.Errorf("failed to look up exchange rate: %w", err)
	}

	converted := amount.Major(from).Mul(rate.Rate).Shift(int32(to.MinorUnitScale)).Round(0).IntPart()
	return domain.NewMoney(converted, toCode), nil
}

// positionKey identifies a foreign-currency position.
type positionKey struct {
	accountID string
	currency  string
}

func (s *fxService) CalculateFxPositions(postings []domain.Posting, monthEndRates map[string]domain.ExchangeRate, baseCurrency string) []domain.FxRevaluation {
	sums := make(map[positionKey]*domain.FxPosition)
	for _, p := range postings {
		if p.NativeAmount.CurrencyCode() == baseCurrency {
			continue
		}
		key := positionKey{accountID: p.AccountID, currency: p.NativeAmount.CurrencyCode()}
		pos, ok := sums[key]
		if !ok {
			pos = &domain.FxPosition{AccountID: key.accountID, CurrencyCode: key.currency}
			sums[key] = pos
		}
		sign := int64(1)
		if p.Direction == domain.Credit {
			sign = -1
		}
		pos.NativeSumMinor += sign * p.NativeAmount.MinorUnits()
		pos.BookedSumMinor += sign * p.BookedAmount.MinorUnits()
	}

	keys := make([]positionKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].accountID != keys[j].accountID {
			return keys[i].accountID < keys[j].accountID
		}
		return keys[i].currency < keys[j].currency
	})

	revaluations := make([]domain.FxRevaluation, 0, len(keys))
	for _, k := range keys {
		pos := sums[k]
		if pos.NativeSumMinor == 0 {
			// Fully unwound position, nothing to revalue.
			continue
		}
		rate, ok := monthEndRates[k.currency]
		if !ok {
			continue
		}
		native, err := s.registry.Get(k.currency)
		if err != nil {
			continue
		}
		current := decimal.New(pos.NativeSumMinor, -int32(native.MinorUnitScale)).
			Mul(rate.Rate).
			Shift(int32(s.base.MinorUnitScale)).
			Round(0).IntPart()
		gainLoss := current - pos.BookedSumMinor
		revaluations = append(revaluations, domain.FxRevaluation{
			Position:                *pos,
			Rate:                    rate.Rate,
			RateDate:                rate.Date,
			CurrentValueMinor:       current,
			UnrealizedGainLossMinor: gainLoss,
		})
	}
	return revaluations
}

func (s *fxService) IsRevaluationNeeded(revaluations []domain.FxRevaluation, thresholdMinor int64) bool {
	var total int64
	for _, r := range revaluations {
		gl := r.UnrealizedGainLossMinor
		if gl < 0 {
			gl = -gl
		}
		total += gl
	}
	return total >= thresholdMinor
}

func (s *fxService) GenerateRevaluationTransactions(revaluations []domain.FxRevaluation, fxGainLossAccountID string, date time.Time) []dto.SubmitTransactionRequest {
	day := domain.DateOnly(date)
	reqs := make([]dto.SubmitTransactionRequest, 0, len(revaluations))
	for _, r := range revaluations {
		gl := r.UnrealizedGainLossMinor
		if gl == 0 {
			continue
		}
		abs := gl
		positionDirection := domain.Debit // gain marks the position up
		if gl < 0 {
			abs = -gl
			positionDirection = domain.Credit
		}
		booked := abs

		// The position leg moves booked value only: the native holding is
		// unchanged by a revaluation, so its native amount is zero.
		reqs = append(reqs, dto.SubmitTransactionRequest{
			Date: day,
			Description: fmt.Sprintf("FX revaluation %s position in %s",
				r.Position.CurrencyCode, r.Position.AccountID),
			Reference: fmt.Sprintf("FXREVAL-%s-%s", day.Format("2006-01"), r.Position.CurrencyCode),
			Postings: []dto.PostingInput{
				{
					AccountID:   r.Position.AccountID,
					Direction:   positionDirection,
					AmountMinor: 0,
					BookedMinor: &booked,
				},
				{
					AccountID:   fxGainLossAccountID,
					Direction:   positionDirection.Opposite(),
					AmountMinor: abs,
				},
			},
		})
	}
	return reqs
}

func (s *fxService) RevalueMonthEnd(ctx context.Context, year int, month time.Month) ([]*domain.Transaction, error) {
	monthEnd := domain.MonthEnd(year, month)

	rates, err := s.rateRepo.FindRatesForDate(ctx, s.base.Code, monthEnd, domain.RateMonthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load month-end rates: %w", err)
	}

	postings, err := s.ledgerRepo.ListPostingsInRange(ctx, time.Time{}, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load postings: %w", err)
	}

	// Per policy, positions without a month-end rate are skipped rather than
	// failing the run. That can understate the revaluation, so every skipped
	// currency is logged.
	missing := make(map[string]struct{})
	for _, p := range postings {
		code := p.NativeAmount.CurrencyCode()
		if code == s.base.Code {
			continue
		}
		if _, ok := rates[code]; !ok {
			missing[code] = struct{}{}
		}
	}
	for code := range missing {
		s.LogWarn(ctx, "No month-end rate; skipping open positions in currency",
			slog.String("currency", code),
			slog.String("date", monthEnd.Format(time.DateOnly)))
	}

	revaluations := s.CalculateFxPositions(postings, rates, s.base.Code)
	if !s.IsRevaluationNeeded(revaluations, s.thresholdMinor) {
		s.LogInfo(ctx, "Revaluation below materiality threshold; skipping run",
			slog.Int64("threshold_minor", s.thresholdMinor),
			slog.Int("positions", len(revaluations)))
		return nil, nil
	}

	fxAccount, err := s.accountSvc.GetAccountByCode(ctx, s.fxGainLossAccountCode)
	if err != nil {
		return nil, fmt.Errorf("fx gain/loss account %q: %w", s.fxGainLossAccountCode, err)
	}
	if fxAccount.CurrencyCode != s.base.Code {
		return nil, fmt.Errorf("%w: fx gain/loss account %s must be denominated in the base currency %s",
			apperrors.ErrValidation, fxAccount.AccountID, s.base.Code)
	}

	reqs := s.GenerateRevaluationTransactions(revaluations, fxAccount.AccountID, monthEnd)
	submitted := make([]*domain.Transaction, 0, len(reqs))
	for _, req := range reqs {
		txn, err := s.ledgerSvc.SubmitTransaction(ctx, req)
		if err != nil {
			// Missing rates are tolerated above; everything else aborts the run.
			return submitted, fmt.Errorf("failed to submit revaluation transaction: %w", err)
		}
		submitted = append(submitted, txn)
	}

	s.LogInfo(ctx, "Month-end revaluation completed",
		slog.String("month", monthEnd.Format("2006-01")),
		slog.Int("transactions", len(submitted)))
	return submitted, nil
}
