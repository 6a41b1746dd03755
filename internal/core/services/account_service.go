package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
	portsrepo "github.com/plata-app/plata-core/internal/core/ports/repositories"
	portssvc "github.com/plata-app/plata-core/internal/core/ports/services"
	"github.com/plata-app/plata-core/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	registry    *domain.CurrencyRegistry
	actor       string
}

// NewAccountService creates a new AccountSvc.
func NewAccountService(accountRepo portsrepo.AccountRepository, registry *domain.CurrencyRegistry, actor string) portssvc.AccountSvc {
	return &accountService{
		accountRepo: accountRepo,
		registry:    registry,
		actor:       actor,
	}
}

var _ portssvc.AccountSvc = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if !domain.ValidNature(req.Nature) {
		return nil, fmt.Errorf("%w: unrecognized account nature %q", apperrors.ErrValidation, req.Nature)
	}
	if !s.registry.Has(req.CurrencyCode) {
		return nil, fmt.Errorf("%w: currency %q is not registered", apperrors.ErrValidation, req.CurrencyCode)
	}

	// Account codes are unique across the ledger.
	if _, err := s.accountRepo.FindAccountByCode(ctx, req.Code); err == nil {
		return nil, fmt.Errorf("%w: code %q", apperrors.ErrDuplicateCode, req.Code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code uniqueness: %w", err)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		if _, err := s.accountRepo.FindAccountByID(ctx, parentID); err != nil {
			return nil, fmt.Errorf("%w: parent account %s: %v", apperrors.ErrValidation, parentID, err)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Name:            req.Name,
		Code:            req.Code,
		Nature:          req.Nature,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(s.actor, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if req.Nature != nil || req.CurrencyCode != nil {
		// Nature and currency are part of every posting's meaning, so they
		// freeze as soon as the first posting lands.
		has, err := s.accountRepo.HasPostings(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to check postings for account %s: %w", accountID, err)
		}
		if has {
			return nil, fmt.Errorf("%w: account %s has postings; nature and currency are immutable", apperrors.ErrConflict, accountID)
		}
		if req.Nature != nil {
			if !domain.ValidNature(*req.Nature) {
				return nil, fmt.Errorf("%w: unrecognized account nature %q", apperrors.ErrValidation, *req.Nature)
			}
			account.Nature = *req.Nature
			updated = true
		}
		if req.CurrencyCode != nil {
			if !s.registry.Has(*req.CurrencyCode) {
				return nil, fmt.Errorf("%w: currency %q is not registered", apperrors.ErrValidation, *req.CurrencyCode)
			}
			account.CurrencyCode = *req.CurrencyCode
			updated = true
		}
	}
	if req.ParentAccountID != nil {
		if err := s.validateParentAssignment(ctx, accountID, *req.ParentAccountID); err != nil {
			return nil, err
		}
		account.ParentAccountID = *req.ParentAccountID
		updated = true
	}

	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = s.actor
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// validateParentAssignment rejects unknown parents and parent chains that
// would loop back to the account being updated. The hierarchy is a tree;
// cycles are rejected at assignment time rather than trusted to be absent.
func (s *accountService) validateParentAssignment(ctx context.Context, accountID, parentID string) error {
	if parentID == "" {
		return nil // detaching is always fine
	}
	current := parentID
	for current != "" {
		if current == accountID {
			return fmt.Errorf("%w: parent assignment would create a cycle", apperrors.ErrValidation)
		}
		parent, err := s.accountRepo.FindAccountByID(ctx, current)
		if err != nil {
			return fmt.Errorf("%w: parent account %s: %v", apperrors.ErrValidation, current, err)
		}
		current = parent.ParentAccountID
	}
	return nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, s.actor, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

func (s *accountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, includeInactive)
}
