package dto

import (
	"github.com/plata-app/plata-core/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name            string               `json:"name" validate:"required"`
	Code            string               `json:"code" validate:"required,max=32"`
	Nature          domain.AccountNature `json:"nature" validate:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	CurrencyCode    string               `json:"currencyCode" validate:"required,uppercase,min=3,max=4"`
	ParentAccountID *string              `json:"parentAccountID,omitempty"`
	Description     string               `json:"description,omitempty"`
}

// UpdateAccountRequest defines the fields allowed to change on an account.
// Pointers distinguish "not provided" from zero values. Nature and currency
// may only change while the account has no postings.
type UpdateAccountRequest struct {
	Name            *string               `json:"name,omitempty"`
	Description     *string               `json:"description,omitempty"`
	IsActive        *bool                 `json:"isActive,omitempty"`
	Nature          *domain.AccountNature `json:"nature,omitempty"`
	CurrencyCode    *string               `json:"currencyCode,omitempty"`
	ParentAccountID *string               `json:"parentAccountID,omitempty"` // empty string detaches
}

// AccountResponse mirrors domain.Account for API consumers.
type AccountResponse struct {
	AccountID       string               `json:"accountID"`
	Name            string               `json:"name"`
	Code            string               `json:"code"`
	Nature          domain.AccountNature `json:"nature"`
	CurrencyCode    string               `json:"currencyCode"`
	ParentAccountID string               `json:"parentAccountID,omitempty"`
	Description     string               `json:"description,omitempty"`
	IsActive        bool                 `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Name:            acc.Name,
		Code:            acc.Code,
		Nature:          acc.Nature,
		CurrencyCode:    acc.CurrencyCode,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
	}
}
