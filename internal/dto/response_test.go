package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plata-app/plata-core/internal/core/domain"
	"github.com/plata-app/plata-core/internal/dto"
)

func TestToAccountResponse(t *testing.T) {
	acc := &domain.Account{
		AccountID:       "acc-1",
		Name:            "Cash",
		Code:            "CASH",
		Nature:          domain.Asset,
		CurrencyCode:    "MXN",
		ParentAccountID: "acc-parent",
		Description:     "wallet",
		IsActive:        true,
	}

	resp := dto.ToAccountResponse(acc)
	assert.Equal(t, "acc-1", resp.AccountID)
	assert.Equal(t, "CASH", resp.Code)
	assert.Equal(t, domain.Asset, resp.Nature)
	assert.Equal(t, "MXN", resp.CurrencyCode)
	assert.Equal(t, "acc-parent", resp.ParentAccountID)
	assert.True(t, resp.IsActive)
}

func TestToTransactionResponse(t *testing.T) {
	original := "txn-0"
	txn := &domain.Transaction{
		TransactionID:         "txn-1",
		Date:                  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:           "January salary",
		Reference:             "SAL-2026-01",
		Status:                domain.Posted,
		OriginalTransactionID: &original,
		Postings: []domain.Posting{
			{PostingID: "p-1", TransactionID: "txn-1", AccountID: "acc-1", Direction: domain.Debit},
		},
	}

	resp := dto.ToTransactionResponse(txn)
	assert.Equal(t, "txn-1", resp.TransactionID)
	assert.Equal(t, domain.Posted, resp.Status)
	assert.Equal(t, &original, resp.OriginalTransactionID)
	assert.Nil(t, resp.ReversingTransactionID)
	assert.Len(t, resp.Postings, 1)
}
