package dto

import (
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string                 `json:"code" binding:"required"`
	Name            string                 `json:"name" binding:"required"`
	// AccountType is required for ASSET and LIABILITY accounts; pure ledger
	// categories (EQUITY, REVENUE, EXPENSE) carry no operational type.
	AccountType     domain.AccountType     `json:"accountType" binding:"omitempty,oneof=CASH_BOX BANK WALLET RECEIVABLE PAYABLE"`
	Category        domain.AccountCategory `json:"category" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string                `json:"parentAccountID"` // Optional
	Description     string                 `json:"description"`
	// OpeningBalance, when set and non-zero, is applied as an auto-cleared
	// transaction against the Opening Balances system account.
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
}

// UpdateAccountRequest defines the fields that may be changed on an account.
// Pointers distinguish "not provided" from zero values.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                 `json:"accountID"`
	Code            string                 `json:"code"`
	Name            string                 `json:"name"`
	AccountType     domain.AccountType     `json:"accountType"`
	Category        domain.AccountCategory `json:"category"`
	ParentAccountID string                 `json:"parentAccountID,omitempty"`
	Description     string                 `json:"description,omitempty"`
	IsSystemAccount bool                   `json:"isSystemAccount"`
	IsActive        bool                   `json:"isActive"`
	Balance         decimal.Decimal        `json:"balance"`
	CreatedAt       time.Time              `json:"createdAt"`
	LastUpdatedAt   time.Time              `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		Category:        acc.Category,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsSystemAccount: acc.IsSystemAccount,
		IsActive:        acc.IsActive,
		Balance:         acc.Balance,
		CreatedAt:       acc.CreatedAt,
		LastUpdatedAt:   acc.LastUpdatedAt,
	}
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
