package models

import (
	"github.com/shopspring/decimal"
)

// AccountCategory mirrors domain.AccountCategory for persistence.
type AccountCategory string

// AccountType mirrors domain.AccountType for persistence.
type AccountType string

// Account is the database representation of a chart-of-accounts entry.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	Category        AccountCategory `db:"category"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	Description     string          `db:"description"`
	IsSystemAccount bool            `db:"is_system_account"`
	IsActive        bool            `db:"is_active"`
	AuditFields
	Balance decimal.Decimal `db:"balance"`
}
