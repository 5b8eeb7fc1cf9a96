package domain

import (
	"github.com/shopspring/decimal"
)

// AccountCategory defines the fundamental accounting category of an account.
// The category fixes the account's normal balance side.
type AccountCategory string

const (
	Asset     AccountCategory = "ASSET"
	Liability AccountCategory = "LIABILITY"
	Equity    AccountCategory = "EQUITY"
	Revenue   AccountCategory = "REVENUE"
	Expense   AccountCategory = "EXPENSE"
)

// IsDebitNormal reports whether accounts of this category increase on the debit side.
func (c AccountCategory) IsDebitNormal() bool {
	return c == Asset || c == Expense
}

// AccountType is the operational kind of an account as the business sees it.
type AccountType string

const (
	CashBox    AccountType = "CASH_BOX"
	Bank       AccountType = "BANK"
	Wallet     AccountType = "WALLET"
	Receivable AccountType = "RECEIVABLE"
	Payable    AccountType = "PAYABLE"
)

// Account represents a financial account within the chart of accounts.
// Balance is always the sum of all CLEARED transaction effects touching the
// account since creation; VOID transactions contribute nothing.
type Account struct {
	AccountID       string          `json:"accountID"`   // Primary Key (UUID)
	Code            string          `json:"code"`        // User-facing account code, unique among active accounts
	Name            string          `json:"name"`        // User-defined name
	AccountType     AccountType     `json:"accountType"` // CASH_BOX, BANK, WALLET, RECEIVABLE, PAYABLE
	Category        AccountCategory `json:"category"`    // ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE
	ParentAccountID string          `json:"parentAccountID"` // Nullable, self-referencing hierarchy
	Description     string          `json:"description"`
	IsSystemAccount bool            `json:"isSystemAccount"` // Seeded accounts; cannot be deactivated
	IsActive        bool            `json:"isActive"`
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Persisted signed balance, mutated only via ledger commits
}

// Well-known codes of the system accounts seeded by migration.
const (
	SystemAccountOpeningBalances = "SYS-OPENING"
	SystemAccountWorkerAdvances  = "SYS-ADVANCES"
	SystemAccountWagesExpense    = "SYS-WAGES"
	SystemAccountMiscIncome      = "SYS-MISC-IN"
	SystemAccountMiscExpense     = "SYS-MISC-OUT"
)
