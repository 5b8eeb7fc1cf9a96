package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is one cleared transaction in an account statement, carrying
// the account balance after its effect.
type StatementLine struct {
	TransactionID   string          `json:"transactionID"`
	TransactionDate time.Time       `json:"transactionDate"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	SignedAmount    decimal.Decimal `json:"signedAmount"` // Effect on this account
	RunningBalance  decimal.Decimal `json:"runningBalance"`
}

// TrialBalanceRow is a single account row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	Category    AccountCategory `json:"category"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// PayrollSummaryRow aggregates payroll entries of one status within a period.
type PayrollSummaryRow struct {
	Status           PayrollStatus   `json:"status"`
	EntryCount       int64           `json:"entryCount"`
	GrossWage        decimal.Decimal `json:"grossWage"`
	Deductions       decimal.Decimal `json:"deductions"`
	AdvancesDeducted decimal.Decimal `json:"advancesDeducted"`
	NetWage          decimal.Decimal `json:"netWage"`
}

// PayrollTotals aggregates the monetary columns of a payroll entry set.
type PayrollTotals struct {
	EntryCount       int64           `json:"entryCount"`
	GrossWage        decimal.Decimal `json:"grossWage"`
	Deductions       decimal.Decimal `json:"deductions"`
	AdvancesDeducted decimal.Decimal `json:"advancesDeducted"`
	NetWage          decimal.Decimal `json:"netWage"`
}
