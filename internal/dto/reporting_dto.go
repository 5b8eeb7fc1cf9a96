package dto

import (
	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountStatementResponse is an account's activity in a date range with
// running balances.
type AccountStatementResponse struct {
	AccountID string                 `json:"accountID"`
	From      string                 `json:"from"`
	To        string                 `json:"to"`
	Lines     []domain.StatementLine `json:"lines"`
}

// TrialBalanceResponse is the trial balance report.
type TrialBalanceResponse struct {
	AsOf        string                   `json:"asOf"`
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
}

// PayrollSummaryResponse aggregates payroll by status for a period.
type PayrollSummaryResponse struct {
	From      string                     `json:"from"`
	To        string                     `json:"to"`
	ProjectID string                     `json:"projectID,omitempty"`
	Rows      []domain.PayrollSummaryRow `json:"rows"`
}
