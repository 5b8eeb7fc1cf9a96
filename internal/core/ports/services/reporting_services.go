package services

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
)

// ReportingSvcFacade exposes the read-only query surfaces consumed by the UI
// and report generators.
type ReportingSvcFacade interface {
	// GetAccountStatement lists an account's cleared activity in a date range
	// with running balances.
	GetAccountStatement(ctx context.Context, accountID string, from, to time.Time) ([]domain.StatementLine, error)

	// GetTrialBalance produces per-account debit/credit rows.
	GetTrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetPayrollSummary aggregates payroll totals by status for a period.
	GetPayrollSummary(ctx context.Context, from, to time.Time, projectID *string) ([]domain.PayrollSummaryRow, error)
}
