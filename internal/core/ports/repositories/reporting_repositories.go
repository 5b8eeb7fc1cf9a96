package repositories

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
)

// ReportingRepository defines read-only queries that span entities; consumed
// by external callers (UI, report generators) through the reporting service.
type ReportingRepository interface {
	// GetAccountStatement retrieves the account's cleared transactions in a
	// date range, oldest first, each carrying the balance after its effect.
	GetAccountStatement(ctx context.Context, accountID string, from, to time.Time) ([]domain.StatementLine, error)

	// GetTrialBalanceData retrieves per-account debit/credit balance rows.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetPayrollSummary aggregates payroll totals grouped by status for a period.
	GetPayrollSummary(ctx context.Context, from, to time.Time, projectID *string) ([]domain.PayrollSummaryRow, error)
}
