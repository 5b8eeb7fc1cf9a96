package services

import (
	"context"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	"github.com/buildbooks/build_books_app/internal/dto"
)

// PayrollReaderSvc defines read operations for payroll entries.
type PayrollReaderSvc interface {
	// GetPayrollEntryByID retrieves a specific payroll entry.
	GetPayrollEntryByID(ctx context.Context, payrollID string) (*domain.PayrollEntry, error)

	// ListPayrollEntries retrieves a filtered, paginated payroll listing.
	ListPayrollEntries(ctx context.Context, filter portsrepo.ListPayrollFilter, limit int, offset int) ([]domain.PayrollEntry, error)

	// PayrollTotals aggregates the monetary columns of matching entries.
	PayrollTotals(ctx context.Context, filter portsrepo.ListPayrollFilter) (*domain.PayrollTotals, error)
}

// PayrollCalculatorSvc computes wage accruals and walks the payroll workflow:
// DRAFT -> APPROVED -> PAID, with CANCELLED reachable before payment.
type PayrollCalculatorSvc interface {
	// BuildPayrollEntry computes gross/net from attendance and rates and
	// persists a DRAFT entry. Advances are capped, never over-deducted; a
	// negative net wage is a valid result.
	BuildPayrollEntry(ctx context.Context, req dto.BuildPayrollEntryRequest, userID string) (*domain.PayrollEntry, error)

	// Approve moves DRAFT to APPROVED.
	Approve(ctx context.Context, payrollID string, userID string) (*domain.PayrollEntry, error)

	// Pay moves APPROVED to PAID: clears an expense transaction for the net
	// wage and settles the contributing advances oldest first, atomically.
	Pay(ctx context.Context, payrollID string, req dto.PayPayrollRequest, userID string) (*domain.PayrollEntry, error)

	// Cancel moves DRAFT or APPROVED to CANCELLED.
	Cancel(ctx context.Context, payrollID string, userID string) (*domain.PayrollEntry, error)
}

// PayrollSvcFacade combines all payroll service interfaces.
type PayrollSvcFacade interface {
	PayrollReaderSvc
	PayrollCalculatorSvc
}
