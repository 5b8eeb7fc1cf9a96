package repositories

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListPayrollFilter narrows payroll entry listings.
type ListPayrollFilter struct {
	WorkerID    *string
	ProjectID   *string
	Status      *domain.PayrollStatus
	PeriodFrom  *time.Time
	PeriodUntil *time.Time
}

// AdvanceSettlementLine is one advance's share of a payroll payment batch.
// PriorSettledAmount pins the settled value the allocation was computed from;
// the batch fails if another writer moved it in the meantime.
type AdvanceSettlementLine struct {
	AdvanceID          string
	PriorSettledAmount decimal.Decimal
	NewSettledAmount   decimal.Decimal
}

// PayrollReader defines read operations for payroll entries.
type PayrollReader interface {
	// FindPayrollEntryByID retrieves a specific payroll entry.
	FindPayrollEntryByID(ctx context.Context, payrollID string) (*domain.PayrollEntry, error)

	// ListPayrollEntries retrieves a filtered, paginated payroll listing.
	ListPayrollEntries(ctx context.Context, filter ListPayrollFilter, limit int, offset int) ([]domain.PayrollEntry, error)

	// PayrollTotals aggregates gross, deductions, advances deducted and net
	// over entries matching the filter.
	PayrollTotals(ctx context.Context, filter ListPayrollFilter) (*domain.PayrollTotals, error)
}

// PayrollWriter defines write operations for payroll entries.
type PayrollWriter interface {
	// SavePayrollEntry persists a new payroll entry (DRAFT).
	SavePayrollEntry(ctx context.Context, entry domain.PayrollEntry) error

	// UpdatePayrollStatus advances the workflow state of a payroll entry.
	UpdatePayrollStatus(ctx context.Context, payrollID string, status domain.PayrollStatus, userID string, now time.Time) error

	// CommitPay atomically performs the payment batch: both balance deltas of
	// the payment transaction, the journal entry, the transaction's CLEARED
	// state, every advance settlement line and the payroll entry's PAID state
	// with the payment transaction linked - all in one database transaction.
	CommitPay(ctx context.Context, entry domain.PayrollEntry, payment domain.Transaction, journalEntry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, settlements []AdvanceSettlementLine) error
}

// PayrollRepositoryFacade combines all payroll repository interfaces.
type PayrollRepositoryFacade interface {
	PayrollReader
	PayrollWriter
}

// PayrollRepositoryWithTx extends the facade with transaction management.
type PayrollRepositoryWithTx interface {
	PayrollRepositoryFacade
	TransactionManager
}
