package repositories

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ListAdvancesFilter narrows advance listings.
type ListAdvancesFilter struct {
	WorkerID        *string
	OutstandingOnly bool
}

// AdvanceReader defines read operations for worker advances.
type AdvanceReader interface {
	// FindAdvanceByID retrieves a specific advance.
	FindAdvanceByID(ctx context.Context, advanceID string) (*domain.WorkerAdvance, error)

	// ListAdvancesByWorker retrieves a worker's advances ordered oldest first
	// (advance date, then creation time) so settlement can run FIFO.
	ListAdvancesByWorker(ctx context.Context, workerID string, outstandingOnly bool) ([]domain.WorkerAdvance, error)

	// ListAdvances retrieves a filtered, paginated advance listing.
	ListAdvances(ctx context.Context, filter ListAdvancesFilter, limit int, offset int) ([]domain.WorkerAdvance, error)

	// OutstandingForWorker sums amount - settled_amount over the worker's advances.
	OutstandingForWorker(ctx context.Context, workerID string) (decimal.Decimal, error)
}

// AdvanceWriter defines write operations for worker advances.
type AdvanceWriter interface {
	// SaveAdvance persists a new advance.
	SaveAdvance(ctx context.Context, advance domain.WorkerAdvance) error

	// UpdateSettlement moves an advance's settled amount from priorSettled to
	// settledAmount and records the settling transaction. The write only
	// matches while the stored amount still equals priorSettled; a stale
	// caller gets ErrStateConflict rather than a double-counted settlement.
	UpdateSettlement(ctx context.Context, advanceID string, priorSettled, settledAmount decimal.Decimal, settlementTransactionID string, userID string, now time.Time) error

	// UpdateSettlementInTx is UpdateSettlement inside a caller-owned database
	// transaction; payroll payment batches use this.
	UpdateSettlementInTx(ctx context.Context, tx pgx.Tx, advanceID string, priorSettled, settledAmount decimal.Decimal, settlementTransactionID string, userID string, now time.Time) error
}

// AdvanceRepositoryFacade combines all advance repository interfaces.
type AdvanceRepositoryFacade interface {
	AdvanceReader
	AdvanceWriter
}

// AdvanceRepositoryWithTx extends the facade with transaction management.
type AdvanceRepositoryWithTx interface {
	AdvanceRepositoryFacade
	TransactionManager
}
