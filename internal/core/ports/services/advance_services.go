package services

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	"github.com/buildbooks/build_books_app/internal/dto"
	"github.com/shopspring/decimal"
)

// AdvanceReaderSvc defines read operations for worker advances.
type AdvanceReaderSvc interface {
	// GetAdvanceByID retrieves a specific advance.
	GetAdvanceByID(ctx context.Context, advanceID string) (*domain.WorkerAdvance, error)

	// ListAdvances retrieves a filtered, paginated advance listing.
	ListAdvances(ctx context.Context, filter portsrepo.ListAdvancesFilter, limit int, offset int) ([]domain.WorkerAdvance, error)

	// OutstandingForWorker sums the unsettled remainder over the worker's advances.
	OutstandingForWorker(ctx context.Context, workerID string) (decimal.Decimal, error)
}

// AdvanceSettlementSvc records advances and applies them against payroll.
type AdvanceSettlementSvc interface {
	// RecordAdvance registers a new advance, optionally disbursing it from a
	// cash account in the same call.
	RecordAdvance(ctx context.Context, req dto.RecordAdvanceRequest, userID string) (*domain.WorkerAdvance, error)

	// Settle applies amountToSettle against the advance. Settling beyond the
	// outstanding remainder fails; completion is derived, never set.
	Settle(ctx context.Context, advanceID string, amountToSettle decimal.Decimal, settlementTransactionID string, date time.Time, userID string) (*domain.WorkerAdvance, error)
}

// AdvanceSvcFacade combines all advance service interfaces.
type AdvanceSvcFacade interface {
	AdvanceReaderSvc
	AdvanceSettlementSvc
}
