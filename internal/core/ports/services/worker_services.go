package services

import (
	"context"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/buildbooks/build_books_app/internal/dto"
)

// WorkerSvcFacade manages the worker registry payroll draws rates from.
type WorkerSvcFacade interface {
	// CreateWorker registers a new worker.
	CreateWorker(ctx context.Context, req dto.CreateWorkerRequest, userID string) (*domain.Worker, error)

	// GetWorkerByID retrieves a specific worker.
	GetWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error)

	// ListWorkers retrieves a paginated worker listing.
	ListWorkers(ctx context.Context, activeOnly bool, limit int, offset int) ([]domain.Worker, error)

	// UpdateWorker updates a worker's details.
	UpdateWorker(ctx context.Context, workerID string, req dto.UpdateWorkerRequest, userID string) (*domain.Worker, error)

	// DeactivateWorker marks a worker inactive; refuses while the worker still
	// has outstanding advances.
	DeactivateWorker(ctx context.Context, workerID string, userID string) error
}
