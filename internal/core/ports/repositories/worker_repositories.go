package repositories

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
)

// WorkerReader defines read operations for workers.
type WorkerReader interface {
	// FindWorkerByID retrieves a specific worker.
	FindWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error)

	// ListWorkers retrieves a paginated worker listing.
	ListWorkers(ctx context.Context, activeOnly bool, limit int, offset int) ([]domain.Worker, error)
}

// WorkerWriter defines write operations for workers.
type WorkerWriter interface {
	// SaveWorker persists a new worker.
	SaveWorker(ctx context.Context, worker domain.Worker) error

	// UpdateWorker updates a worker's details.
	UpdateWorker(ctx context.Context, worker domain.Worker) error

	// DeactivateWorker marks a worker as inactive.
	DeactivateWorker(ctx context.Context, workerID string, userID string, now time.Time) error
}

// WorkerRepositoryFacade combines all worker repository interfaces.
type WorkerRepositoryFacade interface {
	WorkerReader
	WorkerWriter
}
