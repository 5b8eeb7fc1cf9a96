package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildbooks/build_books_app/internal/apperrors"
	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	"github.com/buildbooks/build_books_app/internal/models"
	"github.com/buildbooks/build_books_app/internal/utils/mapping"
)

const workerColumns = `worker_id, name, phone, trade, daily_rate, overtime_rate, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxWorkerRepository struct {
	BaseRepository
}

// newPgxWorkerRepository creates a new repository for workers.
func newPgxWorkerRepository(pool *pgxpool.Pool) *PgxWorkerRepository {
	return &PgxWorkerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkerRepositoryFacade = (*PgxWorkerRepository)(nil)

func scanWorker(row pgx.Row) (*domain.Worker, error) {
	var m models.Worker
	err := row.Scan(
		&m.WorkerID,
		&m.Name,
		&m.Phone,
		&m.Trade,
		&m.DailyRate,
		&m.OvertimeRate,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	worker := mapping.ToDomainWorker(m)
	return &worker, nil
}

// SaveWorker inserts a new worker row.
func (r *PgxWorkerRepository) SaveWorker(ctx context.Context, worker domain.Worker) error {
	m := mapping.ToModelWorker(worker)
	query := `
		INSERT INTO workers (` + workerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.WorkerID,
		m.Name,
		m.Phone,
		m.Trade,
		m.DailyRate,
		m.OvertimeRate,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save worker %s: %w", m.WorkerID, err)
	}
	return nil
}

// FindWorkerByID retrieves a worker by ID.
func (r *PgxWorkerRepository) FindWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE worker_id = $1;`
	worker, err := scanWorker(r.Pool.QueryRow(ctx, query, workerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find worker %s: %w", workerID, err)
	}
	return worker, nil
}

// ListWorkers retrieves a paginated worker listing by name.
func (r *PgxWorkerRepository) ListWorkers(ctx context.Context, activeOnly bool, limit int, offset int) ([]domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var workers []domain.Worker
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker row: %w", err)
		}
		workers = append(workers, *worker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating worker rows: %w", err)
	}
	return workers, nil
}

// UpdateWorker updates a worker's details and rates.
func (r *PgxWorkerRepository) UpdateWorker(ctx context.Context, worker domain.Worker) error {
	query := `
		UPDATE workers
		SET name = $2, phone = $3, trade = $4, daily_rate = $5, overtime_rate = $6, last_updated_at = $7, last_updated_by = $8
		WHERE worker_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		worker.WorkerID,
		worker.Name,
		worker.Phone,
		worker.Trade,
		worker.DailyRate,
		worker.OvertimeRate,
		worker.LastUpdatedAt,
		worker.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update worker %s: %w", worker.WorkerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateWorker marks a worker inactive.
func (r *PgxWorkerRepository) DeactivateWorker(ctx context.Context, workerID string, userID string, now time.Time) error {
	query := `
		UPDATE workers
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE worker_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, workerID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate worker %s: %w", workerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
