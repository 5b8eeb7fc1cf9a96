package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/buildbooks/build_books_app/internal/apperrors"
	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	"github.com/buildbooks/build_books_app/internal/models"
	"github.com/buildbooks/build_books_app/internal/utils/mapping"
)

const advanceColumns = `advance_id, worker_id, amount, advance_date, disbursement_transaction_id, settled_amount, settlement_transaction_id, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxAdvanceRepository struct {
	BaseRepository
}

// newPgxAdvanceRepository creates a new repository for worker advances.
func newPgxAdvanceRepository(pool *pgxpool.Pool) *PgxAdvanceRepository {
	return &PgxAdvanceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AdvanceRepositoryWithTx = (*PgxAdvanceRepository)(nil)

func scanAdvance(row pgx.Row) (*domain.WorkerAdvance, error) {
	var m models.WorkerAdvance
	var disbursementID, settlementID sql.NullString
	err := row.Scan(
		&m.AdvanceID,
		&m.WorkerID,
		&m.Amount,
		&m.AdvanceDate,
		&disbursementID,
		&m.SettledAmount,
		&settlementID,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.DisbursementTransactionID = disbursementID.String
	m.SettlementTransactionID = settlementID.String
	advance := mapping.ToDomainWorkerAdvance(m)
	return &advance, nil
}

// SaveAdvance inserts a new advance row.
func (r *PgxAdvanceRepository) SaveAdvance(ctx context.Context, advance domain.WorkerAdvance) error {
	m := mapping.ToModelWorkerAdvance(advance)
	query := `
		INSERT INTO worker_advances (` + advanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AdvanceID,
		m.WorkerID,
		m.Amount,
		m.AdvanceDate,
		nullIfEmpty(m.DisbursementTransactionID),
		m.SettledAmount,
		nullIfEmpty(m.SettlementTransactionID),
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save advance %s: %w", m.AdvanceID, err)
	}
	return nil
}

// FindAdvanceByID retrieves an advance by its ID.
func (r *PgxAdvanceRepository) FindAdvanceByID(ctx context.Context, advanceID string) (*domain.WorkerAdvance, error) {
	query := `SELECT ` + advanceColumns + ` FROM worker_advances WHERE advance_id = $1;`
	advance, err := scanAdvance(r.Pool.QueryRow(ctx, query, advanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find advance %s: %w", advanceID, err)
	}
	return advance, nil
}

// ListAdvancesByWorker retrieves a worker's advances oldest first so
// settlement allocation runs in disbursement order.
func (r *PgxAdvanceRepository) ListAdvancesByWorker(ctx context.Context, workerID string, outstandingOnly bool) ([]domain.WorkerAdvance, error) {
	query := `SELECT ` + advanceColumns + ` FROM worker_advances WHERE worker_id = $1`
	if outstandingOnly {
		query += ` AND settled_amount < amount`
	}
	query += ` ORDER BY advance_date ASC, created_at ASC;`

	rows, err := r.Pool.Query(ctx, query, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances for worker %s: %w", workerID, err)
	}
	defer rows.Close()

	return collectAdvances(rows)
}

// ListAdvances retrieves a filtered advance listing, newest first.
func (r *PgxAdvanceRepository) ListAdvances(ctx context.Context, filter portsrepo.ListAdvancesFilter, limit int, offset int) ([]domain.WorkerAdvance, error) {
	query := `SELECT ` + advanceColumns + ` FROM worker_advances WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.WorkerID != nil {
		query += fmt.Sprintf(" AND worker_id = $%d", argPos)
		args = append(args, *filter.WorkerID)
		argPos++
	}
	if filter.OutstandingOnly {
		query += " AND settled_amount < amount"
	}
	query += fmt.Sprintf(" ORDER BY advance_date DESC, created_at DESC LIMIT $%d OFFSET $%d;", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	defer rows.Close()

	return collectAdvances(rows)
}

func collectAdvances(rows pgx.Rows) ([]domain.WorkerAdvance, error) {
	var advances []domain.WorkerAdvance
	for rows.Next() {
		advance, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance row: %w", err)
		}
		advances = append(advances, *advance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating advance rows: %w", err)
	}
	return advances, nil
}

// OutstandingForWorker sums the unsettled remainder over a worker's advances.
func (r *PgxAdvanceRepository) OutstandingForWorker(ctx context.Context, workerID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount - settled_amount), 0) FROM worker_advances WHERE worker_id = $1;`
	var outstanding decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, workerID).Scan(&outstanding); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding advances for worker %s: %w", workerID, err)
	}
	return outstanding, nil
}

// UpdateSettlement moves an advance's settled amount from priorSettled to
// settledAmount. The write is a compare-and-swap on the prior value: a writer
// working from a stale read matches no row and gets a state conflict instead
// of silently re-consuming the advance.
func (r *PgxAdvanceRepository) UpdateSettlement(ctx context.Context, advanceID string, priorSettled, settledAmount decimal.Decimal, settlementTransactionID string, userID string, now time.Time) error {
	return r.updateSettlement(ctx, r.Pool, advanceID, priorSettled, settledAmount, settlementTransactionID, userID, now)
}

// UpdateSettlementInTx is UpdateSettlement inside a caller-owned database
// transaction.
func (r *PgxAdvanceRepository) UpdateSettlementInTx(ctx context.Context, tx pgx.Tx, advanceID string, priorSettled, settledAmount decimal.Decimal, settlementTransactionID string, userID string, now time.Time) error {
	return r.updateSettlement(ctx, tx, advanceID, priorSettled, settledAmount, settlementTransactionID, userID, now)
}

func (r *PgxAdvanceRepository) updateSettlement(ctx context.Context, db execer, advanceID string, priorSettled, settledAmount decimal.Decimal, settlementTransactionID string, userID string, now time.Time) error {
	query := `
		UPDATE worker_advances
		SET settled_amount = $3, settlement_transaction_id = COALESCE($4, settlement_transaction_id), last_updated_at = $5, last_updated_by = $6
		WHERE advance_id = $1 AND settled_amount = $2 AND $3 <= amount;
	`
	tag, err := db.Exec(ctx, query, advanceID, priorSettled, settledAmount, nullIfEmpty(settlementTransactionID), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update settlement of advance %s: %w", advanceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("advance %s settled amount moved concurrently: %w", advanceID, apperrors.ErrStateConflict)
	}
	return nil
}
