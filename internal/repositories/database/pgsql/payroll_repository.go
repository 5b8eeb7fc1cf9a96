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

const payrollColumns = `payroll_id, worker_id, period_start, period_end, project_id, days_present, half_days, overtime_hours, daily_rate, overtime_rate, gross_wage, deductions, advances_deducted, net_wage, status, payment_transaction_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxPayrollRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
	txnRepo     *PgxTransactionRepository
	journalRepo *PgxJournalRepository
	advanceRepo *PgxAdvanceRepository
}

// newPgxPayrollRepository creates a new repository for payroll entries. The
// sibling repositories are injected so the payment batch can run end to end
// in one database transaction.
func newPgxPayrollRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository, txnRepo *PgxTransactionRepository, journalRepo *PgxJournalRepository, advanceRepo *PgxAdvanceRepository) *PgxPayrollRepository {
	return &PgxPayrollRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		txnRepo:        txnRepo,
		journalRepo:    journalRepo,
		advanceRepo:    advanceRepo,
	}
}

var _ portsrepo.PayrollRepositoryWithTx = (*PgxPayrollRepository)(nil)

func scanPayrollEntry(row pgx.Row) (*domain.PayrollEntry, error) {
	var m models.PayrollEntry
	var projectID, paymentID sql.NullString
	err := row.Scan(
		&m.PayrollID,
		&m.WorkerID,
		&m.PeriodStart,
		&m.PeriodEnd,
		&projectID,
		&m.DaysPresent,
		&m.HalfDays,
		&m.OvertimeHours,
		&m.DailyRate,
		&m.OvertimeRate,
		&m.GrossWage,
		&m.Deductions,
		&m.AdvancesDeducted,
		&m.NetWage,
		&m.Status,
		&paymentID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.ProjectID = projectID.String
	m.PaymentTransactionID = paymentID.String
	entry := mapping.ToDomainPayrollEntry(m)
	return &entry, nil
}

// SavePayrollEntry inserts a new payroll entry row.
func (r *PgxPayrollRepository) SavePayrollEntry(ctx context.Context, entry domain.PayrollEntry) error {
	m := mapping.ToModelPayrollEntry(entry)
	query := `
		INSERT INTO payroll_entries (` + payrollColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PayrollID,
		m.WorkerID,
		m.PeriodStart,
		m.PeriodEnd,
		nullIfEmpty(m.ProjectID),
		m.DaysPresent,
		m.HalfDays,
		m.OvertimeHours,
		m.DailyRate,
		m.OvertimeRate,
		m.GrossWage,
		m.Deductions,
		m.AdvancesDeducted,
		m.NetWage,
		m.Status,
		nullIfEmpty(m.PaymentTransactionID),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save payroll entry %s: %w", m.PayrollID, err)
	}
	return nil
}

// FindPayrollEntryByID retrieves a payroll entry by its ID.
func (r *PgxPayrollRepository) FindPayrollEntryByID(ctx context.Context, payrollID string) (*domain.PayrollEntry, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll_entries WHERE payroll_id = $1;`
	entry, err := scanPayrollEntry(r.Pool.QueryRow(ctx, query, payrollID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payroll entry %s: %w", payrollID, err)
	}
	return entry, nil
}

func appendPayrollFilter(query string, filter portsrepo.ListPayrollFilter, args []any) (string, []any) {
	argPos := len(args) + 1
	if filter.WorkerID != nil {
		query += fmt.Sprintf(" AND worker_id = $%d", argPos)
		args = append(args, *filter.WorkerID)
		argPos++
	}
	if filter.ProjectID != nil {
		query += fmt.Sprintf(" AND project_id = $%d", argPos)
		args = append(args, *filter.ProjectID)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.PeriodFrom != nil {
		query += fmt.Sprintf(" AND period_end >= $%d", argPos)
		args = append(args, *filter.PeriodFrom)
		argPos++
	}
	if filter.PeriodUntil != nil {
		query += fmt.Sprintf(" AND period_start <= $%d", argPos)
		args = append(args, *filter.PeriodUntil)
	}
	return query, args
}

// ListPayrollEntries retrieves a filtered payroll listing, newest period first.
func (r *PgxPayrollRepository) ListPayrollEntries(ctx context.Context, filter portsrepo.ListPayrollFilter, limit int, offset int) ([]domain.PayrollEntry, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll_entries WHERE 1=1`
	var args []any
	query, args = appendPayrollFilter(query, filter, args)
	query += fmt.Sprintf(" ORDER BY period_start DESC, created_at DESC LIMIT $%d OFFSET $%d;", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.PayrollEntry
	for rows.Next() {
		entry, err := scanPayrollEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payroll rows: %w", err)
	}
	return entries, nil
}

// PayrollTotals aggregates the monetary columns over matching entries.
func (r *PgxPayrollRepository) PayrollTotals(ctx context.Context, filter portsrepo.ListPayrollFilter) (*domain.PayrollTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(gross_wage), 0),
		       COALESCE(SUM(deductions), 0),
		       COALESCE(SUM(advances_deducted), 0),
		       COALESCE(SUM(net_wage), 0)
		FROM payroll_entries WHERE 1=1`
	var args []any
	query, args = appendPayrollFilter(query, filter, args)
	query += ";"

	var totals domain.PayrollTotals
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&totals.EntryCount,
		&totals.GrossWage,
		&totals.Deductions,
		&totals.AdvancesDeducted,
		&totals.NetWage,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payroll totals: %w", err)
	}
	return &totals, nil
}

// UpdatePayrollStatus advances the workflow state of a payroll entry.
func (r *PgxPayrollRepository) UpdatePayrollStatus(ctx context.Context, payrollID string, status domain.PayrollStatus, userID string, now time.Time) error {
	query := `
		UPDATE payroll_entries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payroll_id = $1 AND status NOT IN ('PAID', 'CANCELLED');
	`
	tag, err := r.Pool.Exec(ctx, query, payrollID, status, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of payroll entry %s: %w", payrollID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payroll entry %s is already final: %w", payrollID, apperrors.ErrStateConflict)
	}
	return nil
}

// CommitPay runs the whole payment batch as one database transaction: lock
// accounts, apply both deltas, insert the cleared payment transaction and its
// journal entry, settle each contributing advance and mark the entry PAID.
func (r *PgxPayrollRepository) CommitPay(ctx context.Context, entry domain.PayrollEntry, payment domain.Transaction, journalEntry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, settlements []portsrepo.AdvanceSettlementLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockAndApply(ctx, tx, r.accountRepo, balanceChanges, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
		return fmt.Errorf("payment of payroll entry %s: %w", entry.PayrollID, err)
	}
	if err := r.txnRepo.insertTransactionInTx(ctx, tx, payment); err != nil {
		return err
	}
	if err := r.journalRepo.InsertEntryInTx(ctx, tx, journalEntry); err != nil {
		return err
	}
	for _, line := range settlements {
		if err := r.advanceRepo.UpdateSettlementInTx(ctx, tx, line.AdvanceID, line.PriorSettledAmount, line.NewSettledAmount, payment.TransactionID, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
			return err
		}
	}

	statusQuery := `
		UPDATE payroll_entries
		SET status = $2, payment_transaction_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payroll_id = $1 AND status = 'APPROVED';
	`
	tag, err := tx.Exec(ctx, statusQuery, entry.PayrollID, domain.PayrollPaid, payment.TransactionID, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark payroll entry %s paid: %w", entry.PayrollID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payroll entry %s is not approved: %w", entry.PayrollID, apperrors.ErrStateConflict)
	}

	return r.Commit(ctx, tx)
}
