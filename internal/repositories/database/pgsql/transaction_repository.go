package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/buildbooks/build_books_app/internal/apperrors"
	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	"github.com/buildbooks/build_books_app/internal/models"
	"github.com/buildbooks/build_books_app/internal/utils/mapping"
	"github.com/buildbooks/build_books_app/internal/utils/pagination"
)

const transactionColumns = `transaction_id, project_id, worker_id, source_account_id, destination_account_id, counter_account_id, amount, transaction_type, status, category, transaction_date, journal_entry_id, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
	journalRepo *PgxJournalRepository
}

// newPgxTransactionRepository creates a new repository for transactions. The
// account and journal repositories are injected so clear and reversal batches
// can run their in-transaction steps.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository, journalRepo *PgxJournalRepository) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		journalRepo:    journalRepo,
	}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var m models.Transaction
	var projectID, workerID, destinationID, counterID, journalEntryID sql.NullString
	err := row.Scan(
		&m.TransactionID,
		&projectID,
		&workerID,
		&m.SourceAccountID,
		&destinationID,
		&counterID,
		&m.Amount,
		&m.TransactionType,
		&m.Status,
		&m.Category,
		&m.TransactionDate,
		&journalEntryID,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.ProjectID = projectID.String
	m.WorkerID = workerID.String
	m.DestinationAccountID = destinationID.String
	m.CounterAccountID = counterID.String
	m.JournalEntryID = journalEntryID.String
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// SaveTransaction inserts a new transaction row.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.insertTransaction(ctx, r.Pool, txn)
}

// insertTransactionInTx inserts a transaction as part of a caller-owned
// database transaction; payroll payment batches use this.
func (r *PgxTransactionRepository) insertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	return r.insertTransaction(ctx, tx, txn)
}

// execer is the slice of pgxpool.Pool and pgx.Tx the insert path needs.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *PgxTransactionRepository) insertTransaction(ctx context.Context, db execer, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := db.Exec(ctx, query,
		m.TransactionID,
		nullIfEmpty(m.ProjectID),
		nullIfEmpty(m.WorkerID),
		m.SourceAccountID,
		nullIfEmpty(m.DestinationAccountID),
		nullIfEmpty(m.CounterAccountID),
		m.Amount,
		m.TransactionType,
		m.Status,
		m.Category,
		m.TransactionDate,
		nullIfEmpty(m.JournalEntryID),
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a filtered, token-paginated listing, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND (source_account_id = $%d OR destination_account_id = $%d OR counter_account_id = $%d)", argPos, argPos, argPos)
		args = append(args, *filter.AccountID)
		argPos++
	}
	if filter.ProjectID != nil {
		query += fmt.Sprintf(" AND project_id = $%d", argPos)
		args = append(args, *filter.ProjectID)
		argPos++
	}
	if filter.WorkerID != nil {
		query += fmt.Sprintf(" AND worker_id = $%d", argPos)
		args = append(args, *filter.WorkerID)
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND transaction_date >= $%d", argPos)
		args = append(args, *filter.DateFrom)
		argPos++
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND transaction_date <= $%d", argPos)
		args = append(args, *filter.DateTo)
		argPos++
	}

	if nextToken != nil && *nextToken != "" {
		txnDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += fmt.Sprintf(" AND (transaction_date, created_at) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, txnDate, createdAt)
		argPos += 2
	}

	query += fmt.Sprintf(" ORDER BY transaction_date DESC, created_at DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		t := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		token = &t
	}
	return txns, token, nil
}

// UpdateTransactionStatus flips the lifecycle state with no ledger effect.
// The WHERE clause re-checks the current status so a concurrent clear or void
// loses cleanly instead of double-applying.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND status = 'PENDING';
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, status, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s is not pending: %w", transactionID, apperrors.ErrStateConflict)
	}
	return nil
}

// CommitClear runs the four-step clear as one database transaction: lock
// accounts, apply both deltas, insert the journal entry, flip the status.
func (r *PgxTransactionRepository) CommitClear(ctx context.Context, txn domain.Transaction, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockAndApply(ctx, tx, r.accountRepo, balanceChanges, txn.LastUpdatedBy, txn.LastUpdatedAt); err != nil {
		return fmt.Errorf("clear of transaction %s: %w", txn.TransactionID, err)
	}
	if err := r.journalRepo.InsertEntryInTx(ctx, tx, entry); err != nil {
		return err
	}

	statusQuery := `
		UPDATE transactions
		SET status = $2, journal_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1 AND status = 'PENDING';
	`
	tag, err := tx.Exec(ctx, statusQuery, txn.TransactionID, domain.Cleared, entry.EntryID, txn.LastUpdatedAt, txn.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s cleared: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s is not pending: %w", txn.TransactionID, apperrors.ErrStateConflict)
	}

	return r.Commit(ctx, tx)
}

// CommitVoidReversal runs the reversal as one database transaction: lock
// accounts, apply the inverse deltas, insert the reversing entry, flip the
// status to VOID.
func (r *PgxTransactionRepository) CommitVoidReversal(ctx context.Context, txn domain.Transaction, reversingEntry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockAndApply(ctx, tx, r.accountRepo, balanceChanges, txn.LastUpdatedBy, txn.LastUpdatedAt); err != nil {
		return fmt.Errorf("reversal of transaction %s: %w", txn.TransactionID, err)
	}
	if err := r.journalRepo.InsertEntryInTx(ctx, tx, reversingEntry); err != nil {
		return err
	}

	statusQuery := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND status = 'CLEARED';
	`
	tag, err := tx.Exec(ctx, statusQuery, txn.TransactionID, domain.Void, txn.LastUpdatedAt, txn.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s void: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s is not cleared: %w", txn.TransactionID, apperrors.ErrStateConflict)
	}

	return r.Commit(ctx, tx)
}
