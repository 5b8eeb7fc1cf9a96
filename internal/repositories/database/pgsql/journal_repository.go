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
	"github.com/buildbooks/build_books_app/internal/utils/pagination"
)

const journalColumns = `entry_id, entry_date, description, debit_account_id, credit_account_id, amount, reference_type, reference_id, is_reversing, reversed_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxJournalRepository creates a new repository for journal entries. The
// account repository is injected for balance updates inside entry batches.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) *PgxJournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanJournalEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var m models.JournalEntry
	var reversedID sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.EntryDate,
		&m.Description,
		&m.DebitAccountID,
		&m.CreditAccountID,
		&m.Amount,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.IsReversing,
		&reversedID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.ReversedEntryID = reversedID.String
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// SaveEntry inserts the entry and applies its balance deltas in one database
// transaction: lock accounts, apply deltas, insert. Either all of it lands or
// none of it does.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockAndApply(ctx, tx, r.accountRepo, balanceChanges, entry.CreatedBy, entry.CreatedAt); err != nil {
		return fmt.Errorf("journal entry %s: %w", entry.EntryID, err)
	}
	if err := r.InsertEntryInTx(ctx, tx, entry); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// InsertEntryInTx inserts an entry as part of a caller-owned transaction.
func (r *PgxJournalRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.EntryDate,
		m.Description,
		m.DebitAccountID,
		m.CreditAccountID,
		m.Amount,
		m.ReferenceType,
		m.ReferenceID,
		m.IsReversing,
		nullIfEmpty(m.ReversedEntryID),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves a journal entry by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// FindReversingEntryFor retrieves the entry that reverses the given one.
func (r *PgxJournalRepository) FindReversingEntryFor(ctx context.Context, originalEntryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE reversed_entry_id = $1 AND is_reversing = TRUE;`
	entry, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, originalEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reversing entry for %s: %w", originalEntryID, err)
	}
	return entry, nil
}

// FindEntryByReference retrieves the non-reversing entry for a reference.
func (r *PgxJournalRepository) FindEntryByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE reference_type = $1 AND reference_id = $2 AND is_reversing = FALSE;`
	entry, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, referenceType, referenceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry for %s %s: %w", referenceType, referenceID, err)
	}
	return entry, nil
}

// ListEntries retrieves a filtered, token-paginated entry listing, newest first.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter portsrepo.ListJournalEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND (debit_account_id = $%d OR credit_account_id = $%d)", argPos, argPos)
		args = append(args, *filter.AccountID)
		argPos++
	}
	if filter.ReferenceType != nil {
		query += fmt.Sprintf(" AND reference_type = $%d", argPos)
		args = append(args, *filter.ReferenceType)
		argPos++
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND entry_date >= $%d", argPos)
		args = append(args, *filter.DateFrom)
		argPos++
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND entry_date <= $%d", argPos)
		args = append(args, *filter.DateTo)
		argPos++
	}

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += fmt.Sprintf(" AND (entry_date, created_at) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, entryDate, createdAt)
		argPos += 2
	}

	query += fmt.Sprintf(" ORDER BY entry_date DESC, created_at DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}

// lockAndApply is the shared opening move of every ledger commit batch.
func lockAndApply(ctx context.Context, tx pgx.Tx, accountRepo *PgxAccountRepository, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return fmt.Errorf("failed to update balances: %w", err)
	}
	return nil
}
