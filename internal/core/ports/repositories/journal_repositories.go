package repositories

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ListJournalEntriesFilter narrows journal entry listings.
type ListJournalEntriesFilter struct {
	AccountID     *string // Matches either side of the entry
	ReferenceType *domain.ReferenceType
	DateFrom      *time.Time
	DateTo        *time.Time
}

// JournalReader defines read operations for journal entries.
type JournalReader interface {
	// FindEntryByID retrieves a specific journal entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindReversingEntryFor retrieves the reversing entry referencing the given
	// original entry, or ErrNotFound when none exists.
	FindReversingEntryFor(ctx context.Context, originalEntryID string) (*domain.JournalEntry, error)

	// FindEntryByReference retrieves the non-reversing entry for a reference
	// (e.g. the entry a cleared transaction produced).
	FindEntryByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a filtered, token-paginated entry listing, newest first.
	ListEntries(ctx context.Context, filter ListJournalEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries. Entries are
// append-only; there is no update or delete.
type JournalWriter interface {
	// SaveEntry atomically inserts the entry and applies its balance deltas in
	// one database transaction. Used for direct recordings (adjustments,
	// opening balances) that do not ride a transaction clear batch.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error

	// InsertEntryInTx inserts an entry as part of a caller-owned database
	// transaction. Ledger commit batches use this.
	InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends the facade with transaction management.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
