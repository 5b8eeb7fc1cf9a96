package services

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// RecordEntryInput carries the fields of a journal entry to record.
type RecordEntryInput struct {
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	ReferenceType   domain.ReferenceType
	ReferenceID     string
	Date            time.Time
	Description     string
}

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntryByID retrieves a specific journal entry.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a filtered, token-paginated entry listing.
	ListEntries(ctx context.Context, filter portsrepo.ListJournalEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalRecorderSvc appends balanced audit entries. Entries are immutable;
// the only way to undo one is an explicit reversal.
type JournalRecorderSvc interface {
	// Record appends a new entry and applies its balance effects atomically.
	Record(ctx context.Context, input RecordEntryInput, userID string) (*domain.JournalEntry, error)

	// Reverse appends a new entry that swaps the original's debit/credit
	// sides, applying the inverse balance effects atomically.
	Reverse(ctx context.Context, originalEntryID string, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalRecorderSvc
}
