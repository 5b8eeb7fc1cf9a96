package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType mirrors domain.ReferenceType for persistence.
type ReferenceType string

// JournalEntry is the database representation of an audit entry.
// Rows are append-only; there is no update path.
type JournalEntry struct {
	EntryID         string          `db:"entry_id"`
	EntryDate       time.Time       `db:"entry_date"` // date column
	Description     string          `db:"description"`
	DebitAccountID  string          `db:"debit_account_id"`
	CreditAccountID string          `db:"credit_account_id"`
	Amount          decimal.Decimal `db:"amount"`
	ReferenceType   ReferenceType   `db:"reference_type"`
	ReferenceID     string          `db:"reference_id"`
	IsReversing     bool            `db:"is_reversing"`
	ReversedEntryID string          `db:"reversed_entry_id"` // Nullable
	AuditFields
}
