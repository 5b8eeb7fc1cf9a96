package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors domain.TransactionType for persistence.
type TransactionType string

// TransactionStatus mirrors domain.TransactionStatus for persistence.
type TransactionStatus string

// Transaction is the database representation of a transaction intent.
type Transaction struct {
	TransactionID        string            `db:"transaction_id"`
	ProjectID            string            `db:"project_id"` // Nullable
	WorkerID             string            `db:"worker_id"`  // Nullable
	SourceAccountID      string            `db:"source_account_id"`
	DestinationAccountID string            `db:"destination_account_id"` // Nullable
	CounterAccountID     string            `db:"counter_account_id"`     // Nullable
	Amount               decimal.Decimal   `db:"amount"`
	TransactionType      TransactionType   `db:"transaction_type"`
	Status               TransactionStatus `db:"status"`
	Category             string            `db:"category"`
	TransactionDate      time.Time         `db:"transaction_date"` // date column
	JournalEntryID       string            `db:"journal_entry_id"` // Nullable
	Description          string            `db:"description"`
	AuditFields
}
