package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the business intent of a transaction.
type TransactionType string

const (
	TypeIncome   TransactionType = "INCOME"
	TypeExpense  TransactionType = "EXPENSE"
	TypeTransfer TransactionType = "TRANSFER"
)

// TransactionStatus is the lifecycle state of a transaction.
// Legal transitions: PENDING->CLEARED, PENDING->VOID, CLEARED->VOID (reversal).
type TransactionStatus string

const (
	Pending TransactionStatus = "PENDING"
	Cleared TransactionStatus = "CLEARED"
	Void    TransactionStatus = "VOID"
)

// Category labels with system meaning. Anything else is a free-form label.
const (
	CategoryOpeningBalance = "opening_balance"
	CategoryWages          = "wages"
	CategoryAdvance        = "advance"
)

// Transaction is a financial movement intent. Clearing it commits balance
// deltas and produces exactly one journal entry; voiding a cleared
// transaction produces exactly one reversing entry.
type Transaction struct {
	TransactionID        string `json:"transactionID"` // Primary Key (UUID)
	ProjectID            string `json:"projectID"`     // Optional cost-center linkage
	WorkerID             string `json:"workerID"`      // Optional worker linkage
	SourceAccountID      string `json:"sourceAccountID"`
	DestinationAccountID string `json:"destinationAccountID"` // Required only for TRANSFER
	// CounterAccountID is the revenue/expense account forming the journal
	// entry's other side for INCOME/EXPENSE. Resolved at submit time.
	CounterAccountID string            `json:"counterAccountID"`
	Amount           decimal.Decimal   `json:"amount"` // Always > 0
	Type             TransactionType   `json:"type"`
	Status           TransactionStatus `json:"status"`
	Category         string            `json:"category"`        // Free-form category label
	TransactionDate  time.Time         `json:"transactionDate"` // Calendar date, no time component
	JournalEntryID   string            `json:"journalEntryID"`  // Set when cleared
	Description      string            `json:"description"`
	AuditFields
}
