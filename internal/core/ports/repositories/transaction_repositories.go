package repositories

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsFilter narrows transaction listings.
type ListTransactionsFilter struct {
	AccountID *string
	ProjectID *string
	WorkerID  *string
	Status    *domain.TransactionStatus
	DateFrom  *time.Time
	DateTo    *time.Time
}

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated transaction listing,
	// newest first.
	ListTransactions(ctx context.Context, filter ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for transaction data.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction in PENDING state.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionStatus flips the lifecycle state of a transaction without
	// any ledger effect. Used for the PENDING -> VOID transition only; cleared
	// and reversal commits go through TransactionCommitter.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, userID string, now time.Time) error
}

// TransactionCommitter defines the atomic ledger write batches. Each method is
// a single database transaction: either every effect is durable or none are.
type TransactionCommitter interface {
	// CommitClear atomically applies both balance deltas, inserts the journal
	// entry and moves the transaction to CLEARED with the entry linked.
	CommitClear(ctx context.Context, txn domain.Transaction, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error

	// CommitVoidReversal atomically applies the inverse balance deltas, inserts
	// the reversing journal entry and moves the transaction to VOID.
	CommitVoidReversal(ctx context.Context, txn domain.Transaction, reversingEntry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionCommitter
}

// TransactionRepositoryWithTx extends the facade with transaction management.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
