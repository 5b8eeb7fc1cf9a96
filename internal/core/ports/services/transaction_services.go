package services

import (
	"context"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	"github.com/buildbooks/build_books_app/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions.
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated listing.
	ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionProcessorSvc is the transaction lifecycle state machine:
// PENDING -> CLEARED -> VOID, or PENDING -> VOID.
type TransactionProcessorSvc interface {
	// Submit validates and persists a transaction intent. With AutoClear the
	// transaction is cleared in the same call; if that clear fails, the
	// transaction remains persisted as PENDING and the error is returned.
	Submit(ctx context.Context, req dto.SubmitTransactionRequest, userID string) (*domain.Transaction, error)

	// Clear commits a pending transaction: both balance deltas, the journal
	// entry and the state flip, atomically.
	Clear(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)

	// Void cancels a pending transaction without ledger effect, or reverses a
	// cleared one with an inverse commit.
	Void(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionProcessorSvc
}
