package repositories

import (
	"context"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ListAccountsFilter narrows account listings.
type ListAccountsFilter struct {
	Category   *domain.AccountCategory
	Type       *domain.AccountType
	ActiveOnly bool
}

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its user-facing code.
	// Only active accounts are considered; the code space of inactive accounts is reusable.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a filtered, paginated account listing.
	ListAccounts(ctx context.Context, filter ListAccountsFilter, limit int, offset int) ([]domain.Account, error)

	// HasOpenReferences reports whether any non-void transaction or any journal
	// entry still references the account. Used for restrict-on-deactivate.
	HasOpenReferences(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable details (not its balance).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountBalancer defines the balance mutation operations that participate in
// ledger write batches. Balances are only ever mutated through these.
type AccountBalancer interface {
	// FindAccountsByIDsForUpdate locks the given accounts (SELECT ... FOR UPDATE)
	// inside tx and returns their current state. Missing accounts yield ErrNotFound.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies the signed deltas to the locked accounts within tx.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalancer
}

// AccountRepositoryWithTx extends the facade with transaction management.
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
