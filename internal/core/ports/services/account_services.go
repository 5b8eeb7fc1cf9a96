package services

import (
	"context"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	"github.com/buildbooks/build_books_app/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations over the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an active account by its user-facing code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a filtered, paginated account listing.
	ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations over the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount registers a new account; the balance starts at zero, with
	// any opening balance applied as an auto-cleared transaction.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an account's mutable details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account inactive; refuses for system accounts
	// and for accounts still referenced by non-void transactions or entries.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}

// AccountBalancerSvc is the single balance mutation path. Only ledger commits
// call it; it exists so the transaction processor depends on an interface
// rather than the registry's concrete type.
type AccountBalancerSvc interface {
	// ApplyDelta applies one signed amount to one account and returns the new
	// balance. Fails for unknown or inactive accounts.
	ApplyDelta(ctx context.Context, accountID string, signedAmount decimal.Decimal, userID string) (decimal.Decimal, error)
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountBalancerSvc
}
