package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildbooks/build_books_app/internal/apperrors"
	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	portssvc "github.com/buildbooks/build_books_app/internal/core/ports/services"
	"github.com/buildbooks/build_books_app/internal/dto"
)

var (
	ErrDuplicateAccountCode    = fmt.Errorf("%w: account code already in use", apperrors.ErrDuplicate)
	ErrAccountInactive         = fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)
	ErrParentAccountNotFound   = fmt.Errorf("%w: parent account does not exist", apperrors.ErrValidation)
	ErrSystemAccountProtected  = fmt.Errorf("%w: system accounts cannot be deactivated", apperrors.ErrForbidden)
	ErrAccountHasReferences    = fmt.Errorf("%w: account is referenced by non-void transactions or journal entries", apperrors.ErrReferentialIntegrity)
	ErrCategoryTypeMismatch    = fmt.Errorf("%w: account type is not valid for the given category", apperrors.ErrValidation)
	ErrOpeningBalanceForbidden = fmt.Errorf("%w: opening balance is not allowed for this account category", apperrors.ErrValidation)
)

// typesByCategory restricts which concrete account types each category admits.
var typesByCategory = map[domain.AccountCategory][]domain.AccountType{
	domain.Asset:     {domain.CashBox, domain.Bank, domain.Wallet, domain.Receivable},
	domain.Liability: {domain.Payable},
	domain.Equity:    {},
	domain.Revenue:   {},
	domain.Expense:   {},
}

// accountService implements the account registry on top of the account repository.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx

	// txnSvc handles opening-balance seeding. Set after construction because
	// the transaction processor itself reads accounts through this service.
	txnSvc portssvc.TransactionProcessorSvc
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx) *accountService {
	return &accountService{
		accountRepo: accountRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// SetTransactionProcessor wires the processor used for opening-balance seeding.
func (s *accountService) SetTransactionProcessor(txnSvc portssvc.TransactionProcessorSvc) {
	s.txnSvc = txnSvc
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "failed to fetch account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to fetch account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account code %s: %w", code, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "failed to fetch account by code", slog.String("code", code))
		return nil, fmt.Errorf("failed to fetch account by code %s: %w", code, err)
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "failed to fetch accounts by IDs")
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, filter, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount registers a new account. The persisted balance always starts
// at zero; a requested opening balance is applied afterwards as an
// auto-cleared transaction against the Opening Balances equity account.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	category := req.Category
	accountType := req.AccountType
	if err := validateCategoryType(category, accountType); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "failed to check account code uniqueness", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: code %s", ErrDuplicateAccountCode, req.Code)
	}

	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrParentAccountNotFound, *req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("parent account %s: %w", parent.AccountID, ErrAccountInactive)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		Category:        category,
		AccountType:     accountType,
		ParentAccountID: derefOrEmpty(req.ParentAccountID),
		Description:     req.Description,
		Balance:         decimal.Zero,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: code %s", ErrDuplicateAccountCode, req.Code)
		}
		s.LogError(ctx, err, "failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	s.LogInfo(ctx, "account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))

	if req.OpeningBalance != nil && !req.OpeningBalance.IsZero() {
		if err := s.seedOpeningBalance(ctx, &account, *req.OpeningBalance, userID); err != nil {
			return nil, err
		}
		// Re-read so the returned snapshot carries the seeded balance.
		return s.GetAccountByID(ctx, account.AccountID)
	}
	return &account, nil
}

// seedOpeningBalance books the opening balance through the regular transaction
// path so the cleared-effects invariant holds from day one.
func (s *accountService) seedOpeningBalance(ctx context.Context, account *domain.Account, opening decimal.Decimal, userID string) error {
	if s.txnSvc == nil {
		return fmt.Errorf("opening balance requested but transaction processor is not wired")
	}
	if account.Category == domain.Equity {
		return ErrOpeningBalanceForbidden
	}

	amount := opening
	// A positive opening balance adds to the account's normal side. The
	// income shape debits the source, the expense shape credits it.
	txnType := domain.TypeIncome
	if !account.Category.IsDebitNormal() {
		txnType = domain.TypeExpense
	}
	if amount.IsNegative() {
		amount = amount.Neg()
		if txnType == domain.TypeIncome {
			txnType = domain.TypeExpense
		} else {
			txnType = domain.TypeIncome
		}
	}

	openingAccount, err := s.accountRepo.FindAccountByCode(ctx, domain.SystemAccountOpeningBalances)
	if err != nil {
		return fmt.Errorf("failed to resolve opening balances account: %w", err)
	}
	req := dto.SubmitTransactionRequest{
		SourceAccountID:  account.AccountID,
		CounterAccountID: &openingAccount.AccountID,
		Amount:           amount,
		Type:             txnType,
		Category:         domain.CategoryOpeningBalance,
		Date:             time.Now().UTC().Format(dto.DateFormat),
		Description:      fmt.Sprintf("Opening balance for %s", account.Code),
		AutoClear:        true,
	}
	if _, err := s.txnSvc.Submit(ctx, req, userID); err != nil {
		s.LogError(ctx, err, "failed to seed opening balance", slog.String("account_id", account.AccountID))
		return fmt.Errorf("failed to seed opening balance: %w", err)
	}
	return nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("account %s: %w", accountID, ErrAccountInactive)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount retires an account from the chart. The row and its ledger
// history survive; only new activity is blocked.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsSystemAccount {
		return fmt.Errorf("account %s: %w", accountID, ErrSystemAccountProtected)
	}
	if !account.IsActive {
		return nil // already inactive, idempotent
	}

	referenced, err := s.accountRepo.HasOpenReferences(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "failed to check account references", slog.String("account_id", accountID))
		return fmt.Errorf("failed to check account references: %w", err)
	}
	if referenced {
		return fmt.Errorf("account %s: %w", accountID, ErrAccountHasReferences)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	s.LogInfo(ctx, "account deactivated", slog.String("account_id", accountID))
	return nil
}

// ApplyDelta applies one signed amount to one account inside its own database
// transaction and returns the resulting balance. Row locking in the repository
// serialises concurrent deltas against the same account.
func (s *accountService) ApplyDelta(ctx context.Context, accountID string, signedAmount decimal.Decimal, userID string) (decimal.Decimal, error) {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.accountRepo.Rollback(ctx, tx)
	}()

	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{accountID})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	account, ok := accounts[accountID]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	if !account.IsActive {
		return decimal.Zero, fmt.Errorf("account %s: %w", accountID, ErrAccountInactive)
	}

	changes := map[string]decimal.Decimal{accountID: signedAmount}
	if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, time.Now().UTC()); err != nil {
		return decimal.Zero, fmt.Errorf("failed to apply balance delta: %w", err)
	}
	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit balance delta: %w", err)
	}

	newBalance := account.Balance.Add(signedAmount)
	s.LogDebug(ctx, "balance delta applied",
		slog.String("account_id", accountID),
		slog.String("delta", signedAmount.String()),
		slog.String("new_balance", newBalance.String()))
	return newBalance, nil
}

func validateCategoryType(category domain.AccountCategory, accountType domain.AccountType) error {
	allowed, ok := typesByCategory[category]
	if !ok {
		return fmt.Errorf("%w: unknown category %s", apperrors.ErrValidation, category)
	}
	if accountType == "" {
		if len(allowed) > 0 {
			return fmt.Errorf("%w: category %s requires an account type", apperrors.ErrValidation, category)
		}
		return nil
	}
	for _, t := range allowed {
		if t == accountType {
			return nil
		}
	}
	return fmt.Errorf("%w: type %s under category %s", ErrCategoryTypeMismatch, accountType, category)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
