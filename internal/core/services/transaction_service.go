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
	"github.com/buildbooks/build_books_app/internal/utils/accounting"
)

var (
	ErrNonPositiveAmount  = fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	ErrInvalidTransfer    = fmt.Errorf("%w: transfer requires distinct source and destination accounts", apperrors.ErrValidation)
	ErrMissingSource      = fmt.Errorf("%w: source account is required", apperrors.ErrValidation)
	ErrNotPending         = fmt.Errorf("%w: only pending transactions can be cleared", apperrors.ErrStateConflict)
	ErrAlreadyVoid        = fmt.Errorf("%w: transaction is already void", apperrors.ErrStateConflict)
	ErrTransactionCleared = fmt.Errorf("%w: cleared transactions cannot return to pending", apperrors.ErrStateConflict)
)

// transactionService drives the transaction lifecycle. All ledger effects
// happen at clear time through single-database-transaction commit batches in
// the repository layer.
type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryWithTx
	journalRepo portsrepo.JournalReader
	accountSvc  portssvc.AccountReaderSvc
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryWithTx, journalRepo portsrepo.JournalReader, accountSvc portssvc.AccountReaderSvc) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "failed to fetch transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	txns, token, err := s.txnRepo.ListTransactions(ctx, filter, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list transactions")
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, token, nil
}

// Submit validates a transaction intent and persists it in PENDING state.
// Counter accounts for INCOME/EXPENSE are resolved here so a later Clear does
// not depend on the system account configuration at that moment.
//
// With AutoClear the intent is persisted first and then cleared in a second
// database transaction. If the clear step fails, the saved transaction stays
// PENDING and the caller receives the error; the row can be cleared or voided
// later through the normal lifecycle.
func (s *transactionService) Submit(ctx context.Context, req dto.SubmitTransactionRequest, userID string) (*domain.Transaction, error) {
	req.Normalize()

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrNonPositiveAmount
	}
	if req.SourceAccountID == "" {
		return nil, ErrMissingSource
	}
	txnDate, err := req.ParsedDate()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		ProjectID:       req.ProjectID,
		WorkerID:        req.WorkerID,
		SourceAccountID: req.SourceAccountID,
		Amount:          req.Amount,
		Type:            req.Type,
		Status:          domain.Pending,
		Category:        req.Category,
		TransactionDate: txnDate,
		Description:     req.Description,
	}

	switch req.Type {
	case domain.TypeTransfer:
		if req.DestinationAccountID == nil || *req.DestinationAccountID == "" || *req.DestinationAccountID == req.SourceAccountID {
			return nil, ErrInvalidTransfer
		}
		txn.DestinationAccountID = *req.DestinationAccountID
	case domain.TypeIncome, domain.TypeExpense:
		counterID, err := s.resolveCounterAccount(ctx, req)
		if err != nil {
			return nil, err
		}
		if counterID == req.SourceAccountID {
			return nil, fmt.Errorf("%w: counter account must differ from source", apperrors.ErrValidation)
		}
		txn.CounterAccountID = counterID
	default:
		return nil, fmt.Errorf("%w: unknown transaction type %s", apperrors.ErrValidation, req.Type)
	}

	if err := s.validateParticipants(ctx, txn); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "failed to save transaction")
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	s.LogInfo(ctx, "transaction submitted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()))

	if req.AutoClear {
		return s.clear(ctx, &txn, userID)
	}
	return &txn, nil
}

// Clear commits a pending transaction to the ledger.
func (s *transactionService) Clear(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	txn, err := s.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return s.clear(ctx, txn, userID)
}

func (s *transactionService) clear(ctx context.Context, txn *domain.Transaction, userID string) (*domain.Transaction, error) {
	if txn.Status != domain.Pending {
		return nil, fmt.Errorf("transaction %s is %s: %w", txn.TransactionID, txn.Status, ErrNotPending)
	}

	debitID, creditID, err := accounting.EntrySides(txn.Type, txn.SourceAccountID, txn.DestinationAccountID, txn.CounterAccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	accounts, err := s.fetchActiveAccounts(ctx, debitID, creditID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       txn.TransactionDate,
		Description:     txn.Description,
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          txn.Amount,
		ReferenceType:   referenceTypeFor(*txn),
		ReferenceID:     txn.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	changes, err := accounting.BalanceChanges(entry, accounts[debitID].Category, accounts[creditID].Category)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance changes: %w", err)
	}

	cleared := *txn
	cleared.Status = domain.Cleared
	cleared.JournalEntryID = entry.EntryID
	cleared.LastUpdatedAt = now
	cleared.LastUpdatedBy = userID

	if err := s.txnRepo.CommitClear(ctx, cleared, entry, changes); err != nil {
		s.LogError(ctx, err, "failed to commit clear", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to clear transaction %s: %w", txn.TransactionID, err)
	}
	s.LogInfo(ctx, "transaction cleared",
		slog.String("transaction_id", cleared.TransactionID),
		slog.String("journal_entry_id", entry.EntryID))
	return &cleared, nil
}

// Void cancels a transaction. Pending transactions flip state with no ledger
// effect; cleared transactions are reversed with a compensating entry, never
// by mutating history.
func (s *transactionService) Void(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	txn, err := s.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch txn.Status {
	case domain.Void:
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrAlreadyVoid)

	case domain.Pending:
		if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, domain.Void, userID, now); err != nil {
			s.LogError(ctx, err, "failed to void pending transaction", slog.String("transaction_id", transactionID))
			return nil, fmt.Errorf("failed to void transaction %s: %w", transactionID, err)
		}
		txn.Status = domain.Void
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = userID
		s.LogInfo(ctx, "pending transaction voided", slog.String("transaction_id", transactionID))
		return txn, nil

	case domain.Cleared:
		return s.voidCleared(ctx, txn, userID, now)

	default:
		return nil, fmt.Errorf("%w: transaction %s in unknown status %s", apperrors.ErrStateConflict, transactionID, txn.Status)
	}
}

func (s *transactionService) voidCleared(ctx context.Context, txn *domain.Transaction, userID string, now time.Time) (*domain.Transaction, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, txn.JournalEntryID)
	if err != nil {
		s.LogError(ctx, err, "failed to load journal entry for reversal", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to load journal entry %s: %w", txn.JournalEntryID, err)
	}

	reversing := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       now,
		Description:     fmt.Sprintf("Reversal of %s", original.EntryID),
		DebitAccountID:  original.CreditAccountID,
		CreditAccountID: original.DebitAccountID,
		Amount:          original.Amount,
		ReferenceType:   original.ReferenceType,
		ReferenceID:     original.ReferenceID,
		IsReversing:     true,
		ReversedEntryID: original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Reversal must go through even if a side was deactivated after clearing,
	// so categories are fetched without the active check.
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, []string{reversing.DebitAccountID, reversing.CreditAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for reversal: %w", err)
	}
	debit, ok := accounts[reversing.DebitAccountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", reversing.DebitAccountID, apperrors.ErrNotFound)
	}
	credit, ok := accounts[reversing.CreditAccountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", reversing.CreditAccountID, apperrors.ErrNotFound)
	}

	changes, err := accounting.BalanceChanges(reversing, debit.Category, credit.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to compute reversal balance changes: %w", err)
	}

	voided := *txn
	voided.Status = domain.Void
	voided.LastUpdatedAt = now
	voided.LastUpdatedBy = userID

	if err := s.txnRepo.CommitVoidReversal(ctx, voided, reversing, changes); err != nil {
		s.LogError(ctx, err, "failed to commit void reversal", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to void transaction %s: %w", txn.TransactionID, err)
	}
	s.LogInfo(ctx, "cleared transaction voided",
		slog.String("transaction_id", voided.TransactionID),
		slog.String("reversing_entry_id", reversing.EntryID))
	return &voided, nil
}

// resolveCounterAccount picks the journal entry's other side for
// INCOME/EXPENSE: the caller's explicit choice, or the misc system accounts.
func (s *transactionService) resolveCounterAccount(ctx context.Context, req dto.SubmitTransactionRequest) (string, error) {
	if req.CounterAccountID != nil && *req.CounterAccountID != "" {
		return *req.CounterAccountID, nil
	}
	code := domain.SystemAccountMiscIncome
	if req.Type == domain.TypeExpense {
		code = domain.SystemAccountMiscExpense
	}
	account, err := s.accountSvc.GetAccountByCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to resolve counter account %s: %w", code, err)
	}
	return account.AccountID, nil
}

// validateParticipants checks that every account the transaction touches
// exists and is active.
func (s *transactionService) validateParticipants(ctx context.Context, txn domain.Transaction) error {
	ids := []string{txn.SourceAccountID}
	if txn.DestinationAccountID != "" {
		ids = append(ids, txn.DestinationAccountID)
	}
	if txn.CounterAccountID != "" {
		ids = append(ids, txn.CounterAccountID)
	}
	_, err := s.fetchActiveAccounts(ctx, ids...)
	return err
}

func (s *transactionService) fetchActiveAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("account %s: %w", id, ErrAccountInactive)
		}
	}
	return accounts, nil
}

// referenceTypeFor maps a transaction to its journal entry reference type.
func referenceTypeFor(txn domain.Transaction) domain.ReferenceType {
	switch {
	case txn.Category == domain.CategoryOpeningBalance:
		return domain.RefOpeningBalance
	case txn.Category == domain.CategoryAdvance:
		return domain.RefAdvance
	case txn.Category == domain.CategoryWages:
		return domain.RefPayroll
	case txn.Type == domain.TypeTransfer:
		return domain.RefTransfer
	default:
		return domain.RefTransaction
	}
}
