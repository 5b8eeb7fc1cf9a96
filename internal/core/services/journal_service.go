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
	"github.com/buildbooks/build_books_app/internal/utils/accounting"
)

var (
	ErrSameAccount     = fmt.Errorf("%w: debit and credit accounts must differ", apperrors.ErrValidation)
	ErrAlreadyReversed = fmt.Errorf("%w: journal entry is already reversed", apperrors.ErrStateConflict)
)

// journalService appends balanced entries to the append-only journal.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "failed to fetch journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to fetch journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, filter portsrepo.ListJournalEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, token, err := s.journalRepo.ListEntries(ctx, filter, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list journal entries")
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, token, nil
}

// Record appends a new entry and applies its balance effects in one database
// transaction. This is the path for manual adjustments; transaction clears
// ride their own commit batch.
func (s *journalService) Record(ctx context.Context, input portssvc.RecordEntryInput, userID string) (*domain.JournalEntry, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrNonPositiveAmount
	}
	if input.DebitAccountID == input.CreditAccountID {
		return nil, ErrSameAccount
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{input.DebitAccountID, input.CreditAccountID})
	if err != nil {
		s.LogError(ctx, err, "failed to fetch accounts for journal entry")
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range []string{input.DebitAccountID, input.CreditAccountID} {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("account %s: %w", id, ErrAccountInactive)
		}
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       input.Date,
		Description:     input.Description,
		DebitAccountID:  input.DebitAccountID,
		CreditAccountID: input.CreditAccountID,
		Amount:          input.Amount,
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	changes, err := accounting.BalanceChanges(entry, accounts[input.DebitAccountID].Category, accounts[input.CreditAccountID].Category)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance changes: %w", err)
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, changes); err != nil {
		s.LogError(ctx, err, "failed to save journal entry")
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}
	s.LogInfo(ctx, "journal entry recorded",
		slog.String("entry_id", entry.EntryID),
		slog.String("reference_type", string(entry.ReferenceType)))
	return &entry, nil
}

// Reverse appends a compensating entry for the original. An entry can only be
// reversed once; correcting a reversal means recording a fresh entry.
func (s *journalService) Reverse(ctx context.Context, originalEntryID string, userID string) (*domain.JournalEntry, error) {
	original, err := s.GetEntryByID(ctx, originalEntryID)
	if err != nil {
		return nil, err
	}

	existing, err := s.journalRepo.FindReversingEntryFor(ctx, originalEntryID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "failed to check for existing reversal", slog.String("entry_id", originalEntryID))
		return nil, fmt.Errorf("failed to check for existing reversal: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("journal entry %s: %w", originalEntryID, ErrAlreadyReversed)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{original.DebitAccountID, original.CreditAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for reversal: %w", err)
	}
	if len(accounts) != 2 {
		return nil, fmt.Errorf("accounts for entry %s: %w", originalEntryID, apperrors.ErrNotFound)
	}

	now := time.Now().UTC()
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

	changes, err := accounting.BalanceChanges(reversing, accounts[reversing.DebitAccountID].Category, accounts[reversing.CreditAccountID].Category)
	if err != nil {
		return nil, fmt.Errorf("failed to compute reversal balance changes: %w", err)
	}

	if err := s.journalRepo.SaveEntry(ctx, reversing, changes); err != nil {
		s.LogError(ctx, err, "failed to save reversing entry", slog.String("original_entry_id", originalEntryID))
		return nil, fmt.Errorf("failed to save reversing entry: %w", err)
	}
	s.LogInfo(ctx, "journal entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversing_entry_id", reversing.EntryID))
	return &reversing, nil
}
