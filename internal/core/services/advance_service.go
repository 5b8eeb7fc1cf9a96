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
	ErrOverSettlement = fmt.Errorf("%w: settlement exceeds the outstanding advance amount", apperrors.ErrStateConflict)
	ErrWorkerNotFound = fmt.Errorf("%w: worker does not exist", apperrors.ErrValidation)
	ErrWorkerInactive = fmt.Errorf("%w: worker is inactive", apperrors.ErrValidation)
)

// advanceService tracks salary advances from disbursement to settlement.
type advanceService struct {
	BaseService
	advanceRepo portsrepo.AdvanceRepositoryFacade
	workerRepo  portsrepo.WorkerReader
	accountSvc  portssvc.AccountReaderSvc
	txnSvc      portssvc.TransactionProcessorSvc
}

// NewAdvanceService creates a new advance service.
func NewAdvanceService(advanceRepo portsrepo.AdvanceRepositoryFacade, workerRepo portsrepo.WorkerReader, accountSvc portssvc.AccountReaderSvc, txnSvc portssvc.TransactionProcessorSvc) portssvc.AdvanceSvcFacade {
	return &advanceService{
		advanceRepo: advanceRepo,
		workerRepo:  workerRepo,
		accountSvc:  accountSvc,
		txnSvc:      txnSvc,
	}
}

var _ portssvc.AdvanceSvcFacade = (*advanceService)(nil)

func (s *advanceService) GetAdvanceByID(ctx context.Context, advanceID string) (*domain.WorkerAdvance, error) {
	advance, err := s.advanceRepo.FindAdvanceByID(ctx, advanceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("advance %s: %w", advanceID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "failed to fetch advance", slog.String("advance_id", advanceID))
		return nil, fmt.Errorf("failed to fetch advance %s: %w", advanceID, err)
	}
	return advance, nil
}

func (s *advanceService) ListAdvances(ctx context.Context, filter portsrepo.ListAdvancesFilter, limit int, offset int) ([]domain.WorkerAdvance, error) {
	if limit <= 0 {
		limit = 50
	}
	advances, err := s.advanceRepo.ListAdvances(ctx, filter, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "failed to list advances")
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	return advances, nil
}

func (s *advanceService) OutstandingForWorker(ctx context.Context, workerID string) (decimal.Decimal, error) {
	outstanding, err := s.advanceRepo.OutstandingForWorker(ctx, workerID)
	if err != nil {
		s.LogError(ctx, err, "failed to sum outstanding advances", slog.String("worker_id", workerID))
		return decimal.Zero, fmt.Errorf("failed to sum outstanding advances: %w", err)
	}
	return outstanding, nil
}

// RecordAdvance registers a new advance. With a disbursement account the
// money movement is booked in the same call as an auto-cleared transfer into
// the Worker Advances receivable account.
func (s *advanceService) RecordAdvance(ctx context.Context, req dto.RecordAdvanceRequest, userID string) (*domain.WorkerAdvance, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrNonPositiveAmount
	}
	advanceDate, err := req.ParsedDate()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	worker, err := s.workerRepo.FindWorkerByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("worker %s: %w", req.WorkerID, ErrWorkerNotFound)
		}
		return nil, fmt.Errorf("failed to fetch worker %s: %w", req.WorkerID, err)
	}
	if !worker.IsActive {
		return nil, fmt.Errorf("worker %s: %w", req.WorkerID, ErrWorkerInactive)
	}

	disbursementID := ""
	if req.DisbursementTransactionID != nil {
		disbursementID = *req.DisbursementTransactionID
	}
	if req.DisbursementAccountID != nil && *req.DisbursementAccountID != "" {
		txn, err := s.disburse(ctx, req, advanceDate, userID)
		if err != nil {
			return nil, err
		}
		disbursementID = txn.TransactionID
	}

	now := time.Now().UTC()
	advance := domain.WorkerAdvance{
		AdvanceID:                 uuid.NewString(),
		WorkerID:                  req.WorkerID,
		Amount:                    req.Amount,
		AdvanceDate:               advanceDate,
		DisbursementTransactionID: disbursementID,
		SettledAmount:             decimal.Zero,
		Notes:                     req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.advanceRepo.SaveAdvance(ctx, advance); err != nil {
		s.LogError(ctx, err, "failed to save advance", slog.String("worker_id", req.WorkerID))
		return nil, fmt.Errorf("failed to save advance: %w", err)
	}
	s.LogInfo(ctx, "advance recorded",
		slog.String("advance_id", advance.AdvanceID),
		slog.String("worker_id", advance.WorkerID),
		slog.String("amount", advance.Amount.String()))
	return &advance, nil
}

// disburse books the cash movement for an advance: a cleared transfer from
// the paying account into the Worker Advances receivable.
func (s *advanceService) disburse(ctx context.Context, req dto.RecordAdvanceRequest, advanceDate time.Time, userID string) (*domain.Transaction, error) {
	receivable, err := s.accountSvc.GetAccountByCode(ctx, domain.SystemAccountWorkerAdvances)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve worker advances account: %w", err)
	}

	txnReq := dto.SubmitTransactionRequest{
		Type:                 domain.TypeTransfer,
		SourceAccountID:      *req.DisbursementAccountID,
		DestinationAccountID: &receivable.AccountID,
		Amount:               req.Amount,
		Category:             domain.CategoryAdvance,
		Date:                 advanceDate.Format(dto.DateFormat),
		WorkerID:             req.WorkerID,
		Description:          fmt.Sprintf("Advance disbursement to worker %s", req.WorkerID),
		AutoClear:            true,
	}
	txn, err := s.txnSvc.Submit(ctx, txnReq, userID)
	if err != nil {
		s.LogError(ctx, err, "failed to disburse advance", slog.String("worker_id", req.WorkerID))
		return nil, fmt.Errorf("failed to disburse advance: %w", err)
	}
	return txn, nil
}

// Settle applies amountToSettle against the advance. Partial settlements
// accumulate; the remainder can never go negative.
func (s *advanceService) Settle(ctx context.Context, advanceID string, amountToSettle decimal.Decimal, settlementTransactionID string, date time.Time, userID string) (*domain.WorkerAdvance, error) {
	if amountToSettle.LessThanOrEqual(decimal.Zero) {
		return nil, ErrNonPositiveAmount
	}

	advance, err := s.GetAdvanceByID(ctx, advanceID)
	if err != nil {
		return nil, err
	}
	if amountToSettle.GreaterThan(advance.Outstanding()) {
		return nil, fmt.Errorf("advance %s has %s outstanding, cannot settle %s: %w",
			advanceID, advance.Outstanding().String(), amountToSettle.String(), ErrOverSettlement)
	}

	now := time.Now().UTC()
	newSettled := advance.SettledAmount.Add(amountToSettle)
	if err := s.advanceRepo.UpdateSettlement(ctx, advanceID, advance.SettledAmount, newSettled, settlementTransactionID, userID, now); err != nil {
		s.LogError(ctx, err, "failed to update settlement", slog.String("advance_id", advanceID))
		return nil, fmt.Errorf("failed to settle advance %s: %w", advanceID, err)
	}

	advance.SettledAmount = newSettled
	advance.SettlementTransactionID = settlementTransactionID
	advance.LastUpdatedAt = now
	advance.LastUpdatedBy = userID
	s.LogInfo(ctx, "advance settled",
		slog.String("advance_id", advanceID),
		slog.String("amount", amountToSettle.String()),
		slog.Bool("fully_settled", advance.IsSettled()))
	return advance, nil
}
