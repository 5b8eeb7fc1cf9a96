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

var ErrWorkerHasAdvances = fmt.Errorf("%w: worker still has outstanding advances", apperrors.ErrReferentialIntegrity)

// workerService manages the worker registry.
type workerService struct {
	BaseService
	workerRepo  portsrepo.WorkerRepositoryFacade
	advanceRepo portsrepo.AdvanceReader
}

// NewWorkerService creates a new worker service.
func NewWorkerService(workerRepo portsrepo.WorkerRepositoryFacade, advanceRepo portsrepo.AdvanceReader) portssvc.WorkerSvcFacade {
	return &workerService{
		workerRepo:  workerRepo,
		advanceRepo: advanceRepo,
	}
}

var _ portssvc.WorkerSvcFacade = (*workerService)(nil)

func (s *workerService) CreateWorker(ctx context.Context, req dto.CreateWorkerRequest, userID string) (*domain.Worker, error) {
	if req.DailyRate.IsNegative() || req.OvertimeRate.IsNegative() {
		return nil, fmt.Errorf("%w: rates must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	worker := domain.Worker{
		WorkerID:     uuid.NewString(),
		Name:         req.Name,
		Phone:        req.Phone,
		Trade:        req.Trade,
		DailyRate:    req.DailyRate,
		OvertimeRate: req.OvertimeRate,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.workerRepo.SaveWorker(ctx, worker); err != nil {
		s.LogError(ctx, err, "failed to save worker")
		return nil, fmt.Errorf("failed to save worker: %w", err)
	}
	s.LogInfo(ctx, "worker created", slog.String("worker_id", worker.WorkerID), slog.String("trade", worker.Trade))
	return &worker, nil
}

func (s *workerService) GetWorkerByID(ctx context.Context, workerID string) (*domain.Worker, error) {
	worker, err := s.workerRepo.FindWorkerByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("worker %s: %w", workerID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "failed to fetch worker", slog.String("worker_id", workerID))
		return nil, fmt.Errorf("failed to fetch worker %s: %w", workerID, err)
	}
	return worker, nil
}

func (s *workerService) ListWorkers(ctx context.Context, activeOnly bool, limit int, offset int) ([]domain.Worker, error) {
	if limit <= 0 {
		limit = 50
	}
	workers, err := s.workerRepo.ListWorkers(ctx, activeOnly, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "failed to list workers")
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

func (s *workerService) UpdateWorker(ctx context.Context, workerID string, req dto.UpdateWorkerRequest, userID string) (*domain.Worker, error) {
	worker, err := s.GetWorkerByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if !worker.IsActive {
		return nil, fmt.Errorf("worker %s: %w", workerID, ErrWorkerInactive)
	}

	if req.Name != nil {
		worker.Name = *req.Name
	}
	if req.Phone != nil {
		worker.Phone = *req.Phone
	}
	if req.Trade != nil {
		worker.Trade = *req.Trade
	}
	if req.DailyRate != nil {
		if req.DailyRate.IsNegative() {
			return nil, fmt.Errorf("%w: daily rate must not be negative", apperrors.ErrValidation)
		}
		worker.DailyRate = *req.DailyRate
	}
	if req.OvertimeRate != nil {
		if req.OvertimeRate.IsNegative() {
			return nil, fmt.Errorf("%w: overtime rate must not be negative", apperrors.ErrValidation)
		}
		worker.OvertimeRate = *req.OvertimeRate
	}
	worker.LastUpdatedAt = time.Now().UTC()
	worker.LastUpdatedBy = userID

	if err := s.workerRepo.UpdateWorker(ctx, *worker); err != nil {
		s.LogError(ctx, err, "failed to update worker", slog.String("worker_id", workerID))
		return nil, fmt.Errorf("failed to update worker %s: %w", workerID, err)
	}
	return worker, nil
}

// DeactivateWorker retires a worker. Workers with money still owed stay
// active so the settlement trail remains workable.
func (s *workerService) DeactivateWorker(ctx context.Context, workerID string, userID string) error {
	worker, err := s.GetWorkerByID(ctx, workerID)
	if err != nil {
		return err
	}
	if !worker.IsActive {
		return nil
	}

	outstanding, err := s.advanceRepo.OutstandingForWorker(ctx, workerID)
	if err != nil {
		s.LogError(ctx, err, "failed to sum outstanding advances", slog.String("worker_id", workerID))
		return fmt.Errorf("failed to sum outstanding advances: %w", err)
	}
	if outstanding.GreaterThan(decimal.Zero) {
		return fmt.Errorf("worker %s owes %s: %w", workerID, outstanding.String(), ErrWorkerHasAdvances)
	}

	if err := s.workerRepo.DeactivateWorker(ctx, workerID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "failed to deactivate worker", slog.String("worker_id", workerID))
		return fmt.Errorf("failed to deactivate worker %s: %w", workerID, err)
	}
	s.LogInfo(ctx, "worker deactivated", slog.String("worker_id", workerID))
	return nil
}
