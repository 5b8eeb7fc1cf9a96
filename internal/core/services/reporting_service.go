package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	portssvc "github.com/buildbooks/build_books_app/internal/core/ports/services"
)

// reportingService exposes the cross-entity read queries.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetAccountStatement(ctx context.Context, accountID string, from, to time.Time) ([]domain.StatementLine, error) {
	lines, err := s.reportingRepo.GetAccountStatement(ctx, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "failed to build account statement", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to build account statement: %w", err)
	}
	return lines, nil
}

func (s *reportingService) GetTrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "failed to build trial balance")
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}
	return rows, nil
}

func (s *reportingService) GetPayrollSummary(ctx context.Context, from, to time.Time, projectID *string) ([]domain.PayrollSummaryRow, error) {
	rows, err := s.reportingRepo.GetPayrollSummary(ctx, from, to, projectID)
	if err != nil {
		s.LogError(ctx, err, "failed to build payroll summary")
		return nil, fmt.Errorf("failed to build payroll summary: %w", err)
	}
	return rows, nil
}
