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
	ErrInvalidPeriod      = fmt.Errorf("%w: period end must not precede period start", apperrors.ErrValidation)
	ErrNotDraft           = fmt.Errorf("%w: only draft payroll entries can be approved", apperrors.ErrStateConflict)
	ErrNotApproved        = fmt.Errorf("%w: only approved payroll entries can be paid", apperrors.ErrStateConflict)
	ErrAlreadyPaid        = fmt.Errorf("%w: paid payroll entries cannot be cancelled", apperrors.ErrStateConflict)
	ErrNegativeNetWage    = fmt.Errorf("%w: net wage is negative, adjust deductions before paying", apperrors.ErrValidation)
	ErrNothingToPay       = fmt.Errorf("%w: net wage is zero, cancel the entry instead of paying it", apperrors.ErrValidation)
	ErrPayrollNotPositive = fmt.Errorf("%w: wage rates and hours must not be negative", apperrors.ErrValidation)
)

// payrollService computes wage accruals and drives the payroll workflow.
type payrollService struct {
	BaseService
	payrollRepo portsrepo.PayrollRepositoryFacade
	advanceRepo portsrepo.AdvanceReader
	workerRepo  portsrepo.WorkerReader
	accountSvc  portssvc.AccountReaderSvc
}

// NewPayrollService creates a new payroll service.
func NewPayrollService(payrollRepo portsrepo.PayrollRepositoryFacade, advanceRepo portsrepo.AdvanceReader, workerRepo portsrepo.WorkerReader, accountSvc portssvc.AccountReaderSvc) portssvc.PayrollSvcFacade {
	return &payrollService{
		payrollRepo: payrollRepo,
		advanceRepo: advanceRepo,
		workerRepo:  workerRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

func (s *payrollService) GetPayrollEntryByID(ctx context.Context, payrollID string) (*domain.PayrollEntry, error) {
	entry, err := s.payrollRepo.FindPayrollEntryByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("payroll entry %s: %w", payrollID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "failed to fetch payroll entry", slog.String("payroll_id", payrollID))
		return nil, fmt.Errorf("failed to fetch payroll entry %s: %w", payrollID, err)
	}
	return entry, nil
}

func (s *payrollService) ListPayrollEntries(ctx context.Context, filter portsrepo.ListPayrollFilter, limit int, offset int) ([]domain.PayrollEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.payrollRepo.ListPayrollEntries(ctx, filter, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "failed to list payroll entries")
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	return entries, nil
}

func (s *payrollService) PayrollTotals(ctx context.Context, filter portsrepo.ListPayrollFilter) (*domain.PayrollTotals, error) {
	totals, err := s.payrollRepo.PayrollTotals(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "failed to aggregate payroll totals")
		return nil, fmt.Errorf("failed to aggregate payroll totals: %w", err)
	}
	return totals, nil
}

// BuildPayrollEntry computes a draft wage accrual from attendance, rates and
// the worker's outstanding advances. The advance deduction is the smallest of
// the requested cap, the outstanding total and what remains of the gross wage
// after other deductions.
func (s *payrollService) BuildPayrollEntry(ctx context.Context, req dto.BuildPayrollEntryRequest, userID string) (*domain.PayrollEntry, error) {
	periodStart, periodEnd, err := req.ParsedPeriod()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid period", apperrors.ErrValidation)
	}
	if periodEnd.Before(periodStart) {
		return nil, ErrInvalidPeriod
	}
	if req.OvertimeHours.IsNegative() || req.Deductions.IsNegative() || req.AdvanceCapToApply.IsNegative() {
		return nil, ErrPayrollNotPositive
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

	dailyRate := worker.DailyRate
	if req.DailyRate != nil {
		dailyRate = *req.DailyRate
	}
	overtimeRate := worker.OvertimeRate
	if req.OvertimeRate != nil {
		overtimeRate = *req.OvertimeRate
	}
	if dailyRate.IsNegative() || overtimeRate.IsNegative() {
		return nil, ErrPayrollNotPositive
	}

	grossWage := accounting.ComputeGrossWage(req.DaysPresent, req.HalfDays, req.OvertimeHours, dailyRate, overtimeRate)

	outstanding, err := s.advanceRepo.OutstandingForWorker(ctx, req.WorkerID)
	if err != nil {
		s.LogError(ctx, err, "failed to sum outstanding advances", slog.String("worker_id", req.WorkerID))
		return nil, fmt.Errorf("failed to sum outstanding advances: %w", err)
	}
	advancesDeducted := decimal.Min(req.AdvanceCapToApply, outstanding, grossWage.Sub(req.Deductions))
	if advancesDeducted.IsNegative() {
		advancesDeducted = decimal.Zero
	}

	now := time.Now().UTC()
	entry := domain.PayrollEntry{
		PayrollID:        uuid.NewString(),
		WorkerID:         req.WorkerID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		ProjectID:        req.ProjectID,
		DaysPresent:      req.DaysPresent,
		HalfDays:         req.HalfDays,
		OvertimeHours:    req.OvertimeHours,
		DailyRate:        dailyRate,
		OvertimeRate:     overtimeRate,
		GrossWage:        grossWage,
		Deductions:       req.Deductions,
		AdvancesDeducted: advancesDeducted,
		NetWage:          accounting.ComputeNetWage(grossWage, req.Deductions, advancesDeducted),
		Status:           domain.PayrollDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.payrollRepo.SavePayrollEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "failed to save payroll entry", slog.String("worker_id", req.WorkerID))
		return nil, fmt.Errorf("failed to save payroll entry: %w", err)
	}
	s.LogInfo(ctx, "payroll entry drafted",
		slog.String("payroll_id", entry.PayrollID),
		slog.String("worker_id", entry.WorkerID),
		slog.String("gross", entry.GrossWage.String()),
		slog.String("net", entry.NetWage.String()))
	return &entry, nil
}

func (s *payrollService) Approve(ctx context.Context, payrollID string, userID string) (*domain.PayrollEntry, error) {
	entry, err := s.GetPayrollEntryByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.PayrollDraft {
		return nil, fmt.Errorf("payroll entry %s is %s: %w", payrollID, entry.Status, ErrNotDraft)
	}

	now := time.Now().UTC()
	if err := s.payrollRepo.UpdatePayrollStatus(ctx, payrollID, domain.PayrollApproved, userID, now); err != nil {
		s.LogError(ctx, err, "failed to approve payroll entry", slog.String("payroll_id", payrollID))
		return nil, fmt.Errorf("failed to approve payroll entry %s: %w", payrollID, err)
	}
	entry.Status = domain.PayrollApproved
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "payroll entry approved", slog.String("payroll_id", payrollID))
	return entry, nil
}

// Pay settles an approved payroll entry: the net wage leaves the source
// account as a cleared wage expense and the contributing advances are settled
// oldest first, all in one database transaction.
func (s *payrollService) Pay(ctx context.Context, payrollID string, req dto.PayPayrollRequest, userID string) (*domain.PayrollEntry, error) {
	entry, err := s.GetPayrollEntryByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.PayrollApproved {
		return nil, fmt.Errorf("payroll entry %s is %s: %w", payrollID, entry.Status, ErrNotApproved)
	}
	if entry.NetWage.IsNegative() {
		return nil, fmt.Errorf("payroll entry %s nets %s: %w", payrollID, entry.NetWage.String(), ErrNegativeNetWage)
	}
	if entry.NetWage.IsZero() {
		return nil, fmt.Errorf("payroll entry %s: %w", payrollID, ErrNothingToPay)
	}

	wagesAccount, err := s.accountSvc.GetAccountByCode(ctx, domain.SystemAccountWagesExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve wages expense account: %w", err)
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, []string{req.SourceAccountID, wagesAccount.AccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for payment: %w", err)
	}
	source, ok := accounts[req.SourceAccountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", req.SourceAccountID, apperrors.ErrNotFound)
	}
	if !source.IsActive {
		return nil, fmt.Errorf("account %s: %w", req.SourceAccountID, ErrAccountInactive)
	}

	settlements, err := s.allocateSettlements(ctx, entry.WorkerID, entry.AdvancesDeducted)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	payment := domain.Transaction{
		TransactionID:    uuid.NewString(),
		WorkerID:         entry.WorkerID,
		ProjectID:        entry.ProjectID,
		SourceAccountID:  req.SourceAccountID,
		CounterAccountID: wagesAccount.AccountID,
		Amount:           entry.NetWage,
		Type:             domain.TypeExpense,
		Status:           domain.Cleared,
		Category:         domain.CategoryWages,
		TransactionDate:  now,
		Description:      fmt.Sprintf("Wages for %s to %s", entry.PeriodStart.Format(dto.DateFormat), entry.PeriodEnd.Format(dto.DateFormat)),
		AuditFields:      audit,
	}

	journalEntry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       now,
		Description:     payment.Description,
		DebitAccountID:  wagesAccount.AccountID,
		CreditAccountID: req.SourceAccountID,
		Amount:          entry.NetWage,
		ReferenceType:   domain.RefPayroll,
		ReferenceID:     entry.PayrollID,
		AuditFields:     audit,
	}
	payment.JournalEntryID = journalEntry.EntryID

	changes, err := accounting.BalanceChanges(journalEntry, wagesAccount.Category, source.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to compute payment balance changes: %w", err)
	}

	paid := *entry
	paid.Status = domain.PayrollPaid
	paid.PaymentTransactionID = payment.TransactionID
	paid.LastUpdatedAt = now
	paid.LastUpdatedBy = userID

	if err := s.payrollRepo.CommitPay(ctx, paid, payment, journalEntry, changes, settlements); err != nil {
		s.LogError(ctx, err, "failed to commit payroll payment", slog.String("payroll_id", payrollID))
		return nil, fmt.Errorf("failed to pay payroll entry %s: %w", payrollID, err)
	}
	s.LogInfo(ctx, "payroll entry paid",
		slog.String("payroll_id", paid.PayrollID),
		slog.String("payment_transaction_id", payment.TransactionID),
		slog.String("net", paid.NetWage.String()),
		slog.Int("advances_settled", len(settlements)))
	return &paid, nil
}

func (s *payrollService) Cancel(ctx context.Context, payrollID string, userID string) (*domain.PayrollEntry, error) {
	entry, err := s.GetPayrollEntryByID(ctx, payrollID)
	if err != nil {
		return nil, err
	}
	switch entry.Status {
	case domain.PayrollPaid:
		return nil, fmt.Errorf("payroll entry %s: %w", payrollID, ErrAlreadyPaid)
	case domain.PayrollCancelled:
		return entry, nil // idempotent
	}

	now := time.Now().UTC()
	if err := s.payrollRepo.UpdatePayrollStatus(ctx, payrollID, domain.PayrollCancelled, userID, now); err != nil {
		s.LogError(ctx, err, "failed to cancel payroll entry", slog.String("payroll_id", payrollID))
		return nil, fmt.Errorf("failed to cancel payroll entry %s: %w", payrollID, err)
	}
	entry.Status = domain.PayrollCancelled
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "payroll entry cancelled", slog.String("payroll_id", payrollID))
	return entry, nil
}

// allocateSettlements spreads the deducted advance amount across the worker's
// outstanding advances, oldest first.
func (s *payrollService) allocateSettlements(ctx context.Context, workerID string, toDeduct decimal.Decimal) ([]portsrepo.AdvanceSettlementLine, error) {
	if toDeduct.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	advances, err := s.advanceRepo.ListAdvancesByWorker(ctx, workerID, true)
	if err != nil {
		s.LogError(ctx, err, "failed to list outstanding advances", slog.String("worker_id", workerID))
		return nil, fmt.Errorf("failed to list outstanding advances: %w", err)
	}

	remaining := toDeduct
	var lines []portsrepo.AdvanceSettlementLine
	for _, advance := range advances {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		outstanding := advance.Outstanding()
		if outstanding.LessThanOrEqual(decimal.Zero) {
			continue
		}
		applied := decimal.Min(remaining, outstanding)
		lines = append(lines, portsrepo.AdvanceSettlementLine{
			AdvanceID:          advance.AdvanceID,
			PriorSettledAmount: advance.SettledAmount,
			NewSettledAmount:   advance.SettledAmount.Add(applied),
		})
		remaining = remaining.Sub(applied)
	}
	if remaining.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("worker %s outstanding advances changed since drafting, %s not allocatable: %w",
			workerID, remaining.String(), ErrOverSettlement)
	}
	return lines, nil
}
