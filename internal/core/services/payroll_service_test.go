package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	portssvc "github.com/buildbooks/build_books_app/internal/core/ports/services"
	"github.com/buildbooks/build_books_app/internal/core/services"
	"github.com/buildbooks/build_books_app/internal/dto"
)

// --- Test Suite Setup ---

type PayrollServiceTestSuite struct {
	suite.Suite
	mockRepo        *MockPayrollRepository
	mockAdvanceRepo *MockAdvanceRepository
	mockWorkerRepo  *MockWorkerRepository
	mockAccountSvc  *MockAccountReaderSvc
	service         portssvc.PayrollSvcFacade
}

func (suite *PayrollServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPayrollRepository)
	suite.mockAdvanceRepo = new(MockAdvanceRepository)
	suite.mockWorkerRepo = new(MockWorkerRepository)
	suite.mockAccountSvc = new(MockAccountReaderSvc)
	suite.service = services.NewPayrollService(suite.mockRepo, suite.mockAdvanceRepo, suite.mockWorkerRepo, suite.mockAccountSvc)
}

// --- BuildPayrollEntry ---

func (suite *PayrollServiceTestSuite) TestBuildPayrollEntry_WageComputation() {
	ctx := context.Background()
	userID := uuid.NewString()
	workerID := uuid.NewString()
	req := dto.BuildPayrollEntryRequest{
		WorkerID:      workerID,
		PeriodStart:   "2026-06-01",
		PeriodEnd:     "2026-06-30",
		DaysPresent:   21,
		OvertimeHours: decimal.NewFromInt(5),
	}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, workerID).Return(activeWorker(workerID), nil).Once()
	suite.mockAdvanceRepo.On("OutstandingForWorker", ctx, workerID).Return(decimal.Zero, nil).Once()
	suite.mockRepo.On("SavePayrollEntry", ctx, mock.AnythingOfType("domain.PayrollEntry")).Return(nil).Once()

	entry, err := suite.service.BuildPayrollEntry(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	// 200*21 + 30*5
	suite.True(entry.GrossWage.Equal(decimal.NewFromInt(4350)), "gross wage was %s", entry.GrossWage)
	suite.True(entry.NetWage.Equal(decimal.NewFromInt(4350)))
	suite.True(entry.AdvancesDeducted.IsZero())
	suite.Equal(domain.PayrollDraft, entry.Status)
	suite.Equal(userID, entry.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestBuildPayrollEntry_HalfDays() {
	ctx := context.Background()
	workerID := uuid.NewString()
	req := dto.BuildPayrollEntryRequest{
		WorkerID:    workerID,
		PeriodStart: "2026-06-01",
		PeriodEnd:   "2026-06-15",
		DaysPresent: 10,
		HalfDays:    3,
	}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, workerID).Return(activeWorker(workerID), nil).Once()
	suite.mockAdvanceRepo.On("OutstandingForWorker", ctx, workerID).Return(decimal.Zero, nil).Once()
	suite.mockRepo.On("SavePayrollEntry", ctx, mock.AnythingOfType("domain.PayrollEntry")).Return(nil).Once()

	entry, err := suite.service.BuildPayrollEntry(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	// 200 * (10 + 1.5)
	suite.True(entry.GrossWage.Equal(decimal.NewFromInt(2300)), "gross wage was %s", entry.GrossWage)
}

func (suite *PayrollServiceTestSuite) TestBuildPayrollEntry_AdvanceDeductionCappedByOutstanding() {
	ctx := context.Background()
	workerID := uuid.NewString()
	worker := activeWorker(workerID)
	worker.DailyRate = decimal.NewFromInt(100)
	req := dto.BuildPayrollEntryRequest{
		WorkerID:          workerID,
		PeriodStart:       "2026-06-01",
		PeriodEnd:         "2026-06-30",
		DaysPresent:       10,
		Deductions:        decimal.NewFromInt(200),
		AdvanceCapToApply: decimal.NewFromInt(500),
	}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, workerID).Return(worker, nil).Once()
	suite.mockAdvanceRepo.On("OutstandingForWorker", ctx, workerID).Return(decimal.NewFromInt(300), nil).Once()
	suite.mockRepo.On("SavePayrollEntry", ctx, mock.AnythingOfType("domain.PayrollEntry")).Return(nil).Once()

	entry, err := suite.service.BuildPayrollEntry(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(entry.GrossWage.Equal(decimal.NewFromInt(1000)))
	// min(cap 500, outstanding 300, gross-deductions 800)
	suite.True(entry.AdvancesDeducted.Equal(decimal.NewFromInt(300)), "deducted %s", entry.AdvancesDeducted)
	suite.True(entry.NetWage.Equal(decimal.NewFromInt(500)))
}

func (suite *PayrollServiceTestSuite) TestBuildPayrollEntry_AdvanceDeductionCappedByRequest() {
	ctx := context.Background()
	workerID := uuid.NewString()
	worker := activeWorker(workerID)
	worker.DailyRate = decimal.NewFromInt(100)
	req := dto.BuildPayrollEntryRequest{
		WorkerID:          workerID,
		PeriodStart:       "2026-06-01",
		PeriodEnd:         "2026-06-30",
		DaysPresent:       10,
		AdvanceCapToApply: decimal.NewFromInt(250),
	}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, workerID).Return(worker, nil).Once()
	suite.mockAdvanceRepo.On("OutstandingForWorker", ctx, workerID).Return(decimal.NewFromInt(700), nil).Once()
	suite.mockRepo.On("SavePayrollEntry", ctx, mock.AnythingOfType("domain.PayrollEntry")).Return(nil).Once()

	entry, err := suite.service.BuildPayrollEntry(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(entry.AdvancesDeducted.Equal(decimal.NewFromInt(250)))
	suite.True(entry.NetWage.Equal(decimal.NewFromInt(750)))
}

func (suite *PayrollServiceTestSuite) TestBuildPayrollEntry_InvalidPeriod() {
	ctx := context.Background()
	req := dto.BuildPayrollEntryRequest{
		WorkerID:    uuid.NewString(),
		PeriodStart: "2026-06-30",
		PeriodEnd:   "2026-06-01",
		DaysPresent: 5,
	}

	entry, err := suite.service.BuildPayrollEntry(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrInvalidPeriod)
	suite.mockWorkerRepo.AssertNotCalled(suite.T(), "FindWorkerByID", mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestBuildPayrollEntry_InactiveWorker() {
	ctx := context.Background()
	workerID := uuid.NewString()
	worker := activeWorker(workerID)
	worker.IsActive = false
	req := dto.BuildPayrollEntryRequest{
		WorkerID:    workerID,
		PeriodStart: "2026-06-01",
		PeriodEnd:   "2026-06-30",
		DaysPresent: 5,
	}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, workerID).Return(worker, nil).Once()

	entry, err := suite.service.BuildPayrollEntry(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrWorkerInactive)
}

// --- Approve ---

func (suite *PayrollServiceTestSuite) TestApprove_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	payrollID := uuid.NewString()

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(&domain.PayrollEntry{
		PayrollID: payrollID,
		Status:    domain.PayrollDraft,
	}, nil).Once()
	suite.mockRepo.On("UpdatePayrollStatus", ctx, payrollID, domain.PayrollApproved, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	entry, err := suite.service.Approve(ctx, payrollID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollApproved, entry.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestApprove_NotDraft() {
	ctx := context.Background()
	payrollID := uuid.NewString()

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(&domain.PayrollEntry{
		PayrollID: payrollID,
		Status:    domain.PayrollApproved,
	}, nil).Once()

	entry, err := suite.service.Approve(ctx, payrollID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrNotDraft)
}

// --- Pay ---

func approvedEntry(payrollID, workerID string, net, advancesDeducted decimal.Decimal) *domain.PayrollEntry {
	return &domain.PayrollEntry{
		PayrollID:        payrollID,
		WorkerID:         workerID,
		PeriodStart:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		GrossWage:        net.Add(advancesDeducted),
		AdvancesDeducted: advancesDeducted,
		NetWage:          net,
		Status:           domain.PayrollApproved,
	}
}

func (suite *PayrollServiceTestSuite) TestPay_SettlesAdvancesOldestFirst() {
	ctx := context.Background()
	userID := uuid.NewString()
	payrollID := uuid.NewString()
	workerID := uuid.NewString()
	sourceID := uuid.NewString()
	wages := &domain.Account{
		AccountID: uuid.NewString(),
		Code:      domain.SystemAccountWagesExpense,
		Category:  domain.Expense,
		IsActive:  true,
	}
	net := decimal.NewFromInt(3850)
	entry := approvedEntry(payrollID, workerID, net, decimal.NewFromInt(500))
	firstID := uuid.NewString()
	secondID := uuid.NewString()
	outstanding := []domain.WorkerAdvance{
		{AdvanceID: firstID, WorkerID: workerID, Amount: decimal.NewFromInt(300), SettledAmount: decimal.Zero},
		{AdvanceID: secondID, WorkerID: workerID, Amount: decimal.NewFromInt(400), SettledAmount: decimal.NewFromInt(100)},
	}

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(entry, nil).Once()
	suite.mockAccountSvc.On("GetAccountByCode", ctx, domain.SystemAccountWagesExpense).Return(wages, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, []string{sourceID, wages.AccountID}).Return(map[string]domain.Account{
		sourceID:        activeAccount(sourceID, domain.Asset),
		wages.AccountID: *wages,
	}, nil).Once()
	suite.mockAdvanceRepo.On("ListAdvancesByWorker", ctx, workerID, true).Return(outstanding, nil).Once()
	suite.mockRepo.On("CommitPay", ctx,
		mock.MatchedBy(func(paid domain.PayrollEntry) bool {
			return paid.PayrollID == payrollID &&
				paid.Status == domain.PayrollPaid &&
				paid.PaymentTransactionID != ""
		}),
		mock.MatchedBy(func(payment domain.Transaction) bool {
			return payment.Type == domain.TypeExpense &&
				payment.Status == domain.Cleared &&
				payment.Category == domain.CategoryWages &&
				payment.Amount.Equal(net) &&
				payment.SourceAccountID == sourceID &&
				payment.JournalEntryID != ""
		}),
		mock.MatchedBy(func(journalEntry domain.JournalEntry) bool {
			return journalEntry.DebitAccountID == wages.AccountID &&
				journalEntry.CreditAccountID == sourceID &&
				journalEntry.ReferenceType == domain.RefPayroll &&
				journalEntry.ReferenceID == payrollID
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[wages.AccountID].Equal(net) && changes[sourceID].Equal(net.Neg())
		}),
		mock.MatchedBy(func(settlements []portsrepo.AdvanceSettlementLine) bool {
			return len(settlements) == 2 &&
				settlements[0].AdvanceID == firstID &&
				settlements[0].PriorSettledAmount.IsZero() &&
				settlements[0].NewSettledAmount.Equal(decimal.NewFromInt(300)) &&
				settlements[1].AdvanceID == secondID &&
				settlements[1].PriorSettledAmount.Equal(decimal.NewFromInt(100)) &&
				settlements[1].NewSettledAmount.Equal(decimal.NewFromInt(300))
		}),
	).Return(nil).Once()

	paid, err := suite.service.Pay(ctx, payrollID, dto.PayPayrollRequest{SourceAccountID: sourceID}, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(paid)
	suite.Equal(domain.PayrollPaid, paid.Status)
	suite.NotEmpty(paid.PaymentTransactionID)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAdvanceRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestPay_NotApproved() {
	ctx := context.Background()
	payrollID := uuid.NewString()

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(&domain.PayrollEntry{
		PayrollID: payrollID,
		Status:    domain.PayrollDraft,
	}, nil).Once()

	paid, err := suite.service.Pay(ctx, payrollID, dto.PayPayrollRequest{SourceAccountID: uuid.NewString()}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(paid)
	suite.ErrorIs(err, services.ErrNotApproved)
}

func (suite *PayrollServiceTestSuite) TestPay_NegativeNetWage() {
	ctx := context.Background()
	payrollID := uuid.NewString()
	entry := approvedEntry(payrollID, uuid.NewString(), decimal.NewFromInt(-50), decimal.Zero)

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(entry, nil).Once()

	paid, err := suite.service.Pay(ctx, payrollID, dto.PayPayrollRequest{SourceAccountID: uuid.NewString()}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(paid)
	suite.ErrorIs(err, services.ErrNegativeNetWage)
}

func (suite *PayrollServiceTestSuite) TestPay_ZeroNetWage() {
	ctx := context.Background()
	payrollID := uuid.NewString()
	entry := approvedEntry(payrollID, uuid.NewString(), decimal.Zero, decimal.Zero)

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(entry, nil).Once()

	paid, err := suite.service.Pay(ctx, payrollID, dto.PayPayrollRequest{SourceAccountID: uuid.NewString()}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(paid)
	suite.ErrorIs(err, services.ErrNothingToPay)
}

func (suite *PayrollServiceTestSuite) TestPay_AllocationShortfall() {
	ctx := context.Background()
	payrollID := uuid.NewString()
	workerID := uuid.NewString()
	sourceID := uuid.NewString()
	wages := &domain.Account{
		AccountID: uuid.NewString(),
		Code:      domain.SystemAccountWagesExpense,
		Category:  domain.Expense,
		IsActive:  true,
	}
	entry := approvedEntry(payrollID, workerID, decimal.NewFromInt(500), decimal.NewFromInt(500))

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(entry, nil).Once()
	suite.mockAccountSvc.On("GetAccountByCode", ctx, domain.SystemAccountWagesExpense).Return(wages, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, []string{sourceID, wages.AccountID}).Return(map[string]domain.Account{
		sourceID:        activeAccount(sourceID, domain.Asset),
		wages.AccountID: *wages,
	}, nil).Once()
	suite.mockAdvanceRepo.On("ListAdvancesByWorker", ctx, workerID, true).Return([]domain.WorkerAdvance{
		{AdvanceID: uuid.NewString(), WorkerID: workerID, Amount: decimal.NewFromInt(300), SettledAmount: decimal.Zero},
	}, nil).Once()

	paid, err := suite.service.Pay(ctx, payrollID, dto.PayPayrollRequest{SourceAccountID: sourceID}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(paid)
	suite.ErrorIs(err, services.ErrOverSettlement)
	suite.mockRepo.AssertNotCalled(suite.T(), "CommitPay",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Cancel ---

func (suite *PayrollServiceTestSuite) TestCancel_Approved() {
	ctx := context.Background()
	userID := uuid.NewString()
	payrollID := uuid.NewString()

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(&domain.PayrollEntry{
		PayrollID: payrollID,
		Status:    domain.PayrollApproved,
	}, nil).Once()
	suite.mockRepo.On("UpdatePayrollStatus", ctx, payrollID, domain.PayrollCancelled, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	entry, err := suite.service.Cancel(ctx, payrollID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollCancelled, entry.Status)
}

func (suite *PayrollServiceTestSuite) TestCancel_Paid() {
	ctx := context.Background()
	payrollID := uuid.NewString()

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(&domain.PayrollEntry{
		PayrollID: payrollID,
		Status:    domain.PayrollPaid,
	}, nil).Once()

	entry, err := suite.service.Cancel(ctx, payrollID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrAlreadyPaid)
}

func (suite *PayrollServiceTestSuite) TestCancel_AlreadyCancelled() {
	ctx := context.Background()
	payrollID := uuid.NewString()

	suite.mockRepo.On("FindPayrollEntryByID", ctx, payrollID).Return(&domain.PayrollEntry{
		PayrollID: payrollID,
		Status:    domain.PayrollCancelled,
	}, nil).Once()

	entry, err := suite.service.Cancel(ctx, payrollID, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollCancelled, entry.Status)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdatePayrollStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
