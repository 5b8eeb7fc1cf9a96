package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/buildbooks/build_books_app/internal/apperrors"
	"github.com/buildbooks/build_books_app/internal/core/domain"
	portssvc "github.com/buildbooks/build_books_app/internal/core/ports/services"
	"github.com/buildbooks/build_books_app/internal/core/services"
	"github.com/buildbooks/build_books_app/internal/dto"
)

// --- Test Suite Setup ---

type AdvanceServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockAdvanceRepository
	mockWorkerRepo *MockWorkerRepository
	mockAccountSvc *MockAccountReaderSvc
	mockTxnSvc     *MockTransactionProcessorSvc
	service        portssvc.AdvanceSvcFacade
}

func (suite *AdvanceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAdvanceRepository)
	suite.mockWorkerRepo = new(MockWorkerRepository)
	suite.mockAccountSvc = new(MockAccountReaderSvc)
	suite.mockTxnSvc = new(MockTransactionProcessorSvc)
	suite.service = services.NewAdvanceService(suite.mockRepo, suite.mockWorkerRepo, suite.mockAccountSvc, suite.mockTxnSvc)
}

func activeWorker(id string) *domain.Worker {
	return &domain.Worker{
		WorkerID:     id,
		Name:         "Ravi",
		Trade:        "mason",
		DailyRate:    decimal.NewFromInt(200),
		OvertimeRate: decimal.NewFromInt(30),
		IsActive:     true,
	}
}

// --- RecordAdvance ---

func (suite *AdvanceServiceTestSuite) TestRecordAdvance_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	workerID := uuid.NewString()
	req := dto.RecordAdvanceRequest{
		WorkerID: workerID,
		Amount:   decimal.NewFromInt(300),
		Date:     "2026-05-10",
		Notes:    "Festival advance",
	}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, workerID).Return(activeWorker(workerID), nil).Once()
	suite.mockRepo.On("SaveAdvance", ctx, mock.AnythingOfType("domain.WorkerAdvance")).Return(nil).Once()

	advance, err := suite.service.RecordAdvance(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(advance)
	suite.NotEmpty(advance.AdvanceID)
	suite.Equal(workerID, advance.WorkerID)
	suite.True(advance.SettledAmount.IsZero())
	suite.True(advance.Outstanding().Equal(req.Amount))
	suite.False(advance.IsSettled())
	suite.Empty(advance.DisbursementTransactionID)
	suite.mockTxnSvc.AssertNotCalled(suite.T(), "Submit", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AdvanceServiceTestSuite) TestRecordAdvance_WithDisbursement() {
	ctx := context.Background()
	userID := uuid.NewString()
	workerID := uuid.NewString()
	cashID := uuid.NewString()
	receivable := &domain.Account{
		AccountID: uuid.NewString(),
		Code:      domain.SystemAccountWorkerAdvances,
		Category:  domain.Asset,
		IsActive:  true,
	}
	disbursement := &domain.Transaction{
		TransactionID: uuid.NewString(),
		Status:        domain.Cleared,
	}
	req := dto.RecordAdvanceRequest{
		WorkerID:              workerID,
		Amount:                decimal.NewFromInt(300),
		Date:                  "2026-05-10",
		DisbursementAccountID: &cashID,
	}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, workerID).Return(activeWorker(workerID), nil).Once()
	suite.mockAccountSvc.On("GetAccountByCode", ctx, domain.SystemAccountWorkerAdvances).Return(receivable, nil).Once()
	suite.mockTxnSvc.On("Submit", ctx, mock.MatchedBy(func(txnReq dto.SubmitTransactionRequest) bool {
		return txnReq.Type == domain.TypeTransfer &&
			txnReq.AutoClear &&
			txnReq.Category == domain.CategoryAdvance &&
			txnReq.SourceAccountID == cashID &&
			txnReq.DestinationAccountID != nil &&
			*txnReq.DestinationAccountID == receivable.AccountID &&
			txnReq.Amount.Equal(req.Amount) &&
			txnReq.WorkerID == workerID
	}), userID).Return(disbursement, nil).Once()
	suite.mockRepo.On("SaveAdvance", ctx, mock.MatchedBy(func(advance domain.WorkerAdvance) bool {
		return advance.DisbursementTransactionID == disbursement.TransactionID
	})).Return(nil).Once()

	advance, err := suite.service.RecordAdvance(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Equal(disbursement.TransactionID, advance.DisbursementTransactionID)
	suite.mockTxnSvc.AssertExpectations(suite.T())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AdvanceServiceTestSuite) TestRecordAdvance_InactiveWorker() {
	ctx := context.Background()
	workerID := uuid.NewString()
	worker := activeWorker(workerID)
	worker.IsActive = false
	req := dto.RecordAdvanceRequest{
		WorkerID: workerID,
		Amount:   decimal.NewFromInt(100),
		Date:     "2026-05-11",
	}

	suite.mockWorkerRepo.On("FindWorkerByID", ctx, workerID).Return(worker, nil).Once()

	advance, err := suite.service.RecordAdvance(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(advance)
	suite.ErrorIs(err, services.ErrWorkerInactive)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAdvance", mock.Anything, mock.Anything)
}

func (suite *AdvanceServiceTestSuite) TestRecordAdvance_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.RecordAdvanceRequest{
		WorkerID: uuid.NewString(),
		Amount:   decimal.Zero,
		Date:     "2026-05-11",
	}

	advance, err := suite.service.RecordAdvance(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(advance)
	suite.ErrorIs(err, services.ErrNonPositiveAmount)
	suite.mockWorkerRepo.AssertNotCalled(suite.T(), "FindWorkerByID", mock.Anything, mock.Anything)
}

// --- Settle ---

func (suite *AdvanceServiceTestSuite) TestSettle_Partial() {
	ctx := context.Background()
	userID := uuid.NewString()
	advanceID := uuid.NewString()
	settlementTxnID := uuid.NewString()
	stored := &domain.WorkerAdvance{
		AdvanceID:     advanceID,
		WorkerID:      uuid.NewString(),
		Amount:        decimal.NewFromInt(300),
		SettledAmount: decimal.Zero,
	}

	suite.mockRepo.On("FindAdvanceByID", ctx, advanceID).Return(stored, nil).Once()
	suite.mockRepo.On("UpdateSettlement", ctx, advanceID,
		mock.MatchedBy(func(prior decimal.Decimal) bool { return prior.IsZero() }),
		mock.MatchedBy(func(newSettled decimal.Decimal) bool { return newSettled.Equal(decimal.NewFromInt(150)) }),
		settlementTxnID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	settled, err := suite.service.Settle(ctx, advanceID, decimal.NewFromInt(150), settlementTxnID, time.Now().UTC(), userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(settled)
	suite.True(settled.SettledAmount.Equal(decimal.NewFromInt(150)))
	suite.True(settled.Outstanding().Equal(decimal.NewFromInt(150)))
	suite.False(settled.IsSettled())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AdvanceServiceTestSuite) TestSettle_CompletesAdvance() {
	ctx := context.Background()
	advanceID := uuid.NewString()
	stored := &domain.WorkerAdvance{
		AdvanceID:     advanceID,
		Amount:        decimal.NewFromInt(300),
		SettledAmount: decimal.NewFromInt(150),
	}

	suite.mockRepo.On("FindAdvanceByID", ctx, advanceID).Return(stored, nil).Once()
	suite.mockRepo.On("UpdateSettlement", ctx, advanceID,
		mock.MatchedBy(func(prior decimal.Decimal) bool { return prior.Equal(decimal.NewFromInt(150)) }),
		mock.MatchedBy(func(newSettled decimal.Decimal) bool { return newSettled.Equal(decimal.NewFromInt(300)) }),
		"", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	settled, err := suite.service.Settle(ctx, advanceID, decimal.NewFromInt(150), "", time.Now().UTC(), uuid.NewString())

	suite.Require().NoError(err)
	suite.True(settled.IsSettled())
	suite.True(settled.Outstanding().IsZero())
}

func (suite *AdvanceServiceTestSuite) TestSettle_ConcurrentSettlementConflict() {
	ctx := context.Background()
	advanceID := uuid.NewString()
	stored := &domain.WorkerAdvance{
		AdvanceID:     advanceID,
		Amount:        decimal.NewFromInt(300),
		SettledAmount: decimal.Zero,
	}

	// Another writer settled the advance between our read and our write; the
	// repository's guard on the prior settled amount rejects the stale update.
	suite.mockRepo.On("FindAdvanceByID", ctx, advanceID).Return(stored, nil).Once()
	suite.mockRepo.On("UpdateSettlement", ctx, advanceID,
		mock.MatchedBy(func(prior decimal.Decimal) bool { return prior.IsZero() }),
		mock.AnythingOfType("decimal.Decimal"),
		"", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrStateConflict).Once()

	settled, err := suite.service.Settle(ctx, advanceID, decimal.NewFromInt(300), "", time.Now().UTC(), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settled)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AdvanceServiceTestSuite) TestSettle_OverSettlement() {
	ctx := context.Background()
	advanceID := uuid.NewString()
	stored := &domain.WorkerAdvance{
		AdvanceID:     advanceID,
		Amount:        decimal.NewFromInt(300),
		SettledAmount: decimal.NewFromInt(150),
	}

	suite.mockRepo.On("FindAdvanceByID", ctx, advanceID).Return(stored, nil).Once()

	settled, err := suite.service.Settle(ctx, advanceID, decimal.NewFromInt(200), "", time.Now().UTC(), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settled)
	suite.ErrorIs(err, services.ErrOverSettlement)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateSettlement",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AdvanceServiceTestSuite) TestSettle_NonPositiveAmount() {
	ctx := context.Background()

	settled, err := suite.service.Settle(ctx, uuid.NewString(), decimal.Zero, "", time.Now().UTC(), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settled)
	suite.ErrorIs(err, services.ErrNonPositiveAmount)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAdvanceByID", mock.Anything, mock.Anything)
}

func (suite *AdvanceServiceTestSuite) TestOutstandingForWorker() {
	ctx := context.Background()
	workerID := uuid.NewString()

	suite.mockRepo.On("OutstandingForWorker", ctx, workerID).Return(decimal.NewFromInt(450), nil).Once()

	outstanding, err := suite.service.OutstandingForWorker(ctx, workerID)

	suite.Require().NoError(err)
	suite.True(outstanding.Equal(decimal.NewFromInt(450)))
}

func TestAdvanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdvanceServiceTestSuite))
}
