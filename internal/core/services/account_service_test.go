package services_test

import (
	"context"
	"fmt"
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

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockAccountRepository
	mockTxnSvc *MockTransactionProcessorSvc
	service    portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockTxnSvc = new(MockTransactionProcessorSvc)
	svc := services.NewAccountService(suite.mockRepo)
	svc.SetTransactionProcessor(suite.mockTxnSvc)
	suite.service = svc
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:        "CASH-01",
		Name:        "Site Cash Box",
		Category:    domain.Asset,
		AccountType: domain.CashBox,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, req.Code).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(req.Code, created.Code)
	suite.Equal(req.Name, created.Name)
	suite.Equal(domain.Asset, created.Category)
	suite.Equal(domain.CashBox, created.AccountType)
	suite.True(created.IsActive)
	suite.False(created.IsSystemAccount)
	suite.True(created.Balance.IsZero())
	suite.Equal(creatorUserID, created.CreatedBy)
	suite.Equal(creatorUserID, created.LastUpdatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "BANK-01",
		Name:        "Duplicate",
		Category:    domain.Asset,
		AccountType: domain.Bank,
	}
	existing := &domain.Account{AccountID: uuid.NewString(), Code: req.Code, IsActive: true}

	suite.mockRepo.On("FindAccountByCode", ctx, req.Code).Return(existing, nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, services.ErrDuplicateAccountCode)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CategoryTypeMismatch() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "EXP-01",
		Name:        "Fuel",
		Category:    domain.Expense,
		AccountType: domain.Bank,
	}

	created, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, services.ErrCategoryTypeMismatch)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByCode", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_AssetRequiresType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:     "CASH-02",
		Name:     "Typeless",
		Category: domain.Asset,
	}

	created, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_WithOpeningBalance() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	opening := decimal.NewFromInt(500)
	req := dto.CreateAccountRequest{
		Code:           "BANK-02",
		Name:           "Main Bank",
		Category:       domain.Asset,
		AccountType:    domain.Bank,
		OpeningBalance: &opening,
	}
	openingAccount := &domain.Account{
		AccountID: uuid.NewString(),
		Code:      domain.SystemAccountOpeningBalances,
		Category:  domain.Equity,
		IsActive:  true,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, req.Code).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, domain.SystemAccountOpeningBalances).Return(openingAccount, nil).Once()
	suite.mockTxnSvc.On("Submit", ctx, mock.MatchedBy(func(txnReq dto.SubmitTransactionRequest) bool {
		return txnReq.Type == domain.TypeIncome &&
			txnReq.AutoClear &&
			txnReq.Category == domain.CategoryOpeningBalance &&
			txnReq.CounterAccountID != nil &&
			*txnReq.CounterAccountID == openingAccount.AccountID &&
			txnReq.Amount.Equal(opening)
	}), creatorUserID).Return(&domain.Transaction{TransactionID: uuid.NewString(), Status: domain.Cleared}, nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, mock.AnythingOfType("string")).Return(&domain.Account{
		AccountID: uuid.NewString(),
		Code:      req.Code,
		Category:  domain.Asset,
		IsActive:  true,
		Balance:   opening,
	}, nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.True(created.Balance.Equal(opening), "balance should carry the seeded amount, got %s", created.Balance)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockTxnSvc.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OpeningBalanceOnEquityRefused() {
	ctx := context.Background()
	opening := decimal.NewFromInt(100)
	req := dto.CreateAccountRequest{
		Code:           "EQ-01",
		Name:           "Owner Capital",
		Category:       domain.Equity,
		OpeningBalance: &opening,
	}

	suite.mockRepo.On("FindAccountByCode", ctx, req.Code).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, services.ErrOpeningBalanceForbidden)
	suite.mockTxnSvc.AssertNotCalled(suite.T(), "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Inactive() {
	ctx := context.Background()
	accountID := uuid.NewString()
	name := "Renamed"

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(&domain.Account{
		AccountID: accountID,
		IsActive:  false,
	}, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{Name: &name}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(&domain.Account{
		AccountID: accountID,
		IsActive:  true,
	}, nil).Once()
	suite.mockRepo.On("HasOpenReferences", ctx, accountID).Return(false, nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, accountID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_SystemAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(&domain.Account{
		AccountID:       accountID,
		Code:            domain.SystemAccountWagesExpense,
		IsSystemAccount: true,
		IsActive:        true,
	}, nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSystemAccountProtected)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(&domain.Account{
		AccountID: accountID,
		IsActive:  false,
	}, nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "HasOpenReferences", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_HasReferences() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(&domain.Account{
		AccountID: accountID,
		IsActive:  true,
	}, nil).Once()
	suite.mockRepo.On("HasOpenReferences", ctx, accountID).Return(true, nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountHasReferences)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestApplyDelta_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	delta := decimal.NewFromInt(25)

	suite.mockRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{accountID}).Return(map[string]domain.Account{
		accountID: {
			AccountID: accountID,
			Category:  domain.Asset,
			IsActive:  true,
			Balance:   decimal.NewFromInt(100),
		},
	}, nil).Once()
	suite.mockRepo.On("UpdateAccountBalancesInTx", ctx, mock.Anything,
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return len(changes) == 1 && changes[accountID].Equal(delta)
		}),
		userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	newBalance, err := suite.service.ApplyDelta(ctx, accountID, delta, userID)

	suite.Require().NoError(err)
	suite.True(newBalance.Equal(decimal.NewFromInt(125)), "new balance was %s", newBalance)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestApplyDelta_AccountNotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{accountID}).Return(map[string]domain.Account{}, nil).Once()
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	newBalance, err := suite.service.ApplyDelta(ctx, accountID, decimal.NewFromInt(10), uuid.NewString())

	suite.Require().Error(err)
	suite.True(newBalance.IsZero())
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccountBalancesInTx",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestApplyDelta_InactiveAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{accountID}).Return(map[string]domain.Account{
		accountID: {
			AccountID: accountID,
			Category:  domain.Asset,
			IsActive:  false,
		},
	}, nil).Once()
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	newBalance, err := suite.service.ApplyDelta(ctx, accountID, decimal.NewFromInt(10), uuid.NewString())

	suite.Require().Error(err)
	suite.True(newBalance.IsZero())
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(nil, fmt.Errorf("account: %w", apperrors.ErrNotFound)).Once()

	account, err := suite.service.GetAccountByID(ctx, accountID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
