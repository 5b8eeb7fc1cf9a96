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
)

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockRepo        *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.JournalSvcFacade
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewJournalService(suite.mockRepo, suite.mockAccountRepo)
}

// --- Record ---

func (suite *JournalServiceTestSuite) TestRecord_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	expenseID := uuid.NewString()
	cashID := uuid.NewString()
	amount := decimal.NewFromInt(120)
	input := portssvc.RecordEntryInput{
		DebitAccountID:  expenseID,
		CreditAccountID: cashID,
		Amount:          amount,
		ReferenceType:   domain.RefAdjustment,
		ReferenceID:     uuid.NewString(),
		Date:            time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Description:     "Fuel correction",
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{expenseID, cashID}).Return(map[string]domain.Account{
		expenseID: activeAccount(expenseID, domain.Expense),
		cashID:    activeAccount(cashID, domain.Asset),
	}, nil).Once()
	suite.mockRepo.On("SaveEntry", ctx,
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			return entry.DebitAccountID == expenseID &&
				entry.CreditAccountID == cashID &&
				entry.Amount.Equal(amount) &&
				entry.ReferenceType == domain.RefAdjustment &&
				!entry.IsReversing
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[expenseID].Equal(amount) && changes[cashID].Equal(amount.Neg())
		}),
	).Return(nil).Once()

	entry, err := suite.service.Record(ctx, input, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal(input.Date, entry.EntryDate)
	suite.Equal(userID, entry.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestRecord_SameAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()
	input := portssvc.RecordEntryInput{
		DebitAccountID:  accountID,
		CreditAccountID: accountID,
		Amount:          decimal.NewFromInt(10),
	}

	entry, err := suite.service.Record(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrSameAccount)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestRecord_NonPositiveAmount() {
	ctx := context.Background()
	input := portssvc.RecordEntryInput{
		DebitAccountID:  uuid.NewString(),
		CreditAccountID: uuid.NewString(),
		Amount:          decimal.NewFromInt(-5),
	}

	entry, err := suite.service.Record(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrNonPositiveAmount)
}

func (suite *JournalServiceTestSuite) TestRecord_InactiveAccount() {
	ctx := context.Background()
	debitID := uuid.NewString()
	creditID := uuid.NewString()
	inactive := activeAccount(creditID, domain.Asset)
	inactive.IsActive = false
	input := portssvc.RecordEntryInput{
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          decimal.NewFromInt(40),
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{debitID, creditID}).Return(map[string]domain.Account{
		debitID:  activeAccount(debitID, domain.Expense),
		creditID: inactive,
	}, nil).Once()

	entry, err := suite.service.Record(ctx, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

// --- Reverse ---

func (suite *JournalServiceTestSuite) TestReverse_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	entryID := uuid.NewString()
	bankID := uuid.NewString()
	revenueID := uuid.NewString()
	amount := decimal.NewFromInt(900)
	original := &domain.JournalEntry{
		EntryID:         entryID,
		DebitAccountID:  bankID,
		CreditAccountID: revenueID,
		Amount:          amount,
		ReferenceType:   domain.RefTransaction,
		ReferenceID:     uuid.NewString(),
	}

	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(original, nil).Once()
	suite.mockRepo.On("FindReversingEntryFor", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{bankID, revenueID}).Return(map[string]domain.Account{
		bankID:    activeAccount(bankID, domain.Asset),
		revenueID: activeAccount(revenueID, domain.Revenue),
	}, nil).Once()
	suite.mockRepo.On("SaveEntry", ctx,
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			return entry.IsReversing &&
				entry.ReversedEntryID == entryID &&
				entry.DebitAccountID == revenueID &&
				entry.CreditAccountID == bankID &&
				entry.Amount.Equal(amount) &&
				entry.ReferenceType == original.ReferenceType &&
				entry.ReferenceID == original.ReferenceID
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return changes[revenueID].Equal(amount.Neg()) && changes[bankID].Equal(amount.Neg())
		}),
	).Return(nil).Once()

	reversing, err := suite.service.Reverse(ctx, entryID, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.True(reversing.IsReversing)
	suite.Equal(entryID, reversing.ReversedEntryID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverse_AlreadyReversed() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(&domain.JournalEntry{
		EntryID:         entryID,
		DebitAccountID:  uuid.NewString(),
		CreditAccountID: uuid.NewString(),
		Amount:          decimal.NewFromInt(10),
	}, nil).Once()
	suite.mockRepo.On("FindReversingEntryFor", ctx, entryID).Return(&domain.JournalEntry{
		EntryID:         uuid.NewString(),
		IsReversing:     true,
		ReversedEntryID: entryID,
	}, nil).Once()

	reversing, err := suite.service.Reverse(ctx, entryID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reversing)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestGetEntryByID_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.GetEntryByID(ctx, entryID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
