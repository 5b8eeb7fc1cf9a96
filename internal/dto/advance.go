package dto

import (
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordAdvanceRequest defines a new salary advance.
type RecordAdvanceRequest struct {
	WorkerID string          `json:"workerID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Date     string          `json:"date" binding:"required,datetime=2006-01-02"`
	// DisbursementAccountID, when set, also disburses the advance: an
	// auto-cleared transaction moves the amount from this account to the
	// Worker Advances receivable account and is linked as the disbursement.
	DisbursementAccountID *string `json:"disbursementAccountID"`
	// DisbursementTransactionID links an already-recorded transaction instead.
	DisbursementTransactionID *string `json:"disbursementTransactionID"`
	Notes                     string  `json:"notes"`
}

// ParsedDate returns the request date as a UTC calendar date.
func (r RecordAdvanceRequest) ParsedDate() (time.Time, error) {
	return time.ParseInLocation(DateFormat, r.Date, time.UTC)
}

// SettleAdvanceRequest applies part of an advance against payroll or a manual
// repayment.
type SettleAdvanceRequest struct {
	Amount                  decimal.Decimal `json:"amount" binding:"required"`
	SettlementTransactionID string          `json:"settlementTransactionID"`
	Date                    string          `json:"date" binding:"required,datetime=2006-01-02"`
}

// AdvanceResponse defines the data returned for a worker advance.
type AdvanceResponse struct {
	AdvanceID                 string          `json:"advanceID"`
	WorkerID                  string          `json:"workerID"`
	Amount                    decimal.Decimal `json:"amount"`
	AdvanceDate               string          `json:"advanceDate"`
	DisbursementTransactionID string          `json:"disbursementTransactionID,omitempty"`
	SettledAmount             decimal.Decimal `json:"settledAmount"`
	Outstanding               decimal.Decimal `json:"outstanding"`
	IsSettled                 bool            `json:"isSettled"`
	SettlementTransactionID   string          `json:"settlementTransactionID,omitempty"`
	Notes                     string          `json:"notes,omitempty"`
	CreatedAt                 time.Time       `json:"createdAt"`
}

// ToAdvanceResponse converts a domain.WorkerAdvance to its response DTO.
func ToAdvanceResponse(a *domain.WorkerAdvance) AdvanceResponse {
	return AdvanceResponse{
		AdvanceID:                 a.AdvanceID,
		WorkerID:                  a.WorkerID,
		Amount:                    a.Amount,
		AdvanceDate:               a.AdvanceDate.Format(DateFormat),
		DisbursementTransactionID: a.DisbursementTransactionID,
		SettledAmount:             a.SettledAmount,
		Outstanding:               a.Outstanding(),
		IsSettled:                 a.IsSettled(),
		SettlementTransactionID:   a.SettlementTransactionID,
		Notes:                     a.Notes,
		CreatedAt:                 a.CreatedAt,
	}
}

// ListAdvancesResponse wraps an advance listing.
type ListAdvancesResponse struct {
	Advances []AdvanceResponse `json:"advances"`
}

// OutstandingResponse reports a worker's total unsettled advance amount.
type OutstandingResponse struct {
	WorkerID    string          `json:"workerID"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
