package dto

import (
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateFormat is the wire format for calendar dates (no time component).
const DateFormat = "2006-01-02"

// SubmitTransactionRequest defines a transaction intent.
type SubmitTransactionRequest struct {
	Type                 domain.TransactionType `json:"type" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	SourceAccountID      string                 `json:"sourceAccountID"`
	DestinationAccountID *string                `json:"destinationAccountID"` // Required for TRANSFER
	// CounterAccountID optionally names the revenue/expense account for the
	// journal entry's other side; defaults to the misc system accounts.
	CounterAccountID *string         `json:"counterAccountID"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Category         string          `json:"category"`
	Date             string          `json:"date" binding:"required,datetime=2006-01-02"`
	ProjectID        string          `json:"projectID"`
	WorkerID         string          `json:"workerID"`
	Description      string          `json:"description"`
	AutoClear        bool            `json:"autoClear"`
	// AccountID is the deprecated single-account field older clients send; it
	// is resolved into SourceAccountID at ingestion and never stored.
	AccountID *string `json:"accountID"`
}

// Normalize resolves the legacy AccountID fallback into the source/destination
// model. It must be called before the request reaches the service.
func (r *SubmitTransactionRequest) Normalize() {
	if r.SourceAccountID == "" && r.AccountID != nil {
		r.SourceAccountID = *r.AccountID
	}
	r.AccountID = nil
}

// ParsedDate returns the request date as a UTC calendar date.
func (r SubmitTransactionRequest) ParsedDate() (time.Time, error) {
	return time.ParseInLocation(DateFormat, r.Date, time.UTC)
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID        string                   `json:"transactionID"`
	Type                 domain.TransactionType   `json:"type"`
	Status               domain.TransactionStatus `json:"status"`
	SourceAccountID      string                   `json:"sourceAccountID"`
	DestinationAccountID string                   `json:"destinationAccountID,omitempty"`
	Amount               decimal.Decimal          `json:"amount"`
	Category             string                   `json:"category,omitempty"`
	Date                 string                   `json:"date"`
	ProjectID            string                   `json:"projectID,omitempty"`
	WorkerID             string                   `json:"workerID,omitempty"`
	JournalEntryID       string                   `json:"journalEntryID,omitempty"`
	Description          string                   `json:"description,omitempty"`
	CreatedAt            time.Time                `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		Type:                 txn.Type,
		Status:               txn.Status,
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		Amount:               txn.Amount,
		Category:             txn.Category,
		Date:                 txn.TransactionDate.Format(DateFormat),
		ProjectID:            txn.ProjectID,
		WorkerID:             txn.WorkerID,
		JournalEntryID:       txn.JournalEntryID,
		Description:          txn.Description,
		CreatedAt:            txn.CreatedAt,
	}
}

// ListTransactionsResponse wraps a paginated transaction listing.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
