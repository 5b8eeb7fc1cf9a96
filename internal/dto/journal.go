package dto

import (
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordEntryRequest defines a directly-recorded journal entry (adjustment or
// opening balance). Ledger entries for transactions are produced by clearing,
// never through this request.
type RecordEntryRequest struct {
	DebitAccountID  string               `json:"debitAccountID" binding:"required"`
	CreditAccountID string               `json:"creditAccountID" binding:"required"`
	Amount          decimal.Decimal      `json:"amount" binding:"required"`
	ReferenceType   domain.ReferenceType `json:"referenceType" binding:"required,oneof=ADJUSTMENT OPENING_BALANCE"`
	ReferenceID     string               `json:"referenceID"`
	Date            string               `json:"date" binding:"required,datetime=2006-01-02"`
	Description     string               `json:"description"`
}

// ParsedDate returns the request date as a UTC calendar date.
func (r RecordEntryRequest) ParsedDate() (time.Time, error) {
	return time.ParseInLocation(DateFormat, r.Date, time.UTC)
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID         string               `json:"entryID"`
	EntryDate       string               `json:"entryDate"`
	Description     string               `json:"description,omitempty"`
	DebitAccountID  string               `json:"debitAccountID"`
	CreditAccountID string               `json:"creditAccountID"`
	Amount          decimal.Decimal      `json:"amount"`
	ReferenceType   domain.ReferenceType `json:"referenceType"`
	ReferenceID     string               `json:"referenceID,omitempty"`
	IsReversing     bool                 `json:"isReversing"`
	ReversedEntryID string               `json:"reversedEntryID,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:         e.EntryID,
		EntryDate:       e.EntryDate.Format(DateFormat),
		Description:     e.Description,
		DebitAccountID:  e.DebitAccountID,
		CreditAccountID: e.CreditAccountID,
		Amount:          e.Amount,
		ReferenceType:   e.ReferenceType,
		ReferenceID:     e.ReferenceID,
		IsReversing:     e.IsReversing,
		ReversedEntryID: e.ReversedEntryID,
		CreatedAt:       e.CreatedAt,
	}
}

// ListJournalEntriesResponse wraps a paginated journal listing.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
