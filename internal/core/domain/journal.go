package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType identifies what kind of record a journal entry was produced for.
type ReferenceType string

const (
	RefTransaction    ReferenceType = "TRANSACTION"
	RefPayroll        ReferenceType = "PAYROLL"
	RefAdvance        ReferenceType = "ADVANCE"
	RefTransfer       ReferenceType = "TRANSFER"
	RefAdjustment     ReferenceType = "ADJUSTMENT"
	RefOpeningBalance ReferenceType = "OPENING_BALANCE"
)

// JournalEntry is an immutable audit record pairing a debit and a credit
// account for a given amount. Entries are append-only; correction is always a
// new reversing entry, never an edit.
type JournalEntry struct {
	EntryID         string          `json:"entryID"` // Primary Key (UUID)
	EntryDate       time.Time       `json:"entryDate"`
	Description     string          `json:"description"`
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"` // Always != DebitAccountID
	Amount          decimal.Decimal `json:"amount"`          // Always > 0
	ReferenceType   ReferenceType   `json:"referenceType"`
	ReferenceID     string          `json:"referenceID"`
	IsReversing     bool            `json:"isReversing"`
	ReversedEntryID string          `json:"reversedEntryID"` // Set on reversing entries only
	AuditFields
}
