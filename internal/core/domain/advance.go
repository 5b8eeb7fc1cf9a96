package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkerAdvance is a salary advance disbursed to a worker, tracked as a
// receivable until settled against payroll. Only SettledAmount is stored;
// settlement completion is derived from it so the two can never drift.
type WorkerAdvance struct {
	AdvanceID                 string          `json:"advanceID"` // Primary Key (UUID)
	WorkerID                  string          `json:"workerID"`
	Amount                    decimal.Decimal `json:"amount"` // Always > 0
	AdvanceDate               time.Time       `json:"advanceDate"`
	DisbursementTransactionID string          `json:"disbursementTransactionID"` // Optional
	SettledAmount             decimal.Decimal `json:"settledAmount"`             // 0 <= SettledAmount <= Amount
	SettlementTransactionID   string          `json:"settlementTransactionID"`   // Last settling transaction, optional
	Notes                     string          `json:"notes"`
	AuditFields
}

// Outstanding returns the unsettled remainder of the advance.
func (a WorkerAdvance) Outstanding() decimal.Decimal {
	return a.Amount.Sub(a.SettledAmount)
}

// IsSettled reports whether the advance is fully settled. Derived, never stored.
func (a WorkerAdvance) IsSettled() bool {
	return a.SettledAmount.GreaterThanOrEqual(a.Amount)
}
