package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkerAdvance is the database representation of a salary advance.
// Only settled_amount persists; settlement completion is derived in the domain.
type WorkerAdvance struct {
	AdvanceID                 string          `db:"advance_id"`
	WorkerID                  string          `db:"worker_id"`
	Amount                    decimal.Decimal `db:"amount"`
	AdvanceDate               time.Time       `db:"advance_date"` // date column
	DisbursementTransactionID string          `db:"disbursement_transaction_id"` // Nullable
	SettledAmount             decimal.Decimal `db:"settled_amount"`
	SettlementTransactionID   string          `db:"settlement_transaction_id"` // Nullable
	Notes                     string          `db:"notes"`
	AuditFields
}
