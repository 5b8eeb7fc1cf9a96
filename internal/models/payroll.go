package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus mirrors domain.PayrollStatus for persistence.
type PayrollStatus string

// PayrollEntry is the database representation of a wage accrual.
type PayrollEntry struct {
	PayrollID            string          `db:"payroll_id"`
	WorkerID             string          `db:"worker_id"`
	PeriodStart          time.Time       `db:"period_start"` // date column
	PeriodEnd            time.Time       `db:"period_end"`   // date column
	ProjectID            string          `db:"project_id"`   // Nullable
	DaysPresent          int             `db:"days_present"`
	HalfDays             int             `db:"half_days"`
	OvertimeHours        decimal.Decimal `db:"overtime_hours"`
	DailyRate            decimal.Decimal `db:"daily_rate"`
	OvertimeRate         decimal.Decimal `db:"overtime_rate"`
	GrossWage            decimal.Decimal `db:"gross_wage"`
	Deductions           decimal.Decimal `db:"deductions"`
	AdvancesDeducted     decimal.Decimal `db:"advances_deducted"`
	NetWage              decimal.Decimal `db:"net_wage"`
	Status               PayrollStatus   `db:"status"`
	PaymentTransactionID string          `db:"payment_transaction_id"` // Nullable
	AuditFields
}
