package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus is the workflow state of a payroll entry.
type PayrollStatus string

const (
	PayrollDraft     PayrollStatus = "DRAFT"
	PayrollApproved  PayrollStatus = "APPROVED"
	PayrollPaid      PayrollStatus = "PAID"
	PayrollCancelled PayrollStatus = "CANCELLED"
)

// PayrollEntry is a worker's wage accrual for a period.
//
// GrossWage = DailyRate*(DaysPresent + 0.5*HalfDays) + OvertimeRate*OvertimeHours.
// NetWage = GrossWage - Deductions - AdvancesDeducted, and may legitimately be
// negative; callers decide how to handle that state.
type PayrollEntry struct {
	PayrollID            string          `json:"payrollID"` // Primary Key (UUID)
	WorkerID             string          `json:"workerID"`
	PeriodStart          time.Time       `json:"periodStart"`
	PeriodEnd            time.Time       `json:"periodEnd"`
	ProjectID            string          `json:"projectID"` // Optional cost-center linkage
	DaysPresent          int             `json:"daysPresent"`
	HalfDays             int             `json:"halfDays"`
	OvertimeHours        decimal.Decimal `json:"overtimeHours"`
	DailyRate            decimal.Decimal `json:"dailyRate"`
	OvertimeRate         decimal.Decimal `json:"overtimeRate"`
	GrossWage            decimal.Decimal `json:"grossWage"`
	Deductions           decimal.Decimal `json:"deductions"`
	AdvancesDeducted     decimal.Decimal `json:"advancesDeducted"`
	NetWage              decimal.Decimal `json:"netWage"`
	Status               PayrollStatus   `json:"status"`
	PaymentTransactionID string          `json:"paymentTransactionID"` // Set when paid
	AuditFields
}
