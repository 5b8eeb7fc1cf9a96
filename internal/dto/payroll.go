package dto

import (
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BuildPayrollEntryRequest defines the inputs for a draft payroll entry.
// Rates default to the worker's configured rates when omitted.
type BuildPayrollEntryRequest struct {
	WorkerID      string           `json:"workerID" binding:"required"`
	PeriodStart   string           `json:"periodStart" binding:"required,datetime=2006-01-02"`
	PeriodEnd     string           `json:"periodEnd" binding:"required,datetime=2006-01-02"`
	ProjectID     string           `json:"projectID"`
	DaysPresent   int              `json:"daysPresent" binding:"min=0"`
	HalfDays      int              `json:"halfDays" binding:"min=0"`
	OvertimeHours decimal.Decimal  `json:"overtimeHours"`
	DailyRate     *decimal.Decimal `json:"dailyRate"`
	OvertimeRate  *decimal.Decimal `json:"overtimeRate"`
	Deductions    decimal.Decimal  `json:"deductions"`
	// AdvanceCapToApply bounds how much outstanding advance this run deducts.
	AdvanceCapToApply decimal.Decimal `json:"advanceCapToApply"`
}

// ParsedPeriod returns the period boundaries as UTC calendar dates.
func (r BuildPayrollEntryRequest) ParsedPeriod() (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateFormat, r.PeriodStart, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation(DateFormat, r.PeriodEnd, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// PayPayrollRequest names the account the net wage is paid from.
type PayPayrollRequest struct {
	SourceAccountID string `json:"sourceAccountID" binding:"required"`
}

// PayrollEntryResponse defines the data returned for a payroll entry.
type PayrollEntryResponse struct {
	PayrollID            string               `json:"payrollID"`
	WorkerID             string               `json:"workerID"`
	PeriodStart          string               `json:"periodStart"`
	PeriodEnd            string               `json:"periodEnd"`
	ProjectID            string               `json:"projectID,omitempty"`
	DaysPresent          int                  `json:"daysPresent"`
	HalfDays             int                  `json:"halfDays"`
	OvertimeHours        decimal.Decimal      `json:"overtimeHours"`
	DailyRate            decimal.Decimal      `json:"dailyRate"`
	OvertimeRate         decimal.Decimal      `json:"overtimeRate"`
	GrossWage            decimal.Decimal      `json:"grossWage"`
	Deductions           decimal.Decimal      `json:"deductions"`
	AdvancesDeducted     decimal.Decimal      `json:"advancesDeducted"`
	NetWage              decimal.Decimal      `json:"netWage"`
	Status               domain.PayrollStatus `json:"status"`
	PaymentTransactionID string               `json:"paymentTransactionID,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
}

// ToPayrollEntryResponse converts a domain.PayrollEntry to its response DTO.
func ToPayrollEntryResponse(e *domain.PayrollEntry) PayrollEntryResponse {
	return PayrollEntryResponse{
		PayrollID:            e.PayrollID,
		WorkerID:             e.WorkerID,
		PeriodStart:          e.PeriodStart.Format(DateFormat),
		PeriodEnd:            e.PeriodEnd.Format(DateFormat),
		ProjectID:            e.ProjectID,
		DaysPresent:          e.DaysPresent,
		HalfDays:             e.HalfDays,
		OvertimeHours:        e.OvertimeHours,
		DailyRate:            e.DailyRate,
		OvertimeRate:         e.OvertimeRate,
		GrossWage:            e.GrossWage,
		Deductions:           e.Deductions,
		AdvancesDeducted:     e.AdvancesDeducted,
		NetWage:              e.NetWage,
		Status:               e.Status,
		PaymentTransactionID: e.PaymentTransactionID,
		CreatedAt:            e.CreatedAt,
	}
}

// ListPayrollEntriesResponse wraps a payroll listing.
type ListPayrollEntriesResponse struct {
	Entries []PayrollEntryResponse `json:"entries"`
}

// PayrollTotalsResponse wraps aggregated payroll totals.
type PayrollTotalsResponse struct {
	EntryCount       int64           `json:"entryCount"`
	GrossWage        decimal.Decimal `json:"grossWage"`
	Deductions       decimal.Decimal `json:"deductions"`
	AdvancesDeducted decimal.Decimal `json:"advancesDeducted"`
	NetWage          decimal.Decimal `json:"netWage"`
}
