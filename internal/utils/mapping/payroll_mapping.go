package mapping

import (
	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/buildbooks/build_books_app/internal/models"
)

// ToModelWorkerAdvance converts a domain WorkerAdvance to a model WorkerAdvance.
func ToModelWorkerAdvance(d domain.WorkerAdvance) models.WorkerAdvance {
	return models.WorkerAdvance{
		AdvanceID:                 d.AdvanceID,
		WorkerID:                  d.WorkerID,
		Amount:                    d.Amount,
		AdvanceDate:               d.AdvanceDate,
		DisbursementTransactionID: d.DisbursementTransactionID,
		SettledAmount:             d.SettledAmount,
		SettlementTransactionID:   d.SettlementTransactionID,
		Notes:                     d.Notes,
		AuditFields:               ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWorkerAdvance converts a model WorkerAdvance to a domain WorkerAdvance.
func ToDomainWorkerAdvance(m models.WorkerAdvance) domain.WorkerAdvance {
	return domain.WorkerAdvance{
		AdvanceID:                 m.AdvanceID,
		WorkerID:                  m.WorkerID,
		Amount:                    m.Amount,
		AdvanceDate:               m.AdvanceDate,
		DisbursementTransactionID: m.DisbursementTransactionID,
		SettledAmount:             m.SettledAmount,
		SettlementTransactionID:   m.SettlementTransactionID,
		Notes:                     m.Notes,
		AuditFields:               ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayrollEntry converts a domain PayrollEntry to a model PayrollEntry.
func ToModelPayrollEntry(d domain.PayrollEntry) models.PayrollEntry {
	return models.PayrollEntry{
		PayrollID:            d.PayrollID,
		WorkerID:             d.WorkerID,
		PeriodStart:          d.PeriodStart,
		PeriodEnd:            d.PeriodEnd,
		ProjectID:            d.ProjectID,
		DaysPresent:          d.DaysPresent,
		HalfDays:             d.HalfDays,
		OvertimeHours:        d.OvertimeHours,
		DailyRate:            d.DailyRate,
		OvertimeRate:         d.OvertimeRate,
		GrossWage:            d.GrossWage,
		Deductions:           d.Deductions,
		AdvancesDeducted:     d.AdvancesDeducted,
		NetWage:              d.NetWage,
		Status:               models.PayrollStatus(d.Status),
		PaymentTransactionID: d.PaymentTransactionID,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollEntry converts a model PayrollEntry to a domain PayrollEntry.
func ToDomainPayrollEntry(m models.PayrollEntry) domain.PayrollEntry {
	return domain.PayrollEntry{
		PayrollID:            m.PayrollID,
		WorkerID:             m.WorkerID,
		PeriodStart:          m.PeriodStart,
		PeriodEnd:            m.PeriodEnd,
		ProjectID:            m.ProjectID,
		DaysPresent:          m.DaysPresent,
		HalfDays:             m.HalfDays,
		OvertimeHours:        m.OvertimeHours,
		DailyRate:            m.DailyRate,
		OvertimeRate:         m.OvertimeRate,
		GrossWage:            m.GrossWage,
		Deductions:           m.Deductions,
		AdvancesDeducted:     m.AdvancesDeducted,
		NetWage:              m.NetWage,
		Status:               domain.PayrollStatus(m.Status),
		PaymentTransactionID: m.PaymentTransactionID,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
