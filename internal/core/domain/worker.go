package domain

import "github.com/shopspring/decimal"

// Worker is an employee whose attendance and rates drive payroll.
type Worker struct {
	WorkerID     string          `json:"workerID"` // Primary Key (UUID)
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Trade        string          `json:"trade"` // e.g. mason, carpenter, electrician
	DailyRate    decimal.Decimal `json:"dailyRate"`
	OvertimeRate decimal.Decimal `json:"overtimeRate"` // Per hour
	IsActive     bool            `json:"isActive"`
	AuditFields
}
