package models

import "github.com/shopspring/decimal"

// Worker is the database representation of an employee.
type Worker struct {
	WorkerID     string          `db:"worker_id"`
	Name         string          `db:"name"`
	Phone        string          `db:"phone"`
	Trade        string          `db:"trade"`
	DailyRate    decimal.Decimal `db:"daily_rate"`
	OvertimeRate decimal.Decimal `db:"overtime_rate"`
	IsActive     bool            `db:"is_active"`
	AuditFields
}
