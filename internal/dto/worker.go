package dto

import (
	"time"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateWorkerRequest defines the data needed to register a worker.
type CreateWorkerRequest struct {
	Name         string          `json:"name" binding:"required"`
	Phone        string          `json:"phone"`
	Trade        string          `json:"trade"`
	DailyRate    decimal.Decimal `json:"dailyRate" binding:"required"`
	OvertimeRate decimal.Decimal `json:"overtimeRate"`
}

// UpdateWorkerRequest defines the fields that may be changed on a worker.
type UpdateWorkerRequest struct {
	Name         *string          `json:"name"`
	Phone        *string          `json:"phone"`
	Trade        *string          `json:"trade"`
	DailyRate    *decimal.Decimal `json:"dailyRate"`
	OvertimeRate *decimal.Decimal `json:"overtimeRate"`
}

// WorkerResponse defines the data returned for a worker.
type WorkerResponse struct {
	WorkerID     string          `json:"workerID"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone,omitempty"`
	Trade        string          `json:"trade,omitempty"`
	DailyRate    decimal.Decimal `json:"dailyRate"`
	OvertimeRate decimal.Decimal `json:"overtimeRate"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToWorkerResponse converts a domain.Worker to its response DTO.
func ToWorkerResponse(w *domain.Worker) WorkerResponse {
	return WorkerResponse{
		WorkerID:     w.WorkerID,
		Name:         w.Name,
		Phone:        w.Phone,
		Trade:        w.Trade,
		DailyRate:    w.DailyRate,
		OvertimeRate: w.OvertimeRate,
		IsActive:     w.IsActive,
		CreatedAt:    w.CreatedAt,
	}
}

// ListWorkersResponse wraps a worker listing.
type ListWorkersResponse struct {
	Workers []WorkerResponse `json:"workers"`
}
