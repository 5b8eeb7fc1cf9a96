package mapping

import (
	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/buildbooks/build_books_app/internal/models"
)

// ToModelWorker converts a domain Worker to a model Worker.
func ToModelWorker(d domain.Worker) models.Worker {
	return models.Worker{
		WorkerID:     d.WorkerID,
		Name:         d.Name,
		Phone:        d.Phone,
		Trade:        d.Trade,
		DailyRate:    d.DailyRate,
		OvertimeRate: d.OvertimeRate,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWorker converts a model Worker to a domain Worker.
func ToDomainWorker(m models.Worker) domain.Worker {
	return domain.Worker{
		WorkerID:     m.WorkerID,
		Name:         m.Name,
		Phone:        m.Phone,
		Trade:        m.Trade,
		DailyRate:    m.DailyRate,
		OvertimeRate: m.OvertimeRate,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUser converts a domain User to a model User.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
