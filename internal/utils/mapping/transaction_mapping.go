package mapping

import (
	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/buildbooks/build_books_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:        d.TransactionID,
		ProjectID:            d.ProjectID,
		WorkerID:             d.WorkerID,
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: d.DestinationAccountID,
		CounterAccountID:     d.CounterAccountID,
		Amount:               d.Amount,
		TransactionType:      models.TransactionType(d.Type),
		Status:               models.TransactionStatus(d.Status),
		Category:             d.Category,
		TransactionDate:      d.TransactionDate,
		JournalEntryID:       d.JournalEntryID,
		Description:          d.Description,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:        m.TransactionID,
		ProjectID:            m.ProjectID,
		WorkerID:             m.WorkerID,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		CounterAccountID:     m.CounterAccountID,
		Amount:               m.Amount,
		Type:                 domain.TransactionType(m.TransactionType),
		Status:               domain.TransactionStatus(m.Status),
		Category:             m.Category,
		TransactionDate:      m.TransactionDate,
		JournalEntryID:       m.JournalEntryID,
		Description:          m.Description,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
