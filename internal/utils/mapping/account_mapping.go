package mapping

import (
	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/buildbooks/build_books_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		Category:        models.AccountCategory(d.Category),
		ParentAccountID: d.ParentAccountID,
		Description:     d.Description,
		IsSystemAccount: d.IsSystemAccount,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
		Balance:         d.Balance,
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		Category:        domain.AccountCategory(m.Category),
		ParentAccountID: m.ParentAccountID,
		Description:     m.Description,
		IsSystemAccount: m.IsSystemAccount,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
		Balance:         m.Balance,
	}
}
