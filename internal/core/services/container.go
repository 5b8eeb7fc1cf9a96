package services

import (
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	portssvc "github.com/buildbooks/build_books_app/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
// The account service and transaction processor reference each other (opening
// balances ride the transaction path), so the processor is late-bound.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	transactionSvc := NewTransactionService(repos.TransactionRepo, repos.JournalRepo, accountSvc)
	accountSvc.SetTransactionProcessor(transactionSvc)

	journalSvc := NewJournalService(repos.JournalRepo, repos.AccountRepo)
	advanceSvc := NewAdvanceService(repos.AdvanceRepo, repos.WorkerRepo, accountSvc, transactionSvc)
	payrollSvc := NewPayrollService(repos.PayrollRepo, repos.AdvanceRepo, repos.WorkerRepo, accountSvc)
	workerSvc := NewWorkerService(repos.WorkerRepo, repos.AdvanceRepo)
	userSvc := NewUserService(repos.UserRepo)
	reportingSvc := NewReportingService(repos.ReportingRepo)

	return &portssvc.ServiceContainer{
		Account:     accountSvc,
		Transaction: transactionSvc,
		Journal:     journalSvc,
		Advance:     advanceSvc,
		Payroll:     payrollSvc,
		Worker:      workerSvc,
		User:        userSvc,
		Reporting:   reportingSvc,
	}
}
