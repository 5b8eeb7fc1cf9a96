package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
)

// NewRepositoryProvider builds every pgx-backed repository against one pool.
// The ledger repositories share the account and journal repositories so their
// commit batches can lock balances and append entries inside one database
// transaction.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	journalRepo := newPgxJournalRepository(pool, accountRepo)
	txnRepo := newPgxTransactionRepository(pool, accountRepo, journalRepo)
	advanceRepo := newPgxAdvanceRepository(pool)
	payrollRepo := newPgxPayrollRepository(pool, accountRepo, txnRepo, journalRepo, advanceRepo)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: txnRepo,
		JournalRepo:     journalRepo,
		AdvanceRepo:     advanceRepo,
		PayrollRepo:     payrollRepo,
		WorkerRepo:      newPgxWorkerRepository(pool),
		UserRepo:        newPgxUserRepository(pool),
		ReportingRepo:   newPgxReportingRepository(pool),
	}
}
