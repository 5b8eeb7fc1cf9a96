package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/buildbooks/build_books_app/internal/apperrors"
	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for cross-entity queries.
func newPgxReportingRepository(pool *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetAccountStatement lists the account's ledger activity in a date range
// with running balances. Each line is a journal entry side; the opening
// balance before the range seeds the running sum.
func (r *PgxReportingRepository) GetAccountStatement(ctx context.Context, accountID string, from, to time.Time) ([]domain.StatementLine, error) {
	var category domain.AccountCategory
	err := r.Pool.QueryRow(ctx, `SELECT category FROM accounts WHERE account_id = $1;`, accountID).Scan(&category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch account %s: %w", accountID, err)
	}

	// Signed effect of one entry side on this account: debit adds on
	// debit-normal categories, credit adds on credit-normal ones.
	signedExpr := `CASE WHEN j.debit_account_id = $1 THEN j.amount ELSE -j.amount END`
	if !category.IsDebitNormal() {
		signedExpr = `CASE WHEN j.credit_account_id = $1 THEN j.amount ELSE -j.amount END`
	}

	openingQuery := `
		SELECT COALESCE(SUM(` + signedExpr + `), 0)
		FROM journal_entries j
		WHERE (j.debit_account_id = $1 OR j.credit_account_id = $1)
		  AND j.entry_date < $2;
	`
	var running decimal.Decimal
	if err := r.Pool.QueryRow(ctx, openingQuery, accountID, from).Scan(&running); err != nil {
		return nil, fmt.Errorf("failed to compute opening balance for account %s: %w", accountID, err)
	}

	query := `
		SELECT COALESCE(t.transaction_id, j.entry_id),
		       j.entry_date,
		       COALESCE(t.transaction_type, ''),
		       COALESCE(t.category, ''),
		       j.description,
		       ` + signedExpr + ` AS signed_amount
		FROM journal_entries j
		LEFT JOIN transactions t ON t.journal_entry_id = j.entry_id
		WHERE (j.debit_account_id = $1 OR j.credit_account_id = $1)
		  AND j.entry_date >= $2 AND j.entry_date <= $3
		ORDER BY j.entry_date ASC, j.created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var lines []domain.StatementLine
	for rows.Next() {
		var line domain.StatementLine
		var txnType string
		err := rows.Scan(
			&line.TransactionID,
			&line.TransactionDate,
			&txnType,
			&line.Category,
			&line.Description,
			&line.SignedAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement line: %w", err)
		}
		line.Type = domain.TransactionType(txnType)
		running = running.Add(line.SignedAmount)
		line.RunningBalance = running
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement lines: %w", err)
	}
	return lines, nil
}

// GetTrialBalanceData produces one debit/credit row per active account from
// its persisted balance. Debit-normal categories land in the debit column
// when positive; negative balances flip sides.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.category,
		       COALESCE(SUM(CASE WHEN j.debit_account_id = a.account_id THEN j.amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN j.credit_account_id = a.account_id THEN j.amount ELSE 0 END), 0)
		FROM accounts a
		LEFT JOIN journal_entries j
		  ON (j.debit_account_id = a.account_id OR j.credit_account_id = a.account_id)
		 AND j.entry_date <= $1
		GROUP BY a.account_id, a.code, a.name, a.category
		ORDER BY a.code ASC;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var debitTotal, creditTotal decimal.Decimal
		if err := rows.Scan(&row.AccountID, &row.Code, &row.AccountName, &row.Category, &debitTotal, &creditTotal); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		// Net each account to a single column.
		net := debitTotal.Sub(creditTotal)
		if net.IsNegative() {
			row.Credit = net.Neg()
		} else {
			row.Debit = net
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// GetPayrollSummary aggregates payroll totals grouped by status for a period.
func (r *PgxReportingRepository) GetPayrollSummary(ctx context.Context, from, to time.Time, projectID *string) ([]domain.PayrollSummaryRow, error) {
	query := `
		SELECT status, COUNT(*),
		       COALESCE(SUM(gross_wage), 0),
		       COALESCE(SUM(deductions), 0),
		       COALESCE(SUM(advances_deducted), 0),
		       COALESCE(SUM(net_wage), 0)
		FROM payroll_entries
		WHERE period_end >= $1 AND period_start <= $2`
	args := []any{from, to}
	if projectID != nil {
		query += " AND project_id = $3"
		args = append(args, *projectID)
	}
	query += " GROUP BY status ORDER BY status;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll summary: %w", err)
	}
	defer rows.Close()

	var result []domain.PayrollSummaryRow
	for rows.Next() {
		var row domain.PayrollSummaryRow
		err := rows.Scan(&row.Status, &row.EntryCount, &row.GrossWage, &row.Deductions, &row.AdvancesDeducted, &row.NetWage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll summary row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payroll summary rows: %w", err)
	}
	return result, nil
}
