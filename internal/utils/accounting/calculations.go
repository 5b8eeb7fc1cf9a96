package accounting

import (
	"fmt"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Side is the side of a journal entry an account sits on.
type Side string

const (
	DebitSide  Side = "DEBIT"
	CreditSide Side = "CREDIT"
)

// SignedDelta returns the signed balance effect of placing amount on the given
// side of an account of the given category.
//
// DEBIT to ASSET/EXPENSE -> positive, CREDIT to ASSET/EXPENSE -> negative.
// DEBIT to LIABILITY/EQUITY/REVENUE -> negative, CREDIT -> positive.
func SignedDelta(side Side, category domain.AccountCategory, amount decimal.Decimal) (decimal.Decimal, error) {
	switch category {
	case domain.Asset, domain.Expense:
		if side == CreditSide {
			return amount.Neg(), nil
		}
		return amount, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		if side == DebitSide {
			return amount.Neg(), nil
		}
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account category %q", category)
	}
}

// EntrySides resolves the debit/credit account pair for a transaction per the
// type-to-side mapping: EXPENSE debits the counter (expense) account and
// credits the paying account; INCOME debits the receiving account and credits
// the counter (revenue) account; TRANSFER debits the destination and credits
// the source.
func EntrySides(txnType domain.TransactionType, sourceAccountID, destinationAccountID, counterAccountID string) (debitAccountID, creditAccountID string, err error) {
	switch txnType {
	case domain.TypeExpense:
		return counterAccountID, sourceAccountID, nil
	case domain.TypeIncome:
		return sourceAccountID, counterAccountID, nil
	case domain.TypeTransfer:
		return destinationAccountID, sourceAccountID, nil
	default:
		return "", "", fmt.Errorf("unknown transaction type %q", txnType)
	}
}

// BalanceChanges computes the per-account signed balance deltas produced by a
// journal entry, given the categories of both accounts.
func BalanceChanges(entry domain.JournalEntry, debitCategory, creditCategory domain.AccountCategory) (map[string]decimal.Decimal, error) {
	debitDelta, err := SignedDelta(DebitSide, debitCategory, entry.Amount)
	if err != nil {
		return nil, fmt.Errorf("debit side of entry %s: %w", entry.EntryID, err)
	}
	creditDelta, err := SignedDelta(CreditSide, creditCategory, entry.Amount)
	if err != nil {
		return nil, fmt.Errorf("credit side of entry %s: %w", entry.EntryID, err)
	}
	return map[string]decimal.Decimal{
		entry.DebitAccountID:  debitDelta,
		entry.CreditAccountID: creditDelta,
	}, nil
}

// ComputeGrossWage implements the wage accrual formula:
// dailyRate*(daysPresent + 0.5*halfDays) + overtimeRate*overtimeHours.
// Exact decimal arithmetic, no rounding mid-computation.
func ComputeGrossWage(daysPresent, halfDays int, overtimeHours, dailyRate, overtimeRate decimal.Decimal) decimal.Decimal {
	days := decimal.NewFromInt(int64(daysPresent)).
		Add(decimal.NewFromInt(int64(halfDays)).Div(decimal.NewFromInt(2)))
	return dailyRate.Mul(days).Add(overtimeRate.Mul(overtimeHours))
}

// ComputeNetWage returns gross minus deductions minus advances deducted.
// The result is deliberately not clamped; a negative net wage is a valid
// state the caller must handle.
func ComputeNetWage(grossWage, deductions, advancesDeducted decimal.Decimal) decimal.Decimal {
	return grossWage.Sub(deductions).Sub(advancesDeducted)
}
