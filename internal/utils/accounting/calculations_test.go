package accounting_test

import (
	"math/rand"
	"testing"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	"github.com/buildbooks/build_books_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedDelta(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name     string
		side     accounting.Side
		category domain.AccountCategory
		want     string
	}{
		{"debit to asset is positive", accounting.DebitSide, domain.Asset, "100"},
		{"credit to asset is negative", accounting.CreditSide, domain.Asset, "-100"},
		{"debit to expense is positive", accounting.DebitSide, domain.Expense, "100"},
		{"credit to expense is negative", accounting.CreditSide, domain.Expense, "-100"},
		{"debit to liability is negative", accounting.DebitSide, domain.Liability, "-100"},
		{"credit to liability is positive", accounting.CreditSide, domain.Liability, "100"},
		{"debit to equity is negative", accounting.DebitSide, domain.Equity, "-100"},
		{"credit to revenue is positive", accounting.CreditSide, domain.Revenue, "100"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := accounting.SignedDelta(tc.side, tc.category, amount)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestSignedDeltaUnknownCategory(t *testing.T) {
	_, err := accounting.SignedDelta(accounting.DebitSide, domain.AccountCategory("BOGUS"), decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestEntrySides(t *testing.T) {
	debit, credit, err := accounting.EntrySides(domain.TypeExpense, "cash", "", "expense")
	require.NoError(t, err)
	assert.Equal(t, "expense", debit)
	assert.Equal(t, "cash", credit)

	debit, credit, err = accounting.EntrySides(domain.TypeIncome, "bank", "", "revenue")
	require.NoError(t, err)
	assert.Equal(t, "bank", debit)
	assert.Equal(t, "revenue", credit)

	debit, credit, err = accounting.EntrySides(domain.TypeTransfer, "bank", "wallet", "")
	require.NoError(t, err)
	assert.Equal(t, "wallet", debit)
	assert.Equal(t, "bank", credit)

	_, _, err = accounting.EntrySides(domain.TransactionType("BOGUS"), "a", "b", "c")
	assert.Error(t, err)
}

func TestBalanceChangesTransfer(t *testing.T) {
	entry := domain.JournalEntry{
		EntryID:         "e1",
		DebitAccountID:  "wallet",
		CreditAccountID: "bank",
		Amount:          decimal.NewFromInt(1000),
	}

	changes, err := accounting.BalanceChanges(entry, domain.Asset, domain.Asset)
	require.NoError(t, err)
	assert.Equal(t, "1000", changes["wallet"].String())
	assert.Equal(t, "-1000", changes["bank"].String())
}

func TestComputeGrossWage(t *testing.T) {
	// dailyRate=200, daysPresent=20, halfDays=2, overtimeHours=5, overtimeRate=30
	// => 200*21 + 30*5 = 4350
	gross := accounting.ComputeGrossWage(20, 2,
		decimal.NewFromInt(5), decimal.NewFromInt(200), decimal.NewFromInt(30))
	assert.Equal(t, "4350", gross.String())
}

func TestComputeGrossWageHalfDayExact(t *testing.T) {
	// A single half day at an odd rate must not round mid-computation.
	gross := accounting.ComputeGrossWage(0, 1,
		decimal.Zero, decimal.NewFromInt(333), decimal.Zero)
	assert.Equal(t, "166.5", gross.String())
}

func TestComputeNetWageNotClamped(t *testing.T) {
	net := accounting.ComputeNetWage(decimal.NewFromInt(100), decimal.NewFromInt(80), decimal.NewFromInt(50))
	assert.Equal(t, "-30", net.String())
}

// Wage formulas are pure: the same inputs always produce the same output.
func TestComputeGrossWageDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		days := rng.Intn(31)
		half := rng.Intn(10)
		ot := decimal.NewFromFloat(rng.Float64() * 20).Round(2)
		rate := decimal.NewFromFloat(rng.Float64() * 1000).Round(2)
		otRate := decimal.NewFromFloat(rng.Float64() * 100).Round(2)

		first := accounting.ComputeGrossWage(days, half, ot, rate, otRate)
		second := accounting.ComputeGrossWage(days, half, ot, rate, otRate)
		require.True(t, first.Equal(second),
			"gross wage not deterministic for days=%d half=%d ot=%s rate=%s otRate=%s", days, half, ot, rate, otRate)
		require.True(t, first.GreaterThanOrEqual(decimal.Zero))
	}
}
