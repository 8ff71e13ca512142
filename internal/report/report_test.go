package report

import (
	"context"
	"testing"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, txs ...core.Transaction) *Engine {
	t.Helper()
	svc := ledger.NewService(store.NewMemStore(), nil)
	ctx := context.Background()
	for _, tx := range txs {
		_, err := svc.Create(ctx, tx.Owner, tx.Type, tx.Date, tx.Category, tx.Amount.String(), tx.Description)
		require.NoError(t, err)
	}
	return NewEngine(svc)
}

func tx(owner string, typ core.TxType, date, category string, cents int64) core.Transaction {
	return core.Transaction{
		Owner:    owner,
		Type:     typ,
		Date:     date,
		Category: category,
		Amount:   core.Money{Cents: cents},
	}
}

func TestSummary(t *testing.T) {
	engine := seed(t,
		tx("alice", core.Income, "2024-01-15", "Other", 10000),
		tx("alice", core.Expense, "2024-01-20", "Food", 4000),
		tx("bob", core.Income, "2024-01-20", "Other", 99900), // other owner ignored
	)

	sum, err := engine.Summary("alice")
	require.NoError(t, err)
	assert.Equal(t, "100.00", sum.Income.String())
	assert.Equal(t, "40.00", sum.Expense.String())
	assert.Equal(t, "60.00", sum.Balance.String())
}

func TestSummaryEmpty(t *testing.T) {
	engine := seed(t)
	sum, err := engine.Summary("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.Income.Cents)
	assert.Equal(t, int64(0), sum.Expense.Cents)
	assert.Equal(t, int64(0), sum.Balance.Cents)
}

func TestMonthlySeriesGroupsByMonth(t *testing.T) {
	engine := seed(t,
		tx("alice", core.Expense, "2024-01-15", "Food", 1000),
		tx("alice", core.Expense, "2024-01-20", "Food", 2000),
		tx("alice", core.Income, "2024-02-01", "Other", 5000),
	)

	series, err := engine.MonthlySeries("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01", "2024-02"}, series.Labels)
	assert.Equal(t, []float64{0, 50}, series.Income)
	assert.Equal(t, []float64{30, 0}, series.Expense)
}

func TestMonthlySeriesSkipsEmptyDates(t *testing.T) {
	// Empty dates never come in through Create, but old rows may carry them;
	// feed the engine directly.
	engine := NewEngine(listerFunc(func(owner string) ([]core.Transaction, error) {
		return []core.Transaction{
			{Owner: owner, Type: core.Expense, Date: "", Category: "Food", Amount: core.Money{Cents: 100}},
			{Owner: owner, Type: core.Expense, Date: "2024-03-02", Category: "Food", Amount: core.Money{Cents: 200}},
		}, nil
	}))

	series, err := engine.MonthlySeries("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03"}, series.Labels)
	assert.Equal(t, []float64{2}, series.Expense)
}

type listerFunc func(owner string) ([]core.Transaction, error)

func (f listerFunc) ListFor(owner string) ([]core.Transaction, error) { return f(owner) }

func TestMonthlySeriesLabelsSortedAscending(t *testing.T) {
	engine := seed(t,
		tx("alice", core.Expense, "2024-03-01", "Food", 100),
		tx("alice", core.Expense, "2023-12-31", "Food", 100),
		tx("alice", core.Expense, "2024-01-15", "Food", 100),
	)

	series, err := engine.MonthlySeries("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-12", "2024-01", "2024-03"}, series.Labels)
}

func TestCategoryBreakdown(t *testing.T) {
	engine := seed(t,
		tx("alice", core.Expense, "2024-01-01", "Transport", 500),
		tx("alice", core.Expense, "2024-01-02", "Food", 1000),
		tx("alice", core.Expense, "2024-01-03", "Transport", 700),
		tx("alice", core.Income, "2024-01-04", "Other", 99999), // income never counted
	)

	breakdown, err := engine.CategoryBreakdown("alice")
	require.NoError(t, err)
	// Insertion order of first encounter, not sorted.
	assert.Equal(t, []string{"Transport", "Food"}, breakdown.Labels)
	assert.Equal(t, []float64{12, 10}, breakdown.Values)
}

func TestCategoryBreakdownEmpty(t *testing.T) {
	engine := seed(t,
		tx("alice", core.Income, "2024-01-04", "Other", 5000),
	)

	breakdown, err := engine.CategoryBreakdown("alice")
	require.NoError(t, err)
	assert.Empty(t, breakdown.Labels)
	assert.Empty(t, breakdown.Values)
	assert.NotNil(t, breakdown.Values)
}
