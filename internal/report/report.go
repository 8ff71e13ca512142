// Package report derives summary statistics from a user's transactions. Every
// call scans the full transaction set; nothing is cached or persisted, so
// results are always as fresh as the store.
package report

import (
	"sort"

	"tally/internal/core"
)

// TransactionLister is the slice of the ledger service the engine needs.
type TransactionLister interface {
	ListFor(owner string) ([]core.Transaction, error)
}

type Engine struct {
	txs TransactionLister
}

func NewEngine(txs TransactionLister) *Engine {
	return &Engine{txs: txs}
}

// Summary holds the income/expense/balance totals for one user.
type Summary struct {
	Income  core.Money
	Expense core.Money
	Balance core.Money
}

// MonthlySeries buckets totals by month. Labels are "YYYY-MM" sorted
// ascending; Income and Expense are parallel to Labels. Months without
// transactions are absent rather than zero-filled.
type MonthlySeries struct {
	Labels  []string  `json:"labels"`
	Income  []float64 `json:"income"`
	Expense []float64 `json:"expense"`
}

// CategoryBreakdown sums expense totals per category, in order of first
// encounter. Categories with no expense transactions do not appear.
type CategoryBreakdown struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (e *Engine) Summary(owner string) (Summary, error) {
	txs, err := e.txs.ListFor(owner)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			sum.Income = sum.Income.Add(tx.Amount)
		case core.Expense:
			sum.Expense = sum.Expense.Add(tx.Amount)
		}
	}
	sum.Balance = sum.Income.Sub(sum.Expense)
	return sum, nil
}

func (e *Engine) MonthlySeries(owner string) (MonthlySeries, error) {
	txs, err := e.txs.ListFor(owner)
	if err != nil {
		return MonthlySeries{}, err
	}

	type bucket struct {
		income  core.Money
		expense core.Money
	}
	months := make(map[string]*bucket)
	for _, tx := range txs {
		if tx.Date == "" {
			continue
		}
		key := tx.Date
		if len(key) > 7 {
			key = key[:7] // YYYY-MM
		}
		b, ok := months[key]
		if !ok {
			b = &bucket{}
			months[key] = b
		}
		if tx.Type == core.Income {
			b.income = b.income.Add(tx.Amount)
		} else {
			b.expense = b.expense.Add(tx.Amount)
		}
	}

	labels := make([]string, 0, len(months))
	for key := range months {
		labels = append(labels, key)
	}
	sort.Strings(labels)

	series := MonthlySeries{
		Labels:  labels,
		Income:  make([]float64, 0, len(labels)),
		Expense: make([]float64, 0, len(labels)),
	}
	for _, key := range labels {
		series.Income = append(series.Income, months[key].income.Float())
		series.Expense = append(series.Expense, months[key].expense.Float())
	}
	return series, nil
}

func (e *Engine) CategoryBreakdown(owner string) (CategoryBreakdown, error) {
	txs, err := e.txs.ListFor(owner)
	if err != nil {
		return CategoryBreakdown{}, err
	}

	totals := make(map[string]core.Money)
	order := make([]string, 0)
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}

	breakdown := CategoryBreakdown{
		Labels: order,
		Values: make([]float64, 0, len(order)),
	}
	for _, cat := range order {
		breakdown.Values = append(breakdown.Values, totals[cat].Float())
	}
	return breakdown, nil
}
