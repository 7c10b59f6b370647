// Package analytics computes the three summary views served by the
// analytics endpoint. All heavy lifting is grouped-sum queries in the store;
// this layer owns the date-range contract and assembles the response.
package analytics

import (
	"fmt"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/store"
)

// Store is the slice of the data layer the aggregator needs.
type Store interface {
	ExpensesByCategory(userID uint, dates store.DateRange) ([]store.CategoryTotal, error)
	TotalsByType(userID uint, dates store.DateRange) ([]store.TypeTotal, error)
	ExpensesOverTime(userID uint, dates store.DateRange) ([]store.DailyTotal, error)
}

// Summary bundles the three independent aggregate views.
type Summary struct {
	ExpensesByCategory []store.CategoryTotal `json:"expensesByCategory"`
	IncomeVsExpense    []store.TypeTotal     `json:"incomeVsExpense"`
	ExpensesOverTime   []store.DailyTotal    `json:"expensesOverTime"`
}

type Aggregator struct {
	store Store
}

func New(st Store) *Aggregator {
	return &Aggregator{store: st}
}

// Summarize computes the three views for the user. The range is applied only
// when both bounds are supplied; one bound alone disables date filtering
// entirely. That is the documented product behavior, kept as-is.
func (a *Aggregator) Summarize(userID uint, startDate, endDate string) (*Summary, error) {
	dates := store.DateRange{}
	if startDate != "" && endDate != "" {
		dates = store.DateRange{Start: startDate, End: endDate}
	}

	byCategory, err := a.store.ExpensesByCategory(userID, dates)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	byType, err := a.store.TotalsByType(userID, dates)
	if err != nil {
		return nil, fmt.Errorf("income vs expense: %w", err)
	}
	overTime, err := a.store.ExpensesOverTime(userID, dates)
	if err != nil {
		return nil, fmt.Errorf("expenses over time: %w", err)
	}

	// Empty views serialize as [] rather than null.
	if byCategory == nil {
		byCategory = []store.CategoryTotal{}
	}
	if byType == nil {
		byType = []store.TypeTotal{}
	}
	if overTime == nil {
		overTime = []store.DailyTotal{}
	}

	return &Summary{
		ExpensesByCategory: byCategory,
		IncomeVsExpense:    byType,
		ExpensesOverTime:   overTime,
	}, nil
}
