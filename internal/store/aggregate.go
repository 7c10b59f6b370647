package store

import (
	"fmt"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"
)

// CategoryTotal is one grouped-sum row keyed by category name.
type CategoryTotal struct {
	Category   string `json:"category"`
	TotalCents int64  `json:"totalCents"`
}

// TypeTotal is one grouped-sum row keyed by category type.
type TypeTotal struct {
	Type       string `json:"type"`
	TotalCents int64  `json:"totalCents"`
}

// DailyTotal is one grouped-sum row keyed by calendar date.
type DailyTotal struct {
	Date       string `json:"date"`
	TotalCents int64  `json:"totalCents"`
}

// DateRange is an inclusive [Start, End] calendar-date window. It only takes
// effect when both bounds are present; a half-open range applies no filter at
// all (kept bug-compatible with the documented product behavior).
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) bounded() bool {
	return r.Start != "" && r.End != ""
}

// ExpensesByCategory sums the user's expense transactions grouped by category
// name. Categories with no matching rows are omitted, not zero-filled.
func (s *Store) ExpensesByCategory(userID uint, dates DateRange) ([]CategoryTotal, error) {
	q := s.db.Model(&models.Transaction{}).
		Select("categories.name AS category, SUM(transactions.amount_cents) AS total_cents").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND categories.type = ?", userID, models.CategoryTypeExpense)
	if dates.bounded() {
		q = q.Where("transactions.transaction_date BETWEEN ? AND ?", dates.Start, dates.End)
	}

	var rows []CategoryTotal
	if err := q.Group("categories.name").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	return rows, nil
}

// TotalsByType sums the user's transactions grouped by category type. A type
// with no transactions is omitted.
func (s *Store) TotalsByType(userID uint, dates DateRange) ([]TypeTotal, error) {
	q := s.db.Model(&models.Transaction{}).
		Select("categories.type AS type, SUM(transactions.amount_cents) AS total_cents").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID)
	if dates.bounded() {
		q = q.Where("transactions.transaction_date BETWEEN ? AND ?", dates.Start, dates.End)
	}

	var rows []TypeTotal
	if err := q.Group("categories.type").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("totals by type: %w", err)
	}
	return rows, nil
}

// ExpensesOverTime sums the user's expense transactions grouped by calendar
// date, ascending.
func (s *Store) ExpensesOverTime(userID uint, dates DateRange) ([]DailyTotal, error) {
	q := s.db.Model(&models.Transaction{}).
		Select("transactions.transaction_date AS date, SUM(transactions.amount_cents) AS total_cents").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND categories.type = ?", userID, models.CategoryTypeExpense)
	if dates.bounded() {
		q = q.Where("transactions.transaction_date BETWEEN ? AND ?", dates.Start, dates.End)
	}

	var rows []DailyTotal
	if err := q.Group("transactions.transaction_date").
		Order("transactions.transaction_date ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("expenses over time: %w", err)
	}
	return rows, nil
}
