// Package importer is the bulk-import pipeline: parsed statement candidates
// are checked against already-persisted transactions, assigned a fallback
// category, and written in one batch.
package importer

import (
	"errors"
	"fmt"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/parser"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/store"
)

// FallbackCategoryName is auto-created when the user has no expense category
// to attach imported rows to.
const FallbackCategoryName = "Uncategorized"

// Store is the slice of the data layer the pipeline needs.
type Store interface {
	FirstExpenseCategory(userID uint) (*models.Category, error)
	CreateCategory(category *models.Category) error
	TransactionExists(userID uint, date string, amountCents int64, description string) (bool, error)
	CreateTransactionsBatch(txs []models.Transaction) error
}

// Result reports how the batch broke down.
type Result struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
}

// Importer deduplicates and persists statement candidates for one store.
type Importer struct {
	store Store
}

func New(st Store) *Importer {
	return &Importer{store: st}
}

// ImportStatement parses every line of the statement text and persists the
// rows not already present for this user.
//
// A duplicate is an exact (date, amount, trimmed description) match against
// persisted data only. Candidates within the same batch are never checked
// against each other: statement lines that look identical can be legitimate
// separate transactions split across billing cycles, so same-batch repeats
// are all imported. Two genuinely distinct transactions sharing the full
// natural key are dropped as duplicates on re-import; that is an accepted
// heuristic limitation.
//
// The final insert is one batch and is not atomic with the duplicate checks.
// If it fails the whole import must be treated as not applied.
func (im *Importer) ImportStatement(userID uint, text string) (Result, error) {
	category, err := im.fallbackCategory(userID)
	if err != nil {
		return Result{}, err
	}

	var result Result
	var staged []models.Transaction

	for _, candidate := range parser.ParseStatement(text) {
		exists, err := im.store.TransactionExists(
			userID, candidate.Date, candidate.AmountCents, candidate.Description)
		if err != nil {
			return Result{}, fmt.Errorf("duplicate check: %w", err)
		}
		if exists {
			result.Duplicates++
			continue
		}

		staged = append(staged, models.Transaction{
			UserID:          userID,
			CategoryID:      category.ID,
			Description:     candidate.Description,
			AmountCents:     candidate.AmountCents,
			TransactionDate: candidate.Date,
		})
		result.Imported++
	}

	if err := im.store.CreateTransactionsBatch(staged); err != nil {
		return Result{}, fmt.Errorf("persist batch: %w", err)
	}
	return result, nil
}

// fallbackCategory resolves the user's first expense category, creating
// "Uncategorized" when none exists yet.
func (im *Importer) fallbackCategory(userID uint) (*models.Category, error) {
	category, err := im.store.FirstExpenseCategory(userID)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("resolve fallback category: %w", err)
	}

	created := &models.Category{
		UserID: userID,
		Name:   FallbackCategoryName,
		Type:   models.CategoryTypeExpense,
	}
	if err := im.store.CreateCategory(created); err != nil {
		return nil, fmt.Errorf("create fallback category: %w", err)
	}
	return created, nil
}
