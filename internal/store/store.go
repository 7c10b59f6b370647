package store

import (
	"errors"
	"fmt"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"

	"gorm.io/gorm"
)

// Sentinel errors handlers translate into HTTP statuses.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Store is the data-access layer. It is constructed once per process and
// passed to every component; no package-level DB state. Every query is scoped
// by the acting user's id.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ---------- users ----------

func (s *Store) CreateUser(user *models.User) error {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", user.Email).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ErrDuplicate
	}
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *Store) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// ---------- categories ----------

func (s *Store) ListCategories(userID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a category, enforcing the (user, name) uniqueness
// invariant regardless of type.
func (s *Store) CreateCategory(category *models.Category) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", category.UserID, category.Name).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if count > 0 {
		return ErrDuplicate
	}
	if err := s.db.Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *Store) FindCategory(userID, id uint) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

// RenameCategory changes a category's name. The type is immutable after
// creation, so the name is the only mutable field.
func (s *Store) RenameCategory(userID, id uint, name string) (*models.Category, error) {
	category, err := s.FindCategory(userID, id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, name, id).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	category.Name = name
	if err := s.db.Save(category).Error; err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}
	return category, nil
}

// CountCategoryTransactions returns how many transactions reference the
// category. Deletion is blocked while this is non-zero.
func (s *Store) CountCategoryTransactions(categoryID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count category transactions: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteCategory(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{})
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FirstExpenseCategory returns the user's oldest expense-type category, or
// ErrNotFound when the user has none.
func (s *Store) FirstExpenseCategory(userID uint) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("user_id = ? AND type = ?", userID, models.CategoryTypeExpense).
		Order("id ASC").
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find expense category: %w", err)
	}
	return &category, nil
}

// ---------- transactions ----------

// TransactionFilter narrows transaction listings. The date range applies only
// when both bounds are set; a single bound leaves the listing unfiltered.
type TransactionFilter struct {
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

func (f TransactionFilter) dateBounded() bool {
	return f.StartDate != "" && f.EndDate != ""
}

func (s *Store) CreateTransaction(tx *models.Transaction) error {
	if err := s.db.Create(tx).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// CreateTransactionsBatch persists staged rows in one insert. All-or-nothing:
// on failure nothing should be assumed applied and the caller reports a hard
// failure for the whole batch.
func (s *Store) CreateTransactionsBatch(txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	if err := s.db.Create(&txs).Error; err != nil {
		return fmt.Errorf("batch create transactions: %w", err)
	}
	return nil
}

func (s *Store) FindTransaction(userID, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &tx, nil
}

// ListTransactions returns one page of the user's transactions, newest date
// first, plus the unpaginated total for the same filter.
func (s *Store) ListTransactions(userID uint, filter TransactionFilter) ([]models.Transaction, int64, error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.dateBounded() {
		base = base.Where("transaction_date BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	var txs []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Preload("Category").
		Order("transaction_date DESC, id DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&txs).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txs, total, nil
}

// RecentTransactions returns the newest transactions with their categories
// preloaded, up to limit rows.
func (s *Store) RecentTransactions(userID uint, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("transaction_date DESC, id DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return txs, nil
}

// AllTransactions returns every transaction of the user, newest date first.
func (s *Store) AllTransactions(userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("transaction_date DESC, id DESC").
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("all transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) UpdateTransaction(tx *models.Transaction) error {
	if err := s.db.Save(tx).Error; err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransaction(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TransactionExists reports whether the user already has a transaction with
// this exact natural key (date, amount, description).
func (s *Store) TransactionExists(userID uint, date string, amountCents int64, description string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_date = ? AND amount_cents = ? AND description = ?",
			userID, date, amountCents, description).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check duplicate: %w", err)
	}
	return count > 0, nil
}
