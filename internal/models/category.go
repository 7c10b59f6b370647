package models

import "time"

// Category types. Type is fixed at creation; only the name may change later.
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// Category represents income/expense category. The (user_id, name) pair is
// unique regardless of type.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_categories_user_name;not null" json:"userId"`
	Name      string    `gorm:"size:64;uniqueIndex:idx_categories_user_name;not null" json:"name"`
	Type      string    `gorm:"size:16;index;not null" json:"type"` // income / expense
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
