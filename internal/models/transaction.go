package models

import "time"

// Transaction represents a single income or expense record.
// Amounts are stored in cents to avoid float drift, e.g. 12.34 = 1234.
// TransactionDate is a calendar date with no time component, kept as
// YYYY-MM-DD so range filters and date grouping stay plain string compares.
type Transaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"userId"`
	CategoryID      uint      `gorm:"index;not null" json:"categoryId"`
	Description     string    `gorm:"size:255;not null" json:"description"`
	AmountCents     int64     `gorm:"not null" json:"amountCents"`
	TransactionDate string    `gorm:"size:10;index;not null" json:"transactionDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Category Category `gorm:"constraint:OnDelete:RESTRICT" json:"category"`
}
