// Package entity defines the domain entities for the finance feature.
package entity

import "time"

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a single ledger entry owned by a user.
// Transactions are append-only: they are never mutated or deleted in
// normal flows. Display ordering is by Date descending, not insertion order.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"-"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	Category    string    `gorm:"size:64;not null" json:"category"`
	Description string    `gorm:"size:255;default:''" json:"description"`
	Date        time.Time `gorm:"index;not null" json:"date"`
	IsRecurring bool      `gorm:"default:false" json:"isRecurring"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	CreatedAt   time.Time `json:"-"`
}
