// Package entity defines the domain entities for the gamification feature.
package entity

import "time"

// Badge is a named achievement marker owned by a user.
// The name acts as a de-duplication key within a user: a badge with the
// same name is never awarded twice.
type Badge struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	UserID   uint      `gorm:"index:idx_badges_user_name,unique;not null" json:"-"`
	Name     string    `gorm:"index:idx_badges_user_name,unique;size:64;not null" json:"name"`
	Icon     string    `gorm:"size:16" json:"icon"`
	EarnedAt time.Time `gorm:"not null" json:"earnedAt"`
}
