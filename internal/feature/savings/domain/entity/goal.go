// Package entity defines the domain entities for the savings feature.
package entity

import "time"

// Goal categories and priorities recognized by the frontend pickers.
// Unknown values fall back to the defaults.
const (
	CategoryOther   = "Other"
	PriorityMedium  = "Medium"
	DefaultGoalTerm = 180 * 24 * time.Hour // 6 months
)

// SavingsGoal is a named target amount with a deadline the user tracks
// progress against. Once IsCompleted becomes true it is never reversed
// by normal flows; a fresh goal is created after completion instead.
type SavingsGoal struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"-"`
	GoalName     string    `gorm:"size:128;not null" json:"goalName"`
	TargetAmount float64   `gorm:"not null" json:"targetAmount"`
	CurrentSaved float64   `gorm:"not null;default:0" json:"currentSaved"`
	TargetDate   time.Time `gorm:"not null" json:"targetDate"`
	Category     string    `gorm:"size:32;default:Other" json:"category"`
	Priority     string    `gorm:"size:16;default:Medium" json:"priority"`
	IsCompleted  bool      `gorm:"default:false" json:"isCompleted"`
	CreatedAt    time.Time `json:"createdAt"`
}
