// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Preferences holds per-user display and notification settings.
// It is embedded into the users table with a "pref_" column prefix.
type Preferences struct {
	Currency      string `gorm:"size:8;default:INR" json:"currency"`
	Notifications bool   `gorm:"default:true" json:"notifications"`
	VoiceEnabled  bool   `gorm:"default:true" json:"voiceEnabled"`
	Theme         string `gorm:"size:16;default:dark" json:"theme"`
}

// User represents a registered account and its gamified finance state.
// Transactions, savings goals and badges are owned exclusively by the user
// row and are cascade-deleted with it; they are never shared across users.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`

	// Name is the display name shown on the dashboard.
	Name string `gorm:"size:255;not null" json:"name"`

	// Email is the user's email address used for authentication.
	// It is stored lowercased and must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`

	// Password is the bcrypt hash of the user's password.
	// External-identity accounts store a random placeholder hash.
	Password string `gorm:"size:255;not null" json:"-"`

	// GoogleID links the account to a Google identity (empty when unused).
	GoogleID string `gorm:"index;size:64;default:''" json:"-"`

	// Avatar is a single glyph shown next to the user's name.
	Avatar string `gorm:"size:16;default:👤" json:"avatar"`

	// XP is a monotonic counter driving the level. It never decreases
	// in normal flows.
	XP int `gorm:"not null;default:0" json:"xp"`

	// Level is derived from XP (xp/1000 + 1) and stored denormalized.
	Level int `gorm:"not null;default:1" json:"level"`

	// Streak counts consecutive daily check-ins.
	Streak int `gorm:"not null;default:0" json:"streak"`

	// LastCheckIn is the time of the most recent check-in, nil before
	// the first one.
	LastCheckIn *time.Time `json:"lastCheckIn"`

	// TrackedExpenses counts expense transactions ever recorded.
	// It drives the milestone badges at 10 and 50.
	TrackedExpenses int `gorm:"not null;default:0" json:"trackedExpenses"`

	// CurrentBalance is the signed running total of the ledger.
	CurrentBalance float64 `gorm:"not null;default:0" json:"currentBalance"`

	// MonthlyBudget defaults to the initial balance at account creation.
	MonthlyBudget float64 `gorm:"not null;default:0" json:"monthlyBudget"`

	// TotalSaved is the lifetime amount put aside toward goals.
	TotalSaved float64 `gorm:"not null;default:0" json:"totalSaved"`

	Preferences Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`

	// Onboarding profile, free-form and only used to personalize
	// AI prompts and the spending-power meter.
	MonthlyIncome       string   `gorm:"size:64;default:''" json:"monthlyIncome"`
	AgeGroup            string   `gorm:"size:32;default:''" json:"ageGroup"`
	SpendingHabits      []string `gorm:"serializer:json" json:"spendingHabits"`
	TrackingLevel       string   `gorm:"size:32;default:''" json:"trackingLevel"`
	ReminderFreq        string   `gorm:"size:32;default:''" json:"reminderFreq"`
	Motivation          []string `gorm:"serializer:json" json:"motivation"`
	OnboardingCompleted bool     `gorm:"default:false" json:"onboardingCompleted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
