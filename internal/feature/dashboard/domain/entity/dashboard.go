// Package entity defines the dashboard projection returned to the client.
package entity

import (
	financeentity "moneymate_backend/internal/feature/finance/domain/entity"
)

// UserSummary is the gamified header block of the dashboard.
type UserSummary struct {
	Name                string `json:"name"`
	Avatar              string `json:"avatar"`
	Level               int    `json:"level"`
	XP                  int    `json:"xp"`
	Streak              int    `json:"streak"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

// Budget summarizes the current calendar month against the monthly budget.
type Budget struct {
	MonthlyBudget        float64 `json:"monthlyBudget"`
	MonthIncome          float64 `json:"monthIncome"`
	MonthExpenses        float64 `json:"monthExpenses"`
	BudgetRemaining      float64 `json:"budgetRemaining"`
	BudgetUsedPercentage float64 `json:"budgetUsedPercentage"`
}

// GoalView is an active savings goal with derived progress figures.
type GoalView struct {
	ID            uint    `json:"id"`
	GoalName      string  `json:"goalName"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentSaved  float64 `json:"currentSaved"`
	Progress      int     `json:"progress"`
	DaysRemaining int     `json:"daysRemaining"`
	TargetDate    string  `json:"targetDate"`
	Category      string  `json:"category"`
	Priority      string  `json:"priority"`
}

// QuickStats groups the counters shown in the stat cards.
type QuickStats struct {
	TotalSaved     float64 `json:"totalSaved"`
	CurrentBalance float64 `json:"currentBalance"`
	ActiveGoals    int     `json:"activeGoals"`
	Badges         int     `json:"badges"`
}

// SpendingPower is the optional meter derived from the onboarding
// monthly-income range. Absent when no numeric range could be parsed.
type SpendingPower struct {
	Max        float64 `json:"max"`
	Current    float64 `json:"current"`
	Used       float64 `json:"used"`
	Percentage float64 `json:"percentage"`
}

// Dashboard is the full read-only projection for one user.
type Dashboard struct {
	User               UserSummary                 `json:"user"`
	Budget             Budget                      `json:"budget"`
	Goals              []GoalView                  `json:"goals"`
	RecentTransactions []financeentity.Transaction `json:"recentTransactions"`
	QuickStats         QuickStats                  `json:"quickStats"`
	SpendingPower      *SpendingPower              `json:"spendingPower,omitempty"`
}
