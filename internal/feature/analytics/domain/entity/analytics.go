// Package entity defines the analytics projection returned to the client.
package entity

// Analytics periods accepted by the query parameter. Unknown values fall
// back to PeriodMonth.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// CategoryAmount is one expense category with its summed amount and its
// share of total expenses.
type CategoryAmount struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// GoalProgress is the per-goal progress block of the analytics view.
type GoalProgress struct {
	GoalName      string  `json:"goalName"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentSaved  float64 `json:"currentSaved"`
	Progress      int     `json:"progress"`
	DaysRemaining int     `json:"daysRemaining"`
	OnTrack       bool    `json:"onTrack"`
}

// Gamification summarizes the user's progression counters.
type Gamification struct {
	XP            int `json:"xp"`
	Level         int `json:"level"`
	Streak        int `json:"streak"`
	BadgeCount    int `json:"badgeCount"`
	XPToNextLevel int `json:"xpToNextLevel"`
}

// Analytics is the period-bounded aggregation over the transaction list.
type Analytics struct {
	Period            string             `json:"period"`
	TotalIncome       float64            `json:"totalIncome"`
	TotalExpenses     float64            `json:"totalExpenses"`
	NetSavings        float64            `json:"netSavings"`
	SavingsRate       float64            `json:"savingsRate"`
	TransactionCount  int                `json:"transactionCount"`
	CategoryBreakdown map[string]float64 `json:"categoryBreakdown"`
	TopCategories     []CategoryAmount   `json:"topCategories"`
	GoalsProgress     []GoalProgress     `json:"goalsProgress"`
	BudgetUsed        float64            `json:"budgetUsed"`
	Gamification      Gamification       `json:"gamification"`
	Insights          []string           `json:"insights"`
}
