package usecase

import (
	"fmt"
	"math"
	"sort"
	"time"

	"moneymate_backend/internal/feature/analytics/domain/entity"
	userentity "moneymate_backend/internal/feature/auth/domain/entity"
	dashusecase "moneymate_backend/internal/feature/dashboard/usecase"
	financeentity "moneymate_backend/internal/feature/finance/domain/entity"
	gamusecase "moneymate_backend/internal/feature/gamification/usecase"
	goalentity "moneymate_backend/internal/feature/savings/domain/entity"
)

// topCategoryLimit は上位カテゴリとして返す件数です。
const topCategoryLimit = 5

// インサイト発火のしきい値。文言は契約ではなく、しきい値のみが契約です。
const (
	insightBudgetThreshold  = 80.0
	insightSavingsThreshold = 20.0
	insightStreakThreshold  = 7
)

// periodStart は集計期間の開始日時を返します。
// week: 7日前 / month: 当月1日 / year: 当年1月1日。不明な値はmonth扱いです。
func periodStart(period string, now time.Time) (string, time.Time) {
	switch period {
	case entity.PeriodWeek:
		return entity.PeriodWeek, now.AddDate(0, 0, -7)
	case entity.PeriodYear:
		return entity.PeriodYear, time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return entity.PeriodMonth, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// Build は期間で区切った取引の集計からアナリティクス射影を計算します。
// 純粋関数であり、副作用は一切行いません。
func Build(user *userentity.User, goals []goalentity.SavingsGoal, transactions []financeentity.Transaction, badgeCount int, period string, now time.Time) *entity.Analytics {
	period, start := periodStart(period, now)

	var totalIncome, totalExpenses float64
	count := 0
	breakdown := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Date.Before(start) {
			continue
		}
		count++
		switch tx.Type {
		case financeentity.TypeIncome:
			totalIncome += tx.Amount
		case financeentity.TypeExpense:
			totalExpenses += tx.Amount
			breakdown[tx.Category] += tx.Amount
		}
	}

	netSavings := totalIncome - totalExpenses
	var savingsRate float64
	if totalIncome > 0 {
		savingsRate = round2(netSavings / totalIncome * 100)
	}

	topCategories := make([]entity.CategoryAmount, 0, len(breakdown))
	for category, amount := range breakdown {
		var pct float64
		// totalExpensesが0の場合、割合は未定義ではなく0として扱います。
		if totalExpenses > 0 {
			pct = round2(amount / totalExpenses * 100)
		}
		topCategories = append(topCategories, entity.CategoryAmount{
			Category:   category,
			Amount:     amount,
			Percentage: pct,
		})
	}
	sort.Slice(topCategories, func(i, j int) bool {
		if topCategories[i].Amount != topCategories[j].Amount {
			return topCategories[i].Amount > topCategories[j].Amount
		}
		return topCategories[i].Category < topCategories[j].Category
	})
	if len(topCategories) > topCategoryLimit {
		topCategories = topCategories[:topCategoryLimit]
	}

	goalsProgress := make([]entity.GoalProgress, 0, len(goals))
	for _, g := range goals {
		days := dashusecase.DaysRemaining(g.TargetDate, now)
		goalsProgress = append(goalsProgress, entity.GoalProgress{
			GoalName:      g.GoalName,
			TargetAmount:  g.TargetAmount,
			CurrentSaved:  g.CurrentSaved,
			Progress:      dashusecase.GoalProgress(g.CurrentSaved, g.TargetAmount),
			DaysRemaining: days,
			OnTrack:       g.CurrentSaved >= g.TargetAmount*(1-float64(days)/365),
		})
	}

	var budgetUsed float64
	if user.MonthlyBudget > 0 {
		budgetUsed = round2(totalExpenses / user.MonthlyBudget * 100)
	}

	return &entity.Analytics{
		Period:            period,
		TotalIncome:       totalIncome,
		TotalExpenses:     totalExpenses,
		NetSavings:        netSavings,
		SavingsRate:       savingsRate,
		TransactionCount:  count,
		CategoryBreakdown: breakdown,
		TopCategories:     topCategories,
		GoalsProgress:     goalsProgress,
		BudgetUsed:        budgetUsed,
		Gamification: entity.Gamification{
			XP:            user.XP,
			Level:         user.Level,
			Streak:        user.Streak,
			BadgeCount:    badgeCount,
			XPToNextLevel: user.Level*gamusecase.XPPerLevel - user.XP,
		},
		Insights: insights(budgetUsed, savingsRate, user.Streak),
	}
}

// insights はしきい値に応じた定型インサイトを返します。
func insights(budgetUsed, savingsRate float64, streak int) []string {
	result := make([]string, 0, 3)
	if budgetUsed > insightBudgetThreshold {
		result = append(result, fmt.Sprintf("You've used %.0f%% of your monthly budget. Consider slowing down your spending.", budgetUsed))
	}
	if savingsRate > insightSavingsThreshold {
		result = append(result, fmt.Sprintf("Great job! You're saving %.0f%% of your income this period.", savingsRate))
	}
	if streak > insightStreakThreshold {
		result = append(result, fmt.Sprintf("Amazing! You're on a %d-day check-in streak. Keep it up!", streak))
	}
	return result
}

// Suggestions はダッシュボードデータからシンプルなテキスト提案を生成します。
func Suggestions(user *userentity.User, goals []goalentity.SavingsGoal, transactions []financeentity.Transaction, now time.Time) []string {
	suggestions := make([]string, 0, 3)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	breakdown := make(map[string]float64)
	var monthExpenses float64
	for _, tx := range transactions {
		if tx.Date.Before(monthStart) || tx.Type != financeentity.TypeExpense {
			continue
		}
		breakdown[tx.Category] += tx.Amount
		monthExpenses += tx.Amount
	}

	if biggest, amount := biggestCategory(breakdown); biggest != "" {
		suggestions = append(suggestions, fmt.Sprintf("Your biggest spending category this month is %s (%.2f). See if you can trim it.", biggest, amount))
	}

	for _, g := range goals {
		if g.IsCompleted {
			continue
		}
		progress := dashusecase.GoalProgress(g.CurrentSaved, g.TargetAmount)
		suggestions = append(suggestions, fmt.Sprintf("You're %d%% of the way to \"%s\". Small regular deposits add up!", progress, g.GoalName))
		break
	}

	if user.MonthlyBudget > 0 {
		remaining := math.Max(0, user.MonthlyBudget-monthExpenses)
		if remaining/user.MonthlyBudget < 0.2 {
			suggestions = append(suggestions, fmt.Sprintf("Heads up: only %.2f of your monthly budget is left.", remaining))
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Add a few transactions and a savings goal to get personalized suggestions.")
	}
	return suggestions
}

// biggestCategory は支出額が最大のカテゴリを返します。同額の場合は名前順です。
func biggestCategory(breakdown map[string]float64) (string, float64) {
	var name string
	var max float64
	for category, amount := range breakdown {
		if amount > max || (amount == max && (name == "" || category < name)) {
			name = category
			max = amount
		}
	}
	return name, max
}

// round2 は小数第2位までの丸めを行います。
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
