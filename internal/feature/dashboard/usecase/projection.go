package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	userentity "moneymate_backend/internal/feature/auth/domain/entity"
	"moneymate_backend/internal/feature/dashboard/domain/entity"
	financeentity "moneymate_backend/internal/feature/finance/domain/entity"
	goalentity "moneymate_backend/internal/feature/savings/domain/entity"
)

// recentTransactionLimit はダッシュボードに表示する直近取引の件数です。
const recentTransactionLimit = 5

// incomeNumberPattern はオンボーディングの収入レンジ文字列から数値を抽出します。
// 通貨記号やカンマ区切りを許容します（例: "₹20,000 - ₹30,000"）。
var incomeNumberPattern = regexp.MustCompile(`\d[\d,]*`)

// Build はユーザーの生の取引・目標履歴からダッシュボード射影を計算します。
// 純粋関数であり、副作用（保存・キャッシュ操作）は一切行いません。
// 取引は日付の降順で渡されることを前提とします。
func Build(user *userentity.User, goals []goalentity.SavingsGoal, transactions []financeentity.Transaction, badgeCount int, now time.Time) *entity.Dashboard {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var monthIncome, monthExpenses float64
	for _, tx := range transactions {
		if tx.Date.Before(monthStart) {
			continue
		}
		switch tx.Type {
		case financeentity.TypeIncome:
			monthIncome += tx.Amount
		case financeentity.TypeExpense:
			monthExpenses += tx.Amount
		}
	}

	budget := entity.Budget{
		MonthlyBudget:        user.MonthlyBudget,
		MonthIncome:          monthIncome,
		MonthExpenses:        monthExpenses,
		BudgetRemaining:      math.Max(0, user.MonthlyBudget+monthIncome-monthExpenses),
		BudgetUsedPercentage: budgetUsedPercentage(monthExpenses, user.MonthlyBudget),
	}

	activeGoals := make([]entity.GoalView, 0)
	var totalGoalSaved float64
	for _, g := range goals {
		totalGoalSaved += g.CurrentSaved
		if g.IsCompleted {
			continue
		}
		activeGoals = append(activeGoals, entity.GoalView{
			ID:            g.ID,
			GoalName:      g.GoalName,
			TargetAmount:  g.TargetAmount,
			CurrentSaved:  g.CurrentSaved,
			Progress:      GoalProgress(g.CurrentSaved, g.TargetAmount),
			DaysRemaining: DaysRemaining(g.TargetDate, now),
			TargetDate:    g.TargetDate.Format("2006-01-02"),
			Category:      g.Category,
			Priority:      g.Priority,
		})
	}

	recent := transactions
	if len(recent) > recentTransactionLimit {
		recent = recent[:recentTransactionLimit]
	}

	dash := &entity.Dashboard{
		User: entity.UserSummary{
			Name:                user.Name,
			Avatar:              user.Avatar,
			Level:               user.Level,
			XP:                  user.XP,
			Streak:              user.Streak,
			OnboardingCompleted: user.OnboardingCompleted,
		},
		Budget:             budget,
		Goals:              activeGoals,
		RecentTransactions: recent,
		QuickStats: entity.QuickStats{
			TotalSaved:     user.TotalSaved,
			CurrentBalance: user.CurrentBalance,
			ActiveGoals:    len(activeGoals),
			Badges:         badgeCount,
		},
	}

	if baseIncome, ok := ParseMonthlyIncome(user.MonthlyIncome); ok {
		max := baseIncome + totalGoalSaved
		sp := &entity.SpendingPower{
			Max:     max,
			Current: user.CurrentBalance,
			Used:    math.Max(0, max-user.CurrentBalance),
		}
		if max > 0 {
			sp.Percentage = round2(user.CurrentBalance / max * 100)
		}
		dash.SpendingPower = sp
	}

	return dash
}

// budgetUsedPercentage は月間支出の予算消化率を0〜100にクランプして返します。
// 予算未設定（0以下）の場合は0を返します。
func budgetUsedPercentage(monthExpenses, monthlyBudget float64) float64 {
	if monthlyBudget <= 0 {
		return 0
	}
	pct := monthExpenses / monthlyBudget * 100
	return round2(math.Min(100, math.Max(0, pct)))
}

// GoalProgress は目標の達成率を0〜100の整数パーセントで返します。
func GoalProgress(saved, target float64) int {
	if target <= 0 {
		return 0
	}
	pct := int(math.Round(saved / target * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// DaysRemaining は目標期日までの残日数（切り上げ、最小0）を返します。
func DaysRemaining(targetDate, now time.Time) int {
	days := int(math.Ceil(targetDate.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// ParseMonthlyIncome はオンボーディングの収入レンジ自由入力から基準収入を抽出します。
// 数値が見つからない場合は (0, false) を返します。
func ParseMonthlyIncome(raw string) (float64, bool) {
	match := incomeNumberPattern.FindString(raw)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// round2 は小数第2位までの丸めを行います。
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
