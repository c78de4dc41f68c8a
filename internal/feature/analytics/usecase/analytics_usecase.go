// Package usecase はアナリティクス集計と提案生成を提供します。
package usecase

import (
	"context"
	"time"

	"moneymate_backend/internal/feature/analytics/domain/entity"
	userentity "moneymate_backend/internal/feature/auth/domain/entity"
	financeentity "moneymate_backend/internal/feature/finance/domain/entity"
	goalentity "moneymate_backend/internal/feature/savings/domain/entity"
)

// UserRepository はユーザーの読み取りを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
}

// TransactionRepository は取引履歴の読み取りを抽象化します。
type TransactionRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]financeentity.Transaction, error)
	ListByUserSince(ctx context.Context, userID uint, since time.Time) ([]financeentity.Transaction, error)
}

// GoalRepository は貯蓄目標の読み取りを抽象化します。
type GoalRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]goalentity.SavingsGoal, error)
}

// BadgeCounter はユーザーの獲得バッジ数の読み取りを抽象化します。
type BadgeCounter interface {
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// analyticsUsecase はアナリティクスの読み取り専用ユースケースです。
type analyticsUsecase struct {
	users        UserRepository
	transactions TransactionRepository
	goals        GoalRepository
	badges       BadgeCounter
}

// NewAnalyticsUsecase はanalyticsUsecaseの新しいインスタンスを生成します。
func NewAnalyticsUsecase(users UserRepository, transactions TransactionRepository, goals GoalRepository, badges BadgeCounter) *analyticsUsecase {
	return &analyticsUsecase{
		users:        users,
		transactions: transactions,
		goals:        goals,
		badges:       badges,
	}
}

// GetAnalytics は指定期間のアナリティクス射影を構築します。
// 集計対象は期間開始以降の取引のみなので、台帳の読み取りも期間で絞り込みます。
func (a *analyticsUsecase) GetAnalytics(ctx context.Context, userID uint, period string) (*entity.Analytics, error) {
	now := time.Now()
	period, start := periodStart(period, now)

	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := a.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, err := a.transactions.ListByUserSince(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	badgeCount, err := a.badges.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Build(user, goals, transactions, int(badgeCount), period, now), nil
}

// GetSuggestions はユーザーの現在の状態からテキスト提案を生成します。
// 提案は全履歴のパターンを見るため、期間では絞り込みません。
func (a *analyticsUsecase) GetSuggestions(ctx context.Context, userID uint) ([]string, error) {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := a.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, err := a.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Suggestions(user, goals, transactions, time.Now()), nil
}
