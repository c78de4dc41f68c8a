// Package usecase はダッシュボード射影の計算を提供します。
package usecase

import (
	"context"
	"time"

	userentity "moneymate_backend/internal/feature/auth/domain/entity"
	"moneymate_backend/internal/feature/dashboard/domain/entity"
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
}

// GoalRepository は貯蓄目標の読み取りを抽象化します。
type GoalRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]goalentity.SavingsGoal, error)
}

// BadgeCounter はユーザーの獲得バッジ数の読み取りを抽象化します。
type BadgeCounter interface {
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// dashboardUsecase はダッシュボードの読み取り専用ユースケースです。
// 書き込みは一切行いません。目標の完了判定は取引登録時に行われます。
type dashboardUsecase struct {
	users        UserRepository
	transactions TransactionRepository
	goals        GoalRepository
	badges       BadgeCounter
}

// NewDashboardUsecase はdashboardUsecaseの新しいインスタンスを生成します。
func NewDashboardUsecase(users UserRepository, transactions TransactionRepository, goals GoalRepository, badges BadgeCounter) *dashboardUsecase {
	return &dashboardUsecase{
		users:        users,
		transactions: transactions,
		goals:        goals,
		badges:       badges,
	}
}

// GetDashboard はユーザーの現在の状態からダッシュボード射影を構築します。
func (d *dashboardUsecase) GetDashboard(ctx context.Context, userID uint) (*entity.Dashboard, error) {
	user, err := d.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := d.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, err := d.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	badgeCount, err := d.badges.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Build(user, goals, transactions, int(badgeCount), time.Now()), nil
}
