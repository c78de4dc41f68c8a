// Package usecase は貯蓄目標のビジネスロジックを提供します。
package usecase

import (
	"context"
	"errors"
	"time"

	"moneymate_backend/internal/feature/savings/domain/entity"
)

// 貯蓄目標バリデーションのセンチネルエラー。
var (
	ErrGoalNameRequired = errors.New("goal name is required")
	ErrInvalidTarget    = errors.New("target amount must be positive")
)

// GoalRepository は貯蓄目標の永続化を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type GoalRepository interface {
	Create(ctx context.Context, goal *entity.SavingsGoal) error
	ListByUser(ctx context.Context, userID uint) ([]entity.SavingsGoal, error)
}

// GoalInput は貯蓄目標作成の入力です。
type GoalInput struct {
	GoalName     string
	TargetAmount float64
	TargetDate   time.Time // ゼロ値の場合は現在から6ヶ月後
	CurrentSaved float64
	Category     string
	Priority     string
}

// savingsUsecase は貯蓄目標操作を実装します。
type savingsUsecase struct {
	goals GoalRepository
}

// NewSavingsUsecase はsavingsUsecaseの新しいインスタンスを生成します。
func NewSavingsUsecase(goals GoalRepository) *savingsUsecase {
	return &savingsUsecase{goals: goals}
}

// CreateGoal は新しい貯蓄目標を作成します。
// 期日未指定の場合は6ヶ月後、カテゴリ・優先度未指定の場合はデフォルト値を補完します。
func (s *savingsUsecase) CreateGoal(ctx context.Context, userID uint, in GoalInput) (*entity.SavingsGoal, error) {
	if in.GoalName == "" {
		return nil, ErrGoalNameRequired
	}
	if in.TargetAmount <= 0 {
		return nil, ErrInvalidTarget
	}
	if in.TargetDate.IsZero() {
		in.TargetDate = time.Now().Add(entity.DefaultGoalTerm)
	}
	if in.Category == "" {
		in.Category = entity.CategoryOther
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityMedium
	}
	if in.CurrentSaved < 0 {
		in.CurrentSaved = 0
	}

	goal := &entity.SavingsGoal{
		UserID:       userID,
		GoalName:     in.GoalName,
		TargetAmount: in.TargetAmount,
		CurrentSaved: in.CurrentSaved,
		TargetDate:   in.TargetDate,
		Category:     in.Category,
		Priority:     in.Priority,
		IsCompleted:  in.CurrentSaved >= in.TargetAmount,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// ListGoals はユーザーの全貯蓄目標を返します。
func (s *savingsUsecase) ListGoals(ctx context.Context, userID uint) ([]entity.SavingsGoal, error) {
	return s.goals.ListByUser(ctx, userID)
}
