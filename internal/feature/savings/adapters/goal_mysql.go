// Package adapters はsavingsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	authusecase "moneymate_backend/internal/feature/auth/usecase"
	financeusecase "moneymate_backend/internal/feature/finance/usecase"
	"moneymate_backend/internal/feature/savings/domain/entity"
	"moneymate_backend/internal/feature/savings/usecase"
)

// goalMySQL は貯蓄目標リポジトリのMySQL実装です。
// 構造的型付けにより、savings・finance・authの各フィーチャーが
// 定義するコンシューマーインターフェースを単一の実装で満たします。
type goalMySQL struct {
	db *gorm.DB
}

// goalMySQLが各コンシューマーインターフェースを実装していることをコンパイル時に検証します。
var (
	_ usecase.GoalRepository        = (*goalMySQL)(nil)
	_ financeusecase.GoalRepository = (*goalMySQL)(nil)
	_ authusecase.GoalWriter        = (*goalMySQL)(nil)
)

// NewGoalMySQL は指定されたgorm.DB接続でgoalMySQLの新しいインスタンスを生成します。
func NewGoalMySQL(db *gorm.DB) *goalMySQL {
	return &goalMySQL{db: db}
}

// Create は貯蓄目標をデータベースに登録します。
func (r *goalMySQL) Create(ctx context.Context, goal *entity.SavingsGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

// ListByUser はユーザーの全貯蓄目標を作成順で返します。
func (r *goalMySQL) ListByUser(ctx context.Context, userID uint) ([]entity.SavingsGoal, error) {
	var goals []entity.SavingsGoal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&goals).Error
	return goals, err
}

// FirstActive はリスト順で最初の未完了目標を返します。
// 存在しない場合はErrNoActiveGoalを返します。
func (r *goalMySQL) FirstActive(ctx context.Context, userID uint) (*entity.SavingsGoal, error) {
	var goal entity.SavingsGoal
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_completed = ?", userID, false).
		Order("created_at ASC").
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, financeusecase.ErrNoActiveGoal
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// Save は目標の変更をデータベースに反映します。
func (r *goalMySQL) Save(ctx context.Context, goal *entity.SavingsGoal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

// UpsertOnboardingGoal はオンボーディングで入力された目標を作成または更新します。
// 未完了の目標が既に存在する場合はそれを上書きし、なければ新規作成します。
func (r *goalMySQL) UpsertOnboardingGoal(ctx context.Context, userID uint, name string, target float64, deadline time.Time, alreadySaved float64) error {
	if deadline.IsZero() {
		deadline = time.Now().Add(entity.DefaultGoalTerm)
	}

	var goal entity.SavingsGoal
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_completed = ?", userID, false).
		Order("created_at ASC").
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = entity.SavingsGoal{
			UserID:   userID,
			Category: entity.CategoryOther,
			Priority: entity.PriorityMedium,
		}
	} else if err != nil {
		return err
	}

	goal.GoalName = name
	goal.TargetAmount = target
	goal.TargetDate = deadline
	if alreadySaved > 0 {
		goal.CurrentSaved = alreadySaved
	}
	goal.IsCompleted = goal.TargetAmount > 0 && goal.CurrentSaved >= goal.TargetAmount

	return r.db.WithContext(ctx).Save(&goal).Error
}
