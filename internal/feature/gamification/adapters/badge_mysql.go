// Package adapters はgamificationフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"moneymate_backend/internal/feature/gamification/domain/entity"
	"moneymate_backend/internal/feature/gamification/usecase"
)

// badgeMySQL はBadgeRepositoryインターフェースのMySQL実装です。
type badgeMySQL struct {
	db *gorm.DB
}

// badgeMySQLがBadgeRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.BadgeRepository = (*badgeMySQL)(nil)

// NewBadgeMySQL は指定されたgorm.DB接続でbadgeMySQLの新しいインスタンスを生成します。
func NewBadgeMySQL(db *gorm.DB) *badgeMySQL {
	return &badgeMySQL{db: db}
}

// Exists は指定名のバッジをユーザーが所持しているかを返します。
func (r *badgeMySQL) Exists(ctx context.Context, userID uint, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Badge{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error
	return count > 0, err
}

// Create はバッジをデータベースに追加します。
func (r *badgeMySQL) Create(ctx context.Context, badge *entity.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}

// ListByUser はユーザーの全バッジを獲得日時の昇順で返します。
func (r *badgeMySQL) ListByUser(ctx context.Context, userID uint) ([]entity.Badge, error) {
	var badges []entity.Badge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&badges).Error
	return badges, err
}

// CountByUser はユーザーのバッジ数を返します。
func (r *badgeMySQL) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Badge{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
