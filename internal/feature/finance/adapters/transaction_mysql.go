// Package adapters はfinanceフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"moneymate_backend/internal/feature/finance/domain/entity"
	"moneymate_backend/internal/feature/finance/usecase"
)

// transactionMySQL はTransactionRepositoryインターフェースのMySQL実装です。
// 台帳は追記専用のため、Update/Deleteは提供しません。
type transactionMySQL struct {
	db *gorm.DB
}

// transactionMySQLがTransactionRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TransactionRepository = (*transactionMySQL)(nil)

// NewTransactionMySQL は指定されたgorm.DB接続でtransactionMySQLの新しいインスタンスを生成します。
func NewTransactionMySQL(db *gorm.DB) *transactionMySQL {
	return &transactionMySQL{db: db}
}

// Create は取引をデータベースに追記します。
func (r *transactionMySQL) Create(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListByUser はユーザーの全取引を日付の降順で返します。
func (r *transactionMySQL) ListByUser(ctx context.Context, userID uint) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&transactions).Error
	return transactions, err
}

// ListByUserSince は指定日時以降の取引を日付の降順で返します。
// analyticsの期間集計で使用します。
func (r *transactionMySQL) ListByUserSince(ctx context.Context, userID uint, since time.Time) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&transactions).Error
	return transactions, err
}
