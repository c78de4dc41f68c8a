// Package db はMySQLへのGORM接続とマイグレーションを提供します。
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	authadapters "moneymate_backend/internal/feature/auth/adapters"
	userentity "moneymate_backend/internal/feature/auth/domain/entity"
	financeentity "moneymate_backend/internal/feature/finance/domain/entity"
	badgeentity "moneymate_backend/internal/feature/gamification/domain/entity"
	goalentity "moneymate_backend/internal/feature/savings/domain/entity"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	// InstanceName が設定されている場合、Cloud SQLのUnixソケット接続を使用します。
	InstanceName string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN は設定からMySQLのDSN文字列を組み立てます。
// InstanceNameが設定されている場合はCloud SQL形式が優先されます。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// Opener はDSNからDB接続を開く関数です。テストで差し替え可能にします。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は指定タイムアウトまで接続をリトライします。
// 起動直後のDB未準備に備えます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は環境変数の接続情報でMySQLに接続します。
// Cloud SQL（INSTANCE_CONNECTION_NAME）とTCP接続の両方に対応します。
func OpenDB() *gorm.DB {
	dsn := BuildDSN(LoadConfigFromEnv())

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gmysql.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(
			&userentity.User{},
			&financeentity.Transaction{},
			&goalentity.SavingsGoal{},
			&badgeentity.Badge{},
			&authadapters.SessionModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
