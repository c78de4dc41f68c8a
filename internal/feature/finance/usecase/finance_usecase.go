// Package usecase はfinanceフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	userentity "moneymate_backend/internal/feature/auth/domain/entity"
	"moneymate_backend/internal/feature/finance/domain/entity"
	goalentity "moneymate_backend/internal/feature/savings/domain/entity"
)

// XP awards per ledger operation.
const (
	IncomeXP  = 25
	ExpenseXP = 10
)

// Expense-count milestones that award a one-time badge.
const (
	NoviceMilestone = 10
	ProMilestone    = 50
)

var (
	// ErrInvalidAmount は金額が正の有限数でない場合に返されます。
	ErrInvalidAmount = errors.New("valid amount required")

	// ErrInvalidType は取引種別がincome/expense以外の場合に返されます。
	ErrInvalidType = errors.New("transaction type must be income or expense")

	// ErrNoActiveGoal はアクティブな貯蓄目標が存在しない場合に返されます。
	ErrNoActiveGoal = errors.New("no active savings goal")

	// ErrEmptyReceipt はレシート画像から金額を抽出できなかった場合に返されます。
	ErrEmptyReceipt = errors.New("no amount found on receipt")
)

// MaxReceiptSize はレシート画像アップロードの最大サイズ（10MB）です。
const MaxReceiptSize = 10 * 1024 * 1024

// UserRepository はユーザーの財務状態の読み書きを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
	Save(ctx context.Context, user *userentity.User) error
}

// TransactionRepository は取引台帳の永続化層を抽象化します。
type TransactionRepository interface {
	// Create は取引をストレージに追記します。台帳は追記専用です。
	Create(ctx context.Context, tx *entity.Transaction) error

	// ListByUser はユーザーの全取引を日付の降順で返します。
	ListByUser(ctx context.Context, userID uint) ([]entity.Transaction, error)
}

// GoalRepository は取引と連動する貯蓄目標へのアクセスを抽象化します。
type GoalRepository interface {
	// FirstActive はリスト順で最初の未完了目標を返します。
	// 存在しない場合はErrNoActiveGoalを返します。
	FirstActive(ctx context.Context, userID uint) (*goalentity.SavingsGoal, error)

	// Save は目標の変更をストレージに反映します。
	Save(ctx context.Context, goal *goalentity.SavingsGoal) error
}

// GamificationService はXP付与とバッジ授与を抽象化します。
// 実装はgamificationフィーチャーのユースケースです。
type GamificationService interface {
	AddXP(ctx context.Context, userID uint, points int, reason string) (levelUp bool, newLevel int, err error)
	AwardBadge(ctx context.Context, userID uint, name, icon string) (awarded bool, err error)
}

// CacheInvalidator はユーザー単位の分析キャッシュ失効を抽象化します。
// キャッシュなし構成ではnilを許容します。
type CacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID uint) error
}

// ReceiptScanner はレシート画像からのテキスト抽出を抽象化します。
type ReceiptScanner interface {
	DetectText(ctx context.Context, imageData []byte) (string, error)
}

// TransactionInput は取引登録の入力です。
type TransactionInput struct {
	Amount      float64
	Type        string
	Category    string
	Description string
	Date        time.Time // ゼロ値の場合は現在時刻
}

// financeUsecase は取引台帳操作のビジネスロジックを実装します。
type financeUsecase struct {
	users        UserRepository
	transactions TransactionRepository
	goals        GoalRepository
	gamification GamificationService
	cache        CacheInvalidator
	scanner      ReceiptScanner
}

// NewFinanceUsecase はfinanceUsecaseの新しいインスタンスを生成します。
// cacheとscannerはnilを許容します（キャッシュなし・レシートスキャン無効構成）。
func NewFinanceUsecase(users UserRepository, transactions TransactionRepository, goals GoalRepository,
	gamification GamificationService, cache CacheInvalidator, scanner ReceiptScanner) *financeUsecase {
	return &financeUsecase{
		users:        users,
		transactions: transactions,
		goals:        goals,
		gamification: gamification,
		cache:        cache,
		scanner:      scanner,
	}
}

// validateInput は取引入力の事前条件を検証します。
// 検証はメモリ上の状態を変更する前に完了します。
func validateInput(in *TransactionInput) error {
	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return ErrInvalidAmount
	}
	if in.Type != entity.TypeIncome && in.Type != entity.TypeExpense {
		return ErrInvalidType
	}
	if in.Category == "" {
		if in.Type == entity.TypeIncome {
			in.Category = "Income"
		} else {
			in.Category = "Other"
		}
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	return nil
}

// RecordTransaction は取引を台帳に追記し、残高・目標・ゲーミフィケーションを更新します。
//
// 収入: 残高 +amount、最初の未完了目標のCurrentSaved +amount、25XP。
// 支出: 残高 -amount、目標のCurrentSavedをmax(0, 現在値-amount)に減算、
// TrackedExpensesをインクリメントし10件目/50件目でマイルストーンバッジ、10XP。
// 目標の達成判定（CurrentSaved >= TargetAmount）はこの書き込みパスでのみ行い、
// 達成時は完了フラグと"Savings Hero"バッジを付与します。
//
// 同一ユーザーへの並行呼び出しは調整されず、last-write-winsです。
func (f *financeUsecase) RecordTransaction(ctx context.Context, userID uint, in TransactionInput) (*entity.Transaction, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	user, err := f.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := &entity.Transaction{
		UserID:      userID,
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := f.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	goal, err := f.goals.FirstActive(ctx, userID)
	if err != nil && !errors.Is(err, ErrNoActiveGoal) {
		return nil, err
	}

	goalCompleted := false
	if in.Type == entity.TypeIncome {
		user.CurrentBalance += in.Amount
		if goal != nil {
			goal.CurrentSaved += in.Amount
			user.TotalSaved += in.Amount
			if goal.CurrentSaved >= goal.TargetAmount {
				goal.IsCompleted = true
				goalCompleted = true
			}
		}
	} else {
		user.CurrentBalance -= in.Amount
		user.TrackedExpenses++
		if goal != nil {
			drained := math.Min(goal.CurrentSaved, in.Amount)
			goal.CurrentSaved -= drained
			user.TotalSaved = math.Max(0, user.TotalSaved-drained)
		}
	}

	if goal != nil {
		if err := f.goals.Save(ctx, goal); err != nil {
			return nil, err
		}
	}
	if err := f.users.Save(ctx, user); err != nil {
		return nil, err
	}

	// バッジとXPはユーザー保存後に付与する。
	// gamification側が自前でユーザーを読み直すため、保存前に呼ぶと
	// こちらの残高更新がXP更新を上書きしてしまう。
	if goalCompleted {
		if _, err := f.gamification.AwardBadge(ctx, userID, "Savings Hero", "💎"); err != nil {
			return nil, err
		}
	}
	if in.Type == entity.TypeExpense {
		if user.TrackedExpenses == NoviceMilestone {
			if _, err := f.gamification.AwardBadge(ctx, userID, "Expense Novice", "💸"); err != nil {
				return nil, err
			}
		}
		if user.TrackedExpenses == ProMilestone {
			if _, err := f.gamification.AwardBadge(ctx, userID, "Expense Pro", "💰"); err != nil {
				return nil, err
			}
		}
	}

	points, reason := IncomeXP, "Income added"
	if in.Type == entity.TypeExpense {
		points, reason = ExpenseXP, "Expense tracked"
	}
	if _, _, err := f.gamification.AddXP(ctx, userID, points, reason); err != nil {
		return nil, err
	}

	if f.cache != nil {
		// ベストエフォート: キャッシュ失効の失敗で取引登録は失敗させない
		if err := f.cache.InvalidateUser(ctx, userID); err != nil {
			slog.Warn("analytics cache invalidation failed", "error", err, "user_id", userID)
		}
	}

	return tx, nil
}

// ScanReceipt はレシート画像をOCRし、抽出された最大金額を支出として登録します。
func (f *financeUsecase) ScanReceipt(ctx context.Context, userID uint, imageData []byte) (*entity.Transaction, error) {
	if f.scanner == nil {
		return nil, errors.New("receipt scanning is not configured")
	}
	if len(imageData) == 0 {
		return nil, errors.New("image data is empty")
	}
	if len(imageData) > MaxReceiptSize {
		return nil, fmt.Errorf("image size exceeds maximum of %d bytes", MaxReceiptSize)
	}

	text, err := f.scanner.DetectText(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("receipt scan failed: %w", err)
	}

	amount, merchant := parseReceipt(text)
	if amount <= 0 {
		return nil, ErrEmptyReceipt
	}

	return f.RecordTransaction(ctx, userID, TransactionInput{
		Amount:      amount,
		Type:        entity.TypeExpense,
		Category:    "Receipt",
		Description: merchant,
	})
}
