// Package usecase はgamificationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"time"

	userentity "moneymate_backend/internal/feature/auth/domain/entity"
	"moneymate_backend/internal/feature/gamification/domain/entity"
)

const (
	// XPPerLevel はレベルアップに必要なXP量です。
	XPPerLevel = 1000

	// StreakBonusXP はデイリーチェックイン継続で付与されるXPです。
	StreakBonusXP = 50

	// StreakMilestone は"Streak Master"バッジが付与される連続日数です。
	StreakMilestone = 7
)

// LevelFor はXPからレベルを導出します。xpに対して単調非減少です。
func LevelFor(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// UserRepository はユーザーのゲーミフィケーション状態の読み書きを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
	Save(ctx context.Context, user *userentity.User) error
}

// BadgeRepository はバッジの永続化層を抽象化します。
type BadgeRepository interface {
	// Exists は指定された名前のバッジをユーザーが既に所持しているかを返します。
	Exists(ctx context.Context, userID uint, name string) (bool, error)

	// Create はバッジをストレージに追加します。
	Create(ctx context.Context, badge *entity.Badge) error

	// ListByUser はユーザーの全バッジを獲得日時の昇順で返します。
	ListByUser(ctx context.Context, userID uint) ([]entity.Badge, error)

	// CountByUser はユーザーのバッジ数を返します。
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// gamificationUsecase はXP・レベル・ストリーク・バッジの状態遷移を実装します。
type gamificationUsecase struct {
	users  UserRepository
	badges BadgeRepository
}

// NewGamificationUsecase はgamificationUsecaseの新しいインスタンスを生成します。
func NewGamificationUsecase(users UserRepository, badges BadgeRepository) *gamificationUsecase {
	return &gamificationUsecase{users: users, badges: badges}
}

// AddXP は指定ポイントをユーザーに加算し、レベルを再計算します。
// レベルアップ時は最終レベルに対してのみバッジを1つ付与します。
// 複数レベルを一度に跨いだ場合も、付与されるバッジは最終レベルの1つだけです。
func (g *gamificationUsecase) AddXP(ctx context.Context, userID uint, points int, reason string) (bool, int, error) {
	if points <= 0 {
		return false, 0, fmt.Errorf("xp points must be positive, got %d", points)
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return false, 0, err
	}

	levelUp, err := g.applyXP(ctx, user, points)
	if err != nil {
		return false, 0, err
	}

	if err := g.users.Save(ctx, user); err != nil {
		return false, 0, err
	}
	return levelUp, user.Level, nil
}

// applyXP はメモリ上のユーザーにXPを加算し、レベルアップバッジを付与します。
// 呼び出し元がユーザーの保存に責任を持ちます。
func (g *gamificationUsecase) applyXP(ctx context.Context, user *userentity.User, points int) (bool, error) {
	oldLevel := user.Level
	user.XP += points
	user.Level = LevelFor(user.XP)

	if user.Level <= oldLevel {
		return false, nil
	}

	name := fmt.Sprintf("Level %d Achieved", user.Level)
	if _, err := g.award(ctx, user.ID, name, "⚡"); err != nil {
		return false, err
	}
	return true, nil
}

// award は重複チェック付きでバッジを付与します。
// 既に所持している場合は何もせずfalseを返します。
func (g *gamificationUsecase) award(ctx context.Context, userID uint, name, icon string) (bool, error) {
	exists, err := g.badges.Exists(ctx, userID, name)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	badge := &entity.Badge{
		UserID:   userID,
		Name:     name,
		Icon:     icon,
		EarnedAt: time.Now(),
	}
	if err := g.badges.Create(ctx, badge); err != nil {
		return false, err
	}
	return true, nil
}

// AwardBadge は名前で重複排除しつつバッジを付与します。
// 他フィーチャー（financeのマイルストーン等）から利用されます。
func (g *gamificationUsecase) AwardBadge(ctx context.Context, userID uint, name, icon string) (bool, error) {
	return g.award(ctx, userID, name, icon)
}

// sameCalendarDay は2つの時刻がローカルの同一暦日かを返します。
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// calendarDaysBetween はaからbまでの暦日差を返します。
// 24時間ウィンドウではなくローカルの暦日境界で数えるため、
// 23:59のチェックインと翌日00:01のチェックインは1日差になります。
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.Local)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.Local)
	return int(end.Sub(start).Hours() / 24)
}

// CheckIn はデイリーチェックインの状態遷移を処理します。
//   - 初回チェックイン: streak = 1
//   - 同一暦日: 変更なし（already = true）
//   - 前日: streak + 1、50XP付与
//   - 2日以上空いた: streak = 1 にリセット、XPなし
//
// いずれの分岐でもLastCheckInは現在時刻に更新されます。
// ストリークが7日に到達した時点で"Streak Master"バッジを付与します。
func (g *gamificationUsecase) CheckIn(ctx context.Context, userID uint, now time.Time) (int, bool, error) {
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return 0, false, err
	}

	already := false
	switch {
	case user.LastCheckIn == nil:
		user.Streak = 1
	case sameCalendarDay(*user.LastCheckIn, now):
		already = true
	case calendarDaysBetween(*user.LastCheckIn, now) == 1:
		user.Streak++
		if _, err := g.applyXP(ctx, user, StreakBonusXP); err != nil {
			return 0, false, err
		}
	default:
		user.Streak = 1
	}

	// マイルストーン判定はストリーク更新直後に行う
	if user.Streak == StreakMilestone {
		if _, err := g.award(ctx, userID, "Streak Master", "🔥"); err != nil {
			return 0, false, err
		}
	}

	checkedInAt := now
	user.LastCheckIn = &checkedInAt
	if err := g.users.Save(ctx, user); err != nil {
		return 0, false, err
	}
	return user.Streak, already, nil
}

// Badges はユーザーの獲得済みバッジ一覧を返します。
func (g *gamificationUsecase) Badges(ctx context.Context, userID uint) ([]entity.Badge, error) {
	return g.badges.ListByUser(ctx, userID)
}
