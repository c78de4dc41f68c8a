// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"moneymate_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 6

	// welcomeBonusXP は新規登録時に付与されるXPです。
	welcomeBonusXP = 100

	// maxSessionsPerUser は1ユーザーあたりの同時セッション上限です。
	// 上限を超えた場合、最も古いセッションが削除されます。
	maxSessionsPerUser = 5

	// refreshTokenTTL はリフレッシュトークンの有効期間です。
	refreshTokenTTL = 30 * 24 * time.Hour
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByGoogleID は外部IDに一致するユーザーを取得します。
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)

	// Save はユーザーの変更をストレージに反映します。
	Save(ctx context.Context, user *entity.User) error
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email string) (string, error)
}

// StreakService はログイン時の暗黙チェックインを抽象化します。
// 実装はgamificationフィーチャーのユースケースです。
type StreakService interface {
	// CheckIn はデイリーチェックインを処理し、更新後のストリークと
	// 当日既にチェックイン済みだったかを返します。
	CheckIn(ctx context.Context, userID uint, now time.Time) (streak int, already bool, err error)
}

// XPService はXP付与を抽象化します。実装はgamificationフィーチャーです。
type XPService interface {
	// AddXP は指定ポイントを加算し、レベルアップ有無と新レベルを返します。
	AddXP(ctx context.Context, userID uint, points int, reason string) (levelUp bool, newLevel int, err error)
}

// GoogleIdentity は検証済みのGoogle IDトークンから得られるユーザー情報です。
type GoogleIdentity struct {
	Subject string // Googleアカウントの一意ID
	Email   string
	Name    string
}

// IdentityVerifier は外部IDプロバイダーのトークン検証を抽象化します。
type IdentityVerifier interface {
	// Verify はIDトークンを検証し、ユーザー情報を返します。
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// GoalWriter はオンボーディングで入力された貯蓄目標の作成・更新を抽象化します。
// 実装はsavingsフィーチャーのアダプターです。
type GoalWriter interface {
	UpsertOnboardingGoal(ctx context.Context, userID uint, name string, target float64, deadline time.Time, alreadySaved float64) error
}

// OnboardingInput はオンボーディング情報の更新内容です。ゼロ値のフィールドは無視されます。
type OnboardingInput struct {
	Name           string
	AgeGroup       string
	MonthlyIncome  string
	SpendingHabits []string
	TrackingLevel  string
	SavingGoal     string
	GoalAmount     float64
	GoalDeadline   time.Time
	AlreadySaved   float64
	ReminderFreq   string
	Motivation     []string
}

// PreferencesInput はユーザー設定の更新内容です。nilのフィールドは無視されます。
type PreferencesInput struct {
	MonthlyBudget *float64
	Currency      string
	Notifications *bool
	VoiceEnabled  *bool
	Theme         string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	streak       StreakService
	xp           XPService
	identity     IdentityVerifier
	goals        GoalWriter
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// identityはGoogleサインインを使わない構成ではnilを許容します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator,
	streak StreakService, xp XPService, identity IdentityVerifier, goals GoalWriter) *authUsecase {
	return &authUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		streak:       streak,
		xp:           xp,
		identity:     identity,
		goals:        goals,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録し、JWTを発行します。
// 登録完了後、ウェルカムボーナスとして100XPを付与します。
func (u *authUsecase) Signup(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Name:     name,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hashed),
		Avatar:   "👤",
		Level:    1,
	}
	// 月間予算は作成時の残高を初期値とする（新規作成時は0）
	user.MonthlyBudget = user.CurrentBalance

	if err := u.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if _, _, err := u.xp.AddXP(ctx, user.ID, welcomeBonusXP, "Welcome bonus"); err != nil {
		return nil, "", fmt.Errorf("failed to grant welcome bonus: %w", err)
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	// XP付与後の状態を返す
	fresh, err := u.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return fresh, token, nil
}

// Login はユーザーを認証し、成功時にJWTとリフレッシュトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
// 認証成功はデイリーチェックインを暗黙にトリガーします（当日2回目以降は無変更）。
func (u *authUsecase) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*entity.User, string, string, error) {
	user, err := u.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	token, tokenErr := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if tokenErr != nil {
		return nil, "", "", fmt.Errorf("failed to generate token: %w", tokenErr)
	}

	// 暗黙のチェックイン。失敗してもログイン自体は成功させる
	if _, _, err := u.streak.CheckIn(ctx, user.ID, time.Now()); err != nil {
		slog.Warn("implicit check-in failed", "error", err, "user_id", user.ID)
	}

	refreshToken, err := u.createSession(ctx, user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, "", "", err
	}

	fresh, err := u.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}
	return fresh, token, refreshToken, nil
}

// createSession はリフレッシュトークンを生成してセッションを永続化します。
// セッション数が上限に達している場合、最も古いものを削除します。
func (u *authUsecase) createSession(ctx context.Context, userID uint, userAgent, ipAddress string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	id := hex.EncodeToString(buf)

	count, err := u.sessions.CountByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if count >= maxSessionsPerUser {
		if err := u.sessions.DeleteOldestByUserID(ctx, userID); err != nil {
			return "", err
		}
	}

	now := time.Now()
	session := &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", err
	}
	return id, nil
}

// Refresh はリフレッシュトークンを検証し、新しいJWTを発行します。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if len(refreshToken) != 64 {
		return "", ErrInvalidRefreshToken
	}

	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if session.IsRevoked() {
		return "", ErrSessionRevoked
	}
	if session.IsExpired() {
		return "", ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		return "", err
	}
	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Logout はユーザーの全セッションを失効させます。
func (u *authUsecase) Logout(ctx context.Context, userID uint) error {
	return u.sessions.RevokeAllByUserID(ctx, userID)
}

// GoogleLogin はGoogle IDトークンでサインインします。
// 初回サインイン時は外部IDをキーとしてユーザーを作成します。
// パスワードはランダムなプレースホルダーハッシュを格納します。
func (u *authUsecase) GoogleLogin(ctx context.Context, idToken string) (*entity.User, string, error) {
	if u.identity == nil {
		return nil, "", errors.New("google sign-in is not configured")
	}

	ident, err := u.identity.Verify(ctx, idToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify google id token: %w", err)
	}

	user, err := u.users.FindByGoogleID(ctx, ident.Subject)
	if errors.Is(err, ErrUserNotFound) {
		buf := make([]byte, 18)
		if _, err := rand.Read(buf); err != nil {
			return nil, "", fmt.Errorf("failed to generate placeholder password: %w", err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", fmt.Errorf("failed to hash placeholder password: %w", err)
		}
		user = &entity.User{
			Name:     ident.Name,
			Email:    strings.ToLower(ident.Email),
			Password: string(hashed),
			GoogleID: ident.Subject,
			Avatar:   "👤",
			Level:    1,
		}
		if err := u.users.Create(ctx, user); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// ForgotPassword はメールアドレスで指定されたユーザーのパスワードを再設定します。
func (u *authUsecase) ForgotPassword(ctx context.Context, email, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := u.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	return u.users.Save(ctx, user)
}

// Me は認証済みユーザーのプロフィールを取得します。
func (u *authUsecase) Me(ctx context.Context, userID uint) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// UpdateProfile は表示名とアバターを更新します。空文字のフィールドは無視されます。
func (u *authUsecase) UpdateProfile(ctx context.Context, userID uint, name, avatar string) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateOnboarding はオンボーディング情報を保存し、ユーザーを完了状態にします。
// 目標名・目標額・期限が揃っている場合はメイン貯蓄目標を作成または更新します。
func (u *authUsecase) UpdateOnboarding(ctx context.Context, userID uint, in OnboardingInput) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.AgeGroup != "" {
		user.AgeGroup = in.AgeGroup
	}
	if in.MonthlyIncome != "" {
		user.MonthlyIncome = in.MonthlyIncome
	}
	if len(in.SpendingHabits) > 0 {
		user.SpendingHabits = in.SpendingHabits
	}
	if in.TrackingLevel != "" {
		user.TrackingLevel = in.TrackingLevel
	}
	if in.ReminderFreq != "" {
		user.ReminderFreq = in.ReminderFreq
	}
	if len(in.Motivation) > 0 {
		user.Motivation = in.Motivation
	}

	if in.SavingGoal != "" && in.GoalAmount > 0 && !in.GoalDeadline.IsZero() {
		if err := u.goals.UpsertOnboardingGoal(ctx, userID, in.SavingGoal, in.GoalAmount, in.GoalDeadline, in.AlreadySaved); err != nil {
			return nil, err
		}
	}

	user.OnboardingCompleted = true
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePreferences はユーザー設定を更新します。nil/空のフィールドは無視されます。
func (u *authUsecase) UpdatePreferences(ctx context.Context, userID uint, in PreferencesInput) (*entity.Preferences, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.MonthlyBudget != nil && *in.MonthlyBudget > 0 {
		user.MonthlyBudget = *in.MonthlyBudget
	}
	if in.Currency != "" {
		user.Preferences.Currency = in.Currency
	}
	if in.Notifications != nil {
		user.Preferences.Notifications = *in.Notifications
	}
	if in.VoiceEnabled != nil {
		user.Preferences.VoiceEnabled = *in.VoiceEnabled
	}
	if in.Theme != "" {
		user.Preferences.Theme = in.Theme
	}

	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return &user.Preferences, nil
}
