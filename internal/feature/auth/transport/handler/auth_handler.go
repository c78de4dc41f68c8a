// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moneymate_backend/internal/api"
	"moneymate_backend/internal/feature/auth/domain/entity"
	"moneymate_backend/internal/feature/auth/usecase"
	jwtmw "moneymate_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Signup(ctx context.Context, name, email, password string) (*entity.User, string, error)
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (*entity.User, string, string, error)
	GoogleLogin(ctx context.Context, idToken string) (*entity.User, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, userID uint) error
	ForgotPassword(ctx context.Context, email, newPassword string) error
	Me(ctx context.Context, userID uint) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uint, name, avatar string) (*entity.User, error)
	UpdateOnboarding(ctx context.Context, userID uint, in usecase.OnboardingInput) (*entity.User, error)
	UpdatePreferences(ctx context.Context, userID uint, in usecase.PreferencesInput) (*entity.Preferences, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// summary はレスポンス用のユーザー要約を組み立てます。
func summary(u *entity.User, withStreak bool) api.UserSummary {
	s := api.UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		XP:    u.XP,
		Level: u.Level,
	}
	if withStreak {
		s.Streak = u.Streak
	}
	return s
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー・弱いパスワード・メール重複は400を返却
// - 成功時はJWTとユーザー要約付きで201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Error("Please provide name, email, and password"))
		return
	}

	user, token, err := h.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, api.Error("Password must be at least 6 characters long"))
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			c.JSON(http.StatusBadRequest, api.Error("User already exists with this email"))
		default:
			slog.Error("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.Error("Server error during signup"))
		}
		return
	}

	slog.Info("user signup successful", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully!",
		"token":   token,
		"user":    summary(user, false),
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証成功はストリークのチェックインを暗黙にトリガーします。
// ユーザー列挙攻撃を防止するため、失敗理由は公開しません。
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Error("Please provide email and password"))
		return
	}

	user, token, refreshToken, err := h.auth.Login(c.Request.Context(), req.Email, req.Password,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.Error("Invalid email or password"))
			return
		}
		slog.Error("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.Error("Server error during login"))
		return
	}

	slog.Info("user login successful", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Login successful!",
		"token":        token,
		"refreshToken": refreshToken,
		"user":         summary(user, true),
	})
}

// GoogleLogin はGoogle IDトークンによるサインインを処理します。
// 初回サインイン時はユーザーを新規作成します。
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req api.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Please provide an ID token"))
		return
	}

	user, token, err := h.auth.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		slog.Warn("google sign-in failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.Error("Google sign-in failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful!",
		"token":   token,
		"user":    summary(user, true),
	})
}

// Refresh はリフレッシュトークンからJWTを再発行します。
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req api.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Please provide a refresh token"))
		return
	}

	token, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		slog.Warn("token refresh failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.Error("Invalid refresh token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// Logout は認証済みユーザーの全セッションを失効させます。
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		slog.Error("logout failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.Error("Server error during logout"))
		return
	}
	c.JSON(http.StatusOK, api.OK("Logged out."))
}

// ForgotPassword はパスワード再設定エンドポイントを処理します。
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req api.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Email and new password are required."))
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, usecase.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, api.Error("Password must be at least 6 characters long"))
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, api.Error("No user found with this email."))
		default:
			slog.Error("forgot password failed", "error", err, "email", req.Email)
			c.JSON(http.StatusInternalServerError, api.Error("Server error changing password."))
		}
		return
	}

	c.JSON(http.StatusOK, api.OK("Password has been changed. You can now log in."))
}

// Me は認証済みユーザーのプロフィールを返します。
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error("Error fetching profile"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateProfile は表示名とアバターを更新します。
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req api.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Invalid request"))
		return
	}

	userID := c.GetUint(jwtmw.ContextUserID)
	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, req.Name, req.Avatar)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Error("Error updating profile"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated!",
		"user":    user,
	})
}

// UpdateOnboarding はオンボーディング情報を保存します。
func (h *AuthHandler) UpdateOnboarding(c *gin.Context) {
	var req api.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Invalid request"))
		return
	}

	in := usecase.OnboardingInput{
		Name:           req.Name,
		AgeGroup:       req.AgeGroup,
		MonthlyIncome:  req.MonthlyIncome,
		SpendingHabits: req.SpendingHabits,
		TrackingLevel:  req.TrackingLevel,
		SavingGoal:     req.SavingGoal,
		GoalAmount:     req.GoalAmount,
		AlreadySaved:   req.AlreadySaved,
		ReminderFreq:   req.ReminderFreq,
		Motivation:     req.Motivation,
	}
	if req.GoalDeadline != "" {
		deadline, err := time.Parse("2006-01-02", req.GoalDeadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.Error("Invalid goal deadline"))
			return
		}
		in.GoalDeadline = deadline
	}

	userID := c.GetUint(jwtmw.ContextUserID)
	user, err := h.auth.UpdateOnboarding(c.Request.Context(), userID, in)
	if err != nil {
		slog.Error("onboarding update failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.Error("Server error updating onboarding"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdatePreferences はユーザー設定を更新します。
func (h *AuthHandler) UpdatePreferences(c *gin.Context) {
	var req api.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Invalid request"))
		return
	}

	userID := c.GetUint(jwtmw.ContextUserID)
	prefs, err := h.auth.UpdatePreferences(c.Request.Context(), userID, usecase.PreferencesInput{
		MonthlyBudget: req.MonthlyBudget,
		Currency:      req.Currency,
		Notifications: req.Notifications,
		VoiceEnabled:  req.VoiceEnabled,
		Theme:         req.Theme,
	})
	if err != nil {
		slog.Error("preferences update failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.Error("Server error updating preferences"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Preferences updated successfully!",
		"preferences": prefs,
	})
}
