// Package handler は貯蓄目標のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moneymate_backend/internal/api"
	dashentity "moneymate_backend/internal/feature/dashboard/domain/entity"
	"moneymate_backend/internal/feature/savings/domain/entity"
	"moneymate_backend/internal/feature/savings/usecase"
	jwtmw "moneymate_backend/internal/platform/jwt"
)

// SavingsUsecase はハンドラーが必要とするユースケースを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type SavingsUsecase interface {
	CreateGoal(ctx context.Context, userID uint, in usecase.GoalInput) (*entity.SavingsGoal, error)
}

// DashboardProvider は目標作成後に返却するダッシュボード射影を提供します。
type DashboardProvider interface {
	GetDashboard(ctx context.Context, userID uint) (*dashentity.Dashboard, error)
}

// SavingsHandler は貯蓄目標作成のHTTPハンドラーです。
type SavingsHandler struct {
	usecase   SavingsUsecase
	dashboard DashboardProvider
}

// NewSavingsHandler はSavingsHandlerの新しいインスタンスを生成します。
func NewSavingsHandler(u SavingsUsecase, d DashboardProvider) *SavingsHandler {
	return &SavingsHandler{usecase: u, dashboard: d}
}

// CreateGoal はPOST /api/savings/new-goalを処理します。
func (h *SavingsHandler) CreateGoal(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	var req api.NewGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Goal name and target amount are required"))
		return
	}

	in := usecase.GoalInput{
		GoalName:     req.GoalName,
		TargetAmount: req.TargetAmount,
		CurrentSaved: req.CurrentSaved,
	}
	if req.TargetDate != "" {
		targetDate, err := time.Parse("2006-01-02", req.TargetDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.Error("Target date must be in YYYY-MM-DD format"))
			return
		}
		in.TargetDate = targetDate
	}

	goal, err := h.usecase.CreateGoal(c.Request.Context(), userID, in)
	if err != nil {
		if errors.Is(err, usecase.ErrGoalNameRequired) || errors.Is(err, usecase.ErrInvalidTarget) {
			c.JSON(http.StatusBadRequest, api.Error("Goal name and a positive target amount are required"))
			return
		}
		slog.Error("failed to create goal", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to create goal"))
		return
	}

	dashboard, err := h.dashboard.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to refresh dashboard", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to load dashboard"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Goal created!",
		"goal":      goal,
		"dashboard": dashboard,
	})
}
