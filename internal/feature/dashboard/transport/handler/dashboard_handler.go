// Package handler はダッシュボードのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"moneymate_backend/internal/api"
	"moneymate_backend/internal/feature/dashboard/domain/entity"
	jwtmw "moneymate_backend/internal/platform/jwt"
)

// DashboardUsecase はハンドラーが必要とするユースケースを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type DashboardUsecase interface {
	GetDashboard(ctx context.Context, userID uint) (*entity.Dashboard, error)
}

// DashboardHandler はダッシュボード取得のHTTPハンドラーです。
type DashboardHandler struct {
	usecase DashboardUsecase
}

// NewDashboardHandler はDashboardHandlerの新しいインスタンスを生成します。
func NewDashboardHandler(u DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{usecase: u}
}

// GetDashboard はGET /api/dashboardを処理します。
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	dashboard, err := h.usecase.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to build dashboard", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to load dashboard"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"dashboard": dashboard,
	})
}
