// Package handler はアナリティクスのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"moneymate_backend/internal/api"
	"moneymate_backend/internal/feature/analytics/domain/entity"
	jwtmw "moneymate_backend/internal/platform/jwt"
)

// AnalyticsUsecase はハンドラーが必要とするユースケースを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AnalyticsUsecase interface {
	GetAnalytics(ctx context.Context, userID uint, period string) (*entity.Analytics, error)
	GetSuggestions(ctx context.Context, userID uint) ([]string, error)
}

// AnalyticsHandler はアナリティクス取得・提案生成のHTTPハンドラーです。
type AnalyticsHandler struct {
	usecase AnalyticsUsecase
}

// NewAnalyticsHandler はAnalyticsHandlerの新しいインスタンスを生成します。
func NewAnalyticsHandler(u AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{usecase: u}
}

// GetAnalytics はGET /api/analytics?period=week|month|yearを処理します。
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	period := c.DefaultQuery("period", entity.PeriodMonth)

	analytics, err := h.usecase.GetAnalytics(c.Request.Context(), userID, period)
	if err != nil {
		slog.Error("failed to build analytics", "userID", userID, "period", period, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to load analytics"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"analytics": analytics,
	})
}

// GetSuggestions はGET /api/suggestionsを処理します。
func (h *AnalyticsHandler) GetSuggestions(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	suggestions, err := h.usecase.GetSuggestions(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to build suggestions", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to load suggestions"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"suggestions": suggestions,
	})
}
