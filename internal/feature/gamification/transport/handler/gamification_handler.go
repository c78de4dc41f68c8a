// Package handler はgamificationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moneymate_backend/internal/api"
	"moneymate_backend/internal/feature/gamification/domain/entity"
	jwtmw "moneymate_backend/internal/platform/jwt"
)

// GamificationUsecase はXP・ストリーク・バッジ操作のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type GamificationUsecase interface {
	AddXP(ctx context.Context, userID uint, points int, reason string) (levelUp bool, newLevel int, err error)
	CheckIn(ctx context.Context, userID uint, now time.Time) (streak int, already bool, err error)
	Badges(ctx context.Context, userID uint) ([]entity.Badge, error)
}

// GamificationHandler はゲーミフィケーション操作のHTTPリクエストを処理します。
type GamificationHandler struct {
	uc GamificationUsecase
}

// NewGamificationHandler はGamificationHandlerの新しいインスタンスを生成します。
func NewGamificationHandler(uc GamificationUsecase) *GamificationHandler {
	return &GamificationHandler{uc: uc}
}

// AddXP はXPの手動付与エンドポイントを処理します。
//
// エンドポイント: POST /api/xp
func (h *GamificationHandler) AddXP(c *gin.Context) {
	var req api.XPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Points <= 0 {
		c.JSON(http.StatusBadRequest, api.Error("Please provide valid XP points"))
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "Manual XP"
	}

	userID := c.GetUint(jwtmw.ContextUserID)
	levelUp, newLevel, err := h.uc.AddXP(c.Request.Context(), userID, req.Points, reason)
	if err != nil {
		slog.Error("add xp failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.Error("Server error adding XP"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  fmt.Sprintf("Added %d XP!", req.Points),
		"levelUp":  levelUp,
		"newLevel": newLevel,
	})
}

// CheckIn は明示的なデイリーチェックインを処理します。
// 当日2回目以降の呼び出しはストリークを変更せず、その旨を報告します。
//
// エンドポイント: POST /api/streak
func (h *GamificationHandler) CheckIn(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	streak, already, err := h.uc.CheckIn(c.Request.Context(), userID, time.Now())
	if err != nil {
		slog.Error("streak update failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.Error("Server error updating streak"))
		return
	}

	message := "Daily check-in complete!"
	if already {
		message = "Already checked in today!"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"streak":  streak,
	})
}

// Badges は獲得済みバッジの一覧を返します。
//
// エンドポイント: GET /api/badges
func (h *GamificationHandler) Badges(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	badges, err := h.uc.Badges(c.Request.Context(), userID)
	if err != nil {
		slog.Error("badge list failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.Error("Server error fetching badges"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "badges": badges})
}
