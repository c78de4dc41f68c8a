// Package handler はAIアシスタントのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"moneymate_backend/internal/api"
	"moneymate_backend/internal/feature/assistant/usecase"
	jwtmw "moneymate_backend/internal/platform/jwt"
)

// AssistantUsecase はハンドラーが必要とするユースケースを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AssistantUsecase interface {
	Ask(ctx context.Context, userID uint, question string) (*usecase.ChatResult, error)
	Speak(ctx context.Context, text string) (string, error)
	AskAndSpeak(ctx context.Context, userID uint, question string) (answer, audio string, err error)
}

// AssistantHandler はチャット・音声合成のHTTPハンドラーです。
type AssistantHandler struct {
	usecase AssistantUsecase
}

// NewAssistantHandler はAssistantHandlerの新しいインスタンスを生成します。
func NewAssistantHandler(u AssistantUsecase) *AssistantHandler {
	return &AssistantHandler{usecase: u}
}

// Ask はPOST /api/ask-aiを処理します。プロバイダー障害時も定型応答で200を返します。
func (h *AssistantHandler) Ask(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	var req api.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Question is required"))
		return
	}

	result, err := h.usecase.Ask(c.Request.Context(), userID, req.Question)
	if err != nil {
		slog.Error("failed to answer question", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Failed to answer question"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"answer":   result.Answer,
		"fallback": result.Fallback,
	})
}

// Speak はPOST /api/voiceを処理します。プロバイダー障害は500として返します。
func (h *AssistantHandler) Speak(c *gin.Context) {
	var req api.VoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Text is required"))
		return
	}

	audio, err := h.usecase.Speak(c.Request.Context(), req.Text)
	if err != nil {
		slog.Error("speech synthesis failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Voice synthesis failed: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"audio":   audio,
	})
}

// VoiceAssistant はPOST /api/voice-assistantを処理します。
// チャットと音声合成を連鎖させ、どちらの障害も500として返します。
func (h *AssistantHandler) VoiceAssistant(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	var req api.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error("Question is required"))
		return
	}

	answer, audio, err := h.usecase.AskAndSpeak(c.Request.Context(), userID, req.Question)
	if err != nil {
		slog.Error("voice assistant failed", "userID", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.Error("Voice assistant failed: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"answer":  answer,
		"audio":   audio,
	})
}
