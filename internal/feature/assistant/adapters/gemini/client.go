// Package gemini はGoogle Gemini APIを使用したチャット補完クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"moneymate_backend/internal/feature/assistant/usecase"
	"moneymate_backend/internal/shared/ratelimiter"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// GeminiChat はGoogle Gemini APIを使用してチャット応答を生成します。
type GeminiChat struct {
	client  *genai.Client
	model   string
	limiter ratelimiter.RateLimiterInterface
}

// GeminiChatがChatProviderを実装していることをコンパイル時に検証します。
var _ usecase.ChatProvider = (*GeminiChat)(nil)

// NewGeminiChat はADCを使用してGeminiChatの新しいインスタンスを生成します。
// モデルは環境変数 GEMINI_MODEL で上書きできます。
func NewGeminiChat(ctx context.Context, limiter ratelimiter.RateLimiterInterface) (*GeminiChat, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}
	return &GeminiChat{client: client, model: model, limiter: limiter}, nil
}

// Generate はプロンプトからチャット応答を生成します。
func (g *GeminiChat) Generate(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		g.limiter.WaitIfNeeded()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	return resp.Text(), nil
}
