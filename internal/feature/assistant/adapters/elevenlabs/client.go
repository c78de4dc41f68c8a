package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"moneymate_backend/internal/feature/assistant/usecase"
	"moneymate_backend/internal/shared/ratelimiter"
)

// ElevenLabsSpeech はElevenLabs APIを使用してテキストを音声合成するSpeechSynthesizer実装です。
type ElevenLabsSpeech struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// ElevenLabsSpeechがSpeechSynthesizerを実装していることをコンパイル時に検証します。
var _ usecase.SpeechSynthesizer = (*ElevenLabsSpeech)(nil)

// NewElevenLabsSpeech は指定された設定とHTTPクライアントでElevenLabsSpeechの新しいインスタンスを生成します。
func NewElevenLabsSpeech(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *ElevenLabsSpeech {
	return &ElevenLabsSpeech{cfg: cfg, client: client, limiter: limiter}
}

// synthesisRequest はtext-to-speechエンドポイントのリクエストボディです。
type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize はテキストをMP3音声データに変換します。
func (e *ElevenLabsSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.limiter != nil {
		e.limiter.WaitIfNeeded()
	}

	body, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: "eleven_monolingual_v1",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v1/text-to-speech/%s", e.cfg.BaseURL, e.cfg.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", e.cfg.APIKey)

	res, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("elevenlabs http %d: %s", res.StatusCode, detail)
	}

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("elevenlabs returned empty audio")
	}
	return audio, nil
}
