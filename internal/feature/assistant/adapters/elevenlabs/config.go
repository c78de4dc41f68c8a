// Package elevenlabs provides a client for the ElevenLabs text-to-speech API.
package elevenlabs

import (
	"os"
	"time"
)

// DefaultVoiceID is the voice used when ELEVENLABS_VOICE_ID is unset
// ("Rachel", the ElevenLabs default narration voice).
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

// Config holds configuration for the ElevenLabs API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g., "https://api.elevenlabs.io")
	VoiceID string        // Voice used for synthesis
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads ElevenLabs configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("ELEVENLABS_API_KEY"),
		BaseURL: os.Getenv("ELEVENLABS_BASE_URL"),
		VoiceID: os.Getenv("ELEVENLABS_VOICE_ID"),
		Timeout: 30 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = DefaultVoiceID
	}
	return cfg
}
