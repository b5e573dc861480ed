// Package speech turns voice notes into text. Two providers: the OpenAI
// transcription API and a local whisper executable.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrQuotaExceeded marks the OpenAI "insufficient quota / billing disabled"
// failure class, which deserves a dedicated remediation hint.
var ErrQuotaExceeded = errors.New("transcription quota exceeded")

const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

type Config struct {
	Provider    string
	APIKey      string
	OpenAIModel string
	LocalModel  string
	Language    string
}

type Service struct {
	cfg        Config
	apiURL     string
	httpClient httpDoer
}

func NewService(cfg Config) *Service {
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "whisper-1"
	}
	if cfg.LocalModel == "" {
		cfg.LocalModel = "base"
	}
	return &Service{
		cfg:        cfg,
		apiURL:     openAIAudioURL,
		httpClient: newHTTPClient(),
	}
}

// Transcribe converts the audio file at audioPath into text. Exactly one
// attempt per call; failures carry a human-readable cause.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("audio file not found: %s", audioPath)
	}

	switch s.cfg.Provider {
	case ProviderOpenAI:
		return s.transcribeOpenAI(ctx, audioPath)
	case ProviderLocal:
		return s.transcribeLocal(ctx, audioPath)
	}

	return "", fmt.Errorf("unsupported WHISPER_PROVIDER %q: use %q or %q", s.cfg.Provider, ProviderOpenAI, ProviderLocal)
}
