package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voice.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS fake audio"), 0644))
	return path
}

func newOpenAIService(serverURL string) *Service {
	s := NewService(Config{
		Provider: ProviderOpenAI,
		APIKey:   "test-key",
		Language: "ru",
	})
	s.apiURL = serverURL
	return s
}

func TestTranscribeOpenAI(t *testing.T) {
	var captured struct {
		auth     string
		model    string
		language string
		filename string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		captured.model = r.FormValue("model")
		captured.language = r.FormValue("language")

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		captured.filename = header.Filename

		w.Write([]byte(`{"text":"  Созвон с Петром завтра в 15:30  "}`))
	}))
	defer server.Close()

	text, err := newOpenAIService(server.URL).Transcribe(context.Background(), writeTestAudio(t))
	require.NoError(t, err)

	assert.Equal(t, "Созвон с Петром завтра в 15:30", text)
	assert.Equal(t, "Bearer test-key", captured.auth)
	assert.Equal(t, "whisper-1", captured.model)
	assert.Equal(t, "ru", captured.language)
	assert.Equal(t, "voice.ogg", captured.filename)
}

func TestTranscribeOpenAIErrors(t *testing.T) {
	t.Run("quota exceeded is a dedicated error class", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"type":"insufficient_quota","message":"You exceeded your current quota"}}`))
		}))
		defer server.Close()

		_, err := newOpenAIService(server.URL).Transcribe(context.Background(), writeTestAudio(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Contains(t, err.Error(), "WHISPER_PROVIDER=local")
	})

	t.Run("generic http failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}))
		defer server.Close()

		_, err := newOpenAIService(server.URL).Transcribe(context.Background(), writeTestAudio(t))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("empty transcription", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"text":"   "}`))
		}))
		defer server.Close()

		_, err := newOpenAIService(server.URL).Transcribe(context.Background(), writeTestAudio(t))
		require.Error(t, err)
	})
}

func TestTranscribeValidation(t *testing.T) {
	t.Run("missing audio file", func(t *testing.T) {
		s := NewService(Config{Provider: ProviderOpenAI})

		_, err := s.Transcribe(context.Background(), "/nonexistent/voice.ogg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "audio file not found")
	})

	t.Run("unsupported provider", func(t *testing.T) {
		s := NewService(Config{Provider: "cloud9"})

		_, err := s.Transcribe(context.Background(), writeTestAudio(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WHISPER_PROVIDER")
	})
}

func TestNewServiceDefaults(t *testing.T) {
	s := NewService(Config{Provider: ProviderOpenAI})

	assert.Equal(t, "whisper-1", s.cfg.OpenAIModel)
	assert.Equal(t, "base", s.cfg.LocalModel)
	assert.Equal(t, openAIAudioURL, s.apiURL)
}
