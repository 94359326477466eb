package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/audio/speech", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string  `json:"model"`
			Input string  `json:"input"`
			Voice string  `json:"voice"`
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3:" + req.Model + ":" + req.Voice + ":" + req.Input))
	})
	mux.HandleFunc("POST /v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": "  Cat sat. (" + r.FormValue("language") + ")  "})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSpeak(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL+"/v1", "test-key", WithVoice("nova"))

	audio, err := c.Speak(context.Background(), "cat", "en")
	require.NoError(t, err)
	require.Equal(t, "mp3:tts-1:nova:cat", string(audio))
}

func TestClientSpeakRejectsBadText(t *testing.T) {
	c := New("http://127.0.0.1:1/v1", "test-key")

	_, err := c.Speak(context.Background(), "   ", "en")
	require.ErrorIs(t, err, ErrEmptyText)

	_, err = c.Speak(context.Background(), strings.Repeat("a", MaxTextLength+1), "en")
	require.ErrorIs(t, err, ErrTextTooLong)
}

func TestClientTranscribe(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL+"/v1", "test-key", WithRateLimit(100, 1))

	text, err := c.Transcribe(context.Background(), strings.NewReader("fake audio"), "en")
	require.NoError(t, err)
	require.Equal(t, "Cat sat. (en)", text)
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	c := New("http://127.0.0.1:1/v1", "test-key", WithRateLimit(0.001, 1))
	// Spend the single token so the next call has to wait.
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Speak(ctx, "cat", "en")
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limit")
}

func TestHeard(t *testing.T) {
	tests := []struct {
		transcript string
		target     string
		want       bool
	}{
		{"Cat.", "cat", true},
		{"the cat sat", "Cat sat on the mat", true},
		{"I can't", "can't", true},
		{"catch", "cat", false},
		{"dog", "cat", false},
		{"", "cat", false},
		{"cat", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.transcript+"/"+tt.target, func(t *testing.T) {
			require.Equal(t, tt.want, Heard(tt.transcript, tt.target))
		})
	}
}
