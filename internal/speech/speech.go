package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// MaxTextLength is the longest input the speech endpoint accepts.
const MaxTextLength = 4096

// DefaultRate is the slowed-down speaking speed used for young readers.
const DefaultRate = 0.85

var (
	ErrEmptyText   = errors.New("speech: empty text")
	ErrTextTooLong = errors.New("speech: text too long")
)

// Speaker turns text into mp3 audio.
type Speaker interface {
	Speak(ctx context.Context, text, lang string) ([]byte, error)
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, lang string) (string, error)
}

// Client wraps an OpenAI-compatible audio API.
type Client struct {
	api     *openai.Client
	voice   openai.SpeechVoice
	speed   float64
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithVoice selects the synthesis voice.
func WithVoice(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.voice = openai.SpeechVoice(v)
		}
	}
}

// WithRateLimit caps upstream calls at perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

// New creates a speech client.
func New(baseURL, apiKey string, opts ...Option) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	c := &Client{
		api:     openai.NewClientWithConfig(config),
		voice:   openai.VoiceAlloy,
		speed:   DefaultRate,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Speak synthesizes text as mp3. The speech endpoint infers the language
// from the text itself, so lang only shows up in logs.
func (c *Client) Speak(ctx context.Context, text, lang string) ([]byte, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("speech rate limit: %w", err)
	}

	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          c.speed,
	})
	if err != nil {
		return nil, fmt.Errorf("speech API call: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech audio: %w", err)
	}
	slog.Debug("synthesized speech", "lang", lang, "chars", utf8.RuneCountInString(text), "bytes", len(audio))
	return audio, nil
}

// Transcribe converts a spoken recording to text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, lang string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("speech rate limit: %w", err)
	}
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "recording.webm",
		Reader:   audio,
		Language: lang,
	})
	if err != nil {
		return "", fmt.Errorf("transcription API call: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Heard reports whether a transcript contains the first word of target,
// ignoring case and punctuation.
func Heard(transcript, target string) bool {
	want := strings.Fields(normalize(target))
	if len(want) == 0 {
		return false
	}
	for _, w := range strings.Fields(normalize(transcript)) {
		if w == want[0] {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, s)
}

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}
