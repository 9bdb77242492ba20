package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/phrazzld/wordstone/internal/config"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/generation"
	"google.golang.org/genai"
)

// Retry defaults used by NewSentenceSource.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// ContentGenerator is the part of the genai client the source calls.
// *genai.Models implements it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Options tunes retry behavior.
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
}

// SentenceSource implements generation.SentenceSource using the Gemini API.
type SentenceSource struct {
	models       ContentGenerator
	model        string
	difficulties domain.DifficultyTable
	opts         Options
	logger       *slog.Logger
}

var _ generation.SentenceSource = (*SentenceSource)(nil)

// NewSentenceSource creates a genai client for the configured API key.
func NewSentenceSource(
	ctx context.Context,
	cfg config.LLMConfig,
	difficulties domain.DifficultyTable,
	logger *slog.Logger,
) (*SentenceSource, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return NewSentenceSourceWithGenerator(client.Models, cfg.ModelName, difficulties, Options{}, logger), nil
}

// NewSentenceSourceWithGenerator builds a source over any ContentGenerator.
// Zero option values fall back to the defaults.
func NewSentenceSourceWithGenerator(
	models ContentGenerator,
	model string,
	difficulties domain.DifficultyTable,
	opts Options,
	logger *slog.Logger,
) *SentenceSource {
	if models == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("content generator cannot be nil")
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SentenceSource{
		models:       models,
		model:        model,
		difficulties: difficulties,
		opts:         opts,
		logger:       logger.With(slog.String("component", "gemini_sentence_source")),
	}
}

// NextSentence implements generation.SentenceSource.
func (s *SentenceSource) NextSentence(ctx context.Context, language string, level int) (string, error) {
	d, err := s.difficulties.Lookup(level)
	if err != nil {
		return "", err
	}

	prompt, err := buildPrompt(language, d)
	if err != nil {
		return "", err
	}

	sentence, err := s.callWithRetry(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", generation.ErrSourceUnavailable, err)
	}

	s.logger.DebugContext(ctx, "sentence generated",
		slog.String("language", language),
		slog.Int("level", level),
		slog.Int("length", len(sentence)))
	return sentence, nil
}

// callWithRetry retries transient API errors with exponential backoff and
// jitter. Invalid or blocked answers are returned immediately.
func (s *SentenceSource) callWithRetry(ctx context.Context, prompt string) (string, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	temperature := float32(0.9)
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temperature,
	}

	for attempt := 0; ; attempt++ {
		resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), cfg)
		if err == nil {
			sentence, perr := parseResponse(resp)
			if perr != nil {
				s.logger.WarnContext(ctx, "unusable gemini response", slog.String("error", perr.Error()))
				return "", perr
			}
			return sentence, nil
		}

		s.logger.ErrorContext(ctx, "gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if attempt >= s.opts.MaxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, s.opts.MaxRetries, err)
		}

		// delay = base * 2^attempt * [0.5, 1.0)
		backoff := float64(s.opts.RetryDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}

func parseResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate == nil {
		return "", fmt.Errorf("%w: nil candidate", ErrInvalidResponse)
	}
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text.String()), &parsed); err != nil {
		return "", fmt.Errorf("%w: failed to parse JSON response: %v", ErrInvalidResponse, err)
	}

	sentence := strings.Join(strings.Fields(parsed.Sentence), " ")
	if sentence == "" {
		return "", fmt.Errorf("%w: empty sentence", ErrInvalidResponse)
	}
	return sentence, nil
}
