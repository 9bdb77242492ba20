package generation

import (
	"context"
	"log/slog"
)

// FallbackSource asks Primary first and falls back to Secondary when Primary
// fails. Context cancellation is never masked.
type FallbackSource struct {
	Primary   SentenceSource
	Secondary SentenceSource
	Logger    *slog.Logger
}

// NextSentence implements SentenceSource.
func (f *FallbackSource) NextSentence(ctx context.Context, language string, level int) (string, error) {
	sentence, err := f.Primary.NextSentence(ctx, language, level)
	if err == nil {
		return sentence, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	if f.Logger != nil {
		f.Logger.WarnContext(ctx, "primary sentence source failed, using fallback",
			slog.String("language", language),
			slog.Int("level", level),
			slog.String("error", err.Error()))
	}
	return f.Secondary.NextSentence(ctx, language, level)
}
