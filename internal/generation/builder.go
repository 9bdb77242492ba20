package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/wordstone/internal/domain"
)

// DefaultMaxSourceDraws bounds how many candidates BuildFromSource tries.
const DefaultMaxSourceDraws = 5

// Builder turns sentences into validated board content.
type Builder struct {
	// MaxSourceDraws is the number of candidates drawn per BuildFromSource call.
	MaxSourceDraws int

	difficulties domain.DifficultyTable
	validator    *ContentValidator
	layout       *LayoutGenerator
	logger       *slog.Logger
}

// NewBuilder creates a Builder over the given presets and layout generator.
func NewBuilder(difficulties domain.DifficultyTable, layout *LayoutGenerator, logger *slog.Logger) *Builder {
	if layout == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("layout generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		MaxSourceDraws: DefaultMaxSourceDraws,
		difficulties:   difficulties,
		validator:      NewContentValidator(difficulties),
		layout:         layout,
		logger:         logger.With(slog.String("component", "board_builder")),
	}
}

// Build validates sentence for the difficulty level, generates a layout and
// binds the i-th word to the i-th point with Order i+1.
//
// Returns a *ContentError (matching domain.ErrInvalidContent) when the
// sentence has defects, and the layout error when no layout is found.
func (b *Builder) Build(ctx context.Context, sentence, language string, level int) (*domain.BoardContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := b.difficulties.Lookup(level)
	if err != nil {
		return nil, err
	}

	result, err := b.validator.Validate(sentence, d.BoardSize, level)
	if err != nil {
		return nil, err
	}
	if err := result.Err(sentence); err != nil {
		return nil, err
	}

	points, err := b.layout.Generate(len(result.Tokens), d.BoardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out %d words: %w", len(result.Tokens), err)
	}

	mappings := make([]domain.WordMapping, len(result.Tokens))
	for i, word := range result.Tokens {
		mappings[i] = domain.WordMapping{
			Word:     word,
			Position: points[i],
			Order:    i + 1,
		}
	}

	content := &domain.BoardContent{
		Language:             language,
		DifficultyLevel:      d.Level,
		BoardSize:            d.BoardSize,
		WordMappings:         mappings,
		TotalWords:           len(mappings),
		TotalAllowedStones:   len(mappings) + d.StoneSlack,
		InitialDisplayTimeMs: d.InitialDisplayTime.Milliseconds(),
		TargetTimeMs:         d.TargetTime.Milliseconds(),
	}

	if err := content.Validate(result.Budget); err != nil {
		return nil, fmt.Errorf("built board failed validation: %w", err)
	}

	b.logger.DebugContext(ctx, "board content built",
		slog.Int("difficulty_level", d.Level),
		slog.Int("board_size", d.BoardSize),
		slog.Int("total_words", content.TotalWords))

	return content, nil
}

// BuildFromSource draws candidate sentences until one builds, skipping
// sentences rejected for content defects. Returns ErrNoValidContent when
// every draw was rejected; source and layout failures are returned as is.
func (b *Builder) BuildFromSource(
	ctx context.Context,
	source SentenceSource,
	language string,
	level int,
) (*domain.BoardContent, error) {
	draws := b.MaxSourceDraws
	if draws < 1 {
		draws = DefaultMaxSourceDraws
	}

	for i := 0; i < draws; i++ {
		sentence, err := source.NextSentence(ctx, language, level)
		if err != nil {
			return nil, fmt.Errorf("failed to draw sentence: %w", err)
		}

		content, err := b.Build(ctx, sentence, language, level)
		if err == nil {
			return content, nil
		}

		var contentErr *ContentError
		if !errors.As(err, &contentErr) {
			return nil, err
		}

		b.logger.WarnContext(ctx, "rejected candidate sentence",
			slog.Int("draw", i+1),
			slog.Int("difficulty_level", level),
			slog.Int("defect_count", len(contentErr.Defects)),
			slog.String("error", contentErr.Error()))
	}

	return nil, fmt.Errorf("%w: %d candidates rejected", ErrNoValidContent, draws)
}
