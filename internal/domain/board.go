package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/wordstone/internal/domain/geometry"
)

// GridPoint is an integer cell coordinate, 0 ≤ X,Y < board size.
type GridPoint = geometry.Point

// WordMapping binds one token to one grid cell and its expected reveal order.
type WordMapping struct {
	Word     string    `json:"word"`
	Position GridPoint `json:"position"`
	Order    int       `json:"order"` // 1-based index in the source sentence
}

// BoardContent is the generated, validated pairing of a sentence's words to
// grid positions plus its timing and stone-budget configuration.
// It is immutable once built.
type BoardContent struct {
	Language             string        `json:"language"`
	DifficultyLevel      int           `json:"difficulty_level"`
	BoardSize            int           `json:"board_size"`
	WordMappings         []WordMapping `json:"word_mappings,omitempty"`
	TotalWords           int           `json:"total_words"`
	TotalAllowedStones   int           `json:"total_allowed_stones"`
	InitialDisplayTimeMs int64         `json:"initial_display_time_ms"`
	TargetTimeMs         int64         `json:"target_time_ms"`
}

// Concealed returns a copy without word mappings, for showing a board whose
// words and positions the player must recall.
func (b *BoardContent) Concealed() *BoardContent {
	c := *b
	c.WordMappings = nil
	return &c
}

// InitialDisplayTime is how long every word position is revealed before play.
func (b *BoardContent) InitialDisplayTime() time.Duration {
	return time.Duration(b.InitialDisplayTimeMs) * time.Millisecond
}

// TargetTime is the play time within which a complete, ordered run is EXCELLENT.
func (b *BoardContent) TargetTime() time.Duration {
	return time.Duration(b.TargetTimeMs) * time.Millisecond
}

// Validate checks every invariant of a board. maxWordLength is the
// difficulty-specific character budget; zero disables the length check.
func (b *BoardContent) Validate(maxWordLength int) error {
	if b.BoardSize < 1 {
		return fmt.Errorf("%w: board size must be positive, got %d", ErrInvalidLayout, b.BoardSize)
	}

	if b.TotalWords != len(b.WordMappings) {
		return fmt.Errorf("%w: total words %d does not match %d mappings",
			ErrValidation, b.TotalWords, len(b.WordMappings))
	}

	if b.TotalAllowedStones < b.TotalWords {
		return fmt.Errorf("%w: stone budget %d cannot cover %d words",
			ErrValidation, b.TotalAllowedStones, b.TotalWords)
	}

	seenWords := make(map[string]struct{}, len(b.WordMappings))
	seenCells := make(map[GridPoint]struct{}, len(b.WordMappings))
	for _, m := range b.WordMappings {
		if !m.Position.InBounds(b.BoardSize) {
			return fmt.Errorf("%w: position (%d,%d) outside %dx%d board",
				ErrInvalidLayout, m.Position.X, m.Position.Y, b.BoardSize, b.BoardSize)
		}
		if _, dup := seenCells[m.Position]; dup {
			return fmt.Errorf("%w: position (%d,%d) used twice",
				ErrInvalidLayout, m.Position.X, m.Position.Y)
		}
		seenCells[m.Position] = struct{}{}

		if _, dup := seenWords[m.Word]; dup {
			return fmt.Errorf("%w: duplicate word %q", ErrInvalidContent, m.Word)
		}
		seenWords[m.Word] = struct{}{}

		if maxWordLength > 0 && utf8.RuneCountInString(m.Word) > maxWordLength {
			return fmt.Errorf("%w: word %q exceeds %d characters", ErrInvalidContent, m.Word, maxWordLength)
		}
	}

	if geometry.IsCollinear(b.Positions()) {
		return fmt.Errorf("%w: three word positions are collinear", ErrInvalidLayout)
	}

	return nil
}

// Positions returns the word positions in sentence order.
func (b *BoardContent) Positions() []GridPoint {
	points := make([]GridPoint, len(b.WordMappings))
	for i, m := range b.WordMappings {
		points[i] = m.Position
	}
	return points
}

// ExpectedSequence returns the indices of WordMappings sorted by Order, i.e.
// the order in which a perfect player claims the positions.
func (b *BoardContent) ExpectedSequence() []int {
	seq := make([]int, len(b.WordMappings))
	for i, m := range b.WordMappings {
		if m.Order >= 1 && m.Order <= len(seq) {
			seq[m.Order-1] = i
		}
	}
	return seq
}

// MappingAt returns the mapping placed on p, if any.
func (b *BoardContent) MappingAt(p GridPoint) (WordMapping, bool) {
	for _, m := range b.WordMappings {
		if m.Position == p {
			return m, true
		}
	}
	return WordMapping{}, false
}
