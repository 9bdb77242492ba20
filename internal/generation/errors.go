package generation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/wordstone/internal/domain"
)

// Common errors returned by the generation package
var (
	// ErrGenerationExhausted is returned when no valid layout was found within
	// the attempt budget
	ErrGenerationExhausted = errors.New("no valid layout found within attempt budget")

	// ErrInvalidConfig is returned when generation parameters can never succeed
	// (for example more words than board cells)
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrNoValidContent is returned when every sentence drawn from a source was rejected
	ErrNoValidContent = errors.New("no valid sentence available")

	// ErrSourceUnavailable is returned when a sentence source cannot produce candidates
	ErrSourceUnavailable = errors.New("sentence source unavailable")
)

// GenerationError reports a layout search that ran out of attempts.
type GenerationError struct {
	Count     int
	BoardSize int
	Attempts  int
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("%v: %d words on %dx%d board after %d attempts",
		ErrGenerationExhausted, e.Count, e.BoardSize, e.BoardSize, e.Attempts)
}

// Unwrap lets errors.Is match ErrGenerationExhausted.
func (e *GenerationError) Unwrap() error {
	return ErrGenerationExhausted
}

// DefectKind classifies a content problem found during validation.
type DefectKind string

// Defect kinds reported by ContentValidator.
const (
	DefectOverflow  DefectKind = "overflow"
	DefectDuplicate DefectKind = "duplicate"
	DefectWordCount DefectKind = "word_count"
)

// Defect is one content problem in a candidate sentence.
type Defect struct {
	Kind   DefectKind `json:"kind"`
	Word   string     `json:"word,omitempty"`
	Detail string     `json:"detail"`
}

// ContentError lists every defect that blocked a sentence.
type ContentError struct {
	Sentence string
	Defects  []Defect
}

// Error implements the error interface.
func (e *ContentError) Error() string {
	parts := make([]string, len(e.Defects))
	for i, d := range e.Defects {
		parts[i] = d.Detail
	}
	return fmt.Sprintf("%v: %s", domain.ErrInvalidContent, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match domain.ErrInvalidContent.
func (e *ContentError) Unwrap() error {
	return domain.ErrInvalidContent
}
