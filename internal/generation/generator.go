package generation

import (
	"context"
)

// SentenceSource defines the interface for drawing candidate sentences.
// This interface serves as a boundary between the board builder and the
// content-authoring side (a curated pool, an LLM, a CMS).
type SentenceSource interface {
	// NextSentence returns one candidate sentence for the given language and
	// difficulty level. Candidates may still be rejected by ContentValidator.
	NextSentence(ctx context.Context, language string, level int) (string, error)
}
