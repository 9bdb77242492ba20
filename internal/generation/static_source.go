package generation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
)

// StaticSource draws sentences at random from a fixed pool keyed by language.
type StaticSource struct {
	mu        sync.Mutex
	rng       *rand.Rand
	sentences map[string][]string
}

// NewStaticSource creates a source over the given pool.
func NewStaticSource(sentences map[string][]string, rng *rand.Rand) *StaticSource {
	return &StaticSource{
		rng:       rng,
		sentences: sentences,
	}
}

// NextSentence implements SentenceSource. The difficulty level is ignored;
// the builder rejects sentences that do not fit it.
func (s *StaticSource) NextSentence(ctx context.Context, language string, level int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pool := s.sentences[language]
	if len(pool) == 0 {
		return "", fmt.Errorf("%w: no sentences for language %q", ErrSourceUnavailable, language)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return pool[s.rng.Intn(len(pool))], nil
}
