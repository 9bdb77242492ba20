package generation

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/domain/geometry"
)

// DefaultMaxAttempts bounds the random layout search.
const DefaultMaxAttempts = 10000

// LayoutGenerator produces distinct, in-bounds, non-collinear word positions.
// It is safe for concurrent use.
type LayoutGenerator struct {
	// MaxAttempts is the number of shuffles tried before giving up.
	// Values below 1 fall back to DefaultMaxAttempts.
	MaxAttempts int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLayoutGenerator creates a generator drawing randomness from rng.
// Pass a seeded source for reproducible layouts.
func NewLayoutGenerator(rng *rand.Rand) *LayoutGenerator {
	if rng == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("rng cannot be nil")
	}
	return &LayoutGenerator{
		MaxAttempts: DefaultMaxAttempts,
		rng:         rng,
	}
}

// Generate returns count points on a boardSize×boardSize grid such that all
// points are pairwise distinct and no three are collinear.
//
// Each attempt shuffles every cell of the board uniformly and keeps the first
// count cells. Returns ErrInvalidConfig before searching when the request can
// never succeed, and a *GenerationError (matching ErrGenerationExhausted) when
// the attempt budget runs out.
func (g *LayoutGenerator) Generate(count, boardSize int) ([]domain.GridPoint, error) {
	if boardSize < 1 {
		return nil, fmt.Errorf("%w: board size must be positive, got %d", ErrInvalidConfig, boardSize)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: word count must be positive, got %d", ErrInvalidConfig, count)
	}
	if count > boardSize*boardSize {
		return nil, fmt.Errorf("%w: %d words exceed %d cells", ErrInvalidConfig, count, boardSize*boardSize)
	}

	cells := make([]domain.GridPoint, 0, boardSize*boardSize)
	for y := 0; y < boardSize; y++ {
		for x := 0; x < boardSize; x++ {
			cells = append(cells, domain.GridPoint{X: x, Y: y})
		}
	}

	maxAttempts := g.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		g.rng.Shuffle(len(cells), func(i, j int) {
			cells[i], cells[j] = cells[j], cells[i]
		})

		candidate := cells[:count]
		if !geometry.IsCollinear(candidate) {
			points := make([]domain.GridPoint, count)
			copy(points, candidate)
			return points, nil
		}
	}

	return nil, &GenerationError{Count: count, BoardSize: boardSize, Attempts: maxAttempts}
}
