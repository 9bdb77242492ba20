package generation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/wordstone/internal/domain"
)

// CellCharacterCapacity is the number of characters that fit across a whole
// board row; a single cell holds CellCharacterCapacity / boardSize of them.
const CellCharacterCapacity = 40

// CharacterBudget is the longest word (in characters) a board cell can show
// for a difficulty: the preset's MaxWordLength, capped by the cell width of
// the board.
func CharacterBudget(boardSize int, d domain.Difficulty) int {
	budget := d.MaxWordLength
	if boardSize > 0 {
		if cell := CellCharacterCapacity / boardSize; cell < budget {
			budget = cell
		}
	}
	return budget
}

// ValidationResult holds the tokens of a sentence and every defect found.
type ValidationResult struct {
	Tokens  []string
	Budget  int
	Defects []Defect
}

// Valid reports whether the sentence may be turned into a board.
func (r ValidationResult) Valid() bool {
	return len(r.Defects) == 0
}

// Err returns a *ContentError describing the defects, or nil when valid.
func (r ValidationResult) Err(sentence string) error {
	if r.Valid() {
		return nil
	}
	return &ContentError{Sentence: sentence, Defects: r.Defects}
}

// ContentValidator checks candidate sentences against difficulty presets.
type ContentValidator struct {
	difficulties domain.DifficultyTable
}

// NewContentValidator creates a validator for the given presets.
func NewContentValidator(difficulties domain.DifficultyTable) *ContentValidator {
	return &ContentValidator{difficulties: difficulties}
}

// Validate tokenizes sentence on whitespace and reports:
//   - overflow defects for tokens longer than the character budget,
//   - duplicate defects for tokens appearing more than once (exact match),
//   - a word-count defect when the token count is outside the preset's range
//     or exceeds the board's cells.
//
// Returns domain.ErrUnknownDifficulty when level has no preset.
func (v *ContentValidator) Validate(sentence string, boardSize, level int) (ValidationResult, error) {
	d, err := v.difficulties.Lookup(level)
	if err != nil {
		return ValidationResult{}, err
	}

	tokens := strings.Fields(sentence)
	result := ValidationResult{
		Tokens: tokens,
		Budget: CharacterBudget(boardSize, d),
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
		if n := utf8.RuneCountInString(tok); n > result.Budget {
			result.Defects = append(result.Defects, Defect{
				Kind:   DefectOverflow,
				Word:   tok,
				Detail: fmt.Sprintf("word %q has %d characters, budget is %d", tok, n, result.Budget),
			})
		}
	}

	reported := make(map[string]bool, len(counts))
	for _, tok := range tokens {
		if counts[tok] > 1 && !reported[tok] {
			reported[tok] = true
			result.Defects = append(result.Defects, Defect{
				Kind:   DefectDuplicate,
				Word:   tok,
				Detail: fmt.Sprintf("word %q appears %d times", tok, counts[tok]),
			})
		}
	}

	n := len(tokens)
	switch {
	case n < d.MinWords || n > d.MaxWords:
		result.Defects = append(result.Defects, Defect{
			Kind:   DefectWordCount,
			Detail: fmt.Sprintf("%d words outside range [%d,%d]", n, d.MinWords, d.MaxWords),
		})
	case n > boardSize*boardSize:
		result.Defects = append(result.Defects, Defect{
			Kind:   DefectWordCount,
			Detail: fmt.Sprintf("%d words exceed %d board cells", n, boardSize*boardSize),
		})
	}

	return result, nil
}
