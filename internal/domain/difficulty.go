package domain

import (
	"fmt"
	"time"
)

// Difficulty is the externally supplied configuration of one difficulty level.
type Difficulty struct {
	Level              int           `json:"level"`
	BoardSize          int           `json:"board_size"`
	MinWords           int           `json:"min_words"`
	MaxWords           int           `json:"max_words"`
	MaxWordLength      int           `json:"max_word_length"`
	StoneSlack         int           `json:"stone_slack"`
	InitialDisplayTime time.Duration `json:"initial_display_time"`
	TargetTime         time.Duration `json:"target_time"`
	PlayTimeLimit      time.Duration `json:"play_time_limit"` // zero disables the play countdown
}

// DefaultDifficulties returns the built-in presets, easiest first.
func DefaultDifficulties() []Difficulty {
	return []Difficulty{
		{
			Level:              1,
			BoardSize:          5,
			MinWords:           3,
			MaxWords:           5,
			MaxWordLength:      8,
			StoneSlack:         3,
			InitialDisplayTime: 5 * time.Second,
			TargetTime:         10 * time.Second,
			PlayTimeLimit:      60 * time.Second,
		},
		{
			Level:              2,
			BoardSize:          6,
			MinWords:           4,
			MaxWords:           7,
			MaxWordLength:      6,
			StoneSlack:         2,
			InitialDisplayTime: 4 * time.Second,
			TargetTime:         15 * time.Second,
			PlayTimeLimit:      60 * time.Second,
		},
		{
			Level:              3,
			BoardSize:          7,
			MinWords:           5,
			MaxWords:           9,
			MaxWordLength:      5,
			StoneSlack:         1,
			InitialDisplayTime: 3 * time.Second,
			TargetTime:         20 * time.Second,
			PlayTimeLimit:      45 * time.Second,
		},
	}
}

// Validate checks that a difficulty preset is internally consistent.
func (d Difficulty) Validate() error {
	switch {
	case d.Level < 1:
		return fmt.Errorf("%w: difficulty level must be positive", ErrValidation)
	case d.BoardSize < 3:
		return fmt.Errorf("%w: board size must be at least 3", ErrValidation)
	case d.MinWords < 1 || d.MaxWords < d.MinWords:
		return fmt.Errorf("%w: word range [%d,%d] is empty", ErrValidation, d.MinWords, d.MaxWords)
	case d.MaxWords > 2*d.BoardSize:
		// no more than 2n points of an n×n grid avoid three-in-a-line
		return fmt.Errorf("%w: %d words cannot be placed without collinear triples on a %dx%d board",
			ErrValidation, d.MaxWords, d.BoardSize, d.BoardSize)
	case d.MaxWordLength < 1:
		return fmt.Errorf("%w: max word length must be positive", ErrValidation)
	case d.StoneSlack < 0:
		return fmt.Errorf("%w: stone slack cannot be negative", ErrValidation)
	case d.InitialDisplayTime < 0 || d.TargetTime <= 0 || d.PlayTimeLimit < 0:
		return fmt.Errorf("%w: display, target and play times must be non-negative", ErrValidation)
	}
	return nil
}

// DifficultyTable looks difficulty presets up by level.
type DifficultyTable map[int]Difficulty

// NewDifficultyTable indexes presets by level, rejecting invalid or repeated ones.
func NewDifficultyTable(difficulties []Difficulty) (DifficultyTable, error) {
	table := make(DifficultyTable, len(difficulties))
	for _, d := range difficulties {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("difficulty %d: %w", d.Level, err)
		}
		if _, dup := table[d.Level]; dup {
			return nil, fmt.Errorf("%w: difficulty level %d defined twice", ErrValidation, d.Level)
		}
		table[d.Level] = d
	}
	return table, nil
}

// Lookup returns the preset for level or ErrUnknownDifficulty.
func (t DifficultyTable) Lookup(level int) (Difficulty, error) {
	d, ok := t[level]
	if !ok {
		return Difficulty{}, fmt.Errorf("%w: %d", ErrUnknownDifficulty, level)
	}
	return d, nil
}
