package gemini

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/phrazzld/wordstone/internal/domain"
)

var promptTemplate = template.Must(template.New("sentence").Parse(
	`Write one natural, everyday sentence in {{.LanguageName}} for a word memory game.
Rules:
- between {{.MinWords}} and {{.MaxWords}} words, separated by single spaces
- no word longer than {{.MaxWordLength}} characters
- no word may appear twice
- no quotes, numbers or emoji
Answer only with JSON of the form {"sentence": "..."}.`))

var languageNames = map[string]string{
	"en": "English",
	"ko": "Korean",
	"ja": "Japanese",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
}

// promptData represents the data passed to the prompt template
type promptData struct {
	LanguageName  string
	MinWords      int
	MaxWords      int
	MaxWordLength int
}

// responseSchema is the JSON shape the model is asked to answer with.
type responseSchema struct {
	Sentence string `json:"sentence"`
}

func buildPrompt(language string, d domain.Difficulty) (string, error) {
	name, ok := languageNames[language]
	if !ok {
		name = language
	}

	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, promptData{
		LanguageName:  name,
		MinWords:      d.MinWords,
		MaxWords:      d.MaxWords,
		MaxWordLength: d.MaxWordLength,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
