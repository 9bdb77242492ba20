// Package gemini provides a generation.SentenceSource backed by Google's
// Gemini API. Each call asks the model for one sentence that fits the
// requested language and difficulty preset; the board builder still
// validates every candidate before it reaches a board.
package gemini
