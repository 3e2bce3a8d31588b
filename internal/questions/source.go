// Package questions provides the question bank consumed by the quiz engine.
package questions

import (
	"context"
	"errors"
)

// ErrUnknownCategory is returned when no questions exist for a category.
var ErrUnknownCategory = errors.New("questions: unknown category")

// Question is a single trivia question with its answer options.
type Question struct {
	Text    string   `json:"text" yaml:"text" db:"text"`
	Options []string `json:"options" yaml:"options" db:"options"`
	Correct string   `json:"correct" yaml:"correct" db:"correct"`
}

// Source serves ordered question sequences per category.
type Source interface {
	// QuestionsFor returns up to count questions for the category, in bank
	// order. Fewer than count questions may be returned when the bank is
	// smaller than the request.
	QuestionsFor(ctx context.Context, category string, count int) ([]Question, error)
}
