package questions

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed bank.yaml
var bankYAML []byte

// StaticSource serves questions from the embedded bank.
type StaticSource struct {
	byCategory map[string][]Question
}

var _ Source = (*StaticSource)(nil)

// NewStaticSource parses the embedded question bank.
func NewStaticSource() (*StaticSource, error) {
	bank, err := ParseBank(bankYAML)
	if err != nil {
		return nil, err
	}
	return &StaticSource{byCategory: bank}, nil
}

// ParseBank decodes a YAML question bank keyed by category.
func ParseBank(data []byte) (map[string][]Question, error) {
	var bank map[string][]Question
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	for category, qs := range bank {
		for i, q := range qs {
			if q.Text == "" || len(q.Options) == 0 || q.Correct == "" {
				return nil, fmt.Errorf("question bank: incomplete question %d in category %s", i, category)
			}
		}
	}
	return bank, nil
}

// Categories lists the categories present in the bank.
func (s *StaticSource) Categories() []string {
	out := make([]string, 0, len(s.byCategory))
	for c := range s.byCategory {
		out = append(out, c)
	}
	return out
}

// QuestionsFor returns up to count questions for the category, in bank order.
func (s *StaticSource) QuestionsFor(_ context.Context, category string, count int) ([]Question, error) {
	qs, ok := s.byCategory[category]
	if !ok || len(qs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	if count > len(qs) {
		count = len(qs)
	}
	out := make([]Question, count)
	copy(out, qs[:count])
	return out, nil
}
