package questions

import (
	"context"
	"errors"
	"testing"
)

func TestStaticSourceCategories(t *testing.T) {
	src, err := NewStaticSource()
	if err != nil {
		t.Fatalf("new static source: %v", err)
	}
	for _, category := range []string{"JS", "TS", "GO"} {
		qs, err := src.QuestionsFor(context.Background(), category, 15)
		if err != nil {
			t.Fatalf("questions for %s: %v", category, err)
		}
		if len(qs) != 15 {
			t.Errorf("%s bank holds %d questions, want 15", category, len(qs))
		}
		for i, q := range qs {
			found := false
			for _, opt := range q.Options {
				if opt == q.Correct {
					found = true
				}
			}
			if !found {
				t.Errorf("%s question %d: correct answer %q not among options %v", category, i, q.Correct, q.Options)
			}
		}
	}
}

func TestStaticSourceTruncates(t *testing.T) {
	src, err := NewStaticSource()
	if err != nil {
		t.Fatalf("new static source: %v", err)
	}
	qs, err := src.QuestionsFor(context.Background(), "GO", 5)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("len = %d, want 5", len(qs))
	}

	// Requests beyond the bank size return the whole bank.
	qs, err = src.QuestionsFor(context.Background(), "GO", 100)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(qs) != 15 {
		t.Fatalf("len = %d, want 15", len(qs))
	}
}

func TestStaticSourceUnknownCategory(t *testing.T) {
	src, err := NewStaticSource()
	if err != nil {
		t.Fatalf("new static source: %v", err)
	}
	if _, err := src.QuestionsFor(context.Background(), "COBOL", 5); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("unknown category = %v, want ErrUnknownCategory", err)
	}
}

func TestParseBankRejectsIncomplete(t *testing.T) {
	_, err := ParseBank([]byte(`
JS:
  - text: "incomplete"
    options: []
    correct: ""
`))
	if err == nil {
		t.Fatal("incomplete question must fail validation")
	}
}
