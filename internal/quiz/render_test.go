package quiz

import (
	"strings"
	"testing"

	"github.com/m3rciful/quizbot/internal/questions"
)

func buttonByKey(t *testing.T, keyboard [][]Button, key string) Button {
	t.Helper()
	for _, row := range keyboard {
		for _, b := range row {
			if b.Key == key {
				return b
			}
		}
	}
	t.Fatalf("no button with key %q", key)
	return Button{}
}

func TestRenderSetupMarksDefaults(t *testing.T) {
	sess := NewSession(42, "alice", 100, 7)
	text, keyboard := RenderSetup(sess)

	if !strings.Contains(text, "1. alice") {
		t.Errorf("participants missing creator: %q", text)
	}
	if len(keyboard) != 5 {
		t.Fatalf("keyboard rows = %d, want 5", len(keyboard))
	}

	if got := buttonByKey(t, keyboard, "10s").Label; !strings.Contains(got, selectedMark) {
		t.Errorf("default timer not marked: %q", got)
	}
	if got := buttonByKey(t, keyboard, "5s").Label; strings.Contains(got, selectedMark) {
		t.Errorf("unselected timer marked: %q", got)
	}
	if got := buttonByKey(t, keyboard, "10q").Label; !strings.Contains(got, selectedMark) {
		t.Errorf("default count not marked: %q", got)
	}
	if got := buttonByKey(t, keyboard, string(DefaultCategory)).Label; !strings.Contains(got, selectedMark) {
		t.Errorf("default category not marked: %q", got)
	}
	if buttonByKey(t, keyboard, KeyJoin).Label == "" || buttonByKey(t, keyboard, KeyStart).Label == "" {
		t.Error("join/start buttons missing")
	}
}

func TestRenderSetupMovesCheckmark(t *testing.T) {
	sess := NewSession(42, "alice", 100, 7)
	sess.Timer = Timer15s
	_, keyboard := RenderSetup(sess)

	if got := buttonByKey(t, keyboard, "15s").Label; !strings.Contains(got, selectedMark) {
		t.Errorf("selected timer not marked: %q", got)
	}
	if got := buttonByKey(t, keyboard, "10s").Label; strings.Contains(got, selectedMark) {
		t.Errorf("previous timer still marked: %q", got)
	}
}

func TestRenderQuestionKeyboard(t *testing.T) {
	sess := NewSession(42, "alice", 100, 7)
	sess.Questions = []questions.Question{{
		Text:    "Which keyword starts a new goroutine?",
		Options: []string{"go", "async", "spawn"},
		Correct: "go",
	}}
	sess.Participants[0].Score = 2

	text, keyboard := RenderQuestion(sess, sess.Questions[0], 0)
	if !strings.Contains(text, "Which keyword starts a new goroutine?") {
		t.Errorf("question text missing: %q", text)
	}
	if !strings.Contains(text, "alice — 2") {
		t.Errorf("scoreboard missing: %q", text)
	}

	if len(keyboard) != 1 || len(keyboard[0]) != 3 {
		t.Fatalf("keyboard shape = %v", keyboard)
	}
	// Labels are 1-based option indexes; payloads carry the literal answers.
	for i, b := range keyboard[0] {
		if b.Label != string(rune('1'+i)) {
			t.Errorf("label %d = %q", i, b.Label)
		}
		if b.Key != KeyAnswer {
			t.Errorf("key %d = %q, want %q", i, b.Key, KeyAnswer)
		}
	}
	if keyboard[0][0].Payload != "go" || keyboard[0][2].Payload != "spawn" {
		t.Errorf("payloads = %v", keyboard[0])
	}
}

func TestRenderResultsOrdersByScore(t *testing.T) {
	sess := NewSession(42, "alice", 100, 7)
	sess.Participants = []Participant{
		{UserID: 42, Username: "alice", Score: 1},
		{UserID: 43, Username: "bob", Score: 3},
		{UserID: 44, Username: "carol", Score: 1},
	}

	text, keyboard := RenderResults(sess)
	if keyboard != nil {
		t.Errorf("results should have no keyboard: %v", keyboard)
	}

	bob := strings.Index(text, "bob")
	alice := strings.Index(text, "alice")
	carol := strings.Index(text, "carol")
	if bob == -1 || alice == -1 || carol == -1 {
		t.Fatalf("standings missing names: %q", text)
	}
	if !(bob < alice && alice < carol) {
		t.Errorf("standings order wrong (join order breaks score ties): %q", text)
	}
}

func TestTimerOptionDuration(t *testing.T) {
	cases := []struct {
		in   TimerOption
		want string
	}{
		{Timer5s, "5s"},
		{Timer10s, "10s"},
		{Timer15s, "15s"},
		{TimerOption(""), "15s"},
		{TimerOption("30s"), "15s"},
	}
	for _, tc := range cases {
		if got := tc.in.Duration().String(); got != tc.want {
			t.Errorf("Duration(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestCountOptionInt(t *testing.T) {
	cases := []struct {
		in   CountOption
		want int
	}{
		{Count5, 5},
		{Count10, 10},
		{Count15, 15},
		{CountOption(""), 10},
	}
	for _, tc := range cases {
		if got := tc.in.Int(); got != tc.want {
			t.Errorf("Int(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
