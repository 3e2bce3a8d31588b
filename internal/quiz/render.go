package quiz

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/m3rciful/quizbot/internal/questions"
)

// Callback action keys shared with the event router.
const (
	KeyJoin  = "im_in"
	KeyStart = "start_quiz"
	// KeyAnswer carries the literal answer text as payload.
	KeyAnswer = "answer"
)

const selectedMark = " ✅"

func mark(selected bool) string {
	if selected {
		return selectedMark
	}
	return ""
}

// RenderSetup produces the control panel text and keyboard for a session in
// its configuration phase. The selected timer, category and question count
// carry a checkmark; participants are listed in join order.
func RenderSetup(s *Session) (string, [][]Button) {
	var b strings.Builder
	b.WriteString("🎲 Quiz setup\n\n")
	b.WriteString("Participants:\n")
	for i, p := range s.Participants {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Username)
	}

	timerRow := make([]Button, 0, 3)
	for _, t := range []TimerOption{Timer5s, Timer10s, Timer15s} {
		timerRow = append(timerRow, Button{
			Label: string(t) + mark(t == s.Timer),
			Key:   string(t),
		})
	}

	countRow := make([]Button, 0, 3)
	for _, c := range []CountOption{Count5, Count10, Count15} {
		countRow = append(countRow, Button{
			Label: string(c) + mark(c == s.QuestionCount),
			Key:   string(c),
		})
	}

	categoryRow := make([]Button, 0, len(Categories))
	for _, c := range Categories {
		categoryRow = append(categoryRow, Button{
			Label: string(c) + mark(c == s.Category),
			Key:   string(c),
		})
	}

	keyboard := [][]Button{
		{{Label: "I'm in!", Key: KeyJoin}},
		timerRow,
		countRow,
		categoryRow,
		{{Label: "Start Quiz 🚀", Key: KeyStart}},
	}
	return b.String(), keyboard
}

// RenderQuestion produces the in-progress view: settings header, live
// scoreboard in join order, the question text, and an answer keyboard whose
// labels are 1-based option indexes and whose payloads are the literal
// answer texts.
func RenderQuestion(s *Session, q questions.Question, index int) (string, [][]Button) {
	var b strings.Builder
	fmt.Fprintf(&b, "⏱ %s | %s | %s\n\n", s.Timer, s.Category, s.QuestionCount)
	b.WriteString("Scoreboard:\n")
	for _, p := range s.Participants {
		fmt.Fprintf(&b, "%s — %d\n", p.Username, p.Score)
	}
	fmt.Fprintf(&b, "\nQuestion %d/%d:\n%s\n", index+1, len(s.Questions), q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}

	row := make([]Button, 0, len(q.Options))
	for i, opt := range q.Options {
		row = append(row, Button{
			Label:   strconv.Itoa(i + 1),
			Key:     KeyAnswer,
			Payload: opt,
		})
	}
	return b.String(), [][]Button{row}
}

// RenderResults produces the terminal standings view, ordered by score
// descending with join order as the tiebreak.
func RenderResults(s *Session) (string, [][]Button) {
	standings := make([]Participant, len(s.Participants))
	copy(standings, s.Participants)
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	var b strings.Builder
	b.WriteString("🏁 Quiz finished!\n\nFinal standings:\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for i, p := range standings {
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		fmt.Fprintf(&b, "%s %s — %d\n", prefix, p.Username, p.Score)
	}
	return b.String(), nil
}
