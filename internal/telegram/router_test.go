package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/internal/quiz"
)

func TestMentionsBot(t *testing.T) {
	r := &Router{botName: "QuizBot"}

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"plain mention", "@QuizBot", true},
		{"mention mid-sentence", "hey @QuizBot start a quiz", true},
		{"case insensitive", "hey @quizbot", true},
		{"other mention", "hey @OtherBot", false},
		{"no entities", "just text", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := &tele.Message{Text: tc.text}
			if at := indexUTF16(tc.text, '@'); at >= 0 {
				end := len(tc.text)
				for i := at; i < len(tc.text); i++ {
					if tc.text[i] == ' ' {
						end = i
						break
					}
				}
				msg.Entities = []tele.MessageEntity{{
					Type:   tele.EntityMention,
					Offset: at,
					Length: end - at,
				}}
			}
			if got := r.mentionsBot(msg); got != tc.want {
				t.Errorf("mentionsBot(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

// indexUTF16 returns the UTF-16 offset of the first occurrence of b. The
// test texts are ASCII, so byte and UTF-16 offsets coincide.
func indexUTF16(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func TestParseCallback(t *testing.T) {
	cases := []struct {
		name        string
		cb          *tele.Callback
		wantKey     string
		wantPayload string
	}{
		{"nil", nil, "", ""},
		{"unique set", &tele.Callback{Unique: "im_in"}, "im_in", ""},
		{"unique with data", &tele.Callback{Unique: "answer", Data: "go"}, "answer", "go"},
		{"raw encoded", &tele.Callback{Data: "\fstart_quiz"}, "start_quiz", ""},
		{"raw with payload", &tele.Callback{Data: "\fanswer|let"}, "answer", "let"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := parseCallback(tc.cb)
			if key != tc.wantKey || payload != tc.wantPayload {
				t.Errorf("parseCallback = (%q, %q), want (%q, %q)", key, payload, tc.wantKey, tc.wantPayload)
			}
		})
	}
}

func TestBuildMarkup(t *testing.T) {
	rows := [][]quiz.Button{
		{{Label: "I'm in!", Key: "im_in"}},
		{{Label: "1", Key: "answer", Payload: "go"}, {Label: "2", Key: "answer", Payload: "async"}},
	}
	markup := buildMarkup(rows)
	if markup == nil {
		t.Fatal("nil markup")
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[1]) != 2 {
		t.Fatalf("answer row = %d buttons, want 2", len(markup.InlineKeyboard[1]))
	}
	join := markup.InlineKeyboard[0][0]
	if join.Text != "I'm in!" || join.Unique != "im_in" {
		t.Errorf("join button = %+v", join)
	}
	answer := markup.InlineKeyboard[1][0]
	if answer.Unique != "answer" || answer.Data != "go" {
		t.Errorf("answer button = %+v", answer)
	}

	if buildMarkup(nil) != nil {
		t.Error("empty rows must produce nil markup")
	}
}
