// Package quiz implements the quiz session engine: the session model,
// its repository over the shared key-value store, the setup coordinator
// handling configuration events, and the question rotation scheduler.
package quiz

import (
	"time"

	"github.com/m3rciful/quizbot/internal/questions"
)

// Phase tracks where a session is in its lifecycle. It is persisted so that
// late or duplicate actions can be rejected after a restart.
type Phase string

const (
	// PhaseConfiguring is the setup window before the creator starts the quiz.
	PhaseConfiguring Phase = "configuring"
	// PhaseRunning means the rotation scheduler owns the session.
	PhaseRunning Phase = "running"
	// PhaseFinished is terminal.
	PhaseFinished Phase = "finished"
)

// TimerOption is the per-question answer window.
type TimerOption string

const (
	Timer5s  TimerOption = "5s"
	Timer10s TimerOption = "10s"
	Timer15s TimerOption = "15s"

	// DefaultTimer applies to new sessions.
	DefaultTimer = Timer10s
)

// Duration maps the option to the per-question delay. Unknown or missing
// values fall back to 15 seconds.
func (t TimerOption) Duration() time.Duration {
	switch t {
	case Timer5s:
		return 5 * time.Second
	case Timer10s:
		return 10 * time.Second
	}
	return 15 * time.Second
}

// Valid reports whether t is one of the selectable options.
func (t TimerOption) Valid() bool {
	switch t {
	case Timer5s, Timer10s, Timer15s:
		return true
	}
	return false
}

// CountOption is the number of questions per quiz.
type CountOption string

const (
	Count5  CountOption = "5q"
	Count10 CountOption = "10q"
	Count15 CountOption = "15q"

	// DefaultCount applies to new sessions.
	DefaultCount = Count10
)

// Int maps the option to a question count, defaulting to 10.
func (c CountOption) Int() int {
	switch c {
	case Count5:
		return 5
	case Count15:
		return 15
	}
	return 10
}

// Valid reports whether c is one of the selectable options.
func (c CountOption) Valid() bool {
	switch c {
	case Count5, Count10, Count15:
		return true
	}
	return false
}

// Category selects a question bank partition.
type Category string

const (
	CategoryJS Category = "JS"
	CategoryTS Category = "TS"
	CategoryGo Category = "GO"

	// DefaultCategory applies to new sessions.
	DefaultCategory = CategoryJS
)

// Categories lists the selectable categories in render order.
var Categories = []Category{CategoryJS, CategoryTS, CategoryGo}

// Valid reports whether c is a selectable category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Participant is one player in a session. Join order is preserved.
type Participant struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Session is one quiz instance scoped to a single chat message.
//
// CreatorID, ChatID and SetupMessageID are immutable after creation; the
// configuration fields are mutable by the creator only while the session is
// configuring. Version is bumped on every successful mutation.
type Session struct {
	CreatorID      int64         `json:"creator_id"`
	ChatID         int64         `json:"chat_id"`
	SetupMessageID int           `json:"setup_message_id"`
	Timer          TimerOption   `json:"timer"`
	Category       Category      `json:"category"`
	QuestionCount  CountOption   `json:"question_count"`
	Participants   []Participant `json:"participants"`
	Phase          Phase         `json:"phase"`

	// Questions is populated at start time so that answer evaluation and
	// rotation survive a process restart along with the record.
	Questions []questions.Question `json:"questions,omitempty"`
	// CurrentQuestion indexes into Questions while running.
	CurrentQuestion int `json:"current_question"`
	// Answered holds user ids that already submitted for the current question.
	Answered []int64 `json:"answered,omitempty"`

	Version int64 `json:"version"`
}

// NewSession builds a session with defaults; the creator joins as the first
// participant.
func NewSession(creatorID int64, username string, setupMessageID int, chatID int64) *Session {
	return &Session{
		CreatorID:      creatorID,
		ChatID:         chatID,
		SetupMessageID: setupMessageID,
		Timer:          DefaultTimer,
		Category:       DefaultCategory,
		QuestionCount:  DefaultCount,
		Participants:   []Participant{{UserID: creatorID, Username: username}},
		Phase:          PhaseConfiguring,
	}
}

// HasParticipant reports whether the user already joined.
func (s *Session) HasParticipant(userID int64) bool {
	return s.participantIndex(userID) >= 0
}

// HasAnswered reports whether the user already submitted for the current question.
func (s *Session) HasAnswered(userID int64) bool {
	for _, id := range s.Answered {
		if id == userID {
			return true
		}
	}
	return false
}

func (s *Session) participantIndex(userID int64) int {
	for i, p := range s.Participants {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}
