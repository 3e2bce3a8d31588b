package quiz

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/m3rciful/quizbot/internal/logger"
)

// Setup coordinates session creation and configuration-phase mutations.
// Every operation performs one atomic read-modify-write against the store
// and re-renders the control panel on success.
type Setup struct {
	repo      *Repository
	messenger Messenger
	log       *slog.Logger
}

// NewSetup builds the coordinator.
func NewSetup(repo *Repository, messenger Messenger) *Setup {
	return &Setup{
		repo:      repo,
		messenger: messenger,
		log:       logger.Quiz,
	}
}

// CreateSession posts the control panel message and persists a new session
// keyed by the transport-assigned message id. The creator joins as the first
// participant.
func (s *Setup) CreateSession(ctx context.Context, creatorID int64, username string, chatID int64) (*Session, error) {
	draft := NewSession(creatorID, username, 0, chatID)
	text, keyboard := RenderSetup(draft)

	messageID, err := s.messenger.SendMessage(ctx, chatID, text, keyboard)
	if err != nil {
		return nil, fmt.Errorf("send setup message: %w", err)
	}
	draft.SetupMessageID = messageID

	if err := s.repo.Create(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Join appends a participant and re-renders the panel. Duplicate joins and
// joins after start are rejected without touching the record.
func (s *Setup) Join(ctx context.Context, chatID int64, setupMessageID int, userID int64, username string) error {
	sess, err := s.repo.Mutate(ctx, chatID, setupMessageID, func(sess *Session) error {
		if err := requireConfiguring(sess); err != nil {
			return err
		}
		if sess.HasParticipant(userID) {
			return ErrAlreadyJoined
		}
		sess.Participants = append(sess.Participants, Participant{UserID: userID, Username: username})
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("participant joined",
		slog.String("event", "session.join"),
		slog.String("key", Key(chatID, setupMessageID)),
		slog.Int64("user_id", userID),
		slog.Int("participants", len(sess.Participants)),
	)
	return s.rerender(ctx, sess)
}

// SetTimer updates the answer timer. Creator only, configuration phase only.
// Re-setting the current value is a no-op that still re-renders identically.
func (s *Setup) SetTimer(ctx context.Context, chatID int64, setupMessageID int, userID int64, value TimerOption) error {
	if !value.Valid() {
		return ErrInvalidOption
	}
	return s.configure(ctx, chatID, setupMessageID, userID, "timer", string(value), func(sess *Session) {
		sess.Timer = value
	})
}

// SetQuestionCount updates the number of questions. Creator only,
// configuration phase only.
func (s *Setup) SetQuestionCount(ctx context.Context, chatID int64, setupMessageID int, userID int64, value CountOption) error {
	if !value.Valid() {
		return ErrInvalidOption
	}
	return s.configure(ctx, chatID, setupMessageID, userID, "question_count", string(value), func(sess *Session) {
		sess.QuestionCount = value
	})
}

// SetCategory updates the question category. Creator only, configuration
// phase only.
func (s *Setup) SetCategory(ctx context.Context, chatID int64, setupMessageID int, userID int64, value Category) error {
	if !value.Valid() {
		return ErrInvalidOption
	}
	return s.configure(ctx, chatID, setupMessageID, userID, "category", string(value), func(sess *Session) {
		sess.Category = value
	})
}

func (s *Setup) configure(ctx context.Context, chatID int64, setupMessageID int, userID int64, field, value string, apply func(*Session)) error {
	sess, err := s.repo.Mutate(ctx, chatID, setupMessageID, func(sess *Session) error {
		if sess.CreatorID != userID {
			return ErrNotAuthorized
		}
		if err := requireConfiguring(sess); err != nil {
			return err
		}
		apply(sess)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("session configured",
		slog.String("event", "session.configure"),
		slog.String("key", Key(chatID, setupMessageID)),
		slog.String("field", field),
		slog.String("value", value),
	)
	return s.rerender(ctx, sess)
}

func (s *Setup) rerender(ctx context.Context, sess *Session) error {
	text, keyboard := RenderSetup(sess)
	if err := s.messenger.EditMessage(ctx, sess.ChatID, sess.SetupMessageID, text, keyboard); err != nil {
		return fmt.Errorf("edit setup message: %w", err)
	}
	return nil
}

func requireConfiguring(sess *Session) error {
	switch sess.Phase {
	case PhaseRunning:
		return ErrQuizRunning
	case PhaseFinished:
		return ErrQuizFinished
	}
	return nil
}
