package quiz

import (
	"context"
	"errors"
	"sync"
	"time"

	"log/slog"

	"github.com/m3rciful/quizbot/internal/logger"
	"github.com/m3rciful/quizbot/internal/questions"
)

// errNoop aborts a Mutate without reporting an error to the caller; the
// stored record stays untouched.
var errNoop = errors.New("quiz: no-op")

// Scheduler drives the question rotation: once started it advances through
// the resolved question sequence on the configured per-question delay,
// editing the session's single message in place. Each session runs in its
// own goroutine, so rotations never block the event router or each other.
type Scheduler struct {
	repo      *Repository
	source    questions.Source
	messenger Messenger
	log       *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// wait suspends for d or until shutdown; overridable in tests.
	wait func(d time.Duration, stop <-chan struct{}) bool
}

// NewScheduler builds the rotation scheduler.
func NewScheduler(repo *Repository, source questions.Source, messenger Messenger) *Scheduler {
	return &Scheduler{
		repo:      repo,
		source:    source,
		messenger: messenger,
		log:       logger.Quiz,
		stop:      make(chan struct{}),
		wait:      waitTimer,
	}
}

func waitTimer(d time.Duration, stop <-chan struct{}) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}

// Start transitions the session to running and launches its rotation loop.
// Only the creator may start; a duplicate start tap is rejected by the
// persisted phase, so a second loop can never be spawned for the same
// session.
func (s *Scheduler) Start(ctx context.Context, chatID int64, setupMessageID int, userID int64) error {
	current, err := s.repo.Load(ctx, chatID, setupMessageID)
	if err != nil {
		return err
	}
	if current.CreatorID != userID {
		return ErrNotAuthorized
	}
	if err := requireConfiguring(current); err != nil {
		return err
	}

	qs, err := s.source.QuestionsFor(ctx, string(current.Category), current.QuestionCount.Int())
	if err != nil {
		return err
	}

	// The phase check repeats inside the atomic mutate: the load above is
	// only a fast path and does not guard against a concurrent start.
	sess, err := s.repo.Mutate(ctx, chatID, setupMessageID, func(sess *Session) error {
		if sess.CreatorID != userID {
			return ErrNotAuthorized
		}
		if err := requireConfiguring(sess); err != nil {
			return err
		}
		sess.Phase = PhaseRunning
		sess.Questions = qs
		sess.CurrentQuestion = 0
		sess.Answered = nil
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("quiz started",
		slog.String("event", "quiz.start"),
		slog.String("key", Key(chatID, setupMessageID)),
		slog.Int("questions", len(sess.Questions)),
		slog.String("timer", string(sess.Timer)),
	)

	s.wg.Add(1)
	go s.run(sess)
	return nil
}

// run owns the session from the first question until the terminal phase.
// Renders are best-effort: a failed edit is logged and the loop proceeds to
// the next delay regardless.
func (s *Scheduler) run(sess *Session) {
	defer s.wg.Done()

	ctx := context.Background()
	chatID, messageID := sess.ChatID, sess.SetupMessageID
	delay := sess.Timer.Duration()

	for i := 0; i < len(sess.Questions); i++ {
		if i > 0 {
			advanced, err := s.repo.Mutate(ctx, chatID, messageID, func(cur *Session) error {
				cur.CurrentQuestion = i
				cur.Answered = nil
				return nil
			})
			if err != nil {
				s.log.Error("question advance failed",
					slog.String("event", "quiz.advance"),
					slog.String("key", Key(chatID, messageID)),
					slog.Int("question", i),
					slog.String("err", err.Error()),
				)
				return
			}
			sess = advanced
		}

		s.renderQuestion(ctx, sess, i)

		if !s.wait(delay, s.stop) {
			s.log.Info("rotation interrupted by shutdown",
				slog.String("event", "quiz.interrupt"),
				slog.String("key", Key(chatID, messageID)),
				slog.Int("question", i),
			)
			return
		}
	}

	finished, err := s.repo.Mutate(ctx, chatID, messageID, func(cur *Session) error {
		cur.Phase = PhaseFinished
		return nil
	})
	if err != nil {
		s.log.Error("finish transition failed",
			slog.String("event", "quiz.finish"),
			slog.String("key", Key(chatID, messageID)),
			slog.String("err", err.Error()),
		)
		return
	}

	text, keyboard := RenderResults(finished)
	if err := s.messenger.EditMessage(ctx, chatID, messageID, text, keyboard); err != nil {
		s.log.Error("results render failed",
			slog.String("event", "quiz.render"),
			slog.String("key", Key(chatID, messageID)),
			slog.String("err", err.Error()),
		)
	}

	s.log.Info("quiz finished",
		slog.String("event", "quiz.finish"),
		slog.String("key", Key(chatID, messageID)),
		slog.Int("questions", len(finished.Questions)),
	)
}

func (s *Scheduler) renderQuestion(ctx context.Context, sess *Session, index int) {
	text, keyboard := RenderQuestion(sess, sess.Questions[index], index)
	if err := s.messenger.EditMessage(ctx, sess.ChatID, sess.SetupMessageID, text, keyboard); err != nil {
		s.log.Error("question render failed",
			slog.String("event", "quiz.render"),
			slog.String("key", Key(sess.ChatID, sess.SetupMessageID)),
			slog.Int("question", index),
			slog.String("err", err.Error()),
		)
	}
}

// SubmitAnswer evaluates an answer submission against the question currently
// on screen. The first submission per participant per question is recorded
// and scores a point when it matches the correct answer; repeated
// submissions, submissions from non-participants, and submissions outside
// the running phase are silent no-ops.
func (s *Scheduler) SubmitAnswer(ctx context.Context, chatID int64, setupMessageID int, userID int64, payload string) error {
	_, err := s.repo.Mutate(ctx, chatID, setupMessageID, func(sess *Session) error {
		if sess.Phase != PhaseRunning {
			return errNoop
		}
		if sess.CurrentQuestion < 0 || sess.CurrentQuestion >= len(sess.Questions) {
			return errNoop
		}
		idx := sess.participantIndex(userID)
		if idx < 0 {
			return errNoop
		}
		if sess.HasAnswered(userID) {
			return errNoop
		}
		sess.Answered = append(sess.Answered, userID)
		if payload == sess.Questions[sess.CurrentQuestion].Correct {
			sess.Participants[idx].Score++
		}
		return nil
	})
	if errors.Is(err, errNoop) {
		return nil
	}
	return err
}

// Shutdown interrupts all rotation loops and waits for them to exit.
func (s *Scheduler) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}
