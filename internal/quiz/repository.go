package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/m3rciful/quizbot/internal/logger"
	"github.com/m3rciful/quizbot/internal/storage"
)

const keyPrefix = "quiz"

// Key derives the store key for a session. Chat id and message id are
// delimited so keys cannot collide across chats.
func Key(chatID int64, setupMessageID int) string {
	return fmt.Sprintf("%s:%d:%d", keyPrefix, chatID, setupMessageID)
}

// RepositoryOptions tune session record lifetimes.
type RepositoryOptions struct {
	// SessionTTL bounds how long a configuring/running record lives.
	SessionTTL time.Duration
	// FinishedTTL is the shortened lifetime applied once a quiz finishes.
	FinishedTTL time.Duration
}

// Repository persists sessions in the key-value store.
//
// Mutate runs inside the store's atomic update, so concurrent mutations of
// the same session never lose writes; the later one retries against the
// fresh record instead.
type Repository struct {
	store       storage.Store
	sessionTTL  time.Duration
	finishedTTL time.Duration
	log         *slog.Logger
}

// NewRepository wraps a store with the session codec and key scheme.
func NewRepository(store storage.Store, opts RepositoryOptions) *Repository {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.FinishedTTL <= 0 {
		opts.FinishedTTL = time.Hour
	}
	return &Repository{
		store:       store,
		sessionTTL:  opts.SessionTTL,
		finishedTTL: opts.FinishedTTL,
		log:         logger.Quiz,
	}
}

func (r *Repository) ttlFor(s *Session) time.Duration {
	if s.Phase == PhaseFinished {
		return r.finishedTTL
	}
	return r.sessionTTL
}

// Create writes a new session record. The key must be free.
func (r *Repository) Create(ctx context.Context, s *Session) error {
	blob, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	key := Key(s.ChatID, s.SetupMessageID)
	ok, err := r.store.SetNX(ctx, key, string(blob), r.ttlFor(s))
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return ErrAlreadyExists
	}
	r.log.Info("session created",
		slog.String("event", "session.create"),
		slog.String("key", key),
		slog.Int64("creator_id", s.CreatorID),
	)
	return nil
}

// Load reads and deserializes the session record under the key.
func (r *Repository) Load(ctx context.Context, chatID int64, setupMessageID int) (*Session, error) {
	key := Key(chatID, setupMessageID)
	blob, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoQuizFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s, err := decode(blob)
	if err != nil {
		r.log.Error("corrupt session record",
			slog.String("event", "session.corrupt"),
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return s, nil
}

// Mutate atomically applies fn to the stored session and writes the result
// back with a bumped version. An error from fn aborts the write and is
// returned unchanged, leaving the record as it was.
func (r *Repository) Mutate(ctx context.Context, chatID int64, setupMessageID int, fn func(*Session) error) (*Session, error) {
	key := Key(chatID, setupMessageID)
	var result *Session

	update := func(current string) (string, error) {
		s, err := decode(current)
		if err != nil {
			return "", err
		}
		if err := fn(s); err != nil {
			return "", err
		}
		s.Version++
		blob, err := json.Marshal(s)
		if err != nil {
			return "", fmt.Errorf("marshal session: %w", err)
		}
		result = s
		return string(blob), nil
	}

	// TTL choice must see the post-mutation phase, so run the update against
	// the live TTL first and downgrade finished records right after.
	err := r.store.Update(ctx, key, r.sessionTTL, update)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoQuizFound
	}
	if err != nil {
		return nil, err
	}
	if result.Phase == PhaseFinished {
		if blob, mErr := json.Marshal(result); mErr == nil {
			if sErr := r.store.Set(ctx, key, string(blob), r.finishedTTL); sErr != nil {
				r.log.Warn("finished ttl downgrade failed",
					slog.String("event", "session.ttl"),
					slog.String("key", key),
					slog.String("err", sErr.Error()),
				)
			}
		}
	}
	return result, nil
}

// Delete removes the session record.
func (r *Repository) Delete(ctx context.Context, chatID int64, setupMessageID int) error {
	return r.store.Delete(ctx, Key(chatID, setupMessageID))
}

func decode(blob string) (*Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return &s, nil
}
