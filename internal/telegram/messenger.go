package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/internal/logger"
	"github.com/m3rciful/quizbot/internal/quiz"
)

// Messenger implements quiz.Messenger on top of a Telebot bot. Sends that
// need the resulting message id run synchronously; edits and notifications
// go through the async dispatcher and fall back to a direct call when the
// queue is saturated or closed.
type Messenger struct {
	bot  *tele.Bot
	disp *Dispatcher
}

var _ quiz.Messenger = (*Messenger)(nil)

// NewMessenger wires the bot and the outbound dispatcher.
func NewMessenger(bot *tele.Bot, disp *Dispatcher) *Messenger {
	return &Messenger{bot: bot, disp: disp}
}

// SendMessage posts a new message and returns its transport-assigned id.
func (m *Messenger) SendMessage(_ context.Context, chatID int64, text string, keyboard [][]quiz.Button) (int, error) {
	msg, err := m.bot.Send(tele.ChatID(chatID), text, buildMarkup(keyboard))
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return msg.ID, nil
}

// EditMessage replaces the text and keyboard of an existing message.
func (m *Messenger) EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard [][]quiz.Button) error {
	stored := tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	}
	return m.dispatch(ctx, "edit", func() error {
		_, err := m.bot.Edit(stored, text, buildMarkup(keyboard))
		if err != nil && errors.Is(err, tele.ErrSameMessageContent) {
			// Idempotent re-render of identical content is not a failure.
			return nil
		}
		return err
	})
}

// Notify sends a plain text notification into the chat.
func (m *Messenger) Notify(ctx context.Context, chatID int64, text string) error {
	return m.dispatch(ctx, "notify", func() error {
		_, err := m.bot.Send(tele.ChatID(chatID), text)
		return err
	})
}

func (m *Messenger) dispatch(ctx context.Context, action string, run func() error) error {
	if m.disp == nil {
		return run()
	}
	if err := m.disp.Enqueue(ctx, action, run); err != nil {
		if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed) {
			logger.TG.Warn("dispatcher unavailable, sending inline",
				slog.String("event", "tg.queue.fallback"),
				slog.String("action", action),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}
