package telegram

import (
	"context"
	"strings"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/internal/logger"
	"github.com/m3rciful/quizbot/internal/quiz"
)

// Router dispatches inbound Telegram updates to the quiz engine: a mention
// of the bot creates a session, button taps feed the setup coordinator or
// the scheduler depending on the callback key and session phase.
type Router struct {
	botName   string
	setup     *quiz.Setup
	scheduler *quiz.Scheduler
	messenger quiz.Messenger
	log       *slog.Logger
}

// NewRouter builds the event router. botName is the bot's username without
// the leading @.
func NewRouter(botName string, setup *quiz.Setup, scheduler *quiz.Scheduler, messenger quiz.Messenger) *Router {
	return &Router{
		botName:   botName,
		setup:     setup,
		scheduler: scheduler,
		messenger: messenger,
		log:       logger.TG,
	}
}

// Attach registers the router's handlers on the bot.
func (r *Router) Attach(bot *tele.Bot) {
	bot.Handle(tele.OnText, recoverMiddleware(loggerMiddleware(r.handleText)))
	bot.Handle(tele.OnCallback, recoverMiddleware(loggerMiddleware(r.handleCallback)))
}

// handleText creates a session when the message mentions the bot.
func (r *Router) handleText(c tele.Context) error {
	msg := c.Message()
	if msg == nil || c.Sender() == nil {
		return nil
	}
	if !r.mentionsBot(msg) {
		return nil
	}

	ctx := requestContext(c)
	sender := c.Sender()
	sess, err := r.setup.CreateSession(ctx, sender.ID, displayName(sender), msg.Chat.ID)
	if err != nil {
		return r.reportError(ctx, msg.Chat.ID, "create", err)
	}

	r.log.LogAttrs(ctx, slog.LevelInfo, "session created from mention",
		slog.String("event", "route.create"),
		slog.String("key", quiz.Key(sess.ChatID, sess.SetupMessageID)),
	)
	return nil
}

// mentionsBot scans message entities for a mention span matching the bot's
// username, case-insensitively.
func (r *Router) mentionsBot(msg *tele.Message) bool {
	want := "@" + r.botName
	for _, entity := range msg.Entities {
		if entity.Type != tele.EntityMention {
			continue
		}
		if strings.EqualFold(msg.EntityText(entity), want) {
			return true
		}
	}
	return false
}

// handleCallback dispatches a button tap by its callback key. Unrecognized
// keys are treated as answer submissions, which the scheduler ignores unless
// the session is running.
func (r *Router) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil || cb.Message == nil || c.Sender() == nil {
		return nil
	}
	// Ack the tap so the client stops its spinner regardless of outcome.
	_ = c.Respond()

	ctx := requestContext(c)
	sender := c.Sender()
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.ID
	key, payload := parseCallback(cb)

	var err error
	switch {
	case key == quiz.KeyJoin:
		err = r.setup.Join(ctx, chatID, messageID, sender.ID, displayName(sender))
	case quiz.TimerOption(key).Valid():
		err = r.setup.SetTimer(ctx, chatID, messageID, sender.ID, quiz.TimerOption(key))
	case quiz.CountOption(key).Valid():
		err = r.setup.SetQuestionCount(ctx, chatID, messageID, sender.ID, quiz.CountOption(key))
	case quiz.Category(key).Valid():
		err = r.setup.SetCategory(ctx, chatID, messageID, sender.ID, quiz.Category(key))
	case key == quiz.KeyStart:
		err = r.scheduler.Start(ctx, chatID, messageID, sender.ID)
	case key == quiz.KeyAnswer:
		err = r.scheduler.SubmitAnswer(ctx, chatID, messageID, sender.ID, payload)
	default:
		if payload == "" {
			payload = key
		}
		err = r.scheduler.SubmitAnswer(ctx, chatID, messageID, sender.ID, payload)
	}

	if err != nil {
		return r.reportError(ctx, chatID, key, err)
	}
	return nil
}

// reportError sends the human-readable reason for a domain error back into
// the chat as a plain notification; infrastructure errors are only logged.
func (r *Router) reportError(ctx context.Context, chatID int64, action string, err error) error {
	reason := quiz.UserReason(err)
	if reason == "" {
		r.log.LogAttrs(ctx, slog.LevelError, "handler failed",
			slog.String("event", "route.error"),
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
		return err
	}

	r.log.LogAttrs(ctx, slog.LevelInfo, "action rejected",
		slog.String("event", "route.reject"),
		slog.String("action", action),
		slog.String("reason", reason),
	)
	if nErr := r.messenger.Notify(ctx, chatID, reason); nErr != nil {
		r.log.LogAttrs(ctx, slog.LevelError, "rejection notify failed",
			slog.String("event", "route.notify"),
			slog.String("err", nErr.Error()),
		)
	}
	return nil
}

func displayName(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
