package quiz

import "context"

// Button is one inline keyboard button in transport-neutral form. Key is the
// callback action identifier; Payload carries optional action data (the
// literal answer text for answer buttons).
type Button struct {
	Label   string
	Key     string
	Payload string
}

// Messenger is the outbound messaging transport consumed by the engine.
// EditMessage and Notify are best-effort from the engine's perspective:
// implementations may deliver asynchronously.
type Messenger interface {
	// SendMessage posts a new message and returns the transport-assigned
	// message id, which keys the session record.
	SendMessage(ctx context.Context, chatID int64, text string, keyboard [][]Button) (int, error)
	// EditMessage replaces the text and keyboard of an existing message.
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard [][]Button) error
	// Notify sends a plain text notification into the chat.
	Notify(ctx context.Context, chatID int64, text string) error
}
