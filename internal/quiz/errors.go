package quiz

import "errors"

var (
	// ErrNoQuizFound means the referenced session key has no record.
	ErrNoQuizFound = errors.New("quiz: no quiz found")
	// ErrAlreadyExists means a session record already occupies the key.
	ErrAlreadyExists = errors.New("quiz: session already exists")
	// ErrNotAuthorized means a non-creator attempted a creator-only action.
	ErrNotAuthorized = errors.New("quiz: not authorized")
	// ErrAlreadyJoined means the user is already a participant.
	ErrAlreadyJoined = errors.New("quiz: already joined")
	// ErrCorruptRecord means a stored session failed to deserialize.
	ErrCorruptRecord = errors.New("quiz: corrupt session record")
	// ErrQuizRunning means the action is only valid before the quiz starts.
	ErrQuizRunning = errors.New("quiz: quiz already running")
	// ErrQuizFinished means the session reached its terminal phase.
	ErrQuizFinished = errors.New("quiz: quiz already finished")
	// ErrInvalidOption means the submitted configuration value is not selectable.
	ErrInvalidOption = errors.New("quiz: invalid option")
)

// UserReason maps a domain error to the short text shown to the user in chat.
// Unknown (infrastructure) errors yield an empty string: those are logged,
// not echoed at the user.
func UserReason(err error) string {
	switch {
	case errors.Is(err, ErrNoQuizFound):
		return "No quiz found for this message."
	case errors.Is(err, ErrNotAuthorized):
		return "Only the quiz creator can do that."
	case errors.Is(err, ErrAlreadyJoined):
		return "You are already in!"
	case errors.Is(err, ErrQuizRunning):
		return "The quiz is already running."
	case errors.Is(err, ErrQuizFinished):
		return "This quiz has already finished."
	case errors.Is(err, ErrAlreadyExists):
		return "A quiz is already set up on this message."
	case errors.Is(err, ErrInvalidOption):
		return "That option is not available."
	}
	return ""
}
