package telegram

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/internal/quiz"
)

// buildMarkup converts transport-neutral button rows into a Telebot inline
// keyboard. The button key becomes the callback unique; the payload rides in
// the callback data.
func buildMarkup(rows [][]quiz.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			if btn.Payload != "" {
				r[j] = *markup.Data(btn.Label, btn.Key, btn.Payload).Inline()
			} else {
				r[j] = *markup.Data(btn.Label, btn.Key).Inline()
			}
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}

// parseCallback splits Telebot's \f<unique>|<payload> callback encoding into
// the action key and its payload (may be empty).
func parseCallback(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	key := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return key, payload
}
