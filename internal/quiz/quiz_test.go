package quiz

import (
	"context"
	"fmt"
	"sync"

	"github.com/m3rciful/quizbot/internal/storage/memstore"
)

// fakeMessenger records outbound calls for assertions.
type fakeMessenger struct {
	mu sync.Mutex

	nextMessageID int
	sends         []sentMessage
	edits         []sentMessage
	notifications []string

	editErr error
}

type sentMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  [][]Button
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextMessageID: 100}
}

func (m *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string, keyboard [][]Button) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextMessageID
	m.nextMessageID++
	m.sends = append(m.sends, sentMessage{ChatID: chatID, MessageID: id, Text: text, Keyboard: keyboard})
	return id, nil
}

func (m *fakeMessenger) EditMessage(_ context.Context, chatID int64, messageID int, text string, keyboard [][]Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return m.editErr
	}
	m.edits = append(m.edits, sentMessage{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: keyboard})
	return nil
}

func (m *fakeMessenger) Notify(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, fmt.Sprintf("%d:%s", chatID, text))
	return nil
}

func (m *fakeMessenger) editCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edits)
}

func (m *fakeMessenger) lastEdit() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edits[len(m.edits)-1]
}

func newTestRepo() *Repository {
	return NewRepository(memstore.New(), RepositoryOptions{})
}
