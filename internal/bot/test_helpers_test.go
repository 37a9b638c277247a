package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/valik230211/skezzy-support-bot/internal/storage"
)

// mockSender записывает все исходящие сообщения и умеет имитировать
// ошибку доставки в выбранные чаты.
type mockSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	failFor  map[int64]bool
}

func newMockSender() *mockSender {
	return &mockSender{failFor: map[int64]bool{}}
}

func (s *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	if s.failFor[chatIDOf(c)] {
		return tgbotapi.Message{}, errors.New("forbidden: bot was blocked by the user")
	}
	return tgbotapi.Message{MessageID: len(s.sent)}, nil
}

func (s *mockSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.requests = append(s.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts — тексты сообщений, доставленных в чат (без учёта ошибок доставки).
func (s *mockSender) texts(chatID int64) []string {
	var out []string
	for _, c := range s.sent {
		if chatIDOf(c) != chatID {
			continue
		}
		if t := textOf(c); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *mockSender) lastText(chatID int64) string {
	texts := s.texts(chatID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func chatIDOf(c tgbotapi.Chattable) int64 {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		return v.ChatID
	case tgbotapi.PhotoConfig:
		return v.ChatID
	case tgbotapi.ForwardConfig:
		return v.ChatID
	case tgbotapi.DocumentConfig:
		return v.ChatID
	case tgbotapi.EditMessageTextConfig:
		return v.ChatID
	case tgbotapi.EditMessageReplyMarkupConfig:
		return v.ChatID
	}
	return 0
}

func textOf(c tgbotapi.Chattable) string {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		return v.Text
	case tgbotapi.EditMessageTextConfig:
		return v.Text
	}
	return ""
}

// mockStore — хранилище в памяти с теми же контрактами, что и SQLite.
type mockStore struct {
	users   map[int64]string
	admins  map[int64]int
	tickets map[int64]*storage.Ticket
	chats   map[int64]int64
	nextID  int64

	failCreate bool
}

func newMockStore() *mockStore {
	return &mockStore{
		users:   map[int64]string{},
		admins:  map[int64]int{},
		tickets: map[int64]*storage.Ticket{},
		chats:   map[int64]int64{},
		nextID:  1,
	}
}

var _ Store = (*mockStore)(nil)

func (m *mockStore) RegisterUser(ctx context.Context, id int64, username string) error {
	if _, ok := m.users[id]; !ok {
		m.users[id] = username
	}
	return nil
}

func (m *mockStore) ListUsers(ctx context.Context) ([]storage.User, error) {
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]storage.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, storage.User{ID: id, Username: m.users[id]})
	}
	return out, nil
}

func (m *mockStore) Username(ctx context.Context, id int64) (string, bool, error) {
	name, ok := m.users[id]
	return name, ok, nil
}

func (m *mockStore) IsAdmin(ctx context.Context, id int64) (bool, error) {
	_, ok := m.admins[id]
	return ok, nil
}

func (m *mockStore) AddAdmin(ctx context.Context, id int64, level int) error {
	m.admins[id] = level
	return nil
}

func (m *mockStore) AdminIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(m.admins))
	for id := range m.admins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockStore) CreateTicket(ctx context.Context, userID int64, username, category, nick, description string, proofs []string) (int64, error) {
	if m.failCreate {
		return 0, errors.New("database is locked")
	}
	id := m.nextID
	m.nextID++
	m.tickets[id] = &storage.Ticket{
		ID:          id,
		UserID:      userID,
		Username:    username,
		Category:    category,
		Nick:        nick,
		Description: description,
		Proofs:      append([]string(nil), proofs...),
		Status:      storage.StatusOpen,
		CreatedAt:   time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	return id, nil
}

func (m *mockStore) GetTicket(ctx context.Context, id int64) (*storage.Ticket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *mockStore) ListActiveTickets(ctx context.Context) ([]*storage.Ticket, error) {
	var out []*storage.Ticket
	for _, t := range m.tickets {
		if t.Status == storage.StatusOpen || t.Status == storage.StatusInProgress {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockStore) ListAllTickets(ctx context.Context) ([]*storage.Ticket, error) {
	var out []*storage.Ticket
	for _, t := range m.tickets {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) TakeTicket(ctx context.Context, id, adminID int64) (bool, error) {
	t, ok := m.tickets[id]
	if !ok || t.Status != storage.StatusOpen {
		return false, nil
	}
	t.Status = storage.StatusInProgress
	t.AdminID = adminID
	return true, nil
}

func (m *mockStore) CloseTicket(ctx context.Context, id, adminID int64) error {
	t, ok := m.tickets[id]
	if !ok {
		return fmt.Errorf("ticket %d not found", id)
	}
	t.Status = storage.StatusClosed
	t.AdminID = adminID
	return nil
}

func (m *mockStore) AssignChat(ctx context.Context, userID, adminID int64) error {
	m.chats[userID] = adminID
	return nil
}

func (m *mockStore) AssignedAdmin(ctx context.Context, userID int64) (int64, bool, error) {
	adminID, ok := m.chats[userID]
	return adminID, ok, nil
}

func (m *mockStore) RemoveChat(ctx context.Context, userID int64) error {
	delete(m.chats, userID)
	return nil
}

func (m *mockStore) ChatsForAdmin(ctx context.Context, adminID int64) ([]int64, error) {
	var out []int64
	for userID, aID := range m.chats {
		if aID == adminID {
			out = append(out, userID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func newTestBot() (*Bot, *mockStore, *mockSender) {
	store := newMockStore()
	sender := newMockSender()
	return New(sender, store), store, sender
}

func textMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: chatID, UserName: fmt.Sprintf("player%d", chatID)},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
}

func photoMessage(chatID int64, fileID string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: chatID, UserName: fmt.Sprintf("player%d", chatID)},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Photo: []tgbotapi.PhotoSize{
			{FileID: fileID + "_small", Width: 90, Height: 90},
			{FileID: fileID, Width: 1280, Height: 720},
		},
	}
}

func commandMessage(chatID int64, command string) *tgbotapi.Message {
	msg := textMessage(chatID, command)
	msg.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(command)},
	}
	return msg
}

func callbackFrom(adminID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: adminID, UserName: fmt.Sprintf("player%d", adminID)},
		Message: &tgbotapi.Message{MessageID: 42, Chat: &tgbotapi.Chat{ID: adminID}},
		Data:    data,
	}
}

func handleText(b *Bot, chatID int64, text string) {
	b.HandleUpdate(context.Background(), tgbotapi.Update{Message: textMessage(chatID, text)})
}

func handlePhoto(b *Bot, chatID int64, fileID string) {
	b.HandleUpdate(context.Background(), tgbotapi.Update{Message: photoMessage(chatID, fileID)})
}

func handleCallbackData(b *Bot, adminID int64, data string) {
	b.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: callbackFrom(adminID, data)})
}
