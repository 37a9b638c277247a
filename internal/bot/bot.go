// Package bot содержит маршрутизацию сообщений, мастера создания тикетов,
// чат-связку игрок/админ и рассылки.
package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/valik230211/skezzy-support-bot/internal/state"
	"github.com/valik230211/skezzy-support-bot/internal/storage"
)

// Sender — минимальный срез Telegram API, который нужен боту.
// *tgbotapi.BotAPI ему удовлетворяет.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Store — операции хранилища, используемые обработчиками.
type Store interface {
	RegisterUser(ctx context.Context, id int64, username string) error
	ListUsers(ctx context.Context) ([]storage.User, error)
	Username(ctx context.Context, id int64) (string, bool, error)

	IsAdmin(ctx context.Context, id int64) (bool, error)
	AddAdmin(ctx context.Context, id int64, level int) error
	AdminIDs(ctx context.Context) ([]int64, error)

	CreateTicket(ctx context.Context, userID int64, username, category, nick, description string, proofs []string) (int64, error)
	GetTicket(ctx context.Context, id int64) (*storage.Ticket, error)
	ListActiveTickets(ctx context.Context) ([]*storage.Ticket, error)
	ListAllTickets(ctx context.Context) ([]*storage.Ticket, error)
	TakeTicket(ctx context.Context, id, adminID int64) (bool, error)
	CloseTicket(ctx context.Context, id, adminID int64) error

	AssignChat(ctx context.Context, userID, adminID int64) error
	AssignedAdmin(ctx context.Context, userID int64) (int64, bool, error)
	RemoveChat(ctx context.Context, userID int64) error
	ChatsForAdmin(ctx context.Context, adminID int64) ([]int64, error)
}

var _ Store = (*storage.Store)(nil)

// Bot обрабатывает апдейты Telegram по одному.
type Bot struct {
	api    Sender
	store  Store
	states *state.Tracker
}

// New создаёт бота поверх транспорта и хранилища.
func New(api Sender, store Store) *Bot {
	return &Bot{
		api:    api,
		store:  store,
		states: state.NewTracker(),
	}
}

// HandleUpdate — точка входа цикла обработки апдейтов.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

// send отправляет сообщение в режиме "отправил и забыл": ошибка доставки
// логируется и не прерывает обработку.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Ошибка отправки: %v", err)
	}
}

func (b *Bot) isAdmin(ctx context.Context, id int64) bool {
	ok, err := b.store.IsAdmin(ctx, id)
	if err != nil {
		log.Printf("Ошибка проверки прав %d: %v", id, err)
		return false
	}
	return ok
}

// displayName — отображаемое имя администратора по таблице users.
func (b *Bot) displayName(ctx context.Context, id int64) string {
	username, found, err := b.store.Username(ctx, id)
	if err != nil {
		log.Printf("Ошибка получения username %d: %v", id, err)
	}
	if !found || username == "" {
		return fmt.Sprintf("Admin ID %d", id)
	}
	return "@" + username
}

// senderName — имя отправителя для пересылок и карточек тикетов.
func senderName(msg *tgbotapi.Message) string {
	if msg.From != nil && msg.From.UserName != "" {
		return msg.From.UserName
	}
	return fmt.Sprintf("user_%d", msg.Chat.ID)
}

// largestPhoto — file_id фотографии максимального размера.
func largestPhoto(msg *tgbotapi.Message) string {
	if len(msg.Photo) == 0 {
		return ""
	}
	return msg.Photo[len(msg.Photo)-1].FileID
}
