package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// broadcast рассылает текст или фото всем пользователям, кроме самого
// отправителя. Возвращает число успешно доставленных сообщений, ошибки
// доставки (например, бот заблокирован) логируются и пропускаются.
func (b *Bot) broadcast(ctx context.Context, msg *tgbotapi.Message) int {
	users, err := b.store.ListUsers(ctx)
	if err != nil {
		log.Printf("Ошибка чтения пользователей для рассылки: %v", err)
		return 0
	}

	sent := 0
	for _, u := range users {
		if u.ID == msg.Chat.ID {
			continue
		}

		var out tgbotapi.Chattable
		if len(msg.Photo) == 0 {
			m := tgbotapi.NewMessage(u.ID, msg.Text)
			m.ParseMode = tgbotapi.ModeMarkdown
			out = m
		} else {
			p := tgbotapi.NewPhoto(u.ID, tgbotapi.FileID(largestPhoto(msg)))
			p.Caption = msg.Caption
			p.ParseMode = tgbotapi.ModeMarkdown
			out = p
		}

		if _, err := b.api.Send(out); err != nil {
			log.Printf("Ошибка рассылки пользователю %d: %v", u.ID, err)
			continue
		}
		sent++
	}
	return sent
}
