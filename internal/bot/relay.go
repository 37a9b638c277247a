package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// relayMessage пересылает сообщение по активной связке игрок/админ.
// Возвращает true, если сообщение доставлено хотя бы одной стороне.
func (b *Bot) relayMessage(ctx context.Context, msg *tgbotapi.Message) bool {
	chatID := msg.Chat.ID

	// Сторона игрока: сообщения уходят закреплённому админу.
	adminID, ok, err := b.store.AssignedAdmin(ctx, chatID)
	if err != nil {
		log.Printf("Ошибка поиска связки для %d: %v", chatID, err)
	}
	if ok {
		username := senderName(msg)
		if len(msg.Photo) == 0 {
			b.send(tgbotapi.NewMessage(adminID, fmt.Sprintf("💬 Игрок @%s: %s", username, msg.Text)))
		} else {
			b.send(tgbotapi.NewMessage(adminID, fmt.Sprintf("💬 Игрок @%s отправил фото:", username)))
			b.send(tgbotapi.NewForward(adminID, chatID, msg.MessageID))
		}
		return true
	}

	// Сторона админа: сообщения уходят во все его активные чаты.
	if !b.isAdmin(ctx, chatID) {
		return false
	}
	userIDs, err := b.store.ChatsForAdmin(ctx, chatID)
	if err != nil {
		log.Printf("Ошибка чтения чатов админа %d: %v", chatID, err)
		return false
	}
	for _, userID := range userIDs {
		if len(msg.Photo) == 0 {
			b.send(tgbotapi.NewMessage(userID, fmt.Sprintf("💬 Админ: %s", msg.Text)))
		} else {
			b.send(tgbotapi.NewMessage(userID, "💬 Админ отправил фото:"))
			b.send(tgbotapi.NewForward(userID, chatID, msg.MessageID))
		}
	}
	return len(userIDs) > 0
}

// endChat завершает активные чаты отправителя с обеих сторон связки.
func (b *Bot) endChat(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if b.isAdmin(ctx, chatID) {
		userIDs, err := b.store.ChatsForAdmin(ctx, chatID)
		if err != nil {
			log.Printf("Ошибка чтения чатов админа %d: %v", chatID, err)
		}
		for _, userID := range userIDs {
			bye := tgbotapi.NewMessage(userID, "❌ Админ завершил чат.")
			bye.ReplyMarkup = b.mainMenuFor(ctx, userID)
			b.send(bye)
			if err := b.store.RemoveChat(ctx, userID); err != nil {
				log.Printf("Ошибка удаления связки %d: %v", userID, err)
			}
		}

		var reply tgbotapi.MessageConfig
		if len(userIDs) > 0 {
			reply = tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Вы завершили %d активных чатов.", len(userIDs)))
		} else {
			reply = tgbotapi.NewMessage(chatID, "❌ Активных чатов для завершения не найдено.")
		}
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
		return
	}

	adminID, ok, err := b.store.AssignedAdmin(ctx, chatID)
	if err != nil {
		log.Printf("Ошибка поиска связки для %d: %v", chatID, err)
	}
	if ok {
		bye := tgbotapi.NewMessage(adminID, fmt.Sprintf("❌ Игрок @%s завершил чат.", senderName(msg)))
		bye.ReplyMarkup = adminMenu()
		b.send(bye)
		if err := b.store.RemoveChat(ctx, chatID); err != nil {
			log.Printf("Ошибка удаления связки %d: %v", chatID, err)
		}
	}

	reply := tgbotapi.NewMessage(chatID, "❌ Вы завершили чат.")
	reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
	b.send(reply)
}
