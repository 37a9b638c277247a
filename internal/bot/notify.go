package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// notifyNewTicket рассылает карточку нового тикета всем администраторам.
func (b *Bot) notifyNewTicket(ctx context.Context, ticketID int64, username, category, nick, description string) {
	nickLine := nick
	if nickLine == "-" {
		nickLine = "—"
	}
	text := fmt.Sprintf(
		"🆕 **НОВЫЙ ТИКЕТ** (ID: %d)\n"+
			"Игрок: @%s\n"+
			"Категория: **%s**\n"+
			"Ник: %s\n"+
			"Описание: _%s..._",
		ticketID, username, category, nickLine, truncate(description, 100),
	)

	admins, err := b.store.AdminIDs(ctx)
	if err != nil {
		log.Printf("Ошибка чтения списка админов: %v", err)
		return
	}
	for _, adminID := range admins {
		notice := tgbotapi.NewMessage(adminID, text)
		notice.ParseMode = tgbotapi.ModeMarkdown
		notice.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				viewTicketButton("👁️ Просмотреть и взять в работу", ticketID),
			),
		)
		if _, err := b.api.Send(notice); err != nil {
			log.Printf("Ошибка уведомления админа %d: %v", adminID, err)
		}
	}
}

// callAdmin — вызов админа игроком: рассылает приглашение подключиться.
func (b *Bot) callAdmin(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	_, connected, err := b.store.AssignedAdmin(ctx, chatID)
	if err != nil {
		log.Printf("Ошибка поиска связки для %d: %v", chatID, err)
	}
	if connected {
		reply := tgbotapi.NewMessage(chatID, "❗ Вы уже подключены к администратору.")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		return
	}

	username := senderName(msg)
	admins, err := b.store.AdminIDs(ctx)
	if err != nil {
		log.Printf("Ошибка чтения списка админов: %v", err)
	}
	for _, adminID := range admins {
		call := tgbotapi.NewMessage(adminID, fmt.Sprintf("🆘 Игрок @%s (%d) вызвал админа.", username, chatID))
		call.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				connectButton("🔗 Подключиться", chatID),
			),
		)
		if _, err := b.api.Send(call); err != nil {
			log.Printf("Ошибка уведомления админа %d: %v", adminID, err)
		}
	}

	reply := tgbotapi.NewMessage(chatID, "🆘 Ваш вызов отправлен администраторам. Ожидайте подключения.")
	reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
	b.send(reply)
}

// truncate обрезает строку до n рун.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
