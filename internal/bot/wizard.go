package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/valik230211/skezzy-support-bot/internal/state"
)

// Категории тикетов.
const (
	categoryReturnItem   = "Возврат имущества"
	categoryBugReport    = "Баг-репорт"
	categoryTechQuestion = "Тех. вопросы"
)

// handleStep продолжает начатый сценарий чата.
func (b *Bot) handleStep(ctx context.Context, msg *tgbotapi.Message, conv state.Conversation) {
	switch conv.Step {
	case state.AwaitAdminID:
		b.stepAdminID(ctx, msg)
	case state.AwaitTicketReply:
		b.stepTicketReply(ctx, msg, conv)
	case state.AwaitBroadcast:
		b.stepBroadcast(ctx, msg)
	case state.ReturnItem:
		b.stepReturnItem(ctx, msg, conv)
	case state.BugReport:
		b.stepBugReport(ctx, msg, conv)
	case state.TechQuestion:
		b.stepTechQuestion(ctx, msg)
	}
}

// stepAdminID — ввод Telegram ID нового администратора.
func (b *Bot) stepAdminID(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	defer b.states.Clear(chatID)

	if !b.isAdmin(ctx, chatID) {
		return
	}
	if msg.Text == "" {
		reply := tgbotapi.NewMessage(chatID, "❌ Ожидался ввод Telegram ID.")
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
		return
	}

	newAdminID, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil {
		reply := tgbotapi.NewMessage(chatID, "❌ Некорректный ID. Введите числовой Telegram ID пользователя.")
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
		return
	}

	if err := b.store.AddAdmin(ctx, newAdminID, 1); err != nil {
		log.Printf("Ошибка добавления админа %d: %v", newAdminID, err)
		reply := tgbotapi.NewMessage(chatID, "❌ Не удалось сохранить администратора.")
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
		return
	}

	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Пользователь с ID **%d** теперь администратор (уровень 1).", newAdminID))
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = adminMenu()
	b.send(reply)

	// Уведомляем нового админа, если он уже писал боту.
	congrats := tgbotapi.NewMessage(newAdminID, "🥳 Поздравляем! Вы получили права администратора на **SKEZZY ONLINE**.")
	congrats.ReplyMarkup = mainMenu(true)
	if _, err := b.api.Send(congrats); err != nil {
		log.Printf("Не удалось уведомить нового админа %d: %v", newAdminID, err)
	}
}

// stepTicketReply — быстрый ответ администратора по тикету.
func (b *Bot) stepTicketReply(ctx context.Context, msg *tgbotapi.Message, conv state.Conversation) {
	chatID := msg.Chat.ID

	if msg.Text == btnCancel {
		b.states.Clear(chatID)
		reply := tgbotapi.NewMessage(chatID, "❌ Ответ на тикет отменен.")
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
		return
	}

	// Режим принимает только текст, состояние сохраняется.
	if msg.Text == "" {
		reply := tgbotapi.NewMessage(chatID, "❗ Введите ответ текстом. Отправка фото не поддерживается в режиме быстрого ответа.")
		reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.send(reply)
		return
	}

	responseText := fmt.Sprintf(
		"✉️ **Ответ администратора %s по тикету ID %d:**\n\n_%s_",
		conv.Data.AdminName, conv.Data.TicketID, msg.Text,
	)
	response := tgbotapi.NewMessage(conv.Data.TargetUser, responseText)
	response.ParseMode = tgbotapi.ModeMarkdown

	if _, err := b.api.Send(response); err != nil {
		log.Printf("Ошибка отправки ответа игроку %d: %v", conv.Data.TargetUser, err)
		reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Ошибка отправки: не удалось отправить ответ игроку ID **%d**.", conv.Data.TargetUser))
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
	} else {
		reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Ответ по тикету ID **%d** успешно отправлен игроку.", conv.Data.TicketID))
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
	}

	b.states.Clear(chatID)
}

// stepBroadcast — приём поста рассылки от администратора.
func (b *Bot) stepBroadcast(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.Text == btnCancel {
		b.states.Clear(chatID)
		reply := tgbotapi.NewMessage(chatID, "❌ Рассылка отменена.")
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
		return
	}

	sent := b.broadcast(ctx, msg)

	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ **Рассылка завершена!**\n\nОтправлено сообщений: **%d**", sent))
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = adminMenu()
	b.send(reply)

	b.states.Clear(chatID)
}

// stepReturnItem — мастер возврата имущества: ник, описание, фото.
func (b *Bot) stepReturnItem(ctx context.Context, msg *tgbotapi.Message, conv state.Conversation) {
	chatID := msg.Chat.ID

	switch {
	case conv.Data.Nick == "":
		if msg.Text == "" {
			reply := tgbotapi.NewMessage(chatID, "❗ Введите ник персонажа текстом.")
			reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
			b.send(reply)
			return
		}
		conv.Data.Nick = msg.Text
		b.states.Set(chatID, conv)
		reply := tgbotapi.NewMessage(chatID, "Введите описание имущества:")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)

	case conv.Data.Description == "":
		if msg.Text == "" {
			reply := tgbotapi.NewMessage(chatID, "❗ Введите описание имущества текстом.")
			reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
			b.send(reply)
			return
		}
		conv.Data.Description = msg.Text
		b.states.Set(chatID, conv)
		reply := tgbotapi.NewMessage(chatID, "Прикрепите доказательства (фото) или отправьте любой текст для завершения.")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)

	default:
		if b.collectProof(ctx, msg, &conv) {
			return
		}
		b.finishTicket(ctx, msg, categoryReturnItem, conv.Data.Nick, conv.Data.Description, conv.Data.Proofs,
			"✅ Тикет на возврат имущества создан! ID: **%d**")
	}
}

// stepBugReport — мастер баг-репорта: описание, фото.
func (b *Bot) stepBugReport(ctx context.Context, msg *tgbotapi.Message, conv state.Conversation) {
	chatID := msg.Chat.ID

	if conv.Data.Description == "" {
		if msg.Text == "" {
			reply := tgbotapi.NewMessage(chatID, "❗ Пожалуйста, опишите баг текстом.")
			reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
			b.send(reply)
			return
		}
		conv.Data.Description = msg.Text
		b.states.Set(chatID, conv)
		reply := tgbotapi.NewMessage(chatID, "Прикрепите доказательства (фото) или отправьте любой текст для завершения.")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		return
	}

	if b.collectProof(ctx, msg, &conv) {
		return
	}
	b.finishTicket(ctx, msg, categoryBugReport, "-", conv.Data.Description, conv.Data.Proofs,
		"✅ Тикет создан! ID: **%d**")
}

// stepTechQuestion — одношаговый мастер: описание проблемы текстом.
func (b *Bot) stepTechQuestion(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.Text == "" {
		reply := tgbotapi.NewMessage(chatID, "❗ Пожалуйста, опишите проблему текстом.")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		return
	}

	b.finishTicket(ctx, msg, categoryTechQuestion, "-", msg.Text, nil,
		"✅ Тикет создан! ID: **%d**")
}

// collectProof добавляет фото в доказательства. Возвращает true, если
// сообщение обработано и сценарий продолжается.
func (b *Bot) collectProof(ctx context.Context, msg *tgbotapi.Message, conv *state.Conversation) bool {
	if len(msg.Photo) == 0 {
		return false
	}

	chatID := msg.Chat.ID
	conv.Data.Proofs = append(conv.Data.Proofs, largestPhoto(msg))
	b.states.Set(chatID, *conv)

	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Фото добавлено! Всего: %d.\nПришлите ещё или отправьте любой текст, чтобы завершить.", len(conv.Data.Proofs)))
	reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
	b.send(reply)
	return true
}

// finishTicket сохраняет тикет, уведомляет админов и завершает сценарий.
func (b *Bot) finishTicket(ctx context.Context, msg *tgbotapi.Message, category, nick, description string, proofs []string, okFormat string) {
	chatID := msg.Chat.ID
	username := senderName(msg)

	ticketID, err := b.store.CreateTicket(ctx, chatID, username, category, nick, description, proofs)
	if err != nil {
		log.Printf("Ошибка создания тикета для %d: %v", chatID, err)
		reply := tgbotapi.NewMessage(chatID, "❌ Произошла ошибка при создании тикета.")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		b.states.Clear(chatID)
		return
	}

	b.notifyNewTicket(ctx, ticketID, username, category, nick, description)

	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf(okFormat, ticketID))
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
	b.send(reply)
	b.states.Clear(chatID)
}
