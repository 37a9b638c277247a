package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/valik230211/skezzy-support-bot/internal/state"
	"github.com/valik230211/skezzy-support-bot/internal/storage"
)

// handleCallback обрабатывает нажатия инлайн-кнопок. Все callback-действия
// доступны только администраторам.
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Ошибка подтверждения callback: %v", err)
	}

	chatID := query.From.ID
	messageID := 0
	if query.Message != nil {
		messageID = query.Message.MessageID
	}

	if !b.isAdmin(ctx, chatID) {
		reply := tgbotapi.NewMessage(chatID, "⛔ У вас нет прав для этого действия.")
		reply.ReplyMarkup = mainMenu(false)
		b.send(reply)
		return
	}

	cb := parseCallback(query.Data)
	switch cb.Kind {
	case CbConnect:
		b.connectToUser(ctx, chatID, cb.ID)
	case CbTicketsList:
		b.showTicketsList(ctx, chatID, messageID)
	case CbReplyTicket:
		b.startTicketReply(ctx, chatID, cb.ID)
	case CbViewTicket:
		b.viewTicket(ctx, chatID, messageID, cb.ID)
	case CbTakeTicket:
		b.takeTicket(ctx, chatID, messageID, cb.ID)
	case CbCloseTicketList:
		b.closeTicketAndNotify(ctx, cb.ID, chatID)
		b.showTicketsList(ctx, chatID, messageID)
	case CbCloseTicket:
		b.closeTicketAndNotify(ctx, cb.ID, chatID)
		text := fmt.Sprintf("✅ Тикет ID **%d** закрыт администратором.", cb.ID)
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup())
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(edit); err != nil {
			reply := tgbotapi.NewMessage(chatID, text)
			reply.ParseMode = tgbotapi.ModeMarkdown
			reply.ReplyMarkup = adminMenu()
			b.send(reply)
		}
	}
}

// connectToUser закрепляет чат игрока за администратором.
func (b *Bot) connectToUser(ctx context.Context, adminID, userID int64) {
	currentAdmin, taken, err := b.store.AssignedAdmin(ctx, userID)
	if err != nil {
		log.Printf("Ошибка поиска связки для %d: %v", userID, err)
	}

	if taken {
		if currentAdmin == adminID {
			reply := tgbotapi.NewMessage(adminID, fmt.Sprintf("Вы уже подключены к чату с пользователем ID **%d**. Начните писать сообщение.", userID))
			reply.ParseMode = tgbotapi.ModeMarkdown
			reply.ReplyMarkup = chatMenu()
			b.send(reply)
		} else {
			reply := tgbotapi.NewMessage(adminID, fmt.Sprintf("❌ Чат уже занят другим администратором (%s).", b.displayName(ctx, currentAdmin)))
			reply.ParseMode = tgbotapi.ModeMarkdown
			reply.ReplyMarkup = adminMenu()
			b.send(reply)
		}
		return
	}

	if err := b.store.AssignChat(ctx, userID, adminID); err != nil {
		log.Printf("Ошибка закрепления чата %d за %d: %v", userID, adminID, err)
		b.send(tgbotapi.NewMessage(adminID, "❌ Не удалось подключиться к чату."))
		return
	}

	reply := tgbotapi.NewMessage(adminID, fmt.Sprintf("✅ Вы подключились к чату с игроком **%d**.", userID))
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = chatMenu()
	b.send(reply)

	notice := tgbotapi.NewMessage(userID, "🆘 Админ подключился к чату. Теперь можно писать сообщения.")
	notice.ReplyMarkup = chatMenu()
	if _, err := b.api.Send(notice); err != nil {
		log.Printf("Ошибка уведомления игрока %d: %v", userID, err)
		fail := tgbotapi.NewMessage(adminID, fmt.Sprintf("❌ Не удалось уведомить пользователя ID %d о подключении.", userID))
		fail.ReplyMarkup = adminMenu()
		b.send(fail)
	}
}

// startTicketReply переводит администратора в режим быстрого ответа.
func (b *Bot) startTicketReply(ctx context.Context, adminID, ticketID int64) {
	ticket, err := b.store.GetTicket(ctx, ticketID)
	if err != nil {
		log.Printf("Ошибка чтения тикета %d: %v", ticketID, err)
	}
	if ticket == nil {
		b.sendTicketNotFound(adminID, ticketID)
		return
	}

	b.states.Set(adminID, state.Conversation{
		Step: state.AwaitTicketReply,
		Data: state.Data{
			TicketID:   ticketID,
			TargetUser: ticket.UserID,
			AdminName:  b.displayName(ctx, adminID),
		},
	})

	reply := tgbotapi.NewMessage(adminID, fmt.Sprintf("✍️ Вы отвечаете на **Тикет ID %d** игроку @%s.\nВведите ваш ответ:", ticketID, ticket.Username))
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = cancelMenu()
	b.send(reply)
}

// viewTicket показывает карточку тикета и приложенные доказательства.
func (b *Bot) viewTicket(ctx context.Context, adminID int64, messageID int, ticketID int64) {
	ticket, err := b.store.GetTicket(ctx, ticketID)
	if err != nil {
		log.Printf("Ошибка чтения тикета %d: %v", ticketID, err)
	}
	if ticket == nil {
		b.sendTicketNotFound(adminID, ticketID)
		return
	}

	text := b.ticketCard(ctx, ticket)
	kb := b.ticketKeyboard(ctx, ticket, adminID)

	edit := tgbotapi.NewEditMessageTextAndMarkup(adminID, messageID, text, kb)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		reply := tgbotapi.NewMessage(adminID, text)
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.ReplyMarkup = kb
		b.send(reply)
	}

	for _, fileID := range ticket.Proofs {
		photo := tgbotapi.NewPhoto(adminID, tgbotapi.FileID(fileID))
		if _, err := b.api.Send(photo); err != nil {
			log.Printf("Ошибка отправки доказательства: %v", err)
			fail := tgbotapi.NewMessage(adminID, fmt.Sprintf("❌ Не удалось отправить доказательство. ID: `%s`", fileID))
			fail.ParseMode = tgbotapi.ModeMarkdown
			b.send(fail)
		}
	}
}

// takeTicket — взятие тикета в работу. Атомарно: при гонке выигрывает
// ровно один администратор.
func (b *Bot) takeTicket(ctx context.Context, adminID int64, messageID int, ticketID int64) {
	taken, err := b.store.TakeTicket(ctx, ticketID, adminID)
	if err != nil {
		log.Printf("Ошибка взятия тикета %d: %v", ticketID, err)
		b.send(tgbotapi.NewMessage(adminID, "❌ Не удалось взять тикет в работу."))
		return
	}

	if taken {
		reply := tgbotapi.NewMessage(adminID, fmt.Sprintf("✅ Вы взяли тикет ID **%d** в работу. Можете начать чат с игроком или ответить.", ticketID))
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.ReplyMarkup = adminMenu()
		b.send(reply)

		ticket, err := b.store.GetTicket(ctx, ticketID)
		if err != nil {
			log.Printf("Ошибка чтения тикета %d: %v", ticketID, err)
		}
		if ticket != nil {
			kb := b.ticketKeyboard(ctx, ticket, adminID)
			edit := tgbotapi.NewEditMessageReplyMarkup(adminID, messageID, kb)
			if _, err := b.api.Send(edit); err != nil {
				log.Printf("Ошибка обновления клавиатуры тикета %d: %v", ticketID, err)
			}
		}
		return
	}

	ticket, err := b.store.GetTicket(ctx, ticketID)
	if err != nil {
		log.Printf("Ошибка чтения тикета %d: %v", ticketID, err)
	}
	var text string
	if ticket != nil && ticket.AdminID != 0 {
		text = fmt.Sprintf("❌ Тикет ID **%d** уже взят в работу администратором %s.", ticketID, b.displayName(ctx, ticket.AdminID))
	} else {
		text = fmt.Sprintf("❌ Тикет ID **%d** уже не открыт.", ticketID)
	}
	reply := tgbotapi.NewMessage(adminID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = adminMenu()
	b.send(reply)
}

// closeTicketAndNotify закрывает тикет, снимает связку чата и уведомляет
// автора тикета.
func (b *Bot) closeTicketAndNotify(ctx context.Context, ticketID, adminID int64) {
	if err := b.store.CloseTicket(ctx, ticketID, adminID); err != nil {
		log.Printf("Ошибка закрытия тикета %d: %v", ticketID, err)
		return
	}

	ticket, err := b.store.GetTicket(ctx, ticketID)
	if err != nil {
		log.Printf("Ошибка чтения тикета %d: %v", ticketID, err)
	}
	if ticket == nil || ticket.UserID == 0 {
		return
	}

	if err := b.store.RemoveChat(ctx, ticket.UserID); err != nil {
		log.Printf("Ошибка удаления связки %d: %v", ticket.UserID, err)
	}

	notice := tgbotapi.NewMessage(ticket.UserID, fmt.Sprintf("✅ Ваш тикет ID **%d** закрыт администратором.", ticketID))
	notice.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(notice); err != nil {
		log.Printf("Ошибка уведомления игрока %d: %v", ticket.UserID, err)
	}
}

// showTicketsList выводит список активных тикетов. При messageID != 0
// редактирует существующее сообщение (кнопка обновления списка).
func (b *Bot) showTicketsList(ctx context.Context, chatID int64, messageID int) {
	tickets, err := b.store.ListActiveTickets(ctx)
	if err != nil {
		log.Printf("Ошибка чтения списка тикетов: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Не удалось получить список тикетов."))
		return
	}

	if len(tickets) == 0 {
		text := "✅ Открытых или взятых в работу тикетов нет."
		if messageID != 0 {
			edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup())
			if _, err := b.api.Send(edit); err != nil {
				b.send(tgbotapi.NewMessage(chatID, text))
			}
		} else {
			b.send(tgbotapi.NewMessage(chatID, text))
		}
		return
	}

	var sb strings.Builder
	sb.WriteString("📄 **Активные тикеты:**\n\n")
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, t := range tickets {
		statusLabel := "🟢 Открыт"
		if t.Status == storage.StatusInProgress {
			statusLabel = "🟠 В работе"
		}
		adminInfo := ""
		if t.AdminID != 0 {
			adminInfo = fmt.Sprintf(" (%s)", b.displayName(ctx, t.AdminID))
		}
		sb.WriteString(fmt.Sprintf("🔹 ID **%d** | %s%s | %s (%s)\n", t.ID, statusLabel, adminInfo, t.Category, formatTicketDate(t.CreatedAt)))

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			viewTicketButton(fmt.Sprintf("👁️ Просмотр %d", t.ID), t.ID),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🔒 Закрыть %d", t.ID), fmt.Sprintf("close_ticket_list_%d", t.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить список", "tickets_list"),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	text := sb.String()

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(edit); err == nil {
			return
		}
	}
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = kb
	b.send(reply)
}

// ticketCard — текст карточки тикета для администратора.
func (b *Bot) ticketCard(ctx context.Context, t *storage.Ticket) string {
	var statusText string
	switch t.Status {
	case storage.StatusOpen:
		statusText = "🟢 Открыт"
	case storage.StatusInProgress:
		statusText = fmt.Sprintf("🟠 В работе (Админ: %s)", b.displayName(ctx, t.AdminID))
	case storage.StatusClosed:
		statusText = "🔴 Закрыт"
	default:
		statusText = "Неизвестен"
	}

	nick := t.Nick
	if nick == "-" {
		nick = "Не указан"
	}

	text := fmt.Sprintf(
		"📄 **Тикет ID: %d**\n"+
			"Игрок: @%s (%d)\n"+
			"Категория: **%s**\n"+
			"Ник в игре: %s\n"+
			"Статус: **%s**\n"+
			"\n**Описание:**\n_%s_",
		t.ID, t.Username, t.UserID, t.Category, nick, statusText, t.Description,
	)
	if len(t.Proofs) > 0 {
		text += fmt.Sprintf("\n\n📎 **Доказательства:** (%d шт.)", len(t.Proofs))
	}
	return text
}

// ticketKeyboard — кнопки действий по тикету в зависимости от статуса.
func (b *Bot) ticketKeyboard(ctx context.Context, t *storage.Ticket, adminID int64) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	switch t.Status {
	case storage.StatusOpen:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔨 Взять в работу", fmt.Sprintf("take_ticket_%d", t.ID)),
		))
	case storage.StatusInProgress:
		if t.AdminID == adminID {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔒 Закрыть тикет", fmt.Sprintf("close_ticket_%d", t.ID)),
			))
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("💬 Ответить игроку", fmt.Sprintf("reply_ticket_%d", t.ID)),
	))

	_, chatActive, err := b.store.AssignedAdmin(ctx, t.UserID)
	if err != nil {
		log.Printf("Ошибка поиска связки для %d: %v", t.UserID, err)
	}
	connectLabel := "🔗 Инициировать чат"
	if chatActive {
		connectLabel = "💬 Чат уже активен"
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(connectButton(connectLabel, t.UserID)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Назад к списку", "tickets_list")),
	)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendTicketNotFound(chatID, ticketID int64) {
	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Тикет ID **%d** не найден.", ticketID))
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = adminMenu()
	b.send(reply)
}

// formatTicketDate приводит метку времени тикета к короткому виду.
func formatTicketDate(createdAt time.Time) string {
	if createdAt.IsZero() {
		return "Неизвестная дата"
	}
	return createdAt.Format("15:04 02.01")
}
