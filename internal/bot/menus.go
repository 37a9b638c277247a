package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func mainMenu(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminPanel),
		))
	}

	rows = append(rows,
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRules),
			tgbotapi.NewKeyboardButton(btnDonate),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCallAdmin),
			tgbotapi.NewKeyboardButton(btnTechQuestion),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnReturnItem),
			tgbotapi.NewKeyboardButton(btnBugReport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnInfo),
		),
	)

	return tgbotapi.NewReplyKeyboard(rows...)
}

func (b *Bot) mainMenuFor(ctx context.Context, chatID int64) tgbotapi.ReplyKeyboardMarkup {
	return mainMenu(b.isAdmin(ctx, chatID))
}

func adminMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnTicketsList),
			tgbotapi.NewKeyboardButton(btnBroadcast),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnUsersList),
			tgbotapi.NewKeyboardButton(btnAddAdmin),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnExport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEndChat),
			tgbotapi.NewKeyboardButton(btnPlayerMenu),
		),
	)
}

// cancelMenu — клавиатура с единственной кнопкой отмены для режимов
// быстрого ответа и рассылки.
func cancelMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

// chatMenu — клавиатура активного чата игрок/админ.
func chatMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEndChat),
		),
	)
}

func viewTicketButton(label string, ticketID int64) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("view_ticket_%d", ticketID))
}

func connectButton(label string, userID int64) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("connect_%d", userID))
}
