package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/valik230211/skezzy-support-bot/internal/state"
)

const rulesURL = "http://forum.skezzy-rp.ru/index.php?forums/%D0%9F%D1%80%D0%B0%D0%B2%D0%B8%D0%BB%D0%B0.54/"

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Интересуют только текст и фото, остальное игнорируем.
	if msg.Text == "" && len(msg.Photo) == 0 {
		return
	}

	var rawUsername string
	if msg.From != nil {
		rawUsername = msg.From.UserName
	}
	if err := b.store.RegisterUser(ctx, chatID, rawUsername); err != nil {
		log.Printf("Ошибка регистрации пользователя %d: %v", chatID, err)
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			// Приветствие не трогает начатый сценарий: после /start
			// незавершённый мастер продолжается со своего шага.
			greet := tgbotapi.NewMessage(chatID, "👋 Привет! Я бот поддержки <b>SKEZZY ONLINE</b>!\nВыберите раздел меню ⬇️")
			greet.ParseMode = tgbotapi.ModeHTML
			greet.ReplyMarkup = b.mainMenuFor(ctx, chatID)
			b.send(greet)
			return
		}
	}

	// Начатый сценарий имеет приоритет над кнопками меню.
	if conv, ok := b.states.Get(chatID); ok {
		b.handleStep(ctx, msg, conv)
		return
	}

	if b.handleMenu(ctx, msg, parseCommand(msg.Text)) {
		return
	}

	if b.relayMessage(ctx, msg) {
		return
	}

	reply := tgbotapi.NewMessage(chatID, "❓ Неизвестная команда. Выберите опцию из меню.")
	reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
	b.send(reply)
}

// handleMenu обрабатывает кнопки меню. Возвращает false, если текст не
// является кнопкой или кнопка недоступна отправителю, тогда сообщение
// уходит дальше по цепочке (переписка чата, дефолтный ответ).
func (b *Bot) handleMenu(ctx context.Context, msg *tgbotapi.Message, cmd Command) bool {
	chatID := msg.Chat.ID

	switch cmd {
	case CmdRules:
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("📜 Открыть Правила", rulesURL),
			),
		)
		reply := tgbotapi.NewMessage(chatID, "**Правила проекта SKEZZY ONLINE**.\nНажмите на кнопку ниже, чтобы ознакомиться:")
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.ReplyMarkup = kb
		b.send(reply)
		return true

	case CmdDonate:
		reply := tgbotapi.NewMessage(chatID, "💰 Донат SKEZZY ONLINE\nПо вопросам доната пишите: @stardxx\nПриобрести можно на сайте: skezzy-rp.ru")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		return true

	case CmdInfo:
		text := "🌐 **Наши соц сети:**\n" +
			"📱 [TikTok](https://www.tiktok.com/@skezzy_rp?_r=1)\n" +
			"💬 [Telegram](https://t.me/skezzyrpp)\n" +
			"🌐 [VK](https://vk.me/join/GjVUZI52NqVfL4sb3nPMvRVDVBpEDisQaYk=)\n" +
			"🗣 [Discord](https://discord.gg/RBeQrqrgZN)\n\n" +
			"➖➖➖➖➖➖➖➖➖➖\n" +
			"👋 **Перенос имущества (для новых игроков):**\n" +
			"Ты только перешел на наш проект? У нас есть **перенос имущества**!\n" +
			"Для этого нажми кнопку **\"🎁 Возврат имущества\"** и следуй инструкциям.\n" +
			"По всем вопросам: **@Seko116**"
		reply := tgbotapi.NewMessage(chatID, text)
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		return true

	case CmdTechQuestion:
		b.states.Set(chatID, state.Conversation{Step: state.TechQuestion})
		reply := tgbotapi.NewMessage(chatID, "⚙️ Опишите проблему:")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		return true

	case CmdReturnItem:
		b.states.Set(chatID, state.Conversation{Step: state.ReturnItem})
		reply := tgbotapi.NewMessage(chatID, "Введите ник персонажа:")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		return true

	case CmdBugReport:
		b.states.Set(chatID, state.Conversation{Step: state.BugReport})
		reply := tgbotapi.NewMessage(chatID, "Опишите баг:")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		return true

	case CmdCallAdmin:
		b.callAdmin(ctx, msg)
		return true

	case CmdAdminPanel:
		if !b.isAdmin(ctx, chatID) {
			return false
		}
		reply := tgbotapi.NewMessage(chatID, "🛠 Добро пожаловать в Админ-панель. Выберите действие:")
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
		return true

	case CmdPlayerMenu:
		if !b.isAdmin(ctx, chatID) {
			return false
		}
		reply := tgbotapi.NewMessage(chatID, "👋 Вы вернулись в меню игрока.")
		reply.ReplyMarkup = b.mainMenuFor(ctx, chatID)
		b.send(reply)
		return true

	case CmdTicketsList:
		if !b.isAdmin(ctx, chatID) {
			return false
		}
		b.showTicketsList(ctx, chatID, 0)
		return true

	case CmdBroadcast:
		if !b.isAdmin(ctx, chatID) {
			return false
		}
		b.states.Set(chatID, state.Conversation{Step: state.AwaitBroadcast})
		reply := tgbotapi.NewMessage(chatID,
			"📢 **Режим рассылки.**\n\n"+
				"Отправьте мне сообщение (текст или фото с подписью), которое нужно разослать всем пользователям.\n"+
				"*(Поддерживается форматирование Markdown)*")
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.ReplyMarkup = cancelMenu()
		b.send(reply)
		return true

	case CmdUsersList:
		if !b.isAdmin(ctx, chatID) {
			return false
		}
		b.sendUsersList(ctx, chatID)
		return true

	case CmdAddAdmin:
		if !b.isAdmin(ctx, chatID) {
			return false
		}
		b.states.Set(chatID, state.Conversation{Step: state.AwaitAdminID})
		reply := tgbotapi.NewMessage(chatID, "➕ **Добавление администратора**.\nВведите **Telegram ID** пользователя, которого хотите назначить администратором:")
		reply.ParseMode = tgbotapi.ModeMarkdown
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
		return true

	case CmdExport:
		if !b.isAdmin(ctx, chatID) {
			return false
		}
		b.sendTicketsExport(ctx, chatID)
		return true

	case CmdEndChat:
		b.endChat(ctx, msg)
		return true
	}

	return false
}

func (b *Bot) sendUsersList(ctx context.Context, chatID int64) {
	users, err := b.store.ListUsers(ctx)
	if err != nil {
		log.Printf("Ошибка чтения списка пользователей: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Не удалось получить список пользователей."))
		return
	}

	text := "👥 **Список пользователей:**\n"
	for _, u := range users {
		name := u.Username
		if name == "" {
			name = "Нет юзернейма"
		}
		text += fmt.Sprintf("ID: `%d` | @%s\n", u.ID, name)
	}

	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = adminMenu()
	b.send(reply)
}
