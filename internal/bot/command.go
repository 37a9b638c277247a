package bot

import (
	"strconv"
	"strings"
)

// Подписи кнопок меню. Сравнение точное, с учётом регистра.
const (
	btnRules        = "📜 Правила"
	btnDonate       = "💰 Донат"
	btnInfo         = "ℹ️ Информация"
	btnTechQuestion = "⚙️ Тех. вопросы"
	btnReturnItem   = "🎁 Возврат имущества"
	btnBugReport    = "🐞 Нашёл баг"
	btnCallAdmin    = "🆘 Вызвать админа"

	btnAdminPanel  = "🛠 Админ-панель"
	btnPlayerMenu  = "🚪 В меню игрока"
	btnTicketsList = "📄 Список тикетов"
	btnBroadcast   = "📢 Рассылка"
	btnUsersList   = "👥 Список пользователей"
	btnAddAdmin    = "➕ Добавить админа"
	btnExport      = "📊 Экспорт тикетов"
	btnEndChat     = "❌ Завершить чат"

	btnCancel = "Отмена"
)

// Command — команда меню, распознанная из текста сообщения.
type Command int

const (
	CmdUnknown Command = iota
	CmdRules
	CmdDonate
	CmdInfo
	CmdTechQuestion
	CmdReturnItem
	CmdBugReport
	CmdCallAdmin
	CmdAdminPanel
	CmdPlayerMenu
	CmdTicketsList
	CmdBroadcast
	CmdUsersList
	CmdAddAdmin
	CmdExport
	CmdEndChat
)

var menuCommands = map[string]Command{
	btnRules:        CmdRules,
	btnDonate:       CmdDonate,
	btnInfo:         CmdInfo,
	btnTechQuestion: CmdTechQuestion,
	btnReturnItem:   CmdReturnItem,
	btnBugReport:    CmdBugReport,
	btnCallAdmin:    CmdCallAdmin,
	btnAdminPanel:   CmdAdminPanel,
	btnPlayerMenu:   CmdPlayerMenu,
	btnTicketsList:  CmdTicketsList,
	btnBroadcast:    CmdBroadcast,
	btnUsersList:    CmdUsersList,
	btnAddAdmin:     CmdAddAdmin,
	btnExport:       CmdExport,
	btnEndChat:      CmdEndChat,
}

func parseCommand(text string) Command {
	if cmd, ok := menuCommands[text]; ok {
		return cmd
	}
	return CmdUnknown
}

// CallbackKind — действие, закодированное в callback data инлайн-кнопки.
type CallbackKind int

const (
	CbUnknown CallbackKind = iota
	CbTicketsList
	CbViewTicket
	CbTakeTicket
	CbCloseTicket
	CbCloseTicketList
	CbReplyTicket
	CbConnect
)

// Callback — разобранная callback data: действие и числовой аргумент
// (ID тикета либо ID пользователя для connect).
type Callback struct {
	Kind CallbackKind
	ID   int64
}

// Порядок важен: close_ticket_list_ проверяется раньше close_ticket_.
var callbackPrefixes = []struct {
	prefix string
	kind   CallbackKind
}{
	{"close_ticket_list_", CbCloseTicketList},
	{"close_ticket_", CbCloseTicket},
	{"take_ticket_", CbTakeTicket},
	{"view_ticket_", CbViewTicket},
	{"reply_ticket_", CbReplyTicket},
	{"connect_", CbConnect},
}

func parseCallback(data string) Callback {
	if data == "tickets_list" {
		return Callback{Kind: CbTicketsList}
	}
	for _, p := range callbackPrefixes {
		if !strings.HasPrefix(data, p.prefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(data, p.prefix), 10, 64)
		if err != nil {
			return Callback{Kind: CbUnknown}
		}
		return Callback{Kind: p.kind, ID: id}
	}
	return Callback{Kind: CbUnknown}
}
