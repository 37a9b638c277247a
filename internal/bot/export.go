package bot

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// sendTicketsExport формирует Excel со всеми тикетами и пользователями
// и отправляет его администратору документом.
func (b *Bot) sendTicketsExport(ctx context.Context, chatID int64) {
	buf, err := b.exportWorkbook(ctx)
	if err != nil {
		log.Printf("Ошибка формирования экспорта: %v", err)
		reply := tgbotapi.NewMessage(chatID, "❌ Не удалось сформировать экспорт.")
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
		return
	}

	name := fmt.Sprintf("tickets_%s.xlsx", time.Now().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: buf.Bytes()})
	doc.Caption = "📊 Экспорт тикетов и пользователей"
	b.send(doc)
}

func (b *Bot) exportWorkbook(ctx context.Context) (*bytes.Buffer, error) {
	tickets, err := b.store.ListAllTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("чтение тикетов: %w", err)
	}
	users, err := b.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("чтение пользователей: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"TicketID", "Status", "UserID", "Username", "Category", "Nick", "Description", "Proofs", "AdminID", "CreatedAt"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for r, t := range tickets {
		rowIdx := r + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIdx), t.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIdx), t.Status)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowIdx), t.UserID)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowIdx), t.Username)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowIdx), t.Category)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowIdx), t.Nick)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowIdx), strings.ReplaceAll(t.Description, "\n", " "))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowIdx), len(t.Proofs))
		if t.AdminID != 0 {
			f.SetCellValue(sheet, fmt.Sprintf("I%d", rowIdx), t.AdminID)
		}
		if !t.CreatedAt.IsZero() {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", rowIdx), t.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 10)
	_ = f.SetColWidth(sheet, "C", "C", 14)
	_ = f.SetColWidth(sheet, "D", "F", 18)
	_ = f.SetColWidth(sheet, "G", "G", 60)
	_ = f.SetColWidth(sheet, "H", "I", 10)
	_ = f.SetColWidth(sheet, "J", "J", 20)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, Split: true, XSplit: 0, YSplit: 1})

	// Лист пользователей
	usersSheet := "Users"
	if _, err := f.NewSheet(usersSheet); err != nil {
		return nil, fmt.Errorf("создание листа пользователей: %w", err)
	}
	f.SetCellValue(usersSheet, "A1", "UserID")
	f.SetCellValue(usersSheet, "B1", "Username")
	for r, u := range users {
		rowIdx := r + 2
		f.SetCellValue(usersSheet, fmt.Sprintf("A%d", rowIdx), u.ID)
		f.SetCellValue(usersSheet, fmt.Sprintf("B%d", rowIdx), u.Username)
	}
	_ = f.SetColWidth(usersSheet, "A", "A", 14)
	_ = f.SetColWidth(usersSheet, "B", "B", 24)

	// Жирная шапка и перенос текста описаний
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A1", "J1", headerStyle)
	_ = f.SetCellStyle(usersSheet, "A1", "B1", headerStyle)
	if len(tickets) > 0 {
		wrapStyle, _ := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
		_ = f.SetCellStyle(sheet, "G2", fmt.Sprintf("G%d", len(tickets)+1), wrapStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("запись книги: %w", err)
	}
	return buf, nil
}
