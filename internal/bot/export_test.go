package bot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbookContents(t *testing.T) {
	b, store, _ := newTestBot()
	store.CreateTicket(context.Background(), 10, "player10", categoryBugReport, "-", "лагает сервер", []string{"p1"})
	store.users[10] = "player10"

	buf, err := b.exportWorkbook(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if v, _ := f.GetCellValue(sheet, "A2"); v != "1" {
		t.Errorf("A2 = %q", v)
	}
	if v, _ := f.GetCellValue(sheet, "E2"); v != categoryBugReport {
		t.Errorf("E2 = %q", v)
	}
	if v, _ := f.GetCellValue("Users", "A2"); v != "10" {
		t.Errorf("Users!A2 = %q", v)
	}
	if v, _ := f.GetCellValue("Users", "B2"); v != "player10" {
		t.Errorf("Users!B2 = %q", v)
	}
}

func TestExportSentAsDocument(t *testing.T) {
	b, store, sender := newTestBot()
	store.admins[99] = 3
	store.CreateTicket(context.Background(), 10, "player10", categoryTechQuestion, "-", "вопрос", nil)

	handleText(b, 99, btnExport)

	var docs int
	for _, c := range sender.sent {
		d, ok := c.(tgbotapi.DocumentConfig)
		if !ok {
			continue
		}
		docs++
		fb, ok := d.File.(tgbotapi.FileBytes)
		if !ok {
			t.Fatalf("document file is %T", d.File)
		}
		if !strings.HasPrefix(fb.Name, "tickets_") || !strings.HasSuffix(fb.Name, ".xlsx") {
			t.Errorf("file name = %q", fb.Name)
		}
		if len(fb.Bytes) == 0 {
			t.Error("empty workbook")
		}
	}
	if docs != 1 {
		t.Errorf("documents sent = %d, want 1", docs)
	}
}
