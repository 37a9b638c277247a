package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	s.Close()

	// Повторное открытие той же базы не должно падать на CREATE TABLE.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	s.Close()
}

func TestBootstrapOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.BootstrapOwner(ctx, 100); err != nil {
		t.Fatalf("BootstrapOwner: %v", err)
	}
	if err := s.BootstrapOwner(ctx, 100); err != nil {
		t.Fatalf("repeated BootstrapOwner: %v", err)
	}

	isAdmin, err := s.IsAdmin(ctx, 100)
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if !isAdmin {
		t.Error("owner is not admin after bootstrap")
	}
}

func TestCreateTicketStartsOpenAndUnassigned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.CreateTicket(ctx, 1, "player", "Баг-репорт", "-", "описание", []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	id2, err := s.CreateTicket(ctx, 2, "other", "Тех. вопросы", "-", "вопрос", nil)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ticket ids not increasing: %d then %d", id1, id2)
	}

	ticket, err := s.GetTicket(ctx, id1)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket == nil {
		t.Fatal("ticket not found")
	}
	if ticket.Status != StatusOpen {
		t.Errorf("status = %q, want open", ticket.Status)
	}
	if ticket.AdminID != 0 {
		t.Errorf("admin_id = %d, want unset", ticket.AdminID)
	}
	if len(ticket.Proofs) != 2 || ticket.Proofs[0] != "p1" || ticket.Proofs[1] != "p2" {
		t.Errorf("proofs = %v, want [p1 p2]", ticket.Proofs)
	}
}

func TestGetTicketMissing(t *testing.T) {
	s := newTestStore(t)

	ticket, err := s.GetTicket(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket != nil {
		t.Errorf("expected nil for missing ticket, got %+v", ticket)
	}
}

func TestTakeTicketSucceedsOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTicket(ctx, 1, "player", "Баг-репорт", "-", "описание", nil)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	taken, err := s.TakeTicket(ctx, id, 10)
	if err != nil {
		t.Fatalf("TakeTicket: %v", err)
	}
	if !taken {
		t.Fatal("first take failed")
	}

	taken, err = s.TakeTicket(ctx, id, 20)
	if err != nil {
		t.Fatalf("second TakeTicket: %v", err)
	}
	if taken {
		t.Error("second take succeeded for in_progress ticket")
	}

	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket.Status != StatusInProgress {
		t.Errorf("status = %q, want in_progress", ticket.Status)
	}
	if ticket.AdminID != 10 {
		t.Errorf("admin_id = %d, want 10 (first taker)", ticket.AdminID)
	}
}

func TestCloseTicketFromAnyStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTicket(ctx, 1, "player", "Тех. вопросы", "-", "вопрос", nil)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	// Закрытие без предварительного взятия допустимо.
	if err := s.CloseTicket(ctx, id, 10); err != nil {
		t.Fatalf("CloseTicket: %v", err)
	}
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket.Status != StatusClosed || ticket.AdminID != 10 {
		t.Errorf("got status %q admin %d, want closed/10", ticket.Status, ticket.AdminID)
	}

	// Повторное закрытие лишь перезаписывает закрывшего.
	if err := s.CloseTicket(ctx, id, 20); err != nil {
		t.Fatalf("repeated CloseTicket: %v", err)
	}
	ticket, _ = s.GetTicket(ctx, id)
	if ticket.Status != StatusClosed || ticket.AdminID != 20 {
		t.Errorf("got status %q admin %d, want closed/20", ticket.Status, ticket.AdminID)
	}
}

func TestListActiveTicketsExcludesClosed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	openID, _ := s.CreateTicket(ctx, 1, "a", "Баг-репорт", "-", "открытый", nil)
	takenID, _ := s.CreateTicket(ctx, 2, "b", "Баг-репорт", "-", "в работе", nil)
	closedID, _ := s.CreateTicket(ctx, 3, "c", "Баг-репорт", "-", "закрытый", nil)

	if _, err := s.TakeTicket(ctx, takenID, 10); err != nil {
		t.Fatalf("TakeTicket: %v", err)
	}
	if err := s.CloseTicket(ctx, closedID, 10); err != nil {
		t.Fatalf("CloseTicket: %v", err)
	}

	tickets, err := s.ListActiveTickets(ctx)
	if err != nil {
		t.Fatalf("ListActiveTickets: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("got %d active tickets, want 2", len(tickets))
	}
	for _, ticket := range tickets {
		if ticket.ID == closedID {
			t.Error("closed ticket present in active list")
		}
		if ticket.ID != openID && ticket.ID != takenID {
			t.Errorf("unexpected ticket %d in active list", ticket.ID)
		}
	}
}

func TestAssignChatReplacesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AssignChat(ctx, 1, 10); err != nil {
		t.Fatalf("AssignChat: %v", err)
	}
	if err := s.AssignChat(ctx, 1, 20); err != nil {
		t.Fatalf("second AssignChat: %v", err)
	}

	adminID, found, err := s.AssignedAdmin(ctx, 1)
	if err != nil {
		t.Fatalf("AssignedAdmin: %v", err)
	}
	if !found || adminID != 20 {
		t.Errorf("got admin %d found=%v, want 20/true", adminID, found)
	}

	// Ровно одна привязка на пользователя.
	users, err := s.ChatsForAdmin(ctx, 10)
	if err != nil {
		t.Fatalf("ChatsForAdmin: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("old admin still has chats: %v", users)
	}
}

func TestRemoveChat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AssignChat(ctx, 1, 10); err != nil {
		t.Fatalf("AssignChat: %v", err)
	}
	if err := s.RemoveChat(ctx, 1); err != nil {
		t.Fatalf("RemoveChat: %v", err)
	}

	_, found, err := s.AssignedAdmin(ctx, 1)
	if err != nil {
		t.Fatalf("AssignedAdmin: %v", err)
	}
	if found {
		t.Error("assignment survived RemoveChat")
	}
}

func TestRegisterUserIgnoresDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RegisterUser(ctx, 1, "first"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	// Вставка if-absent: второе имя не перезаписывает первое.
	if err := s.RegisterUser(ctx, 1, "second"); err != nil {
		t.Fatalf("repeated RegisterUser: %v", err)
	}

	username, found, err := s.Username(ctx, 1)
	if err != nil {
		t.Fatalf("Username: %v", err)
	}
	if !found || username != "first" {
		t.Errorf("got %q found=%v, want first/true", username, found)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("got %d users, want 1", len(users))
	}
}

func TestTicketCreatedAtIsTimestamped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Minute)
	id, err := s.CreateTicket(ctx, 1, "user", "Баг-репорт", "-", "описание", nil)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket.CreatedAt.IsZero() {
		t.Fatal("CreatedAt is zero")
	}
	if ticket.CreatedAt.Before(before) || ticket.CreatedAt.After(time.Now().Add(time.Minute)) {
		t.Errorf("CreatedAt = %v, not around now", ticket.CreatedAt)
	}
}
