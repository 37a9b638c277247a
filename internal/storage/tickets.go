package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Ticket — обращение в поддержку. AdminID равен нулю, пока тикет
// никем не взят.
type Ticket struct {
	ID          int64
	UserID      int64
	Username    string
	Category    string
	Nick        string
	Description string
	Proofs      []string
	Status      string
	AdminID     int64
	CreatedAt   time.Time
}

// CreateTicket сохраняет новый тикет со статусом open и возвращает его ID.
func (s *Store) CreateTicket(ctx context.Context, userID int64, username, category, nick, description string, proofs []string) (int64, error) {
	if proofs == nil {
		proofs = []string{}
	}
	proofsJSON, err := json.Marshal(proofs)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal proofs: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tickets(user_id, username, category, nick, description, proofs, status)
		 VALUES(?, ?, ?, ?, ?, ?, 'open')`,
		userID, username, category, nick, description, string(proofsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to create ticket: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get ticket id: %w", err)
	}
	return id, nil
}

// GetTicket возвращает тикет по ID; nil — тикет не найден.
func (s *Store) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, username, category, nick, description, proofs, status, admin_id, created_at
		 FROM tickets WHERE id = ?`, id)

	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}
	return t, nil
}

// ListActiveTickets возвращает открытые и взятые в работу тикеты,
// новые первыми.
func (s *Store) ListActiveTickets(ctx context.Context) ([]*Ticket, error) {
	return s.listTickets(ctx,
		`SELECT id, user_id, username, category, nick, description, proofs, status, admin_id, created_at
		 FROM tickets WHERE status IN ('open', 'in_progress') ORDER BY created_at DESC`)
}

// ListAllTickets возвращает все тикеты по возрастанию ID (для экспорта).
func (s *Store) ListAllTickets(ctx context.Context) ([]*Ticket, error) {
	return s.listTickets(ctx,
		`SELECT id, user_id, username, category, nick, description, proofs, status, admin_id, created_at
		 FROM tickets ORDER BY id`)
}

// TakeTicket переводит открытый тикет в работу. Условный UPDATE — это
// единственная защита от взятия одного тикета двумя админами: true
// возвращается ровно одному из них.
func (s *Store) TakeTicket(ctx context.Context, id, adminID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tickets SET status = 'in_progress', admin_id = ? WHERE id = ? AND status = 'open'",
		adminID, id)
	if err != nil {
		return false, fmt.Errorf("failed to take ticket %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n > 0, nil
}

// CloseTicket закрывает тикет из любого статуса и запоминает, кто закрыл.
func (s *Store) CloseTicket(ctx context.Context, id, adminID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE tickets SET status = 'closed', admin_id = ? WHERE id = ?", adminID, id)
	if err != nil {
		return fmt.Errorf("failed to close ticket %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*Ticket, error) {
	var t Ticket
	var proofsJSON sql.NullString
	var adminID sql.NullInt64
	var username, nick sql.NullString
	var createdAt sql.NullTime

	err := row.Scan(&t.ID, &t.UserID, &username, &t.Category, &nick,
		&t.Description, &proofsJSON, &t.Status, &adminID, &createdAt)
	if err != nil {
		return nil, err
	}

	t.Username = username.String
	t.Nick = nick.String
	t.AdminID = adminID.Int64
	t.CreatedAt = createdAt.Time
	if proofsJSON.Valid && proofsJSON.String != "" {
		if err := json.Unmarshal([]byte(proofsJSON.String), &t.Proofs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal proofs: %w", err)
		}
	}
	return &t, nil
}

func (s *Store) listTickets(ctx context.Context, query string) ([]*Ticket, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
