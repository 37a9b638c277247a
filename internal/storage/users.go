package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User — пользователь, когда-либо писавший боту.
type User struct {
	ID       int64
	Username string
}

// RegisterUser сохраняет пользователя при первом обращении.
// Повторная регистрация ничего не меняет.
func (s *Store) RegisterUser(ctx context.Context, id int64, username string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO users(tg_id, username) VALUES(?, ?)", id, username)
	if err != nil {
		return fmt.Errorf("failed to register user %d: %w", id, err)
	}
	return nil
}

// ListUsers возвращает всех известных пользователей.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tg_id, username FROM users")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var username sql.NullString
		if err := rows.Scan(&u.ID, &username); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Username = username.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// Username возвращает username пользователя; пустая строка — username
// не известен, found=false — пользователь вообще не встречался.
func (s *Store) Username(ctx context.Context, id int64) (string, bool, error) {
	var username sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT username FROM users WHERE tg_id = ?", id).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get username for %d: %w", id, err)
	}
	return username.String, true, nil
}
