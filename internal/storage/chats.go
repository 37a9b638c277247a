package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AssignChat привязывает пользователя к администратору. У пользователя
// может быть только одна привязка: повторная заменяет старую.
func (s *Store) AssignChat(ctx context.Context, userID, adminID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO admin_chats(user_id, admin_id) VALUES(?, ?)", userID, adminID)
	if err != nil {
		return fmt.Errorf("failed to assign chat for user %d: %w", userID, err)
	}
	return nil
}

// AssignedAdmin возвращает администратора, подключённого к пользователю;
// found=false — привязки нет.
func (s *Store) AssignedAdmin(ctx context.Context, userID int64) (int64, bool, error) {
	var adminID int64
	err := s.db.QueryRowContext(ctx,
		"SELECT admin_id FROM admin_chats WHERE user_id = ?", userID).Scan(&adminID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get assigned admin for %d: %w", userID, err)
	}
	return adminID, true, nil
}

// RemoveChat снимает привязку пользователя.
func (s *Store) RemoveChat(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM admin_chats WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to remove chat for user %d: %w", userID, err)
	}
	return nil
}

// ChatsForAdmin возвращает всех пользователей, привязанных к администратору.
func (s *Store) ChatsForAdmin(ctx context.Context, adminID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM admin_chats WHERE admin_id = ?", adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats for admin %d: %w", adminID, err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan chat user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}
