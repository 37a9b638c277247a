package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// IsAdmin — админом считается любой, у кого есть строка в admins.
// Уровень хранится, но для авторизации не используется.
func (s *Store) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var level int
	err := s.db.QueryRowContext(ctx,
		"SELECT level FROM admins WHERE tg_id = ?", id).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin %d: %w", id, err)
	}
	return true, nil
}

// AddAdmin выдаёт права администратора указанного уровня.
func (s *Store) AddAdmin(ctx context.Context, id int64, level int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO admins(tg_id, level) VALUES(?, ?)", id, level)
	if err != nil {
		return fmt.Errorf("failed to add admin %d: %w", id, err)
	}
	return nil
}

// AdminIDs возвращает всех администраторов для рассылок уведомлений.
func (s *Store) AdminIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tg_id FROM admins")
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan admin id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
