package storage

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		username TEXT,
		category TEXT,
		nick TEXT,
		description TEXT,
		proofs TEXT,
		status TEXT DEFAULT 'open',
		admin_id INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		tg_id INTEGER PRIMARY KEY,
		level INTEGER DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		tg_id INTEGER PRIMARY KEY,
		username TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS admin_chats (
		user_id INTEGER PRIMARY KEY,
		admin_id INTEGER
	)`,
}

func (s *Store) initSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return s.migrateAdminColumn()
}

// migrateAdminColumn — резервная миграция для баз, созданных до появления
// столбца admin_id в tickets.
func (s *Store) migrateAdminColumn() error {
	if _, err := s.db.Exec("SELECT admin_id FROM tickets LIMIT 1"); err == nil {
		return nil
	}
	if _, err := s.db.Exec("ALTER TABLE tickets ADD COLUMN admin_id INTEGER"); err != nil {
		return fmt.Errorf("failed to add admin_id column: %w", err)
	}
	return nil
}

// BootstrapOwner добавляет владельца как главного администратора (уровень 3)
// при первом запуске. Повторные вызовы ничего не меняют.
func (s *Store) BootstrapOwner(ctx context.Context, ownerID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO admins(tg_id, level) VALUES(?, ?)", ownerID, 3)
	if err != nil {
		return fmt.Errorf("failed to bootstrap owner: %w", err)
	}
	return nil
}
