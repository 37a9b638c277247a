package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config — конфигурация процесса. TOKEN и OWNER_ID обязательны,
// остальное имеет значения по умолчанию.
type Config struct {
	Token   string
	OwnerID int64
	DBPath  string
	Port    string
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	// Отсутствие .env не ошибка: в проде переменные приходят из окружения.
	_ = godotenv.Load(".env")

	cfg := &Config{
		Token:  os.Getenv("TOKEN"),
		DBPath: getEnv("DB_PATH", "skezzy_support.db"),
		Port:   getEnv("PORT", "8080"),
	}

	if cfg.Token == "" {
		return nil, errors.New("config: TOKEN не задан")
	}

	rawOwner := os.Getenv("OWNER_ID")
	if rawOwner == "" {
		return nil, errors.New("config: OWNER_ID не задан")
	}
	ownerID, err := strconv.ParseInt(rawOwner, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config: OWNER_ID должен быть целым числом: %w", err)
	}
	cfg.OwnerID = ownerID

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
