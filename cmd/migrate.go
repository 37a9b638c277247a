package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/valik230211/skezzy-support-bot/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Создать файл базы и привести схему к актуальному виду",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")

	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "skezzy_support.db"
	}

	store, err := storage.Open(path)
	if err != nil {
		return fmt.Errorf("хранилище: %w", err)
	}
	defer store.Close()

	if owner := os.Getenv("OWNER_ID"); owner != "" {
		var ownerID int64
		if _, err := fmt.Sscanf(owner, "%d", &ownerID); err == nil {
			if err := store.BootstrapOwner(context.Background(), ownerID); err != nil {
				return fmt.Errorf("владелец: %w", err)
			}
		}
	}

	color.Green("Схема базы %s актуальна", path)
	return nil
}
