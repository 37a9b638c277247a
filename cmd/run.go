package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/valik230211/skezzy-support-bot/internal/bot"
	"github.com/valik230211/skezzy-support-bot/internal/config"
	"github.com/valik230211/skezzy-support-bot/internal/health"
	"github.com/valik230211/skezzy-support-bot/internal/storage"
)

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("хранилище: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.BootstrapOwner(ctx, cfg.OwnerID); err != nil {
		return fmt.Errorf("владелец: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	log.Printf("Бот %s запущен", api.Self.UserName)

	health.Start(cfg.Port)

	b := bot.New(api, store)

	// Бесконечный цикл с восстановлением после паники.
	for {
		runUpdateLoop(ctx, api, b)
		log.Println("Бот остановился, перезапуск через 5 секунд...")
		time.Sleep(5 * time.Second)
	}
}

func runUpdateLoop(ctx context.Context, api *tgbotapi.BotAPI, b *bot.Bot) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Паника в боте: %v", r)
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := api.GetUpdatesChan(u)
	for update := range updates {
		b.HandleUpdate(ctx, update)
	}
}
