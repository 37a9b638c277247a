package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skezzy-support-bot",
	Short: "Telegram-бот поддержки SKEZZY ONLINE: тикеты, чаты с админами, рассылки",
	RunE:  runBot,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
