package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lifelog/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot (long polling)",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token not configured (set TELEGRAM_BOT_TOKEN)")
	}
	if cfg.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram chat id not configured (set TELEGRAM_CHAT_ID)")
	}
	logger := newLogger(cfg)

	ctrl, db, err := buildController(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot := telegram.NewBot(cfg.Telegram, ctrl, logger)
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("bot stopped")
	return nil
}
