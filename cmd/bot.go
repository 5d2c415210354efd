package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	telegram "argus-bot/internal/api"
	"argus-bot/internal/container"
	"argus-bot/internal/domain/port"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN is required")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Бот создаётся после контейнера, а каналы уведомлений чатов
		// запрашиваются только при первом сообщении, когда bot уже задан.
		var bot *telegram.Bot
		notifierFor := func(chatID int64) port.Notifier { return bot.Notifier(chatID) }

		notices := telegram.NewModelNotices(logger.Named("model"))
		appContainer, err := container.New(cfg, logger, notices, notifierFor)
		if err != nil {
			return err
		}
		defer appContainer.Close()

		bot, err = telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.Demo,
			appContainer.Classifier, notices, cfg.MaxUploadBytes, logger.Named("bot"))
		if err != nil {
			return err
		}

		appContainer.Start(context.WithoutCancel(ctx))

		logger.Info("bot is running", zap.String("model_backend", cfg.Model.Backend))
		return bot.Run(ctx)
	},
}
