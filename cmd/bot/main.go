package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/escalopa/quran-progress/internal/adapter/i18n"
	"github.com/escalopa/quran-progress/internal/adapter/redis"
	"github.com/escalopa/quran-progress/internal/adapter/telegram"
	"github.com/escalopa/quran-progress/internal/application"
	"github.com/escalopa/quran-progress/internal/bootstrap"
	"github.com/escalopa/quran-progress/internal/config"
	"github.com/escalopa/quran-progress/internal/domain"
	"github.com/escalopa/quran-progress/internal/logger"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("application error")
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	logger.Setup(cfg.Log)
	log.Info().Str("path", configPath).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := bootstrap.NewEngine(ctx, cfg)
	if err != nil {
		return err
	}

	i18nService, err := i18n.NewI18n(cfg.App.LocalesDir, domain.Language(cfg.App.DefaultLanguage))
	if err != nil {
		return err
	}
	log.Info().Str("dir", cfg.App.LocalesDir).Msg("i18n initialized")

	fsm, err := redis.NewFSM(ctx, cfg.Redis.URI)
	if err != nil {
		return err
	}
	defer fsm.Close()
	log.Info().Msg("redis FSM connected")

	progressService := application.NewProgressService(engine, fsm)

	bot, err := telegram.NewBot(cfg.Telegram.Token, progressService, i18nService)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Msg("starting bot")
		errChan <- bot.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal, stopping bot")
		if err := bot.Stop(); err != nil {
			log.Error().Err(err).Msg("stop bot")
		}
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	log.Info().Msg("bot stopped")
	return nil
}
