package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"sekretar/internal/bot"
	"sekretar/internal/config"
	"sekretar/internal/dateparse"
	"sekretar/internal/gcal"
	"sekretar/internal/llm"
	"sekretar/internal/speech"
	"sekretar/internal/timeutil"
)

func main() {
	cfg := config.LoadFromEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		fatal(logger, "configuration", err)
	}

	loc, fallback := timeutil.ResolveLocation(cfg.Timezone)
	if fallback {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("tz", cfg.Timezone))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	calClient := initCalendar(ctx, logger, cfg)
	extractor := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	transcriber := speech.NewService(speech.Config{
		Provider:    cfg.WhisperProvider,
		APIKey:      cfg.OpenAIAPIKey,
		OpenAIModel: cfg.OpenAIWhisperModel,
		LocalModel:  cfg.LocalWhisperModel,
		Language:    cfg.WhisperLanguage,
	})
	parser := dateparse.New(loc)

	b := bot.New(cfg, logger, calClient, transcriber, extractor, parser)

	logger.Info("starting Telegram bot", zap.String("timezone", loc.String()))
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal(logger, "running bot", err)
	}

	logger.Info("shut down")
}

func initCalendar(ctx context.Context, logger *zap.Logger, cfg *config.Config) *gcal.Client {
	calClient, err := gcal.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, cfg.GoogleCalendarID)
	if err != nil {
		fatal(logger, "creating calendar client", err)
	}

	if !calClient.IsAuthenticated() {
		if err := calClient.Authorize(ctx); err != nil {
			fatal(logger, "authorizing calendar client", err)
		}
	}

	logger.Info("calendar client ready")
	return calClient
}

func fatal(logger *zap.Logger, msg string, err error) {
	logger.Error("fatal: "+msg, zap.Error(err))
	logger.Sync()
	os.Exit(1)
}
