// Package bot runs the Telegram front end: receives text and voice
// messages, drives the extraction pipeline and replies with the result.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"sekretar/internal/config"
	"sekretar/internal/dateparse"
	"sekretar/internal/extract"
)

// Calendar creates calendar entries from reconciled events.
type Calendar interface {
	CreateEvent(title string, start time.Time, durationMinutes int, end *time.Time, description string) (string, error)
}

// Transcriber converts a voice note file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Extractor is the primary (model-based) event extraction.
type Extractor interface {
	ExtractEvent(ctx context.Context, text string, now time.Time) (*extract.Candidate, error)
}

type Bot struct {
	cfg       *config.Config
	log       *zap.Logger
	calendar  Calendar
	speech    Transcriber
	extractor Extractor
	parser    *dateparse.Parser
	loc       *time.Location

	client     *telegram.Client
	api        *tg.Client
	sender     *message.Sender
	downloader *downloader.Downloader
}

func New(cfg *config.Config, log *zap.Logger, calendar Calendar, speech Transcriber, extractor Extractor, parser *dateparse.Parser) *Bot {
	return &Bot{
		cfg:       cfg,
		log:       log,
		calendar:  calendar,
		speech:    speech,
		extractor: extractor,
		parser:    parser,
		loc:       parser.Location(),
	}
}

// Run connects to Telegram, logs in with the bot token and serves updates
// until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(b.onNewMessage)

	b.client = telegram.NewClient(b.cfg.TelegramAPIID, b.cfg.TelegramAPIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: b.cfg.TelegramSessionPath},
		UpdateHandler:  dispatcher,
	})

	return b.client.Run(ctx, func(ctx context.Context) error {
		status, err := b.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get auth status: %w", err)
		}
		if !status.Authorized {
			if _, err := b.client.Auth().Bot(ctx, b.cfg.TelegramBotToken); err != nil {
				return fmt.Errorf("bot login failed: %w", err)
			}
		}

		b.api = b.client.API()
		b.sender = message.NewSender(b.api)
		b.downloader = downloader.NewDownloader()

		b.log.Info("bot is up, waiting for messages")
		<-ctx.Done()
		return ctx.Err()
	})
}
