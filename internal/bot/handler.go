package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"sekretar/internal/extract"
)

func (b *Bot) onNewMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
	m, ok := u.Message.(*tg.Message)
	if !ok || m.Out {
		return nil
	}
	if b.sender == nil {
		return nil
	}

	// Each message's pipeline run is self-contained; handle it off the
	// update loop.
	go b.handleMessage(ctx, e, u, m)
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage, m *tg.Message) {
	reply := func(text string) {
		if _, err := b.sender.Reply(e, u).Text(ctx, text); err != nil {
			b.log.Error("failed to send reply", zap.Error(err))
		}
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Error("unhandled panic while handling message", zap.Any("panic", r))
			reply(apologyText)
		}
	}()

	switch {
	case strings.TrimSpace(m.Message) == "/start":
		reply(greetingText)
	case voiceDocument(m) != nil:
		b.handleVoice(ctx, reply, voiceDocument(m))
	case m.Message != "":
		b.log.Info("text message received", zap.String("text", truncateText(m.Message, 100)))
		b.processText(ctx, reply, m.Message)
	}
}

func (b *Bot) handleVoice(ctx context.Context, reply func(string), doc *tg.Document) {
	b.log.Info("voice message received", zap.Int64("document_id", doc.ID))

	tmpDir, err := os.MkdirTemp("", "voice")
	if err != nil {
		b.log.Error("failed to create temp dir", zap.Error(err))
		reply(apologyText)
		return
	}
	defer os.RemoveAll(tmpDir)

	audioPath := filepath.Join(tmpDir, "voice.ogg")
	if _, err := b.downloader.Download(b.api, doc.AsInputDocumentFileLocation()).ToPath(ctx, audioPath); err != nil {
		b.log.Error("failed to download voice note", zap.Error(err))
		reply(apologyText)
		return
	}

	text, err := b.speech.Transcribe(ctx, audioPath)
	if err != nil {
		reply("Не удалось распознать голос: " + err.Error())
		return
	}

	reply("Распознал: " + text)
	b.processText(ctx, reply, text)
}

// processText runs the full extraction pipeline for one message and replies
// with a confirmation or a remediation hint.
func (b *Bot) processText(ctx context.Context, reply func(string), text string) {
	normalized := extract.Normalize(text)
	now := time.Now().In(b.loc)

	explicit := extract.ExtractExplicit(normalized)

	var primary *extract.Candidate
	if explicit == nil {
		candidate, err := b.extractor.ExtractEvent(ctx, normalized, now)
		if err != nil {
			// Recoverable: degrade to heuristic-only extraction.
			b.log.Warn("primary extraction failed, falling back to heuristics", zap.Error(err))
		} else {
			primary = candidate
		}
	}

	event, err := extract.Reconcile(normalized, explicit, primary, now, b.parser)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrExplicitDateTime):
			reply(explicitDateTimeHelpText)
		case errors.Is(err, extract.ErrNoDateTime):
			reply(dateTimeHelpText)
		default:
			b.log.Error("reconciliation failed", zap.Error(err))
			reply(apologyText)
		}
		return
	}

	reply(b.dispatch(event))
}

// voiceDocument returns the message's voice-note document, or nil.
func voiceDocument(m *tg.Message) *tg.Document {
	media, ok := m.Media.(*tg.MessageMediaDocument)
	if !ok {
		return nil
	}
	doc, ok := media.Document.AsNotEmpty()
	if !ok {
		return nil
	}
	for _, attr := range doc.Attributes {
		if audio, ok := attr.(*tg.DocumentAttributeAudio); ok && audio.Voice {
			return doc
		}
	}
	return nil
}

// truncateText shortens text for logging
func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
