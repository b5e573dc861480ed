package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sekretar/internal/dateparse"
	"sekretar/internal/extract"
)

type fakeCalendar struct {
	link string
	err  error

	called   bool
	title    string
	start    time.Time
	duration int
	end      *time.Time
	notes    string
}

func (f *fakeCalendar) CreateEvent(title string, start time.Time, durationMinutes int, end *time.Time, description string) (string, error) {
	f.called = true
	f.title = title
	f.start = start
	f.duration = durationMinutes
	f.end = end
	f.notes = description
	return f.link, f.err
}

type fakeExtractor struct {
	candidate *extract.Candidate
	err       error
}

func (f *fakeExtractor) ExtractEvent(ctx context.Context, text string, now time.Time) (*extract.Candidate, error) {
	return f.candidate, f.err
}

func newTestBot(cal *fakeCalendar, ex *fakeExtractor) *Bot {
	parser := dateparse.New(time.UTC)
	return &Bot{
		log:       zap.NewNop(),
		calendar:  cal,
		extractor: ex,
		parser:    parser,
		loc:       parser.Location(),
	}
}

func captureReply(replies *[]string) func(string) {
	return func(text string) {
		*replies = append(*replies, text)
	}
}

func TestProcessTextCreatesEvent(t *testing.T) {
	cal := &fakeCalendar{link: "https://calendar.google.com/event?eid=abc"}
	ex := &fakeExtractor{candidate: &extract.Candidate{
		Title:           "Созвон с Петром",
		DurationMinutes: 45,
	}}
	b := newTestBot(cal, ex)

	var replies []string
	b.processText(context.Background(), captureReply(&replies), "Созвон с Петром завтра в 15:30 на 45 минут")

	require.True(t, cal.called)
	assert.Equal(t, "Созвон с Петром", cal.title)
	assert.Equal(t, 45, cal.duration)
	assert.Equal(t, 15, cal.start.Hour())
	assert.Equal(t, 30, cal.start.Minute())

	tomorrow := time.Now().In(time.UTC).AddDate(0, 0, 1)
	assert.Equal(t, tomorrow.Day(), cal.start.Day())

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Добавил: Созвон с Петром")
	assert.Contains(t, replies[0], cal.link)
}

func TestProcessTextFallsBackWhenExtractorFails(t *testing.T) {
	cal := &fakeCalendar{}
	ex := &fakeExtractor{err: errors.New("api down")}
	b := newTestBot(cal, ex)

	var replies []string
	b.processText(context.Background(), captureReply(&replies), "Созвон с Петром завтра в 15:30 на 45 минут")

	require.True(t, cal.called)
	assert.Equal(t, 15, cal.start.Hour())
	assert.Equal(t, 45, cal.duration)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Добавил:")
}

func TestProcessTextRemediationReplies(t *testing.T) {
	t.Run("no datetime in free text", func(t *testing.T) {
		cal := &fakeCalendar{}
		b := newTestBot(cal, &fakeExtractor{err: errors.New("api down")})

		var replies []string
		b.processText(context.Background(), captureReply(&replies), "просто привет")

		assert.False(t, cal.called)
		require.Len(t, replies, 1)
		assert.Equal(t, dateTimeHelpText, replies[0])
	})

	t.Run("unparseable explicit fields", func(t *testing.T) {
		cal := &fakeCalendar{}
		b := newTestBot(cal, &fakeExtractor{})

		var replies []string
		b.processText(context.Background(), captureReply(&replies), "дата - когда-нибудь\nвремя - потом")

		assert.False(t, cal.called)
		require.Len(t, replies, 1)
		assert.Equal(t, explicitDateTimeHelpText, replies[0])
	})
}

func TestProcessTextReportsCalendarFailure(t *testing.T) {
	cal := &fakeCalendar{err: errors.New("insert failed")}
	b := newTestBot(cal, &fakeExtractor{})

	var replies []string
	b.processText(context.Background(), captureReply(&replies), "дата - 13.02.2026\nвремя - 12:00")

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Ошибка Google Calendar")
	assert.Contains(t, replies[0], "insert failed")
}

func TestFormatConfirmation(t *testing.T) {
	start := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 13, 13, 30, 0, 0, time.UTC)

	t.Run("minimal event", func(t *testing.T) {
		got := formatConfirmation(&extract.Event{
			Title:           "Встреча",
			Start:           start,
			DurationMinutes: 60,
		}, "")

		assert.Equal(t, "Добавил: Встреча\nНачало: 2026-02-13T12:00:00Z\nДлительность: 60 мин", got)
	})

	t.Run("full event", func(t *testing.T) {
		got := formatConfirmation(&extract.Event{
			Title:           "Налоговая",
			Start:           start,
			End:             &end,
			DurationMinutes: 90,
			Notes:           "взять документы",
		}, "https://calendar.google.com/event?eid=abc")

		assert.Contains(t, got, "Добавил: Налоговая")
		assert.Contains(t, got, "Конец: 2026-02-13T13:30:00Z")
		assert.Contains(t, got, "Длительность: 90 мин")
		assert.Contains(t, got, "Заметки: взять документы")
		assert.Contains(t, got, "Ссылка: https://calendar.google.com/event?eid=abc")
	})
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "0123456789...", truncateText("0123456789abcdef", 10))
}
