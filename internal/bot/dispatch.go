package bot

import (
	"fmt"
	"strings"
	"time"

	"sekretar/internal/extract"
)

const (
	greetingText = "Напишите или продиктуйте встречу. Пример: 'Созвон с Петром завтра в 15:30 на 45 минут'."

	apologyText = "Произошла внутренняя ошибка. Попробуйте ещё раз."

	explicitDateTimeHelpText = "Не смог распознать дату/время из полей. Уточните (пример: 'дата - 13.02.2026' и 'время - 12:00')."

	dateTimeHelpText = "Не смог распознать дату/время. Уточните, пожалуйста (пример: 'в пятницу в 14:00')."
)

// dispatch creates the calendar entry for a reconciled event and returns the
// reply text. Exactly one calendar call per event.
func (b *Bot) dispatch(event *extract.Event) string {
	link, err := b.calendar.CreateEvent(event.Title, event.Start, event.DurationMinutes, event.End, event.Notes)
	if err != nil {
		return "Ошибка Google Calendar: " + err.Error()
	}
	return formatConfirmation(event, link)
}

// formatConfirmation renders the user-facing summary of a created event.
func formatConfirmation(event *extract.Event, link string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Добавил: %s\nНачало: %s", event.Title, event.Start.Format(time.RFC3339))
	if event.End != nil {
		fmt.Fprintf(&sb, "\nКонец: %s", event.End.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "\nДлительность: %d мин", event.DurationMinutes)
	if event.Notes != "" {
		fmt.Fprintf(&sb, "\nЗаметки: %s", event.Notes)
	}
	if link != "" {
		fmt.Fprintf(&sb, "\nСсылка: %s", link)
	}
	return sb.String()
}
