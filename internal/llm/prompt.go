package llm

import (
	"fmt"
	"time"
)

// systemPrompt keeps the model from wrapping the JSON in prose.
const systemPrompt = "Отвечай только JSON без пояснений."

const promptHeader = `Ты профессиональный секретарь-парсер событий. ` +
	`Твоя задача — извлечь из сообщения данные события и вернуть ТОЛЬКО валидный JSON. ` +
	`Никакого текста вне JSON. ` +
	`Строгая схема ответа: ` +
	`{"title":"","start_datetime":"","end_datetime":"","duration_minutes":60,"notes":""}. ` +
	`Правила обработки: ` +
	`1. title — короткая тема события (1-4 слова), без даты, времени и документов. ` +
	`   Если есть цель (например 'на собеседование') — это и есть title. ` +
	`   Если указано 'к врачу' — title = 'Врач'. ` +
	`   Если указано 'к зубному' — title = 'Зубной врач'. ` +
	`   Если указано 'в банк на собеседование' — title = 'Собеседование'. ` +
	`2. start_datetime и end_datetime вернуть в ISO 8601 формате с часовым поясом пользователя. ` +
	`   Формат: YYYY-MM-DDTHH:MM:SS+03:00 ` +
	`3. Если указано 'сегодня' — используй сегодняшнюю дату. ` +
	`   Если указано 'завтра' — прибавь 1 день к текущей дате. `

const promptRules = `4. Если указан диапазон времени (например 'с 8:00 до 14:00'), ` +
	`заполни и start_datetime и end_datetime. ` +
	`5. Если указано только одно время — заполни только start_datetime. ` +
	`6. duration_minutes — ` +
	`если указана длительность ('на 45 минут') — используй её, иначе всегда 60. ` +
	`7. notes — перечисли, что нужно взять или подготовить. ` +
	`Убери слова 'взять', 'принести', 'не забыть'. ` +
	`Перечисляй через '; '. ` +
	`Если ничего не указано — оставь пустую строку.` +
	`Примеры: ` +
	"\nВвод: 'запиши меня к врачу сегодня на 19-00' " +
	`-> {"title":"Врач","start_datetime":"2026-02-12T19:00:00+03:00","end_datetime":"","duration_minutes":60,"notes":""}` +
	"\nВвод: 'сходить в банк завтра на собеседование в 10:30, взять диплом и паспорт' " +
	`-> {"title":"Собеседование","start_datetime":"2026-02-13T10:30:00+03:00","end_datetime":"","duration_minutes":60,"notes":"диплом; паспорт"}`

// buildUserPrompt assembles the instruction, the user's current date/time
// reference and the message itself.
func buildUserPrompt(text string, now time.Time) string {
	return promptHeader +
		fmt.Sprintf("Текущая дата пользователя: %s. ", now.Format("2006-01-02")) +
		fmt.Sprintf("Текущее время пользователя: %s. ", now.Format("15:04")) +
		promptRules +
		"\n\nСообщение: " + text
}
