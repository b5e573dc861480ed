package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	maxTitleRunes = 80
	maxNotesRunes = 800

	// PlaceholderTitle is used when nothing title-worthy survives extraction.
	PlaceholderTitle = "Встреча"
)

const trimCutset = " -—:;,.\t\n"

// Pattern families are data: the matching code below stays language-agnostic
// and the Russian vocabulary is concentrated here.
var (
	// Leading filler before the actual subject ("есть встреча...", "надо...").
	fillerPrefixRe = regexp.MustCompile(`(?i)^\s*(?:есть|будет|нужно|надо|хочу|у\s+меня|у\s+нас)(?:[\s:\-—]+|$)`)

	// Imperative booking phrases ("запиши меня...", "запланируй...").
	bookingPrefixRe = regexp.MustCompile(`(?i)^\s*(?:запиши(?:те)?\s+меня|запланируй|добавь|поставь|назначь)(?:\s+|$)`)

	// Domain keyword overrides, checked in order; first hit wins.
	titleOverrides = []struct {
		re    *regexp.Regexp
		title string
	}{
		{regexp.MustCompile(`(?i)(?:^|[^а-яё])(?:налоговую|налоговая(?:\s+инспекция)?|ифнс)(?:$|[^а-яё])`), "Налоговая"},
		{regexp.MustCompile(`(?i)(?:^|[^а-яё])(?:к\s+зубному|к\s+стоматологу|стоматолог)(?:$|[^а-яё])`), "Зубной врач"},
		{regexp.MustCompile(`(?i)(?:^|[^а-яё])(?:к\s+врачу|приё?м\s+у\s+врача|врач)(?:$|[^а-яё])`), "Приём у врача"},
	}

	// Words that begin the "things to bring" tail of a message.
	noteMarkers = []string{"документы", "документ", "взять", "принести", "не забыть", "очередь"}

	// Temporal tails cut off a title: "13 февраля 2026...", "15:30...", "в 15:30...".
	wordDateCutRe = regexp.MustCompile(`\s+\d{1,2}\s+[а-яёА-ЯЁa-zA-Z]+\s+\d{2,4}.*$`)
	clockCutRe    = regexp.MustCompile(`\s+\d{1,2}:\d{2}.*$`)
	atClockCutRe  = regexp.MustCompile(`(?i)(?:^|\s)в\s+\d{1,2}:\d{2}.*$`)

	durationMinRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:минуты|минуту|минут|мин|minutes|min)`)
	durationHourRe = regexp.MustCompile(`(?i)(\d+)\s*(?:часов|часа|час|hours|hour)(?:$|[^а-яёa-z0-9])`)

	timeRangeRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2})\s*(?:до|–|—|to|-)\s*(\d{1,2}:\d{2})`)
	firstTimeRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// GuessTitle derives a short human-readable title from normalized text.
// Never returns an empty string.
func GuessTitle(text string) string {
	t := strings.TrimSpace(text)
	t = fillerPrefixRe.ReplaceAllString(t, "")

	lowered := strings.ToLower(t)
	for _, o := range titleOverrides {
		if o.re.MatchString(lowered) {
			return o.title
		}
	}

	t = bookingPrefixRe.ReplaceAllString(t, "")

	if idx := earliestMarker(strings.ToLower(t)); idx >= 0 {
		t = t[:idx]
	}

	t = wordDateCutRe.ReplaceAllString(t, "")
	t = atClockCutRe.ReplaceAllString(t, "")
	t = clockCutRe.ReplaceAllString(t, "")
	t = strings.Trim(t, trimCutset)

	if t == "" {
		return PlaceholderTitle
	}
	return capitalize(truncateRunes(t, maxTitleRunes))
}

// GuessNotes returns the "things to bring" tail of the message, starting at
// the earliest marker word, or empty when no marker is present.
func GuessNotes(text string) string {
	t := strings.TrimSpace(text)
	idx := earliestMarker(strings.ToLower(t))
	if idx < 0 {
		return ""
	}
	notes := strings.Trim(t[idx:], trimCutset)
	return truncateRunes(notes, maxNotesRunes)
}

// GuessDuration scans for an explicit duration cue and returns minutes.
// Defaults to 60 when no plausible cue is found.
func GuessDuration(text string) int {
	for _, m := range durationMinRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 5 && n <= 24*60 {
			return n
		}
	}
	for _, m := range durationHourRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 24 {
			return n * 60
		}
	}
	return 60
}

// GuessTimeRange matches "HH:MM до HH:MM" style ranges. All-or-nothing: both
// times or two empty strings.
func GuessTimeRange(text string) (string, string) {
	m := timeRangeRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// FirstTime returns the first valid HH:MM token in the text, zero-padded,
// or empty when the first candidate is out of range or none exists.
func FirstTime(text string) string {
	m := firstTimeRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return ""
	}
	return pad2(hh) + ":" + pad2(mm)
}

// earliestMarker returns the byte index of the earliest note marker in
// lowered text, or -1. Case folding keeps byte offsets stable for Cyrillic
// and ASCII, so the index is valid in the original string as well.
func earliestMarker(lowered string) int {
	idx := -1
	for _, m := range noteMarkers {
		if pos := strings.Index(lowered, m); pos != -1 && (idx == -1 || pos < idx) {
			idx = pos
		}
	}
	return idx
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
