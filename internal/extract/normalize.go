package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Russian number words accepted in spoken time expressions ("в пять вечера").
var ruNumWords = map[string]int{
	"ноль":        0,
	"один":        1,
	"одна":        1,
	"одно":        1,
	"два":         2,
	"две":         2,
	"три":         3,
	"четыре":      4,
	"пять":        5,
	"шесть":       6,
	"семь":        7,
	"восемь":      8,
	"девять":      9,
	"десять":      10,
	"одиннадцать": 11,
	"двенадцать":  12,
}

// RE2 has no unicode-aware \b, so Cyrillic words are bounded explicitly by
// captured prefix/suffix groups that get re-emitted on replacement.
var (
	wordTimeRe = regexp.MustCompile(`(?i)(^|[\s(,])в\s+(двенадцать|одиннадцать|десять|девять|восемь|семь|шесть|пять|четыре|три|две|два|одна|один|\d{1,2})(?:\s*час(?:а|ов)?)?\s+(утра|дня|вечера|ночи)($|[^а-яёА-ЯЁ])`)

	dashTimeRe   = regexp.MustCompile(`(\d{1,2})[-.](\d{2})`)
	letterTimeRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*h\s*(\d{2})\b`)
)

// Normalize rewrites informal time expressions into canonical HH:MM tokens.
// It is total and idempotent on already-canonical text; everything outside
// the rewritten substrings, including newlines, is preserved verbatim.
func Normalize(text string) string {
	t := strings.TrimSpace(text)
	t = normalizeWordTime(t)
	t = normalizeDashTime(t)
	t = letterTimeRe.ReplaceAllString(t, "$1:$2")
	return t
}

// normalizeWordTime rewrites "в пять (часов) вечера" style expressions into
// 24-hour HH:00 tokens. Unknown hour words and out-of-range hours are left
// untouched.
func normalizeWordTime(text string) string {
	return wordTimeRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := wordTimeRe.FindStringSubmatch(m)
		prefix, rawHour, part, suffix := sub[1], strings.ToLower(sub[2]), strings.ToLower(sub[3]), sub[4]

		h, err := strconv.Atoi(rawHour)
		if err != nil {
			var ok bool
			h, ok = ruNumWords[rawHour]
			if !ok {
				return m
			}
		}
		if h < 0 || h > 23 {
			return m
		}

		h = hourTo24h(h, part)
		return fmt.Sprintf("%s%02d:00%s", prefix, h, suffix)
	})
}

// hourTo24h resolves a 1-12 hour against a Russian day-part word.
func hourTo24h(hour int, partOfDay string) int {
	switch partOfDay {
	case "вечера", "дня":
		if hour >= 1 && hour <= 11 {
			return hour + 12
		}
		return hour
	case "ночи":
		if hour == 12 {
			return 0
		}
		return hour
	}
	return hour
}

// normalizeDashTime converts dash/dot-separated pairs ("5-30", "19.00") to
// colon form. Dotted calendar dates like "13.02.2026" must survive, so a pair
// followed by ".<digit>" is skipped.
func normalizeDashTime(text string) string {
	matches := dashTimeRe.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && isWordByte(text[start-1]) {
			continue
		}
		if end < len(text) && isWordByte(text[end]) {
			continue
		}
		if end+1 < len(text) && text[end] == '.' && isDigit(text[end+1]) {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(text[m[2]:m[3]])
		b.WriteByte(':')
		b.WriteString(text[m[4]:m[5]])
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
