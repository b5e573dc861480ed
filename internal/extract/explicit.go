package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Labeled-field line patterns, one per field. Lines are matched individually;
// the separator may be -, —, : or =.
var explicitFieldPatterns = map[string]*regexp.Regexp{
	"title":    regexp.MustCompile(`(?i)^(?:титул|заголовок|title)\s*(?:это)?\s*[-—:=]+\s*(.+)$`),
	"date":     regexp.MustCompile(`(?i)^(?:дата|date)\s*[-—:=]+\s*(.+)$`),
	"time":     regexp.MustCompile(`(?i)^(?:время|time)\s*[-—:=]+\s*(.+)$`),
	"end":      regexp.MustCompile(`(?i)^(?:конец|окончание|end)\s*[-—:=]+\s*(.+)$`),
	"duration": regexp.MustCompile(`(?i)^(?:протяженность|длительность|duration)\s*(?:\(.*\))?\s*[-—:=]+\s*(.+)$`),
	"notes":    regexp.MustCompile(`(?i)^(?:заметки|описание|документы|notes)\s*[-—:=]+\s*(.+)$`),
}

var (
	explicitNumberRe   = regexp.MustCompile(`\d+`)
	explicitHourUnitRe = regexp.MustCompile(`(?i)(?:^|[^а-яёa-z])(?:часов|часа|час|hours|hour|h)(?:$|[^а-яёa-z])`)
)

// ExtractExplicit parses the structured multi-line "label: value" input form.
// Returns nil when the text does not follow the convention, or when the
// parsed result carries no usable signal (neither title nor start).
func ExtractExplicit(text string) *ExplicitFields {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) < 2 {
		return nil
	}

	fields := map[string]string{}
	for _, ln := range lines {
		for key, re := range explicitFieldPatterns {
			if m := re.FindStringSubmatch(ln); m != nil {
				// Last match per label wins.
				fields[key] = strings.TrimSpace(m[1])
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}

	dateRaw := fields["date"]
	timeRaw := fields["time"]
	endRaw := fields["end"]

	out := &ExplicitFields{
		Title:           fields["title"],
		Notes:           fields["notes"],
		DurationMinutes: parseExplicitDuration(fields["duration"]),
	}

	switch {
	case dateRaw != "" && timeRaw != "":
		out.StartRaw = dateRaw + " " + timeRaw
	case dateRaw != "":
		out.StartRaw = dateRaw
	}
	if dateRaw != "" && endRaw != "" {
		out.EndRaw = dateRaw + " " + endRaw
	}

	// A result with no usable signal is worse than none.
	if out.Title == "" && out.StartRaw == "" {
		return nil
	}
	return out
}

// parseExplicitDuration reads a leading integer from the duration field and
// multiplies by 60 when the unit is hours. Defaults to 60.
func parseExplicitDuration(raw string) int {
	if raw == "" {
		return 60
	}
	m := explicitNumberRe.FindString(raw)
	if m == "" {
		return 60
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 60
	}
	if explicitHourUnitRe.MatchString(raw) {
		return n * 60
	}
	return n
}
