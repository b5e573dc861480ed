// Package dateparse resolves free-form Russian date/time expressions into
// timezone-aware timestamps. Numeric and month-name dates are handled
// directly; relative expressions ("завтра", "в пятницу") are delegated to
// the when library's Russian rules.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/ru"
)

var (
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})(?:\.(\d{2,4}))?\b`)
	clockRe       = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	monthDateRe   = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(январ[ья]|феврал[ья]|марта?|апрел[ья]|ма[йя]|июн[ья]|июл[ья]|августа?|сентябр[ья]|октябр[ья]|ноябр[ья]|декабр[ья])(?:\s+(\d{4}))?`)
)

var ruMonthPrefixes = []struct {
	prefix string
	month  time.Month
}{
	{"янв", time.January},
	{"фев", time.February},
	{"мар", time.March},
	{"апр", time.April},
	{"ма", time.May},
	{"июн", time.June},
	{"июл", time.July},
	{"авг", time.August},
	{"сен", time.September},
	{"окт", time.October},
	{"ноя", time.November},
	{"дек", time.December},
}

type Parser struct {
	w   *when.Parser
	loc *time.Location
}

func New(loc *time.Location) *Parser {
	w := when.New(nil)
	w.Add(ru.All...)
	w.Add(common.All...)
	return &Parser{w: w, loc: loc}
}

// Location returns the location all results are expressed in.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse resolves the first recognizable date/time expression in text,
// relative to now. Year-less dates prefer the future. The boolean reports
// whether anything was recognized.
func (p *Parser) Parse(text string, now time.Time) (time.Time, bool) {
	now = now.In(p.loc)

	if t, ok := p.parseNumericDate(text, now); ok {
		return t, true
	}
	if t, ok := p.parseMonthDate(text, now); ok {
		return t, true
	}

	r, err := p.w.Parse(text, now)
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time.In(p.loc), true
}

// parseNumericDate handles "13.02.2026", "13.02.26" and year-less "13.02"
// forms, combined with the first clock time found in the text.
func (p *Parser) parseNumericDate(text string, now time.Time) (time.Time, bool) {
	m := numericDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}

	hasYear := m[3] != ""
	year := now.Year()
	if hasYear {
		year, _ = strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
	}

	h, min := p.clockIn(text)
	t := time.Date(year, time.Month(month), day, h, min, 0, 0, p.loc)
	if !hasYear && t.Before(now) {
		t = t.AddDate(1, 0, 0)
	}
	return t, true
}

// parseMonthDate handles "13 февраля" and "13 февраля 2026" forms.
func (p *Parser) parseMonthDate(text string, now time.Time) (time.Time, bool) {
	m := monthDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, ok := monthFromName(m[2])
	if !ok {
		return time.Time{}, false
	}

	hasYear := m[3] != ""
	year := now.Year()
	if hasYear {
		year, _ = strconv.Atoi(m[3])
	}

	h, min := p.clockIn(text)
	t := time.Date(year, month, day, h, min, 0, 0, p.loc)
	if !hasYear && t.Before(now) {
		t = t.AddDate(1, 0, 0)
	}
	return t, true
}

// clockIn returns the first valid HH:MM in the text, or midnight.
func (p *Parser) clockIn(text string) (int, int) {
	for _, m := range clockRe.FindAllStringSubmatch(text, -1) {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h <= 23 && min <= 59 {
			return h, min
		}
	}
	return 0, 0
}

func monthFromName(name string) (time.Month, bool) {
	lowered := strings.ToLower(name)
	// "мар" must win over the bare "ма" prefix of May.
	for _, e := range ruMonthPrefixes {
		if strings.HasPrefix(lowered, e.prefix) {
			return e.month, true
		}
	}
	return 0, false
}
