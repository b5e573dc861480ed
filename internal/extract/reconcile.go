package extract

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"sekretar/internal/dateparse"
	"sekretar/internal/timeutil"
)

// Terminal reconciliation failures. Both mean no event is created for the
// message; the transport layer maps them to user-facing remediation replies.
var (
	// ErrExplicitDateTime: the structured fields were recognized but their
	// date/time did not parse. No further fallback is attempted.
	ErrExplicitDateTime = errors.New("could not recognize date/time from explicit fields")

	// ErrNoDateTime: no extraction strategy produced a start time.
	ErrNoDateTime = errors.New("could not recognize date/time")
)

// Model titles containing these words indicate notes content leaked into the
// title field.
var bannedTitleRe = regexp.MustCompile(`(?i)(?:^|[^а-яёa-z])(?:документы|документ|паспорт|очередь)(?:$|[^а-яёa-z])`)

const maxPrimaryTitleRunes = 60

// nearNowWindow is the signal that a free-text parse silently substituted
// "now" for an explicitly stated clock time.
const nearNowWindow = 5 * time.Minute

// Reconcile merges the explicit-field, primary and heuristic extraction
// results into a single event. The explicit branch short-circuits everything
// else; the blended branch fills each field from the first source that
// answers, in priority order.
func Reconcile(normalized string, explicit *ExplicitFields, primary *Candidate, now time.Time, parser *dateparse.Parser) (*Event, error) {
	if explicit != nil {
		return reconcileExplicit(normalized, explicit, now, parser)
	}
	return reconcileBlended(normalized, primary, now, parser)
}

func reconcileExplicit(normalized string, explicit *ExplicitFields, now time.Time, parser *dateparse.Parser) (*Event, error) {
	// The message body is label lines, so there is no prose to guess a
	// title from.
	title := strings.TrimSpace(explicit.Title)
	if title == "" {
		title = PlaceholderTitle
	}

	duration := explicit.DurationMinutes
	if duration <= 0 {
		duration = 60
	}

	var start time.Time
	if raw := strings.TrimSpace(explicit.StartRaw); raw != "" {
		if t, ok := parser.Parse(Normalize(raw), now); ok {
			start = t
		}
	}
	if start.IsZero() {
		return nil, ErrExplicitDateTime
	}

	var end *time.Time
	if raw := strings.TrimSpace(explicit.EndRaw); raw != "" {
		if t, ok := parser.Parse(Normalize(raw), now); ok {
			end = &t
		}
	}
	end = dropInvertedEnd(start, end)

	return &Event{
		Title:           title,
		Start:           start,
		End:             end,
		DurationMinutes: duration,
		Notes:           strings.TrimSpace(explicit.Notes),
	}, nil
}

func reconcileBlended(normalized string, primary *Candidate, now time.Time, parser *dateparse.Parser) (*Event, error) {
	if primary == nil {
		primary = &Candidate{}
	}

	notes := strings.TrimSpace(primary.Notes)
	if notes == "" {
		notes = GuessNotes(normalized)
	}

	title := strings.TrimSpace(primary.Title)
	if title == "" || len([]rune(title)) > maxPrimaryTitleRunes || bannedTitleRe.MatchString(title) {
		title = GuessTitle(normalized)
	}

	duration := primary.DurationMinutes
	if duration <= 0 {
		duration = GuessDuration(normalized)
	}

	loc := parser.Location()

	var start time.Time
	var end *time.Time
	if s := strings.TrimSpace(primary.StartDatetime); s != "" {
		if t, err := timeutil.ParseDateTime(s, loc); err == nil {
			start = t
		}
	}
	if s := strings.TrimSpace(primary.EndDatetime); s != "" {
		if t, err := timeutil.ParseDateTime(s, loc); err == nil {
			end = &t
		}
	}

	if start.IsZero() {
		if from, to := GuessTimeRange(normalized); from != "" && to != "" {
			if base, ok := parser.Parse(normalized, now); ok {
				if s, ok := timeutil.CombineDateAndTime(base, from); ok {
					start = s
				}
				if e, ok := timeutil.CombineDateAndTime(base, to); ok {
					end = &e
				}
			}
		}
		if start.IsZero() {
			if t, ok := parser.Parse(normalized, now); ok {
				start = t
			}
		}
	}

	if start.IsZero() {
		return nil, ErrNoDateTime
	}

	start = repairStartTime(start, normalized, now)
	end = dropInvertedEnd(start, end)

	return &Event{
		Title:           title,
		Start:           start,
		End:             end,
		DurationMinutes: duration,
		Notes:           notes,
	}, nil
}

// repairStartTime re-applies an explicitly stated clock time that the
// free-text parsing may have dropped. Two sequential passes, order matters:
//
//  1. If the parsed start is within nearNowWindow of the current moment, the
//     parser almost certainly substituted "now" for the stated time; rebuild
//     the start from its date plus the explicit clock time.
//  2. Unconditionally: whenever the explicit clock time disagrees with the
//     start's hour/minute, the explicit time wins.
func repairStartTime(start time.Time, normalized string, now time.Time) time.Time {
	explicit := FirstTime(normalized)
	if explicit == "" {
		return start
	}

	if absDuration(start.Sub(now)) < nearNowWindow {
		if combined, ok := timeutil.CombineDateAndTime(start, explicit); ok {
			start = combined
		}
	}

	if combined, ok := timeutil.CombineDateAndTime(start, explicit); ok {
		if start.Hour() != combined.Hour() || start.Minute() != combined.Minute() {
			start = combined
		}
	}

	return start
}

// dropInvertedEnd discards an end that is not strictly after start, so the
// event falls back to duration semantics.
func dropInvertedEnd(start time.Time, end *time.Time) *time.Time {
	if end != nil && !end.After(start) {
		return nil
	}
	return end
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
