package extract

import "time"

// Candidate is a partially-filled event guess produced by the primary
// (model-based) extraction. Fields may be empty; the reconciliation engine
// fills the gaps from the heuristic extractors.
type Candidate struct {
	Title           string `json:"title"`
	StartDatetime   string `json:"start_datetime"`
	EndDatetime     string `json:"end_datetime"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

// ExplicitFields is the structured "label: value" multi-line input form.
// When present it bypasses the heuristic and primary extraction for
// title/time/duration.
type ExplicitFields struct {
	Title           string
	StartRaw        string
	EndRaw          string
	DurationMinutes int
	Notes           string
}

// Event is the reconciled result of a single message. Start is always set
// and timezone-aware. End, when present, is strictly after Start; otherwise
// DurationMinutes determines the event length.
type Event struct {
	Title           string
	Start           time.Time
	End             *time.Time
	DurationMinutes int
	Notes           string
}
