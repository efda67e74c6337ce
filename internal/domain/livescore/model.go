package livescore

import "time"

const (
	StatusUpcoming   = "upcoming"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
	StatusUnknown    = "unknown"
)

// EndOfRegulationMinute is the clock value assigned to a finished match when
// the source page omitted one.
const EndOfRegulationMinute = 90

// Score is the goal pair for one match. Both sides stay nil until the source
// reports a value, so "no goals yet" and "0-0 confirmed" are distinguishable
// upstream of normalization.
type Score struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Record is the cached live-score row for one canonical match key. The store
// holds at most one record per key; every resolution overwrites it whole.
type Record struct {
	Key       string
	Status    string
	Minute    *int
	Score     Score
	UpdatedAt time.Time
}

// RawScore carries whatever the extraction pipeline managed to pull out of
// the match page before normalization. Every field is optional; strategies
// merge into it best-effort.
type RawScore struct {
	HomeScore  *int
	AwayScore  *int
	StatusText string
	MinuteText string
}

// HasFullScore reports whether both sides of the score were extracted.
func (r RawScore) HasFullScore() bool {
	return r.HomeScore != nil && r.AwayScore != nil
}

// Merge fills the unset fields of r from other, keeping existing values.
func (r RawScore) Merge(other RawScore) RawScore {
	if r.HomeScore == nil {
		r.HomeScore = other.HomeScore
	}
	if r.AwayScore == nil {
		r.AwayScore = other.AwayScore
	}
	if r.StatusText == "" {
		r.StatusText = other.StatusText
	}
	if r.MinuteText == "" {
		r.MinuteText = other.MinuteText
	}
	return r
}

func ValidStatus(status string) bool {
	switch status {
	case StatusUpcoming, StatusInProgress, StatusFinished, StatusUnknown:
		return true
	default:
		return false
	}
}
