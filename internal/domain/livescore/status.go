package livescore

import (
	"strconv"
	"strings"
	"time"
)

// terminalStatuses is the fixed vocabulary a source page may use for a match
// that has ended. Matching is exact after trim and upper-casing.
var terminalStatuses = map[string]struct{}{
	"FT":        {},
	"AET":       {},
	"PEN":       {},
	"FINISHED":  {},
	"ENDED":     {},
	"FULL TIME": {},
}

// Normalize reconciles raw extracted fields with the fixture's kickoff time.
// It is a pure function: no I/O, same output for the same inputs.
//
// A fixture whose kickoff is still in the future is always upcoming with a
// (0,0) score, whatever the page claimed. A terminal status text means
// finished, with the clock defaulting to end of regulation. Everything else
// past kickoff counts as in progress. Unset score sides default to 0 only
// after the status has been decided.
func Normalize(raw RawScore, kickoff, now time.Time) (string, *int, Score) {
	if kickoff.After(now) {
		return StatusUpcoming, nil, Score{Home: intPtr(0), Away: intPtr(0)}
	}

	if isTerminalStatusText(raw.StatusText) {
		minute := parseMinute(raw.MinuteText)
		if minute == nil {
			minute = intPtr(EndOfRegulationMinute)
		}
		return StatusFinished, minute, defaultedScore(raw)
	}

	return StatusInProgress, parseMinute(raw.MinuteText), defaultedScore(raw)
}

func isTerminalStatusText(text string) bool {
	_, ok := terminalStatuses[strings.ToUpper(strings.TrimSpace(text))]
	return ok
}

// parseMinute reads the leading digits out of a clock text like "53'" or
// "45+2". Nil when the text carries no usable number.
func parseMinute(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}

	minute, err := strconv.Atoi(text[:end])
	if err != nil || minute < 0 {
		return nil
	}
	return &minute
}

func defaultedScore(raw RawScore) Score {
	score := Score{Home: raw.HomeScore, Away: raw.AwayScore}
	if score.Home == nil {
		score.Home = intPtr(0)
	}
	if score.Away == nil {
		score.Away = intPtr(0)
	}
	return score
}

func intPtr(v int) *int {
	return &v
}
