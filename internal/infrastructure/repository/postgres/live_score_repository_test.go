package postgres

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/goalfeed/livescore-api/internal/domain/livescore"
)

func TestMapLiveScoreRow(t *testing.T) {
	updated := time.Date(2025, 6, 6, 21, 45, 0, 0, time.UTC)
	row := liveScoreTableModel{
		MatchKey:  "471045",
		Status:    livescore.StatusInProgress,
		Minute:    sql.NullString{String: "57", Valid: true},
		Score:     []byte(`{"home":2,"away":1}`),
		UpdatedAt: updated,
	}

	record, err := mapLiveScoreRow(row)
	if err != nil {
		t.Fatalf("mapLiveScoreRow: %v", err)
	}
	if record.Key != "471045" || record.Status != livescore.StatusInProgress {
		t.Fatalf("record = %+v", record)
	}
	if record.Minute == nil || *record.Minute != 57 {
		t.Fatalf("minute = %v, want 57", record.Minute)
	}
	if record.Score.Home == nil || *record.Score.Home != 2 || *record.Score.Away != 1 {
		t.Fatalf("score = %+v, want 2-1", record.Score)
	}
	if !record.UpdatedAt.Equal(updated) {
		t.Fatalf("updated_at = %s", record.UpdatedAt)
	}
}

func TestMapLiveScoreRow_UnknownStatusDowngraded(t *testing.T) {
	record, err := mapLiveScoreRow(liveScoreTableModel{
		MatchKey: "471045",
		Status:   "half_time",
		Score:    []byte(`{"home":null,"away":null}`),
	})
	if err != nil {
		t.Fatalf("mapLiveScoreRow: %v", err)
	}
	if record.Status != livescore.StatusUnknown {
		t.Fatalf("status = %q, want unknown", record.Status)
	}
}

func TestMapLiveScoreRow_Malformed(t *testing.T) {
	_, err := mapLiveScoreRow(liveScoreTableModel{
		MatchKey: "471045",
		Status:   livescore.StatusFinished,
		Score:    []byte(`{broken`),
	})
	if !errors.Is(err, livescore.ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord for a broken score blob", err)
	}

	_, err = mapLiveScoreRow(liveScoreTableModel{
		MatchKey: "471045",
		Status:   livescore.StatusFinished,
		Minute:   sql.NullString{String: "ninety", Valid: true},
	})
	if !errors.Is(err, livescore.ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord for a non-numeric minute", err)
	}
}

func TestMapLiveScoreRow_EmptyOptionalColumns(t *testing.T) {
	record, err := mapLiveScoreRow(liveScoreTableModel{
		MatchKey: "471045",
		Status:   livescore.StatusUpcoming,
	})
	if err != nil {
		t.Fatalf("mapLiveScoreRow: %v", err)
	}
	if record.Minute != nil {
		t.Fatalf("minute = %v, want nil for a NULL column", *record.Minute)
	}
	if record.Score.Home != nil || record.Score.Away != nil {
		t.Fatalf("score = %+v, want unset", record.Score)
	}
}

func TestMinuteToNullString(t *testing.T) {
	if got := minuteToNullString(nil); got.Valid {
		t.Fatalf("minuteToNullString(nil) = %+v, want invalid", got)
	}
	minute := 45
	got := minuteToNullString(&minute)
	if !got.Valid || got.String != "45" {
		t.Fatalf("minuteToNullString(45) = %+v", got)
	}
}
