package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/goalfeed/livescore-api/internal/domain/livescore"
	qb "github.com/goalfeed/livescore-api/internal/platform/querybuilder"
)

// LiveScoreRepository stores one live-score row per canonical match key. The
// score pair travels as an encoded blob; a row whose blob no longer decodes
// is reported as malformed, never fatal, so a refresh can overwrite it.
type LiveScoreRepository struct {
	db *sqlx.DB
}

func NewLiveScoreRepository(db *sqlx.DB) *LiveScoreRepository {
	return &LiveScoreRepository{db: db}
}

func (r *LiveScoreRepository) GetByKey(ctx context.Context, key string) (livescore.Record, bool, error) {
	query, args, err := qb.Select("*").From("live_scores").
		Where(qb.Eq("match_key", key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return livescore.Record{}, false, fmt.Errorf("build select live score query: %w", err)
	}

	var row liveScoreTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return livescore.Record{}, false, nil
		}
		return livescore.Record{}, false, fmt.Errorf("%w: select live score: %v", livescore.ErrStoreUnavailable, err)
	}

	record, err := mapLiveScoreRow(row)
	if err != nil {
		return livescore.Record{}, false, err
	}
	return record, true, nil
}

func (r *LiveScoreRepository) Upsert(ctx context.Context, record livescore.Record) error {
	scoreBlob, err := sonic.Marshal(record.Score)
	if err != nil {
		return fmt.Errorf("encode score payload: %w", err)
	}

	insertModel := liveScoreTableModel{
		MatchKey:  record.Key,
		Status:    record.Status,
		Minute:    minuteToNullString(record.Minute),
		Score:     scoreBlob,
		UpdatedAt: record.UpdatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("live_scores", insertModel, `ON CONFLICT (match_key)
DO UPDATE SET
    status = EXCLUDED.status,
    minute = EXCLUDED.minute,
    score = EXCLUDED.score,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert live score query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert live score: %v", livescore.ErrStoreUnavailable, err)
	}
	return nil
}

func mapLiveScoreRow(row liveScoreTableModel) (livescore.Record, error) {
	record := livescore.Record{
		Key:       row.MatchKey,
		Status:    row.Status,
		UpdatedAt: row.UpdatedAt,
	}
	if !livescore.ValidStatus(record.Status) {
		record.Status = livescore.StatusUnknown
	}

	if row.Minute.Valid {
		if minute := strings.TrimSpace(row.Minute.String); minute != "" {
			parsed, err := strconv.Atoi(minute)
			if err != nil {
				return livescore.Record{}, fmt.Errorf("%w: minute %q: %v", livescore.ErrMalformedRecord, minute, err)
			}
			record.Minute = &parsed
		}
	}

	if len(row.Score) > 0 {
		if err := sonic.Unmarshal(row.Score, &record.Score); err != nil {
			return livescore.Record{}, fmt.Errorf("%w: score payload: %v", livescore.ErrMalformedRecord, err)
		}
	}

	return record, nil
}

func minuteToNullString(minute *int) sql.NullString {
	if minute == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: strconv.Itoa(*minute), Valid: true}
}
