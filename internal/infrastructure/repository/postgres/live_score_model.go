package postgres

import (
	"database/sql"
	"time"
)

type liveScoreTableModel struct {
	MatchKey  string         `db:"match_key"`
	Status    string         `db:"status"`
	Minute    sql.NullString `db:"minute"`
	Score     []byte         `db:"score"`
	UpdatedAt time.Time      `db:"updated_at"`
}
