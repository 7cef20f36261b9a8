package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	_ "modernc.org/sqlite"

	"TWStockDesk/internal/model"
)

// SQLiteRecorder persists dashboard snapshots and headlines to SQLite.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger arbor.ILogger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger arbor.ILogger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets readers query history while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dashboard_snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			close        REAL,
			change       REAL,
			rsi          REAL,
			ma           REAL,
			slope        REAL,
			trend        TEXT,
			dividend_sum REAL,
			yield_pct    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON dashboard_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS news_items (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			title     TEXT NOT NULL,
			link      TEXT NOT NULL DEFAULT '',
			published INTEGER,
			sentiment TEXT,
			UNIQUE(title, link)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_ts ON news_items(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullable(f model.NullFloat) any {
	if !f.Valid {
		return nil
	}
	return f.Value
}

func (r *SQLiteRecorder) RecordSnapshot(d *model.Dashboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := SnapshotFromDashboard(d)
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO dashboard_snapshots
		(timestamp, symbol, close, change, rsi, ma, slope, trend, dividend_sum, yield_pct)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), s.Symbol, s.Close, s.Change,
		nullable(s.RSI), nullable(s.MA), nullable(s.Slope), s.Trend,
		s.DividendSum, s.YieldPct,
	)
	return err
}

// RecordNews stores headlines; a title/link pair already recorded is skipped.
func (r *SQLiteRecorder) RecordNews(items []model.NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	for _, item := range items {
		var published any
		if !item.Published.IsZero() {
			published = item.Published.Unix()
		}
		if _, err := tx.Exec(`INSERT OR IGNORE INTO news_items
			(timestamp, title, link, published, sentiment)
			VALUES (?,?,?,?,?)`,
			now, item.Title, item.Link, published, string(item.Sentiment.Kind),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// RecentSnapshots returns up to limit rows for symbol, newest first.
func (r *SQLiteRecorder) RecentSnapshots(symbol string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.Query(`SELECT timestamp, symbol, close, change, rsi, ma, slope, trend, dividend_sum, yield_pct
		FROM dashboard_snapshots WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			ts             int64
			s              Snapshot
			rsi, ma, slope sql.NullFloat64
			trend          sql.NullString
		)
		if err := rows.Scan(&ts, &s.Symbol, &s.Close, &s.Change, &rsi, &ma, &slope, &trend, &s.DividendSum, &s.YieldPct); err != nil {
			return nil, err
		}
		s.Timestamp = time.Unix(ts, 0)
		s.RSI = model.NullFloat{Value: rsi.Float64, Valid: rsi.Valid}
		s.MA = model.NullFloat{Value: ma.Float64, Valid: ma.Valid}
		s.Slope = model.NullFloat{Value: slope.Float64, Valid: slope.Valid}
		s.Trend = trend.String
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
