package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ForecastBoard/internal/logger"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists dashboard activity to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS renders (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			session_id       TEXT,
			ticker           TEXT,
			state            TEXT,
			historical_count INTEGER,
			predicted_count  INTEGER,
			messages         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_renders_ts ON renders(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ticker_adds (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			session_id TEXT,
			ticker     TEXT,
			outcome    TEXT,
			message    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticker_adds_ts ON ticker_adds(timestamp)`,

		`CREATE TABLE IF NOT EXISTS forecast_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			ticker      TEXT NOT NULL,
			as_of       TEXT NOT NULL,
			last_close  REAL,
			day_offset  INTEGER NOT NULL,
			target_date TEXT NOT NULL,
			predicted   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecast_ticker ON forecast_snapshots(ticker, as_of)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRender(evt *RenderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO renders
		(timestamp, session_id, ticker, state, historical_count, predicted_count, messages)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.SessionID, evt.Ticker, evt.State,
		evt.HistoricalCount, evt.PredictedCount, evt.Messages,
	)
	return err
}

func (r *SQLiteRecorder) RecordTickerAdd(evt *TickerAddEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO ticker_adds
		(timestamp, session_id, ticker, outcome, message)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.SessionID, evt.Ticker, evt.Outcome, evt.Message,
	)
	return err
}

// RecordForecast writes one row per predicted day in a single transaction.
func (r *SQLiteRecorder) RecordForecast(snap *ForecastSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	asOf := snap.AsOf.Format("2006-01-02")
	for i, v := range snap.Predictions {
		target := snap.AsOf.AddDate(0, 0, i+1).Format("2006-01-02")
		if _, err := tx.Exec(`INSERT INTO forecast_snapshots
			(timestamp, ticker, as_of, last_close, day_offset, target_date, predicted)
			VALUES (?,?,?,?,?,?,?)`,
			now, snap.Ticker, asOf, snap.LastClose, i+1, target, v,
		); err != nil {
			return fmt.Errorf("insert forecast row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	logger.Log.Info("closing sqlite recorder")
	return r.db.Close()
}
