package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists delivery history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers can query history while the relay writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS deliveries (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			ticker    TEXT,
			eps_date  TEXT,
			subject   TEXT,
			sentiment TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_ts ON deliveries(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_key ON deliveries(eps_date, ticker)`,

		`CREATE TABLE IF NOT EXISTS runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			fetched    INTEGER,
			new_items  INTEGER,
			delivered  INTEGER,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordDelivery(rec *DeliveryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO deliveries
		(timestamp, ticker, eps_date, subject, sentiment)
		VALUES (?,?,?,?,?)`,
		rec.SentAt.Unix(), rec.Ticker, rec.EpsDate, rec.Subject, rec.Sentiment,
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(sum *RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(started_at, fetched, new_items, delivered, error)
		VALUES (?,?,?,?,?)`,
		sum.StartedAt.Unix(), sum.Fetched, sum.NewItems, sum.Delivered, sum.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
