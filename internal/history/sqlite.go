package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

func (l *Log) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", l.path)
	if err != nil {
		return nil, err
	}
	// WAL + busy_timeout avoid "database is locked" flakiness if a second ckl
	// happens to run against the same checklist.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			type TEXT NOT NULL,
			item TEXT NOT NULL,
			checked INTEGER NOT NULL
		);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts_unixms);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (l *Log) appendSQLite(ev Event) error {
	ctx := context.Background()
	db, err := l.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	checked := 0
	if ev.Checked {
		checked = 1
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO events(event_id, ts_unixms, type, item, checked) VALUES(?, ?, ?, ?, ?)`,
		ev.ID, ev.TS.UnixMilli(), ev.Type, ev.Item, checked)
	return err
}

func (l *Log) readSQLite() ([]Event, error) {
	ctx := context.Background()
	if _, err := os.Stat(l.path); err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, err
	}
	db, err := l.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT event_id, ts_unixms, type, item, checked FROM events ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var ev Event
		var tsMs int64
		var checked int
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Type, &ev.Item, &checked); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC()
		ev.Checked = checked != 0
		out = append(out, ev)
	}
	return out, rows.Err()
}
