package overlap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// Source reads interval rows from a SQLite table. Column names are
// configurable so the check can point at any table shaped like
// (id, group key, start, end); unset names fall back to the defaults below.
type Source struct {
	DB          *sql.DB
	Table       string
	IDColumn    string // default "id"
	GroupColumn string // default "group_key"
	StartColumn string // default "start_at"
	EndColumn   string // default "end_at"
}

// Open opens the SQLite database at dbPath in WAL mode.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return db, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// LoadRows reads every interval row from the source table. Time columns hold
// RFC3339Nano strings.
func (s *Source) LoadRows(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s",
		orDefault(s.IDColumn, "id"),
		orDefault(s.GroupColumn, "group_key"),
		orDefault(s.StartColumn, "start_at"),
		orDefault(s.EndColumn, "end_at"),
		s.Table,
	)

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var startAt, endAt string
		if err := rows.Scan(&r.ID, &r.GroupKey, &startAt, &endAt); err != nil {
			return nil, err
		}
		if r.StartAt, err = time.Parse(timeFormat, startAt); err != nil {
			return nil, fmt.Errorf("row %s: parse start: %w", r.ID, err)
		}
		if r.EndAt, err = time.Parse(timeFormat, endAt); err != nil {
			return nil, fmt.Errorf("row %s: parse end: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CheckTable loads every row from src and runs the overlap check on them.
func CheckTable(ctx context.Context, src *Source, opts Opts) ([]Violation, error) {
	rows, err := src.LoadRows(ctx)
	if err != nil {
		return nil, err
	}
	return Check(rows, opts), nil
}
