// Copyright (c) 2026, The netpulse authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/netpulse/netpulse/pkg/defaults"
	apperrors "github.com/netpulse/netpulse/pkg/errors"
	"github.com/netpulse/netpulse/pkg/measurement"
)

// Store is the append-only measurement history backed by SQLite.
type Store struct {
	*sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	ts            INTEGER PRIMARY KEY,
	batch_id      TEXT NOT NULL,
	tool          TEXT NOT NULL,
	status        TEXT NOT NULL,
	download_mbps REAL,
	upload_mbps   REAL,
	latency_ms    REAL,
	retrans_pct   REAL,
	exit_code     INTEGER NOT NULL DEFAULT 0,
	reason        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_records_tool_status_ts
ON records(tool, status, ts);

CREATE TABLE IF NOT EXISTS report_state (
	id             INTEGER PRIMARY KEY CHECK (id = 1),
	last_published INTEGER NOT NULL DEFAULT 0
);

INSERT OR IGNORE INTO report_state (id, last_published) VALUES (1, 0);
`

// Open opens (creating if necessary) the store at path and ensures the
// schema exists. The database runs in WAL mode with a busy timeout so an
// accidental overlap of scheduler ticks blocks briefly instead of failing.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL",
		path, defaults.StoreBusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return &Store{db}, nil
}

// Append inserts one record. The record's timestamp is truncated to whole
// seconds UTC and is the primary key: a second append in the same second
// fails with code DUPLICATE_TIMESTAMP and leaves the store unchanged. Each
// append is a single SQLite transaction, so a crash either persists the
// whole row or nothing.
func (s *Store) Append(ctx context.Context, rec *measurement.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	ts := rec.Timestamp.UTC().Truncate(time.Second)
	_, err := s.ExecContext(ctx, `
		INSERT INTO records
		(ts, batch_id, tool, status, download_mbps, upload_mbps, latency_ms, retrans_pct, exit_code, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ts.Unix(), rec.BatchID, string(rec.Tool), string(rec.Status),
		nullable(rec.Sample.DownloadMbps), nullable(rec.Sample.UploadMbps),
		nullable(rec.Sample.LatencyMS), nullable(rec.Sample.RetransPct),
		rec.ExitCode, rec.Reason)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return apperrors.WrapWithContext(apperrors.ErrCodeDuplicateTimestamp,
				"a record with this timestamp already exists", err,
				map[string]any{
					"timestamp": ts.Format(time.RFC3339),
					"tool":      string(rec.Tool),
				})
		}
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// Recent returns records with timestamps strictly greater than since, in
// ascending timestamp order. The zero time returns the full history.
func (s *Store) Recent(ctx context.Context, since time.Time) ([]measurement.Record, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT ts, batch_id, tool, status, download_mbps, upload_mbps, latency_ms, retrans_pct, exit_code, reason
		FROM records
		WHERE ts > ?
		ORDER BY ts ASC
	`, since.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []measurement.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

// LastSuccess returns the newest successful record for the given tool, or
// nil when the tool has never succeeded.
func (s *Store) LastSuccess(ctx context.Context, tool measurement.Tool) (*measurement.Record, error) {
	row := s.QueryRowContext(ctx, `
		SELECT ts, batch_id, tool, status, download_mbps, upload_mbps, latency_ms, retrans_pct, exit_code, reason
		FROM records
		WHERE tool = ? AND status = ?
		ORDER BY ts DESC
		LIMIT 1
	`, string(tool), string(measurement.StatusSuccess))

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// LastPublished returns the timestamp of the newest record covered by a
// successful publication, or the zero time when nothing was published yet.
func (s *Store) LastPublished(ctx context.Context) (time.Time, error) {
	var unix int64
	err := s.QueryRowContext(ctx,
		`SELECT last_published FROM report_state WHERE id = 1`).Scan(&unix)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read report state: %w", err)
	}
	if unix == 0 {
		return time.Time{}, nil
	}
	return time.Unix(unix, 0).UTC(), nil
}

// SetLastPublished records ts as the newest published record timestamp.
func (s *Store) SetLastPublished(ctx context.Context, ts time.Time) error {
	_, err := s.ExecContext(ctx,
		`UPDATE report_state SET last_published = ? WHERE id = 1`,
		ts.UTC().Truncate(time.Second).Unix())
	if err != nil {
		return fmt.Errorf("failed to update report state: %w", err)
	}
	return nil
}

// Prune deletes records with timestamps before the given cutoff inside one
// transaction and returns how many rows were removed. Pruning is only ever
// invoked by the explicit prune command.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM records WHERE ts < ?`, before.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}
	return deleted, nil
}

// Stats summarizes the store contents for health checks.
type Stats struct {
	Total  int64     `json:"total" yaml:"total"`
	Failed int64     `json:"failed" yaml:"failed"`
	Oldest time.Time `json:"oldest,omitempty" yaml:"oldest,omitempty"`
	Newest time.Time `json:"newest,omitempty" yaml:"newest,omitempty"`
}

// Stats returns counts and the covered time range.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var oldest, newest sql.NullInt64
	err := s.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       MIN(ts), MAX(ts)
		FROM records
	`, string(measurement.StatusFailed)).Scan(&st.Total, &st.Failed, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("failed to read store stats: %w", err)
	}
	if oldest.Valid {
		st.Oldest = time.Unix(oldest.Int64, 0).UTC()
	}
	if newest.Valid {
		st.Newest = time.Unix(newest.Int64, 0).UTC()
	}
	return &st, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*measurement.Record, error) {
	var (
		unix     int64
		batchID  string
		tool     string
		status   string
		down     sql.NullFloat64
		up       sql.NullFloat64
		latency  sql.NullFloat64
		retrans  sql.NullFloat64
		exitCode int
		reason   string
	)
	if err := sc.Scan(&unix, &batchID, &tool, &status,
		&down, &up, &latency, &retrans, &exitCode, &reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	rec := &measurement.Record{
		Timestamp: time.Unix(unix, 0).UTC(),
		BatchID:   batchID,
		Tool:      measurement.Tool(tool),
		Status:    measurement.Status(status),
		ExitCode:  exitCode,
		Reason:    reason,
	}
	rec.Sample.DownloadMbps = floatPtr(down)
	rec.Sample.UploadMbps = floatPtr(up)
	rec.Sample.LatencyMS = floatPtr(latency)
	rec.Sample.RetransPct = floatPtr(retrans)
	return rec, nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
