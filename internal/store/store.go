// Package store persists annotation runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"orfmark/core/seq"
	"orfmark/internal/annotate"
	"orfmark/internal/jsonutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    started_at  TEXT NOT NULL,
    finished_at TEXT,
    status      TEXT NOT NULL DEFAULT 'running',
    settings    TEXT NOT NULL,
    inputs      TEXT NOT NULL,
    orf_count   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS annotations (
    run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    source_file   TEXT NOT NULL,
    seq_index     INTEGER NOT NULL,
    sequence_id   TEXT NOT NULL,
    name          TEXT NOT NULL,
    ordinal       INTEGER NOT NULL,
    start_pos     INTEGER NOT NULL,
    end_pos       INTEGER NOT NULL,
    strand        TEXT NOT NULL,
    frame         INTEGER NOT NULL,
    terminated    INTEGER NOT NULL,
    includes_stop INTEGER NOT NULL,
    PRIMARY KEY (run_id, seq_index, ordinal)
);

CREATE INDEX IF NOT EXISTS idx_annotations_sequence ON annotations(sequence_id);
`

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusRunning   = "running"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// Run is one stored orfmark invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
	Status     string
	Settings   string // JSON
	Inputs     []string
	ORFCount   int
}

// Store is a SQLite-backed annotation store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; the run is a single producer anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// BeginRun records a new run and returns its id.
func (s *Store) BeginRun(ctx context.Context, settings any, inputs []string) (string, error) {
	set, err := jsonutil.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	if inputs == nil {
		inputs = []string{}
	}
	in, err := jsonutil.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("failed to encode inputs: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, status, settings, inputs) VALUES (?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(time.RFC3339Nano), StatusRunning, string(set), string(in))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// AddAnnotations stores recs under runID in one transaction.
func (s *Store) AddAnnotations(ctx context.Context, runID string, recs []annotate.Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO annotations (run_id, source_file, seq_index, sequence_id, name, ordinal,
			start_pos, end_pos, strand, frame, terminated, includes_stop)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, runID, r.SourceFile, r.SeqIndex, r.SequenceID, r.Name, r.Index,
			r.Start, r.End, r.Strand.Sign(), r.Frame, r.Terminated, r.IncludesStop); err != nil {
			return fmt.Errorf("failed to insert annotation %s/%s: %w", r.SequenceID, r.Label(), err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE runs SET orf_count = orf_count + ? WHERE id = ?`, len(recs), runID); err != nil {
		return fmt.Errorf("failed to update run count: %w", err)
	}
	return tx.Commit()
}

// FinishRun stamps the run with its final status.
func (s *Store) FinishRun(ctx context.Context, runID, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ? WHERE id = ?`,
		s.now().UTC().Format(time.RFC3339Nano), status, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, status, settings, inputs, orf_count`

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Lookup returns the run with the given id, or ErrRunNotFound.
func (s *Store) Lookup(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return r, err
}

func scanRun(sc interface{ Scan(...any) error }) (Run, error) {
	var (
		r        Run
		started  string
		finished sql.NullString
		inputs   string
	)
	if err := sc.Scan(&r.ID, &started, &finished, &r.Status, &r.Settings, &inputs, &r.ORFCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("failed to scan run: %w", err)
	}
	var err error
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return r, fmt.Errorf("run %s: bad started_at: %w", r.ID, err)
	}
	if finished.Valid {
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
			return r, fmt.Errorf("run %s: bad finished_at: %w", r.ID, err)
		}
	}
	if err := jsonutil.JSON.Unmarshal([]byte(inputs), &r.Inputs); err != nil {
		return r, fmt.Errorf("run %s: bad inputs: %w", r.ID, err)
	}
	return r, nil
}

// Annotations returns the records of runID in input order.
func (s *Store) Annotations(ctx context.Context, runID string) ([]annotate.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_file, seq_index, sequence_id, name, ordinal, start_pos, end_pos,
			strand, frame, terminated, includes_stop
		FROM annotations WHERE run_id = ? ORDER BY seq_index, ordinal`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []annotate.Record
	for rows.Next() {
		var (
			r      annotate.Record
			strand string
		)
		if err := rows.Scan(&r.SourceFile, &r.SeqIndex, &r.SequenceID, &r.Name, &r.Index,
			&r.Start, &r.End, &strand, &r.Frame, &r.Terminated, &r.IncludesStop); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		if strand == "-" {
			r.Strand = seq.Complement
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
