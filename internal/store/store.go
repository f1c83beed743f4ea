// Package store keeps a sqlite history of sweep runs and their trials.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"racing-line-optimizer/internal/racingline"
	"racing-line-optimizer/internal/sweep"
)

// ErrRunNotFound is returned by Trials for an unknown run id.
var ErrRunNotFound = errors.New("sweep run not found")

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

const schema = `
CREATE TABLE IF NOT EXISTS sweep_runs (
	run_id              TEXT PRIMARY KEY,
	track               TEXT NOT NULL,
	created_at          INTEGER NOT NULL,
	trial_count         INTEGER NOT NULL,
	failed_count        INTEGER NOT NULL,
	best_total_seq      INTEGER,
	best_average_seq    INTEGER
);

CREATE TABLE IF NOT EXISTS sweep_trials (
	run_id           TEXT NOT NULL REFERENCES sweep_runs(run_id) ON DELETE CASCADE,
	seq              INTEGER NOT NULL,
	ratio            REAL NOT NULL,
	look_ahead       INTEGER NOT NULL,
	total_curvature  REAL NOT NULL,
	avg_curvature    REAL NOT NULL,
	samples          INTEGER NOT NULL,
	max_curvature    REAL NOT NULL,
	stddev_curvature REAL NOT NULL,
	clamped          INTEGER NOT NULL,
	error            TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_sweep_runs_created ON sweep_runs(created_at);
`

// Store is a sqlite-backed sweep history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run is one persisted sweep.
type Run struct {
	ID        string
	Track     string
	CreatedAt time.Time
	Result    sweep.Result
}

// RunSummary is a sweep run as listed, without its trials.
type RunSummary struct {
	ID            string
	Track         string
	CreatedAt     time.Time
	TrialCount    int
	FailedCount   int
	BestByTotal   *TrialRecord
	BestByAverage *TrialRecord
}

// TrialRecord is a stored trial. Error holds the failure text, or "" on
// success.
type TrialRecord struct {
	Seq       int
	Ratio     float64
	LookAhead int
	Score     racingline.Score
	Clamped   int
	Error     string
}

// OK reports whether the trial succeeded.
func (t TrialRecord) OK() bool { return t.Error == "" }

// SaveRun stores a run and all its trials in one transaction and returns
// the run id. An empty ID gets a new UUID; a zero CreatedAt gets now.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	trials := run.Result.Trials
	bestTotal := seqOf(trials, run.Result.BestByTotal)
	bestAverage := seqOf(trials, run.Result.BestByAverage)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sweep_runs (run_id, track, created_at, trial_count, failed_count, best_total_seq, best_average_seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Track, run.CreatedAt.UnixNano(), len(trials), run.Result.Failed, bestTotal, bestAverage,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sweep_trials (
			run_id, seq, ratio, look_ahead, total_curvature, avg_curvature,
			samples, max_curvature, stddev_curvature, clamped, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare trial insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range trials {
		var errText sql.NullString
		if t.Err != nil {
			errText = sql.NullString{String: t.Err.Error(), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			run.ID, i, t.Ratio, t.LookAhead, t.Score.Total, t.Score.Average,
			t.Score.Samples, t.Score.Max, t.Score.StdDev, t.Clamped, errText,
		)
		if err != nil {
			return "", fmt.Errorf("insert trial %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

// seqOf returns the position of best within trials, or NULL.
func seqOf(trials []sweep.Trial, best *sweep.Trial) sql.NullInt64 {
	if best == nil {
		return sql.NullInt64{}
	}
	for i := range trials {
		if &trials[i] == best {
			return sql.NullInt64{Int64: int64(i), Valid: true}
		}
	}
	for i, t := range trials {
		if t.Ratio == best.Ratio && t.LookAhead == best.LookAhead && t.OK() {
			return sql.NullInt64{Int64: int64(i), Valid: true}
		}
	}
	return sql.NullInt64{}
}

// ListRuns returns up to limit runs, newest first. A limit below 1 returns
// every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit < 1 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, track, created_at, trial_count, failed_count, best_total_seq, best_average_seq
		FROM sweep_runs
		ORDER BY created_at DESC, run_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	type pending struct {
		summary            RunSummary
		bestTotal, bestAvg sql.NullInt64
	}
	var runs []pending
	for rows.Next() {
		var p pending
		var created int64
		if err := rows.Scan(&p.summary.ID, &p.summary.Track, &created,
			&p.summary.TrialCount, &p.summary.FailedCount, &p.bestTotal, &p.bestAvg); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		p.summary.CreatedAt = time.Unix(0, created)
		runs = append(runs, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	out := make([]RunSummary, 0, len(runs))
	for _, p := range runs {
		if p.bestTotal.Valid {
			t, err := s.trial(ctx, p.summary.ID, int(p.bestTotal.Int64))
			if err != nil {
				return nil, err
			}
			p.summary.BestByTotal = t
		}
		if p.bestAvg.Valid {
			t, err := s.trial(ctx, p.summary.ID, int(p.bestAvg.Int64))
			if err != nil {
				return nil, err
			}
			p.summary.BestByAverage = t
		}
		out = append(out, p.summary)
	}
	return out, nil
}

// Trials returns every trial of a run in grid order.
func (s *Store) Trials(ctx context.Context, runID string) ([]TrialRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sweep_runs WHERE run_id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, ratio, look_ahead, total_curvature, avg_curvature,
		       samples, max_curvature, stddev_curvature, clamped, error
		FROM sweep_trials
		WHERE run_id = ?
		ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trials: %w", err)
	}
	defer rows.Close()

	var out []TrialRecord
	for rows.Next() {
		t, err := scanTrial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) trial(ctx context.Context, runID string, seq int) (*TrialRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, ratio, look_ahead, total_curvature, avg_curvature,
		       samples, max_curvature, stddev_curvature, clamped, error
		FROM sweep_trials
		WHERE run_id = ? AND seq = ?`, runID, seq)
	return scanTrial(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrial(sc scanner) (*TrialRecord, error) {
	var t TrialRecord
	var errText sql.NullString
	err := sc.Scan(&t.Seq, &t.Ratio, &t.LookAhead, &t.Score.Total, &t.Score.Average,
		&t.Score.Samples, &t.Score.Max, &t.Score.StdDev, &t.Clamped, &errText)
	if err != nil {
		return nil, fmt.Errorf("scan trial: %w", err)
	}
	t.Error = errText.String
	return &t, nil
}
