package store

import (
	"context"
	"fmt"
	"time"
)

// SourceKind says where a run's graph came from.
type SourceKind string

const (
	SourcePattern SourceKind = "pattern"
	SourceGraph   SourceKind = "graph"
)

// Run is one recorded decision.
type Run struct {
	Seq        int64      `json:"seq"`
	ID         string     `json:"id"`
	SourceKind SourceKind `json:"source_kind"`
	Source     string     `json:"source"` // pattern text or graph file path
	Input      string     `json:"input"`
	Accepted   bool       `json:"accepted"`
	Steps      int        `json:"steps"`
	Error      string     `json:"error,omitempty"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// RecordRun inserts a run and returns it with Seq, ID and RecordedAt set.
// A caller-supplied ID is kept; duplicate IDs are rejected by the schema.
func (s *Store) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}
	run.RecordedAt = s.clock.Now().UTC().Truncate(time.Millisecond)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, source_kind, source, input, accepted, steps, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		string(run.SourceKind),
		run.Source,
		run.Input,
		run.Accepted,
		run.Steps,
		run.Error,
		run.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	run.Seq = seq
	return run, nil
}

// ListRuns returns the most recent runs in seq order (oldest first).
// limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, source_kind, source, input, accepted, steps, error, recorded_at
		FROM (
			SELECT * FROM runs ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			r        Run
			kind     string
			recorded int64
		)
		if err := rows.Scan(&r.Seq, &r.ID, &kind, &r.Source, &r.Input, &r.Accepted, &r.Steps, &r.Error, &recorded); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		r.SourceKind = SourceKind(kind)
		r.RecordedAt = time.UnixMilli(recorded).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Count returns the number of recorded runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}
