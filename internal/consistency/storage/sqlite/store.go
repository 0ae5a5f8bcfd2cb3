// Package sqlite persists shipped operation batches in a SQLite-backed
// journal, keyed by cycle and source domain.
//
// The journal is an audit and restart aid for the transport collaborator:
// the in-memory operation log is cleared every cycle, so the journal is the
// only durable record of which mutations were shipped where. Listing a
// batch returns entries in their original append order, which is the order
// replay requires.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/dislocation.network/internal/consistency/oplog"
	"github.com/louisbranch/dislocation.network/internal/consistency/storage/sqlite/migrations"
	"github.com/louisbranch/dislocation.network/internal/platform/storage/sqlitemigrate"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed op-journal.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the journal at the provided path and
// applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.JournalFS, "journal"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database. Nil-safe so callers can
// defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendBatch atomically records one cycle's batch from a source domain,
// assigning sequence numbers in entry order. Appending an empty batch is a
// no-op.
func (s *Store) AppendBatch(ctx context.Context, cycle, source int, entries []oplog.Entry) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(entries) == 0 {
		return nil
	}

	tracer := otel.Tracer("dislocation.network/journal")
	ctx, span := tracer.Start(ctx, "journal.AppendBatch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("journal.cycle", cycle),
		attribute.Int("journal.source_domain", source),
		attribute.Int("journal.entries", len(entries)),
	)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO op_journal (
    cycle, source_domain, seq, kind,
    dom1, idx1, dom2, idx2, dom3, idx3,
    bx, by, bz, x, y, z, nx, ny, nz, appended_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixMilli()
	for seq, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			cycle, source, seq, int(e.Kind),
			e.Tag1.Domain, e.Tag1.Index,
			e.Tag2.Domain, e.Tag2.Index,
			e.Tag3.Domain, e.Tag3.Index,
			e.Burg[0], e.Burg[1], e.Burg[2],
			e.Pos[0], e.Pos[1], e.Pos[2],
			e.Plane[0], e.Plane[1], e.Plane[2],
			now,
		); err != nil {
			return fmt.Errorf("insert op %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListBatch returns the entries recorded for (cycle, source) in sequence
// order. A missing batch yields an empty slice, not an error.
func (s *Store) ListBatch(ctx context.Context, cycle, source int) ([]oplog.Entry, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT kind, dom1, idx1, dom2, idx2, dom3, idx3,
       bx, by, bz, x, y, z, nx, ny, nz
FROM op_journal
WHERE cycle = ? AND source_domain = ?
ORDER BY seq`, cycle, source)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	var entries []oplog.Entry
	for rows.Next() {
		var e oplog.Entry
		var kind int
		if err := rows.Scan(&kind,
			&e.Tag1.Domain, &e.Tag1.Index,
			&e.Tag2.Domain, &e.Tag2.Index,
			&e.Tag3.Domain, &e.Tag3.Index,
			&e.Burg[0], &e.Burg[1], &e.Burg[2],
			&e.Pos[0], &e.Pos[1], &e.Pos[2],
			&e.Plane[0], &e.Plane[1], &e.Plane[2],
		); err != nil {
			return nil, fmt.Errorf("scan op: %w", err)
		}
		e.Kind = oplog.Kind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch: %w", err)
	}
	return entries, nil
}

// Sources returns the distinct source domains recorded for a cycle, in
// ascending order.
func (s *Store) Sources(ctx context.Context, cycle int) ([]int, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT DISTINCT source_domain FROM op_journal WHERE cycle = ? ORDER BY source_domain`, cycle)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []int
	for rows.Next() {
		var src int
		if err := rows.Scan(&src); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return sources, nil
}

// Prune drops journal rows older than beforeCycle, bounding journal growth
// across long runs.
func (s *Store) Prune(ctx context.Context, beforeCycle int) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM op_journal WHERE cycle < ?`, beforeCycle); err != nil {
		return fmt.Errorf("prune journal: %w", err)
	}
	return nil
}

