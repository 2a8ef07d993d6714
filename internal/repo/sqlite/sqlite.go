// Package sqlite is the single-file adapter. Timestamps are stored as unix
// nanoseconds so ordering is numeric.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/repo"
)

var _ repo.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS monitors (
  id               TEXT PRIMARY KEY,
  project_id       TEXT NOT NULL,
  name             TEXT NOT NULL,
  kind             TEXT NOT NULL,
  url              TEXT NOT NULL,
  keyword          TEXT NULL,
  interval_seconds INTEGER NOT NULL,
  enabled          INTEGER NOT NULL DEFAULT 1,
  created_at       INTEGER NOT NULL,
  updated_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_monitors_project ON monitors (project_id, created_at);

CREATE TABLE IF NOT EXISTS monitor_results (
  seq              INTEGER PRIMARY KEY AUTOINCREMENT,
  id               TEXT NOT NULL UNIQUE,
  monitor_id       TEXT NOT NULL REFERENCES monitors(id) ON DELETE CASCADE,
  region           TEXT NOT NULL,
  status           TEXT NOT NULL,
  response_time_ms INTEGER NULL,
  http_status      INTEGER NULL,
  ssl_valid        INTEGER NULL,
  ssl_expires_at   INTEGER NULL,
  error_message    TEXT NULL,
  created_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_monitor_time ON monitor_results (monitor_id, created_at DESC, seq DESC);
`

type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// New opens (creating if needed) the database file at path and applies the
// schema.
func New(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func toNanos(t time.Time) int64 { return t.UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

type scanner interface {
	Scan(dest ...any) error
}

// ---- MonitorStore ----

const monitorColumns = `id, project_id, name, kind, url, keyword, interval_seconds, enabled, created_at, updated_at`

func scanMonitor(row scanner) (*domain.Monitor, error) {
	var (
		m                  domain.Monitor
		kind               string
		createdAt, updated int64
	)
	err := row.Scan(&m.ID, &m.ProjectID, &m.Name, &kind, &m.URL, &m.Keyword,
		&m.IntervalSeconds, &m.Enabled, &createdAt, &updated)
	if err != nil {
		return nil, err
	}
	m.Kind = domain.Kind(kind)
	m.CreatedAt, m.UpdatedAt = fromNanos(createdAt), fromNanos(updated)
	return &m, nil
}

func (s *Store) CreateMonitor(ctx context.Context, projectID string, in domain.NewMonitor) (*domain.Monitor, error) {
	now := s.now()
	m := &domain.Monitor{
		ID:              uuid.NewString(),
		ProjectID:       projectID,
		Name:            in.Name,
		Kind:            in.Kind,
		URL:             in.URL,
		Keyword:         in.Keyword,
		IntervalSeconds: in.IntervalSeconds,
		Enabled:         in.Enabled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monitors (`+monitorColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProjectID, m.Name, string(m.Kind), m.URL, m.Keyword,
		m.IntervalSeconds, m.Enabled, toNanos(now), toNanos(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert monitor: %w", err)
	}
	return m, nil
}

func (s *Store) GetMonitor(ctx context.Context, id string) (*domain.Monitor, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+monitorColumns+` FROM monitors WHERE id = ?`, id)
	m, err := scanMonitor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get monitor: %w", err)
	}
	return m, nil
}

func (s *Store) ListMonitors(ctx context.Context, projectID string) ([]*domain.Monitor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+monitorColumns+` FROM monitors WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Monitor, 0)
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monitor: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) UpdateMonitor(ctx context.Context, id string, p domain.MonitorPatch) (*domain.Monitor, error) {
	sets := []string{"updated_at = ?"}
	args := []any{toNanos(s.now())}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Name.Present() {
		add("name", p.Name.Value)
	}
	if p.Kind.Present() {
		add("kind", string(p.Kind.Value))
	}
	if p.URL.Present() {
		add("url", p.URL.Value)
	}
	if p.Keyword.Set {
		add("keyword", null.NewString(p.Keyword.Value, !p.Keyword.Null))
	}
	if p.IntervalSeconds.Present() {
		add("interval_seconds", p.IntervalSeconds.Value)
	}
	if p.Enabled.Present() {
		add("enabled", p.Enabled.Value)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE monitors SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update monitor: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repo.ErrNotFound
	}
	return s.GetMonitor(ctx, id)
}

func (s *Store) DeleteMonitor(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM monitors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete monitor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete monitor: %w", err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}
