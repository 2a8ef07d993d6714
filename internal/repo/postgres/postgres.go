package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/repo"
)

var _ repo.Store = (*Store)(nil)

const pgForeignKeyViolation = "23503"

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// New connects and pings. Schema is managed separately by Migrate.
func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// ---- MonitorStore ----

const monitorColumns = `id, project_id, name, kind, url, keyword, interval_seconds, enabled, created_at, updated_at`

func scanMonitor(row pgx.Row) (*domain.Monitor, error) {
	var m domain.Monitor
	var kind string
	err := row.Scan(&m.ID, &m.ProjectID, &m.Name, &kind, &m.URL, &m.Keyword,
		&m.IntervalSeconds, &m.Enabled, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Kind = domain.Kind(kind)
	return &m, nil
}

func (s *Store) CreateMonitor(ctx context.Context, projectID string, in domain.NewMonitor) (*domain.Monitor, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO monitors (id, project_id, name, kind, url, keyword, interval_seconds, enabled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+monitorColumns,
		uuid.NewString(), projectID, in.Name, string(in.Kind), in.URL, in.Keyword,
		in.IntervalSeconds, in.Enabled,
	)
	m, err := scanMonitor(row)
	if err != nil {
		return nil, fmt.Errorf("insert monitor: %w", err)
	}
	return m, nil
}

func (s *Store) GetMonitor(ctx context.Context, id string) (*domain.Monitor, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+monitorColumns+` FROM monitors WHERE id = $1`, id)
	m, err := scanMonitor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get monitor: %w", err)
	}
	return m, nil
}

func (s *Store) ListMonitors(ctx context.Context, projectID string) ([]*domain.Monitor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+monitorColumns+`
		   FROM monitors
		  WHERE project_id = $1
		  ORDER BY created_at, id`, projectID)
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

// UpdateMonitor writes only the fields present in the patch.
func (s *Store) UpdateMonitor(ctx context.Context, id string, p domain.MonitorPatch) (*domain.Monitor, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
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
		if p.Keyword.Null {
			add("keyword", nil)
		} else {
			add("keyword", p.Keyword.Value)
		}
	}
	if p.IntervalSeconds.Present() {
		add("interval_seconds", p.IntervalSeconds.Value)
	}
	if p.Enabled.Present() {
		add("enabled", p.Enabled.Value)
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE monitors SET `+strings.Join(sets, ", ")+`
		  WHERE id = $1
		 RETURNING `+monitorColumns, args...)
	m, err := scanMonitor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update monitor: %w", err)
	}
	return m, nil
}

func (s *Store) DeleteMonitor(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM monitors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete monitor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
