package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/repo"
)

// ---- ResultStore ----

const resultColumns = `id, monitor_id, region, status, response_time_ms, http_status,
       ssl_valid, ssl_expires_at, error_message, created_at`

func scanResult(row scanner) (*domain.MonitorResult, error) {
	var (
		r              domain.MonitorResult
		region, status string
		expires        sql.NullInt64
		createdAt      int64
	)
	err := row.Scan(&r.ID, &r.MonitorID, &region, &status, &r.ResponseTimeMS, &r.HTTPStatus,
		&r.SSLValid, &expires, &r.ErrorMessage, &createdAt)
	if err != nil {
		return nil, err
	}
	r.Region, r.Status = domain.Region(region), domain.Status(status)
	if expires.Valid {
		r.SSLExpiresAt = null.TimeFrom(fromNanos(expires.Int64))
	}
	r.CreatedAt = fromNanos(createdAt)
	return &r, nil
}

func (s *Store) CreateResult(ctx context.Context, monitorID string, in domain.NewResult) (*domain.MonitorResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM monitors WHERE id = ?`, monitorID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup monitor: %w", err)
	}

	r := &domain.MonitorResult{
		ID:             uuid.NewString(),
		MonitorID:      monitorID,
		Region:         in.Region,
		Status:         in.Status,
		ResponseTimeMS: in.ResponseTimeMS,
		HTTPStatus:     in.HTTPStatus,
		SSLValid:       in.SSLValid,
		SSLExpiresAt:   in.SSLExpiresAt,
		ErrorMessage:   in.ErrorMessage,
		CreatedAt:      s.now(),
	}
	var expires sql.NullInt64
	if in.SSLExpiresAt.Valid {
		expires = sql.NullInt64{Int64: toNanos(in.SSLExpiresAt.Time), Valid: true}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO monitor_results
		   (id, monitor_id, region, status, response_time_ms, http_status, ssl_valid, ssl_expires_at, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.MonitorID, string(r.Region), string(r.Status), r.ResponseTimeMS, r.HTTPStatus,
		r.SSLValid, expires, r.ErrorMessage, toNanos(r.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert result: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return r, nil
}

func (s *Store) ListResults(ctx context.Context, p repo.ListResultsParams) ([]*domain.MonitorResult, error) {
	p = p.Normalized()
	where := []string{"monitor_id = ?"}
	args := []any{p.MonitorID}
	if p.Region != "" {
		where = append(where, "region = ?")
		args = append(args, string(p.Region))
	}
	if p.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(p.Status))
	}
	args = append(args, p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+`
		   FROM monitor_results
		  WHERE `+strings.Join(where, " AND ")+`
		  ORDER BY created_at DESC, seq DESC
		  LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.MonitorResult, 0, p.Limit)
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
