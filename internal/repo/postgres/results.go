package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/repo"
)

// ---- ResultStore ----

const resultColumns = `id, monitor_id, region, status, response_time_ms, http_status,
       ssl_valid, ssl_expires_at, error_message, created_at`

func scanResult(row pgx.Row) (*domain.MonitorResult, error) {
	var r domain.MonitorResult
	var region, status string
	err := row.Scan(&r.ID, &r.MonitorID, &region, &status, &r.ResponseTimeMS, &r.HTTPStatus,
		&r.SSLValid, &r.SSLExpiresAt, &r.ErrorMessage, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Region, r.Status = domain.Region(region), domain.Status(status)
	return &r, nil
}

func (s *Store) CreateResult(ctx context.Context, monitorID string, in domain.NewResult) (*domain.MonitorResult, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO monitor_results
		   (id, monitor_id, region, status, response_time_ms, http_status, ssl_valid, ssl_expires_at, error_message)
		 VALUES
		   ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+resultColumns,
		uuid.NewString(), monitorID, string(in.Region), string(in.Status),
		in.ResponseTimeMS, in.HTTPStatus, in.SSLValid, in.SSLExpiresAt, in.ErrorMessage,
	)
	r, err := scanResult(row)
	if isForeignKeyViolation(err) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert result: %w", err)
	}
	return r, nil
}

func (s *Store) ListResults(ctx context.Context, p repo.ListResultsParams) ([]*domain.MonitorResult, error) {
	p = p.Normalized()
	where := []string{"monitor_id = $1"}
	args := []any{p.MonitorID}
	if p.Region != "" {
		args = append(args, string(p.Region))
		where = append(where, fmt.Sprintf("region = $%d", len(args)))
	}
	if p.Status != "" {
		args = append(args, string(p.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	args = append(args, p.Limit, p.Offset)
	q := fmt.Sprintf(`SELECT %s
	   FROM monitor_results
	  WHERE %s
	  ORDER BY created_at DESC, seq DESC
	  LIMIT $%d OFFSET $%d`, resultColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, q, args...)
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
