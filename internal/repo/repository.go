package repo

import (
	"context"
	"errors"

	"github.com/hamed0406/statusforge/internal/domain"
)

// ErrNotFound is returned by every adapter when the addressed row is absent.
var ErrNotFound = errors.New("not found")

const (
	DefaultResultLimit = 50
	MaxResultLimit     = 100
)

// Ports (interfaces). Adapters live in memory/, postgres/ and sqlite/.
type MonitorStore interface {
	CreateMonitor(ctx context.Context, projectID string, m domain.NewMonitor) (*domain.Monitor, error)
	GetMonitor(ctx context.Context, id string) (*domain.Monitor, error)
	ListMonitors(ctx context.Context, projectID string) ([]*domain.Monitor, error)
	UpdateMonitor(ctx context.Context, id string, p domain.MonitorPatch) (*domain.Monitor, error)
	DeleteMonitor(ctx context.Context, id string) error
}

type ResultStore interface {
	CreateResult(ctx context.Context, monitorID string, r domain.NewResult) (*domain.MonitorResult, error)
	ListResults(ctx context.Context, p ListResultsParams) ([]*domain.MonitorResult, error)
}

// Store is what the binaries open: both ports plus lifecycle.
type Store interface {
	MonitorStore
	ResultStore
	Ping(ctx context.Context) error
	Close() error
}

// ListResultsParams filters with AND; empty Region/Status match everything.
type ListResultsParams struct {
	MonitorID string
	Region    domain.Region
	Status    domain.Status
	Limit     int
	Offset    int
}

// ClampLimit maps a requested page size onto (0, MaxResultLimit].
func ClampLimit(requested int) int {
	if requested <= 0 {
		return DefaultResultLimit
	}
	return min(requested, MaxResultLimit)
}

// Normalized returns p with limit clamped and a non-negative offset.
func (p ListResultsParams) Normalized() ListResultsParams {
	p.Limit = ClampLimit(p.Limit)
	p.Offset = max(p.Offset, 0)
	return p
}
