package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/repo"
)

type storedResult struct {
	seq uint64
	r   domain.MonitorResult
}

// Store keeps everything in process. Values are copied in and out so callers
// never share memory with the store.
type Store struct {
	mu       sync.RWMutex
	monitors map[string]*domain.Monitor
	results  []storedResult
	seq      uint64
	now      func() time.Time
}

func New() *Store {
	return &Store{
		monitors: make(map[string]*domain.Monitor),
		results:  make([]storedResult, 0, 128),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *Store) Ping(context.Context) error { return nil }

func (m *Store) Close() error { return nil }

func (m *Store) CreateMonitor(_ context.Context, projectID string, in domain.NewMonitor) (*domain.Monitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	mon := &domain.Monitor{
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
	m.monitors[mon.ID] = mon
	cp := *mon
	return &cp, nil
}

func (m *Store) GetMonitor(_ context.Context, id string) (*domain.Monitor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mon, ok := m.monitors[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *mon
	return &cp, nil
}

func (m *Store) ListMonitors(_ context.Context, projectID string) ([]*domain.Monitor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Monitor, 0)
	for _, mon := range m.monitors {
		if mon.ProjectID != projectID {
			continue
		}
		cp := *mon
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.Monitor) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (m *Store) UpdateMonitor(_ context.Context, id string, p domain.MonitorPatch) (*domain.Monitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mon, ok := m.monitors[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	p.Apply(mon)
	mon.UpdatedAt = m.now()
	cp := *mon
	return &cp, nil
}

// DeleteMonitor also purges the monitor's results.
func (m *Store) DeleteMonitor(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.monitors[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.monitors, id)
	m.results = slices.DeleteFunc(m.results, func(sr storedResult) bool {
		return sr.r.MonitorID == id
	})
	return nil
}

func (m *Store) CreateResult(_ context.Context, monitorID string, in domain.NewResult) (*domain.MonitorResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.monitors[monitorID]; !ok {
		return nil, repo.ErrNotFound
	}
	m.seq++
	r := domain.MonitorResult{
		ID:             uuid.NewString(),
		MonitorID:      monitorID,
		Region:         in.Region,
		Status:         in.Status,
		ResponseTimeMS: in.ResponseTimeMS,
		HTTPStatus:     in.HTTPStatus,
		SSLValid:       in.SSLValid,
		SSLExpiresAt:   in.SSLExpiresAt,
		ErrorMessage:   in.ErrorMessage,
		CreatedAt:      m.now(),
	}
	m.results = append(m.results, storedResult{seq: m.seq, r: r})
	return &r, nil
}

func (m *Store) ListResults(_ context.Context, p repo.ListResultsParams) ([]*domain.MonitorResult, error) {
	p = p.Normalized()
	m.mu.RLock()
	matched := make([]storedResult, 0)
	for _, sr := range m.results {
		if sr.r.MonitorID != p.MonitorID {
			continue
		}
		if p.Region != "" && sr.r.Region != p.Region {
			continue
		}
		if p.Status != "" && sr.r.Status != p.Status {
			continue
		}
		matched = append(matched, sr)
	}
	m.mu.RUnlock()

	// newest first, later insert wins a timestamp tie
	slices.SortFunc(matched, func(a, b storedResult) int {
		return cmp.Or(b.r.CreatedAt.Compare(a.r.CreatedAt), cmp.Compare(b.seq, a.seq))
	})

	if p.Offset >= len(matched) {
		return []*domain.MonitorResult{}, nil
	}
	matched = matched[p.Offset:]
	if len(matched) > p.Limit {
		matched = matched[:p.Limit]
	}
	out := make([]*domain.MonitorResult, len(matched))
	for i := range matched {
		r := matched[i].r
		out[i] = &r
	}
	return out, nil
}
