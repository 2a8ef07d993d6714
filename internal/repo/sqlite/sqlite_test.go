package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/repo"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "data", "statusforge.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createMonitor(t *testing.T, s *Store, project string) *domain.Monitor {
	t.Helper()
	m, err := s.CreateMonitor(context.Background(), project, domain.NewMonitor{
		Name: "Home", Kind: domain.KindKeyword, URL: "https://example.com",
		Keyword: null.StringFrom("Welcome"), IntervalSeconds: 120, Enabled: true,
	})
	if err != nil {
		t.Fatalf("CreateMonitor: %v", err)
	}
	return m
}

func TestSQLiteStore_MonitorCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	m := createMonitor(t, s, "p1")
	createMonitor(t, s, "p2")

	got, err := s.GetMonitor(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMonitor: %v", err)
	}
	if got.Name != "Home" || got.Kind != domain.KindKeyword || got.Keyword.String != "Welcome" || !got.Enabled || got.IntervalSeconds != 120 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(m.CreatedAt) {
		t.Fatalf("created_at %v != %v", got.CreatedAt, m.CreatedAt)
	}

	list, err := s.ListMonitors(ctx, "p1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListMonitors: %v len=%d", err, len(list))
	}
	empty, _ := s.ListMonitors(ctx, "nobody")
	if empty == nil || len(empty) != 0 {
		t.Fatalf("want empty non-nil slice, got %v", empty)
	}

	up, err := s.UpdateMonitor(ctx, m.ID, domain.MonitorPatch{Enabled: domain.Some(false)})
	if err != nil {
		t.Fatalf("UpdateMonitor: %v", err)
	}
	if up.Enabled || up.Name != "Home" || up.URL != "https://example.com" || up.IntervalSeconds != 120 || up.Keyword.String != "Welcome" {
		t.Fatalf("partial update touched other fields: %+v", up)
	}

	up, err = s.UpdateMonitor(ctx, m.ID, domain.MonitorPatch{Kind: domain.Some(domain.KindHTTP), Keyword: domain.Null[string]()})
	if err != nil {
		t.Fatalf("UpdateMonitor clear: %v", err)
	}
	if up.Kind != domain.KindHTTP || up.Keyword.Valid {
		t.Fatalf("keyword not cleared: %+v", up)
	}

	if _, err := s.UpdateMonitor(ctx, "missing", domain.MonitorPatch{Name: domain.Some("x")}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
	if err := s.DeleteMonitor(ctx, m.ID); err != nil {
		t.Fatalf("DeleteMonitor: %v", err)
	}
	if _, err := s.GetMonitor(ctx, m.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := s.DeleteMonitor(ctx, m.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSQLiteStore_Results(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	m := createMonitor(t, s, "p1")

	base := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick/3) * time.Millisecond)
	}

	expires := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	statuses := []domain.Status{domain.StatusUp, domain.StatusDown, domain.StatusDegraded}
	var ids []string
	for i := range 130 {
		r, err := s.CreateResult(ctx, m.ID, domain.NewResult{
			Region:         domain.RegionASIA,
			Status:         statuses[i%3],
			ResponseTimeMS: null.IntFrom(int64(i)),
			HTTPStatus:     null.IntFrom(200),
			SSLValid:       null.BoolFrom(i%2 == 0),
			SSLExpiresAt:   null.TimeFrom(expires),
		})
		if err != nil {
			t.Fatalf("CreateResult: %v", err)
		}
		ids = append(ids, r.ID)
	}

	page, err := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID})
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(page) != 50 || page[0].ID != ids[129] || page[1].ID != ids[128] {
		t.Fatalf("default page wrong: len=%d", len(page))
	}
	first := page[0]
	if first.ResponseTimeMS.Int64 != 129 || first.HTTPStatus.Int64 != 200 || !first.SSLExpiresAt.Time.Equal(expires) || first.ErrorMessage.Valid {
		t.Fatalf("optional fields mismatch: %+v", first)
	}

	big, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID, Limit: 500})
	if len(big) != 100 {
		t.Fatalf("limit clamp: %d", len(big))
	}
	down, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID, Status: domain.StatusDown, Region: domain.RegionASIA, Limit: 100})
	if len(down) != 43 {
		t.Fatalf("status filter: %d", len(down))
	}
	eu, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID, Region: domain.RegionEU})
	if len(eu) != 0 {
		t.Fatalf("region filter: %d", len(eu))
	}
	tail, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID, Offset: 120})
	if len(tail) != 10 || tail[9].ID != ids[0] {
		t.Fatalf("offset page: %d", len(tail))
	}

	if _, err := s.CreateResult(ctx, "missing", domain.NewResult{Region: domain.RegionEU, Status: domain.StatusUp}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("orphan result: %v", err)
	}

	if err := s.DeleteMonitor(ctx, m.ID); err != nil {
		t.Fatalf("DeleteMonitor: %v", err)
	}
	left, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID})
	if len(left) != 0 {
		t.Fatalf("cascade failed: %d", len(left))
	}
}
