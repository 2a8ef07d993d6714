package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null/v5"

	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/repo"
)

func newMonitor() domain.NewMonitor {
	return domain.NewMonitor{Name: "Home", Kind: domain.KindHTTP, URL: "https://example.com", IntervalSeconds: 120, Enabled: true}
}

func TestMemoryStore_MonitorLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	m, err := s.CreateMonitor(ctx, "p1", newMonitor())
	if err != nil {
		t.Fatalf("CreateMonitor: %v", err)
	}
	if m.ID == "" || m.CreatedAt.IsZero() || !m.CreatedAt.Equal(m.UpdatedAt) {
		t.Fatalf("server fields not assigned: %+v", m)
	}
	if _, err := s.CreateMonitor(ctx, "p2", newMonitor()); err != nil {
		t.Fatalf("CreateMonitor p2: %v", err)
	}

	list, err := s.ListMonitors(ctx, "p1")
	if err != nil || len(list) != 1 || list[0].ID != m.ID {
		t.Fatalf("ListMonitors p1: %v %+v", err, list)
	}

	got, err := s.GetMonitor(ctx, m.ID)
	if err != nil || got.Name != "Home" {
		t.Fatalf("GetMonitor: %v %+v", err, got)
	}
	got.Name = "mutated"
	again, _ := s.GetMonitor(ctx, m.ID)
	if again.Name != "Home" {
		t.Fatal("store leaked internal pointer")
	}

	up, err := s.UpdateMonitor(ctx, m.ID, domain.MonitorPatch{Enabled: domain.Some(false)})
	if err != nil {
		t.Fatalf("UpdateMonitor: %v", err)
	}
	if up.Enabled || up.Name != "Home" || up.Kind != domain.KindHTTP || up.URL != "https://example.com" || up.IntervalSeconds != 120 {
		t.Fatalf("partial update touched other fields: %+v", up)
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
	if _, err := s.UpdateMonitor(ctx, m.ID, domain.MonitorPatch{}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
}

func TestMemoryStore_KeywordClear(t *testing.T) {
	ctx := context.Background()
	s := New()
	in := newMonitor()
	in.Keyword = null.StringFrom("welcome")
	m, _ := s.CreateMonitor(ctx, "p1", in)

	up, err := s.UpdateMonitor(ctx, m.ID, domain.MonitorPatch{Keyword: domain.Null[string]()})
	if err != nil {
		t.Fatalf("UpdateMonitor: %v", err)
	}
	if up.Keyword.Valid {
		t.Fatal("keyword should be cleared")
	}
}

func TestMemoryStore_ResultsOrderFilterPaging(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		// pairs of inserts share a timestamp so the sequence tiebreak is exercised
		return base.Add(time.Duration(tick/2) * time.Second)
	}

	m, _ := s.CreateMonitor(ctx, "p1", newMonitor())
	regions := []domain.Region{domain.RegionEU, domain.RegionUS, domain.RegionASIA}
	var ids []string
	for i := range 150 {
		r, err := s.CreateResult(ctx, m.ID, domain.NewResult{Region: regions[i%3], Status: domain.StatusUp})
		if err != nil {
			t.Fatalf("CreateResult: %v", err)
		}
		ids = append(ids, r.ID)
	}

	all, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID})
	if len(all) != repo.DefaultResultLimit {
		t.Fatalf("default page=%d", len(all))
	}
	if all[0].ID != ids[len(ids)-1] || all[1].ID != ids[len(ids)-2] {
		t.Fatal("expected newest insert first")
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("not newest-first at %d", i)
		}
	}

	big, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID, Limit: 500})
	if len(big) != repo.MaxResultLimit {
		t.Fatalf("limit 500 returned %d", len(big))
	}

	us, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID, Region: domain.RegionUS, Limit: 100})
	if len(us) != 50 {
		t.Fatalf("US results=%d", len(us))
	}
	for _, r := range us {
		if r.Region != domain.RegionUS {
			t.Fatalf("filter leaked %s", r.Region)
		}
	}
	none, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID, Region: domain.RegionUS, Status: domain.StatusDown})
	if len(none) != 0 {
		t.Fatalf("AND filter returned %d", len(none))
	}

	tail, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID, Limit: 100, Offset: 140})
	if len(tail) != 10 || tail[9].ID != ids[0] {
		t.Fatalf("offset page wrong: %d", len(tail))
	}
	past, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID, Offset: 1000})
	if len(past) != 0 {
		t.Fatalf("deep offset=%d", len(past))
	}
}

func TestMemoryStore_ResultsNeedMonitor(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.CreateResult(ctx, "missing", domain.NewResult{Region: domain.RegionEU, Status: domain.StatusUp}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	m, _ := s.CreateMonitor(ctx, "p1", newMonitor())
	if _, err := s.CreateResult(ctx, m.ID, domain.NewResult{Region: domain.RegionEU, Status: domain.StatusDown}); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}
	if err := s.DeleteMonitor(ctx, m.ID); err != nil {
		t.Fatalf("DeleteMonitor: %v", err)
	}
	left, _ := s.ListResults(ctx, repo.ListResultsParams{MonitorID: m.ID})
	if len(left) != 0 {
		t.Fatalf("results survived monitor delete: %d", len(left))
	}
}
