package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/apperr"
	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/probe"
	"github.com/hamed0406/statusforge/internal/repo"
	"github.com/hamed0406/statusforge/internal/repo/memory"
)

// --- fakes ---

// echoProber answers up from whatever region it was asked for.
func echoProber(calls *int) probe.Func {
	return func(_ context.Context, req probe.Request) (probe.Observation, error) {
		*calls++
		return probe.Observation{Region: string(req.Region), Status: "up"}, nil
	}
}

// brokenResults fails every write with a store error.
type brokenResults struct{ repo.ResultStore }

func (brokenResults) CreateResult(context.Context, string, domain.NewResult) (*domain.MonitorResult, error) {
	return nil, errors.New("disk full")
}

func newService(t *testing.T, p probe.Prober) (*Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	return New(zap.NewNop(), st, st, p, time.Second), st
}

func intp(n int) *int    { return &n }
func boolp(b bool) *bool { return &b }

func mustCreate(t *testing.T, s *Service, in domain.MonitorInput) *domain.Monitor {
	t.Helper()
	m, err := s.CreateMonitor(context.Background(), "p1", in)
	if err != nil {
		t.Fatalf("CreateMonitor: %v", err)
	}
	return m
}

func homeMonitor() domain.MonitorInput {
	return domain.MonitorInput{Name: "Home", Kind: "http", URL: "https://example.com", IntervalSeconds: intp(120)}
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil, nil, nil, nil, 0)
	if s.ProbeTimeout != DefaultProbeTimeout || s.Logger == nil || s.Prober == nil {
		t.Fatalf("defaults not applied: %+v", s)
	}
}

func TestCreateMonitor_ValidationStopsBeforeStore(t *testing.T) {
	s, st := newService(t, nil)
	_, err := s.CreateMonitor(context.Background(), "p1", domain.MonitorInput{Name: "x", Kind: "keyword", URL: "https://x"})
	if !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("want INVALID_ARGUMENT, got %v", err)
	}
	ms, _ := st.ListMonitors(context.Background(), "p1")
	if len(ms) != 0 {
		t.Fatal("invalid monitor reached the store")
	}
}

func TestGetAndDelete_NotFound(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()
	if _, err := s.GetMonitor(ctx, "nope"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("get: %v", err)
	}
	if err := s.DeleteMonitor(ctx, "nope"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.UpdateMonitor(ctx, "nope", domain.MonitorPatch{Enabled: domain.Some(false)}); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("update: %v", err)
	}
}

func TestUpdateMonitor_EnabledOnly(t *testing.T) {
	s, _ := newService(t, nil)
	m := mustCreate(t, s, homeMonitor())

	up, err := s.UpdateMonitor(context.Background(), m.ID, domain.MonitorPatch{Enabled: domain.Some(false)})
	if err != nil {
		t.Fatalf("UpdateMonitor: %v", err)
	}
	if up.Enabled {
		t.Fatal("enabled should be false")
	}
	if up.Name != m.Name || up.Kind != m.Kind || up.URL != m.URL || up.IntervalSeconds != m.IntervalSeconds {
		t.Fatalf("other fields changed: before=%+v after=%+v", m, up)
	}
}

func TestUpdateMonitor_KeywordInvariantAfterMerge(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()
	m := mustCreate(t, s, homeMonitor())

	// switching to keyword without supplying one
	if _, err := s.UpdateMonitor(ctx, m.ID, domain.MonitorPatch{Kind: domain.Some(domain.KindKeyword)}); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("want INVALID_ARGUMENT, got %v", err)
	}

	kw, err := s.UpdateMonitor(ctx, m.ID, domain.MonitorPatch{Kind: domain.Some(domain.KindKeyword), Keyword: domain.Some("Welcome")})
	if err != nil {
		t.Fatalf("kind+keyword: %v", err)
	}
	if kw.Kind != domain.KindKeyword || kw.Keyword.String != "Welcome" {
		t.Fatalf("got %+v", kw)
	}

	// clearing the keyword of a keyword monitor
	if _, err := s.UpdateMonitor(ctx, m.ID, domain.MonitorPatch{Keyword: domain.Null[string]()}); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("want INVALID_ARGUMENT, got %v", err)
	}

	// clearing is fine once the kind moves away from keyword
	up, err := s.UpdateMonitor(ctx, m.ID, domain.MonitorPatch{Kind: domain.Some(domain.KindHTTPS), Keyword: domain.Null[string]()})
	if err != nil {
		t.Fatalf("kind change + clear: %v", err)
	}
	if up.Keyword.Valid {
		t.Fatal("keyword should be cleared")
	}
}

func TestCreateResult(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()
	m := mustCreate(t, s, homeMonitor())

	if _, err := s.CreateResult(ctx, "missing", domain.ResultInput{Region: "EU", Status: "up"}); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("missing monitor: %v", err)
	}
	if _, err := s.CreateResult(ctx, m.ID, domain.ResultInput{Region: "MOON", Status: "up"}); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("bad region: %v", err)
	}
	r, err := s.CreateResult(ctx, m.ID, domain.ResultInput{Region: "ASIA", Status: "degraded"})
	if err != nil {
		t.Fatalf("CreateResult: %v", err)
	}
	if r.ID == "" || r.CreatedAt.IsZero() || r.MonitorID != m.ID {
		t.Fatalf("server fields: %+v", r)
	}
}

func TestListResults(t *testing.T) {
	s, _ := newService(t, nil)
	ctx := context.Background()
	m := mustCreate(t, s, homeMonitor())
	for range 120 {
		if _, err := s.CreateResult(ctx, m.ID, domain.ResultInput{Region: "EU", Status: "up"}); err != nil {
			t.Fatalf("CreateResult: %v", err)
		}
	}

	rs, err := s.ListResults(ctx, m.ID, ResultQuery{})
	if err != nil || len(rs) != 50 {
		t.Fatalf("default: %v len=%d", err, len(rs))
	}
	rs, _ = s.ListResults(ctx, m.ID, ResultQuery{Limit: 500})
	if len(rs) != 100 {
		t.Fatalf("limit 500: len=%d", len(rs))
	}
	for i := 1; i < len(rs); i++ {
		if rs[i].CreatedAt.After(rs[i-1].CreatedAt) {
			t.Fatalf("not newest-first at %d", i)
		}
	}

	cases := []struct {
		name string
		id   string
		q    ResultQuery
		code apperr.Code
	}{
		{"bad region", m.ID, ResultQuery{Region: "MARS"}, apperr.CodeInvalidArgument},
		{"bad status", m.ID, ResultQuery{Status: "meh"}, apperr.CodeInvalidArgument},
		{"negative limit", m.ID, ResultQuery{Limit: -1}, apperr.CodeInvalidArgument},
		{"negative offset", m.ID, ResultQuery{Offset: -1}, apperr.CodeInvalidArgument},
		{"missing monitor", "missing", ResultQuery{}, apperr.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.ListResults(ctx, tc.id, tc.q); !apperr.Is(err, tc.code) {
				t.Fatalf("want %s, got %v", tc.code, err)
			}
		})
	}
}

func TestStoreFailureIsInternal(t *testing.T) {
	st := memory.New()
	calls := 0
	s := New(zap.NewNop(), st, brokenResults{st}, echoProber(&calls), time.Second)
	m := mustCreate(t, s, homeMonitor())

	_, err := s.RunCheck(context.Background(), m.ID, "EU")
	if !apperr.Is(err, apperr.CodeInternal) {
		t.Fatalf("want INTERNAL, got %v", err)
	}
	if apperr.MessageOf(err) != "store failure" {
		t.Fatalf("store error text leaked: %q", apperr.MessageOf(err))
	}
}
