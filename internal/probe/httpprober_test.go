package probe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guregu/null/v5"

	"github.com/hamed0406/statusforge/internal/domain"
)

func testRequest() Request {
	return NewRequest(&domain.Monitor{
		ID: "m1", ProjectID: "p1", Name: "Home", Kind: domain.KindKeyword,
		URL: "https://example.com", Keyword: null.StringFrom("Welcome"),
	}, domain.RegionUS)
}

func TestHTTPProber_Success(t *testing.T) {
	var got Request
	var auth, ua string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s", r.Method)
		}
		auth, ua = r.Header.Get("Authorization"), r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"region":"US","status":"up","response_time_ms":42,"http_status":200,"ssl_valid":true,"ssl_expires_at":"2026-01-02T03:04:05Z"}`))
	}))
	defer s.Close()

	p := NewHTTPProber(s.URL, "secret", 2*time.Second)
	obs, err := p.Probe(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if obs.Region != "US" || obs.Status != "up" || obs.ResponseTimeMS.Int64 != 42 || obs.HTTPStatus.Int64 != 200 || !obs.SSLValid.Bool {
		t.Fatalf("unexpected observation: %+v", obs)
	}
	if !obs.SSLExpiresAt.Time.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) || obs.ErrorMessage.Valid {
		t.Fatalf("optional fields: %+v", obs)
	}
	if auth != "Bearer secret" || ua != userAgent {
		t.Fatalf("headers auth=%q ua=%q", auth, ua)
	}
	if got.MonitorID != "m1" || got.ProjectID != "p1" || got.Region != domain.RegionUS || got.Keyword.String != "Welcome" || got.Kind != domain.KindKeyword {
		t.Fatalf("request not forwarded: %+v", got)
	}
}

func TestHTTPProber_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status 500", func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusInternalServerError) }},
		{"not json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<html>")) }},
		{"region wrong type", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"region":7,"status":"up"}`)) }},
		{"response time wrong type", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"region":"EU","status":"up","response_time_ms":"fast"}`))
		}},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"region":"EU","status":"up"}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := httptest.NewServer(tc.handler)
			defer s.Close()
			p := NewHTTPProber(s.URL, "", 50*time.Millisecond)
			_, err := p.Probe(context.Background(), testRequest())
			if !errors.Is(err, ErrUpstream) {
				t.Fatalf("want ErrUpstream, got %v", err)
			}
		})
	}
}

func TestHTTPProber_NoTokenNoAuthHeader(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected Authorization %q", h)
		}
		w.Write([]byte(`{"region":"EU","status":"down","error_message":"connection refused"}`))
	}))
	defer s.Close()

	obs, err := NewHTTPProber(s.URL, "", time.Second).Probe(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if obs.Status != "down" || obs.ErrorMessage.String != "connection refused" || obs.ResponseTimeMS.Valid {
		t.Fatalf("unexpected observation: %+v", obs)
	}
}

func TestUnconfigured(t *testing.T) {
	if _, err := Unconfigured.Probe(context.Background(), testRequest()); !errors.Is(err, ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
}
