// Command mockprober answers probe requests with canned observations so the
// API can be exercised without touching real targets. The outcome is picked
// from the monitored URL's last path segment: /down, /degraded, /slow, /flap
// and /broken; anything else is up.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/guregu/null/v5"
	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/probe"
)

type mock struct {
	log   *zap.Logger
	flaps atomic.Uint64
	now   func() time.Time
	sleep func(time.Duration)
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	addr := os.Getenv("MOCK_PROBER_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	m := &mock{log: logger, now: time.Now, sleep: time.Sleep}

	logger.Info("mockprober_listen", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, m.handler()); err != nil {
		logger.Fatal("mockprober_error", zap.Error(err))
	}
}

func (m *mock) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /probe", m.handleProbe)
	mux.HandleFunc("POST /", m.handleProbe)
	return mux
}

func (m *mock) handleProbe(w http.ResponseWriter, r *http.Request) {
	var req probe.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.HasSuffix(req.URL, "/broken") {
		// a prober fault, not a target fault
		http.Error(w, "prober exploded", http.StatusInternalServerError)
		return
	}
	obs := m.observe(req)
	m.log.Info("probe",
		zap.String("monitor_id", req.MonitorID),
		zap.String("region", string(req.Region)),
		zap.String("url", req.URL),
		zap.String("status", obs.Status),
	)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(obs)
}

// observe builds the canned answer for req.
func (m *mock) observe(req probe.Request) probe.Observation {
	region := req.Region
	if region == "" {
		region = domain.DefaultRegion
	}
	obs := probe.Observation{
		Region:         string(region),
		Status:         string(domain.StatusUp),
		ResponseTimeMS: null.IntFrom(42),
		HTTPStatus:     null.IntFrom(http.StatusOK),
	}

	path := req.URL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	switch {
	case strings.HasSuffix(path, "/down"):
		obs.Status = string(domain.StatusDown)
		obs.ResponseTimeMS = null.IntFrom(12)
		obs.HTTPStatus = null.IntFrom(http.StatusServiceUnavailable)
		obs.ErrorMessage = null.StringFrom("HTTP 503")
	case strings.HasSuffix(path, "/degraded"):
		obs.Status = string(domain.StatusDegraded)
		obs.ResponseTimeMS = null.IntFrom(2400)
		obs.ErrorMessage = null.StringFrom("slow response")
	case strings.HasSuffix(path, "/slow"):
		m.sleep(5 * time.Second)
		obs.ResponseTimeMS = null.IntFrom(5000)
	case strings.HasSuffix(path, "/flap"):
		if m.flaps.Add(1)%2 == 1 {
			obs.Status = string(domain.StatusDown)
			obs.HTTPStatus = null.IntFrom(http.StatusServiceUnavailable)
			obs.ErrorMessage = null.StringFrom("HTTP 503")
		}
	}

	switch req.Kind {
	case domain.KindHTTPS, domain.KindSSL:
		obs.SSLValid = null.BoolFrom(true)
		obs.SSLExpiresAt = null.TimeFrom(m.now().UTC().Add(90 * 24 * time.Hour).Truncate(time.Second))
	case domain.KindKeyword:
		if obs.Status == string(domain.StatusUp) && strings.Contains(req.Keyword.String, "missing") {
			obs.Status = string(domain.StatusDown)
			obs.ErrorMessage = null.StringFrom("keyword not found")
		}
	}
	if req.Kind == domain.KindSSL {
		obs.HTTPStatus = null.Int{}
	}
	return obs
}
