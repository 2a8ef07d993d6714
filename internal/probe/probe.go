// Package probe talks to the external prober that performs the actual
// network checks. Nothing here opens connections to monitored targets.
package probe

import (
	"context"
	"errors"

	"github.com/guregu/null/v5"

	"github.com/hamed0406/statusforge/internal/domain"
)

// ErrUpstream wraps every failure to obtain an observation from the prober.
var ErrUpstream = errors.New("prober unavailable")

// Request is what the prober receives for one monitor and region.
type Request struct {
	MonitorID string        `json:"monitor_id"`
	ProjectID string        `json:"project_id"`
	Name      string        `json:"name"`
	Kind      domain.Kind   `json:"kind"`
	URL       string        `json:"url"`
	Keyword   null.String   `json:"keyword"`
	Region    domain.Region `json:"region"`
}

// Observation is the prober's answer. Region and Status are kept as raw
// strings; the caller validates them.
type Observation struct {
	Region         string      `json:"region"`
	Status         string      `json:"status"`
	ResponseTimeMS null.Int    `json:"response_time_ms"`
	HTTPStatus     null.Int    `json:"http_status"`
	SSLValid       null.Bool   `json:"ssl_valid"`
	SSLExpiresAt   null.Time   `json:"ssl_expires_at"`
	ErrorMessage   null.String `json:"error_message"`
}

type Prober interface {
	Probe(ctx context.Context, req Request) (Observation, error)
}

// Func adapts a plain function to Prober.
type Func func(ctx context.Context, req Request) (Observation, error)

func (f Func) Probe(ctx context.Context, req Request) (Observation, error) { return f(ctx, req) }

// NewRequest builds the probe request for m in region.
func NewRequest(m *domain.Monitor, region domain.Region) Request {
	return Request{
		MonitorID: m.ID,
		ProjectID: m.ProjectID,
		Name:      m.Name,
		Kind:      m.Kind,
		URL:       m.URL,
		Keyword:   m.Keyword,
		Region:    region,
	}
}

// Unconfigured is used when no prober URL is set; every probe fails.
var Unconfigured = Func(func(context.Context, Request) (Observation, error) {
	return Observation{}, errors.Join(ErrUpstream, errors.New("no prober configured"))
})
