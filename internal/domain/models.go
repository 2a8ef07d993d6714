package domain

import (
	"time"

	"github.com/guregu/null/v5"
)

type Kind string

const (
	KindHTTP    Kind = "http"
	KindHTTPS   Kind = "https"
	KindSSL     Kind = "ssl"
	KindKeyword Kind = "keyword"
)

type Region string

const (
	RegionEU   Region = "EU"
	RegionUS   Region = "US"
	RegionASIA Region = "ASIA"
)

// DefaultRegion is used when a check is requested without a region.
const DefaultRegion = RegionEU

type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

const (
	DefaultIntervalSeconds = 300
	MinIntervalSeconds     = 60
)

type Monitor struct {
	ID              string      `json:"id"`
	ProjectID       string      `json:"project_id"`
	Name            string      `json:"name"`
	Kind            Kind        `json:"kind"`
	URL             string      `json:"url"`
	Keyword         null.String `json:"keyword"`
	IntervalSeconds int         `json:"interval_seconds"`
	Enabled         bool        `json:"enabled"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// MonitorResult is one immutable observation of a monitor from a region.
type MonitorResult struct {
	ID             string      `json:"id"`
	MonitorID      string      `json:"monitor_id"`
	Region         Region      `json:"region"`
	Status         Status      `json:"status"`
	ResponseTimeMS null.Int    `json:"response_time_ms"`
	HTTPStatus     null.Int    `json:"http_status"`
	SSLValid       null.Bool   `json:"ssl_valid"`
	SSLExpiresAt   null.Time   `json:"ssl_expires_at"`
	ErrorMessage   null.String `json:"error_message"`
	CreatedAt      time.Time   `json:"created_at"`
}

// MonitorInput is the raw create payload. Pointers mark optional fields.
type MonitorInput struct {
	Name            string  `json:"name"`
	Kind            string  `json:"kind"`
	URL             string  `json:"url"`
	Keyword         *string `json:"keyword"`
	IntervalSeconds *int    `json:"interval_seconds"`
	Enabled         *bool   `json:"enabled"`
}

// NewMonitor is a validated create payload with defaults applied.
type NewMonitor struct {
	Name            string
	Kind            Kind
	URL             string
	Keyword         null.String
	IntervalSeconds int
	Enabled         bool
}

// MonitorPatch is a sparse update. Only Keyword honours an explicit null;
// null on any other field leaves it unchanged.
type MonitorPatch struct {
	Name            Optional[string] `json:"name"`
	Kind            Optional[Kind]   `json:"kind"`
	URL             Optional[string] `json:"url"`
	Keyword         Optional[string] `json:"keyword"`
	IntervalSeconds Optional[int]    `json:"interval_seconds"`
	Enabled         Optional[bool]   `json:"enabled"`
}

// Empty reports whether the patch changes nothing.
func (p MonitorPatch) Empty() bool {
	return !p.Name.Present() && !p.Kind.Present() && !p.URL.Present() &&
		!p.Keyword.Set && !p.IntervalSeconds.Present() && !p.Enabled.Present()
}

// Apply merges the patch into m.
func (p MonitorPatch) Apply(m *Monitor) {
	if p.Name.Present() {
		m.Name = p.Name.Value
	}
	if p.Kind.Present() {
		m.Kind = p.Kind.Value
	}
	if p.URL.Present() {
		m.URL = p.URL.Value
	}
	if p.Keyword.Set {
		m.Keyword = null.NewString(p.Keyword.Value, !p.Keyword.Null)
	}
	if p.IntervalSeconds.Present() {
		m.IntervalSeconds = p.IntervalSeconds.Value
	}
	if p.Enabled.Present() {
		m.Enabled = p.Enabled.Value
	}
}

// ResultInput is the raw result payload, from a client or a prober.
type ResultInput struct {
	Region         string      `json:"region"`
	Status         string      `json:"status"`
	ResponseTimeMS null.Int    `json:"response_time_ms"`
	HTTPStatus     null.Int    `json:"http_status"`
	SSLValid       null.Bool   `json:"ssl_valid"`
	SSLExpiresAt   null.Time   `json:"ssl_expires_at"`
	ErrorMessage   null.String `json:"error_message"`
}

type NewResult struct {
	Region         Region
	Status         Status
	ResponseTimeMS null.Int
	HTTPStatus     null.Int
	SSLValid       null.Bool
	SSLExpiresAt   null.Time
	ErrorMessage   null.String
}
