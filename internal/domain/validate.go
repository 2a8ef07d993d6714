package domain

import (
	"strings"

	"github.com/guregu/null/v5"

	"github.com/hamed0406/statusforge/internal/apperr"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindHTTP, KindHTTPS, KindSSL, KindKeyword:
		return k, nil
	}
	return "", apperr.InvalidArgumentf("Invalid kind: %s", s)
}

func ParseRegion(s string) (Region, error) {
	switch r := Region(s); r {
	case RegionEU, RegionUS, RegionASIA:
		return r, nil
	}
	return "", apperr.InvalidArgumentf("Invalid region: %s", s)
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusUp, StatusDown, StatusDegraded:
		return st, nil
	}
	return "", apperr.InvalidArgumentf("Invalid status: %s", s)
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return apperr.InvalidArgument("Monitor name cannot be empty")
	}
	return nil
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return apperr.InvalidArgument("Monitor URL cannot be empty")
	}
	return nil
}

func validateInterval(n int) error {
	if n < MinIntervalSeconds {
		return apperr.InvalidArgumentf("Interval must be at least %d seconds", MinIntervalSeconds)
	}
	return nil
}

// CheckKeyword enforces that keyword monitors carry a non-blank keyword.
func CheckKeyword(kind Kind, keyword null.String) error {
	if kind == KindKeyword && (!keyword.Valid || strings.TrimSpace(keyword.String) == "") {
		return apperr.InvalidArgument("Keyword is required for keyword monitors")
	}
	return nil
}

// ValidateMonitorCreate checks a create payload and applies defaults.
func ValidateMonitorCreate(in MonitorInput) (NewMonitor, error) {
	kind, err := ParseKind(in.Kind)
	if err != nil {
		return NewMonitor{}, err
	}
	if err := validateName(in.Name); err != nil {
		return NewMonitor{}, err
	}
	if err := validateURL(in.URL); err != nil {
		return NewMonitor{}, err
	}
	keyword := null.StringFromPtr(in.Keyword)
	if err := CheckKeyword(kind, keyword); err != nil {
		return NewMonitor{}, err
	}
	interval := DefaultIntervalSeconds
	if in.IntervalSeconds != nil {
		interval = *in.IntervalSeconds
	}
	if err := validateInterval(interval); err != nil {
		return NewMonitor{}, err
	}
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	return NewMonitor{
		Name:            strings.TrimSpace(in.Name),
		Kind:            kind,
		URL:             strings.TrimSpace(in.URL),
		Keyword:         keyword,
		IntervalSeconds: interval,
		Enabled:         enabled,
	}, nil
}

// ValidateMonitorUpdate checks only the fields present in p and returns the
// patch with nulls on non-nullable fields dropped and strings trimmed.
func ValidateMonitorUpdate(p MonitorPatch) (MonitorPatch, error) {
	var out MonitorPatch
	if p.Kind.Present() {
		kind, err := ParseKind(string(p.Kind.Value))
		if err != nil {
			return MonitorPatch{}, err
		}
		out.Kind = Some(kind)
	}
	if p.Name.Present() {
		if err := validateName(p.Name.Value); err != nil {
			return MonitorPatch{}, err
		}
		out.Name = Some(strings.TrimSpace(p.Name.Value))
	}
	if p.URL.Present() {
		if err := validateURL(p.URL.Value); err != nil {
			return MonitorPatch{}, err
		}
		out.URL = Some(strings.TrimSpace(p.URL.Value))
	}
	if p.IntervalSeconds.Present() {
		if err := validateInterval(p.IntervalSeconds.Value); err != nil {
			return MonitorPatch{}, err
		}
		out.IntervalSeconds = p.IntervalSeconds
	}
	if p.Enabled.Present() {
		out.Enabled = p.Enabled
	}
	out.Keyword = p.Keyword
	return out, nil
}

// ValidateResult checks the enumerated fields of a result. Status and the
// diagnostic fields are not cross-checked.
func ValidateResult(in ResultInput) (NewResult, error) {
	region, err := ParseRegion(in.Region)
	if err != nil {
		return NewResult{}, err
	}
	status, err := ParseStatus(in.Status)
	if err != nil {
		return NewResult{}, err
	}
	if in.ResponseTimeMS.Valid && in.ResponseTimeMS.Int64 < 0 {
		return NewResult{}, apperr.InvalidArgument("Response time cannot be negative")
	}
	return NewResult{
		Region:         region,
		Status:         status,
		ResponseTimeMS: in.ResponseTimeMS,
		HTTPStatus:     in.HTTPStatus,
		SSLValid:       in.SSLValid,
		SSLExpiresAt:   in.SSLExpiresAt,
		ErrorMessage:   in.ErrorMessage,
	}, nil
}
