package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/apperr"
	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/probe"
)

type probeOutcome struct {
	obs probe.Observation
	err error
}

// RunCheck asks the prober to check one monitor from one region and stores
// the validated observation. An empty region means the default region. The
// prober is called exactly once; failures are never retried here.
func (s *Service) RunCheck(ctx context.Context, monitorID, region string) (*domain.MonitorResult, error) {
	res, err := s.runCheck(ctx, monitorID, region)
	if err != nil {
		s.Logger.Warn("check_failed",
			zap.String("monitor_id", monitorID),
			zap.String("region", region),
			zap.String("code", string(apperr.CodeOf(err))),
			zap.Error(err),
		)
		return nil, err
	}
	s.Logger.Info("check_completed",
		zap.String("monitor_id", monitorID),
		zap.String("result_id", res.ID),
		zap.String("region", string(res.Region)),
		zap.String("status", string(res.Status)),
		zap.Int64("response_time_ms", res.ResponseTimeMS.ValueOrZero()),
	)
	return res, nil
}

func (s *Service) runCheck(ctx context.Context, monitorID, region string) (*domain.MonitorResult, error) {
	m, err := s.Monitors.GetMonitor(ctx, monitorID)
	if err != nil {
		return nil, s.storeErr("get_monitor", err, msgMonitorNotFound)
	}
	if !m.Enabled {
		return nil, apperr.Disabled("Monitor is disabled")
	}

	if region == "" {
		region = string(domain.DefaultRegion)
	}
	target, err := domain.ParseRegion(region)
	if err != nil {
		return nil, err
	}

	obs, err := s.probe(ctx, probe.NewRequest(m, target))
	if err != nil {
		return nil, err
	}

	if obs.Region == "" || obs.Status == "" {
		return nil, apperr.Upstream("Prober returned an incomplete observation", nil)
	}
	nr, err := domain.ValidateResult(domain.ResultInput{
		Region:         obs.Region,
		Status:         obs.Status,
		ResponseTimeMS: obs.ResponseTimeMS,
		HTTPStatus:     obs.HTTPStatus,
		SSLValid:       obs.SSLValid,
		SSLExpiresAt:   obs.SSLExpiresAt,
		ErrorMessage:   obs.ErrorMessage,
	})
	if err != nil {
		return nil, err
	}

	res, err := s.Results.CreateResult(ctx, m.ID, nr)
	if err != nil {
		return nil, s.storeErr("create_result", err, msgMonitorNotFound)
	}
	return res, nil
}

// probe runs the prober under ProbeTimeout. The deadline holds even when a
// prober ignores its context.
func (s *Service) probe(ctx context.Context, req probe.Request) (probe.Observation, error) {
	pctx, cancel := context.WithTimeout(ctx, s.ProbeTimeout)
	defer cancel()

	done := make(chan probeOutcome, 1)
	go func() {
		obs, err := s.Prober.Probe(pctx, req)
		done <- probeOutcome{obs: obs, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) {
				return probe.Observation{}, apperr.Upstream("Prober timed out", out.err)
			}
			return probe.Observation{}, apperr.Upstream("Prober unavailable", out.err)
		}
		return out.obs, nil
	case <-pctx.Done():
		return probe.Observation{}, apperr.Upstream("Prober timed out", pctx.Err())
	}
}
