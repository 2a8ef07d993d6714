package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/apperr"
	"github.com/hamed0406/statusforge/internal/domain"
	"github.com/hamed0406/statusforge/internal/repo"
)

// ResultQuery is the unparsed filter and page of a results listing. Empty
// Region/Status mean no filter; zero Limit means the default page.
type ResultQuery struct {
	Region string
	Status string
	Limit  int
	Offset int
}

// CreateResult ingests an externally computed observation.
func (s *Service) CreateResult(ctx context.Context, monitorID string, in domain.ResultInput) (*domain.MonitorResult, error) {
	nr, err := domain.ValidateResult(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.Monitors.GetMonitor(ctx, monitorID); err != nil {
		return nil, s.storeErr("get_monitor", err, msgMonitorNotFound)
	}
	r, err := s.Results.CreateResult(ctx, monitorID, nr)
	if err != nil {
		return nil, s.storeErr("create_result", err, msgMonitorNotFound)
	}
	s.Logger.Info("result_created",
		zap.String("monitor_id", monitorID),
		zap.String("result_id", r.ID),
		zap.String("region", string(r.Region)),
		zap.String("status", string(r.Status)),
	)
	return r, nil
}

func (s *Service) ListResults(ctx context.Context, monitorID string, q ResultQuery) ([]*domain.MonitorResult, error) {
	if q.Limit < 0 {
		return nil, apperr.InvalidArgument("limit must not be negative")
	}
	if q.Offset < 0 {
		return nil, apperr.InvalidArgument("offset must not be negative")
	}
	p := repo.ListResultsParams{MonitorID: monitorID, Limit: q.Limit, Offset: q.Offset}
	if q.Region != "" {
		region, err := domain.ParseRegion(q.Region)
		if err != nil {
			return nil, err
		}
		p.Region = region
	}
	if q.Status != "" {
		status, err := domain.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		p.Status = status
	}
	if _, err := s.Monitors.GetMonitor(ctx, monitorID); err != nil {
		return nil, s.storeErr("get_monitor", err, msgMonitorNotFound)
	}
	rs, err := s.Results.ListResults(ctx, p)
	if err != nil {
		return nil, s.storeErr("list_results", err, msgMonitorNotFound)
	}
	return rs, nil
}
