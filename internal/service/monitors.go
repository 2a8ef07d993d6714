package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/domain"
)

func (s *Service) CreateMonitor(ctx context.Context, projectID string, in domain.MonitorInput) (*domain.Monitor, error) {
	nm, err := domain.ValidateMonitorCreate(in)
	if err != nil {
		return nil, err
	}
	m, err := s.Monitors.CreateMonitor(ctx, projectID, nm)
	if err != nil {
		return nil, s.storeErr("create_monitor", err, msgMonitorNotFound)
	}
	s.Logger.Info("monitor_created",
		zap.String("monitor_id", m.ID),
		zap.String("project_id", projectID),
		zap.String("kind", string(m.Kind)),
	)
	return m, nil
}

func (s *Service) GetMonitor(ctx context.Context, id string) (*domain.Monitor, error) {
	m, err := s.Monitors.GetMonitor(ctx, id)
	if err != nil {
		return nil, s.storeErr("get_monitor", err, msgMonitorNotFound)
	}
	return m, nil
}

func (s *Service) ListMonitors(ctx context.Context, projectID string) ([]*domain.Monitor, error) {
	ms, err := s.Monitors.ListMonitors(ctx, projectID)
	if err != nil {
		return nil, s.storeErr("list_monitors", err, msgMonitorNotFound)
	}
	return ms, nil
}

// UpdateMonitor validates the present fields, then re-checks the keyword
// rule against the merged monitor before writing.
func (s *Service) UpdateMonitor(ctx context.Context, id string, p domain.MonitorPatch) (*domain.Monitor, error) {
	p, err := domain.ValidateMonitorUpdate(p)
	if err != nil {
		return nil, err
	}
	cur, err := s.Monitors.GetMonitor(ctx, id)
	if err != nil {
		return nil, s.storeErr("get_monitor", err, msgMonitorNotFound)
	}
	merged := *cur
	p.Apply(&merged)
	if err := domain.CheckKeyword(merged.Kind, merged.Keyword); err != nil {
		return nil, err
	}
	if p.Empty() {
		return cur, nil
	}

	m, err := s.Monitors.UpdateMonitor(ctx, id, p)
	if err != nil {
		return nil, s.storeErr("update_monitor", err, msgMonitorNotFound)
	}
	s.Logger.Info("monitor_updated", zap.String("monitor_id", id), zap.Bool("enabled", m.Enabled))
	return m, nil
}

func (s *Service) DeleteMonitor(ctx context.Context, id string) error {
	if err := s.Monitors.DeleteMonitor(ctx, id); err != nil {
		return s.storeErr("delete_monitor", err, msgMonitorNotFound)
	}
	s.Logger.Info("monitor_deleted", zap.String("monitor_id", id))
	return nil
}
