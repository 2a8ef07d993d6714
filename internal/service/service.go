// Package service holds the monitor, result and check operations. It is the
// only layer that turns store and prober failures into apperr codes.
package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/apperr"
	"github.com/hamed0406/statusforge/internal/probe"
	"github.com/hamed0406/statusforge/internal/repo"
)

const DefaultProbeTimeout = 10 * time.Second

const msgMonitorNotFound = "Monitor not found"

type Service struct {
	Logger       *zap.Logger
	Monitors     repo.MonitorStore
	Results      repo.ResultStore
	Prober       probe.Prober
	ProbeTimeout time.Duration
}

func New(
	logger *zap.Logger,
	ms repo.MonitorStore,
	rs repo.ResultStore,
	prober probe.Prober,
	probeTimeout time.Duration,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prober == nil {
		prober = probe.Unconfigured
	}
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	return &Service{
		Logger:       logger,
		Monitors:     ms,
		Results:      rs,
		Prober:       prober,
		ProbeTimeout: probeTimeout,
	}
}

// storeErr classifies a store failure. Missing rows become NOT_FOUND with
// msg; anything else is INTERNAL and logged here.
func (s *Service) storeErr(op string, err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	s.Logger.Error("store_error", zap.String("op", op), zap.Error(err))
	return apperr.Internal("store failure", fmt.Errorf("%s: %w", op, err))
}
