package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"alertdesk/internal/repository"
)

// StatsRollupService rebuilds the alerts-over-time daily rollup.
type StatsRollupService struct {
	Repo     repository.Repository
	Logger   *zap.Logger
	Lookback time.Duration
}

func (s *StatsRollupService) Run(ctx context.Context, interval time.Duration) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if err := s.RunOnce(ctx); err != nil && s.Logger != nil {
			s.Logger.Warn("daily stats rollup failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (s *StatsRollupService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	lookback := s.Lookback
	if lookback <= 0 {
		lookback = 90 * 24 * time.Hour
	}
	since := time.Now().UTC().Add(-lookback)
	n, err := s.Repo.RebuildAlertDailyStats(ctx, &since, nil)
	if err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("daily stats rollup ok", zap.Int("days", n))
	}
	return nil
}
