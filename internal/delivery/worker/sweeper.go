package worker

import (
	"context"
	"log/slog"
	"time"

	"plume/config"
	"plume/internal/domain/service"
	"plume/internal/usecase"

	"go.uber.org/fx"
)

// Sweeper periodically clears expired credential token fields and prunes the
// revocation registry. Both sweeps reclaim storage only; expiry is enforced
// on every read regardless of whether the sweep has run.
type Sweeper struct {
	interval    time.Duration
	logger      *slog.Logger
	maintenance usecase.MaintenanceUsecase
	revocations service.RevocationStore
	done        chan struct{}
}

// SweeperParams holds dependencies for the Sweeper
type SweeperParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	Logger      *slog.Logger
	Maintenance usecase.MaintenanceUsecase
	Revocations service.RevocationStore
}

// NewSweeper creates the periodic sweeper. A zero interval disables it.
func NewSweeper(params SweeperParams) *Sweeper {
	interval := time.Duration(0)
	if params.Cfg.Maintenance != nil {
		interval = params.Cfg.Maintenance.SweepInterval
	}

	s := &Sweeper{
		interval:    interval,
		logger:      params.Logger,
		maintenance: params.Maintenance,
		revocations: params.Revocations,
		done:        make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStart: s.start,
		OnStop:  s.stop,
	})

	return s
}

func (s *Sweeper) start(_ context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("Maintenance sweeper disabled")

		return nil
	}

	s.logger.Info("Starting maintenance sweeper", slog.Duration("interval", s.interval))
	go s.run()

	return nil
}

func (s *Sweeper) stop(_ context.Context) error {
	close(s.done)

	return nil
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	cleared, err := s.maintenance.CleanupExpiredTokens(ctx)
	if err != nil {
		s.logger.Error("Credential token sweep failed", slog.Any("error", err))
	}

	pruned := s.revocations.SweepExpired(ctx)

	if cleared > 0 || pruned > 0 {
		s.logger.Info("Maintenance sweep completed",
			slog.Int64("credential_fields_cleared", cleared),
			slog.Int("revocations_pruned", pruned),
		)
	}
}
