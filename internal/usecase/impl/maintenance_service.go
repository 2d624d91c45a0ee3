package impl

import (
	"context"
	"log/slog"
	"time"

	"plume/internal/domain/repository"
	"plume/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maintenanceService implements the MaintenanceUsecase interface.
type maintenanceService struct {
	credentialRepo repository.CredentialRepository
	logger         *slog.Logger
	now            func() time.Time
}

// MaintenanceServiceParams holds dependencies for maintenanceService, injected by Fx.
type MaintenanceServiceParams struct {
	fx.In

	CredentialRepo repository.CredentialRepository
	Logger         *slog.Logger
}

// NewMaintenanceService is the constructor for maintenanceService.
func NewMaintenanceService(params MaintenanceServiceParams) usecase.MaintenanceUsecase {
	return &maintenanceService{
		credentialRepo: params.CredentialRepo,
		logger:         params.Logger,
		now:            time.Now,
	}
}

// CleanupExpiredTokens clears expired verification/reset token fields from
// credential records. Expired fields are already inert (expiry is checked on
// every consume), so this sweep only reclaims storage and token uniqueness.
func (srv *maintenanceService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	cleared, err := srv.credentialRepo.ClearExpiredTokens(ctx, srv.now())
	if err != nil {
		srv.logger.Error("Token cleanup sweep failed", slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to clear expired credential tokens")
	}

	if cleared > 0 {
		srv.logger.Info("Token cleanup sweep completed", slog.Int64("cleared", cleared))
	}

	return cleared, nil
}
