package mail

import (
	"log/slog"

	"plume/config"
	"plume/internal/domain/constants"
	"plume/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// DispatcherParams holds dependencies for MailDispatcher, injected by Fx
type DispatcherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewMailDispatcher creates a MailDispatcher based on configuration
func NewMailDispatcher(params DispatcherParams) (service.MailDispatcher, error) {
	cfg := params.Config.Mail
	logger := params.Logger

	// Unconfigured mail falls back to logging so account flows still work.
	if cfg == nil || cfg.Provider == "" || cfg.Provider == constants.MailProviderLog {
		logger.Info("Using log mail dispatcher")

		return NewLogDispatcher(logger), nil
	}

	switch cfg.Provider {
	case constants.MailProviderHTTP:
		if cfg.Endpoint == "" {
			return nil, errors.New("endpoint is required for http mail provider")
		}
		logger.Info("Using HTTP relay mail dispatcher",
			slog.String("endpoint", cfg.Endpoint),
		)

		return NewHTTPDispatcher(cfg.Endpoint, cfg.From, logger), nil

	default:
		return nil, errors.Errorf("unknown mail provider: %s", cfg.Provider)
	}
}

// Module provides the mail FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewMailDispatcher),
)
