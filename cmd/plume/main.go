package main

import (
	"context"
	"log/slog"
	"os"

	"plume/config"
	"plume/internal/delivery"
	"plume/internal/delivery/http"
	"plume/internal/delivery/http/middleware"
	"plume/internal/delivery/http/router/handler"
	"plume/internal/delivery/worker"
	"plume/internal/infra/auth"
	logs "plume/internal/infra/log"
	"plume/internal/infra/mail"
	"plume/internal/infra/persistence/postgres"
	"plume/internal/infra/pubsub"
	"plume/internal/infra/revocation"
	"plume/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
			registerSweeper,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
		),
		mail.Module,
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewCredentialRepository,
			postgres.NewPostRepository,
			postgres.NewCommentRepository,
			postgres.NewFollowRepository,
			postgres.NewBookmarkRepository,
			postgres.NewNotificationRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTCodec,
			revocation.NewMemoryStore,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewPostService,
			impl.NewCommentService,
			impl.NewSocialService,
			impl.NewNotificationService,
			impl.NewMaintenanceService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewPostHandler,
			handler.NewCommentHandler,
			handler.NewSocialHandler,
			handler.NewNotificationHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// registerSweeper starts the periodic maintenance sweeps. They live in this
// process because the revocation registry is held in memory here.
func registerSweeper(params worker.SweeperParams) {
	worker.NewSweeper(params)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
