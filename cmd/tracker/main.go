package main

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"pricetracker/config"
	"pricetracker/internal/delivery"
	"pricetracker/internal/delivery/api"
	"pricetracker/internal/delivery/api/middleware"
	"pricetracker/internal/delivery/api/router/handler"
	"pricetracker/internal/delivery/api/sessioncookie"
	"pricetracker/internal/infra/auth"
	"pricetracker/internal/infra/auth/google"
	"pricetracker/internal/infra/auth/state"
	logs "pricetracker/internal/infra/log"
	"pricetracker/internal/infra/persistence"
	"pricetracker/internal/infra/pubsub"
	"pricetracker/internal/infra/tracing"
	"pricetracker/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

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
			startTracing,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		tracing.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			persistence.New,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			google.NewIDTokenVerifier,
			google.NewOAuthService,
			state.New,
			pubsub.NewEventPublisher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewFederatedService,
			impl.NewSessionService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			sessioncookie.NewWriter,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewGoogleHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startTracing forces the tracer provider to be built before requests arrive.
func startTracing(_ trace.TracerProvider, cfg *config.Config, logger *slog.Logger) {
	logger.Info("Tracing configured", slog.Bool("enabled", cfg.Tracing.Enabled))
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
