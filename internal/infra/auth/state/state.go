// Package state keeps the single-use CSRF state values of the Google redirect flow.
package state

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"pricetracker/config"
	"pricetracker/internal/domain/lifecycle"
	"pricetracker/internal/domain/service"
	"pricetracker/internal/errors"
)

const stateBytes = 32

type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// New selects the state store backend from configuration.
func New(params Params) (service.OAuthStateStore, error) {
	cfg := params.Config.OAuthState

	switch cfg.Provider {
	case config.StateProviderRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     params.Config.Redis.Addr,
			Password: params.Config.Redis.Password,
			DB:       params.Config.Redis.DB,
		})

		params.Lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
				defer cancel()

				if err := client.Ping(ctx).Err(); err != nil {
					return errors.Wrap(err, "ping redis")
				}
				params.Logger.Info("OAuth state store connected to redis", slog.String("addr", params.Config.Redis.Addr))

				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})

		return NewRedisStore(client, cfg.TTL), nil
	case config.StateProviderMemory:
		return NewMemoryStore(cfg.TTL), nil
	default:
		return nil, errors.Errorf("unsupported oauth state provider %q", cfg.Provider)
	}
}

func generateState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate oauth state")
	}

	return hex.EncodeToString(buf), nil
}
