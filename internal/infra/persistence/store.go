// Package persistence selects the credential store backend.
package persistence

import (
	"log/slog"

	"go.uber.org/fx"

	"pricetracker/config"
	"pricetracker/internal/domain/repository"
	"pricetracker/internal/errors"
	"pricetracker/internal/infra/persistence/memory"
	"pricetracker/internal/infra/persistence/postgres"
)

type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type Result struct {
	fx.Out

	Users        repository.UserRepository
	Transactions repository.TransactionManager
}

// New builds the repositories for the configured store.driver.
func New(params Params) (Result, error) {
	switch params.Config.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Result{}, err
		}

		return Result{
			Users:        postgres.NewUserRepository(db),
			Transactions: postgres.NewTransactionManager(db),
		}, nil

	case config.StoreDriverMemory:
		params.Logger.Warn("Using in-memory credential store, accounts are lost on restart")
		store := memory.NewStore()

		return Result{
			Users:        store.Users(),
			Transactions: store,
		}, nil

	default:
		return Result{}, errors.Errorf("unsupported store driver %q", params.Config.Store.Driver)
	}
}
