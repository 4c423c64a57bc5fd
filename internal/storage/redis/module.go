package redis

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/lumenshop/storefront/internal/config"
	"github.com/lumenshop/storefront/internal/domain/repository"
)

// Module wires the Redis guest cart store.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(func(s *GuestCartStore) repository.GuestCartRepository { return s }),
	fx.Invoke(registerLifecycle),
)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (*GuestCartStore, error) {
	return New(p.Ctx, p.Config.RedisAddress, p.Config.GuestCartTTL, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, store *GuestCartStore) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
}
