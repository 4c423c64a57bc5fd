package live

import (
	"context"

	"go.uber.org/fx"

	"github.com/lumenshop/storefront/internal/usecase"
)

// Module wires the live order feed hub.
var Module = fx.Options(
	fx.Provide(NewHub),
	fx.Provide(func(h *Hub) usecase.OrderPublisher { return h }),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, hub *Hub) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.CloseAll()
			return nil
		},
	})
}
