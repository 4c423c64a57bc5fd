package di

import (
	"go.uber.org/fx"

	"github.com/lumenshop/storefront/internal/app"
	"github.com/lumenshop/storefront/internal/config"
	"github.com/lumenshop/storefront/internal/live"
	"github.com/lumenshop/storefront/internal/logger"
	"github.com/lumenshop/storefront/internal/pkg/auth"
	"github.com/lumenshop/storefront/internal/server/http/handlers"
	"github.com/lumenshop/storefront/internal/server/http/router"
	"github.com/lumenshop/storefront/internal/storage/postgres"
	"github.com/lumenshop/storefront/internal/storage/redis"
	"github.com/lumenshop/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		redis.Module,
		live.Module,
		usecase.Module,
		fx.Provide(func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
