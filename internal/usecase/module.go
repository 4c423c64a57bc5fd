package usecase

import (
	"go.uber.org/fx"

	"github.com/lumenshop/storefront/internal/config"
	"github.com/lumenshop/storefront/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newPricing,
	NewAuthUseCase,
	NewCartUseCase,
	NewOrderUseCase,
	NewCatalogUseCase,
	newReportUseCase,
)

func newPricing(cfg *config.Config) Pricing {
	return Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingFee:           cfg.ShippingFee,
		TaxRate:               cfg.TaxRate,
	}
}

type reportParams struct {
	fx.In

	Orders   repository.OrderRepository
	Users    repository.UserRepository
	Products repository.ProductRepository
	Config   *config.Config
}

func newReportUseCase(p reportParams) *ReportUseCase {
	return NewReportUseCase(p.Orders, p.Users, p.Products, p.Config.HighValueSpend)
}
