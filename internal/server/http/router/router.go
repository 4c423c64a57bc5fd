package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/lumenshop/storefront/internal/live"
	"github.com/lumenshop/storefront/internal/server/http/handlers"
	"github.com/lumenshop/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, hub *live.Hub, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	adminOrderHandler := handlers.NewAdminOrderHandler(facade)
	adminCatalogHandler := handlers.NewAdminCatalogHandler(facade)
	reportHandler := handlers.NewReportHandler(facade)
	feedHandler := handlers.NewOrderFeedHandler(hub, facade, logger)

	api := engine.Group("/api")

	api.GET("/products", catalogHandler.List)
	api.GET("/products/:id", catalogHandler.Get)

	guest := api.Group("/guest/cart")
	guest.GET("", cartHandler.GuestView)
	guest.POST("/items", cartHandler.GuestAddItem)
	guest.DELETE("/items/:id", cartHandler.GuestRemoveItem)
	guest.DELETE("", cartHandler.GuestClear)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.GET("/cart", cartHandler.View)
	userAuth.POST("/cart/items", cartHandler.AddItem)
	userAuth.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	userAuth.DELETE("/cart", cartHandler.Clear)
	userAuth.POST("/orders", orderHandler.Checkout)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/orders/live", feedHandler.Subscribe)
	userAuth.GET("/orders/:number", orderHandler.Get)
	userAuth.POST("/orders/:number/cancel", orderHandler.Cancel)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(facade), middleware.AdminRequired(facade))
	admin.GET("/orders", adminOrderHandler.List)
	admin.POST("/orders/:number/advance", adminOrderHandler.Advance)
	admin.POST("/orders/:number/cancel", adminOrderHandler.Cancel)
	admin.POST("/products", adminCatalogHandler.Create)
	admin.PUT("/products/:id", adminCatalogHandler.Update)
	admin.PUT("/products/:id/stock", adminCatalogHandler.SetStock)
	admin.GET("/reports/sales", reportHandler.Sales)
	admin.GET("/reports/customers", reportHandler.Customers)
	admin.GET("/reports/inventory", reportHandler.Inventory)

	return engine
}
