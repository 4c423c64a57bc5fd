package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
	"github.com/lumenshop/storefront/internal/server/http/dto"
)

// CatalogHandler serves the public product listing.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// List handles GET /api/products.
func (h *CatalogHandler) List(c *gin.Context) {
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	}

	products, err := h.facade.Products(c.Request.Context(), filter)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, toProductResponse(p))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/products/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		catalogErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// AdminCatalogHandler manages catalog mutation endpoints.
type AdminCatalogHandler struct {
	facade CatalogFacade
}

// NewAdminCatalogHandler constructs AdminCatalogHandler.
func NewAdminCatalogHandler(facade CatalogFacade) *AdminCatalogHandler {
	return &AdminCatalogHandler{facade: facade}
}

// Create handles POST /api/admin/products.
func (h *AdminCatalogHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	product := productFromRequest(req)
	if err := h.facade.CreateProduct(c.Request.Context(), product); err != nil {
		catalogErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*product))
}

// Update handles PUT /api/admin/products/:id.
func (h *AdminCatalogHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	product := productFromRequest(req)
	product.ID = c.Param("id")
	if err := h.facade.UpdateProduct(c.Request.Context(), product); err != nil {
		catalogErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// SetStock handles PUT /api/admin/products/:id/stock.
func (h *AdminCatalogHandler) SetStock(c *gin.Context) {
	var req dto.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.SetProductStock(c.Request.Context(), c.Param("id"), req.Stock); err != nil {
		catalogErrorStatus(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func productFromRequest(req dto.ProductRequest) *model.Product {
	return &model.Product{
		SKU:               req.SKU,
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Stock:             req.Stock,
		Categories:        req.Categories,
		LowStockThreshold: req.LowStockThreshold,
		InStock:           model.StockAvailable(req.Stock),
	}
}

func catalogErrorStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.Status(http.StatusConflict)
	case errors.Is(err, domainErrors.ErrInvalidProduct), errors.Is(err, domainErrors.ErrInvalidQuantity):
		c.Status(http.StatusUnprocessableEntity)
	default:
		c.Status(http.StatusInternalServerError)
	}
}
