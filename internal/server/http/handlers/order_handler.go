package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/domain/repository"
	"github.com/lumenshop/storefront/internal/server/http/dto"
	"github.com/lumenshop/storefront/internal/usecase"
)

// OrderHandler manages customer-facing order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/user/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.Checkout(c.Request.Context(), CurrentUserID(c), usecase.CheckoutInput{
		ShippingAddress: toAddress(req.ShippingAddress),
		BillingAddress:  toAddress(req.BillingAddress),
		PaymentMethod:   req.PaymentMethod,
		ShippingMethod:  req.ShippingMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrCartEmpty):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrOutOfStock):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/user/orders/:number. Orders belonging to other users
// are reported as missing.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.fetchOwned(c)
	if err != nil {
		orderErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/user/orders/:number/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	if _, err := h.fetchOwned(c); err != nil {
		orderErrorStatus(c, err)
		return
	}

	order, err := h.facade.CancelOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		orderErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func (h *OrderHandler) fetchOwned(c *gin.Context) (*model.Order, error) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("number"))
	if err != nil {
		return nil, err
	}
	if order.UserID != CurrentUserID(c) {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// AdminOrderHandler manages the admin order endpoints.
type AdminOrderHandler struct {
	facade OrderFacade
}

// NewAdminOrderHandler constructs AdminOrderHandler.
func NewAdminOrderHandler(facade OrderFacade) *AdminOrderHandler {
	return &AdminOrderHandler{facade: facade}
}

// List handles GET /api/admin/orders.
func (h *AdminOrderHandler) List(c *gin.Context) {
	filter := repository.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.Status(http.StatusBadRequest)
		return
	}

	orders, err := h.facade.AllOrders(c.Request.Context(), filter)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Advance handles POST /api/admin/orders/:number/advance.
func (h *AdminOrderHandler) Advance(c *gin.Context) {
	order, err := h.facade.AdvanceOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		orderErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/admin/orders/:number/cancel.
func (h *AdminOrderHandler) Cancel(c *gin.Context) {
	order, err := h.facade.CancelOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		orderErrorStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func orderErrorStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrIllegalTransition):
		c.Status(http.StatusConflict)
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
