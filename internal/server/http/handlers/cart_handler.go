package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/lumenshop/storefront/internal/domain/errors"
	"github.com/lumenshop/storefront/internal/server/http/dto"
)

// CartHandler manages authenticated and guest cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// View handles GET /api/user/cart.
func (h *CartHandler) View(c *gin.Context) {
	view, err := h.facade.Cart(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(view))
}

// AddItem handles POST /api/user/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.AddToCart(c.Request.Context(), CurrentUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		cartErrorStatus(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// RemoveItem handles DELETE /api/user/cart/items/:id.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	err := h.facade.RemoveFromCart(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		cartErrorStatus(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Clear handles DELETE /api/user/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.facade.ClearCart(c.Request.Context(), CurrentUserID(c)); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

// GuestView handles GET /api/guest/cart. An unknown or absent token yields an
// empty cart.
func (h *CartHandler) GuestView(c *gin.Context) {
	token := GuestToken(c)
	if token == "" {
		c.JSON(http.StatusOK, dto.CartResponse{Items: []dto.CartLineResponse{}})
		return
	}
	view, err := h.facade.GuestCart(c.Request.Context(), token)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	resp := toCartResponse(view)
	resp.GuestToken = token
	c.JSON(http.StatusOK, resp)
}

// GuestAddItem handles POST /api/guest/cart/items. When the client has no
// token yet a fresh one is issued and returned in the response.
func (h *CartHandler) GuestAddItem(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token := GuestToken(c)
	if token == "" {
		token = uuid.NewString()
	}

	err := h.facade.AddToGuestCart(c.Request.Context(), token, req.ProductID, req.Quantity)
	if err != nil {
		cartErrorStatus(c, err)
		return
	}

	c.Header(GuestTokenHeader, token)
	c.JSON(http.StatusOK, dto.CartResponse{GuestToken: token})
}

// GuestRemoveItem handles DELETE /api/guest/cart/items/:id.
func (h *CartHandler) GuestRemoveItem(c *gin.Context) {
	token := GuestToken(c)
	if token == "" {
		c.Status(http.StatusNotFound)
		return
	}
	err := h.facade.RemoveFromGuestCart(c.Request.Context(), token, c.Param("id"))
	if err != nil {
		cartErrorStatus(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GuestClear handles DELETE /api/guest/cart.
func (h *CartHandler) GuestClear(c *gin.Context) {
	token := GuestToken(c)
	if token == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.facade.ClearGuestCart(c.Request.Context(), token); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

func cartErrorStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrInvalidQuantity):
		c.Status(http.StatusUnprocessableEntity)
	case errors.Is(err, domainErrors.ErrOutOfStock):
		c.Status(http.StatusConflict)
	default:
		c.Status(http.StatusInternalServerError)
	}
}
