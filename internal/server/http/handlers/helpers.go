package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lumenshop/storefront/internal/domain/model"
	"github.com/lumenshop/storefront/internal/server/http/dto"
	"github.com/lumenshop/storefront/internal/server/http/middleware"
	"github.com/lumenshop/storefront/internal/usecase"
)

// GuestTokenHeader carries the client-held guest cart token.
const GuestTokenHeader = "X-Guest-Token"

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// GuestToken extracts the guest cart token from the request headers.
func GuestToken(c *gin.Context) string {
	return c.GetHeader(GuestTokenHeader)
}

func toCartResponse(view *usecase.CartView) dto.CartResponse {
	resp := dto.CartResponse{
		Items:    make([]dto.CartLineResponse, 0, len(view.Lines)),
		Subtotal: view.Quote.Subtotal,
		Shipping: view.Quote.Shipping,
		Tax:      view.Quote.Tax,
		Total:    view.Quote.Total,
	}
	for _, line := range view.Lines {
		resp.Items = append(resp.Items, dto.CartLineResponse{
			ProductID: line.Product.ID,
			SKU:       line.Product.SKU,
			Name:      line.Product.Name,
			UnitPrice: line.Product.Price,
			Quantity:  line.Item.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	return resp
}

func toAddressPayload(a model.Address) dto.AddressPayload {
	return dto.AddressPayload{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func toAddress(a dto.AddressPayload) model.Address {
	return model.Address{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		Number:          order.Number,
		Status:          string(order.Status),
		Items:           make([]dto.OrderItemResponse, 0, len(order.Items)),
		ShippingAddress: toAddressPayload(order.ShippingAddress),
		BillingAddress:  toAddressPayload(order.BillingAddress),
		PaymentMethod:   order.PaymentMethod,
		ShippingMethod:  order.ShippingMethod,
		TrackingNumber:  order.TrackingNumber,
		Timeline:        make([]dto.TimelineEventResponse, 0, len(order.Timeline)),
		Subtotal:        order.Subtotal,
		Shipping:        order.Shipping,
		Tax:             order.Tax,
		Total:           order.Total,
		CreatedAt:       order.CreatedAt,
	}
	for _, it := range order.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	for _, ev := range order.Timeline {
		resp.Timeline = append(resp.Timeline, dto.TimelineEventResponse{
			Status:      string(ev.Status),
			Date:        ev.Date,
			Description: ev.Description,
		})
	}
	return resp
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		Stock:             p.Stock,
		Categories:        p.Categories,
		LowStockThreshold: p.LowStockThreshold,
		InStock:           p.InStock,
		StockLevel:        string(p.Level()),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
