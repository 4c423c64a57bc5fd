package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenshop/storefront/internal/server/http/dto"
	"github.com/lumenshop/storefront/internal/usecase"
)

// ReportHandler serves the admin dashboard reports.
type ReportHandler struct {
	facade ReportFacade
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(facade ReportFacade) *ReportHandler {
	return &ReportHandler{facade: facade}
}

// Sales handles GET /api/admin/reports/sales.
func (h *ReportHandler) Sales(c *gin.Context) {
	tf, err := usecase.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	buckets, err := h.facade.SalesReport(c.Request.Context(), tf)
	if err != nil {
		reportErrorStatus(c, err)
		return
	}

	response := make([]dto.SalesBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		response = append(response, dto.SalesBucketResponse{Period: b.Key, Orders: b.Orders, Revenue: b.Revenue})
	}
	c.JSON(http.StatusOK, response)
}

// Customers handles GET /api/admin/reports/customers.
func (h *ReportHandler) Customers(c *gin.Context) {
	tf, err := usecase.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	report, err := h.facade.CustomerReport(c.Request.Context(), tf)
	if err != nil {
		reportErrorStatus(c, err)
		return
	}

	response := dto.CustomerReportResponse{
		Buckets:   make([]dto.CustomerBucketResponse, 0, len(report.Buckets)),
		Customers: make([]dto.CustomerSummaryResponse, 0, len(report.Summaries)),
		Segments:  make(map[string]int, len(report.Segments)),
	}
	for _, b := range report.Buckets {
		response.Buckets = append(response.Buckets, dto.CustomerBucketResponse{Period: b.Key, New: b.New, Returning: b.Returning})
	}
	for _, s := range report.Summaries {
		response.Customers = append(response.Customers, dto.CustomerSummaryResponse{
			UserID:     s.UserID,
			Login:      s.Login,
			Orders:     s.Orders,
			TotalSpend: s.TotalSpend,
			Segment:    string(s.Segment),
		})
	}
	for segment, count := range report.Segments {
		response.Segments[string(segment)] = count
	}
	c.JSON(http.StatusOK, response)
}

// Inventory handles GET /api/admin/reports/inventory.
func (h *ReportHandler) Inventory(c *gin.Context) {
	rows, err := h.facade.InventoryReport(c.Request.Context())
	if err != nil {
		reportErrorStatus(c, err)
		return
	}

	response := make([]dto.InventoryRowResponse, 0, len(rows))
	for _, r := range rows {
		response = append(response, dto.InventoryRowResponse{Category: r.Category, InStock: r.In, LowStock: r.Low, OutStock: r.Out})
	}
	c.JSON(http.StatusOK, response)
}

func reportErrorStatus(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrInvalidTimeframe) {
		c.Status(http.StatusBadRequest)
		return
	}
	c.Status(http.StatusInternalServerError)
}
