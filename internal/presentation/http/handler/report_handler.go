package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ausadhi/pos-api/internal/application/service"
	"github.com/ausadhi/pos-api/internal/presentation/http/dto/response"
)

// ReportHandler handles the sales reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) dateRange(c *gin.Context) (*service.DateRange, bool) {
	r, err := service.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return r, true
}

// Summary handles the revenue summary report
// @Summary Sales Summary
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	r, ok := h.dateRange(c)
	if !ok {
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales summary retrieved successfully", summary)
}

// ByProduct handles the best sellers report
// @Summary Sales by Product
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /reports/products [get]
func (h *ReportHandler) ByProduct(c *gin.Context) {
	r, ok := h.dateRange(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	results, err := h.reportService.SalesByProduct(c.Request.Context(), r, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product sales retrieved successfully", results)
}

// ByCashier handles the per-cashier report
// @Summary Sales by Cashier
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /reports/cashiers [get]
func (h *ReportHandler) ByCashier(c *gin.Context) {
	r, ok := h.dateRange(c)
	if !ok {
		return
	}

	results, err := h.reportService.SalesByCashier(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cashier sales retrieved successfully", results)
}

// ByPaymentMethod handles the payment method split report
// @Summary Sales by Payment Method
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /reports/payment-methods [get]
func (h *ReportHandler) ByPaymentMethod(c *gin.Context) {
	r, ok := h.dateRange(c)
	if !ok {
		return
	}

	results, err := h.reportService.SalesByPaymentMethod(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method sales retrieved successfully", results)
}

// Daily handles the daily revenue report
// @Summary Daily Sales
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	results, err := h.reportService.DailySales(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily sales retrieved successfully", results)
}
