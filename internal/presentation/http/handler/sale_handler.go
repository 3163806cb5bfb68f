package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ausadhi/pos-api/internal/application/service"
	"github.com/ausadhi/pos-api/internal/domain/enum"
	"github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/internal/presentation/http/dto/request"
	"github.com/ausadhi/pos-api/internal/presentation/http/dto/response"
	"github.com/ausadhi/pos-api/pkg/pagination"
)

// SaleHandler handles the sales history HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// List handles the sales listing with filters
// @Summary List Sales
// @Tags sales
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	params.Validate()

	filter := &repository.SaleFilterParams{
		Pagination:    params,
		Search:        c.Query("search"),
		PaymentMethod: c.Query("payment_method"),
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.SaleStatus(statusStr)
		if !status.Valid() {
			response.BadRequest(c, "Invalid sale status")
			return
		}
		filter.Status = &status
	}
	if cashierStr := c.Query("cashier_id"); cashierStr != "" {
		cashierID, err := uuid.Parse(cashierStr)
		if err != nil {
			response.BadRequest(c, "Invalid cashier_id")
			return
		}
		filter.CashierID = &cashierID
	}
	if startStr := c.Query("start_date"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		filter.StartDate = &start
	}
	if endStr := c.Query("end_date"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		end = end.Add(24*time.Hour - time.Second)
		filter.EndDate = &end
	}

	result, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Get handles fetching a sale with its items
// @Summary Get Sale
// @Tags sales
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Void handles voiding a sale and restoring its stock
// @Summary Void Sale
// @Tags sales
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /sales/{id}/void [post]
func (h *SaleHandler) Void(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	sale, err := h.saleService.VoidSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale voided successfully", sale)
}

// EmailReceipt handles emailing a sale receipt to a customer
// @Summary Email Receipt
// @Tags sales
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.EmailReceiptRequest true "Recipient"
// @Success 200 {object} response.APIResponse
// @Router /sales/{id}/email [post]
func (h *SaleHandler) EmailReceipt(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	var req request.EmailReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.saleService.EmailReceipt(c.Request.Context(), id, req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent successfully", nil)
}
