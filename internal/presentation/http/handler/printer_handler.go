package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ausadhi/pos-api/internal/application/service"
	"github.com/ausadhi/pos-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles the receipt printer HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus reports printer availability
// @Summary Printer Status
// @Tags printer
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /printer/status [get]
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status", h.printerService.GetStatus())
}

// TestPrint sends a test page
// @Summary Test Print
// @Tags printer
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /printer/test [post]
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	if err := h.printerService.TestPrint(); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Test page printed", nil)
}

// PrintSaleReceipt reprints the receipt of a persisted sale
// @Summary Reprint Receipt
// @Tags printer
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /sales/{id}/print [post]
func (h *PrinterHandler) PrintSaleReceipt(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale id")
		return
	}

	if err := h.printerService.PrintSaleReceipt(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed", nil)
}
