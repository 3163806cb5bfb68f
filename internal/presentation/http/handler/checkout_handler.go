package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ausadhi/pos-api/internal/application/service"
	"github.com/ausadhi/pos-api/internal/checkout"
	"github.com/ausadhi/pos-api/internal/presentation/http/dto/request"
	"github.com/ausadhi/pos-api/internal/presentation/http/dto/response"
)

// CheckoutHandler handles the checkout session HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateSession opens a checkout session for the authenticated cashier
// @Summary Open Checkout Session
// @Tags checkout
// @Security BearerAuth
// @Produce json
// @Success 201 {object} response.APIResponse
// @Router /checkout/sessions [post]
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	state, err := h.checkoutService.CreateSession(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Checkout session created", state)
}

// GetSession returns the current session state
// @Summary Get Checkout Session
// @Tags checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id} [get]
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	state, err := h.checkoutService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved", state)
}

// DeleteSession discards a session
// @Summary Discard Checkout Session
// @Tags checkout
// @Security BearerAuth
// @Success 204
// @Router /checkout/sessions/{id} [delete]
func (h *CheckoutHandler) DeleteSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	h.checkoutService.DeleteSession(c.Request.Context(), id)
	response.NoContent(c)
}

// AddItem adds one unit of a product to the cart
// @Summary Add Cart Item
// @Tags checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.AddItemRequest true "Product reference"
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/items [post]
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	state, err := h.checkoutService.AddItem(c.Request.Context(), id, req.ProductID, req.Barcode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", state)
}

// SetQuantity sets a cart line's quantity
// @Summary Set Cart Item Quantity
// @Tags checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.SetQuantityRequest true "Quantity"
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/items/{product_id} [put]
func (h *CheckoutHandler) SetQuantity(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}

	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	state, err := h.checkoutService.SetQuantity(c.Request.Context(), id, productID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated", state)
}

// RemoveItem removes a cart line
// @Summary Remove Cart Item
// @Tags checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/items/{product_id} [delete]
func (h *CheckoutHandler) RemoveItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		response.BadRequest(c, "Invalid product id")
		return
	}

	state, err := h.checkoutService.RemoveItem(c.Request.Context(), id, productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed", state)
}

// SetDiscount applies a discount to the session
// @Summary Set Discount
// @Tags checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.SetDiscountRequest true "Discount"
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/discount [put]
func (h *CheckoutHandler) SetDiscount(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// "none" clears the discount entirely.
	discount := checkout.Discount{}
	if req.Type != "none" {
		discount = checkout.Discount{
			Type:   checkout.DiscountType(req.Type),
			Value:  req.Value,
			Reason: req.Reason,
		}
	}

	state, err := h.checkoutService.SetDiscount(c.Request.Context(), id, discount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied", state)
}

// ClearCart empties the cart
// @Summary Clear Cart
// @Tags checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/items [delete]
func (h *CheckoutHandler) ClearCart(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	state, err := h.checkoutService.ClearCart(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart cleared", state)
}

// BeginCash opens a cash payment
// @Summary Begin Cash Payment
// @Tags checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/payments/cash [post]
func (h *CheckoutHandler) BeginCash(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	intent, err := h.checkoutService.BeginCash(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash payment started", intent)
}

// ConfirmCash confirms a cash payment with the tendered amount
// @Summary Confirm Cash Payment
// @Tags checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ConfirmCashRequest true "Tendered amount"
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/payments/cash/confirm [post]
func (h *CheckoutHandler) ConfirmCash(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.ConfirmCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.checkoutService.ConfirmCash(c.Request.Context(), id, req.CashReceived)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment complete", gin.H{"receipt": receipt})
}

// BeginQR opens a QR wallet payment
// @Summary Begin QR Payment
// @Tags checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.BeginQRRequest true "Wallet method"
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/payments/qr [post]
func (h *CheckoutHandler) BeginQR(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.BeginQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, err := h.checkoutService.BeginQR(c.Request.Context(), id, req.Method)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "QR payment started", status)
}

// QRStatus reports the state of the QR attempt; the till polls this
// @Summary QR Payment Status
// @Tags checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/payments/qr [get]
func (h *CheckoutHandler) QRStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	status, err := h.checkoutService.QRStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "QR status", status)
}

// RetryQR restarts an expired QR attempt
// @Summary Retry QR Payment
// @Tags checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/payments/qr/retry [post]
func (h *CheckoutHandler) RetryQR(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	status, err := h.checkoutService.RetryQR(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "QR payment restarted", status)
}

// ConfirmQR completes a QR payment, optionally with a manual transaction id
// @Summary Confirm QR Payment
// @Tags checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ConfirmQRRequest true "Confirmation"
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/payments/qr/confirm [post]
func (h *CheckoutHandler) ConfirmQR(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.ConfirmQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.checkoutService.ConfirmQR(c.Request.Context(), id, req.TransactionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment complete", gin.H{"receipt": receipt})
}

// CancelPayment abandons the open payment, keeping the cart
// @Summary Cancel Payment
// @Tags checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /checkout/sessions/{id}/payments [delete]
func (h *CheckoutHandler) CancelPayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	state, err := h.checkoutService.CancelPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment cancelled", state)
}
