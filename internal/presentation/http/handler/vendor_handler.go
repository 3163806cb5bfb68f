package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ausadhi/pos-api/internal/application/service"
	"github.com/ausadhi/pos-api/internal/domain/enum"
	"github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/internal/presentation/http/dto/request"
	"github.com/ausadhi/pos-api/internal/presentation/http/dto/response"
	"github.com/ausadhi/pos-api/pkg/pagination"
)

// VendorHandler handles supplier directory HTTP requests
type VendorHandler struct {
	vendorService *service.VendorService
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendorService *service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// List handles vendor listing
// @Summary List Vendors
// @Tags vendors
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	params.Validate()

	filter := &repository.VendorFilterParams{
		Pagination: params,
		Search:     c.Query("search"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.VendorStatus(statusStr)
		if !status.Valid() {
			response.BadRequest(c, "Invalid vendor status")
			return
		}
		filter.Status = &status
	}

	result, err := h.vendorService.ListVendors(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Vendors retrieved successfully", result)
}

// Create handles vendor creation
// @Summary Create Vendor
// @Tags vendors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateVendorRequest true "Vendor data"
// @Success 201 {object} response.APIResponse
// @Router /vendors [post]
func (h *VendorHandler) Create(c *gin.Context) {
	var req request.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), &service.CreateVendorInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Vendor created successfully", vendor)
}

// Get handles fetching a vendor by id
// @Summary Get Vendor
// @Tags vendors
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /vendors/{id} [get]
func (h *VendorHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid vendor id")
		return
	}

	vendor, err := h.vendorService.GetVendor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor retrieved successfully", vendor)
}

// Update handles vendor updates
// @Summary Update Vendor
// @Tags vendors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.UpdateVendorRequest true "Vendor data"
// @Success 200 {object} response.APIResponse
// @Router /vendors/{id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid vendor id")
		return
	}

	var req request.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateVendorInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}
	if req.Status != nil {
		status := enum.VendorStatus(*req.Status)
		input.Status = &status
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor updated successfully", vendor)
}

// Delete handles vendor deletion
// @Summary Delete Vendor
// @Tags vendors
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /vendors/{id} [delete]
func (h *VendorHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid vendor id")
		return
	}

	if err := h.vendorService.DeleteVendor(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor deleted successfully", nil)
}
