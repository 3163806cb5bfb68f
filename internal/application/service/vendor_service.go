package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ausadhi/pos-api/internal/domain/entity"
	"github.com/ausadhi/pos-api/internal/domain/enum"
	"github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/pkg/apperror"
	"github.com/ausadhi/pos-api/pkg/pagination"
)

// VendorService handles supplier directory operations
type VendorService struct {
	vendorRepo repository.VendorRepository
}

// NewVendorService creates a new vendor service
func NewVendorService(vendorRepo repository.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// CreateVendorInput represents the create vendor input
type CreateVendorInput struct {
	Name          string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
}

// CreateVendor adds a vendor to the directory
func (s *VendorService) CreateVendor(ctx context.Context, input *CreateVendorInput) (*entity.Vendor, error) {
	vendor := &entity.Vendor{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		Status:        enum.VendorStatusActive,
	}

	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, err
	}

	return vendor, nil
}

// UpdateVendorInput represents the update vendor input
type UpdateVendorInput struct {
	Name          *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	Status        *enum.VendorStatus
}

// UpdateVendor edits a vendor record
func (s *VendorService) UpdateVendor(ctx context.Context, id uuid.UUID, input *UpdateVendorInput) (*entity.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}

	if input.Name != nil && *input.Name != "" {
		vendor.Name = *input.Name
	}
	if input.ContactPerson != nil {
		vendor.ContactPerson = input.ContactPerson
	}
	if input.Phone != nil {
		vendor.Phone = input.Phone
	}
	if input.Email != nil {
		vendor.Email = input.Email
	}
	if input.Address != nil {
		vendor.Address = input.Address
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperror.NewBadRequestError("Invalid vendor status")
		}
		vendor.Status = *input.Status
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, err
	}

	return vendor, nil
}

// GetVendor returns a vendor by id
func (s *VendorService) GetVendor(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}
	return vendor, nil
}

// DeleteVendor soft-deletes a vendor
func (s *VendorService) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if vendor == nil {
		return apperror.NewNotFoundError("Vendor")
	}
	return s.vendorRepo.Delete(ctx, id)
}

// ListVendors returns a filtered, paginated vendor listing
func (s *VendorService) ListVendors(ctx context.Context, params *repository.VendorFilterParams) (*pagination.PaginatedResult[entity.Vendor], error) {
	vendors, total, err := s.vendorRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &pagination.PaginatedResult[entity.Vendor]{
		Items:      vendors,
		Pagination: pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total),
	}, nil
}
