package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ausadhi/pos-api/internal/domain/entity"
	"github.com/ausadhi/pos-api/internal/domain/enum"
	"github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/pkg/apperror"
	"github.com/ausadhi/pos-api/pkg/email"
	"github.com/ausadhi/pos-api/pkg/pagination"
)

// SaleService handles the persisted sales history
type SaleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	emailSvc    *email.EmailService
	printerSvc  *PrinterService
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	emailSvc *email.EmailService,
	printerSvc *PrinterService,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		emailSvc:    emailSvc,
		printerSvc:  printerSvc,
	}
}

// ListSales returns a filtered, paginated sales listing
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &pagination.PaginatedResult[entity.Sale]{
		Items:      sales,
		Pagination: pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total),
	}, nil
}

// GetSale returns a sale with its line items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// VoidSale marks a completed sale as voided and restores the sold stock.
// A voided sale stays in the history; it only drops out of the revenue
// aggregations, which count completed sales.
func (s *SaleService) VoidSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.Status == enum.SaleStatusVoided {
		return nil, apperror.NewConflictError("Sale is already voided")
	}

	increments := make(map[uuid.UUID]int, len(sale.Items))
	for _, item := range sale.Items {
		increments[item.ProductID] += item.Quantity
	}
	if err := s.productRepo.AtomicIncrementBatch(ctx, increments); err != nil {
		return nil, err
	}

	if err := s.saleRepo.UpdateStatus(ctx, id, enum.SaleStatusVoided); err != nil {
		return nil, err
	}

	sale.Status = enum.SaleStatusVoided
	return sale, nil
}

// EmailReceipt sends the receipt of a persisted sale to the given address
func (s *SaleService) EmailReceipt(ctx context.Context, saleID uuid.UUID, toEmail string) error {
	if !s.emailSvc.IsConfigured() {
		return apperror.NewBadRequestError("Email is not configured")
	}

	receipt, err := s.printerSvc.ReceiptForSale(ctx, saleID)
	if err != nil {
		return err
	}

	receiptText := s.printerSvc.FormatReceiptText(receipt)
	return s.emailSvc.SendReceiptEmail(toEmail, receipt.Header.StoreName, receipt.TransactionID, receiptText)
}
