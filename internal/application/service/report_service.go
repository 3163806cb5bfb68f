package service

import (
	"context"
	"time"

	"github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/pkg/apperror"
)

// ReportService produces sales aggregations for the reporting screens
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// DateRange is a parsed, inclusive report window
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses "2006-01-02" bounds, defaulting to the last 30 days.
// The end bound is pushed to end-of-day so same-day ranges work.
func ParseDateRange(startStr, endStr string) (*DateRange, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid start_date, expected YYYY-MM-DD")
		}
		start = parsed
	}
	if endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid end_date, expected YYYY-MM-DD")
		}
		end = parsed.Add(24*time.Hour - time.Second)
	}

	if end.Before(start) {
		return nil, apperror.NewBadRequestError("end_date must not be before start_date")
	}

	return &DateRange{Start: start, End: end}, nil
}

// SalesSummary returns revenue totals for the range
func (s *ReportService) SalesSummary(ctx context.Context, r *DateRange) (*repository.SalesSummaryResult, error) {
	return s.reportRepo.GetSalesSummary(ctx, r.Start, r.End)
}

// SalesByProduct returns the best selling products in the range
func (s *ReportService) SalesByProduct(ctx context.Context, r *DateRange, limit int) ([]repository.ProductSalesResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reportRepo.GetSalesByProduct(ctx, r.Start, r.End, limit)
}

// SalesByCashier returns per-cashier sales in the range
func (s *ReportService) SalesByCashier(ctx context.Context, r *DateRange) ([]repository.CashierSalesResult, error) {
	return s.reportRepo.GetSalesByCashier(ctx, r.Start, r.End)
}

// SalesByPaymentMethod returns the payment method split in the range
func (s *ReportService) SalesByPaymentMethod(ctx context.Context, r *DateRange) ([]repository.PaymentMethodSalesResult, error) {
	return s.reportRepo.GetSalesByPaymentMethod(ctx, r.Start, r.End)
}

// DailySales returns daily revenue for the last N days
func (s *ReportService) DailySales(ctx context.Context, days int) ([]repository.DailySalesResult, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	return s.reportRepo.GetDailySales(ctx, days)
}
