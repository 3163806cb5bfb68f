package service

import (
	"context"
	"time"

	"github.com/ausadhi/pos-api/internal/domain/entity"
	"github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/pkg/pagination"
)

// DashboardService aggregates the front-desk overview numbers
type DashboardService struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	reportRepo repository.ReportRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) *DashboardService {
	return &DashboardService{
		reportRepo:  reportRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
	}
}

// DashboardSummary is the overview block shown after login
type DashboardSummary struct {
	TodayRevenue      float64                       `json:"today_revenue"`
	TodayTransactions int                           `json:"today_transactions"`
	TodayItemsSold    int                           `json:"today_items_sold"`
	AverageSale       float64                       `json:"average_sale"`
	LowStockCount     int                           `json:"low_stock_count"`
	NearExpiryCount   int                           `json:"near_expiry_count"`
	RecentSales       []entity.Sale                 `json:"recent_sales"`
	WeeklySales       []repository.DailySalesResult `json:"weekly_sales"`
}

// GetSummary builds the dashboard in one call
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	summary, err := s.reportRepo.GetSalesSummary(ctx, startOfDay, now)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}

	nearExpiry, err := s.productRepo.GetNearExpiry(ctx, now.AddDate(0, 0, 90))
	if err != nil {
		return nil, err
	}

	recent, _, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 5},
		SortBy:     "sale_date",
		SortOrder:  "desc",
	})
	if err != nil {
		return nil, err
	}

	weekly, err := s.reportRepo.GetDailySales(ctx, 7)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TodayRevenue:      summary.Revenue,
		TodayTransactions: summary.TransactionCount,
		TodayItemsSold:    summary.ItemsSold,
		AverageSale:       summary.AverageSale,
		LowStockCount:     len(lowStock),
		NearExpiryCount:   len(nearExpiry),
		RecentSales:       recent,
		WeeklySales:       weekly,
	}, nil
}
